package mocks

import (
	"context"
	"time"

	"github.com/Kha-Noob/liteflow-sub002/internal/model"
	"github.com/stretchr/testify/mock"
)

type SessionRepository struct {
	mock.Mock
}

func (m *SessionRepository) Create(ctx context.Context, session *model.Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *SessionRepository) GetByID(ctx context.Context, id int64) (*model.Session, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Session), args.Error(1)
}

func (m *SessionRepository) FindOpenByTableID(ctx context.Context, tableID int64) (*model.Session, error) {
	args := m.Called(ctx, tableID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Session), args.Error(1)
}

func (m *SessionRepository) MarkPaid(ctx context.Context, id int64, checkoutAt time.Time) error {
	args := m.Called(ctx, id, checkoutAt)
	return args.Error(0)
}

type OrderRepository struct {
	mock.Mock
}

func (m *OrderRepository) MarkPaidBySessionID(ctx context.Context, sessionID int64, at time.Time) (int64, error) {
	args := m.Called(ctx, sessionID, at)
	return args.Get(0).(int64), args.Error(1)
}

func (m *OrderRepository) MarkPaid(ctx context.Context, orderID int64, at time.Time) error {
	args := m.Called(ctx, orderID, at)
	return args.Error(0)
}

type TableRepository struct {
	mock.Mock
}

func (m *TableRepository) GetByID(ctx context.Context, id int64) (*model.Table, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Table), args.Error(1)
}

func (m *TableRepository) UpdateStatus(ctx context.Context, id int64, status model.TableStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}
