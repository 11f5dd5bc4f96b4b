package mocks

import (
	"context"

	"github.com/Kha-Noob/liteflow-sub002/internal/model"
	"github.com/Kha-Noob/liteflow-sub002/internal/repository"
	"github.com/stretchr/testify/mock"
)

type TransactionRepository struct {
	mock.Mock
}

func (m *TransactionRepository) Create(ctx context.Context, tx *model.Transaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *TransactionRepository) GetByID(ctx context.Context, id string) (*model.Transaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Transaction), args.Error(1)
}

func (m *TransactionRepository) SettleFromPending(ctx context.Context, id string, update repository.SettleUpdate) error {
	args := m.Called(ctx, id, update)
	return args.Error(0)
}
