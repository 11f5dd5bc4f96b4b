package mocks

import (
	"context"
	"time"

	"github.com/Kha-Noob/liteflow-sub002/internal/model"
	"github.com/stretchr/testify/mock"
)

type SettlementEventRepository struct {
	mock.Mock
}

func (m *SettlementEventRepository) Create(ctx context.Context, event *model.SettlementEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *SettlementEventRepository) FindUnpublished(ctx context.Context, limit int) ([]model.SettlementEvent, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]model.SettlementEvent), args.Error(1)
}

func (m *SettlementEventRepository) MarkPublished(ctx context.Context, id int64, publishedAt time.Time) error {
	args := m.Called(ctx, id, publishedAt)
	return args.Error(0)
}
