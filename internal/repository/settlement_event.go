package repository

import (
	"context"
	"time"

	"github.com/Kha-Noob/liteflow-sub002/internal/model"
	"gorm.io/gorm"
)

type SettlementEventRepository interface {
	Create(ctx context.Context, event *model.SettlementEvent) error
	FindUnpublished(ctx context.Context, limit int) ([]model.SettlementEvent, error)
	MarkPublished(ctx context.Context, id int64, publishedAt time.Time) error
}

type settlementEvent struct {
	db *gorm.DB
}

func NewSettlementEventRepository(db *gorm.DB) SettlementEventRepository {
	return &settlementEvent{db: db}
}

func (s *settlementEvent) Create(ctx context.Context, event *model.SettlementEvent) error {
	return GetTx(ctx, s.db).Create(event).Error
}

func (s *settlementEvent) FindUnpublished(ctx context.Context, limit int) ([]model.SettlementEvent, error) {
	var events []model.SettlementEvent

	err := GetTx(ctx, s.db).
		Where("published = ?", false).
		Order("id ASC").
		Limit(limit).
		Find(&events).Error
	if err != nil {
		return nil, err
	}

	return events, nil
}

func (s *settlementEvent) MarkPublished(ctx context.Context, id int64, publishedAt time.Time) error {
	return GetTx(ctx, s.db).Model(&model.SettlementEvent{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"published":    true,
			"published_at": publishedAt,
		}).Error
}
