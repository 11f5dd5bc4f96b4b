package repository

import (
	"context"
	"time"

	"github.com/Kha-Noob/liteflow-sub002/internal/model"
	"gorm.io/gorm"
)

type OrderRepository interface {
	MarkPaidBySessionID(ctx context.Context, sessionID int64, at time.Time) (int64, error)
	MarkPaid(ctx context.Context, orderID int64, at time.Time) error
}

type order struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &order{db: db}
}

func (o *order) MarkPaidBySessionID(ctx context.Context, sessionID int64, at time.Time) (int64, error) {
	result := GetTx(ctx, o.db).Model(&model.Order{}).
		Where("session_id = ?", sessionID).
		Updates(paidOrderValues(at))

	return result.RowsAffected, result.Error
}

func (o *order) MarkPaid(ctx context.Context, orderID int64, at time.Time) error {
	return GetTx(ctx, o.db).Model(&model.Order{}).
		Where("id = ?", orderID).
		Updates(paidOrderValues(at)).Error
}

func paidOrderValues(at time.Time) map[string]interface{} {
	return map[string]interface{}{
		"status":         model.OrderStatusServed,
		"payment_status": model.OrderPaymentStatusPaid,
		"updated_at":     at,
	}
}
