package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// SettlementEvent is the outbox row written in the same database transaction as a
// winning terminal transition.
type SettlementEvent struct {
	ID            int64             `gorm:"primaryKey;autoIncrement;<-:create"`
	TransactionID string            `gorm:"type:char(32);not null;uniqueIndex;<-:create"`
	Status        TransactionStatus `gorm:"type:varchar(20);not null;<-:create"`
	Amount        decimal.Decimal   `gorm:"type:decimal(18,2);not null;<-:create"`
	ResponseCode  string            `gorm:"type:varchar(10);<-:create"`
	SessionID     *int64            `gorm:"<-:create"`
	OrderID       *int64            `gorm:"<-:create"`
	SettledAt     time.Time         `gorm:"not null;<-:create"`
	Published     bool              `gorm:"default:false;not null;index"`
	PublishedAt   *time.Time        `gorm:"type:timestamp;null"`
	CreatedAt     time.Time         `gorm:"type:timestamp;default:CURRENT_TIMESTAMP"`
}
