package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "PENDING"
	TransactionStatusCompleted TransactionStatus = "COMPLETED"
	TransactionStatusFailed    TransactionStatus = "FAILED"
)

func (s TransactionStatus) IsTerminal() bool {
	return s == TransactionStatusCompleted || s == TransactionStatusFailed
}

const PaymentMethodVNPay = "VNPAY"

// Transaction is never deleted. Amount and the links are write-once: the "<-:create"
// permission keeps gorm from ever including them in an UPDATE.
type Transaction struct {
	ID                     string            `gorm:"column:id;primaryKey;type:char(32);<-:create"`
	Amount                 decimal.Decimal   `gorm:"column:amount;type:decimal(18,2);not null;<-:create"`
	Method                 string            `gorm:"column:method;type:varchar(20);not null;<-:create"`
	Status                 TransactionStatus `gorm:"column:status;type:varchar(20);not null;index"`
	GatewayResponseCode    *string           `gorm:"column:gateway_response_code;type:varchar(10)"`
	GatewayReferenceNumber *string           `gorm:"column:gateway_reference_number;type:varchar(64)"`
	Note                   *string           `gorm:"column:note;type:text"`
	Description            string            `gorm:"column:description;type:varchar(255);<-:create"`
	ClientIP               string            `gorm:"column:client_ip;type:varchar(45);<-:create"`
	InitiatedBy            *string           `gorm:"column:initiated_by;type:varchar(64);<-:create"`
	LinkedOrderID          *int64            `gorm:"column:linked_order_id;index;<-:create"`
	LinkedSessionID        *int64            `gorm:"column:linked_session_id;index;<-:create"`
	CreatedAt              time.Time         `gorm:"column:created_at;<-:create"`
	SettledAt              *time.Time        `gorm:"column:settled_at"`
}

func (Transaction) TableName() string {
	return "payment_transactions"
}
