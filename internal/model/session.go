package model

import "time"

// Dining sessions, orders and tables belong to the order subsystem. Only the columns the
// payment cascade reads or writes are mapped here.

type SessionStatus string

const (
	SessionStatusOpen SessionStatus = "OPEN"
	SessionStatusPaid SessionStatus = "PAID"
)

type Session struct {
	ID         int64         `gorm:"column:id;primaryKey;autoIncrement;<-:create"`
	TableID    *int64        `gorm:"column:table_id;index"`
	Status     SessionStatus `gorm:"column:status;type:varchar(20);not null"`
	CheckinAt  time.Time     `gorm:"column:checkin_at"`
	CheckoutAt *time.Time    `gorm:"column:checkout_at"`
}

func (Session) TableName() string {
	return "dining_sessions"
}

type OrderStatus string

const (
	OrderStatusServed OrderStatus = "SERVED"
)

type OrderPaymentStatus string

const (
	OrderPaymentStatusUnpaid OrderPaymentStatus = "UNPAID"
	OrderPaymentStatusPaid   OrderPaymentStatus = "PAID"
)

type Order struct {
	ID            int64              `gorm:"column:id;primaryKey;autoIncrement;<-:create"`
	SessionID     *int64             `gorm:"column:session_id;index"`
	Status        OrderStatus        `gorm:"column:status;type:varchar(20)"`
	PaymentStatus OrderPaymentStatus `gorm:"column:payment_status;type:varchar(20)"`
	UpdatedAt     time.Time          `gorm:"column:updated_at"`
}

func (Order) TableName() string {
	return "orders"
}

type TableStatus string

const (
	TableStatusAvailable TableStatus = "AVAILABLE"
	TableStatusOccupied  TableStatus = "OCCUPIED"
)

type Table struct {
	ID     int64       `gorm:"column:id;primaryKey;<-:create"`
	Name   string      `gorm:"column:name;type:varchar(50)"`
	Status TableStatus `gorm:"column:status;type:varchar(20)"`
}

func (Table) TableName() string {
	return "dining_tables"
}
