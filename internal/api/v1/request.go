package v1

import "github.com/shopspring/decimal"

type CreatePaymentRequest struct {
	SessionID   *int64          `json:"sessionId" validate:"omitempty,gt=0"`
	TableID     *int64          `json:"tableId" validate:"omitempty,gt=0"`
	OrderID     *int64          `json:"orderId" validate:"omitempty,gt=0"`
	Amount      decimal.Decimal `json:"amount" validate:"required,amount"`
	Description string          `json:"description" validate:"max=255"`
	BankCode    string          `json:"bankCode" validate:"omitempty,alphanum,max=20"`
	InitiatedBy string          `json:"initiatedBy" validate:"omitempty,max=64"`
}
