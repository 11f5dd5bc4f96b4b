package service

import (
	"time"

	"github.com/Kha-Noob/liteflow-sub002/internal/model"
	"github.com/shopspring/decimal"
)

type CreatePaymentResult struct {
	PaymentURL    string    `json:"paymentUrl"`
	TransactionID string    `json:"transactionId"`
	ExpiresAt     time.Time `json:"expiresAt"`
}

type ReconciliationResult struct {
	TransactionID string                  `json:"transactionId"`
	Status        model.TransactionStatus `json:"status"`
	ResponseCode  string                  `json:"responseCode,omitempty"`
	Message       string                  `json:"message"`
	Replay        bool                    `json:"replay"`
}

type TransactionView struct {
	TransactionID   string                  `json:"transactionId"`
	Amount          decimal.Decimal         `json:"amount"`
	Method          string                  `json:"method"`
	Status          model.TransactionStatus `json:"status"`
	ResponseCode    *string                 `json:"responseCode,omitempty"`
	ReferenceNumber *string                 `json:"referenceNumber,omitempty"`
	Note            *string                 `json:"note,omitempty"`
	SessionID       *int64                  `json:"sessionId,omitempty"`
	OrderID         *int64                  `json:"orderId,omitempty"`
	CreatedAt       time.Time               `json:"createdAt"`
	SettledAt       *time.Time              `json:"settledAt,omitempty"`
}

func newTransactionView(tx *model.Transaction) TransactionView {
	return TransactionView{
		TransactionID:   tx.ID,
		Amount:          tx.Amount,
		Method:          tx.Method,
		Status:          tx.Status,
		ResponseCode:    tx.GatewayResponseCode,
		ReferenceNumber: tx.GatewayReferenceNumber,
		Note:            tx.Note,
		SessionID:       tx.LinkedSessionID,
		OrderID:         tx.LinkedOrderID,
		CreatedAt:       tx.CreatedAt,
		SettledAt:       tx.SettledAt,
	}
}
