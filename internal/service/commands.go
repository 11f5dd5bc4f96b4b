package service

import (
	"net/url"

	"github.com/shopspring/decimal"
)

type CreatePaymentCommand struct {
	SessionID   *int64
	TableID     *int64
	OrderID     *int64
	Amount      decimal.Decimal
	ClientIP    string
	InitiatedBy string
	Description string
	BankCode    string
}

type Channel string

const (
	ChannelReturn Channel = "return"
	ChannelIPN    Channel = "ipn"
)

// VerifiedCallback only exists for callbacks whose signature checked out.
type VerifiedCallback struct {
	Channel           Channel
	TransactionID     string
	ResponseCode      string
	TransactionStatus string
	ReferenceNumber   string
	BankCode          string
	PayDate           string
	ReportedAmount    *decimal.Decimal
	Raw               url.Values
}
