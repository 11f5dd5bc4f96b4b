package paymentgateway

import (
	"net/url"

	"github.com/shopspring/decimal"
)

// Callback is a gateway callback whose signature has been verified.
type Callback struct {
	TxnRef            string
	ResponseCode      string
	TransactionStatus string
	TransactionNo     string
	BankCode          string
	BankTranNo        string
	PayDate           string
	ReportedAmount    *decimal.Decimal
	Raw               url.Values
}
