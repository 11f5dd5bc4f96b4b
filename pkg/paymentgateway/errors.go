package paymentgateway

import "errors"

const (
	ErrCodeInvalidSignature  = "INVALID_SIGNATURE"
	ErrCodeMalformedCallback = "MALFORMED_CALLBACK"
	ErrCodeInvalidAmount     = "INVALID_AMOUNT"
	ErrCodeInvalidConfig     = "INVALID_GATEWAY_CONFIG"
)

var (
	ErrInvalidSignature  = errors.New(ErrCodeInvalidSignature)
	ErrMalformedCallback = errors.New(ErrCodeMalformedCallback)
	ErrInvalidAmount     = errors.New(ErrCodeInvalidAmount)
	ErrInvalidConfig     = errors.New(ErrCodeInvalidConfig)
)

const ResponseCodeSuccess = "00"

type Outcome string

const (
	OutcomeSuccess Outcome = "SUCCESS"
	OutcomeFailure Outcome = "FAILURE"
	OutcomeUnknown Outcome = "UNKNOWN"
)

var failureCodeMessages = map[string]string{
	"07": "charged but flagged as suspicious",
	"09": "card or account not registered for internet banking",
	"10": "card or account authentication failed too many times",
	"11": "payment window expired",
	"12": "card or account is locked",
	"13": "wrong one-time password",
	"24": "customer cancelled the transaction",
	"51": "insufficient balance",
	"65": "daily transaction limit exceeded",
	"75": "issuing bank under maintenance",
	"79": "wrong payment password too many times",
	"99": "unspecified gateway error",
}

// MapResponseCode resolves every gateway response code to a determinate outcome.
func MapResponseCode(code string) (Outcome, string) {
	if code == ResponseCodeSuccess {
		return OutcomeSuccess, "transaction successful"
	}

	if msg, exists := failureCodeMessages[code]; exists {
		return OutcomeFailure, msg
	}

	return OutcomeUnknown, "unknown response code " + code
}
