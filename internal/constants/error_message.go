package constants

import "net/http"

const MessageErrorFormat = "The '%s' format is invalid"

const (
	ErrCodeMalformedRequest    = "MALFORMED_REQUEST"
	ErrCodeInvalidRequestBody  = "INVALID_REQUEST_BODY"
	ErrCodeValidationFailed    = "VALIDATION_FAILED"
	ErrCodeSessionNotFound     = "SESSION_NOT_FOUND"
	ErrCodeSessionClosed       = "SESSION_CLOSED"
	ErrCodeTableNotFound       = "TABLE_NOT_FOUND"
	ErrCodeTransactionExists   = "TRANSACTION_EXISTS"
	ErrCodeTransactionNotFound = "TRANSACTION_NOT_FOUND"
	ErrCodeInvalidSignature    = "INVALID_SIGNATURE"
	ErrCodeMalformedCallback   = "MALFORMED_CALLBACK"
	ErrCodeInternalError       = "INTERNAL_ERROR"
)

const (
	ErrMsgMalformedRequest    = "payment request is malformed"
	ErrMsgInvalidRequestBody  = "failed to parse request body"
	ErrMsgValidationFailed    = "request validation failed"
	ErrMsgSessionNotFound     = "session not found"
	ErrMsgSessionClosed       = "session is already closed"
	ErrMsgTableNotFound       = "table not found"
	ErrMsgTransactionExists   = "transaction already exists"
	ErrMsgTransactionNotFound = "transaction not found"
	ErrMsgInvalidSignature    = "invalid signature"
	ErrMsgMalformedCallback   = "callback is missing required parameters"
	ErrMsgInternalError       = "Internal server error"
)

var errorMessages = map[string]string{
	ErrCodeMalformedRequest:    ErrMsgMalformedRequest,
	ErrCodeInvalidRequestBody:  ErrMsgInvalidRequestBody,
	ErrCodeValidationFailed:    ErrMsgValidationFailed,
	ErrCodeSessionNotFound:     ErrMsgSessionNotFound,
	ErrCodeSessionClosed:       ErrMsgSessionClosed,
	ErrCodeTableNotFound:       ErrMsgTableNotFound,
	ErrCodeTransactionExists:   ErrMsgTransactionExists,
	ErrCodeTransactionNotFound: ErrMsgTransactionNotFound,
	ErrCodeInvalidSignature:    ErrMsgInvalidSignature,
	ErrCodeMalformedCallback:   ErrMsgMalformedCallback,
	ErrCodeInternalError:       ErrMsgInternalError,
}

func GetErrorMessage(code string) string {
	if msg, exists := errorMessages[code]; exists {
		return msg
	}
	return ErrMsgInternalError
}

func GetHTTPStatus(code string) int {
	switch code {
	case ErrCodeMalformedRequest, ErrCodeInvalidRequestBody, ErrCodeValidationFailed,
		ErrCodeInvalidSignature, ErrCodeMalformedCallback:
		return http.StatusBadRequest
	case ErrCodeSessionNotFound, ErrCodeTableNotFound, ErrCodeTransactionNotFound:
		return http.StatusNotFound
	case ErrCodeSessionClosed, ErrCodeTransactionExists:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
