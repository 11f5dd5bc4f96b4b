package service

import (
	"errors"

	"github.com/Kha-Noob/liteflow-sub002/internal/constants"
	"github.com/Kha-Noob/liteflow-sub002/internal/metrics"
	"github.com/Kha-Noob/liteflow-sub002/pkg/paymentgateway"
	"go.uber.org/zap"
)

// CallbackValidator authenticates raw gateway callbacks. Both channels hand over the query
// string exactly as it arrived on the wire.
type CallbackValidator interface {
	ValidateReturn(rawQuery string) (VerifiedCallback, error)
	ValidateIPN(rawQuery string) (VerifiedCallback, error)
}

type callbackValidator struct {
	gateway paymentgateway.Gateway
	metrics *metrics.Metrics
	logger  *zap.Logger
}

func NewCallbackValidator(gateway paymentgateway.Gateway, m *metrics.Metrics, logger *zap.Logger) CallbackValidator {
	return &callbackValidator{gateway: gateway, metrics: m, logger: logger}
}

func (c *callbackValidator) ValidateReturn(rawQuery string) (VerifiedCallback, error) {
	return c.validate(ChannelReturn, rawQuery)
}

func (c *callbackValidator) ValidateIPN(rawQuery string) (VerifiedCallback, error) {
	return c.validate(ChannelIPN, rawQuery)
}

func (c *callbackValidator) validate(channel Channel, rawQuery string) (VerifiedCallback, error) {
	callback, err := c.gateway.VerifyCallback(rawQuery)
	if err != nil {
		switch {
		case errors.Is(err, paymentgateway.ErrInvalidSignature):
			c.metrics.RecordSignatureFailure(string(channel))
			c.logger.Warn("Rejected callback with invalid signature",
				zap.String("channel", string(channel)), zap.Error(err))
			return VerifiedCallback{}, NewServiceError(constants.ErrCodeInvalidSignature, err)
		case errors.Is(err, paymentgateway.ErrMalformedCallback):
			c.logger.Warn("Rejected malformed callback",
				zap.String("channel", string(channel)), zap.Error(err))
			return VerifiedCallback{}, NewServiceError(constants.ErrCodeMalformedCallback, err)
		default:
			c.logger.Error("Failed to verify callback",
				zap.String("channel", string(channel)), zap.Error(err))
			return VerifiedCallback{}, NewServiceError(constants.ErrCodeInternalError, err)
		}
	}

	return VerifiedCallback{
		Channel:           channel,
		TransactionID:     callback.TxnRef,
		ResponseCode:      callback.ResponseCode,
		TransactionStatus: callback.TransactionStatus,
		ReferenceNumber:   callback.TransactionNo,
		BankCode:          callback.BankCode,
		PayDate:           callback.PayDate,
		ReportedAmount:    callback.ReportedAmount,
		Raw:               callback.Raw,
	}, nil
}
