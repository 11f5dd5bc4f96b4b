package mocks

import (
	"github.com/Kha-Noob/liteflow-sub002/pkg/paymentgateway"
	"github.com/stretchr/testify/mock"
)

type PaymentGateway struct {
	mock.Mock
}

func (m *PaymentGateway) BuildPaymentURL(request paymentgateway.PaymentRequest) (string, error) {
	args := m.Called(request)
	return args.String(0), args.Error(1)
}

func (m *PaymentGateway) VerifyCallback(rawQuery string) (paymentgateway.Callback, error) {
	args := m.Called(rawQuery)
	return args.Get(0).(paymentgateway.Callback), args.Error(1)
}
