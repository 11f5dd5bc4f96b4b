package mocks

import (
	"context"

	"github.com/Kha-Noob/liteflow-sub002/internal/service"
	"github.com/Kha-Noob/liteflow-sub002/pkg/mq"
	"github.com/stretchr/testify/mock"
)

type PaymentRequestService struct {
	mock.Mock
}

func (m *PaymentRequestService) CreateRequest(ctx context.Context, cmd service.CreatePaymentCommand) (service.CreatePaymentResult, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(service.CreatePaymentResult), args.Error(1)
}

func (m *PaymentRequestService) GetTransaction(ctx context.Context, transactionID string) (service.TransactionView, error) {
	args := m.Called(ctx, transactionID)
	return args.Get(0).(service.TransactionView), args.Error(1)
}

type ReconcileService struct {
	mock.Mock
}

func (m *ReconcileService) Reconcile(ctx context.Context, callback service.VerifiedCallback, authoritative bool) (service.ReconciliationResult, error) {
	args := m.Called(ctx, callback, authoritative)
	return args.Get(0).(service.ReconciliationResult), args.Error(1)
}

type SettlementQueueService struct {
	mock.Mock
}

func (m *SettlementQueueService) FindSettlementsToPublish(ctx context.Context, limit int) ([]service.SettlementMessage, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]service.SettlementMessage), args.Error(1)
}

func (m *SettlementQueueService) MarkSettlementPublished(ctx context.Context, eventID int64) error {
	args := m.Called(ctx, eventID)
	return args.Error(0)
}

type Publisher struct {
	mock.Mock
}

func (m *Publisher) Publish(ctx context.Context, exchange string, routingKey string, msg mq.Message) error {
	args := m.Called(ctx, exchange, routingKey, msg)
	return args.Error(0)
}
