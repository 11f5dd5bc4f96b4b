package service

import (
	"context"
	"time"

	"github.com/Kha-Noob/liteflow-sub002/internal/repository"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// SettlementMessage is the payload published for every settled transaction.
type SettlementMessage struct {
	EventID       int64           `json:"eventId"`
	TransactionID string          `json:"transactionId"`
	Status        string          `json:"status"`
	Amount        decimal.Decimal `json:"amount"`
	ResponseCode  string          `json:"responseCode,omitempty"`
	SessionID     *int64          `json:"sessionId,omitempty"`
	OrderID       *int64          `json:"orderId,omitempty"`
	SettledAt     time.Time       `json:"settledAt"`
}

type SettlementQueueService interface {
	FindSettlementsToPublish(ctx context.Context, limit int) ([]SettlementMessage, error)
	MarkSettlementPublished(ctx context.Context, eventID int64) error
}

type settlementQueue struct {
	events repository.SettlementEventRepository
	clock  Clock
	logger *zap.Logger
}

func NewSettlementQueueService(events repository.SettlementEventRepository, clock Clock,
	logger *zap.Logger) SettlementQueueService {
	return &settlementQueue{events: events, clock: clock, logger: logger}
}

func (s *settlementQueue) FindSettlementsToPublish(ctx context.Context, limit int) ([]SettlementMessage, error) {
	s.logger.Debug("Finding settlements to publish", zap.Int("batchSize", limit))

	events, err := s.events.FindUnpublished(ctx, limit)
	if err != nil {
		s.logger.Error("Failed to find unpublished settlements", zap.Error(err))
		return nil, err
	}

	if len(events) == 0 {
		return nil, nil
	}

	messages := make([]SettlementMessage, 0, len(events))
	for _, event := range events {
		messages = append(messages, SettlementMessage{
			EventID:       event.ID,
			TransactionID: event.TransactionID,
			Status:        string(event.Status),
			Amount:        event.Amount,
			ResponseCode:  event.ResponseCode,
			SessionID:     event.SessionID,
			OrderID:       event.OrderID,
			SettledAt:     event.SettledAt,
		})
	}

	return messages, nil
}

func (s *settlementQueue) MarkSettlementPublished(ctx context.Context, eventID int64) error {
	if err := s.events.MarkPublished(ctx, eventID, s.clock.Now()); err != nil {
		s.logger.Error("Failed to mark settlement as published",
			zap.Error(err), zap.Int64("eventID", eventID))
		return err
	}

	s.logger.Debug("Marked settlement as published", zap.Int64("eventID", eventID))

	return nil
}
