package publishers

import (
	"context"
	"encoding/json"

	"github.com/Kha-Noob/liteflow-sub002/internal/config"
	"github.com/Kha-Noob/liteflow-sub002/internal/metrics"
	"github.com/Kha-Noob/liteflow-sub002/internal/service"
	"github.com/Kha-Noob/liteflow-sub002/pkg/mq"
	"go.uber.org/zap"
)

const settlementMessageType = "payment.settled"

type SettlementPublisher interface {
	Publish(ctx context.Context) error
}

type settlementPublisher struct {
	service   service.SettlementQueueService
	publisher mq.Publisher
	queue     string
	batchSize int
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

func NewSettlementPublisher(service service.SettlementQueueService, publisher mq.Publisher, cfg *config.Config,
	m *metrics.Metrics, logger *zap.Logger) SettlementPublisher {
	return &settlementPublisher{
		service:   service,
		publisher: publisher,
		queue:     cfg.Publisher.Queue,
		batchSize: cfg.Publisher.BatchSize,
		metrics:   m,
		logger:    logger,
	}
}

// Publish drains one batch of the outbox. A row is marked published only after the broker
// confirmed it, so delivery is at least once.
func (s *settlementPublisher) Publish(ctx context.Context) error {
	settlements, err := s.service.FindSettlementsToPublish(ctx, s.batchSize)
	if err != nil {
		return err
	}

	if len(settlements) == 0 {
		return nil
	}

	s.logger.Info("Publishing settlements", zap.Int("count", len(settlements)))

	successCount := 0
	for _, settlement := range settlements {
		body, err := json.Marshal(settlement)
		if err != nil {
			s.logger.Error("Failed to encode settlement",
				zap.Error(err), zap.Int64("eventID", settlement.EventID))
			continue
		}

		msg := mq.Message{
			ID:        settlement.TransactionID,
			Type:      settlementMessageType,
			Body:      body,
			Timestamp: settlement.SettledAt,
		}

		if err := s.publisher.Publish(ctx, "", s.queue, msg); err != nil {
			s.metrics.RecordSettlementPublished("error")
			s.logger.Error("Failed to publish settlement",
				zap.Error(err),
				zap.Int64("eventID", settlement.EventID),
				zap.String("transactionID", settlement.TransactionID))
			continue
		}

		if err := s.service.MarkSettlementPublished(ctx, settlement.EventID); err != nil {
			s.logger.Error("Failed to mark settlement published",
				zap.Error(err), zap.Int64("eventID", settlement.EventID))
			continue
		}

		s.metrics.RecordSettlementPublished("success")
		successCount++
	}

	if successCount > 0 {
		s.logger.Info("Successfully published settlements",
			zap.Int("published", successCount),
			zap.Int("total", len(settlements)))
	}

	return nil
}
