package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Kha-Noob/liteflow-sub002/internal/config"
	"github.com/Kha-Noob/liteflow-sub002/internal/constants"
	"github.com/Kha-Noob/liteflow-sub002/internal/metrics"
	"github.com/Kha-Noob/liteflow-sub002/internal/model"
	"github.com/Kha-Noob/liteflow-sub002/internal/repository"
	"github.com/Kha-Noob/liteflow-sub002/pkg/paymentgateway"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	MessageAwaitingConfirmation = "awaiting gateway confirmation"
	MessageAlreadySettled       = "transaction already settled"
)

const (
	outcomeCompleted      = "completed"
	outcomeFailed         = "failed"
	outcomeAmountMismatch = "amount_mismatch"
	outcomeDeferred       = "deferred"
	outcomeReplay         = "replay"
	outcomeLostRace       = "lost_race"
	outcomeNotFound       = "not_found"
)

var errLostRace = errors.New("transaction settled concurrently")

type ReconcileService interface {
	Reconcile(ctx context.Context, callback VerifiedCallback, authoritative bool) (ReconciliationResult, error)
}

type reconcile struct {
	txManager    repository.TxManager
	transactions repository.TransactionRepository
	sessions     repository.SessionRepository
	orders       repository.OrderRepository
	tables       repository.TableRepository
	events       repository.SettlementEventRepository
	tolerance    decimal.Decimal
	clock        Clock
	metrics      *metrics.Metrics
	logger       *zap.Logger
}

func NewReconcileService(txManager repository.TxManager, transactions repository.TransactionRepository,
	sessions repository.SessionRepository, orders repository.OrderRepository, tables repository.TableRepository,
	events repository.SettlementEventRepository, cfg *config.Config, clock Clock, m *metrics.Metrics,
	logger *zap.Logger) ReconcileService {
	return &reconcile{
		txManager:    txManager,
		transactions: transactions,
		sessions:     sessions,
		orders:       orders,
		tables:       tables,
		events:       events,
		tolerance:    cfg.Reconcile.Tolerance(),
		clock:        clock,
		metrics:      m,
		logger:       logger,
	}
}

// settlement is the terminal state a callback asks for.
type settlement struct {
	status model.TransactionStatus
	note   string
}

// Reconcile moves a pending transaction to its terminal state at most once. Callbacks
// arriving after the transaction is terminal are answered from the stored record.
// A signed Return may settle too, whichever channel arrives first wins, but only the
// authoritative channel can settle a payment whose amount disagrees or cannot be read.
func (r *reconcile) Reconcile(ctx context.Context, callback VerifiedCallback, authoritative bool) (ReconciliationResult, error) {
	log := r.logger.With(
		zap.String("transactionID", callback.TransactionID),
		zap.String("channel", string(callback.Channel)),
		zap.String("responseCode", callback.ResponseCode))

	tx, err := r.transactions.GetByID(ctx, callback.TransactionID)
	if err != nil {
		if errors.Is(err, repository.ErrTransactionNotFound) {
			r.metrics.RecordReconciliation(outcomeNotFound)
			log.Warn("Callback references unknown transaction")
			return ReconciliationResult{}, NewServiceError(constants.ErrCodeTransactionNotFound, err)
		}
		log.Error("Failed to load transaction", zap.Error(err))
		return ReconciliationResult{}, NewServiceError(constants.ErrCodeInternalError, ErrDatabase)
	}

	if tx.Status.IsTerminal() {
		r.metrics.RecordReconciliation(outcomeReplay)
		log.Debug("Callback replayed for settled transaction", zap.String("status", string(tx.Status)))
		return replayResult(tx), nil
	}

	if !authoritative && (amountUnreadable(callback) || r.amountMismatch(callback, tx)) {
		r.metrics.RecordReconciliation(outcomeDeferred)
		log.Warn("Reported amount differs on non-authoritative channel, deferring",
			zap.String("reported", callback.Raw.Get(paymentgateway.ParamAmount)),
			zap.String("expected", tx.Amount.String()))
		return ReconciliationResult{
			TransactionID: tx.ID,
			Status:        model.TransactionStatusPending,
			ResponseCode:  callback.ResponseCode,
			Message:       MessageAwaitingConfirmation,
		}, nil
	}

	target, outcome := r.decide(callback, tx)
	now := r.clock.Now()

	err = r.txManager.WithTx(ctx, func(txCtx context.Context) error {
		return r.settle(txCtx, tx, callback, target, now)
	})
	if errors.Is(err, errLostRace) {
		return r.lostRace(ctx, tx.ID, log)
	}
	if err != nil {
		log.Error("Failed to settle transaction", zap.Error(err))
		return ReconciliationResult{}, NewServiceError(constants.ErrCodeInternalError, err)
	}

	r.metrics.RecordReconciliation(outcome)
	if target.status == model.TransactionStatusCompleted {
		r.metrics.RecordCascadeApplied()
	}

	log.Info("Transaction settled",
		zap.String("status", string(target.status)),
		zap.String("note", target.note))

	message := target.note
	if message == "" {
		_, message = paymentgateway.MapResponseCode(callback.ResponseCode)
	}

	return ReconciliationResult{
		TransactionID: tx.ID,
		Status:        target.status,
		ResponseCode:  callback.ResponseCode,
		Message:       message,
	}, nil
}

func (r *reconcile) amountMismatch(callback VerifiedCallback, tx *model.Transaction) bool {
	if callback.ReportedAmount == nil {
		return false
	}
	return callback.ReportedAmount.Sub(tx.Amount).Abs().GreaterThan(r.tolerance)
}

// amountUnreadable reports a callback that carried an amount field with no usable value.
func amountUnreadable(callback VerifiedCallback) bool {
	return callback.ReportedAmount == nil && callback.Raw.Has(paymentgateway.ParamAmount)
}

func (r *reconcile) decide(callback VerifiedCallback, tx *model.Transaction) (settlement, string) {
	if amountUnreadable(callback) {
		return settlement{
			status: model.TransactionStatusFailed,
			note:   fmt.Sprintf("amount unreadable: %q", callback.Raw.Get(paymentgateway.ParamAmount)),
		}, outcomeAmountMismatch
	}

	if r.amountMismatch(callback, tx) {
		return settlement{
			status: model.TransactionStatusFailed,
			note: fmt.Sprintf("amount mismatch: reported %s, expected %s",
				callback.ReportedAmount.StringFixed(2), tx.Amount.StringFixed(2)),
		}, outcomeAmountMismatch
	}

	outcome, message := paymentgateway.MapResponseCode(callback.ResponseCode)
	switch outcome {
	case paymentgateway.OutcomeSuccess:
		if callback.TransactionStatus != "" && callback.TransactionStatus != paymentgateway.ResponseCodeSuccess {
			return settlement{
				status: model.TransactionStatusFailed,
				note:   "transaction status " + callback.TransactionStatus,
			}, outcomeFailed
		}
		return settlement{status: model.TransactionStatusCompleted}, outcomeCompleted
	default:
		return settlement{status: model.TransactionStatusFailed, note: message}, outcomeFailed
	}
}

func (r *reconcile) settle(ctx context.Context, tx *model.Transaction, callback VerifiedCallback,
	target settlement, now time.Time) error {
	err := r.transactions.SettleFromPending(ctx, tx.ID, repository.SettleUpdate{
		Status:          target.status,
		ResponseCode:    callback.ResponseCode,
		ReferenceNumber: callback.ReferenceNumber,
		Note:            target.note,
		SettledAt:       now,
	})
	if errors.Is(err, repository.ErrNoRowsAffected) {
		return errLostRace
	}
	if err != nil {
		return err
	}

	if target.status == model.TransactionStatusCompleted {
		if err := r.applyCascade(ctx, tx, now); err != nil {
			return err
		}
	}

	return r.events.Create(ctx, &model.SettlementEvent{
		TransactionID: tx.ID,
		Status:        target.status,
		Amount:        tx.Amount,
		ResponseCode:  callback.ResponseCode,
		SessionID:     tx.LinkedSessionID,
		OrderID:       tx.LinkedOrderID,
		SettledAt:     now,
	})
}

// applyCascade closes the dining session the payment covers: session paid, its orders
// paid and served, table freed. Without a session only the linked order is marked.
func (r *reconcile) applyCascade(ctx context.Context, tx *model.Transaction, at time.Time) error {
	if tx.LinkedSessionID == nil {
		if tx.LinkedOrderID == nil {
			return nil
		}
		return r.orders.MarkPaid(ctx, *tx.LinkedOrderID, at)
	}

	sessionID := *tx.LinkedSessionID
	session, err := r.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return err
	}

	if err := r.sessions.MarkPaid(ctx, sessionID, at); err != nil {
		return err
	}

	if _, err := r.orders.MarkPaidBySessionID(ctx, sessionID, at); err != nil {
		return err
	}

	if session.TableID != nil {
		return r.tables.UpdateStatus(ctx, *session.TableID, model.TableStatusAvailable)
	}

	return nil
}

func (r *reconcile) lostRace(ctx context.Context, transactionID string, log *zap.Logger) (ReconciliationResult, error) {
	r.metrics.RecordReconciliation(outcomeLostRace)

	tx, err := r.transactions.GetByID(ctx, transactionID)
	if err != nil {
		log.Error("Failed to reload transaction after concurrent settlement", zap.Error(err))
		return ReconciliationResult{}, NewServiceError(constants.ErrCodeInternalError, ErrDatabase)
	}

	log.Debug("Concurrent callback settled the transaction first", zap.String("status", string(tx.Status)))

	return replayResult(tx), nil
}

func replayResult(tx *model.Transaction) ReconciliationResult {
	result := ReconciliationResult{
		TransactionID: tx.ID,
		Status:        tx.Status,
		Message:       MessageAlreadySettled,
		Replay:        true,
	}
	if tx.GatewayResponseCode != nil {
		result.ResponseCode = *tx.GatewayResponseCode
	}
	if tx.Note != nil {
		result.Message = *tx.Note
	}
	return result
}
