package service

import (
	"context"
	"errors"
	"strings"

	"github.com/Kha-Noob/liteflow-sub002/internal/config"
	"github.com/Kha-Noob/liteflow-sub002/internal/constants"
	"github.com/Kha-Noob/liteflow-sub002/internal/metrics"
	"github.com/Kha-Noob/liteflow-sub002/internal/model"
	"github.com/Kha-Noob/liteflow-sub002/internal/repository"
	"github.com/Kha-Noob/liteflow-sub002/pkg/paymentgateway"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type PaymentRequestService interface {
	CreateRequest(ctx context.Context, cmd CreatePaymentCommand) (CreatePaymentResult, error)
	GetTransaction(ctx context.Context, transactionID string) (TransactionView, error)
}

type paymentRequest struct {
	gateway      paymentgateway.Gateway
	txManager    repository.TxManager
	transactions repository.TransactionRepository
	sessions     repository.SessionRepository
	tables       repository.TableRepository
	cfg          paymentgateway.Config
	clock        Clock
	metrics      *metrics.Metrics
	logger       *zap.Logger
}

func NewPaymentRequestService(gateway paymentgateway.Gateway, txManager repository.TxManager,
	transactions repository.TransactionRepository, sessions repository.SessionRepository,
	tables repository.TableRepository, cfg *config.Config, clock Clock, m *metrics.Metrics,
	logger *zap.Logger) PaymentRequestService {
	return &paymentRequest{
		gateway:      gateway,
		txManager:    txManager,
		transactions: transactions,
		sessions:     sessions,
		tables:       tables,
		cfg:          cfg.Gateway,
		clock:        clock,
		metrics:      m,
		logger:       logger,
	}
}

// NewTransactionID returns a v4 UUID without dashes, which fits the gateway's 32 character
// reference limit.
func NewTransactionID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

func (p *paymentRequest) CreateRequest(ctx context.Context, cmd CreatePaymentCommand) (CreatePaymentResult, error) {
	if err := p.validate(cmd); err != nil {
		p.metrics.RecordPaymentRequestError(constants.ErrCodeMalformedRequest)
		return CreatePaymentResult{}, NewServiceError(constants.ErrCodeMalformedRequest, err)
	}

	now := p.clock.Now()
	transactionID := NewTransactionID()

	description := cmd.Description
	if description == "" {
		description = p.cfg.DescriptionPrefix + " " + transactionID
	}

	request := paymentgateway.PaymentRequest{
		TxnRef:    transactionID,
		Amount:    cmd.Amount,
		OrderInfo: description,
		ClientIP:  cmd.ClientIP,
		BankCode:  cmd.BankCode,
		CreatedAt: now,
		ExpiresAt: now.Add(p.cfg.ExpireAfter),
	}

	paymentURL, err := p.gateway.BuildPaymentURL(request)
	if err != nil {
		p.metrics.RecordPaymentRequestError(constants.ErrCodeMalformedRequest)
		return CreatePaymentResult{}, NewServiceError(constants.ErrCodeMalformedRequest, err)
	}

	tx := &model.Transaction{
		ID:            transactionID,
		Amount:        cmd.Amount,
		Method:        model.PaymentMethodVNPay,
		Status:        model.TransactionStatusPending,
		Description:   description,
		ClientIP:      cmd.ClientIP,
		LinkedOrderID: cmd.OrderID,
		CreatedAt:     now,
	}
	if cmd.InitiatedBy != "" {
		tx.InitiatedBy = &cmd.InitiatedBy
	}

	err = p.txManager.WithTx(ctx, func(txCtx context.Context) error {
		sessionID, err := p.resolveSession(txCtx, cmd)
		if err != nil {
			return err
		}
		tx.LinkedSessionID = sessionID

		return p.transactions.Create(txCtx, tx)
	})
	if err != nil {
		return CreatePaymentResult{}, p.handleCreateError(err, transactionID)
	}

	p.metrics.RecordPaymentRequestCreated()
	p.logger.Info("Payment request created",
		zap.String("transactionID", transactionID),
		zap.String("amount", cmd.Amount.String()),
		zap.Int64p("sessionID", tx.LinkedSessionID),
		zap.Time("expiresAt", request.ExpiresAt))

	return CreatePaymentResult{
		PaymentURL:    paymentURL,
		TransactionID: transactionID,
		ExpiresAt:     request.ExpiresAt,
	}, nil
}

func (p *paymentRequest) validate(cmd CreatePaymentCommand) error {
	if !cmd.Amount.IsPositive() {
		return ErrAmountNotPositive
	}

	if cmd.SessionID == nil && cmd.TableID == nil {
		return ErrMissingTarget
	}

	_, err := paymentgateway.ToMinorUnits(cmd.Amount, p.cfg.AmountMultiplier)
	return err
}

// resolveSession returns the open session the payment settles. With only a table given it
// reuses the table's open session or opens one and marks the table occupied.
func (p *paymentRequest) resolveSession(ctx context.Context, cmd CreatePaymentCommand) (*int64, error) {
	if cmd.SessionID != nil {
		session, err := p.sessions.GetByID(ctx, *cmd.SessionID)
		if err != nil {
			return nil, err
		}
		if session.Status != model.SessionStatusOpen {
			return nil, NewServiceError(constants.ErrCodeSessionClosed,
				errors.New("session is not open"))
		}
		return &session.ID, nil
	}

	if _, err := p.tables.GetByID(ctx, *cmd.TableID); err != nil {
		return nil, err
	}

	session, err := p.sessions.FindOpenByTableID(ctx, *cmd.TableID)
	if err == nil {
		return &session.ID, nil
	}
	if !errors.Is(err, repository.ErrSessionNotFound) {
		return nil, err
	}

	session = &model.Session{
		TableID:   cmd.TableID,
		Status:    model.SessionStatusOpen,
		CheckinAt: p.clock.Now(),
	}
	if err := p.sessions.Create(ctx, session); err != nil {
		return nil, err
	}

	if err := p.tables.UpdateStatus(ctx, *cmd.TableID, model.TableStatusOccupied); err != nil {
		return nil, err
	}

	p.logger.Info("Opened session for table",
		zap.Int64("tableID", *cmd.TableID),
		zap.Int64("sessionID", session.ID))

	return &session.ID, nil
}

func (p *paymentRequest) handleCreateError(err error, transactionID string) error {
	var serviceErr Error
	if errors.As(err, &serviceErr) {
		p.metrics.RecordPaymentRequestError(serviceErr.Code)
		return err
	}

	code := constants.ErrCodeInternalError
	switch {
	case errors.Is(err, repository.ErrSessionNotFound):
		code = constants.ErrCodeSessionNotFound
	case errors.Is(err, repository.ErrTableNotFound):
		code = constants.ErrCodeTableNotFound
	case errors.Is(err, repository.ErrTransactionExists):
		code = constants.ErrCodeTransactionExists
	default:
		p.logger.Error("Failed to persist payment request",
			zap.String("transactionID", transactionID), zap.Error(err))
		p.metrics.RecordPaymentRequestError(code)
		return NewServiceError(code, ErrDatabase)
	}

	p.metrics.RecordPaymentRequestError(code)
	return NewServiceError(code, err)
}

func (p *paymentRequest) GetTransaction(ctx context.Context, transactionID string) (TransactionView, error) {
	tx, err := p.transactions.GetByID(ctx, transactionID)
	if errors.Is(err, repository.ErrTransactionNotFound) {
		return TransactionView{}, NewServiceError(constants.ErrCodeTransactionNotFound, err)
	}
	if err != nil {
		p.logger.Error("Failed to load transaction",
			zap.String("transactionID", transactionID), zap.Error(err))
		return TransactionView{}, NewServiceError(constants.ErrCodeInternalError, ErrDatabase)
	}

	return newTransactionView(tx), nil
}
