package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Kha-Noob/liteflow-sub002/internal/model"
	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

var (
	ErrTransactionExists   = errors.New("TRANSACTION_EXISTS")
	ErrTransactionNotFound = errors.New("TRANSACTION_NOT_FOUND")
	ErrNoRowsAffected      = errors.New("NO_ROWS_AFFECTED")
)

const mysqlDuplicateEntry = 1062

type SettleUpdate struct {
	Status          model.TransactionStatus
	ResponseCode    string
	ReferenceNumber string
	Note            string
	SettledAt       time.Time
}

type TransactionRepository interface {
	Create(ctx context.Context, tx *model.Transaction) error
	GetByID(ctx context.Context, id string) (*model.Transaction, error)
	SettleFromPending(ctx context.Context, id string, update SettleUpdate) error
}

type transaction struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &transaction{db: db}
}

func (t *transaction) Create(ctx context.Context, tx *model.Transaction) error {
	db := GetTx(ctx, t.db)
	err := db.Create(tx).Error
	if err == nil {
		return nil
	}

	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry {
		return ErrTransactionExists
	}

	return err
}

func (t *transaction) GetByID(ctx context.Context, id string) (*model.Transaction, error) {
	var tx model.Transaction

	err := GetTx(ctx, t.db).Where("id = ?", id).First(&tx).Error
	if err == nil {
		return &tx, nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTransactionNotFound
	}

	return nil, err
}

// SettleFromPending is a compare-and-swap on status. ErrNoRowsAffected means the row was
// no longer PENDING, i.e. another callback already settled it.
func (t *transaction) SettleFromPending(ctx context.Context, id string, update SettleUpdate) error {
	db := GetTx(ctx, t.db)

	values := map[string]interface{}{
		"status":                   update.Status,
		"gateway_response_code":    nullable(update.ResponseCode),
		"gateway_reference_number": nullable(update.ReferenceNumber),
		"note":                     nullable(update.Note),
		"settled_at":               update.SettledAt,
	}

	result := db.Model(&model.Transaction{}).
		Where("id = ? AND status = ?", id, model.TransactionStatusPending).
		Updates(values)

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrNoRowsAffected
	}

	return nil
}

func nullable(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
