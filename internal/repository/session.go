package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Kha-Noob/liteflow-sub002/internal/model"
	"gorm.io/gorm"
)

var ErrSessionNotFound = errors.New("SESSION_NOT_FOUND")

type SessionRepository interface {
	Create(ctx context.Context, session *model.Session) error
	GetByID(ctx context.Context, id int64) (*model.Session, error)
	FindOpenByTableID(ctx context.Context, tableID int64) (*model.Session, error)
	MarkPaid(ctx context.Context, id int64, checkoutAt time.Time) error
}

type session struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &session{db: db}
}

func (s *session) Create(ctx context.Context, session *model.Session) error {
	return GetTx(ctx, s.db).Create(session).Error
}

func (s *session) GetByID(ctx context.Context, id int64) (*model.Session, error) {
	var ses model.Session

	err := GetTx(ctx, s.db).Where("id = ?", id).First(&ses).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}

	return &ses, nil
}

func (s *session) FindOpenByTableID(ctx context.Context, tableID int64) (*model.Session, error) {
	var ses model.Session

	err := GetTx(ctx, s.db).
		Where("table_id = ? AND status = ?", tableID, model.SessionStatusOpen).
		Order("checkin_at DESC").
		First(&ses).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}

	return &ses, nil
}

func (s *session) MarkPaid(ctx context.Context, id int64, checkoutAt time.Time) error {
	result := GetTx(ctx, s.db).Model(&model.Session{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":      model.SessionStatusPaid,
			"checkout_at": checkoutAt,
		})

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrSessionNotFound
	}

	return nil
}
