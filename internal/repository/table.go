package repository

import (
	"context"
	"errors"

	"github.com/Kha-Noob/liteflow-sub002/internal/model"
	"gorm.io/gorm"
)

var ErrTableNotFound = errors.New("TABLE_NOT_FOUND")

type TableRepository interface {
	GetByID(ctx context.Context, id int64) (*model.Table, error)
	UpdateStatus(ctx context.Context, id int64, status model.TableStatus) error
}

type table struct {
	db *gorm.DB
}

func NewTableRepository(db *gorm.DB) TableRepository {
	return &table{db: db}
}

func (t *table) GetByID(ctx context.Context, id int64) (*model.Table, error) {
	var tbl model.Table

	err := GetTx(ctx, t.db).Where("id = ?", id).First(&tbl).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTableNotFound
	}
	if err != nil {
		return nil, err
	}

	return &tbl, nil
}

func (t *table) UpdateStatus(ctx context.Context, id int64, status model.TableStatus) error {
	return GetTx(ctx, t.db).Model(&model.Table{}).
		Where("id = ?", id).
		Update("status", status).Error
}
