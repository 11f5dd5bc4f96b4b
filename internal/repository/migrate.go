package repository

import (
	"github.com/Kha-Noob/liteflow-sub002/internal/model"
	"gorm.io/gorm"
)

// Migrate creates the tables owned by this service. Sessions, orders and tables belong to
// the order subsystem and are expected to exist already.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&model.Transaction{}, &model.SettlementEvent{})
}
