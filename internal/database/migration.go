package database

import (
	"fmt"

	"github.com/chltlgns/household-ledger/internal/models"

	"gorm.io/gorm"
)

// AutoMigrate runs database schema migrations for all models.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Transaction{},
		&models.Memo{},
		&models.Tag{},
		&models.MerchantCategoryRule{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
