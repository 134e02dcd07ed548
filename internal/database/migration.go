package database

import (
	"fmt"

	"github.com/Flinmt/pinanca/internal/models"

	"gorm.io/gorm"
)

// AutoMigrate runs database schema migrations for all models.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Session{},
		&models.Category{},
		&models.DebtOrigin{},
		&models.Responsible{},
		&models.Debt{},
		&models.DebtInstallment{},
		&models.Transaction{},
		&models.AuditLog{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
