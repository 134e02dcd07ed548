package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/Flinmt/pinanca/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// openTestDB gives each test its own in-memory database. The DSN is
// keyed on the test name so parallel tests never share state.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{},
		&models.Session{},
		&models.Category{},
		&models.DebtOrigin{},
		&models.Responsible{},
		&models.Debt{},
		&models.DebtInstallment{},
		&models.Transaction{},
		&models.AuditLog{},
	)
	if err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

func seedUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{Username: username, PasswordHash: "x"}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("seed user %q: %v", username, err)
	}
	return user
}

func seedOrigin(t *testing.T, db *gorm.DB, userID uint, name string) *models.DebtOrigin {
	t.Helper()
	origin := &models.DebtOrigin{UserID: userID, Name: name}
	if err := db.Create(origin).Error; err != nil {
		t.Fatalf("seed origin %q: %v", name, err)
	}
	return origin
}

func seedCategory(t *testing.T, db *gorm.DB, userID uint, name string) *models.Category {
	t.Helper()
	cat := &models.Category{UserID: userID, Name: name}
	if err := db.Create(cat).Error; err != nil {
		t.Fatalf("seed category %q: %v", name, err)
	}
	return cat
}

func seedDebt(t *testing.T, db *gorm.DB, userID, originID uint, day time.Time, total int64, n int) *models.Debt {
	t.Helper()
	debt := &models.Debt{
		UserID:       userID,
		OriginID:     originID,
		DebtDate:     day,
		TotalAmount:  total,
		Installments: n,
	}
	if err := db.Create(debt).Error; err != nil {
		t.Fatalf("seed debt: %v", err)
	}
	return debt
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
