package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/Flinmt/pinanca/internal/models"
	"github.com/Flinmt/pinanca/internal/repository"
	"github.com/Flinmt/pinanca/internal/scheduler"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

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
		&models.Category{},
		&models.DebtOrigin{},
		&models.Responsible{},
		&models.Debt{},
		&models.DebtInstallment{},
		&models.Transaction{},
	)
	if err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func seed(t *testing.T, db *gorm.DB) (*models.User, *models.DebtOrigin) {
	t.Helper()
	user := &models.User{Username: "alice", PasswordHash: "x"}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	origin := &models.DebtOrigin{UserID: user.ID, Name: "Credit Card"}
	if err := db.Create(origin).Error; err != nil {
		t.Fatalf("seed origin: %v", err)
	}
	return user, origin
}

// TestDebtLifecycle walks a debt from creation through a payment, an edit
// that regenerates the schedule, and a cascading removal.
func TestDebtLifecycle(t *testing.T) {
	db := openTestDB(t)
	user, origin := seed(t, db)
	svc := NewDebtService(db, scheduler.FullAmount)

	debt := &models.Debt{
		UserID:       user.ID,
		OriginID:     origin.ID,
		DebtDate:     day(2025, time.January, 15),
		Description:  "loan",
		TotalAmount:  30000, // 300.00
		Installments: 3,
	}
	if err := svc.CreateWithSchedule(debt); err != nil {
		t.Fatalf("CreateWithSchedule() error = %v", err)
	}

	instRepo := repository.NewInstallmentRepository(db)
	insts, err := instRepo.ListByDebt(debt.ID, 0, 0)
	if err != nil {
		t.Fatalf("ListByDebt() error = %v", err)
	}
	if len(insts) != 3 {
		t.Fatalf("got %d installments, want 3", len(insts))
	}
	wantDue := []time.Time{
		day(2025, time.January, 15),
		day(2025, time.February, 15),
		day(2025, time.March, 15),
	}
	for i, inst := range insts {
		if !inst.DueOn.Equal(wantDue[i]) {
			t.Errorf("installment %d due = %s, want %s",
				inst.Number, inst.DueOn.Format("2006-01-02"), wantDue[i].Format("2006-01-02"))
		}
		if inst.Amount != 30000 {
			t.Errorf("installment %d amount = %d, want 30000", inst.Number, inst.Amount)
		}
	}

	// pay installment #1
	paid, err := svc.SetInstallmentPaid(insts[0].ID, true)
	if err != nil {
		t.Fatalf("SetInstallmentPaid() error = %v", err)
	}
	if !paid.Paid || paid.PaidAt == nil {
		t.Fatalf("installment not marked paid: %+v", paid)
	}
	// the parent debt's manual flag is untouched
	got, err := repository.NewDebtRepository(db).GetByID(debt.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Paid {
		t.Error("debt paid flag changed by installment payment")
	}

	// shrinking the count regenerates the schedule and discards paid state
	debt.Installments = 2
	if err := svc.UpdateWithSchedule(debt); err != nil {
		t.Fatalf("UpdateWithSchedule() error = %v", err)
	}
	insts, err = instRepo.ListByDebt(debt.ID, 0, 0)
	if err != nil {
		t.Fatalf("ListByDebt() error = %v", err)
	}
	if len(insts) != 2 {
		t.Fatalf("after edit got %d installments, want 2", len(insts))
	}
	for _, inst := range insts {
		if inst.Paid || inst.PaidAt != nil {
			t.Errorf("installment %d kept paid state across regeneration", inst.Number)
		}
	}

	// plain delete is blocked, cascade clears everything
	if err := svc.Delete(debt.ID, false); !repository.IsConflict(err) {
		t.Errorf("Delete() without cascade error = %v, want conflict", err)
	}
	if err := svc.Delete(debt.ID, true); err != nil {
		t.Fatalf("Delete() with cascade error = %v", err)
	}
	var count int64
	db.Model(&models.DebtInstallment{}).Where("debt_id = ?", debt.ID).Count(&count)
	if count != 0 {
		t.Errorf("%d installments survived cascade delete", count)
	}
	if _, err := repository.NewDebtRepository(db).GetByID(debt.ID); !repository.IsNotFound(err) {
		t.Errorf("debt still present after cascade delete: %v", err)
	}
}

func TestUpdateWithSchedule_MetadataEditKeepsSchedule(t *testing.T) {
	db := openTestDB(t)
	user, origin := seed(t, db)
	svc := NewDebtService(db, scheduler.FullAmount)

	debt := &models.Debt{
		UserID:       user.ID,
		OriginID:     origin.ID,
		DebtDate:     day(2025, time.January, 15),
		TotalAmount:  10000,
		Installments: 2,
	}
	if err := svc.CreateWithSchedule(debt); err != nil {
		t.Fatalf("CreateWithSchedule() error = %v", err)
	}

	instRepo := repository.NewInstallmentRepository(db)
	insts, _ := instRepo.ListByDebt(debt.ID, 0, 0)
	if _, err := svc.SetInstallmentPaid(insts[0].ID, true); err != nil {
		t.Fatalf("SetInstallmentPaid() error = %v", err)
	}

	// description and the manual paid flag do not trigger a resync
	debt.Description = "renamed"
	debt.Paid = true
	if err := svc.UpdateWithSchedule(debt); err != nil {
		t.Fatalf("UpdateWithSchedule() error = %v", err)
	}

	insts, err := instRepo.ListByDebt(debt.ID, 0, 0)
	if err != nil {
		t.Fatalf("ListByDebt() error = %v", err)
	}
	if len(insts) != 2 {
		t.Fatalf("got %d installments, want 2", len(insts))
	}
	if !insts[0].Paid {
		t.Error("metadata edit wiped installment paid state")
	}
}

func TestRecordInstallmentPayment(t *testing.T) {
	db := openTestDB(t)
	user, origin := seed(t, db)
	svc := NewDebtService(db, scheduler.FullAmount)

	debt := &models.Debt{
		UserID:       user.ID,
		OriginID:     origin.ID,
		DebtDate:     day(2025, time.January, 15),
		TotalAmount:  10000,
		Installments: 2,
	}
	if err := svc.CreateWithSchedule(debt); err != nil {
		t.Fatalf("CreateWithSchedule() error = %v", err)
	}
	insts, _ := repository.NewInstallmentRepository(db).ListByDebt(debt.ID, 0, 0)

	payment, err := svc.RecordInstallmentPayment(user.ID, insts[0].ID, nil, "january payment")
	if err != nil {
		t.Fatalf("RecordInstallmentPayment() error = %v", err)
	}
	if payment.Type != models.TxExpense {
		t.Errorf("payment type = %q, want expense", payment.Type)
	}
	if payment.Amount != insts[0].Amount {
		t.Errorf("payment amount = %d, want %d", payment.Amount, insts[0].Amount)
	}
	if payment.InstallmentID == nil || *payment.InstallmentID != insts[0].ID {
		t.Errorf("payment installment link = %v, want %d", payment.InstallmentID, insts[0].ID)
	}

	inst, err := repository.NewInstallmentRepository(db).GetByID(insts[0].ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if !inst.Paid || inst.PaidAt == nil {
		t.Errorf("installment not marked paid: %+v", inst)
	}

	// another user cannot pay someone else's installment
	stranger := &models.User{Username: "mallory", PasswordHash: "x"}
	if err := db.Create(stranger).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	if _, err := svc.RecordInstallmentPayment(stranger.ID, insts[1].ID, nil, ""); !repository.IsNotFound(err) {
		t.Errorf("cross-user payment error = %v, want not found", err)
	}
}
