package repository

import (
	"testing"
	"time"

	"github.com/Flinmt/pinanca/internal/models"
)

func TestInstallmentUpdate_PaidAtDerivation(t *testing.T) {
	db := openTestDB(t)
	user := seedUser(t, db, "alice")
	origin := seedOrigin(t, db, user.ID, "Credit Card")
	debt := seedDebt(t, db, user.ID, origin.ID, day(2025, time.January, 15), 10000, 1)
	repo := NewInstallmentRepository(db)

	inst := &models.DebtInstallment{DebtID: debt.ID, Number: 1, Amount: 10000, DueOn: day(2025, time.January, 15)}
	if err := repo.Create(inst); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// false -> true stamps paid_at
	inst.Paid = true
	if err := repo.Update(inst); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if inst.PaidAt == nil {
		t.Fatal("paid_at not set on false->true")
	}
	stamped := *inst.PaidAt

	// staying paid keeps the original timestamp
	inst.PaidAt = nil
	inst.Paid = true
	if err := repo.Update(inst); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if inst.PaidAt == nil || !inst.PaidAt.Equal(stamped) {
		t.Errorf("paid_at changed while staying paid: %v, want %v", inst.PaidAt, stamped)
	}

	// an explicit timestamp wins
	custom := day(2025, time.February, 1)
	inst.PaidAt = &custom
	if err := repo.Update(inst); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if !inst.PaidAt.Equal(custom) {
		t.Errorf("paid_at = %v, want explicit %v", inst.PaidAt, custom)
	}

	// true -> false clears it
	inst.Paid = false
	if err := repo.Update(inst); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if inst.PaidAt != nil {
		t.Errorf("paid_at = %v after unmarking, want nil", inst.PaidAt)
	}
}

func TestInstallmentCreate_Validation(t *testing.T) {
	db := openTestDB(t)
	user := seedUser(t, db, "alice")
	origin := seedOrigin(t, db, user.ID, "Credit Card")
	debt := seedDebt(t, db, user.ID, origin.ID, day(2025, time.January, 15), 10000, 1)
	repo := NewInstallmentRepository(db)

	testCases := []struct {
		name string
		inst models.DebtInstallment
	}{
		{"missing debt", models.DebtInstallment{Number: 1, Amount: 100, DueOn: day(2025, time.January, 15)}},
		{"zero number", models.DebtInstallment{DebtID: debt.ID, Number: 0, Amount: 100, DueOn: day(2025, time.January, 15)}},
		{"zero amount", models.DebtInstallment{DebtID: debt.ID, Number: 1, Amount: 0, DueOn: day(2025, time.January, 15)}},
		{"missing due date", models.DebtInstallment{DebtID: debt.ID, Number: 1, Amount: 100}},
	}
	for _, tc := range testCases {
		inst := tc.inst
		if err := repo.Create(&inst); !IsValidation(err) {
			t.Errorf("%s: Create() error = %v, want validation error", tc.name, err)
		}
	}

	bad := models.DebtInstallment{DebtID: 999, Number: 1, Amount: 100, DueOn: day(2025, time.January, 15)}
	if err := repo.Create(&bad); !IsReference(err) {
		t.Errorf("Create() with unknown debt error = %v, want reference error", err)
	}
}

func TestInstallmentListByDebt_Ordering(t *testing.T) {
	db := openTestDB(t)
	user := seedUser(t, db, "alice")
	origin := seedOrigin(t, db, user.ID, "Credit Card")
	debt := seedDebt(t, db, user.ID, origin.ID, day(2025, time.January, 15), 10000, 3)
	repo := NewInstallmentRepository(db)

	// insert out of order
	for _, n := range []int{3, 1, 2} {
		inst := models.DebtInstallment{DebtID: debt.ID, Number: n, Amount: 10000, DueOn: day(2025, time.Month(n), 15)}
		if err := repo.Create(&inst); err != nil {
			t.Fatalf("Create(#%d) error = %v", n, err)
		}
	}

	insts, err := repo.ListByDebt(debt.ID, 0, 0)
	if err != nil {
		t.Fatalf("ListByDebt() error = %v", err)
	}
	if len(insts) != 3 {
		t.Fatalf("got %d installments, want 3", len(insts))
	}
	for i, inst := range insts {
		if inst.Number != i+1 {
			t.Errorf("position %d: number = %d, want %d", i, inst.Number, i+1)
		}
	}
}

func TestInstallmentDelete_BlockedByPaymentRecord(t *testing.T) {
	db := openTestDB(t)
	user := seedUser(t, db, "alice")
	origin := seedOrigin(t, db, user.ID, "Credit Card")
	debt := seedDebt(t, db, user.ID, origin.ID, day(2025, time.January, 15), 10000, 1)
	repo := NewInstallmentRepository(db)

	inst := models.DebtInstallment{DebtID: debt.ID, Number: 1, Amount: 10000, DueOn: day(2025, time.January, 15)}
	if err := repo.Create(&inst); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	payment := models.Transaction{
		UserID:        user.ID,
		Amount:        10000,
		Type:          models.TxExpense,
		Periodicity:   models.PeriodicityNone,
		OccurredAt:    day(2025, time.January, 15),
		InstallmentID: &inst.ID,
	}
	if err := db.Create(&payment).Error; err != nil {
		t.Fatalf("create payment: %v", err)
	}

	if err := repo.Delete(inst.ID); !IsConflict(err) {
		t.Errorf("Delete() with payment record error = %v, want conflict", err)
	}
}
