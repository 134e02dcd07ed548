package repository

import (
	"testing"
	"time"

	"github.com/Flinmt/pinanca/internal/models"
)

func TestDebtCreate_Validation(t *testing.T) {
	db := openTestDB(t)
	user := seedUser(t, db, "alice")
	origin := seedOrigin(t, db, user.ID, "Credit Card")
	repo := NewDebtRepository(db)

	testCases := []struct {
		name string
		debt models.Debt
	}{
		{"missing user", models.Debt{OriginID: origin.ID, DebtDate: day(2025, time.January, 1), TotalAmount: 100, Installments: 1}},
		{"missing origin", models.Debt{UserID: user.ID, DebtDate: day(2025, time.January, 1), TotalAmount: 100, Installments: 1}},
		{"missing date", models.Debt{UserID: user.ID, OriginID: origin.ID, TotalAmount: 100, Installments: 1}},
		{"zero amount", models.Debt{UserID: user.ID, OriginID: origin.ID, DebtDate: day(2025, time.January, 1), TotalAmount: 0, Installments: 1}},
		{"negative amount", models.Debt{UserID: user.ID, OriginID: origin.ID, DebtDate: day(2025, time.January, 1), TotalAmount: -5, Installments: 1}},
		{"zero installments", models.Debt{UserID: user.ID, OriginID: origin.ID, DebtDate: day(2025, time.January, 1), TotalAmount: 100, Installments: 0}},
	}

	for _, tc := range testCases {
		debt := tc.debt
		err := repo.Create(&debt)
		if !IsValidation(err) {
			t.Errorf("%s: Create() error = %v, want validation error", tc.name, err)
		}
	}

	// nothing may have been persisted by the rejected writes
	var count int64
	db.Model(&models.Debt{}).Count(&count)
	if count != 0 {
		t.Errorf("invalid creates persisted %d debts, want 0", count)
	}
}

func TestDebtCreate_UnknownReferences(t *testing.T) {
	db := openTestDB(t)
	user := seedUser(t, db, "alice")
	origin := seedOrigin(t, db, user.ID, "Credit Card")
	repo := NewDebtRepository(db)

	missing := uint(999)
	testCases := []struct {
		name string
		debt models.Debt
	}{
		{"unknown origin", models.Debt{UserID: user.ID, OriginID: missing, DebtDate: day(2025, time.January, 1), TotalAmount: 100, Installments: 1}},
		{"unknown category", models.Debt{UserID: user.ID, OriginID: origin.ID, CategoryID: &missing, DebtDate: day(2025, time.January, 1), TotalAmount: 100, Installments: 1}},
		{"unknown responsible", models.Debt{UserID: user.ID, OriginID: origin.ID, ResponsibleID: &missing, DebtDate: day(2025, time.January, 1), TotalAmount: 100, Installments: 1}},
	}

	for _, tc := range testCases {
		debt := tc.debt
		err := repo.Create(&debt)
		if !IsReference(err) {
			t.Errorf("%s: Create() error = %v, want reference error", tc.name, err)
		}
	}
}

func TestDebtCreate_CrossUserReference(t *testing.T) {
	db := openTestDB(t)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	bobsOrigin := seedOrigin(t, db, bob.ID, "Bank Loan")
	repo := NewDebtRepository(db)

	debt := models.Debt{
		UserID:       alice.ID,
		OriginID:     bobsOrigin.ID,
		DebtDate:     day(2025, time.January, 1),
		TotalAmount:  100,
		Installments: 1,
	}
	if err := repo.Create(&debt); !IsReference(err) {
		t.Errorf("Create() with another user's origin error = %v, want reference error", err)
	}
}

func TestDebtListByFilters(t *testing.T) {
	db := openTestDB(t)
	user := seedUser(t, db, "alice")
	other := seedUser(t, db, "bob")
	origin := seedOrigin(t, db, user.ID, "Credit Card")
	origin2 := seedOrigin(t, db, user.ID, "Bank Loan")
	otherOrigin := seedOrigin(t, db, other.ID, "Store")
	repo := NewDebtRepository(db)

	d1 := seedDebt(t, db, user.ID, origin.ID, day(2025, time.January, 10), 10000, 2)
	d2 := seedDebt(t, db, user.ID, origin2.ID, day(2025, time.February, 5), 20000, 6)
	d3 := seedDebt(t, db, user.ID, origin.ID, day(2025, time.March, 1), 5000, 1)
	d3.Paid = true
	db.Save(d3)
	seedDebt(t, db, other.ID, otherOrigin.ID, day(2025, time.January, 20), 999, 1)

	// no filters: only the user's debts, ordered by date then id
	debts, err := repo.ListByFilters(user.ID, DebtFilters{})
	if err != nil {
		t.Fatalf("ListByFilters() error = %v", err)
	}
	if len(debts) != 3 {
		t.Fatalf("got %d debts, want 3", len(debts))
	}
	wantOrder := []uint{d1.ID, d2.ID, d3.ID}
	for i, d := range debts {
		if d.ID != wantOrder[i] {
			t.Errorf("position %d: got debt %d, want %d", i, d.ID, wantOrder[i])
		}
	}

	// filters compose with AND
	paid := false
	min := 2
	start := day(2025, time.January, 15)
	debts, err = repo.ListByFilters(user.ID, DebtFilters{
		Paid:            &paid,
		InstallmentsMin: &min,
		StartDate:       &start,
	})
	if err != nil {
		t.Fatalf("ListByFilters() error = %v", err)
	}
	if len(debts) != 1 || debts[0].ID != d2.ID {
		t.Errorf("AND filters returned %v, want only debt %d", debtIDs(debts), d2.ID)
	}

	// origin filter
	debts, err = repo.ListByFilters(user.ID, DebtFilters{OriginID: &origin.ID})
	if err != nil {
		t.Fatalf("ListByFilters() error = %v", err)
	}
	if len(debts) != 2 {
		t.Errorf("origin filter returned %d debts, want 2", len(debts))
	}
}

func debtIDs(debts []models.Debt) []uint {
	ids := make([]uint, len(debts))
	for i, d := range debts {
		ids[i] = d.ID
	}
	return ids
}

func TestDebtUpdate_PersistsPaidFlag(t *testing.T) {
	db := openTestDB(t)
	user := seedUser(t, db, "alice")
	origin := seedOrigin(t, db, user.ID, "Credit Card")
	repo := NewDebtRepository(db)

	debt := seedDebt(t, db, user.ID, origin.ID, day(2025, time.January, 10), 10000, 2)
	debt.Paid = true
	debt.TotalAmount = 15000
	if err := repo.Update(debt); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	got, err := repo.GetByID(debt.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if !got.Paid {
		t.Error("paid flag not persisted")
	}
	if got.TotalAmount != 15000 {
		t.Errorf("total = %d, want 15000", got.TotalAmount)
	}
}

func TestDebtDelete_BlockedByInstallments(t *testing.T) {
	db := openTestDB(t)
	user := seedUser(t, db, "alice")
	origin := seedOrigin(t, db, user.ID, "Credit Card")
	repo := NewDebtRepository(db)

	debt := seedDebt(t, db, user.ID, origin.ID, day(2025, time.January, 10), 10000, 1)
	inst := models.DebtInstallment{DebtID: debt.ID, Number: 1, Amount: 10000, DueOn: day(2025, time.January, 10)}
	if err := db.Create(&inst).Error; err != nil {
		t.Fatalf("create installment: %v", err)
	}

	if err := repo.Delete(debt.ID); !IsConflict(err) {
		t.Errorf("Delete() with installments error = %v, want conflict", err)
	}

	db.Delete(&inst)
	if err := repo.Delete(debt.ID); err != nil {
		t.Errorf("Delete() after clearing installments error = %v", err)
	}
}

func TestDebtGetByID_NotFound(t *testing.T) {
	db := openTestDB(t)
	repo := NewDebtRepository(db)

	if _, err := repo.GetByID(42); !IsNotFound(err) {
		t.Errorf("GetByID(42) error = %v, want not found", err)
	}
}
