package testutil_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/testutil"
)

func TestSetupTestDB(t *testing.T) {
	db := testutil.SetupTestDB(t)

	// Verify all tables exist by doing a simple count query on each model.
	var count int64
	for _, table := range []string{"users", "accounts", "categories", "transactions", "audit_logs"} {
		if err := db.Table(table).Count(&count).Error; err != nil {
			t.Errorf("table %q should exist after migration: %v", table, err)
		}
	}
}

func TestSetupTestDB_Isolated(t *testing.T) {
	first := testutil.SetupTestDB(t)
	testutil.CreateTestUser(t, first)

	second := testutil.SetupTestDB(t)
	var count int64
	if err := second.Model(&models.User{}).Count(&count).Error; err != nil {
		t.Fatalf("count users: %v", err)
	}
	if count != 0 {
		t.Errorf("expected a fresh database, found %d users", count)
	}
}

func TestFixtures(t *testing.T) {
	db := testutil.SetupTestDB(t)

	user := testutil.CreateTestUser(t, db)
	if user.ID == "" {
		t.Fatal("user should have an ID")
	}

	account := testutil.CreateTestAccountWithBalance(t, db, user.ID, "100.00")
	if !account.InitialBalance.Equal(decimal.NewFromInt(100)) {
		t.Errorf("expected initial balance 100, got %s", account.InitialBalance)
	}

	income := testutil.CreateTestCategory(t, db, user.ID, false)
	var reloaded models.Category
	if err := db.First(&reloaded, "id = ?", income.ID).Error; err != nil {
		t.Fatalf("reload category: %v", err)
	}
	if reloaded.IsExpense {
		t.Error("expected income category to stay income after insert")
	}

	date := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	tx := testutil.CreateTestTransactionOn(t, db, account.ID, income.ID, "-20.50", date)
	if !tx.Amount.Equal(decimal.RequireFromString("-20.5")) {
		t.Errorf("expected amount -20.50, got %s", tx.Amount)
	}
	if !tx.Date.Equal(date) {
		t.Errorf("expected date %v, got %v", date, tx.Date)
	}
}

func TestForeignKeysEnforced(t *testing.T) {
	db := testutil.SetupTestDB(t)

	tx := &models.Transaction{
		Amount:      decimal.NewFromInt(1),
		Description: "orphan",
		AccountID:   "0190a5d2-7c3e-7b1a-9f00-000000000001",
		CategoryID:  "0190a5d2-7c3e-7b1a-9f00-000000000002",
	}
	if err := db.Create(tx).Error; err == nil {
		t.Fatal("expected foreign key violation for dangling references")
	}
}

func TestAssertAppError(t *testing.T) {
	err := errors.WithMessage(errors.ErrAccountNotFound, "custom message")
	testutil.AssertAppError(t, err, "ACCOUNT_NOT_FOUND")
}

func TestAssertNoError(t *testing.T) {
	testutil.AssertNoError(t, nil)
}
