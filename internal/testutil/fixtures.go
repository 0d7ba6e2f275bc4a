package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"fintrack/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// TestPassword is the plain-text password of every fixture user.
const TestPassword = "Password123"

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:     email,
		Password:  string(hash),
		FirstName: "Test",
		LastName:  "User",
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestAccount creates a checking account with zero initial balance.
func CreateTestAccount(t *testing.T, db *gorm.DB, userID string) *models.Account {
	t.Helper()
	return CreateTestAccountWithBalance(t, db, userID, "0")
}

// CreateTestAccountWithBalance creates a checking account with the given
// initial balance, written as a decimal string such as "100.00".
func CreateTestAccountWithBalance(t *testing.T, db *gorm.DB, userID, initial string) *models.Account {
	t.Helper()

	account := &models.Account{
		UserID:         userID,
		Name:           fmt.Sprintf("Test Account %d", nextID()),
		Type:           "Checking",
		InitialBalance: decimal.RequireFromString(initial),
	}
	if err := db.Create(account).Error; err != nil {
		t.Fatalf("failed to create test account: %v", err)
	}
	return account
}

// CreateTestCategory creates an expense or income category.
func CreateTestCategory(t *testing.T, db *gorm.DB, userID string, isExpense bool) *models.Category {
	t.Helper()

	category := &models.Category{
		UserID:    userID,
		Name:      fmt.Sprintf("Test Category %d", nextID()),
		IsExpense: isExpense,
	}
	// IsExpense=false would be replaced by the column default on insert.
	if err := db.Select("*").Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestTransaction creates a transaction dated today with the given
// signed amount, written as a decimal string such as "-20.00".
func CreateTestTransaction(t *testing.T, db *gorm.DB, accountID, categoryID, amount string) *models.Transaction {
	t.Helper()
	return CreateTestTransactionOn(t, db, accountID, categoryID, amount, time.Now().UTC().Truncate(24*time.Hour))
}

// CreateTestTransactionOn creates a transaction on the given date.
func CreateTestTransactionOn(t *testing.T, db *gorm.DB, accountID, categoryID, amount string, date time.Time) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		Date:        date.UTC(),
		Amount:      decimal.RequireFromString(amount),
		Description: fmt.Sprintf("Test Transaction %d", nextID()),
		AccountID:   accountID,
		CategoryID:  categoryID,
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}
