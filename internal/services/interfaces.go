package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/models"
	"fintrack/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	Register(ctx context.Context, email, password, firstName, lastName string) (*models.User, error)
	VerifyCredentials(ctx context.Context, email, password string) (*models.User, error)
	GetUser(ctx context.Context, id string) (*models.User, error)
}

// AccountInput carries the mutable fields of an account. Updates replace all of them.
type AccountInput struct {
	Name           string
	Type           string
	InitialBalance decimal.Decimal
}

// AccountServicer defines the contract for account-related business logic.
type AccountServicer interface {
	ListAccounts(ctx context.Context, userID string) ([]AccountView, error)
	GetAccount(ctx context.Context, userID, accountID string) (*AccountView, error)
	CreateAccount(ctx context.Context, userID string, in AccountInput) (*AccountView, error)
	UpdateAccount(ctx context.Context, userID, accountID string, in AccountInput) error
	DeleteAccount(ctx context.Context, userID, accountID string) error
}

// CategoryInput carries the mutable fields of a category.
type CategoryInput struct {
	Name      string
	IsExpense bool
}

// CategoryServicer defines the contract for category-related business logic.
type CategoryServicer interface {
	ListCategories(ctx context.Context, userID string) ([]models.Category, error)
	GetCategory(ctx context.Context, userID, categoryID string) (*models.Category, error)
	CreateCategory(ctx context.Context, userID string, in CategoryInput) (*models.Category, error)
	UpdateCategory(ctx context.Context, userID, categoryID string, in CategoryInput) error
	DeleteCategory(ctx context.Context, userID, categoryID string) error
}

// TransactionInput carries the mutable fields of a transaction.
type TransactionInput struct {
	Date        time.Time
	Amount      decimal.Decimal
	Description string
	Notes       *string
	AccountID   string
	CategoryID  string
}

// TransactionFilter holds optional filter parameters for listing transactions.
// Date bounds are inclusive.
type TransactionFilter struct {
	FromDate   *time.Time
	ToDate     *time.Time
	AccountID  *string
	CategoryID *string
}

// Summary groupings.
const (
	GroupByCategory = "category"
	GroupByMonth    = "month"
)

// SummaryRequest selects the grouping and optional date range of a summary.
type SummaryRequest struct {
	GroupBy  string
	FromDate *time.Time
	ToDate   *time.Time
}

// TransactionServicer defines the contract for transaction-related business logic.
type TransactionServicer interface {
	ListTransactions(ctx context.Context, userID string, filter TransactionFilter, page *pagination.PageRequest) ([]TransactionView, int64, error)
	GetTransaction(ctx context.Context, userID, transactionID string) (*TransactionView, error)
	CreateTransaction(ctx context.Context, userID string, in TransactionInput) (*TransactionView, error)
	UpdateTransaction(ctx context.Context, userID, transactionID string, in TransactionInput) error
	DeleteTransaction(ctx context.Context, userID, transactionID string) error
	Summarize(ctx context.Context, userID string, req SummaryRequest) ([]TransactionSummary, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(ctx context.Context, userID, action, resourceType, resourceID, ipAddress string, changes map[string]interface{})
}
