package services

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"fintrack/internal/database"
	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
)

// accountService handles account-related business logic.
type accountService struct {
	db *gorm.DB
}

// NewAccountService creates a new AccountServicer.
func NewAccountService(db *gorm.DB) AccountServicer {
	return &accountService{db: db}
}

// ListAccounts returns every account owned by the user, ordered by name, with
// current balances derived from their transactions.
func (s *accountService) ListAccounts(ctx context.Context, userID string) ([]AccountView, error) {
	var accounts []models.Account
	if err := s.db.WithContext(ctx).
		Scopes(models.Account{}.OwnerScope(userID)).
		Order("name ASC, id ASC").
		Find(&accounts).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	ids := make([]string, len(accounts))
	for i := range accounts {
		ids[i] = accounts[i].ID
	}
	sums, err := s.transactionSums(ctx, ids)
	if err != nil {
		return nil, err
	}

	views := make([]AccountView, 0, len(accounts))
	for i := range accounts {
		views = append(views, newAccountView(&accounts[i], sums[accounts[i].ID]))
	}
	return views, nil
}

// GetAccount returns one owned account with its current balance.
func (s *accountService) GetAccount(ctx context.Context, userID, accountID string) (*AccountView, error) {
	account, err := findOwned[models.Account](ctx, s.db, userID, accountID, apperrors.ErrAccountNotFound)
	if err != nil {
		return nil, err
	}

	sums, err := s.transactionSums(ctx, []string{account.ID})
	if err != nil {
		return nil, err
	}
	view := newAccountView(account, sums[account.ID])
	return &view, nil
}

// CreateAccount creates an account for the user. A new account has no
// transactions, so its current balance equals its initial balance.
func (s *accountService) CreateAccount(ctx context.Context, userID string, in AccountInput) (*AccountView, error) {
	if err := validateAccountInput(in); err != nil {
		return nil, err
	}

	account := &models.Account{
		UserID:         userID,
		Name:           in.Name,
		Type:           in.Type,
		InitialBalance: roundMoney(in.InitialBalance),
	}
	if err := s.db.WithContext(ctx).Create(account).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	view := newAccountView(account, decimal.Zero)
	return &view, nil
}

// UpdateAccount replaces the name, type and initial balance of an owned account.
func (s *accountService) UpdateAccount(ctx context.Context, userID, accountID string, in AccountInput) error {
	if err := validateAccountInput(in); err != nil {
		return err
	}

	account, err := findOwned[models.Account](ctx, s.db, userID, accountID, apperrors.ErrAccountNotFound)
	if err != nil {
		return err
	}

	result := s.db.WithContext(ctx).
		Model(account).
		Scopes(models.Account{}.OwnerScope(userID)).
		Updates(map[string]interface{}{
			"name":            in.Name,
			"type":            in.Type,
			"initial_balance": roundMoney(in.InitialBalance),
		})
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return confirmStillOwned[models.Account](ctx, s.db, userID, accountID, apperrors.ErrAccountNotFound)
	}
	return nil
}

// DeleteAccount removes an owned account. Accounts that still have
// transactions cannot be deleted.
func (s *accountService) DeleteAccount(ctx context.Context, userID, accountID string) error {
	account, err := findOwned[models.Account](ctx, s.db, userID, accountID, apperrors.ErrAccountNotFound)
	if err != nil {
		return err
	}

	var refs int64
	if err := s.db.WithContext(ctx).Model(&models.Transaction{}).
		Where("account_id = ?", account.ID).
		Count(&refs).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if refs > 0 {
		return apperrors.ErrAccountHasTransactions
	}

	if err := s.db.WithContext(ctx).Delete(account).Error; err != nil {
		if database.IsForeignKeyViolation(err) {
			return apperrors.Wrap(apperrors.ErrAccountHasTransactions, err)
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// transactionSums returns the sum of transaction amounts per account ID.
// Accounts without transactions are absent from the map (zero value).
func (s *accountService) transactionSums(ctx context.Context, accountIDs []string) (map[string]decimal.Decimal, error) {
	sums := make(map[string]decimal.Decimal, len(accountIDs))
	if len(accountIDs) == 0 {
		return sums, nil
	}

	var rows []struct {
		AccountID string
		Amount    decimal.Decimal
	}
	if err := s.db.WithContext(ctx).Model(&models.Transaction{}).
		Select("account_id, amount").
		Where("account_id IN ?", accountIDs).
		Scan(&rows).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	for _, r := range rows {
		sums[r.AccountID] = sums[r.AccountID].Add(r.Amount)
	}
	return sums, nil
}

func validateAccountInput(in AccountInput) error {
	if in.Name == "" {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "account name is required")
	}
	if in.Type == "" {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "account type is required")
	}
	if in.InitialBalance.IsNegative() {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "initial balance must not be negative")
	}
	return nil
}
