package services

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"fintrack/internal/database"
	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/pagination"
)

// transactionService handles transaction-related business logic.
type transactionService struct {
	db *gorm.DB
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB) TransactionServicer {
	return &transactionService{db: db}
}

// withNames joins the account and category so views can carry their names.
func withNames(db *gorm.DB) *gorm.DB {
	return db.Joins("Account").Joins("Category")
}

// ListTransactions returns the user's transactions, newest first, with the
// total number matching the filter.
func (s *transactionService) ListTransactions(ctx context.Context, userID string, filter TransactionFilter, page *pagination.PageRequest) ([]TransactionView, int64, error) {
	base := s.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Scopes(models.Transaction{}.OwnerScope(userID))
	base = applyTransactionFilters(base, filter)

	var totalItems int64
	if err := base.Session(&gorm.Session{}).Count(&totalItems).Error; err != nil {
		return nil, 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var transactions []models.Transaction
	if err := base.Session(&gorm.Session{}).
		Scopes(withNames, pagination.Paginate(page)).
		Order("transactions.date DESC, transactions.id DESC").
		Find(&transactions).Error; err != nil {
		return nil, 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	views := make([]TransactionView, 0, len(transactions))
	for i := range transactions {
		views = append(views, newTransactionView(&transactions[i]))
	}
	return views, totalItems, nil
}

func applyTransactionFilters(q *gorm.DB, f TransactionFilter) *gorm.DB {
	if f.FromDate != nil {
		q = q.Where("transactions.date >= ?", f.FromDate.UTC())
	}
	if f.ToDate != nil {
		q = q.Where("transactions.date <= ?", f.ToDate.UTC())
	}
	if f.AccountID != nil {
		q = q.Where("transactions.account_id = ?", *f.AccountID)
	}
	if f.CategoryID != nil {
		q = q.Where("transactions.category_id = ?", *f.CategoryID)
	}
	return q
}

// GetTransaction returns one owned transaction.
func (s *transactionService) GetTransaction(ctx context.Context, userID, transactionID string) (*TransactionView, error) {
	transaction, err := findOwned[models.Transaction](ctx, s.db, userID, transactionID, apperrors.ErrTransactionNotFound, withNames)
	if err != nil {
		return nil, err
	}
	view := newTransactionView(transaction)
	return &view, nil
}

// CreateTransaction records a transaction against an account and category
// the user owns. The account is checked before the category.
func (s *transactionService) CreateTransaction(ctx context.Context, userID string, in TransactionInput) (*TransactionView, error) {
	if err := validateTransactionInput(in); err != nil {
		return nil, err
	}
	if err := s.checkReferences(ctx, userID, in); err != nil {
		return nil, err
	}

	transaction := &models.Transaction{
		Date:        in.Date.UTC(),
		Amount:      roundMoney(in.Amount),
		Description: in.Description,
		Notes:       in.Notes,
		AccountID:   in.AccountID,
		CategoryID:  in.CategoryID,
	}
	if err := s.db.WithContext(ctx).Create(transaction).Error; err != nil {
		return nil, translateReferenceError(err)
	}

	return s.GetTransaction(ctx, userID, transaction.ID)
}

// UpdateTransaction replaces every field of an owned transaction. Ownership of
// the transaction is checked before its new references.
func (s *transactionService) UpdateTransaction(ctx context.Context, userID, transactionID string, in TransactionInput) error {
	if err := validateTransactionInput(in); err != nil {
		return err
	}

	transaction, err := findOwned[models.Transaction](ctx, s.db, userID, transactionID, apperrors.ErrTransactionNotFound)
	if err != nil {
		return err
	}
	if err := s.checkReferences(ctx, userID, in); err != nil {
		return err
	}

	result := s.db.WithContext(ctx).
		Model(transaction).
		Scopes(models.Transaction{}.OwnerScope(userID)).
		Updates(map[string]interface{}{
			"date":        in.Date.UTC(),
			"amount":      roundMoney(in.Amount),
			"description": in.Description,
			"notes":       in.Notes,
			"account_id":  in.AccountID,
			"category_id": in.CategoryID,
		})
	if result.Error != nil {
		return translateReferenceError(result.Error)
	}
	if result.RowsAffected == 0 {
		return confirmStillOwned[models.Transaction](ctx, s.db, userID, transactionID, apperrors.ErrTransactionNotFound)
	}
	return nil
}

// DeleteTransaction deletes an owned transaction. Nothing references
// transactions, so there is no restriction to check.
func (s *transactionService) DeleteTransaction(ctx context.Context, userID, transactionID string) error {
	transaction, err := findOwned[models.Transaction](ctx, s.db, userID, transactionID, apperrors.ErrTransactionNotFound)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Delete(transaction).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// Summarize totals income and expenses per category or per month.
func (s *transactionService) Summarize(ctx context.Context, userID string, req SummaryRequest) ([]TransactionSummary, error) {
	if req.GroupBy == "" {
		req.GroupBy = GroupByCategory
	}
	if req.GroupBy != GroupByCategory && req.GroupBy != GroupByMonth {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "groupBy must be category or month")
	}

	q := s.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Scopes(models.Transaction{}.OwnerScope(userID), withNames)
	q = applyTransactionFilters(q, TransactionFilter{FromDate: req.FromDate, ToDate: req.ToDate})

	var transactions []models.Transaction
	if err := q.Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	groups := make(map[string]*TransactionSummary)
	for i := range transactions {
		t := &transactions[i]
		// Category names are not unique, so category groups key on the id.
		key := t.Date.UTC().Format("2006-01")
		label, categoryID := key, ""
		if req.GroupBy == GroupByCategory {
			key, categoryID = t.CategoryID, t.CategoryID
			if t.Category != nil {
				label = t.Category.Name
			}
		}

		g, ok := groups[key]
		if !ok {
			g = &TransactionSummary{GroupName: label, CategoryID: categoryID}
			groups[key] = g
		}
		if t.Amount.IsPositive() {
			g.TotalIncome = g.TotalIncome.Add(t.Amount)
		} else {
			g.TotalExpenses = g.TotalExpenses.Add(t.Amount.Neg())
		}
	}

	summaries := make([]TransactionSummary, 0, len(groups))
	for _, g := range groups {
		g.NetFlow = g.TotalIncome.Sub(g.TotalExpenses)
		summaries = append(summaries, *g)
	}
	sort.Slice(summaries, func(i, j int) bool {
		if req.GroupBy == GroupByMonth {
			return summaries[i].GroupName > summaries[j].GroupName
		}
		if summaries[i].GroupName != summaries[j].GroupName {
			return summaries[i].GroupName < summaries[j].GroupName
		}
		return summaries[i].CategoryID < summaries[j].CategoryID
	})
	return summaries, nil
}

// checkReferences verifies that the account, then the category, belong to userID.
func (s *transactionService) checkReferences(ctx context.Context, userID string, in TransactionInput) error {
	ok, err := ownsRecord[models.Account](ctx, s.db, userID, in.AccountID)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.ErrAccountReference
	}

	ok, err = ownsRecord[models.Category](ctx, s.db, userID, in.CategoryID)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.ErrCategoryReference
	}
	return nil
}

// translateReferenceError maps a foreign key failure that slipped past
// checkReferences (the referenced row was deleted meanwhile) to a reference error.
func translateReferenceError(err error) error {
	if database.IsForeignKeyViolation(err) {
		return apperrors.Wrap(apperrors.ErrAccountReference, err)
	}
	return apperrors.Wrap(apperrors.ErrInternalServer, err)
}

var maxAmount = decimal.NewFromInt(1_000_000_000)

func validateTransactionInput(in TransactionInput) error {
	if in.Description == "" {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "description is required")
	}
	if in.Date.IsZero() {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "date is required")
	}
	if in.Amount.Abs().GreaterThan(maxAmount) {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be between -1000000000 and 1000000000")
	}
	if in.AccountID == "" || in.CategoryID == "" {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "accountId and categoryId are required")
	}
	return nil
}
