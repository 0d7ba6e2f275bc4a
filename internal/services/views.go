package services

import (
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/models"
)

// AccountView is an account together with its derived current balance.
type AccountView struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Type           string          `json:"type"`
	InitialBalance decimal.Decimal `json:"initialBalance"`
	CurrentBalance decimal.Decimal `json:"currentBalance"`
}

func newAccountView(a *models.Account, sum decimal.Decimal) AccountView {
	return AccountView{
		ID:             a.ID,
		Name:           a.Name,
		Type:           a.Type,
		InitialBalance: a.InitialBalance,
		CurrentBalance: a.InitialBalance.Add(sum),
	}
}

// TransactionView is a transaction joined with its account and category names.
type TransactionView struct {
	ID           string          `json:"id"`
	Date         time.Time       `json:"date"`
	Amount       decimal.Decimal `json:"amount"`
	Description  string          `json:"description"`
	Notes        *string         `json:"notes"`
	AccountID    string          `json:"accountId"`
	AccountName  string          `json:"accountName"`
	CategoryID   string          `json:"categoryId"`
	CategoryName string          `json:"categoryName"`
}

func newTransactionView(t *models.Transaction) TransactionView {
	v := TransactionView{
		ID:          t.ID,
		Date:        t.Date.UTC(),
		Amount:      t.Amount,
		Description: t.Description,
		Notes:       t.Notes,
		AccountID:   t.AccountID,
		CategoryID:  t.CategoryID,
	}
	if t.Account != nil {
		v.AccountName = t.Account.Name
	}
	if t.Category != nil {
		v.CategoryName = t.Category.Name
	}
	return v
}

// TransactionSummary aggregates the transactions of one group. CategoryID is
// set only for category groups.
type TransactionSummary struct {
	GroupName     string          `json:"groupName"`
	CategoryID    string          `json:"categoryId,omitempty"`
	TotalIncome   decimal.Decimal `json:"totalIncome"`
	TotalExpenses decimal.Decimal `json:"totalExpenses"`
	NetFlow       decimal.Decimal `json:"netFlow"`
}

// roundMoney rounds an amount to cents.
func roundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
