package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Account represents a financial account owned by a user. Its current balance
// is never stored; it is derived from InitialBalance and the account's
// transactions on every read.
type Account struct {
	Base
	UserID         string          `gorm:"type:uuid;not null;index" json:"userId"`
	Name           string          `gorm:"size:100;not null" json:"name"`
	Type           string          `gorm:"size:50;not null" json:"type"` // e.g. Checking, Savings, Credit Card
	InitialBalance decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"initialBalance"`

	User *User `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
}

// TableName pins the table name used in qualified queries.
func (Account) TableName() string { return "accounts" }

// OwnerScope restricts a query to accounts owned by userID.
func (Account) OwnerScope(userID string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("accounts.user_id = ?", userID)
	}
}
