package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Transaction represents a single movement of money on an account.
// Amount is signed: positive for inflow, negative for outflow.
//
// A transaction has no owner column; it belongs to whoever owns its account.
type Transaction struct {
	Base
	Date        time.Time       `gorm:"not null;index" json:"date"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"amount"`
	Description string          `gorm:"size:200;not null" json:"description"`
	Notes       *string         `gorm:"size:500" json:"notes"`
	AccountID   string          `gorm:"type:uuid;not null;index" json:"accountId"`
	CategoryID  string          `gorm:"type:uuid;not null;index" json:"categoryId"`

	Account  *Account  `gorm:"foreignKey:AccountID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	Category *Category `gorm:"foreignKey:CategoryID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
}

// TableName pins the table name used in qualified queries.
func (Transaction) TableName() string { return "transactions" }

// OwnerScope restricts a query to transactions whose account is owned by userID.
func (Transaction) OwnerScope(userID string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		owned := db.Session(&gorm.Session{NewDB: true}).
			Model(&Account{}).
			Select("id").
			Where("user_id = ?", userID)
		return db.Where("transactions.account_id IN (?)", owned)
	}
}
