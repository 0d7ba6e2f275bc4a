package models

// User represents a registered user. Users own accounts and categories and,
// through their accounts, transactions.
type User struct {
	Base
	Email     string `gorm:"uniqueIndex;not null;size:255" json:"email"`
	Password  string `gorm:"not null" json:"-"`
	FirstName string `gorm:"size:100" json:"firstName"`
	LastName  string `gorm:"size:100" json:"lastName"`
}

// TableName pins the table name used in qualified queries.
func (User) TableName() string { return "users" }
