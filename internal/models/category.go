package models

import "gorm.io/gorm"

// Category classifies transactions as income or expense for a single user.
type Category struct {
	Base
	UserID    string `gorm:"type:uuid;not null;index" json:"userId"`
	Name      string `gorm:"size:50;not null" json:"name"`
	IsExpense bool   `gorm:"not null;default:true" json:"isExpense"`

	User *User `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
}

// TableName pins the table name used in qualified queries.
func (Category) TableName() string { return "categories" }

// OwnerScope restricts a query to categories owned by userID.
func (Category) OwnerScope(userID string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("categories.user_id = ?", userID)
	}
}
