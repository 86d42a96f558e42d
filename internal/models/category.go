package models

// Category is a per-user named bucket for classifying transactions.
// A user cannot have two categories with the same name; the composite
// unique index backs the get-or-create flow under concurrency.
type Category struct {
	Base
	UserID string `gorm:"type:uuid;not null;uniqueIndex:idx_categories_user_name" json:"user_id"`
	Name   string `gorm:"not null;uniqueIndex:idx_categories_user_name" json:"name"`

	Transactions []Transaction `gorm:"foreignKey:CategoryID" json:"transactions,omitempty"`
	Budgets      []Budget      `gorm:"foreignKey:CategoryID" json:"budgets,omitempty"`
}
