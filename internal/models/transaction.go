package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType represents the type of transaction
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// Transaction represents a single movement of money owned by a user.
// Amounts are stored as exact decimals, never binary floats.
type Transaction struct {
	Base
	UserID      string          `gorm:"type:uuid;not null;index" json:"user_id"`
	CategoryID  *string         `gorm:"type:uuid" json:"category_id,omitempty"`
	Type        TransactionType `gorm:"not null" json:"type"`
	Amount      decimal.Decimal `gorm:"type:numeric(20,2);not null" json:"amount"`
	Date        time.Time       `gorm:"type:date;not null" json:"date"`
	Description string          `gorm:"not null" json:"description"`

	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}
