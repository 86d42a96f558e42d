package models

import "github.com/shopspring/decimal"

// BudgetPeriod represents the timeframe a budget covers
type BudgetPeriod string

const (
	BudgetPeriodMonthly  BudgetPeriod = "monthly"
	BudgetPeriodAnnually BudgetPeriod = "annually"
)

// Budget caps planned spending for a category over a recurring period.
type Budget struct {
	Base
	UserID     string          `gorm:"type:uuid;not null;index" json:"user_id"`
	CategoryID string          `gorm:"type:uuid;not null" json:"category_id"`
	Amount     decimal.Decimal `gorm:"type:numeric(20,2);not null" json:"amount"`
	Period     BudgetPeriod    `gorm:"not null" json:"period"`

	Category Category `gorm:"foreignKey:CategoryID" json:"category"`
}
