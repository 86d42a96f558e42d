package services

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"fintrack/internal/models"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	Register(username, email, password string) (*models.User, error)
	Authenticate(email, password string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	StoreRefreshTokenHash(userID, tokenHash string) error
	GetRefreshTokenHash(userID string) (string, error)
}

// CategoryServicer defines the contract for category-related business logic.
// GetOrCreate takes the caller's transaction handle so category resolution and
// the dependent write commit or roll back together.
type CategoryServicer interface {
	GetOrCreate(tx *gorm.DB, userID, name string) (*models.Category, error)
	GetUserCategories(userID string) ([]models.Category, error)
}

// TransactionFilter holds optional filter parameters for listing transactions.
type TransactionFilter struct {
	FromDate   *time.Time
	ToDate     *time.Time
	Type       *models.TransactionType
	CategoryID *string
}

// TransactionServicer defines the contract for transaction-related business logic.
type TransactionServicer interface {
	CreateTransaction(userID string, transactionType models.TransactionType, amount decimal.Decimal, date time.Time, description, categoryName string) (*models.Transaction, error)
	GetUserTransactions(userID string, filter TransactionFilter) ([]models.Transaction, error)
	GetTransactionByID(userID, transactionID string) (*models.Transaction, error)
	UpdateTransaction(userID, transactionID string, transactionType models.TransactionType, amount decimal.Decimal, date time.Time, description, categoryName string) (*models.Transaction, error)
	DeleteTransaction(userID, transactionID string) error
}

// IncomeExpenseSummary contains total income and total expenses for a user.
type IncomeExpenseSummary struct {
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
}

// CategorySpending contains the total spent in a single category.
type CategorySpending struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
}

// ReportServicer defines the contract for report aggregation.
type ReportServicer interface {
	IncomeExpenseSummary(userID string) (*IncomeExpenseSummary, error)
	CategorySpending(userID string) ([]CategorySpending, error)
}

// BudgetProgress contains spending vs budget data for a budget's current period.
type BudgetProgress struct {
	BudgetID   string          `json:"budget_id"`
	Budgeted   decimal.Decimal `json:"budgeted"`
	Spent      decimal.Decimal `json:"spent"`
	Remaining  decimal.Decimal `json:"remaining"`
	Percentage float64         `json:"percentage"`
}

// BudgetServicer defines the contract for budget-related business logic.
type BudgetServicer interface {
	CreateBudget(userID, categoryName string, amount decimal.Decimal, period models.BudgetPeriod) (*models.Budget, error)
	GetUserBudgets(userID string) ([]models.Budget, error)
	GetBudgetByID(userID, budgetID string) (*models.Budget, error)
	UpdateBudget(userID, budgetID, categoryName string, amount decimal.Decimal, period models.BudgetPeriod) (*models.Budget, error)
	DeleteBudget(userID, budgetID string) error
	GetBudgetProgress(userID, budgetID string) (*BudgetProgress, error)
}
