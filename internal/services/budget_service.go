package services

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
)

// budgetService handles budget-related business logic.
type budgetService struct {
	db              *gorm.DB
	categoryService CategoryServicer
}

// NewBudgetService creates a new BudgetServicer.
func NewBudgetService(db *gorm.DB, categoryService CategoryServicer) BudgetServicer {
	return &budgetService{db: db, categoryService: categoryService}
}

func validateBudgetInput(amount decimal.Decimal, period models.BudgetPeriod) error {
	if !amount.IsPositive() {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}
	switch period {
	case models.BudgetPeriodMonthly, models.BudgetPeriodAnnually:
	default:
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "period must be monthly or annually")
	}
	return nil
}

// CreateBudget creates a budget for a named category, resolving the category
// through the same get-or-create path as transactions.
func (s *budgetService) CreateBudget(userID, categoryName string, amount decimal.Decimal, period models.BudgetPeriod) (*models.Budget, error) {
	if err := validateBudgetInput(amount, period); err != nil {
		return nil, err
	}

	var result *models.Budget
	err := s.db.Transaction(func(tx *gorm.DB) error {
		category, err := s.categoryService.GetOrCreate(tx, userID, categoryName)
		if err != nil {
			return err
		}

		budget := &models.Budget{
			UserID:     userID,
			CategoryID: category.ID,
			Amount:     amount,
			Period:     period,
		}
		if err := tx.Create(budget).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		budget.Category = *category
		result = budget
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// GetUserBudgets returns all budgets owned by the user.
func (s *budgetService) GetUserBudgets(userID string) ([]models.Budget, error) {
	var budgets []models.Budget
	if err := s.db.Preload("Category").Where("user_id = ?", userID).Find(&budgets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return budgets, nil
}

// GetBudgetByID returns a budget by ID. Unknown IDs are NotFound, budgets
// owned by another user are Forbidden.
func (s *budgetService) GetBudgetByID(userID, budgetID string) (*models.Budget, error) {
	var budget models.Budget
	if err := s.db.Preload("Category").First(&budget, "id = ?", budgetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBudgetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if budget.UserID != userID {
		return nil, apperrors.ErrForbidden
	}
	return &budget, nil
}

// UpdateBudget replaces a budget's category, amount, and period after the
// ownership check passes.
func (s *budgetService) UpdateBudget(userID, budgetID, categoryName string, amount decimal.Decimal, period models.BudgetPeriod) (*models.Budget, error) {
	if err := validateBudgetInput(amount, period); err != nil {
		return nil, err
	}

	budget, err := s.GetBudgetByID(userID, budgetID)
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		category, err := s.categoryService.GetOrCreate(tx, userID, categoryName)
		if err != nil {
			return err
		}

		updates := map[string]interface{}{
			"category_id": category.ID,
			"amount":      amount,
			"period":      period,
		}
		if err := tx.Model(budget).Updates(updates).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		budget.CategoryID = category.ID
		budget.Amount = amount
		budget.Period = period
		budget.Category = *category
		return nil
	})
	if err != nil {
		return nil, err
	}
	return budget, nil
}

// DeleteBudget removes a budget after the ownership check passes.
func (s *budgetService) DeleteBudget(userID, budgetID string) error {
	budget, err := s.GetBudgetByID(userID, budgetID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(budget).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// GetBudgetProgress reports budgeted vs spent for the budget's current
// period: the calendar month for monthly budgets, the calendar year for
// annual ones.
func (s *budgetService) GetBudgetProgress(userID, budgetID string) (*BudgetProgress, error) {
	budget, err := s.GetBudgetByID(userID, budgetID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	var periodStart time.Time
	switch budget.Period {
	case models.BudgetPeriodMonthly:
		periodStart = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	default:
		periodStart = time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
	}

	var rows []struct {
		Amount decimal.Decimal
	}
	if err := s.db.Model(&models.Transaction{}).
		Select("amount").
		Where("user_id = ? AND category_id = ? AND type = ? AND date >= ?",
			userID, budget.CategoryID, models.TransactionTypeExpense, periodStart).
		Scan(&rows).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	spent := decimal.Zero
	for _, row := range rows {
		spent = spent.Add(row.Amount)
	}

	progress := &BudgetProgress{
		BudgetID:  budget.ID,
		Budgeted:  budget.Amount,
		Spent:     spent,
		Remaining: budget.Amount.Sub(spent),
	}
	if budget.Amount.IsPositive() {
		pct, _ := spent.Div(budget.Amount).Mul(decimal.NewFromInt(100)).Float64()
		progress.Percentage = pct
	}
	return progress, nil
}
