package services

import (
	"sort"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
)

// reportService derives summary views from the transaction ledger. Reports
// are pure reads over current state; every call rescans the user's rows.
type reportService struct {
	db *gorm.DB
}

// NewReportService creates a new ReportServicer.
func NewReportService(db *gorm.DB) ReportServicer {
	return &reportService{db: db}
}

// IncomeExpenseSummary groups the user's transactions by type and sums the
// amounts per type. Types with no transactions report zero. Sums are
// accumulated as decimals so results are exact regardless of the database
// backend's numeric affinity.
func (s *reportService) IncomeExpenseSummary(userID string) (*IncomeExpenseSummary, error) {
	var rows []struct {
		Type   models.TransactionType
		Amount decimal.Decimal
	}
	if err := s.db.Model(&models.Transaction{}).
		Select("type, amount").
		Where("user_id = ?", userID).
		Scan(&rows).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	summary := &IncomeExpenseSummary{Income: decimal.Zero, Expense: decimal.Zero}
	for _, row := range rows {
		switch row.Type {
		case models.TransactionTypeIncome:
			summary.Income = summary.Income.Add(row.Amount)
		case models.TransactionTypeExpense:
			summary.Expense = summary.Expense.Add(row.Amount)
		}
	}
	return summary, nil
}

// CategorySpending filters the user's transactions to expenses, joins to
// categories, and sums the amounts per category name.
func (s *reportService) CategorySpending(userID string) ([]CategorySpending, error) {
	var rows []struct {
		Name   string
		Amount decimal.Decimal
	}
	if err := s.db.Model(&models.Transaction{}).
		Select("categories.name AS name, transactions.amount AS amount").
		Joins("JOIN categories ON categories.id = transactions.category_id").
		Where("transactions.user_id = ? AND transactions.type = ?", userID, models.TransactionTypeExpense).
		Scan(&rows).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	totals := make(map[string]decimal.Decimal)
	for _, row := range rows {
		totals[row.Name] = totals[row.Name].Add(row.Amount)
	}

	result := make([]CategorySpending, 0, len(totals))
	for name, total := range totals {
		result = append(result, CategorySpending{Category: name, Total: total})
	}
	// No ordering is promised; sort by name so output is stable.
	sort.Slice(result, func(i, j int) bool { return result[i].Category < result[j].Category })
	return result, nil
}
