package services

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
)

// transactionService handles transaction-related business logic.
type transactionService struct {
	db              *gorm.DB
	categoryService CategoryServicer
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB, categoryService CategoryServicer) TransactionServicer {
	return &transactionService{
		db:              db,
		categoryService: categoryService,
	}
}

func validateTransactionInput(transactionType models.TransactionType, amount decimal.Decimal, date time.Time, description string) error {
	switch transactionType {
	case models.TransactionTypeIncome, models.TransactionTypeExpense:
	default:
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "type must be income or expense")
	}
	if !amount.IsPositive() {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}
	if date.IsZero() {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "date is required")
	}
	if strings.TrimSpace(description) == "" {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "description is required")
	}
	return nil
}

// CreateTransaction validates the input, resolves the named category, and
// persists a new transaction owned by the user. Category resolution and the
// insert share one database transaction so a failed insert cannot leave a
// freshly created category behind as its only effect.
func (s *transactionService) CreateTransaction(
	userID string,
	transactionType models.TransactionType,
	amount decimal.Decimal,
	date time.Time,
	description string,
	categoryName string,
) (*models.Transaction, error) {
	if err := validateTransactionInput(transactionType, amount, date, description); err != nil {
		return nil, err
	}

	var result *models.Transaction
	err := s.db.Transaction(func(tx *gorm.DB) error {
		category, err := s.categoryService.GetOrCreate(tx, userID, categoryName)
		if err != nil {
			return err
		}

		transaction := &models.Transaction{
			UserID:      userID,
			CategoryID:  &category.ID,
			Type:        transactionType,
			Amount:      amount,
			Date:        date,
			Description: description,
		}
		if err := tx.Create(transaction).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		transaction.Category = category
		result = transaction
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// GetUserTransactions retrieves all transactions owned by the user, newest
// first. Filters are optional.
func (s *transactionService) GetUserTransactions(userID string, filter TransactionFilter) ([]models.Transaction, error) {
	q := s.db.Model(&models.Transaction{}).Where("user_id = ?", userID)
	q = applyTransactionFilters(q, filter)

	var transactions []models.Transaction
	if err := q.Preload("Category").
		Order("date DESC, id DESC").
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return transactions, nil
}

func applyTransactionFilters(q *gorm.DB, f TransactionFilter) *gorm.DB {
	if f.FromDate != nil {
		q = q.Where("date >= ?", *f.FromDate)
	}
	if f.ToDate != nil {
		q = q.Where("date <= ?", *f.ToDate)
	}
	if f.Type != nil {
		q = q.Where("type = ?", *f.Type)
	}
	if f.CategoryID != nil {
		q = q.Where("category_id = ?", *f.CategoryID)
	}
	return q
}

// GetTransactionByID retrieves a transaction by ID. An unknown ID is
// NotFound; an ID owned by another user is Forbidden. The ownership check
// runs before the record is handed to the caller.
func (s *transactionService) GetTransactionByID(userID, transactionID string) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := s.db.Preload("Category").First(&transaction, "id = ?", transactionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if transaction.UserID != userID {
		return nil, apperrors.ErrForbidden
	}
	return &transaction, nil
}

// UpdateTransaction replaces type, amount, date, description, and category
// wholesale after the ownership check passes. The category is resolved by
// name through the same get-or-create path as on create.
func (s *transactionService) UpdateTransaction(
	userID string,
	transactionID string,
	transactionType models.TransactionType,
	amount decimal.Decimal,
	date time.Time,
	description string,
	categoryName string,
) (*models.Transaction, error) {
	if err := validateTransactionInput(transactionType, amount, date, description); err != nil {
		return nil, err
	}

	transaction, err := s.GetTransactionByID(userID, transactionID)
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		category, err := s.categoryService.GetOrCreate(tx, userID, categoryName)
		if err != nil {
			return err
		}

		updates := map[string]interface{}{
			"type":        transactionType,
			"amount":      amount,
			"date":        date,
			"description": description,
			"category_id": category.ID,
		}
		if err := tx.Model(transaction).Updates(updates).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		transaction.Type = transactionType
		transaction.Amount = amount
		transaction.Date = date
		transaction.Description = description
		transaction.CategoryID = &category.ID
		transaction.Category = category
		return nil
	})
	if err != nil {
		return nil, err
	}
	return transaction, nil
}

// DeleteTransaction removes a transaction after the ownership check passes.
func (s *transactionService) DeleteTransaction(userID, transactionID string) error {
	transaction, err := s.GetTransactionByID(userID, transactionID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(transaction).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
