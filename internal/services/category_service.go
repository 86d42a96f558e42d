package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
)

// categoryService handles category-related business logic.
type categoryService struct {
	db *gorm.DB
}

// NewCategoryService creates a new CategoryServicer.
func NewCategoryService(db *gorm.DB) CategoryServicer {
	return &categoryService{db: db}
}

// GetOrCreate returns the category for (user, name), creating it if absent.
// It runs on the caller's transaction handle so the create shares fate with
// whatever write depends on it. Two writers racing to create the same name
// are serialized by the unique (user_id, name) index: the loser falls through
// to a lookup, never to a user-visible error.
func (s *categoryService) GetOrCreate(tx *gorm.DB, userID, name string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category name is required")
	}

	var category models.Category
	err := tx.Where("user_id = ? AND name = ?", userID, name).First(&category).Error
	if err == nil {
		return &category, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return insertOrFetch(tx, userID, name)
}

// insertOrFetch inserts the category, tolerating a concurrent insert of the
// same (user, name). The insert runs with ON CONFLICT DO NOTHING so a lost
// race does not abort the enclosing transaction on postgres; when no row was
// written the winner's row is read back instead.
func insertOrFetch(tx *gorm.DB, userID, name string) (*models.Category, error) {
	category := models.Category{UserID: userID, Name: name}
	res := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "name"}},
		DoNothing: true,
	}).Create(&category)
	if res.Error != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
	}
	if res.RowsAffected == 0 {
		var existing models.Category
		if err := tx.Where("user_id = ? AND name = ?", userID, name).First(&existing).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return &existing, nil
	}
	return &category, nil
}

// GetUserCategories retrieves all categories belonging to a user.
func (s *categoryService) GetUserCategories(userID string) ([]models.Category, error) {
	var categories []models.Category
	if err := s.db.Where("user_id = ?", userID).Order("name").Find(&categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return categories, nil
}
