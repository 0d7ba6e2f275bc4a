package services

import (
	"context"

	"gorm.io/gorm"

	"fintrack/internal/database"
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

// ListCategories returns the user's categories ordered by name.
func (s *categoryService) ListCategories(ctx context.Context, userID string) ([]models.Category, error) {
	categories := []models.Category{}
	if err := s.db.WithContext(ctx).
		Scopes(models.Category{}.OwnerScope(userID)).
		Order("name ASC, id ASC").
		Find(&categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return categories, nil
}

// GetCategory returns one owned category.
func (s *categoryService) GetCategory(ctx context.Context, userID, categoryID string) (*models.Category, error) {
	return findOwned[models.Category](ctx, s.db, userID, categoryID, apperrors.ErrCategoryNotFound)
}

// CreateCategory creates a new category
func (s *categoryService) CreateCategory(ctx context.Context, userID string, in CategoryInput) (*models.Category, error) {
	if in.Name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category name is required")
	}

	category := &models.Category{
		UserID:    userID,
		Name:      in.Name,
		IsExpense: in.IsExpense,
	}
	// Select all columns so IsExpense=false is written instead of the column default.
	if err := s.db.WithContext(ctx).Select("*").Create(category).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return category, nil
}

// UpdateCategory replaces the name and kind of an owned category.
func (s *categoryService) UpdateCategory(ctx context.Context, userID, categoryID string, in CategoryInput) error {
	if in.Name == "" {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "category name is required")
	}

	category, err := findOwned[models.Category](ctx, s.db, userID, categoryID, apperrors.ErrCategoryNotFound)
	if err != nil {
		return err
	}

	result := s.db.WithContext(ctx).
		Model(category).
		Scopes(models.Category{}.OwnerScope(userID)).
		Updates(map[string]interface{}{
			"name":       in.Name,
			"is_expense": in.IsExpense,
		})
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return confirmStillOwned[models.Category](ctx, s.db, userID, categoryID, apperrors.ErrCategoryNotFound)
	}
	return nil
}

// DeleteCategory removes an owned category that no transaction references.
func (s *categoryService) DeleteCategory(ctx context.Context, userID, categoryID string) error {
	category, err := findOwned[models.Category](ctx, s.db, userID, categoryID, apperrors.ErrCategoryNotFound)
	if err != nil {
		return err
	}

	var refs int64
	if err := s.db.WithContext(ctx).Model(&models.Transaction{}).
		Where("category_id = ?", category.ID).
		Count(&refs).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if refs > 0 {
		return apperrors.ErrCategoryHasTransactions
	}

	if err := s.db.WithContext(ctx).Delete(category).Error; err != nil {
		if database.IsForeignKeyViolation(err) {
			return apperrors.Wrap(apperrors.ErrCategoryHasTransactions, err)
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
