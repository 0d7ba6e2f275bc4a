package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	apperrors "fintrack/internal/errors"
)

// owned is implemented by models whose rows belong to a single user.
type owned interface {
	TableName() string
	OwnerScope(userID string) func(*gorm.DB) *gorm.DB
}

// findOwned loads the record with id if it belongs to userID. Absence and
// foreign ownership both yield notFound, so callers cannot probe other
// users' ids.
func findOwned[T owned](ctx context.Context, db *gorm.DB, userID, id string, notFound *apperrors.AppError, scopes ...func(*gorm.DB) *gorm.DB) (*T, error) {
	var record T
	err := db.WithContext(ctx).
		Scopes(record.OwnerScope(userID)).
		Scopes(scopes...).
		Where(record.TableName()+".id = ?", id).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &record, nil
}

// ownsRecord reports whether a record with id exists and belongs to userID.
func ownsRecord[T owned](ctx context.Context, db *gorm.DB, userID, id string) (bool, error) {
	var record T
	var count int64
	err := db.WithContext(ctx).
		Model(&record).
		Scopes(record.OwnerScope(userID)).
		Where(record.TableName()+".id = ?", id).
		Count(&count).Error
	if err != nil {
		return false, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return count > 0, nil
}

// confirmStillOwned is used after an update that affected no rows: the write
// lost a race or changed nothing. The record still being there under its
// owner counts as success; otherwise notFound is returned. The write is not
// retried.
func confirmStillOwned[T owned](ctx context.Context, db *gorm.DB, userID, id string, notFound *apperrors.AppError) error {
	exists, err := ownsRecord[T](ctx, db, userID, id)
	if err != nil {
		return err
	}
	if !exists {
		return notFound
	}
	return nil
}
