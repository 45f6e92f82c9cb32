package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"review-engagement-service/internal/domain"
)

// ErrRowNotFound is returned by Update when no row matched the id.
var ErrRowNotFound = errors.New("row not found for update")

// findOne loads a single row into dest. Returns (false, nil) when not found.
func findOne(ctx context.Context, db *gorm.DB, dest any, query string, args ...any) (bool, error) {
	err := db.WithContext(ctx).Where(query, args...).First(dest).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}

		return false, err
	}

	return true, nil
}

// updateAll writes every column of model, zero values included, except the
// immutable id and created_at.
func updateAll(ctx context.Context, db *gorm.DB, model any, id int64) error {
	result := db.WithContext(ctx).
		Model(model).
		Where("id = ?", id).
		Select("*").
		Omit("id", "created_at").
		Updates(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: id %d", ErrRowNotFound, id)
	}

	return nil
}

// direction maps a domain sort order onto SQL.
func direction(order domain.SortOrder) string {
	if order == domain.SortOrderAsc {
		return "ASC"
	}

	return "DESC"
}

// orderBy sorts by expr with an id tie-breaker so pagination is stable.
// expr must be a constant, never user input.
func orderBy(query *gorm.DB, expr, dir string) *gorm.DB {
	return query.Order(expr + " " + dir).Order("id " + dir)
}
