package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"review-engagement-service/internal/domain"
)

// helpfulnessExpr matches the expression index from migration 004.
const helpfulnessExpr = "(helpful_votes::float8 / NULLIF(helpful_votes + unhelpful_votes, 0))"

// ReviewRepository implements domain.ReviewRepository using PostgreSQL.
type ReviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository creates a new PostgreSQL review repository.
func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// Create inserts a review and copies the generated ID back.
func (r *ReviewRepository) Create(ctx context.Context, review *domain.Review) error {
	model := FromDomainReview(review)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("creating review: %w", err)
	}

	review.ID = model.ID

	return nil
}

// Update saves every field of the review and bumps its version.
func (r *ReviewRepository) Update(ctx context.Context, review *domain.Review) error {
	model := FromDomainReview(review)
	model.Version++

	if err := updateAll(ctx, r.db, model, review.ID); err != nil {
		return fmt.Errorf("updating review: %w", err)
	}

	review.Version = model.Version

	return nil
}

// GetByID retrieves a single review.
func (r *ReviewRepository) GetByID(ctx context.Context, id int64) (*domain.Review, error) {
	var model ReviewModel
	found, err := findOne(ctx, r.db, &model, "id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("getting review by id: %w", err)
	}
	if !found {
		return nil, nil
	}

	return model.ToDomain(), nil
}

// ListByBook returns one page of a book's reviews.
func (r *ReviewRepository) ListByBook(ctx context.Context, bookID int64, params domain.ReviewListParams) (*domain.Page[domain.Review], error) {
	params.Normalize()

	query := r.db.WithContext(ctx).Model(&ReviewModel{}).Where("book_id = ?", bookID)
	if !params.IncludeHidden {
		query = query.Where("is_visible = ?", true)
	}
	if params.MinRating > 0 {
		query = query.Where("overall_rating >= ?", params.MinRating)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("counting reviews: %w", err)
	}

	var models []ReviewModel
	err := r.applyOrdering(query, params).
		Offset(params.Offset()).
		Limit(params.PageSize).
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("listing reviews: %w", err)
	}

	reviews := make([]*domain.Review, len(models))
	for i := range models {
		reviews[i] = models[i].ToDomain()
	}

	return domain.NewPage(reviews, total, params.Page, params.PageSize), nil
}

func (r *ReviewRepository) applyOrdering(query *gorm.DB, params domain.ReviewListParams) *gorm.DB {
	dir := direction(params.SortOrder)

	switch params.SortBy {
	case domain.ReviewSortHelpfulness:
		return orderBy(query, helpfulnessExpr+" "+dir+" NULLS LAST, quality_score", dir)
	case domain.ReviewSortRecent:
		return orderBy(query, "created_at", dir)
	default:
		return orderBy(query, "quality_score", dir)
	}
}

// ExistsForUser reports whether the user already reviewed the book.
func (r *ReviewRepository) ExistsForUser(ctx context.Context, bookID, userID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&ReviewModel{}).
		Where("book_id = ? AND user_id = ?", bookID, userID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("checking existing review: %w", err)
	}

	return count > 0, nil
}
