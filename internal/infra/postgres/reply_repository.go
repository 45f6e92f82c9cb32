package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"review-engagement-service/internal/domain"
)

// ReplyRepository implements domain.ReplyRepository using PostgreSQL.
type ReplyRepository struct {
	db *gorm.DB
}

// NewReplyRepository creates a new PostgreSQL reply repository.
func NewReplyRepository(db *gorm.DB) *ReplyRepository {
	return &ReplyRepository{db: db}
}

func (r *ReplyRepository) Create(ctx context.Context, reply *domain.ReviewReply) error {
	model := FromDomainReply(reply)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("creating reply: %w", err)
	}

	reply.ID = model.ID

	return nil
}

func (r *ReplyRepository) Update(ctx context.Context, reply *domain.ReviewReply) error {
	model := FromDomainReply(reply)
	model.Version++

	if err := updateAll(ctx, r.db, model, reply.ID); err != nil {
		return fmt.Errorf("updating reply: %w", err)
	}

	reply.Version = model.Version

	return nil
}

func (r *ReplyRepository) GetByID(ctx context.Context, id int64) (*domain.ReviewReply, error) {
	var model ReplyModel
	found, err := findOne(ctx, r.db, &model, "id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("getting reply by id: %w", err)
	}
	if !found {
		return nil, nil
	}

	return model.ToDomain(), nil
}

// ListByReview returns a review's replies in thread order (oldest first).
func (r *ReplyRepository) ListByReview(ctx context.Context, reviewID int64, includeDeleted bool) ([]*domain.ReviewReply, error) {
	query := r.db.WithContext(ctx).Where("review_id = ?", reviewID)
	if !includeDeleted {
		query = query.Where("is_deleted = ?", false)
	}

	var models []ReplyModel
	if err := orderBy(query, "created_at", "ASC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("listing replies: %w", err)
	}

	replies := make([]*domain.ReviewReply, len(models))
	for i := range models {
		replies[i] = models[i].ToDomain()
	}

	return replies, nil
}
