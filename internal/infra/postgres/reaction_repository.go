package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"review-engagement-service/internal/domain"
)

// ReactionRepository implements domain.ReactionRepository using PostgreSQL.
type ReactionRepository struct {
	db *gorm.DB
}

// NewReactionRepository creates a new PostgreSQL reaction repository.
func NewReactionRepository(db *gorm.DB) *ReactionRepository {
	return &ReactionRepository{db: db}
}

func (r *ReactionRepository) Create(ctx context.Context, reaction *domain.ReplyReaction) error {
	model := FromDomainReaction(reaction)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("creating reaction: %w", err)
	}

	reaction.ID = model.ID

	return nil
}

func (r *ReactionRepository) Update(ctx context.Context, reaction *domain.ReplyReaction) error {
	if err := updateAll(ctx, r.db, FromDomainReaction(reaction), reaction.ID); err != nil {
		return fmt.Errorf("updating reaction: %w", err)
	}

	return nil
}

// GetByReplyAndUser returns the user's reaction on a reply.
func (r *ReactionRepository) GetByReplyAndUser(ctx context.Context, replyID, userID int64) (*domain.ReplyReaction, error) {
	var model ReactionModel
	found, err := findOne(ctx, r.db, &model, "reply_id = ? AND user_id = ?", replyID, userID)
	if err != nil {
		return nil, fmt.Errorf("getting reaction by reply and user: %w", err)
	}
	if !found {
		return nil, nil
	}

	return model.ToDomain(), nil
}

func (r *ReactionRepository) ListByReply(ctx context.Context, replyID int64) ([]*domain.ReplyReaction, error) {
	var models []ReactionModel
	query := r.db.WithContext(ctx).Where("reply_id = ?", replyID)
	if err := orderBy(query, "created_at", "ASC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("listing reactions: %w", err)
	}

	reactions := make([]*domain.ReplyReaction, len(models))
	for i := range models {
		reactions[i] = models[i].ToDomain()
	}

	return reactions, nil
}
