package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"review-engagement-service/internal/domain"
	"review-engagement-service/internal/metrics"
)

// AddReplyInput holds the fields of a new reply.
type AddReplyInput struct {
	UserID           int64
	Content          string
	ParentReplyID    *int64
	IsAuthorVerified bool
}

// ReactInput holds one user's reaction on a reply.
type ReactInput struct {
	UserID            int64
	ReactionType      string
	Intensity         int
	Comment           string
	TimeSpentSeconds  int
	IsUserVerified    bool
	IsPremiumUser     bool
	UserFollowerCount int
}

// ReplyService handles reply threads and reactions on replies.
type ReplyService struct {
	reviews   domain.ReviewRepository
	replies   domain.ReplyRepository
	reactions domain.ReactionRepository
	analyzer  domain.ContentAnalyzer
	cache     *listingCache
	events    eventSink
	logger    *zap.Logger
	now       Clock
}

// NewReplyService creates a new ReplyService. analyzer, cache and publisher may be nil.
func NewReplyService(
	reviews domain.ReviewRepository,
	replies domain.ReplyRepository,
	reactions domain.ReactionRepository,
	analyzer domain.ContentAnalyzer,
	cache domain.Cache,
	publisher domain.EventPublisher,
	logger *zap.Logger,
) *ReplyService {
	logger = logger.Named("replies")

	return &ReplyService{
		reviews:   reviews,
		replies:   replies,
		reactions: reactions,
		analyzer:  analyzer,
		cache:     &listingCache{cache: cache, logger: logger},
		events:    eventSink{publisher: publisher, logger: logger},
		logger:    logger,
		now:       utcNow,
	}
}

// AddReply posts a reply on a review, nested under ParentReplyID when set.
func (s *ReplyService) AddReply(ctx context.Context, reviewID int64, in AddReplyInput) (*domain.ReviewReply, error) {
	review, err := s.getReview(ctx, reviewID)
	if err != nil {
		return nil, err
	}

	reply := domain.NewReviewReply(reviewID, in.UserID, in.Content)
	reply.IsAuthorVerified = in.IsAuthorVerified
	reply.IsReviewAuthor = review.UserID == in.UserID

	var parent *domain.ReviewReply
	if in.ParentReplyID != nil {
		parent, err = s.GetReply(ctx, *in.ParentReplyID)
		if err != nil {
			return nil, err
		}
		if parent.ReviewID != reviewID {
			return nil, fmt.Errorf("%w: parent reply %d belongs to another review", ErrInvalidInput, parent.ID)
		}
		if parent.IsDeleted {
			return nil, fmt.Errorf("%w: parent reply %d is deleted", ErrInvalidInput, parent.ID)
		}
		reply.AttachTo(parent)
	}

	now := s.now()
	reply.PrepareForSave(now)
	if err := validate(reply.Validate()); err != nil {
		return nil, err
	}

	if err := s.replies.Create(ctx, reply); err != nil {
		s.logger.Error("reply create failed", zap.Int64("review_id", reviewID), zap.Error(err))
		return nil, err
	}
	metrics.EntitiesSaved.WithLabelValues(aggregateReply, "create").Inc()
	observeReply(reply)

	if parent != nil {
		parent.RecordChildReply(now)
		if err := s.saveReply(ctx, parent); err != nil {
			return nil, err
		}
	}

	review.RecordReply(now)
	review.PrepareForSave(now)
	if err := s.reviews.Update(ctx, review); err != nil {
		return nil, fmt.Errorf("updating review reply count: %w", err)
	}
	observeReview(review)
	s.cache.invalidate(ctx, review.BookID)

	s.events.emit(ctx, domain.EventReplyAdded, aggregateReply, reply.ID, reply)

	return reply, nil
}

// GetReply retrieves a single reply.
func (s *ReplyService) GetReply(ctx context.Context, id int64) (*domain.ReviewReply, error) {
	reply, err := s.replies.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if reply == nil {
		return nil, fmt.Errorf("reply %d: %w", id, ErrNotFound)
	}

	return reply, nil
}

// ListReplies returns a review's thread in creation order.
func (s *ReplyService) ListReplies(ctx context.Context, reviewID int64, includeDeleted bool) ([]*domain.ReviewReply, error) {
	if _, err := s.getReview(ctx, reviewID); err != nil {
		return nil, err
	}

	return s.replies.ListByReview(ctx, reviewID, includeDeleted)
}

// EditReply replaces the reply text.
func (s *ReplyService) EditReply(ctx context.Context, id int64, content string) (*domain.ReviewReply, error) {
	reply, err := s.GetReply(ctx, id)
	if err != nil {
		return nil, err
	}
	if reply.IsDeleted {
		return nil, fmt.Errorf("%w: reply %d is deleted", ErrInvalidInput, id)
	}

	reply.Content = content
	reply.MarkAsEdited(s.now())

	if err := s.saveReply(ctx, reply); err != nil {
		return nil, err
	}

	return reply, nil
}

// DeleteReply soft-deletes a reply, keeping its place in the thread.
func (s *ReplyService) DeleteReply(ctx context.Context, id int64, reason string) (*domain.ReviewReply, error) {
	reply, err := s.mutateReply(ctx, id, func(r *domain.ReviewReply, now time.Time) { r.SoftDelete(reason, now) })
	if err != nil {
		return nil, err
	}

	s.events.emit(ctx, domain.EventReplyDeleted, aggregateReply, reply.ID, reply)

	return reply, nil
}

// RestoreReply reverses DeleteReply.
func (s *ReplyService) RestoreReply(ctx context.Context, id int64) (*domain.ReviewReply, error) {
	return s.mutateReply(ctx, id, func(r *domain.ReviewReply, now time.Time) { r.Restore(now) })
}

// React records the user's reaction on a reply, replacing an earlier one.
// A reaction counts as a like unless its sentiment is negative.
func (s *ReplyService) React(ctx context.Context, replyID int64, in ReactInput) (*domain.ReplyReaction, error) {
	reply, err := s.GetReply(ctx, replyID)
	if err != nil {
		return nil, err
	}
	if reply.IsDeleted {
		return nil, fmt.Errorf("%w: reply %d is deleted", ErrInvalidInput, replyID)
	}

	existing, err := s.reactions.GetByReplyAndUser(ctx, replyID, in.UserID)
	if err != nil {
		return nil, err
	}

	reaction := existing
	if reaction == nil {
		reaction = domain.NewReplyReaction(replyID, in.UserID, in.ReactionType, in.Intensity)
	} else {
		reply.RemoveReaction(isLike(reaction), s.now())
		reaction.ReactionType = domain.NormalizeReactionType(in.ReactionType)
		reaction.ReactionIntensity = in.Intensity
	}
	reaction.Comment = in.Comment
	reaction.TimeSpentSeconds = in.TimeSpentSeconds
	reaction.IsUserVerified = in.IsUserVerified
	reaction.IsPremiumUser = in.IsPremiumUser
	reaction.UserFollowerCount = in.UserFollowerCount

	if err := validate(reaction.Validate()); err != nil {
		return nil, err
	}

	s.assess(ctx, reaction)

	now := s.now()
	if existing != nil {
		reaction.UpdatedAt = now
	}
	reaction.PrepareForSave(now)

	if existing == nil {
		err = s.reactions.Create(ctx, reaction)
	} else {
		err = s.reactions.Update(ctx, reaction)
	}
	if err != nil {
		s.logger.Error("reaction save failed", zap.Int64("reply_id", replyID), zap.Error(err))
		return nil, err
	}
	metrics.EntitiesSaved.WithLabelValues(aggregateReaction, "upsert").Inc()
	observeReaction(reaction)

	reply.RecordReaction(isLike(reaction), now)
	if err := s.saveReply(ctx, reply); err != nil {
		return nil, err
	}

	s.events.emit(ctx, domain.EventReactionAdded, aggregateReaction, reaction.ID, reaction)

	return reaction, nil
}

// ListReactions returns every reaction on a reply.
func (s *ReplyService) ListReactions(ctx context.Context, replyID int64) ([]*domain.ReplyReaction, error) {
	if _, err := s.GetReply(ctx, replyID); err != nil {
		return nil, err
	}

	return s.reactions.ListByReply(ctx, replyID)
}

// assess fills the automation risk inputs. Analyzer failures leave them at zero.
func (s *ReplyService) assess(ctx context.Context, reaction *domain.ReplyReaction) {
	if s.analyzer == nil {
		return
	}

	result, err := s.analyzer.AssessReaction(ctx, domain.ReactionSignals{
		ReplyID:          reaction.ReplyID,
		UserID:           reaction.UserID,
		ReactionType:     reaction.ReactionType,
		TimeSpentSeconds: reaction.TimeSpentSeconds,
		Comment:          reaction.Comment,
	})
	if err != nil {
		metrics.AnalyzerFailures.WithLabelValues("assess_reaction").Inc()
		s.logger.Warn("reaction assessment unavailable", zap.Int64("reply_id", reaction.ReplyID), zap.Error(err))
		return
	}

	reaction.SpamScore = result.Spam
	reaction.BotScore = result.Bot
	reaction.AnomalyScore = result.Anomaly
	reaction.IsFlagged = reaction.NeedsReview()
}

func (s *ReplyService) mutateReply(ctx context.Context, id int64, fn func(*domain.ReviewReply, time.Time)) (*domain.ReviewReply, error) {
	reply, err := s.GetReply(ctx, id)
	if err != nil {
		return nil, err
	}

	fn(reply, s.now())

	if err := s.saveReply(ctx, reply); err != nil {
		return nil, err
	}

	return reply, nil
}

func (s *ReplyService) saveReply(ctx context.Context, reply *domain.ReviewReply) error {
	reply.PrepareForSave(s.now())
	if err := validate(reply.Validate()); err != nil {
		return err
	}

	if err := s.replies.Update(ctx, reply); err != nil {
		s.logger.Error("reply update failed", zap.Int64("reply_id", reply.ID), zap.Error(err))
		return err
	}

	metrics.EntitiesSaved.WithLabelValues(aggregateReply, "update").Inc()
	observeReply(reply)

	return nil
}

func (s *ReplyService) getReview(ctx context.Context, id int64) (*domain.Review, error) {
	review, err := s.reviews.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if review == nil {
		return nil, fmt.Errorf("review %d: %w", id, ErrNotFound)
	}

	return review, nil
}

func isLike(r *domain.ReplyReaction) bool {
	return r.SentimentValue >= 0
}
