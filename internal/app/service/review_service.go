package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"review-engagement-service/internal/domain"
	"review-engagement-service/internal/metrics"
)

// SubmitReviewInput holds the fields a reader provides for a new review.
type SubmitReviewInput struct {
	BookID        int64
	UserID        int64
	OverallRating int
	Title         string
	Content       string

	StoryRating         *int
	CharacterRating     *int
	WritingStyleRating  *int
	PacingRating        *int
	WorldBuildingRating *int

	Summary                string
	PositiveAspects        string
	NegativeAspects        string
	TargetAudience         string
	SimilarRecommendations string

	ContainsSpoilers   bool
	IsRecommended      bool
	IsVerifiedPurchase bool
}

// UpdateReviewInput holds a partial review edit. Nil fields stay unchanged.
type UpdateReviewInput struct {
	OverallRating          *int
	Title                  *string
	Content                *string
	Summary                *string
	PositiveAspects        *string
	NegativeAspects        *string
	TargetAudience         *string
	SimilarRecommendations *string
	ContainsSpoilers       *bool
	IsRecommended          *bool

	StoryRating         *int
	CharacterRating     *int
	WritingStyleRating  *int
	PacingRating        *int
	WorldBuildingRating *int
}

// ReviewService handles review submission, listing and voting.
type ReviewService struct {
	repo   domain.ReviewRepository
	cache  *listingCache
	events eventSink
	logger *zap.Logger
	now    Clock
}

// NewReviewService creates a new ReviewService. cache and publisher may be nil.
func NewReviewService(repo domain.ReviewRepository, cache domain.Cache, cacheTTL time.Duration, publisher domain.EventPublisher, logger *zap.Logger) *ReviewService {
	logger = logger.Named("reviews")

	return &ReviewService{
		repo:   repo,
		cache:  &listingCache{cache: cache, ttl: cacheTTL, logger: logger},
		events: eventSink{publisher: publisher, logger: logger},
		logger: logger,
		now:    utcNow,
	}
}

// Submit creates a review. One review per user and book.
func (s *ReviewService) Submit(ctx context.Context, in SubmitReviewInput) (*domain.Review, error) {
	review := domain.NewReview(in.BookID, in.UserID, in.OverallRating, in.Title, in.Content)
	review.StoryRating = in.StoryRating
	review.CharacterRating = in.CharacterRating
	review.WritingStyleRating = in.WritingStyleRating
	review.PacingRating = in.PacingRating
	review.WorldBuildingRating = in.WorldBuildingRating
	review.Summary = in.Summary
	review.PositiveAspects = in.PositiveAspects
	review.NegativeAspects = in.NegativeAspects
	review.TargetAudience = in.TargetAudience
	review.SimilarRecommendations = in.SimilarRecommendations
	review.ContainsSpoilers = in.ContainsSpoilers
	review.IsRecommended = in.IsRecommended
	review.IsVerifiedPurchase = in.IsVerifiedPurchase

	review.PrepareForSave(s.now())
	if err := validate(review.Validate()); err != nil {
		return nil, err
	}

	exists, err := s.repo.ExistsForUser(ctx, in.BookID, in.UserID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: user %d already reviewed book %d", ErrConflict, in.UserID, in.BookID)
	}

	if err := s.repo.Create(ctx, review); err != nil {
		s.logger.Error("review create failed", zap.Int64("book_id", in.BookID), zap.Error(err))
		return nil, err
	}

	metrics.EntitiesSaved.WithLabelValues(aggregateReview, "create").Inc()
	observeReview(review)
	s.cache.invalidate(ctx, review.BookID)
	s.events.emit(ctx, domain.EventReviewSubmitted, aggregateReview, review.ID, review)

	s.logger.Info("review submitted",
		zap.Int64("review_id", review.ID),
		zap.Int64("book_id", review.BookID),
		zap.Int("quality_score", review.QualityScore),
	)

	return review, nil
}

// Get retrieves a single review.
func (s *ReviewService) Get(ctx context.Context, id int64) (*domain.Review, error) {
	review, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if review == nil {
		return nil, fmt.Errorf("review %d: %w", id, ErrNotFound)
	}

	return review, nil
}

// ListByBook returns one page of a book's reviews, served from cache when possible.
func (s *ReviewService) ListByBook(ctx context.Context, bookID int64, params domain.ReviewListParams) (*domain.Page[domain.Review], error) {
	params.Normalize()
	key := params.CacheKey(bookID)

	if page := s.cache.get(ctx, key); page != nil {
		return page, nil
	}

	page, err := s.repo.ListByBook(ctx, bookID, params)
	if err != nil {
		s.logger.Error("review listing failed", zap.Int64("book_id", bookID), zap.Error(err))
		return nil, err
	}

	s.cache.set(ctx, key, page)

	return page, nil
}

// Update applies a partial edit and rescores the review.
func (s *ReviewService) Update(ctx context.Context, id int64, in UpdateReviewInput) (*domain.Review, error) {
	review, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if in.Title != nil || in.Content != nil {
		title, content := review.Title, review.Content
		if in.Title != nil {
			title = *in.Title
		}
		if in.Content != nil {
			content = *in.Content
		}
		review.Edit(title, content, now)
	}
	if in.Summary != nil {
		review.Summary = *in.Summary
	}
	setIf(&review.OverallRating, in.OverallRating)
	setIf(&review.PositiveAspects, in.PositiveAspects)
	setIf(&review.NegativeAspects, in.NegativeAspects)
	setIf(&review.TargetAudience, in.TargetAudience)
	setIf(&review.SimilarRecommendations, in.SimilarRecommendations)
	setIf(&review.ContainsSpoilers, in.ContainsSpoilers)
	setIf(&review.IsRecommended, in.IsRecommended)
	setPtrIf(&review.StoryRating, in.StoryRating)
	setPtrIf(&review.CharacterRating, in.CharacterRating)
	setPtrIf(&review.WritingStyleRating, in.WritingStyleRating)
	setPtrIf(&review.PacingRating, in.PacingRating)
	setPtrIf(&review.WorldBuildingRating, in.WorldBuildingRating)
	review.UpdatedAt = now

	if err := s.save(ctx, review); err != nil {
		return nil, err
	}

	s.events.emit(ctx, domain.EventReviewUpdated, aggregateReview, review.ID, review)

	return review, nil
}

// Vote records a helpful or unhelpful vote.
func (s *ReviewService) Vote(ctx context.Context, id int64, helpful bool) (*domain.Review, error) {
	return s.mutate(ctx, id, func(r *domain.Review, now time.Time) { r.CastVote(helpful, now) })
}

// RemoveVote withdraws a vote.
func (s *ReviewService) RemoveVote(ctx context.Context, id int64, helpful bool) (*domain.Review, error) {
	return s.mutate(ctx, id, func(r *domain.Review, now time.Time) { r.RemoveVote(helpful, now) })
}

// SetVisibility hides or shows a review in public listings.
func (s *ReviewService) SetVisibility(ctx context.Context, id int64, visible bool) (*domain.Review, error) {
	return s.mutate(ctx, id, func(r *domain.Review, now time.Time) {
		if visible {
			r.Unhide(now)
		} else {
			r.Hide(now)
		}
	})
}

func (s *ReviewService) mutate(ctx context.Context, id int64, fn func(*domain.Review, time.Time)) (*domain.Review, error) {
	review, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	fn(review, s.now())

	if err := s.save(ctx, review); err != nil {
		return nil, err
	}

	return review, nil
}

// save rescores, validates and persists an existing review.
func (s *ReviewService) save(ctx context.Context, review *domain.Review) error {
	review.PrepareForSave(s.now())
	if err := validate(review.Validate()); err != nil {
		return err
	}

	if err := s.repo.Update(ctx, review); err != nil {
		s.logger.Error("review update failed", zap.Int64("review_id", review.ID), zap.Error(err))
		return err
	}

	metrics.EntitiesSaved.WithLabelValues(aggregateReview, "update").Inc()
	observeReview(review)
	s.cache.invalidate(ctx, review.BookID)

	return nil
}

func setIf[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

func setPtrIf[T any](dst **T, v *T) {
	if v != nil {
		c := *v
		*dst = &c
	}
}
