package service

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"review-engagement-service/internal/domain"
	"review-engagement-service/internal/metrics"
)

// Clock returns the current time.
type Clock func() time.Time

func utcNow() time.Time { return time.Now().UTC() }

// listingCache caches pages of a book's reviews. A nil cache disables it.
type listingCache struct {
	cache  domain.Cache
	ttl    time.Duration
	logger *zap.Logger
}

func (c *listingCache) get(ctx context.Context, key string) *domain.Page[domain.Review] {
	if c == nil || c.cache == nil {
		return nil
	}

	data, err := c.cache.Get(ctx, key)
	if err != nil || data == nil {
		metrics.CacheLookups.WithLabelValues(metrics.ResultMiss).Inc()
		return nil
	}

	var page domain.Page[domain.Review]
	if err := json.Unmarshal(data, &page); err != nil {
		c.logger.Warn("discarding unreadable cache entry", zap.String("key", key), zap.Error(err))
		metrics.CacheLookups.WithLabelValues(metrics.ResultMiss).Inc()
		return nil
	}

	metrics.CacheLookups.WithLabelValues(metrics.ResultHit).Inc()

	return &page
}

func (c *listingCache) set(ctx context.Context, key string, page *domain.Page[domain.Review]) {
	if c == nil || c.cache == nil {
		return
	}

	data, err := json.Marshal(page)
	if err != nil {
		c.logger.Warn("cache marshal failed", zap.Error(err))
		return
	}
	if err := c.cache.Set(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// invalidate drops every cached listing of the book.
func (c *listingCache) invalidate(ctx context.Context, bookID int64) {
	if c == nil || c.cache == nil {
		return
	}

	if err := c.cache.DeletePrefix(ctx, domain.BookReviewsCachePrefix(bookID)+":"); err != nil {
		c.logger.Warn("cache invalidation failed", zap.Int64("book_id", bookID), zap.Error(err))
	}
}

// eventSink publishes events without failing the calling operation.
type eventSink struct {
	publisher domain.EventPublisher
	logger    *zap.Logger
}

func (s eventSink) emit(ctx context.Context, eventType, aggregateType string, aggregateID int64, payload any) {
	if s.publisher == nil {
		return
	}

	if err := s.publisher.Publish(ctx, eventType, aggregateType, aggregateID, payload); err != nil {
		s.logger.Warn("event dropped",
			zap.String("event_type", eventType),
			zap.Int64("aggregate_id", aggregateID),
			zap.Error(err),
		)
	}
}

// Aggregate names used in events.
const (
	aggregateReview   = "review"
	aggregateReply    = "reply"
	aggregateReaction = "reaction"
	aggregateReport   = "report"
)

func observeReview(r *domain.Review) {
	metrics.ObserveScores(aggregateReview, map[string]int{"quality": r.QualityScore})
}

func observeReply(r *domain.ReviewReply) {
	metrics.ObserveScores(aggregateReply, map[string]int{"quality": r.QualityScore})
}

func observeReaction(r *domain.ReplyReaction) {
	metrics.ObserveScores(aggregateReaction, map[string]int{
		"quality":    r.QualityScore,
		"engagement": r.EngagementScore,
		"influence":  r.InfluenceScore,
	})
}

func observeReport(r *domain.Report) {
	metrics.ObserveScores(aggregateReport, map[string]int{
		"risk":       r.RiskScore,
		"urgency":    r.UrgencyScore,
		"impact":     r.ImpactScore,
		"confidence": r.ConfidenceScore,
	})
}
