package domain

import (
	"context"
	"time"
)

// Repositories return (nil, nil) when a record does not exist.

// ReviewRepository defines persistence operations for reviews.
// Implementations: internal/infra/postgres/review_repository.go
type ReviewRepository interface {
	// Create inserts a review and fills its generated ID.
	Create(ctx context.Context, review *Review) error

	// Update saves every field of an existing review.
	Update(ctx context.Context, review *Review) error

	// GetByID retrieves a single review.
	GetByID(ctx context.Context, id int64) (*Review, error)

	// ListByBook returns one page of a book's reviews.
	ListByBook(ctx context.Context, bookID int64, params ReviewListParams) (*Page[Review], error)

	// ExistsForUser reports whether the user already reviewed the book.
	ExistsForUser(ctx context.Context, bookID, userID int64) (bool, error)
}

// ReplyRepository defines persistence operations for review replies.
type ReplyRepository interface {
	Create(ctx context.Context, reply *ReviewReply) error
	Update(ctx context.Context, reply *ReviewReply) error
	GetByID(ctx context.Context, id int64) (*ReviewReply, error)

	// ListByReview returns a review's replies ordered by creation time.
	ListByReview(ctx context.Context, reviewID int64, includeDeleted bool) ([]*ReviewReply, error)
}

// ReactionRepository defines persistence operations for reply reactions.
type ReactionRepository interface {
	Create(ctx context.Context, reaction *ReplyReaction) error
	Update(ctx context.Context, reaction *ReplyReaction) error

	// GetByReplyAndUser returns the user's reaction on a reply, one per user.
	GetByReplyAndUser(ctx context.Context, replyID, userID int64) (*ReplyReaction, error)

	ListByReply(ctx context.Context, replyID int64) ([]*ReplyReaction, error)
}

// ReportRepository defines persistence operations for moderation reports.
type ReportRepository interface {
	Create(ctx context.Context, report *Report) error
	Update(ctx context.Context, report *Report) error
	GetByID(ctx context.Context, id int64) (*Report, error)

	// List returns one page of the moderation queue.
	List(ctx context.Context, params ReportListParams) (*Page[Report], error)

	// CountOpenForTarget counts open reports already filed against the target.
	CountOpenForTarget(ctx context.Context, targetType ReportTargetType, targetID int64) (int, error)

	// CountUpheldAgainstUser counts resolved, valid reports against a user.
	CountUpheldAgainstUser(ctx context.Context, userID int64) (int, error)

	// ListOpenAfter returns up to limit open reports with ID > afterID, ordered by ID.
	ListOpenAfter(ctx context.Context, afterID int64, limit int) ([]*Report, error)
}

// Cache defines the interface for caching operations.
// Implementations: internal/infra/redis/cache.go
type Cache interface {
	// Get retrieves a value by key. Returns nil if not found.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value with the given TTL.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a value by key.
	Delete(ctx context.Context, key string) error

	// DeletePrefix removes every value whose key starts with prefix.
	DeletePrefix(ctx context.Context, prefix string) error

	// Clear removes all cached values.
	Clear(ctx context.Context) error
}

// TextAnalysis holds content-analysis signals for a piece of text, each in [0, 1].
type TextAnalysis struct {
	Toxicity   float64
	Spam       float64
	Confidence float64
}

// ReactionSignals describes a reaction for automation assessment.
type ReactionSignals struct {
	ReplyID          int64
	UserID           int64
	ReactionType     ReactionType
	TimeSpentSeconds int
	Comment          string
}

// ReactionAssessment holds automation risk signals, each in [0, 1].
type ReactionAssessment struct {
	Spam    float64
	Bot     float64
	Anomaly float64
}

// ContentAnalyzer supplies the externally computed risk inputs.
// Implementations: internal/infra/analyzer/client.go
type ContentAnalyzer interface {
	// AnalyzeText scores free text for toxicity and spam.
	AnalyzeText(ctx context.Context, text string) (*TextAnalysis, error)

	// AssessReaction scores a reaction for spam, bot and anomaly signals.
	AssessReaction(ctx context.Context, signals ReactionSignals) (*ReactionAssessment, error)
}

// EventPublisher announces domain events to other services.
// Implementations: internal/infra/kafka/publisher.go
type EventPublisher interface {
	Publish(ctx context.Context, eventType, aggregateType string, aggregateID int64, payload any) error
}

// Event types published by the service.
const (
	EventReviewSubmitted = "review.submitted"
	EventReviewUpdated   = "review.updated"
	EventReplyAdded      = "reply.added"
	EventReplyDeleted    = "reply.deleted"
	EventReactionAdded   = "reaction.added"
	EventReportFiled     = "report.filed"
	EventReportAssigned  = "report.assigned"
	EventReportResolved  = "report.resolved"
	EventReportDismissed = "report.dismissed"
	EventReportEscalated = "report.escalated"
)
