package domain

import (
	"strings"
	"time"
)

const (
	replyContentMin = 5
	replyContentMax = 2000

	// MaxReplyDepth is the deepest nesting level a reply may have.
	MaxReplyDepth = 10
)

// ReviewReply is a threaded reply on a review.
type ReviewReply struct {
	ID            int64  `json:"id"`
	ReviewID      int64  `json:"review_id"`
	UserID        int64  `json:"user_id"`
	ParentReplyID *int64 `json:"parent_reply_id,omitempty"`
	Depth         int    `json:"depth"`

	Content string `json:"content"`

	// Counters
	LikeCount       int `json:"like_count"`
	DislikeCount    int `json:"dislike_count"`
	ChildReplyCount int `json:"child_reply_count"`
	ReportCount     int `json:"report_count"`

	// Author and moderation
	IsAuthorVerified bool `json:"is_author_verified"`
	IsReviewAuthor   bool `json:"is_review_author"`
	IsFlagged        bool `json:"is_flagged"`

	// Derived
	WordCount                   int `json:"word_count"`
	CharacterCount              int `json:"character_count"`
	EstimatedReadingTimeSeconds int `json:"estimated_reading_time_seconds"`
	QualityScore                int `json:"quality_score"`

	// Soft state
	IsEdited       bool       `json:"is_edited"`
	EditedAt       *time.Time `json:"edited_at,omitempty"`
	EditCount      int        `json:"edit_count"`
	IsDeleted      bool       `json:"is_deleted"`
	DeletedAt      *time.Time `json:"deleted_at,omitempty"`
	DeletionReason string     `json:"deletion_reason,omitempty"`

	Version   int       `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewReviewReply creates a top-level reply on a review.
func NewReviewReply(reviewID, userID int64, content string) *ReviewReply {
	return &ReviewReply{
		ReviewID: reviewID,
		UserID:   userID,
		Content:  content,
	}
}

// AttachTo nests the reply under parent, one level deeper.
func (r *ReviewReply) AttachTo(parent *ReviewReply) {
	id := parent.ID
	r.ParentReplyID = &id
	r.Depth = parent.Depth + 1
}

// TotalReactions is always likes + dislikes.
func (r *ReviewReply) TotalReactions() int {
	return r.LikeCount + r.DislikeCount
}

// LikeRatio returns likes/total, or 0 without reactions.
func (r *ReviewReply) LikeRatio() float64 {
	total := r.TotalReactions()
	if total == 0 {
		return 0
	}

	return float64(r.LikeCount) / float64(total)
}

// moderationPoints rewards replies nobody has complained about.
func (r *ReviewReply) moderationPoints() int {
	switch {
	case r.IsDeleted || r.IsFlagged:
		return 0
	case r.ReportCount > 0:
		return 10
	default:
		return 20
	}
}

var replyQuality = Scorecard[*ReviewReply]{
	// length
	Threshold(func(r *ReviewReply) float64 { return float64(r.WordCount) },
		Rung{100, 25}, Rung{50, 20}, Rung{20, 15}, Rung{10, 10}, Rung{5, 5}),
	// engagement
	Proportional(func(r *ReviewReply) bool { return r.TotalReactions() > 0 }, (*ReviewReply).LikeRatio, 25),
	// thread participation
	Threshold(func(r *ReviewReply) float64 { return float64(r.ChildReplyCount) },
		Rung{6, 15}, Rung{3, 10}, Rung{1, 5}),
	// author verification
	Flag(func(r *ReviewReply) bool { return r.IsAuthorVerified }, 10),
	Flag(func(r *ReviewReply) bool { return r.IsReviewAuthor }, 5),
	// moderation state
	(*ReviewReply).moderationPoints,
}

// CalculateQualityScore scores the reply from its current fields.
func (r *ReviewReply) CalculateQualityScore() int {
	return replyQuality.Score(r)
}

// PrepareForSave normalizes text and recomputes every derived field.
func (r *ReviewReply) PrepareForSave(now time.Time) *ReviewReply {
	r.Content = strings.TrimSpace(r.Content)
	r.DeletionReason = strings.TrimSpace(r.DeletionReason)

	m := MeasureContent(r.Content)
	r.WordCount = m.WordCount
	r.CharacterCount = m.CharacterCount
	r.EstimatedReadingTimeSeconds = ReplyReadingSeconds(m.WordCount)

	r.QualityScore = r.CalculateQualityScore()

	stampSave(&r.CreatedAt, &r.UpdatedAt, now)

	return r
}

// Validate returns every violated constraint; empty means valid.
func (r *ReviewReply) Validate() []string {
	var p problems

	if r.ID < 0 {
		p.add("id must not be negative")
	}
	p.requireID("review_id", r.ReviewID)
	p.requireID("user_id", r.UserID)
	if r.ParentReplyID != nil {
		if *r.ParentReplyID <= 0 {
			p.add("parent_reply_id must be positive")
		} else if r.ID != 0 && *r.ParentReplyID == r.ID {
			p.add("parent_reply_id must not reference the reply itself")
		}
	}
	p.between("depth", r.Depth, 0, MaxReplyDepth)
	p.length("content", strings.TrimSpace(r.Content), replyContentMin, replyContentMax)
	p.maxLength("deletion_reason", r.DeletionReason, 500)

	p.nonNegative("like_count", r.LikeCount)
	p.nonNegative("dislike_count", r.DislikeCount)
	p.nonNegative("child_reply_count", r.ChildReplyCount)
	p.nonNegative("report_count", r.ReportCount)
	p.nonNegative("edit_count", r.EditCount)

	return p.list()
}

// MarkAsEdited records an edit of the reply content.
func (r *ReviewReply) MarkAsEdited(now time.Time) {
	r.IsEdited = true
	r.EditedAt = &now
	r.EditCount++
	r.UpdatedAt = now
}

// SoftDelete hides the reply while keeping the row and its thread position.
func (r *ReviewReply) SoftDelete(reason string, now time.Time) {
	r.IsDeleted = true
	r.DeletedAt = &now
	r.DeletionReason = reason
	r.UpdatedAt = now
}

// Restore reverses SoftDelete.
func (r *ReviewReply) Restore(now time.Time) {
	r.IsDeleted = false
	r.DeletedAt = nil
	r.DeletionReason = ""
	r.UpdatedAt = now
}

// RecordReaction counts a reaction as a like when positive, a dislike otherwise.
func (r *ReviewReply) RecordReaction(positive bool, now time.Time) {
	if positive {
		r.LikeCount++
	} else {
		r.DislikeCount++
	}
	r.UpdatedAt = now
}

// RemoveReaction reverses RecordReaction. Counters never go below zero.
func (r *ReviewReply) RemoveReaction(positive bool, now time.Time) {
	if positive {
		r.LikeCount = max(0, r.LikeCount-1)
	} else {
		r.DislikeCount = max(0, r.DislikeCount-1)
	}
	r.UpdatedAt = now
}

// RecordChildReply counts a nested reply.
func (r *ReviewReply) RecordChildReply(now time.Time) {
	r.ChildReplyCount++
	r.UpdatedAt = now
}

// RecordReport counts a filed report and flags the reply past the threshold.
func (r *ReviewReply) RecordReport(now time.Time) {
	r.ReportCount++
	if r.ReportCount >= reviewFlagThreshold {
		r.IsFlagged = true
	}
	r.UpdatedAt = now
}
