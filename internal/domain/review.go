package domain

import (
	"strings"
	"time"
)

const (
	reviewTitleMin   = 5
	reviewTitleMax   = 200
	reviewContentMin = 20
	reviewContentMax = 5000

	// summaryLength is how many characters of content a derived summary keeps.
	summaryLength = 200

	// reviewFlagThreshold is the report count at which a review gets flagged.
	reviewFlagThreshold = 3
)

// Review is a reader's review of a book together with its vote, reply and
// report counters.
type Review struct {
	ID     int64 `json:"id"`
	BookID int64 `json:"book_id"`
	UserID int64 `json:"user_id"`

	// Ratings
	OverallRating       int  `json:"overall_rating"`
	StoryRating         *int `json:"story_rating,omitempty"`
	CharacterRating     *int `json:"character_rating,omitempty"`
	WritingStyleRating  *int `json:"writing_style_rating,omitempty"`
	PacingRating        *int `json:"pacing_rating,omitempty"`
	WorldBuildingRating *int `json:"world_building_rating,omitempty"`

	// Text
	Title                  string `json:"title"`
	Content                string `json:"content"`
	Summary                string `json:"summary,omitempty"`
	PositiveAspects        string `json:"positive_aspects,omitempty"`
	NegativeAspects        string `json:"negative_aspects,omitempty"`
	TargetAudience         string `json:"target_audience,omitempty"`
	SimilarRecommendations string `json:"similar_recommendations,omitempty"`

	// Flags
	ContainsSpoilers   bool `json:"contains_spoilers"`
	IsRecommended      bool `json:"is_recommended"`
	IsVerifiedPurchase bool `json:"is_verified_purchase"`
	IsVisible          bool `json:"is_visible"`
	IsFlagged          bool `json:"is_flagged"`

	// Counters
	HelpfulVotes   int `json:"helpful_votes"`
	UnhelpfulVotes int `json:"unhelpful_votes"`
	ReplyCount     int `json:"reply_count"`
	ReportCount    int `json:"report_count"`

	// Derived
	WordCount                   int `json:"word_count"`
	CharacterCount              int `json:"character_count"`
	EstimatedReadingTimeMinutes int `json:"estimated_reading_time_minutes"`
	QualityScore                int `json:"quality_score"`

	Version   int       `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewReview creates a visible review for the given book and author.
func NewReview(bookID, userID int64, overallRating int, title, content string) *Review {
	return &Review{
		BookID:        bookID,
		UserID:        userID,
		OverallRating: overallRating,
		Title:         title,
		Content:       content,
		IsVisible:     true,
	}
}

// TotalVotes is always helpful + unhelpful.
func (r *Review) TotalVotes() int {
	return r.HelpfulVotes + r.UnhelpfulVotes
}

// HelpfulnessRatio returns helpful/total, or 0 when nobody voted.
func (r *Review) HelpfulnessRatio() float64 {
	total := r.TotalVotes()
	if total == 0 {
		return 0
	}

	return float64(r.HelpfulVotes) / float64(total)
}

func (r *Review) detailedRatings() []*int {
	return []*int{r.StoryRating, r.CharacterRating, r.WritingStyleRating, r.PacingRating, r.WorldBuildingRating}
}

// HasDetailedRatings reports whether any optional rating is set.
func (r *Review) HasDetailedRatings() bool {
	for _, rating := range r.detailedRatings() {
		if rating != nil {
			return true
		}
	}

	return false
}

// AverageDetailedRating is the mean of the set detailed ratings, 0 if none.
func (r *Review) AverageDetailedRating() float64 {
	sum, n := 0, 0
	for _, rating := range r.detailedRatings() {
		if rating != nil {
			sum += *rating
			n++
		}
	}
	if n == 0 {
		return 0
	}

	return float64(sum) / float64(n)
}

// CompletenessFields counts the optional descriptive fields that are filled in.
func (r *Review) CompletenessFields() int {
	n := 0
	for _, s := range []string{r.Summary, r.PositiveAspects, r.NegativeAspects, r.TargetAudience, r.SimilarRecommendations} {
		if strings.TrimSpace(s) != "" {
			n++
		}
	}

	return n
}

// reviewQuality is the quality scorecard for reviews.
var reviewQuality = Scorecard[*Review]{
	// length
	Threshold(func(r *Review) float64 { return float64(r.WordCount) },
		Rung{200, 25}, Rung{100, 15}, Rung{50, 10}, Rung{20, 5}),
	// detail
	Flag((*Review).HasDetailedRatings, 20),
	// helpfulness
	Proportional(func(r *Review) bool { return r.TotalVotes() > 0 }, (*Review).HelpfulnessRatio, 25),
	// engagement
	Threshold(func(r *Review) float64 { return float64(r.ReplyCount) },
		Rung{6, 15}, Rung{3, 10}, Rung{1, 5}),
	// completeness
	func(r *Review) int { return 3 * r.CompletenessFields() },
}

// CalculateQualityScore scores the review from its current fields.
func (r *Review) CalculateQualityScore() int {
	return reviewQuality.Score(r)
}

// PrepareForSave normalizes text and recomputes every derived field.
// It never fails; call Validate separately.
func (r *Review) PrepareForSave(now time.Time) *Review {
	r.Title = strings.TrimSpace(r.Title)
	r.Content = strings.TrimSpace(r.Content)
	r.Summary = strings.TrimSpace(r.Summary)
	r.PositiveAspects = strings.TrimSpace(r.PositiveAspects)
	r.NegativeAspects = strings.TrimSpace(r.NegativeAspects)
	r.TargetAudience = strings.TrimSpace(r.TargetAudience)
	r.SimilarRecommendations = strings.TrimSpace(r.SimilarRecommendations)

	// Derived before scoring so a repeated call sees the same completeness.
	if r.Summary == "" && r.Content != "" {
		r.Summary = truncateRunes(r.Content, summaryLength, "...")
	}

	m := MeasureContent(r.Content)
	r.WordCount = m.WordCount
	r.CharacterCount = m.CharacterCount
	r.EstimatedReadingTimeMinutes = ReviewReadingMinutes(m.WordCount)

	r.QualityScore = r.CalculateQualityScore()

	stampSave(&r.CreatedAt, &r.UpdatedAt, now)

	return r
}

// Validate returns every violated constraint; empty means valid.
func (r *Review) Validate() []string {
	var p problems

	if r.ID < 0 {
		p.add("id must not be negative")
	}
	p.requireID("book_id", r.BookID)
	p.requireID("user_id", r.UserID)
	p.between("overall_rating", r.OverallRating, 1, 5)
	p.optionalBetween("story_rating", r.StoryRating, 1, 5)
	p.optionalBetween("character_rating", r.CharacterRating, 1, 5)
	p.optionalBetween("writing_style_rating", r.WritingStyleRating, 1, 5)
	p.optionalBetween("pacing_rating", r.PacingRating, 1, 5)
	p.optionalBetween("world_building_rating", r.WorldBuildingRating, 1, 5)

	p.length("title", strings.TrimSpace(r.Title), reviewTitleMin, reviewTitleMax)
	p.length("content", strings.TrimSpace(r.Content), reviewContentMin, reviewContentMax)
	p.maxLength("summary", r.Summary, 500)
	p.maxLength("positive_aspects", r.PositiveAspects, 1000)
	p.maxLength("negative_aspects", r.NegativeAspects, 1000)
	p.maxLength("target_audience", r.TargetAudience, 200)
	p.maxLength("similar_recommendations", r.SimilarRecommendations, 500)

	p.nonNegative("helpful_votes", r.HelpfulVotes)
	p.nonNegative("unhelpful_votes", r.UnhelpfulVotes)
	p.nonNegative("reply_count", r.ReplyCount)
	p.nonNegative("report_count", r.ReportCount)

	return p.list()
}

// Edit replaces the title and content.
func (r *Review) Edit(title, content string, now time.Time) {
	r.Title = title
	r.Content = content
	r.UpdatedAt = now
}

// CastVote records a helpful or unhelpful vote.
func (r *Review) CastVote(helpful bool, now time.Time) {
	if helpful {
		r.HelpfulVotes++
	} else {
		r.UnhelpfulVotes++
	}
	r.UpdatedAt = now
}

// RemoveVote withdraws a previously cast vote. Counters never go below zero.
func (r *Review) RemoveVote(helpful bool, now time.Time) {
	if helpful {
		r.HelpfulVotes = max(0, r.HelpfulVotes-1)
	} else {
		r.UnhelpfulVotes = max(0, r.UnhelpfulVotes-1)
	}
	r.UpdatedAt = now
}

// RecordReply counts a new reply on the review.
func (r *Review) RecordReply(now time.Time) {
	r.ReplyCount++
	r.UpdatedAt = now
}

// RecordReport counts a filed report and flags the review past the threshold.
func (r *Review) RecordReport(now time.Time) {
	r.ReportCount++
	if r.ReportCount >= reviewFlagThreshold {
		r.IsFlagged = true
	}
	r.UpdatedAt = now
}

// Hide removes the review from public listings.
func (r *Review) Hide(now time.Time) {
	r.IsVisible = false
	r.UpdatedAt = now
}

// Unhide restores the review to public listings and clears the flag.
func (r *Review) Unhide(now time.Time) {
	r.IsVisible = true
	r.IsFlagged = false
	r.UpdatedAt = now
}

// stampSave sets CreatedAt for a new entity, otherwise fills UpdatedAt if unset.
func stampSave(createdAt, updatedAt *time.Time, now time.Time) {
	if createdAt.IsZero() {
		*createdAt = now
		return
	}
	if updatedAt.IsZero() {
		*updatedAt = now
	}
}
