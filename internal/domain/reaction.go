package domain

import (
	"math"
	"strings"
	"time"
)

const (
	spamThreshold    = 0.7
	botThreshold     = 0.7
	anomalyThreshold = 0.8

	// considerateCommentWords is the word count at which a comment counts as considered.
	considerateCommentWords = 10
)

// ReplyReaction is one user's reaction on a reply.
type ReplyReaction struct {
	ID      int64 `json:"id"`
	ReplyID int64 `json:"reply_id"`
	UserID  int64 `json:"user_id"`

	ReactionType      ReactionType `json:"reaction_type"`
	ReactionIntensity int          `json:"reaction_intensity"`
	Comment           string       `json:"comment,omitempty"`

	// Actor signals
	IsUserVerified    bool `json:"is_user_verified"`
	IsPremiumUser     bool `json:"is_premium_user"`
	UserFollowerCount int  `json:"user_follower_count"`
	TimeSpentSeconds  int  `json:"time_spent_seconds"`

	// Risk inputs, supplied by content analysis
	SpamScore    float64 `json:"spam_score"`
	BotScore     float64 `json:"bot_score"`
	AnomalyScore float64 `json:"anomaly_score"`
	IsFlagged    bool    `json:"is_flagged"`
	ReportCount  int     `json:"report_count"`

	// Derived
	SentimentValue  float64 `json:"sentiment_value"`
	QualityScore    int     `json:"quality_score"`
	EngagementScore int     `json:"engagement_score"`
	InfluenceScore  int     `json:"influence_score"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewReplyReaction creates a reaction of the given type and intensity.
func NewReplyReaction(replyID, userID int64, reactionType string, intensity int) *ReplyReaction {
	return &ReplyReaction{
		ReplyID:           replyID,
		UserID:            userID,
		ReactionType:      NormalizeReactionType(reactionType),
		ReactionIntensity: intensity,
	}
}

// Emoji returns the display emoji of the reaction type.
func (r *ReplyReaction) Emoji() string {
	return r.ReactionType.Traits().Emoji
}

// HasComment reports whether a non-blank comment is attached.
func (r *ReplyReaction) HasComment() bool {
	return strings.TrimSpace(r.Comment) != ""
}

func (r *ReplyReaction) commentWords() int {
	return MeasureContent(r.Comment).WordCount
}

// IsLikelySpam reports a spam score above 0.7.
func (r *ReplyReaction) IsLikelySpam() bool { return r.SpamScore > spamThreshold }

// IsLikelyBot reports a bot score above 0.7.
func (r *ReplyReaction) IsLikelyBot() bool { return r.BotScore > botThreshold }

// IsAnomalous reports an anomaly score above 0.8.
func (r *ReplyReaction) IsAnomalous() bool { return r.AnomalyScore > anomalyThreshold }

// NeedsReview reports whether a moderator should look at the reaction.
func (r *ReplyReaction) NeedsReview() bool {
	return r.IsLikelySpam() || r.IsLikelyBot() || r.IsAnomalous() || r.IsFlagged || r.ReportCount > 0
}

// IsPositive reports a sentiment above 0.2.
func (r *ReplyReaction) IsPositive() bool { return IsPositiveSentiment(r.SentimentValue) }

// IsNegative reports a sentiment below -0.2.
func (r *ReplyReaction) IsNegative() bool { return IsNegativeSentiment(r.SentimentValue) }

// IsNeutral reports a sentiment within [-0.2, 0.2].
func (r *ReplyReaction) IsNeutral() bool { return !r.IsPositive() && !r.IsNegative() }

func reactionIntensity(r *ReplyReaction) float64 { return float64(r.ReactionIntensity) }

func reactionTimeSpent(r *ReplyReaction) float64 { return float64(r.TimeSpentSeconds) }

func isVerifiedReactor(r *ReplyReaction) bool { return r.IsUserVerified }

func isPremiumReactor(r *ReplyReaction) bool { return r.IsPremiumUser }

func hasConsideredComment(r *ReplyReaction) bool {
	return r.commentWords() >= considerateCommentWords
}

// authenticity is the complement of the strongest automation signal.
func (r *ReplyReaction) authenticity() float64 {
	return 1 - math.Max(clampUnit(r.SpamScore), clampUnit(r.BotScore))
}

func (r *ReplyReaction) weightPoints() int {
	switch r.ReactionType.Traits().Weight {
	case WeightStrong:
		return 20
	case WeightModerate:
		return 10
	default:
		return 0
	}
}

var reactionQuality = Scorecard[*ReplyReaction]{
	// intensity
	Threshold(reactionIntensity, Rung{5, 20}, Rung{4, 16}, Rung{3, 12}, Rung{2, 8}, Rung{1, 4}),
	// comment presence
	func(r *ReplyReaction) int {
		switch {
		case hasConsideredComment(r):
			return 20
		case r.HasComment():
			return 10
		default:
			return 0
		}
	},
	Flag(isVerifiedReactor, 15),
	Flag(isPremiumReactor, 10),
	// time spent
	Threshold(reactionTimeSpent, Rung{30, 15}, Rung{10, 10}, Rung{3, 5}),
	// authenticity
	Proportional(nil, (*ReplyReaction).authenticity, 20),
}

var reactionEngagement = Scorecard[*ReplyReaction]{
	Threshold(reactionIntensity, Rung{5, 30}, Rung{4, 24}, Rung{3, 18}, Rung{2, 12}, Rung{1, 6}),
	Flag((*ReplyReaction).HasComment, 25),
	Threshold(reactionTimeSpent, Rung{60, 25}, Rung{30, 20}, Rung{10, 10}, Rung{3, 5}),
	(*ReplyReaction).weightPoints,
}

var reactionInfluence = Scorecard[*ReplyReaction]{
	Flag(isVerifiedReactor, 25),
	Flag(isPremiumReactor, 15),
	Threshold(func(r *ReplyReaction) float64 { return float64(r.UserFollowerCount) },
		Rung{10000, 30}, Rung{1000, 20}, Rung{100, 10}, Rung{10, 5}),
	Threshold(reactionIntensity, Rung{4, 10}, Rung{2, 5}),
	Flag(hasConsideredComment, 20),
}

// CalculateQualityScore scores how much signal the reaction carries.
func (r *ReplyReaction) CalculateQualityScore() int { return reactionQuality.Score(r) }

// CalculateEngagementScore scores how much effort the reaction shows.
func (r *ReplyReaction) CalculateEngagementScore() int { return reactionEngagement.Score(r) }

// CalculateInfluenceScore scores the reach of the reacting user.
func (r *ReplyReaction) CalculateInfluenceScore() int { return reactionInfluence.Score(r) }

// PrepareForSave normalizes the reaction and recomputes sentiment and scores.
func (r *ReplyReaction) PrepareForSave(now time.Time) *ReplyReaction {
	r.ReactionType = NormalizeReactionType(string(r.ReactionType))
	r.Comment = strings.TrimSpace(r.Comment)

	r.SentimentValue = Sentiment(r.ReactionType, r.ReactionIntensity)

	r.QualityScore = r.CalculateQualityScore()
	r.EngagementScore = r.CalculateEngagementScore()
	r.InfluenceScore = r.CalculateInfluenceScore()

	stampSave(&r.CreatedAt, &r.UpdatedAt, now)

	return r
}

// Validate returns every violated constraint; empty means valid.
func (r *ReplyReaction) Validate() []string {
	var p problems

	if r.ID < 0 {
		p.add("id must not be negative")
	}
	p.requireID("reply_id", r.ReplyID)
	p.requireID("user_id", r.UserID)

	switch t := NormalizeReactionType(string(r.ReactionType)); {
	case t == "":
		p.add("reaction_type is required")
	case !t.IsKnown():
		p.add("reaction_type %q is not supported", string(t))
	}

	p.between("reaction_intensity", r.ReactionIntensity, 1, 5)
	p.maxLength("comment", r.Comment, 500)
	p.nonNegative("user_follower_count", r.UserFollowerCount)
	p.nonNegative("time_spent_seconds", r.TimeSpentSeconds)
	p.nonNegative("report_count", r.ReportCount)
	p.unit("spam_score", r.SpamScore)
	p.unit("bot_score", r.BotScore)
	p.unit("anomaly_score", r.AnomalyScore)

	return p.list()
}
