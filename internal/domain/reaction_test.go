package domain

import (
	"math"
	"testing"
)

func engagedReaction() *ReplyReaction {
	r := NewReplyReaction(1, 2, "love", 5)
	r.Comment = "This reply changed how I think about the ending of the book"
	r.IsUserVerified = true
	r.IsPremiumUser = true
	r.UserFollowerCount = 1500
	r.TimeSpentSeconds = 45
	r.SpamScore = 0.1
	r.BotScore = 0.2

	return r
}

func TestReaction_Scores(t *testing.T) {
	r := engagedReaction().PrepareForSave(testNow)

	// 20 intensity + 20 comment + 15 verified + 10 premium + 15 time + 16 authenticity
	if r.QualityScore != 96 {
		t.Errorf("QualityScore = %d, want 96", r.QualityScore)
	}
	// 30 intensity + 25 comment + 20 time + 20 strong weight
	if r.EngagementScore != 95 {
		t.Errorf("EngagementScore = %d, want 95", r.EngagementScore)
	}
	// 25 verified + 15 premium + 20 followers + 10 intensity + 20 considered comment
	if r.InfluenceScore != 90 {
		t.Errorf("InfluenceScore = %d, want 90", r.InfluenceScore)
	}
	if r.SentimentValue != 1 {
		t.Errorf("SentimentValue = %v, want 1", r.SentimentValue)
	}
}

func TestReaction_MinimalScores(t *testing.T) {
	r := NewReplyReaction(1, 2, "like", 1).PrepareForSave(testNow)

	// 4 intensity + 20 authenticity
	if r.QualityScore != 24 {
		t.Errorf("QualityScore = %d, want 24", r.QualityScore)
	}
	// 6 intensity, neutral weight
	if r.EngagementScore != 6 {
		t.Errorf("EngagementScore = %d, want 6", r.EngagementScore)
	}
	if r.InfluenceScore != 0 {
		t.Errorf("InfluenceScore = %d, want 0", r.InfluenceScore)
	}
}

func TestReaction_ShortCommentCountsHalf(t *testing.T) {
	r := NewReplyReaction(1, 2, "thoughtful", 3)
	r.Comment = "nice point"
	r.PrepareForSave(testNow)

	// 12 intensity + 10 short comment + 20 authenticity
	if r.QualityScore != 42 {
		t.Errorf("QualityScore = %d, want 42", r.QualityScore)
	}
	// 18 intensity + 25 comment + 10 moderate weight
	if r.EngagementScore != 53 {
		t.Errorf("EngagementScore = %d, want 53", r.EngagementScore)
	}
}

func TestReaction_AngrySentiment(t *testing.T) {
	r := NewReplyReaction(1, 2, "ANGRY", 1).PrepareForSave(testNow)

	if r.ReactionType != ReactionAngry {
		t.Errorf("ReactionType = %q, want angry", r.ReactionType)
	}
	if math.Abs(r.SentimentValue-(-0.2667)) > sentimentTolerance {
		t.Errorf("SentimentValue = %.4f, want -0.2667", r.SentimentValue)
	}
	if !r.IsNegative() || r.IsPositive() || r.IsNeutral() {
		t.Errorf("expected negative sentiment classification")
	}
	if r.Emoji() != "😠" {
		t.Errorf("Emoji() = %q", r.Emoji())
	}
}

func TestReaction_UnknownTypeDefaults(t *testing.T) {
	r := NewReplyReaction(1, 2, "meh", 4).PrepareForSave(testNow)

	if r.SentimentValue != 0 || r.Emoji() != "👍" {
		t.Errorf("unknown type should fall back to neutral, got %v %q", r.SentimentValue, r.Emoji())
	}
	if !contains(r.Validate(), `reaction_type "meh" is not supported`) {
		t.Errorf("Validate() should reject unknown type, got %v", r.Validate())
	}
}

func TestReaction_ScoresInRange(t *testing.T) {
	for _, typ := range ReactionTypes() {
		for intensity := 0; intensity <= 6; intensity++ {
			r := engagedReaction()
			r.ReactionType = typ
			r.ReactionIntensity = intensity
			r.UserFollowerCount = 1_000_000
			r.SpamScore = 2
			r.BotScore = -1
			r.PrepareForSave(testNow)

			for name, score := range map[string]int{
				"quality":    r.QualityScore,
				"engagement": r.EngagementScore,
				"influence":  r.InfluenceScore,
			} {
				if score < MinScore || score > MaxScore {
					t.Errorf("%s/%d: %s score %d out of range", typ, intensity, name, score)
				}
			}
			if r.SentimentValue < -1 || r.SentimentValue > 1 {
				t.Errorf("%s/%d: sentiment %v out of range", typ, intensity, r.SentimentValue)
			}
		}
	}
}

func TestReaction_NeedsReview(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(r *ReplyReaction)
		expected bool
	}{
		{"clean", func(r *ReplyReaction) {}, false},
		{"spam at threshold", func(r *ReplyReaction) { r.SpamScore = 0.7 }, false},
		{"spam above threshold", func(r *ReplyReaction) { r.SpamScore = 0.71 }, true},
		{"bot", func(r *ReplyReaction) { r.BotScore = 0.9 }, true},
		{"anomaly at threshold", func(r *ReplyReaction) { r.AnomalyScore = 0.8 }, false},
		{"anomaly", func(r *ReplyReaction) { r.AnomalyScore = 0.81 }, true},
		{"flagged", func(r *ReplyReaction) { r.IsFlagged = true }, true},
		{"reported", func(r *ReplyReaction) { r.ReportCount = 1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewReplyReaction(1, 2, "like", 3)
			tt.mutate(r)

			if got := r.NeedsReview(); got != tt.expected {
				t.Errorf("NeedsReview() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestReaction_Validate(t *testing.T) {
	valid := NewReplyReaction(1, 2, "helpful", 3)
	if problems := valid.Validate(); len(problems) != 0 {
		t.Fatalf("expected valid reaction, got %v", problems)
	}

	bad := &ReplyReaction{ReactionIntensity: 9, SpamScore: 1.5}
	problems := bad.Validate()

	for _, want := range []string{
		"reply_id is required",
		"user_id is required",
		"reaction_type is required",
		"reaction_intensity must be between 1 and 5",
		"spam_score must be between 0 and 1",
	} {
		if !contains(problems, want) {
			t.Errorf("Validate() = %v, missing %q", problems, want)
		}
	}
}
