package domain

import (
	"math"
	"strings"
)

// ReactionType is a categorical reaction on a reply.
type ReactionType string

const (
	ReactionLike       ReactionType = "like"
	ReactionDislike    ReactionType = "dislike"
	ReactionLove       ReactionType = "love"
	ReactionLaugh      ReactionType = "laugh"
	ReactionWow        ReactionType = "wow"
	ReactionSad        ReactionType = "sad"
	ReactionAngry      ReactionType = "angry"
	ReactionCare       ReactionType = "care"
	ReactionCelebrate  ReactionType = "celebrate"
	ReactionSupport    ReactionType = "support"
	ReactionInsightful ReactionType = "insightful"
	ReactionFunny      ReactionType = "funny"
	ReactionHelpful    ReactionType = "helpful"
	ReactionInspiring  ReactionType = "inspiring"
	ReactionThoughtful ReactionType = "thoughtful"
)

// ReactionWeight grades how much effort a reaction type signals.
type ReactionWeight string

const (
	WeightStrong   ReactionWeight = "strong"
	WeightModerate ReactionWeight = "moderate"
	WeightNeutral  ReactionWeight = "neutral"
)

// ReactionTraits is one row of the reaction lookup table.
type ReactionTraits struct {
	Sentiment float64
	Emoji     string
	Weight    ReactionWeight
}

// defaultReactionTraits applies to any type missing from the table.
var defaultReactionTraits = ReactionTraits{Sentiment: 0, Emoji: "👍", Weight: WeightNeutral}

var reactionTable = map[ReactionType]ReactionTraits{
	ReactionLove:       {1.0, "❤️", WeightStrong},
	ReactionCelebrate:  {0.9, "🎉", WeightStrong},
	ReactionInspiring:  {0.9, "✨", WeightStrong},
	ReactionSupport:    {0.8, "💪", WeightModerate},
	ReactionCare:       {0.8, "🤗", WeightModerate},
	ReactionHelpful:    {0.7, "🙌", WeightModerate},
	ReactionInsightful: {0.7, "💡", WeightStrong},
	ReactionLike:       {0.6, "👍", WeightNeutral},
	ReactionFunny:      {0.6, "🤣", WeightModerate},
	ReactionLaugh:      {0.6, "😂", WeightModerate},
	ReactionThoughtful: {0.5, "🤔", WeightModerate},
	ReactionWow:        {0.3, "😮", WeightModerate},
	ReactionSad:        {-0.4, "😢", WeightModerate},
	ReactionDislike:    {-0.6, "👎", WeightModerate},
	ReactionAngry:      {-0.8, "😠", WeightStrong},
}

// ReactionTypes lists every known reaction type.
func ReactionTypes() []ReactionType {
	return []ReactionType{
		ReactionLike, ReactionDislike, ReactionLove, ReactionLaugh, ReactionWow,
		ReactionSad, ReactionAngry, ReactionCare, ReactionCelebrate, ReactionSupport,
		ReactionInsightful, ReactionFunny, ReactionHelpful, ReactionInspiring, ReactionThoughtful,
	}
}

// NormalizeReactionType lowercases and trims a raw reaction type.
func NormalizeReactionType(raw string) ReactionType {
	return ReactionType(strings.ToLower(strings.TrimSpace(raw)))
}

// IsKnown reports whether t is in the reaction table.
func (t ReactionType) IsKnown() bool {
	_, ok := reactionTable[t]
	return ok
}

// Traits returns the table row for t, or the neutral default.
func (t ReactionType) Traits() ReactionTraits {
	if traits, ok := reactionTable[t]; ok {
		return traits
	}

	return defaultReactionTraits
}

// Sentiment scales the base sentiment of t by intensity/3 and clamps to [-1, 1].
func Sentiment(t ReactionType, intensity int) float64 {
	value := t.Traits().Sentiment * (float64(intensity) / 3.0)

	return math.Min(1, math.Max(-1, value))
}

const (
	positiveSentimentThreshold = 0.2
	negativeSentimentThreshold = -0.2
)

// IsPositiveSentiment reports values above the positive threshold.
func IsPositiveSentiment(v float64) bool { return v > positiveSentimentThreshold }

// IsNegativeSentiment reports values below the negative threshold.
func IsNegativeSentiment(v float64) bool { return v < negativeSentimentThreshold }
