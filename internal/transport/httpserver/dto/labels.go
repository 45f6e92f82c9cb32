package dto

// SentimentDisplay buckets a sentiment value in [-1, 1] for display.
func SentimentDisplay(v float64) string {
	switch {
	case v > 0.5:
		return "very positive"
	case v > 0.2:
		return "positive"
	case v > -0.2:
		return "neutral"
	case v > -0.5:
		return "negative"
	default:
		return "very negative"
	}
}

// QualityLabel buckets a 0-100 quality score for display.
func QualityLabel(score int) string {
	switch {
	case score >= 80:
		return "excellent"
	case score >= 60:
		return "good"
	case score >= 40:
		return "fair"
	default:
		return "poor"
	}
}
