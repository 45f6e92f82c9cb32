package analyzer

import "review-engagement-service/internal/domain"

// AnalyzeRequest is the body of POST /v1/analyze.
type AnalyzeRequest struct {
	Text string `json:"text"`
}

// AnalyzeResponse is the analysis of one text. Scores are in [0, 1].
type AnalyzeResponse struct {
	Toxicity   float64 `json:"toxicity"`
	Spam       float64 `json:"spam"`
	Confidence float64 `json:"confidence"`
}

// ToDomain converts the response, clamping each score into [0, 1].
func (r *AnalyzeResponse) ToDomain() *domain.TextAnalysis {
	return &domain.TextAnalysis{
		Toxicity:   unit(r.Toxicity),
		Spam:       unit(r.Spam),
		Confidence: unit(r.Confidence),
	}
}

// AssessRequest is the body of POST /v1/reactions/assess.
type AssessRequest struct {
	ReplyID          int64  `json:"reply_id"`
	UserID           int64  `json:"user_id"`
	ReactionType     string `json:"reaction_type"`
	TimeSpentSeconds int    `json:"time_spent_seconds"`
	Comment          string `json:"comment,omitempty"`
}

func newAssessRequest(s domain.ReactionSignals) AssessRequest {
	return AssessRequest{
		ReplyID:          s.ReplyID,
		UserID:           s.UserID,
		ReactionType:     string(s.ReactionType),
		TimeSpentSeconds: s.TimeSpentSeconds,
		Comment:          s.Comment,
	}
}

// AssessResponse holds automation risk signals for a reaction.
type AssessResponse struct {
	Spam    float64 `json:"spam"`
	Bot     float64 `json:"bot"`
	Anomaly float64 `json:"anomaly"`
}

// ToDomain converts the response, clamping each score into [0, 1].
func (r *AssessResponse) ToDomain() *domain.ReactionAssessment {
	return &domain.ReactionAssessment{
		Spam:    unit(r.Spam),
		Bot:     unit(r.Bot),
		Anomaly: unit(r.Anomaly),
	}
}

func unit(v float64) float64 {
	return min(1, max(0, v))
}
