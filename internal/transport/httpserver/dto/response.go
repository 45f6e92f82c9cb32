package dto

import (
	"review-engagement-service/internal/app/service"
	"review-engagement-service/internal/domain"
)

// ReviewResponse represents a single review in the response.
type ReviewResponse struct {
	*domain.Review

	TotalVotes            int     `json:"total_votes"`
	HelpfulnessRatio      float64 `json:"helpfulness_ratio"`
	AverageDetailedRating float64 `json:"average_detailed_rating,omitempty"`
	QualityLabel          string  `json:"quality_label"`
}

// FromDomainReview converts domain.Review to ReviewResponse.
func FromDomainReview(r *domain.Review) ReviewResponse {
	return ReviewResponse{
		Review:                r,
		TotalVotes:            r.TotalVotes(),
		HelpfulnessRatio:      r.HelpfulnessRatio(),
		AverageDetailedRating: r.AverageDetailedRating(),
		QualityLabel:          QualityLabel(r.QualityScore),
	}
}

// ReplyResponse represents a single reply in the response.
type ReplyResponse struct {
	*domain.ReviewReply

	TotalReactions int     `json:"total_reactions"`
	LikeRatio      float64 `json:"like_ratio"`
	QualityLabel   string  `json:"quality_label"`
}

func FromDomainReply(r *domain.ReviewReply) ReplyResponse {
	return ReplyResponse{
		ReviewReply:    r,
		TotalReactions: r.TotalReactions(),
		LikeRatio:      r.LikeRatio(),
		QualityLabel:   QualityLabel(r.QualityScore),
	}
}

// ReactionResponse represents a single reaction in the response.
type ReactionResponse struct {
	*domain.ReplyReaction

	Emoji            string `json:"emoji"`
	SentimentDisplay string `json:"sentiment_display"`
	NeedsReview      bool   `json:"needs_review"`
}

func FromDomainReaction(r *domain.ReplyReaction) ReactionResponse {
	return ReactionResponse{
		ReplyReaction:    r,
		Emoji:            r.Emoji(),
		SentimentDisplay: SentimentDisplay(r.SentimentValue),
		NeedsReview:      r.NeedsReview(),
	}
}

// ReportResponse represents a single report in the response.
type ReportResponse struct {
	*domain.Report

	ViolationCount int  `json:"violation_count"`
	IsCritical     bool `json:"is_critical"`
	IsOpen         bool `json:"is_open"`
}

func FromDomainReport(r *domain.Report) ReportResponse {
	return ReportResponse{
		Report:         r,
		ViolationCount: r.Violations.Count(),
		IsCritical:     r.Violations.IsCritical(),
		IsOpen:         r.IsOpen(),
	}
}

// ListResponse represents one page of any listing.
type ListResponse[T any] struct {
	Items      []T            `json:"items"`
	Pagination PaginationMeta `json:"pagination"`
}

// PaginationMeta holds pagination metadata.
type PaginationMeta struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

// FromPage converts a domain page, mapping every item with conv.
func FromPage[S, T any](page *domain.Page[S], conv func(*S) T) ListResponse[T] {
	items := make([]T, len(page.Items))
	for i, item := range page.Items {
		items[i] = conv(item)
	}

	return ListResponse[T]{
		Items: items,
		Pagination: PaginationMeta{
			Total:      page.Total,
			Page:       page.Page,
			PageSize:   page.PageSize,
			TotalPages: page.TotalPages,
		},
	}
}

// ItemsResponse represents an unpaginated listing.
type ItemsResponse[T any] struct {
	Items []T `json:"items"`
	Count int `json:"count"`
}

// FromSlice maps every item with conv.
func FromSlice[S, T any](in []*S, conv func(*S) T) ItemsResponse[T] {
	items := make([]T, len(in))
	for i, item := range in {
		items[i] = conv(item)
	}

	return ItemsResponse[T]{Items: items, Count: len(items)}
}

// RescoreResponse represents the result of a rescoring run.
type RescoreResponse struct {
	Scanned  int    `json:"scanned"`
	Updated  int    `json:"updated"`
	Duration string `json:"duration"`
}

func FromRescoreResult(r service.RescoreResult) RescoreResponse {
	return RescoreResponse{
		Scanned:  r.Scanned,
		Updated:  r.Updated,
		Duration: r.Duration.String(),
	}
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string      `json:"error"`
	Code    string      `json:"code,omitempty"`
	Details interface{} `json:"details,omitempty"`
}
