// Package dto provides Data Transfer Objects for HTTP requests and responses.
package dto

import (
	"review-engagement-service/internal/app/service"
	"review-engagement-service/internal/domain"
)

// SubmitReviewRequest is the body of POST /books/:bookId/reviews.
type SubmitReviewRequest struct {
	UserID        int64  `json:"user_id" validate:"required,gt=0"`
	OverallRating int    `json:"overall_rating" validate:"required,gte=1,lte=5"`
	Title         string `json:"title" validate:"required,max=200"`
	Content       string `json:"content" validate:"required,max=10000"`

	StoryRating         *int `json:"story_rating" validate:"omitempty,gte=1,lte=5"`
	CharacterRating     *int `json:"character_rating" validate:"omitempty,gte=1,lte=5"`
	WritingStyleRating  *int `json:"writing_style_rating" validate:"omitempty,gte=1,lte=5"`
	PacingRating        *int `json:"pacing_rating" validate:"omitempty,gte=1,lte=5"`
	WorldBuildingRating *int `json:"world_building_rating" validate:"omitempty,gte=1,lte=5"`

	Summary                string `json:"summary" validate:"max=500"`
	PositiveAspects        string `json:"positive_aspects" validate:"max=1000"`
	NegativeAspects        string `json:"negative_aspects" validate:"max=1000"`
	TargetAudience         string `json:"target_audience" validate:"max=200"`
	SimilarRecommendations string `json:"similar_recommendations" validate:"max=500"`

	ContainsSpoilers   bool `json:"contains_spoilers"`
	IsRecommended      bool `json:"is_recommended"`
	IsVerifiedPurchase bool `json:"is_verified_purchase"`
}

// ToInput converts the request to a service input for the given book.
func (r *SubmitReviewRequest) ToInput(bookID int64) service.SubmitReviewInput {
	return service.SubmitReviewInput{
		BookID:                 bookID,
		UserID:                 r.UserID,
		OverallRating:          r.OverallRating,
		Title:                  r.Title,
		Content:                r.Content,
		StoryRating:            r.StoryRating,
		CharacterRating:        r.CharacterRating,
		WritingStyleRating:     r.WritingStyleRating,
		PacingRating:           r.PacingRating,
		WorldBuildingRating:    r.WorldBuildingRating,
		Summary:                r.Summary,
		PositiveAspects:        r.PositiveAspects,
		NegativeAspects:        r.NegativeAspects,
		TargetAudience:         r.TargetAudience,
		SimilarRecommendations: r.SimilarRecommendations,
		ContainsSpoilers:       r.ContainsSpoilers,
		IsRecommended:          r.IsRecommended,
		IsVerifiedPurchase:     r.IsVerifiedPurchase,
	}
}

// UpdateReviewRequest is the body of PUT /reviews/:id. Absent fields are left unchanged.
type UpdateReviewRequest struct {
	OverallRating          *int    `json:"overall_rating" validate:"omitempty,gte=1,lte=5"`
	Title                  *string `json:"title" validate:"omitempty,max=200"`
	Content                *string `json:"content" validate:"omitempty,max=10000"`
	Summary                *string `json:"summary" validate:"omitempty,max=500"`
	PositiveAspects        *string `json:"positive_aspects" validate:"omitempty,max=1000"`
	NegativeAspects        *string `json:"negative_aspects" validate:"omitempty,max=1000"`
	TargetAudience         *string `json:"target_audience" validate:"omitempty,max=200"`
	SimilarRecommendations *string `json:"similar_recommendations" validate:"omitempty,max=500"`
	ContainsSpoilers       *bool   `json:"contains_spoilers"`
	IsRecommended          *bool   `json:"is_recommended"`

	StoryRating         *int `json:"story_rating" validate:"omitempty,gte=1,lte=5"`
	CharacterRating     *int `json:"character_rating" validate:"omitempty,gte=1,lte=5"`
	WritingStyleRating  *int `json:"writing_style_rating" validate:"omitempty,gte=1,lte=5"`
	PacingRating        *int `json:"pacing_rating" validate:"omitempty,gte=1,lte=5"`
	WorldBuildingRating *int `json:"world_building_rating" validate:"omitempty,gte=1,lte=5"`
}

func (r *UpdateReviewRequest) ToInput() service.UpdateReviewInput {
	return service.UpdateReviewInput{
		OverallRating:          r.OverallRating,
		Title:                  r.Title,
		Content:                r.Content,
		Summary:                r.Summary,
		PositiveAspects:        r.PositiveAspects,
		NegativeAspects:        r.NegativeAspects,
		TargetAudience:         r.TargetAudience,
		SimilarRecommendations: r.SimilarRecommendations,
		ContainsSpoilers:       r.ContainsSpoilers,
		IsRecommended:          r.IsRecommended,
		StoryRating:            r.StoryRating,
		CharacterRating:        r.CharacterRating,
		WritingStyleRating:     r.WritingStyleRating,
		PacingRating:           r.PacingRating,
		WorldBuildingRating:    r.WorldBuildingRating,
	}
}

// VoteRequest is the body of POST and DELETE /reviews/:id/votes.
type VoteRequest struct {
	Helpful bool `json:"helpful"`
}

// ReviewListRequest represents the query parameters of a book's review listing.
type ReviewListRequest struct {
	SortBy        string `query:"sort_by" validate:"omitempty,oneof=quality helpfulness recent"`
	SortOrder     string `query:"sort_order" validate:"omitempty,oneof=asc desc"`
	MinRating     int    `query:"min_rating" validate:"omitempty,min=1,max=5"`
	IncludeHidden bool   `query:"include_hidden"`
	Page          int    `query:"page" validate:"omitempty,min=1"`
	PageSize      int    `query:"page_size" validate:"omitempty,min=1,max=100"`
}

// ToListParams converts the request to domain.ReviewListParams.
func (r *ReviewListRequest) ToListParams() domain.ReviewListParams {
	params := domain.DefaultReviewListParams()

	if r.SortBy != "" {
		params.SortBy = domain.ReviewSortField(r.SortBy)
	}
	if r.SortOrder != "" {
		params.SortOrder = domain.SortOrder(r.SortOrder)
	}
	params.MinRating = r.MinRating
	params.IncludeHidden = r.IncludeHidden
	if r.Page > 0 {
		params.Page = r.Page
	}
	if r.PageSize > 0 {
		params.PageSize = r.PageSize
	}

	return params
}

// AddReplyRequest is the body of POST /reviews/:id/replies.
type AddReplyRequest struct {
	UserID           int64  `json:"user_id" validate:"required,gt=0"`
	Content          string `json:"content" validate:"required,max=2000"`
	ParentReplyID    *int64 `json:"parent_reply_id" validate:"omitempty,gt=0"`
	IsAuthorVerified bool   `json:"is_author_verified"`
}

func (r *AddReplyRequest) ToInput() service.AddReplyInput {
	return service.AddReplyInput{
		UserID:           r.UserID,
		Content:          r.Content,
		ParentReplyID:    r.ParentReplyID,
		IsAuthorVerified: r.IsAuthorVerified,
	}
}

// EditReplyRequest is the body of PUT /replies/:id.
type EditReplyRequest struct {
	Content string `json:"content" validate:"required,max=2000"`
}

// DeleteReplyRequest is the optional body of DELETE /replies/:id.
type DeleteReplyRequest struct {
	Reason string `json:"reason" validate:"max=500"`
}

// ReactRequest is the body of POST /replies/:id/reactions.
type ReactRequest struct {
	UserID            int64  `json:"user_id" validate:"required,gt=0"`
	ReactionType      string `json:"reaction_type" validate:"required,max=50"`
	Intensity         int    `json:"intensity" validate:"omitempty,gte=1,lte=5"`
	Comment           string `json:"comment" validate:"max=500"`
	TimeSpentSeconds  int    `json:"time_spent_seconds" validate:"gte=0"`
	IsUserVerified    bool   `json:"is_user_verified"`
	IsPremiumUser     bool   `json:"is_premium_user"`
	UserFollowerCount int    `json:"user_follower_count" validate:"gte=0"`
}

// defaultIntensity is used when a client reacts without an intensity.
const defaultIntensity = 3

func (r *ReactRequest) ToInput() service.ReactInput {
	intensity := r.Intensity
	if intensity == 0 {
		intensity = defaultIntensity
	}

	return service.ReactInput{
		UserID:            r.UserID,
		ReactionType:      r.ReactionType,
		Intensity:         intensity,
		Comment:           r.Comment,
		TimeSpentSeconds:  r.TimeSpentSeconds,
		IsUserVerified:    r.IsUserVerified,
		IsPremiumUser:     r.IsPremiumUser,
		UserFollowerCount: r.UserFollowerCount,
	}
}

// FileReportRequest is the body of POST /reviews/:id/reports and POST /replies/:id/reports.
type FileReportRequest struct {
	ReporterUserID     int64    `json:"reporter_user_id" validate:"required,gt=0"`
	Category           string   `json:"category" validate:"required,max=50"`
	Reason             string   `json:"reason" validate:"required,max=500"`
	Description        string   `json:"description" validate:"max=2000"`
	Severity           int      `json:"severity" validate:"required,gte=1,lte=5"`
	Priority           int      `json:"priority" validate:"required,gte=1,lte=5"`
	EvidenceURLs       []string `json:"evidence_urls" validate:"omitempty,max=10,dive,url"`
	IsAnonymous        bool     `json:"is_anonymous"`
	ReporterTrustScore *float64 `json:"reporter_trust_score" validate:"omitempty,gte=0,lte=1"`

	domain.Violations
}

// ToInput converts the request to a service input against the given target.
func (r *FileReportRequest) ToInput(targetType domain.ReportTargetType, targetID int64) service.FileReportInput {
	return service.FileReportInput{
		TargetType:         targetType,
		TargetID:           targetID,
		ReporterUserID:     r.ReporterUserID,
		Category:           r.Category,
		Reason:             r.Reason,
		Description:        r.Description,
		Severity:           r.Severity,
		Priority:           r.Priority,
		Violations:         r.Violations,
		EvidenceURLs:       r.EvidenceURLs,
		IsAnonymous:        r.IsAnonymous,
		ReporterTrustScore: r.ReporterTrustScore,
	}
}

// ReportListRequest represents the query parameters of the moderation queue.
type ReportListRequest struct {
	Status     string `query:"status" validate:"omitempty,oneof=open pending assigned investigating escalated resolved dismissed duplicate"`
	TargetType string `query:"target_type" validate:"omitempty,oneof=review reply"`
	SortBy     string `query:"sort_by" validate:"omitempty,oneof=urgency risk created"`
	SortOrder  string `query:"sort_order" validate:"omitempty,oneof=asc desc"`
	Page       int    `query:"page" validate:"omitempty,min=1"`
	PageSize   int    `query:"page_size" validate:"omitempty,min=1,max=100"`
}

// statusOpen selects every open state at once.
const statusOpen = "open"

func (r *ReportListRequest) ToListParams() domain.ReportListParams {
	params := domain.ReportListParams{
		TargetType: domain.ReportTargetType(r.TargetType),
		SortBy:     domain.ReportSortField(r.SortBy),
		SortOrder:  domain.SortOrder(r.SortOrder),
		Page:       r.Page,
		PageSize:   r.PageSize,
	}

	if r.Status == statusOpen {
		params.OpenOnly = true
	} else {
		params.Status = domain.ReportStatus(r.Status)
	}

	params.Normalize()

	return params
}

// AssignRequest is the body of POST /reports/:id/assign.
type AssignRequest struct {
	ModeratorID int64 `json:"moderator_id" validate:"required,gt=0"`
}

// ResolveRequest is the body of POST /reports/:id/resolve.
type ResolveRequest struct {
	ResolverID int64   `json:"resolver_id" validate:"required,gt=0"`
	Action     string  `json:"action" validate:"required,max=100"`
	Notes      *string `json:"notes" validate:"omitempty,max=2000"`
	IsValid    *bool   `json:"is_valid"`
}

func (r *ResolveRequest) ToInput() service.ResolveInput {
	return service.ResolveInput{
		ResolverID: r.ResolverID,
		Action:     r.Action,
		Notes:      r.Notes,
		IsValid:    r.IsValid,
	}
}

// DismissRequest is the body of POST /reports/:id/dismiss.
type DismissRequest struct {
	DismisserID int64  `json:"dismisser_id" validate:"required,gt=0"`
	Reason      string `json:"reason" validate:"required,max=500"`
}

// EscalateRequest is the body of POST /reports/:id/escalate.
type EscalateRequest struct {
	Reason string `json:"reason" validate:"required,max=500"`
}

// DuplicateRequest is the body of POST /reports/:id/duplicate.
type DuplicateRequest struct {
	OriginalReportID int64 `json:"original_report_id" validate:"required,gt=0"`
}
