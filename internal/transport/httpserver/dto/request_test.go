package dto

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"review-engagement-service/internal/domain"
	"review-engagement-service/internal/validator"
)

var testTime = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func intPtr(v int) *int { return &v }

func validSubmitRequest() SubmitReviewRequest {
	return SubmitReviewRequest{
		UserID:        7,
		OverallRating: 4,
		Title:         "Worth the weekend",
		Content:       "A tight plot with characters that feel real.",
	}
}

func TestSubmitReviewRequest_Validation(t *testing.T) {
	v := validator.New()

	tests := []struct {
		name        string
		mutate      func(*SubmitReviewRequest)
		expectField string
		expectTag   string
	}{
		{name: "valid", mutate: func(*SubmitReviewRequest) {}},
		{name: "with detailed ratings", mutate: func(r *SubmitReviewRequest) { r.StoryRating = intPtr(5) }},
		{name: "missing user", mutate: func(r *SubmitReviewRequest) { r.UserID = 0 }, expectField: "user_id", expectTag: "required"},
		{name: "rating too high", mutate: func(r *SubmitReviewRequest) { r.OverallRating = 6 }, expectField: "overall_rating", expectTag: "lte"},
		{name: "missing title", mutate: func(r *SubmitReviewRequest) { r.Title = "" }, expectField: "title", expectTag: "required"},
		{name: "title too long", mutate: func(r *SubmitReviewRequest) { r.Title = strings.Repeat("a", 201) }, expectField: "title", expectTag: "max"},
		{name: "detailed rating out of range", mutate: func(r *SubmitReviewRequest) { r.PacingRating = intPtr(0) }, expectField: "pacing_rating", expectTag: "gte"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validSubmitRequest()
			tt.mutate(&req)

			err := v.Validate(&req)
			if tt.expectField == "" {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			validationErrs, ok := err.(validator.ValidationErrors)
			require.True(t, ok, "expected ValidationErrors type")

			found := false
			for _, ve := range validationErrs {
				if ve.Field == tt.expectField {
					found = true
					assert.Equal(t, tt.expectTag, ve.Tag)
				}
			}
			assert.True(t, found, "expected error for field %s", tt.expectField)
		})
	}
}

func TestSubmitReviewRequest_ToInput(t *testing.T) {
	req := validSubmitRequest()
	req.StoryRating = intPtr(3)
	req.ContainsSpoilers = true

	in := req.ToInput(42)

	assert.Equal(t, int64(42), in.BookID)
	assert.Equal(t, int64(7), in.UserID)
	assert.Equal(t, 4, in.OverallRating)
	require.NotNil(t, in.StoryRating)
	assert.Equal(t, 3, *in.StoryRating)
	assert.True(t, in.ContainsSpoilers)
}

func TestReviewListRequest_ToListParams(t *testing.T) {
	tests := []struct {
		name     string
		req      ReviewListRequest
		expected domain.ReviewListParams
	}{
		{
			name: "empty request uses defaults",
			req:  ReviewListRequest{},
			expected: domain.ReviewListParams{
				SortBy:    domain.ReviewSortQuality,
				SortOrder: domain.SortOrderDesc,
				Page:      1,
				PageSize:  20,
			},
		},
		{
			name: "full request converts correctly",
			req: ReviewListRequest{
				SortBy:        "helpfulness",
				SortOrder:     "asc",
				MinRating:     4,
				IncludeHidden: true,
				Page:          3,
				PageSize:      50,
			},
			expected: domain.ReviewListParams{
				MinRating:     4,
				IncludeHidden: true,
				SortBy:        domain.ReviewSortHelpfulness,
				SortOrder:     domain.SortOrderAsc,
				Page:          3,
				PageSize:      50,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.req.ToListParams())
		})
	}
}

func TestReviewListRequest_Validation(t *testing.T) {
	v := validator.New()

	validSorts := []string{"", "quality", "helpfulness", "recent"}
	invalidSorts := []string{"score", "QUALITY", "created_at"}

	for _, sortBy := range validSorts {
		t.Run("valid_"+sortBy, func(t *testing.T) {
			assert.NoError(t, v.Validate(&ReviewListRequest{SortBy: sortBy}))
		})
	}
	for _, sortBy := range invalidSorts {
		t.Run("invalid_"+sortBy, func(t *testing.T) {
			assert.Error(t, v.Validate(&ReviewListRequest{SortBy: sortBy}))
		})
	}

	assert.Error(t, v.Validate(&ReviewListRequest{MinRating: 6}))
	assert.Error(t, v.Validate(&ReviewListRequest{PageSize: 101}))
}

func TestReactRequest_ToInput_DefaultsIntensity(t *testing.T) {
	req := ReactRequest{UserID: 1, ReactionType: "love"}
	assert.Equal(t, 3, req.ToInput().Intensity)

	req.Intensity = 5
	assert.Equal(t, 5, req.ToInput().Intensity)
}

func TestFileReportRequest(t *testing.T) {
	v := validator.New()

	req := FileReportRequest{
		ReporterUserID: 9,
		Category:       "abuse",
		Reason:         "personal attack",
		Severity:       4,
		Priority:       2,
		EvidenceURLs:   []string{"https://example.com/shot.png"},
	}
	req.InvolvesHarassment = true
	require.NoError(t, v.Validate(&req))

	in := req.ToInput(domain.ReportTargetReply, 55)
	assert.Equal(t, domain.ReportTargetReply, in.TargetType)
	assert.Equal(t, int64(55), in.TargetID)
	assert.True(t, in.Violations.InvolvesHarassment)
	assert.Nil(t, in.ReporterTrustScore)

	req.EvidenceURLs = []string{"not a url"}
	assert.Error(t, v.Validate(&req))

	req.EvidenceURLs = nil
	req.Severity = 6
	assert.Error(t, v.Validate(&req))
}

func TestReportListRequest_ToListParams(t *testing.T) {
	open := ReportListRequest{Status: "open"}
	params := open.ToListParams()
	assert.True(t, params.OpenOnly)
	assert.Empty(t, params.Status)
	assert.Equal(t, domain.ReportSortUrgency, params.SortBy)
	assert.Equal(t, 1, params.Page)

	resolved := ReportListRequest{Status: "resolved", TargetType: "review", SortBy: "risk", SortOrder: "asc"}
	params = resolved.ToListParams()
	assert.False(t, params.OpenOnly)
	assert.Equal(t, domain.ReportStatusResolved, params.Status)
	assert.Equal(t, domain.ReportTargetReview, params.TargetType)
	assert.Equal(t, domain.ReportSortRisk, params.SortBy)
	assert.Equal(t, domain.SortOrderAsc, params.SortOrder)

	v := validator.New()
	assert.NoError(t, v.Validate(&resolved))
	assert.Error(t, v.Validate(&ReportListRequest{Status: "closed"}))
}

func TestSentimentDisplay(t *testing.T) {
	tests := []struct {
		value    float64
		expected string
	}{
		{1.0, "very positive"},
		{0.51, "very positive"},
		{0.5, "positive"},
		{0.21, "positive"},
		{0.2, "neutral"},
		{0, "neutral"},
		{-0.19, "neutral"},
		{-0.2, "negative"},
		{-0.49, "negative"},
		{-0.5, "very negative"},
		{-1.0, "very negative"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, SentimentDisplay(tt.value), "value %v", tt.value)
	}
}

func TestFromDomainReaction(t *testing.T) {
	reaction := domain.NewReplyReaction(1, 2, "angry", 3)
	reaction.PrepareForSave(testTime)

	resp := FromDomainReaction(reaction)
	assert.Equal(t, "very negative", resp.SentimentDisplay)
	assert.NotEmpty(t, resp.Emoji)
}
