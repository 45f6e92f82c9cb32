package postgres

import (
	"time"

	"github.com/lib/pq"

	"review-engagement-service/internal/domain"
)

// ReviewModel is the GORM model for the reviews table.
type ReviewModel struct {
	ID     int64 `gorm:"primaryKey;autoIncrement"`
	BookID int64 `gorm:"not null;index"`
	UserID int64 `gorm:"not null;index"`

	OverallRating       int  `gorm:"not null"`
	StoryRating         *int
	CharacterRating     *int
	WritingStyleRating  *int
	PacingRating        *int
	WorldBuildingRating *int

	Title                  string `gorm:"type:varchar(200);not null"`
	Content                string `gorm:"type:text;not null"`
	Summary                string `gorm:"type:varchar(500)"`
	PositiveAspects        string `gorm:"type:varchar(1000)"`
	NegativeAspects        string `gorm:"type:varchar(1000)"`
	TargetAudience         string `gorm:"type:varchar(200)"`
	SimilarRecommendations string `gorm:"type:varchar(500)"`

	ContainsSpoilers   bool
	IsRecommended      bool
	IsVerifiedPurchase bool
	IsVisible          bool
	IsFlagged          bool

	HelpfulVotes   int
	UnhelpfulVotes int
	ReplyCount     int
	ReportCount    int

	WordCount                   int
	CharacterCount              int
	EstimatedReadingTimeMinutes int
	QualityScore                int `gorm:"index"`

	Version   int
	CreatedAt time.Time `gorm:"autoCreateTime:false"`
	UpdatedAt time.Time `gorm:"autoUpdateTime:false"`
}

// TableName returns the table name for ReviewModel.
func (ReviewModel) TableName() string {
	return "reviews"
}

// ToDomain converts ReviewModel to domain.Review.
func (m *ReviewModel) ToDomain() *domain.Review {
	return &domain.Review{
		ID:                          m.ID,
		BookID:                      m.BookID,
		UserID:                      m.UserID,
		OverallRating:               m.OverallRating,
		StoryRating:                 m.StoryRating,
		CharacterRating:             m.CharacterRating,
		WritingStyleRating:          m.WritingStyleRating,
		PacingRating:                m.PacingRating,
		WorldBuildingRating:         m.WorldBuildingRating,
		Title:                       m.Title,
		Content:                     m.Content,
		Summary:                     m.Summary,
		PositiveAspects:             m.PositiveAspects,
		NegativeAspects:             m.NegativeAspects,
		TargetAudience:              m.TargetAudience,
		SimilarRecommendations:      m.SimilarRecommendations,
		ContainsSpoilers:            m.ContainsSpoilers,
		IsRecommended:               m.IsRecommended,
		IsVerifiedPurchase:          m.IsVerifiedPurchase,
		IsVisible:                   m.IsVisible,
		IsFlagged:                   m.IsFlagged,
		HelpfulVotes:                m.HelpfulVotes,
		UnhelpfulVotes:              m.UnhelpfulVotes,
		ReplyCount:                  m.ReplyCount,
		ReportCount:                 m.ReportCount,
		WordCount:                   m.WordCount,
		CharacterCount:              m.CharacterCount,
		EstimatedReadingTimeMinutes: m.EstimatedReadingTimeMinutes,
		QualityScore:                m.QualityScore,
		Version:                     m.Version,
		CreatedAt:                   m.CreatedAt,
		UpdatedAt:                   m.UpdatedAt,
	}
}

// FromDomainReview creates a ReviewModel from domain.Review.
func FromDomainReview(r *domain.Review) *ReviewModel {
	return &ReviewModel{
		ID:                          r.ID,
		BookID:                      r.BookID,
		UserID:                      r.UserID,
		OverallRating:               r.OverallRating,
		StoryRating:                 r.StoryRating,
		CharacterRating:             r.CharacterRating,
		WritingStyleRating:          r.WritingStyleRating,
		PacingRating:                r.PacingRating,
		WorldBuildingRating:         r.WorldBuildingRating,
		Title:                       r.Title,
		Content:                     r.Content,
		Summary:                     r.Summary,
		PositiveAspects:             r.PositiveAspects,
		NegativeAspects:             r.NegativeAspects,
		TargetAudience:              r.TargetAudience,
		SimilarRecommendations:      r.SimilarRecommendations,
		ContainsSpoilers:            r.ContainsSpoilers,
		IsRecommended:               r.IsRecommended,
		IsVerifiedPurchase:          r.IsVerifiedPurchase,
		IsVisible:                   r.IsVisible,
		IsFlagged:                   r.IsFlagged,
		HelpfulVotes:                r.HelpfulVotes,
		UnhelpfulVotes:              r.UnhelpfulVotes,
		ReplyCount:                  r.ReplyCount,
		ReportCount:                 r.ReportCount,
		WordCount:                   r.WordCount,
		CharacterCount:              r.CharacterCount,
		EstimatedReadingTimeMinutes: r.EstimatedReadingTimeMinutes,
		QualityScore:                r.QualityScore,
		Version:                     r.Version,
		CreatedAt:                   r.CreatedAt,
		UpdatedAt:                   r.UpdatedAt,
	}
}

// ReplyModel is the GORM model for the review_replies table.
type ReplyModel struct {
	ID            int64 `gorm:"primaryKey;autoIncrement"`
	ReviewID      int64 `gorm:"not null;index"`
	UserID        int64 `gorm:"not null"`
	ParentReplyID *int64
	Depth         int

	Content string `gorm:"type:text;not null"`

	LikeCount       int
	DislikeCount    int
	ChildReplyCount int
	ReportCount     int

	IsAuthorVerified bool
	IsReviewAuthor   bool
	IsFlagged        bool

	WordCount                   int
	CharacterCount              int
	EstimatedReadingTimeSeconds int
	QualityScore                int

	IsEdited       bool
	EditedAt       *time.Time
	EditCount      int
	IsDeleted      bool
	DeletedAt      *time.Time
	DeletionReason string `gorm:"type:varchar(500)"`

	Version   int
	CreatedAt time.Time `gorm:"autoCreateTime:false"`
	UpdatedAt time.Time `gorm:"autoUpdateTime:false"`
}

// TableName returns the table name for ReplyModel.
func (ReplyModel) TableName() string {
	return "review_replies"
}

// ToDomain converts ReplyModel to domain.ReviewReply.
func (m *ReplyModel) ToDomain() *domain.ReviewReply {
	return &domain.ReviewReply{
		ID:                          m.ID,
		ReviewID:                    m.ReviewID,
		UserID:                      m.UserID,
		ParentReplyID:               m.ParentReplyID,
		Depth:                       m.Depth,
		Content:                     m.Content,
		LikeCount:                   m.LikeCount,
		DislikeCount:                m.DislikeCount,
		ChildReplyCount:             m.ChildReplyCount,
		ReportCount:                 m.ReportCount,
		IsAuthorVerified:            m.IsAuthorVerified,
		IsReviewAuthor:              m.IsReviewAuthor,
		IsFlagged:                   m.IsFlagged,
		WordCount:                   m.WordCount,
		CharacterCount:              m.CharacterCount,
		EstimatedReadingTimeSeconds: m.EstimatedReadingTimeSeconds,
		QualityScore:                m.QualityScore,
		IsEdited:                    m.IsEdited,
		EditedAt:                    m.EditedAt,
		EditCount:                   m.EditCount,
		IsDeleted:                   m.IsDeleted,
		DeletedAt:                   m.DeletedAt,
		DeletionReason:              m.DeletionReason,
		Version:                     m.Version,
		CreatedAt:                   m.CreatedAt,
		UpdatedAt:                   m.UpdatedAt,
	}
}

// FromDomainReply creates a ReplyModel from domain.ReviewReply.
func FromDomainReply(r *domain.ReviewReply) *ReplyModel {
	return &ReplyModel{
		ID:                          r.ID,
		ReviewID:                    r.ReviewID,
		UserID:                      r.UserID,
		ParentReplyID:               r.ParentReplyID,
		Depth:                       r.Depth,
		Content:                     r.Content,
		LikeCount:                   r.LikeCount,
		DislikeCount:                r.DislikeCount,
		ChildReplyCount:             r.ChildReplyCount,
		ReportCount:                 r.ReportCount,
		IsAuthorVerified:            r.IsAuthorVerified,
		IsReviewAuthor:              r.IsReviewAuthor,
		IsFlagged:                   r.IsFlagged,
		WordCount:                   r.WordCount,
		CharacterCount:              r.CharacterCount,
		EstimatedReadingTimeSeconds: r.EstimatedReadingTimeSeconds,
		QualityScore:                r.QualityScore,
		IsEdited:                    r.IsEdited,
		EditedAt:                    r.EditedAt,
		EditCount:                   r.EditCount,
		IsDeleted:                   r.IsDeleted,
		DeletedAt:                   r.DeletedAt,
		DeletionReason:              r.DeletionReason,
		Version:                     r.Version,
		CreatedAt:                   r.CreatedAt,
		UpdatedAt:                   r.UpdatedAt,
	}
}

// ReactionModel is the GORM model for the reply_reactions table.
type ReactionModel struct {
	ID      int64 `gorm:"primaryKey;autoIncrement"`
	ReplyID int64 `gorm:"not null;uniqueIndex:idx_reaction_reply_user"`
	UserID  int64 `gorm:"not null;uniqueIndex:idx_reaction_reply_user"`

	ReactionType      string `gorm:"type:varchar(20);not null"`
	ReactionIntensity int
	Comment           string `gorm:"type:varchar(500)"`

	IsUserVerified    bool
	IsPremiumUser     bool
	UserFollowerCount int
	TimeSpentSeconds  int

	SpamScore    float64
	BotScore     float64
	AnomalyScore float64
	IsFlagged    bool
	ReportCount  int

	SentimentValue  float64
	QualityScore    int
	EngagementScore int
	InfluenceScore  int

	CreatedAt time.Time `gorm:"autoCreateTime:false"`
	UpdatedAt time.Time `gorm:"autoUpdateTime:false"`
}

// TableName returns the table name for ReactionModel.
func (ReactionModel) TableName() string {
	return "reply_reactions"
}

// ToDomain converts ReactionModel to domain.ReplyReaction.
func (m *ReactionModel) ToDomain() *domain.ReplyReaction {
	return &domain.ReplyReaction{
		ID:                m.ID,
		ReplyID:           m.ReplyID,
		UserID:            m.UserID,
		ReactionType:      domain.ReactionType(m.ReactionType),
		ReactionIntensity: m.ReactionIntensity,
		Comment:           m.Comment,
		IsUserVerified:    m.IsUserVerified,
		IsPremiumUser:     m.IsPremiumUser,
		UserFollowerCount: m.UserFollowerCount,
		TimeSpentSeconds:  m.TimeSpentSeconds,
		SpamScore:         m.SpamScore,
		BotScore:          m.BotScore,
		AnomalyScore:      m.AnomalyScore,
		IsFlagged:         m.IsFlagged,
		ReportCount:       m.ReportCount,
		SentimentValue:    m.SentimentValue,
		QualityScore:      m.QualityScore,
		EngagementScore:   m.EngagementScore,
		InfluenceScore:    m.InfluenceScore,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}

// FromDomainReaction creates a ReactionModel from domain.ReplyReaction.
func FromDomainReaction(r *domain.ReplyReaction) *ReactionModel {
	return &ReactionModel{
		ID:                r.ID,
		ReplyID:           r.ReplyID,
		UserID:            r.UserID,
		ReactionType:      string(r.ReactionType),
		ReactionIntensity: r.ReactionIntensity,
		Comment:           r.Comment,
		IsUserVerified:    r.IsUserVerified,
		IsPremiumUser:     r.IsPremiumUser,
		UserFollowerCount: r.UserFollowerCount,
		TimeSpentSeconds:  r.TimeSpentSeconds,
		SpamScore:         r.SpamScore,
		BotScore:          r.BotScore,
		AnomalyScore:      r.AnomalyScore,
		IsFlagged:         r.IsFlagged,
		ReportCount:       r.ReportCount,
		SentimentValue:    r.SentimentValue,
		QualityScore:      r.QualityScore,
		EngagementScore:   r.EngagementScore,
		InfluenceScore:    r.InfluenceScore,
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
	}
}

// ReportModel is the GORM model for the reports table.
// Violation flags are stored as one boolean column each.
type ReportModel struct {
	ID             int64  `gorm:"primaryKey;autoIncrement"`
	TargetType     string `gorm:"type:varchar(10);not null;index:idx_reports_target"`
	TargetID       int64  `gorm:"not null;index:idx_reports_target"`
	ReporterUserID int64  `gorm:"not null"`
	ReportedUserID int64  `gorm:"index"`

	Category    string `gorm:"type:varchar(50);not null"`
	Reason      string `gorm:"type:varchar(500);not null"`
	Description string `gorm:"type:varchar(2000)"`
	Severity    int
	Priority    int

	domain.Violations `gorm:"embedded"`

	ToxicityScore      float64
	SpamProbability    float64
	AIConfidence       float64 `gorm:"column:ai_confidence"`
	ReporterTrustScore float64

	DuplicateCount              int
	EvidenceURLs                pq.StringArray `gorm:"column:evidence_urls;type:text[]"`
	IsAnonymous                 bool
	ReportedUserPriorViolations int

	RiskScore       int
	UrgencyScore    int `gorm:"index"`
	ImpactScore     int
	ConfidenceScore int

	Status                 string `gorm:"type:varchar(20);not null;index"`
	AssignedModeratorID    *int64
	AssignedAt             *time.Time
	InvestigationStartedAt *time.Time
	ResolvedByID           *int64
	ResolvedAt             *time.Time
	ResolutionAction       string `gorm:"type:varchar(100)"`
	ResolutionNotes        string `gorm:"type:text"`
	ResolutionTimeHours    float64
	IsValid                *bool
	DismissedByID          *int64
	DismissedAt            *time.Time
	DismissalReason        string `gorm:"type:varchar(500)"`
	EscalatedAt            *time.Time
	EscalationReason       string `gorm:"type:varchar(500)"`
	EscalationLevel        int
	DuplicateOfReportID    *int64
	MarkedDuplicateAt      *time.Time

	Version   int
	CreatedAt time.Time `gorm:"autoCreateTime:false"`
	UpdatedAt time.Time `gorm:"autoUpdateTime:false"`
}

// TableName returns the table name for ReportModel.
func (ReportModel) TableName() string {
	return "reports"
}

// ToDomain converts ReportModel to domain.Report.
func (m *ReportModel) ToDomain() *domain.Report {
	return &domain.Report{
		ID:                          m.ID,
		TargetType:                  domain.ReportTargetType(m.TargetType),
		TargetID:                    m.TargetID,
		ReporterUserID:              m.ReporterUserID,
		ReportedUserID:              m.ReportedUserID,
		Category:                    m.Category,
		Reason:                      m.Reason,
		Description:                 m.Description,
		Severity:                    m.Severity,
		Priority:                    m.Priority,
		Violations:                  m.Violations,
		ToxicityScore:               m.ToxicityScore,
		SpamProbability:             m.SpamProbability,
		AIConfidence:                m.AIConfidence,
		ReporterTrustScore:          m.ReporterTrustScore,
		DuplicateCount:              m.DuplicateCount,
		EvidenceURLs:                m.EvidenceURLs,
		IsAnonymous:                 m.IsAnonymous,
		ReportedUserPriorViolations: m.ReportedUserPriorViolations,
		RiskScore:                   m.RiskScore,
		UrgencyScore:                m.UrgencyScore,
		ImpactScore:                 m.ImpactScore,
		ConfidenceScore:             m.ConfidenceScore,
		Status:                      domain.ReportStatus(m.Status),
		AssignedModeratorID:         m.AssignedModeratorID,
		AssignedAt:                  m.AssignedAt,
		InvestigationStartedAt:      m.InvestigationStartedAt,
		ResolvedByID:                m.ResolvedByID,
		ResolvedAt:                  m.ResolvedAt,
		ResolutionAction:            m.ResolutionAction,
		ResolutionNotes:             m.ResolutionNotes,
		ResolutionTimeHours:         m.ResolutionTimeHours,
		IsValid:                     m.IsValid,
		DismissedByID:               m.DismissedByID,
		DismissedAt:                 m.DismissedAt,
		DismissalReason:             m.DismissalReason,
		EscalatedAt:                 m.EscalatedAt,
		EscalationReason:            m.EscalationReason,
		EscalationLevel:             m.EscalationLevel,
		DuplicateOfReportID:         m.DuplicateOfReportID,
		MarkedDuplicateAt:           m.MarkedDuplicateAt,
		Version:                     m.Version,
		CreatedAt:                   m.CreatedAt,
		UpdatedAt:                   m.UpdatedAt,
	}
}

// FromDomainReport creates a ReportModel from domain.Report.
func FromDomainReport(r *domain.Report) *ReportModel {
	return &ReportModel{
		ID:                          r.ID,
		TargetType:                  string(r.TargetType),
		TargetID:                    r.TargetID,
		ReporterUserID:              r.ReporterUserID,
		ReportedUserID:              r.ReportedUserID,
		Category:                    r.Category,
		Reason:                      r.Reason,
		Description:                 r.Description,
		Severity:                    r.Severity,
		Priority:                    r.Priority,
		Violations:                  r.Violations,
		ToxicityScore:               r.ToxicityScore,
		SpamProbability:             r.SpamProbability,
		AIConfidence:                r.AIConfidence,
		ReporterTrustScore:          r.ReporterTrustScore,
		DuplicateCount:              r.DuplicateCount,
		EvidenceURLs:                r.EvidenceURLs,
		IsAnonymous:                 r.IsAnonymous,
		ReportedUserPriorViolations: r.ReportedUserPriorViolations,
		RiskScore:                   r.RiskScore,
		UrgencyScore:                r.UrgencyScore,
		ImpactScore:                 r.ImpactScore,
		ConfidenceScore:             r.ConfidenceScore,
		Status:                      string(r.Status),
		AssignedModeratorID:         r.AssignedModeratorID,
		AssignedAt:                  r.AssignedAt,
		InvestigationStartedAt:      r.InvestigationStartedAt,
		ResolvedByID:                r.ResolvedByID,
		ResolvedAt:                  r.ResolvedAt,
		ResolutionAction:            r.ResolutionAction,
		ResolutionNotes:             r.ResolutionNotes,
		ResolutionTimeHours:         r.ResolutionTimeHours,
		IsValid:                     r.IsValid,
		DismissedByID:               r.DismissedByID,
		DismissedAt:                 r.DismissedAt,
		DismissalReason:             r.DismissalReason,
		EscalatedAt:                 r.EscalatedAt,
		EscalationReason:            r.EscalationReason,
		EscalationLevel:             r.EscalationLevel,
		DuplicateOfReportID:         r.DuplicateOfReportID,
		MarkedDuplicateAt:           r.MarkedDuplicateAt,
		Version:                     r.Version,
		CreatedAt:                   r.CreatedAt,
		UpdatedAt:                   r.UpdatedAt,
	}
}
