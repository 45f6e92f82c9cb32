package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"review-engagement-service/internal/domain"
	"review-engagement-service/internal/metrics"
)

// autoHideReason is recorded on replies hidden by a high-risk report.
const autoHideReason = "hidden pending moderation"

// ModerationConfig tunes report handling.
type ModerationConfig struct {
	// DefaultReporterTrust is used when a report carries no trust score.
	DefaultReporterTrust float64
	// AutoHideRiskScore hides the target once a report reaches it. 0 disables.
	AutoHideRiskScore int
}

// FileReportInput holds a report as submitted by a reader.
type FileReportInput struct {
	TargetType     domain.ReportTargetType
	TargetID       int64
	ReporterUserID int64
	Category       string
	Reason         string
	Description    string
	Severity       int
	Priority       int
	Violations     domain.Violations
	EvidenceURLs   []string
	IsAnonymous    bool

	// ReporterTrustScore in [0, 1]; nil uses the configured default.
	ReporterTrustScore *float64
}

// ResolveInput closes a report with the action taken.
type ResolveInput struct {
	ResolverID int64
	Action     string
	Notes      *string
	IsValid    *bool
}

// ModerationService files reports and drives them through moderation.
type ModerationService struct {
	reports  domain.ReportRepository
	reviews  domain.ReviewRepository
	replies  domain.ReplyRepository
	analyzer domain.ContentAnalyzer
	cache    *listingCache
	events   eventSink
	cfg      ModerationConfig
	logger   *zap.Logger
	now      Clock
}

// NewModerationService creates a new ModerationService. analyzer, cache and publisher may be nil.
func NewModerationService(
	reports domain.ReportRepository,
	reviews domain.ReviewRepository,
	replies domain.ReplyRepository,
	analyzer domain.ContentAnalyzer,
	cache domain.Cache,
	publisher domain.EventPublisher,
	cfg ModerationConfig,
	logger *zap.Logger,
) *ModerationService {
	logger = logger.Named("moderation")

	return &ModerationService{
		reports:  reports,
		reviews:  reviews,
		replies:  replies,
		analyzer: analyzer,
		cache:    &listingCache{cache: cache, logger: logger},
		events:   eventSink{publisher: publisher, logger: logger},
		cfg:      cfg,
		logger:   logger,
		now:      utcNow,
	}
}

// reportTarget is the review or reply a report points at.
type reportTarget struct {
	review *domain.Review
	reply  *domain.ReviewReply
}

func (t reportTarget) authorID() int64 {
	if t.review != nil {
		return t.review.UserID
	}
	return t.reply.UserID
}

func (t reportTarget) text() string {
	if t.review != nil {
		return t.review.Title + "\n" + t.review.Content
	}
	return t.reply.Content
}

// FileReport records a report, counts it on the target and hides the target
// when the report is risky enough.
func (s *ModerationService) FileReport(ctx context.Context, in FileReportInput) (*domain.Report, error) {
	target, err := s.loadTarget(ctx, in.TargetType, in.TargetID)
	if err != nil {
		return nil, err
	}

	report := domain.NewReport(in.TargetType, in.TargetID, in.ReporterUserID, in.Category, in.Reason, in.Severity, in.Priority)
	report.ReportedUserID = target.authorID()
	report.Description = in.Description
	report.Violations = in.Violations
	report.EvidenceURLs = in.EvidenceURLs
	report.IsAnonymous = in.IsAnonymous
	report.ReporterTrustScore = s.cfg.DefaultReporterTrust
	if in.ReporterTrustScore != nil {
		report.ReporterTrustScore = *in.ReporterTrustScore
	}

	if err := validate(report.Validate()); err != nil {
		return nil, err
	}

	if report.DuplicateCount, err = s.reports.CountOpenForTarget(ctx, in.TargetType, in.TargetID); err != nil {
		return nil, err
	}
	if report.ReportedUserPriorViolations, err = s.reports.CountUpheldAgainstUser(ctx, report.ReportedUserID); err != nil {
		return nil, err
	}
	s.analyze(ctx, report, target.text())

	now := s.now()
	report.PrepareForSave(now)

	if err := s.reports.Create(ctx, report); err != nil {
		s.logger.Error("report create failed", zap.Error(err))
		return nil, err
	}
	metrics.EntitiesSaved.WithLabelValues(aggregateReport, "create").Inc()
	observeReport(report)

	hide := s.cfg.AutoHideRiskScore > 0 && report.RiskScore >= s.cfg.AutoHideRiskScore
	if err := s.recordOnTarget(ctx, target, hide, now); err != nil {
		return nil, err
	}
	if hide {
		metrics.ReportsAutoHidden.WithLabelValues(string(report.TargetType)).Inc()
		s.logger.Info("reported content hidden",
			zap.Int64("report_id", report.ID),
			zap.String("target_type", string(report.TargetType)),
			zap.Int64("target_id", report.TargetID),
			zap.Int("risk_score", report.RiskScore),
		)
	}

	s.events.emit(ctx, domain.EventReportFiled, aggregateReport, report.ID, report)

	return report, nil
}

// GetReport retrieves a single report with scores refreshed as of now.
func (s *ModerationService) GetReport(ctx context.Context, id int64) (*domain.Report, error) {
	report, err := s.reports.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if report == nil {
		return nil, fmt.Errorf("report %d: %w", id, ErrNotFound)
	}

	report.RecalculateScores(s.now())

	return report, nil
}

// ListReports returns one page of the moderation queue.
func (s *ModerationService) ListReports(ctx context.Context, params domain.ReportListParams) (*domain.Page[domain.Report], error) {
	return s.reports.List(ctx, params)
}

// Assign hands a report to a moderator.
func (s *ModerationService) Assign(ctx context.Context, id, moderatorID int64) (*domain.Report, error) {
	return s.transition(ctx, id, domain.EventReportAssigned, func(r *domain.Report, now time.Time) error {
		r.Assign(moderatorID, now)
		return nil
	})
}

// StartInvestigation marks a report as being worked on.
func (s *ModerationService) StartInvestigation(ctx context.Context, id int64) (*domain.Report, error) {
	return s.transition(ctx, id, "", func(r *domain.Report, now time.Time) error {
		r.StartInvestigation(now)
		return nil
	})
}

// Resolve closes a report with the action taken.
func (s *ModerationService) Resolve(ctx context.Context, id int64, in ResolveInput) (*domain.Report, error) {
	return s.transition(ctx, id, domain.EventReportResolved, func(r *domain.Report, now time.Time) error {
		r.Resolve(in.ResolverID, in.Action, in.Notes, in.IsValid, now)
		return nil
	})
}

// Dismiss closes a report as unfounded.
func (s *ModerationService) Dismiss(ctx context.Context, id, dismisserID int64, reason string) (*domain.Report, error) {
	return s.transition(ctx, id, domain.EventReportDismissed, func(r *domain.Report, now time.Time) error {
		r.Dismiss(dismisserID, reason, now)
		return nil
	})
}

// Escalate raises a report one level.
func (s *ModerationService) Escalate(ctx context.Context, id int64, reason string) (*domain.Report, error) {
	return s.transition(ctx, id, domain.EventReportEscalated, func(r *domain.Report, now time.Time) error {
		r.Escalate(reason, now)
		return nil
	})
}

// MarkDuplicate links a report to the original it repeats.
func (s *ModerationService) MarkDuplicate(ctx context.Context, id, originalID int64) (*domain.Report, error) {
	if id == originalID {
		return nil, fmt.Errorf("%w: a report cannot duplicate itself", ErrInvalidInput)
	}

	original, err := s.reports.GetByID(ctx, originalID)
	if err != nil {
		return nil, err
	}
	if original == nil {
		return nil, fmt.Errorf("original report %d: %w", originalID, ErrNotFound)
	}

	return s.transition(ctx, id, "", func(r *domain.Report, now time.Time) error {
		if r.TargetType != original.TargetType || r.TargetID != original.TargetID {
			return fmt.Errorf("%w: original report %d targets other content", ErrInvalidInput, originalID)
		}
		r.MarkDuplicate(originalID, now)
		return nil
	})
}

// transition loads a report, applies fn, rescores and saves it, and emits
// eventType when it is not empty.
func (s *ModerationService) transition(ctx context.Context, id int64, eventType string, fn func(*domain.Report, time.Time) error) (*domain.Report, error) {
	report, err := s.reports.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if report == nil {
		return nil, fmt.Errorf("report %d: %w", id, ErrNotFound)
	}

	now := s.now()
	if err := fn(report, now); err != nil {
		return nil, err
	}

	report.PrepareForSave(now)
	if err := validate(report.Validate()); err != nil {
		return nil, err
	}

	if err := s.reports.Update(ctx, report); err != nil {
		s.logger.Error("report update failed", zap.Int64("report_id", id), zap.Error(err))
		return nil, err
	}
	metrics.EntitiesSaved.WithLabelValues(aggregateReport, "update").Inc()
	observeReport(report)

	s.logger.Info("report transitioned",
		zap.Int64("report_id", report.ID),
		zap.String("status", string(report.Status)),
	)

	if eventType != "" {
		s.events.emit(ctx, eventType, aggregateReport, report.ID, report)
	}

	return report, nil
}

func (s *ModerationService) loadTarget(ctx context.Context, targetType domain.ReportTargetType, id int64) (reportTarget, error) {
	switch targetType {
	case domain.ReportTargetReview:
		review, err := s.reviews.GetByID(ctx, id)
		if err != nil {
			return reportTarget{}, err
		}
		if review == nil {
			return reportTarget{}, fmt.Errorf("review %d: %w", id, ErrNotFound)
		}
		return reportTarget{review: review}, nil

	case domain.ReportTargetReply:
		reply, err := s.replies.GetByID(ctx, id)
		if err != nil {
			return reportTarget{}, err
		}
		if reply == nil {
			return reportTarget{}, fmt.Errorf("reply %d: %w", id, ErrNotFound)
		}
		return reportTarget{reply: reply}, nil

	default:
		return reportTarget{}, fmt.Errorf("%w: unknown target type %q", ErrInvalidInput, targetType)
	}
}

// recordOnTarget bumps the target's report count and hides it if asked.
func (s *ModerationService) recordOnTarget(ctx context.Context, target reportTarget, hide bool, now time.Time) error {
	if review := target.review; review != nil {
		review.RecordReport(now)
		if hide {
			review.Hide(now)
		}
		review.PrepareForSave(now)
		if err := s.reviews.Update(ctx, review); err != nil {
			return fmt.Errorf("updating reported review: %w", err)
		}
		s.cache.invalidate(ctx, review.BookID)
		return nil
	}

	reply := target.reply
	reply.RecordReport(now)
	if hide && !reply.IsDeleted {
		reply.SoftDelete(autoHideReason, now)
	}
	reply.PrepareForSave(now)
	if err := s.replies.Update(ctx, reply); err != nil {
		return fmt.Errorf("updating reported reply: %w", err)
	}

	return nil
}

// analyze fills the content analysis inputs. Analyzer failures leave them at zero.
func (s *ModerationService) analyze(ctx context.Context, report *domain.Report, text string) {
	if s.analyzer == nil {
		return
	}

	result, err := s.analyzer.AnalyzeText(ctx, text)
	if err != nil {
		metrics.AnalyzerFailures.WithLabelValues("analyze_text").Inc()
		s.logger.Warn("content analysis unavailable",
			zap.String("target_type", string(report.TargetType)),
			zap.Int64("target_id", report.TargetID),
			zap.Error(err),
		)
		return
	}

	report.ToxicityScore = result.Toxicity
	report.SpamProbability = result.Spam
	report.AIConfidence = result.Confidence
}
