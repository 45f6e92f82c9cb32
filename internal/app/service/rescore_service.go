package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"review-engagement-service/internal/domain"
	"review-engagement-service/internal/metrics"
)

const defaultRescoreBatch = 200

// RescoreResult summarizes one pass over the open reports.
type RescoreResult struct {
	Scanned  int
	Updated  int
	Duration time.Duration
}

// RescoreService refreshes time-dependent report scores. Urgency grows with
// report age, so stored scores go stale while reports sit in the queue.
type RescoreService struct {
	reports   domain.ReportRepository
	batchSize int
	logger    *zap.Logger
	now       Clock
}

// NewRescoreService creates a new RescoreService.
func NewRescoreService(reports domain.ReportRepository, batchSize int, logger *zap.Logger) *RescoreService {
	if batchSize <= 0 {
		batchSize = defaultRescoreBatch
	}

	return &RescoreService{
		reports:   reports,
		batchSize: batchSize,
		logger:    logger.Named("rescore"),
		now:       utcNow,
	}
}

// RescoreOpen walks every open report in id order and saves those whose
// scores changed. Reports saved before a failure stay saved.
func (s *RescoreService) RescoreOpen(ctx context.Context) (RescoreResult, error) {
	start := time.Now()
	now := s.now()
	var result RescoreResult

	var after int64
	for {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		batch, err := s.reports.ListOpenAfter(ctx, after, s.batchSize)
		if err != nil {
			return result, err
		}

		for _, report := range batch {
			result.Scanned++
			after = report.ID

			before := [4]int{report.RiskScore, report.UrgencyScore, report.ImpactScore, report.ConfidenceScore}
			report.RecalculateScores(now)
			if before == [4]int{report.RiskScore, report.UrgencyScore, report.ImpactScore, report.ConfidenceScore} {
				continue
			}

			report.UpdatedAt = now
			if err := s.reports.Update(ctx, report); err != nil {
				s.logger.Error("report rescore save failed", zap.Int64("report_id", report.ID), zap.Error(err))
				return result, err
			}
			result.Updated++
			metrics.ReportsRescored.Inc()
		}

		if len(batch) < s.batchSize {
			break
		}
	}

	result.Duration = time.Since(start)

	s.logger.Info("open reports rescored",
		zap.Int("scanned", result.Scanned),
		zap.Int("updated", result.Updated),
		zap.Duration("duration", result.Duration),
	)

	return result, nil
}
