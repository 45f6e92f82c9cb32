package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"review-engagement-service/internal/domain"
)

func seedReport(t *testing.T, repo *memReports, status domain.ReportStatus) *domain.Report {
	t.Helper()

	r := domain.NewReport(domain.ReportTargetReview, 1, 2, "spam", "reason", 1, 1).PrepareForSave(testNow)
	r.Status = status
	require.NoError(t, repo.Create(context.Background(), r))

	return r
}

func TestRescoreService_RescoreOpen(t *testing.T) {
	repo := newMemReports()
	for range 5 {
		seedReport(t, repo, domain.ReportStatusPending)
	}
	closed := seedReport(t, repo, domain.ReportStatusResolved)

	svc := NewRescoreService(repo, 2, zap.NewNop())
	svc.now = fixedClock(testNow.Add(80 * time.Hour))

	result, err := svc.RescoreOpen(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, result.Scanned)
	assert.Equal(t, 5, result.Updated)

	for id, r := range repo.rows {
		if id == closed.ID {
			assert.Equal(t, 6, r.UrgencyScore, "closed reports are left alone")
			continue
		}
		assert.Equal(t, 31, r.UrgencyScore)
	}
}

func TestRescoreService_SkipsUnchanged(t *testing.T) {
	repo := newMemReports()
	seedReport(t, repo, domain.ReportStatusPending)

	svc := NewRescoreService(repo, 0, zap.NewNop())
	svc.now = fixedClock(testNow)

	result, err := svc.RescoreOpen(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Scanned)
	assert.Zero(t, result.Updated)
	assert.Zero(t, repo.updates)
}

func TestRescoreService_StopsOnCancelledContext(t *testing.T) {
	repo := newMemReports()
	seedReport(t, repo, domain.ReportStatusPending)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewRescoreService(repo, 10, zap.NewNop()).RescoreOpen(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
