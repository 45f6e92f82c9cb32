// Package job provides background job schedulers.
package job

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"review-engagement-service/internal/app/service"
	"review-engagement-service/internal/metrics"
	"review-engagement-service/pkg/locker"
)

// rescoreLockKey guards report rescoring across instances.
const rescoreLockKey = "rescore:reports"

// ErrRescoreRunning is returned by RunNow when another run holds the lock.
var ErrRescoreRunning = errors.New("rescore already running")

// Rescorer refreshes the scores of open reports.
type Rescorer interface {
	RescoreOpen(ctx context.Context) (service.RescoreResult, error)
}

// RescoreConfig holds rescore scheduler configuration.
type RescoreConfig struct {
	Interval  time.Duration
	Timeout   time.Duration
	OnStartup bool
}

// RescoreScheduler periodically rescores open reports. A distributed lock
// makes sure only one instance runs per interval.
type RescoreScheduler struct {
	rescorer Rescorer
	cfg      RescoreConfig
	logger   *zap.Logger
	locker   locker.DistributedLocker

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewRescoreScheduler creates a new RescoreScheduler.
func NewRescoreScheduler(rescorer Rescorer, cfg RescoreConfig, logger *zap.Logger, l locker.DistributedLocker) *RescoreScheduler {
	return &RescoreScheduler{
		rescorer: rescorer,
		cfg:      cfg,
		logger:   logger.Named("rescore_scheduler"),
		locker:   l,
	}
}

// Start begins the background loop.
func (s *RescoreScheduler) Start() {
	s.ctx, s.cancel = context.WithCancel(context.Background())

	s.logger.Info("starting rescore scheduler",
		zap.Duration("interval", s.cfg.Interval),
		zap.Bool("run_on_startup", s.cfg.OnStartup),
	)

	s.wg.Add(1)
	go s.run()
}

// Stop cancels the loop and waits for an in-flight run to finish.
func (s *RescoreScheduler) Stop() {
	if s.cancel == nil {
		return
	}

	s.cancel()
	s.wg.Wait()
	s.logger.Info("rescore scheduler stopped")
}

func (s *RescoreScheduler) run() {
	defer s.wg.Done()

	if s.cfg.OnStartup {
		s.tick()
	}

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.tick()
		}
	}
}

// tick runs one scheduled pass.
//
// The lock TTL equals the interval. After a successful run the lock is left
// to expire, so other instances skip this interval. After a failure it is
// released at once so another instance can retry.
func (s *RescoreScheduler) tick() {
	acquired, err := s.locker.Acquire(s.ctx, rescoreLockKey, s.cfg.Interval)
	if err != nil {
		s.logger.Error("failed to acquire rescore lock", zap.Error(err))
		return
	}
	if !acquired {
		metrics.RescoreRuns.WithLabelValues(metrics.ResultSkipped).Inc()
		s.logger.Debug("rescore ran elsewhere this interval, skipping")
		return
	}

	ctx, cancel := context.WithTimeout(s.ctx, s.cfg.Timeout)
	defer cancel()

	if _, err := s.execute(ctx); err != nil {
		if relErr := s.locker.Release(context.WithoutCancel(s.ctx), rescoreLockKey); relErr != nil {
			s.logger.Error("failed to release rescore lock", zap.Error(relErr))
		}
	}
}

// RunNow runs a pass immediately, e.g. from an admin request. The lock is
// released afterwards so the schedule is unaffected.
func (s *RescoreScheduler) RunNow(ctx context.Context) (service.RescoreResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	var result service.RescoreResult
	ran, err := locker.RunExclusive(ctx, s.locker, rescoreLockKey, s.cfg.Timeout, func(ctx context.Context) error {
		var runErr error
		result, runErr = s.execute(ctx)
		return runErr
	})
	if err != nil {
		return result, err
	}
	if !ran {
		metrics.RescoreRuns.WithLabelValues(metrics.ResultSkipped).Inc()
		return result, ErrRescoreRunning
	}

	return result, nil
}

func (s *RescoreScheduler) execute(ctx context.Context) (service.RescoreResult, error) {
	start := time.Now()
	result, err := s.rescorer.RescoreOpen(ctx)
	metrics.RescoreDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.RescoreRuns.WithLabelValues(metrics.ResultError).Inc()
		s.logger.Warn("rescore failed",
			zap.Int("scanned", result.Scanned),
			zap.Int("updated", result.Updated),
			zap.Error(err),
		)
		return result, err
	}

	metrics.RescoreRuns.WithLabelValues(metrics.ResultOK).Inc()

	return result, nil
}
