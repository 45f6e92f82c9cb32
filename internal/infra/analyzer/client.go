// Package analyzer is the HTTP client of the content analysis service that
// supplies toxicity, spam and bot signals for scoring.
package analyzer

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"review-engagement-service/internal/domain"
)

// API paths of the analysis service.
const (
	AnalyzeEndpoint = "/v1/analyze"
	AssessEndpoint  = "/v1/reactions/assess"
	HealthEndpoint  = "/health"
)

// Config holds configuration for the analyzer client.
type Config struct {
	BaseURL string
	Timeout time.Duration
	Retry   RetryConfig
	CB      CBConfig
}

// RetryConfig holds retry configuration.
type RetryConfig struct {
	MaxAttempts int
	WaitTime    time.Duration
	MaxWaitTime time.Duration
}

// CBConfig holds circuit breaker configuration.
type CBConfig struct {
	MaxRequests  uint32
	Interval     time.Duration
	Timeout      time.Duration
	FailureRatio float64
}

// Client implements domain.ContentAnalyzer over HTTP.
type Client struct {
	client *resty.Client
	cb     *gobreaker.CircuitBreaker[*resty.Response]
	logger *zap.Logger
}

// New creates a new analyzer client.
func New(cfg Config, logger *zap.Logger) *Client {
	logger = logger.Named("analyzer")

	return &Client{
		client: newRestyClient(cfg),
		cb:     newCircuitBreaker("content-analyzer", cfg.CB, logger),
		logger: logger,
	}
}

// AnalyzeText scores free text for toxicity and spam.
func (c *Client) AnalyzeText(ctx context.Context, text string) (*domain.TextAnalysis, error) {
	var result AnalyzeResponse
	if err := c.post(ctx, AnalyzeEndpoint, AnalyzeRequest{Text: text}, &result); err != nil {
		return nil, fmt.Errorf("analyzing text: %w", err)
	}

	return result.ToDomain(), nil
}

// AssessReaction scores a reaction for spam, bot and anomaly signals.
func (c *Client) AssessReaction(ctx context.Context, signals domain.ReactionSignals) (*domain.ReactionAssessment, error) {
	var result AssessResponse
	if err := c.post(ctx, AssessEndpoint, newAssessRequest(signals), &result); err != nil {
		return nil, fmt.Errorf("assessing reaction: %w", err)
	}

	return result.ToDomain(), nil
}

// post sends body as JSON through the circuit breaker and decodes into result.
func (c *Client) post(ctx context.Context, path string, body, result any) error {
	_, err := c.cb.Execute(func() (*resty.Response, error) {
		r, err := c.client.R().
			SetContext(ctx).
			SetBody(body).
			SetResult(result).
			Post(path)
		if err != nil {
			return nil, err
		}
		if r.IsError() {
			return nil, fmt.Errorf("analyzer returned status %d", r.StatusCode())
		}

		return r, nil
	})
	if err != nil {
		c.logger.Warn("analyzer request failed",
			zap.String("path", path),
			zap.String("state", c.cb.State().String()),
			zap.Error(err),
		)

		return err
	}

	return nil
}

// HealthCheck verifies the analysis service is reachable.
func (c *Client) HealthCheck(ctx context.Context) error {
	resp, err := c.client.R().SetContext(ctx).Get(HealthEndpoint)
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("health check returned status %d", resp.StatusCode())
	}

	return nil
}

func newRestyClient(cfg Config) *resty.Client {
	return resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.Retry.MaxAttempts).
		SetRetryWaitTime(cfg.Retry.WaitTime).
		SetRetryMaxWaitTime(cfg.Retry.MaxWaitTime).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			// network errors and 5xx only
			if err != nil {
				return true
			}

			return r.StatusCode() >= 500
		})
}

func newCircuitBreaker(name string, cfg CBConfig, logger *zap.Logger) *gobreaker.CircuitBreaker[*resty.Response] {
	return gobreaker.NewCircuitBreaker[*resty.Response](gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 3 {
				return false
			}

			return float64(counts.TotalFailures)/float64(counts.Requests) >= cfg.FailureRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})
}
