// Package main is the entry point for the review-engagement-service API.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"review-engagement-service/internal/app/service"
	"review-engagement-service/internal/config"
	"review-engagement-service/internal/domain"
	"review-engagement-service/internal/infra/analyzer"
	"review-engagement-service/internal/infra/kafka"
	"review-engagement-service/internal/infra/postgres"
	"review-engagement-service/internal/infra/postgres/migrations"
	rediscache "review-engagement-service/internal/infra/redis"
	"review-engagement-service/internal/job"
	"review-engagement-service/internal/logger"
	"review-engagement-service/internal/transport/httpserver"
	"review-engagement-service/internal/validator"
	"review-engagement-service/pkg/locker"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log, err := logger.New(
		logger.Config{
			Level:  cfg.Logger.Level,
			Format: cfg.Logger.Format,
			Output: cfg.Logger.Output,
		},
		logger.SentryConfig{
			Enabled:     cfg.Sentry.Enabled,
			DSN:         cfg.Sentry.DSN,
			Environment: cfg.Sentry.Environment,
			SampleRate:  cfg.Sentry.SampleRate,
		},
	)
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting review-engagement-service",
		zap.String("env", cfg.App.Env),
		zap.Int("port", cfg.App.Port),
	)

	db, err := postgres.NewConnection(
		postgres.Config{
			Host:         cfg.Database.Host,
			Port:         cfg.Database.Port,
			Name:         cfg.Database.Name,
			User:         cfg.Database.User,
			Password:     cfg.Database.Password,
			SSLMode:      cfg.Database.SSLMode,
			MaxOpenConns: cfg.Database.MaxOpenConns,
			MaxIdleConns: cfg.Database.MaxIdleConns,
			MaxLifetime:  cfg.Database.MaxLifetime,
		},
		log.Logger,
	)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer func() { _ = postgres.Close(db) }()

	if err := migrations.Run(db); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}
	log.Info("database migrations completed")

	reviewRepo := postgres.NewReviewRepository(db)
	replyRepo := postgres.NewReplyRepository(db)
	reactionRepo := postgres.NewReactionRepository(db)
	reportRepo := postgres.NewReportRepository(db)

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx := context.Background()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatal("failed to connect to Redis", zap.Error(err))
	}
	defer func() { _ = redisClient.Close() }()
	log.Info("connected to Redis", zap.String("addr", cfg.Redis.Addr()))

	// Optional collaborators stay nil interfaces when disabled.
	var cache domain.Cache
	if cfg.Cache.Enabled {
		cache = rediscache.NewCache(redisClient, log.Logger, cfg.Cache.KeyPrefix)
		log.Info("cache enabled",
			zap.Duration("reviews_ttl", cfg.Cache.ReviewsTTL),
			zap.String("key_prefix", cfg.Cache.KeyPrefix),
		)
	} else {
		log.Info("cache disabled")
	}

	var contentAnalyzer domain.ContentAnalyzer
	if cfg.Analyzer.Enabled {
		client := analyzer.New(
			analyzer.Config{
				BaseURL: cfg.Analyzer.BaseURL,
				Timeout: cfg.Analyzer.Timeout,
				Retry: analyzer.RetryConfig{
					MaxAttempts: cfg.Analyzer.Retry.MaxAttempts,
					WaitTime:    cfg.Analyzer.Retry.WaitTime,
					MaxWaitTime: cfg.Analyzer.Retry.MaxWaitTime,
				},
				CB: analyzer.CBConfig{
					MaxRequests:  cfg.Analyzer.CB.MaxRequests,
					Interval:     cfg.Analyzer.CB.Interval,
					Timeout:      cfg.Analyzer.CB.Timeout,
					FailureRatio: cfg.Analyzer.CB.FailureRatio,
				},
			},
			log.Logger,
		)
		if err := client.HealthCheck(ctx); err != nil {
			log.Warn("content analyzer unreachable, analysis inputs will be zero", zap.Error(err))
		}
		contentAnalyzer = client
		log.Info("content analyzer enabled", zap.String("base_url", cfg.Analyzer.BaseURL))
	} else {
		log.Info("content analyzer disabled")
	}

	var publisher interface {
		domain.EventPublisher
		Close() error
	} = kafka.NoopPublisher{}
	if cfg.Kafka.Enabled {
		publisher = kafka.NewPublisher(
			kafka.Config{
				Brokers:      cfg.Kafka.Brokers,
				Topic:        cfg.Kafka.Topic,
				BatchSize:    cfg.Kafka.BatchSize,
				BatchTimeout: cfg.Kafka.BatchTimeout,
				Source:       cfg.App.Name,
			},
			log.Logger,
		)
		log.Info("event publishing enabled",
			zap.Strings("brokers", cfg.Kafka.Brokers),
			zap.String("topic", cfg.Kafka.Topic),
		)
	}
	defer func() { _ = publisher.Close() }()

	reviewSvc := service.NewReviewService(reviewRepo, cache, cfg.Cache.ReviewsTTL, publisher, log.Logger)
	replySvc := service.NewReplyService(reviewRepo, replyRepo, reactionRepo, contentAnalyzer, cache, publisher, log.Logger)
	moderationSvc := service.NewModerationService(
		reportRepo, reviewRepo, replyRepo, contentAnalyzer, cache, publisher,
		service.ModerationConfig{
			DefaultReporterTrust: cfg.Moderation.DefaultReporterTrust,
			AutoHideRiskScore:    cfg.Moderation.AutoHideRiskScore,
		},
		log.Logger,
	)
	rescoreSvc := service.NewRescoreService(reportRepo, cfg.Rescore.BatchSize, log.Logger)

	distLocker := locker.NewRedisLocker(redisClient, log.Logger, cfg.Cache.KeyPrefix)

	scheduler := job.NewRescoreScheduler(
		rescoreSvc,
		job.RescoreConfig{
			Interval:  cfg.Rescore.Interval,
			Timeout:   cfg.Rescore.Timeout,
			OnStartup: cfg.Rescore.OnStartup,
		},
		log.Logger,
		distLocker,
	)
	scheduler.Start()

	server := httpserver.NewServer(
		httpserver.ServerConfig{
			Port:      cfg.App.Port,
			BodyLimit: 1024 * 1024, // 1MB
		},
		httpserver.Services{
			Reviews:    reviewSvc,
			Replies:    replySvc,
			Moderation: moderationSvc,
			Rescorer:   scheduler,
		},
		db,
		redisClient,
		validator.New(),
		log.Logger,
	)

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Info("shutdown signal received")

		scheduler.Stop()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.App.ShutdownWithContext(ctx); err != nil {
			log.Error("server shutdown error", zap.Error(err))
		}
	}()

	if err := server.Start(cfg.App.Port); err != nil {
		log.Fatal("server error", zap.Error(err))
	}
}
