// Package middleware provides HTTP middleware for the API.
package middleware

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/healthcheck"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const probeTimeout = 2 * time.Second

// NewHealthCheck creates a Fiber healthcheck middleware with Kubernetes-style endpoints.
//
// Endpoints:
//   - GET /livez  - Liveness probe (app is running)
//   - GET /readyz - Readiness probe (database and redis reachable)
//
// This middleware should be registered BEFORE other routes.
func NewHealthCheck(db *gorm.DB, rdb redis.UniversalClient) fiber.Handler {
	return healthcheck.New(healthcheck.Config{
		LivenessEndpoint: "/livez",
		LivenessProbe: func(_ *fiber.Ctx) bool {
			return true
		},

		ReadinessEndpoint: "/readyz",
		ReadinessProbe: func(c *fiber.Ctx) bool {
			ctx, cancel := context.WithTimeout(c.UserContext(), probeTimeout)
			defer cancel()

			return pingDB(ctx, db) && pingRedis(ctx, rdb)
		},
	})
}

func pingDB(ctx context.Context, db *gorm.DB) bool {
	if db == nil {
		return false
	}
	sqlDB, err := db.DB()
	if err != nil {
		return false
	}

	return sqlDB.PingContext(ctx) == nil
}

// pingRedis treats a missing client as healthy; redis is optional.
func pingRedis(ctx context.Context, rdb redis.UniversalClient) bool {
	if rdb == nil {
		return true
	}

	return rdb.Ping(ctx).Err() == nil
}
