// Package httpserver provides HTTP server and routing.
package httpserver

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"review-engagement-service/internal/transport/httpserver/dto"
	"review-engagement-service/internal/transport/httpserver/handler"
	"review-engagement-service/internal/transport/httpserver/middleware"
	"review-engagement-service/internal/validator"
)

// ServerConfig holds server configuration.
type ServerConfig struct {
	Port      int
	BodyLimit int
}

// Services groups the use cases the API exposes.
type Services struct {
	Reviews    handler.ReviewService
	Replies    handler.ReplyService
	Moderation handler.ModerationService
	Rescorer   handler.Rescorer
}

// Server wraps Fiber app with handlers.
type Server struct {
	App    *fiber.App
	Logger *zap.Logger
}

// NewServer creates a new HTTP server with all routes configured.
// db and rdb back the readiness probe; rdb may be nil.
func NewServer(
	cfg ServerConfig,
	svcs Services,
	db *gorm.DB,
	rdb redis.UniversalClient,
	v *validator.Validator,
	logger *zap.Logger,
) *Server {
	logger = logger.Named("http")

	app := fiber.New(fiber.Config{
		AppName:      "review-engagement-service",
		BodyLimit:    cfg.BodyLimit,
		ErrorHandler: errorHandler(logger),
	})

	// Health check middleware MUST be registered BEFORE other middleware
	// for Kubernetes probes to work even during high load
	app.Use(middleware.NewHealthCheck(db, rdb))

	app.Use(requestid.New())
	app.Use(middleware.Correlation())
	app.Use(middleware.Recover(logger))
	app.Use(middleware.Logger(logger))
	app.Use(middleware.Metrics())
	app.Use(compress.New())

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	registerRoutes(app,
		handler.NewReviewHandler(svcs.Reviews, v, logger),
		handler.NewReplyHandler(svcs.Replies, v, logger),
		handler.NewReportHandler(svcs.Moderation, v, logger),
		handler.NewAdminHandler(svcs.Rescorer, logger),
	)

	return &Server{
		App:    app,
		Logger: logger,
	}
}

// registerRoutes sets up all API routes.
func registerRoutes(
	app *fiber.App,
	reviews *handler.ReviewHandler,
	replies *handler.ReplyHandler,
	reports *handler.ReportHandler,
	admin *handler.AdminHandler,
) {
	v1 := app.Group("/api/v1")

	books := v1.Group("/books/:bookId")
	books.Post("/reviews", reviews.Submit)
	books.Get("/reviews", reviews.ListByBook)

	rv := v1.Group("/reviews/:id")
	rv.Get("/", reviews.Get)
	rv.Put("/", reviews.Update)
	rv.Post("/votes", reviews.Vote)
	rv.Delete("/votes", reviews.RemoveVote)
	rv.Post("/hide", reviews.Hide)
	rv.Post("/unhide", reviews.Unhide)
	rv.Post("/replies", replies.Add)
	rv.Get("/replies", replies.List)
	rv.Post("/reports", reports.ReportReview)

	rp := v1.Group("/replies/:id")
	rp.Get("/", replies.Get)
	rp.Put("/", replies.Edit)
	rp.Delete("/", replies.Delete)
	rp.Post("/restore", replies.Restore)
	rp.Post("/reactions", replies.React)
	rp.Get("/reactions", replies.ListReactions)
	rp.Post("/reports", reports.ReportReply)

	v1.Get("/reports", reports.List)
	rq := v1.Group("/reports/:id")
	rq.Get("/", reports.Get)
	rq.Post("/assign", reports.Assign)
	rq.Post("/investigate", reports.Investigate)
	rq.Post("/resolve", reports.Resolve)
	rq.Post("/dismiss", reports.Dismiss)
	rq.Post("/escalate", reports.Escalate)
	rq.Post("/duplicate", reports.MarkDuplicate)

	v1.Post("/admin/rescore", admin.Rescore)
}

// errorHandler renders handler errors as dto.ErrorResponse and logs them by status.
// 404s are logged at DEBUG level, 4xx at WARN, 5xx at ERROR.
func errorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		resp := dto.ErrorResponse{Error: err.Error(), Code: "UNHANDLED_ERROR"}
		code := fiber.StatusInternalServerError

		var he *handler.Error
		var fe *fiber.Error
		switch {
		case errors.As(err, &he):
			code = he.Status
			resp = dto.ErrorResponse{Error: he.Message, Code: he.Code, Details: he.Details}
		case errors.As(err, &fe):
			code = fe.Code
		}

		switch {
		case code == fiber.StatusNotFound:
			logger.Debug("resource not found",
				zap.String("path", c.Path()),
				zap.String("method", c.Method()),
			)
		case code >= 500:
			logger.Error("server error",
				zap.Error(err),
				zap.Int("status", code),
				zap.String("path", c.Path()),
			)
		default:
			logger.Warn("client error",
				zap.Error(err),
				zap.Int("status", code),
				zap.String("path", c.Path()),
			)
		}

		return c.Status(code).JSON(resp)
	}
}

// Start starts the HTTP server.
func (s *Server) Start(port int) error {
	s.Logger.Info("starting HTTP server", zap.Int("port", port))

	return s.App.Listen(fmt.Sprintf(":%d", port))
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown() error {
	s.Logger.Info("shutting down HTTP server")

	return s.App.Shutdown()
}
