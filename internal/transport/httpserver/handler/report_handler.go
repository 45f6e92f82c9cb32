package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"review-engagement-service/internal/app/service"
	"review-engagement-service/internal/domain"
	"review-engagement-service/internal/transport/httpserver/dto"
	"review-engagement-service/internal/validator"
)

// ModerationService is the subset of *service.ModerationService the handler uses.
type ModerationService interface {
	FileReport(ctx context.Context, in service.FileReportInput) (*domain.Report, error)
	GetReport(ctx context.Context, id int64) (*domain.Report, error)
	ListReports(ctx context.Context, params domain.ReportListParams) (*domain.Page[domain.Report], error)
	Assign(ctx context.Context, id, moderatorID int64) (*domain.Report, error)
	StartInvestigation(ctx context.Context, id int64) (*domain.Report, error)
	Resolve(ctx context.Context, id int64, in service.ResolveInput) (*domain.Report, error)
	Dismiss(ctx context.Context, id, dismisserID int64, reason string) (*domain.Report, error)
	Escalate(ctx context.Context, id int64, reason string) (*domain.Report, error)
	MarkDuplicate(ctx context.Context, id, originalID int64) (*domain.Report, error)
}

// ReportHandler handles filing reports and the moderation workflow.
type ReportHandler struct {
	service   ModerationService
	validator *validator.Validator
	logger    *zap.Logger
}

func NewReportHandler(svc ModerationService, v *validator.Validator, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{
		service:   svc,
		validator: v,
		logger:    logger,
	}
}

// ReportReview handles POST /api/v1/reviews/:id/reports
func (h *ReportHandler) ReportReview(c *fiber.Ctx) error {
	return h.file(c, domain.ReportTargetReview)
}

// ReportReply handles POST /api/v1/replies/:id/reports
func (h *ReportHandler) ReportReply(c *fiber.Ctx) error {
	return h.file(c, domain.ReportTargetReply)
}

func (h *ReportHandler) file(c *fiber.Ctx, targetType domain.ReportTargetType) error {
	targetID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	var req dto.FileReportRequest
	if err := bind(c, h.validator, &req); err != nil {
		return err
	}

	report, err := h.service.FileReport(c.UserContext(), req.ToInput(targetType, targetID))
	if err != nil {
		return fromService("file report", err)
	}

	h.logger.Info("report filed",
		zap.Int64("report_id", report.ID),
		zap.String("target_type", string(targetType)),
		zap.Int64("target_id", targetID),
		zap.Int("risk_score", report.RiskScore),
		zap.Int("urgency_score", report.UrgencyScore),
	)

	return c.Status(fiber.StatusCreated).JSON(dto.FromDomainReport(report))
}

// List handles GET /api/v1/reports
func (h *ReportHandler) List(c *fiber.Ctx) error {
	var req dto.ReportListRequest
	if err := bindQuery(c, h.validator, &req); err != nil {
		return err
	}

	page, err := h.service.ListReports(c.UserContext(), req.ToListParams())
	if err != nil {
		return fromService("list reports", err)
	}

	return c.JSON(dto.FromPage(page, dto.FromDomainReport))
}

// Get handles GET /api/v1/reports/:id
func (h *ReportHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	report, err := h.service.GetReport(c.UserContext(), id)
	if err != nil {
		return fromService("get report", err)
	}

	return c.JSON(dto.FromDomainReport(report))
}

// Assign handles POST /api/v1/reports/:id/assign
func (h *ReportHandler) Assign(c *fiber.Ctx) error {
	var req dto.AssignRequest
	return h.act(c, "assign report", &req, func(ctx context.Context, id int64) (*domain.Report, error) {
		return h.service.Assign(ctx, id, req.ModeratorID)
	})
}

// Investigate handles POST /api/v1/reports/:id/investigate
func (h *ReportHandler) Investigate(c *fiber.Ctx) error {
	return h.act(c, "start investigation", nil, h.service.StartInvestigation)
}

// Resolve handles POST /api/v1/reports/:id/resolve
func (h *ReportHandler) Resolve(c *fiber.Ctx) error {
	var req dto.ResolveRequest
	return h.act(c, "resolve report", &req, func(ctx context.Context, id int64) (*domain.Report, error) {
		return h.service.Resolve(ctx, id, req.ToInput())
	})
}

// Dismiss handles POST /api/v1/reports/:id/dismiss
func (h *ReportHandler) Dismiss(c *fiber.Ctx) error {
	var req dto.DismissRequest
	return h.act(c, "dismiss report", &req, func(ctx context.Context, id int64) (*domain.Report, error) {
		return h.service.Dismiss(ctx, id, req.DismisserID, req.Reason)
	})
}

// Escalate handles POST /api/v1/reports/:id/escalate
func (h *ReportHandler) Escalate(c *fiber.Ctx) error {
	var req dto.EscalateRequest
	return h.act(c, "escalate report", &req, func(ctx context.Context, id int64) (*domain.Report, error) {
		return h.service.Escalate(ctx, id, req.Reason)
	})
}

// MarkDuplicate handles POST /api/v1/reports/:id/duplicate
func (h *ReportHandler) MarkDuplicate(c *fiber.Ctx) error {
	var req dto.DuplicateRequest
	return h.act(c, "mark duplicate", &req, func(ctx context.Context, id int64) (*domain.Report, error) {
		return h.service.MarkDuplicate(ctx, id, req.OriginalReportID)
	})
}

// act runs one workflow transition. req, when non-nil, is bound from the body first.
func (h *ReportHandler) act(c *fiber.Ctx, op string, req interface{}, fn func(context.Context, int64) (*domain.Report, error)) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	if req != nil {
		if err := bind(c, h.validator, req); err != nil {
			return err
		}
	}

	report, err := fn(c.UserContext(), id)
	if err != nil {
		return fromService(op, err)
	}

	h.logger.Info("report updated",
		zap.String("action", op),
		zap.Int64("report_id", id),
		zap.String("status", string(report.Status)),
	)

	return c.JSON(dto.FromDomainReport(report))
}
