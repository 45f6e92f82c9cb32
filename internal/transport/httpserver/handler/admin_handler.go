package handler

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"review-engagement-service/internal/app/service"
	"review-engagement-service/internal/job"
	"review-engagement-service/internal/transport/httpserver/dto"
)

// Rescorer triggers a rescoring run outside the schedule.
type Rescorer interface {
	RunNow(ctx context.Context) (service.RescoreResult, error)
}

// AdminHandler handles admin-related HTTP requests.
type AdminHandler struct {
	rescorer Rescorer
	logger   *zap.Logger
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(rescorer Rescorer, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		rescorer: rescorer,
		logger:   logger,
	}
}

// Rescore handles POST /api/v1/admin/rescore
func (h *AdminHandler) Rescore(c *fiber.Ctx) error {
	h.logger.Info("manual rescore triggered")

	result, err := h.rescorer.RunNow(c.UserContext())
	if errors.Is(err, job.ErrRescoreRunning) {
		return &Error{Status: fiber.StatusConflict, Code: CodeConflict, Message: err.Error()}
	}
	if err != nil {
		return fromService("rescore", err)
	}

	return c.JSON(dto.FromRescoreResult(result))
}
