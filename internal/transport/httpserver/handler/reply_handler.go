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

// ReplyService is the subset of *service.ReplyService the handler uses.
type ReplyService interface {
	AddReply(ctx context.Context, reviewID int64, in service.AddReplyInput) (*domain.ReviewReply, error)
	GetReply(ctx context.Context, id int64) (*domain.ReviewReply, error)
	ListReplies(ctx context.Context, reviewID int64, includeDeleted bool) ([]*domain.ReviewReply, error)
	EditReply(ctx context.Context, id int64, content string) (*domain.ReviewReply, error)
	DeleteReply(ctx context.Context, id int64, reason string) (*domain.ReviewReply, error)
	RestoreReply(ctx context.Context, id int64) (*domain.ReviewReply, error)
	React(ctx context.Context, replyID int64, in service.ReactInput) (*domain.ReplyReaction, error)
	ListReactions(ctx context.Context, replyID int64) ([]*domain.ReplyReaction, error)
}

// ReplyHandler handles replies and reactions.
type ReplyHandler struct {
	service   ReplyService
	validator *validator.Validator
	logger    *zap.Logger
}

func NewReplyHandler(svc ReplyService, v *validator.Validator, logger *zap.Logger) *ReplyHandler {
	return &ReplyHandler{
		service:   svc,
		validator: v,
		logger:    logger,
	}
}

// Add handles POST /api/v1/reviews/:id/replies
func (h *ReplyHandler) Add(c *fiber.Ctx) error {
	reviewID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	var req dto.AddReplyRequest
	if err := bind(c, h.validator, &req); err != nil {
		return err
	}

	reply, err := h.service.AddReply(c.UserContext(), reviewID, req.ToInput())
	if err != nil {
		return fromService("add reply", err)
	}

	return c.Status(fiber.StatusCreated).JSON(dto.FromDomainReply(reply))
}

// List handles GET /api/v1/reviews/:id/replies?include_deleted=
func (h *ReplyHandler) List(c *fiber.Ctx) error {
	reviewID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	replies, err := h.service.ListReplies(c.UserContext(), reviewID, c.QueryBool("include_deleted"))
	if err != nil {
		return fromService("list replies", err)
	}

	return c.JSON(dto.FromSlice(replies, dto.FromDomainReply))
}

// Get handles GET /api/v1/replies/:id
func (h *ReplyHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	reply, err := h.service.GetReply(c.UserContext(), id)
	if err != nil {
		return fromService("get reply", err)
	}

	return c.JSON(dto.FromDomainReply(reply))
}

// Edit handles PUT /api/v1/replies/:id
func (h *ReplyHandler) Edit(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	var req dto.EditReplyRequest
	if err := bind(c, h.validator, &req); err != nil {
		return err
	}

	reply, err := h.service.EditReply(c.UserContext(), id, req.Content)
	if err != nil {
		return fromService("edit reply", err)
	}

	return c.JSON(dto.FromDomainReply(reply))
}

// Delete handles DELETE /api/v1/replies/:id
func (h *ReplyHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	var req dto.DeleteReplyRequest
	if err := bindOptional(c, h.validator, &req); err != nil {
		return err
	}

	reply, err := h.service.DeleteReply(c.UserContext(), id, req.Reason)
	if err != nil {
		return fromService("delete reply", err)
	}

	return c.JSON(dto.FromDomainReply(reply))
}

// Restore handles POST /api/v1/replies/:id/restore
func (h *ReplyHandler) Restore(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	reply, err := h.service.RestoreReply(c.UserContext(), id)
	if err != nil {
		return fromService("restore reply", err)
	}

	return c.JSON(dto.FromDomainReply(reply))
}

// React handles POST /api/v1/replies/:id/reactions
func (h *ReplyHandler) React(c *fiber.Ctx) error {
	replyID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	var req dto.ReactRequest
	if err := bind(c, h.validator, &req); err != nil {
		return err
	}

	reaction, err := h.service.React(c.UserContext(), replyID, req.ToInput())
	if err != nil {
		return fromService("react", err)
	}

	if reaction.IsFlagged {
		h.logger.Warn("reaction flagged for review",
			zap.Int64("reaction_id", reaction.ID),
			zap.Int64("reply_id", replyID),
			zap.Float64("spam_score", reaction.SpamScore),
			zap.Float64("bot_score", reaction.BotScore),
		)
	}

	return c.JSON(dto.FromDomainReaction(reaction))
}

// ListReactions handles GET /api/v1/replies/:id/reactions
func (h *ReplyHandler) ListReactions(c *fiber.Ctx) error {
	replyID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	reactions, err := h.service.ListReactions(c.UserContext(), replyID)
	if err != nil {
		return fromService("list reactions", err)
	}

	return c.JSON(dto.FromSlice(reactions, dto.FromDomainReaction))
}
