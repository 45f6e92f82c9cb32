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

// ReviewService is the subset of *service.ReviewService the handler uses.
type ReviewService interface {
	Submit(ctx context.Context, in service.SubmitReviewInput) (*domain.Review, error)
	Get(ctx context.Context, id int64) (*domain.Review, error)
	ListByBook(ctx context.Context, bookID int64, params domain.ReviewListParams) (*domain.Page[domain.Review], error)
	Update(ctx context.Context, id int64, in service.UpdateReviewInput) (*domain.Review, error)
	Vote(ctx context.Context, id int64, helpful bool) (*domain.Review, error)
	RemoveVote(ctx context.Context, id int64, helpful bool) (*domain.Review, error)
	SetVisibility(ctx context.Context, id int64, visible bool) (*domain.Review, error)
}

// ReviewHandler handles review-related HTTP requests.
type ReviewHandler struct {
	service   ReviewService
	validator *validator.Validator
	logger    *zap.Logger
}

// NewReviewHandler creates a new ReviewHandler.
func NewReviewHandler(svc ReviewService, v *validator.Validator, logger *zap.Logger) *ReviewHandler {
	return &ReviewHandler{
		service:   svc,
		validator: v,
		logger:    logger,
	}
}

// Submit handles POST /api/v1/books/:bookId/reviews
func (h *ReviewHandler) Submit(c *fiber.Ctx) error {
	bookID, err := parseID(c, "bookId")
	if err != nil {
		return err
	}

	var req dto.SubmitReviewRequest
	if err := bind(c, h.validator, &req); err != nil {
		return err
	}

	review, err := h.service.Submit(c.UserContext(), req.ToInput(bookID))
	if err != nil {
		return fromService("submit review", err)
	}

	h.logger.Info("review submitted",
		zap.Int64("review_id", review.ID),
		zap.Int64("book_id", bookID),
		zap.Int("quality_score", review.QualityScore),
	)

	return c.Status(fiber.StatusCreated).JSON(dto.FromDomainReview(review))
}

// ListByBook handles GET /api/v1/books/:bookId/reviews
func (h *ReviewHandler) ListByBook(c *fiber.Ctx) error {
	bookID, err := parseID(c, "bookId")
	if err != nil {
		return err
	}

	var req dto.ReviewListRequest
	if err := bindQuery(c, h.validator, &req); err != nil {
		return err
	}

	page, err := h.service.ListByBook(c.UserContext(), bookID, req.ToListParams())
	if err != nil {
		return fromService("list reviews", err)
	}

	return c.JSON(dto.FromPage(page, dto.FromDomainReview))
}

// Get handles GET /api/v1/reviews/:id
func (h *ReviewHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	review, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return fromService("get review", err)
	}

	return c.JSON(dto.FromDomainReview(review))
}

// Update handles PUT /api/v1/reviews/:id
func (h *ReviewHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	var req dto.UpdateReviewRequest
	if err := bind(c, h.validator, &req); err != nil {
		return err
	}

	review, err := h.service.Update(c.UserContext(), id, req.ToInput())
	if err != nil {
		return fromService("update review", err)
	}

	return c.JSON(dto.FromDomainReview(review))
}

// Vote handles POST /api/v1/reviews/:id/votes
func (h *ReviewHandler) Vote(c *fiber.Ctx) error {
	return h.vote(c, h.service.Vote)
}

// RemoveVote handles DELETE /api/v1/reviews/:id/votes
func (h *ReviewHandler) RemoveVote(c *fiber.Ctx) error {
	return h.vote(c, h.service.RemoveVote)
}

func (h *ReviewHandler) vote(c *fiber.Ctx, apply func(context.Context, int64, bool) (*domain.Review, error)) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	var req dto.VoteRequest
	if err := bind(c, h.validator, &req); err != nil {
		return err
	}

	review, err := apply(c.UserContext(), id, req.Helpful)
	if err != nil {
		return fromService("vote", err)
	}

	return c.JSON(dto.FromDomainReview(review))
}

// Hide handles POST /api/v1/reviews/:id/hide
func (h *ReviewHandler) Hide(c *fiber.Ctx) error {
	return h.setVisibility(c, false)
}

// Unhide handles POST /api/v1/reviews/:id/unhide
func (h *ReviewHandler) Unhide(c *fiber.Ctx) error {
	return h.setVisibility(c, true)
}

func (h *ReviewHandler) setVisibility(c *fiber.Ctx, visible bool) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	review, err := h.service.SetVisibility(c.UserContext(), id, visible)
	if err != nil {
		return fromService("set visibility", err)
	}

	h.logger.Info("review visibility changed", zap.Int64("review_id", id), zap.Bool("visible", visible))

	return c.JSON(dto.FromDomainReview(review))
}
