package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/adninrahman19-debug/SeuramoeTechV3-sub002/internal/api/dto"
	"github.com/adninrahman19-debug/SeuramoeTechV3-sub002/internal/service"
	apperrors "github.com/adninrahman19-debug/SeuramoeTechV3-sub002/pkg/util"
)

// ReviewsHandler exposes review moderation and satisfaction statistics.
type ReviewsHandler struct {
	service *service.ReviewService
}

// NewReviewsHandler constructs handler.
func NewReviewsHandler(reviewService *service.ReviewService) *ReviewsHandler {
	return &ReviewsHandler{service: reviewService}
}

// CreateReview POST /reviews.
func (h *ReviewsHandler) CreateReview(c *fiber.Ctx) error {
	_, storeID, err := storeScope(c)
	if err != nil {
		return err
	}
	var req dto.CreateReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if details := dto.Validate(req); details != nil {
		return apperrors.NewValidationError("invalid review payload", details)
	}

	review, err := h.service.CreateReview(c.UserContext(), storeID, service.ReviewCreateInput{
		ProductID:    req.ProductID,
		ProductName:  req.ProductName,
		CustomerName: req.CustomerName,
		Rating:       req.Rating,
		Comment:      req.Comment,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": review})
}

// ListReviews GET /reviews.
func (h *ReviewsHandler) ListReviews(c *fiber.Ctx) error {
	_, storeID, err := storeScope(c)
	if err != nil {
		return err
	}
	reviews, err := h.service.ListReviews(c.UserContext(), storeID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": reviews})
}

// ToggleVisibility POST /reviews/:id/visibility.
func (h *ReviewsHandler) ToggleVisibility(c *fiber.Ctx) error {
	_, storeID, err := storeScope(c)
	if err != nil {
		return err
	}
	review, err := h.service.ToggleVisibility(c.UserContext(), storeID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": review})
}

// Reply POST /reviews/:id/reply.
func (h *ReviewsHandler) Reply(c *fiber.Ctx) error {
	_, storeID, err := storeScope(c)
	if err != nil {
		return err
	}
	var req dto.ReplyReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if details := dto.Validate(req); details != nil {
		return apperrors.NewValidationError("invalid reply payload", details)
	}
	review, err := h.service.Reply(c.UserContext(), storeID, c.Params("id"), req.Reply)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": review})
}

// SatisfactionStats GET /reviews/stats.
func (h *ReviewsHandler) SatisfactionStats(c *fiber.Ctx) error {
	_, storeID, err := storeScope(c)
	if err != nil {
		return err
	}
	stats, err := h.service.ComputeSatisfactionStats(c.UserContext(), storeID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": stats})
}
