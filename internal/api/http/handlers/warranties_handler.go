package handlers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/adninrahman19-debug/SeuramoeTechV3-sub002/internal/api/dto"
	"github.com/adninrahman19-debug/SeuramoeTechV3-sub002/internal/service"
	apperrors "github.com/adninrahman19-debug/SeuramoeTechV3-sub002/pkg/util"
)

// WarrantiesHandler exposes warranty registrations, coverage checks and
// claims.
type WarrantiesHandler struct {
	service *service.WarrantyService
}

// NewWarrantiesHandler constructs handler.
func NewWarrantiesHandler(warrantyService *service.WarrantyService) *WarrantiesHandler {
	return &WarrantiesHandler{service: warrantyService}
}

// RegisterWarranty POST /warranties.
func (h *WarrantiesHandler) RegisterWarranty(c *fiber.Ctx) error {
	_, storeID, err := storeScope(c)
	if err != nil {
		return err
	}
	var req dto.RegisterWarrantyRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if details := dto.Validate(req); details != nil {
		return apperrors.NewValidationError("invalid warranty payload", details)
	}

	registration, err := h.service.RegisterWarranty(c.UserContext(), storeID, service.WarrantyRegisterInput{
		ProductID:     req.ProductID,
		ProductName:   req.ProductName,
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		SerialNumber:  req.SerialNumber,
		PurchaseDate:  req.PurchaseDate,
		ExpiryDate:    req.ExpiryDate,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": registration})
}

// ListRegistrations GET /warranties.
func (h *WarrantiesHandler) ListRegistrations(c *fiber.Ctx) error {
	_, storeID, err := storeScope(c)
	if err != nil {
		return err
	}
	registrations, err := h.service.ListRegistrations(c.UserContext(), storeID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": registrations})
}

// RevokeRegistration POST /warranties/:id/revoke.
func (h *WarrantiesHandler) RevokeRegistration(c *fiber.Ctx) error {
	_, storeID, err := storeScope(c)
	if err != nil {
		return err
	}
	registration, err := h.service.RevokeRegistration(c.UserContext(), storeID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": registration})
}

// CheckCoverage GET /warranties/coverage?serial_number=...&at=RFC3339.
// Omitting "at" checks coverage now.
func (h *WarrantiesHandler) CheckCoverage(c *fiber.Ctx) error {
	_, storeID, err := storeScope(c)
	if err != nil {
		return err
	}
	serial := c.Query("serial_number")
	if serial == "" {
		return apperrors.NewValidationError("serial_number query parameter is required", nil)
	}
	at := time.Now()
	if raw := c.Query("at"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return apperrors.NewValidationError("at must be RFC3339", map[string]any{"at": raw})
		}
		at = parsed
	}

	covered, err := h.service.IsCovered(c.UserContext(), storeID, serial, at)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.CoverageResponse{
		SerialNumber: serial,
		At:           at,
		Covered:      covered,
	}})
}

// FileClaim POST /claims.
func (h *WarrantiesHandler) FileClaim(c *fiber.Ctx) error {
	_, storeID, err := storeScope(c)
	if err != nil {
		return err
	}
	var req dto.FileClaimRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if details := dto.Validate(req); details != nil {
		return apperrors.NewValidationError("invalid claim payload", details)
	}

	claim, err := h.service.FileClaim(c.UserContext(), storeID, service.ClaimFileInput{
		TicketID:     req.TicketID,
		SerialNumber: req.SerialNumber,
		ClaimReason:  req.ClaimReason,
		Category:     req.Category,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": claim})
}

// ListClaims GET /claims.
func (h *WarrantiesHandler) ListClaims(c *fiber.Ctx) error {
	_, storeID, err := storeScope(c)
	if err != nil {
		return err
	}
	claims, err := h.service.ListClaims(c.UserContext(), storeID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": claims})
}

// DecideClaim POST /claims/:id/decision.
func (h *WarrantiesHandler) DecideClaim(c *fiber.Ctx) error {
	principal, storeID, err := storeScope(c)
	if err != nil {
		return err
	}
	var req dto.DecideClaimRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if details := dto.Validate(req); details != nil {
		return apperrors.NewValidationError("invalid decision payload", details)
	}

	claim, err := h.service.DecideClaim(c.UserContext(), storeID, principal.SubjectID, c.Params("id"), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": claim})
}
