package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/adninrahman19-debug/SeuramoeTechV3-sub002/internal/api/dto"
	"github.com/adninrahman19-debug/SeuramoeTechV3-sub002/internal/service"
	apperrors "github.com/adninrahman19-debug/SeuramoeTechV3-sub002/pkg/util"
)

// ComplaintsHandler exposes the complaint lifecycle operations.
type ComplaintsHandler struct {
	service *service.ComplaintService
}

// NewComplaintsHandler constructs handler.
func NewComplaintsHandler(complaintService *service.ComplaintService) *ComplaintsHandler {
	return &ComplaintsHandler{service: complaintService}
}

// CreateComplaint POST /complaints.
func (h *ComplaintsHandler) CreateComplaint(c *fiber.Ctx) error {
	_, storeID, err := storeScope(c)
	if err != nil {
		return err
	}
	var req dto.CreateComplaintRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if details := dto.Validate(req); details != nil {
		return apperrors.NewValidationError("invalid complaint payload", details)
	}

	complaint, err := h.service.CreateComplaint(c.UserContext(), storeID, service.ComplaintCreateInput{
		CustomerName: req.CustomerName,
		Subject:      req.Subject,
		Message:      req.Message,
		Severity:     req.Severity,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewComplaintResponse(complaint)})
}

// ListComplaints GET /complaints.
func (h *ComplaintsHandler) ListComplaints(c *fiber.Ctx) error {
	_, storeID, err := storeScope(c)
	if err != nil {
		return err
	}
	complaints, err := h.service.ListComplaints(c.UserContext(), storeID)
	if err != nil {
		return err
	}
	items := make([]dto.ComplaintResponse, 0, len(complaints))
	for i := range complaints {
		items = append(items, dto.NewComplaintResponse(&complaints[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetComplaint GET /complaints/:id.
func (h *ComplaintsHandler) GetComplaint(c *fiber.Ctx) error {
	_, storeID, err := storeScope(c)
	if err != nil {
		return err
	}
	complaint, err := h.service.GetComplaint(c.UserContext(), storeID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewComplaintResponse(complaint)})
}

// StartProgress POST /complaints/:id/progress.
func (h *ComplaintsHandler) StartProgress(c *fiber.Ctx) error {
	principal, storeID, err := storeScope(c)
	if err != nil {
		return err
	}
	complaint, err := h.service.StartProgress(c.UserContext(), storeID, principal.SubjectID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewComplaintResponse(complaint)})
}

// ResolveComplaint POST /complaints/:id/resolve.
func (h *ComplaintsHandler) ResolveComplaint(c *fiber.Ctx) error {
	principal, storeID, err := storeScope(c)
	if err != nil {
		return err
	}
	var req dto.ResolveComplaintRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if details := dto.Validate(req); details != nil {
		return apperrors.NewValidationError("invalid resolve payload", details)
	}
	complaint, err := h.service.ResolveComplaint(c.UserContext(), storeID, principal.SubjectID, c.Params("id"), req.Response)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewComplaintResponse(complaint)})
}

// EscalateComplaint POST /complaints/:id/escalate.
func (h *ComplaintsHandler) EscalateComplaint(c *fiber.Ctx) error {
	principal, storeID, err := storeScope(c)
	if err != nil {
		return err
	}
	complaint, err := h.service.EscalateComplaint(c.UserContext(), storeID, principal.SubjectID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewComplaintResponse(complaint)})
}
