package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/adninrahman19-debug/SeuramoeTechV3-sub002/internal/api/dto"
	"github.com/adninrahman19-debug/SeuramoeTechV3-sub002/internal/auth"
	"github.com/adninrahman19-debug/SeuramoeTechV3-sub002/internal/domain"
	"github.com/adninrahman19-debug/SeuramoeTechV3-sub002/internal/service"
	apperrors "github.com/adninrahman19-debug/SeuramoeTechV3-sub002/pkg/util"
)

// TicketsHandler exposes the ticket lifecycle operations.
type TicketsHandler struct {
	service *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: ticketService}
}

// CreateTicket POST /tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	principal, storeID, err := storeScope(c)
	if err != nil {
		return err
	}
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if details := dto.Validate(req); details != nil {
		return apperrors.NewValidationError("invalid ticket payload", details)
	}

	ticket, err := h.service.CreateTicket(c.UserContext(), storeID, principal.SubjectID, service.TicketCreateInput{
		CustomerName:     req.CustomerName,
		CustomerPhone:    req.CustomerPhone,
		DeviceModel:      req.DeviceModel,
		IssueDescription: req.IssueDescription,
		IssueCategory:    req.IssueCategory,
		Priority:         req.Priority,
		EstimatedCost:    req.EstimatedCost,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewTicketResponse(ticket, time.Now())})
}

// ListTickets GET /tickets.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	_, storeID, err := storeScope(c)
	if err != nil {
		return err
	}
	filter := service.TicketFilter{
		BreachedOnly: c.QueryBool("breached"),
	}
	if statusStr := c.Query("status"); statusStr != "" {
		for _, part := range strings.Split(statusStr, ",") {
			filter.Statuses = append(filter.Statuses, domain.TicketStatus(strings.TrimSpace(part)))
		}
	}
	if priorityStr := c.Query("priority"); priorityStr != "" {
		for _, part := range strings.Split(priorityStr, ",") {
			filter.Priorities = append(filter.Priorities, domain.TicketPriority(strings.TrimSpace(part)))
		}
	}

	tickets, err := h.service.ListTickets(c.UserContext(), storeID, filter)
	if err != nil {
		return err
	}
	now := time.Now()
	items := make([]dto.TicketResponse, 0, len(tickets))
	for i := range tickets {
		items = append(items, dto.NewTicketResponse(&tickets[i], now))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetTicket GET /tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	_, storeID, err := storeScope(c)
	if err != nil {
		return err
	}
	ticket, err := h.service.GetTicket(c.UserContext(), storeID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketResponse(ticket, time.Now())})
}

// UpdateTicket PATCH /tickets/:id.
func (h *TicketsHandler) UpdateTicket(c *fiber.Ctx) error {
	principal, storeID, err := storeScope(c)
	if err != nil {
		return err
	}
	var req dto.UpdateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	ticket, err := h.service.UpdateTicket(c.UserContext(), storeID, principal.SubjectID, c.Params("id"), service.TicketUpdateInput{
		Status:         req.Status,
		Priority:       req.Priority,
		TechnicianName: req.TechnicianName,
		TechnicalNotes: req.TechnicalNotes,
		EstimatedCost:  req.EstimatedCost,
		ActualCost:     req.ActualCost,
		SLADeadline:    req.SLADeadline,
		BeforeImage:    req.BeforeImage,
		AfterImage:     req.AfterImage,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketResponse(ticket, time.Now())})
}

// EscalateTicket POST /tickets/:id/escalate.
func (h *TicketsHandler) EscalateTicket(c *fiber.Ctx) error {
	principal, storeID, err := storeScope(c)
	if err != nil {
		return err
	}
	ticket, err := h.service.EscalateTicket(c.UserContext(), storeID, principal.SubjectID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketResponse(ticket, time.Now())})
}

// ReassignTechnician POST /tickets/:id/technician.
func (h *TicketsHandler) ReassignTechnician(c *fiber.Ctx) error {
	principal, storeID, err := storeScope(c)
	if err != nil {
		return err
	}
	var req dto.ReassignTechnicianRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if details := dto.Validate(req); details != nil {
		return apperrors.NewValidationError("invalid technician payload", details)
	}
	ticket, err := h.service.ReassignTechnician(c.UserContext(), storeID, principal.SubjectID, c.Params("id"), req.TechnicianName)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketResponse(ticket, time.Now())})
}

// storeScope resolves the caller and the store their request addresses.
func storeScope(c *fiber.Ctx) (*auth.Principal, string, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return nil, "", apperrors.NewUnauthorized("authentication required")
	}
	storeID := auth.StoreScope(c, principal)
	if storeID == "" {
		return nil, "", apperrors.NewValidationError("store_id required", nil)
	}
	return principal, storeID, nil
}
