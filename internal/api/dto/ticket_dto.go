package dto

import (
	"time"

	"github.com/adninrahman19-debug/SeuramoeTechV3-sub002/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	CustomerName     string                `json:"customer_name" validate:"required"`
	CustomerPhone    string                `json:"customer_phone"`
	DeviceModel      string                `json:"device_model" validate:"required"`
	IssueDescription string                `json:"issue_description"`
	IssueCategory    string                `json:"issue_category"`
	Priority         domain.TicketPriority `json:"priority"`
	EstimatedCost    float64               `json:"estimated_cost" validate:"gte=0"`
}

// UpdateTicketRequest carries a partial update; absent fields stay put.
type UpdateTicketRequest struct {
	Status         *domain.TicketStatus   `json:"status"`
	Priority       *domain.TicketPriority `json:"priority"`
	TechnicianName *string                `json:"technician_name"`
	TechnicalNotes *string                `json:"technical_notes"`
	EstimatedCost  *float64               `json:"estimated_cost"`
	ActualCost     *float64               `json:"actual_cost"`
	SLADeadline    *time.Time             `json:"sla_deadline"`
	BeforeImage    *string                `json:"before_image"`
	AfterImage     *string                `json:"after_image"`
}

// ReassignTechnicianRequest payload.
type ReassignTechnicianRequest struct {
	TechnicianName string `json:"technician_name" validate:"required"`
}

// TicketResponse is the wire form of a ticket. SLABreached is derived at
// render time, never read from storage.
type TicketResponse struct {
	ID               string                `json:"id"`
	StoreID          string                `json:"store_id"`
	CustomerName     string                `json:"customer_name"`
	CustomerPhone    string                `json:"customer_phone,omitempty"`
	DeviceModel      string                `json:"device_model"`
	IssueDescription string                `json:"issue_description,omitempty"`
	IssueCategory    string                `json:"issue_category,omitempty"`
	Status           domain.TicketStatus   `json:"status"`
	Priority         domain.TicketPriority `json:"priority"`
	TechnicianName   *string               `json:"technician_name,omitempty"`
	CreatedAt        time.Time             `json:"created_at"`
	UpdatedAt        time.Time             `json:"updated_at"`
	SLADeadline      time.Time             `json:"sla_deadline"`
	SLABreached      bool                  `json:"sla_breached"`
	EstimatedCost    float64               `json:"estimated_cost"`
	ActualCost       *float64              `json:"actual_cost,omitempty"`
	TechnicalNotes   *string               `json:"technical_notes,omitempty"`
	BeforeImage      *string               `json:"before_image,omitempty"`
	AfterImage       *string               `json:"after_image,omitempty"`
}

// NewTicketResponse maps a domain ticket onto the wire form.
func NewTicketResponse(ticket *domain.SupportTicket, now time.Time) TicketResponse {
	return TicketResponse{
		ID:               ticket.ID,
		StoreID:          ticket.StoreID,
		CustomerName:     ticket.CustomerName,
		CustomerPhone:    ticket.CustomerPhone,
		DeviceModel:      ticket.DeviceModel,
		IssueDescription: ticket.IssueDescription,
		IssueCategory:    ticket.IssueCategory,
		Status:           ticket.Status,
		Priority:         ticket.Priority,
		TechnicianName:   ticket.TechnicianName,
		CreatedAt:        ticket.CreatedAt,
		UpdatedAt:        ticket.UpdatedAt,
		SLADeadline:      ticket.SLADeadline,
		SLABreached:      ticket.SLABreached(now),
		EstimatedCost:    ticket.EstimatedCost,
		ActualCost:       ticket.ActualCost,
		TechnicalNotes:   ticket.TechnicalNotes,
		BeforeImage:      ticket.BeforeImage,
		AfterImage:       ticket.AfterImage,
	}
}
