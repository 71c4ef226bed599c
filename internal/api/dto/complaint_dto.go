package dto

import (
	"time"

	"github.com/adninrahman19-debug/SeuramoeTechV3-sub002/internal/domain"
)

// CreateComplaintRequest payload.
type CreateComplaintRequest struct {
	CustomerName string                   `json:"customer_name"`
	Subject      string                   `json:"subject" validate:"required"`
	Message      string                   `json:"message" validate:"required"`
	Severity     domain.ComplaintSeverity `json:"severity"`
}

// ResolveComplaintRequest payload.
type ResolveComplaintRequest struct {
	Response string `json:"response" validate:"required"`
}

// ComplaintResponse is the wire form of a complaint. IsResolved mirrors
// status at render time; it is never stored.
type ComplaintResponse struct {
	ID           string                   `json:"id"`
	StoreID      string                   `json:"store_id"`
	CustomerName string                   `json:"customer_name,omitempty"`
	Subject      string                   `json:"subject"`
	Message      string                   `json:"message"`
	Severity     domain.ComplaintSeverity `json:"severity"`
	Status       domain.ComplaintStatus   `json:"status"`
	IsResolved   bool                     `json:"is_resolved"`
	Response     *string                  `json:"response,omitempty"`
	CreatedAt    time.Time                `json:"created_at"`
	UpdatedAt    time.Time                `json:"updated_at"`
}

// NewComplaintResponse maps a domain complaint onto the wire form.
func NewComplaintResponse(complaint *domain.CustomerComplaint) ComplaintResponse {
	return ComplaintResponse{
		ID:           complaint.ID,
		StoreID:      complaint.StoreID,
		CustomerName: complaint.CustomerName,
		Subject:      complaint.Subject,
		Message:      complaint.Message,
		Severity:     complaint.Severity,
		Status:       complaint.Status,
		IsResolved:   complaint.IsResolved(),
		Response:     complaint.Response,
		CreatedAt:    complaint.CreatedAt,
		UpdatedAt:    complaint.UpdatedAt,
	}
}
