package events

import (
	"time"

	"github.com/adninrahman19-debug/SeuramoeTechV3-sub002/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated       EventType = "ticket_created"
	EventTicketStatusChanged EventType = "ticket_status_changed"
	EventTicketEscalated     EventType = "ticket_escalated"
	EventTicketSLABreached   EventType = "ticket_sla_breached"
	EventComplaintEscalated  EventType = "complaint_escalated"
	EventWarrantyClaimFiled  EventType = "warranty_claim_filed"
)

// Event represents a domain event emitted by the lifecycle managers and
// consumed by out-of-scope collaborators (notification, analytics).
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	StoreID   string      `json:"store_id,omitempty"`
	Actor     string      `json:"actor,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	TicketID    string                `json:"ticket_id"`
	Priority    domain.TicketPriority `json:"priority"`
	SLADeadline time.Time             `json:"sla_deadline"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	TicketID  string              `json:"ticket_id"`
	OldStatus domain.TicketStatus `json:"old_status"`
	NewStatus domain.TicketStatus `json:"new_status"`
}

// TicketEscalatedPayload payload.
type TicketEscalatedPayload struct {
	TicketID string `json:"ticket_id"`
	StoreID  string `json:"store_id"`
}

// TicketSLABreachedPayload payload. Emitted by the periodic sweep worker,
// never by the managers themselves.
type TicketSLABreachedPayload struct {
	TicketID    string    `json:"ticket_id"`
	SLADeadline time.Time `json:"sla_deadline"`
}

// ComplaintEscalatedPayload payload.
type ComplaintEscalatedPayload struct {
	ComplaintID string                   `json:"complaint_id"`
	StoreID     string                   `json:"store_id"`
	Severity    domain.ComplaintSeverity `json:"severity"`
}

// WarrantyClaimFiledPayload payload.
type WarrantyClaimFiledPayload struct {
	ClaimID   string `json:"claim_id"`
	TicketID  string `json:"ticket_id"`
	RiskScore int    `json:"risk_score"`
}
