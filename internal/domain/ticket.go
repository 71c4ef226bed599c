package domain

import "time"

// TicketStatus enumerates lifecycle states for repair tickets.
type TicketStatus string

const (
	TicketStatusOpen      TicketStatus = "OPEN"
	TicketStatusChecking  TicketStatus = "CHECKING"
	TicketStatusRepairing TicketStatus = "REPAIRING"
	TicketStatusResolved  TicketStatus = "RESOLVED"
	TicketStatusClosed    TicketStatus = "CLOSED"
	TicketStatusEscalated TicketStatus = "ESCALATED"
)

// TicketPriority enumerates SLA urgency.
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "LOW"
	TicketPriorityMedium TicketPriority = "MEDIUM"
	TicketPriorityHigh   TicketPriority = "HIGH"
	TicketPriorityUrgent TicketPriority = "URGENT"
)

// SupportTicket is the aggregate for a unit of repair work.
type SupportTicket struct {
	ID               string         `json:"id"`
	StoreID          string         `json:"store_id"`
	CustomerName     string         `json:"customer_name"`
	CustomerPhone    string         `json:"customer_phone"`
	DeviceModel      string         `json:"device_model"`
	IssueDescription string         `json:"issue_description"`
	IssueCategory    string         `json:"issue_category"`
	Status           TicketStatus   `json:"status"`
	Priority         TicketPriority `json:"priority"`
	TechnicianName   *string        `json:"technician_name,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	SLADeadline      time.Time      `json:"sla_deadline"`
	EstimatedCost    float64        `json:"estimated_cost"`
	ActualCost       *float64       `json:"actual_cost,omitempty"`
	TechnicalNotes   *string        `json:"technical_notes,omitempty"`
	BeforeImage      *string        `json:"before_image,omitempty"`
	AfterImage       *string        `json:"after_image,omitempty"`
}

// IsTerminal reports whether the ticket has reached a final state.
func (t *SupportTicket) IsTerminal() bool {
	return t.Status == TicketStatusResolved || t.Status == TicketStatusClosed
}

// SLABreached is the derived breach predicate. It is computed against
// wall-clock time at read time and never stored, so the flag cannot drift.
func (t *SupportTicket) SLABreached(now time.Time) bool {
	return now.After(t.SLADeadline) && !t.IsTerminal()
}

var ticketTransitions = map[TicketStatus][]TicketStatus{
	TicketStatusOpen:      {TicketStatusChecking, TicketStatusRepairing, TicketStatusEscalated},
	TicketStatusChecking:  {TicketStatusRepairing, TicketStatusEscalated},
	TicketStatusRepairing: {TicketStatusResolved, TicketStatusEscalated},
	TicketStatusResolved:  {TicketStatusClosed},
	TicketStatusClosed:    {},
	TicketStatusEscalated: {TicketStatusRepairing},
}

// CanTransitionTicket reports whether the edge current -> next exists in the
// ticket lifecycle graph. The graph is forward-only: there is no path out of
// CLOSED, and RESOLVED only advances to CLOSED.
func CanTransitionTicket(current, next TicketStatus) bool {
	for _, candidate := range ticketTransitions[current] {
		if candidate == next {
			return true
		}
	}
	return false
}

// ValidTicketPriority reports whether p is a known priority.
func ValidTicketPriority(p TicketPriority) bool {
	switch p {
	case TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh, TicketPriorityUrgent:
		return true
	}
	return false
}
