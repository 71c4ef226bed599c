package domain

import "time"

// ComplaintStatus enumerates complaint lifecycle states.
type ComplaintStatus string

const (
	ComplaintStatusOpen       ComplaintStatus = "OPEN"
	ComplaintStatusInProgress ComplaintStatus = "IN_PROGRESS"
	ComplaintStatusEscalated  ComplaintStatus = "ESCALATED"
	ComplaintStatusResolved   ComplaintStatus = "RESOLVED"
)

// ComplaintSeverity grades a complaint for triage ordering. Severity and
// status are orthogonal axes: severity never changes status on its own.
type ComplaintSeverity string

const (
	SeverityMinor    ComplaintSeverity = "MINOR"
	SeverityMajor    ComplaintSeverity = "MAJOR"
	SeverityCritical ComplaintSeverity = "CRITICAL"
)

// CustomerComplaint is a formal grievance, decoupled from ratings.
type CustomerComplaint struct {
	ID           string            `json:"id"`
	StoreID      string            `json:"store_id"`
	CustomerName string            `json:"customer_name"`
	Subject      string            `json:"subject"`
	Message      string            `json:"message"`
	Severity     ComplaintSeverity `json:"severity"`
	Status       ComplaintStatus   `json:"status"`
	Response     *string           `json:"response,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

// IsResolved is a view over status. It is never stored, so it cannot drift
// from the status it mirrors.
func (c *CustomerComplaint) IsResolved() bool {
	return c.Status == ComplaintStatusResolved
}

// Complaints flow OPEN -> IN_PROGRESS -> {RESOLVED | ESCALATED}, with
// ESCALATED allowed to resolve but never to reopen. There is no reopen
// edge out of RESOLVED.
var complaintTransitions = map[ComplaintStatus][]ComplaintStatus{
	ComplaintStatusOpen:       {ComplaintStatusInProgress, ComplaintStatusEscalated, ComplaintStatusResolved},
	ComplaintStatusInProgress: {ComplaintStatusEscalated, ComplaintStatusResolved},
	ComplaintStatusEscalated:  {ComplaintStatusResolved},
	ComplaintStatusResolved:   {},
}

// CanTransitionComplaint reports whether the edge current -> next exists.
func CanTransitionComplaint(current, next ComplaintStatus) bool {
	for _, candidate := range complaintTransitions[current] {
		if candidate == next {
			return true
		}
	}
	return false
}

// ValidComplaintSeverity reports whether s is a known severity.
func ValidComplaintSeverity(s ComplaintSeverity) bool {
	switch s {
	case SeverityMinor, SeverityMajor, SeverityCritical:
		return true
	}
	return false
}
