package domain

import "time"

// ChangeEntityKind identifies which lifecycle a change-log entry belongs to.
type ChangeEntityKind string

const (
	ChangeEntityTicket    ChangeEntityKind = "TICKET"
	ChangeEntityComplaint ChangeEntityKind = "COMPLAINT"
	ChangeEntityClaim     ChangeEntityKind = "CLAIM"
)

// ChangeLogEntry is an immutable audit record for an accepted state
// mutation. Rejected operations never produce an entry.
type ChangeLogEntry struct {
	ID         string           `json:"id"`
	EntityKind ChangeEntityKind `json:"entity_kind"`
	EntityID   string           `json:"entity_id"`
	StoreID    string           `json:"store_id"`
	Actor      string           `json:"actor"`
	OldValue   map[string]any   `json:"old_value"`
	NewValue   map[string]any   `json:"new_value"`
	CreatedAt  time.Time        `json:"created_at"`
}
