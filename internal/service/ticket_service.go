package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/adninrahman19-debug/SeuramoeTechV3-sub002/internal/domain"
	"github.com/adninrahman19-debug/SeuramoeTechV3-sub002/internal/events"
	"github.com/adninrahman19-debug/SeuramoeTechV3-sub002/internal/storage"
	apperrors "github.com/adninrahman19-debug/SeuramoeTechV3-sub002/pkg/util"
)

// TicketService owns the SupportTicket lifecycle: transition validation,
// SLA deadline computation, technician assignment and escalation.
type TicketService struct {
	tickets    storage.Collection[domain.SupportTicket]
	changeLog  storage.Collection[domain.ChangeLogEntry]
	windows    map[domain.TicketPriority]time.Duration
	dispatcher events.Dispatcher
	locks      *keyedMutex
	now        func() time.Time
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	Store      storage.EntityStore
	Dispatcher events.Dispatcher
	SLAWindows map[domain.TicketPriority]time.Duration
	Clock      func() time.Time
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	CustomerName     string
	CustomerPhone    string
	DeviceModel      string
	IssueDescription string
	IssueCategory    string
	Priority         domain.TicketPriority
	EstimatedCost    float64
}

// TicketUpdateInput carries a partial update. Nil fields are left alone;
// supplied fields are authoritative once validated.
type TicketUpdateInput struct {
	Status         *domain.TicketStatus
	Priority       *domain.TicketPriority
	TechnicianName *string
	TechnicalNotes *string
	EstimatedCost  *float64
	ActualCost     *float64
	SLADeadline    *time.Time
	BeforeImage    *string
	AfterImage     *string
}

// TicketFilter narrows listing results.
type TicketFilter struct {
	Statuses     []domain.TicketStatus
	Priorities   []domain.TicketPriority
	BreachedOnly bool
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	now := deps.Clock
	if now == nil {
		now = time.Now
	}
	return &TicketService{
		tickets:    storage.NewCollection[domain.SupportTicket](deps.Store, storage.CollectionTickets),
		changeLog:  storage.NewCollection[domain.ChangeLogEntry](deps.Store, storage.CollectionChangeLog),
		windows:    deps.SLAWindows,
		dispatcher: deps.Dispatcher,
		locks:      newKeyedMutex(),
		now:        now,
	}
}

// CreateTicket registers a new unit of repair work. The SLA deadline is
// derived from the priority window table at creation and persisted.
func (s *TicketService) CreateTicket(ctx context.Context, storeID, actor string, input TicketCreateInput) (*domain.SupportTicket, error) {
	if strings.TrimSpace(input.CustomerName) == "" || strings.TrimSpace(input.DeviceModel) == "" {
		return nil, apperrors.NewValidationError("customer_name and device_model are required", nil)
	}
	priority := input.Priority
	if priority == "" {
		priority = domain.TicketPriorityMedium
	}
	if !domain.ValidTicketPriority(priority) {
		return nil, apperrors.NewValidationError("unknown priority", map[string]any{"priority": priority})
	}

	now := s.now()
	ticket := &domain.SupportTicket{
		ID:               uuid.NewString(),
		StoreID:          storeID,
		CustomerName:     strings.TrimSpace(input.CustomerName),
		CustomerPhone:    strings.TrimSpace(input.CustomerPhone),
		DeviceModel:      strings.TrimSpace(input.DeviceModel),
		IssueDescription: strings.TrimSpace(input.IssueDescription),
		IssueCategory:    strings.TrimSpace(input.IssueCategory),
		Status:           domain.TicketStatusOpen,
		Priority:         priority,
		CreatedAt:        now,
		UpdatedAt:        now,
		SLADeadline:      now.Add(s.windows[priority]),
		EstimatedCost:    input.EstimatedCost,
	}
	if err := s.tickets.Put(ctx, ticket.ID, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type:    events.EventTicketCreated,
		StoreID: storeID,
		Actor:   actor,
		Payload: events.TicketCreatedPayload{
			TicketID:    ticket.ID,
			Priority:    ticket.Priority,
			SLADeadline: ticket.SLADeadline,
		},
	})
	return ticket, nil
}

// GetTicket loads a ticket scoped to the store.
func (s *TicketService) GetTicket(ctx context.Context, storeID, id string) (*domain.SupportTicket, error) {
	return s.load(ctx, storeID, id)
}

// ListTickets returns the store's tickets, newest first.
func (s *TicketService) ListTickets(ctx context.Context, storeID string, filter TicketFilter) ([]domain.SupportTicket, error) {
	all, err := s.tickets.All(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	now := s.now()
	out := make([]domain.SupportTicket, 0, len(all))
	for _, ticket := range all {
		if ticket.StoreID != storeID {
			continue
		}
		if len(filter.Statuses) > 0 && !containsStatus(filter.Statuses, ticket.Status) {
			continue
		}
		if len(filter.Priorities) > 0 && !containsPriority(filter.Priorities, ticket.Priority) {
			continue
		}
		if filter.BreachedOnly && !ticket.SLABreached(now) {
			continue
		}
		out = append(out, ticket)
	}
	sortTicketsNewestFirst(out)
	return out, nil
}

// UpdateTicket applies a partial update. Status changes must follow the
// lifecycle graph and the SLA deadline may never decrease; any rejection
// leaves the stored entity unchanged.
func (s *TicketService) UpdateTicket(ctx context.Context, storeID, actor, id string, input TicketUpdateInput) (*domain.SupportTicket, error) {
	unlock := s.locks.Lock(id)
	defer unlock()

	ticket, err := s.load(ctx, storeID, id)
	if err != nil {
		return nil, err
	}

	oldStatus := ticket.Status
	if input.Status != nil && *input.Status != ticket.Status {
		if !domain.CanTransitionTicket(ticket.Status, *input.Status) {
			return nil, apperrors.NewInvalidTransition(string(ticket.Status), string(*input.Status))
		}
		ticket.Status = *input.Status
	}
	if input.Priority != nil {
		if !domain.ValidTicketPriority(*input.Priority) {
			return nil, apperrors.NewValidationError("unknown priority", map[string]any{"priority": *input.Priority})
		}
		ticket.Priority = *input.Priority
	}
	if input.SLADeadline != nil {
		if input.SLADeadline.Before(ticket.SLADeadline) {
			return nil, apperrors.NewValidationError("sla_deadline cannot decrease", map[string]any{
				"current":   ticket.SLADeadline,
				"requested": *input.SLADeadline,
			})
		}
		ticket.SLADeadline = *input.SLADeadline
	}
	if input.TechnicianName != nil {
		ticket.TechnicianName = input.TechnicianName
	}
	if input.TechnicalNotes != nil {
		ticket.TechnicalNotes = input.TechnicalNotes
	}
	if input.EstimatedCost != nil {
		ticket.EstimatedCost = *input.EstimatedCost
	}
	if input.ActualCost != nil {
		ticket.ActualCost = input.ActualCost
	}
	if input.BeforeImage != nil {
		ticket.BeforeImage = input.BeforeImage
	}
	if input.AfterImage != nil {
		ticket.AfterImage = input.AfterImage
	}
	ticket.UpdatedAt = s.now()

	if err := s.tickets.Put(ctx, ticket.ID, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}

	if ticket.Status != oldStatus {
		s.recordStatusChange(ctx, actor, ticket, oldStatus)
		s.publish(ctx, events.Event{
			Type:    events.EventTicketStatusChanged,
			StoreID: storeID,
			Actor:   actor,
			Payload: events.TicketStatusChangedPayload{
				TicketID:  ticket.ID,
				OldStatus: oldStatus,
				NewStatus: ticket.Status,
			},
		})
	}
	return ticket, nil
}

// EscalateTicket forces a ticket to ESCALATED with URGENT priority.
// Escalating an already-escalated ticket is a no-op, not an error.
func (s *TicketService) EscalateTicket(ctx context.Context, storeID, actor, id string) (*domain.SupportTicket, error) {
	unlock := s.locks.Lock(id)
	defer unlock()

	ticket, err := s.load(ctx, storeID, id)
	if err != nil {
		return nil, err
	}
	if ticket.Status == domain.TicketStatusEscalated {
		return ticket, nil
	}
	if !domain.CanTransitionTicket(ticket.Status, domain.TicketStatusEscalated) {
		return nil, apperrors.NewInvalidTransition(string(ticket.Status), string(domain.TicketStatusEscalated))
	}

	oldStatus := ticket.Status
	ticket.Status = domain.TicketStatusEscalated
	ticket.Priority = domain.TicketPriorityUrgent
	ticket.UpdatedAt = s.now()

	if err := s.tickets.Put(ctx, ticket.ID, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.recordStatusChange(ctx, actor, ticket, oldStatus)
	s.publish(ctx, events.Event{
		Type:    events.EventTicketEscalated,
		StoreID: storeID,
		Actor:   actor,
		Payload: events.TicketEscalatedPayload{TicketID: ticket.ID, StoreID: storeID},
	})
	return ticket, nil
}

// ReassignTechnician is a pure field update; status is untouched.
func (s *TicketService) ReassignTechnician(ctx context.Context, storeID, actor, id, technicianName string) (*domain.SupportTicket, error) {
	if strings.TrimSpace(technicianName) == "" {
		return nil, apperrors.NewValidationError("technician name required", nil)
	}

	unlock := s.locks.Lock(id)
	defer unlock()

	ticket, err := s.load(ctx, storeID, id)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(technicianName)
	ticket.TechnicianName = &name
	ticket.UpdatedAt = s.now()
	if err := s.tickets.Put(ctx, ticket.ID, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	return ticket, nil
}

func (s *TicketService) load(ctx context.Context, storeID, id string) (*domain.SupportTicket, error) {
	ticket, err := s.tickets.Get(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	if ticket.StoreID != storeID {
		return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": id})
	}
	return ticket, nil
}

func (s *TicketService) recordStatusChange(ctx context.Context, actor string, ticket *domain.SupportTicket, oldStatus domain.TicketStatus) {
	entry := &domain.ChangeLogEntry{
		ID:         uuid.NewString(),
		EntityKind: domain.ChangeEntityTicket,
		EntityID:   ticket.ID,
		StoreID:    ticket.StoreID,
		Actor:      actor,
		OldValue:   map[string]any{"status": oldStatus},
		NewValue:   map[string]any{"status": ticket.Status},
		CreatedAt:  s.now(),
	}
	_ = s.changeLog.Put(ctx, entry.ID, entry)
}

func (s *TicketService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func containsStatus(list []domain.TicketStatus, status domain.TicketStatus) bool {
	for _, candidate := range list {
		if candidate == status {
			return true
		}
	}
	return false
}

func containsPriority(list []domain.TicketPriority, priority domain.TicketPriority) bool {
	for _, candidate := range list {
		if candidate == priority {
			return true
		}
	}
	return false
}

func sortTicketsNewestFirst(tickets []domain.SupportTicket) {
	sort.Slice(tickets, func(i, j int) bool {
		return tickets[i].CreatedAt.After(tickets[j].CreatedAt)
	})
}
