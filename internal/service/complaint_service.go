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

// ComplaintService owns the CustomerComplaint lifecycle. There is no reopen
// path: the transition graph is forward-only, resolved complaints stay
// resolved.
type ComplaintService struct {
	complaints storage.Collection[domain.CustomerComplaint]
	changeLog  storage.Collection[domain.ChangeLogEntry]
	dispatcher events.Dispatcher
	locks      *keyedMutex
	now        func() time.Time
}

// ComplaintDependencies bundles collaborators for the complaint service.
type ComplaintDependencies struct {
	Store      storage.EntityStore
	Dispatcher events.Dispatcher
	Clock      func() time.Time
}

// ComplaintCreateInput describes complaint intake payload. Severity is
// caller-supplied, never inferred.
type ComplaintCreateInput struct {
	CustomerName string
	Subject      string
	Message      string
	Severity     domain.ComplaintSeverity
}

// NewComplaintService constructs the service.
func NewComplaintService(deps ComplaintDependencies) *ComplaintService {
	now := deps.Clock
	if now == nil {
		now = time.Now
	}
	return &ComplaintService{
		complaints: storage.NewCollection[domain.CustomerComplaint](deps.Store, storage.CollectionComplaints),
		changeLog:  storage.NewCollection[domain.ChangeLogEntry](deps.Store, storage.CollectionChangeLog),
		dispatcher: deps.Dispatcher,
		locks:      newKeyedMutex(),
		now:        now,
	}
}

// CreateComplaint files a new grievance in OPEN status.
func (s *ComplaintService) CreateComplaint(ctx context.Context, storeID string, input ComplaintCreateInput) (*domain.CustomerComplaint, error) {
	if strings.TrimSpace(input.Subject) == "" || strings.TrimSpace(input.Message) == "" {
		return nil, apperrors.NewValidationError("subject and message are required", nil)
	}
	severity := input.Severity
	if severity == "" {
		severity = domain.SeverityMinor
	}
	if !domain.ValidComplaintSeverity(severity) {
		return nil, apperrors.NewValidationError("unknown severity", map[string]any{"severity": severity})
	}

	now := s.now()
	complaint := &domain.CustomerComplaint{
		ID:           uuid.NewString(),
		StoreID:      storeID,
		CustomerName: strings.TrimSpace(input.CustomerName),
		Subject:      strings.TrimSpace(input.Subject),
		Message:      strings.TrimSpace(input.Message),
		Severity:     severity,
		Status:       domain.ComplaintStatusOpen,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.complaints.Put(ctx, complaint.ID, complaint); err != nil {
		return nil, apperrors.MapError(err)
	}
	return complaint, nil
}

// GetComplaint loads a complaint scoped to the store.
func (s *ComplaintService) GetComplaint(ctx context.Context, storeID, id string) (*domain.CustomerComplaint, error) {
	return s.load(ctx, storeID, id)
}

// ListComplaints returns the store's complaints, newest first.
func (s *ComplaintService) ListComplaints(ctx context.Context, storeID string) ([]domain.CustomerComplaint, error) {
	all, err := s.complaints.All(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	out := make([]domain.CustomerComplaint, 0, len(all))
	for _, complaint := range all {
		if complaint.StoreID == storeID {
			out = append(out, complaint)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// StartProgress moves an OPEN complaint to IN_PROGRESS.
func (s *ComplaintService) StartProgress(ctx context.Context, storeID, actor, id string) (*domain.CustomerComplaint, error) {
	return s.transition(ctx, storeID, actor, id, domain.ComplaintStatusInProgress, nil)
}

// ResolveComplaint closes the complaint with a mandatory response. A second
// resolve attempt is rejected and the stored response stays untouched.
func (s *ComplaintService) ResolveComplaint(ctx context.Context, storeID, actor, id, responseText string) (*domain.CustomerComplaint, error) {
	response := strings.TrimSpace(responseText)
	if response == "" {
		return nil, apperrors.NewValidationError("response is required to resolve a complaint", nil)
	}

	unlock := s.locks.Lock(id)
	defer unlock()

	complaint, err := s.load(ctx, storeID, id)
	if err != nil {
		return nil, err
	}
	if complaint.IsResolved() {
		return nil, apperrors.NewAlreadyResolved("complaint", map[string]any{"complaint_id": id})
	}
	if !domain.CanTransitionComplaint(complaint.Status, domain.ComplaintStatusResolved) {
		return nil, apperrors.NewInvalidTransition(string(complaint.Status), string(domain.ComplaintStatusResolved))
	}

	oldStatus := complaint.Status
	complaint.Status = domain.ComplaintStatusResolved
	complaint.Response = &response
	complaint.UpdatedAt = s.now()
	if err := s.complaints.Put(ctx, complaint.ID, complaint); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.recordStatusChange(ctx, actor, complaint, oldStatus)
	return complaint, nil
}

// EscalateComplaint raises the complaint to platform authority. Allowed
// from OPEN or IN_PROGRESS only; escalating a resolved complaint is
// rejected.
func (s *ComplaintService) EscalateComplaint(ctx context.Context, storeID, actor, id string) (*domain.CustomerComplaint, error) {
	unlock := s.locks.Lock(id)
	defer unlock()

	complaint, err := s.load(ctx, storeID, id)
	if err != nil {
		return nil, err
	}
	if complaint.IsResolved() {
		return nil, apperrors.NewAlreadyResolved("complaint", map[string]any{"complaint_id": id})
	}
	if !domain.CanTransitionComplaint(complaint.Status, domain.ComplaintStatusEscalated) {
		return nil, apperrors.NewInvalidTransition(string(complaint.Status), string(domain.ComplaintStatusEscalated))
	}

	oldStatus := complaint.Status
	complaint.Status = domain.ComplaintStatusEscalated
	complaint.UpdatedAt = s.now()
	if err := s.complaints.Put(ctx, complaint.ID, complaint); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.recordStatusChange(ctx, actor, complaint, oldStatus)
	s.publish(ctx, events.Event{
		Type:    events.EventComplaintEscalated,
		StoreID: storeID,
		Actor:   actor,
		Payload: events.ComplaintEscalatedPayload{
			ComplaintID: complaint.ID,
			StoreID:     storeID,
			Severity:    complaint.Severity,
		},
	})
	return complaint, nil
}

func (s *ComplaintService) transition(ctx context.Context, storeID, actor, id string, next domain.ComplaintStatus, mutate func(*domain.CustomerComplaint)) (*domain.CustomerComplaint, error) {
	unlock := s.locks.Lock(id)
	defer unlock()

	complaint, err := s.load(ctx, storeID, id)
	if err != nil {
		return nil, err
	}
	if !domain.CanTransitionComplaint(complaint.Status, next) {
		return nil, apperrors.NewInvalidTransition(string(complaint.Status), string(next))
	}

	oldStatus := complaint.Status
	complaint.Status = next
	if mutate != nil {
		mutate(complaint)
	}
	complaint.UpdatedAt = s.now()
	if err := s.complaints.Put(ctx, complaint.ID, complaint); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.recordStatusChange(ctx, actor, complaint, oldStatus)
	return complaint, nil
}

func (s *ComplaintService) load(ctx context.Context, storeID, id string) (*domain.CustomerComplaint, error) {
	complaint, err := s.complaints.Get(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, apperrors.NewNotFound("complaint", map[string]any{"complaint_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	if complaint.StoreID != storeID {
		return nil, apperrors.NewNotFound("complaint", map[string]any{"complaint_id": id})
	}
	return complaint, nil
}

func (s *ComplaintService) recordStatusChange(ctx context.Context, actor string, complaint *domain.CustomerComplaint, oldStatus domain.ComplaintStatus) {
	entry := &domain.ChangeLogEntry{
		ID:         uuid.NewString(),
		EntityKind: domain.ChangeEntityComplaint,
		EntityID:   complaint.ID,
		StoreID:    complaint.StoreID,
		Actor:      actor,
		OldValue:   map[string]any{"status": oldStatus},
		NewValue:   map[string]any{"status": complaint.Status},
		CreatedAt:  s.now(),
	}
	_ = s.changeLog.Put(ctx, entry.ID, entry)
}

func (s *ComplaintService) publish(ctx context.Context, event events.Event) {
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
