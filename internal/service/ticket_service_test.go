package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/adninrahman19-debug/SeuramoeTechV3-sub002/internal/domain"
	"github.com/adninrahman19-debug/SeuramoeTechV3-sub002/internal/events"
	"github.com/adninrahman19-debug/SeuramoeTechV3-sub002/internal/storage"
	apperrors "github.com/adninrahman19-debug/SeuramoeTechV3-sub002/pkg/util"
)

var baseTime = time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func testWindows() map[domain.TicketPriority]time.Duration {
	return map[domain.TicketPriority]time.Duration{
		domain.TicketPriorityUrgent: 24 * time.Hour,
		domain.TicketPriorityHigh:   72 * time.Hour,
		domain.TicketPriorityMedium: 120 * time.Hour,
		domain.TicketPriorityLow:    240 * time.Hour,
	}
}

type eventRecorder struct {
	events []events.Event
}

func (r *eventRecorder) record(_ context.Context, event events.Event) error {
	r.events = append(r.events, event)
	return nil
}

func newTicketServiceForTest(clock func() time.Time) (*TicketService, *eventRecorder) {
	dispatcher := events.NewInMemoryDispatcher()
	recorder := &eventRecorder{}
	dispatcher.Subscribe(events.EventTicketCreated, recorder.record)
	dispatcher.Subscribe(events.EventTicketStatusChanged, recorder.record)
	dispatcher.Subscribe(events.EventTicketEscalated, recorder.record)

	svc := NewTicketService(TicketDependencies{
		Store:      storage.NewMemoryStore(),
		Dispatcher: dispatcher,
		SLAWindows: testWindows(),
		Clock:      clock,
	})
	return svc, recorder
}

func TestCreateTicketDerivesSLADeadline(t *testing.T) {
	svc, recorder := newTicketServiceForTest(fixedClock(baseTime))
	ctx := context.Background()

	ticket, err := svc.CreateTicket(ctx, "store-1", "owner-1", TicketCreateInput{
		CustomerName: "Siti",
		DeviceModel:  "Galaxy S21",
		Priority:     domain.TicketPriorityUrgent,
	})
	require.NoError(t, err)
	require.Equal(t, domain.TicketStatusOpen, ticket.Status)
	require.Equal(t, baseTime.Add(24*time.Hour), ticket.SLADeadline)
	require.Len(t, recorder.events, 1)
	require.Equal(t, events.EventTicketCreated, recorder.events[0].Type)
}

func TestCreateTicketDefaultsToMediumPriority(t *testing.T) {
	svc, _ := newTicketServiceForTest(fixedClock(baseTime))

	ticket, err := svc.CreateTicket(context.Background(), "store-1", "owner-1", TicketCreateInput{
		CustomerName: "Budi",
		DeviceModel:  "iPhone 13",
	})
	require.NoError(t, err)
	require.Equal(t, domain.TicketPriorityMedium, ticket.Priority)
	require.Equal(t, baseTime.Add(120*time.Hour), ticket.SLADeadline)
}

func TestCreateTicketRequiresCustomerAndDevice(t *testing.T) {
	svc, _ := newTicketServiceForTest(fixedClock(baseTime))

	_, err := svc.CreateTicket(context.Background(), "store-1", "owner-1", TicketCreateInput{
		CustomerName: "Budi",
	})
	require.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))
}

func TestUpdateTicketTransitions(t *testing.T) {
	cases := []struct {
		name    string
		from    domain.TicketStatus
		to      domain.TicketStatus
		allowed bool
	}{
		{"open to checking", domain.TicketStatusOpen, domain.TicketStatusChecking, true},
		{"open to repairing", domain.TicketStatusOpen, domain.TicketStatusRepairing, true},
		{"checking to repairing", domain.TicketStatusChecking, domain.TicketStatusRepairing, true},
		{"repairing to resolved", domain.TicketStatusRepairing, domain.TicketStatusResolved, true},
		{"resolved to closed", domain.TicketStatusResolved, domain.TicketStatusClosed, true},
		{"escalated back to repairing", domain.TicketStatusEscalated, domain.TicketStatusRepairing, true},
		{"open to resolved", domain.TicketStatusOpen, domain.TicketStatusResolved, false},
		{"resolved to open", domain.TicketStatusResolved, domain.TicketStatusOpen, false},
		{"closed to repairing", domain.TicketStatusClosed, domain.TicketStatusRepairing, false},
		{"checking to closed", domain.TicketStatusChecking, domain.TicketStatusClosed, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, _ := newTicketServiceForTest(fixedClock(baseTime))
			ctx := context.Background()

			ticket, err := svc.CreateTicket(ctx, "store-1", "owner-1", TicketCreateInput{
				CustomerName: "Siti",
				DeviceModel:  "Galaxy S21",
			})
			require.NoError(t, err)

			// Walk the ticket into the starting state directly.
			ticket.Status = tc.from
			require.NoError(t, svc.tickets.Put(ctx, ticket.ID, ticket))

			updated, err := svc.UpdateTicket(ctx, "store-1", "owner-1", ticket.ID, TicketUpdateInput{Status: &tc.to})
			if tc.allowed {
				require.NoError(t, err)
				require.Equal(t, tc.to, updated.Status)
				return
			}
			require.True(t, apperrors.IsCode(err, "INVALID_TRANSITION"))

			stored, err := svc.GetTicket(ctx, "store-1", ticket.ID)
			require.NoError(t, err)
			require.Equal(t, tc.from, stored.Status)
		})
	}
}

func TestUpdateTicketRejectsDeadlineDecrease(t *testing.T) {
	svc, _ := newTicketServiceForTest(fixedClock(baseTime))
	ctx := context.Background()

	ticket, err := svc.CreateTicket(ctx, "store-1", "owner-1", TicketCreateInput{
		CustomerName: "Siti",
		DeviceModel:  "Galaxy S21",
		Priority:     domain.TicketPriorityHigh,
	})
	require.NoError(t, err)

	earlier := ticket.SLADeadline.Add(-time.Hour)
	_, err = svc.UpdateTicket(ctx, "store-1", "owner-1", ticket.ID, TicketUpdateInput{SLADeadline: &earlier})
	require.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))

	later := ticket.SLADeadline.Add(time.Hour)
	updated, err := svc.UpdateTicket(ctx, "store-1", "owner-1", ticket.ID, TicketUpdateInput{SLADeadline: &later})
	require.NoError(t, err)
	require.Equal(t, later, updated.SLADeadline)
}

func TestEscalateTicketForcesUrgentAndIsIdempotent(t *testing.T) {
	svc, recorder := newTicketServiceForTest(fixedClock(baseTime))
	ctx := context.Background()

	ticket, err := svc.CreateTicket(ctx, "store-1", "owner-1", TicketCreateInput{
		CustomerName: "Siti",
		DeviceModel:  "Galaxy S21",
		Priority:     domain.TicketPriorityLow,
	})
	require.NoError(t, err)
	recorder.events = nil

	escalated, err := svc.EscalateTicket(ctx, "store-1", "owner-1", ticket.ID)
	require.NoError(t, err)
	require.Equal(t, domain.TicketStatusEscalated, escalated.Status)
	require.Equal(t, domain.TicketPriorityUrgent, escalated.Priority)
	require.Len(t, recorder.events, 1)

	again, err := svc.EscalateTicket(ctx, "store-1", "owner-1", ticket.ID)
	require.NoError(t, err)
	require.Equal(t, domain.TicketStatusEscalated, again.Status)
	require.Len(t, recorder.events, 1)
}

func TestEscalateTerminalTicketRejected(t *testing.T) {
	svc, _ := newTicketServiceForTest(fixedClock(baseTime))
	ctx := context.Background()

	ticket, err := svc.CreateTicket(ctx, "store-1", "owner-1", TicketCreateInput{
		CustomerName: "Siti",
		DeviceModel:  "Galaxy S21",
	})
	require.NoError(t, err)
	ticket.Status = domain.TicketStatusClosed
	require.NoError(t, svc.tickets.Put(ctx, ticket.ID, ticket))

	_, err = svc.EscalateTicket(ctx, "store-1", "owner-1", ticket.ID)
	require.True(t, apperrors.IsCode(err, "INVALID_TRANSITION"))
}

func TestGetTicketScopedToStore(t *testing.T) {
	svc, _ := newTicketServiceForTest(fixedClock(baseTime))
	ctx := context.Background()

	ticket, err := svc.CreateTicket(ctx, "store-1", "owner-1", TicketCreateInput{
		CustomerName: "Siti",
		DeviceModel:  "Galaxy S21",
	})
	require.NoError(t, err)

	_, err = svc.GetTicket(ctx, "store-2", ticket.ID)
	require.True(t, apperrors.IsCode(err, "NOT_FOUND"))

	_, err = svc.GetTicket(ctx, "store-1", "missing-id")
	require.True(t, apperrors.IsCode(err, "NOT_FOUND"))
}

func TestListTicketsFiltersAndBreached(t *testing.T) {
	svc, _ := newTicketServiceForTest(fixedClock(baseTime))
	ctx := context.Background()

	urgent, err := svc.CreateTicket(ctx, "store-1", "owner-1", TicketCreateInput{
		CustomerName: "Siti",
		DeviceModel:  "Galaxy S21",
		Priority:     domain.TicketPriorityUrgent,
	})
	require.NoError(t, err)
	_, err = svc.CreateTicket(ctx, "store-1", "owner-1", TicketCreateInput{
		CustomerName: "Budi",
		DeviceModel:  "iPhone 13",
		Priority:     domain.TicketPriorityLow,
	})
	require.NoError(t, err)
	_, err = svc.CreateTicket(ctx, "store-2", "owner-2", TicketCreateInput{
		CustomerName: "Ani",
		DeviceModel:  "Pixel 8",
	})
	require.NoError(t, err)

	listed, err := svc.ListTickets(ctx, "store-1", TicketFilter{})
	require.NoError(t, err)
	require.Len(t, listed, 2)

	listed, err = svc.ListTickets(ctx, "store-1", TicketFilter{Priorities: []domain.TicketPriority{domain.TicketPriorityUrgent}})
	require.NoError(t, err)
	require.Len(t, listed, 1)
	require.Equal(t, urgent.ID, listed[0].ID)

	// Move the clock past the urgent window only.
	svc.now = fixedClock(baseTime.Add(25 * time.Hour))
	listed, err = svc.ListTickets(ctx, "store-1", TicketFilter{BreachedOnly: true})
	require.NoError(t, err)
	require.Len(t, listed, 1)
	require.Equal(t, urgent.ID, listed[0].ID)
}
