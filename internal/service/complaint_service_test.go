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

func newComplaintFixture(clock func() time.Time) (*ComplaintService, *eventRecorder) {
	dispatcher := events.NewInMemoryDispatcher()
	recorder := &eventRecorder{}
	dispatcher.Subscribe(events.EventComplaintEscalated, recorder.record)

	svc := NewComplaintService(ComplaintDependencies{
		Store:      storage.NewMemoryStore(),
		Dispatcher: dispatcher,
		Clock:      clock,
	})
	return svc, recorder
}

func createComplaint(t *testing.T, svc *ComplaintService) *domain.CustomerComplaint {
	t.Helper()
	complaint, err := svc.CreateComplaint(context.Background(), "store-1", ComplaintCreateInput{
		CustomerName: "Budi",
		Subject:      "Late repair",
		Message:      "Promised last week, still waiting",
	})
	require.NoError(t, err)
	return complaint
}

func TestCreateComplaintDefaults(t *testing.T) {
	svc, _ := newComplaintFixture(fixedClock(baseTime))

	complaint := createComplaint(t, svc)
	require.Equal(t, domain.ComplaintStatusOpen, complaint.Status)
	require.Equal(t, domain.SeverityMinor, complaint.Severity)
	require.False(t, complaint.IsResolved())

	_, err := svc.CreateComplaint(context.Background(), "store-1", ComplaintCreateInput{Subject: "no message"})
	require.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))
}

func TestResolveComplaintRequiresResponse(t *testing.T) {
	svc, _ := newComplaintFixture(fixedClock(baseTime))
	complaint := createComplaint(t, svc)

	_, err := svc.ResolveComplaint(context.Background(), "store-1", "owner-1", complaint.ID, "  ")
	require.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))
}

func TestResolveComplaintIsTerminal(t *testing.T) {
	svc, _ := newComplaintFixture(fixedClock(baseTime))
	ctx := context.Background()
	complaint := createComplaint(t, svc)

	resolved, err := svc.ResolveComplaint(ctx, "store-1", "owner-1", complaint.ID, "replacement shipped")
	require.NoError(t, err)
	require.True(t, resolved.IsResolved())
	require.NotNil(t, resolved.Response)
	require.Equal(t, "replacement shipped", *resolved.Response)

	_, err = svc.ResolveComplaint(ctx, "store-1", "owner-1", complaint.ID, "different text")
	require.True(t, apperrors.IsCode(err, "ALREADY_RESOLVED"))

	// The stored response survives the rejected second attempt.
	stored, err := svc.GetComplaint(ctx, "store-1", complaint.ID)
	require.NoError(t, err)
	require.Equal(t, "replacement shipped", *stored.Response)
}

func TestEscalateComplaintRules(t *testing.T) {
	svc, recorder := newComplaintFixture(fixedClock(baseTime))
	ctx := context.Background()

	complaint := createComplaint(t, svc)
	escalated, err := svc.EscalateComplaint(ctx, "store-1", "owner-1", complaint.ID)
	require.NoError(t, err)
	require.Equal(t, domain.ComplaintStatusEscalated, escalated.Status)
	require.Len(t, recorder.events, 1)

	// Escalated complaints can still be resolved.
	resolved, err := svc.ResolveComplaint(ctx, "store-1", "owner-1", complaint.ID, "handled by platform")
	require.NoError(t, err)
	require.True(t, resolved.IsResolved())

	_, err = svc.EscalateComplaint(ctx, "store-1", "owner-1", complaint.ID)
	require.True(t, apperrors.IsCode(err, "ALREADY_RESOLVED"))
}

func TestStartProgressTransition(t *testing.T) {
	svc, _ := newComplaintFixture(fixedClock(baseTime))
	ctx := context.Background()
	complaint := createComplaint(t, svc)

	inProgress, err := svc.StartProgress(ctx, "store-1", "owner-1", complaint.ID)
	require.NoError(t, err)
	require.Equal(t, domain.ComplaintStatusInProgress, inProgress.Status)

	// No edge from IN_PROGRESS back to IN_PROGRESS.
	_, err = svc.StartProgress(ctx, "store-1", "owner-1", complaint.ID)
	require.True(t, apperrors.IsCode(err, "INVALID_TRANSITION"))
}

func TestComplaintScopedToStore(t *testing.T) {
	svc, _ := newComplaintFixture(fixedClock(baseTime))
	complaint := createComplaint(t, svc)

	_, err := svc.GetComplaint(context.Background(), "store-2", complaint.ID)
	require.True(t, apperrors.IsCode(err, "NOT_FOUND"))
}
