package worker

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/adninrahman19-debug/SeuramoeTechV3-sub002/internal/config"
	"github.com/adninrahman19-debug/SeuramoeTechV3-sub002/internal/domain"
	"github.com/adninrahman19-debug/SeuramoeTechV3-sub002/internal/events"
	"github.com/adninrahman19-debug/SeuramoeTechV3-sub002/internal/persistence"
	"github.com/adninrahman19-debug/SeuramoeTechV3-sub002/internal/storage"
)

// SLASweeper is the periodic sweep that emits TicketSLABreached events.
// Breach is always a derived predicate; the sweep reads, never writes
// tickets. Redis deduplicates so each breach fires once per TTL window.
type SLASweeper struct {
	tickets    storage.Collection[domain.SupportTicket]
	dispatcher events.Dispatcher
	redis      *persistence.Redis
	logger     *zap.Logger
	cfg        config.WorkerConfig
	cron       *cron.Cron
	now        func() time.Time
}

// NewSLASweeper constructs the sweep worker.
func NewSLASweeper(store storage.EntityStore, dispatcher events.Dispatcher, redis *persistence.Redis, logger *zap.Logger, cfg config.WorkerConfig) *SLASweeper {
	return &SLASweeper{
		tickets:    storage.NewCollection[domain.SupportTicket](store, storage.CollectionTickets),
		dispatcher: dispatcher,
		redis:      redis,
		logger:     logger,
		cfg:        cfg,
		now:        time.Now,
	}
}

// Start schedules the sweep. Returns an error for an invalid cron spec.
func (s *SLASweeper) Start() error {
	s.cron = cron.New()
	_, err := s.cron.AddFunc(s.cfg.SweepCronSpec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := s.Sweep(ctx); err != nil {
			s.logger.Error("sla sweep failed", zap.Error(err))
		}
	})
	if err != nil {
		return err
	}
	s.cron.Start()
	s.logger.Info("sla sweeper started", zap.String("schedule", s.cfg.SweepCronSpec))
	return nil
}

// Stop halts the schedule and waits for a running sweep to finish.
func (s *SLASweeper) Stop() {
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
}

// Sweep scans all tickets and emits one TicketSLABreached per newly
// breached ticket.
func (s *SLASweeper) Sweep(ctx context.Context) error {
	tickets, err := s.tickets.All(ctx)
	if err != nil {
		return err
	}

	now := s.now()
	emitted := 0
	for _, ticket := range tickets {
		if !ticket.SLABreached(now) {
			continue
		}
		first, err := s.redis.MarkBreachNotified(ctx, ticket.ID, s.cfg.BreachDedupeTTL)
		if err != nil {
			s.logger.Warn("breach dedupe unavailable", zap.Error(err))
			first = true
		}
		if !first {
			continue
		}
		emitted++
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventTicketSLABreached,
			StoreID:   ticket.StoreID,
			Timestamp: now,
			Payload: events.TicketSLABreachedPayload{
				TicketID:    ticket.ID,
				SLADeadline: ticket.SLADeadline,
			},
		})
	}
	if emitted > 0 {
		s.logger.Info("sla sweep emitted breaches", zap.Int("count", emitted))
	}
	return nil
}
