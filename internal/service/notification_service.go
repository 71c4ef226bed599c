package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/adninrahman19-debug/SeuramoeTechV3-sub002/internal/config"
	"github.com/adninrahman19-debug/SeuramoeTechV3-sub002/internal/events"
	"github.com/adninrahman19-debug/SeuramoeTechV3-sub002/internal/observability"
)

// NotificationService is the in-process stand-in for the out-of-scope
// notification collaborator: it consumes domain events and forwards them.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	metrics    *observability.Metrics
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, metrics *observability.Metrics, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		metrics:    metrics,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to the events the collaborator cares about.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventTicketEscalated, n.handle)
	n.dispatcher.Subscribe(events.EventTicketSLABreached, n.handle)
	n.dispatcher.Subscribe(events.EventComplaintEscalated, n.handle)
	n.dispatcher.Subscribe(events.EventWarrantyClaimFiled, n.handle)
	n.dispatcher.Subscribe(events.EventTicketStatusChanged, n.handle)
}

func (n *NotificationService) handle(ctx context.Context, event events.Event) error {
	n.metrics.RecordEvent(string(event.Type))
	n.logger.Info("domain event",
		zap.String("event_type", string(event.Type)),
		zap.String("store_id", event.StoreID),
		zap.Any("payload", event.Payload))
	n.sendWebhookStub(event)
	return nil
}

func (n *NotificationService) sendWebhookStub(event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("webhook notification",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("event_type", string(event.Type)))
}
