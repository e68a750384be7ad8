package event

import (
	"context"

	"go.uber.org/zap"

	"github.com/pharmapos/backend/internal/domain/shared"
)

// AuditLogHandler writes every domain event to the structured log. It
// gives operators a trail of stock and trade activity without a
// dedicated audit store.
type AuditLogHandler struct {
	logger *zap.Logger
}

func NewAuditLogHandler(logger *zap.Logger) *AuditLogHandler {
	return &AuditLogHandler{logger: logger.Named("audit")}
}

// EventTypes returns nil so the handler receives all events.
func (h *AuditLogHandler) EventTypes() []string {
	return nil
}

func (h *AuditLogHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	h.logger.Info("domain event",
		zap.String("event_type", event.EventType()),
		zap.String("event_id", event.EventID().String()),
		zap.String("aggregate_type", event.AggregateType()),
		zap.String("aggregate_id", event.AggregateID().String()),
		zap.String("tenant_id", event.TenantID().String()),
		zap.Time("occurred_at", event.OccurredAt()),
	)
	return nil
}

var _ shared.EventHandler = (*AuditLogHandler)(nil)
