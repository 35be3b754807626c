package worker

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/org-directory-bot/internal/events"
)

// AuditWorker writes an audit trail entry for every directory mutation.
type AuditWorker struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewAuditWorker creates the worker.
func NewAuditWorker(dispatcher events.Dispatcher, logger *zap.Logger) *AuditWorker {
	return &AuditWorker{dispatcher: dispatcher, logger: logger.Named("audit")}
}

// RegisterHandlers subscribes to all directory events.
func (w *AuditWorker) RegisterHandlers() {
	if w.dispatcher == nil {
		return
	}
	for _, eventType := range []events.EventType{
		events.EventDepartmentCreated,
		events.EventDepartmentRenamed,
		events.EventDepartmentDeleted,
		events.EventEmployeeCreated,
		events.EventEmployeeUpdated,
		events.EventEmployeeDeleted,
	} {
		w.dispatcher.Subscribe(eventType, w.record)
	}
}

func (w *AuditWorker) record(ctx context.Context, event events.Event) error {
	w.logger.Info(string(event.Type),
		zap.String("event_id", event.ID),
		zap.Int64("actor_id", event.ActorID),
		zap.Time("at", event.Timestamp),
		zap.Any("payload", event.Payload))
	return nil
}
