// en internal/task/infra/inbound/events/task_consumer.go
package events

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	sharedEvents "github.com/davicafu/mstask/internal/shared/events"
	sharedInfraEvents "github.com/davicafu/mstask/internal/shared/infra/events"
	sharedUtils "github.com/davicafu/mstask/internal/shared/infra/utils"
	taskDomain "github.com/davicafu/mstask/internal/task/domain"
)

// TaskAuditConsumer deja constancia en el log de cada cambio publicado sobre una tarea.
// No modifica el store: el servicio es el único que escribe.
type TaskAuditConsumer struct {
	log *zap.Logger
}

var _ sharedInfraEvents.MessageHandler = (*TaskAuditConsumer)(nil)

// NewTaskAuditConsumer es el constructor.
func NewTaskAuditConsumer(logger *zap.Logger) *TaskAuditConsumer {
	return &TaskAuditConsumer{log: logger.Named("task-audit")}
}

// HandleMessage es el punto de entrada para un nuevo mensaje/evento.
func (c *TaskAuditConsumer) HandleMessage(ctx context.Context, key string, payload []byte) {
	var base sharedEvents.IntegrationEvent
	if err := json.Unmarshal(payload, &base); err != nil {
		c.log.Warn("Failed to unmarshal integration event for task", zap.String("key", key), zap.Error(err))
		return
	}

	switch base.Type {
	case taskDomain.TaskCreated:
		sharedUtils.UnmarshalAndHandle[sharedEvents.TaskCreated](c.log, base.Data, func(evt sharedEvents.TaskCreated) {
			c.audit("📝 Task created", base, evt.TaskSnapshot)
		})

	case taskDomain.TaskUpdated:
		sharedUtils.UnmarshalAndHandle[sharedEvents.TaskUpdated](c.log, base.Data, func(evt sharedEvents.TaskUpdated) {
			c.audit("✏️ Task updated", base, evt.TaskSnapshot)
		})

	case taskDomain.TaskDeleted:
		sharedUtils.UnmarshalAndHandle[sharedEvents.TaskDeleted](c.log, base.Data, func(evt sharedEvents.TaskDeleted) {
			c.audit("🗑️ Task deleted", base, evt.TaskSnapshot)
		})

	default:
		c.log.Warn("Unknown task event type", zap.String("type", base.Type), zap.String("key", key))
	}
}

func (c *TaskAuditConsumer) audit(msg string, base sharedEvents.IntegrationEvent, snap sharedEvents.TaskSnapshot) {
	c.log.Info(msg,
		zap.String("event_type", base.Type),
		zap.String("task_id", base.AggregateID),
		zap.String("user", snap.User),
		zap.String("state", snap.State),
		zap.String("priority", snap.Priority),
		zap.Time("event_time", base.Timestamp),
	)
}
