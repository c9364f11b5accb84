package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	sharedEvents "github.com/davicafu/mstask/internal/shared/events"
	sharedInfraEvents "github.com/davicafu/mstask/internal/shared/infra/events"
	taskDomain "github.com/davicafu/mstask/internal/task/domain"
)

func message(t *testing.T, eventType string, data interface{}) []byte {
	t.Helper()
	raw, err := json.Marshal(data)
	require.NoError(t, err)
	payload, err := json.Marshal(sharedEvents.IntegrationEvent{
		Type:        eventType,
		AggregateID: "t-1",
		Timestamp:   time.Now().UTC(),
		Data:        raw,
	})
	require.NoError(t, err)
	return payload
}

func TestHandleMessage_LogsEachKnownEvent(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	consumer := NewTaskAuditConsumer(zap.New(core))
	snap := sharedEvents.TaskSnapshot{ID: "t-1", User: "u1", State: "pending", Priority: "high"}

	consumer.HandleMessage(context.Background(), "t-1", message(t, taskDomain.TaskCreated, sharedEvents.TaskCreated{TaskSnapshot: snap}))
	consumer.HandleMessage(context.Background(), "t-1", message(t, taskDomain.TaskUpdated, sharedEvents.TaskUpdated{TaskSnapshot: snap}))
	consumer.HandleMessage(context.Background(), "t-1", message(t, taskDomain.TaskDeleted, sharedEvents.TaskDeleted{TaskSnapshot: snap}))

	entries := logs.All()
	require.Len(t, entries, 3)
	for _, e := range entries {
		fields := e.ContextMap()
		assert.Equal(t, "t-1", fields["task_id"])
		assert.Equal(t, "u1", fields["user"])
	}
	assert.Equal(t, taskDomain.TaskDeleted, entries[2].ContextMap()["event_type"])
}

func TestHandleMessage_IgnoresGarbage(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	consumer := NewTaskAuditConsumer(zap.New(core))

	consumer.HandleMessage(context.Background(), "k", []byte("not json"))
	consumer.HandleMessage(context.Background(), "k", message(t, "user.created", map[string]string{}))

	assert.Equal(t, 2, logs.FilterLevelExact(zap.WarnLevel).Len())
}

func TestConsumeChannel_FromInMemoryBus(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	consumer := NewTaskAuditConsumer(zap.New(core))

	bus := sharedInfraEvents.NewInMemoryEventBus(taskDomain.TaskTopic)
	defer bus.Close()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sharedInfraEvents.ConsumeChannel(ctx, bus.Subscribe(4), consumer)

	raw, _ := json.Marshal(sharedEvents.TaskCreated{TaskSnapshot: sharedEvents.TaskSnapshot{ID: "t-1", User: "u1"}})
	require.NoError(t, bus.Publish(ctx, sharedEvents.IntegrationEvent{
		Type:        taskDomain.TaskCreated,
		AggregateID: "t-1",
		Timestamp:   time.Now().UTC(),
		Data:        raw,
	}))

	assert.Eventually(t, func() bool {
		return logs.FilterField(zap.String("task_id", "t-1")).Len() == 1
	}, time.Second, 10*time.Millisecond)
}
