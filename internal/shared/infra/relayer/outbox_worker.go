package relayer

import (
	"context"
	"encoding/json"
	"reflect"
	"time"

	sharedDomain "github.com/davicafu/mstask/internal/shared/domain"
	sharedEvents "github.com/davicafu/mstask/internal/shared/events"
	sharedBus "github.com/davicafu/mstask/internal/shared/infra/platform/bus"
	"go.uber.org/zap"
)

// Worker procesa eventos pendientes del outbox de forma genérica.
type Worker struct {
	repo          sharedDomain.OutboxRepository
	publisher     sharedBus.EventPublisher
	eventRegistry map[string]sharedEvents.EventMetadata
	interval      time.Duration
	batchSize     int
	log           *zap.Logger
	done          chan struct{}
}

func NewOutboxWorker(
	repo sharedDomain.OutboxRepository,
	publisher sharedBus.EventPublisher,
	registry map[string]sharedEvents.EventMetadata,
	interval time.Duration,
	batchSize int,
	log *zap.Logger,
) *Worker {
	return &Worker{
		repo:          repo,
		publisher:     publisher,
		eventRegistry: registry,
		interval:      interval,
		batchSize:     batchSize,
		log:           log,
		done:          make(chan struct{}),
	}
}

// Start lanza el bucle de polling en una goroutine; para al cancelar ctx.
func (w *Worker) Start(ctx context.Context) {
	go w.run(ctx)
}

// Done se cierra cuando el bucle ha terminado.
func (w *Worker) Done() <-chan struct{} {
	return w.done
}

func (w *Worker) run(ctx context.Context) {
	defer close(w.done)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.log.Info("🚀 Outbox worker started", zap.Duration("interval", w.interval))

	for {
		select {
		case <-ctx.Done():
			w.log.Info("🛑 Outbox worker stopped")
			return
		case <-ticker.C:
			w.ProcessBatch(ctx)
		}
	}
}

// ProcessBatch publica un lote de eventos pendientes.
func (w *Worker) ProcessBatch(ctx context.Context) {
	events, err := w.repo.FetchPendingOutbox(ctx, w.batchSize)
	if err != nil {
		w.log.Warn("⚠️ Failed to fetch pending outbox events", zap.Error(err))
		return
	}
	if len(events) > 0 {
		w.log.Debug("📬 Outbox events to relay", zap.Int("count", len(events)))
	}

	for _, evt := range events {
		w.publishAndMark(ctx, evt)
	}
}

func (w *Worker) publishAndMark(ctx context.Context, evt sharedDomain.OutboxEvent) {
	metadata, ok := w.eventRegistry[evt.EventType]
	if !ok {
		// No se marca: si alguien registra el tipo más tarde, se publicará.
		w.log.Error("Unknown event type in registry", zap.String("event_type", evt.EventType))
		return
	}

	// El payload viene del store como mapa genérico; lo pasamos por el tipo
	// registrado para publicar siempre el mismo contrato.
	typed := reflect.New(metadata.Type).Interface()
	raw, err := json.Marshal(evt.Payload)
	if err == nil {
		err = json.Unmarshal(raw, typed)
	}
	if err != nil {
		w.log.Error("Failed to decode event payload", zap.String("event_id", evt.ID.String()), zap.Error(err))
		return
	}

	data, err := json.Marshal(typed)
	if err != nil {
		w.log.Error("Failed to encode event payload", zap.String("event_id", evt.ID.String()), zap.Error(err))
		return
	}

	integrationEvent := sharedEvents.IntegrationEvent{
		Type:        evt.EventType,
		AggregateID: evt.AggregateID,
		Timestamp:   evt.CreatedAt,
		Data:        data,
	}

	if err := w.publisher.Publish(ctx, integrationEvent); err != nil {
		w.log.Warn("⚠️ Could not publish event",
			zap.String("event_id", evt.ID.String()),
			zap.Error(err),
		)
		return // sin marcar, se reintenta en el siguiente ciclo
	}

	if err := w.repo.MarkOutboxProcessed(ctx, evt.ID); err != nil {
		w.log.Warn("⚠️ Could not mark event as processed",
			zap.String("event_id", evt.ID.String()),
			zap.Error(err),
		)
		return
	}
	w.log.Debug("✅ Event published and marked", zap.String("event_id", evt.ID.String()))
}
