package events

import (
	"context"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageHandler lo implementa cualquier consumidor de eventos.
type MessageHandler interface {
	HandleMessage(ctx context.Context, key string, payload []byte)
}

// ConsumerAdapter escucha un topic de Kafka y delega en el handler.
type ConsumerAdapter struct {
	reader  *kafka.Reader
	handler MessageHandler
	log     *zap.Logger
	done    chan struct{}
}

func NewConsumerAdapter(reader *kafka.Reader, handler MessageHandler, log *zap.Logger) *ConsumerAdapter {
	return &ConsumerAdapter{
		reader:  reader,
		handler: handler,
		log:     log,
		done:    make(chan struct{}),
	}
}

// Start lanza el bucle de consumo en una goroutine; termina al cancelar ctx.
func (c *ConsumerAdapter) Start(ctx context.Context) {
	c.log.Info("🎧 Starting Kafka consumer",
		zap.String("topic", c.reader.Config().Topic),
		zap.Strings("brokers", c.reader.Config().Brokers),
	)

	go func() {
		defer close(c.done)
		for {
			msg, err := c.reader.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					c.log.Info("Kafka consumer stopped", zap.String("topic", c.reader.Config().Topic))
					return
				}
				c.log.Error("Error reading Kafka message", zap.Error(err))
				continue
			}

			c.handler.HandleMessage(ctx, string(msg.Key), msg.Value)
		}
	}()
}

// Done se cierra cuando el bucle de consumo ha terminado.
func (c *ConsumerAdapter) Done() <-chan struct{} {
	return c.done
}

// ConsumeChannel hace lo mismo que ConsumerAdapter pero sobre un canal del bus en memoria.
func ConsumeChannel(ctx context.Context, ch <-chan []byte, handler MessageHandler) {
	go func() {
		for {
			select {
			case payload, ok := <-ch:
				if !ok {
					return
				}
				handler.HandleMessage(ctx, "", payload)
			case <-ctx.Done():
				return
			}
		}
	}()
}
