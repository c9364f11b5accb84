package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/davicafu/mstask/internal/auth/infra/outbound/msauth"
	config "github.com/davicafu/mstask/internal/config"
	sharedCache "github.com/davicafu/mstask/internal/shared/infra/cache"
	infraEvents "github.com/davicafu/mstask/internal/shared/infra/events"
	sharedBus "github.com/davicafu/mstask/internal/shared/infra/platform/bus"
	platformCache "github.com/davicafu/mstask/internal/shared/infra/platform/cache"
	infraRelayer "github.com/davicafu/mstask/internal/shared/infra/relayer"
	taskApp "github.com/davicafu/mstask/internal/task/application"
	taskDomain "github.com/davicafu/mstask/internal/task/domain"
	taskEvents "github.com/davicafu/mstask/internal/task/infra/inbound/events"
	"github.com/davicafu/mstask/pkg/logger"
)

// ---------------- Main ----------------
func main() {
	cfg := config.LoadConfig()

	logger.Init(cfg.LogLevel) // inicializa zap
	log := logger.Logger()
	defer log.Sync() // flush buffers al salir

	gin.SetMode(gin.ReleaseMode)

	// Contexto raíz de los procesos en segundo plano; se cancela al apagar.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---------------- Store ----------------
	startCtx, startCancel := context.WithTimeout(ctx, 30*time.Second)
	st, err := openStore(startCtx, cfg, log)
	startCancel()
	if err != nil {
		log.Fatal("failed to open store", zap.String("driver", cfg.StoreDriver), zap.Error(err))
	}

	// ---------------- Cache ----------------
	var cacheInstance platformCache.Cache
	closeCache := func() error { return nil }
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	pingCtx, pingCancel := context.WithTimeout(ctx, 2*time.Second)
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		if cfg.CacheMemoryFallback {
			// Solo con una instancia: las invalidaciones no cruzan procesos.
			log.Warn("⚠️ Redis no disponible, cache en memoria", zap.Error(err))
			mem := sharedCache.NewInMemoryCache(cfg.CacheTTL, 3*cfg.CacheTTL)
			cacheInstance = mem
			closeCache = func() error { mem.Stop(); return nil }
		} else {
			log.Warn("⚠️ Redis no disponible, cache deshabilitada", zap.Error(err))
		}
	} else {
		redisCache := sharedCache.NewRedisCache(rdb, cfg.CacheTTL)
		cacheInstance = redisCache
		closeCache = redisCache.Close
		log.Info("✅ Redis conectado, cache habilitado")
	}
	pingCancel()

	// --------------- Servicio --------------
	taskService := taskApp.NewTaskService(st.tasks, cacheInstance, st.outbox, log)
	validator := msauth.NewValidator(cfg.AuthValidateURL, cfg.AuthTimeout, nil)

	// ---------------- Events ---------------
	var publisher sharedBus.EventPublisher
	var waitConsumer <-chan struct{}
	var closers []func() error
	auditConsumer := taskEvents.NewTaskAuditConsumer(log)

	if cfg.UseKafka {
		log.Info("🚀 Usando Kafka como bus de eventos", zap.Strings("brokers", cfg.KafkaBrokers))

		writer := &kafka.Writer{
			Addr:     kafka.TCP(cfg.KafkaBrokers...),
			Topic:    taskDomain.TaskTopic,
			Balancer: &kafka.Hash{}, // misma tarea, misma partición
		}
		reader := kafka.NewReader(kafka.ReaderConfig{
			Brokers:  cfg.KafkaBrokers,
			Topic:    taskDomain.TaskTopic,
			GroupID:  cfg.KafkaGroupID,
			MinBytes: 10e3, // 10KB
			MaxBytes: 10e6, // 10MB
		})
		closers = append(closers, writer.Close, reader.Close)

		publisher = infraEvents.NewKafkaPublisher(writer, log)
		consumer := infraEvents.NewConsumerAdapter(reader, auditConsumer, log)
		consumer.Start(ctx)
		waitConsumer = consumer.Done()
	} else {
		log.Info("⚡️ Usando bus de eventos en memoria (canales de Go)")

		bus := infraEvents.NewInMemoryEventBus(taskDomain.TaskTopic)
		closers = append(closers, bus.Close)
		publisher = bus

		log.Info("🎧 Iniciando listener en memoria para eventos de tarea")
		infraEvents.ConsumeChannel(ctx, bus.Subscribe(64), auditConsumer)
	}

	// ------------ Outbox Worker ------------
	worker := infraRelayer.NewOutboxWorker(st.outbox, publisher, taskDomain.NewEventRegistry(), cfg.OutboxPeriod, cfg.OutboxLimit, log)
	worker.Start(ctx)

	// ---------------- HTTP ----------------
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           newRouter(cfg.Port, cfg.CORSOrigin, taskService, validator, log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("🌐 HTTP server listening", zap.String("port", cfg.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// ------------ Graceful shutdown ------------
	// Una sola operación para respetar el orden: primero dejar de aceptar
	// peticiones, luego parar los procesos de fondo y por último cerrar conexiones.
	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		cfg.ShutdownTimeout,
		map[string]gfshutdown.Operation{
			"ms-task": func(shutdownCtx context.Context) error {
				log.Info("🛑 Graceful shutdown initiated")

				errs := []error{server.Shutdown(shutdownCtx)}

				cancel()
				waitFor(shutdownCtx, worker.Done())
				if waitConsumer != nil {
					waitFor(shutdownCtx, waitConsumer)
				}

				for _, closeFn := range closers {
					errs = append(errs, closeFn())
				}
				errs = append(errs, closeCache(), st.close(shutdownCtx))
				return errors.Join(errs...)
			},
		},
	)

	exitCode := <-wait
	log.Info("Application exited", zap.Int("code", exitCode))
	_ = log.Sync()
	os.Exit(exitCode)
}

func waitFor(ctx context.Context, done <-chan struct{}) {
	select {
	case <-done:
	case <-ctx.Done():
	}
}
