package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // Driver de PostgreSQL
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	config "github.com/davicafu/mstask/internal/config"
	sharedDomain "github.com/davicafu/mstask/internal/shared/domain"
	outboxMongo "github.com/davicafu/mstask/internal/shared/infra/platform/db/mongodb"
	outboxPostgres "github.com/davicafu/mstask/internal/shared/infra/platform/db/postgres"
	outboxSQLite "github.com/davicafu/mstask/internal/shared/infra/platform/db/sqlite"
	sharedUtils "github.com/davicafu/mstask/internal/shared/infra/utils"
	taskDomain "github.com/davicafu/mstask/internal/task/domain"
	taskMongo "github.com/davicafu/mstask/internal/task/infra/outbound/db/mongodb"
	taskPostgres "github.com/davicafu/mstask/internal/task/infra/outbound/db/postgre"
	taskSQLite "github.com/davicafu/mstask/internal/task/infra/outbound/db/sqlite"
)

// El store puede tardar en aceptar conexiones al arrancar (p.ej. el contenedor
// aún se está levantando). Solo se reintenta el ping inicial.
const (
	pingAttempts = 5
	pingDelay    = 2 * time.Second
)

// store agrupa el repositorio de tareas, el outbox y cómo cerrar la conexión.
type store struct {
	tasks  taskDomain.TaskRepository
	outbox sharedDomain.OutboxStore
	close  func(ctx context.Context) error
}

// openStore abre el store configurado en STORE_DRIVER y prepara su esquema.
func openStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (*store, error) {
	switch cfg.StoreDriver {
	case config.DriverMongo:
		return openMongo(ctx, cfg, log)
	case config.DriverPostgres:
		return openSQL(ctx, "pgx", cfg.DatabaseURL, log, func(db *sql.DB) (*store, error) {
			if err := taskPostgres.InitPostgresTaskSchema(ctx, db); err != nil {
				return nil, err
			}
			if err := outboxPostgres.InitOutboxSchema(ctx, db); err != nil {
				return nil, err
			}
			return &store{tasks: taskPostgres.NewTaskRepoPostgres(db), outbox: outboxPostgres.NewOutboxRepoPostgres(db)}, nil
		})
	case config.DriverSQLite:
		return openSQL(ctx, "sqlite", cfg.SQLitePath, log, func(db *sql.DB) (*store, error) {
			// SQLite solo admite un escritor
			db.SetMaxOpenConns(1)
			if err := taskSQLite.InitSQLiteTaskSchema(ctx, db); err != nil {
				return nil, err
			}
			if err := outboxSQLite.InitOutboxSchema(ctx, db); err != nil {
				return nil, err
			}
			return &store{tasks: taskSQLite.NewTaskRepoSQLite(db), outbox: outboxSQLite.NewOutboxRepoSQLite(db)}, nil
		})
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}
}

func openMongo(ctx context.Context, cfg *config.Config, log *zap.Logger) (*store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("could not connect to mongoDB: %w", err)
	}
	err = sharedUtils.Retry(ctx, pingAttempts, pingDelay, nil, func() error {
		return client.Ping(ctx, readpref.Primary())
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("could not ping mongoDB: %w", err)
	}

	db := client.Database(cfg.MongoDB)
	tasks := taskMongo.NewTaskRepoMongoDB(db)
	outbox := outboxMongo.NewOutboxRepoMongoDB(db)
	if err := tasks.EnsureIndexes(ctx); err != nil {
		log.Warn("⚠️ Could not create task indexes", zap.Error(err))
	}
	if err := outbox.EnsureIndexes(ctx); err != nil {
		log.Warn("⚠️ Could not create outbox indexes", zap.Error(err))
	}

	log.Info("✅ Connected to MongoDB", zap.String("database", cfg.MongoDB))
	return &store{tasks: tasks, outbox: outbox, close: client.Disconnect}, nil
}

func openSQL(ctx context.Context, driver, dsn string, log *zap.Logger, build func(*sql.DB) (*store, error)) (*store, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", driver, err)
	}
	err = sharedUtils.Retry(ctx, pingAttempts, pingDelay, nil, func() error {
		return db.PingContext(ctx)
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping %s: %w", driver, err)
	}

	s, err := build(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	s.close = func(context.Context) error { return db.Close() }

	log.Info("✅ Connected to SQL store", zap.String("driver", driver))
	return s, nil
}
