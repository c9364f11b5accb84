// en internal/shared/infra/platform/db/sqlite/outbox_repo.go
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	sharedDomain "github.com/davicafu/mstask/internal/shared/domain"
)

// OutboxRepoSQLite implementa la interfaz sharedDomain.OutboxStore.
// Las fechas se guardan como nanosegundos unix para que ORDER BY sea exacto.
type OutboxRepoSQLite struct {
	db *sql.DB
}

func NewOutboxRepoSQLite(db *sql.DB) *OutboxRepoSQLite {
	return &OutboxRepoSQLite{db: db}
}

// InitOutboxSchema crea la tabla outbox si no existe.
func InitOutboxSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
    CREATE TABLE IF NOT EXISTS outbox (
        id TEXT PRIMARY KEY,
        aggregate_type TEXT NOT NULL,
        aggregate_id TEXT NOT NULL,
        event_type TEXT NOT NULL,
        payload TEXT NOT NULL,
        created_at INTEGER NOT NULL,
        processed INTEGER NOT NULL DEFAULT 0
    )`)
	if err != nil {
		return fmt.Errorf("failed to create outbox table: %w", err)
	}
	return nil
}

func (r *OutboxRepoSQLite) Append(ctx context.Context, evt sharedDomain.OutboxEvent) error {
	payload, err := json.Marshal(evt.Payload)
	if err != nil {
		return fmt.Errorf("failed to marshal outbox payload: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO outbox (id, aggregate_type, aggregate_id, event_type, payload, created_at, processed)
		 VALUES (?, ?, ?, ?, ?, ?, 0)`,
		evt.ID.String(), evt.AggregateType, evt.AggregateID, evt.EventType, string(payload), evt.CreatedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert outbox event: %w", err)
	}
	return nil
}

// FetchPendingOutbox obtiene los eventos no procesados de la tabla outbox para SQLite.
func (r *OutboxRepoSQLite) FetchPendingOutbox(ctx context.Context, limit int) ([]sharedDomain.OutboxEvent, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, aggregate_type, aggregate_id, event_type, payload, created_at
         FROM outbox
         WHERE processed = 0
         ORDER BY created_at, rowid
         LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []sharedDomain.OutboxEvent
	for rows.Next() {
		var evt sharedDomain.OutboxEvent
		var idStr, payloadStr string // El ID y el payload se leen como TEXT
		var createdAt int64

		if err := rows.Scan(&idStr, &evt.AggregateType, &evt.AggregateID, &evt.EventType, &payloadStr, &createdAt); err != nil {
			return nil, err
		}

		evt.ID, err = uuid.Parse(idStr)
		if err != nil {
			return nil, fmt.Errorf("invalid UUID in outbox row: %w", err)
		}
		if !json.Valid([]byte(payloadStr)) {
			return nil, fmt.Errorf("invalid JSON payload in outbox row %s", idStr)
		}
		evt.Payload = json.RawMessage(payloadStr)
		evt.CreatedAt = time.Unix(0, createdAt).UTC()

		events = append(events, evt)
	}

	return events, rows.Err()
}

// MarkOutboxProcessed marca un evento como procesado para SQLite.
func (r *OutboxRepoSQLite) MarkOutboxProcessed(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `UPDATE outbox SET processed = 1 WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get RowsAffected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("outbox event not found: %s", id)
	}
	return nil
}

// Verificación en tiempo de compilación.
var _ sharedDomain.OutboxStore = (*OutboxRepoSQLite)(nil)
