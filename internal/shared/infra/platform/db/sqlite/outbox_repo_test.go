package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	sharedDomain "github.com/davicafu/mstask/internal/shared/domain"
)

func newOutbox(t *testing.T) *OutboxRepoSQLite {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	// cada conexión a :memory: es una base distinta
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, InitOutboxSchema(context.Background(), db))
	return NewOutboxRepoSQLite(db)
}

func TestOutboxRepoSQLite_AppendFetchMark(t *testing.T) {
	repo := newOutbox(t)
	ctx := context.Background()

	first := sharedDomain.NewOutboxEvent("task", "t-1", "task.created", map[string]string{"id": "t-1"})
	second := sharedDomain.NewOutboxEvent("task", "t-1", "task.updated", map[string]string{"id": "t-1"})
	second.CreatedAt = first.CreatedAt.Add(time.Millisecond)
	require.NoError(t, repo.Append(ctx, first))
	require.NoError(t, repo.Append(ctx, second))

	pending, err := repo.FetchPendingOutbox(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, first.ID, pending[0].ID)
	assert.Equal(t, "task.updated", pending[1].EventType)
	assert.True(t, first.CreatedAt.Equal(pending[0].CreatedAt))

	raw, ok := pending[0].Payload.(json.RawMessage)
	require.True(t, ok)
	assert.JSONEq(t, `{"id":"t-1"}`, string(raw))

	require.NoError(t, repo.MarkOutboxProcessed(ctx, first.ID))
	pending, err = repo.FetchPendingOutbox(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, second.ID, pending[0].ID)

	limited, err := repo.FetchPendingOutbox(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, limited)
}

func TestOutboxRepoSQLite_MarkUnknown(t *testing.T) {
	repo := newOutbox(t)

	err := repo.MarkOutboxProcessed(context.Background(), uuid.New())
	assert.Error(t, err)
}
