package db

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestPool connects to DATABASE_URL and skips when no server is available.
func newTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	url := os.Getenv("DATABASE_URL")
	if url == "" {
		t.Skip("DATABASE_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, url)
	require.NoError(t, err)
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		t.Skipf("postgres unavailable: %v", err)
	}
	t.Cleanup(pool.Close)

	require.NoError(t, Migrate(ctx, pool))
	return pool
}

func TestSchemaIsEmbedded(t *testing.T) {
	assert.Contains(t, schema, "CREATE TABLE IF NOT EXISTS wizard_configs")
}

func TestUpsertAndGetConfig(t *testing.T) {
	pool := newTestPool(t)
	q := New(pool)
	ctx := context.Background()

	sessionID := uuid.NewString()
	first, err := q.UpsertConfig(ctx, UpsertConfigParams{
		ID:         pgtype.UUID{Bytes: uuid.New(), Valid: true},
		SessionID:  sessionID,
		Document:   []byte(`{"probes":[{"id":"p1"}],"notifications":[]}`),
		ProbeCount: 1,
	})
	require.NoError(t, err)

	second, err := q.UpsertConfig(ctx, UpsertConfigParams{
		ID:                pgtype.UUID{Bytes: uuid.New(), Valid: true},
		SessionID:         sessionID,
		Document:          []byte(`{"probes":[{"id":"p2"}],"notifications":[]}`),
		ProbeCount:        1,
		NotificationCount: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID, "one stored config per session")
	assert.EqualValues(t, 2, second.NotificationCount)

	got, err := q.GetConfig(ctx, first.ID)
	require.NoError(t, err)
	assert.JSONEq(t, `{"probes":[{"id":"p2"}],"notifications":[]}`, string(got.Document))

	_, err = q.GetConfig(ctx, pgtype.UUID{Bytes: uuid.New(), Valid: true})
	assert.ErrorIs(t, err, pgx.ErrNoRows)
}
