package store

import (
	"context"
	"os"
	"testing"
	"time"

	"revisionai/internal/db"
	"revisionai/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Runs only against a real database: TEST_DATABASE_URL=postgres://...
func TestPostgresStore_RoundTrip(t *testing.T) {
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()

	conn, err := db.NewDB(ctx, dbURL)
	require.NoError(t, err)
	defer conn.Close()

	s := NewPostgresStore(conn.Pool, time.Hour)
	require.NoError(t, s.EnsureSchema(ctx))

	sid := uuid.NewString()

	empty, err := s.Get(ctx, sid)
	require.NoError(t, err)
	assert.Empty(t, empty)

	require.NoError(t, s.Put(ctx, sid, models.AnswerKey{"1": "Paris", "2": "London"}))
	require.NoError(t, s.Put(ctx, sid, models.AnswerKey{"1": "1789"}))

	key, err := s.Get(ctx, sid)
	require.NoError(t, err)
	assert.Equal(t, models.AnswerKey{"1": "1789"}, key)
}

func TestPostgresStore_ExpiredKeyIsAbsent(t *testing.T) {
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()

	conn, err := db.NewDB(ctx, dbURL)
	require.NoError(t, err)
	defer conn.Close()

	s := NewPostgresStore(conn.Pool, -time.Minute)
	require.NoError(t, s.EnsureSchema(ctx))

	sid := uuid.NewString()
	require.NoError(t, s.Put(ctx, sid, models.AnswerKey{"1": "Paris"}))

	key, err := s.Get(ctx, sid)
	require.NoError(t, err)
	assert.Empty(t, key)
}
