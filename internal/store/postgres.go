package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"revisionai/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const createAnswerKeysTable = `
CREATE TABLE IF NOT EXISTS answer_keys (
	session_id TEXT PRIMARY KEY,
	answers    JSONB NOT NULL,
	expires_at TIMESTAMPTZ NOT NULL
)`

const upsertAnswerKey = `
INSERT INTO answer_keys (session_id, answers, expires_at)
VALUES ($1, $2, $3)
ON CONFLICT (session_id) DO UPDATE
SET answers = EXCLUDED.answers, expires_at = EXCLUDED.expires_at`

const selectAnswerKey = `
SELECT answers FROM answer_keys
WHERE session_id = $1 AND expires_at > now()`

// pgQuerier is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type pgQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore keeps answer keys in the answer_keys table.
type PostgresStore struct {
	db  pgQuerier
	ttl time.Duration
}

func NewPostgresStore(db pgQuerier, ttl time.Duration) *PostgresStore {
	return &PostgresStore{db: db, ttl: ttl}
}

// EnsureSchema creates the answer_keys table if it does not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, createAnswerKeysTable); err != nil {
		return fmt.Errorf("create answer_keys table: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, sessionID string) (models.AnswerKey, error) {
	var raw []byte
	err := s.db.QueryRow(ctx, selectAnswerKey, sessionID).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.AnswerKey{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select answers: %w", err)
	}

	key := models.AnswerKey{}
	if err := json.Unmarshal(raw, &key); err != nil {
		return nil, fmt.Errorf("decode answers for session: %w", err)
	}
	return key, nil
}

func (s *PostgresStore) Put(ctx context.Context, sessionID string, key models.AnswerKey) error {
	if key == nil {
		key = models.AnswerKey{}
	}
	payload, err := json.Marshal(key)
	if err != nil {
		return fmt.Errorf("encode answers: %w", err)
	}
	if _, err := s.db.Exec(ctx, upsertAnswerKey, sessionID, payload, time.Now().Add(s.ttl)); err != nil {
		return fmt.Errorf("upsert answers: %w", err)
	}
	return nil
}
