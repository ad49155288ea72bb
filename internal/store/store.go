// Package store keeps the answer key of the current quiz on the server side,
// keyed by the session token held in the browser cookie.
package store

import (
	"context"

	"revisionai/internal/models"
)

// AnswerStore holds one answer key per session. Put replaces any previous key
// for the session; Get returns an empty key for unknown sessions.
type AnswerStore interface {
	Get(ctx context.Context, sessionID string) (models.AnswerKey, error)
	Put(ctx context.Context, sessionID string, key models.AnswerKey) error
}

func cloneKey(key models.AnswerKey) models.AnswerKey {
	out := make(models.AnswerKey, len(key))
	for k, v := range key {
		out[k] = v
	}
	return out
}
