package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"revisionai/internal/gemini"
	"revisionai/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteGeneration_PrintsFallbackOnFailure(t *testing.T) {
	var buf bytes.Buffer
	genErr := &gemini.GenerationError{Stage: "configuration", Err: gemini.ErrNotConfigured}

	err := writeGeneration(json.NewEncoder(&buf), func() (*models.GenerationResult, error) {
		return gemini.Fallback(gemini.ErrNotConfigured), genErr
	})

	assert.ErrorIs(t, err, gemini.ErrNotConfigured)
	var printed models.GenerationResult
	require.NoError(t, json.Unmarshal(buf.Bytes(), &printed))
	require.Len(t, printed.ReviewSheets, 1)
	assert.Equal(t, "Generation unavailable", printed.ReviewSheets[0].Title)
	assert.Empty(t, printed.Quiz)
}

func TestWriteGeneration_Success(t *testing.T) {
	var buf bytes.Buffer
	result := &models.GenerationResult{
		ReviewSheets: []models.ReviewSheet{{Title: "Causes", Points: []string{"Debt"}}},
		Quiz:         []models.QuizItem{{Question: "When?", Options: []string{"1789", "1776", "1815"}, CorrectAnswer: "1789"}},
	}

	err := writeGeneration(json.NewEncoder(&buf), func() (*models.GenerationResult, error) {
		return result, nil
	})

	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"correct_answer":"1789"`)
}

func TestWriteGeneration_NoResult(t *testing.T) {
	var buf bytes.Buffer

	err := writeGeneration(json.NewEncoder(&buf), func() (*models.GenerationResult, error) {
		return nil, errors.New("boom")
	})

	assert.EqualError(t, err, "boom")
	assert.Empty(t, buf.String())
}
