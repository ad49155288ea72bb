// Package quiz holds the pure parts of the quiz workflow: building the answer
// key kept on the server, stripping answers before rendering, and grading.
package quiz

import (
	"strconv"
	"strings"

	"revisionai/internal/models"
)

const (
	// FieldPrefix marks form fields that carry a quiz answer (q1, q2, ...).
	FieldPrefix = "q"
	// NotAvailable is reported as the correct answer when the key has no entry.
	NotAvailable = "N/A"
)

// Submission is one submitted form field, kept in submission order.
type Submission struct {
	Field string
	Value string
}

// BuildAnswerKey indexes the quiz from 1 in generation order.
func BuildAnswerKey(items []models.QuizItem) models.AnswerKey {
	key := make(models.AnswerKey, len(items))
	for i, item := range items {
		key[strconv.Itoa(i+1)] = item.CorrectAnswer
	}
	return key
}

// Sanitize drops the correct answer from every item, preserving order.
func Sanitize(items []models.QuizItem) []models.SanitizedQuizItem {
	clean := make([]models.SanitizedQuizItem, 0, len(items))
	for _, item := range items {
		clean = append(clean, models.SanitizedQuizItem{
			Question: item.Question,
			Options:  item.Options,
		})
	}
	return clean
}

// Grade compares each submitted q<N> field with the key. Fields without the
// prefix are ignored. Comparison is exact: case-sensitive and untrimmed. A
// question missing from the key is never correct, even if the user sent "N/A".
func Grade(key models.AnswerKey, submissions []Submission) []models.CorrectionEntry {
	correction := make([]models.CorrectionEntry, 0, len(submissions))
	for _, sub := range submissions {
		if !strings.HasPrefix(sub.Field, FieldPrefix) {
			continue
		}
		num := strings.TrimPrefix(sub.Field, FieldPrefix)

		correct, ok := key[num]
		if !ok {
			correct = NotAvailable
		}

		correction = append(correction, models.CorrectionEntry{
			QNum:          num,
			UserAnswer:    sub.Value,
			CorrectAnswer: correct,
			IsCorrect:     ok && sub.Value == correct,
		})
	}
	return correction
}
