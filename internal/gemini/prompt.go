package gemini

import (
	"fmt"
	"strings"
)

const (
	// QuestionCount is the number of quiz questions requested per document.
	QuestionCount = 10
	// MinReviewSheets is the minimum number of review sheets requested.
	MinReviewSheets = 3
)

// buildPrompt assembles the generation instruction. An empty subject keeps the
// prompt generic.
func buildPrompt(text, subject string) string {
	subject = strings.TrimSpace(subject)

	var sb strings.Builder
	if subject != "" {
		sb.WriteString(fmt.Sprintf("You are an expert in %s and a teaching assistant. ", subject))
	} else {
		sb.WriteString("You are a teaching assistant. ")
	}
	sb.WriteString("Your task is to create revision material from the document below.\n\n")

	sb.WriteString("INSTRUCTIONS:\n")
	sb.WriteString(fmt.Sprintf("1. Write at least %d review sheets (review_sheets) covering the key points of the document. ", MinReviewSheets))
	sb.WriteString("Each sheet has a short title and between 5 and 7 key points.")
	if subject != "" {
		sb.WriteString(fmt.Sprintf(" Titles and points must be framed for the subject '%s'.", subject))
	}
	sb.WriteString("\n")

	sb.WriteString(fmt.Sprintf("2. Write exactly %d single-answer multiple-choice questions (quiz)", QuestionCount))
	if subject != "" {
		sb.WriteString(fmt.Sprintf(" about %s and this document", subject))
	} else {
		sb.WriteString(" about this document")
	}
	sb.WriteString(". Each question has 3 or 4 options and exactly one correct answer.\n")
	sb.WriteString("3. correct_answer must repeat the text of the correct option exactly, character for character.\n")
	sb.WriteString("4. Write in the language of the document.\n\n")

	sb.WriteString("Respond ONLY with a JSON object of this shape:\n")
	sb.WriteString(`{"review_sheets": [{"title": "...", "points": ["...", "..."]}], "quiz": [{"question": "...", "options": ["...", "...", "..."], "correct_answer": "..."}]}`)
	sb.WriteString("\n\nDOCUMENT:\n---\n")
	sb.WriteString(text)
	sb.WriteString("\n---\n")

	return sb.String()
}
