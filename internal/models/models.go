package models

// QuizItem is a multiple-choice question as produced by the generator.
// CorrectAnswer is always one of Options.
type QuizItem struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
}

// ReviewSheet is a titled list of key points summarizing part of a document.
type ReviewSheet struct {
	Title  string   `json:"title"`
	Points []string `json:"points"`
}

// GenerationResult is the structured payload returned by the generator.
type GenerationResult struct {
	ReviewSheets []ReviewSheet `json:"review_sheets"`
	Quiz         []QuizItem    `json:"quiz"`
}

// SanitizedQuizItem is the only quiz representation sent to the browser
// before grading. It has no field for the correct answer.
type SanitizedQuizItem struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

// DisplayResult is what the results page renders.
type DisplayResult struct {
	ReviewSheets []ReviewSheet       `json:"review_sheets"`
	Quiz         []SanitizedQuizItem `json:"quiz"`
}

// AnswerKey maps a 1-based question number ("1", "2", ...) to its correct answer.
type AnswerKey map[string]string

// CorrectionEntry is the grading outcome for a single submitted question.
type CorrectionEntry struct {
	QNum          string `json:"q_num"`
	UserAnswer    string `json:"user_answer"`
	CorrectAnswer string `json:"correct_answer"`
	IsCorrect     bool   `json:"is_correct"`
}

// CorrectionResponse is the body returned by the quiz checking endpoint.
type CorrectionResponse struct {
	Correction []CorrectionEntry `json:"correction"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}
