package handlers

import (
	"fmt"
	"io"
	"net/http"

	"revisionai/internal/models"
	"revisionai/internal/quiz"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// maxSubmissionBytes bounds a quiz submission body.
const maxSubmissionBytes = 1 << 20

// HandleCheckQuiz grades the submitted q<N> fields against the answer key of
// the current session. Without a stored key every answer is graded against
// "N/A".
func (h *Handler) HandleCheckQuiz(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxSubmissionBytes)

	submissions, err := h.readSubmissions(c)
	if err != nil {
		status := http.StatusBadRequest
		if isTooLarge(err) {
			status = http.StatusRequestEntityTooLarge
		}
		h.handleError(c, status, "Failed to read quiz submission", err)
		return
	}

	key, err := h.answersFor(c)
	if err != nil {
		h.handleError(c, http.StatusInternalServerError, "Failed to load answers", err)
		return
	}

	correction := quiz.Grade(key, submissions)

	correct := 0
	for _, entry := range correction {
		if entry.IsCorrect {
			correct++
		}
	}
	h.Logger.Info("quiz graded",
		zap.Int("submitted", len(correction)),
		zap.Int("correct", correct),
		zap.Bool("has_answers", len(key) > 0),
	)

	c.JSON(http.StatusOK, models.CorrectionResponse{Correction: correction})
}

// readSubmissions keeps the wire order of url-encoded bodies. Multipart bodies
// are ordered by question number.
func (h *Handler) readSubmissions(c *gin.Context) ([]quiz.Submission, error) {
	if c.ContentType() == gin.MIMEMultipartPOSTForm {
		form, err := c.MultipartForm()
		if err != nil {
			return nil, fmt.Errorf("parse multipart form: %w", err)
		}
		return quiz.SubmissionsFromValues(form.Value), nil
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	submissions, err := quiz.ParseSubmissions(string(body))
	if err != nil {
		return nil, fmt.Errorf("malformed form body: %w", err)
	}
	return submissions, nil
}
