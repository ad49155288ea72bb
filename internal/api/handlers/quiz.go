package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"slices"
	"strings"
	"time"

	"revisionai/internal/models"
	"revisionai/internal/quiz"
	"revisionai/internal/web"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HandleIndex renders the upload form. It never touches the session.
func (h *Handler) HandleIndex(c *gin.Context) {
	h.renderPage(c, h.newPage(c))
}

// HandleGenerate handles a document upload: extract its text, generate review
// sheets and a quiz, keep the answers on the server and render the quiz
// without them.
func (h *Handler) HandleGenerate(c *gin.Context) {
	startTime := time.Now()
	ctx := c.Request.Context()
	page := h.newPage(c)
	loc := page.L

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.Upload.MaxBytes)

	// 1. Validate the upload. Anything but an oversized body goes back to the form.
	fileHeader, err := c.FormFile("file")
	if err != nil {
		if isTooLarge(err) {
			h.Logger.Warn("upload rejected: body too large", zap.Int64("limit", h.Upload.MaxBytes))
			h.renderError(c, http.StatusRequestEntityTooLarge, page,
				loc.Td("error_file_too_large", map[string]any{"Limit": formatBytes(h.Upload.MaxBytes)}))
			return
		}
		h.Logger.Debug("upload rejected: no file part", zap.Error(err))
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	if fileHeader.Filename == "" || !allowedFile(fileHeader.Filename, h.Upload.AllowedExtensions) {
		h.Logger.Debug("upload rejected: file type not allowed", zap.String("filename", fileHeader.Filename))
		c.Redirect(http.StatusSeeOther, "/")
		return
	}

	subject := strings.TrimSpace(c.PostForm("subject"))
	page.Subject = subject
	if h.Upload.RequireSubject && subject == "" {
		h.renderError(c, http.StatusUnprocessableEntity, page, loc.T("error_subject_required"))
		return
	}

	h.Logger.Info("processing upload",
		zap.String("filename", fileHeader.Filename),
		zap.Int64("size", fileHeader.Size),
		zap.String("subject", subject),
	)

	// 2. Extract and generate. The session is only written once both succeed.
	data, err := readUpload(fileHeader)
	if err != nil {
		h.processingFailed(c, page, "read upload", err)
		return
	}

	text, err := h.Extractor.Extract(ctx, data)
	if err != nil {
		h.processingFailed(c, page, "extract text", err)
		return
	}

	result, err := h.Generator.Generate(ctx, text, subject)
	if err != nil {
		// The fallback sheet explains the failure; its empty quiz is not stored.
		page.Results = displayResult(result)
		h.processingFailed(c, page, "generate study material", err)
		return
	}

	// 3. Replace the session's answer key.
	sid, err := h.sessionID(c, true)
	if err != nil {
		h.processingFailed(c, page, "create session", err)
		return
	}
	if err := h.Answers.Put(ctx, sid, quiz.BuildAnswerKey(result.Quiz)); err != nil {
		h.processingFailed(c, page, "store answers", err)
		return
	}

	// 4. Render without the answers.
	page.Results = displayResult(result)

	h.Logger.Info("study material ready",
		zap.Int("review_sheets", len(result.ReviewSheets)),
		zap.Int("questions", len(result.Quiz)),
		zap.Int("text_chars", len([]rune(text))),
		zap.Duration("elapsed", time.Since(startTime)),
	)
	h.renderPage(c, page)
}

// processingFailed reports an extraction or generation failure inline, with
// the error text, and leaves the session untouched.
func (h *Handler) processingFailed(c *gin.Context, page web.Page, stage string, err error) {
	h.Logger.Error("failed to process upload", zap.String("stage", stage), zap.Error(err))
	_ = c.Error(err)

	status := http.StatusInternalServerError
	if isTooLarge(err) {
		status = http.StatusRequestEntityTooLarge
	}
	h.renderError(c, status, page, page.L.Td("error_processing", map[string]any{"Error": err.Error()}))
}

// displayResult strips the answers from a generation result. A nil result
// gives nil.
func displayResult(result *models.GenerationResult) *models.DisplayResult {
	if result == nil {
		return nil
	}
	return &models.DisplayResult{
		ReviewSheets: result.ReviewSheets,
		Quiz:         quiz.Sanitize(result.Quiz),
	}
}

func readUpload(fileHeader *multipart.FileHeader) ([]byte, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file %s: %w", fileHeader.Filename, err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read uploaded file %s: %w", fileHeader.Filename, err)
	}
	if len(data) == 0 {
		return nil, errors.New("uploaded file is empty")
	}
	return data, nil
}

// allowedFile checks the extension after the last dot, case-insensitively.
func allowedFile(filename string, allowed []string) bool {
	idx := strings.LastIndex(filename, ".")
	if idx < 0 {
		return false
	}
	return slices.Contains(allowed, strings.ToLower(filename[idx+1:]))
}

func formatBytes(n int64) string {
	const unit = 1 << 20
	if n >= unit && n%unit == 0 {
		return fmt.Sprintf("%d MB", n/unit)
	}
	return fmt.Sprintf("%d bytes", n)
}
