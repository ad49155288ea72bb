package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"revisionai/internal/config"
	"revisionai/internal/i18n"
	"revisionai/internal/models"
	"revisionai/internal/store"
	"revisionai/internal/web"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SessionIDKey is the only value kept in the session cookie. Answers stay on
// the server, keyed by it.
const SessionIDKey = "sid"

// Extractor turns an uploaded document into plain text.
type Extractor interface {
	Extract(ctx context.Context, data []byte) (string, error)
}

// Generator produces review sheets and a quiz from extracted text. On failure
// it returns a fallback result together with a non-nil error.
type Generator interface {
	Generate(ctx context.Context, text, subject string) (*models.GenerationResult, error)
	Ready() bool
}

// Handler contains the HTTP handlers dependencies
type Handler struct {
	Extractor  Extractor
	Generator  Generator
	Answers    store.AnswerStore
	Translator *i18n.Translator
	Upload     config.UploadConfig
	Logger     *zap.Logger
}

// NewHandler creates a new Handler
func NewHandler(extractor Extractor, generator Generator, answers store.AnswerStore, translator *i18n.Translator, upload config.UploadConfig, logger *zap.Logger) *Handler {
	return &Handler{
		Extractor:  extractor,
		Generator:  generator,
		Answers:    answers,
		Translator: translator,
		Upload:     upload,
		Logger:     logger,
	}
}

// HandleHealth reports liveness and whether generation reaches the AI service.
func (h *Handler) HandleHealth(c *gin.Context) {
	generator := "ready"
	if !h.Generator.Ready() {
		generator = "fallback"
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "generator": generator})
}

// sessionID returns the session token of the request. With create set, a
// missing token is generated and saved, which sends the cookie.
func (h *Handler) sessionID(c *gin.Context, create bool) (string, error) {
	session := sessions.Default(c)
	if sid, ok := session.Get(SessionIDKey).(string); ok && sid != "" {
		return sid, nil
	}
	if !create {
		return "", nil
	}

	sid := uuid.NewString()
	session.Set(SessionIDKey, sid)
	if err := session.Save(); err != nil {
		return "", fmt.Errorf("save session: %w", err)
	}
	return sid, nil
}

// answersFor loads the answer key of the current session. A request without a
// session gets an empty key.
func (h *Handler) answersFor(c *gin.Context) (models.AnswerKey, error) {
	sid, err := h.sessionID(c, false)
	if err != nil || sid == "" {
		return models.AnswerKey{}, err
	}
	return h.Answers.Get(c.Request.Context(), sid)
}

func (h *Handler) localizer(c *gin.Context) *i18n.Localizer {
	return h.Translator.Localizer(c.GetHeader("Accept-Language"))
}

// newPage prepares the index page data for the request language.
func (h *Handler) newPage(c *gin.Context) web.Page {
	loc := h.localizer(c)
	exts := make([]string, len(h.Upload.AllowedExtensions))
	for i, ext := range h.Upload.AllowedExtensions {
		exts[i] = "." + ext
	}
	return web.Page{
		L:              loc,
		Lang:           loc.Lang(),
		Subjects:       h.Upload.Subjects,
		RequireSubject: h.Upload.RequireSubject,
		Accept:         strings.Join(exts, ","),
	}
}

// wantsJSON reports whether the client prefers JSON over the HTML page.
func wantsJSON(c *gin.Context) bool {
	return c.NegotiateFormat(gin.MIMEHTML, gin.MIMEJSON) == gin.MIMEJSON
}

// renderPage writes the index page, or its JSON equivalent for API clients.
func (h *Handler) renderPage(c *gin.Context, page web.Page) {
	if wantsJSON(c) {
		if page.Results != nil {
			c.JSON(http.StatusOK, page.Results)
			return
		}
		c.JSON(http.StatusOK, gin.H{"subjects": page.Subjects, "require_subject": page.RequireSubject})
		return
	}
	c.HTML(http.StatusOK, web.IndexTemplate, page)
}

// renderError shows message inline on the page, above any results already set
// on it. JSON clients get status with the same message.
func (h *Handler) renderError(c *gin.Context, status int, page web.Page, message string) {
	if wantsJSON(c) {
		if page.Results != nil {
			c.JSON(status, gin.H{
				"error":         message,
				"review_sheets": page.Results.ReviewSheets,
				"quiz":          page.Results.Quiz,
			})
			return
		}
		c.JSON(status, models.ErrorResponse{Error: message})
		return
	}
	page.Error = message
	c.HTML(http.StatusOK, web.IndexTemplate, page)
}

// handleError logs an error and aborts the request with a JSON body.
func (h *Handler) handleError(c *gin.Context, statusCode int, errorContext string, err error) {
	h.Logger.Error(errorContext, zap.Error(err), zap.String("path", c.Request.URL.Path), zap.Int("status", statusCode))
	_ = c.Error(err)
	c.AbortWithStatusJSON(statusCode, models.ErrorResponse{Error: fmt.Sprintf("%s: %v", errorContext, err)})
}

func isTooLarge(err error) bool {
	var maxBytesErr *http.MaxBytesError
	return errors.As(err, &maxBytesErr)
}
