package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"revisionai/internal/models"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// DefaultModelName is used when no model is configured.
const DefaultModelName = "gemini-2.5-flash"

// ErrNotConfigured is reported by every generation when the client could not
// be built at startup, typically because GEMINI_API_KEY is missing.
var ErrNotConfigured = errors.New("gemini client is not configured")

// GenerationError wraps any failure of a generation call. The result returned
// alongside it is always the fallback payload.
type GenerationError struct {
	Stage string
	Err   error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// contentModel is the subset of *genai.GenerativeModel used here.
type contentModel interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// Client wraps the Gemini client
type Client struct {
	client  *genai.Client
	model   contentModel
	initErr error
	logger  *zap.Logger
}

// NewClient builds the Gemini client once for the life of the process. It
// never fails: when the client cannot be constructed the returned Client runs
// in fallback mode and every Generate call short-circuits without a network
// round trip.
func NewClient(ctx context.Context, apiKey, modelName string, logger *zap.Logger) *Client {
	if apiKey == "" {
		logger.Warn("GEMINI_API_KEY is not set; study material generation runs in fallback mode")
		return &Client{initErr: ErrNotConfigured, logger: logger}
	}
	if modelName == "" {
		modelName = DefaultModelName
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		logger.Warn("failed to create Gemini client; generation runs in fallback mode", zap.Error(err))
		return &Client{initErr: fmt.Errorf("%w: %v", ErrNotConfigured, err), logger: logger}
	}

	model := client.GenerativeModel(modelName)
	model.ResponseMIMEType = "application/json"
	model.ResponseSchema = responseSchema
	model.SetTemperature(0.2)

	logger.Info("Gemini client initialized", zap.String("model", modelName))
	return &Client{client: client, model: model, logger: logger}
}

// newWithModel is used by tests to plug in a fake model.
func newWithModel(model contentModel, logger *zap.Logger) *Client {
	return &Client{model: model, logger: logger}
}

// Ready reports whether generation calls reach the service.
func (c *Client) Ready() bool {
	return c.initErr == nil && c.model != nil
}

// Close closes the Gemini client
func (c *Client) Close() {
	if c.client != nil {
		c.client.Close()
	}
}

// Generate produces review sheets and a quiz for the extracted text. On any
// failure it returns the fallback payload together with a *GenerationError.
// There is exactly one attempt.
func (c *Client) Generate(ctx context.Context, text, subject string) (*models.GenerationResult, error) {
	if !c.Ready() {
		err := c.initErr
		if err == nil {
			err = ErrNotConfigured
		}
		return Fallback(err), &GenerationError{Stage: "configuration", Err: err}
	}

	start := time.Now()
	resp, err := c.model.GenerateContent(ctx, genai.Text(buildPrompt(text, subject)))
	if err != nil {
		c.logger.Error("Gemini request failed", zap.Error(err))
		return Fallback(err), &GenerationError{Stage: "generate content", Err: err}
	}

	if resp.UsageMetadata != nil {
		c.logger.Info("Gemini token usage",
			zap.Int32("prompt_tokens", resp.UsageMetadata.PromptTokenCount),
			zap.Int32("candidate_tokens", resp.UsageMetadata.CandidatesTokenCount),
			zap.Int32("total_tokens", resp.UsageMetadata.TotalTokenCount),
			zap.Duration("elapsed", time.Since(start)),
		)
	}

	raw := responseText(resp)
	if raw == "" {
		err := errors.New("no content generated")
		return Fallback(err), &GenerationError{Stage: "read response", Err: err}
	}

	result, err := parseResult(raw)
	if err != nil {
		c.logger.Debug("unparseable Gemini response", zap.String("raw", raw))
		return Fallback(err), &GenerationError{Stage: "parse response", Err: err}
	}

	c.logger.Info("generated study material",
		zap.Int("review_sheets", len(result.ReviewSheets)),
		zap.Int("questions", len(result.Quiz)),
	)
	return result, nil
}

// Fallback is the payload shown when generation is not possible: one
// explanatory review sheet and no quiz.
func Fallback(reason error) *models.GenerationResult {
	points := []string{"The review sheets and quiz could not be generated for this document."}
	if reason != nil {
		points = append(points, "Reason: "+reason.Error())
	}
	return &models.GenerationResult{
		ReviewSheets: []models.ReviewSheet{{Title: "Generation unavailable", Points: points}},
		Quiz:         []models.QuizItem{},
	}
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	candidate := resp.Candidates[0]
	if candidate == nil || candidate.Content == nil {
		return ""
	}

	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return sb.String()
}
