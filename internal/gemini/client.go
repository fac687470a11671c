// Package gemini talks to the Gemini API with dynamic model discovery.
// No model name is hardcoded: the client lists available models, ranks them
// by version and tier, and walks the ranked chain on rate limiting.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

// ErrModelUnavailable is returned when every discovered model has been
// exhausted or rate-limited.
var ErrModelUnavailable = errors.New("all discovered models unavailable")

// Request describes one generation call.
type Request struct {
	Prompt            string
	SystemInstruction string
	Temperature       float32
	MaxOutputTokens   int32
	// JSONOutput requests strict application/json responses.
	JSONOutput bool
}

// backend abstracts the provider SDK so chain logic is testable.
type backend interface {
	ListModels(ctx context.Context) ([]ModelInfo, error)
	Generate(ctx context.Context, model string, req Request) (string, error)
}

// Client generates content through a ranked fallback chain of models.
type Client struct {
	backend backend
	log     *zap.Logger
	retries int
	backoff time.Duration

	mu     sync.Mutex
	models []string // cached ranked chain
}

// New creates a Client backed by the Gemini API.
func New(ctx context.Context, apiKey string, log *zap.Logger) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	gc, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return newWithBackend(&genaiBackend{client: gc}, log), nil
}

func newWithBackend(b backend, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{backend: b, log: log, retries: 3, backoff: time.Second}
}

// Models returns the ranked model chain, discovering it on first use.
func (c *Client) Models(ctx context.Context) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.models) > 0 {
		return c.models, nil
	}

	c.log.Info("discovering available models")
	listed, err := c.backend.ListModels(ctx)
	if err != nil {
		return nil, fmt.Errorf("model discovery: %w", err)
	}
	ranked := Rank(FilterGenerative(listed))
	if len(ranked) == 0 {
		return nil, fmt.Errorf("model discovery: %w: provider returned no generative models", ErrModelUnavailable)
	}
	c.models = ranked
	c.log.Info("model chain ready", zap.Strings("models", ranked))
	return ranked, nil
}

// Generate walks the ranked model chain. Rate-limit and not-found errors
// advance to the next model; transient errors retry the same model with
// linear backoff. It returns the generated text and the model that served it.
func (c *Client) Generate(ctx context.Context, req Request) (string, string, error) {
	models, err := c.Models(ctx)
	if err != nil {
		return "", "", err
	}

	var lastErr error
	for _, model := range models {
		for attempt := 0; attempt < c.retries; attempt++ {
			text, err := c.backend.Generate(ctx, model, req)
			if err == nil {
				if strings.TrimSpace(text) == "" {
					lastErr = fmt.Errorf("model %s returned empty response", model)
					continue
				}
				return text, model, nil
			}
			lastErr = err

			if shouldSwitchModel(err) {
				c.log.Warn("model unavailable, switching to next",
					zap.String("model", model), zap.Error(err))
				break
			}
			if ctx.Err() != nil {
				return "", "", ctx.Err()
			}
			c.log.Warn("transient generation error, retrying",
				zap.String("model", model), zap.Int("attempt", attempt+1), zap.Error(err))
			if err := sleepCtx(ctx, c.backoff*time.Duration(attempt+1)); err != nil {
				return "", "", err
			}
		}
	}

	return "", "", fmt.Errorf("%w: %v", ErrModelUnavailable, lastErr)
}

// shouldSwitchModel reports whether the error means this model will not
// recover (rate limit, or the key's tier cannot access a listed model).
func shouldSwitchModel(err error) bool {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code == 429 || apiErr.Code == 404
	}
	msg := err.Error()
	for _, tok := range []string{"429", "RESOURCE_EXHAUSTED", "404", "NOT_FOUND"} {
		if strings.Contains(msg, tok) {
			return true
		}
	}
	return false
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// --- genai SDK adapter ---

type genaiBackend struct {
	client *genai.Client
}

func (b *genaiBackend) ListModels(ctx context.Context) ([]ModelInfo, error) {
	var out []ModelInfo
	for model, err := range b.client.Models.All(ctx) {
		if err != nil {
			return nil, err
		}
		out = append(out, ModelInfo{Name: model.Name, Actions: model.SupportedActions})
	}
	return out, nil
}

func (b *genaiBackend) Generate(ctx context.Context, model string, req Request) (string, error) {
	cfg := &genai.GenerateContentConfig{}
	if req.SystemInstruction != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.SystemInstruction, genai.RoleUser)
	}
	if req.Temperature > 0 {
		cfg.Temperature = genai.Ptr(req.Temperature)
	}
	if req.MaxOutputTokens > 0 {
		cfg.MaxOutputTokens = req.MaxOutputTokens
	}
	if req.JSONOutput {
		cfg.ResponseMIMEType = "application/json"
	}

	resp, err := b.client.Models.GenerateContent(ctx, model, genai.Text(req.Prompt), cfg)
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}
