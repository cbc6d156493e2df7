package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/spigell/job-scorer/internal/ai"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

const (
	defaultModel       = "gemini-2.5-flash"
	defaultMaxRetries  = 3
	defaultBackoffBase = time.Second
)

var sleep = time.Sleep

// modelCaller is the slice of the genai client the generator depends on.
type modelCaller interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeneratorConfig carries the operational tuning for the Gemini backend.
type GeneratorConfig struct {
	APIKey string
	Model  string
	// MaxRetries is the total attempt ceiling for transient failures.
	MaxRetries int
	// RequestInterval is the minimum spacing between requests, enforced
	// before every call including retries.
	RequestInterval time.Duration
	// BackoffBase is the first retry delay; it doubles per attempt.
	BackoffBase time.Duration
}

// Generator wraps the Google GenAI client with retry, request pacing and
// error classification.
type Generator struct {
	models      modelCaller
	model       string
	maxRetries  int
	backoffBase time.Duration
	limiter     *rate.Limiter
	logger      *zap.Logger
}

// NewGenerator creates a Generator configured for the Gemini API backend.
func NewGenerator(ctx context.Context, cfg GeneratorConfig, logger *zap.Logger) (*Generator, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultModel
	}

	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	backoff := cfg.BackoffBase
	if backoff <= 0 {
		backoff = defaultBackoffBase
	}

	limit := rate.Inf
	if cfg.RequestInterval > 0 {
		limit = rate.Every(cfg.RequestInterval)
	}

	return &Generator{
		models:      client.Models,
		model:       model,
		maxRetries:  maxRetries,
		backoffBase: backoff,
		limiter:     rate.NewLimiter(limit, 1),
		logger:      logger,
	}, nil
}

func (g *Generator) Model() string {
	if g == nil {
		return ""
	}
	return g.model
}

// GenerateContent sends the prompt to Gemini and returns the first textual
// response. Transient failures are retried with exponential backoff up to
// the attempt ceiling; every attempt re-sends the identical payload and
// waits for rate-limit budget first.
func (g *Generator) GenerateContent(ctx context.Context, system, prompt string) (string, error) {
	if g == nil || g.models == nil {
		return "", ai.NewError(ai.KindOther, errors.New("gemini generator is not initialized"))
	}

	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", ai.NewError(ai.KindMalformed, errors.New("prompt must not be empty"))
	}

	config := &genai.GenerateContentConfig{}
	if system = strings.TrimSpace(system); system != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: system}},
		}
	}

	backoff := g.backoffBase
	var lastErr error

	for attempt := 1; attempt <= g.maxRetries; attempt++ {
		if err := g.limiter.Wait(ctx); err != nil {
			return "", ai.NewError(ai.KindOther, fmt.Errorf("waiting for request budget: %w", err))
		}

		resp, err := g.models.GenerateContent(ctx, g.model, genai.Text(prompt), config)
		if err == nil {
			return collectText(resp)
		}

		classified := classify(err)
		lastErr = classified

		if !ai.Retryable(classified) {
			return "", classified
		}

		if attempt == g.maxRetries {
			break
		}

		g.logger.Debug("retrying gemini request",
			zap.Int("attempt", attempt),
			zap.Duration("backoff", backoff),
			zap.Error(err),
		)

		sleep(backoff)
		backoff *= 2
	}

	return "", fmt.Errorf("gemini request failed after %d attempts: %w", g.maxRetries, lastErr)
}

func collectText(resp *genai.GenerateContentResponse) (string, error) {
	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(text)
		}
	}

	output := strings.TrimSpace(builder.String())
	if output == "" {
		return "", ai.NewError(ai.KindMalformed, errors.New("gemini api returned empty response"))
	}

	return output, nil
}

// classify maps a genai failure onto the scoring error taxonomy.
func classify(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code == http.StatusTooManyRequests:
			return ai.NewError(ai.KindRateLimited, err)
		case apiErr.Code >= http.StatusInternalServerError:
			return ai.NewError(ai.KindTransient, err)
		case apiErr.Code == http.StatusUnauthorized || apiErr.Code == http.StatusForbidden:
			return ai.NewError(ai.KindAuth, err)
		case apiErr.Code == http.StatusBadRequest:
			return ai.NewError(ai.KindMalformed, err)
		default:
			return ai.NewError(ai.KindOther, err)
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return ai.NewError(ai.KindTransient, err)
	}

	return ai.NewError(ai.KindOther, err)
}
