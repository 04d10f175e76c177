package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"recroai/backend/internal/config"
)

var (
	// ErrNotConfigured means no usable provider credential/model is set.
	// Permanent until an operator fixes the configuration.
	ErrNotConfigured = errors.New("llm provider not configured")

	// ErrTransport covers network and HTTP-level failures of a
	// completion call. Transient.
	ErrTransport = errors.New("llm transport error")
)

// Completer is a single request/response interaction with a
// text-generation model. Implementations are safe for concurrent use;
// the credential is read-only configuration.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string, temperature float32, jsonMode bool) (string, error)
	Model() string
}

// Resolve selects the completion provider from configuration. It fails
// with ErrNotConfigured when the selected provider has no usable key, so
// callers can run in heuristic-only mode instead of crashing.
func Resolve(ctx context.Context, cfg config.LLMConfig, log *zap.Logger) (Completer, error) {
	provider := strings.ToLower(strings.TrimSpace(cfg.Provider))

	switch provider {
	case "openrouter":
		if strings.TrimSpace(cfg.OpenRouterAPIKey) == "" {
			return nil, fmt.Errorf("%w: OPENROUTER_API_KEY must be set for provider %q", ErrNotConfigured, provider)
		}
		if strings.TrimSpace(cfg.Model) == "" {
			return nil, fmt.Errorf("%w: LLM_MODEL must be set", ErrNotConfigured)
		}
		log.Info("llm provider resolved",
			zap.String("provider", provider),
			zap.String("model", cfg.Model),
			zap.String("base_url", cfg.OpenRouterBaseURL),
		)
		return NewOpenRouterClient(cfg.OpenRouterAPIKey, cfg.OpenRouterBaseURL, cfg.Model), nil

	case "gemini":
		if strings.TrimSpace(cfg.GeminiAPIKey) == "" {
			return nil, fmt.Errorf("%w: GEMINI_API_KEY must be set for provider %q", ErrNotConfigured, provider)
		}
		client, err := NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.Model)
		if err != nil {
			return nil, err
		}
		log.Info("llm provider resolved",
			zap.String("provider", provider),
			zap.String("model", client.Model()),
		)
		return client, nil

	default:
		return nil, fmt.Errorf("%w: unknown provider %q", ErrNotConfigured, cfg.Provider)
	}
}
