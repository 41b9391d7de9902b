package llm

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hongduc/quiz11/internal/store"
)

// NewProvider creates a Provider from configuration, wrapped with schema
// validation, request logging and the configured timeout. Calls are
// never retried.
// repo may be nil to skip event persistence.
func NewProvider(ctx context.Context, cfg Config, repo store.EventRepo, logger *slog.Logger) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var base Provider
	var err error

	switch cfg.Provider {
	case ProviderAnthropic:
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case ProviderOpenAI:
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case ProviderGemini:
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case ProviderOpenRouter:
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case ProviderMock:
		base = NewMockProvider()
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	// caller → timeout → logging → validation → base
	p := WithLogging(WithValidation(base), cfg.Provider, repo, logger)
	return WithTimeout(p, cfg.Timeout), nil
}
