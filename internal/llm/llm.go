// Package llm abstracts the language-model services behind a single
// completion interface. Two providers are supported: OpenAI-compatible
// endpoints and Google Gemini, selected by LLM_PROVIDER.
package llm

import (
	"context"
	"fmt"

	"aidigest/internal/config"
)

// Client sends one completion request to a language-model service.
type Client interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
	Close() error
}

// New builds the client for the configured provider.
func New(ctx context.Context, cfg *config.Config) (Client, error) {
	switch cfg.LLMProvider {
	case "openai":
		return newOpenAI(cfg), nil
	case "gemini":
		return newGemini(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", cfg.LLMProvider)
	}
}
