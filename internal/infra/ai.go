package infra

import (
	"context"
	"errors"
	"fmt"

	"github.com/offset122/PubInventoryTracker/internal/config"
)

var (
	// ErrAIKeyMissing means the selected insight provider has no API key.
	ErrAIKeyMissing = errors.New("ai: api key not configured")
	// ErrEmptyCompletion means the provider answered without any text.
	ErrEmptyCompletion = errors.New("ai: empty completion")
)

// Insight provider names accepted by AI_PROVIDER.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// TextGenerator is what the insight service needs from a provider.
type TextGenerator interface {
	Name() string
	// Ready reports ErrAIKeyMissing when no credentials are configured.
	Ready() error
	Generate(ctx context.Context, prompt string) (string, error)
}

// NewTextGenerator builds the provider selected by AI_PROVIDER. A provider
// without an API key is still returned; it fails each call with ErrAIKeyMissing.
func NewTextGenerator(ctx context.Context, cfg *config.Config) (TextGenerator, error) {
	switch cfg.AIProvider {
	case ProviderOpenAI:
		return NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIModel), nil
	case ProviderGemini, "":
		g, err := NewGeminiClient(ctx, cfg.GeminiKey(), cfg.GeminiModel)
		if err != nil {
			return nil, err
		}
		return g, nil
	default:
		return nil, fmt.Errorf("ai: unknown provider %q", cfg.AIProvider)
	}
}

var (
	_ TextGenerator = (*GeminiClient)(nil)
	_ TextGenerator = (*OpenAIClient)(nil)
)
