package translation

import (
	"context"
	"fmt"
)

const (
	// ProviderOpenAI selects the OpenAI chat completions API
	ProviderOpenAI = "openai"
	// ProviderGemini selects the Google Gemini API
	ProviderGemini = "gemini"

	// DefaultPrompt is the instruction used when none is given
	DefaultPrompt = "Translate this to English"
)

// Provider defines the interface for translation backends
type Provider interface {
	// Translate sends text with the given prompt and returns the model output
	Translate(ctx context.Context, text, prompt string) (*Result, error)

	// Name returns the provider name
	Name() string
}

// Result is the output of one translation request
type Result struct {
	Text             string // Generated content, unchanged
	Model            string // Model that produced the content
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// Config holds configuration for translation providers
type Config struct {
	Provider string // "openai" or "gemini"
	Model    string // Empty selects the provider default

	// OpenAI-specific settings
	OpenAIKey     string
	OpenAIBaseURL string // Optional, for proxies and compatible APIs

	// Gemini-specific settings
	GeminiKey     string
	GeminiBaseURL string
}

// NewProvider creates the appropriate translation provider based on configuration
func NewProvider(ctx context.Context, config *Config) (Provider, error) {
	if config == nil {
		return nil, fmt.Errorf("translation config is required")
	}

	switch config.Provider {
	case ProviderOpenAI, "":
		return NewOpenAIProvider(config)
	case ProviderGemini:
		return NewGeminiProvider(ctx, config)
	default:
		return nil, fmt.Errorf("unknown translation provider: %s", config.Provider)
	}
}

// BuildMessage composes the single user message sent to the model
func BuildMessage(prompt, text string) string {
	if prompt == "" {
		prompt = DefaultPrompt
	}
	return fmt.Sprintf("%s: %s", prompt, text)
}
