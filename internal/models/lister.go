package models

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/sashabaranov/go-openai"
	"google.golang.org/genai"

	"codeberg.org/snonux/translatedocs/internal/translation"
)

// Lister prints the models of one provider
type Lister interface {
	ListAvailableModels(ctx context.Context) error
}

// New creates the lister for the configured translation provider
func New(ctx context.Context, config *translation.Config, out io.Writer) (Lister, error) {
	switch config.Provider {
	case translation.ProviderOpenAI, "":
		return NewOpenAILister(config.OpenAIKey, config.OpenAIBaseURL, out), nil
	case translation.ProviderGemini:
		return NewGeminiLister(ctx, config.GeminiKey, config.GeminiBaseURL, out)
	default:
		return nil, fmt.Errorf("unknown translation provider: %s", config.Provider)
	}
}

// OpenAILister handles listing available OpenAI models
type OpenAILister struct {
	apiKey string
	client *openai.Client
	out    io.Writer
}

// NewOpenAILister creates a new model lister
func NewOpenAILister(apiKey, baseURL string, out io.Writer) *OpenAILister {
	clientConfig := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		clientConfig.BaseURL = baseURL
	}
	return &OpenAILister{
		apiKey: apiKey,
		client: openai.NewClientWithConfig(clientConfig),
		out:    out,
	}
}

// ListAvailableModels prints the chat models usable for translation
func (l *OpenAILister) ListAvailableModels(ctx context.Context) error {
	if l.apiKey == "" {
		return fmt.Errorf("OpenAI API key not found. Set OPENAI_API_KEY environment variable or configure in .translatedocs.yaml")
	}

	models, err := l.client.ListModels(ctx)
	if err != nil {
		return fmt.Errorf("failed to list models: %w", err)
	}

	var chatModels, otherModels []string
	for _, model := range models.Models {
		if isChatModel(model.ID) {
			chatModels = append(chatModels, model.ID)
		} else {
			otherModels = append(otherModels, model.ID)
		}
	}

	sort.Strings(chatModels)

	fmt.Fprintln(l.out, "Available OpenAI Models:")
	fmt.Fprintln(l.out, "\nChat/Translation Models:")
	printModels(l.out, chatModels, translation.DefaultOpenAIModel)
	if len(otherModels) > 0 {
		fmt.Fprintf(l.out, "  ... and %d models not usable for translation\n", len(otherModels))
	}

	return nil
}

// isChatModel reports whether id names a text chat model
func isChatModel(id string) bool {
	for _, skip := range []string{"tts", "audio", "realtime", "transcribe", "image", "dall-e", "embedding", "whisper", "moderation", "search"} {
		if strings.Contains(id, skip) {
			return false
		}
	}
	return strings.HasPrefix(id, "gpt") || strings.HasPrefix(id, "o1") ||
		strings.HasPrefix(id, "o3") || strings.HasPrefix(id, "o4") ||
		strings.Contains(id, "chat")
}

// GeminiLister lists models from the Gemini API
type GeminiLister struct {
	client *genai.Client
	out    io.Writer
}

// NewGeminiLister creates a lister for the Gemini API
func NewGeminiLister(ctx context.Context, apiKey, baseURL string, out io.Writer) (*GeminiLister, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("Gemini API key not found. Set GEMINI_API_KEY environment variable or configure in .translatedocs.yaml")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      apiKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: baseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiLister{client: client, out: out}, nil
}

// ListAvailableModels prints the models supporting content generation
func (l *GeminiLister) ListAvailableModels(ctx context.Context) error {
	var names []string
	for model, err := range l.client.Models.All(ctx) {
		if err != nil {
			return fmt.Errorf("failed to list models: %w", err)
		}
		if !supports(model.SupportedActions, "generateContent") {
			continue
		}
		names = append(names, strings.TrimPrefix(model.Name, "models/"))
	}

	sort.Strings(names)

	fmt.Fprintln(l.out, "Available Gemini Models:")
	fmt.Fprintln(l.out, "\nChat/Translation Models:")
	printModels(l.out, names, translation.DefaultGeminiModel)

	return nil
}

func supports(actions []string, action string) bool {
	for _, a := range actions {
		if a == action {
			return true
		}
	}
	return false
}

func printModels(out io.Writer, names []string, defaultModel string) {
	if len(names) == 0 {
		fmt.Fprintln(out, "  No chat models found")
		return
	}
	for _, name := range names {
		if name == defaultModel {
			fmt.Fprintf(out, "  %s (default)\n", name)
			continue
		}
		fmt.Fprintf(out, "  %s\n", name)
	}
}
