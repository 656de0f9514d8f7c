package translation

import (
	"context"
	"errors"
	"testing"

	"github.com/sony/gobreaker"
)

func TestBuildMessage(t *testing.T) {
	tests := []struct {
		prompt string
		text   string
		want   string
	}{
		{"Translate this to English", "hola", "Translate this to English: hola"},
		{"", "hola", "Translate this to English: hola"},
		{"Translate to German", "line one\nline two", "Translate to German: line one\nline two"},
		{"Summarize", "", "Summarize: "},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := BuildMessage(tt.prompt, tt.text); got != tt.want {
				t.Errorf("BuildMessage(%q, %q) = %q, want %q", tt.prompt, tt.text, got, tt.want)
			}
		})
	}
}

func TestNewProvider(t *testing.T) {
	tests := []struct {
		name     string
		config   *Config
		wantName string
		wantErr  bool
	}{
		{name: "nil config", config: nil, wantErr: true},
		{name: "openai", config: &Config{Provider: ProviderOpenAI, OpenAIKey: "k"}, wantName: ProviderOpenAI},
		{name: "empty defaults to openai", config: &Config{OpenAIKey: "k"}, wantName: ProviderOpenAI},
		{name: "openai without key", config: &Config{Provider: ProviderOpenAI}, wantErr: true},
		{name: "gemini without key", config: &Config{Provider: ProviderGemini}, wantErr: true},
		{name: "unknown", config: &Config{Provider: "claude"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider, err := NewProvider(context.Background(), tt.config)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewProvider() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && provider.Name() != tt.wantName {
				t.Errorf("Name() = %s, want %s", provider.Name(), tt.wantName)
			}
		})
	}
}

// stubProvider fails the first failures calls and succeeds afterwards
type stubProvider struct {
	failures int
	calls    int
}

func (s *stubProvider) Translate(ctx context.Context, text, prompt string) (*Result, error) {
	s.calls++
	if s.calls <= s.failures {
		return nil, errors.New("upstream unavailable")
	}
	return &Result{Text: "ok"}, nil
}

func (s *stubProvider) Name() string { return "stub" }

func TestBreakerProvider_TripsAfterConsecutiveFailures(t *testing.T) {
	inner := &stubProvider{failures: 10}
	b := NewBreaker(inner, 2)

	for i := 0; i < 2; i++ {
		_, err := b.Translate(context.Background(), "x", "")
		if err == nil || errors.Is(err, gobreaker.ErrOpenState) {
			t.Fatalf("Call %d: expected upstream error, got %v", i+1, err)
		}
	}

	if !b.Open() {
		t.Fatal("Expected breaker to be open after 2 failures")
	}

	_, err := b.Translate(context.Background(), "x", "")
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Fatalf("Expected ErrOpenState, got %v", err)
	}
	if inner.calls != 2 {
		t.Errorf("Expected open breaker to skip the provider, calls = %d", inner.calls)
	}
}

func TestBreakerProvider_SuccessResetsCount(t *testing.T) {
	inner := &stubProvider{failures: 1}
	b := NewBreaker(inner, 2)

	if _, err := b.Translate(context.Background(), "x", ""); err == nil {
		t.Fatal("Expected first call to fail")
	}

	result, err := b.Translate(context.Background(), "x", "")
	if err != nil {
		t.Fatalf("Expected second call to succeed, got %v", err)
	}
	if result.Text != "ok" {
		t.Errorf("Text = %q", result.Text)
	}
	if b.Open() {
		t.Error("Breaker should stay closed")
	}
	if b.Name() != "stub (circuit breaker)" {
		t.Errorf("Name() = %q", b.Name())
	}
}
