package models

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"codeberg.org/snonux/translatedocs/internal/translation"
)

func TestNewOpenAILister(t *testing.T) {
	lister := NewOpenAILister("test-api-key", "", &bytes.Buffer{})

	if lister == nil {
		t.Fatal("NewOpenAILister returned nil")
	}
	if lister.apiKey != "test-api-key" {
		t.Errorf("Expected API key 'test-api-key', got '%s'", lister.apiKey)
	}
	if lister.client == nil {
		t.Error("OpenAI client not initialized")
	}
}

func TestListAvailableModels_NoAPIKey(t *testing.T) {
	lister := NewOpenAILister("", "", &bytes.Buffer{})

	err := lister.ListAvailableModels(context.Background())
	if err == nil {
		t.Fatal("Expected error for missing API key")
	}

	expectedError := "OpenAI API key not found. Set OPENAI_API_KEY environment variable or configure in .translatedocs.yaml"
	if err.Error() != expectedError {
		t.Errorf("Expected error '%s', got: %v", expectedError, err)
	}
}

func TestListAvailableModels(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/models" {
			t.Errorf("Unexpected request path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"object": "list", "data": [
			{"id": "gpt-4o-mini", "object": "model"},
			{"id": "gpt-4o", "object": "model"},
			{"id": "tts-1", "object": "model"},
			{"id": "dall-e-3", "object": "model"},
			{"id": "text-embedding-3-small", "object": "model"}
		]}`))
	}))
	defer srv.Close()

	var out bytes.Buffer
	lister := NewOpenAILister("test-key", srv.URL+"/v1", &out)
	if err := lister.ListAvailableModels(context.Background()); err != nil {
		t.Fatalf("ListAvailableModels failed: %v", err)
	}

	got := out.String()
	if !strings.Contains(got, "  gpt-4o\n") {
		t.Errorf("gpt-4o missing from output:\n%s", got)
	}
	if !strings.Contains(got, "  gpt-4o-mini (default)\n") {
		t.Errorf("default model not marked:\n%s", got)
	}
	if strings.Contains(got, "tts-1") || strings.Contains(got, "dall-e-3") {
		t.Errorf("non-chat models listed:\n%s", got)
	}
	if !strings.Contains(got, "... and 3 models not usable for translation") {
		t.Errorf("missing count of other models:\n%s", got)
	}
}

func TestIsChatModel(t *testing.T) {
	tests := map[string]bool{
		"gpt-4o-mini":            true,
		"gpt-3.5-turbo":          true,
		"o3-mini":                true,
		"chatgpt-4o-latest":      true,
		"gpt-4o-mini-tts":        false,
		"gpt-4o-realtime":        false,
		"gpt-image-1":            false,
		"whisper-1":              false,
		"text-embedding-3-large": false,
	}

	for id, want := range tests {
		if got := isChatModel(id); got != want {
			t.Errorf("isChatModel(%q) = %v, want %v", id, got, want)
		}
	}
}

func TestNew(t *testing.T) {
	ctx := context.Background()

	if _, err := New(ctx, &translation.Config{Provider: "openai", OpenAIKey: "k"}, &bytes.Buffer{}); err != nil {
		t.Errorf("openai lister: %v", err)
	}
	if _, err := New(ctx, &translation.Config{Provider: "gemini"}, &bytes.Buffer{}); err == nil {
		t.Error("expected error for gemini without key")
	}
	if _, err := New(ctx, &translation.Config{Provider: "other"}, &bytes.Buffer{}); err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestListAvailableModels_Integration(t *testing.T) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		t.Skip("Skipping integration test: OPENAI_API_KEY not set")
	}

	var out bytes.Buffer
	if err := NewOpenAILister(apiKey, "", &out).ListAvailableModels(context.Background()); err != nil {
		t.Errorf("ListAvailableModels failed: %v", err)
	}
}
