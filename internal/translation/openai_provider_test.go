package translation

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
)

// chatRequest captures the parts of a chat completion request the tests inspect
type chatRequest struct {
	Model       string  `json:"model"`
	Temperature float64 `json:"temperature"`
	Messages    []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

// newOpenAIServer starts a fake chat completions endpoint. The last decoded
// request is stored in *got.
func newOpenAIServer(t *testing.T, status int, body string, got *chatRequest) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("Unexpected request path: %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("Unexpected Authorization header: %q", auth)
		}
		if got != nil {
			if err := json.NewDecoder(r.Body).Decode(got); err != nil {
				t.Errorf("Failed to decode request: %v", err)
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

const chatResponse = `{
  "id": "chatcmpl-1",
  "object": "chat.completion",
  "created": 1715600000,
  "model": "gpt-4o-mini-2024-07-18",
  "choices": [
    {"index": 0, "message": {"role": "assistant", "content": "  hello\n"}, "finish_reason": "stop"}
  ],
  "usage": {"prompt_tokens": 12, "completion_tokens": 3, "total_tokens": 15}
}`

func TestNewOpenAIProvider(t *testing.T) {
	tests := []struct {
		name      string
		config    *Config
		wantErr   bool
		wantModel string
	}{
		{
			name:    "missing API key",
			config:  &Config{},
			wantErr: true,
		},
		{
			name:      "default model",
			config:    &Config{OpenAIKey: "test-key"},
			wantModel: DefaultOpenAIModel,
		},
		{
			name:      "custom model",
			config:    &Config{OpenAIKey: "test-key", Model: "o3-mini"},
			wantModel: "o3-mini",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider, err := NewOpenAIProvider(tt.config)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewOpenAIProvider() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if err.Error() != "OpenAI API key is required" {
					t.Errorf("Unexpected error message: %v", err)
				}
				return
			}
			if provider.model != tt.wantModel {
				t.Errorf("model = %s, want %s", provider.model, tt.wantModel)
			}
			if provider.Name() != ProviderOpenAI {
				t.Errorf("Name() = %s, want %s", provider.Name(), ProviderOpenAI)
			}
		})
	}
}

func TestOpenAIProvider_Translate(t *testing.T) {
	var got chatRequest
	srv := newOpenAIServer(t, http.StatusOK, chatResponse, &got)

	provider, err := NewOpenAIProvider(&Config{OpenAIKey: "test-key", OpenAIBaseURL: srv.URL + "/v1"})
	if err != nil {
		t.Fatalf("NewOpenAIProvider failed: %v", err)
	}

	result, err := provider.Translate(context.Background(), "hola", "Translate this to English")
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}

	// Content is passed through without trimming
	if result.Text != "  hello\n" {
		t.Errorf("Text = %q, want %q", result.Text, "  hello\n")
	}
	if result.Model != "gpt-4o-mini-2024-07-18" {
		t.Errorf("Model = %s", result.Model)
	}
	if result.PromptTokens != 12 || result.CompletionTokens != 3 || result.TotalTokens != 15 {
		t.Errorf("Unexpected usage: %+v", result)
	}

	if got.Model != DefaultOpenAIModel {
		t.Errorf("Request model = %s, want %s", got.Model, DefaultOpenAIModel)
	}
	if len(got.Messages) != 1 {
		t.Fatalf("Expected exactly one message, got %d", len(got.Messages))
	}
	if got.Messages[0].Role != "user" {
		t.Errorf("Message role = %s, want user", got.Messages[0].Role)
	}
	if got.Messages[0].Content != "Translate this to English: hola" {
		t.Errorf("Message content = %q", got.Messages[0].Content)
	}
	if got.Temperature <= 0 || got.Temperature > 1e-6 {
		t.Errorf("Temperature = %g, want minimal positive value", got.Temperature)
	}
}

func TestOpenAIProvider_Translate_DefaultPrompt(t *testing.T) {
	var got chatRequest
	srv := newOpenAIServer(t, http.StatusOK, chatResponse, &got)

	provider, _ := NewOpenAIProvider(&Config{OpenAIKey: "test-key", OpenAIBaseURL: srv.URL + "/v1"})

	if _, err := provider.Translate(context.Background(), "bonjour", ""); err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if got.Messages[0].Content != "Translate this to English: bonjour" {
		t.Errorf("Message content = %q", got.Messages[0].Content)
	}
}

func TestOpenAIProvider_Translate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{
			name:   "api error",
			status: http.StatusInternalServerError,
			body:   `{"error": {"message": "boom", "type": "server_error"}}`,
		},
		{
			name:   "no choices",
			status: http.StatusOK,
			body:   `{"id": "x", "object": "chat.completion", "model": "gpt-4o-mini", "choices": []}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newOpenAIServer(t, tt.status, tt.body, nil)
			provider, _ := NewOpenAIProvider(&Config{OpenAIKey: "test-key", OpenAIBaseURL: srv.URL + "/v1"})

			result, err := provider.Translate(context.Background(), "hola", "")
			if err == nil {
				t.Fatal("Expected error")
			}
			if result != nil {
				t.Errorf("Expected nil result, got %+v", result)
			}
		})
	}
}

func TestOpenAIProvider_Integration(t *testing.T) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		t.Skip("Skipping integration test: OPENAI_API_KEY not set")
	}

	provider, err := NewOpenAIProvider(&Config{OpenAIKey: apiKey})
	if err != nil {
		t.Fatalf("NewOpenAIProvider failed: %v", err)
	}

	result, err := provider.Translate(context.Background(), "hola", DefaultPrompt)
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if result.Text == "" {
		t.Error("Got empty translation")
	}
	t.Logf("Translation of 'hola': %s", result.Text)
}
