package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func testConfig(url string) *Config {
	return &Config{
		Provider:    "openai",
		URL:         url,
		APIKey:      "test-key",
		Model:       "test-model",
		MaxTokens:   256,
		N:           1,
		Stop:        []string{"STOP"},
		Temperature: 0.2,
		TopP:        0.9,
		Timeout:     5 * time.Second,
	}
}

func silentProvider(config *Config) *OpenAIProvider {
	p := NewOpenAIProvider(config)
	p.logf = func(string, ...interface{}) {}
	return p
}

func TestOpenAIProvider_Complete(t *testing.T) {
	tests := []struct {
		name         string
		responseBody string
		httpStatus   int
		expected     string
		expectErr    error
	}{
		{
			name:         "successful completion",
			responseBody: `{"choices":[{"message":{"role":"assistant","content":"/**\n * Computes bar.\n */"}}]}`,
			httpStatus:   http.StatusOK,
			expected:     "/**\n * Computes bar.\n */",
		},
		{
			name:         "content is trimmed",
			responseBody: `{"choices":[{"message":{"role":"assistant","content":"  hello  \n"}}]}`,
			httpStatus:   http.StatusOK,
			expected:     "hello",
		},
		{
			name:         "empty choices",
			responseBody: `{"choices":[]}`,
			httpStatus:   http.StatusOK,
			expectErr:    ErrMalformedResponse,
		},
		{
			name:         "missing message content",
			responseBody: `{"choices":[{"message":{"role":"assistant"}}]}`,
			httpStatus:   http.StatusOK,
			expectErr:    ErrMalformedResponse,
		},
		{
			name:         "HTTP error",
			responseBody: `{"error":"model not found"}`,
			httpStatus:   http.StatusNotFound,
			expectErr:    ErrRequestFailed,
		},
		{
			name:         "invalid JSON",
			responseBody: `{not json`,
			httpStatus:   http.StatusOK,
			expectErr:    ErrRequestFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.httpStatus)
				w.Write([]byte(tt.responseBody))
			}))
			defer server.Close()

			provider := silentProvider(testConfig(server.URL))
			content, err := provider.Complete(context.Background(), Prompt{System: "sys", User: "usr"})

			if tt.expectErr != nil {
				if err == nil {
					t.Fatalf("expected error but got none")
				}
				if !errors.Is(err, tt.expectErr) {
					t.Errorf("expected error %v, got %v", tt.expectErr, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if content != tt.expected {
				t.Errorf("expected content %q, got %q", tt.expected, content)
			}
		})
	}
}

func TestOpenAIProvider_RequestParameters(t *testing.T) {
	var captured chatRequest
	var auth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"ok"}}]}`))
	}))
	defer server.Close()

	provider := silentProvider(testConfig(server.URL))
	_, err := provider.Complete(context.Background(), Prompt{System: "be helpful", User: "document this"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if auth != "Bearer test-key" {
		t.Errorf("expected bearer credential, got %q", auth)
	}
	if captured.Model != "test-model" {
		t.Errorf("expected model test-model, got %q", captured.Model)
	}
	if captured.MaxTokens != 256 || captured.N != 1 {
		t.Errorf("unexpected sampling parameters: %+v", captured)
	}
	if captured.Temperature != 0.2 || captured.TopP != 0.9 {
		t.Errorf("unexpected temperature/top_p: %+v", captured)
	}
	if len(captured.Stop) != 1 || captured.Stop[0] != "STOP" {
		t.Errorf("unexpected stop sequences: %v", captured.Stop)
	}
	if len(captured.Messages) != 2 {
		t.Fatalf("expected two messages, got %d", len(captured.Messages))
	}
	if captured.Messages[0].Role != "system" || captured.Messages[0].Content != "be helpful" {
		t.Errorf("unexpected system message: %+v", captured.Messages[0])
	}
	if captured.Messages[1].Role != "user" || captured.Messages[1].Content != "document this" {
		t.Errorf("unexpected user message: %+v", captured.Messages[1])
	}
}

func TestOpenAIProvider_RetriesOnFailure(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"recovered"}}]}`))
	}))
	defer server.Close()

	config := testConfig(server.URL)
	config.Retries = 2
	provider := silentProvider(config)

	content, err := provider.Complete(context.Background(), Prompt{System: "s", User: "u"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if content != "recovered" {
		t.Errorf("expected recovered, got %q", content)
	}
	if attempts != 2 {
		t.Errorf("expected 2 attempts, got %d", attempts)
	}
}

func TestOpenAIProvider_NoRetryWhenUnconfigured(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	provider := silentProvider(testConfig(server.URL))
	_, err := provider.Complete(context.Background(), Prompt{System: "s", User: "u"})
	if err == nil {
		t.Fatal("expected error")
	}
	if attempts != 1 {
		t.Errorf("expected a single attempt, got %d", attempts)
	}
}

func TestOpenAIProvider_TestConnection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte(`{"data":[]}`))
	}))
	defer server.Close()

	provider := silentProvider(testConfig(server.URL))
	if err := provider.TestConnection(context.Background()); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestNewProvider(t *testing.T) {
	config := DefaultConfig()
	provider, err := NewProvider(config)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	info := provider.ModelInfo()
	if info.Provider != "openai" {
		t.Errorf("expected openai provider, got %q", info.Provider)
	}

	config.Provider = "mystery"
	if _, err := NewProvider(config); err == nil {
		t.Error("expected error for unsupported provider")
	}

	if _, err := NewProvider(nil); err == nil {
		t.Error("expected error for nil configuration")
	}
}
