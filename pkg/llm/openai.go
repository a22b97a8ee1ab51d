package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// OpenAIProvider implements the Provider interface for OpenAI-compatible
// chat-completion endpoints
type OpenAIProvider struct {
	config *Config
	client *http.Client
	logf   func(format string, args ...interface{})
}

// NewOpenAIProvider creates a new provider instance for the configured endpoint
func NewOpenAIProvider(config *Config) *OpenAIProvider {
	return &OpenAIProvider{
		config: config,
		client: &http.Client{
			Timeout: config.Timeout,
		},
		logf: func(format string, args ...interface{}) {
			fmt.Printf(format, args...)
		},
	}
}

// chatRequest is the request body sent to the chat-completions endpoint
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	N           int           `json:"n"`
	Stop        []string      `json:"stop,omitempty"`
	Temperature float64       `json:"temperature"`
	TopP        float64       `json:"top_p,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponse is the response body returned by the endpoint
type chatResponse struct {
	Choices []struct {
		Message *chatMessage `json:"message"`
	} `json:"choices"`
}

// Complete sends a single request carrying the system and user messages
// plus the configured model parameters, and returns the first choice's
// message content trimmed of surrounding whitespace. The configured retry
// count drives additional attempts after a failed request.
func (p *OpenAIProvider) Complete(ctx context.Context, prompt Prompt) (string, error) {
	messages := []chatMessage{
		{Role: "system", Content: prompt.System},
		{Role: "user", Content: prompt.User},
	}

	// Every outgoing message array is echoed verbatim as JSON.
	if payload, err := json.Marshal(messages); err == nil {
		p.logf("→ request: %s\n", payload)
	}

	body, err := json.Marshal(chatRequest{
		Model:       p.config.Model,
		Messages:    messages,
		MaxTokens:   p.config.MaxTokens,
		N:           p.config.N,
		Stop:        p.config.Stop,
		Temperature: p.config.Temperature,
		TopP:        p.config.TopP,
	})
	if err != nil {
		return "", &ProviderError{Provider: "openai", Message: "failed to marshal request", Err: err}
	}

	attempts := 1 + p.config.Retries
	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			p.logf("↻ retry %d/%d\n", attempt, p.config.Retries)
		}

		content, err := p.complete(ctx, body)
		if err == nil {
			p.logf("← response: %s\n", content)
			return content, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			break
		}
	}
	return "", lastErr
}

// complete performs one request/response round trip
func (p *OpenAIProvider) complete(ctx context.Context, body []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.config.URL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", &ProviderError{Provider: "openai", Message: "failed to create HTTP request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.config.APIKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return "", &ProviderError{Provider: "openai", Message: fmt.Sprintf("HTTP request failed: %v", err), Err: ErrRequestFailed}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return "", &ProviderError{
			Provider: "openai",
			Message:  fmt.Sprintf("HTTP %d: %s", resp.StatusCode, string(respBody)),
			Err:      ErrRequestFailed,
		}
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", &ProviderError{Provider: "openai", Message: fmt.Sprintf("failed to decode response: %v", err), Err: ErrRequestFailed}
	}

	if len(parsed.Choices) == 0 || parsed.Choices[0].Message == nil || parsed.Choices[0].Message.Content == "" {
		return "", &ProviderError{Provider: "openai", Message: "response carries no message content", Err: ErrMalformedResponse}
	}

	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}

// TestConnection verifies the endpoint is accessible via its models listing
func (p *OpenAIProvider) TestConnection(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.config.URL+"/models", nil)
	if err != nil {
		return &ProviderError{Provider: "openai", Message: "failed to create test request", Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+p.config.APIKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return &ProviderError{Provider: "openai", Message: "connection test failed", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &ProviderError{
			Provider: "openai",
			Message:  fmt.Sprintf("connection test returned HTTP %d", resp.StatusCode),
		}
	}
	return nil
}

// ModelInfo returns information about the configured model
func (p *OpenAIProvider) ModelInfo() ModelInfo {
	return ModelInfo{
		Name:     p.config.Model,
		Provider: "openai",
	}
}
