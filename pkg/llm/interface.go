package llm

import (
	"context"
	"errors"
	"time"
)

// Provider represents a generic chat-completion provider
type Provider interface {
	// Complete sends a single system+user exchange and returns the first
	// choice's message content, trimmed of surrounding whitespace
	Complete(ctx context.Context, prompt Prompt) (string, error)

	// TestConnection verifies the provider endpoint is accessible
	TestConnection(ctx context.Context) error

	// ModelInfo returns information about the configured model
	ModelInfo() ModelInfo
}

// Prompt is the two-message exchange sent with every request
type Prompt struct {
	System string
	User   string
}

// ModelInfo contains information about the configured model
type ModelInfo struct {
	Name     string
	Provider string
}

// Config represents configuration for completion providers
type Config struct {
	Provider    string        // Provider type (openai-compatible by default)
	URL         string        // Endpoint base URL
	APIKey      string        // Bearer credential
	Model       string        // Model identifier
	MaxTokens   int           // Completion token limit
	N           int           // Number of completions requested
	Stop        []string      // Stop sequences
	Temperature float64       // Sampling temperature
	TopP        float64       // Nucleus sampling parameter
	Retries     int           // Additional attempts after a failed request
	Timeout     time.Duration // Per-request timeout
}

// Failure kinds surfaced by providers. Callers treat both as
// "no content produced" and continue with the next declaration.
var (
	ErrRequestFailed     = errors.New("completion request failed")
	ErrMalformedResponse = errors.New("malformed completion response")
)

// ProviderError wraps a provider failure with its origin
type ProviderError struct {
	Provider string
	Message  string
	Err      error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return e.Provider + ": " + e.Message + ": " + e.Err.Error()
	}
	return e.Provider + ": " + e.Message
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
