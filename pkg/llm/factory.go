package llm

import (
	"fmt"
	"strings"
	"time"
)

// NewProvider creates a new completion provider based on the configuration
func NewProvider(config *Config) (Provider, error) {
	if config == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}

	switch strings.ToLower(config.Provider) {
	case "openai", "":
		// Any OpenAI-compatible endpoint; the default.
		return NewOpenAIProvider(config), nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", config.Provider)
	}
}

// DefaultConfig returns a default provider configuration
func DefaultConfig() *Config {
	return &Config{
		Provider:    "openai",
		URL:         "https://api.openai.com/v1",
		Model:       "gpt-4o-mini",
		MaxTokens:   1024,
		N:           1,
		Temperature: 0.2,
		TopP:        1.0,
		Retries:     0,
		Timeout:     120 * time.Second,
	}
}
