// Package config loads the tool configuration from a YAML file in the
// working directory and resolves the completion API credential from the
// environment, honoring a local .env secrets file.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

// DefaultPath is the fixed relative path the configuration is read from.
const DefaultPath = "tsdocllm.yaml"

// APIKeyEnvVar names the environment variable holding the API credential.
const APIKeyEnvVar = "OPENAI_API_KEY"

// DefaultLanguage is the template language used when no language code is
// given or the requested one is not configured.
const DefaultLanguage = "en"

// Template holds the prompt fragments for one generation variant.
// The before/after fragments may contain the placeholder tokens
// {className}, {methodName} and {testFileName}.
type Template struct {
	System string `yaml:"system"`
	Before string `yaml:"before"`
	After  string `yaml:"after"`
}

// Templates groups the prompt templates of one language.
type Templates struct {
	Document Template `yaml:"document"`
	Tests    Template `yaml:"tests"`
}

// Model holds the completion endpoint invocation parameters, sent verbatim
// with every request.
type Model struct {
	Name        string   `yaml:"name"`
	MaxTokens   int      `yaml:"maxTokens"`
	N           int      `yaml:"n"`
	Stop        []string `yaml:"stop"`
	Temperature float64  `yaml:"temperature"`
	TopP        float64  `yaml:"topP"`
	Retries     int      `yaml:"retries"`
}

// Config is the root configuration record, loaded once at startup.
type Config struct {
	MinLength int                  `yaml:"minLength"`
	Endpoint  string               `yaml:"endpoint"`
	Model     Model                `yaml:"model"`
	Languages map[string]Templates `yaml:"languages"`
}

// Load reads and parses the configuration file at the given path.
// A missing or malformed file is a fatal startup condition for the caller.
func Load(path string) (*Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(content, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("config %s: endpoint must be set", path)
	}
	if cfg.Model.Name == "" {
		return nil, fmt.Errorf("config %s: model.name must be set", path)
	}
	if _, ok := cfg.Languages[DefaultLanguage]; !ok {
		return nil, fmt.Errorf("config %s: languages.%s must be present", path, DefaultLanguage)
	}
	return &cfg, nil
}

// TemplatesFor returns the templates for the given language code, falling
// back to the default language when the code is empty or unconfigured.
func (c *Config) TemplatesFor(lang string) Templates {
	if lang != "" {
		if t, ok := c.Languages[lang]; ok {
			return t
		}
	}
	return c.Languages[DefaultLanguage]
}

// ResolveAPIKey loads a .env file from the working directory if present and
// returns the API credential from the environment. An absent credential is
// a fatal startup condition for the caller.
func ResolveAPIKey() (string, error) {
	// Missing .env is fine; the variable may be exported directly.
	_ = godotenv.Load()

	key := os.Getenv(APIKeyEnvVar)
	if key == "" {
		return "", fmt.Errorf("environment variable %s is not set; export it or add it to a local .env file", APIKeyEnvVar)
	}
	return key, nil
}
