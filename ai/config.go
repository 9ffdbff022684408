// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ai

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

const (
	// BackendGoogleAI talks to the hosted Gemini API.
	BackendGoogleAI = "googleai"
	// BackendOpenAI talks to any OpenAI-compatible chat completion API.
	BackendOpenAI = "openai"

	// DefaultModel is the Gemini model used when none is configured.
	DefaultModel = "gemini-2.0-flash"
)

// Config holds configuration for the model provider.
// Fields carry env tags so LoadConfig can populate them from the process environment.
type Config struct {
	// Backend selects the provider implementation: "googleai" or "openai".
	// Default: googleai
	Backend string `env:"REPORTGEN_BACKEND"`

	// APIKey authenticates against the provider. Required for googleai.
	// For openai-compatible local servers it may be left empty.
	APIKey string `env:"GOOGLE_GENAI_API_KEY"`

	// Model is the model identifier.
	// Example: "gemini-2.0-flash", "qwen2.5:7b"
	Model string `env:"REPORTGEN_MODEL"`

	// Host is the base URL of an OpenAI-compatible API. Only used by the openai backend.
	// Example: "http://localhost:11434/v1"
	Host string `env:"REPORTGEN_HOST"`
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithBackend sets the provider backend.
func WithBackend(backend string) ConfigOption {
	return func(c *Config) {
		c.Backend = backend
	}
}

// WithAPIKey sets the API key.
func WithAPIKey(key string) ConfigOption {
	return func(c *Config) {
		c.APIKey = key
	}
}

// WithModel sets the model identifier.
func WithModel(model string) ConfigOption {
	return func(c *Config) {
		c.Model = model
	}
}

// WithHost sets the OpenAI-compatible host URL.
func WithHost(host string) ConfigOption {
	return func(c *Config) {
		c.Host = host
	}
}

// DefaultConfig returns a Config targeting Gemini. The API key is left empty.
func DefaultConfig() *Config {
	return &Config{
		Backend: BackendGoogleAI,
		Model:   DefaultModel,
	}
}

// NewConfig creates a Config with the default values and applies the provided options.
//
// Example:
//
//	cfg := NewConfig(
//	    WithAPIKey(os.Getenv("GOOGLE_GENAI_API_KEY")),
//	    WithModel("gemini-1.5-flash"),
//	)
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// LoadConfig builds a Config from the process environment.
// If envFile is non-empty and exists it is loaded first; variables already
// present in the environment take precedence over the file. Options are
// applied last and override both.
func LoadConfig(envFile string, opts ...ConfigOption) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("ai config: loading %s: %w", envFile, err)
		}
	}
	return configFromEnv(nil, opts...)
}

// configFromEnv parses environment variables over the defaults. A nil
// environ reads the process environment.
func configFromEnv(environ map[string]string, opts ...ConfigOption) (*Config, error) {
	cfg := DefaultConfig()
	var envOpts []env.Options
	if environ != nil {
		envOpts = append(envOpts, env.Options{Environment: environ})
	}
	if err := env.Parse(cfg, envOpts...); err != nil {
		return nil, fmt.Errorf("ai config: %w", err)
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg, nil
}

// Normalize ensures the configuration is in a canonical form.
// The backend name is lowercased and, for the openai backend, the /v1 suffix
// required by OpenAI-compatible APIs (Ollama, LocalAI, vLLM) is added to Host.
func (c *Config) Normalize() {
	c.Backend = strings.ToLower(strings.TrimSpace(c.Backend))
	if c.Backend == "" {
		c.Backend = BackendGoogleAI
	}
	c.APIKey = strings.TrimSpace(c.APIKey)

	if c.Backend == BackendOpenAI && c.Host != "" && !strings.HasSuffix(c.Host, "/v1") {
		c.Host = strings.TrimSuffix(c.Host, "/") + "/v1"
	}
}

// Validate checks that the configuration is valid and complete.
// It automatically normalizes the configuration before validation.
func (c *Config) Validate() error {
	c.Normalize()

	switch c.Backend {
	case BackendGoogleAI:
		if c.APIKey == "" {
			return ErrMissingAPIKey
		}
	case BackendOpenAI:
		if c.Host == "" {
			return ErrHostRequired
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownBackend, c.Backend)
	}

	if c.Model == "" {
		return ErrModelRequired
	}
	return nil
}
