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

package openai

import (
	"fmt"
	"log/slog"

	"github.com/poiesic/reportgen/ai"
	"github.com/tmc/langchaingo/llms/openai"
)

// Provider implements ai.AIProvider using OpenAI-compatible services.
type Provider struct {
	config    *ai.Config
	generator *ai.ModelGenerator
	logger    *slog.Logger
}

// NewProvider creates a new AI provider with an OpenAI-compatible chat client.
// The config is validated and normalized before use.
//
// Returns ai.AIProvider interface (not *Provider) to enforce abstraction
// and prevent coupling to OpenAI-specific implementation details.
func NewProvider(config *ai.Config) (ai.AIProvider, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if config.Backend != ai.BackendOpenAI {
		return nil, fmt.Errorf("%w: openai provider cannot serve %q", ai.ErrUnknownBackend, config.Backend)
	}

	// Use "none" as token for local OpenAI-compatible services that don't require authentication
	token := config.APIKey
	if token == "" {
		token = "none"
	}

	client, err := openai.New(
		openai.WithBaseURL(config.Host),
		openai.WithToken(token),
		openai.WithModel(config.Model),
	)
	if err != nil {
		return nil, err
	}

	return &Provider{
		config:    config,
		generator: ai.NewModelGenerator(client),
		logger:    slog.Default().With("component", "openai-provider"),
	}, nil
}

// Generator returns the text generation service.
func (p *Provider) Generator() ai.TextGenerator {
	return p.generator
}

// Model returns the configured model identifier.
func (p *Provider) Model() string {
	return p.config.Model
}

// Close releases resources held by the provider.
// Currently a no-op as the underlying HTTP client doesn't require explicit cleanup.
func (p *Provider) Close() error {
	p.logger.Debug("closing OpenAI provider")
	return nil
}
