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

package googleai

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/poiesic/reportgen/ai"
	"github.com/tmc/langchaingo/llms/googleai"
)

// maxOutputTokens is the output ceiling of the gemini-2.0-flash family.
const maxOutputTokens = 8192

// Provider implements ai.AIProvider using the Google AI (Gemini) API.
type Provider struct {
	config    *ai.Config
	client    *googleai.GoogleAI
	generator *ai.ModelGenerator
	logger    *slog.Logger
}

// NewProvider creates a Gemini-backed provider.
// The config is validated before any client is created, so a missing API key
// fails with ai.ErrMissingAPIKey without touching the network.
//
// Returns ai.AIProvider interface (not *Provider) to enforce abstraction.
func NewProvider(ctx context.Context, config *ai.Config) (ai.AIProvider, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if config.Backend != ai.BackendGoogleAI {
		return nil, fmt.Errorf("%w: googleai provider cannot serve %q", ai.ErrUnknownBackend, config.Backend)
	}

	client, err := googleai.New(ctx,
		googleai.WithAPIKey(config.APIKey),
		googleai.WithDefaultModel(config.Model),
		googleai.WithDefaultMaxTokens(maxOutputTokens),
	)
	if err != nil {
		return nil, err
	}

	return &Provider{
		config:    config,
		client:    client,
		generator: ai.NewModelGenerator(client),
		logger:    slog.Default().With("component", "googleai-provider"),
	}, nil
}

// Generator returns the text generation service.
func (p *Provider) Generator() ai.TextGenerator {
	return p.generator
}

// Model returns the configured Gemini model identifier.
func (p *Provider) Model() string {
	return p.config.Model
}

// Close releases the underlying gRPC connection.
func (p *Provider) Close() error {
	p.logger.Debug("closing Google AI provider")
	return p.client.Close()
}
