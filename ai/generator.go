package ai

import (
	"context"
	"log/slog"

	"github.com/tmc/langchaingo/llms"
)

// ModelGenerator implements TextGenerator on top of any langchaingo model.
type ModelGenerator struct {
	model   llms.Model
	options []llms.CallOption
	logger  *slog.Logger
}

var _ TextGenerator = (*ModelGenerator)(nil)

// NewModelGenerator wraps a langchaingo model. The call options are passed
// to every GenerateContent call.
func NewModelGenerator(model llms.Model, options ...llms.CallOption) *ModelGenerator {
	return &ModelGenerator{
		model:   model,
		options: options,
		logger:  slog.Default().With("component", "model-generator"),
	}
}

// GenerateText sends all parts as a single human message.
func (g *ModelGenerator) GenerateText(ctx context.Context, parts ...string) (string, error) {
	if len(parts) == 0 {
		return "", ErrEmptyPrompt
	}

	contentParts := make([]llms.ContentPart, 0, len(parts))
	for _, part := range parts {
		contentParts = append(contentParts, llms.TextPart(part))
	}
	content := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: contentParts,
		},
	}

	response, err := g.model.GenerateContent(ctx, content, g.options...)
	if err != nil {
		g.logger.Error("failed to generate content", "err", err)
		return "", err
	}

	if len(response.Choices) < 1 {
		g.logger.Debug("no choices returned from model")
		return "", nil
	}

	text := response.Choices[0].Content
	g.logger.Debug("generated content", "length", len(text))
	return text, nil
}
