package ai

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/fake"
)

// recordingModel implements llms.Model and records what it was sent.
type recordingModel struct {
	messages []llms.MessageContent
	response *llms.ContentResponse
	err      error
}

func (m *recordingModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	m.messages = messages
	if m.err != nil {
		return nil, m.err
	}
	return m.response, nil
}

func (m *recordingModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, m, prompt, options...)
}

func TestModelGenerator_GenerateText(t *testing.T) {
	ctx := context.Background()

	t.Run("returns first choice", func(t *testing.T) {
		gen := NewModelGenerator(fake.NewFakeLLM([]string{`{"reportContent":"X"}`}))

		text, err := gen.GenerateText(ctx, "guard", "prompt")
		require.NoError(t, err)
		assert.Equal(t, `{"reportContent":"X"}`, text)
	})

	t.Run("sends all parts in one human message", func(t *testing.T) {
		model := &recordingModel{
			response: &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: "ok"}}},
		}
		gen := NewModelGenerator(model)

		_, err := gen.GenerateText(ctx, "guard", "prompt")
		require.NoError(t, err)

		require.Len(t, model.messages, 1)
		assert.Equal(t, llms.ChatMessageTypeHuman, model.messages[0].Role)
		require.Len(t, model.messages[0].Parts, 2)
		assert.Equal(t, llms.TextPart("guard"), model.messages[0].Parts[0])
		assert.Equal(t, llms.TextPart("prompt"), model.messages[0].Parts[1])
	})

	t.Run("no choices yields empty text", func(t *testing.T) {
		model := &recordingModel{response: &llms.ContentResponse{}}
		gen := NewModelGenerator(model)

		text, err := gen.GenerateText(ctx, "prompt")
		require.NoError(t, err)
		assert.Empty(t, text)
	})

	t.Run("model error is returned", func(t *testing.T) {
		boom := errors.New("quota exceeded")
		gen := NewModelGenerator(&recordingModel{err: boom})

		text, err := gen.GenerateText(ctx, "prompt")
		assert.ErrorIs(t, err, boom)
		assert.Empty(t, text)
	})

	t.Run("no parts is rejected before calling the model", func(t *testing.T) {
		model := &recordingModel{}
		gen := NewModelGenerator(model)

		_, err := gen.GenerateText(ctx)
		assert.ErrorIs(t, err, ErrEmptyPrompt)
		assert.Nil(t, model.messages)
	})
}
