package openai

import (
	"testing"

	"github.com/poiesic/reportgen/ai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProvider(t *testing.T) {
	t.Run("local server without key", func(t *testing.T) {
		cfg := ai.NewConfig(
			ai.WithBackend(ai.BackendOpenAI),
			ai.WithHost("http://localhost:11434"),
			ai.WithModel("qwen2.5:7b"),
		)

		provider, err := NewProvider(cfg)
		require.NoError(t, err)
		require.NotNil(t, provider)
		defer provider.Close()

		assert.Equal(t, "qwen2.5:7b", provider.Model())
		assert.NotNil(t, provider.Generator())
		// Validate normalized the host
		assert.Equal(t, "http://localhost:11434/v1", cfg.Host)
	})

	t.Run("missing host", func(t *testing.T) {
		cfg := ai.NewConfig(ai.WithBackend(ai.BackendOpenAI))

		provider, err := NewProvider(cfg)
		assert.ErrorIs(t, err, ai.ErrHostRequired)
		assert.Nil(t, provider)
	})

	t.Run("googleai config is rejected", func(t *testing.T) {
		cfg := ai.NewConfig(ai.WithAPIKey("key"))

		provider, err := NewProvider(cfg)
		assert.ErrorIs(t, err, ai.ErrUnknownBackend)
		assert.Nil(t, provider)
	})
}
