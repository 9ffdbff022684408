package ai

import "errors"

var (
	// ErrMissingAPIKey is returned when the Google AI backend is selected
	// and GOOGLE_GENAI_API_KEY is not set.
	ErrMissingAPIKey = errors.New("ai config: GOOGLE_GENAI_API_KEY is required")

	// ErrUnknownBackend is returned for a backend name other than googleai or openai.
	ErrUnknownBackend = errors.New("ai config: unknown backend")

	// ErrModelRequired is returned when no model identifier is configured.
	ErrModelRequired = errors.New("ai config: Model is required")

	// ErrHostRequired is returned when the openai backend has no host.
	ErrHostRequired = errors.New("ai config: Host is required for the openai backend")

	// ErrEmptyPrompt is returned when GenerateText is called without parts.
	ErrEmptyPrompt = errors.New("prompt cannot be empty")
)
