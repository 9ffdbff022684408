package ai

import "context"

// TextGenerator produces text from a prompt with a single model call.
// Implementations must be thread-safe for concurrent use.
type TextGenerator interface {
	// GenerateText sends the given prompt parts to the model as one user
	// message and returns the text of the first response candidate.
	// Returns an empty string if the model produced no candidates.
	// Returns an error if the call fails. The call is never retried.
	GenerateText(ctx context.Context, parts ...string) (string, error)
}

// AIProvider aggregates the model services used for report generation.
type AIProvider interface {
	// Generator returns the text generation service.
	// The returned TextGenerator is safe for concurrent use.
	Generator() TextGenerator

	// Model returns the identifier of the model behind the generator.
	Model() string

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
