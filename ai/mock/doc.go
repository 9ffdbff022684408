// Package mock provides test double implementations of AI service interfaces.
//
// This package contains mock implementations of ai.TextGenerator and
// ai.AIProvider for use in unit tests. The mocks allow tests to run without
// a model API and enable controlled, deterministic responses.
//
// # Usage in Tests
//
//	// Fixed response
//	provider := mock.NewMockProvider(`{"reportContent":"# Report"}`)
//
//	// Custom behavior injection
//	gen := mock.NewMockGenerator("").
//	    WithGenerateTextFunc(func(ctx context.Context, parts ...string) (string, error) {
//	        return "", errors.New("quota exceeded")
//	    })
//
//	// Check calls
//	count := gen.CallCount()
//	parts := gen.LastParts()
package mock
