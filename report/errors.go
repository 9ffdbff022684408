package report

import "errors"

var (
	// ErrGeneratorRequired is returned by NewGenerator when no text generator is supplied.
	ErrGeneratorRequired = errors.New("report: text generator is required")

	// ErrGenerationFailed wraps any failure of the model call.
	ErrGenerationFailed = errors.New("report generation failed")
)
