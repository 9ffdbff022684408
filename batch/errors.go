package batch

import "errors"

var (
	// ErrGeneratorRequired is returned when a report generator is not provided.
	ErrGeneratorRequired = errors.New("report generator required")

	// ErrRunnerReleased is returned for reports that could not be scheduled
	// because the runner's pool was released.
	ErrRunnerReleased = errors.New("batch runner released")
)
