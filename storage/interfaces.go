package storage

import (
	"context"
	"time"

	"github.com/poiesic/reportgen/core"
)

// Repository provides common storage operations shared across all repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// Close closes the storage backend and releases resources.
	Close() error
}

// ReportRepository archives generated reports.
type ReportRepository interface {
	Repository

	// SaveReport stores a report.
	// Generates a new ID if the report has none.
	// Sets CreatedAt if not already set.
	// Returns ErrDuplicateKey if a report with the same ID exists.
	// Returns the report with ID and CreatedAt populated.
	SaveReport(ctx context.Context, report *core.ArchivedReport) (*core.ArchivedReport, error)

	// GetReport retrieves a single report by ID.
	// Returns ErrNotFound if the report doesn't exist.
	GetReport(ctx context.Context, id string) (*core.ArchivedReport, error)

	// GetRecentReports retrieves the N most recent reports, ordered by CreatedAt descending.
	// Returns ErrInvalidQuery if limit is not positive.
	GetRecentReports(ctx context.Context, limit int) ([]*core.ArchivedReport, error)

	// GetReportsByDateRange retrieves reports where start <= CreatedAt < end,
	// ordered by CreatedAt ascending.
	GetReportsByDateRange(ctx context.Context, start, end time.Time) ([]*core.ArchivedReport, error)

	// FindByFingerprint returns the most recently saved report whose prompt
	// fingerprint matches. Returns ErrNotFound if there is none.
	FindByFingerprint(ctx context.Context, fingerprint core.ID) (*core.ArchivedReport, error)

	// DeleteReport removes a report and its indices.
	// Returns ErrNotFound if the report doesn't exist.
	DeleteReport(ctx context.Context, id string) error
}
