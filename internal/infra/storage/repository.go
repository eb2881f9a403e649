// Package storage defines repository interfaces for persisted dashboard data.
package storage

import (
	"context"

	"github.com/vietddude/liveboard/internal/core/domain"
)

// ErrorReportRepository persists captured render failures.
type ErrorReportRepository interface {
	// SaveReport stores a new error report.
	SaveReport(ctx context.Context, report *domain.ErrorReport) error

	// Recent returns the newest reports for a feature, newest first.
	Recent(ctx context.Context, feature string, limit int) ([]*domain.ErrorReport, error)

	// Count counts all stored reports for a feature.
	Count(ctx context.Context, feature string) (int, error)
}
