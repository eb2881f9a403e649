package postgres

import (
	"context"
	"fmt"

	"github.com/vietddude/liveboard/internal/core/domain"
)

// ReportRepo implements storage.ErrorReportRepository using PostgreSQL.
type ReportRepo struct {
	db *DB
}

// NewReportRepo creates a new PostgreSQL error report repository.
func NewReportRepo(db *DB) *ReportRepo {
	return &ReportRepo{db: db}
}

// SaveReport stores an error report.
func (r *ReportRepo) SaveReport(ctx context.Context, report *domain.ErrorReport) error {
	query := `
		INSERT INTO error_reports
			(id, feature, category, status, message, kind, stack, attempts, last_connected_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.ExecContext(ctx, query,
		report.ID,
		report.Feature,
		string(report.Category),
		string(report.Status),
		report.Message,
		report.Kind,
		report.Stack,
		report.Attempts,
		report.LastConnectedAt,
		report.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save error report: %w", err)
	}
	return nil
}

// Recent returns the newest reports for a feature, newest first.
func (r *ReportRepo) Recent(ctx context.Context, feature string, limit int) ([]*domain.ErrorReport, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, feature, category, status, message, kind, stack, attempts, last_connected_at, created_at
		FROM error_reports
		WHERE feature = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	var reports []*domain.ErrorReport
	if err := r.db.SelectContext(ctx, &reports, query, feature, limit); err != nil {
		return nil, fmt.Errorf("failed to list error reports: %w", err)
	}
	return reports, nil
}

// Count counts stored reports for a feature.
func (r *ReportRepo) Count(ctx context.Context, feature string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM error_reports WHERE feature = $1`
	if err := r.db.GetContext(ctx, &count, query, feature); err != nil {
		return 0, fmt.Errorf("failed to count error reports: %w", err)
	}
	return count, nil
}
