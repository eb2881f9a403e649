// Package memory provides an in-memory error report store for tests and
// database-less deployments.
package memory

import (
	"context"
	"sync"

	"github.com/vietddude/liveboard/internal/core/domain"
)

// ReportStore is an in-memory storage.ErrorReportRepository.
type ReportStore struct {
	mu      sync.Mutex
	reports []*domain.ErrorReport
}

// NewReportStore creates an empty store.
func NewReportStore() *ReportStore {
	return &ReportStore{}
}

// SaveReport stores an error report.
func (s *ReportStore) SaveReport(ctx context.Context, report *domain.ErrorReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *report
	s.reports = append(s.reports, &copied)
	return nil
}

// Recent returns the newest reports for a feature, newest first.
func (s *ReportStore) Recent(ctx context.Context, feature string, limit int) ([]*domain.ErrorReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*domain.ErrorReport
	for i := len(s.reports) - 1; i >= 0; i-- {
		if s.reports[i].Feature != feature {
			continue
		}
		copied := *s.reports[i]
		out = append(out, &copied)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

// Count counts stored reports for a feature.
func (s *ReportStore) Count(ctx context.Context, feature string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, r := range s.reports {
		if r.Feature == feature {
			count++
		}
	}
	return count, nil
}
