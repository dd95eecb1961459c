// Package store persists completed scan results. Persistence is strictly
// best-effort from the scan's point of view: a storage failure is logged by
// the caller and never fails the scan that produced the result.
package store

import (
	"context"
	"time"

	"github.com/scanyard/scanyard/internal/issue"
)

// ScanRecord is one persisted scan summary.
type ScanRecord struct {
	ID          string    `json:"scan_id"`
	GitURL      string    `json:"git_url"`
	TotalIssues int       `json:"total_issues"`
	CreatedAt   time.Time `json:"created_at"`
}

// Store is the persistence contract. Available reports whether a backend is
// configured; when it returns false the other methods are no-ops and callers
// may skip them entirely.
type Store interface {
	Available() bool

	// PersistScan records a scan summary and returns its storage ID.
	PersistScan(ctx context.Context, gitURL string, totalIssues int) (string, error)

	// ArchiveIssues stores the raw issue list under a persisted scan.
	ArchiveIssues(ctx context.Context, scanID string, issues []issue.Issue) error

	// RecentScans returns the newest scan summaries, newest first.
	RecentScans(ctx context.Context, limit int) ([]ScanRecord, error)
}

// Noop is the explicit "storage disabled" implementation. It exists so the
// orchestration path never branches on a nil store.
type Noop struct{}

var _ Store = Noop{}

func (Noop) Available() bool { return false }

func (Noop) PersistScan(context.Context, string, int) (string, error) { return "", nil }

func (Noop) ArchiveIssues(context.Context, string, []issue.Issue) error { return nil }

func (Noop) RecentScans(context.Context, int) ([]ScanRecord, error) { return nil, nil }
