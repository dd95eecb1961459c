package core

import (
	"context"
	"io"
	"log/slog"

	"github.com/scanyard/scanyard/internal/check"
	"github.com/scanyard/scanyard/internal/engine"
	"github.com/scanyard/scanyard/internal/issue"

	// Register the built-in checks.
	_ "github.com/scanyard/scanyard/internal/checks"
)

// Re-export selected internal types as a stable public API surface.
// These are type aliases so external consumers can depend on a stable path.
// We can replace these with decoupled structs later without breaking callers.
type Issue = issue.Issue
type Kind = issue.Kind

// RunChecks is the stable in-process entrypoint for other programs: it runs
// every built-in check against repoPath and returns the issues, never an
// error for individual check failures.
func RunChecks(ctx context.Context, repoPath string) []Issue {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return engine.Default(log).RunAll(ctx, repoPath)
}

// CheckIDs returns the registered check IDs in execution order.
// This is exposed for convenience to avoid importing internals directly.
func CheckIDs() []string { return check.IDs() }
