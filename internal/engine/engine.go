// Package engine runs every registered check against a repository and
// consolidates the findings into the single result artifact the scan
// orchestrator reads back. It is the part of scanyard that executes inside
// the isolated scanner container.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/scanyard/scanyard/internal/check"
	"github.com/scanyard/scanyard/internal/issue"
)

// Engine executes a fixed set of checks sequentially and aggregates their
// issues in check order.
type Engine struct {
	log    *slog.Logger
	checks []check.Check
}

// New builds an engine over an explicit check set. Most callers want
// Default; an explicit set is for tests and embedders.
func New(log *slog.Logger, checks []check.Check) *Engine {
	return &Engine{log: log, checks: checks}
}

// Default builds an engine over every registered check, in registration
// order.
func Default(log *slog.Logger) *Engine {
	return New(log, check.All())
}

// RunAll runs every check against repoPath and returns the concatenated
// issues. Each check is failure-isolated: an error or panic is logged with
// the check's identity and contributes zero issues, and the remaining
// checks still run. RunAll always returns, whatever the checks do.
func (e *Engine) RunAll(ctx context.Context, repoPath string) []issue.Issue {
	if len(e.checks) == 0 {
		e.log.Warn("no checks registered; producing empty result")
		return []issue.Issue{}
	}

	all := make([]issue.Issue, 0, 64)
	for _, c := range e.checks {
		start := time.Now()
		found, err := runIsolated(ctx, c, repoPath)
		if err != nil {
			e.log.Error("check failed",
				"check", c.ID(),
				"error", err,
				"duration", time.Since(start))
			continue
		}
		e.log.Info("check finished",
			"check", c.ID(),
			"issues", len(found),
			"duration", time.Since(start))
		all = append(all, found...)
	}
	return all
}

// Run executes RunAll and writes the artifact to outputPath. Writing is the
// final step and the only failure Run surfaces: a check failure never makes
// it here, but an unwritable artifact must, so the caller can exit non-zero
// and the orchestrator sees a missing artifact instead of a stale one.
func (e *Engine) Run(ctx context.Context, repoPath, outputPath string) ([]issue.Issue, error) {
	issues := e.RunAll(ctx, repoPath)
	if err := issue.WriteArtifact(outputPath, issues); err != nil {
		return nil, fmt.Errorf("write result artifact: %w", err)
	}
	e.log.Info("result artifact written", "path", outputPath, "total_issues", len(issues))
	return issues, nil
}

// runIsolated invokes one check, converting a panic into an error so a
// misbehaving check cannot take down the run.
func runIsolated(ctx context.Context, c check.Check, repoPath string) (found []issue.Issue, err error) {
	defer func() {
		if r := recover(); r != nil {
			found = nil
			err = fmt.Errorf("check panicked: %v", r)
		}
	}()
	return c.Run(ctx, repoPath)
}
