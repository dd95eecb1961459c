package checks

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/scanyard/scanyard/internal/check"
	"github.com/scanyard/scanyard/internal/issue"
)

const (
	coverageFileName  = "coverage.json"
	coverageThreshold = 80.0
)

func init() { check.Register(coverageCheck{}) }

// coverageCheck reads a coverage.py-style coverage.json at the repository
// root and emits a single repo-level issue when aggregate coverage falls
// below the threshold. A missing or malformed report is not a finding.
type coverageCheck struct{}

func (coverageCheck) ID() string { return "coverage" }

func (coverageCheck) Run(ctx context.Context, repoPath string) ([]issue.Issue, error) {
	b, err := os.ReadFile(filepath.Join(repoPath, coverageFileName))
	if err != nil {
		return nil, nil
	}

	var report map[string]json.RawMessage
	if err := json.Unmarshal(b, &report); err != nil {
		return nil, nil
	}
	// Both keys are required by the coverage.py JSON shape; anything else is
	// some other tool's coverage.json and is left alone.
	totalsRaw, ok := report["totals"]
	if _, hasMeta := report["meta"]; !ok || !hasMeta {
		return nil, nil
	}
	var totals struct {
		PercentCovered float64 `json:"percent_covered"`
	}
	if err := json.Unmarshal(totalsRaw, &totals); err != nil {
		return nil, nil
	}

	if totals.PercentCovered >= coverageThreshold {
		return nil, nil
	}
	return []issue.Issue{{
		Kind:    issue.KindCoverage,
		File:    coverageFileName,
		Line:    1,
		Code:    "LOW_COVERAGE",
		Message: fmt.Sprintf("Test coverage is %.2f%%, which is below the %.0f%% threshold.", totals.PercentCovered, coverageThreshold),
	}}, nil
}
