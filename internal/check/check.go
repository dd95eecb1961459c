// Package check defines the contract every analysis check implements and the
// registry the execution engine discovers checks through. Checks register
// themselves in init(), so adding a check never touches the engine.
package check

import (
	"context"
	"fmt"
	"sync"

	"github.com/scanyard/scanyard/internal/issue"
)

// Check is one independent analysis routine. Implementations must treat
// repoPath as read-only, must not assume network access, must tolerate
// arbitrary repository content, and must return an empty slice (not an
// error) when their precondition is not met — e.g. a history-based check
// finding no version-control metadata.
type Check interface {
	// ID is the stable identifier used in logs and for enable/disable lists.
	ID() string

	// Run analyzes the repository at repoPath and returns its findings.
	Run(ctx context.Context, repoPath string) ([]issue.Issue, error)
}

var (
	mu       sync.Mutex
	registry []Check
	byID     = map[string]bool{}
)

// Register adds a check to the registry. Registration order is execution
// order, which keeps the aggregated issue sequence deterministic. Duplicate
// IDs panic: they indicate a programming error, not a runtime condition.
func Register(c Check) {
	mu.Lock()
	defer mu.Unlock()
	if byID[c.ID()] {
		panic(fmt.Sprintf("check %q registered twice", c.ID()))
	}
	byID[c.ID()] = true
	registry = append(registry, c)
}

// All returns the registered checks in registration order. The returned
// slice is a copy; callers may not mutate the registry through it.
func All() []Check {
	mu.Lock()
	defer mu.Unlock()
	out := make([]Check, len(registry))
	copy(out, registry)
	return out
}

// IDs returns the registered check IDs in registration order.
func IDs() []string {
	checks := All()
	ids := make([]string, len(checks))
	for n, c := range checks {
		ids[n] = c.ID()
	}
	return ids
}
