package checks

import (
	"context"
	"fmt"
	"sort"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/scanyard/scanyard/internal/check"
	"github.com/scanyard/scanyard/internal/issue"
)

const (
	churnTopN      = 10
	churnThreshold = 5
)

func init() { check.Register(churnCheck{}) }

// churnCheck counts how often each file appears across the full commit
// history and flags the hottest ones. It needs a full clone: a shallow
// fetch silently understates every count.
type churnCheck struct{}

func (churnCheck) ID() string { return "churn" }

func (churnCheck) Run(ctx context.Context, repoPath string) ([]issue.Issue, error) {
	repo, err := git.PlainOpen(repoPath)
	if err != nil {
		// Not a git repository. The precondition is unmet, not an error.
		return nil, nil
	}
	head, err := repo.Head()
	if err != nil {
		// Empty repository or detached state with no resolvable HEAD.
		return nil, nil
	}
	iter, err := repo.Log(&git.LogOptions{From: head.Hash()})
	if err != nil {
		return nil, nil
	}
	defer iter.Close()

	counts := map[string]int{}
	err = iter.ForEach(func(c *object.Commit) error {
		if cerr := ctx.Err(); cerr != nil {
			return cerr
		}
		stats, serr := c.Stats()
		if serr != nil {
			// Unreadable commit (odd merges, missing objects); skip it.
			return nil
		}
		for _, s := range stats {
			counts[s.Name]++
		}
		return nil
	})
	if err != nil && ctx.Err() != nil {
		return nil, err
	}

	type fileCount struct {
		path  string
		count int
	}
	ranked := make([]fileCount, 0, len(counts))
	for p, n := range counts {
		ranked = append(ranked, fileCount{path: p, count: n})
	}
	// Count descending, path ascending on ties, so identical histories
	// always produce identical issue sequences.
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].count != ranked[j].count {
			return ranked[i].count > ranked[j].count
		}
		return ranked[i].path < ranked[j].path
	})
	if len(ranked) > churnTopN {
		ranked = ranked[:churnTopN]
	}

	var issues []issue.Issue
	for _, fc := range ranked {
		if fc.count <= churnThreshold {
			continue
		}
		issues = append(issues, issue.Issue{
			Kind:    issue.KindChurn,
			File:    fc.path,
			Line:    1,
			Code:    "HIGH_CHURN",
			Message: fmt.Sprintf("File has a high churn rate with %d commits.", fc.count),
		})
	}
	return issues, nil
}
