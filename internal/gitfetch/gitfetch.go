// Package gitfetch acquires the repository under scan. The fetch is always
// full-history: the churn check counts commits per file, and a shallow clone
// would quietly understate every count instead of failing loudly.
package gitfetch

import (
	"context"
	"fmt"

	git "github.com/go-git/go-git/v5"
)

// Fetcher obtains a repository into a destination directory.
type Fetcher interface {
	Fetch(ctx context.Context, url, dest string) error
}

// GitFetcher fetches over go-git with the transport's own timeouts; the
// orchestrator's wall clock only starts once the container is launched.
type GitFetcher struct{}

// NewGitFetcher returns the default full-history fetcher.
func NewGitFetcher() *GitFetcher { return &GitFetcher{} }

// Fetch clones url into dest with full history and all tags.
func (GitFetcher) Fetch(ctx context.Context, url, dest string) error {
	_, err := git.PlainCloneContext(ctx, dest, false, &git.CloneOptions{
		URL:  url,
		Tags: git.AllTags,
		// Depth deliberately left zero: full history.
	})
	if err != nil {
		return fmt.Errorf("clone %s: %w", url, err)
	}
	return nil
}
