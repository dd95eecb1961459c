package gitfetch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"
)

// makeSourceRepo builds a local repository with three commits so a clone has
// history to preserve.
func makeSourceRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	wt, err := repo.Worktree()
	require.NoError(t, err)
	for _, rev := range []string{"one", "two", "three"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "file.txt"), []byte(rev+"\n"), 0o644))
		_, err = wt.Add("file.txt")
		require.NoError(t, err)
		_, err = wt.Commit(rev, &git.CommitOptions{
			Author: &object.Signature{Name: "tester", Email: "tester@example.com", When: time.Now()},
		})
		require.NoError(t, err)
	}
	return dir
}

func TestFetch_FullHistory(t *testing.T) {
	src := makeSourceRepo(t)
	dest := filepath.Join(t.TempDir(), "clone")

	require.NoError(t, NewGitFetcher().Fetch(context.Background(), src, dest))

	repo, err := git.PlainOpen(dest)
	require.NoError(t, err)
	head, err := repo.Head()
	require.NoError(t, err)
	iter, err := repo.Log(&git.LogOptions{From: head.Hash()})
	require.NoError(t, err)
	n := 0
	require.NoError(t, iter.ForEach(func(*object.Commit) error { n++; return nil }))
	require.Equal(t, 3, n, "clone must carry the full commit history")
}

func TestFetch_BadURL(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "clone")
	err := NewGitFetcher().Fetch(context.Background(), filepath.Join(t.TempDir(), "not-a-repo"), dest)
	require.Error(t, err)
	require.Contains(t, err.Error(), "clone")
}
