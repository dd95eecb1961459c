// Package workspace manages the ephemeral, job-scoped directory layout a
// scan runs in: a repo directory the clone lands in and an output directory
// the scanner container writes its artifact to.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/scanyard/scanyard/internal/issue"
)

// Workspace is the on-disk footprint of one scan job. Every path is scoped
// to the job ID so concurrent jobs never collide.
type Workspace struct {
	JobID     string
	Root      string
	RepoDir   string
	OutputDir string
}

// New creates the workspace directories under baseDir. An empty baseDir
// falls back to the system temp directory. Any creation failure leaves no
// partial tree behind.
func New(baseDir, jobID string) (*Workspace, error) {
	if baseDir == "" {
		baseDir = os.TempDir()
	}
	root := filepath.Join(baseDir, jobID)
	ws := &Workspace{
		JobID:     jobID,
		Root:      root,
		RepoDir:   filepath.Join(root, "repo"),
		OutputDir: filepath.Join(root, "output"),
	}
	for _, dir := range []string{ws.RepoDir, ws.OutputDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			_ = os.RemoveAll(root)
			return nil, fmt.Errorf("create workspace dir %s: %w", dir, err)
		}
	}
	return ws, nil
}

// ArtifactPath is where the scanner container's result artifact appears on
// the host.
func (w *Workspace) ArtifactPath() string {
	return filepath.Join(w.OutputDir, issue.ArtifactName)
}

// Remove deletes the whole workspace tree.
func (w *Workspace) Remove() error {
	return os.RemoveAll(w.Root)
}
