// Package orchestrator turns a repository URL into a scan result. It owns
// every external resource a job touches — the temp workspace, the clone, the
// scanner container — and guarantees all of them are gone when RunScan
// returns, whatever path it returned by.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/scanyard/scanyard/internal/gitfetch"
	"github.com/scanyard/scanyard/internal/issue"
	"github.com/scanyard/scanyard/internal/runtime"
	"github.com/scanyard/scanyard/internal/workspace"
)

// Container-side mount points. The scanner image's entrypoint reads the
// repository from ContainerRepoPath and writes its artifact under
// ContainerOutputPath.
const (
	ContainerRepoPath   = "/repo"
	ContainerOutputPath = "/output"
)

// DefaultTimeout bounds the scanner container's wall-clock time when the
// caller does not choose one.
const DefaultTimeout = 60 * time.Second

// teardownBudget bounds the container stop/remove calls during teardown so
// a wedged daemon cannot hold a finished job open forever.
const teardownBudget = 30 * time.Second

// Status is a scan job's lifecycle state.
type Status string

const (
	StatusCreated   Status = "CREATED"
	StatusFetching  Status = "FETCHING"
	StatusRunning   Status = "RUNNING"
	StatusSucceeded Status = "SUCCEEDED"
	StatusTimedOut  Status = "TIMED_OUT"
	StatusFailed    Status = "FAILED"
	StatusTornDown  Status = "TORN_DOWN"
)

// ScanJob is the orchestrator-owned state of one scan execution. It is
// created at job start, mutated only here, and fully dismantled before
// RunScan returns.
type ScanJob struct {
	ID        string
	Workspace *workspace.Workspace
	Status    Status
	Container runtime.Handle
	ExitCode  int64
	Logs      string
}

// ScanResult is the caller-facing outcome of a successful scan. A scan
// either fully succeeds with an issue list (possibly empty) or fails with a
// *Error; partial failure is absorbed by the engine inside the container.
type ScanResult struct {
	TotalIssues int           `json:"total_issues"`
	Issues      []issue.Issue `json:"issues"`
	// Warning flags a non-zero scanner exit that still produced a valid
	// artifact. Informational: a single failing check exits this way.
	Warning string `json:"warning,omitempty"`
}

// Orchestrator executes scan jobs. It is safe to use concurrently: each job
// owns disjoint job-scoped paths and its own container.
type Orchestrator struct {
	fetcher gitfetch.Fetcher
	rt      runtime.Runtime
	log     *slog.Logger
	baseDir string
}

// Option adjusts orchestrator construction.
type Option func(*Orchestrator)

// WithBaseDir places job workspaces under dir instead of the system temp
// directory.
func WithBaseDir(dir string) Option {
	return func(o *Orchestrator) { o.baseDir = dir }
}

// New wires an orchestrator from its collaborators.
func New(fetcher gitfetch.Fetcher, rt runtime.Runtime, log *slog.Logger, opts ...Option) *Orchestrator {
	o := &Orchestrator{fetcher: fetcher, rt: rt, log: log}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// RunScan clones repoURL, runs the scanner image against it, and returns the
// aggregated issues. timeout bounds only the container's runtime; zero or
// negative selects DefaultTimeout. On failure the returned error is always a
// *Error carrying the failed stage and any captured container logs.
//
// Teardown is unconditional: by the time RunScan returns, the workspace
// directory no longer exists and any container it created has been stopped
// and removed.
func (o *Orchestrator) RunScan(ctx context.Context, repoURL, image string, timeout time.Duration) (*ScanResult, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	job := &ScanJob{ID: uuid.NewString(), Status: StatusCreated}
	log := o.log.With("job_id", job.ID, "repo", repoURL)
	log.Info("scan job starting", "image", image, "timeout", timeout)

	ws, err := workspace.New(o.baseDir, job.ID)
	if err != nil {
		return nil, &Error{Stage: StageInfra, Msg: "workspace setup failed", Err: err}
	}
	job.Workspace = ws
	defer o.teardown(job, log)

	job.Status = StatusFetching
	if err := o.fetcher.Fetch(ctx, repoURL, ws.RepoDir); err != nil {
		job.Status = StatusFailed
		return nil, &Error{Stage: StageFetch, Msg: "repository fetch failed", Err: err}
	}
	log.Info("repository fetched", "dest", ws.RepoDir)

	handle, err := o.rt.Run(ctx, image, []runtime.Mount{
		{Source: ws.RepoDir, Target: ContainerRepoPath, ReadOnly: true},
		{Source: ws.OutputDir, Target: ContainerOutputPath},
	})
	if err != nil {
		job.Status = StatusFailed
		return nil, &Error{Stage: StageInfra, Msg: "scanner launch failed", Err: err}
	}
	job.Container = handle
	job.Status = StatusRunning
	log.Info("scanner container started", "container", handle)

	exit, err := o.rt.Wait(ctx, handle, timeout)
	if errors.Is(err, runtime.ErrWaitTimeout) {
		job.Status = StatusTimedOut
		return nil, &Error{
			Stage: StageTimeout,
			Msg:   fmt.Sprintf("scan timed out after %d seconds", int(timeout.Seconds())),
		}
	}
	if err != nil {
		job.Status = StatusFailed
		return nil, &Error{Stage: StageInfra, Msg: "waiting for scanner failed", Err: err}
	}
	job.ExitCode = exit.ExitCode

	// Logs are diagnostics, captured on success and failure alike; losing
	// them must not fail the job.
	logs, logsErr := o.rt.Logs(ctx, handle)
	if logsErr != nil {
		log.Error("capturing container logs failed", "error", logsErr)
	}
	job.Logs = logs
	log.Info("scanner container finished", "exit_code", exit.ExitCode)

	// The artifact's presence, not the exit code, is the success signal: a
	// failing check can exit non-zero after the engine wrote valid results.
	artifact := ws.ArtifactPath()
	if _, statErr := os.Stat(artifact); statErr != nil {
		job.Status = StatusFailed
		return nil, &Error{Stage: StageMissingOutput, Msg: "results not found", Logs: logs}
	}
	issues, err := issue.ReadArtifact(artifact)
	if err != nil {
		job.Status = StatusFailed
		return nil, &Error{Stage: StageMalformedOutput, Msg: "results artifact is malformed", Err: err, Logs: logs}
	}

	job.Status = StatusSucceeded
	result := &ScanResult{TotalIssues: len(issues), Issues: issues}
	if exit.ExitCode != 0 {
		result.Warning = fmt.Sprintf("scanner exited with code %d despite producing results", exit.ExitCode)
		log.Warn("non-zero scanner exit with valid artifact", "exit_code", exit.ExitCode)
	}
	log.Info("scan job succeeded", "total_issues", result.TotalIssues)
	return result, nil
}

// teardown releases everything a job acquired. Errors are logged, never
// raised: teardown must not mask the job's primary outcome.
func (o *Orchestrator) teardown(job *ScanJob, log *slog.Logger) {
	if err := job.Workspace.Remove(); err != nil {
		log.Error("workspace removal failed", "path", job.Workspace.Root, "error", err)
	}
	if job.Container != "" {
		// Detached from the scan context: a canceled scan still tears down.
		ctx, cancel := context.WithTimeout(context.Background(), teardownBudget)
		defer cancel()
		if err := o.rt.Stop(ctx, job.Container); err != nil {
			log.Error("container stop failed", "container", job.Container, "error", err)
		}
		if err := o.rt.Remove(ctx, job.Container); err != nil {
			log.Error("container remove failed", "container", job.Container, "error", err)
		}
	}
	job.Status = StatusTornDown
	log.Info("scan job torn down")
}
