// Package queue is the in-process asynchronous job layer: it accepts scan
// submissions, hands them to a bounded worker pool, and exposes task state
// to the API. It plays the role an external broker would in a larger
// deployment, behind the same submit/poll surface.
package queue

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/scanyard/scanyard/internal/orchestrator"
	"github.com/scanyard/scanyard/internal/store"
)

// State is the externally visible lifecycle of one queued task.
type State string

const (
	StatePending State = "pending"
	StateRunning State = "running"
	StateSuccess State = "success"
	StateFailure State = "failure"
)

// Task is the queue's record of one submitted scan.
type Task struct {
	ID          string                   `json:"task_id"`
	GitURL      string                   `json:"git_url"`
	State       State                    `json:"status"`
	Result      *orchestrator.ScanResult `json:"result,omitempty"`
	ScanID      string                   `json:"scan_id,omitempty"`
	Error       string                   `json:"error,omitempty"`
	Logs        string                   `json:"logs,omitempty"`
	SubmittedAt time.Time                `json:"submitted_at"`
	FinishedAt  time.Time                `json:"finished_at,omitzero"`
}

// ScanFunc executes one scan end to end. The orchestrator's RunScan is the
// production implementation, curried with image and timeout.
type ScanFunc func(ctx context.Context, gitURL string) (*orchestrator.ScanResult, error)

// ErrQueueFull is returned by Submit when the backlog is at capacity.
var ErrQueueFull = errors.New("scan queue is full")

const defaultBacklog = 128

// Manager owns the task table and the worker pool.
type Manager struct {
	scan    ScanFunc
	store   store.Store
	log     *slog.Logger
	workers int

	mu    sync.RWMutex
	tasks map[string]*Task

	work chan string
	g    *errgroup.Group
}

// New builds a manager. workers below 1 is clamped to 1; st may be the
// Noop store when persistence is disabled.
func New(scan ScanFunc, st store.Store, log *slog.Logger, workers int) *Manager {
	if workers < 1 {
		workers = 1
	}
	return &Manager{
		scan:    scan,
		store:   st,
		log:     log,
		workers: workers,
		tasks:   make(map[string]*Task),
		work:    make(chan string, defaultBacklog),
	}
}

// Start launches the worker pool. Workers exit when ctx is canceled or the
// queue is closed via Wait.
func (m *Manager) Start(ctx context.Context) {
	g, ctx := errgroup.WithContext(ctx)
	m.g = g
	for n := 0; n < m.workers; n++ {
		g.Go(func() error {
			for {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case id, ok := <-m.work:
					if !ok {
						return nil
					}
					m.run(ctx, id)
				}
			}
		})
	}
	m.log.Info("scan queue started", "workers", m.workers)
}

// Wait closes the queue to new work and blocks until in-flight tasks finish.
func (m *Manager) Wait() error {
	close(m.work)
	if m.g == nil {
		return nil
	}
	err := m.g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// Submit enqueues a scan of gitURL and returns its task ID immediately.
func (m *Manager) Submit(gitURL string) (string, error) {
	task := &Task{
		ID:          uuid.NewString(),
		GitURL:      gitURL,
		State:       StatePending,
		SubmittedAt: time.Now().UTC(),
	}

	m.mu.Lock()
	m.tasks[task.ID] = task
	m.mu.Unlock()

	select {
	case m.work <- task.ID:
		m.log.Info("scan task submitted", "task_id", task.ID, "repo", gitURL)
		return task.ID, nil
	default:
		m.mu.Lock()
		delete(m.tasks, task.ID)
		m.mu.Unlock()
		return "", ErrQueueFull
	}
}

// Get returns a snapshot of the task, if known.
func (m *Manager) Get(id string) (Task, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.tasks[id]
	if !ok {
		return Task{}, false
	}
	return *t, true
}

func (m *Manager) run(ctx context.Context, id string) {
	m.setState(id, func(t *Task) { t.State = StateRunning })

	t, ok := m.Get(id)
	if !ok {
		return
	}
	log := m.log.With("task_id", id, "repo", t.GitURL)

	result, err := m.scan(ctx, t.GitURL)
	if err != nil {
		var serr *orchestrator.Error
		logs := ""
		if errors.As(err, &serr) {
			logs = serr.Logs
		}
		log.Error("scan task failed", "error", err)
		m.setState(id, func(t *Task) {
			t.State = StateFailure
			t.Error = err.Error()
			t.Logs = logs
			t.FinishedAt = time.Now().UTC()
		})
		return
	}

	// Store-then-best-effort: the result is already final; persistence
	// failure is logged and the task still succeeds.
	scanID := m.persist(ctx, log, t.GitURL, result)

	log.Info("scan task succeeded", "total_issues", result.TotalIssues)
	m.setState(id, func(t *Task) {
		t.State = StateSuccess
		t.Result = result
		t.ScanID = scanID
		t.FinishedAt = time.Now().UTC()
	})
}

func (m *Manager) persist(ctx context.Context, log *slog.Logger, gitURL string, result *orchestrator.ScanResult) string {
	if !m.store.Available() {
		log.Debug("storage disabled; result not persisted")
		return ""
	}
	scanID, err := m.store.PersistScan(ctx, gitURL, result.TotalIssues)
	if err != nil {
		log.Error("persisting scan record failed", "error", err)
		return ""
	}
	if err := m.store.ArchiveIssues(ctx, scanID, result.Issues); err != nil {
		log.Error("archiving raw issues failed", "scan_id", scanID, "error", err)
	}
	return scanID
}

func (m *Manager) setState(id string, mutate func(*Task)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.tasks[id]; ok {
		mutate(t)
	}
}
