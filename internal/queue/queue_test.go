package queue

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/scanyard/scanyard/internal/issue"
	"github.com/scanyard/scanyard/internal/orchestrator"
	"github.com/scanyard/scanyard/internal/store"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func waitForState(t *testing.T, m *Manager, id string, want State) Task {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if task, ok := m.Get(id); ok && task.State == want {
			return task
		}
		time.Sleep(5 * time.Millisecond)
	}
	task, _ := m.Get(id)
	t.Fatalf("task %s never reached %s (last state %s)", id, want, task.State)
	return Task{}
}

// recordingStore captures persistence calls and can be told to fail.
type recordingStore struct {
	mu        sync.Mutex
	persisted []string
	archived  int
	fail      bool
}

func (r *recordingStore) Available() bool { return true }

func (r *recordingStore) PersistScan(_ context.Context, gitURL string, _ int) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return "", errors.New("database is down")
	}
	r.persisted = append(r.persisted, gitURL)
	return "scan-1", nil
}

func (r *recordingStore) ArchiveIssues(context.Context, string, []issue.Issue) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.archived++
	return nil
}

func (r *recordingStore) RecentScans(context.Context, int) ([]store.ScanRecord, error) {
	return nil, nil
}

func okScan(issues ...issue.Issue) ScanFunc {
	return func(context.Context, string) (*orchestrator.ScanResult, error) {
		return &orchestrator.ScanResult{TotalIssues: len(issues), Issues: issues}, nil
	}
}

func TestSubmitAndComplete(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := New(okScan(issue.Issue{Kind: issue.KindStyle, File: "a", Line: 1, Code: "X", Message: "m"}), store.Noop{}, discard(), 2)
	m.Start(ctx)

	id, err := m.Submit("https://example.com/repo.git")
	require.NoError(t, err)

	task := waitForState(t, m, id, StateSuccess)
	require.Equal(t, 1, task.Result.TotalIssues)
	require.Empty(t, task.Error)
	require.False(t, task.FinishedAt.IsZero())

	cancel()
	require.NoError(t, m.Wait())
}

func TestFailureCarriesStageErrorAndLogs(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	scan := func(context.Context, string) (*orchestrator.ScanResult, error) {
		return nil, &orchestrator.Error{
			Stage: orchestrator.StageMissingOutput,
			Msg:   "results not found",
			Logs:  "container said nothing useful",
		}
	}
	m := New(scan, store.Noop{}, discard(), 1)
	m.Start(ctx)

	id, err := m.Submit("u")
	require.NoError(t, err)

	task := waitForState(t, m, id, StateFailure)
	require.Equal(t, "results not found", task.Error)
	require.Equal(t, "container said nothing useful", task.Logs)
	require.Nil(t, task.Result)
}

func TestStoreFailureDoesNotFailTask(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	st := &recordingStore{fail: true}
	m := New(okScan(), st, discard(), 1)
	m.Start(ctx)

	id, err := m.Submit("u")
	require.NoError(t, err)

	task := waitForState(t, m, id, StateSuccess)
	require.Empty(t, task.ScanID, "no scan id when persistence failed")
	require.Empty(t, task.Error)
}

func TestSuccessfulPersistRecordsScanID(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	st := &recordingStore{}
	m := New(okScan(), st, discard(), 1)
	m.Start(ctx)

	id, err := m.Submit("https://example.com/repo.git")
	require.NoError(t, err)

	task := waitForState(t, m, id, StateSuccess)
	require.Equal(t, "scan-1", task.ScanID)

	st.mu.Lock()
	defer st.mu.Unlock()
	require.Equal(t, []string{"https://example.com/repo.git"}, st.persisted)
	require.Equal(t, 1, st.archived)
}

func TestGetUnknownTask(t *testing.T) {
	m := New(okScan(), store.Noop{}, discard(), 1)
	_, ok := m.Get("nope")
	require.False(t, ok)
}

func TestPendingStateBeforeWorkersStart(t *testing.T) {
	m := New(okScan(), store.Noop{}, discard(), 1)
	// Not started: the task must sit in pending.
	id, err := m.Submit("u")
	require.NoError(t, err)
	task, ok := m.Get(id)
	require.True(t, ok)
	require.Equal(t, StatePending, task.State)
}
