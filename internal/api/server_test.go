package api

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/scanyard/scanyard/internal/queue"
	"github.com/scanyard/scanyard/internal/store"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type stubQueue struct {
	submitErr error
	submitted []string
	tasks     map[string]queue.Task
}

func (s *stubQueue) Submit(gitURL string) (string, error) {
	if s.submitErr != nil {
		return "", s.submitErr
	}
	s.submitted = append(s.submitted, gitURL)
	return "task-1", nil
}

func (s *stubQueue) Get(id string) (queue.Task, bool) {
	t, ok := s.tasks[id]
	return t, ok
}

type stubStore struct {
	store.Noop
	recs []store.ScanRecord
}

func (s *stubStore) Available() bool { return true }
func (s *stubStore) RecentScans(_ context.Context, limit int) ([]store.ScanRecord, error) {
	if limit < len(s.recs) {
		return s.recs[:limit], nil
	}
	return s.recs, nil
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rdr)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	h := NewServer(discard(), &stubQueue{}, store.Noop{}).Routes()
	rec := do(t, h, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestSubmit(t *testing.T) {
	q := &stubQueue{}
	h := NewServer(discard(), q, store.Noop{}).Routes()

	rec := do(t, h, http.MethodPost, "/scan", `{"git_url": "https://example.com/repo.git"}`)
	require.Equal(t, http.StatusAccepted, rec.Code)

	var resp scanResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "task-1", resp.TaskID)
	require.Equal(t, "submitted", resp.Status)
	require.Equal(t, []string{"https://example.com/repo.git"}, q.submitted)
}

func TestSubmit_Validation(t *testing.T) {
	h := NewServer(discard(), &stubQueue{}, store.Noop{}).Routes()

	require.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPost, "/scan", `{`).Code)
	require.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPost, "/scan", `{"git_url": "  "}`).Code)
}

func TestSubmit_QueueFull(t *testing.T) {
	h := NewServer(discard(), &stubQueue{submitErr: queue.ErrQueueFull}, store.Noop{}).Routes()
	rec := do(t, h, http.MethodPost, "/scan", `{"git_url": "u"}`)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestGetTask(t *testing.T) {
	q := &stubQueue{tasks: map[string]queue.Task{
		"t1": {
			ID:     "t1",
			GitURL: "u",
			State:  queue.StateFailure,
			Error:  "scan timed out after 5 seconds",
		},
	}}
	h := NewServer(discard(), q, store.Noop{}).Routes()

	rec := do(t, h, http.MethodGet, "/scan/t1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var task queue.Task
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &task))
	require.Equal(t, queue.StateFailure, task.State)
	require.Equal(t, "scan timed out after 5 seconds", task.Error)

	require.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/scan/missing", "").Code)
}

func TestRecent_StorageDisabled(t *testing.T) {
	h := NewServer(discard(), &stubQueue{}, store.Noop{}).Routes()
	rec := do(t, h, http.MethodGet, "/scans/recent", "")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRecent(t *testing.T) {
	st := &stubStore{recs: []store.ScanRecord{
		{ID: "s1", GitURL: "u1", TotalIssues: 4, CreatedAt: time.Now()},
		{ID: "s2", GitURL: "u2", TotalIssues: 0, CreatedAt: time.Now()},
	}}
	h := NewServer(discard(), &stubQueue{}, st).Routes()

	rec := do(t, h, http.MethodGet, "/scans/recent?limit=1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Scans []store.ScanRecord `json:"scans"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Scans, 1)
	require.Equal(t, "s1", resp.Scans[0].ID)

	require.Equal(t, http.StatusBadRequest, do(t, h, http.MethodGet, "/scans/recent?limit=zero", "").Code)
}
