// Package api exposes the scan service over HTTP: submit a scan, poll its
// task, list recent persisted scans. It is a thin adapter over the queue and
// the store; all scan semantics live below it.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/scanyard/scanyard/internal/queue"
	"github.com/scanyard/scanyard/internal/store"
)

// TaskQueue is the slice of the queue the API needs.
type TaskQueue interface {
	Submit(gitURL string) (string, error)
	Get(id string) (queue.Task, bool)
}

// Server holds the handler dependencies.
type Server struct {
	log   *slog.Logger
	queue TaskQueue
	store store.Store
}

// NewServer wires the HTTP surface.
func NewServer(log *slog.Logger, q TaskQueue, st store.Store) *Server {
	return &Server{log: log, queue: q, store: st}
}

// Routes builds the request mux.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("POST /scan", s.handleSubmit)
	mux.HandleFunc("GET /scan/{id}", s.handleTask)
	mux.HandleFunc("GET /scans/recent", s.handleRecent)
	return mux
}

type scanRequest struct {
	GitURL string `json:"git_url"`
}

type scanResponse struct {
	TaskID  string `json:"task_id"`
	GitURL  string `json:"git_url"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "scanyard is running"})
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var req scanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}
	url := strings.TrimSpace(req.GitURL)
	if url == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "git_url is required"})
		return
	}

	taskID, err := s.queue.Submit(url)
	if err != nil {
		s.log.Error("scan submission rejected", "repo", url, "error", err)
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusAccepted, scanResponse{
		TaskID:  taskID,
		GitURL:  url,
		Status:  "submitted",
		Message: "scan task submitted successfully",
	})
}

func (s *Server) handleTask(w http.ResponseWriter, r *http.Request) {
	task, ok := s.queue.Get(r.PathValue("id"))
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "unknown task id"})
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (s *Server) handleRecent(w http.ResponseWriter, r *http.Request) {
	if !s.store.Available() {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "storage is not configured"})
		return
	}
	limit := 10
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "limit must be a positive integer"})
			return
		}
		limit = n
	}
	scans, err := s.store.RecentScans(r.Context(), limit)
	if err != nil {
		s.log.Error("recent scans query failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to list recent scans"})
		return
	}
	if scans == nil {
		scans = []store.ScanRecord{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"scans": scans})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
