package handlers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/wonny/vquant/backend/internal/brain"
	"github.com/wonny/vquant/backend/pkg/logger"
)

// Runner executes one full pipeline pass.
type Runner interface {
	Run(ctx context.Context, cfg brain.RunConfig) (*brain.RunResult, error)
}

// RunStatus describes the most recent (or in-flight) pipeline run.
type RunStatus struct {
	State           string    `json:"state"` // idle, running, done, failed
	StartedAt       time.Time `json:"started_at,omitempty"`
	FinishedAt      time.Time `json:"finished_at,omitempty"`
	CompletedStages []string  `json:"completed_stages,omitempty"`
	Succeeded       int       `json:"succeeded"`
	Failed          int       `json:"failed"`
	Error           string    `json:"error,omitempty"`
}

// PipelineHandler handles pipeline control endpoints
// ⭐ SSOT: pipeline API handlers live on this struct only
type PipelineHandler struct {
	runner Runner
	hub    *ProgressHub
	logger *logger.Logger

	mu      sync.Mutex
	running bool
	last    RunStatus
}

// NewPipelineHandler creates a new pipeline handler
func NewPipelineHandler(runner Runner, hub *ProgressHub, log *logger.Logger) *PipelineHandler {
	return &PipelineHandler{
		runner: runner,
		hub:    hub,
		logger: log,
		last:   RunStatus{State: "idle"},
	}
}

// TriggerRun starts a pipeline run in the background. Only one run may
// be in flight at a time.
// POST /api/run
func (h *PipelineHandler) TriggerRun(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	if h.running {
		h.mu.Unlock()
		respondError(w, http.StatusConflict, "A pipeline run is already in progress")
		return
	}
	h.running = true
	h.last = RunStatus{State: "running", StartedAt: time.Now()}
	h.mu.Unlock()

	go h.runPipeline()

	respondJSON(w, http.StatusAccepted, map[string]string{
		"status": "started",
	})
}

func (h *PipelineHandler) runPipeline() {
	// Detached from the HTTP request: the run outlives the response.
	result, err := h.runner.Run(context.Background(), brain.RunConfig{
		Progress: func(stage, detail string) {
			h.hub.Broadcast(stage, detail)
		},
	})

	h.mu.Lock()
	defer h.mu.Unlock()
	h.running = false
	h.last.FinishedAt = time.Now()
	if err != nil {
		h.last.State = "failed"
		h.last.Error = err.Error()
		h.logger.WithError(err).Error("Pipeline run failed")
	} else {
		h.last.State = "done"
	}
	if result != nil {
		h.last.CompletedStages = result.CompletedStages
		h.last.Succeeded = result.Integrity.Succeeded
		h.last.Failed = result.Integrity.Failed
	}
}

// Status reports the last known run state
// GET /api/run/status
func (h *PipelineHandler) Status(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	status := h.last
	h.mu.Unlock()

	respondJSON(w, http.StatusOK, status)
}
