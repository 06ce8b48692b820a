package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/wonny/vquant/backend/internal/contracts"
	"github.com/wonny/vquant/backend/pkg/logger"
)

// ReportStore is the slice of the decision repository the API reads.
type ReportStore interface {
	GetLatestReport(ctx context.Context) ([]contracts.ReportRow, contracts.IntegrityReport, error)
}

// UniverseStore is the slice of the universe repository the API reads.
type UniverseStore interface {
	GetLatestUniverse(ctx context.Context) (*contracts.Universe, error)
}

// ReportHandler handles report-related API endpoints
// ⭐ SSOT: report API handlers live on this struct only
type ReportHandler struct {
	reports   ReportStore
	universes UniverseStore
	logger    *logger.Logger
}

// NewReportHandler creates a new report handler
func NewReportHandler(reports ReportStore, universes UniverseStore, log *logger.Logger) *ReportHandler {
	return &ReportHandler{
		reports:   reports,
		universes: universes,
		logger:    log,
	}
}

// GetReport returns the latest fused decision report
// GET /api/report
func (h *ReportHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	rows, integrity, err := h.reports.GetLatestReport(ctx)
	if err != nil {
		h.logger.WithError(err).Error("Failed to get report")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve report")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"rows":      rows,
		"integrity": integrity,
	})
}

// SummaryResponse condenses one report into per-action counts.
type SummaryResponse struct {
	Total       int                   `json:"total"`
	ByAction    map[string]int        `json:"by_action"`
	SuccessRate float64               `json:"success_rate"`
	Top         []contracts.ReportRow `json:"top"`
}

// GetSummary returns per-action counts and the head of the report
// GET /api/report/summary
func (h *ReportHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	rows, integrity, err := h.reports.GetLatestReport(ctx)
	if err != nil {
		h.logger.WithError(err).Error("Failed to get report")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve report")
		return
	}

	byAction := make(map[string]int)
	for _, row := range rows {
		byAction[string(row.FinalAction)]++
	}

	top := rows
	if len(top) > 10 {
		top = top[:10]
	}

	respondJSON(w, http.StatusOK, SummaryResponse{
		Total:       len(rows),
		ByAction:    byAction,
		SuccessRate: integrity.SuccessRate(),
		Top:         top,
	})
}

// GetIntegrity returns the latest run's integrity accounting
// GET /api/integrity
func (h *ReportHandler) GetIntegrity(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	_, integrity, err := h.reports.GetLatestReport(ctx)
	if err != nil {
		h.logger.WithError(err).Error("Failed to get integrity report")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve integrity report")
		return
	}

	respondJSON(w, http.StatusOK, integrity)
}

// GetUniverse returns the latest ranked universe
// GET /api/universe
func (h *ReportHandler) GetUniverse(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	universe, err := h.universes.GetLatestUniverse(ctx)
	if err != nil {
		h.logger.WithError(err).Error("Failed to get universe")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve universe")
		return
	}

	respondJSON(w, http.StatusOK, universe)
}

// Helper functions

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}
