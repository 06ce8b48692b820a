package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/wonny/vquant/backend/internal/api/handlers"
	"github.com/wonny/vquant/backend/pkg/logger"
)

// NewRouter creates and configures the HTTP router
// ⭐ SSOT: route registration happens in this function only
func NewRouter(reportHandler *handlers.ReportHandler, pipelineHandler *handlers.PipelineHandler, hub *handlers.ProgressHub, log *logger.Logger) http.Handler {
	r := mux.NewRouter()

	// Health check
	r.HandleFunc("/health", healthCheckHandler).Methods("GET")

	// API v1
	api := r.PathPrefix("/api").Subrouter()

	// Report endpoints
	api.HandleFunc("/report", reportHandler.GetReport).Methods("GET")
	api.HandleFunc("/report/summary", reportHandler.GetSummary).Methods("GET")
	api.HandleFunc("/integrity", reportHandler.GetIntegrity).Methods("GET")
	api.HandleFunc("/universe", reportHandler.GetUniverse).Methods("GET")

	// Pipeline control
	api.HandleFunc("/run", pipelineHandler.TriggerRun).Methods("POST")
	api.HandleFunc("/run/status", pipelineHandler.Status).Methods("GET")

	// Live run progress
	r.HandleFunc("/ws/progress", hub.ServeWS)

	// Apply middleware
	r.Use(loggingMiddleware(log))
	r.Use(recoveryMiddleware(log))

	return r
}

// healthCheckHandler returns server health status
func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "ok",
		"service": "vquant-api",
	})
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			next.ServeHTTP(w, r)

			log.WithFields(map[string]interface{}{
				"method":   r.Method,
				"path":     r.URL.Path,
				"duration": time.Since(start),
			}).Debug("HTTP request")
		})
	}
}

// recoveryMiddleware recovers from panics
func recoveryMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.WithFields(map[string]interface{}{
						"error": err,
						"path":  r.URL.Path,
					}).Error("Panic recovered")

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					json.NewEncoder(w).Encode(map[string]string{
						"error": "Internal server error",
					})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
