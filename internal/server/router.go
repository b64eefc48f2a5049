package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// RouterDependencies collects handler dependencies.
type RouterDependencies struct {
	Health           HealthService
	API              *APIHandlers
	Metrics          MetricsRecorder
	MetricsHandler   http.Handler
	AllowedOrigins   []string
	AllowCredentials bool
}

// NewRouter wires the HTTP routes exposed by the API.
func NewRouter(logger *slog.Logger, deps RouterDependencies) http.Handler {
	router := chi.NewRouter()

	router.Use(requestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(requestLogger(logger, deps.Metrics))
	if len(deps.AllowedOrigins) > 0 {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   deps.AllowedOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", requestIDHeader},
			ExposedHeaders:   []string{requestIDHeader},
			AllowCredentials: deps.AllowCredentials,
			MaxAge:           300,
		}))
	}

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		payload := map[string]any{
			"status": "ok",
		}

		if deps.Health != nil {
			if err := deps.Health.Probe(ctx); err != nil {
				logger.ErrorContext(ctx, "health probe failed", slog.Any("error", err))
				status = http.StatusServiceUnavailable
				payload["status"] = "degraded"
				payload["error"] = err.Error()
			}
		}

		respondJSON(w, status, payload)
	})

	if deps.MetricsHandler != nil {
		router.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	if deps.API != nil {
		router.Route("/v1", func(r chi.Router) {
			r.Get("/paths", deps.API.findPaths)
			r.Get("/people/{personID}/network", deps.API.analyzeNetwork)
			r.Get("/people/{personID}/dashboard", deps.API.dashboard)
			r.Post("/opportunities/{opportunityID}/fit", deps.API.evaluateFit)
		})
	}

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "route not found", "")
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", "")
	})
	return router
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(data)
}
