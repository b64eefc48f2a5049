package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/vanshika/netintel/internal/domain"
	"github.com/vanshika/netintel/internal/service"
	"github.com/vanshika/netintel/internal/validation"
)

const maxBodyBytes = 1 << 20

// APIHandlers exposes HTTP handlers for the REST API.
type APIHandlers struct {
	logger  *slog.Logger
	service *service.IntelligenceService
}

// NewAPIHandlers constructs an APIHandlers instance.
func NewAPIHandlers(logger *slog.Logger, svc *service.IntelligenceService) *APIHandlers {
	return &APIHandlers{
		logger:  logger,
		service: svc,
	}
}

type pathsQuery struct {
	Source string `json:"source" validate:"required,max=128"`
	Target string `json:"target" validate:"required,max=128"`
}

type fitRequest struct {
	PersonID     string   `json:"personId" validate:"max=128"`
	Capabilities []string `json:"capabilities" validate:"max=200,dive,required,max=128"`
}

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func (h *APIHandlers) findPaths(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	params := pathsQuery{
		Source: strings.TrimSpace(q.Get("source")),
		Target: strings.TrimSpace(q.Get("target")),
	}
	if err := validation.Request(params); err != nil {
		h.fail(w, r, err)
		return
	}

	query := service.PathQuery{SourceID: params.Source, TargetID: params.Target}
	if raw := strings.TrimSpace(q.Get("maxDegree")); raw != "" {
		degree, err := strconv.Atoi(raw)
		if err != nil {
			h.fail(w, r, domain.InvalidArgument("maxDegree", "must be an integer, got %q", raw))
			return
		}
		query.MaxDegree = &degree
	}

	result, err := h.service.FindPaths(r.Context(), query)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (h *APIHandlers) analyzeNetwork(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.AnalyzeNetwork(r.Context(), chi.URLParam(r, "personID"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (h *APIHandlers) evaluateFit(w http.ResponseWriter, r *http.Request) {
	var req fitRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, domain.InvalidArgument("body", "%v", err))
		return
	}
	if err := validation.Request(req); err != nil {
		h.fail(w, r, err)
		return
	}

	result, err := h.service.EvaluateFit(r.Context(), service.FitQuery{
		OpportunityID: chi.URLParam(r, "opportunityID"),
		PersonID:      req.PersonID,
		Capabilities:  req.Capabilities,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (h *APIHandlers) dashboard(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.GetDashboard(r.Context(), chi.URLParam(r, "personID"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// fail maps domain errors onto status codes. Internal details of store
// failures are logged, not returned.
func (h *APIHandlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	var invalid *domain.InvalidArgumentError
	switch {
	case errors.As(err, &invalid):
		writeError(w, http.StatusBadRequest, invalid.Error(), invalid.Field)
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error(), "")
	case errors.Is(err, domain.ErrStoreUnavailable):
		h.logger.ErrorContext(r.Context(), "store unavailable",
			slog.String("request_id", RequestIDFromContext(r.Context())),
			slog.Any("error", err),
		)
		writeError(w, http.StatusServiceUnavailable, "graph store unavailable", "")
	default:
		h.logger.ErrorContext(r.Context(), "request failed",
			slog.String("request_id", RequestIDFromContext(r.Context())),
			slog.Any("error", err),
		)
		writeError(w, http.StatusInternalServerError, "internal error", "")
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	if r.Body == nil {
		return errors.New("request body is required")
	}
	defer r.Body.Close()

	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is required")
		}
		return fmt.Errorf("malformed JSON: %w", err)
	}
	return nil
}

func writeError(w http.ResponseWriter, status int, msg, field string) {
	respondJSON(w, status, errorResponse{Error: msg, Field: field})
}
