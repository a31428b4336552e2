package solver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/aristath/quantum-solver/internal/backend"
	"github.com/aristath/quantum-solver/internal/domain"
)

// Handler provides HTTP handlers for the solver endpoints.
type Handler struct {
	service *Service
	repo    *Repository
	backend backend.Backend
	log     zerolog.Logger
}

// NewHandler creates a new solver handler.
func NewHandler(service *Service, repo *Repository, b backend.Backend, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		repo:    repo,
		backend: b,
		log:     log.With().Str("handler", "solver").Logger(),
	}
}

// RegisterRoutes mounts the solver endpoints.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/solve", h.HandleSolve)
	r.Get("/backend", h.HandleBackend)
	r.Route("/runs", func(r chi.Router) {
		r.Get("/", h.HandleListRuns)
		r.Get("/{id}", h.HandleGetRun)
		r.Delete("/{id}", h.HandleDeleteRun)
	})
}

// HandleSolve handles POST /api/solve
func (h *Handler) HandleSolve(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	result, err := h.service.Solve(req)
	if err != nil {
		h.log.Error().Err(err).Msg("Solve failed")
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	writeJSON(w, result)
}

// HandleBackend handles GET /api/backend
func (h *Handler) HandleBackend(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]interface{}{
		"name":         h.backend.Name(),
		"capabilities": h.backend.Capabilities(),
	})
}

// HandleListRuns handles GET /api/runs
func (h *Handler) HandleListRuns(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			http.Error(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	runs, err := h.repo.List(limit)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list runs")
		http.Error(w, "Failed to list runs", http.StatusInternalServerError)
		return
	}
	if runs == nil {
		runs = []Run{}
	}

	writeJSON(w, runs)
}

// HandleGetRun handles GET /api/runs/{id}. The response is the run summary
// plus the stored result payload when the run completed.
func (h *Handler) HandleGetRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	run, err := h.repo.Get(id)
	if err != nil {
		h.log.Error().Err(err).Str("run_id", id).Msg("Failed to get run")
		http.Error(w, "Failed to get run", http.StatusInternalServerError)
		return
	}
	if run == nil {
		http.Error(w, "Run not found", http.StatusNotFound)
		return
	}

	response := map[string]interface{}{"run": run}
	if run.Status == StatusCompleted {
		result, err := h.repo.GetResult(id)
		if err != nil {
			h.log.Error().Err(err).Str("run_id", id).Msg("Failed to load run result")
			http.Error(w, "Failed to load run result", http.StatusInternalServerError)
			return
		}
		response["result"] = result
	}

	writeJSON(w, response)
}

// HandleDeleteRun handles DELETE /api/runs/{id}
func (h *Handler) HandleDeleteRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	deleted, err := h.repo.Delete(id)
	if err != nil {
		h.log.Error().Err(err).Str("run_id", id).Msg("Failed to delete run")
		http.Error(w, "Failed to delete run", http.StatusInternalServerError)
		return
	}
	if !deleted {
		http.Error(w, "Run not found", http.StatusNotFound)
		return
	}

	writeJSON(w, map[string]string{"status": "deleted", "id": id})
}

// statusFor maps the domain error taxonomy onto HTTP status codes. Problem
// mistakes are the client's fault; execution failures are not.
func statusFor(err error) int {
	var encErr *domain.EncodingError
	var argErr *domain.InvalidArgumentError
	var capErr *domain.CapacityError
	var gateErr *domain.UnsupportedGateError
	var backendErr *domain.BackendExecutionError

	switch {
	case errors.As(err, &encErr), errors.As(err, &argErr):
		return http.StatusBadRequest
	case errors.As(err, &capErr), errors.As(err, &gateErr):
		return http.StatusUnprocessableEntity
	case errors.As(err, &backendErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}
