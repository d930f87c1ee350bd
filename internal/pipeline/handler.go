package pipeline

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/j2kenton/jobsift/pkg/handlers"
	"github.com/j2kenton/jobsift/pkg/pagination"
	"github.com/j2kenton/jobsift/pkg/routes"
)

// Handler provides HTTP endpoints for triggering and inspecting runs.
type Handler struct {
	runner     *Runner
	logger     *slog.Logger
	pagination pagination.Config
}

// NewHandler creates a Handler for the given runner.
func NewHandler(runner *Runner, logger *slog.Logger, pagination pagination.Config) *Handler {
	return &Handler{
		runner:     runner,
		logger:     logger.With("handler", "runs"),
		pagination: pagination,
	}
}

// Routes returns the route group definition for run endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/runs",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List},
			{Method: "GET", Pattern: "/{id}", Handler: h.Find},
			{Method: "POST", Pattern: "", Handler: h.Trigger},
		},
	}
}

// Trigger executes a triage run synchronously and returns its summary.
func (h *Handler) Trigger(w http.ResponseWriter, r *http.Request) {
	summary, err := h.runner.Run(r.Context())
	if err != nil {
		wrapped := fmt.Errorf("%w: %w", ErrRunFailed, err)
		handlers.RespondError(w, h.logger, MapHTTPStatus(wrapped), wrapped)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, summary)
}

// List returns past run summaries, most recent first.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)

	result, err := h.runner.summaries.list(r.Context(), page)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Find returns a single run summary by its UUID path parameter.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidRunID)
		return
	}

	summary, err := h.runner.summaries.find(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, summary)
}
