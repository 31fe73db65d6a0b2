package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"complyhq/compass/pkg/catalog"
	"complyhq/compass/pkg/checklist"
	"complyhq/compass/pkg/evaluation"
)

// EvaluationResponse is the stored result plus its checklist view, grouped
// by jurisdiction.
type EvaluationResponse struct {
	Evaluation *evaluation.Result `json:"evaluation"`
	Checklist  []checklist.Group  `json:"checklist"`
}

// EvaluationsHandler serves stored evaluation results by id.
type EvaluationsHandler struct {
	storage evaluation.Storage
	catalog *catalog.Store
	logger  *slog.Logger
}

// NewEvaluationsHandler creates an evaluations handler.
func NewEvaluationsHandler(storage evaluation.Storage, cat *catalog.Store) *EvaluationsHandler {
	return &EvaluationsHandler{
		storage: storage,
		catalog: cat,
		logger:  slog.Default().With("component", "server.evaluations"),
	}
}

// ServeHTTP handles GET /api/evaluations/{id}.
func (h *EvaluationsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}

	result, err := h.storage.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, evaluation.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Not found")
			return
		}
		h.logger.Error("failed to load evaluation", "error", err, "evaluation_id", id)
		writeError(w, http.StatusInternalServerError, "failed to load evaluation")
		return
	}

	snapshot, err := h.catalog.Snapshot()
	if err != nil {
		h.logger.Error("failed to load catalog", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load evaluation")
		return
	}

	writeJSON(w, http.StatusOK, EvaluationResponse{
		Evaluation: result,
		Checklist:  checklist.Build(result, snapshot),
	})
}
