package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"complyhq/compass/pkg/catalog"
	"complyhq/compass/pkg/evaluation"
	"complyhq/compass/pkg/profile"
	"complyhq/compass/pkg/rules/engine"
	"complyhq/compass/pkg/telemetry/metrics"
)

// IntakeRequest is the questionnaire payload. Field names match the intake
// form wire format.
type IntakeRequest struct {
	Name          string             `json:"name"`
	Location      profile.Location   `json:"location"`
	Industry      profile.Industry   `json:"industry"`
	EmployeeCount int                `json:"employeeCount"`
	EntityType    profile.EntityType `json:"entityType"`
	Activities    profile.Activities `json:"activities"`
}

// IntakeResponse is returned from both intake endpoints: the normalized
// business profile, the full evaluation, and the catalog it was evaluated
// against.
type IntakeResponse struct {
	Business    profile.BusinessProfile `json:"business"`
	Evaluation  *evaluation.Result      `json:"evaluation"`
	Obligations []catalog.Obligation    `json:"obligations"`
}

// IntakeHandler evaluates a questionnaire submission against the current
// catalog. When Persist is set the evaluation result is appended to storage;
// the business profile itself is never persisted.
type IntakeHandler struct {
	catalog   *catalog.Store
	storage   evaluation.Storage
	evaluator *engine.Evaluator
	metrics   *metrics.EvaluationMetrics
	logger    *slog.Logger

	// Persist controls whether the evaluation result is stored. The
	// preview endpoint shares this handler with Persist unset.
	Persist bool
}

// NewIntakeHandler creates an intake handler.
func NewIntakeHandler(cat *catalog.Store, storage evaluation.Storage, evaluator *engine.Evaluator, em *metrics.EvaluationMetrics, persist bool) *IntakeHandler {
	return &IntakeHandler{
		catalog:   cat,
		storage:   storage,
		evaluator: evaluator,
		metrics:   em,
		logger:    slog.Default().With("component", "server.intake"),
		Persist:   persist,
	}
}

// ServeHTTP handles POST requests.
func (h *IntakeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req IntakeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	business := profile.New(req.Name, req.Location, req.Industry, req.EmployeeCount, req.EntityType, req.Activities)
	if err := business.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	snapshot, err := h.catalog.Snapshot()
	if err != nil {
		h.logger.Error("failed to load catalog", "error", err)
		h.record("error", 0, 0)
		writeError(w, http.StatusInternalServerError, "failed to process intake")
		return
	}

	start := time.Now()
	result := h.evaluator.Evaluate(business, snapshot)
	h.record("success", time.Since(start), len(result.Applied()))

	if h.Persist {
		if err := h.storage.Append(r.Context(), result); err != nil {
			h.logger.Error("failed to persist evaluation", "error", err, "evaluation_id", result.ID)
			writeError(w, http.StatusInternalServerError, "failed to process intake")
			return
		}
	}

	writeJSON(w, http.StatusCreated, IntakeResponse{
		Business:    business,
		Evaluation:  result,
		Obligations: snapshot.Obligations(),
	})
}

func (h *IntakeHandler) record(status string, d time.Duration, applied int) {
	if h.metrics != nil {
		h.metrics.RecordEvaluation(status, d, applied)
	}
}
