package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"complyhq/compass/pkg/catalog"
	"complyhq/compass/pkg/evaluation"
	"complyhq/compass/pkg/evaluation/export"
)

// ExportHandler renders a stored evaluation as PDF, JSON, or CSV. The
// format defaults to PDF and is selected with ?format=.
type ExportHandler struct {
	storage evaluation.Storage
	catalog *catalog.Store
	logger  *slog.Logger
}

// NewExportHandler creates an export handler.
func NewExportHandler(storage evaluation.Storage, cat *catalog.Store) *ExportHandler {
	return &ExportHandler{
		storage: storage,
		catalog: cat,
		logger:  slog.Default().With("component", "server.export"),
	}
}

// ServeHTTP handles GET /api/export/{evaluationId}?format=pdf|json|csv.
func (h *ExportHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	id := r.PathValue("evaluationId")
	if id == "" {
		writeError(w, http.StatusBadRequest, "evaluationId is required")
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "pdf"
	}

	var exporter evaluation.Exporter
	var contentType, extension string
	switch format {
	case "pdf":
		exporter = export.NewPDFExporter()
		contentType = "application/pdf"
		extension = "pdf"
	case "json":
		exporter = export.NewJSONExporter(true)
		contentType = "application/json"
		extension = "json"
	case "csv":
		exporter = export.NewCSVExporter(true)
		contentType = "text/csv"
		extension = "csv"
	default:
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown format %q", format))
		return
	}

	result, err := h.storage.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, evaluation.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Not found")
			return
		}
		h.logger.Error("failed to load evaluation", "error", err, "evaluation_id", id)
		writeError(w, http.StatusInternalServerError, "failed to export evaluation")
		return
	}

	snapshot, err := h.catalog.Snapshot()
	if err != nil {
		h.logger.Error("failed to load catalog", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to export evaluation")
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fmt.Sprintf("compliance-%s.%s", result.ID, extension)))

	if err := exporter.Export(r.Context(), result, snapshot, w); err != nil {
		// Headers are already written; the best we can do is log.
		h.logger.Error("failed to render export", "error", err, "evaluation_id", id, "format", format)
	}
}
