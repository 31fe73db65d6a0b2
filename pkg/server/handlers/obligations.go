package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"complyhq/compass/pkg/catalog"
)

// ObligationsHandler is the catalog administration endpoint: list, create,
// update, and delete obligations. Create enforces unique ids; update and
// delete require the id to exist.
type ObligationsHandler struct {
	store  *catalog.Store
	logger *slog.Logger
}

// NewObligationsHandler creates an obligations handler.
func NewObligationsHandler(store *catalog.Store) *ObligationsHandler {
	return &ObligationsHandler{
		store:  store,
		logger: slog.Default().With("component", "server.obligations"),
	}
}

// ServeHTTP dispatches on HTTP method.
func (h *ObligationsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodPost:
		h.create(w, r)
	case http.MethodPut:
		h.update(w, r)
	case http.MethodDelete:
		h.delete(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *ObligationsHandler) list(w http.ResponseWriter, r *http.Request) {
	obligations, err := h.store.List()
	if err != nil {
		h.logger.Error("failed to list obligations", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load obligations")
		return
	}
	writeJSON(w, http.StatusOK, obligations)
}

func (h *ObligationsHandler) create(w http.ResponseWriter, r *http.Request) {
	var ob catalog.Obligation
	if err := json.NewDecoder(r.Body).Decode(&ob); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	if err := h.store.Create(ob); err != nil {
		switch {
		case errors.Is(err, catalog.ErrDuplicateID):
			writeError(w, http.StatusBadRequest, "ID already exists")
		default:
			writeError(w, http.StatusBadRequest, err.Error())
		}
		return
	}

	writeJSON(w, http.StatusCreated, ob)
}

func (h *ObligationsHandler) update(w http.ResponseWriter, r *http.Request) {
	var ob catalog.Obligation
	if err := json.NewDecoder(r.Body).Decode(&ob); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	if err := h.store.Update(ob); err != nil {
		switch {
		case errors.Is(err, catalog.ErrNotFound):
			writeError(w, http.StatusNotFound, "Not found")
		default:
			writeError(w, http.StatusBadRequest, err.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, ob)
}

func (h *ObligationsHandler) delete(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}

	if err := h.store.Delete(id); err != nil {
		switch {
		case errors.Is(err, catalog.ErrNotFound):
			writeError(w, http.StatusNotFound, "Not found")
		default:
			h.logger.Error("failed to delete obligation", "error", err, "id", id)
			writeError(w, http.StatusInternalServerError, "failed to delete obligation")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
