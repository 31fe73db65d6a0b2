package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"complyhq/compass/pkg/catalog"
	"complyhq/compass/pkg/evaluation"
	"complyhq/compass/pkg/evaluation/storage"
	"complyhq/compass/pkg/jsonstore"
	"complyhq/compass/pkg/rules/engine"
)

func testObligation(id string) catalog.Obligation {
	return catalog.Obligation{
		ID:           id,
		Title:        "Display the federal labor law poster",
		Jurisdiction: catalog.JurisdictionFederal,
		Topics:       []catalog.Topic{catalog.TopicLabor},
		Triggers: []catalog.TriggerPredicate{
			{Fact: "employeeCount", Operator: catalog.OperatorGTE, Value: float64(1)},
		},
		Actions:   []catalog.Action{{Summary: "Print and post the poster"}},
		Citations: []catalog.Citation{},
	}
}

func testStore(t *testing.T, obligations ...catalog.Obligation) *catalog.Store {
	t.Helper()
	files, err := jsonstore.Open(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("jsonstore.Open: %v", err)
	}
	store := catalog.NewStore(files, nil)
	for _, ob := range obligations {
		if err := store.Create(ob); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}
	return store
}

func intakeBody() string {
	return `{
		"name": "Taqueria El Sol",
		"location": {"state": "CA", "city": "San Jose"},
		"industry": {"naicsCode": "722511"},
		"employeeCount": 5,
		"entityType": "llc",
		"activities": {"servesFood": true}
	}`
}

func TestIntakePersists(t *testing.T) {
	store := testStore(t, testObligation("flsa_poster"))
	st := storage.NewMemoryStorage()
	h := NewIntakeHandler(store, st, engine.New(nil), nil, true)

	req := httptest.NewRequest(http.MethodPost, "/api/intake", strings.NewReader(intakeBody()))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}

	var resp IntakeResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Business.Name != "Taqueria El Sol" || resp.Business.ID == "" {
		t.Errorf("business = %+v", resp.Business)
	}
	if resp.Evaluation == nil || len(resp.Evaluation.AppliedObligations) != 1 {
		t.Fatalf("evaluation = %+v", resp.Evaluation)
	}
	if !resp.Evaluation.AppliedObligations[0].Applied {
		t.Error("flsa_poster should apply to a 5-employee business")
	}
	if len(resp.Obligations) != 1 {
		t.Errorf("obligations = %+v", resp.Obligations)
	}

	// The evaluation was stored; the business profile was not.
	count, err := st.Count(context.Background())
	if err != nil || count != 1 {
		t.Errorf("stored count = %d, %v", count, err)
	}
	stored, err := st.Get(context.Background(), resp.Evaluation.ID)
	if err != nil {
		t.Fatalf("Get stored: %v", err)
	}
	if stored.BusinessID != resp.Business.ID {
		t.Errorf("stored businessId = %q, want %q", stored.BusinessID, resp.Business.ID)
	}
}

func TestIntakePreviewDoesNotPersist(t *testing.T) {
	store := testStore(t, testObligation("flsa_poster"))
	st := storage.NewMemoryStorage()
	h := NewIntakeHandler(store, st, engine.New(nil), nil, false)

	req := httptest.NewRequest(http.MethodPost, "/api/intake/preview", strings.NewReader(intakeBody()))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	count, err := st.Count(context.Background())
	if err != nil || count != 0 {
		t.Errorf("preview stored %d results", count)
	}
}

func TestIntakeRejectsInvalidProfile(t *testing.T) {
	h := NewIntakeHandler(testStore(t), storage.NewMemoryStorage(), engine.New(nil), nil, true)

	body := `{"name": "No State", "entityType": "llc", "employeeCount": 1}`
	req := httptest.NewRequest(http.MethodPost, "/api/intake", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["error"] == "" {
		t.Error("error body missing")
	}
}

func TestIntakeRejectsBadJSON(t *testing.T) {
	h := NewIntakeHandler(testStore(t), storage.NewMemoryStorage(), engine.New(nil), nil, true)

	req := httptest.NewRequest(http.MethodPost, "/api/intake", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestIntakeMethodNotAllowed(t *testing.T) {
	h := NewIntakeHandler(testStore(t), storage.NewMemoryStorage(), engine.New(nil), nil, true)

	req := httptest.NewRequest(http.MethodGet, "/api/intake", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}

func TestObligationsList(t *testing.T) {
	h := NewObligationsHandler(testStore(t, testObligation("a"), testObligation("b")))

	req := httptest.NewRequest(http.MethodGet, "/api/obligations", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var obligations []catalog.Obligation
	if err := json.Unmarshal(rec.Body.Bytes(), &obligations); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(obligations) != 2 {
		t.Errorf("obligations = %+v", obligations)
	}
}

func TestObligationsCreate(t *testing.T) {
	h := NewObligationsHandler(testStore(t))

	body, _ := json.Marshal(testObligation("new_rule"))
	req := httptest.NewRequest(http.MethodPost, "/api/obligations", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
}

func TestObligationsCreateDuplicate(t *testing.T) {
	h := NewObligationsHandler(testStore(t, testObligation("dup")))

	body, _ := json.Marshal(testObligation("dup"))
	req := httptest.NewRequest(http.MethodPost, "/api/obligations", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["error"] != "ID already exists" {
		t.Errorf("error = %q", resp["error"])
	}
}

func TestObligationsUpdateMissing(t *testing.T) {
	h := NewObligationsHandler(testStore(t))

	body, _ := json.Marshal(testObligation("ghost"))
	req := httptest.NewRequest(http.MethodPut, "/api/obligations", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["error"] != "Not found" {
		t.Errorf("error = %q", resp["error"])
	}
}

func TestObligationsDelete(t *testing.T) {
	h := NewObligationsHandler(testStore(t, testObligation("a")))

	req := httptest.NewRequest(http.MethodDelete, "/api/obligations?id=a", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp map[string]bool
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp["ok"] {
		t.Errorf("body = %s", rec.Body)
	}
}

func TestObligationsDeleteRequiresID(t *testing.T) {
	h := NewObligationsHandler(testStore(t, testObligation("a")))

	req := httptest.NewRequest(http.MethodDelete, "/api/obligations", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["error"] != "id is required" {
		t.Errorf("error = %q", resp["error"])
	}
}

func TestObligationsDeleteMissing(t *testing.T) {
	h := NewObligationsHandler(testStore(t))

	req := httptest.NewRequest(http.MethodDelete, "/api/obligations?id=ghost", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

// evaluationsMux registers the handler under the route pattern so that
// r.PathValue works the same way it does in the real server.
func evaluationsMux(h http.Handler) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/api/evaluations/{id}", h)
	return mux
}

func storedResult(t *testing.T, st evaluation.Storage, store *catalog.Store) *evaluation.Result {
	t.Helper()
	intake := NewIntakeHandler(store, st, engine.New(nil), nil, true)
	req := httptest.NewRequest(http.MethodPost, "/api/intake", strings.NewReader(intakeBody()))
	rec := httptest.NewRecorder()
	intake.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("intake status = %d, body = %s", rec.Code, rec.Body)
	}
	var resp IntakeResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return resp.Evaluation
}

func TestEvaluationsGet(t *testing.T) {
	store := testStore(t, testObligation("flsa_poster"))
	st := storage.NewMemoryStorage()
	result := storedResult(t, st, store)

	mux := evaluationsMux(NewEvaluationsHandler(st, store))
	req := httptest.NewRequest(http.MethodGet, "/api/evaluations/"+result.ID, nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	var resp EvaluationResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Evaluation == nil || resp.Evaluation.ID != result.ID {
		t.Errorf("evaluation = %+v", resp.Evaluation)
	}
	if len(resp.Checklist) != 1 || resp.Checklist[0].Key != "federal" {
		t.Errorf("checklist = %+v", resp.Checklist)
	}
}

func TestEvaluationsGetMissing(t *testing.T) {
	store := testStore(t)
	mux := evaluationsMux(NewEvaluationsHandler(storage.NewMemoryStorage(), store))

	req := httptest.NewRequest(http.MethodGet, "/api/evaluations/ghost", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["error"] != "Not found" {
		t.Errorf("error = %q", resp["error"])
	}
}

func exportMux(h http.Handler) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/api/export/{evaluationId}", h)
	return mux
}

func TestExportFormats(t *testing.T) {
	store := testStore(t, testObligation("flsa_poster"))
	st := storage.NewMemoryStorage()
	result := storedResult(t, st, store)
	mux := exportMux(NewExportHandler(st, store))

	tests := []struct {
		query       string
		contentType string
		extension   string
		prefix      string
	}{
		{"", "application/pdf", "pdf", "%PDF"},
		{"?format=pdf", "application/pdf", "pdf", "%PDF"},
		{"?format=json", "application/json", "json", "{"},
		{"?format=csv", "text/csv", "csv", "evaluation_id"},
	}
	for _, tt := range tests {
		t.Run("format"+tt.query, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/export/"+result.ID+tt.query, nil)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
			}
			if got := rec.Header().Get("Content-Type"); got != tt.contentType {
				t.Errorf("Content-Type = %q, want %q", got, tt.contentType)
			}
			wantDisposition := `attachment; filename="compliance-` + result.ID + "." + tt.extension + `"`
			if got := rec.Header().Get("Content-Disposition"); got != wantDisposition {
				t.Errorf("Content-Disposition = %q, want %q", got, wantDisposition)
			}
			if !strings.HasPrefix(rec.Body.String(), tt.prefix) {
				t.Errorf("body does not start with %q", tt.prefix)
			}
		})
	}
}

func TestExportUnknownFormat(t *testing.T) {
	store := testStore(t)
	mux := exportMux(NewExportHandler(storage.NewMemoryStorage(), store))

	req := httptest.NewRequest(http.MethodGet, "/api/export/eval-1?format=xml", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestExportMissingEvaluation(t *testing.T) {
	store := testStore(t)
	mux := exportMux(NewExportHandler(storage.NewMemoryStorage(), store))

	req := httptest.NewRequest(http.MethodGet, "/api/export/ghost", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestHealth(t *testing.T) {
	h := NewHealthHandler()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["status"] != "ok" {
		t.Errorf("body = %s", rec.Body)
	}
}
