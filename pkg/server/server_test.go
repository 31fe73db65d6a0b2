package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"complyhq/compass/pkg/catalog"
	"complyhq/compass/pkg/config"
	"complyhq/compass/pkg/evaluation/storage"
	"complyhq/compass/pkg/jsonstore"
	"complyhq/compass/pkg/rules/engine"
	"complyhq/compass/pkg/server/middleware"
	"complyhq/compass/pkg/telemetry/metrics"
)

func testServer(t *testing.T) *Server {
	t.Helper()

	files, err := jsonstore.Open(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("jsonstore.Open: %v", err)
	}
	store := catalog.NewStore(files, nil)
	if err := store.Create(catalog.Obligation{
		ID:           "flsa_poster",
		Title:        "Display the federal labor law poster",
		Jurisdiction: catalog.JurisdictionFederal,
		Topics:       []catalog.Topic{catalog.TopicLabor},
		Triggers: []catalog.TriggerPredicate{
			{Fact: "employeeCount", Operator: catalog.OperatorGTE, Value: float64(1)},
		},
		Actions:   []catalog.Action{{Summary: "Post it"}},
		Citations: []catalog.Citation{},
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	return NewServer(config.DefaultConfig(), store, storage.NewMemoryStorage(), engine.New(nil), metrics.NewCollector(nil))
}

func TestRouting(t *testing.T) {
	handler := testServer(t).Handler()

	tests := []struct {
		method string
		path   string
		body   string
		status int
	}{
		{http.MethodGet, "/health", "", http.StatusOK},
		{http.MethodGet, "/api/obligations", "", http.StatusOK},
		{http.MethodGet, "/api/evaluations/ghost", "", http.StatusNotFound},
		{http.MethodGet, "/api/export/ghost", "", http.StatusNotFound},
		{http.MethodGet, "/metrics", "", http.StatusOK},
		{http.MethodGet, "/nope", "", http.StatusNotFound},
		{
			http.MethodPost, "/api/intake",
			`{"location":{"state":"CA"},"employeeCount":3,"entityType":"llc","activities":{}}`,
			http.StatusCreated,
		},
		{
			http.MethodPost, "/api/intake/preview",
			`{"location":{"state":"CA"},"employeeCount":3,"entityType":"llc","activities":{}}`,
			http.StatusCreated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			var req *http.Request
			if tt.body != "" {
				req = httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			} else {
				req = httptest.NewRequest(tt.method, tt.path, nil)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d, body = %s", rec.Code, tt.status, rec.Body)
			}
		})
	}
}

func TestMiddlewareChain(t *testing.T) {
	handler := testServer(t).Handler()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Header().Get(middleware.RequestIDHeader) == "" {
		t.Error("request id header missing")
	}
	if rec.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Error("CORS header missing")
	}

	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["status"] != "ok" {
		t.Errorf("body = %s", rec.Body)
	}
}

func TestMetricsRouteDisabled(t *testing.T) {
	srv := testServer(t)
	srv.config.Telemetry.Metrics.Enabled = false

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404 when metrics are disabled", rec.Code)
	}
}
