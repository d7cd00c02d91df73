package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"dfuse/internal/graph"
	docrepo "dfuse/internal/repository/canvasdoc"
)

func newTestRouter(t *testing.T) (http.Handler, docrepo.Store) {
	t.Helper()
	docs := docrepo.NewFileStore(filepath.Join(t.TempDir(), "docs.json"))
	return NewRouter(Deps{Docs: docs}), docs
}

func TestHealthz(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestGetCanvasReturnsStoredDocument(t *testing.T) {
	router, docs := newTestRouter(t)

	node, _ := graph.BuildTextNode("n1", graph.Position{X: 1, Y: 2}, "hello", 14)
	if _, _, err := docs.Put(context.Background(), docrepo.Document{
		CanvasID: "c1",
		Nodes:    []graph.Node{node},
	}, 0); err != nil {
		t.Fatalf("seed document: %v", err)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/canvas/c1", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var doc docrepo.Document
	if err := json.Unmarshal(rec.Body.Bytes(), &doc); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if doc.CanvasID != "c1" || len(doc.Nodes) != 1 || doc.Nodes[0].ID != "n1" {
		t.Fatalf("unexpected document: %#v", doc)
	}
}

func TestGetCanvasUnknownIDReturnsEmptyDocument(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/canvas/never-written", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var doc docrepo.Document
	if err := json.Unmarshal(rec.Body.Bytes(), &doc); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if doc.CanvasID != "never-written" || doc.Version != 0 || len(doc.Nodes) != 0 {
		t.Fatalf("expected empty document, got %#v", doc)
	}
}

func TestDatasetRoutesUnavailableWithoutStore(t *testing.T) {
	router, _ := newTestRouter(t)

	for _, tc := range []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/datasets"},
		{http.MethodGet, "/api/datasets"},
		{http.MethodGet, "/api/datasets/ds-1"},
	} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, nil))
		if rec.Code != http.StatusServiceUnavailable {
			t.Fatalf("%s %s: expected 503, got %d", tc.method, tc.path, rec.Code)
		}
	}
}

func TestCanvasWSRequiresCanvasID(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ws/canvas", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
