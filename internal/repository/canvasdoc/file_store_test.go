package canvasdoc

import (
	"context"
	"path/filepath"
	"testing"

	"dfuse/internal/graph"
)

func TestFileStorePutGetAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "canvases.json")
	store := NewFileStore(path)

	doc := Document{
		CanvasID: "c1",
		Nodes: []graph.Node{
			{ID: "chart1", Type: graph.NodeTypeChart, Chart: &graph.ChartPayload{Title: "Revenue"}},
		},
		Edges: []graph.Edge{{ID: "e1", Source: "chart1", Target: "chart1"}},
	}
	stored, conflict, err := store.Put(context.Background(), doc, 0)
	if err != nil {
		t.Fatalf("put failed: %v", err)
	}
	if conflict || stored.Version != 1 {
		t.Fatalf("unexpected put result: conflict=%v version=%d", conflict, stored.Version)
	}

	// A fresh store instance must read the same state back from disk.
	reloaded := NewFileStore(path)
	got, err := reloaded.Get(context.Background(), "c1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.Version != 1 || len(got.Nodes) != 1 || got.Nodes[0].Chart.Title != "Revenue" {
		t.Fatalf("reloaded document mismatch: %#v", got)
	}
}

func TestFileStoreVersionConflict(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "canvases.json"))

	_, _, err := store.Put(context.Background(), Document{CanvasID: "c1"}, 0)
	if err != nil {
		t.Fatalf("put1 failed: %v", err)
	}
	_, _, err = store.Put(context.Background(), Document{CanvasID: "c1"}, 1)
	if err != nil {
		t.Fatalf("put2 failed: %v", err)
	}

	// Writing against the stale base must conflict and keep version 2.
	stored, conflict, err := store.Put(context.Background(), Document{CanvasID: "c1"}, 1)
	if err != nil {
		t.Fatalf("put3 failed: %v", err)
	}
	if !conflict {
		t.Fatalf("expected conflict on stale base version")
	}
	if stored.Version != 2 {
		t.Fatalf("conflict must return current document, got version %d", stored.Version)
	}
}

func TestFileStoreUnknownCanvasIsEmpty(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "canvases.json"))
	doc, err := store.Get(context.Background(), "missing")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if doc.CanvasID != "missing" || doc.Version != 0 || len(doc.Nodes) != 0 {
		t.Fatalf("expected empty document, got %#v", doc)
	}
}
