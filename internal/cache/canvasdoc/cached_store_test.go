package canvasdoc

import (
	"context"
	"testing"
	"time"

	"dfuse/internal/graph"
	docrepo "dfuse/internal/repository/canvasdoc"
)

type fakeOrigin struct {
	getCalls int
	putCalls int
	doc      docrepo.Document
}

func (f *fakeOrigin) Get(_ context.Context, canvasID string) (docrepo.Document, error) {
	f.getCalls++
	if f.doc.CanvasID == "" {
		return docrepo.Document{CanvasID: canvasID}, nil
	}
	return f.doc, nil
}

func (f *fakeOrigin) Put(_ context.Context, doc docrepo.Document, _ int64) (docrepo.Document, bool, error) {
	f.putCalls++
	doc.Version = f.doc.Version + 1
	f.doc = doc
	return doc, false, nil
}

func TestCachedStore_ReadThroughAndWriteThrough(t *testing.T) {
	origin := &fakeOrigin{
		doc: docrepo.Document{CanvasID: "c1", Version: 1},
	}
	store := NewCachedStore(origin, CacheConfig{DocTTL: time.Minute, DocMaxEntries: 8})

	doc1, err := store.Get(context.Background(), "c1")
	if err != nil {
		t.Fatalf("get1 failed: %v", err)
	}
	doc2, err := store.Get(context.Background(), "c1")
	if err != nil {
		t.Fatalf("get2 failed: %v", err)
	}
	if doc1.Version != 1 || doc2.Version != 1 {
		t.Fatalf("unexpected versions: %d %d", doc1.Version, doc2.Version)
	}
	if origin.getCalls != 1 {
		t.Fatalf("expected one origin get, got %d", origin.getCalls)
	}

	updated, conflict, err := store.Put(context.Background(), docrepo.Document{
		CanvasID: "c1",
		Nodes:    []graph.Node{{ID: "n1", Type: graph.NodeTypeTextbox, Text: &graph.TextPayload{Text: "x"}}},
	}, 1)
	if err != nil {
		t.Fatalf("put failed: %v", err)
	}
	if conflict {
		t.Fatalf("unexpected conflict")
	}
	if updated.Version != 2 {
		t.Fatalf("expected version 2 after put, got %d", updated.Version)
	}

	doc3, err := store.Get(context.Background(), "c1")
	if err != nil {
		t.Fatalf("get3 failed: %v", err)
	}
	if doc3.Version != 2 || len(doc3.Nodes) != 1 {
		t.Fatalf("cache not refreshed by put: %#v", doc3)
	}
	if origin.getCalls != 1 {
		t.Fatalf("put must refresh the cache without another origin get, got %d", origin.getCalls)
	}
}
