// Package canvasdoc persists the application-owned graph model: one
// versioned document of nodes and edges per canvas. The sync engine never
// touches this package directly; the host loads a document, feeds it to the
// engine, and writes back what the engine's model callbacks report.
package canvasdoc

import (
	"context"

	"dfuse/internal/graph"
)

// Document is the unit of persistence. A canvas that was never written
// reads back as the zero document with its id set.
type Document struct {
	CanvasID string       `json:"canvasId"`
	Version  int64        `json:"version"`
	Nodes    []graph.Node `json:"nodes"`
	Edges    []graph.Edge `json:"edges"`
}

// Store persists canvas documents. Put is optimistic: when baseVersion is
// positive and differs from the stored version, the stored document is
// returned with conflict=true and nothing is written.
type Store interface {
	Get(ctx context.Context, canvasID string) (Document, error)
	Put(ctx context.Context, doc Document, baseVersion int64) (Document, bool, error)
}
