// Package mutation implements the read path of the canvas engine: user edits
// committed to the shape store are projected back into graph-model form and
// handed to the host application.
package mutation

import (
	"dfuse/internal/canvas/projection"
	"dfuse/internal/graph"
	"dfuse/internal/shape"
)

type Callbacks struct {
	OnNodesChange func([]graph.Node)
	OnEdgesChange func([]graph.Edge)
}

// Handle processes one store mutation. Only user-originated mutations
// re-derive the model; programmatic ones are the engine's own writes and
// reporting them back would loop the sync. There is no incremental diffing
// here — the full node and edge lists are rebuilt from current shapes.
func Handle(ev shape.Mutation, store shape.Store, cb Callbacks) {
	if ev.Source != shape.SourceUser {
		return
	}
	if cb.OnNodesChange == nil && cb.OnEdgesChange == nil {
		return
	}

	shapes := store.CurrentPageShapes()
	nodes := make([]graph.Node, 0, len(shapes))
	arrows := make([]shape.Record, 0)
	for _, rec := range shapes {
		if rec.Type == shape.TypeArrow {
			arrows = append(arrows, rec)
			continue
		}
		if node, ok := projection.ShapeToNode(rec); ok {
			nodes = append(nodes, node)
		}
	}

	if cb.OnNodesChange != nil {
		cb.OnNodesChange(nodes)
	}
	if cb.OnEdgesChange != nil {
		cb.OnEdgesChange(projection.ArrowsToEdges(arrows))
	}
}
