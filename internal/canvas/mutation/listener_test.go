package mutation

import (
	"testing"

	"dfuse/internal/canvas/projection"
	"dfuse/internal/graph"
	"dfuse/internal/shape"
)

func seedStore(t *testing.T) *shape.MemoryStore {
	t.Helper()
	store := shape.NewMemoryStore()
	chart, _ := projection.NodeToShape(graph.Node{
		ID: "chart1", Type: graph.NodeTypeChart,
		Chart: &graph.ChartPayload{Title: "Revenue"},
	})
	text, _ := projection.NodeToShape(graph.Node{
		ID: "text1", Type: graph.NodeTypeTextbox,
		Text: &graph.TextPayload{Text: "note"},
	})
	arrows := projection.EdgesToArrows([]graph.Edge{{ID: "e1", Source: "chart1", Target: "text1"}})
	store.CreateShapes(shape.SourceProgrammatic, append([]shape.Record{chart, text}, arrows...))
	return store
}

func TestUserMutationRederivesModel(t *testing.T) {
	store := seedStore(t)
	var nodes []graph.Node
	var edges []graph.Edge
	cb := Callbacks{
		OnNodesChange: func(n []graph.Node) { nodes = n },
		OnEdgesChange: func(e []graph.Edge) { edges = e },
	}

	Handle(shape.Mutation{Source: shape.SourceUser}, store, cb)

	if len(nodes) != 2 {
		t.Fatalf("expected 2 nodes, got %d", len(nodes))
	}
	if len(edges) != 1 || edges[0].Source != "chart1" || edges[0].Target != "text1" {
		t.Fatalf("unexpected edges: %#v", edges)
	}
}

func TestProgrammaticMutationIsIgnored(t *testing.T) {
	store := seedStore(t)
	called := false
	cb := Callbacks{OnNodesChange: func([]graph.Node) { called = true }}

	Handle(shape.Mutation{Source: shape.SourceProgrammatic}, store, cb)

	if called {
		t.Fatalf("programmatic mutations must not re-derive the model")
	}
}

func TestForeignShapesAreExcluded(t *testing.T) {
	store := seedStore(t)
	store.CreateShapes(shape.SourceProgrammatic, []shape.Record{
		{ID: "freehand:1", Type: "draw"},
	})
	var nodes []graph.Node
	Handle(shape.Mutation{Source: shape.SourceUser}, store, Callbacks{
		OnNodesChange: func(n []graph.Node) { nodes = n },
	})
	if len(nodes) != 2 {
		t.Fatalf("foreign shape leaked into node list: %#v", nodes)
	}
}
