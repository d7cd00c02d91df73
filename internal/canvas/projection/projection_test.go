package projection

import (
	"reflect"
	"testing"

	"dfuse/internal/graph"
	"dfuse/internal/shape"
)

func TestChartRoundTrip(t *testing.T) {
	node := graph.Node{
		ID:       "chart1",
		Type:     graph.NodeTypeChart,
		Position: graph.Position{X: 120, Y: -40},
		Chart: &graph.ChartPayload{
			Width:       640,
			Height:      320,
			Data:        []map[string]any{{"region": "EMEA", "revenue": 1200.5}},
			Layout:      map[string]any{"barmode": "group"},
			ChartType:   "bar",
			Title:       "Revenue by Region",
			Dimensions:  []string{"region"},
			Measures:    []string{"revenue"},
			TableRows:   []map[string]any{{"region": "EMEA"}},
			Aggregation: "sum",
			DatasetID:   "ds-7",
			Selected:    true,
			AIInsights:  "EMEA leads.",
			AIQuery:     "why is EMEA up?",
		},
	}

	rec, ok := NodeToShape(node)
	if !ok {
		t.Fatalf("projection rejected chart node")
	}
	if rec.ID != shape.IDForNode("chart1") || rec.Type != shape.TypeChart {
		t.Fatalf("unexpected record identity: %q %q", rec.ID, rec.Type)
	}

	back, ok := ShapeToNode(rec)
	if !ok {
		t.Fatalf("inverse projection rejected chart record")
	}
	if !reflect.DeepEqual(node, back) {
		t.Fatalf("chart round trip mismatch:\n got %#v\nwant %#v", back, node)
	}
}

func TestTextboxRoundTrip(t *testing.T) {
	node := graph.Node{
		ID:       "text1",
		Type:     graph.NodeTypeTextbox,
		Position: graph.Position{X: 10, Y: 20},
		Text:     &graph.TextPayload{Width: 300, Height: 80, Text: "note", FontSize: 14},
	}
	rec, ok := NodeToShape(node)
	if !ok {
		t.Fatalf("projection rejected textbox node")
	}
	back, ok := ShapeToNode(rec)
	if !ok {
		t.Fatalf("inverse projection rejected textbox record")
	}
	if !reflect.DeepEqual(node, back) {
		t.Fatalf("textbox round trip mismatch:\n got %#v\nwant %#v", back, node)
	}
}

func TestTableRoundTrip(t *testing.T) {
	node := graph.Node{
		ID:   "table1",
		Type: graph.NodeTypeTable,
		Table: &graph.TablePayload{
			Width:     620,
			Height:    410,
			Title:     "Raw rows",
			Headers:   []string{"region", "revenue"},
			Rows:      [][]string{{"EMEA", "1200.5"}},
			TotalRows: 1,
		},
	}
	rec, ok := NodeToShape(node)
	if !ok {
		t.Fatalf("projection rejected table node")
	}
	back, ok := ShapeToNode(rec)
	if !ok {
		t.Fatalf("inverse projection rejected table record")
	}
	if !reflect.DeepEqual(node, back) {
		t.Fatalf("table round trip mismatch:\n got %#v\nwant %#v", back, node)
	}
}

func TestDefaultsAppliedPerType(t *testing.T) {
	cases := []struct {
		node graph.Node
		w, h float64
	}{
		{graph.Node{ID: "c", Type: graph.NodeTypeChart, Chart: &graph.ChartPayload{}}, DefaultChartWidth, DefaultChartHeight},
		{graph.Node{ID: "t", Type: graph.NodeTypeTextbox, Text: &graph.TextPayload{}}, DefaultTextWidth, DefaultTextHeight},
		{graph.Node{ID: "g", Type: graph.NodeTypeTable, Table: &graph.TablePayload{}}, DefaultTableWidth, DefaultTableHeight},
	}
	for _, tc := range cases {
		rec, ok := NodeToShape(tc.node)
		if !ok {
			t.Fatalf("projection rejected %s node", tc.node.Type)
		}
		var w, h float64
		switch {
		case rec.Chart != nil:
			w, h = rec.Chart.W, rec.Chart.H
		case rec.Text != nil:
			w, h = rec.Text.W, rec.Text.H
		case rec.Table != nil:
			w, h = rec.Table.W, rec.Table.H
		}
		if w != tc.w || h != tc.h {
			t.Fatalf("%s defaults: got %gx%g want %gx%g", tc.node.Type, w, h, tc.w, tc.h)
		}
	}
}

func TestUnknownTypesAreSkipped(t *testing.T) {
	if _, ok := NodeToShape(graph.Node{ID: "x", Type: "sticker"}); ok {
		t.Fatalf("expected unknown node type to be skipped")
	}
	if _, ok := ShapeToNode(shape.Record{ID: shape.IDForNode("x"), Type: "frame"}); ok {
		t.Fatalf("expected unknown shape type to be skipped")
	}
	if _, ok := ShapeToNode(shape.Record{ID: "not-namespaced", Type: shape.TypeChart}); ok {
		t.Fatalf("expected foreign shape id to be skipped")
	}
}

func TestEdgeArrowRoundTrip(t *testing.T) {
	edges := []graph.Edge{
		{ID: "e1", Source: "chart1", Target: "text1"},
		{ID: "e2", Source: "chart1", Target: "table1"},
	}
	arrows := EdgesToArrows(edges)
	if len(arrows) != 2 {
		t.Fatalf("expected 2 arrows, got %d", len(arrows))
	}
	for _, rec := range arrows {
		if rec.Type != shape.TypeArrow || rec.Arrow == nil {
			t.Fatalf("bad arrow record: %#v", rec)
		}
	}
	back := ArrowsToEdges(arrows)
	if !reflect.DeepEqual(edges, back) {
		t.Fatalf("edge round trip mismatch:\n got %#v\nwant %#v", back, edges)
	}
}
