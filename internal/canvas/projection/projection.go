// Package projection holds the pure mappings between graph-model entities
// and their shape-store representation. Both directions are total over the
// supported types and return the zero value plus false for anything else;
// an unrecognized type is a silent skip, never an error.
package projection

import (
	"dfuse/internal/graph"
	"dfuse/internal/shape"
)

// Default artifact sizes applied when the incoming entity carries none.
// These are part of the projection contract: round-tripping a node that
// relied on a default must reproduce the same default.
const (
	DefaultChartWidth   = 800
	DefaultChartHeight  = 400
	DefaultTextWidth    = 200
	DefaultTextHeight   = 100
	DefaultTableWidth   = 600
	DefaultTableHeight  = 400
	DefaultTextFontSize = 16
)

// NodeToShape maps a graph node onto its shape-store record.
func NodeToShape(node graph.Node) (shape.Record, bool) {
	rec := shape.Record{
		ID: shape.IDForNode(node.ID),
		X:  node.Position.X,
		Y:  node.Position.Y,
	}
	switch node.Type {
	case graph.NodeTypeChart:
		rec.Type = shape.TypeChart
		rec.Chart = chartProps(node.Chart)
	case graph.NodeTypeTextbox:
		rec.Type = shape.TypeTextbox
		rec.Text = textProps(node.Text)
	case graph.NodeTypeTable:
		rec.Type = shape.TypeTable
		rec.Table = tableProps(node.Table)
	default:
		return shape.Record{}, false
	}
	return rec, true
}

// ShapeToNode is the inverse of NodeToShape.
func ShapeToNode(rec shape.Record) (graph.Node, bool) {
	nodeID, ok := shape.NodeIDFor(rec.ID)
	if !ok {
		return graph.Node{}, false
	}
	node := graph.Node{
		ID:       nodeID,
		Position: graph.Position{X: rec.X, Y: rec.Y},
	}
	switch rec.Type {
	case shape.TypeChart:
		node.Type = graph.NodeTypeChart
		node.Chart = chartPayload(rec.Chart)
	case shape.TypeTextbox:
		node.Type = graph.NodeTypeTextbox
		node.Text = textPayload(rec.Text)
	case shape.TypeTable:
		node.Type = graph.NodeTypeTable
		node.Table = tablePayload(rec.Table)
	default:
		return graph.Node{}, false
	}
	return node, true
}

// EdgesToArrows maps the edge list onto arrow records. The arrow id reuses
// the edge id through the same namespace transform as nodes, keeping both
// directions bijective.
func EdgesToArrows(edges []graph.Edge) []shape.Record {
	out := make([]shape.Record, 0, len(edges))
	for _, e := range edges {
		if e.ID == "" || e.Source == "" || e.Target == "" {
			continue
		}
		out = append(out, shape.Record{
			ID:   shape.IDForNode(e.ID),
			Type: shape.TypeArrow,
			Arrow: &shape.ArrowProps{
				FromShapeID: shape.IDForNode(e.Source),
				ToShapeID:   shape.IDForNode(e.Target),
			},
		})
	}
	return out
}

// ArrowsToEdges is the inverse of EdgesToArrows. Arrows with unresolvable
// endpoints are skipped.
func ArrowsToEdges(arrows []shape.Record) []graph.Edge {
	out := make([]graph.Edge, 0, len(arrows))
	for _, rec := range arrows {
		if rec.Type != shape.TypeArrow || rec.Arrow == nil {
			continue
		}
		id, ok := shape.NodeIDFor(rec.ID)
		if !ok {
			continue
		}
		source, ok := shape.NodeIDFor(rec.Arrow.FromShapeID)
		if !ok {
			continue
		}
		target, ok := shape.NodeIDFor(rec.Arrow.ToShapeID)
		if !ok {
			continue
		}
		out = append(out, graph.Edge{ID: id, Source: source, Target: target})
	}
	return out
}

func chartProps(p *graph.ChartPayload) *shape.ChartProps {
	if p == nil {
		p = &graph.ChartPayload{}
	}
	return &shape.ChartProps{
		W:           sizeOr(p.Width, DefaultChartWidth),
		H:           sizeOr(p.Height, DefaultChartHeight),
		ChartData:   p.Data,
		Layout:      p.Layout,
		ChartType:   p.ChartType,
		Title:       p.Title,
		Dimensions:  p.Dimensions,
		Measures:    p.Measures,
		TableRows:   p.TableRows,
		Aggregation: p.Aggregation,
		DatasetID:   p.DatasetID,
		Selected:    p.Selected,
		AIInsights:  p.AIInsights,
		AIQuery:     p.AIQuery,
	}
}

func chartPayload(p *shape.ChartProps) *graph.ChartPayload {
	if p == nil {
		p = &shape.ChartProps{}
	}
	return &graph.ChartPayload{
		Width:       sizeOr(p.W, DefaultChartWidth),
		Height:      sizeOr(p.H, DefaultChartHeight),
		Data:        p.ChartData,
		Layout:      p.Layout,
		ChartType:   p.ChartType,
		Title:       p.Title,
		Dimensions:  p.Dimensions,
		Measures:    p.Measures,
		TableRows:   p.TableRows,
		Aggregation: p.Aggregation,
		DatasetID:   p.DatasetID,
		Selected:    p.Selected,
		AIInsights:  p.AIInsights,
		AIQuery:     p.AIQuery,
	}
}

func textProps(p *graph.TextPayload) *shape.TextProps {
	if p == nil {
		p = &graph.TextPayload{}
	}
	return &shape.TextProps{
		W:        sizeOr(p.Width, DefaultTextWidth),
		H:        sizeOr(p.Height, DefaultTextHeight),
		Text:     p.Text,
		FontSize: sizeOr(p.FontSize, DefaultTextFontSize),
	}
}

func textPayload(p *shape.TextProps) *graph.TextPayload {
	if p == nil {
		p = &shape.TextProps{}
	}
	return &graph.TextPayload{
		Width:    sizeOr(p.W, DefaultTextWidth),
		Height:   sizeOr(p.H, DefaultTextHeight),
		Text:     p.Text,
		FontSize: sizeOr(p.FontSize, DefaultTextFontSize),
	}
}

func tableProps(p *graph.TablePayload) *shape.TableProps {
	if p == nil {
		p = &graph.TablePayload{}
	}
	return &shape.TableProps{
		W:         sizeOr(p.Width, DefaultTableWidth),
		H:         sizeOr(p.Height, DefaultTableHeight),
		Title:     p.Title,
		Headers:   p.Headers,
		Rows:      p.Rows,
		TotalRows: p.TotalRows,
	}
}

func tablePayload(p *shape.TableProps) *graph.TablePayload {
	if p == nil {
		p = &shape.TableProps{}
	}
	return &graph.TablePayload{
		Width:     sizeOr(p.W, DefaultTableWidth),
		Height:    sizeOr(p.H, DefaultTableHeight),
		Title:     p.Title,
		Headers:   p.Headers,
		Rows:      p.Rows,
		TotalRows: p.TotalRows,
	}
}

func sizeOr(v, def float64) float64 {
	if v <= 0 {
		return def
	}
	return v
}
