// Package reconcile implements the write path of the canvas engine: given an
// updated graph model, compute and apply the minimal set of shape-store
// writes that make the store match it.
package reconcile

import (
	"log"

	"dfuse/internal/canvas/projection"
	"dfuse/internal/graph"
	"dfuse/internal/shape"
)

// Run diffs the incoming node and edge lists against the previous
// snapshot, applies the resulting store writes with programmatic provenance,
// and returns the snapshot for the next pass. Calling it twice with the same
// input issues zero writes on the second call.
func Run(store shape.Store, nodes []graph.Node, edges []graph.Edge, snap Snapshot) Snapshot {
	next := EmptySnapshot()

	var created []shape.Record
	for _, node := range nodes {
		raw := payloadJSON(node)
		if raw == nil {
			// Unrecognized node type: excluded from projection and from
			// change tracking alike, so it never reaches the update path.
			continue
		}
		next.LastSeenNodeIDs[node.ID] = struct{}{}
		next.LastSeenPayloads[node.ID] = raw

		if !snap.seen(node.ID) {
			rec, ok := projection.NodeToShape(node)
			if !ok {
				continue
			}
			created = append(created, rec)
			continue
		}
		if samePayload(raw, snap.LastSeenPayloads[node.ID]) {
			continue
		}
		updateNodeShape(store, node)
	}
	if len(created) > 0 {
		store.CreateShapes(shape.SourceProgrammatic, created)
	}

	reconcileEdges(store, edges)
	return next
}

// updateNodeShape merges the node's payload over the existing shape props.
// Fields that are missing or zero in the incoming payload keep the existing
// value rather than being cleared, so this path cannot express "set field to
// empty" — last write wins for truthy values only.
func updateNodeShape(store shape.Store, node graph.Node) {
	id := shape.IDForNode(node.ID)
	existing, ok := store.GetShape(id)
	if !ok {
		log.Printf("canvas sync: no shape %s for changed node %s, skipping update", id, node.ID)
		return
	}
	// Geometry stays where the shape is; only the payload merges.
	merged := shape.Record{ID: id, Type: existing.Type, X: existing.X, Y: existing.Y}
	switch existing.Type {
	case shape.TypeChart:
		merged.Chart = mergeChartProps(existing.Chart, node.Chart)
	case shape.TypeTextbox:
		merged.Text = mergeTextProps(existing.Text, node.Text)
	case shape.TypeTable:
		merged.Table = mergeTableProps(existing.Table, node.Table)
	default:
		return
	}
	store.UpdateShape(shape.SourceProgrammatic, merged)
}

// reconcileEdges keys existing arrows and incoming edges by id, creating the
// missing, deleting the stale, and rewriting endpoints that moved.
func reconcileEdges(store shape.Store, edges []graph.Edge) {
	existing := make(map[string]shape.Record)
	for _, rec := range store.CurrentPageShapes() {
		if rec.Type == shape.TypeArrow {
			existing[rec.ID] = rec
		}
	}

	var created []shape.Record
	for _, rec := range projection.EdgesToArrows(edges) {
		prev, ok := existing[rec.ID]
		if !ok {
			created = append(created, rec)
			continue
		}
		delete(existing, rec.ID)
		if prev.Arrow == nil || *prev.Arrow != *rec.Arrow {
			store.UpdateShape(shape.SourceProgrammatic, rec)
		}
	}
	if len(created) > 0 {
		store.CreateShapes(shape.SourceProgrammatic, created)
	}
	if len(existing) > 0 {
		stale := make([]string, 0, len(existing))
		for id := range existing {
			stale = append(stale, id)
		}
		store.DeleteShapes(shape.SourceProgrammatic, stale)
	}
}

func mergeChartProps(existing *shape.ChartProps, incoming *graph.ChartPayload) *shape.ChartProps {
	out := shape.ChartProps{}
	if existing != nil {
		out = *existing
	}
	if incoming == nil {
		return &out
	}
	if incoming.Width > 0 {
		out.W = incoming.Width
	}
	if incoming.Height > 0 {
		out.H = incoming.Height
	}
	if len(incoming.Data) > 0 {
		out.ChartData = incoming.Data
	}
	if len(incoming.Layout) > 0 {
		out.Layout = incoming.Layout
	}
	if incoming.ChartType != "" {
		out.ChartType = incoming.ChartType
	}
	if incoming.Title != "" {
		out.Title = incoming.Title
	}
	if len(incoming.Dimensions) > 0 {
		out.Dimensions = incoming.Dimensions
	}
	if len(incoming.Measures) > 0 {
		out.Measures = incoming.Measures
	}
	if len(incoming.TableRows) > 0 {
		out.TableRows = incoming.TableRows
	}
	if incoming.Aggregation != "" {
		out.Aggregation = incoming.Aggregation
	}
	if incoming.DatasetID != "" {
		out.DatasetID = incoming.DatasetID
	}
	if incoming.Selected {
		out.Selected = true
	}
	if incoming.AIInsights != "" {
		out.AIInsights = incoming.AIInsights
	}
	if incoming.AIQuery != "" {
		out.AIQuery = incoming.AIQuery
	}
	return &out
}

func mergeTextProps(existing *shape.TextProps, incoming *graph.TextPayload) *shape.TextProps {
	out := shape.TextProps{}
	if existing != nil {
		out = *existing
	}
	if incoming == nil {
		return &out
	}
	if incoming.Width > 0 {
		out.W = incoming.Width
	}
	if incoming.Height > 0 {
		out.H = incoming.Height
	}
	if incoming.Text != "" {
		out.Text = incoming.Text
	}
	if incoming.FontSize > 0 {
		out.FontSize = incoming.FontSize
	}
	return &out
}

func mergeTableProps(existing *shape.TableProps, incoming *graph.TablePayload) *shape.TableProps {
	out := shape.TableProps{}
	if existing != nil {
		out = *existing
	}
	if incoming == nil {
		return &out
	}
	if incoming.Width > 0 {
		out.W = incoming.Width
	}
	if incoming.Height > 0 {
		out.H = incoming.Height
	}
	if incoming.Title != "" {
		out.Title = incoming.Title
	}
	if len(incoming.Headers) > 0 {
		out.Headers = incoming.Headers
	}
	if len(incoming.Rows) > 0 {
		out.Rows = incoming.Rows
	}
	if incoming.TotalRows > 0 {
		out.TotalRows = incoming.TotalRows
	}
	return &out
}
