// Package selection tracks which chart shapes are selected across store
// mutations and emits the per-chart transitions that drive the contextual
// toolbar.
package selection

import (
	"sort"

	"dfuse/internal/canvas/projection"
	"dfuse/internal/graph"
	"dfuse/internal/shape"
)

// Snapshot is the previously observed selection, compared against the
// current store state on every mutation regardless of origin.
type Snapshot struct {
	SelectedChartIDs map[string]struct{}
}

func EmptySnapshot() Snapshot {
	return Snapshot{SelectedChartIDs: make(map[string]struct{})}
}

type Selection struct {
	Nodes []graph.Node
}

type Callbacks struct {
	OnChartSelected   func(chartID string)
	OnChartDeselected func(chartID string)
	// OnSelectionChange fires whenever at least one supported shape is
	// selected, with the projected node list of the whole selection.
	OnSelectionChange func(Selection)
}

// Track recomputes the selected chart set, emits one event per id that
// entered or left it, and returns the snapshot for the next mutation.
// Transitions fire in sorted id order so consumers see a stable sequence.
func Track(store shape.Store, snap Snapshot, cb Callbacks) Snapshot {
	selected := store.SelectedShapes()

	next := EmptySnapshot()
	var nodes []graph.Node
	for _, rec := range selected {
		if node, ok := projection.ShapeToNode(rec); ok {
			nodes = append(nodes, node)
			if rec.Type == shape.TypeChart {
				next.SelectedChartIDs[node.ID] = struct{}{}
			}
		}
	}

	for _, id := range sortedDiff(next.SelectedChartIDs, snap.SelectedChartIDs) {
		if cb.OnChartSelected != nil {
			cb.OnChartSelected(id)
		}
	}
	for _, id := range sortedDiff(snap.SelectedChartIDs, next.SelectedChartIDs) {
		if cb.OnChartDeselected != nil {
			cb.OnChartDeselected(id)
		}
	}

	if len(nodes) > 0 && cb.OnSelectionChange != nil {
		cb.OnSelectionChange(Selection{Nodes: nodes})
	}
	return next
}

// sortedDiff returns the ids in a but not in b, sorted.
func sortedDiff(a, b map[string]struct{}) []string {
	var out []string
	for id := range a {
		if _, ok := b[id]; !ok {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}
