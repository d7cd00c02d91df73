// Package canvas ties the projection, reconciliation, mutation and selection
// components into one engine bound to a shape store. The engine owns no
// authoritative data: just the two diff snapshots it needs to avoid
// redundant writes and duplicate selection events.
package canvas

import (
	"log"

	"dfuse/internal/canvas/mutation"
	"dfuse/internal/canvas/reconcile"
	"dfuse/internal/canvas/selection"
	"dfuse/internal/graph"
	"dfuse/internal/shape"
)

type Callbacks struct {
	OnNodesChange     func([]graph.Node)
	OnEdgesChange     func([]graph.Edge)
	OnSelectionChange func(selection.Selection)
	OnChartSelected   func(chartID string)
	OnChartDeselected func(chartID string)
}

// Engine keeps one shape store in sync with an externally owned graph model.
// All methods must be called from the host's single event loop; store
// mutation events are delivered synchronously on that same loop, so the
// engine never runs concurrently with itself and needs no locking.
type Engine struct {
	store  shape.Store
	cb     Callbacks
	snap   reconcile.Snapshot
	sel    selection.Snapshot
	cancel func()
}

func NewEngine(store shape.Store, cb Callbacks) *Engine {
	e := &Engine{
		store: store,
		cb:    cb,
		snap:  reconcile.EmptySnapshot(),
		sel:   selection.EmptySnapshot(),
	}
	e.cancel = store.Subscribe(e.handleMutation)
	return e
}

// Close detaches the engine from the store's mutation stream.
func (e *Engine) Close() {
	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
}

// SetGraph reconciles the store against an updated graph model. The writes
// it issues carry programmatic provenance and therefore never flow back out
// through OnNodesChange/OnEdgesChange.
func (e *Engine) SetGraph(nodes []graph.Node, edges []graph.Edge) {
	e.snap = reconcile.Run(e.store, nodes, edges, e.snap)
}

func (e *Engine) handleMutation(ev shape.Mutation) {
	// A mutation handler must never panic outward into the store.
	defer func() {
		if r := recover(); r != nil {
			log.Printf("canvas engine: mutation handler panic: %v", r)
		}
	}()

	mutation.Handle(ev, e.store, mutation.Callbacks{
		OnNodesChange: e.cb.OnNodesChange,
		OnEdgesChange: e.cb.OnEdgesChange,
	})
	e.sel = selection.Track(e.store, e.sel, selection.Callbacks{
		OnChartSelected:   e.cb.OnChartSelected,
		OnChartDeselected: e.cb.OnChartDeselected,
		OnSelectionChange: e.cb.OnSelectionChange,
	})
}
