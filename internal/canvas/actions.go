package canvas

import (
	"context"
	"log"
)

// ActionCallbacks are the host-supplied handlers behind the contextual
// toolbar shortcuts. AIQuery and ChartInsight are awaited; ShowTable is
// fire-and-forget.
type ActionCallbacks struct {
	AIQuery      func(ctx context.Context, nodeID string) error
	ChartInsight func(ctx context.Context, nodeID string) error
	ShowTable    func(nodeID string)
}

// Actions is the boundary between the toolbar and the host callbacks.
// Handler errors and panics stop here: they are logged, the loading flag is
// cleared, and nothing propagates back into the engine.
type Actions struct {
	cb      ActionCallbacks
	loading bool
}

func NewActions(cb ActionCallbacks) *Actions {
	return &Actions{cb: cb}
}

// Loading reports whether an awaited action is still in flight; the toolbar
// disables its buttons while true.
func (a *Actions) Loading() bool {
	return a != nil && a.loading
}

func (a *Actions) RunAIQuery(ctx context.Context, nodeID string) {
	a.run(ctx, "ai query", nodeID, a.cb.AIQuery)
}

func (a *Actions) RunChartInsight(ctx context.Context, nodeID string) {
	a.run(ctx, "chart insight", nodeID, a.cb.ChartInsight)
}

func (a *Actions) RunShowTable(nodeID string) {
	if a == nil || a.cb.ShowTable == nil {
		return
	}
	defer a.recoverAction("show table", nodeID)
	a.cb.ShowTable(nodeID)
}

func (a *Actions) run(ctx context.Context, name, nodeID string, fn func(context.Context, string) error) {
	if a == nil || fn == nil {
		return
	}
	a.loading = true
	// The flag must clear on every exit path, completion and failure alike.
	defer func() { a.loading = false }()
	defer a.recoverAction(name, nodeID)
	if err := fn(ctx, nodeID); err != nil {
		log.Printf("canvas toolbar: %s failed for node %s: %v", name, nodeID, err)
	}
}

func (a *Actions) recoverAction(name, nodeID string) {
	if r := recover(); r != nil {
		log.Printf("canvas toolbar: %s handler panic for node %s: %v", name, nodeID, r)
	}
}
