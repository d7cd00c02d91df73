package server

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"dfuse/internal/canvas"
	"dfuse/internal/canvas/selection"
	"dfuse/internal/graph"
	"dfuse/internal/insight"
	docrepo "dfuse/internal/repository/canvasdoc"
	"dfuse/internal/shape"
)

const (
	canvasWSWriteWait = 10 * time.Second
	canvasWSPongWait  = 60 * time.Second
	canvasWSPingEvery = (canvasWSPongWait * 9) / 10
)

var canvasWSUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(_ *http.Request) bool {
		return true
	},
}

// CanvasWSHandler serves one sync session per connection: the client is the
// rendering runtime, the server owns the graph model and the engine.
type CanvasWSHandler struct {
	docs     docrepo.Store
	insights insight.Generator
}

func NewCanvasWSHandler(docs docrepo.Store, insights insight.Generator) *CanvasWSHandler {
	return &CanvasWSHandler{docs: docs, insights: insights}
}

type canvasWSInbound struct {
	Type     string         `json:"type"`
	Nodes    []graph.Node   `json:"nodes,omitempty"`
	Edges    []graph.Edge   `json:"edges,omitempty"`
	Shape    *shape.Record  `json:"shape,omitempty"`
	Shapes   []shape.Record `json:"shapes,omitempty"`
	IDs      []string       `json:"ids,omitempty"`
	NodeID   string         `json:"nodeId,omitempty"`
	Question string         `json:"question,omitempty"`
}

type canvasWSOutbound struct {
	Type    string       `json:"type"`
	Canvas  string       `json:"canvasId,omitempty"`
	Nodes   []graph.Node `json:"nodes,omitempty"`
	Edges   []graph.Edge `json:"edges,omitempty"`
	ChartID string       `json:"chartId,omitempty"`
	NodeID  string       `json:"nodeId,omitempty"`
	Text    string       `json:"text,omitempty"`
	Code    string       `json:"code,omitempty"`
	Message string       `json:"message,omitempty"`
}

// canvasSession is all the per-connection state. Everything in it is touched
// only from the read loop, which is what gives the engine its single
// event-loop guarantee.
type canvasSession struct {
	canvasID string
	store    *shape.MemoryStore
	engine   *canvas.Engine
	actions  *canvas.Actions

	docs    docrepo.Store
	nodes   []graph.Node
	edges   []graph.Edge
	version int64

	// pendingQuestion carries the question of the last ai_query message into
	// the action callback; the read loop is single-threaded so no lock is
	// needed.
	pendingQuestion string

	writeCh chan canvasWSOutbound
}

func (h *CanvasWSHandler) HandleCanvasWS(w http.ResponseWriter, r *http.Request) {
	canvasID := strings.TrimSpace(r.URL.Query().Get("canvas_id"))
	if canvasID == "" {
		http.Error(w, "canvas_id is required", http.StatusBadRequest)
		return
	}

	conn, err := canvasWSUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	if err := conn.SetReadDeadline(time.Now().Add(canvasWSPongWait)); err != nil {
		log.Printf("canvas ws set read deadline failed: %v", err)
		return
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(canvasWSPongWait))
	})

	writeCh := make(chan canvasWSOutbound, 32)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		ticker := time.NewTicker(canvasWSPingEvery)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case out := <-writeCh:
				if err := conn.SetWriteDeadline(time.Now().Add(canvasWSWriteWait)); err != nil {
					return
				}
				if err := conn.WriteJSON(out); err != nil {
					return
				}
			case <-ticker.C:
				if err := conn.SetWriteDeadline(time.Now().Add(canvasWSWriteWait)); err != nil {
					return
				}
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			}
		}
	}()

	sess, err := h.newSession(ctx, canvasID, writeCh)
	if err != nil {
		pushCanvasWS(writeCh, canvasWSOutbound{
			Type:    "error",
			Code:    "internal",
			Message: err.Error(),
		})
		cancel()
		<-writerDone
		return
	}
	defer sess.engine.Close()

	pushCanvasWS(writeCh, canvasWSOutbound{
		Type:   "subscribed",
		Canvas: canvasID,
		Nodes:  sess.nodes,
		Edges:  sess.edges,
	})

	for {
		var in canvasWSInbound
		if err := conn.ReadJSON(&in); err != nil {
			cancel()
			<-writerDone
			return
		}
		sess.handle(ctx, in)
	}
}

func (h *CanvasWSHandler) newSession(ctx context.Context, canvasID string, writeCh chan canvasWSOutbound) (*canvasSession, error) {
	doc, err := h.docs.Get(ctx, canvasID)
	if err != nil {
		return nil, err
	}

	sess := &canvasSession{
		canvasID: canvasID,
		store:    shape.NewMemoryStore(),
		docs:     h.docs,
		nodes:    doc.Nodes,
		edges:    doc.Edges,
		version:  doc.Version,
		writeCh:  writeCh,
	}
	sess.engine = canvas.NewEngine(sess.store, canvas.Callbacks{
		OnNodesChange: func(nodes []graph.Node) {
			sess.nodes = nodes
			sess.persist(ctx)
			pushCanvasWS(writeCh, canvasWSOutbound{Type: "nodes_changed", Nodes: nodes})
		},
		OnEdgesChange: func(edges []graph.Edge) {
			sess.edges = edges
			sess.persist(ctx)
			pushCanvasWS(writeCh, canvasWSOutbound{Type: "edges_changed", Edges: edges})
		},
		OnSelectionChange: func(sel selection.Selection) {
			pushCanvasWS(writeCh, canvasWSOutbound{Type: "selection_changed", Nodes: sel.Nodes})
		},
		OnChartSelected: func(chartID string) {
			pushCanvasWS(writeCh, canvasWSOutbound{Type: "chart_selected", ChartID: chartID})
		},
		OnChartDeselected: func(chartID string) {
			pushCanvasWS(writeCh, canvasWSOutbound{Type: "chart_deselected", ChartID: chartID})
		},
	})
	sess.actions = canvas.NewActions(canvas.ActionCallbacks{
		ChartInsight: sess.chartInsight(h.insights),
		AIQuery:      sess.aiQuery(h.insights),
		ShowTable:    sess.showTable,
	})
	sess.engine.SetGraph(sess.nodes, sess.edges)
	return sess, nil
}

func (s *canvasSession) handle(ctx context.Context, in canvasWSInbound) {
	msgType := strings.ToLower(strings.TrimSpace(in.Type))
	switch msgType {
	case "ping":
		pushCanvasWS(s.writeCh, canvasWSOutbound{Type: "pong"})
	case "set_graph":
		s.nodes = in.Nodes
		s.edges = in.Edges
		s.persist(ctx)
		s.engine.SetGraph(in.Nodes, in.Edges)
		pushCanvasWS(s.writeCh, canvasWSOutbound{Type: "ack"})
	case "create_shapes":
		if len(in.Shapes) > 0 {
			s.store.CreateShapes(shape.SourceUser, in.Shapes)
		}
	case "mutate_shape":
		if in.Shape != nil {
			s.store.UpdateShape(shape.SourceUser, *in.Shape)
		}
	case "delete_shapes":
		s.store.DeleteShapes(shape.SourceUser, in.IDs)
	case "select":
		ids := make([]string, 0, len(in.IDs))
		for _, id := range in.IDs {
			ids = append(ids, shape.IDForNode(id))
		}
		s.store.SetSelection(shape.SourceUser, ids)
	case "chart_insight":
		s.actions.RunChartInsight(ctx, strings.TrimSpace(in.NodeID))
	case "ai_query":
		s.pendingQuestion = strings.TrimSpace(in.Question)
		s.actions.RunAIQuery(ctx, strings.TrimSpace(in.NodeID))
	case "show_table":
		s.actions.RunShowTable(strings.TrimSpace(in.NodeID))
	default:
		pushCanvasWS(s.writeCh, canvasWSOutbound{
			Type:    "error",
			Code:    "invalid_argument",
			Message: "unsupported type: " + msgType,
		})
	}
}

func (s *canvasSession) persist(ctx context.Context) {
	stored, conflict, err := s.docs.Put(ctx, docrepo.Document{
		CanvasID: s.canvasID,
		Nodes:    s.nodes,
		Edges:    s.edges,
	}, s.version)
	if err != nil {
		log.Printf("canvas ws: persist %s failed: %v", s.canvasID, err)
		return
	}
	if conflict {
		log.Printf("canvas ws: persist %s conflicted at version %d, keeping server copy", s.canvasID, s.version)
	}
	s.version = stored.Version
}

func (s *canvasSession) chartPayload(nodeID string) (*graph.ChartPayload, bool) {
	rec, ok := s.store.GetShape(shape.IDForNode(nodeID))
	if !ok || rec.Chart == nil {
		return nil, false
	}
	return &graph.ChartPayload{
		Width:       rec.Chart.W,
		Height:      rec.Chart.H,
		Data:        rec.Chart.ChartData,
		Layout:      rec.Chart.Layout,
		ChartType:   rec.Chart.ChartType,
		Title:       rec.Chart.Title,
		Dimensions:  rec.Chart.Dimensions,
		Measures:    rec.Chart.Measures,
		TableRows:   rec.Chart.TableRows,
		Aggregation: rec.Chart.Aggregation,
		DatasetID:   rec.Chart.DatasetID,
		AIInsights:  rec.Chart.AIInsights,
		AIQuery:     rec.Chart.AIQuery,
	}, true
}

func (s *canvasSession) chartInsight(gen insight.Generator) func(context.Context, string) error {
	return func(ctx context.Context, nodeID string) error {
		if gen == nil {
			pushCanvasWS(s.writeCh, canvasWSOutbound{
				Type: "error", Code: "unavailable", Message: "insight generation is not configured",
			})
			return nil
		}
		chart, ok := s.chartPayload(nodeID)
		if !ok {
			pushCanvasWS(s.writeCh, canvasWSOutbound{
				Type: "error", Code: "not_found", Message: "no chart for node " + nodeID,
			})
			return nil
		}
		text, err := gen.ChartInsights(ctx, chart)
		if err != nil {
			return err
		}
		s.writeChartInsights(nodeID, text)
		pushCanvasWS(s.writeCh, canvasWSOutbound{Type: "insight", NodeID: nodeID, Text: text})
		return nil
	}
}

func (s *canvasSession) aiQuery(gen insight.Generator) func(context.Context, string) error {
	return func(ctx context.Context, nodeID string) error {
		if gen == nil {
			pushCanvasWS(s.writeCh, canvasWSOutbound{
				Type: "error", Code: "unavailable", Message: "insight generation is not configured",
			})
			return nil
		}
		chart, ok := s.chartPayload(nodeID)
		if !ok {
			pushCanvasWS(s.writeCh, canvasWSOutbound{
				Type: "error", Code: "not_found", Message: "no chart for node " + nodeID,
			})
			return nil
		}
		text, err := gen.AnswerQuery(ctx, chart, s.pendingQuestion)
		if err != nil {
			return err
		}
		pushCanvasWS(s.writeCh, canvasWSOutbound{Type: "ai_answer", NodeID: nodeID, Text: text})
		return nil
	}
}

// writeChartInsights stores the generated text back onto the chart shape so
// it survives the next user edit round trip.
func (s *canvasSession) writeChartInsights(nodeID, text string) {
	id := shape.IDForNode(nodeID)
	rec, ok := s.store.GetShape(id)
	if !ok || rec.Chart == nil {
		return
	}
	rec.Chart.AIInsights = text
	s.store.UpdateShape(shape.SourceProgrammatic, rec)
}

// showTable materializes a chart's underlying rows as a new table node next
// to the chart.
func (s *canvasSession) showTable(nodeID string) {
	rec, ok := s.store.GetShape(shape.IDForNode(nodeID))
	if !ok || rec.Chart == nil || len(rec.Chart.TableRows) == 0 {
		pushCanvasWS(s.writeCh, canvasWSOutbound{
			Type: "error", Code: "not_found", Message: "no table rows for node " + nodeID,
		})
		return
	}

	headers := rec.Chart.Dimensions
	headers = append(append([]string(nil), headers...), rec.Chart.Measures...)
	rows := make([][]string, 0, len(rec.Chart.TableRows))
	for _, raw := range rec.Chart.TableRows {
		row := make([]string, 0, len(headers))
		for _, h := range headers {
			row = append(row, stringCell(raw[h]))
		}
		rows = append(rows, row)
	}

	tableNode, ok := graph.BuildTableNode(nodeID+"-table", graph.Position{X: rec.X, Y: rec.Y + 40}, rec.Chart.Title, headers, rows)
	if !ok {
		return
	}
	s.nodes = append(s.nodes, tableNode)
	s.persist(context.Background())
	s.engine.SetGraph(s.nodes, s.edges)
	pushCanvasWS(s.writeCh, canvasWSOutbound{Type: "nodes_changed", Nodes: s.nodes})
}

func stringCell(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

func pushCanvasWS(writeCh chan canvasWSOutbound, out canvasWSOutbound) {
	if writeCh == nil {
		return
	}
	select {
	case writeCh <- out:
		return
	default:
	}
	select {
	case <-writeCh:
	default:
	}
	select {
	case writeCh <- out:
	default:
	}
}
