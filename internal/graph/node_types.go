package graph

type NodeType string

const (
	NodeTypeChart   NodeType = "chart"
	NodeTypeTextbox NodeType = "textbox"
	NodeTypeTable   NodeType = "table"
)

type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ChartPayload carries everything a chart artifact needs to re-render:
// the aggregated series, the plot layout, and the query spec
// (dimensions/measures/aggregation against a dataset) it was built from.
type ChartPayload struct {
	Width       float64          `json:"width,omitempty"`
	Height      float64          `json:"height,omitempty"`
	Data        []map[string]any `json:"data,omitempty"`
	Layout      map[string]any   `json:"layout,omitempty"`
	ChartType   string           `json:"chartType,omitempty"`
	Title       string           `json:"title,omitempty"`
	Dimensions  []string         `json:"dimensions,omitempty"`
	Measures    []string         `json:"measures,omitempty"`
	TableRows   []map[string]any `json:"tableRows,omitempty"`
	Aggregation string           `json:"aggregation,omitempty"`
	DatasetID   string           `json:"datasetId,omitempty"`
	Selected    bool             `json:"selected,omitempty"`
	AIInsights  string           `json:"aiInsights,omitempty"`
	AIQuery     string           `json:"aiQuery,omitempty"`
}

type TextPayload struct {
	Width    float64 `json:"width,omitempty"`
	Height   float64 `json:"height,omitempty"`
	Text     string  `json:"text,omitempty"`
	FontSize float64 `json:"fontSize,omitempty"`
}

type TablePayload struct {
	Width     float64    `json:"width,omitempty"`
	Height    float64    `json:"height,omitempty"`
	Title     string     `json:"title,omitempty"`
	Headers   []string   `json:"headers,omitempty"`
	Rows      [][]string `json:"rows,omitempty"`
	TotalRows int        `json:"totalRows,omitempty"`
}

// Node is one artifact on the canvas. Exactly one payload pointer is set,
// matching Type. ID is opaque and stable across sessions; Type is immutable
// once created.
type Node struct {
	ID       string        `json:"id"`
	Type     NodeType      `json:"type"`
	Position Position      `json:"position"`
	Chart    *ChartPayload `json:"chart,omitempty"`
	Text     *TextPayload  `json:"text,omitempty"`
	Table    *TablePayload `json:"table,omitempty"`
}

// Edge is a directed connection between two nodes, drawn as an arrow.
type Edge struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
}
