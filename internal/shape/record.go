package shape

type Type string

const (
	TypeChart   Type = "chart"
	TypeTextbox Type = "textbox"
	TypeTable   Type = "table"
	TypeArrow   Type = "arrow"
)

type ChartProps struct {
	W           float64          `json:"w,omitempty"`
	H           float64          `json:"h,omitempty"`
	ChartData   []map[string]any `json:"chartData,omitempty"`
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

type TextProps struct {
	W        float64 `json:"w,omitempty"`
	H        float64 `json:"h,omitempty"`
	Text     string  `json:"text,omitempty"`
	FontSize float64 `json:"fontSize,omitempty"`
}

type TableProps struct {
	W         float64    `json:"w,omitempty"`
	H         float64    `json:"h,omitempty"`
	Title     string     `json:"title,omitempty"`
	Headers   []string   `json:"headers,omitempty"`
	Rows      [][]string `json:"rows,omitempty"`
	TotalRows int        `json:"totalRows,omitempty"`
}

// ArrowProps binds an arrow to the shape ids of its endpoints.
type ArrowProps struct {
	FromShapeID string `json:"fromShapeId"`
	ToShapeID   string `json:"toShapeId"`
}

// Record is one drawable object in the store. Exactly one props pointer is
// set, matching Type.
type Record struct {
	ID    string      `json:"id"`
	Type  Type        `json:"type"`
	X     float64     `json:"x"`
	Y     float64     `json:"y"`
	Chart *ChartProps `json:"chart,omitempty"`
	Text  *TextProps  `json:"text,omitempty"`
	Table *TableProps `json:"table,omitempty"`
	Arrow *ArrowProps `json:"arrow,omitempty"`
}

// Clone returns a deep copy so callers can never mutate store state through
// a returned record.
func (r Record) Clone() Record {
	out := r
	if r.Chart != nil {
		c := *r.Chart
		c.ChartData = cloneMapSlice(r.Chart.ChartData)
		c.Layout = cloneMap(r.Chart.Layout)
		c.Dimensions = append([]string(nil), r.Chart.Dimensions...)
		c.Measures = append([]string(nil), r.Chart.Measures...)
		c.TableRows = cloneMapSlice(r.Chart.TableRows)
		out.Chart = &c
	}
	if r.Text != nil {
		t := *r.Text
		out.Text = &t
	}
	if r.Table != nil {
		t := *r.Table
		t.Headers = append([]string(nil), r.Table.Headers...)
		t.Rows = cloneRows(r.Table.Rows)
		out.Table = &t
	}
	if r.Arrow != nil {
		a := *r.Arrow
		out.Arrow = &a
	}
	return out
}

func cloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func cloneMapSlice(s []map[string]any) []map[string]any {
	if s == nil {
		return nil
	}
	out := make([]map[string]any, len(s))
	for i := range s {
		out[i] = cloneMap(s[i])
	}
	return out
}

func cloneRows(rows [][]string) [][]string {
	if rows == nil {
		return nil
	}
	out := make([][]string, len(rows))
	for i := range rows {
		out[i] = append([]string(nil), rows[i]...)
	}
	return out
}
