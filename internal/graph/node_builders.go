package graph

import "strings"

func BuildChartNode(id string, pos Position, payload ChartPayload) (Node, bool) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Node{}, false
	}
	payload.Title = strings.TrimSpace(payload.Title)
	return Node{
		ID:       id,
		Type:     NodeTypeChart,
		Position: pos,
		Chart:    &payload,
	}, true
}

func BuildTextNode(id string, pos Position, text string, fontSize float64) (Node, bool) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Node{}, false
	}
	return Node{
		ID:       id,
		Type:     NodeTypeTextbox,
		Position: pos,
		Text: &TextPayload{
			Text:     text,
			FontSize: fontSize,
		},
	}, true
}

func BuildTableNode(id string, pos Position, title string, headers []string, rows [][]string) (Node, bool) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Node{}, false
	}
	return Node{
		ID:       id,
		Type:     NodeTypeTable,
		Position: pos,
		Table: &TablePayload{
			Title:     strings.TrimSpace(title),
			Headers:   append([]string(nil), headers...),
			Rows:      append([][]string(nil), rows...),
			TotalRows: len(rows),
		},
	}, true
}

func BuildEdge(id, source, target string) (Edge, bool) {
	id = strings.TrimSpace(id)
	source = strings.TrimSpace(source)
	target = strings.TrimSpace(target)
	if id == "" || source == "" || target == "" {
		return Edge{}, false
	}
	return Edge{ID: id, Source: source, Target: target}, true
}
