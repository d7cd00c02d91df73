package dataset

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
)

// Profile summarizes an uploaded CSV: the header row, row count, and which
// columns look numeric (measure candidates) versus categorical (dimension
// candidates). The split feeds the chart-builder UI.
type Profile struct {
	Headers    []string `json:"headers"`
	RowCount   int      `json:"rowCount"`
	Dimensions []string `json:"dimensions"`
	Measures   []string `json:"measures"`
}

// ProfileCSV parses the raw CSV and classifies its columns. A column counts
// as a measure when every non-empty value in it parses as a number.
func ProfileCSV(raw []byte) (Profile, error) {
	reader := csv.NewReader(bytes.NewReader(raw))
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return Profile{}, fmt.Errorf("parse csv: %w", err)
	}
	if len(records) == 0 {
		return Profile{}, fmt.Errorf("csv has no header row")
	}

	headers := make([]string, len(records[0]))
	for i, h := range records[0] {
		headers[i] = strings.TrimSpace(h)
	}
	rows := records[1:]

	numeric := make([]bool, len(headers))
	seen := make([]bool, len(headers))
	for i := range numeric {
		numeric[i] = true
	}
	for _, row := range rows {
		for i, cell := range row {
			if i >= len(headers) {
				break
			}
			cell = strings.TrimSpace(cell)
			if cell == "" {
				continue
			}
			seen[i] = true
			if _, err := strconv.ParseFloat(cell, 64); err != nil {
				numeric[i] = false
			}
		}
	}

	p := Profile{Headers: headers, RowCount: len(rows)}
	for i, h := range headers {
		if h == "" {
			continue
		}
		if numeric[i] && seen[i] {
			p.Measures = append(p.Measures, h)
		} else {
			p.Dimensions = append(p.Dimensions, h)
		}
	}
	return p, nil
}
