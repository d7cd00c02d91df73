// Package insight generates natural-language commentary for chart nodes.
// It backs the toolbar's chart-insight and AI-query shortcuts; the sync
// engine only ever sees it through opaque callbacks.
package insight

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	genai "google.golang.org/genai"

	"dfuse/internal/graph"
)

var ErrEmptyResponse = errors.New("insight: empty response from model")

const defaultModel = "gemini-2.5-flash"

// Generator produces insight text for charts. The Gemini implementation is
// the production one; tests substitute fakes.
type Generator interface {
	ChartInsights(ctx context.Context, chart *graph.ChartPayload) (string, error)
	AnswerQuery(ctx context.Context, chart *graph.ChartPayload, question string) (string, error)
}

// GeminiGenerator is a thin wrapper around the official genai client.
// The API key comes from the environment (GEMINI_API_KEY).
type GeminiGenerator struct {
	cli   *genai.Client
	model string
}

func NewGeminiGenerator(ctx context.Context, model string) (*GeminiGenerator, error) {
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{Backend: genai.BackendGeminiAPI})
	if err != nil {
		return nil, err
	}
	model = strings.TrimSpace(model)
	if model == "" {
		model = strings.TrimSpace(os.Getenv("GEMINI_MODEL"))
	}
	if model == "" {
		model = defaultModel
	}
	return &GeminiGenerator{cli: cli, model: model}, nil
}

func (g *GeminiGenerator) Name() string { return "Gemini:" + g.model }

func (g *GeminiGenerator) ChartInsights(ctx context.Context, chart *graph.ChartPayload) (string, error) {
	if chart == nil {
		return "", fmt.Errorf("chart payload is required")
	}
	prompt := "You are a data analyst. Given the chart specification and aggregated data below, " +
		"write 2-3 short insights a business user would care about: trends, outliers, and the dominant category. " +
		"Answer in plain sentences, no markdown."
	return g.generate(ctx, prompt, chart)
}

func (g *GeminiGenerator) AnswerQuery(ctx context.Context, chart *graph.ChartPayload, question string) (string, error) {
	if chart == nil {
		return "", fmt.Errorf("chart payload is required")
	}
	question = strings.TrimSpace(question)
	if question == "" {
		question = strings.TrimSpace(chart.AIQuery)
	}
	if question == "" {
		return "", fmt.Errorf("question is required")
	}
	prompt := "You are a data analyst. Answer the user's question using only the chart specification " +
		"and aggregated data below. If the data cannot answer it, say so.\n\n[QUESTION]\n" + question
	return g.generate(ctx, prompt, chart)
}

func (g *GeminiGenerator) generate(ctx context.Context, prompt string, chart *graph.ChartPayload) (string, error) {
	in, _ := json.MarshalIndent(chartContext(chart), "", "  ")
	full := prompt + "\n\n[CHART JSON]\n" + string(in)
	log.Printf("insight request (%s): %d bytes", g.model, len(full))

	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		resp, err := g.cli.Models.GenerateContent(ctx, g.model,
			[]*genai.Content{{Parts: []*genai.Part{{Text: full}}}},
			nil,
		)
		if err != nil {
			lastErr = err
		} else if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
			lastErr = ErrEmptyResponse
		} else {
			text := strings.TrimSpace(resp.Candidates[0].Content.Parts[0].Text)
			if text == "" {
				lastErr = ErrEmptyResponse
			} else {
				return text, nil
			}
		}
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(time.Duration(300*(1<<attempt)) * time.Millisecond):
		}
	}
	return "", lastErr
}

// chartContext trims the payload to what the model needs: the query spec and
// a bounded sample of the aggregated rows.
func chartContext(chart *graph.ChartPayload) map[string]any {
	const maxRows = 50
	data := chart.Data
	if len(data) > maxRows {
		data = data[:maxRows]
	}
	return map[string]any{
		"title":       chart.Title,
		"chartType":   chart.ChartType,
		"dimensions":  chart.Dimensions,
		"measures":    chart.Measures,
		"aggregation": chart.Aggregation,
		"datasetId":   chart.DatasetID,
		"data":        data,
	}
}
