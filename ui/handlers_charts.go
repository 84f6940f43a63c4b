package ui

import (
	"encoding/json"
	"errors"
	"html/template"
	"log"
	"net/http"

	"goexplain/app"
	"goexplain/domain/core"
	"goexplain/internal/chart"
)

// handleChartRender builds one chart and returns the fragment hosting
// its JSON payload for the client-side renderer
func (a *App) handleChartRender(w http.ResponseWriter, r *http.Request) {
	ds, ok := a.requireDataset(w, r)
	if !ok {
		return
	}

	kind, err := chart.ParseKind(r.URL.Query().Get("kind"))
	if err != nil {
		a.renderChartError(w, "Unknown chart type")
		return
	}

	req := app.ChartRequest{
		Kind: kind,
		X:    r.URL.Query().Get("x"),
		Y:    r.URL.Query().Get("y"),
	}
	payload, err := a.service.BuildChart(r.Context(), ds, req)
	if err != nil {
		log.Printf("[Charts] %s chart failed: %v", kind, err)
		a.renderChartError(w, chartErrorMessage(err))
		return
	}

	data := map[string]interface{}{
		"Kind":    string(kind),
		"Heading": chartHeading(kind, req),
	}

	// Scatter plots carry the correlation caption underneath.
	if kind == chart.KindScatter {
		if analysis, err := a.service.Correlate(ds, req.X, req.Y); err == nil {
			data["Caption"] = analysis.Caption
		} else if core.IsInsufficientDataError(err) {
			data["CaptionWarning"] = "Correlation could not be computed for this pair."
		}
	}

	encoded, err := json.Marshal(payload)
	if err != nil {
		log.Printf("[Charts] Failed to encode %s chart: %v", kind, err)
		http.Error(w, "Failed to encode chart", http.StatusInternalServerError)
		return
	}
	data["Payload"] = template.JS(encoded)

	a.renderPartial(w, "chart.html", data)
}

func chartHeading(kind chart.Kind, req app.ChartRequest) string {
	switch kind {
	case chart.KindScatter:
		return "Scatter Plot: " + req.X + " vs " + req.Y
	case chart.KindHistogram:
		return "Histogram for " + req.X
	case chart.KindBox:
		return "Box Plot for " + req.X
	case chart.KindPair:
		return "Pair Plot"
	}
	return ""
}

func chartErrorMessage(err error) string {
	switch {
	case core.IsInsufficientDataError(err):
		return "Not enough data to draw this chart."
	case core.IsNotFoundError(err):
		return "Column not found. Reload the page and pick another column."
	case errors.Is(err, core.ErrNonNumericColumn):
		return "Charts need numeric columns."
	}
	return "Failed to build the chart."
}

func (a *App) renderChartError(w http.ResponseWriter, message string) {
	a.renderPartial(w, "chart_error.html", map[string]interface{}{
		"Message": message,
	})
}
