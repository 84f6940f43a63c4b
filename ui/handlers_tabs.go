package ui

import (
	"log"
	"net/http"

	"goexplain/domain/dataset"
)

// requireDataset resolves the session's active dataset, swapping in
// the empty state when nothing has been uploaded yet
func (a *App) requireDataset(w http.ResponseWriter, r *http.Request) (*dataset.Dataset, bool) {
	ds, err := a.sessions.CurrentDataset(sessionID(r))
	if err != nil {
		a.renderPartial(w, "empty_state.html", nil)
		return nil, false
	}
	return ds, true
}

// handleOverviewTab renders the preview, shape and profile fragment
func (a *App) handleOverviewTab(w http.ResponseWriter, r *http.Request) {
	ds, ok := a.requireDataset(w, r)
	if !ok {
		return
	}

	overview, err := a.service.BuildOverview(r.Context(), ds)
	if err != nil {
		log.Printf("[Tabs] Overview failed for %s: %v", ds.Filename, err)
		http.Error(w, "Failed to build overview", http.StatusInternalServerError)
		return
	}

	a.renderPartial(w, "overview.html", map[string]interface{}{
		"Overview": overview,
	})
}

// handleChartsTab renders the chart type and axis selectors. Fewer
// than two numeric columns gets a warning instead of controls.
func (a *App) handleChartsTab(w http.ResponseWriter, r *http.Request) {
	ds, ok := a.requireDataset(w, r)
	if !ok {
		return
	}

	numeric := ds.NumericColumnNames()
	a.renderPartial(w, "charts.html", map[string]interface{}{
		"NumericColumns": numeric,
		"HasEnough":      len(numeric) >= 2,
	})
}

// handleInsightsTab renders insight cards and the report download
func (a *App) handleInsightsTab(w http.ResponseWriter, r *http.Request) {
	ds, ok := a.requireDataset(w, r)
	if !ok {
		return
	}

	a.renderPartial(w, "insights.html", map[string]interface{}{
		"Insights": a.service.Insights(ds),
	})
}
