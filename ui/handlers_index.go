package ui

import (
	"log"
	"net/http"

	"goexplain/app"
	"goexplain/domain/dataset"
)

// handleIndex renders the dashboard shell with the upload form,
// history sidebar and whatever dataset the session already holds
func (a *App) handleIndex(w http.ResponseWriter, r *http.Request) {
	history, err := a.sessions.History(sessionID(r))
	if err != nil {
		log.Printf("[Index] Failed to load session history: %v", err)
		http.Error(w, "Failed to load session", http.StatusInternalServerError)
		return
	}

	data := map[string]interface{}{
		"Title":       "GoExplain",
		"MaxUploadMB": a.config.MaxUploadMB,
		"History":     history.Entries(),
	}
	if ds, err := a.sessions.CurrentDataset(sessionID(r)); err == nil {
		data["Dashboard"] = dashboardData(ds, app.DatasetWarnings(ds))
	}

	a.renderTemplate(w, "index.html", data)
}

// dashboardData is the payload of the dashboard fragment. The tab
// panel inside it loads its own content over HTMX.
func dashboardData(ds *dataset.Dataset, warnings []string) map[string]interface{} {
	return map[string]interface{}{
		"Filename": ds.Filename,
		"Shape":    ds.Shape().String(),
		"Warnings": warnings,
	}
}
