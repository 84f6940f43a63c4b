package ui

import (
	"fmt"
	"log"
	"net/http"
)

// handleReport streams the session dataset's summary report as a
// plain-text download
func (a *App) handleReport(w http.ResponseWriter, r *http.Request) {
	ds, err := a.sessions.CurrentDataset(sessionID(r))
	if err != nil {
		http.Error(w, "No dataset loaded", http.StatusNotFound)
		return
	}

	result := a.service.BuildReport(ds)
	log.Printf("[Report] Generated %s for %s", result.Filename, ds.Filename)

	w.Header().Set("Content-Type", result.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", result.Filename))
	w.Write([]byte(result.Content))
}
