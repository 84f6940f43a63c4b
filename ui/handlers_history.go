package ui

import (
	"log"
	"net/http"
)

// handleHistory renders the recent-uploads sidebar fragment
func (a *App) handleHistory(w http.ResponseWriter, r *http.Request) {
	history, err := a.sessions.History(sessionID(r))
	if err != nil {
		log.Printf("[History] Failed to load session history: %v", err)
		http.Error(w, "Failed to load session", http.StatusInternalServerError)
		return
	}

	a.renderPartial(w, "history.html", map[string]interface{}{
		"Entries": history.Entries(),
	})
}
