package ui

import (
	"context"
	"net/http"
	"time"

	"goexplain/domain/core"
)

const sessionCookieName = "goexplain_session"

const sessionCookieMaxAge = 30 * 24 * time.Hour

type contextKey string

const sessionKey contextKey = "session_id"

// withSession ensures every request runs under a server-side session,
// minting a cookie when the browser presents none or a stale one.
func (a *App) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var presented core.SessionID
		if cookie, err := r.Cookie(sessionCookieName); err == nil {
			if id, err := core.ParseSessionID(cookie.Value); err == nil {
				presented = id
			}
		}

		id := a.sessions.EnsureSession(presented)
		if id != presented {
			http.SetCookie(w, &http.Cookie{
				Name:     sessionCookieName,
				Value:    id.String(),
				Path:     "/",
				Expires:  time.Now().Add(sessionCookieMaxAge),
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}

		ctx := context.WithValue(r.Context(), sessionKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// sessionID pulls the session identity established by withSession
func sessionID(r *http.Request) core.SessionID {
	if id, ok := r.Context().Value(sessionKey).(core.SessionID); ok {
		return id
	}
	return ""
}
