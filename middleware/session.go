package middleware

import (
	"context"
	"net/http"
	"time"

	"heritage/globals"
	"heritage/sessions"

	"github.com/julienschmidt/httprouter"
)

// SessionStore hands out visitor sessions by id.
type SessionStore interface {
	GetOrCreate(ctx context.Context, id string) *sessions.Session
}

// VisitorSession attaches the visitor's session to the request, issuing a
// new cookie when the request carries none or a malformed one.
func VisitorSession(store SessionStore, maxAge time.Duration, secure bool) func(httprouter.Handle) httprouter.Handle {
	return func(next httprouter.Handle) httprouter.Handle {
		return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
			id := ""
			if c, err := r.Cookie(globals.VisitorCookie); err == nil && sessions.ValidID(c.Value) {
				id = c.Value
			}
			if id == "" {
				id = sessions.NewID()
			}
			// refreshed on every request so the cookie slides with the session
			http.SetCookie(w, &http.Cookie{
				Name:     globals.VisitorCookie,
				Value:    id,
				Path:     "/",
				MaxAge:   int(maxAge.Seconds()),
				HttpOnly: true,
				Secure:   secure,
				SameSite: http.SameSiteLaxMode,
			})

			s := store.GetOrCreate(r.Context(), id)
			next(w, r.WithContext(sessions.WithSession(r.Context(), s)), ps)
		}
	}
}
