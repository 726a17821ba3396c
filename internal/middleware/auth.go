package middleware

import (
	"context"
	"net/http"

	"github.com/haguru/obito/internal/session"
)

type contextKey string

const sessionContextKey contextKey = "session"

// RequireSession is the guard in front of protected routes. A request with a
// valid session passes through with the payload stashed in its context; any
// other request is redirected to the login page. Expired and
// never-authenticated sessions are not distinguished.
func RequireSession(mgr *session.Manager, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, ok := mgr.Get(r)
		if !ok {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		ctx := context.WithValue(r.Context(), sessionContextKey, payload)
		next(w, r.WithContext(ctx))
	}
}

// SessionFromContext returns the payload stored by RequireSession.
func SessionFromContext(ctx context.Context) (*session.Payload, bool) {
	payload, ok := ctx.Value(sessionContextKey).(*session.Payload)
	return payload, ok
}
