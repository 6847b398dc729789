package http

import (
	"context"
	"net/http"
	"regexp"

	"github.com/google/uuid"
)

// DefaultCookieName carries the session ID between requests.
const DefaultCookieName = "peplab_session"

type sessionKey struct{}

var validSessionID = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// sessionMiddleware attaches a session ID to every request, minting a new
// one (and its cookie) when the client has none or sent a malformed one.
func sessionMiddleware(cookieName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var id string
			if c, err := r.Cookie(cookieName); err == nil && validSessionID.MatchString(c.Value) {
				id = c.Value
			} else {
				id = uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     cookieName,
					Value:    id,
					Path:     "/",
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionKey{}, id)))
		})
	}
}

// SessionID returns the session attached by the middleware.
func SessionID(ctx context.Context) string {
	id, _ := ctx.Value(sessionKey{}).(string)
	return id
}
