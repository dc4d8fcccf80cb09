package web

import (
	"net/http"
	"time"

	"github.com/JonMunkholm/dataview/internal/core"
)

// sessionMiddleware resolves the caller's Session from the session cookie,
// creating one when the cookie is missing, malformed or expired, and
// attaches it to the request context.
func (s *Server) sessionMiddleware(next http.Handler) http.Handler {
	name := s.cfg.Session.CookieName
	maxAge := int(s.cfg.Session.TTL / time.Second)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var id string
		if c, err := r.Cookie(name); err == nil {
			id = c.Value
		}

		sess, _ := s.sessions.GetOrCreate(id)
		// Refreshed on every request so the cookie lives as long as the
		// server-side idle TTL.
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    sess.ID(),
			Path:     "/",
			MaxAge:   maxAge,
			HttpOnly: true,
			Secure:   r.TLS != nil,
			SameSite: http.SameSiteLaxMode,
		})

		next.ServeHTTP(w, r.WithContext(core.ContextWithSession(r.Context(), sess)))
	})
}

// requestSession returns the Session attached by sessionMiddleware.
func requestSession(r *http.Request) *core.Session {
	sess, ok := core.SessionFromContext(r.Context())
	if !ok {
		panic("web: handler mounted outside sessionMiddleware")
	}
	return sess
}
