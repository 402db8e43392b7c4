package middleware

import (
	"net/http"
	"strings"

	"github.com/iho/gofinance/internal/infrastructure/auth"
)

// SessionCookieName is the cookie carrying the session token.
const SessionCookieName = "session"

// LoginPath is where unauthenticated requests are redirected.
const LoginPath = "/login"

// DefaultPublicPaths are reachable without a session.
var DefaultPublicPaths = []string{"/login", "/register", "/onboarding"}

// TokenVerifier validates session tokens.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// SessionGate resolves the session of every request and redirects
// unauthenticated requests to the login page unless their path is public.
type SessionGate struct {
	verifier    TokenVerifier
	publicPaths []string
}

// NewSessionGate creates a new SessionGate. publicPaths defaults to DefaultPublicPaths.
func NewSessionGate(verifier TokenVerifier, publicPaths ...string) *SessionGate {
	if len(publicPaths) == 0 {
		publicPaths = DefaultPublicPaths
	}
	return &SessionGate{verifier: verifier, publicPaths: publicPaths}
}

// Wrap wraps an http.Handler with the session gate. Public paths still get
// the user attached when a valid session is present.
func (g *SessionGate) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if token := sessionToken(r); token != "" {
			if claims, err := g.verifier.Verify(token); err == nil {
				next.ServeHTTP(w, r.WithContext(auth.WithUserID(r.Context(), claims.UserID)))
				return
			}
		}

		if g.isPublic(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		http.Redirect(w, r, LoginPath, http.StatusSeeOther)
	})
}

// isPublic matches whole path segments, so /login/x is public and /loginx is not.
func (g *SessionGate) isPublic(path string) bool {
	for _, p := range g.publicPaths {
		if path == p || strings.HasPrefix(path, p+"/") {
			return true
		}
	}
	return false
}

// sessionToken reads the session cookie, falling back to a Bearer token.
func sessionToken(r *http.Request) string {
	if c, err := r.Cookie(SessionCookieName); err == nil && c.Value != "" {
		return c.Value
	}

	parts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}
