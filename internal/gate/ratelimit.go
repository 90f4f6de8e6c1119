package gate

import (
	"net/http"
	"time"

	"github.com/go-chi/httprate"

	"github.com/quillpress/dashboard/internal/platform/httpx"
	"github.com/quillpress/dashboard/internal/rbac"
)

// RateLimit limits each caller to requests per window. It must run after
// API.Require so callers are keyed by principal rather than address.
func RateLimit(requests int, window time.Duration) func(http.Handler) http.Handler {
	return httprate.Limit(requests, window,
		httprate.WithKeyFuncs(KeyByPrincipal),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			httpx.Error(w, http.StatusTooManyRequests, http.StatusText(http.StatusTooManyRequests))
		}),
	)
}

// KeyByPrincipal keys by the authenticated principal, falling back to the
// client IP.
func KeyByPrincipal(r *http.Request) (string, error) {
	if p, ok := rbac.PrincipalFromContext(r.Context()); ok && p.IsAuthenticated() {
		return "principal:" + p.ID, nil
	}
	ip, err := httprate.KeyByIP(r)
	if err != nil {
		return "", err
	}
	return "ip:" + ip, nil
}
