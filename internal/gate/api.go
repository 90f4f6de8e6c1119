package gate

import (
	"log/slog"
	"net/http"

	"github.com/quillpress/dashboard/internal/platform/httpx"
	"github.com/quillpress/dashboard/internal/rbac"
)

// API guards operator-only JSON endpoints. Every route it wraps is treated as
// operator-only, whatever its path.
type API struct {
	Source   PrincipalSource
	Logger   *slog.Logger
	Recorder Recorder
}

// Require rejects callers the policy denies with 403 and stores the principal
// in the request context for the wrapped handler.
func (a API) Require(next http.Handler) http.Handler {
	logger := a.Logger
	if logger == nil {
		logger = slog.Default()
	}
	recorder := recorderOrNop(a.Recorder)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, err := a.Source.Resolve(r)
		if err != nil {
			logger.Error("api gate: resolve principal",
				slog.String("path", r.URL.Path), slog.Any("error", err))
			recorder.RecordGateDecision("api", "error")
			httpx.ServerError(w, "Failed to resolve session")
			return
		}

		decision := rbac.Decide(principal, rbac.Protected(r.URL.RequestURI()), rbac.ContextAPI)
		recorder.RecordGateDecision("api", decision.Kind.String())
		if !decision.Allowed() {
			logger.Debug("api gate: denied",
				slog.String("path", r.URL.Path), slog.String("reason", decision.Reason.String()))
			httpx.Error(w, http.StatusForbidden, "Unauthorized")
			return
		}

		next.ServeHTTP(w, r.WithContext(rbac.ContextWithPrincipal(r.Context(), principal)))
	})
}
