package gate

import (
	"log/slog"
	"net/http"

	"github.com/quillpress/dashboard/internal/rbac"
)

// Edge guards dashboard pages before any handler runs. Requests outside
// Scope pass through untouched.
type Edge struct {
	Source    PrincipalSource
	Logger    *slog.Logger
	Recorder  Recorder
	LoginPath string
	HomePath  string
	Scope     string
}

// Middleware returns the edge gate as chi-compatible middleware.
func (e Edge) Middleware(next http.Handler) http.Handler {
	logger := e.Logger
	if logger == nil {
		logger = slog.Default()
	}
	recorder := recorderOrNop(e.Recorder)
	loginPath := orDefault(e.LoginPath, DefaultLoginPath)
	homePath := orDefault(e.HomePath, DefaultHomePath)
	scope := orDefault(e.Scope, rbac.DashboardPrefix)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rbac.HasPrefix(r.URL.Path, scope) {
			next.ServeHTTP(w, r)
			return
		}

		principal, err := e.Source.Resolve(r)
		if err != nil {
			logger.Warn("edge gate: treating caller as anonymous",
				slog.String("path", r.URL.Path), slog.Any("error", err))
			principal = rbac.Anonymous()
		}

		decision := rbac.Decide(principal, rbac.Classify(r.URL.RequestURI()), rbac.ContextBrowser)
		recorder.RecordGateDecision("edge", decision.Kind.String())

		switch decision.Kind {
		case rbac.Allow:
			next.ServeHTTP(w, r.WithContext(rbac.ContextWithPrincipal(r.Context(), principal)))
		case rbac.RedirectToLogin:
			http.Redirect(w, r, rbac.LoginURL(loginPath, decision.ReturnPath), http.StatusSeeOther)
		default:
			http.Redirect(w, r, homePath, http.StatusSeeOther)
		}
	})
}
