package gate

import (
	"log/slog"
	"net/http"

	"github.com/quillpress/dashboard/internal/rbac"
)

// SessionStatus is the resolution state of a client session.
type SessionStatus int

const (
	StatusLoading SessionStatus = iota
	StatusAuthenticated
	StatusUnauthenticated
)

func (s SessionStatus) String() string {
	switch s {
	case StatusAuthenticated:
		return "authenticated"
	case StatusUnauthenticated:
		return "unauthenticated"
	default:
		return "loading"
	}
}

// SessionState is what the guard knows about the session at one moment.
type SessionState struct {
	Status    SessionStatus
	Principal rbac.Principal
}

// View is what a guarded page should render.
type View int

const (
	// ViewWaiting renders a neutral indicator while the session resolves.
	ViewWaiting View = iota
	// ViewBlank renders nothing while a redirect is pending.
	ViewBlank
	// ViewContent renders the protected page.
	ViewContent
)

func (v View) String() string {
	switch v {
	case ViewBlank:
		return "blank"
	case ViewContent:
		return "content"
	default:
		return "waiting"
	}
}

// Navigator performs client navigations on behalf of the guard.
type Navigator interface {
	Replace(target string)
}

// Guard re-evaluates the policy whenever the session state or route changes.
// It issues at most one navigation per distinct target and is not safe for
// concurrent use.
type Guard struct {
	nav       Navigator
	loginPath string
	homePath  string
	pending   string
}

// NewGuard returns a Guard. Empty paths use the package defaults.
func NewGuard(nav Navigator, loginPath, homePath string) *Guard {
	return &Guard{
		nav:       nav,
		loginPath: orDefault(loginPath, DefaultLoginPath),
		homePath:  orDefault(homePath, DefaultHomePath),
	}
}

// Evaluate returns the view for requestURI under state, navigating away when
// the policy redirects.
func (g *Guard) Evaluate(state SessionState, requestURI string) View {
	if state.Status == StatusLoading {
		return ViewWaiting
	}

	principal := state.Principal
	if state.Status == StatusUnauthenticated {
		principal = rbac.Anonymous()
	}

	decision := rbac.Decide(principal, rbac.Classify(requestURI), rbac.ContextBrowser)
	var target string
	switch decision.Kind {
	case rbac.Allow:
		g.pending = ""
		return ViewContent
	case rbac.RedirectToLogin:
		target = rbac.LoginURL(g.loginPath, decision.ReturnPath)
	default:
		target = g.homePath
	}

	if g.pending != target {
		g.pending = target
		g.nav.Replace(target)
	}
	return ViewBlank
}

// Pending returns the navigation target the guard is waiting on, if any.
func (g *Guard) Pending() string {
	return g.pending
}

type httpNavigator struct {
	w http.ResponseWriter
	r *http.Request
}

func (n httpNavigator) Replace(target string) {
	http.Redirect(n.w, n.r, target, http.StatusSeeOther)
}

// Layout runs a Guard around server-rendered dashboard pages. The session is
// resolved synchronously, so the guard never sees the loading state here.
type Layout struct {
	Source    PrincipalSource
	Logger    *slog.Logger
	Recorder  Recorder
	LoginPath string
	HomePath  string
}

// Wrap guards next.
func (l Layout) Wrap(next http.Handler) http.Handler {
	logger := l.Logger
	if logger == nil {
		logger = slog.Default()
	}
	recorder := recorderOrNop(l.Recorder)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, err := l.Source.Resolve(r)
		if err != nil {
			logger.Warn("layout guard: treating caller as anonymous", slog.Any("error", err))
			principal = rbac.Anonymous()
		}
		state := SessionState{Status: StatusUnauthenticated}
		if principal.IsAuthenticated() {
			state = SessionState{Status: StatusAuthenticated, Principal: principal}
		}

		guard := NewGuard(httpNavigator{w: w, r: r}, l.LoginPath, l.HomePath)
		view := guard.Evaluate(state, r.URL.RequestURI())
		recorder.RecordGateDecision("layout", view.String())

		switch view {
		case ViewContent:
			next.ServeHTTP(w, r.WithContext(rbac.ContextWithPrincipal(r.Context(), principal)))
		case ViewWaiting:
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusServiceUnavailable)
		}
	})
}
