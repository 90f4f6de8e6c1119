package app

import (
	"io/fs"
	"log/slog"
	"mime"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/quillpress/dashboard/internal/audit"
	"github.com/quillpress/dashboard/internal/auth"
	"github.com/quillpress/dashboard/internal/content"
	"github.com/quillpress/dashboard/internal/dashboard"
	"github.com/quillpress/dashboard/internal/gate"
	"github.com/quillpress/dashboard/internal/moderation"
	"github.com/quillpress/dashboard/internal/observability"
	"github.com/quillpress/dashboard/internal/platform/httpx"
	"github.com/quillpress/dashboard/internal/rbac"
	"github.com/quillpress/dashboard/internal/shared"
	"github.com/quillpress/dashboard/internal/view"
	"github.com/quillpress/dashboard/jobs"
	"github.com/quillpress/dashboard/web"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger            *slog.Logger
	Config            *Config
	Templates         *view.Engine
	SessionManager    *shared.SessionManager
	CSRFManager       *shared.CSRFManager
	Resolver          auth.Resolver
	AuthHandler       *auth.Handler
	ModerationHandler *moderation.Handler
	AuditHandler      *audit.Handler
	ContentHandler    *content.Handler
	DashboardHandler  *dashboard.Handler
	JobHandler        *jobs.Handler
	Metrics           *observability.Metrics
}

// NewRouter constructs the chi.Router with dashboard defaults.
func NewRouter(params RouterParams) http.Handler {
	logger := params.Logger
	if logger == nil {
		logger = slog.Default()
	}
	var recorder gate.Recorder
	if params.Metrics != nil {
		recorder = params.Metrics
	}

	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
		CSRFManager:    params.CSRFManager,
		Metrics:        params.Metrics,
	}) {
		r.Use(mw)
	}
	if params.Config == nil || !params.Config.IsProduction() {
		r.Use(chimw.Logger)
	}

	r.Use(gate.Edge{
		Source:   params.Resolver,
		Logger:   logger,
		Recorder: recorder,
	}.Middleware)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		sess := shared.SessionFromContext(r.Context())
		csrfToken, _ := params.CSRFManager.EnsureToken(sess)
		var flash *shared.FlashMessage
		var user *shared.Identity
		if sess != nil {
			flash = sess.PopFlash()
			if id := sess.Identity(); id.UserID != "" {
				user = &id
			}
		}
		principal, err := params.Resolver.Resolve(r)
		if err != nil {
			logger.Warn("resolve home principal", slog.Any("error", err))
		}
		data := view.TemplateData{
			Title:       "Quillpress",
			CSRFToken:   csrfToken,
			Flash:       flash,
			CurrentPath: r.URL.Path,
			User:        user,
			Data:        map[string]any{"ShowDashboard": principal.IsOperator()},
		}
		if err := params.Templates.Render(w, "pages/home.html", data); err != nil {
			logger.Error("render home", slog.Any("error", err))
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}
	})

	r.Route("/auth", params.AuthHandler.MountRoutes)

	r.Route("/api", func(r chi.Router) {
		if params.Config != nil && len(params.Config.CORSAllowedOrigins) > 0 {
			r.Use(cors.Handler(cors.Options{
				AllowedOrigins:   params.Config.CORSAllowedOrigins,
				AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
				AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", shared.CSRFHeader},
				AllowCredentials: true,
				MaxAge:           300,
			}))
		}
		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			httpx.Error(w, http.StatusNotFound, "Not found")
		})
		r.MethodNotAllowed(httpx.MethodNotAllowed)

		r.Route("/auth", params.AuthHandler.MountAPIRoutes)

		r.Route("/dashboard", func(r chi.Router) {
			r.Use(gate.API{
				Source:   params.Resolver,
				Logger:   logger,
				Recorder: recorder,
			}.Require)
			if cfg := params.Config; cfg != nil && cfg.APIRateLimitRequests > 0 && cfg.APIRateLimitWindow > 0 {
				r.Use(gate.RateLimit(cfg.APIRateLimitRequests, cfg.APIRateLimitWindow))
			}
			r.MethodNotAllowed(httpx.MethodNotAllowed)

			params.ModerationHandler.MountRoutes(r)
			if params.ContentHandler != nil {
				params.ContentHandler.MountRoutes(r)
			}
			if params.AuditHandler != nil {
				params.AuditHandler.MountRoutes(r)
			}
			if params.JobHandler != nil {
				r.Route("/jobs", params.JobHandler.MountRoutes)
			}
		})
	})

	r.Route(rbac.DashboardPrefix, func(r chi.Router) {
		r.Use(gate.Layout{
			Source:   params.Resolver,
			Logger:   logger,
			Recorder: recorder,
		}.Wrap)
		params.DashboardHandler.MountRoutes(r)
	})

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	staticFS, err := fs.Sub(web.Static, "static")
	if err != nil {
		logger.Error("create static sub filesystem", slog.Any("error", err))
	} else {
		registerStaticTypes(logger)
		fileServer := http.StripPrefix("/static/", http.FileServer(http.FS(staticFS)))
		r.Handle("/static/*", staticCacheHandler(fileServer))
	}

	return r
}

// staticTypes covers assets under web/static that slim base images may not
// list in /etc/mime.types.
var staticTypes = map[string]string{
	".css": "text/css; charset=utf-8",
	".svg": "image/svg+xml",
}

var staticTypesOnce sync.Once

func registerStaticTypes(logger *slog.Logger) {
	staticTypesOnce.Do(func() {
		for ext, typ := range staticTypes {
			if mime.TypeByExtension(ext) != "" {
				continue
			}
			if err := mime.AddExtensionType(ext, typ); err != nil {
				logger.Warn("register static mime type", slog.String("ext", ext), slog.Any("error", err))
			}
		}
	})
}

// staticCacheHandler lets browsers keep static assets for an hour.
func staticCacheHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=3600")
		next.ServeHTTP(w, r)
	})
}
