package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/quillpress/dashboard/internal/platform/httpx"
	"github.com/quillpress/dashboard/internal/rbac"
	"github.com/quillpress/dashboard/internal/shared"
	"github.com/quillpress/dashboard/internal/view"
)

// CallbackParam is the query/form parameter carrying the post-login return path.
const CallbackParam = "callbackUrl"

// Handler wires HTTP endpoints for authentication flows.
type Handler struct {
	logger         *slog.Logger
	service        *Service
	templates      *view.Engine
	sessionManager *shared.SessionManager
	csrfManager    *shared.CSRFManager
	tokens         *TokenManager
	resolver       Resolver
	validator      *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, templates *view.Engine, sessions *shared.SessionManager, csrf *shared.CSRFManager, tokens *TokenManager, resolver Resolver) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		logger:         logger,
		service:        service,
		templates:      templates,
		sessionManager: sessions,
		csrfManager:    csrf,
		tokens:         tokens,
		resolver:       resolver,
		validator:      validator.New(),
	}
}

// MountRoutes registers browser auth routes on provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/login", h.showLogin)
	r.Post("/login", h.handleLogin)
	r.Post("/logout", h.handleLogout)
}

// MountAPIRoutes registers the JSON auth endpoints.
func (h *Handler) MountAPIRoutes(r chi.Router) {
	r.Get("/session", h.sessionStatus)
	r.Post("/token", h.issueToken)
}

type loginForm struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=8"`
}

type loginPageData struct {
	Form        loginForm
	Errors      map[string]string
	CallbackURL string
}

func (h *Handler) showLogin(w http.ResponseWriter, r *http.Request) {
	callback := rbac.SafeReturnPath(r.URL.Query().Get(CallbackParam))
	h.renderLogin(w, r, http.StatusOK, loginPageData{CallbackURL: callback})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	sess := shared.SessionFromContext(r.Context())
	form := loginForm{
		Email:    r.PostFormValue("email"),
		Password: r.PostFormValue("password"),
	}
	data := loginPageData{Form: form, Errors: make(map[string]string), CallbackURL: rbac.SafeReturnPath(r.PostFormValue(CallbackParam))}

	if sess == nil {
		h.logger.Error("session missing during login")
		data.Errors["general"] = "Sign-in is temporarily unavailable"
		h.renderLogin(w, r, http.StatusServiceUnavailable, data)
		return
	}

	if err := h.validator.Struct(form); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			for _, fieldErr := range fieldErrs {
				data.Errors[fieldErr.Field()] = fieldErr.Error()
			}
		}
		data.Form.Password = ""
		h.renderLogin(w, r, http.StatusBadRequest, data)
		return
	}

	user, err := h.service.Authenticate(r.Context(), form.Email, form.Password)
	if err != nil {
		data.Form.Password = ""
		if errors.Is(err, shared.ErrInvalidCredentials) {
			data.Errors["general"] = "Invalid email or password"
			h.renderLogin(w, r, http.StatusBadRequest, data)
			return
		}
		h.logger.Error("authenticate", slog.Any("error", err))
		data.Errors["general"] = "Sign-in is temporarily unavailable"
		h.renderLogin(w, r, http.StatusInternalServerError, data)
		return
	}

	if err := h.sessionManager.Renew(r.Context(), sess); err != nil {
		h.logger.Warn("renew session", slog.Any("error", err))
	}
	sess.Delete(shared.CSRFSessionKey)
	sess.SetIdentity(user.Identity())
	sess.AddFlash(shared.FlashMessage{Kind: "success", Message: "Welcome back"})

	target := data.CallbackURL
	if target == "" {
		target = "/"
		if rbac.IsOperatorRole(user.Role) {
			target = rbac.DashboardPrefix
		}
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if sess := shared.SessionFromContext(r.Context()); sess != nil {
		h.sessionManager.Destroy(sess)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) renderLogin(w http.ResponseWriter, r *http.Request, status int, data loginPageData) {
	sess := shared.SessionFromContext(r.Context())
	csrfToken, _ := h.csrfManager.EnsureToken(sess)
	var flash *shared.FlashMessage
	if sess != nil {
		flash = sess.PopFlash()
	}
	viewData := view.TemplateData{
		Title:       "Sign in",
		CSRFToken:   csrfToken,
		Flash:       flash,
		CurrentPath: r.URL.Path,
		Data:        data,
	}
	w.WriteHeader(status)
	if err := h.templates.Render(w, "pages/login.html", viewData); err != nil {
		h.logger.Error("render login", slog.Any("error", err))
	}
}

// SessionStatus is the body of GET /api/auth/session.
type SessionStatus struct {
	Status string       `json:"status"`
	User   *SessionUser `json:"user,omitempty"`
}

// SessionUser describes the signed-in account.
type SessionUser struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Role  string `json:"role"`
}

func (h *Handler) sessionStatus(w http.ResponseWriter, r *http.Request) {
	p, err := h.resolver.Resolve(r)
	if err != nil {
		h.logger.Warn("resolve session status", slog.Any("error", err))
	}
	if !p.IsAuthenticated() {
		httpx.JSON(w, http.StatusOK, SessionStatus{Status: "unauthenticated"})
		return
	}
	httpx.JSON(w, http.StatusOK, SessionStatus{
		Status: "authenticated",
		User:   &SessionUser{ID: p.ID, Name: p.Name, Email: p.Email, Role: p.Role.String()},
	})
}

type tokenRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type tokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (h *Handler) issueToken(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Email and password are required")
		return
	}
	user, err := h.service.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		if !errors.Is(err, shared.ErrInvalidCredentials) {
			h.logger.Error("authenticate token request", slog.Any("error", err))
		}
		httpx.RespondError(w, err, "Failed to issue token")
		return
	}
	token, expiresAt, err := h.tokens.Issue(user.Identity())
	if err != nil {
		h.logger.Error("issue token", slog.Any("error", err))
		httpx.ServerError(w, "Failed to issue token")
		return
	}
	httpx.JSON(w, http.StatusOK, tokenResponse{Token: token, ExpiresAt: expiresAt})
}
