package page

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"kidofood-web/internal/api"
	"kidofood-web/internal/guard"
	"kidofood-web/internal/logger"
	"kidofood-web/internal/metrics"
	"kidofood-web/internal/model"
	"kidofood-web/internal/session"
	"kidofood-web/internal/theme"

	"go.uber.org/zap"
)

type Handler struct {
	client        *api.Client
	sessions      *session.Manager
	views         *Renderer
	secureCookies bool
}

func NewHandler(client *api.Client, sessions *session.Manager, views *Renderer, secureCookies bool) *Handler {
	return &Handler{
		client:        client,
		sessions:      sessions,
		views:         views,
		secureCookies: secureCookies,
	}
}

// page serves a template from a loader. Stages given here run before the
// loader through guard.Wrap.
func (h *Handler) page(name, title string, load guard.LoadFunc, stages ...guard.Stage) http.HandlerFunc {
	if len(stages) > 0 {
		load = guard.Wrap(load, stages...)
	}

	return func(w http.ResponseWriter, r *http.Request) {
		res, err := load(r)
		if err != nil {
			h.loadFailed(w, r, name, err)
			return
		}
		if res.Redirect != nil {
			http.Redirect(w, r, res.Redirect.Destination, res.Redirect.StatusCode())
			return
		}
		h.views.Render(w, r, http.StatusOK, name, title, res.Props)
	}
}

func (h *Handler) loadFailed(w http.ResponseWriter, r *http.Request, name string, err error) {
	var le *loadError
	if !errors.As(err, &le) {
		le = &loadError{status: http.StatusInternalServerError, message: api.UnknownError}
	}
	logger.FromCtx(r.Context()).Warn("page loader failed",
		zap.String("page", name),
		zap.Int("status", le.status),
		zap.Error(err),
	)
	h.views.Error(w, r, le.status, le.message)
}

// relay hands backend Set-Cookie headers to the browser so the backend
// session lives next to ours.
func relay(w http.ResponseWriter, cookies []*http.Cookie) {
	for _, c := range cookies {
		http.SetCookie(w, c)
	}
}

// mutationStatus picks the status for a failed GraphQL form post.
func mutationStatus(err error) (int, string) {
	var me *api.MutationError
	if errors.As(err, &me) {
		return http.StatusUnauthorized, me.Message
	}
	return http.StatusBadGateway, api.UnknownError
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	log := logger.FromCtx(r.Context())

	req := model.LoginRequest{
		Email:    strings.TrimSpace(r.PostFormValue("email")),
		Password: r.PostFormValue("password"),
	}
	props := formProps{Email: req.Email}

	if req.Email == "" || req.Password == "" {
		props.Error = "Email and password are required."
		h.views.Render(w, r, http.StatusBadRequest, "login", "Log in", props)
		return
	}

	auth, err := h.client.Login(r.Context(), req)
	if err != nil {
		status, msg := mutationStatus(err)
		log.Info("login failed", zap.Int("status", status), zap.Error(err))
		props.Error = msg
		h.views.Render(w, r, status, "login", "Log in", props)
		return
	}

	relay(w, auth.Cookies)
	session.FromContext(r.Context()).Set(auth.User)
	if err := h.sessions.Commit(w, r); err != nil {
		log.Error("failed to persist session", zap.Error(err))
		h.views.Error(w, r, http.StatusInternalServerError, "Could not start your session, please try again.")
		return
	}

	log.Info("user logged in", zap.String("user_id", auth.User.ID), zap.String("role", auth.User.Role.String()))
	http.Redirect(w, r, guard.HomePath, http.StatusSeeOther)
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	req := model.RegisterRequest{
		Email:    strings.TrimSpace(r.PostFormValue("email")),
		Name:     strings.TrimSpace(r.PostFormValue("name")),
		Password: r.PostFormValue("password"),
	}
	props := formProps{Email: req.Email, Name: req.Name}

	switch {
	case req.Email == "" || req.Name == "" || req.Password == "":
		props.Error = "Name, email and password are required."
	case req.Password != r.PostFormValue("password_confirm"):
		props.Error = "Passwords do not match."
	}
	if props.Error != "" {
		h.views.Render(w, r, http.StatusBadRequest, "register", "Register", props)
		return
	}

	user, err := h.client.Register(r.Context(), req)
	if err != nil {
		status, msg := mutationStatus(err)
		if status == http.StatusUnauthorized {
			status = http.StatusBadRequest
		}
		logger.FromCtx(r.Context()).Info("registration failed", zap.Error(err))
		props.Error = msg
		h.views.Render(w, r, status, "register", "Register", props)
		return
	}

	logger.FromCtx(r.Context()).Info("user registered", zap.String("user_id", user.ID))
	http.Redirect(w, r, guard.LoginPath+"?registered=1", http.StatusSeeOther)
}

// Logout always clears the local session, even when the backend call
// fails.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	log := logger.FromCtx(r.Context())

	cookies, err := h.client.Logout(r.Context())
	if err != nil {
		log.Warn("backend logout failed", zap.Error(err))
	}
	relay(w, cookies)

	session.FromContext(r.Context()).Clear()
	if err := h.sessions.Commit(w, r); err != nil {
		log.Error("failed to clear session", zap.Error(err))
	}

	http.Redirect(w, r, guard.LoginPath, http.StatusSeeOther)
}

func (h *Handler) Claim(w http.ResponseWriter, r *http.Request) {
	req := model.ClaimRequest{
		Email:    strings.TrimSpace(r.PostFormValue("email")),
		Password: r.PostFormValue("password"),
	}
	props := formProps{Email: req.Email}

	if req.Email == "" || req.Password == "" {
		props.Error = "Email and password are required."
		h.views.Render(w, r, http.StatusBadRequest, "claim", "Claim server", props)
		return
	}

	res := h.client.Claim(r.Context(), req)
	if res.IsError() {
		status := res.Status
		if status < http.StatusBadRequest {
			status = http.StatusBadGateway
		}
		props.Error = res.Message()
		h.views.Render(w, r, status, "claim", "Claim server", props)
		return
	}

	relay(w, res.Cookies)
	logger.FromCtx(r.Context()).Info("server claimed", zap.String("email", req.Email))
	http.Redirect(w, r, guard.LoginPath+"?claimed=1", http.StatusSeeOther)
}

// Theme stores the dark-mode choice and sends the visitor back. Without
// an explicit mode the current preference is toggled.
func (h *Handler) Theme(w http.ResponseWriter, r *http.Request) {
	var dark bool
	switch r.PostFormValue("mode") {
	case "dark":
		dark = true
	case "light":
		dark = false
	default:
		dark = !theme.Resolve(w, r, h.secureCookies).Dark
	}

	if _, err := theme.Write(theme.NewCookieStorage(w, r, h.secureCookies), dark); err != nil {
		logger.FromCtx(r.Context()).Warn("failed to store theme preference", zap.Error(err))
	}

	http.Redirect(w, r, backTo(r), http.StatusSeeOther)
}

// backTo returns the local path of the Referer, or "/".
func backTo(r *http.Request) string {
	ref, err := url.Parse(r.Referer())
	if err != nil || !localPath(ref.Path) {
		return guard.HomePath
	}
	if ref.Host != "" && ref.Host != r.Host {
		return guard.HomePath
	}
	if ref.RawQuery != "" {
		return ref.Path + "?" + ref.RawQuery
	}
	return ref.Path
}

// localPath rejects anything a browser would resolve against another
// host, such as "//evil.test" or "/\\evil.test".
func localPath(p string) bool {
	if !strings.HasPrefix(p, "/") {
		return false
	}
	return !strings.HasPrefix(p, "//") && !strings.HasPrefix(p, "/\\")
}

type healthStatus struct {
	Status  string            `json:"status"`
	Detail  string            `json:"detail,omitempty"`
	Backend *api.ServerStatus `json:"backend,omitempty"`
	Stats   metrics.Stats     `json:"stats"`
}

// Health reports whether the backend answers its status endpoint.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	res := h.client.ServerStatus(r.Context())

	body := healthStatus{Status: "ok", Stats: metrics.Snapshot()}
	code := http.StatusOK
	if res.IsError() {
		body.Status = "degraded"
		body.Detail = res.Message()
		code = http.StatusServiceUnavailable
	} else {
		body.Backend, _ = res.Data()
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.FromCtx(r.Context()).Debug("failed to write health response", zap.Error(err))
	}
}
