package page

import (
	"net/http"

	"kidofood-web/internal/api"
	"kidofood-web/internal/guard"
	"kidofood-web/internal/logger"
	"kidofood-web/internal/middleware"
	"kidofood-web/internal/session"
	"kidofood-web/internal/theme"
	"kidofood-web/internal/transport"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

type Deps struct {
	Client        *api.Client
	Sessions      *session.Manager
	Limiter       *middleware.Limiter
	SecureCookies bool
}

func NewRouter(d Deps) (http.Handler, error) {
	views, err := NewRenderer(d.SecureCookies)
	if err != nil {
		return nil, err
	}
	h := NewHandler(d.Client, d.Sessions, views, d.SecureCookies)

	claimed := guard.ServerClaimed(d.Client)
	anonymousOnly := guard.UserCheck(d.Client, guard.UserCheckOptions{})
	loggedIn := guard.User(d.Client, guard.UserOptions{})

	r := chi.NewRouter()
	r.Use(logger.RequestIDMiddleware)
	r.Use(logger.LoggingMiddleware)
	r.Use(chimw.Recoverer)
	r.Use(chimw.StripSlashes)
	r.Use(transport.Middleware)
	r.Use(d.Sessions.Middleware)
	r.Use(theme.HintMiddleware)
	r.Use(d.Limiter.Middleware)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		views.Error(w, r, http.StatusNotFound, "Page not found")
	})

	r.Handle("/static/*", staticHandler())
	r.Get("/healthz", h.Health)

	r.Get("/", h.page("home", "Home", h.loadHome))

	r.Get("/login", h.page("login", "Log in", h.loadLogin, anonymousOnly, claimed))
	r.Post("/login", h.Login)
	r.Get("/register", h.page("register", "Register", h.loadRegister, anonymousOnly, claimed))
	r.Post("/register", h.Register)
	r.Post("/logout", h.Logout)

	r.Get("/claim", h.page("claim", "Claim server", h.loadClaim, claimed))
	r.Post("/claim", h.Claim)

	r.Get("/items", h.page("items", "Items", h.loadItems, claimed))
	r.Get("/items/{id}", h.page("item", "Item", h.loadItem, claimed))
	r.Get("/merchants/{id}", h.page("merchant", "Merchant", h.loadMerchant, claimed))
	r.Get("/search", h.page("search", "Search", h.loadSearch, claimed))
	r.Get("/orders", h.page("orders", "Orders", h.loadOrders, claimed, loggedIn))

	r.With(guard.Middleware(guard.User(d.Client, guard.UserOptions{AdminOnly: true}))).
		Get("/admin/merchants", h.page("admin_merchants", "Merchants", h.loadAdminMerchants))
	r.With(guard.Middleware(guard.User(d.Client, guard.UserOptions{MerchantOnly: true}))).
		Get("/merchant", h.page("merchant_dashboard", "My store", h.loadMerchantDashboard))

	r.Post("/theme", h.Theme)

	return r, nil
}
