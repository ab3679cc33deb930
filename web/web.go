// Package web provides the JSON HTTP API: public catalog and checkout
// endpoints, tokenized downloads, the member surface, and the admin
// surface. Handlers decode requests, call app services, and map error
// kinds to status codes; they hold no business logic.
package web

import (
	"net/http"

	"github.com/blackforge/storefront/adapters/auth"
	"github.com/blackforge/storefront/adapters/metrics"
	"github.com/blackforge/storefront/app"
	"github.com/blackforge/storefront/config"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Handler provides the HTTP API endpoints.
type Handler struct {
	checkout  *app.CheckoutService
	downloads *app.DownloadService
	members   *app.MemberService
	admin     *app.AdminService
	tokens    *auth.TokenService
	cfg       *config.Holder
	metrics   *metrics.Collector
	logger    zerolog.Logger
}

// Deps contains dependencies for the API handler.
type Deps struct {
	Checkout  *app.CheckoutService
	Downloads *app.DownloadService
	Members   *app.MemberService
	Admin     *app.AdminService
	Tokens    *auth.TokenService
	Config    *config.Holder
	Metrics   *metrics.Collector
	Logger    zerolog.Logger
}

// NewHandler creates a new API handler.
func NewHandler(deps Deps) *Handler {
	return &Handler{
		checkout:  deps.Checkout,
		downloads: deps.Downloads,
		members:   deps.Members,
		admin:     deps.Admin,
		tokens:    deps.Tokens,
		cfg:       deps.Config,
		metrics:   deps.Metrics,
		logger:    deps.Logger,
	}
}

// Router builds the full route tree.
func (h *Handler) Router() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(h.requestLogger)
	if h.metrics != nil {
		r.Use(h.instrument)
	}

	cfg := h.cfg.Get()
	if cfg.Metrics.Enabled {
		path := cfg.Metrics.Path
		if path == "" {
			path = "/metrics"
		}
		r.Handle(path, promhttp.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.Health)
		r.Get("/catalog", h.GetCatalog)

		r.Post("/checkout/game", h.CheckoutGame)
		r.Post("/checkout/cart", h.CheckoutCart)
		r.Post("/checkout/membership", h.CheckoutMembership)
		r.Get("/checkout/confirm", h.ConfirmCheckout)

		r.Get("/download/{gameID}", h.Download)

		r.Route("/membership", func(r chi.Router) {
			r.Post("/register", h.RegisterMember)
			r.Post("/login", h.LoginMember)

			r.Group(func(r chi.Router) {
				r.Use(h.requireMember)
				r.Get("/me", h.MemberMe)
				r.Get("/downloads", h.MemberDownloads)
			})
		})

		r.Route("/admin", func(r chi.Router) {
			r.Post("/auth/login", h.LoginAdmin)

			r.Group(func(r chi.Router) {
				r.Use(h.requireAdmin)

				r.Get("/auth/session", h.AdminSession)
				r.Get("/marketplace", h.AdminMarketplace)

				r.Get("/users", h.ListAdminUsers)
				r.Post("/users", h.CreateAdminUser)
				r.Delete("/users/{username}", h.RemoveAdminUser)

				r.Post("/games", h.AddGame)
				r.Put("/games/{gameID}", h.UpdateGame)
				r.Delete("/games/{gameID}", h.RemoveGame)

				r.Post("/memberships", h.AddPlan)
				r.Put("/memberships/{planID}", h.UpdatePlan)
				r.Delete("/memberships/{planID}", h.RemovePlan)

				r.Post("/coupons", h.AddCoupon)
				r.Put("/coupons/{code}", h.UpdateCoupon)
				r.Delete("/coupons/{code}", h.RemoveCoupon)

				r.Get("/membership/accounts", h.ListMemberAccounts)
				r.Get("/membership/logs", h.ListMemberLogs)
			})
		})
	})

	return r
}

// Health reports liveness and the active payment provider.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":   "ok",
		"provider": h.cfg.Get().Payment.Provider,
	})
}
