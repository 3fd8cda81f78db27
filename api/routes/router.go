package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lucasbarrena/shoplane-backend/api/controllers"
	"github.com/lucasbarrena/shoplane-backend/api/middleware"
	authsvc "github.com/lucasbarrena/shoplane-backend/internal/auth"
	cartsvc "github.com/lucasbarrena/shoplane-backend/internal/cart"
	checkoutsvc "github.com/lucasbarrena/shoplane-backend/internal/checkout"
	ordersvc "github.com/lucasbarrena/shoplane-backend/internal/orders"
	productsvc "github.com/lucasbarrena/shoplane-backend/internal/products"
	shippingsvc "github.com/lucasbarrena/shoplane-backend/internal/shipping"
	"github.com/lucasbarrena/shoplane-backend/pkg/auth/session"
	"github.com/lucasbarrena/shoplane-backend/pkg/config"
	"github.com/lucasbarrena/shoplane-backend/pkg/db"
	"github.com/lucasbarrena/shoplane-backend/pkg/enums"
	"github.com/lucasbarrena/shoplane-backend/pkg/logger"
	"github.com/lucasbarrena/shoplane-backend/pkg/metrics"
	"github.com/lucasbarrena/shoplane-backend/pkg/redis"
)

// Deps bundles everything the router wires into handlers.
type Deps struct {
	Config        *config.Config
	Logger        *logger.Logger
	DBPinger      db.Pinger
	RedisClient   *redis.Client
	Sessions      session.AccessSessionChecker
	AuthService   authsvc.Service
	ProductsSvc   productsvc.Service
	CartSvc       cartsvc.Service
	ShippingSvc   shippingsvc.Service
	CheckoutSvc   checkoutsvc.Service
	OrdersSvc     ordersvc.Service
	MetricsReg    *prometheus.Registry
	MetricsByHTTP *metrics.HTTPMetrics
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.MetricsByHTTP),
		middleware.CORS(),
		middleware.SessionCookie(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, deps.DBPinger, deps.RedisClient, logg))
	})

	if deps.MetricsReg != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.MetricsReg, promhttp.HandlerOpts{}))
	}

	// Browser page navigation: admin pages need an ADMIN token, checkout
	// pages any valid token. Failures bounce to the login page.
	r.Group(func(r chi.Router) {
		r.Use(middleware.PageGate(cfg.JWT, cfg.App.LoginPath, logg))
		r.Handle("/admin", pagePlaceholder())
		r.Handle("/admin/*", pagePlaceholder())
		r.Handle("/checkout", pagePlaceholder())
		r.Handle("/checkout/*", pagePlaceholder())
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, deps.RedisClient, logg)).Post("/login", controllers.Login(deps.AuthService, logg))
		r.With(
			middleware.AuthRateLimit(registerPolicy, deps.RedisClient, logg),
			middleware.Idempotency(deps.RedisClient, logg),
		).Post("/register", controllers.Register(deps.AuthService, logg))
		r.Post("/refresh", controllers.Refresh(deps.AuthService, logg))
		r.With(middleware.Auth(cfg.JWT, deps.Sessions, logg)).Post("/logout", controllers.Logout(deps.AuthService, logg))
	})

	r.Route("/api/v1/products", func(r chi.Router) {
		r.Get("/", controllers.ProductsList(deps.ProductsSvc, logg))
		r.Get("/{productId}", controllers.ProductsGet(deps.ProductsSvc, logg))
	})

	// Cart and shipping capture work for guests and signed-in users alike:
	// identity is taken from the bearer token when present, otherwise from
	// the anonymous session cookie.
	r.Group(func(r chi.Router) {
		r.Use(middleware.OptionalAuth(cfg.JWT, deps.Sessions, logg))

		r.Route("/api/v1/cart", func(r chi.Router) {
			r.Get("/", controllers.CartGet(deps.CartSvc, logg))
			r.Delete("/", controllers.CartClear(deps.CartSvc, logg))
			r.Post("/items", controllers.CartAddItem(deps.CartSvc, logg))
			r.Delete("/items/{productId}", controllers.CartRemoveItem(deps.CartSvc, logg))
			r.Get("/totals", controllers.CartTotals(deps.CartSvc, logg))
		})

		r.Route("/api/v1/checkout/shipping", func(r chi.Router) {
			r.Post("/", controllers.ShippingSubmit(deps.ShippingSvc, logg))
			r.Get("/", controllers.ShippingGet(deps.ShippingSvc, logg))
		})
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))
		r.Use(middleware.Idempotency(deps.RedisClient, logg))

		r.Post("/api/v1/checkout", controllers.CheckoutConfirm(deps.CheckoutSvc, logg))

		r.Route("/api/v1/orders", func(r chi.Router) {
			r.Get("/", controllers.OrdersList(deps.OrdersSvc, logg))
			r.Get("/{orderId}", controllers.OrdersGet(deps.OrdersSvc, logg))
		})

		r.Route("/api/admin/v1", func(r chi.Router) {
			r.Use(middleware.RequireRole(string(enums.UserRoleAdmin), logg))

			r.Route("/products", func(r chi.Router) {
				r.Post("/", controllers.AdminProductCreate(deps.ProductsSvc, logg))
				r.Patch("/{productId}", controllers.AdminProductUpdate(deps.ProductsSvc, logg))
				r.Delete("/{productId}", controllers.AdminProductDelete(deps.ProductsSvc, logg))
			})
			r.Get("/orders", controllers.AdminOrdersList(deps.OrdersSvc, logg))
		})
	})

	return r
}

// pagePlaceholder stands in for the frontend routes the gate fronts. A
// request that passes the gate gets a 204 so clients can probe access.
func pagePlaceholder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}
}
