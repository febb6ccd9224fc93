package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/qrdine/qrdine-backend/api/controllers"
	"github.com/qrdine/qrdine-backend/api/middleware"
	"github.com/qrdine/qrdine-backend/internal/gateways"
	"github.com/qrdine/qrdine-backend/internal/gateways/discovery"
	"github.com/qrdine/qrdine-backend/internal/notifications"
	"github.com/qrdine/qrdine-backend/internal/providers"
	"github.com/qrdine/qrdine-backend/internal/restaurant"
	"github.com/qrdine/qrdine-backend/internal/settings"
	"github.com/qrdine/qrdine-backend/pkg/config"
	"github.com/qrdine/qrdine-backend/pkg/db"
	"github.com/qrdine/qrdine-backend/pkg/enums"
	"github.com/qrdine/qrdine-backend/pkg/logger"
	pkgredis "github.com/qrdine/qrdine-backend/pkg/redis"
)

// Deps bundles everything the router wires into handlers.
type Deps struct {
	Config   *config.Config
	Logger   *logger.Logger
	DB       db.Pinger
	Redis    *pkgredis.Client
	Registry prometheus.Gatherer

	Resolver      *gateways.Resolver
	Listers       providers.Registry
	Prober        *discovery.Prober
	Settings      settings.Service
	Restaurant    restaurant.Service
	Notifications notifications.Service

	// IdempotencyStore overrides the Redis client as the idempotency backend.
	IdempotencyStore pkgredis.IdempotencyStore
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, deps.Redis))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	idempotencyStore := deps.IdempotencyStore
	if idempotencyStore == nil && deps.Redis != nil {
		idempotencyStore = deps.Redis
	}
	// Attached per-route so the middleware sees the final route pattern, not
	// an intermediate mount wildcard.
	idempotency := middleware.Idempotency(idempotencyStore, logg)

	r.Route("/api/v1", func(r chi.Router) {
		// Checkout-facing reads and order placement serve unauthenticated
		// QR sessions.
		r.Route("/gateways", func(r chi.Router) {
			r.Get("/options", controllers.GatewayOptions(deps.Resolver, deps.Listers, logg))
			r.Get("/capabilities", controllers.GatewayCapabilities(deps.Resolver, deps.Settings, logg))
		})

		r.With(idempotency).
			Post("/restaurants/{restaurantId}/orders", controllers.CreateOrder(deps.Restaurant, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))

			r.Route("/restaurants/{restaurantId}", func(r chi.Router) {
				r.Get("/orders", controllers.ListOrders(deps.Restaurant, logg))
				r.Get("/staff", controllers.ListStaff(deps.Restaurant, logg))

				r.Route("/notifications", func(r chi.Router) {
					r.Get("/", controllers.ListNotifications(deps.Notifications, logg))
					r.With(idempotency).Post("/{notificationId}/read", controllers.MarkNotificationRead(deps.Notifications, logg))
					r.With(idempotency).Post("/read-all", controllers.MarkAllNotificationsRead(deps.Notifications, logg))
				})
			})

			r.Get("/restaurant/orders/{orderId}", controllers.OrderDetail(deps.Restaurant, logg))
			r.With(idempotency).Patch("/restaurant/orders/{orderId}", controllers.PatchOrder(deps.Restaurant, logg))
			r.With(idempotency).Delete("/restaurant/orders/{orderId}", controllers.DeleteOrder(deps.Restaurant, logg))
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.RequireRole(string(enums.PlatformRoleAdmin), logg))

		r.Route("/gateways", func(r chi.Router) {
			r.With(idempotency).Post("/discover", controllers.GatewayDiscover(deps.Prober, logg))
			r.Get("/{provider}/config", controllers.AdminGetGatewayConfig(deps.Settings, logg))
			r.Put("/{provider}/config", controllers.AdminSetGatewayConfig(deps.Settings, logg))
		})
	})

	return r
}
