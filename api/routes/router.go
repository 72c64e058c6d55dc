package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/storefront-cart/api/controllers"
	cartcontrollers "github.com/angelmondragon/storefront-cart/api/controllers/cart"
	"github.com/angelmondragon/storefront-cart/api/middleware"
	"github.com/angelmondragon/storefront-cart/internal/catalog"
	"github.com/angelmondragon/storefront-cart/pkg/config"
	"github.com/angelmondragon/storefront-cart/pkg/logger"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	sessions cartcontrollers.Sessions,
	products catalog.Lookup,
	gatherer prometheus.Gatherer,
	readiness ...controllers.ReadinessCheck,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, readiness...))
	})

	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/cart", func(r chi.Router) {
		r.Use(middleware.Session(logg, middleware.SessionOptions{
			CookieMaxAge: cfg.Storage.TTL,
			SecureCookie: cfg.App.IsProd(),
		}))

		r.Get("/", cartcontrollers.CartFetch(sessions, logg))
		r.Delete("/", cartcontrollers.CartClear(sessions, logg))
		r.Delete("/session", cartcontrollers.CartReset(sessions, logg))

		r.Route("/items", func(r chi.Router) {
			r.Post("/", cartcontrollers.CartAddItem(sessions, products, logg))
			r.Patch("/", cartcontrollers.CartUpdateItem(sessions, logg))
			r.Delete("/", cartcontrollers.CartRemoveItem(sessions, logg))
			r.Post("/lookup", cartcontrollers.CartLookupItem(sessions, logg))
		})

		r.Post("/checkout", cartcontrollers.CartCheckout(logg))
	})

	return r
}
