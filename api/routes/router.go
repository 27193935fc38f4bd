package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lendom/storefront-backend/api/controllers"
	"github.com/lendom/storefront-backend/api/middleware"
	cartsvc "github.com/lendom/storefront-backend/internal/cart"
	catalogsvc "github.com/lendom/storefront-backend/internal/catalog"
	checkoutsvc "github.com/lendom/storefront-backend/internal/checkout"
	locationsvc "github.com/lendom/storefront-backend/internal/location"
	"github.com/lendom/storefront-backend/pkg/config"
	"github.com/lendom/storefront-backend/pkg/logger"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP controllers.Pinger,
	redisP controllers.Pinger,
	catalogService catalogsvc.Service,
	cartService cartsvc.Service,
	locationService locationsvc.Service,
	checkoutService checkoutsvc.Service,
	metricsHandler http.Handler,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisP, catalogService))
	})

	if metricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", metricsHandler)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Session(logg, cfg.App.IsProd()))

		r.Route("/catalog", func(r chi.Router) {
			r.Get("/", controllers.CatalogList(catalogService, logg))
			r.Get("/categories", controllers.CatalogCategories(catalogService, logg))
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartFetch(cartService, logg))
			r.Post("/items", controllers.CartAddItem(cartService, logg))
			r.Patch("/items/{productId}", controllers.CartUpdateQuantity(cartService, logg))
			r.Delete("/items/{productId}", controllers.CartRemoveItem(cartService, logg))
		})

		r.Route("/location", func(r chi.Router) {
			r.Get("/", controllers.LocationState(locationService, logg))
			r.Post("/select", controllers.LocationSelect(locationService, logg))
			r.Post("/confirm", controllers.LocationConfirm(locationService, logg))
			r.Delete("/", controllers.LocationDiscard(locationService, logg))
			r.Post("/geolocate", controllers.LocationGeolocate(locationService, logg))
		})

		r.Post("/checkout", controllers.Checkout(checkoutService, logg))
	})

	return r
}
