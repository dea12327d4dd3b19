package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/templhub/templhub-backend/api/controllers"
	"github.com/templhub/templhub-backend/api/middleware"
	cartsvc "github.com/templhub/templhub-backend/internal/cart"
	ticketsvc "github.com/templhub/templhub-backend/internal/tickets"
	"github.com/templhub/templhub-backend/internal/templates"
	pkgauth "github.com/templhub/templhub-backend/pkg/auth"
	"github.com/templhub/templhub-backend/pkg/config"
	"github.com/templhub/templhub-backend/pkg/db"
	"github.com/templhub/templhub-backend/pkg/logger"
	"github.com/templhub/templhub-backend/pkg/metrics"
	"github.com/templhub/templhub-backend/pkg/redis"
)

// Deps carries everything the router wires into handlers.
type Deps struct {
	Config         *config.Config
	Logger         *logger.Logger
	DBPinger       db.Pinger
	RedisPinger    redis.Pinger
	Sessions       redis.SessionChecker
	Metrics        *metrics.HTTPMetrics
	MetricsHandler http.Handler
	CatalogService templates.Service
	CartService    cartsvc.Service
	TicketService  ticketsvc.Service
}

// NewRouter builds the chi router for the API server.
func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.Metrics),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DBPinger, deps.RedisPinger))
	})

	if deps.MetricsHandler != nil {
		r.Handle("/metrics", deps.MetricsHandler)
	} else {
		r.Handle("/metrics", promhttp.Handler())
	}

	r.Route("/api/v1/templates", func(r chi.Router) {
		r.Get("/", controllers.TemplateList(deps.CatalogService, logg))
		r.Get("/categories", controllers.TemplateCategories(deps.CatalogService, logg))
		r.Get("/{templateId}", controllers.TemplateDetail(deps.CatalogService, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartFetch(deps.CartService, logg))
			r.Post("/add", controllers.CartAdd(deps.CartService, logg))
			r.Delete("/remove/{templateId}", controllers.CartRemove(deps.CartService, logg))
			r.Delete("/clear", controllers.CartClear(deps.CartService, logg))
		})

		r.Route("/tickets", func(r chi.Router) {
			r.Post("/create", controllers.TicketCreate(deps.TicketService, logg))
			r.Get("/mine", controllers.TicketListMine(deps.TicketService, logg))
		})

		r.Route("/admin/tickets", func(r chi.Router) {
			r.Use(middleware.RequireRole(string(pkgauth.RoleAdmin), logg))
			r.Get("/", controllers.AdminTicketList(deps.TicketService, logg))
			r.Get("/{ticketId}", controllers.AdminTicketDetail(deps.TicketService, logg))
			r.Patch("/{ticketId}/status", controllers.AdminTicketUpdateStatus(deps.TicketService, logg))
			r.Post("/{ticketId}/respond", controllers.AdminTicketRespond(deps.TicketService, logg))
		})
	})

	return r
}
