package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/straye-as/client-admin/internal/auth"
	"github.com/straye-as/client-admin/internal/config"
	"github.com/straye-as/client-admin/internal/http/handler"
	"github.com/straye-as/client-admin/internal/http/middleware"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"

	_ "github.com/straye-as/client-admin/docs" // Register swagger docs
)

// Handlers bundles the console's handlers
type Handlers struct {
	Session   *handler.SessionHandler
	Clients   *handler.ClientHandler
	Import    *handler.ImportHandler
	Drafts    *handler.DraftHandler
	Logs      *handler.LogHandler
	Dashboard *handler.DashboardHandler
}

type Router struct {
	cfg         *config.Config
	logger      *zap.Logger
	session     middleware.Session
	rateLimiter *middleware.RateLimiter
	h           Handlers
}

func NewRouter(cfg *config.Config, logger *zap.Logger, session middleware.Session, rateLimiter *middleware.RateLimiter, h Handlers) *Router {
	return &Router{
		cfg:         cfg,
		logger:      logger,
		session:     session,
		rateLimiter: rateLimiter,
		h:           h,
	}
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(rt.logger))
	r.Use(middleware.Logging(rt.logger))
	r.Use(middleware.SecurityHeaders(&rt.cfg.Security))
	r.Use(middleware.CORS(&rt.cfg.CORS, rt.cfg.App.Environment, rt.logger))
	r.Use(rt.rateLimiter.Limit)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	if rt.cfg.Server.EnableSwagger {
		r.Get("/swagger/*", httpSwagger.Handler(
			httpSwagger.URL("/swagger/doc.json"),
		))
	}

	can := func(action auth.Action) func(http.Handler) http.Handler {
		return middleware.RequireAction(rt.session, action)
	}

	r.Route("/console/v1", func(r chi.Router) {
		// Session
		r.Get("/session", rt.h.Session.Get)
		r.Post("/session", rt.h.Session.Login)
		r.Delete("/session", rt.h.Session.Logout)
		r.Get("/notifications", rt.h.Session.Notifications)

		// Clients
		r.Route("/clients", func(r chi.Router) {
			r.Use(middleware.RequireRoute(rt.session, auth.RouteClients))

			r.Get("/", rt.h.Clients.List)
			r.Post("/reload", rt.h.Clients.Reload)
			r.With(can(auth.ActionCreateClient)).Post("/", rt.h.Clients.Create)
			r.With(can(auth.ActionExportClients)).Get("/export", rt.h.Clients.Export)

			r.Route("/import", func(r chi.Router) {
				r.Use(can(auth.ActionImportClients))
				r.Get("/", rt.h.Import.Get)
				r.Post("/", rt.h.Import.Upload)
				r.Delete("/", rt.h.Import.Reset)
				r.Post("/submit", rt.h.Import.Submit)
				r.Get("/template", rt.h.Clients.Template)
			})

			r.Get("/{id}", rt.h.Clients.Get)
			r.With(can(auth.ActionEditClient)).Put("/{id}", rt.h.Clients.Update)
			r.With(can(auth.ActionDeleteClient)).Delete("/{id}", rt.h.Clients.Delete)
		})

		// Drafts
		r.Route("/drafts", func(r chi.Router) {
			r.Use(middleware.RequireRoute(rt.session, auth.RouteDrafts))

			r.Get("/", rt.h.Drafts.List)
			r.Get("/{id}", rt.h.Drafts.Get)
			r.With(can(auth.ActionEditDraft)).Put("/{id}", rt.h.Drafts.Update)
			r.With(can(auth.ActionPostDraft)).Post("/{id}/post", rt.h.Drafts.Post)
			r.With(can(auth.ActionDeleteDraft)).Delete("/{id}", rt.h.Drafts.Delete)
		})

		// Logs
		r.With(middleware.RequireRoute(rt.session, auth.RouteLogs)).Get("/logs", rt.h.Logs.List)

		// Dashboard
		r.With(middleware.RequireRoute(rt.session, auth.RouteDashboard)).Get("/dashboard", rt.h.Dashboard.Get)
	})

	return r
}
