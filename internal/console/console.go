// Package console assembles the local web console: one set of screens
// shared by every request, served over the chi router.
package console

import (
	"context"
	"net/http"

	"github.com/straye-as/client-admin/internal/api"
	"github.com/straye-as/client-admin/internal/config"
	"github.com/straye-as/client-admin/internal/http/handler"
	"github.com/straye-as/client-admin/internal/http/middleware"
	"github.com/straye-as/client-admin/internal/http/router"
	"github.com/straye-as/client-admin/internal/importer"
	"github.com/straye-as/client-admin/internal/jobs"
	"github.com/straye-as/client-admin/internal/listview"
	"github.com/straye-as/client-admin/internal/session"
	"github.com/straye-as/client-admin/internal/storage"
	"github.com/straye-as/client-admin/internal/ui"
	"go.uber.org/zap"
)

// Deps are the long-lived collaborators of the console
type Deps struct {
	Config  *config.Config
	API     *api.Client
	Session *session.Manager
	// Storage keeps exports and serves stored import files; nil disables both
	Storage storage.Storage
	Feed    *ui.Feed
	Routes  *ui.RouteTracker
	Logger  *zap.Logger
}

// Console holds the screens and the HTTP handler serving them
type Console struct {
	Clients *listview.ClientsController
	Drafts  *listview.DraftsController
	Logs    *listview.LogsController
	Import  *importer.Pipeline

	session *session.Manager
	logger  *zap.Logger
	handler http.Handler
}

// New builds the console. Deletions are confirmed per request through
// ui.WithConfirmation.
func New(d Deps) *Console {
	confirmer := ui.ContextConfirmer{}
	c := &Console{
		Clients: listview.NewClientsController(d.API.Clients, d.Feed, confirmer, d.Logger),
		Drafts:  listview.NewDraftsController(d.API.Drafts, d.Feed, confirmer, d.Logger),
		Logs:    listview.NewLogsController(d.API.Logs, d.Feed, d.Logger),
		Import:  importer.NewPipeline(d.API.Clients, d.Feed, d.Logger),
		session: d.Session,
		logger:  d.Logger,
	}
	c.Import.OnComplete(func(count int) {
		if err := c.Clients.ImportCompleted(context.Background(), count); err != nil {
			d.Logger.Debug("clients reload after import failed", zap.Error(err))
		}
	})

	h := router.Handlers{
		Session: handler.NewSessionHandler(d.Session, d.Routes, d.Feed, d.Logger),
		Clients: handler.NewClientHandler(c.Clients, d.API.Clients, d.Storage, d.Feed, d.Routes, d.Logger),
		Import:  handler.NewImportHandler(c.Import, d.Storage, d.Feed, d.Config.Import.MaxUploadBytes(), d.Logger),
		Drafts: handler.NewDraftHandler(handler.DraftHandlerDeps{
			List:       c.Drafts,
			Drafts:     d.API.Drafts,
			Getter:     d.API.Drafts,
			Clients:    d.API.Clients,
			ClientList: c.Clients,
			Feed:       d.Feed,
			Routes:     d.Routes,
			Logger:     d.Logger,
		}),
		Logs:      handler.NewLogHandler(c.Logs, d.Feed, d.Routes, d.Logger),
		Dashboard: handler.NewDashboardHandler(d.API.Clients, d.API.Logs, d.Session, d.Feed, d.Routes, d.Logger),
	}
	rateLimiter := middleware.NewRateLimiter(&d.Config.RateLimit, d.Logger)
	c.handler = router.NewRouter(d.Config, d.Logger, d.Session, rateLimiter, h).Setup()
	return c
}

// Handler serves the console
func (c *Console) Handler() http.Handler {
	return c.handler
}

type screen interface {
	Loaded() bool
	Load(ctx context.Context) error
}

// loadedScreen reloads a screen only once it has been opened and while an
// operator is signed in
type loadedScreen struct {
	screen  screen
	session *session.Manager
}

func (s loadedScreen) Load(ctx context.Context) error {
	if !s.session.IsLoggedIn() || !s.screen.Loaded() {
		return nil
	}
	return s.screen.Load(ctx)
}

// Screens returns the screens the refresh job keeps current
func (c *Console) Screens() map[string]jobs.Reloader {
	return map[string]jobs.Reloader{
		"clients": loadedScreen{screen: c.Clients, session: c.session},
		"drafts":  loadedScreen{screen: c.Drafts, session: c.session},
		"logs":    loadedScreen{screen: c.Logs, session: c.session},
	}
}

// Close detaches every screen so late results are dropped
func (c *Console) Close() {
	c.Clients.Close()
	c.Drafts.Close()
	c.Logs.Close()
}
