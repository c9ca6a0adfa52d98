package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
	"github.com/straye-as/client-admin/internal/api"
	"github.com/straye-as/client-admin/internal/auth"
	"github.com/straye-as/client-admin/internal/config"
	"github.com/straye-as/client-admin/internal/database"
	"github.com/straye-as/client-admin/internal/domain"
	"github.com/straye-as/client-admin/internal/logger"
	"github.com/straye-as/client-admin/internal/session"
	"github.com/straye-as/client-admin/internal/transport"
	"github.com/straye-as/client-admin/internal/ui"
	"go.uber.org/zap"
)

// app is everything a command needs: configuration, the operator session
// and a backend client whose transport reports failures to the operator
type app struct {
	cfg     *config.Config
	logger  *zap.Logger
	session *session.Manager
	api     *api.Client
	term    *terminal

	// notifier and nav are the terminal for CLI commands and the console's
	// feed and route tracker for serve
	notifier ui.Notifier
	nav      ui.Navigator
	feed     *ui.Feed
	routes   *ui.RouteTracker
}

func newApp(cmd *cobra.Command) (*app, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	basicCfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if verbose {
		basicCfg.Logging.Level = "debug"
	}
	log, err := logger.NewLogger(&basicCfg.Logging, &basicCfg.App)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	log = logger.WithCommand(log, cmd.CommandPath())

	cfg, err := config.LoadWithSecrets(ctx, log)
	if err != nil {
		return nil, fmt.Errorf("failed to load secrets: %w", err)
	}
	cfg.Logging = basicCfg.Logging

	store, err := openSessionStore(&cfg.Session, log)
	if err != nil {
		return nil, err
	}

	term := newTerminal(cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr(), assumeYes)
	return assemble(ctx, cfg, log, store, term, cmd.Name() == "serve", nil)
}

// assemble wires the session, transport chain and backend client. base is
// the innermost RoundTripper; nil means http.DefaultTransport.
func assemble(ctx context.Context, cfg *config.Config, log *zap.Logger, store session.Store, term *terminal, serving bool, base http.RoundTripper) (*app, error) {
	a := &app{
		cfg:    cfg,
		logger: log,
		term:   term,
		feed:   ui.NewFeed(100, log),
		routes: &ui.RouteTracker{},
	}
	a.notifier, a.nav = term, term
	if serving {
		a.notifier, a.nav = a.feed, a.routes
	}

	mgr, err := session.Open(ctx, store, a.nav, a.notifier, log)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to open session: %w", err)
	}
	a.session = mgr

	httpClient := &http.Client{
		Timeout: cfg.Backend.TimeoutDuration(),
		Transport: transport.Chain(base,
			transport.Bearer(mgr),
			transport.Failure(transport.FailureOptions{
				Session:     mgr,
				Navigator:   a.nav,
				Notifier:    a.notifier,
				Logger:      log,
				RetryWindow: cfg.Backend.RetryWindowDuration(),
				Strict:      cfg.Backend.StrictAuth,
			}),
			transport.RequestID(),
			transport.Logging(log),
		),
	}
	a.api = api.NewClient(cfg.Backend.BaseURL, httpClient)
	mgr.SetAuthenticator(a.api.Auth)

	log.Debug("client admin ready",
		zap.String("backend", cfg.Backend.BaseURL),
		zap.String("session_store", cfg.Session.Store),
		zap.Bool("signed_in", mgr.IsLoggedIn()),
	)
	return a, nil
}

func openSessionStore(cfg *config.SessionConfig, log *zap.Logger) (session.Store, error) {
	switch cfg.Store {
	case "sqlite", "":
		db, err := database.NewDatabase(cfg.Path)
		if err != nil {
			return nil, err
		}
		if err := database.Migrate(db, log); err != nil {
			return nil, err
		}
		return session.NewSQLiteStore(db), nil
	case "keyring":
		return session.NewKeyringStore(), nil
	case "memory":
		return session.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unsupported session store: %s", cfg.Store)
	}
}

// Close releases the session store and flushes the logger
func (a *app) Close() {
	if err := a.session.Close(); err != nil {
		a.logger.Warn("failed to close session store", zap.Error(err))
	}
	_ = a.logger.Sync()
}

// context bounds a command by the --timeout flag
func (a *app) context(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}

// guard checks that the operator may open route
func (a *app) guard(route auth.Route) error {
	return a.session.Guard(route)
}

// require checks that the operator may perform action
func (a *app) require(action auth.Action) error {
	if !a.session.IsLoggedIn() {
		a.nav.Navigate(auth.RouteLogin)
		return domain.ErrNotLoggedIn
	}
	if !a.session.Can(action) {
		a.notifier.Notify(transport.MsgNotAuthorized)
		return fmt.Errorf("%w: %s", domain.ErrForbidden, action)
	}
	return nil
}
