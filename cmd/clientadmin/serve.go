package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/straye-as/client-admin/docs"
	"github.com/straye-as/client-admin/internal/console"
	"github.com/straye-as/client-admin/internal/jobs"
	"github.com/straye-as/client-admin/internal/storage"
	"go.uber.org/zap"
)

var (
	serveHost string
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the local web console",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log := current.cfg, current.logger
		if cmd.Flags().Changed("host") {
			cfg.Server.Host = serveHost
		}
		if cmd.Flags().Changed("port") {
			cfg.Server.Port = servePort
		}

		store, err := storage.NewStorage(&cfg.Storage, log)
		if err != nil {
			log.Warn("export storage unavailable", zap.Error(err))
			store = nil
		}

		c := console.New(console.Deps{
			Config:  cfg,
			API:     current.api,
			Session: current.session,
			Storage: store,
			Feed:    current.feed,
			Routes:  current.routes,
			Logger:  log,
		})
		defer c.Close()
		docs.SwaggerInfo.Host = cfg.Server.Addr()

		var scheduler *jobs.Scheduler
		if cfg.Server.RefreshCron != "" {
			scheduler = jobs.NewScheduler(log)
			refresh := jobs.NewRefreshJob(c.Screens(), log, cfg.Backend.TimeoutDuration())
			if err := scheduler.AddJob(jobs.RefreshJobName, cfg.Server.RefreshCron, refresh.Func()); err != nil {
				return err
			}
			scheduler.Start()
		}

		srv := &http.Server{
			Addr:         cfg.Server.Addr(),
			Handler:      c.Handler(),
			ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
			WriteTimeout: cfg.Server.WriteTimeoutDuration(),
		}

		serverErrors := make(chan error, 1)
		go func() {
			log.Info("console starting", zap.String("addr", srv.Addr))
			serverErrors <- srv.ListenAndServe()
		}()
		fmt.Fprintf(cmd.OutOrStdout(), "Console listening on http://%s\n", srv.Addr)

		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(shutdown)

		select {
		case err := <-serverErrors:
			if scheduler != nil {
				<-scheduler.Stop().Done()
			}
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("server error: %w", err)
		case sig := <-shutdown:
			log.Info("shutdown signal received", zap.String("signal", sig.String()))
		}

		if scheduler != nil {
			<-scheduler.Stop().Done()
			log.Info("scheduler stopped")
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Error("failed to shut down gracefully", zap.Error(err))
			return err
		}
		log.Info("console stopped")
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "", "Listen host (default from config)")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Listen port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
