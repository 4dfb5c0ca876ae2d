package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/eleven-am/taskboard/internal/config"
	"github.com/eleven-am/taskboard/internal/httpapi"
	"github.com/eleven-am/taskboard/internal/logger"
	"github.com/eleven-am/taskboard/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return err
		}
		logger.SetLevel(logger.ParseLevel(cfg.LogLevel))
		if logLevel != "" {
			logger.SetLevel(logger.ParseLevel(logLevel))
		}

		st, err := store.Open(cfg.Database.URL, store.Options{
			MaxConnections: cfg.Database.MaxConnections,
			MaxIdle:        cfg.Database.MaxIdle,
		})
		if err != nil {
			return err
		}
		defer st.Close()

		server := httpapi.New(st, cfg)
		httpServer := &http.Server{
			Addr:    cfg.Server.Addr,
			Handler: server.Routes(),
		}

		errCh := make(chan error, 1)
		go func() {
			logger.Info("listening on %s (env=%s)", cfg.Server.Addr, cfg.Environment)
			if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}()

		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-errCh:
			return err
		case sig := <-stop:
			logger.Info("received %s, shutting down", sig)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(ctx)
	},
}
