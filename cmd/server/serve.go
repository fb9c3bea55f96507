package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/cesargomez89/menusync/internal/constants"
	httpapp "github.com/cesargomez89/menusync/internal/http"
)

const (
	serverReadHeaderTimeout = 10 * time.Second
	serverIdleTimeout       = 60 * time.Second
)

var serveFlags struct {
	port     string
	noWarmup bool
}

func addServeFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&serveFlags.port, "port", "", "Port to listen on (overrides PORT)")
	cmd.Flags().BoolVar(&serveFlags.noWarmup, "no-warmup", false, "Skip refreshing every location at startup")
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE:  runServe,
	}
	addServeFlags(cmd)
	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if serveFlags.port != "" {
		cfg.Port = serveFlags.port
	}

	d, err := bootstrap(ctx, cfg)
	if err != nil {
		return err
	}
	defer d.Close(constants.DefaultShutdownTimeout)

	h := httpapp.NewHandler(d.menus, d.store, httpapp.Options{
		DefaultLocation: cfg.DefaultLocation,
		ImagesDir:       cfg.ImagesDir,
		ImagesURLPrefix: cfg.ImagesURLPrefix,
		Gatherer:        d.registry,
	}, d.log)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           httpapp.NewRouter(h),
		ReadHeaderTimeout: serverReadHeaderTimeout,
		IdleTimeout:       serverIdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		d.log.Info("Server listening", "addr", srv.Addr, "store", cfg.StoreType, "locations", len(cfg.Locations))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	if cfg.WarmupOnStart && !serveFlags.noWarmup {
		g.Go(func() error {
			d.menus.Warmup(gctx)
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		d.log.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.DefaultShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		d.log.Error("Server stopped", "error", err)
		return err
	}
	d.log.Info("Server exiting")
	return nil
}
