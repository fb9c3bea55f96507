package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/cesargomez89/menusync/internal/app"
	"github.com/cesargomez89/menusync/internal/cache"
	"github.com/cesargomez89/menusync/internal/config"
	"github.com/cesargomez89/menusync/internal/constants"
	"github.com/cesargomez89/menusync/internal/downloader"
	"github.com/cesargomez89/menusync/internal/logger"
	"github.com/cesargomez89/menusync/internal/menuparse"
	"github.com/cesargomez89/menusync/internal/metrics"
	"github.com/cesargomez89/menusync/internal/source"
	"github.com/cesargomez89/menusync/internal/state"
	"github.com/cesargomez89/menusync/internal/store"
)

var envFile string

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "menusync",
		Short:        "Restaurant menu sync server",
		Long:         "menusync fetches each location's published menu, structures it, enriches every dish and serves the result as JSON.",
		SilenceUsage: true,
		RunE:         runServe,
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Environment file loaded before configuration")
	addServeFlags(root)

	root.AddCommand(newServeCmd())
	root.AddCommand(newRefreshCmd())
	root.AddCommand(newResetCmd())
	root.AddCommand(newClearCacheCmd())
	return root
}

// deps is the wired object graph shared by every subcommand.
type deps struct {
	cfg      *config.Config
	log      *logger.Logger
	store    store.Store
	state    *state.Service
	cache    *cache.Manager
	queue    *downloader.Queue
	menus    *app.MenuService
	registry *prometheus.Registry
}

func loadConfig() (*config.Config, error) {
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
	}
	cfg := config.Load()
	if err := cfg.ApplyMenuFile(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func bootstrap(ctx context.Context, cfg *config.Config) (*deps, error) {
	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		File:   cfg.LogFile,
	})

	if err := os.MkdirAll(cfg.ImagesDir, constants.DirPermissions); err != nil {
		return nil, fmt.Errorf("failed to create images dir: %w", err)
	}

	st := store.New(ctx, store.Options{
		Type:          cfg.StoreType,
		DataDir:       cfg.DataDir,
		DBPath:        cfg.DBPath,
		RedisAddr:     cfg.RedisAddr,
		RedisPassword: cfg.RedisPassword,
		RedisDB:       cfg.RedisDB,
		S3: store.S3Options{
			Bucket:    cfg.S3Bucket,
			Endpoint:  cfg.S3Endpoint,
			Region:    cfg.S3Region,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			Prefix:    cfg.S3Prefix,
		},
	}, log)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	stateSvc := state.NewService(st, log)
	cm := cache.NewManager(st, cache.Config{
		TTL:          cfg.CacheTTL,
		ImagesDir:    cfg.ImagesDir,
		ImagesPrefix: cfg.ImagesURLPrefix,
	}, log)
	sup := downloader.NewSupervisor(log)
	queue := downloader.NewQueue(nil, downloader.DefaultOptions(cfg.ImagesDir, cfg.ImagesURLPrefix), log, m)

	var structurer menuparse.Structurer
	if cfg.LLMEnabled() {
		structurer = menuparse.NewLLMStructurer(nil, menuparse.LLMConfig{
			APIKey:      cfg.OpenAIKey,
			BaseURL:     cfg.OpenAIBaseURL,
			Model:       cfg.OpenAIModel,
			Temperature: constants.LLMTemperature,
		}, log)
	} else {
		log.Warn("OPENAI_API_KEY not set, menus will be parsed with the heuristic parser")
	}

	pipeline := app.NewPipeline(app.PipelineConfig{
		State:             stateSvc,
		Cache:             cm,
		Fetcher:           source.NewFetcher(log),
		Parser:            menuparse.NewParser(structurer, log),
		Catalog:           menuparse.NewCatalog(cfg.ImageCatalog),
		Images:            queue,
		Supervisor:        sup,
		Metrics:           m,
		Logger:            log,
		ImageProviderURL:  cfg.ImageProviderURL,
		ImageNameTemplate: cfg.ImageNameTemplate,
	})

	menus := app.NewMenuService(stateSvc, cm, pipeline, sup, cfg.Locations, log,
		app.WithStaleTimeout(cfg.StaleTimeout))

	return &deps{
		cfg:      cfg,
		log:      log,
		store:    st,
		state:    stateSvc,
		cache:    cm,
		queue:    queue,
		menus:    menus,
		registry: reg,
	}, nil
}

// Close waits up to grace for background work, then releases the store.
func (d *deps) Close(grace time.Duration) {
	done := make(chan struct{})
	go func() {
		d.menus.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(grace):
		d.log.Warn("Background work still running at exit", "pending_images", d.queue.Len())
	}

	d.state.Close()
	if err := d.store.Close(); err != nil {
		d.log.Error("Failed to close store", "error", err)
	}
}
