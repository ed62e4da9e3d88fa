package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"igflash/internal/batch"
	"igflash/pkg/cache"
	"igflash/pkg/config"
	"igflash/pkg/diagnostics"
	"igflash/pkg/instagram"
	"igflash/pkg/logger"
	"igflash/pkg/ui"
)

// app holds the collaborators shared by every lookup of one invocation
type app struct {
	cfg     *config.Config
	log     logger.Logger
	store   cache.Backend
	scraper *instagram.Scraper
}

func newPrinter(cmd *cobra.Command) *ui.Printer {
	p := ui.NewPrinter(cmd.ErrOrStderr())
	p.SetQuiet(quiet)
	return p
}

func commandLineFlags() map[string]interface{} {
	return map[string]interface{}{
		"api-key":       apiKey,
		"api-host":      apiHost,
		"cache-backend": cacheBackend,
		"redis-addr":    redisAddr,
		"log-level":     logLevel,
	}
}

// newApp loads configuration and wires the scraper
func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(configFile, commandLineFlags())
	if err != nil {
		return nil, err
	}

	log, err := logger.New(&cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	store, err := cache.New(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	fileSink, err := diagnostics.NewFileSink(cfg.Diagnostics.ErrorsFile, log)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to open scraper error store: %w", err)
	}

	scraper, err := instagram.New(cfg, instagram.Options{
		Store:  store,
		Sink:   diagnostics.Multi{diagnostics.NewLogSink(log), fileSink},
		Logger: log,
	})
	if err != nil {
		store.Close()
		return nil, err
	}

	log.WithFields(map[string]interface{}{
		"version": version,
		"backend": cfg.Cache.Backend,
	}).Debug("igflash starting")

	return &app{cfg: cfg, log: log, store: store, scraper: scraper}, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		a.log.WithError(err).Warn("Failed to close cache store")
	}
}

// runLookups executes jobs and writes their results to the command's output
func runLookups(cmd *cobra.Command, jobs []batch.Job) error {
	printer := newPrinter(cmd)

	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	if len(jobs) > 1 {
		printer.Highlight(fmt.Sprintf("[%d LOOKUPS, %d WORKERS]", len(jobs), concurrency))
	}

	results := batch.Run(cmd.Context(), concurrency, a.scraper, jobs, a.log)
	return writeResults(cmd.OutOrStdout(), printer, results, !compact)
}
