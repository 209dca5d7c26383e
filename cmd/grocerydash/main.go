package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"grocerydash/internal/cli"
	apphttp "grocerydash/internal/http"
	"grocerydash/internal/ingest"
	"grocerydash/internal/view"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	schema := ingest.ReceiptSchema()
	if cfg.SchemaPath != "" {
		loaded, err := ingest.LoadSchema(cfg.SchemaPath)
		if err != nil {
			logger.Error("Failed to load column schema", "error", err, "path", cfg.SchemaPath)
			os.Exit(1)
		}
		schema = loaded
		logger.Info("Loaded column schema", "path", cfg.SchemaPath)
	}

	dashboard := view.NewDashboard()
	finder := view.NewFinder()

	srv := apphttp.NewServer(":"+cfg.Port, dashboard, finder, schema, apphttp.Options{
		MaxUploadBytes: cfg.MaxUploadBytes,
		CacheSize:      cfg.CacheSize,
		CacheTTL:       cfg.CacheTTL,
	})

	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
	})

	g, gctx := errgroup.WithContext(ctx)

	// Best-effort startup load. A missing dataset leaves the dashboard
	// in its prompt state until the first upload.
	g.Go(func() error {
		source := cfg.DatasetSource()
		loader := ingest.NewLoader(cfg.FetchTimeout)

		dashboard.BeginLoad()
		records, stats, err := loader.Load(gctx, source, schema)
		if err != nil {
			dashboard.AbortLoad()
			logger.Warn("Startup dataset unavailable", "source", source, "error", err)
			return nil
		}
		snap := dashboard.Ingest(source, records)
		finder.SetRecords(snap.ID, snap.Records)
		logger.Info("Startup dataset loaded",
			"source", source,
			"accepted", stats.Accepted,
			"dropped", stats.Dropped,
			"snapshot", snap.ID)
		return nil
	})

	g.Go(func() error {
		logger.Info("Starting grocerydash server", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-done
	logger.Info("Server stopped gracefully")
}
