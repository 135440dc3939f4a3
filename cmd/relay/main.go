package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container

	"github.com/pczin9531-tech/robloximportexportserverm/internal/adapter/driven/memory"
	"github.com/pczin9531-tech/robloximportexportserverm/internal/adapter/driven/roblox"
	sqliteadapter "github.com/pczin9531-tech/robloximportexportserverm/internal/adapter/driven/sqlite"
	httphandler "github.com/pczin9531-tech/robloximportexportserverm/internal/adapter/driving/http"
	webhandler "github.com/pczin9531-tech/robloximportexportserverm/internal/adapter/driving/web"
	"github.com/pczin9531-tech/robloximportexportserverm/internal/application"
	"github.com/pczin9531-tech/robloximportexportserverm/internal/config"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	startedAt := time.Now()

	// 1. Load configuration.
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	slog.Info("config loaded",
		"listen_addr", cfg.ListenAddr,
		"db_path", cfg.DBPath,
		"key_ttl", cfg.KeyTTL,
		"sweep_interval", cfg.SweepInterval,
		"export_retention", cfg.ExportRetention,
		"rate_limit", cfg.RateLimit,
		"lenient_properties", cfg.LenientProperties,
	)

	// 2. Setup signal-based context (SIGINT, SIGTERM).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Open database (dual reader/writer with WAL mode).
	db, err := sqliteadapter.NewDB(ctx, cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()
	slog.Info("database opened", "path", cfg.DBPath)

	// 4. Run migrations on writer connection.
	if err := sqliteadapter.RunMigrations(db.Writer); err != nil {
		return err
	}
	slog.Info("migrations complete")

	// 5. Wire adapters.
	credentialStore := memory.NewCredentialStore(cfg.KeyTTL,
		memory.WithSweepInterval(cfg.SweepInterval),
		memory.WithLogger(slog.Default()),
	)
	go credentialStore.Run(ctx)

	artifactStore := sqliteadapter.NewArtifactRepo(db)

	robloxClient := roblox.NewClient(roblox.Config{
		UploadURL:        cfg.UploadURL,
		AssetDeliveryURL: cfg.AssetDeliveryURL,
		Timeout:          cfg.UpstreamTimeout,
		MaxBytes:         cfg.MaxBodyBytes,
		CacheMaxBytes:    cfg.CacheMaxBytes,
	})

	// 6. Create services.
	keySvc := application.NewKeyService(credentialStore, slog.Default())
	exportSvc := application.NewExportService(
		keySvc,
		application.NewSceneSerializer(cfg.LenientProperties),
		artifactStore,
		robloxClient,
		cfg.ExportRetention,
		slog.Default(),
	)
	go exportSvc.RunRetention(ctx, cfg.SweepInterval)

	importSvc := application.NewImportService(keySvc, robloxClient, slog.Default())
	statusSvc := application.NewStatusService(keySvc, cfg.Port, startedAt)

	// 7. Register web routes before the API catch-all.
	mux := http.NewServeMux()
	webhandler.RegisterRoutes(mux, webhandler.NewHandler(statusSvc, slog.Default()))

	apiHandler := httphandler.NewHandler(keySvc, exportSvc, importSvc, statusSvc, slog.Default())
	httphandler.RegisterAPIRoutes(mux, apiHandler)

	// Apply middleware.
	handler := httphandler.ApplyMiddleware(mux, httphandler.MiddlewareOptions{
		MaxBodyBytes: cfg.MaxBodyBytes,
		RateLimit:    cfg.RateLimit,
		RateWindow:   cfg.RateWindow,
	}, slog.Default())

	// Exports may wait on an upload for the full upstream timeout.
	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      cfg.UpstreamTimeout + 30*time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.Info("http server starting", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server error", "error", err)
			stop()
		}
	}()

	// 8. Log startup complete.
	slog.Info("relay started",
		"listen_addr", cfg.ListenAddr,
		"version", application.Version,
	)

	// 9. Wait for shutdown signal.
	<-ctx.Done()
	slog.Info("shutting down")

	// 10. Graceful shutdown with 10s timeout for in-flight requests.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http server shutdown error", "error", err)
	}

	// 11. Log shutdown complete.
	slog.Info("shutdown complete")
	return nil
}
