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

	"github.com/ericfisherdev/certpanel/internal/adapter/driven/certapi"
	sqliteadapter "github.com/ericfisherdev/certpanel/internal/adapter/driven/sqlite"
	httphandler "github.com/ericfisherdev/certpanel/internal/adapter/driving/http"
	webhandler "github.com/ericfisherdev/certpanel/internal/adapter/driving/web"
	"github.com/ericfisherdev/certpanel/internal/application"
	"github.com/ericfisherdev/certpanel/internal/config"
	"github.com/ericfisherdev/certpanel/internal/domain/port/driven"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load configuration (fail fast on invalid values).
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	slog.Info("config loaded",
		"listen_addr", cfg.ListenAddr,
		"db_path", cfg.DBPath,
		"api_url", cfg.APIURL,
		"api_timeout", cfg.APITimeout,
		"env_token", cfg.HasAPIToken(),
		"token_storage", cfg.SecretKey != nil,
	)
	if !cfg.HasAPIToken() && cfg.SecretKey == nil {
		slog.Warn("no api token and no secret key configured, set CERTPANEL_API_TOKEN or CERTPANEL_SECRET_KEY to reach the backend")
	}

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
	credentialStore, err := sqliteadapter.NewCredentialRepo(db, cfg.SecretKey)
	if err != nil {
		return err
	}
	actionStore := sqliteadapter.NewActionRepo(db)

	// 6. Resolve the API token and install the backend client.
	// A stored token takes priority over CERTPANEL_API_TOKEN.
	provider := application.NewCertificateAPIProvider()
	newClient := func(token string) (driven.CertificateAPI, error) {
		return certapi.NewClient(cfg.APIURL, token, cfg.APITimeout)
	}
	tokenSvc := application.NewTokenService(
		credentialStore,
		provider,
		newClient,
		cfg.APIToken,
		credentialStore.Enabled(),
		slog.Default(),
	)
	if err := tokenSvc.Resolve(ctx); err != nil {
		return err
	}

	// 7. Create certificate service.
	certSvc := application.NewCertificateService(provider, actionStore, cfg.APIURL, slog.Default())

	// 7.5. Create HTTP handler and register API routes.
	apiHandler := httphandler.NewHandler(certSvc, provider, slog.Default())
	mux := http.NewServeMux()
	httphandler.RegisterAPIRoutes(mux, apiHandler)

	// 7.6. Create web handler and register GUI routes.
	webHandler := webhandler.NewHandler(certSvc, tokenSvc, slog.Default())
	webhandler.RegisterRoutes(mux, webHandler)

	// Apply middleware.
	handler := httphandler.ApplyMiddleware(mux, slog.Default())

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      cfg.APITimeout + 15*time.Second,
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
	slog.Info("certpanel started",
		"listen_addr", cfg.ListenAddr,
		"backend_configured", provider.HasClient(),
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
