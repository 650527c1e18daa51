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

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container

	"github.com/ericfisherdev/branchpanel/internal/adapter/driven/dashboard"
	githubadapter "github.com/ericfisherdev/branchpanel/internal/adapter/driven/github"
	sqliteadapter "github.com/ericfisherdev/branchpanel/internal/adapter/driven/sqlite"
	httphandler "github.com/ericfisherdev/branchpanel/internal/adapter/driving/http"
	webhandler "github.com/ericfisherdev/branchpanel/internal/adapter/driving/web"
	"github.com/ericfisherdev/branchpanel/internal/application"
	"github.com/ericfisherdev/branchpanel/internal/config"
	"github.com/ericfisherdev/branchpanel/internal/domain/model"
	"github.com/ericfisherdev/branchpanel/internal/domain/port/driven"
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
		"dashboard_url", cfg.DashboardURL,
		"tekton_api_version", cfg.TektonVersion,
		"fetch_timeout", cfg.FetchTimeout,
		"timezone", cfg.Location.String(),
	)

	// 2. Setup signal-based context (SIGINT, SIGTERM).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Open database and apply migrations.
	db, err := sqliteadapter.NewDB(ctx, cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()

	if err := sqliteadapter.RunMigrations(db.Writer); err != nil {
		return err
	}
	slog.Info("database ready", "path", cfg.DBPath)

	// 4. Metrics registry shared by the dashboard client and the HTTP server.
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	// 5. Wire driven adapters.
	dashboardClient, err := dashboard.NewClient(cfg.DashboardURL, cfg.TektonVersion, cfg.FetchTimeout, reg)
	if err != nil {
		return err
	}

	var repoHost driven.RepoHost
	if cfg.HasGitHubToken() {
		repoHost = githubadapter.NewClient(cfg.GitHubToken)
		slog.Info("github branch lookup enabled")
	} else {
		slog.Info("no github token configured, default and deleted branches are not marked")
	}

	webhookStore := sqliteadapter.NewWebhookRepo(db)

	// 6. Application services.
	webhookSvc := application.NewWebhookService(webhookStore, slog.Default())
	branchSvc := application.NewBranchService(dashboardClient, repoHost, slog.Default())

	if cfg.WebhooksFile != "" {
		seed, err := config.LoadWebhooks(cfg.WebhooksFile)
		if err != nil {
			return err
		}
		added, err := webhookSvc.Seed(ctx, seed)
		if err != nil {
			return err
		}
		slog.Info("webhooks seeded", "file", cfg.WebhooksFile, "entries", len(seed), "added", added)

		go func() {
			err := config.WatchWebhooks(ctx, cfg.WebhooksFile, slog.Default(), func(webhooks []model.Webhook) {
				added, err := webhookSvc.Seed(ctx, webhooks)
				if err != nil {
					slog.Error("webhooks reseed failed", "file", cfg.WebhooksFile, "error", err)
					return
				}
				slog.Info("webhooks reseeded", "file", cfg.WebhooksFile, "added", added)
			})
			if err != nil {
				slog.Error("webhooks file watcher stopped", "error", err)
			}
		}()
	}

	// 7. HTTP routes: REST API, metrics, GUI.
	mux := http.NewServeMux()
	httphandler.RegisterAPIRoutes(mux, httphandler.NewHandler(webhookSvc, branchSvc, slog.Default()))
	httphandler.RegisterMetricsRoute(mux, reg)
	webhandler.RegisterRoutes(mux, webhandler.NewHandler(webhookSvc, branchSvc, cfg.Location, slog.Default()))

	metrics, err := httphandler.NewMetrics(reg)
	if err != nil {
		return err
	}
	handler := httphandler.ApplyMiddleware(mux, slog.Default(), metrics)

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      cfg.FetchTimeout + 10*time.Second,
		IdleTimeout:       120 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("http server starting", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	// 8. Wait for shutdown signal or a listener failure.
	select {
	case <-ctx.Done():
		slog.Info("shutting down")
	case err := <-serveErr:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http server shutdown error", "error", err)
	}

	slog.Info("shutdown complete")
	return nil
}
