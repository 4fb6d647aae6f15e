package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/fasttrackbd/courier/internal/auth"
	"github.com/fasttrackbd/courier/internal/config"
	"github.com/fasttrackbd/courier/internal/domain/apikey"
	"github.com/fasttrackbd/courier/internal/domain/parcel"
	"github.com/fasttrackbd/courier/internal/domain/user"
	"github.com/fasttrackbd/courier/internal/domain/webhook"
	httpx "github.com/fasttrackbd/courier/internal/http"
	"github.com/fasttrackbd/courier/internal/observability"
	repo "github.com/fasttrackbd/courier/internal/repo/jsonfile"
	storefile "github.com/fasttrackbd/courier/internal/store/jsonfile"
	"github.com/fasttrackbd/courier/internal/webhooks"
)

func main() {
	// Load the config set up
	cfg := config.Load()

	// start up the observability logger
	log := observability.NewLogger(cfg.Env)
	slog.SetDefault(log)

	// optional tracing
	if cfg.TracingEnabled {
		ctx, cancel := config.WithTimeout(5 * time.Second)

		shutdownTracer, err := observability.InitTracer(ctx, "courier-api", cfg.OTLPEndpoint)
		cancel()

		if err != nil {
			log.Error("tracer init failed", "err", err)
		} else {
			defer func() {
				ctx, cancel := config.WithTimeout(5 * time.Second)
				defer cancel()
				_ = shutdownTracer(ctx)
			}()
		}
	}

	// metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	prom := observability.NewProm(registry)

	// flat-file stores + repositories
	parcelsCol := storefile.NewCollection[parcel.Parcel](filepath.Join(cfg.DataDir, "parcels.json"))
	usersCol := storefile.NewCollection[user.User](filepath.Join(cfg.DataDir, "users.json"))
	keysCol := storefile.NewCollection[apikey.Key](filepath.Join(cfg.DataDir, "api-keys.json"))
	hooksCol := storefile.NewCollection[webhook.Webhook](filepath.Join(cfg.DataDir, "webhooks.json"))

	parcelsRepo := repo.NewParcelsRepo(parcelsCol, prom)
	usersRepo := repo.NewUsersRepo(usersCol, prom)
	keysRepo := repo.NewAPIKeysRepo(keysCol, prom)
	hooksRepo := repo.NewWebhooksRepo(hooksCol, prom)

	// seed the admin identity into the user store
	{
		ctx, cancel := config.WithTimeout(5 * time.Second)
		err := usersRepo.EnsureAdmin(ctx, cfg.AdminUsername, cfg.AdminPassword, cfg.AdminEmail, cfg.AdminPhone)
		cancel()

		if err != nil {
			log.Error("admin seed failed", "err", err)
			os.Exit(1)
		}
	}

	dispatcher := webhooks.NewDispatcher(hooksRepo, cfg.WebhookTimeout, log, prom)
	jwtManager := auth.NewManager(cfg.JWTSecret, cfg.AccessTTL)

	// readiness = the data directory is usable
	ready := func() error {
		return os.MkdirAll(cfg.DataDir, 0o755)
	}

	router := httpx.NewRouter(httpx.Deps{
		Log:        log,
		Cfg:        cfg,
		Prom:       prom,
		Registry:   registry,
		Parcels:    parcelsRepo,
		Users:      usersRepo,
		Keys:       keysRepo,
		Webhooks:   hooksRepo,
		Dispatcher: dispatcher,
		JWT:        jwtManager,
		Ready:      ready,
	})

	// server set up
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// start server using a concurrent go-routine driven anonymous function.

	go func() {
		log.Info("Server starting", "port", cfg.Port, "env", cfg.Env, "data_dir", cfg.DataDir)
		err := srv.ListenAndServe()

		if err != nil && err != http.ErrServerClosed {
			log.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Info("server shutting down")

	shutdownCh := make(chan struct{})

	go func() {
		defer close(shutdownCh)

		ctx, cancel := config.WithTimeout(10 * time.Second)

		defer cancel()

		err := srv.Shutdown(ctx)

		if err != nil {
			log.Error("graceful shutdown failed", "err", err)

			return
		}
	}()

	select {
	case <-shutdownCh:
		log.Info("shutdown complete")

	case <-time.After(12 * time.Second):
		log.Error("shutdown timed out")
	}
}
