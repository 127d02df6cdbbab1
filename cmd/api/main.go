package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"tamagitchi/internal/adapters/auth/github"
	"tamagitchi/internal/adapters/storage"
	"tamagitchi/internal/domain/care"
	"tamagitchi/internal/platform/config"
	"tamagitchi/internal/platform/logger"
	"tamagitchi/internal/platform/metrics"
	"tamagitchi/internal/ports/auth"
	"tamagitchi/internal/router"

	"golang.org/x/sync/errgroup"
)

// @title Tamagitchi API
// @version 1.0
// @description Una mascota virtual por colo: interacciones, degradación por tiempo y consultas.
// @BasePath /
func main() {
	configPath := flag.String("config", "", "archivo YAML de configuración (opcional)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	lg := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.Log.Level),
		Format: logger.ParseFormat(cfg.Log.Format),
		App:    cfg.Log.App,
	})

	if err := run(cfg, lg); err != nil {
		lg.Error("server stopped with error", map[string]any{"err": err})
		os.Exit(1)
	}
}

func run(cfg *config.Config, lg logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := storage.Open(cfg.Storage)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			lg.Warn("close storage", map[string]any{"err": err})
		}
	}()

	// el esquema tiene que existir antes de que el scheduler liste colos
	if store.Migrator != nil {
		initCtx, cancel := context.WithTimeout(ctx, cfg.Actors.InitTimeout)
		err := store.Migrator.Migrate(initCtx)
		cancel()
		if err != nil {
			return err
		}
	}

	m := metrics.New()

	reg := care.NewRegistry(store, care.RegistryOptions{
		IdleTimeout:   cfg.Actors.IdleTimeout,
		SweepInterval: cfg.Actors.SweepInterval,
		Actor: care.ActorOptions{
			MailboxSize: cfg.Actors.MailboxSize,
			InitTimeout: cfg.Actors.InitTimeout,
			Logger:      lg,
			Metrics:     m,
		},
	})
	svc := care.NewService(reg, store, care.ServiceOptions{
		Concurrency: cfg.Degradation.Concurrency,
		Logger:      lg,
	})

	var verifier auth.AuthVerifier // nil => modo dev (X-Debug-User)
	if cfg.Auth.Enabled {
		client, err := github.NewClient(github.Config{
			BaseURL: cfg.Auth.GitHubBaseURL,
			Timeout: cfg.Auth.Timeout,
		})
		if err != nil {
			return err
		}
		verifier = github.NewVerifier(client)
	}

	srv := &http.Server{
		Addr: cfg.Addr(),
		Handler: router.NewRouter(router.Options{
			Config:       cfg,
			Logger:       lg,
			Metrics:      m,
			AuthVerifier: verifier,
			Care:         svc,
		}),
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		reg.Run(gctx)
		return nil
	})

	if cfg.Degradation.Enabled {
		g.Go(func() error {
			care.NewScheduler(svc, cfg.Degradation.Interval, lg).Run(gctx)
			return nil
		})
	}

	g.Go(func() error {
		lg.Info("starting server", map[string]any{
			"addr":    srv.Addr,
			"storage": cfg.Storage.Driver,
			"auth":    cfg.Auth.Enabled,
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		lg.Info("shutting down", nil)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
