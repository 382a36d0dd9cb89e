package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"pig-farm/internal/adapters/auth/iam"
	"pig-farm/internal/adapters/capabilities/plansfeatures"
	"pig-farm/internal/adapters/storage/sqldb"
	"pig-farm/internal/config"
	"pig-farm/internal/platform/logger"
	"pig-farm/internal/ports/auth"
	"pig-farm/internal/ports/capabilities"
	"pig-farm/internal/router"
)

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	log := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.Log.Level),
		Format: logger.ParseFormat(cfg.Log.Format),
		App:    cfg.App,
	})
	defer logger.Sync(log)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	opts := router.Options{Config: cfg, Logger: log}

	if cfg.DB.Driver != "" {
		db, err := sqldb.Open(ctx, cfg.DB.Driver, cfg.DB.DSN)
		if err != nil {
			return err
		}
		defer db.Close()
		opts.DB = db
		log.Info("storage ready", map[string]any{"driver": cfg.DB.Driver})
	} else {
		log.Warn("no DB configured, using in-memory storage", nil)
	}

	if opts.AuthVerifier, err = newVerifier(cfg); err != nil {
		return err
	}
	if opts.Plans, err = newPlans(cfg); err != nil {
		return err
	}

	h, err := router.NewRouter(opts)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      h,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting server", map[string]any{"addr": srv.Addr})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		log.Info("shutting down", nil)
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// newVerifier devuelve nil (modo dev con X-Debug-User-ID) si no hay IAM.
func newVerifier(cfg config.Config) (auth.AuthVerifier, error) {
	if cfg.IAM.BaseURL == "" {
		return nil, nil
	}
	client, err := iam.NewClient(iam.Config{
		BaseURL: cfg.IAM.BaseURL,
		APIKey:  cfg.IAM.APIKey,
		Timeout: cfg.IAM.Timeout,
	})
	if err != nil {
		return nil, err
	}
	return iam.NewVerifier(client), nil
}

// newPlans devuelve nil para que el router use la matriz fija.
func newPlans(cfg config.Config) (capabilities.CapabilitiesResolver, error) {
	if cfg.Plans.BaseURL == "" {
		return nil, nil
	}
	client, err := plansfeatures.NewClient(plansfeatures.Config{
		BaseURL: cfg.Plans.BaseURL,
		APIKey:  cfg.Plans.APIKey,
		Timeout: cfg.Plans.Timeout,
	})
	if err != nil {
		return nil, err
	}
	return plansfeatures.NewResolver(client), nil
}
