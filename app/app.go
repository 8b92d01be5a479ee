package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/Black-And-White-Club/coinche-bot/app/modules/game"
	"github.com/Black-And-White-Club/coinche-bot/app/shared/attr"
	"github.com/Black-And-White-Club/coinche-bot/app/shared/eventbus"
	"github.com/Black-And-White-Club/coinche-bot/app/shared/observability"
	"github.com/Black-And-White-Club/coinche-bot/config"
	"github.com/Black-And-White-Club/coinche-bot/db/bundb"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/uptrace/bun"
)

const shutdownTimeout = 10 * time.Second

// App owns the process-wide resources and the game module.
type App struct {
	Config        *config.Config
	Observability *observability.Provider
	DB            *bun.DB
	EventBus      eventbus.EventBus
	Router        *message.Router
	HTTPServer    *http.Server
	GameModule    *game.Module

	logger *slog.Logger
	wg     sync.WaitGroup
}

// NewApp loads the configuration and wires every dependency.
func NewApp(ctx context.Context, configPath string) (*App, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	obs, err := observability.Init(ctx, config.ToObsConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize observability: %w", err)
	}
	logger := obs.Logger

	a := &App{Config: cfg, Observability: obs, logger: logger}

	a.DB, err = bundb.NewBunDB(ctx, cfg.Postgres, logger)
	if err != nil {
		_ = a.Close(ctx)
		return nil, err
	}

	a.EventBus, err = eventbus.NewEventBus(ctx, cfg.NATS.URL, logger)
	if err != nil {
		_ = a.Close(ctx)
		return nil, fmt.Errorf("failed to create event bus: %w", err)
	}

	a.Router, err = message.NewRouter(message.RouterConfig{CloseTimeout: shutdownTimeout}, watermill.NewSlogLogger(logger))
	if err != nil {
		_ = a.Close(ctx)
		return nil, fmt.Errorf("failed to create Watermill router: %w", err)
	}

	httpRouter := chi.NewRouter()
	httpRouter.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer)
	httpRouter.Get("/healthz", a.handleHealth)

	a.GameModule, err = game.NewGameModule(ctx, cfg, obs, a.EventBus, a.Router, httpRouter, a.DB)
	if err != nil {
		_ = a.Close(ctx)
		return nil, fmt.Errorf("failed to initialize game module: %w", err)
	}

	a.HTTPServer = &http.Server{
		Addr:              cfg.HTTP.Address,
		Handler:           httpRouter,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.InfoContext(ctx, "Application initialized",
		attr.String("http_address", cfg.HTTP.Address),
		attr.String("environment", cfg.Observability.Environment),
	)
	return a, nil
}

// Run serves events and HTTP until ctx is cancelled or a component fails.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 2)

	a.wg.Add(1)
	go a.GameModule.Run(ctx, &a.wg)

	go func() {
		if err := a.Router.Run(ctx); err != nil {
			errCh <- fmt.Errorf("watermill router: %w", err)
		}
	}()

	go func() {
		a.logger.Info("HTTP server listening", attr.String("address", a.HTTPServer.Addr))
		if err := a.HTTPServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("Shutdown signal received")
		return nil
	case err := <-errCh:
		a.logger.Error("Component failed", attr.Error(err))
		return err
	}
}

// Close releases resources in reverse order of creation.
func (a *App) Close(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	var errs []error
	if a.HTTPServer != nil {
		errs = append(errs, a.HTTPServer.Shutdown(ctx))
	}
	if a.GameModule != nil {
		errs = append(errs, a.GameModule.Close())
		a.wg.Wait()
	} else if a.Router != nil {
		errs = append(errs, a.Router.Close())
	}
	if a.EventBus != nil {
		errs = append(errs, a.EventBus.Close())
	}
	if a.DB != nil {
		errs = append(errs, a.DB.Close())
	}
	if a.Observability != nil {
		errs = append(errs, a.Observability.Shutdown(ctx))
	}
	return errors.Join(errs...)
}

func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := a.DB.PingContext(r.Context()); err != nil {
		http.Error(w, "database unavailable", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
