package game

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	gameservice "github.com/Black-And-White-Club/coinche-bot/app/modules/game/application"
	gamehandlers "github.com/Black-And-White-Club/coinche-bot/app/modules/game/infrastructure/handlers"
	gamehttp "github.com/Black-And-White-Club/coinche-bot/app/modules/game/infrastructure/http"
	gamemetrics "github.com/Black-And-White-Club/coinche-bot/app/modules/game/infrastructure/metrics"
	gamedb "github.com/Black-And-White-Club/coinche-bot/app/modules/game/infrastructure/repositories"
	gamerouter "github.com/Black-And-White-Club/coinche-bot/app/modules/game/infrastructure/router"
	"github.com/Black-And-White-Club/coinche-bot/app/shared/eventbus"
	"github.com/Black-And-White-Club/coinche-bot/app/shared/observability"
	"github.com/Black-And-White-Club/coinche-bot/config"
	"github.com/Black-And-White-Club/coinche-bot/pkg/jwt"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/uptrace/bun"
	"golang.org/x/time/rate"
)

// Module represents the game module.
type Module struct {
	GameService gameservice.Service
	GameRouter  *gamerouter.GameRouter
	logger      *slog.Logger

	// done is cancelled by Close.
	done       context.Context
	cancelFunc context.CancelFunc
}

func newModule(service gameservice.Service, router *gamerouter.GameRouter, logger *slog.Logger) *Module {
	done, cancel := context.WithCancel(context.Background())
	return &Module{
		GameService: service,
		GameRouter:  router,
		logger:      logger,
		done:        done,
		cancelFunc:  cancel,
	}
}

// NewGameModule creates and initializes a new game module.
func NewGameModule(
	ctx context.Context,
	cfg *config.Config,
	obs *observability.Provider,
	eventBus eventbus.EventBus,
	router *message.Router,
	httpRouter chi.Router,
	db *bun.DB,
) (*Module, error) {
	logger := obs.Logger
	tracer := obs.Tracer

	logger.InfoContext(ctx, "game.NewGameModule initializing")

	// 1. Initialize Repository
	repo := gamedb.NewRepository(db)

	// 2. Initialize Metrics
	var (
		metrics    gamemetrics.GameMetrics = gamemetrics.NewNoop()
		registerer prometheus.Registerer
	)
	if obs.Registry != nil {
		registerer = obs.Registry
		promMetrics, err := gamemetrics.NewPrometheus(obs.Registry)
		if err != nil {
			return nil, fmt.Errorf("failed to register game metrics: %w", err)
		}
		metrics = promMetrics
	}

	// 3. Initialize Service
	service := gameservice.NewGameService(repo, logger, metrics, tracer, db, gameservice.Settings{
		DefaultVictoryThreshold: cfg.Game.VictoryThreshold,
		RequireSeating:          cfg.Game.RequireSeating,
	})

	// 4. Initialize Handlers
	handlers := gamehandlers.NewGameHandlers(service, logger, tracer)

	// 5. Initialize Router
	gameRouter := gamerouter.NewGameRouter(
		logger,
		router,
		eventBus,
		eventBus,
		tracer,
		registerer,
	)
	if err := gameRouter.Configure(ctx, handlers); err != nil {
		return nil, fmt.Errorf("failed to configure game router: %w", err)
	}

	// 6. Register HTTP routes
	if httpRouter != nil {
		gamehttp.RegisterRoutes(httpRouter, gamehttp.NewGameHTTPHandlers(service, logger, tracer), gamehttp.RouteConfig{
			AllowedOrigins: cfg.HTTP.AllowedOrigins,
			Limiter:        gamehttp.NewIPRateLimiter(rate.Limit(cfg.HTTP.RateLimitRPS), cfg.HTTP.RateLimitBurst),
			Tokens:         jwt.NewService(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.DefaultTTL),
		})
	}

	return newModule(service, gameRouter, logger), nil
}

// Run starts the game module.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	m.logger.InfoContext(ctx, "Starting game module")

	if wg != nil {
		defer wg.Done()
	}

	select {
	case <-ctx.Done():
	case <-m.done.Done():
	}
	m.logger.InfoContext(ctx, "Game module goroutine stopped")
}

// Close shuts down the game module.
func (m *Module) Close() error {
	m.logger.Info("Stopping game module")

	m.cancelFunc()

	if m.GameRouter != nil {
		if err := m.GameRouter.Close(); err != nil {
			m.logger.Error("Error closing GameRouter from module", "error", err)
			return fmt.Errorf("error closing GameRouter: %w", err)
		}
	}

	m.logger.Info("Game module stopped")
	return nil
}
