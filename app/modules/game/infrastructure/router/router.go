package gamerouter

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	gameevents "github.com/Black-And-White-Club/coinche-bot/app/modules/game/events"
	gamehandlers "github.com/Black-And-White-Club/coinche-bot/app/modules/game/infrastructure/handlers"
	"github.com/Black-And-White-Club/coinche-bot/app/shared/eventbus"
	"github.com/Black-And-White-Club/coinche-bot/app/shared/handlerwrapper"
	"github.com/ThreeDotsLabs/watermill/components/metrics"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"
)

const (
	TestEnvironmentFlag  = "APP_ENV"
	TestEnvironmentValue = "test"
)

// GameRouter handles Watermill handler registration for game events.
type GameRouter struct {
	logger         *slog.Logger
	Router         *message.Router
	subscriber     eventbus.EventBus
	publisher      eventbus.EventBus
	tracer         trace.Tracer
	metricsBuilder *metrics.PrometheusMetricsBuilder
}

// NewGameRouter creates a new GameRouter. Router metrics are skipped when
// no registry is given or APP_ENV is "test".
func NewGameRouter(
	logger *slog.Logger,
	router *message.Router,
	subscriber eventbus.EventBus,
	publisher eventbus.EventBus,
	tracer trace.Tracer,
	prometheusRegistry prometheus.Registerer,
) *GameRouter {
	inTestEnv := os.Getenv(TestEnvironmentFlag) == TestEnvironmentValue

	var metricsBuilder *metrics.PrometheusMetricsBuilder
	if prometheusRegistry != nil && !inTestEnv {
		builder := metrics.NewPrometheusMetricsBuilder(prometheusRegistry, "coinche", "")
		metricsBuilder = &builder
	}
	return &GameRouter{
		logger:         logger,
		Router:         router,
		subscriber:     subscriber,
		publisher:      publisher,
		tracer:         tracer,
		metricsBuilder: metricsBuilder,
	}
}

// Configure provisions the game stream, adds middleware and registers handlers.
func (r *GameRouter) Configure(ctx context.Context, handlers gamehandlers.Handlers) error {
	if err := r.subscriber.CreateStream(ctx, gameevents.StreamName, gameevents.StreamSubjects...); err != nil {
		return fmt.Errorf("failed to create %s stream: %w", gameevents.StreamName, err)
	}

	if r.metricsBuilder != nil {
		r.logger.Info("Adding Prometheus router metrics middleware")
		r.metricsBuilder.AddPrometheusRouterMetrics(r.Router)
	} else {
		r.logger.Info("Skipping Prometheus router metrics middleware - either in test environment or metrics not configured")
	}

	r.Router.AddMiddleware(
		middleware.CorrelationID,
		middleware.Recoverer,
		middleware.Retry{MaxRetries: 3}.Middleware,
	)

	r.registerHandlers(handlers)
	return nil
}

type handlerDeps struct {
	router     *message.Router
	subscriber eventbus.EventBus
	publisher  eventbus.EventBus
	logger     *slog.Logger
	tracer     trace.Tracer
}

func (r *GameRouter) registerHandlers(handlers gamehandlers.Handlers) {
	deps := handlerDeps{
		router:     r.Router,
		subscriber: r.subscriber,
		publisher:  r.publisher,
		logger:     r.logger,
		tracer:     r.tracer,
	}

	r.logger.Info("Registering game module handlers",
		slog.String("create_subject", gameevents.GameCreateRequestedV1),
		slog.String("add_round_subject", gameevents.RoundAddRequestedV1),
		slog.String("undo_round_subject", gameevents.RoundUndoRequestedV1),
		slog.String("restart_subject", gameevents.GameRestartRequestedV1),
	)

	registerHandler(deps, gameevents.GameCreateRequestedV1, handlers.HandleGameCreateRequested)
	registerHandler(deps, gameevents.RoundAddRequestedV1, handlers.HandleRoundAddRequested)
	registerHandler(deps, gameevents.RoundUndoRequestedV1, handlers.HandleRoundUndoRequested)
	registerHandler(deps, gameevents.GameRestartRequestedV1, handlers.HandleGameRestartRequested)

	r.logger.Info("Game module handlers registered successfully")
}

// registerHandler is a generic function for type-safe Watermill handler registration.
// Output messages carry their topic in metadata and go through the event bus.
func registerHandler[T any](
	deps handlerDeps,
	topic string,
	handler func(context.Context, *T) ([]handlerwrapper.Result, error),
) {
	handlerName := "game." + topic

	deps.router.AddHandler(
		handlerName,
		topic,
		deps.subscriber,
		"",
		deps.publisher,
		handlerwrapper.WrapTransformingTyped(
			handlerName,
			deps.logger,
			deps.tracer,
			handler,
		),
	)
}

// Close shuts down the router.
func (r *GameRouter) Close() error {
	return r.Router.Close()
}
