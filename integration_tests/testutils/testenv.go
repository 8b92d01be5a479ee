// Package testutils provisions the containers and connections shared by the
// integration suites.
package testutils

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/Black-And-White-Club/coinche-bot/app/modules/game/infrastructure/repositories/migrations"
	"github.com/Black-And-White-Club/coinche-bot/app/shared/eventbus"
	"github.com/Black-And-White-Club/coinche-bot/integration_tests/containers"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/migrate"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// TestEnvironment holds a migrated Postgres database and, when requested, a
// JetStream backed EventBus.
type TestEnvironment struct {
	Ctx           context.Context
	Cancel        context.CancelFunc
	PgContainer   *postgres.PostgresContainer
	NatsContainer testcontainers.Container
	DB            *bun.DB
	EventBus      eventbus.EventBus
	NatsURL       string
	Logger        *slog.Logger
}

// Option adjusts what NewTestEnvironment starts.
type Option func(*options)

type options struct {
	withNATS bool
}

// WithNATS also starts a NATS container and connects an EventBus to it.
func WithNATS() Option {
	return func(o *options) { o.withNATS = true }
}

// NewTestEnvironment starts the containers and runs every game migration.
func NewTestEnvironment(opts ...Option) (*TestEnvironment, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	env := &TestEnvironment{
		Ctx:    ctx,
		Cancel: cancel,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	pgContainer, pgConnStr, err := containers.SetupPostgresContainer(ctx)
	if err != nil {
		cancel()
		return nil, err
	}
	env.PgContainer = pgContainer

	sqlDB, err := sql.Open("pgx", pgConnStr)
	if err != nil {
		env.Cleanup()
		return nil, fmt.Errorf("failed to open sql DB connection: %w", err)
	}
	env.DB = bun.NewDB(sqlDB, pgdialect.New())

	if err := runMigrations(ctx, env.DB); err != nil {
		env.Cleanup()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	if o.withNATS {
		natsContainer, natsURL, err := containers.SetupNatsContainer(ctx)
		if err != nil {
			env.Cleanup()
			return nil, err
		}
		env.NatsContainer = natsContainer
		env.NatsURL = natsURL

		bus, err := eventbus.NewEventBus(ctx, natsURL, env.Logger)
		if err != nil {
			env.Cleanup()
			return nil, fmt.Errorf("failed to create EventBus: %w", err)
		}
		env.EventBus = bus
	}

	return env, nil
}

func runMigrations(ctx context.Context, db *bun.DB) error {
	migrator := migrate.NewMigrator(db, gamemigrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		return fmt.Errorf("failed to init migrator: %w", err)
	}
	if _, err := migrator.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to migrate game tables: %w", err)
	}
	return nil
}

// Reset empties the game tables between tests.
func (env *TestEnvironment) Reset(ctx context.Context) error {
	if _, err := env.DB.ExecContext(ctx, "TRUNCATE TABLE game_rounds, games CASCADE"); err != nil {
		return fmt.Errorf("failed to truncate game tables: %w", err)
	}
	return nil
}

// Cleanup closes every connection and terminates the containers.
func (env *TestEnvironment) Cleanup() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if closer, ok := env.EventBus.(io.Closer); ok {
		_ = closer.Close()
	}
	if env.DB != nil {
		_ = env.DB.Close()
	}
	if env.NatsContainer != nil {
		_ = env.NatsContainer.Terminate(ctx)
	}
	if env.PgContainer != nil {
		_ = env.PgContainer.Terminate(ctx)
	}
	if env.Cancel != nil {
		env.Cancel()
	}
}
