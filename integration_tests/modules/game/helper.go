package gameintegrationtests

import (
	"sync"
	"testing"

	gameservice "github.com/Black-And-White-Club/coinche-bot/app/modules/game/application"
	gamedomain "github.com/Black-And-White-Club/coinche-bot/app/modules/game/domain"
	gamemetrics "github.com/Black-And-White-Club/coinche-bot/app/modules/game/infrastructure/metrics"
	gamedb "github.com/Black-And-White-Club/coinche-bot/app/modules/game/infrastructure/repositories"
	"github.com/Black-And-White-Club/coinche-bot/integration_tests/testutils"
	"go.opentelemetry.io/otel/trace/noop"
)

var (
	sharedEnv *testutils.TestEnvironment
	envErr    error
	envOnce   sync.Once
)

// GetTestEnv starts the containers on first use and empties the tables.
func GetTestEnv(t *testing.T) *testutils.TestEnvironment {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container backed test in short mode")
	}
	envOnce.Do(func() {
		sharedEnv, envErr = testutils.NewTestEnvironment(testutils.WithNATS())
	})
	if envErr != nil {
		t.Fatalf("failed to set up test environment: %v", envErr)
	}
	if err := sharedEnv.Reset(sharedEnv.Ctx); err != nil {
		t.Fatalf("failed to reset test environment: %v", err)
	}
	return sharedEnv
}

// GameServiceDeps bundles a service wired to the test database.
type GameServiceDeps struct {
	Env     *testutils.TestEnvironment
	Repo    gamedb.Repository
	Service *gameservice.GameService
}

// SetupTestGameService builds the service over the real repository.
func SetupTestGameService(t *testing.T, settings gameservice.Settings) GameServiceDeps {
	t.Helper()
	env := GetTestEnv(t)
	if settings.DefaultVictoryThreshold == 0 {
		settings.DefaultVictoryThreshold = gamedomain.DefaultVictoryThreshold
	}
	repo := gamedb.NewRepository(env.DB)
	service := gameservice.NewGameService(
		repo,
		env.Logger,
		gamemetrics.NewNoop(),
		noop.NewTracerProvider().Tracer("integration"),
		env.DB,
		settings,
	)
	return GameServiceDeps{Env: env, Repo: repo, Service: service}
}

// Scored rounds used across the suite. One round of contractRound yields
// 210 points to team one and 50 to team two.
var (
	contractRound = [2]gamedomain.Declaration{
		{Contract: gamedomain.Contract100, Realized: gamedomain.Realized(11)},
		{Realized: gamedomain.Realized(5)},
	}
	failedRound = [2]gamedomain.Declaration{
		{Contract: gamedomain.Contract100, Realized: gamedomain.Realized(6)},
		{Realized: gamedomain.Realized(10)},
	}
)
