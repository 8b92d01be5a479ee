package gameintegrationtests

import (
	"bytes"
	"context"
	"sync"
	"testing"

	gameservice "github.com/Black-And-White-Club/coinche-bot/app/modules/game/application"
	gamedomain "github.com/Black-And-White-Club/coinche-bot/app/modules/game/domain"
	gamedb "github.com/Black-And-White-Club/coinche-bot/app/modules/game/infrastructure/repositories"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createGame(t *testing.T, service *gameservice.GameService, threshold int) *gameservice.GameView {
	t.Helper()
	res, err := service.CreateGame(context.Background(), gameservice.CreateGameRequest{
		Team1Name:        "Ana/Ben",
		Team2Name:        "Cleo/Dan",
		VictoryThreshold: threshold,
	})
	require.NoError(t, err)
	require.NotNil(t, res.Success)
	return *res.Success
}

func TestServiceRoundLifecycle(t *testing.T) {
	deps := SetupTestGameService(t, gameservice.Settings{})
	ctx := context.Background()
	game := createGame(t, deps.Service, 400)

	added, err := deps.Service.AddRound(ctx, game.GameID, contractRound[0], contractRound[1])
	require.NoError(t, err)
	require.NotNil(t, added.Success)
	assert.Equal(t, [2]int{210, 50}, (*added.Success).Game.Totals)
	assert.Nil(t, (*added.Success).NewWinner)

	added, err = deps.Service.AddRound(ctx, game.GameID, failedRound[0], failedRound[1])
	require.NoError(t, err)
	require.NotNil(t, added.Success)
	assert.Equal(t, [2]int{210, 310}, (*added.Success).Game.Totals)

	added, err = deps.Service.AddRound(ctx, game.GameID, contractRound[0], contractRound[1])
	require.NoError(t, err)
	require.NotNil(t, added.Success)
	require.NotNil(t, (*added.Success).NewWinner, "420 against 360 should win a game to 400")
	assert.Equal(t, 0, *(*added.Success).NewWinner)

	stored, err := deps.Repo.GetByUUID(ctx, nil, game.GameID)
	require.NoError(t, err)
	require.Len(t, stored.Rounds, 3)
	assert.Equal(t, "100", stored.Rounds[2].Team1Contract)
	assert.Equal(t, 420, stored.Rounds[2].Team1Total)

	undone, err := deps.Service.UndoRound(ctx, game.GameID)
	require.NoError(t, err)
	require.NotNil(t, undone.Success)
	assert.Equal(t, 3, (*undone.Success).Round.Number)
	assert.Equal(t, [2]int{210, 310}, (*undone.Success).Game.Totals)

	restarted, err := deps.Service.RestartGame(ctx, game.GameID)
	require.NoError(t, err)
	require.NotNil(t, restarted.Success)
	assert.Empty(t, (*restarted.Success).Rounds)

	undone, err = deps.Service.UndoRound(ctx, game.GameID)
	require.NoError(t, err)
	require.NotNil(t, undone.Failure)
	assert.ErrorIs(t, *undone.Failure, gamedomain.ErrNoRounds)

	stored, err = deps.Repo.GetByUUID(ctx, nil, game.GameID)
	require.NoError(t, err)
	assert.Empty(t, stored.Rounds)
	assert.Equal(t, "Cleo/Dan", stored.Team2Name)
}

func TestServiceRejectedRoundIsNotStored(t *testing.T) {
	deps := SetupTestGameService(t, gameservice.Settings{})
	ctx := context.Background()
	game := createGame(t, deps.Service, 0)

	res, err := deps.Service.AddRound(ctx, game.GameID,
		gamedomain.Declaration{Contract: gamedomain.Contract80, Realized: gamedomain.Realized(9)},
		gamedomain.Declaration{Contract: gamedomain.Contract90, Realized: gamedomain.Realized(7)},
	)
	require.NoError(t, err)
	require.NotNil(t, res.Failure)
	assert.ErrorIs(t, *res.Failure, gamedomain.ErrMultipleContracts)

	stored, err := deps.Repo.GetByUUID(ctx, nil, game.GameID)
	require.NoError(t, err)
	assert.Empty(t, stored.Rounds)
	assert.Equal(t, gamedomain.DefaultVictoryThreshold, stored.VictoryThreshold)
}

func TestServiceUnknownGame(t *testing.T) {
	deps := SetupTestGameService(t, gameservice.Settings{})

	res, err := deps.Service.GetGame(context.Background(), uuid.New())
	require.NoError(t, err)
	require.NotNil(t, res.Failure)
	assert.ErrorIs(t, *res.Failure, gamedb.ErrNotFound)
}

func TestServiceSeatingRotatesDealer(t *testing.T) {
	deps := SetupTestGameService(t, gameservice.Settings{RequireSeating: true})
	ctx := context.Background()
	game := createGame(t, deps.Service, 0)

	res, err := deps.Service.AddRound(ctx, game.GameID, contractRound[0], contractRound[1])
	require.NoError(t, err)
	require.NotNil(t, res.Failure)
	assert.ErrorIs(t, *res.Failure, gamedomain.ErrSeatingRequired)

	seated, err := deps.Service.SetSeating(ctx, game.GameID, [4]string{"Ana", "Cleo", "Ben", "Dan"}, 3)
	require.NoError(t, err)
	require.NotNil(t, seated.Success)
	assert.Equal(t, "Dan", (*seated.Success).Dealer)

	res, err = deps.Service.AddRound(ctx, game.GameID, contractRound[0], contractRound[1])
	require.NoError(t, err)
	require.NotNil(t, res.Success)
	assert.Equal(t, "Ana", (*res.Success).Game.Dealer)

	stored, err := deps.Repo.GetByUUID(ctx, nil, game.GameID)
	require.NoError(t, err)
	require.NotNil(t, stored.Seating)
	assert.Equal(t, 0, stored.Seating.Dealer)
}

func TestServiceConcurrentRoundsAreSerialised(t *testing.T) {
	deps := SetupTestGameService(t, gameservice.Settings{})
	ctx := context.Background()
	game := createGame(t, deps.Service, 100000)

	const writers = 8
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := deps.Service.AddRound(ctx, game.GameID, contractRound[0], contractRound[1])
			if err == nil && res.Failure != nil {
				err = *res.Failure
			}
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	res, err := deps.Service.GetGame(ctx, game.GameID)
	require.NoError(t, err)
	require.NotNil(t, res.Success)
	view := *res.Success
	require.Len(t, view.Rounds, writers)
	for i, r := range view.Rounds {
		assert.Equal(t, i+1, r.Number)
	}
	assert.Equal(t, [2]int{210 * writers, 50 * writers}, view.Totals)
}

func TestServiceScoresheetRoundTrip(t *testing.T) {
	deps := SetupTestGameService(t, gameservice.Settings{})
	ctx := context.Background()
	game := createGame(t, deps.Service, 1500)

	for _, round := range [][2]gamedomain.Declaration{contractRound, failedRound, contractRound} {
		res, err := deps.Service.AddRound(ctx, game.GameID, round[0], round[1])
		require.NoError(t, err)
		require.NotNil(t, res.Success)
	}

	exported, err := deps.Service.ExportScoresheet(ctx, game.GameID)
	require.NoError(t, err)
	require.NotNil(t, exported.Success)

	imported, err := deps.Service.ImportScoresheet(ctx, bytes.NewReader(*exported.Success))
	require.NoError(t, err)
	require.NotNil(t, imported.Success)
	copyView := *imported.Success
	assert.NotEqual(t, game.GameID, copyView.GameID)
	assert.Equal(t, 1500, copyView.VictoryThreshold)
	assert.Equal(t, [2]int{420, 360}, copyView.Totals)

	stats, err := deps.Service.GetStatistics(ctx, copyView.GameID)
	require.NoError(t, err)
	require.NotNil(t, stats.Success)
	assert.Equal(t, 3, (*stats.Success).TotalRounds)
	assert.Equal(t, 3, (*stats.Success).Teams[0].Contracts)
}
