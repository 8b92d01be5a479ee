package gamehandlers

import (
	"context"
	"io"

	gameservice "github.com/Black-And-White-Club/coinche-bot/app/modules/game/application"
	gamedomain "github.com/Black-And-White-Club/coinche-bot/app/modules/game/domain"
	"github.com/Black-And-White-Club/coinche-bot/app/shared/results"
	"github.com/google/uuid"
)

// ------------------------
// Fake Game Service
// ------------------------

type FakeGameService struct {
	trace []string

	CreateGameFunc  func(ctx context.Context, req gameservice.CreateGameRequest) (results.OperationResult[*gameservice.GameView, error], error)
	AddRoundFunc    func(ctx context.Context, gameID uuid.UUID, team1, team2 gamedomain.Declaration) (results.OperationResult[*gameservice.RoundAdded, error], error)
	UndoRoundFunc   func(ctx context.Context, gameID uuid.UUID) (results.OperationResult[*gameservice.RoundUndone, error], error)
	RestartGameFunc func(ctx context.Context, gameID uuid.UUID) (results.OperationResult[*gameservice.GameView, error], error)
}

func NewFakeGameService() *FakeGameService {
	return &FakeGameService{
		trace: []string{},
	}
}

func (f *FakeGameService) record(step string) {
	f.trace = append(f.trace, step)
}

// --- Service Interface Implementation ---

func (f *FakeGameService) CreateGame(ctx context.Context, req gameservice.CreateGameRequest) (results.OperationResult[*gameservice.GameView, error], error) {
	f.record("CreateGame")
	if f.CreateGameFunc != nil {
		return f.CreateGameFunc(ctx, req)
	}
	return results.OperationResult[*gameservice.GameView, error]{}, nil
}

func (f *FakeGameService) GetGame(ctx context.Context, gameID uuid.UUID) (results.OperationResult[*gameservice.GameView, error], error) {
	f.record("GetGame")
	return results.OperationResult[*gameservice.GameView, error]{}, nil
}

func (f *FakeGameService) AddRound(ctx context.Context, gameID uuid.UUID, team1, team2 gamedomain.Declaration) (results.OperationResult[*gameservice.RoundAdded, error], error) {
	f.record("AddRound")
	if f.AddRoundFunc != nil {
		return f.AddRoundFunc(ctx, gameID, team1, team2)
	}
	return results.OperationResult[*gameservice.RoundAdded, error]{}, nil
}

func (f *FakeGameService) UndoRound(ctx context.Context, gameID uuid.UUID) (results.OperationResult[*gameservice.RoundUndone, error], error) {
	f.record("UndoRound")
	if f.UndoRoundFunc != nil {
		return f.UndoRoundFunc(ctx, gameID)
	}
	return results.OperationResult[*gameservice.RoundUndone, error]{}, nil
}

func (f *FakeGameService) RestartGame(ctx context.Context, gameID uuid.UUID) (results.OperationResult[*gameservice.GameView, error], error) {
	f.record("RestartGame")
	if f.RestartGameFunc != nil {
		return f.RestartGameFunc(ctx, gameID)
	}
	return results.OperationResult[*gameservice.GameView, error]{}, nil
}

func (f *FakeGameService) RenameTeam(ctx context.Context, gameID uuid.UUID, team int, name string) (results.OperationResult[*gameservice.GameView, error], error) {
	f.record("RenameTeam")
	return results.OperationResult[*gameservice.GameView, error]{}, nil
}

func (f *FakeGameService) SetSeating(ctx context.Context, gameID uuid.UUID, players [4]string, dealer int) (results.OperationResult[*gameservice.GameView, error], error) {
	f.record("SetSeating")
	return results.OperationResult[*gameservice.GameView, error]{}, nil
}

func (f *FakeGameService) GetStatistics(ctx context.Context, gameID uuid.UUID) (results.OperationResult[*gamedomain.Statistics, error], error) {
	f.record("GetStatistics")
	return results.OperationResult[*gamedomain.Statistics, error]{}, nil
}

func (f *FakeGameService) RenderChart(ctx context.Context, gameID uuid.UUID) (results.OperationResult[[]byte, error], error) {
	f.record("RenderChart")
	return results.OperationResult[[]byte, error]{}, nil
}

func (f *FakeGameService) ExportScoresheet(ctx context.Context, gameID uuid.UUID) (results.OperationResult[[]byte, error], error) {
	f.record("ExportScoresheet")
	return results.OperationResult[[]byte, error]{}, nil
}

func (f *FakeGameService) ImportScoresheet(ctx context.Context, r io.Reader) (results.OperationResult[*gameservice.GameView, error], error) {
	f.record("ImportScoresheet")
	return results.OperationResult[*gameservice.GameView, error]{}, nil
}

// --- Accessors for assertions ---

func (f *FakeGameService) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

var _ gameservice.Service = (*FakeGameService)(nil)
