package gameservice

import (
	"context"
	"io"

	gamedomain "github.com/Black-And-White-Club/coinche-bot/app/modules/game/domain"
	"github.com/Black-And-White-Club/coinche-bot/app/shared/results"
	"github.com/google/uuid"
)

// Service owns game sessions: it loads a session, applies one transition and
// persists the outcome. Domain refusals come back as failure results.
type Service interface {
	CreateGame(ctx context.Context, req CreateGameRequest) (results.OperationResult[*GameView, error], error)
	GetGame(ctx context.Context, gameID uuid.UUID) (results.OperationResult[*GameView, error], error)
	AddRound(ctx context.Context, gameID uuid.UUID, team1, team2 gamedomain.Declaration) (results.OperationResult[*RoundAdded, error], error)
	UndoRound(ctx context.Context, gameID uuid.UUID) (results.OperationResult[*RoundUndone, error], error)
	RestartGame(ctx context.Context, gameID uuid.UUID) (results.OperationResult[*GameView, error], error)
	RenameTeam(ctx context.Context, gameID uuid.UUID, team int, name string) (results.OperationResult[*GameView, error], error)
	SetSeating(ctx context.Context, gameID uuid.UUID, players [4]string, dealer int) (results.OperationResult[*GameView, error], error)
	GetStatistics(ctx context.Context, gameID uuid.UUID) (results.OperationResult[*gamedomain.Statistics, error], error)
	RenderChart(ctx context.Context, gameID uuid.UUID) (results.OperationResult[[]byte, error], error)
	ExportScoresheet(ctx context.Context, gameID uuid.UUID) (results.OperationResult[[]byte, error], error)
	ImportScoresheet(ctx context.Context, r io.Reader) (results.OperationResult[*GameView, error], error)
}
