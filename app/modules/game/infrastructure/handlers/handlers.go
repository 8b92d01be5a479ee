package gamehandlers

import (
	"context"
	"log/slog"

	gameservice "github.com/Black-And-White-Club/coinche-bot/app/modules/game/application"
	gameevents "github.com/Black-And-White-Club/coinche-bot/app/modules/game/events"
	"github.com/Black-And-White-Club/coinche-bot/app/shared/attr"
	"github.com/Black-And-White-Club/coinche-bot/app/shared/handlerwrapper"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
)

// GameHandlers implements the Handlers interface.
type GameHandlers struct {
	service gameservice.Service
	logger  *slog.Logger
	tracer  trace.Tracer
}

// NewGameHandlers creates a new GameHandlers instance.
func NewGameHandlers(
	service gameservice.Service,
	logger *slog.Logger,
	tracer trace.Tracer,
) Handlers {
	return &GameHandlers{
		service: service,
		logger:  logger,
		tracer:  tracer,
	}
}

// HandleGameCreateRequested creates a game.
func (h *GameHandlers) HandleGameCreateRequested(ctx context.Context, payload *gameevents.GameCreateRequestedPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.tracer.Start(ctx, "GameHandlers.HandleGameCreateRequested")
	defer span.End()

	result, err := h.service.CreateGame(ctx, gameservice.CreateGameRequest{
		Team1Name:        payload.Team1Name,
		Team2Name:        payload.Team2Name,
		VictoryThreshold: payload.VictoryThreshold,
	})
	if err != nil {
		return nil, err
	}
	if result.IsFailure() {
		return failure(gameevents.GameCreationFailedV1, uuid.Nil, *result.Failure), nil
	}

	game := *result.Success
	return []handlerwrapper.Result{{
		Topic: gameevents.GameCreatedV1,
		Payload: &gameevents.GameCreatedPayloadV1{
			GameID:           game.GameID,
			Teams:            game.Teams,
			VictoryThreshold: game.VictoryThreshold,
		},
	}}, nil
}

// HandleRoundAddRequested scores a round. A threshold crossing adds a game.won event.
func (h *GameHandlers) HandleRoundAddRequested(ctx context.Context, payload *gameevents.RoundAddRequestedPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.tracer.Start(ctx, "GameHandlers.HandleRoundAddRequested")
	defer span.End()

	result, err := h.service.AddRound(ctx, payload.GameID, payload.Team1, payload.Team2)
	if err != nil {
		return nil, err
	}
	if result.IsFailure() {
		h.logger.InfoContext(ctx, "Round rejected",
			attr.ExtractCorrelationID(ctx),
			attr.String("game_id", payload.GameID.String()),
			attr.Error(*result.Failure),
		)
		return failure(gameevents.RoundRejectedV1, payload.GameID, *result.Failure), nil
	}

	added := *result.Success
	out := []handlerwrapper.Result{{
		Topic: gameevents.RoundAddedV1,
		Payload: &gameevents.RoundAddedPayloadV1{
			GameID: payload.GameID,
			Round:  added.Round,
			Totals: added.Game.Totals,
			Dealer: added.Game.Dealer,
		},
	}}
	if added.NewWinner != nil {
		team := *added.NewWinner
		out = append(out, handlerwrapper.Result{
			Topic: gameevents.GameWonV1,
			Payload: &gameevents.GameWonPayloadV1{
				GameID:   payload.GameID,
				Team:     team + 1,
				TeamName: added.Game.Teams[team],
				Totals:   added.Game.Totals,
				Round:    added.Round.Number,
			},
		})
	}
	return out, nil
}

// HandleRoundUndoRequested removes the last round.
func (h *GameHandlers) HandleRoundUndoRequested(ctx context.Context, payload *gameevents.RoundUndoRequestedPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.tracer.Start(ctx, "GameHandlers.HandleRoundUndoRequested")
	defer span.End()

	result, err := h.service.UndoRound(ctx, payload.GameID)
	if err != nil {
		return nil, err
	}
	if result.IsFailure() {
		return failure(gameevents.RoundUndoFailedV1, payload.GameID, *result.Failure), nil
	}

	undone := *result.Success
	return []handlerwrapper.Result{{
		Topic: gameevents.RoundUndoneV1,
		Payload: &gameevents.RoundUndonePayloadV1{
			GameID: payload.GameID,
			Round:  undone.Round,
			Totals: undone.Game.Totals,
		},
	}}, nil
}

// HandleGameRestartRequested clears a game's rounds.
func (h *GameHandlers) HandleGameRestartRequested(ctx context.Context, payload *gameevents.GameRestartRequestedPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.tracer.Start(ctx, "GameHandlers.HandleGameRestartRequested")
	defer span.End()

	result, err := h.service.RestartGame(ctx, payload.GameID)
	if err != nil {
		return nil, err
	}
	if result.IsFailure() {
		return failure(gameevents.GameRestartFailedV1, payload.GameID, *result.Failure), nil
	}

	return []handlerwrapper.Result{{
		Topic:   gameevents.GameRestartedV1,
		Payload: &gameevents.GameRestartedPayloadV1{GameID: payload.GameID},
	}}, nil
}

func failure(topic string, gameID uuid.UUID, reason error) []handlerwrapper.Result {
	return []handlerwrapper.Result{{
		Topic: topic,
		Payload: &gameevents.FailurePayloadV1{
			GameID: gameID,
			Reason: reason.Error(),
		},
	}}
}
