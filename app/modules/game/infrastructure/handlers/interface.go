package gamehandlers

import (
	"context"

	gameevents "github.com/Black-And-White-Club/coinche-bot/app/modules/game/events"
	"github.com/Black-And-White-Club/coinche-bot/app/shared/handlerwrapper"
)

// Handlers consumes game request events.
type Handlers interface {
	HandleGameCreateRequested(ctx context.Context, payload *gameevents.GameCreateRequestedPayloadV1) ([]handlerwrapper.Result, error)
	HandleRoundAddRequested(ctx context.Context, payload *gameevents.RoundAddRequestedPayloadV1) ([]handlerwrapper.Result, error)
	HandleRoundUndoRequested(ctx context.Context, payload *gameevents.RoundUndoRequestedPayloadV1) ([]handlerwrapper.Result, error)
	HandleGameRestartRequested(ctx context.Context, payload *gameevents.GameRestartRequestedPayloadV1) ([]handlerwrapper.Result, error)
}
