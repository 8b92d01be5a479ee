package gamedb

import (
	"context"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Repository defines the contract for game persistence.
type Repository interface {
	// GetByUUID loads a game and its rounds in order.
	GetByUUID(ctx context.Context, db bun.IDB, gameID uuid.UUID) (*Game, error)

	// GetForUpdate loads a game like GetByUUID and locks its row until the transaction ends.
	GetForUpdate(ctx context.Context, db bun.IDB, gameID uuid.UUID) (*Game, error)

	// Upsert creates or updates the game row. Rounds are not written.
	Upsert(ctx context.Context, db bun.IDB, game *Game) error

	// InsertRounds appends round records.
	InsertRounds(ctx context.Context, db bun.IDB, rounds ...*RoundRecord) error

	// DeleteRound removes a single round.
	DeleteRound(ctx context.Context, db bun.IDB, gameID uuid.UUID, number int) error

	// DeleteRounds removes every round of a game.
	DeleteRounds(ctx context.Context, db bun.IDB, gameID uuid.UUID) error
}
