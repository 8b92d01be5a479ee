package gamedb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ErrNotFound is returned when a game or round does not exist.
var ErrNotFound = errors.New("game not found")

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new game repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

// GetByUUID loads a game and its rounds.
func (r *Impl) GetByUUID(ctx context.Context, db bun.IDB, gameID uuid.UUID) (*Game, error) {
	return r.load(ctx, r.resolveDB(db), gameID, false)
}

// GetForUpdate loads a game holding a row lock.
func (r *Impl) GetForUpdate(ctx context.Context, db bun.IDB, gameID uuid.UUID) (*Game, error) {
	return r.load(ctx, r.resolveDB(db), gameID, true)
}

func (r *Impl) load(ctx context.Context, db bun.IDB, gameID uuid.UUID, lock bool) (*Game, error) {
	game := new(Game)
	q := db.NewSelect().Model(game).Where("g.uuid = ?", gameID)
	if lock {
		q = q.For("UPDATE")
	}
	if err := q.Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	err := db.NewSelect().
		Model(&game.Rounds).
		Where("gr.game_uuid = ?", gameID).
		Order("gr.number ASC").
		Scan(ctx)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to get game rounds: %w", err)
	}
	return game, nil
}

// Upsert creates or updates a game.
func (r *Impl) Upsert(ctx context.Context, db bun.IDB, game *Game) error {
	db = r.resolveDB(db)
	game.UpdatedAt = time.Now()
	_, err := db.NewInsert().
		Model(game).
		On("CONFLICT (uuid) DO UPDATE").
		Set("team1_name = EXCLUDED.team1_name").
		Set("team2_name = EXCLUDED.team2_name").
		Set("victory_threshold = EXCLUDED.victory_threshold").
		Set("seating = EXCLUDED.seating").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to upsert game: %w", err)
	}
	return nil
}

// InsertRounds appends round records.
func (r *Impl) InsertRounds(ctx context.Context, db bun.IDB, rounds ...*RoundRecord) error {
	if len(rounds) == 0 {
		return nil
	}
	db = r.resolveDB(db)
	if _, err := db.NewInsert().Model(&rounds).Exec(ctx); err != nil {
		return fmt.Errorf("failed to insert rounds: %w", err)
	}
	return nil
}

// DeleteRound removes round number of a game.
func (r *Impl) DeleteRound(ctx context.Context, db bun.IDB, gameID uuid.UUID, number int) error {
	db = r.resolveDB(db)
	result, err := db.NewDelete().
		Model((*RoundRecord)(nil)).
		Where("game_uuid = ?", gameID).
		Where("number = ?", number).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete round: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteRounds removes all rounds of a game.
func (r *Impl) DeleteRounds(ctx context.Context, db bun.IDB, gameID uuid.UUID) error {
	db = r.resolveDB(db)
	if _, err := db.NewDelete().
		Model((*RoundRecord)(nil)).
		Where("game_uuid = ?", gameID).
		Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete rounds: %w", err)
	}
	return nil
}
