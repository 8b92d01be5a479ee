package gameservice

import (
	"context"
	"slices"

	gamedb "github.com/Black-And-White-Club/coinche-bot/app/modules/game/infrastructure/repositories"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ------------------------
// Fake Game Repository
// ------------------------

// FakeGameRepo keeps games in memory unless a Func override is set.
type FakeGameRepo struct {
	trace []string
	games map[uuid.UUID]*gamedb.Game

	GetByUUIDFunc    func(ctx context.Context, db bun.IDB, gameID uuid.UUID) (*gamedb.Game, error)
	GetForUpdateFunc func(ctx context.Context, db bun.IDB, gameID uuid.UUID) (*gamedb.Game, error)
	UpsertFunc       func(ctx context.Context, db bun.IDB, game *gamedb.Game) error
	InsertRoundsFunc func(ctx context.Context, db bun.IDB, rounds ...*gamedb.RoundRecord) error
	DeleteRoundFunc  func(ctx context.Context, db bun.IDB, gameID uuid.UUID, number int) error
	DeleteRoundsFunc func(ctx context.Context, db bun.IDB, gameID uuid.UUID) error
}

func NewFakeGameRepo() *FakeGameRepo {
	return &FakeGameRepo{
		trace: []string{},
		games: map[uuid.UUID]*gamedb.Game{},
	}
}

func (f *FakeGameRepo) record(step string) {
	f.trace = append(f.trace, step)
}

// --- Repository Interface Implementation ---

func (f *FakeGameRepo) GetByUUID(ctx context.Context, db bun.IDB, gameID uuid.UUID) (*gamedb.Game, error) {
	f.record("GetByUUID")
	if f.GetByUUIDFunc != nil {
		return f.GetByUUIDFunc(ctx, db, gameID)
	}
	return f.load(gameID)
}

func (f *FakeGameRepo) GetForUpdate(ctx context.Context, db bun.IDB, gameID uuid.UUID) (*gamedb.Game, error) {
	f.record("GetForUpdate")
	if f.GetForUpdateFunc != nil {
		return f.GetForUpdateFunc(ctx, db, gameID)
	}
	return f.load(gameID)
}

func (f *FakeGameRepo) Upsert(ctx context.Context, db bun.IDB, game *gamedb.Game) error {
	f.record("Upsert")
	if f.UpsertFunc != nil {
		return f.UpsertFunc(ctx, db, game)
	}
	stored := *game
	if existing, ok := f.games[game.UUID]; ok {
		stored.Rounds = existing.Rounds
	} else {
		stored.Rounds = nil
	}
	f.games[game.UUID] = &stored
	return nil
}

func (f *FakeGameRepo) InsertRounds(ctx context.Context, db bun.IDB, rounds ...*gamedb.RoundRecord) error {
	f.record("InsertRounds")
	if f.InsertRoundsFunc != nil {
		return f.InsertRoundsFunc(ctx, db, rounds...)
	}
	for _, r := range rounds {
		game, ok := f.games[r.GameUUID]
		if !ok {
			return gamedb.ErrNotFound
		}
		rec := *r
		game.Rounds = append(game.Rounds, &rec)
	}
	return nil
}

func (f *FakeGameRepo) DeleteRound(ctx context.Context, db bun.IDB, gameID uuid.UUID, number int) error {
	f.record("DeleteRound")
	if f.DeleteRoundFunc != nil {
		return f.DeleteRoundFunc(ctx, db, gameID, number)
	}
	game, ok := f.games[gameID]
	if !ok {
		return gamedb.ErrNotFound
	}
	i := slices.IndexFunc(game.Rounds, func(r *gamedb.RoundRecord) bool { return r.Number == number })
	if i < 0 {
		return gamedb.ErrNotFound
	}
	game.Rounds = slices.Delete(game.Rounds, i, i+1)
	return nil
}

func (f *FakeGameRepo) DeleteRounds(ctx context.Context, db bun.IDB, gameID uuid.UUID) error {
	f.record("DeleteRounds")
	if f.DeleteRoundsFunc != nil {
		return f.DeleteRoundsFunc(ctx, db, gameID)
	}
	if game, ok := f.games[gameID]; ok {
		game.Rounds = nil
	}
	return nil
}

func (f *FakeGameRepo) load(gameID uuid.UUID) (*gamedb.Game, error) {
	game, ok := f.games[gameID]
	if !ok {
		return nil, gamedb.ErrNotFound
	}
	out := *game
	out.Rounds = slices.Clone(game.Rounds)
	if game.Seating != nil {
		seating := *game.Seating
		out.Seating = &seating
	}
	return &out, nil
}

// --- Accessors for assertions ---

func (f *FakeGameRepo) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

// Ensure the fake actually satisfies the interface
var _ gamedb.Repository = (*FakeGameRepo)(nil)
