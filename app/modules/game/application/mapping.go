package gameservice

import (
	"fmt"

	gamedomain "github.com/Black-And-White-Club/coinche-bot/app/modules/game/domain"
	gamedb "github.com/Black-And-White-Club/coinche-bot/app/modules/game/infrastructure/repositories"
	"github.com/google/uuid"
)

// sessionFromGame rebuilds the session by replaying the stored declarations.
func sessionFromGame(game *gamedb.Game) (gamedomain.Session, error) {
	s := gamedomain.NewSession(game.Team1Name, game.Team2Name, game.VictoryThreshold)
	if game.Seating != nil {
		s.Seating = &gamedomain.Seating{Players: game.Seating.Players, Dealer: game.Seating.Dealer}
	}

	pairs := make([][2]gamedomain.Declaration, 0, len(game.Rounds))
	for _, rec := range game.Rounds {
		a, err := parseDeclaration(rec.Team1Contract, rec.Team1Realized, rec.Team1Announcement, rec.Team1Remark)
		if err != nil {
			return gamedomain.Session{}, fmt.Errorf("%w: round %d team 1: %w", ErrCorruptGame, rec.Number, err)
		}
		b, err := parseDeclaration(rec.Team2Contract, rec.Team2Realized, rec.Team2Announcement, rec.Team2Remark)
		if err != nil {
			return gamedomain.Session{}, fmt.Errorf("%w: round %d team 2: %w", ErrCorruptGame, rec.Number, err)
		}
		pairs = append(pairs, [2]gamedomain.Declaration{a, b})
	}

	ledger, err := gamedomain.Replay(pairs)
	if err != nil {
		return gamedomain.Session{}, fmt.Errorf("%w: %w", ErrCorruptGame, err)
	}
	s.Ledger = ledger
	return s, nil
}

// applySession copies the session header onto the game row.
func applySession(game *gamedb.Game, s gamedomain.Session) {
	game.Team1Name = s.Teams[0]
	game.Team2Name = s.Teams[1]
	game.VictoryThreshold = s.VictoryThreshold
	game.Seating = nil
	if s.Seating != nil {
		game.Seating = &gamedb.Seating{Players: s.Seating.Players, Dealer: s.Seating.Dealer}
	}
}

func roundRecord(gameID uuid.UUID, r gamedomain.Round) *gamedb.RoundRecord {
	a, b := r.Teams[0], r.Teams[1]
	return &gamedb.RoundRecord{
		GameUUID:          gameID,
		Number:            r.Number,
		Team1Contract:     a.Contract.String(),
		Team1Realized:     a.Realized.String(),
		Team1Announcement: a.Announcement.String(),
		Team1Remark:       a.Remark.String(),
		Team2Contract:     b.Contract.String(),
		Team2Realized:     b.Realized.String(),
		Team2Announcement: b.Announcement.String(),
		Team2Remark:       b.Remark.String(),
		Team1Points:       a.Points,
		Team2Points:       b.Points,
		Team1Total:        a.Total,
		Team2Total:        b.Total,
	}
}

func parseDeclaration(contract, realized, announcement, remark string) (gamedomain.Declaration, error) {
	var d gamedomain.Declaration
	var ok bool
	if d.Contract, ok = gamedomain.ParseContract(contract); !ok {
		return d, fmt.Errorf("contract %q: %w", contract, gamedomain.ErrUnknownValue)
	}
	if d.Realized, ok = gamedomain.ParseRealized(realized); !ok {
		return d, fmt.Errorf("realized %q: %w", realized, gamedomain.ErrUnknownValue)
	}
	if d.Announcement, ok = gamedomain.ParseAnnouncement(announcement); !ok {
		return d, fmt.Errorf("announcement %q: %w", announcement, gamedomain.ErrUnknownValue)
	}
	if d.Remark, ok = gamedomain.ParseRemark(remark); !ok {
		return d, fmt.Errorf("remark %q: %w", remark, gamedomain.ErrUnknownValue)
	}
	return d, nil
}
