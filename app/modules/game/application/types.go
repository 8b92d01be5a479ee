package gameservice

import (
	gamedomain "github.com/Black-And-White-Club/coinche-bot/app/modules/game/domain"
	"github.com/google/uuid"
)

// CreateGameRequest names the teams of a new game. A zero threshold uses the
// configured default.
type CreateGameRequest struct {
	Team1Name        string `json:"team1_name"`
	Team2Name        string `json:"team2_name"`
	VictoryThreshold int    `json:"victory_threshold,omitempty"`
}

// GameView is the read model of a game.
type GameView struct {
	GameID           uuid.UUID           `json:"game_id"`
	Teams            [2]string           `json:"teams"`
	VictoryThreshold int                 `json:"victory_threshold"`
	Seating          *gamedomain.Seating `json:"seating,omitempty"`
	Dealer           string              `json:"dealer,omitempty"`
	Rounds           []gamedomain.Round  `json:"rounds"`
	Totals           [2]int              `json:"totals"`
	Winner           *int                `json:"winner,omitempty"`
}

// RoundAdded is the outcome of a committed round. NewWinner is set only on
// the round that first brings a team to the victory threshold.
type RoundAdded struct {
	Game      *GameView        `json:"game"`
	Round     gamedomain.Round `json:"round"`
	NewWinner *int             `json:"new_winner,omitempty"`
}

// RoundUndone is the outcome of an undo.
type RoundUndone struct {
	Game  *GameView        `json:"game"`
	Round gamedomain.Round `json:"round"`
}

func newGameView(gameID uuid.UUID, s gamedomain.Session) *GameView {
	view := &GameView{
		GameID:           gameID,
		Teams:            s.Teams,
		VictoryThreshold: s.VictoryThreshold,
		Rounds:           s.Ledger.Rounds(),
		Totals:           s.Totals(),
	}
	if view.Rounds == nil {
		view.Rounds = []gamedomain.Round{}
	}
	if s.Seating != nil {
		seating := *s.Seating
		view.Seating = &seating
		view.Dealer, _ = s.Dealer()
	}
	if winner, ok := s.Winner(); ok {
		view.Winner = &winner
	}
	return view
}
