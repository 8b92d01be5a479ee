// Package gameevents declares the game topics and their JSON payloads.
package gameevents

import (
	gamedomain "github.com/Black-And-White-Club/coinche-bot/app/modules/game/domain"
	"github.com/google/uuid"
)

// StreamName is the JetStream stream holding every game subject.
const StreamName = "game"

// StreamSubjects are captured by StreamName.
var StreamSubjects = []string{"game.>"}

const (
	GameCreateRequestedV1 = "game.created.requested.v1"
	GameCreatedV1         = "game.created.v1"
	GameCreationFailedV1  = "game.creation.failed.v1"

	RoundAddRequestedV1 = "game.round.add.requested.v1"
	RoundAddedV1        = "game.round.added.v1"
	RoundRejectedV1     = "game.round.rejected.v1"
	GameWonV1           = "game.won.v1"

	RoundUndoRequestedV1 = "game.round.undo.requested.v1"
	RoundUndoneV1        = "game.round.undone.v1"
	RoundUndoFailedV1    = "game.round.undo.failed.v1"

	GameRestartRequestedV1 = "game.restart.requested.v1"
	GameRestartedV1        = "game.restarted.v1"
	GameRestartFailedV1    = "game.restart.failed.v1"
)

// GameCreateRequestedPayloadV1 asks for a new game.
type GameCreateRequestedPayloadV1 struct {
	Team1Name        string `json:"team1_name"`
	Team2Name        string `json:"team2_name"`
	VictoryThreshold int    `json:"victory_threshold,omitempty"`
}

// GameCreatedPayloadV1 announces a new game.
type GameCreatedPayloadV1 struct {
	GameID           uuid.UUID `json:"game_id"`
	Teams            [2]string `json:"teams"`
	VictoryThreshold int       `json:"victory_threshold"`
}

// RoundAddRequestedPayloadV1 carries one declaration per team.
type RoundAddRequestedPayloadV1 struct {
	GameID uuid.UUID              `json:"game_id"`
	Team1  gamedomain.Declaration `json:"team1"`
	Team2  gamedomain.Declaration `json:"team2"`
}

// RoundAddedPayloadV1 carries the resolved round and the running totals.
type RoundAddedPayloadV1 struct {
	GameID uuid.UUID        `json:"game_id"`
	Round  gamedomain.Round `json:"round"`
	Totals [2]int           `json:"totals"`
	Dealer string           `json:"dealer,omitempty"`
}

// GameWonPayloadV1 is emitted after a round brings a team to the victory threshold.
type GameWonPayloadV1 struct {
	GameID   uuid.UUID `json:"game_id"`
	Team     int       `json:"team"`
	TeamName string    `json:"team_name"`
	Totals   [2]int    `json:"totals"`
	Round    int       `json:"round"`
}

// RoundUndoRequestedPayloadV1 asks to drop the last round.
type RoundUndoRequestedPayloadV1 struct {
	GameID uuid.UUID `json:"game_id"`
}

// RoundUndonePayloadV1 reports the removed round and the restored totals.
type RoundUndonePayloadV1 struct {
	GameID uuid.UUID        `json:"game_id"`
	Round  gamedomain.Round `json:"round"`
	Totals [2]int           `json:"totals"`
}

// GameRestartRequestedPayloadV1 asks to clear a game's ledger.
type GameRestartRequestedPayloadV1 struct {
	GameID uuid.UUID `json:"game_id"`
}

// GameRestartedPayloadV1 confirms a cleared ledger.
type GameRestartedPayloadV1 struct {
	GameID uuid.UUID `json:"game_id"`
}

// FailurePayloadV1 is shared by every failure topic.
type FailurePayloadV1 struct {
	GameID uuid.UUID `json:"game_id,omitempty"`
	Reason string    `json:"reason"`
}
