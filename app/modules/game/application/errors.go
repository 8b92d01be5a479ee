package gameservice

import "errors"

var (
	// ErrInvalidTeam is returned for a team index other than 0 or 1.
	ErrInvalidTeam = errors.New("team must be 1 or 2")
	// ErrInvalidScoresheet is returned when an imported workbook cannot be read back.
	ErrInvalidScoresheet = errors.New("invalid scoresheet")
	// ErrCorruptGame is returned when stored rounds no longer replay.
	ErrCorruptGame = errors.New("stored game cannot be replayed")
)
