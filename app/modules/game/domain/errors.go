package gamedomain

import "errors"

// Round validation rejections. The messages are shown to players as-is.
var (
	ErrMultipleContracts    = errors.New("Only one team can declare a contract per round.")
	ErrMirroredRemark       = errors.New("Both teams cannot have the same Coinche or Sur Coinche remark.")
	ErrAnnouncementOverflow = errors.New("The sum of Belote announcements cannot exceed 80 points.")
	ErrIncompleteRound      = errors.New("At least one team needs a contract and realized points.")
	ErrSeatingRequired      = errors.New("Player seating must be configured before adding a round.")
)

// Session state errors.
var (
	ErrNoRounds          = errors.New("no rounds to undo")
	ErrInvalidTeamName   = errors.New("team name must have the form Player1/Player2")
	ErrSeatingIncomplete = errors.New("all four seats must be filled")
	ErrSeatingDuplicate  = errors.New("each player can only sit once")
	ErrSeatingUnknown    = errors.New("seated player is not on either team")
	ErrSeatingPartners   = errors.New("partners must sit opposite each other")
	ErrInvalidDealer     = errors.New("dealer must be one of the four seats")
	ErrInvalidThreshold  = errors.New("victory threshold must be positive")
	ErrUnknownValue      = errors.New("unknown value")
)

// IsRejection reports whether err is a round validation rejection a player can correct.
func IsRejection(err error) bool {
	return errors.Is(err, ErrMultipleContracts) ||
		errors.Is(err, ErrMirroredRemark) ||
		errors.Is(err, ErrAnnouncementOverflow) ||
		errors.Is(err, ErrIncompleteRound) ||
		errors.Is(err, ErrSeatingRequired)
}
