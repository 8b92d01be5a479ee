package gamedomain

import "strings"

// DefaultVictoryThreshold is the score that ends a game unless configured otherwise.
const DefaultVictoryThreshold = 2000

// Seat positions, clockwise from the top left of the table.
const (
	SeatTopLeft = iota
	SeatTopRight
	SeatBottomRight
	SeatBottomLeft
	seatCount
)

// Default team names before players are entered.
const (
	DefaultTeam1Name = "Équipe 1"
	DefaultTeam2Name = "Équipe 2"
)

// Seating places the four players clockwise around the table. Partners sit
// opposite each other.
type Seating struct {
	Players [seatCount]string `json:"players"`
	Dealer  int               `json:"dealer"`
}

// Session is one game in progress. Every transition returns the next
// session and leaves the receiver untouched.
type Session struct {
	Teams            [2]string
	Seating          *Seating
	VictoryThreshold int
	Ledger           Ledger
}

// NewSession starts an empty game. Blank names fall back to the defaults and
// a non-positive threshold falls back to DefaultVictoryThreshold.
func NewSession(team1, team2 string, threshold int) Session {
	if strings.TrimSpace(team1) == "" {
		team1 = DefaultTeam1Name
	}
	if strings.TrimSpace(team2) == "" {
		team2 = DefaultTeam2Name
	}
	if threshold <= 0 {
		threshold = DefaultVictoryThreshold
	}
	return Session{Teams: [2]string{team1, team2}, VictoryThreshold: threshold}
}

// TeamPlayers splits a "Player1/Player2" team name.
func TeamPlayers(name string) ([2]string, error) {
	parts := strings.Split(name, "/")
	if len(parts) != 2 {
		return [2]string{}, ErrInvalidTeamName
	}
	a, b := strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
	if a == "" || b == "" {
		return [2]string{}, ErrInvalidTeamName
	}
	return [2]string{a, b}, nil
}

// TeamsReady reports whether both team names list their two players.
func (s Session) TeamsReady() bool {
	for _, name := range s.Teams {
		if _, err := TeamPlayers(name); err != nil {
			return false
		}
	}
	return true
}

// Dealer returns the player currently dealing.
func (s Session) Dealer() (string, bool) {
	if s.Seating == nil {
		return "", false
	}
	return s.Seating.Players[s.Seating.Dealer], true
}

// Totals returns both teams' cumulative points.
func (s Session) Totals() [2]int { return s.Ledger.Totals() }

// Winner returns the index of the first team at or above the victory
// threshold. Team 1 is checked first.
func (s Session) Winner() (int, bool) {
	totals := s.Totals()
	for i, total := range totals {
		if total >= s.VictoryThreshold {
			return i, true
		}
	}
	return 0, false
}

// CanScore reports whether a round carries enough input to be committed:
// one team must hold both a contract and realized points.
func CanScore(a, b Declaration) bool {
	return (a.Contract.Declared() && a.Realized.Value() > 0) ||
		(b.Contract.Declared() && b.Realized.Value() > 0)
}

// AddRound validates, scores and appends a round, then passes the deal.
func (s Session) AddRound(a, b Declaration, requireSeating bool) (Session, Round, error) {
	if requireSeating && s.Seating == nil {
		return s, Round{}, ErrSeatingRequired
	}
	if err := ValidateRound(a, b); err != nil {
		return s, Round{}, err
	}
	if !CanScore(a, b) {
		return s, Round{}, ErrIncompleteRound
	}
	ledger, round, err := s.Ledger.Append(a, b)
	if err != nil {
		return s, Round{}, err
	}
	next := s
	next.Ledger = ledger
	next.Seating = s.Seating.rotate(1)
	return next, round, nil
}

// UndoRound drops the last round and passes the deal back.
func (s Session) UndoRound() (Session, Round, error) {
	ledger, round, err := s.Ledger.Undo()
	if err != nil {
		return s, Round{}, err
	}
	next := s
	next.Ledger = ledger
	next.Seating = s.Seating.rotate(-1)
	return next, round, nil
}

// Restart clears every round. Teams, seating and dealer are kept.
func (s Session) Restart() Session {
	next := s
	next.Ledger = s.Ledger.Reset()
	return next
}

// RenameTeam changes a team name. The seating is dropped when the team's
// players no longer match it.
func (s Session) RenameTeam(team int, name string) (Session, error) {
	if team < 0 || team > 1 {
		return s, ErrInvalidTeamName
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return s, ErrInvalidTeamName
	}
	next := s
	next.Teams[team] = name
	if s.Seating != nil {
		if err := next.Seating.validate(next.Teams); err != nil {
			next.Seating = nil
		}
	}
	return next, nil
}

// SetSeating seats the players and picks the first dealer. Both team names
// must list their players.
func (s Session) SetSeating(players [4]string, dealer int) (Session, error) {
	if !s.TeamsReady() {
		return s, ErrInvalidTeamName
	}
	seating := &Seating{Players: players, Dealer: dealer}
	for i := range seating.Players {
		seating.Players[i] = strings.TrimSpace(seating.Players[i])
	}
	if err := seating.validate(s.Teams); err != nil {
		return s, err
	}
	next := s
	next.Seating = seating
	return next, nil
}

func (st *Seating) validate(teams [2]string) error {
	if st.Dealer < 0 || st.Dealer >= seatCount {
		return ErrInvalidDealer
	}
	team := make(map[string]int, seatCount)
	for i, name := range teams {
		players, err := TeamPlayers(name)
		if err != nil {
			return err
		}
		for _, p := range players {
			team[p] = i
		}
	}
	seen := make(map[string]bool, seatCount)
	for _, p := range st.Players {
		if p == "" {
			return ErrSeatingIncomplete
		}
		if seen[p] {
			return ErrSeatingDuplicate
		}
		seen[p] = true
		if _, ok := team[p]; !ok {
			return ErrSeatingUnknown
		}
	}
	if team[st.Players[SeatTopLeft]] != team[st.Players[SeatBottomRight]] ||
		team[st.Players[SeatTopRight]] != team[st.Players[SeatBottomLeft]] {
		return ErrSeatingPartners
	}
	return nil
}

// rotate returns a copy with the dealer moved by step seats clockwise.
func (st *Seating) rotate(step int) *Seating {
	if st == nil {
		return nil
	}
	next := *st
	next.Dealer = ((next.Dealer+step)%seatCount + seatCount) % seatCount
	return &next
}
