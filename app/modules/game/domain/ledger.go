package gamedomain

import (
	"fmt"
	"slices"
)

// TeamRow is one team's line of a scored round.
type TeamRow struct {
	Declaration
	Fulfilled      bool `json:"fulfilled"`
	Gap            int  `json:"gap"`
	TheoreticalGap int  `json:"theoretical_gap"`
	Theoretical    int  `json:"theoretical"`
	Points         int  `json:"points"`
	Total          int  `json:"total"`
}

// Round is a scored round. Teams is index-aligned with the session's teams.
type Round struct {
	Number int        `json:"number"`
	Teams  [2]TeamRow `json:"teams"`
}

// ScoreRound resolves both declarations and carries the running figures
// forward from prev. prev is nil for the first round.
func ScoreRound(prev *Round, a, b Declaration) Round {
	number := 1
	if prev != nil {
		number = prev.Number + 1
	}
	round := Round{Number: number}
	decls := [2]Declaration{a, b}
	for i := range decls {
		self, opp := decls[i], decls[1-i]
		points, fulfilled := ResolvePoints(self, opp)
		gap := ComputeGap(self.Contract, self.Realized)

		row := TeamRow{
			Declaration: self,
			Fulfilled:   fulfilled,
			Gap:         gap,
			Theoretical: ComputeTheoreticalPoints(self.Contract, self.Realized, self.Announcement),
			Points:      points,
			Total:       points,
		}
		if self.Contract.Declared() {
			row.TheoreticalGap = gap
		}
		if prev != nil {
			row.Total += prev.Teams[i].Total
			row.TheoreticalGap += prev.Teams[i].TheoreticalGap
		}
		round.Teams[i] = row
	}
	return round
}

// Ledger is the append-only list of scored rounds. Transitions return a new
// Ledger and never modify the receiver's backing array.
type Ledger struct {
	rounds []Round
}

// NewLedger rebuilds a ledger from stored rounds.
func NewLedger(rounds []Round) Ledger {
	return Ledger{rounds: slices.Clone(rounds)}
}

// Len returns the number of rounds played.
func (l Ledger) Len() int { return len(l.rounds) }

// Rounds returns a copy of the rounds in play order.
func (l Ledger) Rounds() []Round { return slices.Clone(l.rounds) }

// Last returns the most recent round.
func (l Ledger) Last() (Round, bool) {
	if len(l.rounds) == 0 {
		return Round{}, false
	}
	return l.rounds[len(l.rounds)-1], true
}

// Totals returns both teams' cumulative points.
func (l Ledger) Totals() [2]int {
	last, ok := l.Last()
	if !ok {
		return [2]int{}
	}
	return [2]int{last.Teams[0].Total, last.Teams[1].Total}
}

// Append validates and scores a round and returns the extended ledger.
func (l Ledger) Append(a, b Declaration) (Ledger, Round, error) {
	if err := ValidateRound(a, b); err != nil {
		return l, Round{}, err
	}
	var prev *Round
	if last, ok := l.Last(); ok {
		prev = &last
	}
	round := ScoreRound(prev, a, b)
	return Ledger{rounds: append(slices.Clip(l.rounds), round)}, round, nil
}

// Undo removes the last round.
func (l Ledger) Undo() (Ledger, Round, error) {
	last, ok := l.Last()
	if !ok {
		return l, Round{}, ErrNoRounds
	}
	return Ledger{rounds: slices.Clip(l.rounds[:len(l.rounds)-1])}, last, nil
}

// Reset returns an empty ledger. The receiver is left untouched.
func (l Ledger) Reset() Ledger { return Ledger{} }

// Replay scores a sequence of declaration pairs from an empty ledger.
func Replay(pairs [][2]Declaration) (Ledger, error) {
	var l Ledger
	for i, p := range pairs {
		var err error
		if l, _, err = l.Append(p[0], p[1]); err != nil {
			return Ledger{}, fmt.Errorf("round %d: %w", i+1, err)
		}
	}
	return l, nil
}
