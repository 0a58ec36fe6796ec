// Package search finds the outcomes of a single match that would leave a team
// at a desired position in the standings, assuming the team wins.
package search

// Branch names the toss outcome used for a calculation.
type Branch string

const (
	BranchBattingFirst Branch = "batting_first"
	BranchBowlingFirst Branch = "bowling_first"
)

// Outcome is the known half of the hypothetical match. It is either
// BattingFirst or BowlingFirst.
type Outcome interface {
	Branch() Branch
}

// BattingFirst fixes the team's own innings; the search looks for the opponent
// totals that produce the desired position.
type BattingFirst struct {
	RunsScored int
}

// Branch implements Outcome.
func (BattingFirst) Branch() Branch { return BranchBattingFirst }

// BowlingFirst fixes the opponent's innings; the search looks for how quickly
// the team must chase OpponentRuns+1.
type BowlingFirst struct {
	OpponentRuns int
}

// Branch implements Outcome.
func (BowlingFirst) Branch() Branch { return BranchBowlingFirst }

// Request describes one calculation. DesiredPosition is 1-based.
type Request struct {
	Team            string
	Opponent        string
	Overs           int
	DesiredPosition int
	Outcome         Outcome
}
