// Package stats converts the cumulative "runs/overs.balls" notation used in
// standings tables into exact run and ball counts and back.
package stats

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/iwvelando/standings-forecast/pkg/constants"
)

// Stats holds accumulated runs and the exact number of balls they came from.
type Stats struct {
	Runs  int
	Balls int
}

// MalformedStatError reports a stat string that cannot be decoded. It indicates
// a bug in the standings data rather than bad user input.
type MalformedStatError struct {
	Stat   string
	Reason string
}

func (e *MalformedStatError) Error() string {
	return fmt.Sprintf("malformed stat %q: %s", e.Stat, e.Reason)
}

// Decode parses a stat such as "1130/133.1" into 1130 runs and 799 balls. The
// ball part after the dot is optional.
func Decode(stat string) (Stats, error) {
	runsPart, oversPart, ok := strings.Cut(strings.TrimSpace(stat), "/")
	if !ok {
		return Stats{}, &MalformedStatError{Stat: stat, Reason: "missing '/' separator"}
	}

	runs, err := parseCount(runsPart)
	if err != nil {
		return Stats{}, &MalformedStatError{Stat: stat, Reason: "runs: " + err.Error()}
	}

	wholePart, extraPart, hasExtra := strings.Cut(oversPart, ".")
	overs, err := parseCount(wholePart)
	if err != nil {
		return Stats{}, &MalformedStatError{Stat: stat, Reason: "overs: " + err.Error()}
	}

	extra := 0
	if hasExtra {
		extra, err = parseCount(extraPart)
		if err != nil {
			return Stats{}, &MalformedStatError{Stat: stat, Reason: "balls: " + err.Error()}
		}
		if extra >= constants.BallsPerOver {
			return Stats{}, &MalformedStatError{
				Stat:   stat,
				Reason: fmt.Sprintf("extra balls %d exceed %d", extra, constants.BallsPerOver-1),
			}
		}
	}

	return Stats{Runs: runs, Balls: overs*constants.BallsPerOver + extra}, nil
}

// Encode renders a ball count in overs notation: 799 -> "133.1", 840 -> "140".
func Encode(balls int) string {
	overs := balls / constants.BallsPerOver
	extra := balls % constants.BallsPerOver
	if extra == 0 {
		return strconv.Itoa(overs)
	}
	return fmt.Sprintf("%d.%d", overs, extra)
}

// Add returns the stats with one more innings worth of runs and balls.
func (s Stats) Add(runs, balls int) Stats {
	return Stats{Runs: s.Runs + runs, Balls: s.Balls + balls}
}

// String renders the stats back into "runs/overs" notation.
func (s Stats) String() string {
	return fmt.Sprintf("%d/%s", s.Runs, Encode(s.Balls))
}

func parseCount(value string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", value)
	}
	if n < 0 {
		return 0, fmt.Errorf("negative value %d", n)
	}
	return n, nil
}
