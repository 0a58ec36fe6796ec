package search

import (
	"fmt"

	"github.com/iwvelando/standings-forecast/pkg/constants"
	"github.com/iwvelando/standings-forecast/pkg/mathutil"
)

// Window bounds the integer domains scanned by the engine.
//
// Batting first scans opponent totals from floor(runsScored*BattingLowFraction)
// to runsScored-1. Bowling first scans chase lengths from
// floor(totalBalls*ChaseLowFraction) to floor(totalBalls*ChaseHighFraction).
type Window struct {
	BattingLowFraction float64
	ChaseLowFraction   float64
	ChaseHighFraction  float64
}

// DefaultWindow returns the standard scan bounds.
func DefaultWindow() Window {
	return Window{
		BattingLowFraction: constants.DefaultBattingLowFraction,
		ChaseLowFraction:   constants.DefaultChaseLowFraction,
		ChaseHighFraction:  constants.DefaultChaseHighFraction,
	}
}

// Validate checks that every fraction lies in [0, 1] and the chase bounds are ordered.
func (w Window) Validate() error {
	fractions := []struct {
		name  string
		value float64
	}{
		{"battingLowFraction", w.BattingLowFraction},
		{"chaseLowFraction", w.ChaseLowFraction},
		{"chaseHighFraction", w.ChaseHighFraction},
	}
	for _, f := range fractions {
		if f.value < 0 || f.value > 1 {
			return fmt.Errorf("%s must be between 0 and 1, got %v", f.name, f.value)
		}
	}
	if w.ChaseLowFraction > w.ChaseHighFraction {
		return fmt.Errorf("chaseLowFraction %v exceeds chaseHighFraction %v",
			w.ChaseLowFraction, w.ChaseHighFraction)
	}
	return nil
}

func (w Window) battingDomain(runsScored int) (int, int) {
	return mathutil.FloorFraction(runsScored, w.BattingLowFraction), runsScored - 1
}

func (w Window) chaseDomain(totalBalls int) (int, int) {
	return mathutil.FloorFraction(totalBalls, w.ChaseLowFraction),
		mathutil.FloorFraction(totalBalls, w.ChaseHighFraction)
}
