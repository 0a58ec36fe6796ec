package standings

import (
	"fmt"

	"github.com/iwvelando/standings-forecast/pkg/mathutil"
	"github.com/iwvelando/standings-forecast/pkg/stats"
)

// ProjectedRate returns the team's rate differential after adding one match:
// runs and balls for the team's innings, and runs and balls conceded.
func ProjectedRate(row Row, addedRuns, addedBalls, addedAgainstRuns, addedAgainstBalls int) (float64, error) {
	scored, conceded, err := decodeRow(row)
	if err != nil {
		return 0, err
	}

	scored = scored.Add(addedRuns, addedBalls)
	conceded = conceded.Add(addedAgainstRuns, addedAgainstBalls)

	return mathutil.RunRate(scored.Runs, scored.Balls) - mathutil.RunRate(conceded.Runs, conceded.Balls), nil
}

// CurrentRate recomputes the rate differential from the row's stored stats.
func CurrentRate(row Row) (float64, error) {
	return ProjectedRate(row, 0, 0, 0, 0)
}

func decodeRow(row Row) (stats.Stats, stats.Stats, error) {
	scored, err := stats.Decode(row.For)
	if err != nil {
		return stats.Stats{}, stats.Stats{}, fmt.Errorf("team %s runs for: %w", row.Team, err)
	}
	conceded, err := stats.Decode(row.Against)
	if err != nil {
		return stats.Stats{}, stats.Stats{}, fmt.Errorf("team %s runs against: %w", row.Team, err)
	}
	return scored, conceded, nil
}
