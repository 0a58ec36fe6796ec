package standings

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/iwvelando/standings-forecast/pkg/mathutil"
)

// ErrEmptyTable is returned when a table is built without rows.
var ErrEmptyTable = errors.New("standings table is empty")

// Table is an immutable snapshot of the standings. It is safe for concurrent
// use; every what-if ranking works on a copy of the rows.
type Table struct {
	rows  []Row
	index map[string]int
}

// NewTable validates rows and builds a table. Team names must be unique and
// non-empty, and every stat field must decode.
func NewTable(rows []Row) (*Table, error) {
	if len(rows) == 0 {
		return nil, ErrEmptyTable
	}

	t := &Table{
		rows:  make([]Row, len(rows)),
		index: make(map[string]int, len(rows)),
	}
	copy(t.rows, rows)

	for i, row := range t.rows {
		if strings.TrimSpace(row.Team) == "" {
			return nil, fmt.Errorf("row %d: team name is empty", i)
		}
		if _, dup := t.index[row.Team]; dup {
			return nil, fmt.Errorf("row %d: duplicate team %q", i, row.Team)
		}
		if _, _, err := decodeRow(row); err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		t.index[row.Team] = i
	}

	return t, nil
}

// Len returns the number of teams.
func (t *Table) Len() int {
	return len(t.rows)
}

// Rows returns a copy of the rows in seed order.
func (t *Table) Rows() []Row {
	out := make([]Row, len(t.rows))
	copy(out, t.rows)
	return out
}

// Teams returns the team names in seed order.
func (t *Table) Teams() []string {
	names := make([]string, len(t.rows))
	for i, row := range t.rows {
		names[i] = row.Team
	}
	return names
}

// Sorted returns a copy of the rows in ranked order.
func (t *Table) Sorted() []Row {
	rows := t.Rows()
	Sort(rows)
	return rows
}

// Lookup returns the row for team.
func (t *Table) Lookup(team string) (Row, error) {
	i, ok := t.index[team]
	if !ok {
		return Row{}, &TeamNotFoundError{Team: team, Suggestions: suggest(team, t.Teams())}
	}
	return t.rows[i], nil
}

// RankAfterSubstitution returns the 1-based position team would hold if its
// points and rate differential were replaced by the given values.
func (t *Table) RankAfterSubstitution(team string, newPoints int, newRate float64) (int, error) {
	i, ok := t.index[team]
	if !ok {
		return 0, &TeamNotFoundError{Team: team, Suggestions: suggest(team, t.Teams())}
	}

	simulated := t.Rows()
	simulated[i].Points = newPoints
	simulated[i].NRR = newRate
	Sort(simulated)

	for pos, row := range simulated {
		if row.Team == team {
			return pos + 1, nil
		}
	}
	return 0, fmt.Errorf("team %q lost during re-ranking", team)
}

// Sort orders rows in place: points descending, then rate differential
// descending. Rows tied on both keep their relative order.
func Sort(rows []Row) {
	sort.SliceStable(rows, func(i, j int) bool {
		return ranksAbove(rows[i], rows[j])
	})
}

// Discrepancy is a row whose stored NRR disagrees with its For and Against stats.
type Discrepancy struct {
	Team     string
	Stored   float64
	Computed float64
}

// RateDiscrepancies lists rows whose stored NRR is more than one unit in the
// last of decimals places away from the rate recomputed from their stats.
// Ranking always uses the stored value.
func (t *Table) RateDiscrepancies(decimals int) []Discrepancy {
	tolerance := math.Pow(10, -float64(decimals)) + 1e-9

	var out []Discrepancy
	for _, row := range t.rows {
		computed, err := CurrentRate(row)
		if err != nil {
			continue
		}
		computed = mathutil.Round(computed, decimals)
		if !mathutil.WithinTolerance(mathutil.Round(row.NRR, decimals), computed, tolerance) {
			out = append(out, Discrepancy{Team: row.Team, Stored: row.NRR, Computed: computed})
		}
	}
	return out
}
