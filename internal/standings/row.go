// Package standings models the competition table, its ordering rule and the
// what-if re-ranking used by the search engine.
package standings

// Row is one team's current competition record. For and Against hold
// cumulative "runs/overs.balls" stats.
type Row struct {
	Team    string  `json:"team" yaml:"team"`
	Matches int     `json:"matches" yaml:"matches"`
	Won     int     `json:"won" yaml:"won"`
	Lost    int     `json:"lost" yaml:"lost"`
	NRR     float64 `json:"nrr" yaml:"nrr"`
	For     string  `json:"for" yaml:"for"`
	Against string  `json:"against" yaml:"against"`
	Points  int     `json:"points" yaml:"points"`
}

// ranksAbove reports whether a is placed above b: more points first, then the
// higher rate differential.
func ranksAbove(a, b Row) bool {
	if a.Points != b.Points {
		return a.Points > b.Points
	}
	return a.NRR > b.NRR
}
