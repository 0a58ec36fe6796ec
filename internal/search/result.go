package search

// Result is the answer to a Request: human-readable lines plus the numeric
// boundaries behind them.
type Result struct {
	TextOutputs []string   `json:"textOutputs"`
	Structured  Structured `json:"structured"`
	Feasible    bool       `json:"feasible"`
	Branch      Branch     `json:"branch"`
	DomainLow   int        `json:"domainLow"`
	DomainHigh  int        `json:"domainHigh"`
	Evaluated   int        `json:"evaluated"`
}

// Structured holds the boundaries of a feasible outcome. Runs are set when
// batting first, overs when bowling first; both are nil when no outcome works.
type Structured struct {
	MinRuns  *int    `json:"minRuns,omitempty"`
	MaxRuns  *int    `json:"maxRuns,omitempty"`
	MinOvers *string `json:"minOvers,omitempty"`
	MaxOvers *string `json:"maxOvers,omitempty"`
	MinNRR   float64 `json:"minNrr"`
	MaxNRR   float64 `json:"maxNrr"`
}
