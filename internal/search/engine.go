package search

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/iwvelando/standings-forecast/internal/standings"
	"github.com/iwvelando/standings-forecast/pkg/constants"
	"github.com/iwvelando/standings-forecast/pkg/stats"
	"go.uber.org/zap"
)

// ErrInvalidRequest wraps every request that cannot be evaluated.
var ErrInvalidRequest = errors.New("invalid calculation request")

// Observer receives a record of every completed calculation.
type Observer interface {
	ObserveCalculation(branch string, feasible bool, evaluated int, elapsed time.Duration)
}

type nopObserver struct{}

func (nopObserver) ObserveCalculation(string, bool, int, time.Duration) {}

// Engine scans candidate outcomes against a read-only standings table.
type Engine struct {
	logger   *zap.Logger
	table    *standings.Table
	window   Window
	maxOvers int
	observer Observer
}

// Option configures an Engine.
type Option func(*Engine)

// WithWindow overrides the scan bounds.
func WithWindow(w Window) Option {
	return func(e *Engine) { e.window = w }
}

// WithMaxOvers caps the overs per innings a request may ask for.
func WithMaxOvers(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxOvers = n
		}
	}
}

// WithObserver reports each calculation to o.
func WithObserver(o Observer) Option {
	return func(e *Engine) {
		if o != nil {
			e.observer = o
		}
	}
}

// NewEngine constructs an Engine over table.
func NewEngine(logger *zap.Logger, table *standings.Table, opts ...Option) (*Engine, error) {
	if table == nil {
		return nil, fmt.Errorf("standings table cannot be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	e := &Engine{
		logger:   logger,
		table:    table,
		window:   DefaultWindow(),
		maxOvers: constants.DefaultMaxOvers,
		observer: nopObserver{},
	}
	for _, opt := range opts {
		opt(e)
	}

	if err := e.window.Validate(); err != nil {
		return nil, fmt.Errorf("invalid search window: %w", err)
	}
	return e, nil
}

// Table returns the standings the engine searches against.
func (e *Engine) Table() *standings.Table {
	return e.table
}

// evaluation is the simulated position for one candidate value.
type evaluation struct {
	value   int
	rate    float64
	rank    int
	desired int
}

func (ev evaluation) feasible() bool {
	return ev.rank == ev.desired
}

// scanResult holds the outcome of walking a domain: the lowest and highest feasible
// candidates and how many candidates were tried.
type scanResult struct {
	low, high int
	first     *evaluation
	last      *evaluation
	evaluated int
}

func (s scanResult) feasible() bool {
	return s.first != nil
}

// Calculate evaluates req and returns the boundary outcomes. A request with no
// feasible outcome yields a Result explaining so, not an error.
func (e *Engine) Calculate(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()

	team, err := e.validate(req)
	if err != nil {
		return nil, err
	}

	var result *Result
	switch outcome := req.Outcome.(type) {
	case BattingFirst:
		result, err = e.battingFirst(ctx, req, team, outcome)
	case BowlingFirst:
		result, err = e.bowlingFirst(ctx, req, team, outcome)
	case nil:
		return nil, fmt.Errorf("%w: toss outcome is required", ErrInvalidRequest)
	default:
		return nil, fmt.Errorf("%w: unsupported toss outcome %T", ErrInvalidRequest, outcome)
	}
	if err != nil {
		return nil, err
	}

	elapsed := time.Since(start)
	e.observer.ObserveCalculation(string(result.Branch), result.Feasible, result.Evaluated, elapsed)
	e.logger.Debug("calculation completed",
		zap.String("op", "search.Calculate"),
		zap.String("team", req.Team),
		zap.String("opponent", req.Opponent),
		zap.String("branch", string(result.Branch)),
		zap.Int("desiredPosition", req.DesiredPosition),
		zap.Int("domainLow", result.DomainLow),
		zap.Int("domainHigh", result.DomainHigh),
		zap.Int("evaluated", result.Evaluated),
		zap.Bool("feasible", result.Feasible),
		zap.Duration("duration", elapsed),
	)

	return result, nil
}

func (e *Engine) validate(req Request) (standings.Row, error) {
	team, err := e.table.Lookup(req.Team)
	if err != nil {
		return standings.Row{}, err
	}
	if _, err := e.table.Lookup(req.Opponent); err != nil {
		return standings.Row{}, err
	}
	if req.Team == req.Opponent {
		return standings.Row{}, fmt.Errorf("%w: team and opponent must differ", ErrInvalidRequest)
	}
	if req.Overs < 1 || req.Overs > e.maxOvers {
		return standings.Row{}, fmt.Errorf("%w: overs must be between 1 and %d, got %d",
			ErrInvalidRequest, e.maxOvers, req.Overs)
	}
	if req.DesiredPosition < 1 || req.DesiredPosition > e.table.Len() {
		return standings.Row{}, fmt.Errorf("%w: desired position must be between 1 and %d, got %d",
			ErrInvalidRequest, e.table.Len(), req.DesiredPosition)
	}

	switch outcome := req.Outcome.(type) {
	case BattingFirst:
		if outcome.RunsScored < 1 {
			return standings.Row{}, fmt.Errorf("%w: runs scored must be positive, got %d",
				ErrInvalidRequest, outcome.RunsScored)
		}
	case BowlingFirst:
		if outcome.OpponentRuns < 0 {
			return standings.Row{}, fmt.Errorf("%w: opponent runs cannot be negative, got %d",
				ErrInvalidRequest, outcome.OpponentRuns)
		}
	}

	return team, nil
}

func (e *Engine) battingFirst(ctx context.Context, req Request, team standings.Row, outcome BattingFirst) (*Result, error) {
	balls := req.Overs * constants.BallsPerOver
	low, high := e.window.battingDomain(outcome.RunsScored)

	s, err := e.scan(ctx, team, req.DesiredPosition, low, high, func(oppRuns int) (float64, error) {
		return standings.ProjectedRate(team, outcome.RunsScored, balls, oppRuns, balls)
	})
	if err != nil {
		return nil, err
	}

	result := newResult(BranchBattingFirst, s)
	if !s.feasible() {
		result.TextOutputs = []string{
			fmt.Sprintf("%s cannot reach position %d", req.Team, req.DesiredPosition),
		}
		return result, nil
	}

	// Fewer opponent runs means a higher rate, so the rate bounds are crossed.
	minRuns, maxRuns := s.first.value, s.last.value
	result.Structured.MinRuns = &minRuns
	result.Structured.MaxRuns = &maxRuns
	result.Structured.MinNRR = s.last.rate
	result.Structured.MaxNRR = s.first.rate
	result.TextOutputs = []string{
		fmt.Sprintf("If %s score %d runs in %d overs, %s need to restrict %s between %d to %d runs in %d overs.",
			req.Team, outcome.RunsScored, req.Overs, req.Team, req.Opponent, minRuns, maxRuns, req.Overs),
		fmt.Sprintf("Revised NRR of %s will be between %.2f to %.2f.",
			req.Team, result.Structured.MinNRR, result.Structured.MaxNRR),
	}
	return result, nil
}

func (e *Engine) bowlingFirst(ctx context.Context, req Request, team standings.Row, outcome BowlingFirst) (*Result, error) {
	target := outcome.OpponentRuns + 1
	totalBalls := req.Overs * constants.BallsPerOver
	low, high := e.window.chaseDomain(totalBalls)
	if low < 1 {
		low = 1
	}

	s, err := e.scan(ctx, team, req.DesiredPosition, low, high, func(balls int) (float64, error) {
		return standings.ProjectedRate(team, target, balls, outcome.OpponentRuns, totalBalls)
	})
	if err != nil {
		return nil, err
	}

	result := newResult(BranchBowlingFirst, s)
	if !s.feasible() {
		result.TextOutputs = []string{
			fmt.Sprintf("%s cannot reach position %d by chasing %d", req.Team, req.DesiredPosition, target),
		}
		return result, nil
	}

	// A quicker chase means a higher rate, so the rate bounds are crossed.
	quickOvers := stats.Encode(s.first.value)
	slowOvers := stats.Encode(s.last.value)
	result.Structured.MinOvers = &quickOvers
	result.Structured.MaxOvers = &slowOvers
	result.Structured.MinNRR = s.last.rate
	result.Structured.MaxNRR = s.first.rate
	result.TextOutputs = []string{
		fmt.Sprintf("%s need to chase %d between %s and %s overs.", req.Team, target, quickOvers, slowOvers),
		fmt.Sprintf("Revised NRR for %s will be between %.2f to %.2f.",
			req.Team, result.Structured.MinNRR, result.Structured.MaxNRR),
	}
	return result, nil
}

// scan walks [low, high] in ascending order, re-ranking the table for every
// candidate. The whole domain is always visited; feasibility is not assumed to
// be monotonic.
func (e *Engine) scan(ctx context.Context, team standings.Row, desired, low, high int, rate func(int) (float64, error)) (scanResult, error) {
	s := scanResult{low: low, high: high}
	newPoints := team.Points + constants.PointsPerWin

	for value := low; value <= high; value++ {
		if err := ctx.Err(); err != nil {
			return scanResult{}, err
		}

		r, err := rate(value)
		if err != nil {
			return scanResult{}, err
		}
		rank, err := e.table.RankAfterSubstitution(team.Team, newPoints, r)
		if err != nil {
			return scanResult{}, err
		}
		s.evaluated++

		ev := evaluation{value: value, rate: r, rank: rank, desired: desired}
		if !ev.feasible() {
			continue
		}
		if s.first == nil {
			first := ev
			s.first = &first
		}
		last := ev
		s.last = &last
	}

	return s, nil
}

func newResult(branch Branch, s scanResult) *Result {
	return &Result{
		Branch:     branch,
		Feasible:   s.feasible(),
		DomainLow:  s.low,
		DomainHigh: s.high,
		Evaluated:  s.evaluated,
	}
}
