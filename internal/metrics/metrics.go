// Package metrics exposes Prometheus instruments for calculations and HTTP traffic.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "standings_forecast"

// Metrics records calculation and request counts. It satisfies search.Observer.
type Metrics struct {
	Calculations        *prometheus.CounterVec
	CalculationDuration *prometheus.HistogramVec
	CandidatesEvaluated *prometheus.CounterVec
	HTTPRequests        *prometheus.CounterVec
}

// New registers the instruments on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		Calculations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "calculations_total",
				Help:      "Total number of position calculations by toss branch and outcome",
			},
			[]string{"branch", "outcome"},
		),
		CalculationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "calculation_duration_seconds",
				Help:      "Duration of position calculations in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.00005, 4, 8),
			},
			[]string{"branch"},
		),
		CandidatesEvaluated: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "candidates_evaluated_total",
				Help:      "Total number of candidate outcomes re-ranked",
			},
			[]string{"branch"},
		),
		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests by route and status code",
			},
			[]string{"route", "status"},
		),
	}
}

// ObserveCalculation records one completed calculation.
func (m *Metrics) ObserveCalculation(branch string, feasible bool, evaluated int, elapsed time.Duration) {
	outcome := "infeasible"
	if feasible {
		outcome = "feasible"
	}
	m.Calculations.WithLabelValues(branch, outcome).Inc()
	m.CalculationDuration.WithLabelValues(branch).Observe(elapsed.Seconds())
	m.CandidatesEvaluated.WithLabelValues(branch).Add(float64(evaluated))
}

// ObserveRequest records one served HTTP request.
func (m *Metrics) ObserveRequest(route string, status int) {
	m.HTTPRequests.WithLabelValues(route, strconv.Itoa(status)).Inc()
}
