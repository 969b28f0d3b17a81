package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector bundles the Prometheus metrics of the evaluation engine.
type Collector struct {
	Evaluations   *prometheus.CounterVec
	Durations     *prometheus.HistogramVec
	GridPoints    prometheus.Gauge
	SingularCells *prometheus.CounterVec
}

// NewCollector registers the engine metrics against reg, defaulting to the
// global registry when nil. Registering twice returns the existing metrics.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	evals, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "emfield_evaluations_total",
		Help: "Grid evaluations, labeled by quantity and outcome.",
	}, []string{"quantity", "outcome"}))
	if err != nil {
		return nil, err
	}
	durations, err := register(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "emfield_evaluation_duration_seconds",
		Help:    "Grid evaluation latency in seconds.",
		Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10},
	}, []string{"quantity"}))
	if err != nil {
		return nil, err
	}
	points, err := register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "emfield_grid_points",
		Help: "Number of points in the most recently evaluated grid.",
	}))
	if err != nil {
		return nil, err
	}
	singular, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "emfield_singular_cells_total",
		Help: "Grid cells masked because a field diverged there.",
	}, []string{"quantity"}))
	if err != nil {
		return nil, err
	}

	return &Collector{
		Evaluations:   evals,
		Durations:     durations,
		GridPoints:    points,
		SingularCells: singular,
	}, nil
}

// ObserveEvaluation records one grid evaluation. A nil collector is a no-op.
func (c *Collector) ObserveEvaluation(quantity string, points, singular int, d time.Duration, err error) {
	if c == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	c.Evaluations.WithLabelValues(quantity, outcome).Inc()
	if err != nil {
		return
	}
	c.Durations.WithLabelValues(quantity).Observe(d.Seconds())
	c.GridPoints.Set(float64(points))
	c.SingularCells.WithLabelValues(quantity).Add(float64(singular))
}

func register[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
			var zero T
			return zero, fmt.Errorf("metrics: collector already registered with incompatible type: %w", err)
		}
		var zero T
		return zero, err
	}
	return c, nil
}
