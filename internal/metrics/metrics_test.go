package metrics

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
)

type frame struct {
	x, y, z []float64
	mask    []bool
}

func (f frame) Components() (x, y, z []float64) { return f.x, f.y, f.z }
func (f frame) Mask() []bool                    { return f.mask }
func (f frame) Time() float64                   { return 0 }

func TestFrameMetrics(t *testing.T) {
	f := frame{
		x:    []float64{3, 0, 100, math.NaN()},
		y:    []float64{4, 0, 0, 0},
		z:    []float64{0, 2, 0, 0},
		mask: []bool{false, false, true, false},
	}
	mean, peak, cov := NewMeanMagnitude(), NewPeakMagnitude(), NewCoverage()
	for _, m := range []Metric{mean, peak, cov} {
		m.Observe(f)
	}
	if got := mean.Value(); math.Abs(got-3.5) > 1e-12 {
		t.Errorf("expected mean 3.5, got %f", got)
	}
	if got := peak.Value(); got != 5 {
		t.Errorf("expected peak 5, got %f", got)
	}
	if got := cov.Value(); got != 0.75 {
		t.Errorf("expected coverage 0.75, got %f", got)
	}

	for _, m := range Standard() {
		m.Observe(f)
		m.Reset()
	}
	mean.Reset()
	cov.Reset()
	if mean.Value() != 0 || cov.Value() != 1.0 {
		t.Errorf("expected reset metrics, got mean %f coverage %f", mean.Value(), cov.Value())
	}
}

func TestCollectorRecordsEvaluation(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := NewCollector(reg)
	if err != nil {
		t.Fatalf("NewCollector: %v", err)
	}

	c.ObserveEvaluation("E", 400, 3, 20*time.Millisecond, nil)
	c.ObserveEvaluation("E", 400, 0, time.Millisecond, errors.New("boom"))

	if got := testutil.ToFloat64(c.Evaluations.WithLabelValues("E", "ok")); got != 1 {
		t.Errorf("emfield_evaluations_total{ok} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.Evaluations.WithLabelValues("E", "error")); got != 1 {
		t.Errorf("emfield_evaluations_total{error} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.GridPoints); got != 400 {
		t.Errorf("emfield_grid_points = %v, want 400", got)
	}
	if got := testutil.ToFloat64(c.SingularCells.WithLabelValues("E")); got != 3 {
		t.Errorf("emfield_singular_cells_total = %v, want 3", got)
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	var hist *dto.Histogram
	for _, mf := range families {
		if mf.GetName() == "emfield_evaluation_duration_seconds" {
			hist = mf.GetMetric()[0].GetHistogram()
		}
	}
	if hist == nil || hist.GetSampleCount() != 1 {
		t.Errorf("expected one duration sample, got %v", hist)
	}
}

func TestCollectorReusesRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	a, err := NewCollector(reg)
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewCollector(reg)
	if err != nil {
		t.Fatalf("second NewCollector: %v", err)
	}
	a.ObserveEvaluation("B", 10, 0, time.Millisecond, nil)
	if got := testutil.ToFloat64(b.Evaluations.WithLabelValues("B", "ok")); got != 1 {
		t.Errorf("expected shared counter, got %v", got)
	}
}

func TestNilCollector(t *testing.T) {
	var c *Collector
	c.ObserveEvaluation("E", 1, 0, 0, nil)
}
