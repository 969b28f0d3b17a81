package metrics

import "math"

// Frame is one evaluated field grid.
type Frame interface {
	Components() (x, y, z []float64)
	Mask() []bool
	Time() float64
}

// Metric accumulates a scalar summary over a sequence of frames.
type Metric interface {
	Name() string
	Observe(f Frame)
	Value() float64
	Reset()
}

// eachMagnitude calls fn with |F| for every unmasked cell.
func eachMagnitude(f Frame, fn func(m float64)) {
	x, y, z := f.Components()
	mask := f.Mask()
	for i := range x {
		if mask != nil && mask[i] {
			continue
		}
		m := math.Sqrt(x[i]*x[i] + y[i]*y[i] + z[i]*z[i])
		if math.IsNaN(m) || math.IsInf(m, 0) {
			continue
		}
		fn(m)
	}
}

// MeanMagnitude is the mean |F| over all unmasked cells of all frames.
type MeanMagnitude struct {
	sum   float64
	cells int
}

func NewMeanMagnitude() *MeanMagnitude { return &MeanMagnitude{} }

func (m *MeanMagnitude) Name() string { return "mean_magnitude" }

func (m *MeanMagnitude) Observe(f Frame) {
	eachMagnitude(f, func(v float64) {
		m.sum += v
		m.cells++
	})
}

func (m *MeanMagnitude) Value() float64 {
	if m.cells == 0 {
		return 0
	}
	return m.sum / float64(m.cells)
}

func (m *MeanMagnitude) Reset() {
	m.sum = 0
	m.cells = 0
}

type PeakMagnitude struct {
	peak float64
}

func NewPeakMagnitude() *PeakMagnitude { return &PeakMagnitude{} }

func (p *PeakMagnitude) Name() string { return "peak_magnitude" }

func (p *PeakMagnitude) Observe(f Frame) {
	eachMagnitude(f, func(v float64) {
		if v > p.peak {
			p.peak = v
		}
	})
}

func (p *PeakMagnitude) Value() float64 { return p.peak }
func (p *PeakMagnitude) Reset()         { p.peak = 0 }

// Coverage is the fraction of cells that were not masked as singular.
type Coverage struct {
	masked int
	cells  int
}

func NewCoverage() *Coverage { return &Coverage{} }

func (c *Coverage) Name() string { return "coverage" }

func (c *Coverage) Observe(f Frame) {
	x, _, _ := f.Components()
	c.cells += len(x)
	for _, m := range f.Mask() {
		if m {
			c.masked++
		}
	}
}

func (c *Coverage) Value() float64 {
	if c.cells == 0 {
		return 1.0
	}
	return 1.0 - float64(c.masked)/float64(c.cells)
}

func (c *Coverage) Reset() {
	c.masked = 0
	c.cells = 0
}

// Standard returns the metrics reported for every run.
func Standard() []Metric {
	return []Metric{NewMeanMagnitude(), NewPeakMagnitude(), NewCoverage()}
}
