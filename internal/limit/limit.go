// Package limit bounds vector magnitudes for display.
package limit

import (
	"fmt"
	"math"

	"github.com/san-kum/emfield/internal/emitters"
	"github.com/san-kum/emfield/internal/field"
)

// BaseScale multiplies the lower bound for every emitter.
const BaseScale = 50.0

// DisplayScale returns the clipping factor for quantity q of e. Full-wave
// antennas have twice the broadside amplitude of fractional ones and get
// twice the headroom, four times for the Poynting vector which goes as the
// amplitude squared.
func DisplayScale(e field.Emitter, q field.Quantity) float64 {
	a, ok := e.(*emitters.Antenna)
	if !ok || !a.FullWave() {
		return BaseScale
	}
	if q == field.Poynting {
		return 4 * BaseScale
	}
	return 2 * BaseScale
}

// SceneScale is the largest DisplayScale among ems.
func SceneScale(ems []field.Emitter, q field.Quantity) float64 {
	scale := BaseScale
	for _, e := range ems {
		scale = math.Max(scale, DisplayScale(e, q))
	}
	return scale
}

// Clip rescales every (u[i], v[i]) whose length exceeds fmin*scale to that
// length, keeping its direction. Non-finite cells are zeroed. The inputs are
// modified in place; the number of clipped cells is returned.
func Clip(u, v []float64, fmin, scale float64) (int, error) {
	if len(u) != len(v) {
		return 0, fmt.Errorf("limit: component lengths differ: %d and %d", len(u), len(v))
	}
	bound := fmin * scale
	if math.IsNaN(bound) || bound < 0 {
		return 0, fmt.Errorf("limit: invalid bound %g", bound)
	}
	clipped := 0
	for i := range u {
		m := math.Hypot(u[i], v[i])
		if math.IsNaN(m) || math.IsInf(m, 0) {
			u[i], v[i] = 0, 0
			clipped++
			continue
		}
		if m > bound {
			f := bound / m
			u[i] *= f
			v[i] *= f
			clipped++
		}
	}
	return clipped, nil
}

// MeanMagnitude is the mean of hypot(u, v) over cells not masked and finite.
func MeanMagnitude(u, v []float64, mask []bool) float64 {
	sum, n := 0.0, 0
	for i := range u {
		if mask != nil && mask[i] {
			continue
		}
		m := math.Hypot(u[i], v[i])
		if math.IsNaN(m) || math.IsInf(m, 0) {
			continue
		}
		sum += m
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// Normalize scales every nonzero (u[i], v[i]) to unit length in place.
func Normalize(u, v []float64) {
	for i := range u {
		m := math.Hypot(u[i], v[i])
		if m == 0 || math.IsNaN(m) || math.IsInf(m, 0) {
			u[i], v[i] = 0, 0
			continue
		}
		u[i] /= m
		v[i] /= m
	}
}

// Limiter clips a sequence of frames against a bound fixed by the first.
type Limiter struct {
	Scale float64
	fmin  float64
	ready bool
}

func NewLimiter(scale float64) *Limiter { return &Limiter{Scale: scale} }

// Apply clips u, v in place. The first call fixes fmin to the mean
// magnitude of that frame.
func (l *Limiter) Apply(u, v []float64, mask []bool) (int, error) {
	if !l.ready {
		l.fmin = MeanMagnitude(u, v, mask)
		l.ready = true
	}
	return Clip(u, v, l.fmin, l.Scale)
}

// Bound returns fmin*scale, or +Inf before the first frame.
func (l *Limiter) Bound() float64 {
	if !l.ready {
		return math.Inf(1)
	}
	return l.fmin * l.Scale
}
