package analysis

import (
	"errors"
	"fmt"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"github.com/san-kum/emfield/internal/field"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r3"
)

var ErrStaticEmitter = errors.New("analysis: emitter does not radiate")

// PowerSpectrum returns |X_k| for k in [0, n/2] of a real series.
func PowerSpectrum(data []float64) []float64 {
	if len(data) == 0 {
		return nil
	}
	x := fft.FFTReal(data)
	ps := make([]float64, len(x)/2+1)
	for i := range ps {
		ps[i] = cmplx.Abs(x[i])
	}
	return ps
}

// Spectrum is the sampled history of one field component at a probe
// point and its one-sided power spectrum.
type Spectrum struct {
	Component field.Axis
	Times     []float64
	Series    []float64
	Freqs     []float64
	Power     []float64
}

// DominantFrequency is the frequency of the strongest non-DC bin.
func (s *Spectrum) DominantFrequency() float64 {
	if len(s.Power) < 2 {
		return 0
	}
	return s.Freqs[1+floats.MaxIdx(s.Power[1:])]
}

// ProbeSpectrum samples the real part of quantity q of a radiating emitter
// at p, samplesPerPeriod times per period for the given number of
// periods. The component with the largest excursion is kept.
func ProbeSpectrum(e field.Emitter, q field.Quantity, p r3.Vec, samplesPerPeriod, periods int) (*Spectrum, error) {
	rad, ok := e.(field.Radiator)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrStaticEmitter, e.Name())
	}
	if samplesPerPeriod < 2 || periods < 1 {
		return nil, fmt.Errorf("analysis: need at least 2 samples per period and 1 period, got %d and %d", samplesPerPeriod, periods)
	}

	n := samplesPerPeriod * periods
	dt := rad.Period() / float64(samplesPerPeriod)
	times := make([]float64, n)
	series := [3][]float64{make([]float64, n), make([]float64, n), make([]float64, n)}
	for i := 0; i < n; i++ {
		t := float64(i) * dt
		v, err := field.EvaluateReal(e, q, p, t)
		if err != nil {
			return nil, err
		}
		times[i] = t
		series[0][i], series[1][i], series[2][i] = v.X, v.Y, v.Z
	}

	best, bestSpan := field.AxisX, -1.0
	for a := field.AxisX; a <= field.AxisZ; a++ {
		if span := floats.Max(series[a]) - floats.Min(series[a]); span > bestSpan {
			best, bestSpan = a, span
		}
	}

	power := PowerSpectrum(series[best])
	freqs := make([]float64, len(power))
	for k := range freqs {
		freqs[k] = float64(k) / (float64(n) * dt)
	}
	return &Spectrum{
		Component: best,
		Times:     times,
		Series:    series[best],
		Freqs:     freqs,
		Power:     power,
	}, nil
}
