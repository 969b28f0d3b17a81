package analysis

import (
	"math"

	"github.com/san-kum/emfield/internal/grid"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary describes the magnitude distribution of a sampled field.
type Summary struct {
	Points   int
	Singular int
	Min      float64
	Max      float64
	Mean     float64
	StdDev   float64
	RMS      float64
	// ArgMax is the grid index of the largest magnitude, -1 if none.
	ArgMax int
}

// Summarize reduces |F| over the unmasked, finite cells of s.
func Summarize(s *grid.Sampled) Summary {
	out := Summary{Points: len(s.X), Singular: s.SingularCount(), ArgMax: -1}
	mags := s.Magnitude()
	vals := make([]float64, 0, len(mags))
	index := make([]int, 0, len(mags))
	for i, m := range mags {
		if s.Singular[i] || math.IsNaN(m) || math.IsInf(m, 0) {
			continue
		}
		vals = append(vals, m)
		index = append(index, i)
	}
	if len(vals) == 0 {
		return out
	}
	out.Min = floats.Min(vals)
	out.Max = floats.Max(vals)
	out.ArgMax = index[floats.MaxIdx(vals)]
	out.Mean, out.StdDev = stat.MeanStdDev(vals, nil)
	if len(vals) == 1 {
		out.StdDev = 0
	}
	out.RMS = floats.Norm(vals, 2) / math.Sqrt(float64(len(vals)))
	return out
}

// Values flattens the summary for run metadata.
func (s Summary) Values() map[string]float64 {
	return map[string]float64{
		"min":      s.Min,
		"max":      s.Max,
		"mean":     s.Mean,
		"stddev":   s.StdDev,
		"rms":      s.RMS,
		"singular": float64(s.Singular),
	}
}
