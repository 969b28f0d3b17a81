package scene

import (
	"fmt"

	"github.com/san-kum/emfield/internal/field"
	"github.com/san-kum/emfield/internal/grid"
	"github.com/san-kum/emfield/internal/nabla"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r3"
)

// Probe evaluates the scene request at a single point, applying the
// derivation with the pointwise operators and the given step. Scalar
// results are returned in X. A step of zero selects nabla.DefaultStep.
func (s *Scene) Probe(p r3.Vec, t, step float64) (r3.Vec, error) {
	if step <= 0 {
		step = nabla.DefaultStep
	}
	req := s.Request
	if err := req.Validate(); err != nil {
		return r3.Vec{}, err
	}

	vector := func(q field.Quantity) nabla.VectorField {
		return func(x r3.Vec) (r3.Vec, error) {
			var sum r3.Vec
			for _, e := range s.Emitters {
				v, err := field.EvaluateReal(e, q, x, t)
				if err != nil {
					return r3.Vec{}, err
				}
				sum = r3.Add(sum, v)
			}
			return sum, nil
		}
	}
	scalar := func(x r3.Vec) (float64, error) {
		v, err := vector(field.Potential)(x)
		return v.X, err
	}

	switch req.Derive {
	case grid.DeriveNone:
		return vector(req.Quantity)(p)
	case grid.DeriveGradient:
		return nabla.GradientAt(scalar, p, step)
	case grid.DeriveNegGradient:
		g, err := nabla.GradientAt(scalar, p, step)
		return r3.Scale(-1, g), err
	case grid.DeriveCurl:
		return nabla.CurlAt(vector(req.Quantity), p, step)
	case grid.DeriveCurlCurl:
		inner := vector(req.Quantity)
		return nabla.CurlAt(func(x r3.Vec) (r3.Vec, error) {
			return nabla.CurlAt(inner, x, step)
		}, p, step)
	case grid.DeriveDivergence:
		d, err := nabla.DivergenceAt(vector(req.Quantity), p, step)
		return r3.Vec{X: d}, err
	}
	return r3.Vec{}, fmt.Errorf("scene: unknown operator %s", req.Derive)
}

// Line samples the probe along axis a between lo and hi, through the point
// base. Singular samples are reported in mask and left zero.
func (s *Scene) Line(a field.Axis, lo, hi float64, n int, base r3.Vec, t, step float64) (coords []float64, vals []r3.Vec, mask []bool, err error) {
	if n < 2 {
		return nil, nil, nil, fmt.Errorf("scene: need at least 2 samples, got %d", n)
	}
	coords = floats.Span(make([]float64, n), lo, hi)
	vals = make([]r3.Vec, n)
	mask = make([]bool, n)
	u := a.Unit()
	origin := r3.Sub(base, r3.Scale(a.Component(base), u))
	for i, c := range coords {
		v, err := s.Probe(r3.Add(origin, r3.Scale(c, u)), t, step)
		if field.IsSingular(err) {
			mask[i] = true
			continue
		}
		if err != nil {
			return nil, nil, nil, err
		}
		vals[i] = v
	}
	return coords, vals, mask, nil
}
