package nabla

import (
	"github.com/san-kum/emfield/internal/field"
	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

// DefaultStep is the central-difference step of the pointwise operators, in
// the units of the field point.
const DefaultStep = 0.01

// ScalarField is a closed-form scalar field.
type ScalarField func(p r3.Vec) (float64, error)

// VectorField is a closed-form vector field.
type VectorField func(p r3.Vec) (r3.Vec, error)

// EmitterScalar samples the real part of an emitter's scalar potential at t.
func EmitterScalar(e field.Emitter, t float64) ScalarField {
	return func(p r3.Vec) (float64, error) {
		v, err := e.ScalarPotential(p, t)
		return real(v), err
	}
}

// EmitterVector samples the real part of quantity q of e at t.
func EmitterVector(e field.Emitter, q field.Quantity, t float64) VectorField {
	return func(p r3.Vec) (r3.Vec, error) {
		return field.EvaluateReal(e, q, p, t)
	}
}

func vec(x []float64) r3.Vec { return r3.Vec{X: x[0], Y: x[1], Z: x[2]} }

// GradientAt differentiates f at p.
func GradientAt(f ScalarField, p r3.Vec, step float64) (r3.Vec, error) {
	var firstErr error
	g := fd.Gradient(nil, func(x []float64) float64 {
		v, err := f(vec(x))
		if err != nil && firstErr == nil {
			firstErr = err
		}
		return v
	}, []float64{p.X, p.Y, p.Z}, &fd.Settings{Formula: fd.Central, Step: step})
	if firstErr != nil {
		return r3.Vec{}, firstErr
	}
	return vec(g), nil
}

// JacobianAt returns J[i][j] = dF_i/dx_j at p.
func JacobianAt(f VectorField, p r3.Vec, step float64) (*mat.Dense, error) {
	var firstErr error
	jac := mat.NewDense(3, 3, nil)
	fd.Jacobian(jac, func(y, x []float64) {
		v, err := f(vec(x))
		if err != nil && firstErr == nil {
			firstErr = err
		}
		y[0], y[1], y[2] = v.X, v.Y, v.Z
	}, []float64{p.X, p.Y, p.Z}, &fd.JacobianSettings{Formula: fd.Central, Step: step})
	if firstErr != nil {
		return nil, firstErr
	}
	return jac, nil
}

// CurlAt differentiates f at p.
func CurlAt(f VectorField, p r3.Vec, step float64) (r3.Vec, error) {
	j, err := JacobianAt(f, p, step)
	if err != nil {
		return r3.Vec{}, err
	}
	return r3.Vec{
		X: j.At(2, 1) - j.At(1, 2),
		Y: j.At(0, 2) - j.At(2, 0),
		Z: j.At(1, 0) - j.At(0, 1),
	}, nil
}

// DivergenceAt differentiates f at p.
func DivergenceAt(f VectorField, p r3.Vec, step float64) (float64, error) {
	j, err := JacobianAt(f, p, step)
	if err != nil {
		return 0, err
	}
	return mat.Trace(j), nil
}
