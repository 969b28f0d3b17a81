package field

import (
	"gonum.org/v1/gonum/spatial/r3"
)

// Emitter is a field source. Every method is a pure function of the field
// point p and time t; static emitters ignore t.
type Emitter interface {
	Name() string
	Position() r3.Vec
	Constants() Constants

	ScalarPotential(p r3.Vec, t float64) (complex128, error)
	VectorPotential(p r3.Vec, t float64) (CVec3, error)
	Electric(p r3.Vec, t float64) (CVec3, error)
	// Magnetic returns the flux density B.
	Magnetic(p r3.Vec, t float64) (CVec3, error)
}

// Radiator is an emitter with harmonic time dependence.
type Radiator interface {
	Emitter
	Frequency() float64
	Period() float64
	Wavelength() float64
}

// Evaluate dispatches q to the matching emitter method. Scalar quantities
// are returned as (value, 0, 0).
func Evaluate(e Emitter, q Quantity, p r3.Vec, t float64) (CVec3, error) {
	switch q {
	case Potential:
		phi, err := e.ScalarPotential(p, t)
		if err != nil {
			return CVec3{}, err
		}
		return CVec3{phi, 0, 0}, nil
	case VectorPotential:
		return e.VectorPotential(p, t)
	case Electric:
		return e.Electric(p, t)
	case MagneticB:
		return e.Magnetic(p, t)
	case MagneticH:
		b, err := e.Magnetic(p, t)
		if err != nil {
			return CVec3{}, err
		}
		return b.Scale(complex(1/e.Constants().Mu0, 0)), nil
	case Poynting:
		return poynting(e, p, t)
	default:
		return CVec3{}, ErrUnsupportedQuantity
	}
}

// EvaluateReal returns the physical (real) part of Evaluate.
func EvaluateReal(e Emitter, q Quantity, p r3.Vec, t float64) (r3.Vec, error) {
	v, err := Evaluate(e, q, p, t)
	if err != nil {
		return r3.Vec{}, err
	}
	return v.Real(), nil
}

// poynting takes real parts before the cross product: S = Re(E) x Re(H).
func poynting(e Emitter, p r3.Vec, t float64) (CVec3, error) {
	ef, err := e.Electric(p, t)
	if err != nil {
		return CVec3{}, err
	}
	bf, err := e.Magnetic(p, t)
	if err != nil {
		return CVec3{}, err
	}
	h := r3.Scale(1/e.Constants().Mu0, bf.Real())
	return Complex(r3.Cross(ef.Real(), h)), nil
}
