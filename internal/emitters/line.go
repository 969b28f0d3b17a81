package emitters

import (
	"math"

	"github.com/san-kum/emfield/internal/field"
	"gonum.org/v1/gonum/spatial/r3"
)

// LineConductor is an infinite straight wire parallel to z through R0,
// carrying current I in +z.
type LineConductor struct {
	I      float64
	R0     r3.Vec
	consts field.Constants
}

func NewLineConductor(c field.Constants, current float64, r0 r3.Vec) (*LineConductor, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if !finite(current) || !finiteVec(r0) {
		return nil, &field.EmitterConfigError{Param: "I", Value: current, Reason: "current and position must be finite"}
	}
	return &LineConductor{I: current, R0: r0, consts: c}, nil
}

func (lc *LineConductor) Name() string               { return "line" }
func (lc *LineConductor) Position() r3.Vec           { return lc.R0 }
func (lc *LineConductor) Constants() field.Constants { return lc.consts }

// radial returns the in-plane offset from the wire axis.
func (lc *LineConductor) radial(p r3.Vec) (dx, dy, rho float64, err error) {
	dx, dy = p.X-lc.R0.X, p.Y-lc.R0.Y
	rho = math.Hypot(dx, dy)
	if rho < field.SingularityTolerance {
		return dx, dy, rho, field.Singular(lc.Name(), p, "field point on wire axis")
	}
	return dx, dy, rho, nil
}

func (lc *LineConductor) ScalarPotential(p r3.Vec, _ float64) (complex128, error) {
	_, _, _, err := lc.radial(p)
	return 0, err
}

func (lc *LineConductor) Electric(p r3.Vec, _ float64) (field.CVec3, error) {
	_, _, _, err := lc.radial(p)
	return field.CVec3{}, err
}

// Magnetic is mu0 I / (2 pi rho) along phi^.
func (lc *LineConductor) Magnetic(p r3.Vec, _ float64) (field.CVec3, error) {
	dx, dy, rho, err := lc.radial(p)
	if err != nil {
		return field.CVec3{}, err
	}
	mag := lc.consts.Mu0 * lc.I / (2 * math.Pi * rho * rho)
	return field.Complex(r3.Vec{X: -mag * dy, Y: mag * dx}), nil
}

// VectorPotential is A_z = -(mu0 I / 4 pi) ln(rho^2), gauged to vanish at rho = 1.
func (lc *LineConductor) VectorPotential(p r3.Vec, _ float64) (field.CVec3, error) {
	_, _, rho, err := lc.radial(p)
	if err != nil {
		return field.CVec3{}, err
	}
	az := -lc.consts.Km() * lc.I * math.Log(rho*rho)
	return field.CVec3{0, 0, complex(az, 0)}, nil
}

func (lc *LineConductor) GetParams() map[string]float64 {
	return map[string]float64{"I": lc.I}
}
