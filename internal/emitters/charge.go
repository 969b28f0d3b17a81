package emitters

import (
	"github.com/san-kum/emfield/internal/field"
	"gonum.org/v1/gonum/spatial/r3"
)

// PointCharge is a point charge at R0, optionally moving with a constant
// Velocity. A moving charge contributes B and A as a current source.
type PointCharge struct {
	Q        float64
	R0       r3.Vec
	Velocity r3.Vec
	consts   field.Constants
}

func NewPointCharge(c field.Constants, q float64, r0 r3.Vec) (*PointCharge, error) {
	return NewMovingCharge(c, q, r0, r3.Vec{})
}

func NewMovingCharge(c field.Constants, q float64, r0, v r3.Vec) (*PointCharge, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if !finite(q) {
		return nil, &field.EmitterConfigError{Param: "q", Value: q, Reason: "charge must be finite"}
	}
	if !finiteVec(r0) || !finiteVec(v) {
		return nil, &field.EmitterConfigError{Param: "position", Reason: "position and velocity must be finite"}
	}
	return &PointCharge{Q: q, R0: r0, Velocity: v, consts: c}, nil
}

func (pc *PointCharge) Name() string               { return "charge" }
func (pc *PointCharge) Position() r3.Vec           { return pc.R0 }
func (pc *PointCharge) Constants() field.Constants { return pc.consts }

// ScalarPotential is ke q / |r - r0|.
func (pc *PointCharge) ScalarPotential(p r3.Vec, _ float64) (complex128, error) {
	_, r, err := separation(pc.Name(), p, pc.R0)
	if err != nil {
		return 0, err
	}
	return complex(pc.consts.Ke()*pc.Q/r, 0), nil
}

// Electric is ke q (r - r0) / |r - r0|^3.
func (pc *PointCharge) Electric(p r3.Vec, _ float64) (field.CVec3, error) {
	d, r, err := separation(pc.Name(), p, pc.R0)
	if err != nil {
		return field.CVec3{}, err
	}
	return field.Complex(r3.Scale(pc.consts.Ke()*pc.Q/(r*r*r), d)), nil
}

// Magnetic is km q (v x (r - r0)) / |r - r0|^3; zero for a charge at rest.
func (pc *PointCharge) Magnetic(p r3.Vec, _ float64) (field.CVec3, error) {
	d, r, err := separation(pc.Name(), p, pc.R0)
	if err != nil {
		return field.CVec3{}, err
	}
	return field.Complex(r3.Scale(pc.consts.Km()*pc.Q/(r*r*r), r3.Cross(pc.Velocity, d))), nil
}

// VectorPotential is km q v / |r - r0|.
func (pc *PointCharge) VectorPotential(p r3.Vec, _ float64) (field.CVec3, error) {
	_, r, err := separation(pc.Name(), p, pc.R0)
	if err != nil {
		return field.CVec3{}, err
	}
	return field.Complex(r3.Scale(pc.consts.Km()*pc.Q/r, pc.Velocity)), nil
}

func (pc *PointCharge) GetParams() map[string]float64 {
	return map[string]float64{
		"q":     pc.Q,
		"speed": r3.Norm(pc.Velocity),
	}
}
