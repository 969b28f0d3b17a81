package emitters

import (
	"github.com/san-kum/emfield/internal/field"
	"gonum.org/v1/gonum/spatial/r3"
)

// CurrentElement is a wire carrying current I, discretized into elements
// DL[i] located at R0[i]. Only the listed elements contribute; the curve is
// not implicitly closed.
type CurrentElement struct {
	I      float64
	R0     []r3.Vec
	DL     []r3.Vec
	consts field.Constants
}

func NewCurrentElement(c field.Constants, current float64, r0, dl []r3.Vec) (*CurrentElement, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if len(r0) == 0 {
		return nil, &field.EmitterConfigError{Param: "elements", Value: 0, Reason: "at least one current element required"}
	}
	if len(r0) != len(dl) {
		return nil, &field.EmitterConfigError{Param: "elements", Value: float64(len(dl)), Reason: "position and direction counts differ"}
	}
	if !finite(current) {
		return nil, &field.EmitterConfigError{Param: "I", Value: current, Reason: "current must be finite"}
	}
	ce := &CurrentElement{
		I:      current,
		R0:     make([]r3.Vec, len(r0)),
		DL:     make([]r3.Vec, len(dl)),
		consts: c,
	}
	copy(ce.R0, r0)
	copy(ce.DL, dl)
	return ce, nil
}

func (ce *CurrentElement) Name() string               { return "current" }
func (ce *CurrentElement) Constants() field.Constants { return ce.consts }

// Position is the centroid of the element positions.
func (ce *CurrentElement) Position() r3.Vec {
	var c r3.Vec
	for _, r := range ce.R0 {
		c = r3.Add(c, r)
	}
	return r3.Scale(1/float64(len(ce.R0)), c)
}

// ScalarPotential is zero: the wire is neutral.
func (ce *CurrentElement) ScalarPotential(p r3.Vec, _ float64) (complex128, error) {
	if err := ce.checkPoint(p); err != nil {
		return 0, err
	}
	return 0, nil
}

// Electric is zero for a steady current in a neutral wire.
func (ce *CurrentElement) Electric(p r3.Vec, _ float64) (field.CVec3, error) {
	if err := ce.checkPoint(p); err != nil {
		return field.CVec3{}, err
	}
	return field.CVec3{}, nil
}

// Magnetic sums km I (dl_i x (r - r0_i)) / |r - r0_i|^3.
func (ce *CurrentElement) Magnetic(p r3.Vec, _ float64) (field.CVec3, error) {
	km := ce.consts.Km() * ce.I
	var b r3.Vec
	for i := range ce.R0 {
		d, r, err := separation(ce.Name(), p, ce.R0[i])
		if err != nil {
			return field.CVec3{}, err
		}
		b = r3.Add(b, r3.Scale(km/(r*r*r), r3.Cross(ce.DL[i], d)))
	}
	return field.Complex(b), nil
}

// VectorPotential sums km I dl_i / |r - r0_i|.
func (ce *CurrentElement) VectorPotential(p r3.Vec, _ float64) (field.CVec3, error) {
	km := ce.consts.Km() * ce.I
	var a r3.Vec
	for i := range ce.R0 {
		_, r, err := separation(ce.Name(), p, ce.R0[i])
		if err != nil {
			return field.CVec3{}, err
		}
		a = r3.Add(a, r3.Scale(km/r, ce.DL[i]))
	}
	return field.Complex(a), nil
}

func (ce *CurrentElement) checkPoint(p r3.Vec) error {
	for _, r0 := range ce.R0 {
		if _, _, err := separation(ce.Name(), p, r0); err != nil {
			return err
		}
	}
	return nil
}

func (ce *CurrentElement) GetParams() map[string]float64 {
	return map[string]float64{
		"I":        ce.I,
		"elements": float64(len(ce.R0)),
	}
}
