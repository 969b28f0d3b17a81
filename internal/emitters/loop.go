package emitters

import (
	"math"

	"github.com/san-kum/emfield/internal/field"
	"gonum.org/v1/gonum/spatial/r3"
)

// EllipticalLoop discretizes an ellipse with semi-axes a and b into n
// elements in the plane normal to axis, centred at center and traversed
// counter-clockwise about the normal. dl carries the element length.
func EllipticalLoop(center r3.Vec, a, b float64, n int, normal field.Axis) (r0, dl []r3.Vec) {
	if n <= 0 {
		return nil, nil
	}
	u, v := normal.InPlane()
	eu, ev := u.Unit(), v.Unit()
	step := 2 * math.Pi / float64(n)
	r0 = make([]r3.Vec, n)
	dl = make([]r3.Vec, n)
	for i := 0; i < n; i++ {
		phi := float64(i) * step
		pos := r3.Add(r3.Scale(a*math.Cos(phi), eu), r3.Scale(b*math.Sin(phi), ev))
		r0[i] = r3.Add(center, pos)
		dl[i] = r3.Add(r3.Scale(-a*math.Sin(phi)*step, eu), r3.Scale(b*math.Cos(phi)*step, ev))
	}
	return r0, dl
}

// CircularLoop is EllipticalLoop with equal semi-axes.
func CircularLoop(center r3.Vec, radius float64, n int, normal field.Axis) (r0, dl []r3.Vec) {
	return EllipticalLoop(center, radius, radius, n, normal)
}

// NewCurrentLoop builds a CurrentElement over a circular loop.
func NewCurrentLoop(c field.Constants, current float64, center r3.Vec, radius float64, n int, normal field.Axis) (*CurrentElement, error) {
	if !(radius > 0) {
		return nil, &field.EmitterConfigError{Param: "radius", Value: radius, Reason: "radius must be positive"}
	}
	r0, dl := CircularLoop(center, radius, n, normal)
	return NewCurrentElement(c, current, r0, dl)
}

// MovingChargeLoop places n charges of charge q on a circle, each moving
// tangentially with the given speed. Their superposition approximates a
// current loop.
func MovingChargeLoop(c field.Constants, q float64, center r3.Vec, radius float64, n int, normal field.Axis, speed float64) ([]field.Emitter, error) {
	if n <= 0 {
		return nil, &field.EmitterConfigError{Param: "n", Value: float64(n), Reason: "at least one charge required"}
	}
	if !(radius > 0) {
		return nil, &field.EmitterConfigError{Param: "radius", Value: radius, Reason: "radius must be positive"}
	}
	r0, dl := CircularLoop(center, radius, n, normal)
	out := make([]field.Emitter, 0, n)
	for i := range r0 {
		v := r3.Scale(speed, r3.Unit(dl[i]))
		pc, err := NewMovingCharge(c, q, r0[i], v)
		if err != nil {
			return nil, err
		}
		out = append(out, pc)
	}
	return out, nil
}
