package emitters

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/emfield/internal/field"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestCurrentLoopCentre(t *testing.T) {
	c := field.SI()
	tests := []struct {
		name   string
		normal field.Axis
		n      int
	}{
		{"xy plane", field.AxisZ, 360},
		{"yz plane", field.AxisX, 50},
		{"zx plane", field.AxisY, 12},
	}
	want := c.Mu0 * 1 / (2 * 1)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loop, err := NewCurrentLoop(c, 1, r3.Vec{}, 1, tt.n, tt.normal)
			if err != nil {
				t.Fatal(err)
			}
			b, err := loop.Magnetic(r3.Vec{}, 0)
			if err != nil {
				t.Fatal(err)
			}
			got := b.Real()
			along := tt.normal.Component(got)
			if math.Abs(along-want)/want > 0.01 {
				t.Errorf("expected B along normal %g, got %g", want, along)
			}
			if off := r3.Norm(r3.Sub(got, r3.Scale(along, tt.normal.Unit()))); off > 1e-9*want {
				t.Errorf("expected B parallel to axis, off-axis part %g", off)
			}
		})
	}
}

func TestCurrentLoopOnAxis(t *testing.T) {
	c := field.SI()
	a := 1.0
	loop, err := NewCurrentLoop(c, 1, r3.Vec{}, a, 50, field.AxisX)
	if err != nil {
		t.Fatal(err)
	}
	for _, x := range []float64{-3, -1, 0.5, 2, 5} {
		b, err := loop.Magnetic(r3.Vec{X: x}, 0)
		if err != nil {
			t.Fatal(err)
		}
		want := c.Mu0 * a * a / (2 * math.Pow(a*a+x*x, 1.5))
		got := real(b[0])
		if math.Abs(got-want)/want > 0.02 {
			t.Errorf("x=%g: expected B_x %g, got %g", x, want, got)
		}
	}
}

func TestCurrentElementIsNeutral(t *testing.T) {
	loop, _ := NewCurrentLoop(field.SI(), 2, r3.Vec{}, 1, 8, field.AxisZ)
	e, err := loop.Electric(r3.Vec{Z: 1}, 0)
	if err != nil || e != (field.CVec3{}) {
		t.Errorf("expected zero E, got %v %v", e, err)
	}
	phi, err := loop.ScalarPotential(r3.Vec{Z: 1}, 0)
	if err != nil || phi != 0 {
		t.Errorf("expected zero potential, got %v %v", phi, err)
	}
}

func TestCurrentElementVectorPotential(t *testing.T) {
	c := field.SI()
	ce, err := NewCurrentElement(c, 3, []r3.Vec{{}}, []r3.Vec{{Z: 0.1}})
	if err != nil {
		t.Fatal(err)
	}
	a, err := ce.VectorPotential(r3.Vec{X: 2}, 0)
	if err != nil {
		t.Fatal(err)
	}
	want := c.Km() * 3 * 0.1 / 2
	if math.Abs(real(a[2])-want) > 1e-20 {
		t.Errorf("expected A_z %g, got %g", want, real(a[2]))
	}
}

func TestCurrentElementSingularOnWire(t *testing.T) {
	r0, dl := CircularLoop(r3.Vec{}, 1, 4, field.AxisZ)
	ce, _ := NewCurrentElement(field.SI(), 1, r0, dl)
	if _, err := ce.Magnetic(r0[2], 0); !field.IsSingular(err) {
		t.Errorf("expected singular error on element, got %v", err)
	}
	if _, err := ce.Electric(r0[1], 0); !field.IsSingular(err) {
		t.Errorf("expected singular error on element, got %v", err)
	}
}

func TestCurrentElementValidation(t *testing.T) {
	c := field.SI()
	tests := []struct {
		name string
		r0   []r3.Vec
		dl   []r3.Vec
	}{
		{"empty", nil, nil},
		{"mismatch", []r3.Vec{{}, {X: 1}}, []r3.Vec{{Y: 1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCurrentElement(c, 1, tt.r0, tt.dl)
			var ce *field.EmitterConfigError
			if !errors.As(err, &ce) {
				t.Fatalf("expected EmitterConfigError, got %v", err)
			}
			if !errors.Is(err, field.ErrInvalidEmitter) {
				t.Errorf("expected ErrInvalidEmitter, got %v", err)
			}
		})
	}
}

func TestCurrentElementCopiesInput(t *testing.T) {
	r0 := []r3.Vec{{X: 1}}
	dl := []r3.Vec{{Y: 1}}
	ce, _ := NewCurrentElement(field.SI(), 1, r0, dl)
	r0[0] = r3.Vec{X: 5}
	if ce.R0[0].X != 1 {
		t.Errorf("expected element positions to be copied")
	}
}

func TestEllipticalLoopGeometry(t *testing.T) {
	r0, dl := EllipticalLoop(r3.Vec{Z: 1}, 2, 1, 4, field.AxisZ)
	if len(r0) != 4 || len(dl) != 4 {
		t.Fatalf("expected 4 elements, got %d %d", len(r0), len(dl))
	}
	want := []r3.Vec{{X: 2, Z: 1}, {Y: 1, Z: 1}, {X: -2, Z: 1}, {Y: -1, Z: 1}}
	for i := range want {
		if r3.Norm(r3.Sub(r0[i], want[i])) > 1e-12 {
			t.Errorf("element %d: expected %v, got %v", i, want[i], r0[i])
		}
		if math.Abs(r3.Dot(dl[i], r3.Sub(r0[i], r3.Vec{Z: 1}))) > 1e-12 && i%2 == 0 {
			t.Errorf("element %d: expected tangent at vertex, got %v", i, dl[i])
		}
	}
	// counter-clockwise about +z
	if dl[0].Y <= 0 {
		t.Errorf("expected dl[0] along +y, got %v", dl[0])
	}
	if r0, dl := EllipticalLoop(r3.Vec{}, 1, 1, 0, field.AxisZ); r0 != nil || dl != nil {
		t.Errorf("expected nil for n=0")
	}
}

func TestMovingChargeLoop(t *testing.T) {
	c := field.SI()
	charges, err := MovingChargeLoop(c, 1, r3.Vec{}, 1, 36, field.AxisZ, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(charges) != 36 {
		t.Fatalf("expected 36 charges, got %d", len(charges))
	}
	var b r3.Vec
	for _, e := range charges {
		v, err := field.EvaluateReal(e, field.MagneticB, r3.Vec{}, 0)
		if err != nil {
			t.Fatal(err)
		}
		b = r3.Add(b, v)
	}
	// 36 charges at unit speed on a unit circle: B = 36 km q v / a^2 along z
	want := 36 * c.Km()
	if math.Abs(b.Z-want)/want > 1e-9 {
		t.Errorf("expected B_z %g, got %g", want, b.Z)
	}

	if _, err := MovingChargeLoop(c, 1, r3.Vec{}, 0, 10, field.AxisZ, 1); !errors.Is(err, field.ErrInvalidEmitter) {
		t.Errorf("expected ErrInvalidEmitter for zero radius, got %v", err)
	}
	if _, err := MovingChargeLoop(c, 1, r3.Vec{}, 1, 0, field.AxisZ, 1); !errors.Is(err, field.ErrInvalidEmitter) {
		t.Errorf("expected ErrInvalidEmitter for no charges, got %v", err)
	}
}

func TestLineConductor(t *testing.T) {
	c := field.SI()
	lc, err := NewLineConductor(c, 2, r3.Vec{X: 1})
	if err != nil {
		t.Fatal(err)
	}
	b, err := lc.Magnetic(r3.Vec{X: 3, Z: 7}, 0)
	if err != nil {
		t.Fatal(err)
	}
	want := c.Mu0 * 2 / (2 * math.Pi * 2)
	got := b.Real()
	if math.Abs(got.Y-want)/want > 1e-12 || math.Abs(got.X) > 1e-20 || got.Z != 0 {
		t.Errorf("expected B = (0, %g, 0), got %v", want, got)
	}

	a, err := lc.VectorPotential(r3.Vec{X: 2}, 0)
	if err != nil {
		t.Fatal(err)
	}
	if real(a[2]) != 0 {
		t.Errorf("expected A_z = 0 at unit distance, got %g", real(a[2]))
	}

	if _, err := lc.Magnetic(r3.Vec{X: 1, Z: 5}, 0); !field.IsSingular(err) {
		t.Errorf("expected singular error on axis, got %v", err)
	}
}
