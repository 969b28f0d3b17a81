package emitters

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/emfield/internal/field"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestPointChargeInverseSquare(t *testing.T) {
	c := field.SI()
	pc, err := NewPointCharge(c, 1, r3.Vec{})
	if err != nil {
		t.Fatal(err)
	}
	want := c.Ke()
	for _, r := range []float64{1, 2, 4, 8} {
		e, err := pc.Electric(r3.Vec{X: r}, 0)
		if err != nil {
			t.Fatal(err)
		}
		got := r3.Norm(e.Real()) * r * r
		if math.Abs(got-want)/want > 1e-12 {
			t.Errorf("r=%g: expected |E| r^2 = %g, got %g", r, want, got)
		}
	}
}

func TestPointChargePotential(t *testing.T) {
	c := field.Natural()
	pc, _ := NewPointCharge(c, -2, r3.Vec{X: 1, Y: 1})
	phi, err := pc.ScalarPotential(r3.Vec{X: 1, Y: 3}, 0)
	if err != nil {
		t.Fatal(err)
	}
	want := c.Ke() * -2 / 2
	if math.Abs(real(phi)-want) > 1e-15 || imag(phi) != 0 {
		t.Errorf("expected %g, got %v", want, phi)
	}
}

func TestPointChargeAtRestHasNoMagneticField(t *testing.T) {
	pc, _ := NewPointCharge(field.SI(), 1, r3.Vec{})
	b, err := pc.Magnetic(r3.Vec{X: 1, Y: 2, Z: 3}, 0)
	if err != nil {
		t.Fatal(err)
	}
	if b != (field.CVec3{}) {
		t.Errorf("expected zero B, got %v", b)
	}
}

func TestMovingCharge(t *testing.T) {
	c := field.SI()
	pc, err := NewMovingCharge(c, 1, r3.Vec{}, r3.Vec{X: 1})
	if err != nil {
		t.Fatal(err)
	}
	b, err := pc.Magnetic(r3.Vec{Y: 1}, 0)
	if err != nil {
		t.Fatal(err)
	}
	// v x d = x^ x y^ = z^
	got := b.Real()
	if math.Abs(got.Z-c.Km()) > 1e-20 || got.X != 0 || got.Y != 0 {
		t.Errorf("expected B = (0, 0, %g), got %v", c.Km(), got)
	}

	a, err := pc.VectorPotential(r3.Vec{Y: 2}, 0)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(real(a[0])-c.Km()/2) > 1e-20 {
		t.Errorf("expected A_x = %g, got %v", c.Km()/2, a[0])
	}
}

func TestPointChargeSingular(t *testing.T) {
	pc, _ := NewPointCharge(field.SI(), 1, r3.Vec{X: 1})
	_, err := pc.Electric(r3.Vec{X: 1}, 0)
	if !field.IsSingular(err) {
		t.Fatalf("expected singular field error, got %v", err)
	}
	var se *field.SingularFieldError
	if !errors.As(err, &se) || se.Emitter != "charge" {
		t.Errorf("expected SingularFieldError from charge, got %v", err)
	}
	if _, err := pc.ScalarPotential(r3.Vec{X: 1}, 0); !field.IsSingular(err) {
		t.Errorf("expected singular potential, got %v", err)
	}
}

func TestZeroChargeYieldsZeroField(t *testing.T) {
	pc, err := NewPointCharge(field.SI(), 0, r3.Vec{})
	if err != nil {
		t.Fatal(err)
	}
	e, _ := pc.Electric(r3.Vec{X: 1}, 0)
	if e != (field.CVec3{}) {
		t.Errorf("expected zero field, got %v", e)
	}
}

func TestPointChargeRejectsNonFinite(t *testing.T) {
	if _, err := NewPointCharge(field.SI(), math.NaN(), r3.Vec{}); !errors.Is(err, field.ErrInvalidEmitter) {
		t.Errorf("expected ErrInvalidEmitter, got %v", err)
	}
	if _, err := NewPointCharge(field.SI(), 1, r3.Vec{X: math.Inf(1)}); !errors.Is(err, field.ErrInvalidEmitter) {
		t.Errorf("expected ErrInvalidEmitter, got %v", err)
	}
}
