package limit

import (
	"math"
	"testing"

	"github.com/san-kum/emfield/internal/emitters"
	"github.com/san-kum/emfield/internal/field"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestClip(t *testing.T) {
	u := []float64{3, 30, 0, math.Inf(1), -6}
	v := []float64{4, 40, 0, 0, 8}
	n, err := Clip(u, v, 1, 10)
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Errorf("expected 3 clipped cells, got %d", n)
	}
	want := [][2]float64{{3, 4}, {6, 8}, {0, 0}, {0, 0}, {-6, 8}}
	for i, w := range want {
		if math.Abs(u[i]-w[0]) > 1e-12 || math.Abs(v[i]-w[1]) > 1e-12 {
			t.Errorf("cell %d: expected %v, got (%g, %g)", i, w, u[i], v[i])
		}
	}
}

func TestClipErrors(t *testing.T) {
	if _, err := Clip([]float64{1}, nil, 1, 1); err == nil {
		t.Errorf("expected length mismatch error")
	}
	if _, err := Clip([]float64{1}, []float64{1}, -1, 1); err == nil {
		t.Errorf("expected invalid bound error")
	}
}

func TestMeanMagnitudeAndNormalize(t *testing.T) {
	u := []float64{3, 0, 100, math.NaN()}
	v := []float64{4, 1, 0, 0}
	if got := MeanMagnitude(u, v, []bool{false, false, true, false}); got != 3 {
		t.Errorf("expected 3, got %g", got)
	}
	if got := MeanMagnitude(nil, nil, nil); got != 0 {
		t.Errorf("expected 0 for empty input, got %g", got)
	}
	Normalize(u, v)
	if u[0] != 0.6 || v[0] != 0.8 || u[1] != 0 || v[1] != 1 || u[3] != 0 {
		t.Errorf("unexpected normalized values %v %v", u, v)
	}
}

func TestDisplayScale(t *testing.T) {
	c := field.SI()
	pc, _ := emitters.NewPointCharge(c, 1, r3.Vec{})
	half, _ := emitters.NewAntenna(c, emitters.AntennaSpec{Frequency: 1e9, Power: 1, Length: 0.5})
	full, _ := emitters.NewAntenna(c, emitters.AntennaSpec{Frequency: 1e9, Power: 1, Length: 1})
	short, _ := emitters.NewAntenna(c, emitters.AntennaSpec{Frequency: 1e9, Power: 1})

	tests := []struct {
		name string
		e    field.Emitter
		want float64
	}{
		{"charge", pc, 50},
		{"half wave", half, 50},
		{"full wave", full, 100},
		{"dipole limit", short, 50},
	}
	for _, tt := range tests {
		if got := DisplayScale(tt.e, field.Electric); got != tt.want {
			t.Errorf("%s: expected %g, got %g", tt.name, tt.want, got)
		}
	}
	if got := SceneScale([]field.Emitter{pc, full}, field.MagneticB); got != 100 {
		t.Errorf("expected scene scale 100, got %g", got)
	}
	if got := DisplayScale(full, field.Poynting); got != 200 {
		t.Errorf("expected full-wave Poynting scale 200, got %g", got)
	}
	if got := DisplayScale(half, field.Poynting); got != 50 {
		t.Errorf("expected half-wave Poynting scale 50, got %g", got)
	}
	if got := SceneScale([]field.Emitter{pc, full}, field.Poynting); got != 200 {
		t.Errorf("expected scene Poynting scale 200, got %g", got)
	}
}

func TestLimiterFixesBoundOnFirstFrame(t *testing.T) {
	l := NewLimiter(2)
	if !math.IsInf(l.Bound(), 1) {
		t.Errorf("expected unbounded before first frame")
	}
	u, v := []float64{1, 3}, []float64{0, 0}
	if _, err := l.Apply(u, v, nil); err != nil {
		t.Fatal(err)
	}
	if l.Bound() != 4 {
		t.Errorf("expected bound 4, got %g", l.Bound())
	}
	u2, v2 := []float64{100}, []float64{0}
	n, _ := l.Apply(u2, v2, nil)
	if n != 1 || u2[0] != 4 {
		t.Errorf("expected second frame clipped to 4, got %g", u2[0])
	}
}
