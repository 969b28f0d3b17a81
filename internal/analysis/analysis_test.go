package analysis

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/emfield/internal/emitters"
	"github.com/san-kum/emfield/internal/field"
	"github.com/san-kum/emfield/internal/grid"
	"gonum.org/v1/gonum/spatial/r3"
)

func electric(t *testing.T, g *grid.Grid, charges map[r3.Vec]float64) *grid.Sampled {
	t.Helper()
	var ems []field.Emitter
	for p, q := range charges {
		pc, err := emitters.NewPointCharge(field.Natural(), q, p)
		if err != nil {
			t.Fatal(err)
		}
		ems = append(ems, pc)
	}
	s, err := grid.NewEngine().Evaluate(context.Background(), g, ems, grid.Request{Quantity: field.Electric})
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestBoxFluxGauss(t *testing.T) {
	g, err := grid.New(grid.Cube(1), [3]int{21, 21, 21})
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name    string
		charges map[r3.Vec]float64
		want    float64
	}{
		{"single", map[r3.Vec]float64{{X: 0.03, Y: 0.02, Z: -0.01}: 1}, 1},
		{"double", map[r3.Vec]float64{{X: 0.03, Y: 0.02, Z: -0.01}: 2}, 2},
		{"offset pair", map[r3.Vec]float64{{X: 0.21, Y: 0.13}: 1.5, {X: -0.33, Z: 0.17}: -0.5}, 1},
		{"outside", map[r3.Vec]float64{{X: 2.5}: 3}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := electric(t, g, tt.charges)
			q, err := EnclosedCharge(s, field.Natural())
			if err != nil {
				t.Fatal(err)
			}
			if math.Abs(q-tt.want) > 0.05*math.Max(1, math.Abs(tt.want)) {
				t.Errorf("expected enclosed charge %g, got %g", tt.want, q)
			}
		})
	}
}

func TestBoxFluxFacesSymmetric(t *testing.T) {
	g, _ := grid.New(grid.Cube(1), [3]int{11, 11, 11})
	s := electric(t, g, map[r3.Vec]float64{{X: 0.05, Y: 0.05, Z: 0.05}: 1})
	f, err := BoxFlux(s)
	if err != nil {
		t.Fatal(err)
	}
	if f.Masked != 0 {
		t.Errorf("expected no masked face cells, got %d", f.Masked)
	}
	for i, v := range f.Faces {
		if v <= 0 {
			t.Errorf("face %d: expected outward flux, got %g", i, v)
		}
	}
}

func TestBoxFluxRejectsPlane(t *testing.T) {
	g, _ := grid.NewPlane(grid.Cube(1), 5, field.AxisZ, 0)
	s := electric(t, g, map[r3.Vec]float64{{X: 0.1, Y: 0.1, Z: 0.1}: 1})
	if _, err := BoxFlux(s); !errors.Is(err, ErrNotVolume) {
		t.Errorf("expected ErrNotVolume, got %v", err)
	}
}

func TestSummarize(t *testing.T) {
	g, _ := grid.NewPlane(grid.Cube(1), 2, field.AxisZ, 0)
	s := &grid.Sampled{
		Grid:     g,
		Quantity: field.Electric,
		X:        []float64{3, 0, 100, math.NaN()},
		Y:        []float64{4, 0, 0, 0},
		Z:        []float64{0, 1, 0, 0},
		Singular: []bool{false, false, true, false},
	}
	sum := Summarize(s)
	if sum.Points != 4 || sum.Singular != 1 {
		t.Errorf("expected 4 points with 1 singular, got %d/%d", sum.Points, sum.Singular)
	}
	if sum.Min != 1 || sum.Max != 5 || sum.ArgMax != 0 {
		t.Errorf("expected min 1 max 5 at 0, got %g %g at %d", sum.Min, sum.Max, sum.ArgMax)
	}
	if sum.Mean != 3 {
		t.Errorf("expected mean 3, got %g", sum.Mean)
	}
	if math.Abs(sum.StdDev-math.Sqrt(8)) > 1e-12 {
		t.Errorf("expected stddev sqrt(8), got %g", sum.StdDev)
	}
	if math.Abs(sum.RMS-math.Sqrt(13)) > 1e-12 {
		t.Errorf("expected rms sqrt(13), got %g", sum.RMS)
	}
}

func TestSummarizeAllMasked(t *testing.T) {
	g, _ := grid.NewPlane(grid.Cube(1), 2, field.AxisZ, 0)
	s := &grid.Sampled{
		Grid:     g,
		X:        make([]float64, 4),
		Y:        make([]float64, 4),
		Z:        make([]float64, 4),
		Singular: []bool{true, true, true, true},
	}
	if sum := Summarize(s); sum.ArgMax != -1 || sum.Max != 0 {
		t.Errorf("expected empty summary, got %+v", sum)
	}
}

func TestPowerSpectrum(t *testing.T) {
	n := 64
	data := make([]float64, n)
	for i := range data {
		data[i] = 2 + math.Cos(2*math.Pi*5*float64(i)/float64(n))
	}
	ps := PowerSpectrum(data)
	if len(ps) != n/2+1 {
		t.Fatalf("expected %d bins, got %d", n/2+1, len(ps))
	}
	if math.Abs(ps[0]-2*float64(n)) > 1e-9 {
		t.Errorf("expected DC %g, got %g", 2*float64(n), ps[0])
	}
	if math.Abs(ps[5]-float64(n)/2) > 1e-9 {
		t.Errorf("expected bin 5 %g, got %g", float64(n)/2, ps[5])
	}
	if ps[4] > 1e-9 || ps[6] > 1e-9 {
		t.Errorf("expected leakage-free neighbours, got %g %g", ps[4], ps[6])
	}
}

func TestProbeSpectrumDipole(t *testing.T) {
	d, err := emitters.NewDipole(field.SI(), emitters.DipoleSpec{Frequency: 1e6, Power: 1})
	if err != nil {
		t.Fatal(err)
	}
	sp, err := ProbeSpectrum(d, field.Electric, r3.Vec{X: 50}, 16, 4)
	if err != nil {
		t.Fatal(err)
	}
	if sp.Component != field.AxisZ {
		t.Errorf("expected broadside E along z, got %v", sp.Component)
	}
	if len(sp.Series) != 64 {
		t.Errorf("expected 64 samples, got %d", len(sp.Series))
	}
	if f := sp.DominantFrequency(); math.Abs(f-1e6) > 1e-3 {
		t.Errorf("expected dominant frequency 1e6, got %g", f)
	}
}

func TestProbeSpectrumErrors(t *testing.T) {
	pc, _ := emitters.NewPointCharge(field.SI(), 1e-9, r3.Vec{})
	if _, err := ProbeSpectrum(pc, field.Electric, r3.Vec{X: 1}, 16, 2); !errors.Is(err, ErrStaticEmitter) {
		t.Errorf("expected ErrStaticEmitter, got %v", err)
	}
	d, _ := emitters.NewDipole(field.SI(), emitters.DipoleSpec{Frequency: 1e6, Power: 1})
	if _, err := ProbeSpectrum(d, field.Electric, r3.Vec{X: 1}, 1, 2); err == nil {
		t.Error("expected error for one sample per period")
	}
	if _, err := ProbeSpectrum(d, field.Electric, r3.Vec{}, 8, 1); !field.IsSingular(err) {
		t.Errorf("expected singular probe at the source, got %v", err)
	}
}
