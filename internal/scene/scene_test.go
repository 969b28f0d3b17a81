package scene

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/emfield/internal/config"
	"github.com/san-kum/emfield/internal/field"
	"github.com/san-kum/emfield/internal/grid"
	"github.com/san-kum/emfield/internal/limit"
	"gonum.org/v1/gonum/spatial/r3"
)

func build(t *testing.T, cfg *config.Config) *Scene {
	t.Helper()
	s, err := Build(cfg, nil, nil, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return s
}

func TestBuildPresets(t *testing.T) {
	for _, name := range config.ListScenes() {
		for _, variant := range config.ListPresets(name) {
			t.Run(name+"/"+variant, func(t *testing.T) {
				s := build(t, config.GetPreset(name, variant))
				if len(s.Emitters) == 0 {
					t.Fatalf("expected emitters")
				}
				if _, ok := s.Grid.Plane(); !ok {
					t.Errorf("expected presets to use plane grids")
				}
			})
		}
	}
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *config.Config)
		target error
	}{
		{"unknown units", func(c *config.Config) { c.Units = "gaussian" }, nil},
		{"unknown quantity", func(c *config.Config) { c.Quantity = "D" }, nil},
		{"unknown plane", func(c *config.Config) { c.Plane = "uv" }, nil},
		{"bad resolution", func(c *config.Config) { c.Resolution = []int{1} }, field.ErrInvalidGrid},
		{"no emitters", func(c *config.Config) { c.Emitters = nil }, field.ErrNoEmitters},
		{"unknown emitter", func(c *config.Config) { c.Emitters[0].Type = "magnet" }, nil},
		{"bad dipole", func(c *config.Config) {
			c.Emitters = []config.EmitterConfig{{Type: "dipole", Frequency: -1, Power: 1}}
		}, field.ErrInvalidEmitter},
		{"mismatched current", func(c *config.Config) {
			c.Emitters = []config.EmitterConfig{{Type: "current", I: 1, Points: [][3]float64{{0, 0, 0}}}}
		}, field.ErrInvalidEmitter},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.GetPreset("quadrupole", "field")
			tt.mutate(cfg)
			_, err := Build(cfg, nil, nil, nil)
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.target != nil && !errors.Is(err, tt.target) {
				t.Errorf("expected %v, got %v", tt.target, err)
			}
		})
	}
}

func TestParsePlane(t *testing.T) {
	tests := []struct {
		in     string
		normal field.Axis
		volume bool
	}{
		{"xy", field.AxisZ, false},
		{"YZ", field.AxisX, false},
		{"zx", field.AxisY, false},
		{"3d", field.AxisZ, true},
		{"", field.AxisZ, true},
	}
	for _, tt := range tests {
		n, v, err := ParsePlane(tt.in)
		if err != nil || n != tt.normal || v != tt.volume {
			t.Errorf("%q: expected (%v, %v), got (%v, %v, %v)", tt.in, tt.normal, tt.volume, n, v, err)
		}
	}
}

func TestStaticSceneSingleFrame(t *testing.T) {
	s := build(t, config.GetPreset("quadrupole", "field"))
	if _, ok := s.Period(); ok {
		t.Errorf("expected static scene")
	}
	frames, err := s.Animate(context.Background(), 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(frames) != 1 {
		t.Fatalf("expected 1 frame, got %d", len(frames))
	}
	sl := frames[0].Slice
	nu, nv := sl.Shape()
	if nu != 20 || nv != 20 {
		t.Errorf("expected 20x20 slice, got %dx%d", nu, nv)
	}
	bound := 0.0
	for i := range sl.FU {
		bound = math.Max(bound, math.Hypot(sl.FU[i], sl.FV[i]))
	}
	mean := 0.0
	raw := frames[0].Field.Slice(field.AxisZ, 0)
	for i := range raw.FU {
		mean += math.Hypot(raw.FU[i], raw.FV[i])
	}
	mean /= float64(len(raw.FU))
	if bound > 50*mean*(1+1e-9) {
		t.Errorf("expected magnitudes clipped to %g, got %g", 50*mean, bound)
	}
}

func TestAntennaAnimation(t *testing.T) {
	cfg := config.GetPreset("antenna", "half")
	cfg.Resolution = []int{12}
	s := build(t, cfg)
	period, ok := s.Period()
	if !ok || math.Abs(period-1e-9) > 1e-21 {
		t.Fatalf("expected 1 ns period, got %g %v", period, ok)
	}
	if s.Request.Derive != grid.DeriveCurl || s.Request.Quantity != field.VectorPotential {
		t.Errorf("expected curl of A, got %v", s.Request)
	}
	frames, err := s.Animate(context.Background(), 4)
	if err != nil {
		t.Fatal(err)
	}
	if len(frames) != 4 {
		t.Fatalf("expected 4 frames, got %d", len(frames))
	}
	for i, f := range frames {
		if f.Index != i || math.Abs(f.T-float64(i)*period/4) > 1e-21 {
			t.Errorf("frame %d: unexpected index %d at t=%g", i, f.Index, f.T)
		}
	}
	if s.DisplayScale() != 50 {
		t.Errorf("expected half-wave display scale 50, got %g", s.DisplayScale())
	}
	full := build(t, config.GetPreset("antenna", "full"))
	if full.DisplayScale() != 100 {
		t.Errorf("expected full-wave display scale 100, got %g", full.DisplayScale())
	}
	cfg.Limit.Scale = 7
	if build(t, cfg).DisplayScale() != 7 {
		t.Errorf("expected configured scale override")
	}
}

func TestVolumeSceneSlicesAtPlane(t *testing.T) {
	cfg := config.GetPreset("conductor", "pair")
	cfg.Plane = "3d"
	cfg.Resolution = []int{5, 5, 3}
	cfg.PlaneAt = 3
	s := build(t, cfg)
	if s.Grid.Shape() != [3]int{5, 5, 3} {
		t.Fatalf("expected volume grid, got %v", s.Grid.Shape())
	}
	f, err := s.Frame(context.Background(), 0)
	if err != nil {
		t.Fatal(err)
	}
	if f.Slice.Normal != field.AxisZ || f.Slice.At != 3 {
		t.Errorf("expected top z layer, got %v at %g", f.Slice.Normal, f.Slice.At)
	}
}

func TestParams(t *testing.T) {
	s := build(t, config.GetPreset("antenna", "array"))
	p := s.Params()
	if p["antenna1.dphi"] != 90 || p["antenna0.length"] != 0.5 {
		t.Errorf("unexpected params %v", p)
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	want := []string{"antenna", "charge", "current", "dipole", "ellipse", "line", "loop", "moving_loop"}
	got := r.ListEmitters()
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("expected %v, got %v", want, got)
		}
	}
	ems, err := r.Build(field.SI(), config.EmitterConfig{Type: "moving_loop", Q: 1, Radius: 1, Speed: 1})
	if err != nil {
		t.Fatal(err)
	}
	if len(ems) != config.DefaultElements {
		t.Errorf("expected %d charges, got %d", config.DefaultElements, len(ems))
	}
	if _, err := r.Build(field.SI(), config.EmitterConfig{Type: "loop", I: 1, Radius: 1, Normal: "w"}); err == nil {
		t.Errorf("expected axis error")
	}
}

func TestClipSingleFrame(t *testing.T) {
	s := build(t, config.GetPreset("quadrupole", "field"))
	f, err := s.Frame(context.Background(), 0)
	if err != nil {
		t.Fatal(err)
	}
	bound := limit.MeanMagnitude(f.Slice.FU, f.Slice.FV, f.Slice.Singular) * s.DisplayScale()
	n, err := s.Clip(f)
	if err != nil {
		t.Fatal(err)
	}
	if n != f.Clipped {
		t.Errorf("expected Clipped %d, got %d", n, f.Clipped)
	}
	for i := range f.Slice.FU {
		if m := math.Hypot(f.Slice.FU[i], f.Slice.FV[i]); m > bound*(1+1e-12) {
			t.Fatalf("cell %d: expected |F| <= %g, got %g", i, bound, m)
		}
	}
}

func TestAntennaCurlPresetFieldLiesInPlane(t *testing.T) {
	s := build(t, config.GetPreset("antenna", "half"))
	if !s.Magnetic() {
		t.Fatalf("expected curl of A to be magnetic")
	}
	period, _ := s.Period()
	f, err := s.Frame(context.Background(), period/8)
	if err != nil {
		t.Fatal(err)
	}
	sl := f.Slice
	inPlane, normal := 0.0, 0.0
	for i := range sl.FU {
		inPlane = math.Max(inPlane, math.Hypot(sl.FU[i], sl.FV[i]))
		normal = math.Max(normal, math.Abs(sl.FN[i]))
	}
	if inPlane == 0 || normal > 1e-6*inPlane {
		t.Fatalf("expected B in the xy plane, got in-plane %g normal %g", inPlane, normal)
	}

	// the grid curl agrees with the pointwise one away from the feed
	type sample struct {
		idx  int
		want r3.Vec
	}
	var samples []sample
	peak := 0.0
	nu, nv := sl.Shape()
	for a := 0; a < nu; a += 3 {
		for b := 0; b < nv; b += 3 {
			p := r3.Vec{X: sl.UCoords[a], Y: sl.VCoords[b], Z: sl.At}
			if r := r3.Norm(p); r < 0.2 || r > 0.5 {
				continue
			}
			want, err := s.Probe(p, f.T, 0)
			if err != nil {
				t.Fatal(err)
			}
			samples = append(samples, sample{idx: sl.Index(a, b), want: want})
			peak = math.Max(peak, r3.Norm(want))
		}
	}
	if len(samples) == 0 || peak == 0 {
		t.Fatal("expected sample points in the annulus")
	}
	for _, smp := range samples {
		i := smp.idx
		got := r3.Vec{X: sl.FU[i], Y: sl.FV[i], Z: sl.FN[i]}
		if d := r3.Norm(r3.Sub(got, smp.want)); d > 0.1*peak {
			t.Errorf("sample %d: grid curl %v, pointwise %v", i, got, smp.want)
		}
	}
}

func TestFrameTone(t *testing.T) {
	s := build(t, config.GetPreset("antenna", "half"))
	period, _ := s.Period()
	f, err := s.Frame(context.Background(), period/8)
	if err != nil {
		t.Fatal(err)
	}
	sl := f.Slice
	if len(sl.Tone) != len(sl.FU) {
		t.Fatalf("expected a tone per sample, got %d for %d", len(sl.Tone), len(sl.FU))
	}
	peak := 0.0
	for i := range sl.FU {
		peak = math.Max(peak, math.Hypot(sl.FU[i], sl.FV[i]))
	}
	for i, tone := range sl.Tone {
		// in the xy plane phi^ = (-y, x)/rho, so the tone is the in-plane
		// field projected on it
		nu := len(sl.VCoords)
		x, y := sl.UCoords[i/nu], sl.VCoords[i%nu]
		rho := math.Hypot(x, y)
		want := (-y*sl.FU[i] + x*sl.FV[i]) / rho
		if math.Abs(tone-want) > 1e-9*peak {
			t.Fatalf("sample %d: expected tone %g, got %g", i, want, tone)
		}
	}

	e := build(t, config.GetPreset("antenna", "short"))
	if e.Magnetic() {
		t.Errorf("expected E scene not to be magnetic")
	}
	ef, err := e.Frame(context.Background(), period/8)
	if err != nil {
		t.Fatal(err)
	}
	// xz plane: z is the V axis
	for i := range ef.Slice.Tone {
		if ef.Slice.Tone[i] != ef.Slice.FV[i] {
			t.Fatalf("sample %d: expected the z component as tone", i)
		}
	}

	p := build(t, config.GetPreset("quadrupole", "potential"))
	pf, err := p.Frame(context.Background(), 0)
	if err != nil {
		t.Fatal(err)
	}
	if pf.Slice.Tone != nil {
		t.Errorf("expected no tone for a scalar frame")
	}
}
