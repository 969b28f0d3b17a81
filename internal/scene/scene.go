package scene

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/emfield/internal/config"
	"github.com/san-kum/emfield/internal/field"
	"github.com/san-kum/emfield/internal/grid"
	"github.com/san-kum/emfield/internal/limit"
	"github.com/san-kum/emfield/internal/logging"
	"gonum.org/v1/gonum/spatial/r3"
)

// Scene is a configured set of emitters bound to a grid and a request.
type Scene struct {
	Config    *config.Config
	Constants field.Constants
	Grid      *grid.Grid
	Emitters  []field.Emitter
	Request   grid.Request

	normal  field.Axis
	planeAt float64
	phi     *grid.Sampled // azimuthal unit field of magnetic scenes
	engine  *grid.Engine
	logger  logging.Logger
}

// Frame is one time step of a scene, cut to the display plane.
type Frame struct {
	Index   int
	T       float64
	Field   *grid.Sampled
	Slice   *grid.Slice
	Clipped int
}

// ParsePlane maps "xy", "yz" and "xz" to the plane normal. The empty string
// and "3d" select a volume grid.
func ParsePlane(s string) (normal field.Axis, volume bool, err error) {
	switch strings.ToLower(s) {
	case "xy", "yx":
		return field.AxisZ, false, nil
	case "yz", "zy":
		return field.AxisX, false, nil
	case "xz", "zx":
		return field.AxisY, false, nil
	case "", "3d", "volume":
		return field.AxisZ, true, nil
	}
	return 0, false, fmt.Errorf("scene: unknown plane %q", s)
}

// Build resolves cfg into emitters, a grid and a request.
func Build(cfg *config.Config, r *Registry, engine *grid.Engine, logger logging.Logger) (*Scene, error) {
	if r == nil {
		r = NewRegistry()
	}
	if engine == nil {
		engine = grid.NewEngine()
	}
	if logger == nil {
		logger = logging.Noop()
	}
	consts, err := field.ConstantsByName(cfg.Units)
	if err != nil {
		return nil, err
	}
	q, err := field.ParseQuantity(cfg.Quantity)
	if err != nil {
		return nil, err
	}
	d, err := grid.ParseDerive(cfg.Derive)
	if err != nil {
		return nil, err
	}
	normal, volume, err := ParsePlane(cfg.Plane)
	if err != nil {
		return nil, err
	}
	res, err := cfg.GridResolution()
	if err != nil {
		return nil, err
	}

	var g *grid.Grid
	if volume {
		g, err = grid.New(cfg.Bounds, res)
	} else {
		u, v := normal.InPlane()
		n := res[u]
		if res[v] > n {
			n = res[v]
		}
		g, err = grid.NewPlane(cfg.Bounds, n, normal, cfg.PlaneAt)
	}
	if err != nil {
		return nil, err
	}

	var ems []field.Emitter
	for _, ec := range cfg.Emitters {
		built, err := r.Build(consts, ec)
		if err != nil {
			return nil, err
		}
		ems = append(ems, built...)
	}
	if len(ems) == 0 {
		return nil, field.ErrNoEmitters
	}

	s := &Scene{
		Config:    cfg,
		Constants: consts,
		Grid:      g,
		Emitters:  ems,
		Request:   grid.Request{Quantity: q, Derive: d, Time: cfg.Time},
		normal:    normal,
		planeAt:   cfg.PlaneAt,
		engine:    engine,
		logger:    logger.With(logging.String("scene", cfg.Name)),
	}
	if s.Magnetic() {
		s.phi = grid.PhiUnit(g, field.AxisZ, r3.Vec{})
	}
	return s, nil
}

// Magnetic reports whether the request yields B or H: the fields
// themselves or the curl of A.
func (s *Scene) Magnetic() bool {
	switch s.Request.Quantity {
	case field.MagneticB, field.MagneticH:
		return s.Request.Derive == grid.DeriveNone
	case field.VectorPotential:
		return s.Request.Derive == grid.DeriveCurl
	}
	return false
}

// Name is the configured scene name.
func (s *Scene) Name() string { return s.Config.Name }

// Period is the longest period among radiating emitters. Static scenes
// report false.
func (s *Scene) Period() (float64, bool) {
	period, ok := 0.0, false
	for _, e := range s.Emitters {
		if r, isRad := e.(field.Radiator); isRad {
			period = math.Max(period, r.Period())
			ok = true
		}
	}
	return period, ok
}

// DisplayScale is the clipping factor: the configured override, else the
// largest emitter display scale.
func (s *Scene) DisplayScale() float64 {
	if s.Config.Limit.Scale > 0 {
		return s.Config.Limit.Scale
	}
	return limit.SceneScale(s.Emitters, s.Request.Quantity)
}

// Evaluate runs the scene request at time t.
func (s *Scene) Evaluate(ctx context.Context, t float64) (*grid.Sampled, error) {
	req := s.Request
	req.Time = t
	return s.engine.Evaluate(ctx, s.Grid, s.Emitters, req)
}

// Frame evaluates at t and cuts the display plane. No clipping is applied.
// Magnetic frames are toned by the azimuthal component about z, all others
// by the z component.
func (s *Scene) Frame(ctx context.Context, t float64) (*Frame, error) {
	f, err := s.Evaluate(ctx, t)
	if err != nil {
		return nil, err
	}
	sl := f.Slice(s.normal, s.planeAt)
	tone := f.Z
	if s.Magnetic() && s.phi != nil && !f.Scalar() {
		if tone, err = f.Project(s.phi); err != nil {
			return nil, err
		}
	}
	if !f.Scalar() {
		sl.Tone = f.Cut(tone, s.normal, s.planeAt)
	}
	return &Frame{T: t, Field: f, Slice: sl}, nil
}

// Clip bounds a single frame the way Animate bounds its first frame.
func (s *Scene) Clip(f *Frame) (int, error) {
	n, err := limit.NewLimiter(s.DisplayScale()).Apply(f.Slice.FU, f.Slice.FV, f.Slice.Singular)
	f.Clipped = n
	return n, err
}

// Animate samples frames evenly over one period starting at the configured
// time. The magnitude bound, when enabled, is fixed by the first frame.
// Static scenes yield a single frame.
func (s *Scene) Animate(ctx context.Context, frames int) ([]*Frame, error) {
	period, dynamic := s.Period()
	if !dynamic || frames < 1 {
		frames = 1
	}
	var lim *limit.Limiter
	if s.Config.Limit.Enabled {
		lim = limit.NewLimiter(s.DisplayScale())
	}

	out := make([]*Frame, 0, frames)
	for i := 0; i < frames; i++ {
		t := s.Request.Time + period*float64(i)/float64(frames)
		f, err := s.Frame(ctx, t)
		if err != nil {
			return nil, fmt.Errorf("frame %d: %w", i, err)
		}
		f.Index = i
		if lim != nil {
			if f.Clipped, err = lim.Apply(f.Slice.FU, f.Slice.FV, f.Slice.Singular); err != nil {
				return nil, err
			}
		}
		out = append(out, f)
	}
	s.logger.Info(ctx, "animation sampled",
		logging.Int("frames", len(out)),
		logging.Float64("period", period),
		logging.Int("points", s.Grid.Len()),
	)
	return out, nil
}

// Params flattens the parameters of every emitter that reports them,
// prefixing keys with the emitter index.
func (s *Scene) Params() map[string]float64 {
	out := make(map[string]float64)
	for i, e := range s.Emitters {
		p, ok := e.(interface{ GetParams() map[string]float64 })
		if !ok {
			continue
		}
		for k, v := range p.GetParams() {
			out[fmt.Sprintf("%s%d.%s", e.Name(), i, k)] = v
		}
	}
	return out
}
