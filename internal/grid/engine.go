package grid

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/san-kum/emfield/internal/compute"
	"github.com/san-kum/emfield/internal/field"
	"github.com/san-kum/emfield/internal/logging"
	"github.com/san-kum/emfield/internal/metrics"
	"github.com/san-kum/emfield/internal/nabla"
)

// Derive selects the differential operator applied after sampling.
type Derive int

const (
	DeriveNone Derive = iota
	DeriveGradient
	DeriveNegGradient
	DeriveCurl
	DeriveCurlCurl
	DeriveDivergence
)

var deriveNames = map[Derive]string{
	DeriveNone:        "none",
	DeriveGradient:    "grad",
	DeriveNegGradient: "-grad",
	DeriveCurl:        "curl",
	DeriveCurlCurl:    "curlcurl",
	DeriveDivergence:  "div",
}

func (d Derive) String() string {
	if s, ok := deriveNames[d]; ok {
		return s
	}
	return fmt.Sprintf("Derive(%d)", int(d))
}

func ParseDerive(s string) (Derive, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return DeriveNone, nil
	case "grad", "gradient":
		return DeriveGradient, nil
	case "-grad", "neggrad", "negative-gradient":
		return DeriveNegGradient, nil
	case "curl", "rot":
		return DeriveCurl, nil
	case "curlcurl", "curl-curl", "rotrot":
		return DeriveCurlCurl, nil
	case "div", "divergence":
		return DeriveDivergence, nil
	}
	return 0, fmt.Errorf("grid: unknown operator %q", s)
}

func (d Derive) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

func (d *Derive) UnmarshalText(b []byte) error {
	v, err := ParseDerive(string(b))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// Request describes one grid evaluation.
type Request struct {
	Quantity field.Quantity
	Derive   Derive
	Time     float64
}

// Validate checks that the operator applies to the quantity.
func (r Request) Validate() error {
	switch r.Derive {
	case DeriveNone:
		return nil
	case DeriveGradient, DeriveNegGradient:
		if !r.Quantity.Scalar() {
			return fmt.Errorf("%w: %s of vector quantity %s", field.ErrUnsupportedQuantity, r.Derive, r.Quantity)
		}
	case DeriveCurl, DeriveCurlCurl, DeriveDivergence:
		if r.Quantity.Scalar() {
			return fmt.Errorf("%w: %s of scalar quantity %s", field.ErrUnsupportedQuantity, r.Derive, r.Quantity)
		}
	default:
		return fmt.Errorf("grid: unknown operator %d", int(r.Derive))
	}
	return nil
}

// Engine superposes emitter fields on grids.
type Engine struct {
	backend  compute.Backend
	logger   logging.Logger
	metrics  *metrics.Collector
	minChunk int
}

type Option func(*Engine)

func WithBackend(b compute.Backend) Option { return func(e *Engine) { e.backend = b } }

func WithLogger(l logging.Logger) Option { return func(e *Engine) { e.logger = l } }

func WithMetrics(c *metrics.Collector) Option { return func(e *Engine) { e.metrics = c } }

// WithMinChunk sets the smallest index range handed to one worker.
func WithMinChunk(n int) Option { return func(e *Engine) { e.minChunk = n } }

func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		backend:  compute.GetBackend(),
		logger:   logging.Noop(),
		minChunk: 64,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.backend == nil {
		e.backend = compute.NewSerialBackend()
	}
	if e.logger == nil {
		e.logger = logging.Noop()
	}
	return e
}

// Evaluate samples req.Quantity of every emitter on g, sums the real parts
// and applies req.Derive to the sampled grid.
func (e *Engine) Evaluate(ctx context.Context, g *Grid, emitters []field.Emitter, req Request) (*Sampled, error) {
	start := time.Now()
	s, err := e.evaluate(ctx, g, emitters, req)
	label := req.Quantity.String()
	if req.Derive != DeriveNone {
		label = req.Derive.String() + "(" + label + ")"
	}
	if err != nil {
		e.metrics.ObserveEvaluation(label, 0, 0, time.Since(start), err)
		e.logger.Error(ctx, "grid evaluation failed", logging.String("quantity", label), logging.Err(err))
		return nil, err
	}
	elapsed := time.Since(start)
	e.metrics.ObserveEvaluation(label, s.Grid.Len(), s.SingularCount(), elapsed, nil)
	e.logger.Debug(ctx, "grid evaluated",
		logging.String("quantity", label),
		logging.Int("points", s.Grid.Len()),
		logging.Int("emitters", len(emitters)),
		logging.Int("singular", s.SingularCount()),
		logging.Float64("t", req.Time),
		logging.Duration("elapsed", elapsed),
	)
	return s, nil
}

func (e *Engine) evaluate(ctx context.Context, g *Grid, emitters []field.Emitter, req Request) (*Sampled, error) {
	if g == nil {
		return nil, fmt.Errorf("%w: nil grid", field.ErrInvalidGrid)
	}
	if len(emitters) == 0 {
		return nil, field.ErrNoEmitters
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	normal, plane := g.Plane()
	half := stencil(req.Derive)
	if !plane || half == 0 {
		s, err := e.Sample(ctx, g, emitters, req.Quantity, req.Time)
		if err != nil {
			return nil, err
		}
		return applyDerive(s, req.Derive)
	}

	// Derivatives across the pinned axis need neighbouring layers.
	slab := g.slab(normal, half)
	s, err := e.Sample(ctx, slab, emitters, req.Quantity, req.Time)
	if err != nil {
		return nil, err
	}
	d, err := applyDerive(s, req.Derive)
	if err != nil {
		return nil, err
	}
	return d.layer(g, normal, half), nil
}

// stencil is the number of layers a derivation reads on each side of a
// sample.
func stencil(d Derive) int {
	switch d {
	case DeriveNone:
		return 0
	case DeriveCurlCurl:
		return 2
	}
	return 1
}

// Sample evaluates q at time t for every emitter and grid point and sums the
// real parts. A singular contribution masks the cell; any other emitter
// error aborts the evaluation.
func (e *Engine) Sample(ctx context.Context, g *Grid, emitters []field.Emitter, q field.Quantity, t float64) (*Sampled, error) {
	if len(emitters) == 0 {
		return nil, field.ErrNoEmitters
	}
	s := newSampled(g, q, t)
	err := e.backend.ParallelFor(ctx, g.Len(), e.minChunk, func(lo, hi int) error {
		for idx := lo; idx < hi; idx++ {
			if idx%1024 == 0 {
				if err := ctx.Err(); err != nil {
					return err
				}
			}
			p := g.Point(idx)
			var acc field.CVec3
			singular := false
			for _, em := range emitters {
				v, err := field.Evaluate(em, q, p, t)
				if err != nil {
					if field.IsSingular(err) {
						singular = true
						break
					}
					return fmt.Errorf("grid: %s of %s at (%g, %g, %g): %w", q, em.Name(), p.X, p.Y, p.Z, err)
				}
				acc = acc.Add(v)
			}
			re := acc.Real()
			if singular || !field.Finite(re) {
				s.Singular[idx] = true
				continue
			}
			s.set(idx, re)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

func applyDerive(s *Sampled, d Derive) (*Sampled, error) {
	if d == DeriveNone {
		return s, nil
	}
	g := s.Grid
	shape, h := g.Shape(), g.Spacing()
	out := &Sampled{Grid: g, Quantity: s.Quantity, Derive: d, T: s.T}

	var err error
	switch d {
	case DeriveGradient, DeriveNegGradient:
		out.X, out.Y, out.Z, err = nabla.Gradient(s.X, shape, h)
		if err == nil && d == DeriveNegGradient {
			for i := range out.X {
				out.X[i], out.Y[i], out.Z[i] = -out.X[i], -out.Y[i], -out.Z[i]
			}
		}
		out.Singular = dilate(g, s.Singular, 1)
	case DeriveCurl:
		out.X, out.Y, out.Z, err = nabla.Curl(s.X, s.Y, s.Z, shape, h)
		out.Singular = dilate(g, s.Singular, 1)
	case DeriveCurlCurl:
		var rx, ry, rz []float64
		rx, ry, rz, err = nabla.Curl(s.X, s.Y, s.Z, shape, h)
		if err == nil {
			out.X, out.Y, out.Z, err = nabla.Curl(rx, ry, rz, shape, h)
		}
		out.Singular = dilate(g, s.Singular, 2)
	case DeriveDivergence:
		out.X, err = nabla.Divergence(s.X, s.Y, s.Z, shape, h)
		out.Y, out.Z = make([]float64, len(out.X)), make([]float64, len(out.X))
		out.Singular = dilate(g, s.Singular, 1)
	}
	if err != nil {
		return nil, err
	}
	for i, m := range out.Singular {
		if m {
			out.X[i], out.Y[i], out.Z[i] = 0, 0, 0
		}
	}
	return out, nil
}

// dilate grows the mask by steps cells along every sampled axis, covering
// the finite-difference stencils that touched a masked cell.
func dilate(g *Grid, mask []bool, steps int) []bool {
	cur := make([]bool, len(mask))
	copy(cur, mask)
	shape := g.Shape()
	for s := 0; s < steps; s++ {
		next := make([]bool, len(cur))
		copy(next, cur)
		for idx, m := range cur {
			if !m {
				continue
			}
			i, j, k := g.Unravel(idx)
			ijk := [3]int{i, j, k}
			for a := 0; a < 3; a++ {
				for _, off := range [2]int{-1, 1} {
					n := ijk
					n[a] += off
					if n[a] < 0 || n[a] >= shape[a] {
						continue
					}
					next[g.Index(n[0], n[1], n[2])] = true
				}
			}
		}
		cur = next
	}
	return cur
}
