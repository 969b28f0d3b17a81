package grid

import (
	"fmt"
	"math"

	"github.com/san-kum/emfield/internal/field"
	"gonum.org/v1/gonum/spatial/r3"
)

// Sampled is a vector field on a grid. Scalar quantities occupy X with Y
// and Z zero. Singular marks cells masked during evaluation; their
// components are zero.
type Sampled struct {
	Grid     *Grid
	Quantity field.Quantity
	Derive   Derive
	T        float64
	X, Y, Z  []float64
	Singular []bool
}

func newSampled(g *Grid, q field.Quantity, t float64) *Sampled {
	n := g.Len()
	return &Sampled{
		Grid:     g,
		Quantity: q,
		T:        t,
		X:        make([]float64, n),
		Y:        make([]float64, n),
		Z:        make([]float64, n),
		Singular: make([]bool, n),
	}
}

func (s *Sampled) Components() (x, y, z []float64) { return s.X, s.Y, s.Z }
func (s *Sampled) Mask() []bool                    { return s.Singular }
func (s *Sampled) Time() float64                   { return s.T }

// Scalar reports whether the field carries a single scalar in X.
func (s *Sampled) Scalar() bool {
	switch s.Derive {
	case DeriveDivergence:
		return true
	case DeriveGradient, DeriveNegGradient:
		return false
	}
	return s.Quantity.Scalar()
}

func (s *Sampled) At(idx int) r3.Vec {
	return r3.Vec{X: s.X[idx], Y: s.Y[idx], Z: s.Z[idx]}
}

func (s *Sampled) set(idx int, v r3.Vec) {
	s.X[idx], s.Y[idx], s.Z[idx] = v.X, v.Y, v.Z
}

func (s *Sampled) Magnitude() []float64 {
	out := make([]float64, len(s.X))
	for i := range out {
		out[i] = math.Sqrt(s.X[i]*s.X[i] + s.Y[i]*s.Y[i] + s.Z[i]*s.Z[i])
	}
	return out
}

func (s *Sampled) SingularCount() int {
	n := 0
	for _, m := range s.Singular {
		if m {
			n++
		}
	}
	return n
}

// Project returns the pointwise dot product of s with u.
func (s *Sampled) Project(u *Sampled) ([]float64, error) {
	if len(u.X) != len(s.X) {
		return nil, fmt.Errorf("grid: cannot project fields of %d and %d points", len(s.X), len(u.X))
	}
	out := make([]float64, len(s.X))
	for i := range out {
		out[i] = s.X[i]*u.X[i] + s.Y[i]*u.Y[i] + s.Z[i]*u.Z[i]
	}
	return out, nil
}

// Slice is a 2D cut through a sampled field. Samples are indexed
// a*len(VCoords) + b, with a along U and b along V.
type Slice struct {
	Normal   field.Axis
	U, V     field.Axis
	At       float64
	UCoords  []float64
	VCoords  []float64
	FU, FV   []float64 // in-plane components
	FN       []float64 // normal component
	Singular []bool
	// Tone is an optional per-sample scalar whose sign colours the arrows.
	Tone []float64
}

func (sl *Slice) Shape() (nu, nv int) { return len(sl.UCoords), len(sl.VCoords) }

func (sl *Slice) Index(a, b int) int { return a*len(sl.VCoords) + b }

// planeAxes orders the in-plane axes for display: x before y before z.
func planeAxes(normal field.Axis) (u, v field.Axis) {
	switch normal {
	case field.AxisX:
		return field.AxisY, field.AxisZ
	case field.AxisY:
		return field.AxisX, field.AxisZ
	default:
		return field.AxisX, field.AxisY
	}
}

// Slice cuts s with the plane normal to normal nearest to at. Plane grids
// pinned on normal always yield their only layer.
func (s *Sampled) Slice(normal field.Axis, at float64) *Slice {
	g := s.Grid
	layer, src := g.cut(normal, at)
	u, v := planeAxes(normal)
	sl := &Slice{
		Normal:  normal,
		U:       u,
		V:       v,
		At:      g.Coords(normal)[layer],
		UCoords: g.Coords(u),
		VCoords: g.Coords(v),
	}
	n := len(src)
	sl.FU, sl.FV, sl.FN = make([]float64, n), make([]float64, n), make([]float64, n)
	sl.Singular = make([]bool, n)

	comp := [3][]float64{s.X, s.Y, s.Z}
	for dst, i := range src {
		sl.FU[dst] = comp[u][i]
		sl.FV[dst] = comp[v][i]
		sl.FN[dst] = comp[normal][i]
		sl.Singular[dst] = s.Singular[i]
	}
	return sl
}

// Cut slices a per-point scalar of s the way Slice cuts the components.
func (s *Sampled) Cut(vals []float64, normal field.Axis, at float64) []float64 {
	_, src := s.Grid.cut(normal, at)
	out := make([]float64, len(src))
	for dst, i := range src {
		out[dst] = vals[i]
	}
	return out
}

// cut returns the layer nearest to at across normal and the grid index of
// every slice sample, in Slice.Index order.
func (g *Grid) cut(normal field.Axis, at float64) (layer int, src []int) {
	layer = nearest(g.Coords(normal), at)
	u, v := planeAxes(normal)
	nu, nv := len(g.Coords(u)), len(g.Coords(v))
	src = make([]int, nu*nv)
	var ijk [3]int
	ijk[normal] = layer
	for a := 0; a < nu; a++ {
		for b := 0; b < nv; b++ {
			ijk[u], ijk[v] = a, b
			src[a*nv+b] = g.Index(ijk[0], ijk[1], ijk[2])
		}
	}
	return layer, src
}

// layer copies the plane grid g out of s, which was sampled on a slab of g
// with the plane at index mid across normal.
func (s *Sampled) layer(g *Grid, normal field.Axis, mid int) *Sampled {
	out := newSampled(g, s.Quantity, s.T)
	out.Derive = s.Derive
	for idx := 0; idx < g.Len(); idx++ {
		i, j, k := g.Unravel(idx)
		ijk := [3]int{i, j, k}
		ijk[normal] = mid
		src := s.Grid.Index(ijk[0], ijk[1], ijk[2])
		out.X[idx], out.Y[idx], out.Z[idx] = s.X[src], s.Y[src], s.Z[src]
		out.Singular[idx] = s.Singular[src]
	}
	return out
}

// DefaultSlice cuts a plane grid on its pinned axis, and a volume grid
// through the middle of z.
func (s *Sampled) DefaultSlice() *Slice {
	if a, ok := s.Grid.Plane(); ok {
		return s.Slice(a, s.Grid.Coords(a)[0])
	}
	zs := s.Grid.Coords(field.AxisZ)
	return s.Slice(field.AxisZ, zs[len(zs)/2])
}

func nearest(xs []float64, v float64) int {
	best, bestD := 0, math.Inf(1)
	for i, x := range xs {
		if d := math.Abs(x - v); d < bestD {
			best, bestD = i, d
		}
	}
	return best
}

// PhiUnit is the azimuthal unit field about an axis through center.
// Points on the axis are masked.
func PhiUnit(g *Grid, axis field.Axis, center r3.Vec) *Sampled {
	s := newSampled(g, field.VectorPotential, 0)
	n := axis.Unit()
	for idx := 0; idx < g.Len(); idx++ {
		d := r3.Sub(g.Point(idx), center)
		radial := r3.Sub(d, r3.Scale(r3.Dot(d, n), n))
		rho := r3.Norm(radial)
		if rho < field.SingularityTolerance {
			s.Singular[idx] = true
			continue
		}
		s.set(idx, r3.Scale(1/rho, r3.Cross(n, radial)))
	}
	return s
}
