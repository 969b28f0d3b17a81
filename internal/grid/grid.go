package grid

import (
	"math"

	"github.com/san-kum/emfield/internal/field"
	"github.com/san-kum/emfield/internal/nabla"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r3"
)

// Range is a closed interval [Min, Max].
type Range struct {
	Min float64 `yaml:"min" json:"min"`
	Max float64 `yaml:"max" json:"max"`
}

type Bounds struct {
	X Range `yaml:"x" json:"x"`
	Y Range `yaml:"y" json:"y"`
	Z Range `yaml:"z" json:"z"`
}

// Cube returns [-h, h] on every axis.
func Cube(h float64) Bounds {
	r := Range{Min: -h, Max: h}
	return Bounds{X: r, Y: r, Z: r}
}

func (b Bounds) axis(a field.Axis) Range {
	switch a {
	case field.AxisX:
		return b.X
	case field.AxisY:
		return b.Y
	default:
		return b.Z
	}
}

// Grid is an immutable rectilinear sampling of a box.
type Grid struct {
	bounds Bounds
	shape  nabla.Shape
	coords [3][]float64
	pinned [3]bool
}

// New samples all three axes of b with res[i] points each.
func New(b Bounds, res [3]int) (*Grid, error) {
	g := &Grid{bounds: b}
	for a := field.AxisX; a <= field.AxisZ; a++ {
		if err := g.setAxis(a, b.axis(a), res[a]); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// NewPlane samples the plane normal to normal at the given offset, with res
// points along each in-plane axis of b.
func NewPlane(b Bounds, res int, normal field.Axis, at float64) (*Grid, error) {
	g := &Grid{bounds: b}
	for a := field.AxisX; a <= field.AxisZ; a++ {
		if a == normal {
			if math.IsNaN(at) || math.IsInf(at, 0) {
				return nil, &field.GridConfigError{Axis: a.String(), Reason: "plane offset must be finite"}
			}
			g.coords[a] = []float64{at}
			g.shape[a] = 1
			g.pinned[a] = true
			continue
		}
		if err := g.setAxis(a, b.axis(a), res); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// slab widens a plane grid to 2*half+1 layers across normal, centred on
// the plane and spaced like the finer in-plane axis.
func (g *Grid) slab(normal field.Axis, half int) *Grid {
	s := &Grid{bounds: g.bounds, shape: g.shape, coords: g.coords}
	u, v := normal.InPlane()
	sp := g.Spacing()
	h := math.Min(sp[u], sp[v])
	at := g.coords[normal][0]
	layers := make([]float64, 2*half+1)
	for i := range layers {
		layers[i] = at + float64(i-half)*h
	}
	s.coords[normal] = layers
	s.shape[normal] = len(layers)
	return s
}

func (g *Grid) setAxis(a field.Axis, r Range, n int) error {
	if n <= 1 {
		return &field.GridConfigError{Axis: a.String(), Reason: "resolution must exceed 1"}
	}
	if !(r.Min < r.Max) || math.IsInf(r.Min, 0) || math.IsInf(r.Max, 0) {
		return &field.GridConfigError{Axis: a.String(), Reason: "min must be below max"}
	}
	g.coords[a] = floats.Span(make([]float64, n), r.Min, r.Max)
	g.shape[a] = n
	return nil
}

func (g *Grid) Bounds() Bounds     { return g.bounds }
func (g *Grid) Shape() nabla.Shape { return g.shape }
func (g *Grid) Len() int           { return g.shape.Len() }

// Coords returns the sample coordinates along a. The slice is shared.
func (g *Grid) Coords(a field.Axis) []float64 { return g.coords[a] }

// Pinned reports whether axis a is fixed at a single plane value.
func (g *Grid) Pinned(a field.Axis) bool { return g.pinned[a] }

// Plane returns the pinned axis of a plane grid.
func (g *Grid) Plane() (field.Axis, bool) {
	for a := field.AxisX; a <= field.AxisZ; a++ {
		if g.pinned[a] {
			return a, true
		}
	}
	return 0, false
}

// Spacing is the sample step per axis; pinned axes report 1.
func (g *Grid) Spacing() [3]float64 {
	var s [3]float64
	for a := range s {
		if g.shape[a] < 2 {
			s[a] = 1
			continue
		}
		s[a] = g.coords[a][1] - g.coords[a][0]
	}
	return s
}

func (g *Grid) Index(i, j, k int) int {
	return (i*g.shape[1]+j)*g.shape[2] + k
}

func (g *Grid) Unravel(idx int) (i, j, k int) {
	k = idx % g.shape[2]
	j = (idx / g.shape[2]) % g.shape[1]
	i = idx / (g.shape[1] * g.shape[2])
	return i, j, k
}

func (g *Grid) Point(idx int) r3.Vec {
	i, j, k := g.Unravel(idx)
	return r3.Vec{X: g.coords[0][i], Y: g.coords[1][j], Z: g.coords[2][k]}
}

// Mesh returns the flattened coordinate arrays, like an 'ij' meshgrid.
func (g *Grid) Mesh() (x, y, z []float64) {
	n := g.Len()
	x, y, z = make([]float64, n), make([]float64, n), make([]float64, n)
	for idx := 0; idx < n; idx++ {
		p := g.Point(idx)
		x[idx], y[idx], z[idx] = p.X, p.Y, p.Z
	}
	return x, y, z
}
