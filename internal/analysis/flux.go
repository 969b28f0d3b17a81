package analysis

import (
	"errors"
	"fmt"

	"github.com/san-kum/emfield/internal/field"
	"github.com/san-kum/emfield/internal/grid"
	"gonum.org/v1/gonum/integrate"
)

var ErrNotVolume = errors.New("analysis: flux needs a vector field on a volume grid")

// Flux is the outward flux through each face of a grid box, ordered
// -x, +x, -y, +y, -z, +z.
type Flux struct {
	Faces  [6]float64
	Masked int
}

func (f *Flux) Total() float64 {
	sum := 0.0
	for _, v := range f.Faces {
		sum += v
	}
	return sum
}

// BoxFlux integrates F.n over the six faces of the sampled box with the
// trapezoidal rule. Masked face cells contribute nothing and are counted.
func BoxFlux(s *grid.Sampled) (*Flux, error) {
	if _, plane := s.Grid.Plane(); plane || s.Scalar() {
		return nil, ErrNotVolume
	}
	shape := s.Grid.Shape()
	out := &Flux{}
	for a := field.AxisX; a <= field.AxisZ; a++ {
		lo, m := faceIntegral(s, a, 0)
		out.Masked += m
		hi, m := faceIntegral(s, a, shape[a]-1)
		out.Masked += m
		out.Faces[2*int(a)] = -lo
		out.Faces[2*int(a)+1] = hi
	}
	return out, nil
}

// EnclosedCharge applies Gauss's law to the box flux of an electric field.
func EnclosedCharge(s *grid.Sampled, c field.Constants) (float64, error) {
	if s.Quantity != field.Electric || s.Derive != grid.DeriveNone {
		return 0, fmt.Errorf("analysis: enclosed charge needs E, got %v", s.Quantity)
	}
	f, err := BoxFlux(s)
	if err != nil {
		return 0, err
	}
	return f.Total() * c.Epsilon0, nil
}

// faceIntegral integrates the normal component over one layer of the grid.
func faceIntegral(s *grid.Sampled, normal field.Axis, layer int) (float64, int) {
	g := s.Grid
	u, v := normal.InPlane()
	us, vs := g.Coords(u), g.Coords(v)
	comp := [3][]float64{s.X, s.Y, s.Z}[normal]

	masked := 0
	inner := make([]float64, len(us))
	row := make([]float64, len(vs))
	var ijk [3]int
	ijk[normal] = layer
	for a := range us {
		for b := range vs {
			ijk[u], ijk[v] = a, b
			idx := g.Index(ijk[0], ijk[1], ijk[2])
			if s.Singular[idx] {
				masked++
				row[b] = 0
				continue
			}
			row[b] = comp[idx]
		}
		inner[a] = integrate.Trapezoidal(vs, row)
	}
	return integrate.Trapezoidal(us, inner), masked
}
