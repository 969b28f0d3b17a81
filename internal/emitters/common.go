package emitters

import (
	"math"

	"github.com/san-kum/emfield/internal/field"
	"gonum.org/v1/gonum/spatial/r3"
)

// separation returns p - r0 and its length, failing when p sits on r0.
func separation(name string, p, r0 r3.Vec) (r3.Vec, float64, error) {
	d := r3.Sub(p, r0)
	r := r3.Norm(d)
	if r < field.SingularityTolerance {
		return d, r, field.Singular(name, p, "field point coincides with source")
	}
	return d, r, nil
}

func finite(vals ...float64) bool {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func finiteVec(v r3.Vec) bool { return finite(v.X, v.Y, v.Z) }
