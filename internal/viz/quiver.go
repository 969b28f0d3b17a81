package viz

import (
	"math"

	"github.com/san-kum/emfield/internal/grid"
	"github.com/san-kum/emfield/internal/limit"
)

// QuiverOptions controls how a slice is rasterized.
type QuiverOptions struct {
	Width, Height int // canvas size in cells
	// Stride draws every Stride-th sample along each axis.
	Stride int
	// Normalize draws every arrow at full length, showing direction only.
	Normalize bool
	// MarkSingular draws a cross at masked samples.
	MarkSingular bool
}

func DefaultQuiverOptions() QuiverOptions {
	return QuiverOptions{Width: 60, Height: 30, Stride: 1, MarkSingular: true}
}

// Quiver draws the in-plane components of sl as arrows. U runs left to
// right and V bottom to top. Arrow length is proportional to the in-plane
// magnitude relative to the largest one in the slice. When sl carries a
// Tone, each arrow is toned by its sign.
func Quiver(sl *grid.Slice, opt QuiverOptions) *Canvas {
	if opt.Width < 1 {
		opt.Width = 1
	}
	if opt.Height < 1 {
		opt.Height = 1
	}
	if opt.Stride < 1 {
		opt.Stride = 1
	}
	c := NewCanvas(opt.Width, opt.Height)
	w, h := c.Dots()
	nu, nv := sl.Shape()
	if nu == 0 || nv == 0 {
		return c
	}

	cellU := float64(w) / math.Ceil(float64(nu)/float64(opt.Stride))
	cellV := float64(h) / math.Ceil(float64(nv)/float64(opt.Stride))
	maxLen := 0.9 * math.Min(cellU, cellV)

	fu, fv := sl.FU, sl.FV
	if opt.Normalize {
		fu, fv = append([]float64(nil), fu...), append([]float64(nil), fv...)
		limit.Normalize(fu, fv)
	}
	toned := len(sl.Tone) == len(fu)

	peak := 0.0
	for i := range fu {
		if sl.Singular[i] {
			continue
		}
		if m := math.Hypot(fu[i], fv[i]); !math.IsNaN(m) && !math.IsInf(m, 0) && m > peak {
			peak = m
		}
	}

	for a := 0; a < nu; a += opt.Stride {
		px := project(sl.UCoords, a, w, false)
		for b := 0; b < nv; b += opt.Stride {
			py := project(sl.VCoords, b, h, true)
			idx := sl.Index(a, b)
			if sl.Singular[idx] {
				if opt.MarkSingular {
					c.Cross(px, py)
				}
				continue
			}
			u, v := fu[idx], fv[idx]
			m := math.Hypot(u, v)
			if m == 0 || peak == 0 || math.IsNaN(m) || math.IsInf(m, 0) {
				continue
			}
			l := maxLen * m / peak
			x1 := px + int(math.Round(l*u/m))
			y1 := py - int(math.Round(l*v/m))
			if toned {
				c.Pen = sign(sl.Tone[idx])
			}
			c.DrawArrow(px, py, x1, y1, math.Max(1, l/4))
			c.Pen = 0
		}
	}
	return c
}

func sign(x float64) int8 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}

// project maps sample i of coords onto [0, n-1] dots.
func project(coords []float64, i, n int, flip bool) int {
	if len(coords) < 2 || coords[len(coords)-1] == coords[0] {
		return n / 2
	}
	f := (coords[i] - coords[0]) / (coords[len(coords)-1] - coords[0])
	if flip {
		f = 1 - f
	}
	return int(math.Round(f * float64(n-1)))
}
