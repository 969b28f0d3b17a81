package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/emfield/internal/grid"
	"github.com/san-kum/emfield/internal/viz"
)

func svgHeader(sb *strings.Builder, w, h float64, bg string) {
	fmt.Fprintf(sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
`, w, h, w, h, bg)
}

// CanvasToSVG draws every set braille dot of canvas as a circle, scale
// pixels per dot.
func CanvasToSVG(canvas *viz.Canvas, scale float64, theme viz.Theme) string {
	if canvas == nil {
		return ""
	}
	dw, dh := canvas.Dots()

	var sb strings.Builder
	svgHeader(&sb, float64(dw)*scale, float64(dh)*scale, string(theme.Background))
	fmt.Fprintf(&sb, "<g fill=\"%s\">\n", theme.Field)
	r := scale * 0.4
	for y := 0; y < dh; y++ {
		for x := 0; x < dw; x++ {
			if canvas.IsSet(x, y) {
				fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n",
					float64(x)*scale+scale/2, float64(y)*scale+scale/2, r)
			}
		}
	}
	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// SliceToSVG draws sl as vector arrows on a size x size picture. Arrow
// length follows the in-plane magnitude relative to the slice maximum.
// Masked samples are drawn as crosses and negatively toned arrows take the
// accent colour.
func SliceToSVG(sl *grid.Slice, size int, theme viz.Theme) string {
	nu, nv := sl.Shape()
	if nu == 0 || nv == 0 {
		return ""
	}
	pad := 0.05 * float64(size)
	span := float64(size) - 2*pad
	cell := span / math.Max(float64(nu), float64(nv))

	pos := func(coords []float64, i int) float64 {
		if len(coords) < 2 || coords[len(coords)-1] == coords[0] {
			return 0.5
		}
		return (coords[i] - coords[0]) / (coords[len(coords)-1] - coords[0])
	}

	peak := 0.0
	for i := range sl.FU {
		if m := math.Hypot(sl.FU[i], sl.FV[i]); !sl.Singular[i] && !math.IsInf(m, 0) && m > peak {
			peak = m
		}
	}

	var sb strings.Builder
	svgHeader(&sb, float64(size), float64(size), string(theme.Background))
	fmt.Fprintf(&sb, "<g stroke=\"%s\" stroke-width=\"%.2f\" fill=\"none\">\n", theme.Field, math.Max(0.5, cell/12))
	for a := 0; a < nu; a++ {
		for b := 0; b < nv; b++ {
			x := pad + pos(sl.UCoords, a)*span
			y := pad + (1-pos(sl.VCoords, b))*span
			idx := sl.Index(a, b)
			if sl.Singular[idx] {
				d := cell / 4
				fmt.Fprintf(&sb, "<path stroke=\"%s\" d=\"M%.1f,%.1f L%.1f,%.1f M%.1f,%.1f L%.1f,%.1f\"/>\n",
					theme.Warning, x-d, y-d, x+d, y+d, x-d, y+d, x+d, y-d)
				continue
			}
			m := math.Hypot(sl.FU[idx], sl.FV[idx])
			if m == 0 || peak == 0 || math.IsNaN(m) || math.IsInf(m, 0) {
				continue
			}
			l := 0.9 * cell * m / peak
			ux, uy := sl.FU[idx]/m, -sl.FV[idx]/m
			x1, y1 := x+l*ux, y+l*uy
			h := l / 3
			stroke := ""
			if len(sl.Tone) == len(sl.FU) && sl.Tone[idx] < 0 {
				stroke = fmt.Sprintf(" stroke=\"%s\"", theme.Accent)
			}
			fmt.Fprintf(&sb, "<path%s d=\"M%.1f,%.1f L%.1f,%.1f M%.1f,%.1f L%.1f,%.1f L%.1f,%.1f\"/>\n",
				stroke, x, y, x1, y1,
				x1-h*(ux*0.87-uy*0.5), y1-h*(uy*0.87+ux*0.5),
				x1, y1,
				x1-h*(ux*0.87+uy*0.5), y1-h*(uy*0.87-ux*0.5))
		}
	}
	sb.WriteString("</g>\n</svg>")
	return sb.String()
}
