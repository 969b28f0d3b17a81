package export

import (
	"strings"
	"testing"

	"github.com/san-kum/emfield/internal/field"
	"github.com/san-kum/emfield/internal/grid"
	"github.com/san-kum/emfield/internal/viz"
)

func TestCanvasToSVG(t *testing.T) {
	if CanvasToSVG(nil, 2, viz.ThemeField) != "" {
		t.Error("expected empty output for nil canvas")
	}
	c := viz.NewCanvas(2, 1)
	c.Set(0, 0)
	c.Set(3, 3)
	svg := CanvasToSVG(c, 2, viz.ThemeField)
	if n := strings.Count(svg, "<circle"); n != 2 {
		t.Errorf("expected 2 circles, got %d", n)
	}
	if !strings.Contains(svg, `width="8" height="8"`) {
		t.Error("expected 8x8 picture")
	}
	if !strings.Contains(svg, string(viz.ThemeField.Field)) {
		t.Error("expected the theme arrow colour")
	}
}

func TestSliceToSVG(t *testing.T) {
	sl := &grid.Slice{
		Normal:   field.AxisZ,
		U:        field.AxisX,
		V:        field.AxisY,
		UCoords:  []float64{-1, 1},
		VCoords:  []float64{-1, 1},
		FU:       []float64{1, 0, 2, 0},
		FV:       []float64{0, 0, 0, 1},
		FN:       make([]float64, 4),
		Singular: []bool{false, true, false, false},
	}
	svg := SliceToSVG(sl, 200, viz.ThemePaper)
	if !strings.HasSuffix(svg, "</svg>") {
		t.Error("expected closed svg document")
	}
	// three arrows plus one cross
	if n := strings.Count(svg, "<path"); n != 4 {
		t.Errorf("expected 4 paths, got %d", n)
	}
	if !strings.Contains(svg, string(viz.ThemePaper.Warning)) {
		t.Error("expected the singular cross in the warning colour")
	}
}

func TestSliceToSVGTone(t *testing.T) {
	sl := &grid.Slice{
		Normal:   field.AxisZ,
		U:        field.AxisX,
		V:        field.AxisY,
		UCoords:  []float64{-1, 1},
		VCoords:  []float64{-1, 1},
		FU:       []float64{1, 1, 1, 1},
		FV:       make([]float64, 4),
		FN:       make([]float64, 4),
		Singular: make([]bool, 4),
		Tone:     []float64{1, -1, 0, -2},
	}
	svg := SliceToSVG(sl, 200, viz.ThemeField)
	accent := `<path stroke="` + string(viz.ThemeField.Accent) + `"`
	if n := strings.Count(svg, accent); n != 2 {
		t.Errorf("expected 2 accent arrows, got %d", n)
	}
	if n := strings.Count(svg, "<path d="); n != 2 {
		t.Errorf("expected 2 plain arrows, got %d", n)
	}
}
