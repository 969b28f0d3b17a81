package viz

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Braille cells hold 2x4 dots:
// 1 4
// 2 5
// 3 6
// 7 8
const brailleBlank = 0x2800

var pixelMap = [4][2]rune{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

// Canvas is a Width x Height grid of braille cells, addressed in dots:
// (2*Width) x (4*Height), origin top left. Tones holds the sign of the
// last toned stroke through each cell.
type Canvas struct {
	Width, Height int
	Cells         [][]rune
	Tones         [][]int8
	// Pen tones the cells of every dot set while it is nonzero.
	Pen int8
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{Width: w, Height: h, Cells: make([][]rune, h), Tones: make([][]int8, h)}
	for i := range c.Cells {
		c.Cells[i] = make([]rune, w)
		c.Tones[i] = make([]int8, w)
	}
	c.Clear()
	return c
}

// Dots reports the canvas size in dots.
func (c *Canvas) Dots() (w, h int) { return 2 * c.Width, 4 * c.Height }

func (c *Canvas) cell(x, y int) (row, col int, bit rune, ok bool) {
	if x < 0 || y < 0 {
		return 0, 0, 0, false
	}
	col, row = x/2, y/4
	if col >= c.Width || row >= c.Height {
		return 0, 0, 0, false
	}
	return row, col, pixelMap[y%4][x%2], true
}

// Set turns a dot on. Out of range dots are ignored.
func (c *Canvas) Set(x, y int) {
	if row, col, bit, ok := c.cell(x, y); ok {
		c.Cells[row][col] |= bit
		if c.Pen != 0 {
			c.Tones[row][col] = c.Pen
		}
	}
}

func (c *Canvas) Unset(x, y int) {
	if row, col, bit, ok := c.cell(x, y); ok {
		c.Cells[row][col] &^= bit
	}
}

func (c *Canvas) IsSet(x, y int) bool {
	row, col, bit, ok := c.cell(x, y)
	return ok && c.Cells[row][col]&bit != 0
}

// Tone is the tone of the cell holding dot (x, y).
func (c *Canvas) Tone(x, y int) int8 {
	row, col, _, ok := c.cell(x, y)
	if !ok {
		return 0
	}
	return c.Tones[row][col]
}

func (c *Canvas) Clear() {
	for i := range c.Cells {
		for j := range c.Cells[i] {
			c.Cells[i][j] = brailleBlank
			c.Tones[i][j] = 0
		}
	}
}

// Count is the number of dots set.
func (c *Canvas) Count() int {
	n := 0
	w, h := c.Dots()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if c.IsSet(x, y) {
				n++
			}
		}
	}
	return n
}

// DrawLine draws a line using Bresenham's algorithm.
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx, sy := -1, -1
	if x0 < x1 {
		sx = 1
	}
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy
	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// DrawArrow draws a shaft from (x0, y0) to (x1, y1) with a two-stroke head
// of length head dots.
func (c *Canvas) DrawArrow(x0, y0, x1, y1 int, head float64) {
	c.DrawLine(x0, y0, x1, y1)
	dx, dy := float64(x1-x0), float64(y1-y0)
	l := math.Hypot(dx, dy)
	if l < 2 || head <= 0 {
		return
	}
	ang := math.Atan2(dy, dx)
	for _, s := range []float64{-1, 1} {
		a := ang + math.Pi - s*math.Pi/6
		hx := x1 + int(math.Round(head*math.Cos(a)))
		hy := y1 + int(math.Round(head*math.Sin(a)))
		c.DrawLine(x1, y1, hx, hy)
	}
}

// Cross marks a small x centred on (x, y).
func (c *Canvas) Cross(x, y int) {
	c.DrawLine(x-1, y-1, x+1, y+1)
	c.DrawLine(x-1, y+1, x+1, y-1)
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Cells {
		b.WriteString(string(row))
		b.WriteByte('\n')
	}
	return b.String()
}

// Render is String with negatively toned cells drawn in neg and the rest
// in pos.
func (c *Canvas) Render(pos, neg lipgloss.Style) string {
	var b strings.Builder
	for i, row := range c.Cells {
		start := 0
		for j := 1; j <= len(row); j++ {
			if j < len(row) && (c.Tones[i][j] < 0) == (c.Tones[i][start] < 0) {
				continue
			}
			st := pos
			if c.Tones[i][start] < 0 {
				st = neg
			}
			b.WriteString(st.Render(string(row[start:j])))
			start = j
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
