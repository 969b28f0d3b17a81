package viz

import (
	"errors"
	"image"
	"image/gif"
	"io"
	"os"
)

const (
	dotW = 4 // pixels per braille dot
	dotH = 4
)

// CanvasImage rasterizes c into a paletted image, one dotW x dotH block per
// dot. Negatively toned dots take the third palette colour.
func CanvasImage(c *Canvas, t Theme) *image.Paletted {
	w, h := c.Dots()
	img := image.NewPaletted(image.Rect(0, 0, w*dotW, h*dotH), t.Palette())
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if !c.IsSet(x, y) {
				continue
			}
			ink := uint8(1)
			if c.Tone(x, y) < 0 {
				ink = 2
			}
			for py := 0; py < dotH; py++ {
				for px := 0; px < dotW; px++ {
					img.SetColorIndex(x*dotW+px, y*dotH+py, ink)
				}
			}
		}
	}
	return img
}

// EncodeGIF writes canvases as a looping animation with delay hundredths of
// a second per frame.
func EncodeGIF(w io.Writer, canvases []*Canvas, t Theme, delay int) error {
	if len(canvases) == 0 {
		return errors.New("viz: no frames to encode")
	}
	anim := gif.GIF{LoopCount: 0}
	for _, c := range canvases {
		anim.Image = append(anim.Image, CanvasImage(c, t))
		anim.Delay = append(anim.Delay, delay)
	}
	return gif.EncodeAll(w, &anim)
}

func SaveGIF(path string, canvases []*Canvas, t Theme, delay int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := EncodeGIF(f, canvases, t, delay); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
