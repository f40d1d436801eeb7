package iconrender

import (
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// Options describe a placeholder icon
type Options struct {
	Size       int
	Text       string
	Background color.Color
	TextColor  color.Color
	Face       font.Face
}

// Render draws Text centered on a square Size x Size canvas filled with Background
func Render(opts Options) (*image.RGBA, error) {
	if opts.Size <= 0 {
		return nil, fmt.Errorf("icon size must be positive, got %d", opts.Size)
	}
	if opts.Face == nil {
		return nil, fmt.Errorf("font face is required")
	}
	bg := opts.Background
	if bg == nil {
		bg = color.Transparent
	}
	fg := opts.TextColor
	if fg == nil {
		fg = color.White
	}

	img := image.NewRGBA(image.Rect(0, 0, opts.Size, opts.Size))
	draw.Draw(img, img.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)

	if opts.Text == "" {
		return img, nil
	}

	dot, _ := Layout(opts.Face, opts.Text, opts.Size)
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(fg),
		Face: opts.Face,
		Dot:  dot,
	}
	d.DrawString(opts.Text)
	return img, nil
}

// Layout returns the baseline origin that centers text's ink bounding box on a
// size x size canvas, and that box in canvas pixels.
//
// Both axes center the ink box, so the bearing of the first glyph is
// subtracted on x as well as y. Centering the advance width instead would
// shift glyphs with a wide left bearing off center.
func Layout(face font.Face, text string, size int) (fixed.Point26_6, image.Rectangle) {
	bounds, _ := font.BoundString(face, text)
	half := fixed.I(size) / 2
	dot := fixed.Point26_6{
		X: half - (bounds.Min.X+bounds.Max.X)/2,
		Y: half - (bounds.Min.Y+bounds.Max.Y)/2,
	}
	placed := image.Rect(
		(dot.X + bounds.Min.X).Floor(),
		(dot.Y + bounds.Min.Y).Floor(),
		(dot.X + bounds.Max.X).Ceil(),
		(dot.Y + bounds.Max.Y).Ceil(),
	)
	return dot, placed
}
