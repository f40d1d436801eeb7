package commands

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/jo-hoe/iconforge/internal/backend/commandstructure"
	"golang.org/x/image/draw"
)

// CircleMaskCommand clears every pixel outside the circle inscribed in the image,
// producing round launcher icons. With antialias (the default) the edge is
// blended over one pixel, otherwise every pixel is either kept or cleared.
type CircleMaskCommand struct {
	name      string
	antialias bool
}

// NewCircleMaskCommand creates a circle mask command; "antialias" defaults to true
func NewCircleMaskCommand(params map[string]any) (commandstructure.Command, error) {
	return &CircleMaskCommand{
		name:      "CircleMaskCommand",
		antialias: commandstructure.GetBoolParam(params, "antialias", true),
	}, nil
}

// Name returns the command name
func (c *CircleMaskCommand) Name() string {
	return c.name
}

// Execute applies the circular mask
func (c *CircleMaskCommand) Execute(img image.Image) (image.Image, error) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	mask := circleMask(w, h, c.antialias)

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.DrawMask(dst, dst.Bounds(), img, b.Min, mask, image.Point{}, draw.Src)
	return dst, nil
}

// circleMask returns an alpha mask covering the circle inscribed in a w x h rectangle
func circleMask(w, h int, antialias bool) *image.Alpha {
	mask := image.NewAlpha(image.Rect(0, 0, w, h))
	cx := float64(w) / 2
	cy := float64(h) / 2
	r := math.Min(cx, cy)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			// sample at pixel centers
			d := math.Hypot(float64(x)+0.5-cx, float64(y)+0.5-cy)
			coverage := r - d + 0.5
			if !antialias {
				if coverage >= 0.5 {
					mask.SetAlpha(x, y, color.Alpha{A: 255})
				}
				continue
			}
			switch {
			case coverage >= 1:
				mask.SetAlpha(x, y, color.Alpha{A: 255})
			case coverage > 0:
				mask.SetAlpha(x, y, color.Alpha{A: uint8(coverage*255 + 0.5)})
			}
		}
	}
	return mask
}

func init() {
	if err := commandstructure.DefaultRegistry.Register("CircleMaskCommand", NewCircleMaskCommand); err != nil {
		panic(fmt.Sprintf("failed to register CircleMaskCommand: %v", err))
	}
}
