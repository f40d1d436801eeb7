package commands

import (
	"fmt"
	"image"
	"image/color"
	"log/slog"

	"github.com/jo-hoe/iconforge/internal/backend/commandstructure"
	"golang.org/x/image/draw"
)

// PadParams represents typed parameters for pad command
type PadParams struct {
	// Percent of the edge length left empty on each side, in [0, 45]
	Percent       float64
	Interpolation string
}

// NewPadParamsFromMap creates PadParams from a generic map
func NewPadParamsFromMap(params map[string]any) (*PadParams, error) {
	if err := commandstructure.ValidateRequiredParams(params, []string{"percent"}); err != nil {
		return nil, err
	}
	p := &PadParams{
		Percent:       commandstructure.GetFloatParam(params, "percent", -1),
		Interpolation: commandstructure.GetStringParam(params, "interpolation", DefaultInterpolation),
	}
	if p.Percent < 0 || p.Percent > 45 {
		return nil, fmt.Errorf("percent must be between 0 and 45, got %v", p.Percent)
	}
	if _, err := Interpolator(p.Interpolation); err != nil {
		return nil, err
	}
	return p, nil
}

// PadCommand shrinks the image content into a centered safe zone on a
// transparent canvas of the same size. Adaptive icon foregrounds are cropped
// by the launcher mask, so their artwork must stay inside that zone.
type PadCommand struct {
	name   string
	params *PadParams
	interp draw.Interpolator
}

// NewPadCommand creates a new pad command from configuration parameters
func NewPadCommand(params map[string]any) (commandstructure.Command, error) {
	typedParams, err := NewPadParamsFromMap(params)
	if err != nil {
		return nil, err
	}
	interp, _ := Interpolator(typedParams.Interpolation)
	return &PadCommand{
		name:   "PadCommand",
		params: typedParams,
		interp: interp,
	}, nil
}

// Name returns the command name
func (c *PadCommand) Name() string {
	return c.name
}

// Execute pads the image
func (c *PadCommand) Execute(img image.Image) (image.Image, error) {
	if c.params.Percent == 0 {
		return img, nil
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	insetX := int(float64(w) * c.params.Percent / 100)
	insetY := int(float64(h) * c.params.Percent / 100)

	dst := createTargetCanvas(w, h, color.Transparent)
	dr := image.Rect(insetX, insetY, w-insetX, h-insetY)
	if dr.Empty() {
		return nil, fmt.Errorf("image %dx%d too small for %v%% padding", w, h, c.params.Percent)
	}
	slog.Debug("PadCommand: padding image",
		"width", w,
		"height", h,
		"inset_x", insetX,
		"inset_y", insetY)

	c.interp.Scale(dst, dr, img, b, draw.Src, nil)
	return dst, nil
}

func init() {
	if err := commandstructure.DefaultRegistry.Register("PadCommand", NewPadCommand); err != nil {
		panic(fmt.Sprintf("failed to register PadCommand: %v", err))
	}
}
