package commands

import (
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"sort"

	"github.com/jo-hoe/iconforge/internal/backend/commandstructure"
	"golang.org/x/image/draw"
)

const (
	// ModeStretch resizes to exactly width x height
	ModeStretch = "stretch"
	// ModeContain preserves the aspect ratio and centers the result on a transparent canvas
	ModeContain = "contain"
	// ModeCover preserves the aspect ratio and center crops the overflow
	ModeCover = "cover"

	// DefaultInterpolation is the closest x/image kernel to a Lanczos filter
	DefaultInterpolation = "catmullrom"
)

var interpolators = map[string]draw.Interpolator{
	"nearest":        draw.NearestNeighbor,
	"approxbilinear": draw.ApproxBiLinear,
	"bilinear":       draw.BiLinear,
	"catmullrom":     draw.CatmullRom,
}

// Interpolator returns the scaler registered under name
func Interpolator(name string) (draw.Interpolator, error) {
	if name == "" {
		name = DefaultInterpolation
	}
	interp, ok := interpolators[name]
	if !ok {
		return nil, fmt.Errorf("unknown interpolation %q (supported: %v)", name, InterpolationNames())
	}
	return interp, nil
}

// InterpolationNames lists the supported interpolation names
func InterpolationNames() []string {
	names := make([]string, 0, len(interpolators))
	for name := range interpolators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ScaleParams represents typed parameters for scale command
type ScaleParams struct {
	Height        int
	Width         int
	Interpolation string
	Mode          string
}

// NewScaleParamsFromMap creates ScaleParams from a generic map
func NewScaleParamsFromMap(params map[string]any) (*ScaleParams, error) {
	if err := commandstructure.ValidateRequiredParams(params, []string{"height", "width"}); err != nil {
		return nil, err
	}

	p := &ScaleParams{
		Height:        commandstructure.GetIntParam(params, "height", 0),
		Width:         commandstructure.GetIntParam(params, "width", 0),
		Interpolation: commandstructure.GetStringParam(params, "interpolation", DefaultInterpolation),
		Mode:          commandstructure.GetStringParam(params, "mode", ModeStretch),
	}
	if err := p.validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *ScaleParams) validate() error {
	if p.Height <= 0 {
		return fmt.Errorf("height must be positive, got %d", p.Height)
	}
	if p.Width <= 0 {
		return fmt.Errorf("width must be positive, got %d", p.Width)
	}
	if _, err := Interpolator(p.Interpolation); err != nil {
		return err
	}
	if !IsScaleMode(p.Mode) {
		return fmt.Errorf("mode must be one of %q, %q or %q, got %q", ModeStretch, ModeContain, ModeCover, p.Mode)
	}
	return nil
}

// IsScaleMode reports whether mode is a supported fit mode
func IsScaleMode(mode string) bool {
	return mode == ModeStretch || mode == ModeContain || mode == ModeCover
}

// ScaleCommand resizes an image to fixed target dimensions
type ScaleCommand struct {
	name   string
	params *ScaleParams
	interp draw.Interpolator
}

// NewScaleCommand creates a new scale command from configuration parameters
func NewScaleCommand(params map[string]any) (commandstructure.Command, error) {
	typedParams, err := NewScaleParamsFromMap(params)
	if err != nil {
		return nil, err
	}
	return newScaleCommand(typedParams), nil
}

// NewScaleCommandWithMode creates a scale command with an explicit fit mode
func NewScaleCommandWithMode(width, height int, interpolation, mode string) (*ScaleCommand, error) {
	p := &ScaleParams{
		Height:        height,
		Width:         width,
		Interpolation: interpolation,
		Mode:          mode,
	}
	if p.Interpolation == "" {
		p.Interpolation = DefaultInterpolation
	}
	if p.Mode == "" {
		p.Mode = ModeStretch
	}
	if err := p.validate(); err != nil {
		return nil, err
	}
	return newScaleCommand(p), nil
}

func newScaleCommand(p *ScaleParams) *ScaleCommand {
	// validate() guarantees the lookup succeeds
	interp, _ := Interpolator(p.Interpolation)
	return &ScaleCommand{
		name:   "ScaleCommand",
		params: p,
		interp: interp,
	}
}

// Name returns the command name
func (c *ScaleCommand) Name() string {
	return c.name
}

// Execute scales the image to the target dimensions
func (c *ScaleCommand) Execute(img image.Image) (image.Image, error) {
	bounds := img.Bounds()
	originalWidth := bounds.Dx()
	originalHeight := bounds.Dy()
	if originalWidth <= 0 || originalHeight <= 0 {
		return nil, fmt.Errorf("cannot scale empty image")
	}

	targetWidth := c.params.Width
	targetHeight := c.params.Height

	if targetWidth == originalWidth && targetHeight == originalHeight {
		slog.Debug("ScaleCommand: target dimensions equal original; skipping scaling")
		return img, nil
	}

	dst := createTargetCanvas(targetWidth, targetHeight, color.Transparent)
	dr := dst.Bounds()
	sr := bounds
	switch c.params.Mode {
	case ModeContain:
		scaledWidth, scaledHeight := computeScaledDimensions(originalWidth, originalHeight, targetWidth, targetHeight)
		offsetX, offsetY := computeCenterOffset(targetWidth, targetHeight, scaledWidth, scaledHeight)
		dr = image.Rect(offsetX, offsetY, offsetX+scaledWidth, offsetY+scaledHeight)
	case ModeCover:
		cropWidth, cropHeight := computeCoverCrop(originalWidth, originalHeight, targetWidth, targetHeight)
		sr = centerCropRect(bounds, cropWidth, cropHeight)
	}

	slog.Debug("ScaleCommand: scaling image",
		"original_width", originalWidth,
		"original_height", originalHeight,
		"target_width", targetWidth,
		"target_height", targetHeight,
		"interpolation", c.params.Interpolation,
		"mode", c.params.Mode)

	c.interp.Scale(dst, dr, img, sr, draw.Src, nil)
	return dst, nil
}

func computeScaledDimensions(originalWidth, originalHeight, targetWidth, targetHeight int) (int, int) {
	originalAspect := float64(originalWidth) / float64(originalHeight)
	targetAspect := float64(targetWidth) / float64(targetHeight)
	if originalAspect > targetAspect {
		// Original is wider - scale to target width
		return targetWidth, max(1, int(float64(targetWidth)/originalAspect))
	}
	// Original is taller - scale to target height
	return max(1, int(float64(targetHeight)*originalAspect)), targetHeight
}

// computeCoverCrop returns the largest source region with the target aspect ratio
func computeCoverCrop(originalWidth, originalHeight, targetWidth, targetHeight int) (int, int) {
	originalAspect := float64(originalWidth) / float64(originalHeight)
	targetAspect := float64(targetWidth) / float64(targetHeight)
	if originalAspect > targetAspect {
		return max(1, int(float64(originalHeight)*targetAspect+0.5)), originalHeight
	}
	return originalWidth, max(1, int(float64(originalWidth)/targetAspect+0.5))
}

func createTargetCanvas(w, h int, bg color.Color) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), &image.Uniform{bg}, image.Point{}, draw.Src)
	return dst
}

func computeCenterOffset(targetWidth, targetHeight, scaledWidth, scaledHeight int) (int, int) {
	return (targetWidth - scaledWidth) / 2, (targetHeight - scaledHeight) / 2
}

func init() {
	if err := commandstructure.DefaultRegistry.Register("ScaleCommand", NewScaleCommand); err != nil {
		panic(fmt.Sprintf("failed to register ScaleCommand: %v", err))
	}
}
