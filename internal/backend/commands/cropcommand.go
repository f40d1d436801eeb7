package commands

import (
	"fmt"
	"image"
	"log/slog"

	"github.com/jo-hoe/iconforge/internal/backend/commandstructure"
	"golang.org/x/image/draw"
)

// CropParams represents typed parameters for crop command.
// Zero Width and Height crop to the largest centered square.
type CropParams struct {
	Height int
	Width  int
}

// NewCropParamsFromMap creates CropParams from a generic map
func NewCropParamsFromMap(params map[string]any) (*CropParams, error) {
	height := commandstructure.GetIntParam(params, "height", 0)
	width := commandstructure.GetIntParam(params, "width", 0)

	if height < 0 {
		return nil, fmt.Errorf("height must not be negative, got %d", height)
	}
	if width < 0 {
		return nil, fmt.Errorf("width must not be negative, got %d", width)
	}
	if (height == 0) != (width == 0) {
		return nil, fmt.Errorf("width and height must both be set or both be omitted")
	}

	return &CropParams{
		Height: height,
		Width:  width,
	}, nil
}

// CropCommand center crops an image
type CropCommand struct {
	name   string
	params *CropParams
}

// NewCropCommand creates a new crop command from configuration parameters
func NewCropCommand(params map[string]any) (commandstructure.Command, error) {
	typedParams, err := NewCropParamsFromMap(params)
	if err != nil {
		return nil, err
	}

	return &CropCommand{
		name:   "CropCommand",
		params: typedParams,
	}, nil
}

// Name returns the command name
func (c *CropCommand) Name() string {
	return c.name
}

// Execute crops the image to the configured dimensions around its center
func (c *CropCommand) Execute(img image.Image) (image.Image, error) {
	bounds := img.Bounds()
	originalWidth := bounds.Dx()
	originalHeight := bounds.Dy()

	cropWidth, cropHeight := c.params.Width, c.params.Height
	if cropWidth == 0 {
		side := min(originalWidth, originalHeight)
		cropWidth, cropHeight = side, side
	}

	// Limit crop dimensions to original size
	cropWidth = min(cropWidth, originalWidth)
	cropHeight = min(cropHeight, originalHeight)

	if cropWidth == originalWidth && cropHeight == originalHeight {
		slog.Debug("CropCommand: no crop needed")
		return img, nil
	}

	sr := centerCropRect(bounds, cropWidth, cropHeight)
	slog.Debug("CropCommand: performing center crop",
		"crop_x", sr.Min.X,
		"crop_y", sr.Min.Y,
		"crop_width", cropWidth,
		"crop_height", cropHeight)

	cropped := image.NewRGBA(image.Rect(0, 0, cropWidth, cropHeight))
	draw.Draw(cropped, cropped.Bounds(), img, sr.Min, draw.Src)
	return cropped, nil
}

func centerCropRect(bounds image.Rectangle, width, height int) image.Rectangle {
	x0 := bounds.Min.X + (bounds.Dx()-width)/2
	y0 := bounds.Min.Y + (bounds.Dy()-height)/2
	return image.Rect(x0, y0, x0+width, y0+height)
}

func init() {
	// Register the command in the default registry
	if err := commandstructure.DefaultRegistry.Register("CropCommand", NewCropCommand); err != nil {
		panic(fmt.Sprintf("failed to register CropCommand: %v", err))
	}
}
