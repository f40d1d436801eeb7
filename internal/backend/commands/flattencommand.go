package commands

import (
	"fmt"
	"image"
	"image/color"

	"github.com/jo-hoe/iconforge/internal/backend/commandstructure"
	"github.com/jo-hoe/iconforge/internal/common"
	"golang.org/x/image/draw"
)

// FlattenCommand composites an image over an opaque background, removing the alpha channel
type FlattenCommand struct {
	name       string
	background color.NRGBA
}

// NewFlattenCommand creates a flatten command; "background" defaults to white
func NewFlattenCommand(params map[string]any) (commandstructure.Command, error) {
	raw := commandstructure.GetStringParam(params, "background", "#FFFFFF")
	bg, err := common.ParseColor(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid background: %w", err)
	}
	if bg.A != 255 {
		return nil, fmt.Errorf("background must be opaque, got %q", raw)
	}
	return &FlattenCommand{
		name:       "FlattenCommand",
		background: bg,
	}, nil
}

// Name returns the command name
func (c *FlattenCommand) Name() string {
	return c.name
}

// Execute draws the image over the background color
func (c *FlattenCommand) Execute(img image.Image) (image.Image, error) {
	b := img.Bounds()
	dst := createTargetCanvas(b.Dx(), b.Dy(), c.background)
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Over)
	return dst, nil
}

func init() {
	if err := commandstructure.DefaultRegistry.Register("FlattenCommand", NewFlattenCommand); err != nil {
		panic(fmt.Sprintf("failed to register FlattenCommand: %v", err))
	}
}
