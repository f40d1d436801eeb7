package commands

import (
	"image/color"
	"testing"
)

func TestNewFlattenCommand(t *testing.T) {
	tests := []struct {
		name    string
		params  map[string]any
		want    color.NRGBA
		wantErr bool
	}{
		{"default white", map[string]any{}, color.NRGBA{255, 255, 255, 255}, false},
		{"black", map[string]any{"background": "#000000"}, color.NRGBA{0, 0, 0, 255}, false},
		{"translucent rejected", map[string]any{"background": "#00000080"}, color.NRGBA{}, true},
		{"transparent rejected", map[string]any{"background": "transparent"}, color.NRGBA{}, true},
		{"garbage rejected", map[string]any{"background": "nope"}, color.NRGBA{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			command, err := NewFlattenCommand(tt.params)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			out, err := command.Execute(makeSolidImage(2, 2, color.Transparent))
			if err != nil {
				t.Fatalf("Execute failed: %v", err)
			}
			if got := color.NRGBAModel.Convert(out.At(0, 0)).(color.NRGBA); got != tt.want {
				t.Errorf("Expected background %v, got %v", tt.want, got)
			}
		})
	}
}

func TestFlattenCommand_Execute_RemovesAlpha(t *testing.T) {
	src := makeSolidImage(4, 4, color.Transparent)
	src.Set(1, 1, color.RGBA{255, 255, 255, 255})

	command, err := NewFlattenCommand(map[string]any{"background": "#000000"})
	if err != nil {
		t.Fatalf("Failed to create command: %v", err)
	}
	out, err := command.Execute(src)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			if a := alphaAt(out, x, y); a != 255 {
				t.Fatalf("Expected opaque pixel at %d,%d, alpha=%d", x, y, a)
			}
		}
	}
	r, _, _, _ := out.At(0, 0).RGBA()
	if r != 0 {
		t.Errorf("Expected background black at corner, got r=%d", r>>8)
	}
	r, _, _, _ = out.At(1, 1).RGBA()
	if r>>8 != 255 {
		t.Errorf("Expected white content preserved, got r=%d", r>>8)
	}
}
