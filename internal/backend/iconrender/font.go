package iconrender

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/opentype"
)

// EmbeddedFontName identifies the built-in fallback font
const EmbeddedFontName = "embedded:goitalic"

// DefaultFontPaths are italic-capable system fonts tried in order (macOS, Linux, Windows)
var DefaultFontPaths = []string{
	"/System/Library/Fonts/Helvetica.ttc",
	"/usr/share/fonts/truetype/dejavu/DejaVuSans-Oblique.ttf",
	"C:/Windows/Fonts/ariali.ttf",
}

// Face is a sized font face along with where it was loaded from
type Face struct {
	font.Face
	// Source is the font file path, or EmbeddedFontName
	Source string
	// Fallback reports that no candidate path could be loaded
	Fallback bool
}

// LoadFace returns a face of the given pixel size from the first loadable path.
// Missing and unparsable files are skipped; when none loads the embedded Go
// Italic font is used and Fallback is set.
func LoadFace(paths []string, size float64) (*Face, error) {
	if size <= 0 {
		return nil, fmt.Errorf("font size must be positive, got %v", size)
	}

	for _, path := range paths {
		f, err := parseFontFile(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				slog.Debug("font candidate not found", "path", path)
			} else {
				slog.Warn("skipping unusable font", "path", path, "error", err)
			}
			continue
		}
		face, err := newFace(f, size)
		if err != nil {
			slog.Warn("skipping unusable font", "path", path, "error", err)
			continue
		}
		slog.Debug("loaded font", "path", path, "size", size)
		return &Face{Face: face, Source: path}, nil
	}

	f, err := opentype.Parse(goitalic.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse embedded font: %w", err)
	}
	face, err := newFace(f, size)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedded font face: %w", err)
	}
	return &Face{Face: face, Source: EmbeddedFontName, Fallback: true}, nil
}

func parseFontFile(path string) (*opentype.Font, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if strings.EqualFold(filepath.Ext(path), ".ttc") || strings.EqualFold(filepath.Ext(path), ".otc") {
		collection, err := opentype.ParseCollection(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse font collection: %w", err)
		}
		if collection.NumFonts() == 0 {
			return nil, fmt.Errorf("font collection is empty")
		}
		return collection.Font(0)
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}
	return f, nil
}

func newFace(f *opentype.Font, size float64) (font.Face, error) {
	// 72 DPI makes the point size equal to the pixel size
	return opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}
