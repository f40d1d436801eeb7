package commands

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"strings"

	_ "image/gif"
	_ "image/jpeg"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// FormatSVG is reported by DecodeImage for rasterized SVG sources
const FormatSVG = "svg"

// hasCorrectPngSignature checks whether the provided data begins with a valid PNG signature
func hasCorrectPngSignature(data []byte) bool {
	// PNG signature: 0x89 'P' 'N' 'G' 0x0D 0x0A 0x1A 0x0A
	if len(data) < 8 {
		return false
	}
	expected := []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}
	return bytes.Equal(data[:8], expected)
}

// DecodeImage decodes a source image in any supported raster format or SVG.
// SVG without explicit width/height is rendered as a square of svgFallbackSize.
func DecodeImage(data []byte, svgFallbackSize int) (image.Image, string, error) {
	if len(data) == 0 {
		return nil, "", fmt.Errorf("failed to decode image: empty input")
	}

	if hasCorrectPngSignature(data) {
		img, err := png.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, "", fmt.Errorf("failed to decode PNG image: %w", err)
		}
		return img, "png", nil
	}

	if isSVGData(data) {
		img, err := decodeSVG(data, svgFallbackSize)
		if err != nil {
			return nil, "", err
		}
		return img, FormatSVG, nil
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}
	slog.Debug("DecodeImage: decoded raster image",
		"format", format,
		"width", img.Bounds().Dx(),
		"height", img.Bounds().Dy())
	return img, format, nil
}

// EncodePNG encodes an image as PNG bytes
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	bb := img.Bounds()
	// Pre-grow buffer to reduce re-allocations; rough heuristic: 1 byte per pixel
	buf.Grow(bb.Dx() * bb.Dy())
	encoder := png.Encoder{CompressionLevel: png.BestCompression}
	if err := encoder.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode PNG image: %w", err)
	}
	return buf.Bytes(), nil
}

func decodeSVG(data []byte, fallbackSize int) (image.Image, error) {
	if w, h, ok := parseSvgExplicitSize(data); ok {
		slog.Debug("DecodeImage: SVG has explicit size", "width", w, "height", h)
		return renderSVG(data, w, h)
	}
	if fallbackSize <= 0 {
		return nil, fmt.Errorf("SVG fallback size not set; cannot render SVG without explicit size")
	}
	slog.Debug("DecodeImage: SVG lacks explicit size; using fallback", "size", fallbackSize)
	return renderSVG(data, fallbackSize, fallbackSize)
}

// parseSvgExplicitSize attempts to extract width and height attributes from the SVG.
// Returns width, height, and ok=true if both are found and parseable.
func parseSvgExplicitSize(data []byte) (int, int, bool) {
	n := len(data)
	if n > 8192 {
		n = 8192
	}
	s := strings.ToLower(string(data[:n]))
	i := strings.Index(s, "<svg")
	if i < 0 {
		return 0, 0, false
	}
	j := strings.Index(s[i:], ">")
	if j < 0 {
		j = len(s)
	} else {
		j = i + j
	}
	tag := s[i:j]

	w, wOk := parseNumericAttr(tag, "width")
	h, hOk := parseNumericAttr(tag, "height")
	if wOk && hOk {
		return w, h, true
	}
	// viewBox is not a pixel size; callers use the fallback
	return 0, 0, false
}

// parseNumericAttr extracts the leading integer of a quoted attribute value (e.g. width="123px").
func parseNumericAttr(tag, attr string) (int, bool) {
	pos := -1
	for _, prefix := range []string{" " + attr + "=", "\t" + attr + "=", "\n" + attr + "="} {
		if p := strings.Index(tag, prefix); p >= 0 {
			pos = p + len(prefix)
			break
		}
	}
	if pos < 0 || pos >= len(tag) {
		return 0, false
	}
	quote := tag[pos]
	if quote != '"' && quote != '\'' {
		return 0, false
	}
	val := tag[pos+1:]
	if end := strings.IndexByte(val, quote); end >= 0 {
		val = val[:end]
	}

	num := 0
	found := false
	for i := 0; i < len(val); i++ {
		ch := val[i]
		if ch >= '0' && ch <= '9' {
			found = true
			num = num*10 + int(ch-'0')
		} else if found {
			break
		}
	}
	if !found || num <= 0 {
		return 0, false
	}
	return num, true
}

// isSVGData performs a lightweight detection of SVG content from raw bytes.
func isSVGData(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	// Only inspect the first ~4KB for detection
	n := len(data)
	if n > 4096 {
		n = 4096
	}
	header := bytes.ToLower(bytes.TrimSpace(data[:n]))
	return bytes.Contains(header, []byte("<svg")) ||
		bytes.Contains(header, []byte("xmlns=\"http://www.w3.org/2000/svg\"")) ||
		bytes.Contains(header, []byte("xmlns='http://www.w3.org/2000/svg'"))
}

// renderSVG rasterizes an SVG onto a transparent canvas of the given dimensions.
func renderSVG(svgData []byte, targetW, targetH int) (image.Image, error) {
	if targetW <= 0 || targetH <= 0 {
		return nil, fmt.Errorf("invalid target dimensions for SVG rendering: %dx%d", targetW, targetH)
	}
	icon, err := oksvg.ReadIconStream(bytes.NewReader(svgData))
	if err != nil {
		return nil, fmt.Errorf("failed to parse SVG: %w", err)
	}
	icon.SetTarget(0, 0, float64(targetW), float64(targetH))

	dst := image.NewRGBA(image.Rect(0, 0, targetW, targetH))
	scanner := rasterx.NewScannerGV(targetW, targetH, dst, dst.Bounds())
	dasher := rasterx.NewDasher(targetW, targetH, scanner)
	icon.Draw(dasher, 1.0)
	return dst, nil
}
