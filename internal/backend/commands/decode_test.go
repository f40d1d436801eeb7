package commands

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

func TestHasCorrectPngSignature(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		expected bool
	}{
		{"Valid PNG signature", []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A, 0x00}, true},
		{"Invalid signature", []byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}, false},
		{"Too short", []byte{0x89, 'P', 'N', 'G'}, false},
		{"Empty data", []byte{}, false},
		{"JPEG signature", []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 0x4A, 0x46}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := hasCorrectPngSignature(tt.data); result != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, result)
			}
		})
	}
}

func TestDecodeImage_PNG(t *testing.T) {
	data := encodeTestPNG(t, makeSolidImage(7, 5, color.White))

	img, format, err := DecodeImage(data, 0)
	if err != nil {
		t.Fatalf("DecodeImage failed: %v", err)
	}
	if format != "png" {
		t.Errorf("Expected format png, got %s", format)
	}
	if b := img.Bounds(); b.Dx() != 7 || b.Dy() != 5 {
		t.Errorf("Expected 7x5, got %dx%d", b.Dx(), b.Dy())
	}
}

func TestDecodeImage_JPEG(t *testing.T) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, makeSolidImage(9, 9, color.White), nil); err != nil {
		t.Fatalf("failed to build test JPEG: %v", err)
	}

	_, format, err := DecodeImage(buf.Bytes(), 0)
	if err != nil {
		t.Fatalf("DecodeImage failed: %v", err)
	}
	if format != "jpeg" {
		t.Errorf("Expected format jpeg, got %s", format)
	}
}

func TestDecodeImage_Invalid(t *testing.T) {
	if _, _, err := DecodeImage([]byte("not a valid image"), 0); err == nil {
		t.Error("Expected error for invalid image data, got nil")
	}
	if _, _, err := DecodeImage(nil, 0); err == nil {
		t.Error("Expected error for empty input, got nil")
	}
}

func TestDecodeImage_SVGFallbackSize(t *testing.T) {
	svgData := []byte(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100 100"><rect width="100" height="100" fill="red"/></svg>`)

	img, format, err := DecodeImage(svgData, 64)
	if err != nil {
		t.Fatalf("DecodeImage failed for SVG: %v", err)
	}
	if format != FormatSVG {
		t.Errorf("Expected format %s, got %s", FormatSVG, format)
	}
	if b := img.Bounds(); b.Dx() != 64 || b.Dy() != 64 {
		t.Fatalf("Expected 64x64, got %dx%d", b.Dx(), b.Dy())
	}
	r, _, _, a := img.At(32, 32).RGBA()
	if r>>8 != 255 || a>>8 != 255 {
		t.Errorf("Expected red center, got r=%d a=%d", r>>8, a>>8)
	}

	if _, _, err := DecodeImage(svgData, 0); err == nil {
		t.Error("Expected error when SVG has no size and no fallback is set")
	}
}

func TestDecodeImage_SVGExplicitSize(t *testing.T) {
	svgData := []byte(`<svg xmlns="http://www.w3.org/2000/svg" width="120px" height="80" viewBox="0 0 120 80"><rect stroke-width="2" width="120" height="80" fill="blue"/></svg>`)

	img, _, err := DecodeImage(svgData, 10)
	if err != nil {
		t.Fatalf("DecodeImage failed: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 120 || b.Dy() != 80 {
		t.Fatalf("Expected explicit 120x80, got %dx%d", b.Dx(), b.Dy())
	}
}

func TestParseNumericAttr(t *testing.T) {
	tests := []struct {
		tag    string
		attr   string
		want   int
		wantOk bool
	}{
		{`<svg width="10" height='20'`, "width", 10, true},
		{`<svg width="10" height='20'`, "height", 20, true},
		{`<svg stroke-width="3"`, "width", 0, false},
		{`<svg width="auto"`, "width", 0, false},
		{`<svg width=10`, "width", 0, false},
	}
	for _, tt := range tests {
		got, ok := parseNumericAttr(tt.tag, tt.attr)
		if got != tt.want || ok != tt.wantOk {
			t.Errorf("parseNumericAttr(%q, %q) = %d, %v; want %d, %v", tt.tag, tt.attr, got, ok, tt.want, tt.wantOk)
		}
	}
}

func TestEncodePNG_RoundTrip(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 3, 3))
	src.SetNRGBA(1, 1, color.NRGBA{1, 2, 3, 128})

	data, err := EncodePNG(src)
	if err != nil {
		t.Fatalf("EncodePNG failed: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Result is not valid PNG: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 3 || b.Dy() != 3 {
		t.Errorf("Expected 3x3, got %dx%d", b.Dx(), b.Dy())
	}
}
