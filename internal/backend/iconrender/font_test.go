package iconrender

import (
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/font/gofont/goitalic"
)

func TestLoadFace_FallsBackWhenNoCandidateExists(t *testing.T) {
	dir := t.TempDir()
	face, err := LoadFace([]string{filepath.Join(dir, "missing.ttf")}, 48)
	if err != nil {
		t.Fatalf("LoadFace failed: %v", err)
	}
	defer face.Close()

	if !face.Fallback {
		t.Error("Expected fallback face")
	}
	if face.Source != EmbeddedFontName {
		t.Errorf("Expected source %s, got %s", EmbeddedFontName, face.Source)
	}
}

func TestLoadFace_SkipsUnparsableFont(t *testing.T) {
	dir := t.TempDir()
	broken := filepath.Join(dir, "broken.ttf")
	if err := os.WriteFile(broken, []byte("not a font"), 0o644); err != nil {
		t.Fatalf("failed to write test font: %v", err)
	}
	brokenCollection := filepath.Join(dir, "broken.ttc")
	if err := os.WriteFile(brokenCollection, []byte("not a collection"), 0o644); err != nil {
		t.Fatalf("failed to write test font: %v", err)
	}

	face, err := LoadFace([]string{broken, brokenCollection}, 48)
	if err != nil {
		t.Fatalf("LoadFace failed: %v", err)
	}
	defer face.Close()

	if !face.Fallback {
		t.Error("Expected fallback after unparsable candidates")
	}
}

func TestLoadFace_UsesFirstLoadableCandidate(t *testing.T) {
	dir := t.TempDir()
	fontPath := filepath.Join(dir, "italic.ttf")
	if err := os.WriteFile(fontPath, goitalic.TTF, 0o644); err != nil {
		t.Fatalf("failed to write test font: %v", err)
	}

	face, err := LoadFace([]string{filepath.Join(dir, "missing.ttf"), fontPath}, 48)
	if err != nil {
		t.Fatalf("LoadFace failed: %v", err)
	}
	defer face.Close()

	if face.Fallback {
		t.Error("Expected candidate font, got fallback")
	}
	if face.Source != fontPath {
		t.Errorf("Expected source %s, got %s", fontPath, face.Source)
	}
}

func TestLoadFace_InvalidSize(t *testing.T) {
	if _, err := LoadFace(nil, 0); err == nil {
		t.Error("Expected error for zero font size")
	}
}
