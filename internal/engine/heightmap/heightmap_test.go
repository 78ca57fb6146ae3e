package heightmap

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func TestFromBytes(t *testing.T) {
	raw := make([]uint8, 16)
	for i := range raw {
		raw[i] = uint8(i * 10)
	}
	h := FromBytes(4, raw)

	if h.At(0, 0) != 0 {
		t.Errorf("At(0,0) = %d, want 0", h.At(0, 0))
	}
	if h.At(3, 0) != 30 {
		t.Errorf("At(3,0) = %d, want 30", h.At(3, 0))
	}
	if h.At(1, 2) != 90 {
		t.Errorf("At(1,2) = %d, want 90", h.At(1, 2))
	}
}

func TestPaddingReplicatesEdge(t *testing.T) {
	raw := make([]uint8, 16)
	for i := range raw {
		raw[i] = uint8(i)
	}
	h := FromBytes(4, raw)

	// Column 4 mirrors column 3, row 4 mirrors row 3.
	if h.At(4, 2) != h.At(3, 2) {
		t.Errorf("pad column At(4,2) = %d, want %d", h.At(4, 2), h.At(3, 2))
	}
	if h.At(1, 4) != h.At(1, 3) {
		t.Errorf("pad row At(1,4) = %d, want %d", h.At(1, 4), h.At(1, 3))
	}
	if h.At(4, 4) != h.At(3, 3) {
		t.Errorf("pad corner At(4,4) = %d, want %d", h.At(4, 4), h.At(3, 3))
	}
}

func TestAtClamps(t *testing.T) {
	h := FromBytes(4, bytes.Repeat([]byte{42}, 16))

	if h.At(-3, 1) != 42 {
		t.Errorf("At(-3,1) = %d, want clamped 42", h.At(-3, 1))
	}
	if h.At(100, 100) != 42 {
		t.Errorf("At(100,100) = %d, want clamped 42", h.At(100, 100))
	}
}

func TestLoadRaw(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "map.raw")

	raw := make([]uint8, 8*8)
	for i := range raw {
		raw[i] = uint8(i)
	}
	if err := os.WriteFile(path, raw, 0644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	h, err := LoadRaw(path, 8)
	if err != nil {
		t.Fatalf("LoadRaw: %v", err)
	}
	if h.Size != 8 {
		t.Errorf("Size = %d, want 8", h.Size)
	}
	if h.At(7, 7) != 63 {
		t.Errorf("At(7,7) = %d, want 63", h.At(7, 7))
	}
}

func TestLoadRawShortFile(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "short.raw")

	if err := os.WriteFile(path, make([]byte, 10), 0644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	if _, err := LoadRaw(path, 8); err == nil {
		t.Error("expected error for undersized raw file")
	}
}

func TestLoadRawMissing(t *testing.T) {
	if _, err := LoadRaw("/nonexistent/map.raw", 8); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadImagePNG(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "map.png")

	img := image.NewGray(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.SetGray(x, y, color.Gray{Y: uint8(x * 30)})
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("creating fixture: %v", err)
	}
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encoding fixture: %v", err)
	}
	f.Close()

	h, err := LoadImage(path)
	if err != nil {
		t.Fatalf("LoadImage: %v", err)
	}
	if h.Size != 8 {
		t.Errorf("Size = %d, want 8", h.Size)
	}
	if h.At(0, 0) != 0 {
		t.Errorf("At(0,0) = %d, want 0", h.At(0, 0))
	}
	// Gray pixels survive the luma conversion unchanged.
	if h.At(4, 2) != 120 {
		t.Errorf("At(4,2) = %d, want 120", h.At(4, 2))
	}
}

func TestLoadImageRejectsNonSquare(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "wide.png")

	img := image.NewGray(image.Rect(0, 0, 8, 4))
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("creating fixture: %v", err)
	}
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encoding fixture: %v", err)
	}
	f.Close()

	if _, err := LoadImage(path); err == nil {
		t.Error("expected error for non-square image")
	}
}

func TestGenerateDeterministic(t *testing.T) {
	a := Generate(64, 12)
	b := Generate(64, 12)
	c := Generate(64, 13)

	same, diff := true, false
	for y := 0; y <= 64; y++ {
		for x := 0; x <= 64; x++ {
			if a.At(x, y) != b.At(x, y) {
				same = false
			}
			if a.At(x, y) != c.At(x, y) {
				diff = true
			}
		}
	}
	if !same {
		t.Error("same seed produced different terrain")
	}
	if !diff {
		t.Error("different seeds produced identical terrain")
	}
}

func TestGenerateUsesFullRange(t *testing.T) {
	h := Generate(128, 3)

	lo, hi := uint8(255), uint8(0)
	for y := 0; y < 128; y++ {
		for x := 0; x < 128; x++ {
			v := h.At(x, y)
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
	}
	if lo != 0 || hi != 255 {
		t.Errorf("height range [%d, %d], want normalized [0, 255]", lo, hi)
	}
}
