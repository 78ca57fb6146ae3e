package heightmap

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
)

// Load reads a heightmap from path, dispatching on the file extension.
// .raw files need the expected side length; image formats carry their own.
func Load(path string, size int) (*Heightmap, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".bmp", ".png":
		return LoadImage(path)
	default:
		return LoadRaw(path, size)
	}
}

// LoadRaw reads size*size raw 8-bit samples, row-major, origin at (0,0).
func LoadRaw(path string, size int) (*Heightmap, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading heightmap %s: %w", path, err)
	}
	if len(raw) < size*size {
		return nil, fmt.Errorf("heightmap %s: got %d bytes, want %d", path, len(raw), size*size)
	}
	return FromBytes(size, raw), nil
}

// LoadImage decodes a BMP or PNG file into a heightmap, converting pixels to
// 8-bit luminance. The image must be square.
func LoadImage(path string) (*Heightmap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening heightmap %s: %w", path, err)
	}
	defer f.Close()

	var img image.Image
	if strings.EqualFold(filepath.Ext(path), ".bmp") {
		img, err = bmp.Decode(f)
	} else {
		img, err = png.Decode(f)
	}
	if err != nil {
		return nil, fmt.Errorf("decoding heightmap %s: %w", path, err)
	}

	b := img.Bounds()
	if b.Dx() != b.Dy() {
		return nil, fmt.Errorf("heightmap %s: image is %dx%d, want square", path, b.Dx(), b.Dy())
	}

	size := b.Dx()
	h := New(size)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			r, g, bl, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			// Rec. 601 luma, 16-bit channels down to a byte
			lum := (299*r + 587*g + 114*bl) / 1000
			h.Set(x, y, uint8(lum>>8))
		}
	}
	h.pad()
	return h, nil
}
