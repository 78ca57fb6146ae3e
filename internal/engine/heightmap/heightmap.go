// Package heightmap loads and stores the 8-bit terrain height grids the
// tessellation engine samples from.
package heightmap

// Heightmap is a read-only square grid of 8-bit heights. The grid carries one
// extra row and column past Size so triangle corners on the far edge can be
// sampled without bounds checks; the padding replicates the last data row and
// column.
type Heightmap struct {
	Size int
	data []uint8 // (Size+1) * (Size+1), row-major
}

// New returns a heightmap of the given side length with all heights zero.
func New(size int) *Heightmap {
	stride := size + 1
	return &Heightmap{
		Size: size,
		data: make([]uint8, stride*stride),
	}
}

// FromBytes builds a heightmap from size*size raw row-major samples.
func FromBytes(size int, raw []uint8) *Heightmap {
	h := New(size)
	for y := 0; y < size; y++ {
		copy(h.row(y), raw[y*size:(y+1)*size])
	}
	h.pad()
	return h
}

// At returns the height at grid position (x, y). Coordinates are clamped to
// the padded grid, so callers may pass values up to Size inclusive.
func (h *Heightmap) At(x, y int) uint8 {
	if x < 0 {
		x = 0
	} else if x > h.Size {
		x = h.Size
	}
	if y < 0 {
		y = 0
	} else if y > h.Size {
		y = h.Size
	}
	return h.data[y*(h.Size+1)+x]
}

// Set writes a height sample. Only loaders and generators mutate the grid;
// once handed to the engine it is read-only.
func (h *Heightmap) Set(x, y int, v uint8) {
	h.data[y*(h.Size+1)+x] = v
}

// row returns the writable data portion of row y, excluding the pad column.
func (h *Heightmap) row(y int) []uint8 {
	off := y * (h.Size + 1)
	return h.data[off : off+h.Size]
}

// pad fills the extra row and column by replicating the grid edge.
func (h *Heightmap) pad() {
	stride := h.Size + 1
	for y := 0; y < h.Size; y++ {
		h.data[y*stride+h.Size] = h.data[y*stride+h.Size-1]
	}
	last := (h.Size - 1) * stride
	copy(h.data[h.Size*stride:], h.data[last:last+stride])
}
