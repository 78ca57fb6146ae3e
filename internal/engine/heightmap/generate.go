package heightmap

import (
	"math/rand"
)

// Generate builds a procedural heightmap with diamond-square midpoint
// displacement on a wrapping grid. size must be a power of two. The same
// seed always yields the same terrain.
func Generate(size int, seed int64) *Heightmap {
	rng := rand.New(rand.NewSource(seed))
	mask := size - 1

	f := make([]float64, size*size)
	at := func(x, y int) float64 { return f[(y&mask)*size+(x&mask)] }
	set := func(x, y int, v float64) { f[(y&mask)*size+(x&mask)] = v }

	set(0, 0, rng.Float64())

	rough := 1.0
	for step := size; step > 1; step /= 2 {
		half := step / 2

		// Diamond pass: square centers
		for y := half; y < size; y += step {
			for x := half; x < size; x += step {
				avg := (at(x-half, y-half) + at(x+half, y-half) +
					at(x-half, y+half) + at(x+half, y+half)) / 4
				set(x, y, avg+(rng.Float64()*2-1)*rough)
			}
		}

		// Square pass: edge midpoints
		for y := 0; y < size; y += half {
			for x := (y + half) % step; x < size; x += step {
				avg := (at(x-half, y) + at(x+half, y) +
					at(x, y-half) + at(x, y+half)) / 4
				set(x, y, avg+(rng.Float64()*2-1)*rough)
			}
		}

		rough *= 0.55
	}

	// Normalize into the byte range
	lo, hi := f[0], f[0]
	for _, v := range f {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}

	h := New(size)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			h.Set(x, y, uint8((f[y*size+x]-lo)/span*255))
		}
	}
	h.pad()
	return h
}
