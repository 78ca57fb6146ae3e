package terrain

import (
	"bytes"
	"testing"

	"github.com/Faultbox/terraroam/internal/engine/heightmap"
)

func TestVarianceFlatIsUnit(t *testing.T) {
	l := newTestLandscape(t, testConfig(), flatMap(128, 100))

	for pi := range l.patches {
		p := &l.patches[pi]
		for _, tree := range [][]uint8{p.varianceLeft, p.varianceRight} {
			for n := 1; n < len(tree); n++ {
				if tree[n] != 1 {
					t.Fatalf("patch %d node %d: variance %d, want 1 on flat terrain", pi, n, tree[n])
				}
			}
		}
	}
}

func TestVarianceMonotone(t *testing.T) {
	l := newTestLandscape(t, testConfig(), heightmap.Generate(128, 11))

	for pi := range l.patches {
		p := &l.patches[pi]
		for _, tree := range [][]uint8{p.varianceLeft, p.varianceRight} {
			for n := 1; n < len(tree)/2; n++ {
				max := tree[2*n]
				if tree[2*n+1] > max {
					max = tree[2*n+1]
				}
				if int(tree[n]) < int(max)-1 {
					t.Fatalf("patch %d node %d: variance %d below child max %d-1", pi, n, tree[n], max)
				}
			}
		}
	}
}

func TestVariancePure(t *testing.T) {
	l := newTestLandscape(t, testConfig(), heightmap.Generate(128, 4))

	p := &l.patches[1]
	left := append([]uint8(nil), p.varianceLeft...)
	right := append([]uint8(nil), p.varianceRight...)

	p.computeVariance()

	if !bytes.Equal(left, p.varianceLeft) {
		t.Error("recomputing left variance tree changed it")
	}
	if !bytes.Equal(right, p.varianceRight) {
		t.Error("recomputing right variance tree changed it")
	}
}

func TestVarianceSpike(t *testing.T) {
	// A single full-height sample where all four patches meet. Every patch
	// sees it from one corner, so each tree pair carries a hot path while
	// the interior stays at the flat-terrain floor.
	l := newTestLandscape(t, testConfig(), spikeMap(128, 64, 64))

	for pi := range l.patches {
		p := &l.patches[pi]
		hot, unit := 0, 0
		for _, tree := range [][]uint8{p.varianceLeft, p.varianceRight} {
			for n := 1; n < len(tree); n++ {
				if tree[n] > 1 {
					hot++
				} else {
					unit++
				}
			}
		}
		if hot == 0 {
			t.Errorf("patch %d: no variance entries above 1 despite adjacent spike", pi)
		}
		if hot >= unit {
			t.Errorf("patch %d: %d hot entries vs %d unit entries; spike should stay local", pi, hot, unit)
		}
	}
}

func TestVarianceSaturates(t *testing.T) {
	// A full-contrast checkerboard drives the interpolation error to the
	// byte ceiling. The block period is 8 so the coarsest sampled midpoints
	// still land on opposing blocks.
	size := 128
	raw := make([]uint8, size*size)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if (x/8+y/8)%2 == 1 {
				raw[y*size+x] = 255
			}
		}
	}
	l := newTestLandscape(t, testConfig(), heightmap.FromBytes(size, raw))

	p := &l.patches[0]
	if p.varianceLeft[1] != 255 {
		t.Errorf("root variance = %d, want saturated 255", p.varianceLeft[1])
	}
}
