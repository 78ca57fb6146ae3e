package terrain

import (
	"testing"

	"github.com/Faultbox/terraroam/internal/engine/heightmap"
	"github.com/Faultbox/terraroam/pkg/math"
)

// overhead is a camera pose high above the map center looking straight
// down, which makes every patch visible.
func overhead(l *Landscape, height float32) (math.Vec3, math.Vec3) {
	c := float32(l.cfg.MapSize / 2)
	return math.Vec3{X: c, Y: height, Z: c}, math.Vec3{Y: -1}
}

func runFrame(l *Landscape) {
	l.Reset()
	l.Tessellate()
	l.Render()
}

// countAllocated walks every patch tree and counts live non-root nodes.
func countAllocated(l *Landscape) int {
	total := 0
	for _, root := range allRoots(l) {
		total += len(collectSubtree(l, root)) - 1
	}
	return total
}

// countSlotted counts nodes holding a vertex slot.
func countSlotted(l *Landscape) int {
	total := 0
	for _, root := range allRoots(l) {
		for _, h := range collectSubtree(l, root) {
			if l.pool.at(h).slot != noSlot {
				total++
			}
		}
	}
	return total
}

func TestFlatMapRendersTwoTrianglesPerPatch(t *testing.T) {
	l := newTestLandscape(t, testConfig(), flatMap(128, 100))
	l.SetCamera(math.Vec3{X: 64, Y: 200, Z: 64}, math.Vec3{Y: -1})

	runFrame(l)

	if got := l.VisiblePatches(); got != 4 {
		t.Fatalf("VisiblePatches() = %d, want 4", got)
	}
	// Unit variance everywhere keeps both roots of every patch unsplit.
	if got := l.TrianglesRendered(); got != 8 {
		t.Errorf("TrianglesRendered() = %d, want 8 on flat terrain", got)
	}

	// Repeat frames must not change the count.
	for i := 0; i < 5; i++ {
		runFrame(l)
	}
	if got := l.TrianglesRendered(); got != 8 {
		t.Errorf("TrianglesRendered() = %d after repeat frames, want 8", got)
	}
}

func TestSpikeSplitsLocally(t *testing.T) {
	l := newTestLandscape(t, testConfig(), spikeMap(128, 64, 64))
	l.SetCamera(math.Vec3{X: 64, Y: 200, Z: 64}, math.Vec3{Y: -1})
	l.SetFrameVariance(5)

	l.Reset()
	l.Tessellate()

	// Every patch touches the spike at one corner and must refine there,
	// but the bulk of each tree stays coarse.
	for pi := range l.patches {
		p := &l.patches[pi]
		nodes := len(collectSubtree(l, p.rootLeft)) + len(collectSubtree(l, p.rootRight))
		if nodes <= 2 {
			t.Errorf("patch %d: no splits despite adjacent spike", pi)
		}
		leaves := len(collectLeaves(l, p.rootLeft)) + len(collectLeaves(l, p.rootRight))
		if leaves > 512 {
			t.Errorf("patch %d: %d leaves; spike refinement should stay local", pi, leaves)
		}
	}
}

func TestTessellateIsIdempotent(t *testing.T) {
	l := newTestLandscape(t, testConfig(), heightmap.Generate(128, 6))
	l.SetCamera(overhead(l, 150))
	l.SetFrameVariance(10)

	l.Reset()
	l.Tessellate()

	var first []nodeIndex
	for _, root := range allRoots(l) {
		first = append(first, collectLeaves(l, root)...)
	}

	l.Tessellate()

	var second []nodeIndex
	for _, root := range allRoots(l) {
		second = append(second, collectLeaves(l, root)...)
	}

	if len(first) != len(second) {
		t.Fatalf("leaf count changed: %d -> %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("leaf set changed at position %d: %d -> %d", i, first[i], second[i])
		}
	}
}

func TestPoolAndSlotConservation(t *testing.T) {
	cfg := testConfig()
	l := newTestLandscape(t, cfg, heightmap.Generate(128, 9))
	l.SetCamera(overhead(l, 140))

	for frame := 0; frame < 10; frame++ {
		runFrame(l)

		if got := l.pool.available() + countAllocated(l); got != cfg.NodePoolSize {
			t.Fatalf("frame %d: node accounting %d, want %d", frame, got, cfg.NodePoolSize)
		}
		if got := len(l.freeSlots) + countSlotted(l); got != cfg.MaxTris {
			t.Fatalf("frame %d: slot accounting %d, want %d", frame, got, cfg.MaxTris)
		}
		if got := countSlotted(l); got != l.TrianglesRendered() {
			t.Fatalf("frame %d: %d slotted nodes vs %d rendered triangles", frame, got, l.TrianglesRendered())
		}
	}
}

func TestSlotExhaustionDegradesQuietly(t *testing.T) {
	cfg := testConfig()
	cfg.MaxTris = 16
	cfg.WantedTris = 8
	l := newTestLandscape(t, cfg, heightmap.Generate(128, 9))
	l.SetCamera(overhead(l, 140))
	l.SetFrameVariance(0)

	for frame := 0; frame < 3; frame++ {
		runFrame(l)

		if got := l.TrianglesRendered(); got > 16 {
			t.Fatalf("frame %d: rendered %d triangles with a budget of 16", frame, got)
		}
		if got := len(l.freeSlots) + countSlotted(l); got != 16 {
			t.Fatalf("frame %d: slot accounting %d, want 16", frame, got)
		}
	}

	// The first frame wants far more than 16 triangles, so the budget must
	// be fully spent.
	if got := l.TrianglesRendered(); got != 16 {
		t.Errorf("TrianglesRendered() = %d, want the full budget of 16", got)
	}
}

// TestMeshIsCrackFree renders a rough terrain and checks every triangle
// edge: an edge either lies on the map border or is shared by exactly two
// triangles. A T-junction would surface as an unshared interior edge.
func TestMeshIsCrackFree(t *testing.T) {
	l := newTestLandscape(t, testConfig(), heightmap.Generate(128, 3))
	l.SetCamera(overhead(l, 150))
	l.SetFrameVariance(0)

	runFrame(l)

	type edge struct {
		x1, z1, x2, z2 int
	}
	edges := make(map[edge]int)

	for _, root := range allRoots(l) {
		for _, h := range collectSubtree(l, root) {
			n := l.pool.at(h)
			if n.slot == noSlot {
				continue
			}
			off := n.slot * 3
			var px, pz [3]int
			for c := 0; c < 3; c++ {
				px[c] = int(l.vertices[off+int32(c)*3])
				pz[c] = int(l.vertices[off+int32(c)*3+2])
			}
			for c := 0; c < 3; c++ {
				d := (c + 1) % 3
				e := edge{px[c], pz[c], px[d], pz[d]}
				if e.x2 < e.x1 || (e.x2 == e.x1 && e.z2 < e.z1) {
					e = edge{e.x2, e.z2, e.x1, e.z1}
				}
				edges[e]++
			}
		}
	}

	if len(edges) == 0 {
		t.Fatal("no rendered triangles")
	}

	size := l.cfg.MapSize
	for e, count := range edges {
		switch count {
		case 2:
		case 1:
			onBorder := (e.x1 == e.x2 && (e.x1 == 0 || e.x1 == size)) ||
				(e.z1 == e.z2 && (e.z1 == 0 || e.z1 == size))
			if !onBorder {
				t.Fatalf("interior edge (%d,%d)-(%d,%d) used once: T-junction", e.x1, e.z1, e.x2, e.z2)
			}
		default:
			t.Fatalf("edge (%d,%d)-(%d,%d) used %d times", e.x1, e.z1, e.x2, e.z2, count)
		}
	}
}

func TestControllerConvergence(t *testing.T) {
	cfg := testConfig()
	cfg.MaxTris = 6000
	cfg.WantedTris = 3000
	cfg.NodePoolSize = 60000
	l := newTestLandscape(t, cfg, heightmap.Generate(128, 5))
	l.SetCamera(overhead(l, 180))
	l.SetFrameVariance(100)

	var tail []int
	for frame := 0; frame < 400; frame++ {
		runFrame(l)
		if frame >= 350 {
			tail = append(tail, l.TrianglesRendered())
		}
	}

	sum := 0
	for _, v := range tail {
		sum += v
	}
	avg := sum / len(tail)

	lo, hi := cfg.WantedTris*7/10, cfg.WantedTris*13/10
	if avg < lo || avg > hi {
		t.Errorf("settled at %d triangles on average, want within [%d, %d]", avg, lo, hi)
	}
}

func TestInvisiblePatchesDoNoWork(t *testing.T) {
	l := newTestLandscape(t, testConfig(), heightmap.Generate(128, 8))

	// Camera past the +X edge looking further away from the map.
	l.SetCamera(math.Vec3{X: 600, Y: 40, Z: 64}, math.Vec3{X: 1})

	runFrame(l)

	if got := l.VisiblePatches(); got != 0 {
		t.Fatalf("VisiblePatches() = %d, want 0 looking away from the map", got)
	}
	if got := l.TrianglesRendered(); got != 0 {
		t.Errorf("TrianglesRendered() = %d, want 0 with no visible patches", got)
	}
	if got := countAllocated(l); got != 0 {
		t.Errorf("%d nodes allocated with no visible patches", got)
	}
}

func TestVertexBufferLayout(t *testing.T) {
	cfg := testConfig()
	l := newTestLandscape(t, cfg, flatMap(128, 77))
	l.SetCamera(math.Vec3{X: 64, Y: 200, Z: 64}, math.Vec3{Y: -1})

	if len(l.Vertices()) != 9*cfg.MaxTris {
		t.Fatalf("vertex buffer length %d, want %d", len(l.Vertices()), 9*cfg.MaxTris)
	}
	idx := l.Indices()
	if len(idx) != 3*cfg.MaxTris {
		t.Fatalf("index buffer length %d, want %d", len(idx), 3*cfg.MaxTris)
	}
	for i, v := range idx {
		if v != uint32(i) {
			t.Fatalf("index %d = %d, want identity mapping", i, v)
		}
	}

	runFrame(l)

	// Flat map at height 77: rendered slots carry Y = 77, everything else
	// stays zeroed.
	seen := 0
	for pos := 0; pos < 3*cfg.MaxTris; pos++ {
		y := l.vertices[pos*3+1]
		if y == 77 {
			seen++
		} else if y != 0 {
			t.Fatalf("vertex %d has unexpected height %f", pos, y)
		}
	}
	if seen != 3*l.TrianglesRendered() {
		t.Errorf("%d vertices written, want %d", seen, 3*l.TrianglesRendered())
	}
}
