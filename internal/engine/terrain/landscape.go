package terrain

import (
	"fmt"

	"github.com/Faultbox/terraroam/internal/engine/heightmap"
	"github.com/Faultbox/terraroam/pkg/math"
)

// Landscape owns the patch grid, the node and vertex-slot pools, and the
// output buffers. One instance drives the whole per-frame pipeline:
//
//	land.Reset()
//	land.Tessellate()
//	land.Render()
//
// after which Vertices and Indices describe the frame's mesh.
type Landscape struct {
	cfg          Config
	patchSize    int
	varianceSize int

	hm      *heightmap.Heightmap
	pool    *nodePool
	patches []Patch

	// Vertex slots are position indices in multiples of 3; each slot holds
	// one triangle. Pushed in increasing order at Init so pops come out
	// decreasing.
	freeSlots []int32
	vertices  []float32
	indices   []uint32

	frameVariance float32
	camPos        math.Vec3
	camFwd        math.Vec3
	visible       int
}

// New builds a landscape over the heightmap, allocates the pools and output
// buffers, and precomputes every patch's variance trees.
func New(cfg Config, hm *heightmap.Heightmap) (*Landscape, error) {
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if hm.Size != cfg.MapSize {
		return nil, fmt.Errorf("terrain: heightmap size %d does not match configured map size %d", hm.Size, cfg.MapSize)
	}

	pps := cfg.PatchesPerSide
	l := &Landscape{
		cfg:          cfg,
		patchSize:    cfg.MapSize / pps,
		varianceSize: 1 << cfg.VarianceDepth,
		hm:           hm,
		pool:         newNodePool(cfg.NodePoolSize, 2*pps*pps),
		patches:      make([]Patch, pps*pps),
		freeSlots:    make([]int32, 0, cfg.MaxTris),
		vertices:     make([]float32, 9*cfg.MaxTris),
		indices:      make([]uint32, 3*cfg.MaxTris),
		camFwd:       math.Vec3{Z: -1},
	}

	for i := int32(0); i < int32(cfg.MaxTris); i++ {
		l.freeSlots = append(l.freeSlots, 3*i)
	}
	for i := range l.indices {
		l.indices[i] = uint32(i)
	}

	// Patch roots occupy the reserved arena entries, two per patch.
	for i := 0; i < pps; i++ {
		for j := 0; j < pps; j++ {
			p := &l.patches[i*pps+j]
			root := nodeIndex(2 * (i*pps + j))
			p.init(l, j*l.patchSize, i*l.patchSize, root, root+1)
			p.computeVariance()
		}
	}
	l.linkPatches()

	return l, nil
}

// linkPatches wires the bintree roots of adjacent patches together so forced
// splits propagate across patch boundaries. Every boundary edge is linked
// from both sides, for all patches, visible or not.
func (l *Landscape) linkPatches() {
	pps := l.cfg.PatchesPerSide
	for i := 0; i < pps; i++ {
		for j := 0; j < pps; j++ {
			p := &l.patches[i*pps+j]
			if j > 0 {
				l.pool.at(p.rootLeft).leftNb = l.patches[i*pps+j-1].rootRight
			}
			if j < pps-1 {
				l.pool.at(p.rootRight).leftNb = l.patches[i*pps+j+1].rootLeft
			}
			if i > 0 {
				l.pool.at(p.rootLeft).rightNb = l.patches[(i-1)*pps+j].rootRight
			}
			if i < pps-1 {
				l.pool.at(p.rootRight).rightNb = l.patches[(i+1)*pps+j].rootLeft
			}
		}
	}
}

// SetCamera updates the camera pose used by visibility and split decisions.
// forward need not be normalized; only its direction matters.
func (l *Landscape) SetCamera(position, forward math.Vec3) {
	l.camPos = position
	l.camFwd = forward.Normalize()
}

// Reset begins a frame: clears the visible count and recomputes each patch's
// visibility against the current camera.
func (l *Landscape) Reset() {
	l.visible = 0
	for i := range l.patches {
		p := &l.patches[i]
		p.reset()
		p.setVisibility(l.camPos, l.camFwd)
		if p.visible {
			l.visible++
		}
	}
}

// Tessellate splits and merges the bintrees of every visible patch toward
// the current frame-variance threshold.
func (l *Landscape) Tessellate() {
	for i := range l.patches {
		if l.patches[i].visible {
			l.patches[i].tessellate()
		}
	}
}

// Render writes leaf triangles into the vertex buffer for every visible
// patch, then lets the feedback controller adjust the variance threshold for
// the next frame.
func (l *Landscape) Render() {
	for i := range l.patches {
		if l.patches[i].visible {
			l.patches[i].render()
		}
	}
	l.updateFrameVariance()
}

// updateFrameVariance nudges the split threshold toward the wanted triangle
// count: under budget lowers variance (more splits next frame), over budget
// raises it.
func (l *Landscape) updateFrameVariance() {
	bias := l.cfg.MaxTris - l.cfg.WantedTris
	l.frameVariance -= float32(len(l.freeSlots)-bias) / float32(l.cfg.WantedTris)
	if l.frameVariance < 0 {
		l.frameVariance = 0
	}
}

// acquireSlot pops a free vertex slot. ok is false when the budget is spent;
// the leaf render that asked is skipped for this frame.
func (l *Landscape) acquireSlot() (int32, bool) {
	if len(l.freeSlots) == 0 {
		return noSlot, false
	}
	s := l.freeSlots[len(l.freeSlots)-1]
	l.freeSlots = l.freeSlots[:len(l.freeSlots)-1]
	return s, true
}

// releaseSlot zeroes the slot's three positions and returns it to the pool.
// Zeroed slots degenerate to zero-area triangles on the host side.
func (l *Landscape) releaseSlot(slot int32) {
	off := slot * 3
	for i := off; i < off+9; i++ {
		l.vertices[i] = 0
	}
	l.freeSlots = append(l.freeSlots, slot)
}

// writeSlot stores a triangle's three corner positions at the slot.
func (l *Landscape) writeSlot(slot int32, v0, v1, v2 [3]float32) {
	off := slot * 3
	copy(l.vertices[off:], v0[:])
	copy(l.vertices[off+3:], v1[:])
	copy(l.vertices[off+6:], v2[:])
}

// Vertices returns the shared vertex buffer: 3*MaxTris positions of three
// float32 components each. Unused slots hold zeros.
func (l *Landscape) Vertices() []float32 {
	return l.vertices
}

// Indices returns the fixed triangle index list [0, 1, 2, ...].
func (l *Landscape) Indices() []uint32 {
	return l.indices
}

// TrianglesRendered reports how many vertex slots are in use.
func (l *Landscape) TrianglesRendered() int {
	return l.cfg.MaxTris - len(l.freeSlots)
}

// FrameVariance returns the current split threshold.
func (l *Landscape) FrameVariance() float32 {
	return l.frameVariance
}

// SetFrameVariance overrides the split threshold, mainly to seed the
// controller before the first frame.
func (l *Landscape) SetFrameVariance(v float32) {
	l.frameVariance = v
}

// VisiblePatches reports how many patches passed the last visibility pass.
func (l *Landscape) VisiblePatches() int {
	return l.visible
}

// PatchSize returns the heightmap side length covered by one patch.
func (l *Landscape) PatchSize() int {
	return l.patchSize
}
