package terrain

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/terraroam/pkg/math"
)

// Patch is one square sub-region of the heightmap. It holds two root
// triangles covering its lower-left and upper-right halves, which share the
// anti-diagonal hypotenuse and are each other's base neighbors.
//
// Corner layout, patch-local, with S the patch size:
//
//	left root  (left, right, apex) = (0,S) (S,0) (0,0)
//	right root (left, right, apex) = (S,0) (0,S) (S,S)
type Patch struct {
	land *Landscape

	// Anchor into the heightmap and into world space. They coincide for a
	// landscape covering the whole map but are sampled separately.
	heightX, heightY int
	worldX, worldY   int

	rootLeft, rootRight nodeIndex

	varianceLeft  []uint8
	varianceRight []uint8
	// variance tree the current recursion reads, matching the root side
	currentVariance []uint8

	visible bool
}

// init anchors the patch, wires its two roots into a diamond, and sizes the
// variance trees.
func (p *Patch) init(l *Landscape, x, y int, rootLeft, rootRight nodeIndex) {
	p.land = l
	p.heightX, p.heightY = x, y
	p.worldX, p.worldY = x, y
	p.rootLeft, p.rootRight = rootLeft, rootRight
	p.varianceLeft = make([]uint8, l.varianceSize)
	p.varianceRight = make([]uint8, l.varianceSize)

	l.pool.at(rootLeft).base = rootRight
	l.pool.at(rootRight).base = rootLeft
}

// height samples the heightmap at a patch-local grid position.
func (p *Patch) height(pt point) int {
	return int(p.land.hm.At(p.heightX+pt.X, p.heightY+pt.Y))
}

// world lifts a patch-local grid position to a world-space vertex, heightmap
// x/y becoming world X/Z and the height byte becoming Y.
func (p *Patch) world(pt point) [3]float32 {
	return [3]float32{
		float32(p.worldX + pt.X),
		float32(p.height(pt)),
		float32(p.worldY + pt.Y),
	}
}

// reset clears per-frame visibility. Tree state persists between frames.
func (p *Patch) reset() {
	p.visible = false
}

// setVisibility tests the patch center against the camera's forward
// half-space. Deliberately generous: a patch level with or ahead of the
// camera counts as visible, as does anything nearby.
func (p *Patch) setVisibility(eye, forward math.Vec3) {
	s := p.land.patchSize
	center := point{s / 2, s / 2}
	c := p.world(center)

	dx := c[0] - eye.X
	dy := c[1] - eye.Y
	dz := c[2] - eye.Z

	if dx*forward.X+dy*forward.Y+dz*forward.Z > 0 {
		p.visible = true
		return
	}
	near := float32(2 * s)
	p.visible = dx*dx+dy*dy+dz*dz < near*near
}

// tessellate runs the split/merge traversal for both halves. The variance
// tree is switched per side to match the corner ordering used when it was
// computed.
func (p *Patch) tessellate() {
	s := p.land.patchSize
	p.currentVariance = p.varianceLeft
	p.recursTessellate(p.rootLeft, point{0, s}, point{s, 0}, point{0, 0}, 1)
	p.currentVariance = p.varianceRight
	p.recursTessellate(p.rootRight, point{s, 0}, point{0, s}, point{s, s}, 1)
}

// recursTessellate decides per node whether the triangle is too coarse for
// its variance and camera distance (split) or finer than needed (merge), and
// recurses with the rotated corner ordering of the bintree.
func (p *Patch) recursTessellate(t nodeIndex, left, right, apex point, node int) {
	l := p.land
	center := midpoint(left, right)
	n := l.pool.at(t)

	var triVariance float32
	if node < l.varianceSize && p.currentVariance[node] > 1 {
		c := p.world(center)
		dx := c[0] - l.camPos.X
		dy := c[1] - l.camPos.Y
		dz := c[2] - l.camPos.Z
		distance := 1 + math32.Sqrt(dx*dx+dy*dy+dz*dz)
		triVariance = float32(p.currentVariance[node]) * float32(l.cfg.MapSize) * 2 / distance
	}

	tol := l.cfg.VarianceTolerance
	switch {
	case !n.tessellated && (node >= l.varianceSize || triVariance > l.frameVariance+tol):
		l.split(t)
		if n.left != nilNode && (absInt(left.X-right.X) >= 3 || absInt(left.Y-right.Y) >= 3) {
			p.recursTessellate(n.left, apex, left, center, node<<1)
			p.recursTessellate(n.right, right, apex, center, node<<1|1)
		}
	case triVariance < l.frameVariance-tol && n.left != nilNode && n.rendered:
		l.mergeDown(t)
	}

	// A subtree is done once both halves are, or once it is past variance
	// resolution.
	if n.left != nilNode {
		if l.pool.at(n.left).tessellated && l.pool.at(n.right).tessellated {
			n.tessellated = true
		}
	} else if node >= l.varianceSize {
		n.tessellated = true
	}
}

// render emits leaf triangles for both halves.
func (p *Patch) render() {
	s := p.land.patchSize
	p.recursRender(p.rootLeft, point{0, s}, point{s, 0}, point{0, 0})
	p.recursRender(p.rootRight, point{s, 0}, point{0, s}, point{s, s})
}

// recursRender walks to the leaves, writing each unrendered leaf into a
// vertex slot. A subtree whose leaves are all written is marked rendered and
// skipped entirely on later frames.
func (p *Patch) recursRender(t nodeIndex, left, right, apex point) {
	l := p.land
	n := l.pool.at(t)
	if n.rendered {
		return
	}

	if n.left != nilNode {
		center := midpoint(left, right)
		p.recursRender(n.left, apex, left, center)
		p.recursRender(n.right, right, apex, center)
		if l.pool.at(n.left).rendered && l.pool.at(n.right).rendered {
			n.rendered = true
		}
		return
	}

	slot, ok := l.acquireSlot()
	if !ok {
		// Budget spent; this leaf stays unrendered and retries next frame.
		return
	}
	l.writeSlot(slot, p.world(left), p.world(right), p.world(apex))
	n.slot = slot
	n.rendered = true
}
