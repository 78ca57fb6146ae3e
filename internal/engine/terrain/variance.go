package terrain

// computeVariance fills both variance trees of the patch. Pure in the
// heightmap and the anchor: recomputing yields identical trees.
func (p *Patch) computeVariance() {
	s := p.land.patchSize
	bl := point{0, s}
	br := point{s, 0}
	tl := point{0, 0}
	tr := point{s, s}

	p.recursVariance(p.varianceLeft, bl, br, tl, p.height(bl), p.height(br), p.height(tl), 1)
	p.recursVariance(p.varianceRight, br, bl, tr, p.height(br), p.height(bl), p.height(tr), 1)
}

// recursVariance computes the subtree's maximum interpolation error for the
// triangle (left, right, apex), storing one plus the clamped value at nodes
// inside the tree. Stored entries are therefore always at least 1, flat
// terrain included.
func (p *Patch) recursVariance(tree []uint8, left, right, apex point, leftZ, rightZ, apexZ, node int) int {
	center := midpoint(left, right)
	centerZ := p.height(center)

	// Error of approximating the center by the hypotenuse midpoint.
	variance := absInt(centerZ - (leftZ+rightZ)/2)

	if absInt(left.X-right.X) >= 8 || absInt(left.Y-right.Y) >= 8 {
		a := p.recursVariance(tree, apex, left, center, apexZ, leftZ, centerZ, node<<1)
		if a > variance {
			variance = a
		}
		b := p.recursVariance(tree, right, apex, center, rightZ, apexZ, centerZ, node<<1|1)
		if b > variance {
			variance = b
		}
	}

	if node < len(tree) {
		stored := variance + 1
		if stored > 255 {
			stored = 255
		}
		tree[node] = uint8(stored)
	}
	return variance
}
