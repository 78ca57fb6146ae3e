package terrain

// Bintree structure operations. Split and merge work purely on node handles
// through the shared arena, so a forced-split chain can cross patch
// boundaries without caring which patch a node belongs to.

// split forces t to have children while keeping the mesh crack-free: a node
// may only split inside a diamond, so its base neighbor is split first when
// needed, which can propagate arbitrarily far.
func (l *Landscape) split(t nodeIndex) {
	n := l.pool.at(t)
	if n.left != nilNode {
		return
	}

	// Not in a diamond: force the base neighbor down to our level first.
	if n.base != nilNode && l.pool.at(n.base).base != t {
		l.split(n.base)
	}

	left, ok := l.pool.alloc()
	if !ok {
		return
	}
	right, ok := l.pool.alloc()
	if !ok {
		l.pool.release(left)
		return
	}

	// The parent's triangle is replaced by the children's; give back its
	// slot and un-render the chain above it.
	if n.rendered {
		if n.slot != noSlot {
			l.releaseSlot(n.slot)
			n.slot = noSlot
		}
		n.rendered = false
	}
	n.tessellated = false
	l.clearAncestorsRendered(t)

	ln := l.pool.at(left)
	rn := l.pool.at(right)
	ln.parent = t
	rn.parent = t
	ln.leftNb = right
	rn.rightNb = left

	// Children inherit the parent's legs as their hypotenuses.
	ln.base = n.leftNb
	rn.base = n.rightNb
	if n.leftNb != nilNode {
		l.replaceNeighbor(n.leftNb, t, left)
	}
	if n.rightNb != nilNode {
		l.replaceNeighbor(n.rightNb, t, right)
	}

	n.left = left
	n.right = right

	if n.base != nilNode {
		bn := l.pool.at(n.base)
		if bn.left != nilNode {
			// The neighbor is already split: cross-wire the four children
			// along the shared hypotenuse.
			l.pool.at(bn.left).rightNb = right
			l.pool.at(bn.right).leftNb = left
			ln.rightNb = bn.right
			rn.leftNb = bn.left
		} else {
			// Forced split. The neighbor's own prelude is a no-op here since
			// its base is t, and its cross-wiring step completes the diamond.
			l.split(n.base)
		}
	} else {
		// Map edge: the children's inner legs face nothing.
		ln.rightNb = nilNode
		rn.leftNb = nilNode
	}
}

// replaceNeighbor rewrites whichever of n's three neighbor links point at
// old to point at repl.
func (l *Landscape) replaceNeighbor(n, old, repl nodeIndex) {
	nb := l.pool.at(n)
	if nb.base == old {
		nb.base = repl
	}
	if nb.leftNb == old {
		nb.leftNb = repl
	}
	if nb.rightNb == old {
		nb.rightNb = repl
	}
}

// clearAncestorsRendered walks up from t marking the chain not-rendered, so
// the render traversal descends into the changed subtree again.
func (l *Landscape) clearAncestorsRendered(t nodeIndex) {
	for a := l.pool.at(t).parent; a != nilNode; a = l.pool.at(a).parent {
		l.pool.at(a).rendered = false
	}
}

// mergable reports whether t's children can collapse back into it, which
// needs both children to be leaves.
func (l *Landscape) mergable(t nodeIndex) bool {
	n := l.pool.at(t)
	if n.left == nilNode {
		return false
	}
	return l.pool.at(n.left).left == nilNode && l.pool.at(n.right).left == nilNode
}

// merge collapses t's two leaf children back into t, rewiring any neighbor
// links that referenced the children and releasing their slots and nodes.
func (l *Landscape) merge(t nodeIndex) {
	n := l.pool.at(t)

	children := [2]nodeIndex{n.left, n.right}
	for i, c := range children {
		cn := l.pool.at(c)
		if cn.base == nilNode {
			continue
		}
		bn := l.pool.at(cn.base)
		baseWasChild := bn.base == c
		l.replaceNeighbor(cn.base, c, t)
		if baseWasChild {
			// The child's base sits across what becomes t's leg again. If t
			// still points at the neighbor's parent from before the split,
			// drop the link down to the neighbor itself.
			side := &n.leftNb
			if children[i] == n.right {
				side = &n.rightNb
			}
			if *side == bn.parent && bn.parent != nilNode {
				*side = cn.base
			}
			if bn.parent != nilNode {
				l.replaceNeighbor(bn.parent, c, t)
			}
		}
	}

	for _, c := range children {
		cn := l.pool.at(c)
		if cn.rendered {
			if cn.slot != noSlot {
				l.releaseSlot(cn.slot)
				cn.slot = noSlot
			}
			cn.rendered = false
			l.clearAncestorsRendered(c)
		}
	}

	l.pool.release(n.left)
	l.pool.release(n.right)
	n.left = nilNode
	n.right = nilNode
}

// mergeDown recursively merges a subtree toward t, collapsing diamonds from
// the leaves up. A node whose base neighbor cannot merge in step is left
// split, since merging it alone would open a crack.
func (l *Landscape) mergeDown(t nodeIndex) {
	n := l.pool.at(t)
	if n.left == nilNode {
		return
	}
	if l.mergable(t) {
		if n.base == nilNode {
			l.merge(t)
			return
		}
		if l.mergable(n.base) {
			l.merge(n.base)
			l.merge(t)
		}
		return
	}
	l.mergeDown(n.left)
	l.mergeDown(n.right)
}
