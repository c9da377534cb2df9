// Copyright 2026 The flowperc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package perc

// node is one arena slot. A root is encoded by parent == its own index;
// this eliminates raw self-referential pointers and the aliasing/cycle
// concerns the original C++ had with them (Design Notes §9).
type node struct {
	label  uint32
	parent int
	rank   uint8
}

// DSU is a disjoint-set union over cell ids, path-compressed and
// union-by-rank, extended with retarget for cross-slab label stitching.
//
// The arena owns every node; the index map supplies the external
// (global cell id) -> (arena slot) lookup. External callers only ever see
// ids and Node values; no pointer into the arena escapes. A Node returned
// by Find is a copy of the representative's label at the time of the call,
// so it goes stale after a later Union or Retarget and must be re-fetched
// via Find.
type DSU struct {
	arena []node
	index map[uint32]int
}

// NewDSU returns an empty DSU, pre-sized for n expected elements.
func NewDSU(n int) *DSU {
	return &DSU{
		arena: make([]node, 0, n),
		index: make(map[uint32]int, n),
	}
}

// Node is a read-only view of a DSU tree's representative.
type Node struct {
	Label uint32
}

// Len returns the number of elements ever inserted (make_set'd) into the DSU.
func (d *DSU) Len() int { return len(d.arena) }

// MakeSet creates a new singleton set for id, labelled with id itself.
// Panics with AlreadyPresent if id already has a node.
func (d *DSU) MakeSet(id uint32) {
	if _, ok := d.index[id]; ok {
		panicAlreadyPresent(id)
		return
	}
	ix := len(d.arena)
	d.arena = append(d.arena, node{label: id, parent: ix, rank: 0})
	d.index[id] = ix
}

// Has reports whether id has a node in the DSU.
func (d *DSU) Has(id uint32) bool {
	_, ok := d.index[id]
	return ok
}

// findIx returns the arena index of the root of id's tree, performing full
// path compression along the way. Panics with NotFound if id is absent.
func (d *DSU) findIx(id uint32) int {
	ix, ok := d.index[id]
	if !ok {
		panicNotFound(id)
		return -1
	}
	// walk to the root
	root := ix
	for d.arena[root].parent != root {
		root = d.arena[root].parent
	}
	// path compression: point every visited node directly at root
	cur := ix
	for d.arena[cur].parent != root {
		next := d.arena[cur].parent
		d.arena[cur].parent = root
		cur = next
	}
	return root
}

// Find returns the representative Node of id's tree. Panics with NotFound
// if id has no node.
func (d *DSU) Find(id uint32) Node {
	root := d.findIx(id)
	return Node{Label: d.arena[root].label}
}

// Union merges the trees containing a and b. If the roots are already
// equal this is a no-op. Otherwise the lower-rank root is attached under
// the higher-rank root (ties broken by attaching b's root under a's root),
// and the winning root's rank is incremented only when the two ranks were
// equal. Crucially, the retained root keeps its own label unchanged: union
// never rewrites which name a set advertises, only which tree it lives in.
func (d *DSU) Union(a, b uint32) {
	ra := d.findIx(a)
	rb := d.findIx(b)
	if ra == rb {
		return
	}
	rankA, rankB := d.arena[ra].rank, d.arena[rb].rank
	switch {
	case rankA < rankB:
		d.arena[ra].parent = rb
	case rankA > rankB:
		d.arena[rb].parent = ra
	default:
		d.arena[rb].parent = ra
		d.arena[ra].rank++
	}
}

// Retarget sets the label of id's representative to newLabel, without
// altering tree shape. This is the primitive the Stitcher uses to make a
// slab's bottom-face sets advertise an upstream worker's label: every
// subsequent Find on any member of the tree will return newLabel.
func (d *DSU) Retarget(id uint32, newLabel uint32) {
	root := d.findIx(id)
	d.arena[root].label = newLabel
}
