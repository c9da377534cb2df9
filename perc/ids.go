// Copyright 2026 The flowperc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package perc implements the core of flowperc: disjoint-set union over
// cell ids, 3D connected-component labelling, distributed slab stitching,
// face classification and output extraction.
package perc

import "github.com/cpmech/gosl/chk"

// Connectivity selects which neighbours of a cell count as adjacent.
type Connectivity int

// Connectivity kinds, in increasing neighbourhood size.
const (
	Face Connectivity = iota
	Edge
	Vertex
)

// String implements fmt.Stringer.
func (c Connectivity) String() string {
	switch c {
	case Face:
		return "face"
	case Edge:
		return "edge"
	case Vertex:
		return "vertex"
	default:
		return "unknown"
	}
}

// ParseConnectivity converts a CLI string into a Connectivity value.
func ParseConnectivity(s string) (Connectivity, error) {
	switch s {
	case "face":
		return Face, nil
	case "edge":
		return Edge, nil
	case "vertex":
		return Vertex, nil
	}
	return Face, NewInvalidArg("connectivity must be one of face, edge, vertex; got %q", s)
}

// Offsets returns the 3x3x3-neighbourhood indices k (0..13, excluding the
// self index 13) that precede a cell in raster order for this connectivity.
func (c Connectivity) Offsets() []int {
	switch c {
	case Face:
		return []int{4, 10, 12}
	case Edge:
		return []int{1, 3, 4, 5, 7, 9, 10, 11, 12}
	case Vertex:
		return []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}
	}
	chk.Panic("invalid connectivity value %d", int(c))
	return nil
}

// Indexer converts between 3D coordinates and 1D cell ids for a slab of
// raw shape (Nx, Ny, NzLoc) and its padded shape (Nx+1, Ny+1, NzLoc+1).
//
// All DSU operations work in padded-id space; raw ids only ever appear
// when reading/writing the underlying byte buffer.
type Indexer struct {
	Nx, Ny, NzLoc int
}

// NRaw returns the number of cells in raw (unpadded) space.
func (ix Indexer) NRaw() int { return ix.Nx * ix.Ny * ix.NzLoc }

// NPadded returns the number of cells in padded space.
func (ix Indexer) NPadded() int { return (ix.Nx + 1) * (ix.Ny + 1) * (ix.NzLoc + 1) }

// flat computes the row-major, x-fastest linear id of (x,y,z) in a box of
// shape (bx, by, *).
func flat(x, y, z, bx, by int) uint32 {
	return uint32(z*bx*by + y*bx + x)
}

// unflat is the inverse of flat for a box of shape (bx, by, *).
func unflat(id uint32, bx, by int) (x, y, z int) {
	plane := bx * by
	iid := int(id)
	z = iid / plane
	rem := iid % plane
	y = rem / bx
	x = rem % bx
	return
}

// FlatRaw returns the raw-space id of (x,y,z).
func (ix Indexer) FlatRaw(x, y, z int) uint32 {
	return flat(x, y, z, ix.Nx, ix.Ny)
}

// UnflatRaw is the inverse of FlatRaw.
func (ix Indexer) UnflatRaw(id uint32) (x, y, z int) {
	return unflat(id, ix.Nx, ix.Ny)
}

// FlatPadded returns the padded-space id of (x,y,z).
func (ix Indexer) FlatPadded(x, y, z int) uint32 {
	return flat(x, y, z, ix.Nx+1, ix.Ny+1)
}

// UnflatPadded is the inverse of FlatPadded.
func (ix Indexer) UnflatPadded(id uint32) (x, y, z int) {
	return unflat(id, ix.Nx+1, ix.Ny+1)
}

// Pad maps a raw-space id to its padded-space id: the padded volume adds
// one wall-sentinel layer on the low side of each axis, so a raw (x,y,z)
// becomes padded (x+1,y+1,z+1).
func (ix Indexer) Pad(id uint32) uint32 {
	x, y, z := ix.UnflatRaw(id)
	return ix.FlatPadded(x+1, y+1, z+1)
}

// Unpad is the inverse of Pad.
func (ix Indexer) Unpad(pid uint32) uint32 {
	x, y, z := ix.UnflatPadded(pid)
	return ix.FlatRaw(x-1, y-1, z-1)
}

// Neighbour returns the padded id of the k-th cell (k in 0..13) of the
// 3x3x3 neighbourhood of pid that precedes pid in raster order. k=13 would
// be pid itself and must never be passed in.
func (ix Indexer) Neighbour(pid uint32, k int) uint32 {
	dx, dy, dz := unflat(uint32(k), 3, 3)
	bx, by := ix.Nx+1, ix.Ny+1
	return uint32(int(pid) + (dz-1)*bx*by + (dy-1)*bx + (dx - 1))
}
