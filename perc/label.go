// Copyright 2026 The flowperc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package perc

// BuildPaddedSlab allocates a padded-space byte slab, pre-filled with wall
// and then populated with the raw slab's pore/wall values at their padded
// coordinates. The added sentinel layer on the low side of each axis
// guarantees neighbour lookups never go out of bounds.
func BuildPaddedSlab(ix Indexer, raw []byte, wall byte) []byte {
	data := make([]byte, ix.NPadded())
	for i := range data {
		data[i] = wall
	}
	for i := 0; i < ix.NRaw(); i++ {
		data[ix.Pad(uint32(i))] = raw[i]
	}
	return data
}

// Label performs the single-pass raster-order connected-component labelling
// described in §4.3: it walks the padded slab in raster order, creates a
// DSU set for every pore cell, and unions each pore with its already-
// labelled preceding neighbours (per the connectivity's offset table).
//
// padOffset is added to every local padded id before it touches the DSU or
// the returned pore-id list, so ids returned here are global and a
// Stitcher can merge DSUs across workers by simple concatenation.
//
// The returned pore id slice is in ascending global-id order, which is
// also ascending raster order -- Pad is a strictly increasing map from raw
// raster order onto padded ids, so the ordering invariant the Stitcher
// relies on (§4.4) falls out for free.
func Label(ix Indexer, data []byte, wall byte, conn Connectivity, padOffset uint32) (dsu *DSU, poreIDs []uint32) {
	offsets := conn.Offsets()

	var localPore []uint32
	for i := 0; i < ix.NRaw(); i++ {
		pid := ix.Pad(uint32(i))
		if data[pid] == wall {
			continue
		}
		localPore = append(localPore, pid)
	}

	dsu = NewDSU(len(localPore))
	poreIDs = make([]uint32, len(localPore))
	for idx, pid := range localPore {
		g := pid + padOffset
		poreIDs[idx] = g
		dsu.MakeSet(g)
		for _, k := range offsets {
			npid := ix.Neighbour(pid, k)
			if data[npid] != wall {
				dsu.Union(g, npid+padOffset)
			}
		}
	}
	return
}
