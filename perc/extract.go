// Copyright 2026 The flowperc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package perc

// ExtractFlow rewrites raw in place: every pore cell whose DSU
// representative is not in flow is overwritten with wall. Pore cells
// belonging to a flow component, and cells that are already wall, are
// left untouched (§4.6).
func ExtractFlow(ix Indexer, dsu *DSU, raw []byte, wall byte, padOffset uint32, flow FlowSet) {
	for i := 0; i < ix.NRaw(); i++ {
		if raw[i] == wall {
			continue
		}
		pid := ix.Pad(uint32(i))
		g := pid + padOffset
		if !flow.Contains(dsu.Find(g).Label) {
			raw[i] = wall
		}
	}
}

// OwnedRange returns the ByteRange (in the output file) and the matching
// slice of raw covering this worker's non-ghost region only -- the ghost
// plane is used for labelling but excluded from the write, so the plane
// shared between two workers is never written twice (§4.6 "Subtlety").
func OwnedRange(ix Indexer, part Partition, raw []byte) (ByteRange, []byte) {
	bytesPerPlane := int64(ix.Nx * ix.Ny)
	ghostBytes := int64(part.GhostPlanes()) * bytesPerPlane
	ownedStartZ := int64(part.OffsetZ) + int64(part.GhostPlanes())
	offset := bytesPerPlane * ownedStartZ
	size := int64(part.BufSize(ix.Nx, ix.Ny))
	return ByteRange{Offset: offset, Len: size}, raw[ghostBytes : ghostBytes+size]
}

// WriteOutput writes this worker's non-ghost region of raw through w.
func WriteOutput(ix Indexer, part Partition, raw []byte, w SliceWriter) error {
	r, owned := OwnedRange(ix, part, raw)
	return w.Write(r, owned)
}
