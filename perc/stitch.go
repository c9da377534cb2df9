// Copyright 2026 The flowperc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package perc

// topPlaneLabels collects dsu.Find(g).Label for every pore cell on the
// slab's top real plane -- raw z = NzLoc-1, which is padded z = NzLoc
// (padded z = raw z + 1, per Indexer.Pad) -- in ascending (x,y) raster
// order.
func topPlaneLabels(ix Indexer, dsu *DSU, data []byte, wall byte, padOffset uint32) []uint32 {
	z := ix.NzLoc
	var labels []uint32
	for y := 1; y <= ix.Ny; y++ {
		for x := 1; x <= ix.Nx; x++ {
			pid := ix.FlatPadded(x, y, z)
			if data[pid] == wall {
				continue
			}
			labels = append(labels, dsu.Find(pid+padOffset).Label)
		}
	}
	return labels
}

// bottomPlaneIDs collects the global padded ids of every pore cell on the
// slab's bottom real plane -- raw z = 0, which is padded z = 1 (padded
// z = 0 is the wall-sentinel layer added by BuildPaddedSlab and is never
// real data) -- in the same (x,y) raster order topPlaneLabels uses:
// geometry and wall mask are identical between a rank's bottom ghost
// plane and the upstream rank's top real plane, by construction, so the
// two orderings line up cell for cell.
func bottomPlaneIDs(ix Indexer, data []byte, wall byte, padOffset uint32) []uint32 {
	var ids []uint32
	for y := 1; y <= ix.Ny; y++ {
		for x := 1; x <= ix.Nx; x++ {
			pid := ix.FlatPadded(x, y, 1)
			if data[pid] == wall {
				continue
			}
			ids = append(ids, pid+padOffset)
		}
	}
	return ids
}

// Stitch performs the full halo-exchange protocol of §4.4: send this
// worker's top-plane labels to rank+1 (unless this is the last worker),
// receive the upstream worker's top-plane labels into this worker's
// bottom plane (unless this is rank 0) and retarget accordingly, then
// barrier so every worker sees a consistently stitched global labelling
// before face classification begins.
func Stitch(ix Indexer, dsu *DSU, data []byte, wall byte, padOffset uint32, t Transport) error {
	rank, size := t.Rank(), t.Size()
	var localErr error

	if rank < size-1 {
		top := topPlaneLabels(ix, dsu, data, wall, padOffset)
		if err := t.Send(rank+1, rank, top); err != nil {
			localErr = err
		}
	}

	if localErr == nil && rank > 0 {
		upstream, err := t.Recv(rank-1, rank-1)
		if err != nil {
			localErr = err
		} else {
			bottom := bottomPlaneIDs(ix, data, wall, padOffset)
			if len(upstream) != len(bottom) {
				localErr = NewStitchMismatch(
					"rank %d: bottom plane has %d pore cells but received %d top-plane labels from rank %d",
					rank, len(bottom), len(upstream), rank-1)
			} else {
				for i, g := range bottom {
					dsu.Retarget(g, upstream[i])
				}
			}
		}
	}

	// Every rank -- including ones with a nil localErr -- must reach this
	// collective, or a mismatch detected on one rank leaves the rest
	// blocked on Barrier forever instead of observing the documented
	// collective abort (spec.md: "any failing collective aborts all
	// ranks").
	if err := syncAbort(t, localErr); err != nil {
		return err
	}

	t.Barrier()
	return nil
}
