// Copyright 2026 The flowperc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package perc

import (
	"sort"

	"github.com/cpmech/gosl/utl"
)

// NumFaces is the number of external faces of a volume, classified as
// face = 2*axis + direction for axis in {0=x, 1=y, 2=z} and direction in
// {0=low, 1=high}.
const NumFaces = 6

// ownedZRange returns the [lo, hi] inclusive padded-z range of this
// worker's non-ghost owned cells -- the ghost plane (a copy of the
// upstream worker's top real plane) is excluded so it is not counted
// twice when collecting x/y face labels.
func ownedZRange(ix Indexer, part Partition) (lo, hi int) {
	lo = part.GhostPlanes() + 1
	hi = ix.NzLoc
	return
}

// localFaceLabelSets collects, for each of the 6 faces, the set of
// dsu.Find(g).Label values appearing on the pore cells of that face that
// lie within this slab. The z=0 and z=Nz-1 faces of the full volume only
// exist on rank 0 and rank size-1 respectively (Design Notes §9, "an
// implementer is free to write six explicit loops").
func localFaceLabelSets(ix Indexer, part Partition, dsu *DSU, data []byte, wall byte, padOffset uint32, rank, size int) [NumFaces]map[uint32]struct{} {
	var sets [NumFaces]map[uint32]struct{}
	for f := range sets {
		sets[f] = make(map[uint32]struct{})
	}
	lo, hi := ownedZRange(ix, part)

	collect := func(f int, pid uint32) {
		if data[pid] == wall {
			return
		}
		sets[f][dsu.Find(pid+padOffset).Label] = struct{}{}
	}

	// face 0/1: low/high x, every rank, owned z range only
	for z := lo; z <= hi; z++ {
		for y := 1; y <= ix.Ny; y++ {
			collect(0, ix.FlatPadded(1, y, z))
			collect(1, ix.FlatPadded(ix.Nx, y, z))
		}
	}

	// face 2/3: low/high y, every rank, owned z range only
	for z := lo; z <= hi; z++ {
		for x := 1; x <= ix.Nx; x++ {
			collect(2, ix.FlatPadded(x, 1, z))
			collect(3, ix.FlatPadded(x, ix.Ny, z))
		}
	}

	// face 4: low z, only on rank 0
	if rank == 0 {
		for y := 1; y <= ix.Ny; y++ {
			for x := 1; x <= ix.Nx; x++ {
				collect(4, ix.FlatPadded(x, y, 1))
			}
		}
	}

	// face 5: high z, only on the last rank
	if rank == size-1 {
		for y := 1; y <= ix.Ny; y++ {
			for x := 1; x <= ix.Nx; x++ {
				collect(5, ix.FlatPadded(x, y, ix.NzLoc))
			}
		}
	}

	return sets
}

// setToSortedSlice flattens a label set into a sorted slice, via
// utl.IntUnique -- the same sort-and-dedupe helper gofem's mesh reader
// uses to turn a vertex-id set into a face's canonical vertex list
// (inp/msh.go's FaceTag2verts). Labels are sorted ascending so two
// workers gathering the same label set produce byte-identical vectors.
func setToSortedSlice(s map[uint32]struct{}) []uint32 {
	ints := make([]int, 0, len(s))
	for l := range s {
		ints = append(ints, int(l))
	}
	ints = utl.IntUnique(ints)
	out := make([]uint32, len(ints))
	for i, v := range ints {
		out[i] = uint32(v)
	}
	return out
}

// FlowSet is the immutable, broadcast set of global labels deemed to form
// flow (through-channel) components: each appears on at least 2 distinct
// external faces of the full volume.
type FlowSet map[uint32]struct{}

// Contains reports whether label is a flow label.
func (s FlowSet) Contains(label uint32) bool {
	_, ok := s[label]
	return ok
}

// encodeFaceVecs flattens a fixed-size array of label vectors into one
// wire vector, length-prefixing each entry, so a whole face classification
// round trips through a single Gather/Broadcast pair instead of one round
// per face -- a rank that fails partway through a multi-round gather would
// otherwise leave every other rank's later-round Gather/Send blocked
// forever on a round the failed rank never sends its side of.
func encodeFaceVecs(vecs [][]uint32) []uint32 {
	var out []uint32
	for _, v := range vecs {
		out = append(out, uint32(len(v)))
		out = append(out, v...)
	}
	return out
}

// decodeFaceVecs is the inverse of encodeFaceVecs, for n label vectors.
func decodeFaceVecs(buf []uint32, n int) ([][]uint32, error) {
	out := make([][]uint32, n)
	idx := 0
	for i := 0; i < n; i++ {
		if idx >= len(buf) {
			return nil, NewTransportError("face classification: truncated gather payload (vector %d of %d)", i, n)
		}
		ln := int(buf[idx])
		idx++
		if idx+ln > len(buf) {
			return nil, NewTransportError("face classification: truncated gather payload (vector %d of %d)", i, n)
		}
		out[i] = buf[idx : idx+ln]
		idx += ln
	}
	return out, nil
}

// finishClassify runs the Broadcast half shared by ClassifyFaces and
// ClassifyFacesAxis: rank 0 sends the final flow-label vector, prefixed
// with a one-word abort flag, and every rank (root included) decodes it.
// The Broadcast always happens, even when classifyErr is non-nil on rank
// 0, so non-root ranks -- which always reach their own Broadcast call --
// never block waiting on a root that bailed out early (spec.md: "any
// failing collective aborts all ranks").
func finishClassify(t Transport, flow []uint32, classifyErr error) (FlowSet, error) {
	var payload []uint32
	if t.Rank() == 0 {
		flag := uint32(0)
		if classifyErr != nil {
			flag = 1
		}
		payload = append([]uint32{flag}, flow...)
	}

	bcast, err := t.Broadcast(payload, 0)
	if classifyErr != nil {
		return nil, classifyErr
	}
	if err != nil {
		return nil, err
	}
	if len(bcast) == 0 || bcast[0] != 0 {
		return nil, NewTransportError("rank %d: aborting because rank 0 failed to classify faces", t.Rank())
	}

	out := make(FlowSet, len(bcast)-1)
	for _, label := range bcast[1:] {
		out[label] = struct{}{}
	}
	return out, nil
}

// ClassifyFaces implements §4.5: collect this worker's local per-face
// label sets, gather them to rank 0 in one round, invert into label ->
// faces-touched, retain labels touching >= 2 faces, and broadcast the
// result to every worker.
func ClassifyFaces(ix Indexer, part Partition, dsu *DSU, data []byte, wall byte, padOffset uint32, t Transport) (FlowSet, error) {
	rank, size := t.Rank(), t.Size()
	localSets := localFaceLabelSets(ix, part, dsu, data, wall, padOffset, rank, size)

	localVecs := make([][]uint32, NumFaces)
	for f := 0; f < NumFaces; f++ {
		localVecs[f] = setToSortedSlice(localSets[f])
	}

	gathered, classifyErr := t.Gather(encodeFaceVecs(localVecs), 0)

	var flow []uint32
	if classifyErr == nil && rank == 0 {
		labelToFaces := make(map[uint32]map[int]struct{})
		for _, vec := range gathered {
			decoded, derr := decodeFaceVecs(vec, NumFaces)
			if derr != nil {
				classifyErr = derr
				break
			}
			for f, labels := range decoded {
				for _, label := range labels {
					if labelToFaces[label] == nil {
						labelToFaces[label] = make(map[int]struct{})
					}
					labelToFaces[label][f] = struct{}{}
				}
			}
		}
		if classifyErr == nil {
			for label, faces := range labelToFaces {
				if len(faces) >= 2 {
					flow = append(flow, label)
				}
			}
			sort.Slice(flow, func(i, j int) bool { return flow[i] < flow[j] })
		}
	}

	return finishClassify(t, flow, classifyErr)
}

// ClassifyFacesAxis is the single-axis variant of ClassifyFaces described
// by the --flow-dir CLI flag (Design Notes §9 and SPEC_FULL.md §5): it
// restricts the face set to the two faces of one axis instead of all six,
// so a component is "flow" iff it touches both faces of that axis pair.
func ClassifyFacesAxis(ix Indexer, part Partition, dsu *DSU, data []byte, wall byte, padOffset uint32, t Transport, axis int) (FlowSet, error) {
	rank, size := t.Rank(), t.Size()
	localSets := localFaceLabelSets(ix, part, dsu, data, wall, padOffset, rank, size)
	fa, fb := 2*axis, 2*axis+1

	localVecs := [][]uint32{setToSortedSlice(localSets[fa]), setToSortedSlice(localSets[fb])}
	gathered, classifyErr := t.Gather(encodeFaceVecs(localVecs), 0)

	var flow []uint32
	if classifyErr == nil && rank == 0 {
		labelToFaces := make(map[uint32]map[int]struct{})
		for _, vec := range gathered {
			decoded, derr := decodeFaceVecs(vec, 2)
			if derr != nil {
				classifyErr = derr
				break
			}
			for i, labels := range decoded {
				for _, label := range labels {
					if labelToFaces[label] == nil {
						labelToFaces[label] = make(map[int]struct{})
					}
					labelToFaces[label][i] = struct{}{}
				}
			}
		}
		if classifyErr == nil {
			for label, faces := range labelToFaces {
				if len(faces) >= 2 {
					flow = append(flow, label)
				}
			}
			sort.Slice(flow, func(i, j int) bool { return flow[i] < flow[j] })
		}
	}

	return finishClassify(t, flow, classifyErr)
}
