// Copyright 2026 The flowperc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package perc

// Transport is the message-passing capability the Stitcher and Face
// classifier need: send/recv of label vectors between adjacent workers,
// a barrier, and a gather/broadcast pair for the flow-label set. Modelling
// it as an interface (Design Notes §9, "dynamic dispatch on
// transport/I/O") lets single-process and distributed backends be
// interchanged freely, in production and in tests.
//
// Send/Recv pairs are ordered by (source, destination, tag); per §5 a
// worker sends at most one halo vector to rank+1 and receives at most one
// from rank-1, so tag=source rank (as the spec recommends) is always
// enough to disambiguate.
type Transport interface {
	// Rank returns this worker's rank, 0 <= Rank() < Size().
	Rank() int
	// Size returns the number of cooperating workers.
	Size() int
	// Send delivers vec to worker dst, tagged tag. Blocks until accepted.
	Send(dst, tag int, vec []uint32) error
	// Recv blocks until a vector tagged tag arrives from worker src.
	Recv(src, tag int) ([]uint32, error)
	// Barrier blocks until every worker has called Barrier.
	Barrier()
	// Gather collects v from every worker to root; on root it returns a
	// slice indexed by rank, on non-root workers it returns nil.
	Gather(v []uint32, root int) ([][]uint32, error)
	// Broadcast sends v from root to every worker and returns the value
	// every worker (including root) ends up with.
	Broadcast(v []uint32, root int) ([]uint32, error)
}

func cloneVec(v []uint32) []uint32 {
	out := make([]uint32, len(v))
	copy(out, v)
	return out
}

// syncAbort turns a single rank's local failure into a collective one: it
// gathers a one-word fail flag to rank 0, has rank 0 decide whether any
// rank failed, and broadcasts that decision back out. Per spec.md's "any
// failing collective aborts all ranks", a caller that skips this and
// returns localErr directly leaves every other rank blocked on whatever
// collective call comes next (Barrier, Gather, ...) since the failing rank
// never reaches it. Every rank must call syncAbort unconditionally, even
// the ones with a nil localErr, since Gather/Broadcast themselves block
// until all ranks participate.
//
// The rank that produced localErr gets it back verbatim; every other rank
// gets a generic TransportError naming which rank failed, since the
// failure detail (e.g. a StitchMismatch's cell counts) is local to that
// rank and not worth serialising through the vote.
func syncAbort(t Transport, localErr error) error {
	failFlag := uint32(0)
	if localErr != nil {
		failFlag = 1
	}
	gathered, err := t.Gather([]uint32{failFlag}, 0)
	if err != nil {
		if localErr != nil {
			return localErr
		}
		return err
	}

	failedRank := -1
	if t.Rank() == 0 {
		for r, v := range gathered {
			if len(v) > 0 && v[0] != 0 {
				failedRank = r
				break
			}
		}
	}

	var vote []uint32
	if t.Rank() == 0 && failedRank >= 0 {
		vote = []uint32{uint32(failedRank + 1)}
	}
	bcast, err := t.Broadcast(vote, 0)
	if err != nil {
		if localErr != nil {
			return localErr
		}
		return err
	}

	if len(bcast) == 0 {
		return localErr
	}
	if localErr != nil {
		return localErr
	}
	return NewTransportError("rank %d: aborting because rank %d failed its collective step", t.Rank(), int(bcast[0])-1)
}
