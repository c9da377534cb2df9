// Copyright 2026 The flowperc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package perc

import "github.com/cpmech/gosl/mpi"

// MPITransport wraps github.com/cpmech/gosl/mpi, gofem's own domain-
// decomposition layer. It is only constructed when mpi.IsOn() -- the
// same gate fem.NewFEM uses before touching mpi.Rank()/mpi.Size().
//
// gosl/mpi exposes flat, package-level send/recv of []float64 with
// caller-managed buffer sizes (the same shape as mpi.AllReduceSum(dest,
// orig []float64)), not a variable-length message type, so every Send
// here is a two-part protocol: first the vector's length as a single
// value (mpi.SendOne/mpi.RecvOne), then the vector itself
// (mpi.Send/mpi.Recv). Gather and Broadcast are built from repeated
// point-to-point Send/Recv with rank 0 as hub, exactly as documented in
// SPEC_FULL.md §3.
type MPITransport struct{}

// NewMPITransport returns a Transport backed by the process's MPI
// communicator. Callers must have already called mpi.Start.
func NewMPITransport() *MPITransport { return &MPITransport{} }

// Rank returns this process's MPI rank.
func (t *MPITransport) Rank() int { return mpi.Rank() }

// Size returns the MPI world size.
func (t *MPITransport) Size() int { return mpi.Size() }

func toFloats(vec []uint32) []float64 {
	out := make([]float64, len(vec))
	for i, v := range vec {
		out[i] = float64(v)
	}
	return out
}

func fromFloats(vec []float64) []uint32 {
	out := make([]uint32, len(vec))
	for i, v := range vec {
		out[i] = uint32(v)
	}
	return out
}

// mpiGuard recovers a panic from the underlying mpi package (e.g. an
// aborted communicator) and reports it as a TransportError, so a
// transport failure never escapes as a bare runtime panic to callers that
// only expect the documented error kinds.
func mpiGuard(err *error, action string) {
	if r := recover(); r != nil {
		*err = NewTransportError("mpi %s failed: %v", action, r)
	}
}

// Send delivers vec to rank dst: a length handshake followed by the data.
// The tag is not transmitted: messages between two ranks are matched by
// send order only.
func (t *MPITransport) Send(dst, tag int, vec []uint32) (err error) {
	defer mpiGuard(&err, "send")
	mpi.SendOne(float64(len(vec)), dst)
	mpi.Send(toFloats(vec), dst)
	return nil
}

// Recv receives the next vector from rank src: a length handshake, then the
// data. The tag is ignored.
func (t *MPITransport) Recv(src, tag int) (vec []uint32, err error) {
	defer mpiGuard(&err, "recv")
	n := int(mpi.RecvOne(src))
	buf := make([]float64, n)
	mpi.Recv(buf, src)
	return fromFloats(buf), nil
}

// Barrier blocks until every MPI rank reaches it.
func (t *MPITransport) Barrier() { mpi.Barrier() }

// Gather collects v from every rank onto root via point-to-point Send/Recv.
func (t *MPITransport) Gather(v []uint32, root int) (out [][]uint32, err error) {
	rank, size := t.Rank(), t.Size()
	if rank == root {
		out = make([][]uint32, size)
		out[root] = cloneVec(v)
		for r := 0; r < size; r++ {
			if r == root {
				continue
			}
			got, rerr := t.Recv(r, gatherTag)
			if rerr != nil {
				return nil, rerr
			}
			out[r] = got
		}
		return out, nil
	}
	if serr := t.Send(root, gatherTag, v); serr != nil {
		return nil, serr
	}
	return nil, nil
}

// Broadcast sends v from root to every other rank via point-to-point Send/Recv.
func (t *MPITransport) Broadcast(v []uint32, root int) ([]uint32, error) {
	rank, size := t.Rank(), t.Size()
	if rank == root {
		for r := 0; r < size; r++ {
			if r == root {
				continue
			}
			if err := t.Send(r, broadcastTag, v); err != nil {
				return nil, err
			}
		}
		return cloneVec(v), nil
	}
	return t.Recv(root, broadcastTag)
}
