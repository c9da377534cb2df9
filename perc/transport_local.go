// Copyright 2026 The flowperc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package perc

// LocalTransport is the trivial, single-worker (P=1) Transport, used
// whenever mpi.IsOn() is false and no --simulate worker count was
// requested -- the same serial fallback gofem's fem.NewFEM takes when
// mpi.IsOn() is false (o.Nproc = 1).
type LocalTransport struct{}

// NewLocalTransport returns the single-worker Transport.
func NewLocalTransport() *LocalTransport { return &LocalTransport{} }

// Rank always returns 0.
func (t *LocalTransport) Rank() int { return 0 }

// Size always returns 1.
func (t *LocalTransport) Size() int { return 1 }

// Send is never legal for a single worker: there is no other rank to talk to.
func (t *LocalTransport) Send(dst, tag int, vec []uint32) error {
	return NewTransportError("LocalTransport: send to rank %d not possible with size 1", dst)
}

// Recv is never legal for a single worker.
func (t *LocalTransport) Recv(src, tag int) ([]uint32, error) {
	return nil, NewTransportError("LocalTransport: recv from rank %d not possible with size 1", src)
}

// Barrier is a no-op: there is nobody else to synchronise with.
func (t *LocalTransport) Barrier() {}

// Gather just wraps v as the sole row.
func (t *LocalTransport) Gather(v []uint32, root int) ([][]uint32, error) {
	if root != 0 {
		return nil, NewTransportError("LocalTransport: root must be 0, got %d", root)
	}
	return [][]uint32{cloneVec(v)}, nil
}

// Broadcast returns v unchanged.
func (t *LocalTransport) Broadcast(v []uint32, root int) ([]uint32, error) {
	if root != 0 {
		return nil, NewTransportError("LocalTransport: root must be 0, got %d", root)
	}
	return cloneVec(v), nil
}
