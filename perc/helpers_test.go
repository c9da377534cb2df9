// Copyright 2026 The flowperc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package perc

import "sync"

// newVolume allocates an nx*ny*nz raw byte volume pre-filled with wall,
// addressed with FlatRaw(x,y,z) ordering (x fastest, z slowest).
func newVolume(nx, ny, nz int, wall byte) ([]byte, Indexer) {
	ix := Indexer{Nx: nx, Ny: ny, NzLoc: nz}
	raw := make([]byte, ix.NRaw())
	for i := range raw {
		raw[i] = wall
	}
	return raw, ix
}

// runSingleWorker runs the whole pipeline on one in-process worker
// (LocalTransport, i.e. P=1, so the full volume is the one slab) and
// returns the extracted output bytes.
func runSingleWorker(nx, ny, nz int, raw []byte, wall byte, conn Connectivity, flowDir int) ([]byte, error) {
	reader := &MemSliceReader{Data: raw}
	writer := NewMemSliceWriter(len(raw))
	w := NewWorker(nx, ny, nz, wall, conn, flowDir, NewLocalTransport(), reader, writer, false)
	if err := w.Run(); err != nil {
		return nil, err
	}
	return writer.Data, nil
}

// runMultiWorker runs the whole pipeline across size in-process workers
// wired together with ChannelTransport, each on its own goroutine but all
// reading the same in-memory volume and writing into one shared output
// buffer -- the --simulate CLI path, minus the CLI.
func runMultiWorker(nx, ny, nz int, raw []byte, wall byte, conn Connectivity, flowDir int, size int) ([]byte, error) {
	transports := NewChannelTransports(size)
	writer := NewMemSliceWriter(len(raw))

	var wg sync.WaitGroup
	errs := make([]error, size)
	for r, t := range transports {
		reader := &MemSliceReader{Data: raw}
		wg.Add(1)
		go func(r int, t Transport, reader *MemSliceReader) {
			defer wg.Done()
			w := NewWorker(nx, ny, nz, wall, conn, flowDir, t, reader, writer, false)
			errs[r] = w.Run()
		}(r, t, reader)
	}
	wg.Wait()

	for _, e := range errs {
		if e != nil {
			return nil, e
		}
	}
	return writer.Data, nil
}
