// Copyright 2026 The flowperc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package perc

import "github.com/cpmech/gosl/io"

// Worker drives the full pipeline for one rank of a distributed run: it
// owns its Transport, its slice of the volume, and steps through the
// Init -> Loaded -> Labelled -> Stitched -> FacesLocal -> FacesGlobal ->
// Extracted -> Written -> Done state machine of §4.7. It plays the role
// gofem's fem.FEM plays for a finite-element simulation: one struct per
// rank that owns everything the run needs and exposes a single Run.
type Worker struct {
	// Nx, Ny, Nz are the full volume's dimensions.
	Nx, Ny, Nz int
	// Wall is the byte value that identifies a wall cell.
	Wall byte
	// Conn selects 6/18/26-connectivity.
	Conn Connectivity
	// FlowDir, when >= 0, restricts classification to one axis pair
	// instead of all six faces (the single-process --flow-dir mode).
	FlowDir int
	// Transport is this worker's message-passing capability.
	Transport Transport
	// Reader supplies this worker's byte range of the input volume.
	Reader SliceReader
	// Writer accepts this worker's non-ghost byte range of the output.
	Writer SliceWriter
	// Verbose enables rank-0 progress messages.
	Verbose bool

	sm   *stateMachine
	part Partition
	ix   Indexer
	pad  uint32
	raw  []byte
	dsu  *DSU
	flow FlowSet
}

// NewWorker returns a Worker ready to Run.
func NewWorker(nx, ny, nz int, wall byte, conn Connectivity, flowDir int, t Transport, r SliceReader, w SliceWriter, verbose bool) *Worker {
	return &Worker{
		Nx: nx, Ny: ny, Nz: nz,
		Wall: wall, Conn: conn, FlowDir: flowDir,
		Transport: t, Reader: r, Writer: w, Verbose: verbose,
		sm: newStateMachine(),
	}
}

func (w *Worker) logf(format string, args ...interface{}) {
	if w.Verbose && w.Transport.Rank() == 0 {
		io.Pf(format+"\n", args...)
	}
}

// Run executes the whole pipeline for this worker: read, label, stitch,
// classify, extract, write. It returns the first error encountered; per
// §7 any such error is fatal to the whole run.
func (w *Worker) Run() error {
	rank, size := w.Transport.Rank(), w.Transport.Size()

	w.part = NewPartition(w.Nz, size, rank)
	w.ix = Indexer{Nx: w.Nx, Ny: w.Ny, NzLoc: w.part.NzLoc}
	w.pad = w.part.PadOffset(w.Nx, w.Ny)

	// Loaded: read this worker's byte range, ghost plane included.
	byteOffset := int64(w.Nx*w.Ny) * int64(w.part.OffsetZ)
	raw, err := w.Reader.Read(ByteRange{Offset: byteOffset, Len: int64(w.ix.NRaw())})
	if err != nil {
		return err
	}
	w.raw = raw
	w.sm.advance(StateLoaded)
	w.logf("flowperc: rank %d/%d loaded %d bytes (offset_z=%d nz_loc=%d)", rank, size, len(raw), w.part.OffsetZ, w.part.NzLoc)

	// Labelled: raster-scan this worker's padded slab.
	padded := BuildPaddedSlab(w.ix, w.raw, w.Wall)
	dsu, _ := Label(w.ix, padded, w.Wall, w.Conn, w.pad)
	w.dsu = dsu
	w.sm.advance(StateLabelled)
	w.logf("flowperc: rank %d labelled %d pore cells", rank, dsu.Len())

	// Stitched: halo exchange with neighbouring ranks (barrier inside).
	if err := Stitch(w.ix, w.dsu, padded, w.Wall, w.pad, w.Transport); err != nil {
		return err
	}
	w.sm.advance(StateStitched)

	// FacesLocal / FacesGlobal: gather per-face label sets, broadcast flow
	// set, then barrier before extraction.
	w.sm.advance(StateFacesLocal)
	var flow FlowSet
	if w.FlowDir >= 0 {
		flow, err = ClassifyFacesAxis(w.ix, w.part, w.dsu, padded, w.Wall, w.pad, w.Transport, w.FlowDir)
	} else {
		flow, err = ClassifyFaces(w.ix, w.part, w.dsu, padded, w.Wall, w.pad, w.Transport)
	}
	if err != nil {
		return err
	}
	w.flow = flow
	w.Transport.Barrier()
	w.sm.advance(StateFacesGlobal)
	w.logf("flowperc: %d flow label(s) identified", len(flow))

	// Extracted: rewrite non-flow pores to wall.
	ExtractFlow(w.ix, w.dsu, w.raw, w.Wall, w.pad, w.flow)
	w.sm.advance(StateExtracted)

	// Written: write only this worker's non-ghost region.
	if err := WriteOutput(w.ix, w.part, w.raw, w.Writer); err != nil {
		return err
	}
	w.sm.advance(StateWritten)

	w.sm.advance(StateDone)
	w.logf("flowperc: rank %d done", rank)
	return nil
}
