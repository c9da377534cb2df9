// Copyright 2026 The flowperc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command flowperc extracts percolating (flow) connected components from
// a raw byte cube, overwriting every non-flow pore cell with the wall
// byte. See SPEC_FULL.md for the full command-line contract.
package main

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/cpmech/flowperc/inp"
	"github.com/cpmech/flowperc/perc"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/mpi"
)

func main() {
	exitCode := 0

	// catch errors, mirroring gofem's main.go recover block
	defer func() {
		if r := recover(); r != nil {
			if mpi.Rank() == 0 {
				chk.Verbose = true
				for i := 8; i > 3; i-- {
					chk.CallerInfo(i)
				}
				io.PfRed("ERROR: %v\n", r)
			}
			exitCode = 1
		}
		mpi.Stop(false)
		os.Exit(exitCode)
	}()
	mpi.Start(false)

	cfg, err := inp.ParseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "flowperc: %v\n", err)
		exitCode = exitCodeFor(err)
		return
	}

	if cfg.Verbose && mpi.Rank() == 0 {
		io.PfWhite("\nflowperc -- percolating flow-component extractor\n\n")
		io.Pf("%v\n", cfg.Summary())
	}

	if cfg.Simulate > 0 {
		err = runSimulated(cfg)
	} else {
		err = runOne(cfg, chooseTransport())
	}
	if err != nil {
		if mpi.Rank() == 0 {
			io.PfRed("ERROR: %v\n", err)
		}
		exitCode = exitCodeFor(err)
	}
}

// chooseTransport picks MPITransport when running under mpirun, otherwise
// the trivial single-worker LocalTransport -- the same gate fem.NewFEM
// uses (mpi.IsOn()) before touching mpi.Rank()/mpi.Size().
func chooseTransport() perc.Transport {
	if mpi.IsOn() {
		return perc.NewMPITransport()
	}
	return perc.NewLocalTransport()
}

// runOne runs a single worker against the given transport: the normal
// path for both the serial (LocalTransport) and distributed (MPITransport,
// one process per rank) cases.
func runOne(cfg *inp.Config, t perc.Transport) error {
	reader, err := perc.OpenFileSliceReader(cfg.InputPath)
	if err != nil {
		return err
	}
	defer reader.Close()

	size := int64(cfg.Nx) * int64(cfg.Ny) * int64(cfg.Nz)
	writer, err := perc.OpenFileSliceWriter(cfg.OutputPath, size)
	if err != nil {
		return err
	}
	defer writer.Close()

	w := perc.NewWorker(cfg.Nx, cfg.Ny, cfg.Nz, cfg.Wall, cfg.Conn, cfg.FlowDir, t, reader, writer, cfg.Verbose)
	return w.Run()
}

// runSimulated runs cfg.Simulate workers in-process over ChannelTransport,
// each on its own goroutine but all reading/writing the same files through
// disjoint byte ranges -- a one-machine stand-in for a real MPI job,
// useful when no MPI runtime is available.
func runSimulated(cfg *inp.Config) error {
	transports := perc.NewChannelTransports(cfg.Simulate)

	size := int64(cfg.Nx) * int64(cfg.Ny) * int64(cfg.Nz)
	writer, err := perc.OpenFileSliceWriter(cfg.OutputPath, size)
	if err != nil {
		return err
	}
	defer writer.Close()

	var wg sync.WaitGroup
	errs := make([]error, cfg.Simulate)
	for i, t := range transports {
		reader, err := perc.OpenFileSliceReader(cfg.InputPath)
		if err != nil {
			return err
		}
		wg.Add(1)
		go func(i int, t perc.Transport, reader *perc.FileSliceReader) {
			defer wg.Done()
			defer reader.Close()
			w := perc.NewWorker(cfg.Nx, cfg.Ny, cfg.Nz, cfg.Wall, cfg.Conn, cfg.FlowDir, t, reader, writer, cfg.Verbose)
			errs[i] = w.Run()
		}(i, t, reader)
	}
	wg.Wait()

	for _, e := range errs {
		if e != nil {
			return e
		}
	}
	return nil
}

// exitCodeFor maps an error to the process exit code documented in §7.
func exitCodeFor(err error) int {
	var pe *perc.Error
	if errors.As(err, &pe) {
		return pe.Kind.ExitCode()
	}
	return 1
}
