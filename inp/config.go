// Copyright 2026 The flowperc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package inp reads flowperc's command-line arguments into a Config,
// mirroring gofem's inp.ReadSim: one function that validates everything
// up front and hands the rest of the program a single, trusted struct.
package inp

import (
	"flag"
	"strconv"

	"github.com/cpmech/flowperc/perc"
	"github.com/cpmech/gosl/io"
)

// Config holds the validated result of parsing flowperc's CLI arguments
// (§6 of the specification).
type Config struct {
	InputPath  string
	OutputPath string
	Nx, Ny, Nz int
	Conn       perc.Connectivity
	Wall       byte
	FlowDir    int // -1 selects the canonical six-face classification
	Verbose    bool
	Simulate   int // > 0: simulate this many in-process workers instead of MPI
}

// ParseArgs parses args (typically os.Args[1:]) into a Config. Positional
// arguments are converted with strconv; gosl's io package has no
// named-flag parser, so named flags use the standard library's flag
// package (see DESIGN.md).
func ParseArgs(args []string) (*Config, error) {
	fs := flag.NewFlagSet("flowperc", flag.ContinueOnError)
	connStr := fs.String("connectivity", "face", "connectivity: face, edge, or vertex")
	wallInt := fs.Int("wall", 255, "wall byte value, 0-255")
	flowDir := fs.Int("flow-dir", -1, "single axis (0=x,1=y,2=z) to test instead of classifying all six faces")
	outPath := fs.String("out", "", "output file path (default: overwrite the input file)")
	verbose := fs.Bool("verbose", true, "print progress messages")
	simulate := fs.Int("simulate", 0, "simulate N in-process workers via channels instead of MPI")
	if err := fs.Parse(args); err != nil {
		return nil, perc.NewInvalidArg("%v", err)
	}

	pos := fs.Args()
	if len(pos) != 2 && len(pos) != 4 {
		return nil, perc.NewInvalidArg("usage: flowperc <input_file> Nx [Ny Nz] [flags]")
	}

	inputPath := pos[0]
	nx, err := parsePositiveInt("Nx", pos[1])
	if err != nil {
		return nil, err
	}
	ny, nz := nx, nx
	if len(pos) == 4 {
		if ny, err = parsePositiveInt("Ny", pos[2]); err != nil {
			return nil, err
		}
		if nz, err = parsePositiveInt("Nz", pos[3]); err != nil {
			return nil, err
		}
	}

	conn, err := perc.ParseConnectivity(*connStr)
	if err != nil {
		return nil, err
	}

	if *wallInt < 0 || *wallInt > 255 {
		return nil, perc.NewInvalidArg("--wall must be in [0,255], got %d", *wallInt)
	}

	if *flowDir < -1 || *flowDir > 2 {
		return nil, perc.NewInvalidArg("--flow-dir must be -1 (all faces), 0, 1, or 2, got %d", *flowDir)
	}

	if *simulate < 0 {
		return nil, perc.NewInvalidArg("--simulate must be >= 0, got %d", *simulate)
	}

	out := *outPath
	if out == "" {
		out = inputPath
	}

	return &Config{
		InputPath:  inputPath,
		OutputPath: out,
		Nx:         nx, Ny: ny, Nz: nz,
		Conn:     conn,
		Wall:     byte(*wallInt),
		FlowDir:  *flowDir,
		Verbose:  *verbose,
		Simulate: *simulate,
	}, nil
}

func parsePositiveInt(name, s string) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil || v <= 0 {
		return 0, perc.NewInvalidArg("%s must be a positive integer, got %q", name, s)
	}
	return v, nil
}

// Summary renders a gofem-style parameter banner (cf. main.go's
// io.ArgsTable call), printed once by rank 0 at startup.
func (c *Config) Summary() string {
	return io.ArgsTable(
		"input file", "input", c.InputPath,
		"output file", "output", c.OutputPath,
		"volume dimensions", "Nx,Ny,Nz", [3]int{c.Nx, c.Ny, c.Nz},
		"connectivity", "connectivity", c.Conn.String(),
		"wall byte", "wall", c.Wall,
		"flow-dir override", "flow-dir", c.FlowDir,
		"show messages", "verbose", c.Verbose,
		"simulated workers", "simulate", c.Simulate,
	)
}
