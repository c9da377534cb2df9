// Copyright 2026 The flowperc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package perc

import (
	"testing"

	"github.com/cpmech/gosl/chk"
)

const wall = byte(255)
const pore = byte(0)

// Scenario 1: 3x3x3 cube, all pore -- single component touches all 6 faces.
func TestScenario1_AllPoreCubePreserved(tst *testing.T) {
	chk.PrintTitle("scenario 1: 3x3x3 all-pore cube is fully preserved")

	raw, _ := newVolume(3, 3, 3, wall)
	for i := range raw {
		raw[i] = pore
	}
	out, err := runSingleWorker(3, 3, 3, raw, wall, Face, -1)
	if err != nil {
		tst.Fatalf("unexpected error: %v", err)
	}
	for i, b := range out {
		if b != pore {
			tst.Fatalf("cell %d: got %d, want preserved pore (0)", i, b)
		}
	}
}

// Scenario 2: 3x3x3 cube, all wall -- output identical to input.
func TestScenario2_AllWallUnchanged(tst *testing.T) {
	chk.PrintTitle("scenario 2: 3x3x3 all-wall cube is unchanged")

	raw, _ := newVolume(3, 3, 3, wall)
	out, err := runSingleWorker(3, 3, 3, raw, wall, Face, -1)
	if err != nil {
		tst.Fatalf("unexpected error: %v", err)
	}
	for i, b := range out {
		if b != wall {
			tst.Fatalf("cell %d: got %d, want wall (255)", i, b)
		}
	}
}

// Scenario 3: a single vertical column at (1,1,*) touches the z=0 and
// z=2 faces and is preserved; everything else is wall and stays wall.
func TestScenario3_VerticalColumnPreserved(tst *testing.T) {
	chk.PrintTitle("scenario 3: vertical column at (1,1,*) is preserved")

	raw, ix := newVolume(3, 3, 3, wall)
	for z := 0; z < 3; z++ {
		raw[ix.FlatRaw(1, 1, z)] = pore
	}
	out, err := runSingleWorker(3, 3, 3, raw, wall, Face, -1)
	if err != nil {
		tst.Fatalf("unexpected error: %v", err)
	}
	for i, b := range out {
		x, y, z := ix.UnflatRaw(uint32(i))
		want := wall
		if x == 1 && y == 1 {
			_ = z
			want = pore
		}
		if b != want {
			tst.Fatalf("cell (%d,%d,%d): got %d, want %d", x, y, z, b, want)
		}
	}
}

// Scenario 4: an isolated pore cell touches no face and is zeroed out.
func TestScenario4_IsolatedCellRemoved(tst *testing.T) {
	chk.PrintTitle("scenario 4: isolated interior pore touches no face and is removed")

	raw, ix := newVolume(3, 3, 3, wall)
	raw[ix.FlatRaw(1, 1, 1)] = pore
	out, err := runSingleWorker(3, 3, 3, raw, wall, Face, -1)
	if err != nil {
		tst.Fatalf("unexpected error: %v", err)
	}
	for _, b := range out {
		if b != wall {
			tst.Fatalf("expected every cell to be wall, got %d", b)
		}
	}
}

// Scenario 5: two disjoint pore groups -- a through-column at (0,0,*) and
// an isolated interior cell at (1,1,1) that touches no face. Only the
// column survives.
func TestScenario5_DisjointColumnsOnlyThroughOneSurvives(tst *testing.T) {
	chk.PrintTitle("scenario 5: through-column survives, isolated cell is zeroed")

	raw, ix := newVolume(3, 3, 3, wall)
	for z := 0; z < 3; z++ {
		raw[ix.FlatRaw(0, 0, z)] = pore
	}
	raw[ix.FlatRaw(1, 1, 1)] = pore

	out, err := runSingleWorker(3, 3, 3, raw, wall, Face, -1)
	if err != nil {
		tst.Fatalf("unexpected error: %v", err)
	}
	for i, b := range out {
		x, y, z := ix.UnflatRaw(uint32(i))
		want := wall
		if x == 0 && y == 0 {
			want = pore
		}
		if b != want {
			tst.Fatalf("cell (%d,%d,%d): got %d, want %d", x, y, z, b, want)
		}
	}
}

// Scenario 6: a space-diagonal staircase of single pore cells from
// (0,0,0) to (3,3,3) in a 4x4x4 cube, stepping by (1,1,1) each time. Every
// consecutive pair differs in all three coordinates, so it is vertex
// (26-)connected but neither face- nor edge-connected: under face
// connectivity each cell is its own component, under vertex connectivity
// the whole path is one component.
func buildStaircase(ix Indexer) []byte {
	raw, _ := newVolume(ix.Nx, ix.Ny, ix.NzLoc, wall)
	steps := [][3]int{{0, 0, 0}, {1, 1, 1}, {2, 2, 2}, {3, 3, 3}}
	for _, s := range steps {
		raw[ix.FlatRaw(s[0], s[1], s[2])] = pore
	}
	return raw
}

// Under face connectivity the two interior steps ((1,1,1) and (2,2,2))
// are isolated components touching zero faces and are removed; the two
// corner steps ((0,0,0) and (3,3,3)) are themselves each a 1-cell
// component that alone touches 3 distinct faces, so they are preserved
// even disconnected from the rest of the path.
func TestScenario6_StaircaseFaceConnectivityBreaksInMiddle(tst *testing.T) {
	chk.PrintTitle("scenario 6: staircase path, face connectivity breaks at each step")

	ix := Indexer{Nx: 4, Ny: 4, NzLoc: 4}
	raw := buildStaircase(ix)
	out, err := runSingleWorker(4, 4, 4, raw, wall, Face, -1)
	if err != nil {
		tst.Fatalf("unexpected error: %v", err)
	}
	want := map[[3]int]byte{
		{0, 0, 0}: pore, {1, 1, 1}: wall, {2, 2, 2}: wall, {3, 3, 3}: pore,
	}
	for coord, w := range want {
		got := out[ix.FlatRaw(coord[0], coord[1], coord[2])]
		if got != w {
			tst.Fatalf("cell %v: got %d, want %d", coord, got, w)
		}
	}
}

func TestScenario6_StaircaseVertexConnectivityPreserved(tst *testing.T) {
	chk.PrintTitle("scenario 6: staircase path, vertex connectivity holds it together")

	ix := Indexer{Nx: 4, Ny: 4, NzLoc: 4}
	raw := buildStaircase(ix)
	out, err := runSingleWorker(4, 4, 4, raw, wall, Vertex, -1)
	if err != nil {
		tst.Fatalf("unexpected error: %v", err)
	}
	for i, b := range out {
		if raw[i] == pore && b != pore {
			tst.Fatalf("cell %d: staircase cell was removed under vertex connectivity", i)
		}
	}
}
