// Copyright 2026 The flowperc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package perc

import (
	"testing"

	"github.com/cpmech/gosl/chk"
)

func expectPanic(tst *testing.T, name string, fn func()) {
	defer func() {
		if r := recover(); r == nil {
			tst.Fatalf("%s: expected a panic, got none", name)
		}
	}()
	fn()
}

func TestDSUFindIdempotent(tst *testing.T) {
	chk.PrintTitle("find(find(x)) == find(x)")

	d := NewDSU(4)
	d.MakeSet(1)
	d.MakeSet(2)
	d.MakeSet(3)
	d.Union(1, 2)
	d.Union(2, 3)

	r1 := d.Find(1)
	r2 := d.Find(r1.Label)
	if r1.Label != r2.Label {
		tst.Fatalf("find is not idempotent: find(1)=%d, find(find(1))=%d", r1.Label, r2.Label)
	}
}

func TestDSUUnionJoinsSets(tst *testing.T) {
	chk.PrintTitle("after union(a,b), find(a) == find(b)")

	d := NewDSU(2)
	d.MakeSet(10)
	d.MakeSet(20)
	d.Union(10, 20)
	if d.Find(10).Label != d.Find(20).Label {
		tst.Fatalf("union did not join sets: find(10)=%d find(20)=%d", d.Find(10).Label, d.Find(20).Label)
	}
}

func TestDSUUnionPreservesWinnerLabel(tst *testing.T) {
	chk.PrintTitle("union keeps the retained root's label unchanged")

	d := NewDSU(2)
	d.MakeSet(5)
	d.MakeSet(7)
	before := d.Find(5).Label // 5 is still its own root, rank 0 == rank 0 -> a's root (5) wins ties
	d.Union(5, 7)
	chk.IntAssert(int(d.Find(5).Label), int(before))
}

func TestDSURetargetPropagates(tst *testing.T) {
	chk.PrintTitle("retarget(x,L) makes find(y).label == L for every y in x's tree")

	d := NewDSU(5)
	for _, id := range []uint32{1, 2, 3, 4, 5} {
		d.MakeSet(id)
	}
	d.Union(1, 2)
	d.Union(2, 3)
	d.Union(4, 5)
	d.Union(1, 4) // merges both chains into one tree

	d.Retarget(3, 999)
	for _, id := range []uint32{1, 2, 3, 4, 5} {
		if d.Find(id).Label != 999 {
			tst.Fatalf("find(%d).Label = %d, want 999", id, d.Find(id).Label)
		}
	}
}

func TestDSURetargetDoesNotChangeShape(tst *testing.T) {
	chk.PrintTitle("retarget does not merge unrelated trees")

	d := NewDSU(2)
	d.MakeSet(1)
	d.MakeSet(2)
	d.Retarget(1, 42)
	if d.Find(2).Label == 42 {
		tst.Fatalf("retargeting 1 leaked into the unrelated tree containing 2")
	}
}

func TestDSUUnionRankMonotonic(tst *testing.T) {
	chk.PrintTitle("rank only increases, and only on equal-rank merges")

	d := NewDSU(4)
	for _, id := range []uint32{1, 2, 3, 4} {
		d.MakeSet(id)
	}
	d.Union(1, 2) // rank(1) becomes 1
	d.Union(3, 4) // rank(3) becomes 1
	d.Union(1, 3) // equal ranks again -> rank(1) becomes 2; no further bump possible here
	root := d.findIx(1)
	if d.arena[root].rank != 2 {
		tst.Fatalf("expected winning root to have rank 2, got %d", d.arena[root].rank)
	}
}

func TestDSUMakeSetAlreadyPresentPanics(tst *testing.T) {
	chk.PrintTitle("make_set on an existing id panics (AlreadyPresent)")

	d := NewDSU(1)
	d.MakeSet(1)
	expectPanic(tst, "MakeSet duplicate", func() { d.MakeSet(1) })
}

func TestDSUFindNotFoundPanics(tst *testing.T) {
	chk.PrintTitle("find on an absent id panics (NotFound)")

	d := NewDSU(1)
	expectPanic(tst, "Find missing", func() { d.Find(123) })
}

func TestDSUUnionNoOpWhenAlreadyJoined(tst *testing.T) {
	chk.PrintTitle("repeated unions of already-joined ids are no-ops")

	d := NewDSU(2)
	d.MakeSet(1)
	d.MakeSet(2)
	d.Union(1, 2)
	before := d.Find(1).Label
	d.Union(1, 2)
	d.Union(2, 1)
	chk.IntAssert(int(d.Find(1).Label), int(before))
}
