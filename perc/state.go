// Copyright 2026 The flowperc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package perc

import "github.com/cpmech/gosl/chk"

// State is one stage of the worker state machine (§4.7).
type State int

// Worker states, in the only order they may occur.
const (
	StateInit State = iota
	StateLoaded
	StateLabelled
	StateStitched
	StateFacesLocal
	StateFacesGlobal
	StateExtracted
	StateWritten
	StateDone
)

var stateNames = [...]string{
	"Init", "Loaded", "Labelled", "Stitched",
	"FacesLocal", "FacesGlobal", "Extracted", "Written", "Done",
}

// String implements fmt.Stringer.
func (s State) String() string {
	if int(s) < 0 || int(s) >= len(stateNames) {
		return "Invalid"
	}
	return stateNames[s]
}

// stateMachine enforces the worker transition order
// Init -> Loaded -> Labelled -> Stitched -> FacesLocal -> FacesGlobal ->
// Extracted -> Written -> Done, with no transition skippable.
type stateMachine struct {
	cur State
}

func newStateMachine() *stateMachine { return &stateMachine{cur: StateInit} }

// advance moves the machine from its current state to next, panicking if
// next does not immediately follow cur -- a skipped or out-of-order
// transition is a coordinator bug, not a data error.
func (m *stateMachine) advance(next State) {
	if next != m.cur+1 {
		chk.Panic("invalid state transition: %v -> %v (expected %v)", m.cur, next, m.cur+1)
	}
	m.cur = next
}
