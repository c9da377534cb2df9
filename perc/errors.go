// Copyright 2026 The flowperc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package perc

import "github.com/cpmech/gosl/chk"

// Kind classifies an error per §7 of the specification.
type Kind int

// Error kinds.
const (
	// InvalidArg -- bad connectivity, bad dims, wall byte out of range.
	InvalidArg Kind = iota
	// IoError -- a SliceReader/SliceWriter read or write failed.
	IoError
	// AlreadyPresent -- make_set called on an id that already has a node.
	AlreadyPresent
	// NotFound -- find/retarget called on an id with no node.
	NotFound
	// StitchMismatch -- halo plane ordering/count disagreement.
	StitchMismatch
	// TransportError -- the underlying message-passing layer failed.
	TransportError
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case InvalidArg:
		return "InvalidArg"
	case IoError:
		return "IoError"
	case AlreadyPresent:
		return "AlreadyPresent"
	case NotFound:
		return "NotFound"
	case StitchMismatch:
		return "StitchMismatch"
	case TransportError:
		return "TransportError"
	default:
		return "Unknown"
	}
}

// Error wraps an error kind with a message built from chk.Err.
type Error struct {
	Kind Kind
	err  error
}

// Error implements the error interface.
func (e *Error) Error() string { return e.err.Error() }

// Unwrap lets errors.Is/As see through to the underlying message.
func (e *Error) Unwrap() error { return e.err }

func newError(k Kind, msg string, args ...interface{}) *Error {
	return &Error{Kind: k, err: chk.Err(msg, args...)}
}

// NewInvalidArg builds an InvalidArg error. Fatal with exit code 2 (§7).
func NewInvalidArg(msg string, args ...interface{}) *Error {
	return newError(InvalidArg, msg, args...)
}

// NewIoError builds an IoError error. Fatal with exit code 1 (§7).
func NewIoError(msg string, args ...interface{}) *Error {
	return newError(IoError, msg, args...)
}

// NewTransportError builds a TransportError error. Fatal with exit code 1.
func NewTransportError(msg string, args ...interface{}) *Error {
	return newError(TransportError, msg, args...)
}

// NewStitchMismatch builds a StitchMismatch error. Per §7 this indicates a
// partitioning bug, not a data error, and callers should treat it as fatal.
func NewStitchMismatch(msg string, args ...interface{}) *Error {
	return newError(StitchMismatch, msg, args...)
}

// panicAlreadyPresent and panicNotFound represent DSU misuse: per §7 these
// "should never trigger at runtime and represent bugs", so -- like gofem's
// chk.Panic calls for unrecoverable invariant violations -- they panic
// rather than return an error. cmd/flowperc recovers them at the top level.
func panicAlreadyPresent(id uint32) {
	chk.Panic("AlreadyPresent: DSU node for id %d already exists", id)
}

func panicNotFound(id uint32) {
	chk.Panic("NotFound: DSU has no node for id %d", id)
}

// ExitCode maps an error kind to the process exit code documented in §7.
func (k Kind) ExitCode() int {
	switch k {
	case InvalidArg:
		return 2
	default:
		return 1
	}
}
