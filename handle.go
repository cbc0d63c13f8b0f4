// Copyright 2024 The dwg authors. All rights reserved.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package dwg

import "fmt"

// Handle is the 64-bit file-local identifier of every object in a DWG
// file. The zero value means "no object".
type Handle uint64

// String renders a handle the way DWG dumps conventionally do: hex,
// no leading "0x".
func (h Handle) String() string {
	return fmt.Sprintf("%X", uint64(h))
}

// IsNull reports whether h is the reserved "none" value.
func (h Handle) IsNull() bool { return h == 0 }

// RefCode is the four-bit reference-type code stored alongside every
// handle reference (§3 Reference type).
type RefCode uint8

const (
	// Absolute codes: the payload bytes directly encode the handle.
	RefSoftOwnership RefCode = 0x2
	RefHardOwnership RefCode = 0x3
	RefSoftPointer   RefCode = 0x4
	RefHardPointer   RefCode = 0x5

	// Relative codes: the payload is zero or an offset, resolved against
	// an anchor handle (the owning object's own handle).
	RefHandlePlus1     RefCode = 0x6
	RefHandleMinus1    RefCode = 0x8
	RefHandlePlusOffset RefCode = 0xA
	RefHandleMinusOffset RefCode = 0xC
)

// IsAbsolute reports whether the code's payload is the handle itself
// rather than an offset against an anchor.
func (c RefCode) IsAbsolute() bool {
	switch c {
	case RefSoftOwnership, RefHardOwnership, RefSoftPointer, RefHardPointer:
		return true
	default:
		return false
	}
}

func (c RefCode) String() string {
	switch c {
	case RefSoftOwnership:
		return "SoftOwnership"
	case RefHardOwnership:
		return "HardOwnership"
	case RefSoftPointer:
		return "SoftPointer"
	case RefHardPointer:
		return "HardPointer"
	case RefHandlePlus1:
		return "HandlePlus1"
	case RefHandleMinus1:
		return "HandleMinus1"
	case RefHandlePlusOffset:
		return "HandlePlusOffset"
	case RefHandleMinusOffset:
		return "HandleMinusOffset"
	default:
		return fmt.Sprintf("RefCode(%#x)", uint8(c))
	}
}

// HandleRef is a handle paired with the reference-type code it was
// encoded with. Readers keep only the Handle of each reference (see
// readDirectHandle): decoded objects store bare handles, which
// Document.Lookup dereferences against the object arena.
type HandleRef struct {
	Code   RefCode
	Handle Handle
}

// resolve computes the absolute handle a reference denotes given the
// anchor (the "current object") it was read under, per §3: relative
// codes are resolved against the owning object's own handle.
func (r HandleRef) resolve(anchor Handle) Handle {
	switch r.Code {
	case RefHandlePlus1:
		return anchor + 1
	case RefHandleMinus1:
		return anchor - 1
	case RefHandlePlusOffset:
		return anchor + r.Handle
	case RefHandleMinusOffset:
		return anchor - r.Handle
	default:
		return r.Handle
	}
}

// HandleAllocator hands out unused handles in sequence, backing the
// header's $HANDSEED variable. It is a plain field on a Document, never
// a package-level or thread-local counter (see "Shared mutable state"
// in the design notes).
type HandleAllocator struct {
	next Handle
}

// NewHandleAllocator creates an allocator that will hand out seed as its
// first value.
func NewHandleAllocator(seed Handle) *HandleAllocator {
	if seed == 0 {
		seed = 1
	}
	return &HandleAllocator{next: seed}
}

// Next returns an unused handle and advances the seed.
func (a *HandleAllocator) Next() Handle {
	h := a.next
	a.next++
	return h
}

// Seed returns the next value that would be handed out, i.e. the value
// to persist as $HANDSEED.
func (a *HandleAllocator) Seed() Handle { return a.next }

// Observe advances the allocator past h if h is not yet behind the
// cursor, so that handles assigned out-of-band (e.g. preserved from a
// source file during a read-modify-write round trip) are never reissued.
func (a *HandleAllocator) Observe(h Handle) {
	if h >= a.next {
		a.next = h + 1
	}
}
