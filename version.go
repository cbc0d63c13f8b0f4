// Copyright 2024 The dwg authors. All rights reserved.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package dwg

// Version identifies a DWG release by its on-disk "ACxxxx" signature.
type Version string

// Supported releases, keyed by their six-byte file signature.
const (
	R13   Version = "AC1012"
	R14   Version = "AC1014"
	R2000 Version = "AC1015"
	R2004 Version = "AC1018"
	R2007 Version = "AC1021"
	R2010 Version = "AC1024"
	R2013 Version = "AC1027"
	R2018 Version = "AC1032"
)

// versionOrder ranks releases so "at least version X" can be expressed as
// an integer comparison instead of a chain of ||.
var versionOrder = map[Version]int{
	R13:   0,
	R14:   1,
	R2000: 2,
	R2004: 3,
	R2007: 4,
	R2010: 5,
	R2013: 6,
	R2018: 7,
}

// Valid reports whether v is one of the eight supported signatures.
func (v Version) Valid() bool {
	_, ok := versionOrder[v]
	return ok
}

func (v Version) atLeast(other Version) bool {
	ov, ok := versionOrder[v]
	if !ok {
		return false
	}
	target, ok := versionOrder[other]
	if !ok {
		return false
	}
	return ov >= target
}

// layout identifies which of the four file-structure families (§2 of the
// spec) a version belongs to.
type layout int

const (
	layoutAC15 layout = iota // flat, CRC-8: R13-R2000
	layoutAC18                // paged LZ77, CRC-32: R2004
	layoutAC21                // paged LZ77 + Reed-Solomon: R2007
	layoutAC24                // paged LZ77, 2-bit object type codes: R2010+
)

func (v Version) fileLayout() layout {
	switch {
	case v.atLeast(R2010):
		return layoutAC24
	case v.atLeast(R2007):
		return layoutAC21
	case v.atLeast(R2004):
		return layoutAC18
	default:
		return layoutAC15
	}
}

// verFlags is the precomputed set of version-conditional booleans threaded
// by value through every codec (see "Version-conditional field blocks" in
// the design notes): compute once per file, never re-branch on the raw
// version enum inside a reader or writer.
type verFlags struct {
	version Version

	r1314Only bool
	r1315Only bool
	r2000Plus bool
	r2004Plus bool
	r2004Pre  bool
	r2007Plus bool
	r2010Plus bool
	r2013Plus bool
	r2018Plus bool
}

func newVerFlags(v Version) verFlags {
	return verFlags{
		version:   v,
		r1314Only: !v.atLeast(R2000),
		r1315Only: !v.atLeast(R2004),
		r2000Plus: v.atLeast(R2000),
		r2004Plus: v.atLeast(R2004),
		r2004Pre:  !v.atLeast(R2004),
		r2007Plus: v.atLeast(R2007),
		r2010Plus: v.atLeast(R2010),
		r2013Plus: v.atLeast(R2013),
		r2018Plus: v.atLeast(R2018),
	}
}
