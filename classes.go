// Copyright 2024 The dwg authors. All rights reserved.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package dwg

// DXFClass records a custom object type not covered by the built-in
// TypeCode enumeration (§3 "DXF class"): a class number (the >= 500 code
// objects are tagged with), its DXF and C++ names, the owning
// application, proxy flags, an entity/object discriminator, and
// (R2004+) an instance count.
type DXFClass struct {
	ClassNumber   int16
	ProxyFlags    int16
	DXFName       string
	CppClassName  string
	AppName       string
	WasZombie     bool
	IsEntity      bool // true: instances use the 0x1F2 proxy; false: 0x1F3
	InstanceCount int32 // R2004+
}

// ClassTable is the per-file set of DXFClass records, keyed by class
// number. Every class number appearing in the objects section must
// resolve here or to a built-in TypeCode (§3 invariant).
type ClassTable struct {
	byNumber map[int16]*DXFClass
	byName   map[string]*DXFClass
	order    []int16
}

func newClassTable() *ClassTable {
	return &ClassTable{byNumber: make(map[int16]*DXFClass), byName: make(map[string]*DXFClass)}
}

// Add registers a class record.
func (t *ClassTable) Add(c *DXFClass) {
	t.byNumber[c.ClassNumber] = c
	t.byName[c.DXFName] = c
	t.order = append(t.order, c.ClassNumber)
}

// ByNumber looks up a class by its class-number code.
func (t *ClassTable) ByNumber(n int16) (*DXFClass, bool) {
	c, ok := t.byNumber[n]
	return c, ok
}

// ByName looks up a class by its DXF name, used when the writer needs
// to assign or reuse a class number for a named custom type.
func (t *ClassTable) ByName(name string) (*DXFClass, bool) {
	c, ok := t.byName[name]
	return c, ok
}

// MaxClassNumber returns the highest registered class number, or
// classBase-1 if none are registered, which the Classes section writer
// emits in its version-dependent prelude (§4.4).
func (t *ClassTable) MaxClassNumber() int16 {
	max := int16(classBase - 1)
	for _, n := range t.order {
		if n > max {
			max = n
		}
	}
	return max
}

// All returns the class records in registration order.
func (t *ClassTable) All() []*DXFClass {
	out := make([]*DXFClass, 0, len(t.order))
	for _, n := range t.order {
		out = append(out, t.byNumber[n])
	}
	return out
}
