// Copyright 2024 The dwg authors. All rights reserved.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package dwg

// This file implements the consumed `Document` contract of §6: a
// concrete, minimal in-memory CAD graph. spec.md treats CadDocument as
// an external collaborator specified only by interface; since this
// module must be a runnable, testable library we provide one concrete
// implementation here, grounded on the original Rust implementation's
// objects/stub_objects.rs (a handle-keyed arena of typed records) and
// types/{bounds,transform,vector}.rs (kept as plain value types, not a
// geometry engine).

// Object is anything that lives in the handle-addressed arena: every
// entity, table entry, dictionary, and xrecord implements it.
type Object interface {
	ObjectHandle() Handle
	ObjectType() TypeCode
}

// commonEntity holds the fields shared by every graphical entity (§4.5
// "Common entity header").
type commonEntity struct {
	Handle        Handle
	Owner         Handle
	Reactors      []Handle
	XDictionary   Handle
	Layer         string
	Linetype      string // "" means ByLayer; "ByBlock" is a literal sentinel name
	Color         Color
	Transparency  uint32
	LinetypeScale float64
	Lineweight    int8
	Invisible     bool
	Material      Handle
}

func (c *commonEntity) ObjectHandle() Handle { return c.Handle }

// commonNonEntity holds the fields shared by table entries,
// dictionaries, and xrecords (§4.5 "Common non-entity header").
type commonNonEntity struct {
	Handle      Handle
	Owner       Handle
	Reactors    []Handle
	XDictionary Handle
}

func (c *commonNonEntity) ObjectHandle() Handle { return c.Handle }

// Layer is a LAYER table entry.
type Layer struct {
	commonNonEntity
	Name       string
	Flags      int16
	Color      Color
	Linetype   Handle
	LineWeight int16
	PlotFlag   bool
	PlotStyle  Handle
	Material   Handle
}

func (l *Layer) ObjectType() TypeCode { return TypeLayer }

// Linetype is an LTYPE table entry.
type Linetype struct {
	commonNonEntity
	Name        string
	Description string
	AlignCode   byte
	Segments    []LinetypeSegment
}

func (l *Linetype) ObjectType() TypeCode { return TypeLType }

// LinetypeSegment is one dash/dot/space entry of an LTYPE's pattern.
type LinetypeSegment struct {
	Length     float64
	Shape      int16
	Text       string
	StyleRef   Handle
}

// TextStyle is a STYLE table entry.
type TextStyle struct {
	commonNonEntity
	Name         string
	Flags        int16
	FixedHeight  float64
	WidthFactor  float64
	ObliqueAngle float64
	FontName     string
	BigFontName  string
}

func (s *TextStyle) ObjectType() TypeCode { return TypeStyle }

// DimStyle is a DIMSTYLE table entry (§4.5: only a representative subset
// of the scores of DIMVARs is modeled; readDimStyle and writeDimStyle
// handle only the fields below, and the other DIMVARs are not kept).
type DimStyle struct {
	commonNonEntity
	Name       string
	Flags      int16
	TextHeight float64
	ArrowSize  float64
	TextStyle  Handle
}

func (d *DimStyle) ObjectType() TypeCode { return TypeDimStyle }

// Viewport is a VPORT table entry.
type Viewport struct {
	commonNonEntity
	Name       string
	Flags      int16
	Center     Vector3
	Height     float64
	Width      float64
	ViewTarget Vector3
	ViewDir    Vector3
}

func (v *Viewport) ObjectType() TypeCode { return TypeVPort }

// UCSTableEntry is a UCS table entry.
type UCSTableEntry struct {
	commonNonEntity
	Name   string
	Origin Vector3
	XAxis  Vector3
	YAxis  Vector3
}

func (u *UCSTableEntry) ObjectType() TypeCode { return TypeUCS }

// View is a VIEW table entry.
type View struct {
	commonNonEntity
	Name       string
	Flags      int16
	Height     float64
	Width      float64
	Center     Vector3
	Target     Vector3
	Direction  Vector3
}

func (v *View) ObjectType() TypeCode { return TypeView }

// AppID is an APPID table entry.
type AppID struct {
	commonNonEntity
	Name  string
	Flags int16
}

func (a *AppID) ObjectType() TypeCode { return TypeAppID }

// BlockRecord is a BLOCK_HEADER table entry: the named container owning
// a list of entities.
type BlockRecord struct {
	commonNonEntity
	Name         string
	Flags        int16
	BasePoint    Vector3
	XrefPath     string
	IsXref       bool
	IsAnonymous  bool
	HasAttDefs   bool
	Layout       Handle
	Entities     []Handle // owned entities, in document order
}

func (b *BlockRecord) ObjectType() TypeCode { return TypeBlockHeader }

// Table is a named collection of table entries of one kind, the
// in-memory analogue of a *_CONTROL_OBJ.
type Table[T Object] struct {
	Handle  Handle
	Entries map[string]T
	Order   []string
}

func newTable[T Object]() *Table[T] {
	return &Table[T]{Entries: make(map[string]T)}
}

// Add inserts entry under name, recording insertion order.
func (t *Table[T]) Add(name string, entry T) {
	if _, exists := t.Entries[name]; !exists {
		t.Order = append(t.Order, name)
	}
	t.Entries[name] = entry
}

// Get looks up a table entry by name.
func (t *Table[T]) Get(name string) (T, bool) {
	v, ok := t.Entries[name]
	return v, ok
}

// Dictionary is a DICTIONARY object: a hard- or soft-owner container of
// named handle references. Iteration order matters (§4.5: xrecords
// referencing entries by name rely on it), hence Order alongside the
// map.
type Dictionary struct {
	commonNonEntity
	HardOwner bool
	CloneFlag int16
	Entries   map[string]Handle
	Order     []string
}

func (d *Dictionary) ObjectType() TypeCode { return TypeDictionary }

// Add appends (or overwrites in place) a named entry, preserving first
// insertion order.
func (d *Dictionary) Add(name string, h Handle) {
	if d.Entries == nil {
		d.Entries = make(map[string]Handle)
	}
	if _, exists := d.Entries[name]; !exists {
		d.Order = append(d.Order, name)
	}
	d.Entries[name] = h
}

// XRecordValue is one DXF-style group-code/value pair inside an
// XRECORD.
type XRecordValue struct {
	Code  int16
	Value interface{} // readXRecord stores the whole data blob as one []byte under Code 0; writeXRecord writes back only that form
}

// XRecord is an XRECORD object: an opaque bag of group-code/value
// pairs, round-tripped verbatim.
type XRecord struct {
	commonNonEntity
	Values []XRecordValue
}

func (x *XRecord) ObjectType() TypeCode { return TypeXRecord }

// UnknownObject is the placeholder produced for an object the codec has
// no reader for: every class-based type code (ClassNumber and ClassName
// are set when the class table lists the class) and every built-in code
// without a handler, table control objects included. OpenBytes keeps
// these only when Config.KeepUnknownEntities is set (§7 "Unknown type").
type UnknownObject struct {
	Handle     Handle
	ClassNumber int16
	ClassName   string
	IsEntity    bool
	Owner       Handle
	Body        []byte // raw, undissected body of a class-based object, preserved for write-back
}

func (u *UnknownObject) ObjectHandle() Handle { return u.Handle }
func (u *UnknownObject) ObjectType() TypeCode { return TypeUnknown }

// Document is the in-memory CAD graph the codec reads into and writes
// out of: a handle→object arena, a set of named tables, an entity list
// per block record, and the header variables named in §4.4.
type Document struct {
	Version Version

	// codePage is the $DWGCODEPAGE value governing T-string decoding for
	// pre-R2007 files; defaults to ANSI 1252 for documents built
	// programmatically rather than read from a file.
	codePage codePageID

	Header    HeaderVariables
	Classes   *ClassTable
	Objects   map[Handle]Object
	Allocator *HandleAllocator

	Layers      *Table[*Layer]
	Linetypes   *Table[*Linetype]
	Styles      *Table[*TextStyle]
	DimStyles   *Table[*DimStyle]
	Viewports   *Table[*Viewport]
	UCSs        *Table[*UCSTableEntry]
	Views       *Table[*View]
	AppIDs      *Table[*AppID]
	BlockRecords *Table[*BlockRecord]

	// Entities indexes every graphical entity by the block record that
	// owns it, for convenient traversal; it is kept in sync with
	// BlockRecord.Entities by the template resolver.
	Entities map[Handle][]Entity

	Warnings []Warning
}

// NewDocument returns an empty document ready to be populated by a
// reader, or built up programmatically before a write.
func NewDocument(v Version) *Document {
	return &Document{
		Version:      v,
		codePage:     codePageANSI1252,
		Objects:      make(map[Handle]Object),
		Allocator:    NewHandleAllocator(1),
		Classes:      newClassTable(),
		Layers:       newTable[*Layer](),
		Linetypes:    newTable[*Linetype](),
		Styles:       newTable[*TextStyle](),
		DimStyles:    newTable[*DimStyle](),
		Viewports:    newTable[*Viewport](),
		UCSs:         newTable[*UCSTableEntry](),
		Views:        newTable[*View](),
		AppIDs:       newTable[*AppID](),
		BlockRecords: newTable[*BlockRecord](),
		Entities:     make(map[Handle][]Entity),
	}
}

// Lookup dereferences a handle against the object arena. This is the
// only place in the API a cross-reference is ever turned into a live
// value (see "Cyclic references" in the design notes): everywhere else,
// cross-references are stored as bare handles.
func (d *Document) Lookup(h Handle) (Object, bool) {
	if h == 0 {
		return nil, false
	}
	o, ok := d.Objects[h]
	return o, ok
}

// addWarning records a recoverable condition, used by failsafe reads and
// by template resolution's dangling-reference handling.
func (d *Document) addWarning(w Warning) {
	d.Warnings = append(d.Warnings, w)
}
