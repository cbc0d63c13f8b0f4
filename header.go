// Copyright 2024 The dwg authors. All rights reserved.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package dwg

// HeaderVariables is the decoded Header variables section (§4.4): a
// large, version-conditional bag of scalar drawing defaults plus a
// handful of handle references into the tables and dictionaries that
// anchor the rest of the graph. Only a representative subset of the
// real format's ~500 scalar fields is named here, and the section codec
// (decodeHeaderSection / encodeHeaderSection) reads and writes only
// part of that subset, in the order decodeHeaderSection lists. The
// named fields it skips (for example LimCheck, PDMode, CLAYER and every
// Dim* variable) are not read from or written to the file and stay
// zero after a read. The bytes that follow the decoded fields are kept
// verbatim in Extra and written back after them (§7 "Failsafe mode").
type HeaderVariables struct {
	// Drawing defaults, present since the earliest supported release.
	InsBase       Vector3
	ExtMin        Vector3
	ExtMax        Vector3
	LimMin        Vector2
	LimMax        Vector2
	ElevationCur  float64
	OrthoMode     bool
	RegenMode     bool
	FillMode      bool
	QTextMode     bool
	MirrText      bool
	LimCheck      bool
	DimAssoc      int8
	TextHeight    float64
	TextStyleName string
	AttMode       int16
	TextSize      float64
	TraceWidth    float64
	SketchInc     float64
	FilletRad     float64
	ThicknessCur  float64
	AngBase       float64
	AngDir        int16
	PDMode        int16
	PDSize        float64
	PLineWidth    float64
	UserTimer     bool
	SplineSegs    int16
	SurfTab1      int16
	SurfTab2      int16
	SplineType    int16
	ShadeEdge     int16
	ShadeDif      int16
	UnitMode      int16
	MaxActVP      int16
	ISOLines      int16
	CMLStyle      int16
	CMLJust       int16
	TextQlty      int16
	LTScale       float64
	PSLTScale     bool
	TreeDepth     int16
	CELTScale     float64
	MenuName      string
	TDCreate      JulianDate
	TDUpdate      JulianDate
	TDIndwg       float64 // total editing time, days
	TDUsrTimer    float64
	CECOLOR       Color

	// Named-object anchors (§4.4 "current layer, text style, named-objects
	// dictionary, table controls, block records for model/paper space,
	// BYLAYER/BYBLOCK/CONTINUOUS linetypes").
	NamedObjectsDict Handle
	CurrentLayer     Handle
	CurrentTextStyle Handle
	CurrentLinetype  Handle
	CLAYER           Handle
	TextStyleHandle  Handle
	CELTYPE          Handle
	CMaterialHandle  Handle
	DimStyleHandle   Handle
	ModelSpaceBlock  Handle
	PaperSpaceBlock  Handle
	LinetypeByLayer  Handle
	LinetypeByBlock  Handle
	LinetypeContinuous Handle
	ViewportEnt     Handle
	GroupDict       Handle
	MLineStyleDict  Handle
	LayoutDict      Handle

	// Dimension variables (version-conditional, R13+). The section codec
	// does not read or write these fields; they stay zero after a read,
	// and the file's dimension-variable bytes are part of Extra.
	DimScale   float64
	DimASZ     float64
	DimEXO     float64
	DimDLI     float64
	DimEXE     float64
	DimRND     float64
	DimDLE     float64
	DimTP      float64
	DimTM      float64
	DimTXT     float64
	DimCEN     float64
	DimTSZ     float64
	DimTOL     bool
	DimLIM     bool
	DimTIH     bool
	DimTOH     bool
	DimSE1     bool
	DimSE2     bool
	DimTAD     int16
	DimZIN     int16
	DimTXSTY   Handle
	DimCLRD    Color
	DimCLRE    Color
	DimCLRT    Color

	// Opaque tail: any remaining bytes of the header stream this struct
	// doesn't decode into named fields, preserved verbatim so a
	// read-then-write round trip doesn't silently drop unknown state.
	Extra []byte
}

// Vector2 is a plain 2D point, used by the header's drawing-limits
// fields (§4.4); full entities use Vector3 even where Z is unused.
type Vector2 struct {
	X, Y float64
}

// JulianDate is a DWG Julian date/time pair (§3 "Julian date"): whole
// days since the Julian epoch, plus milliseconds since local midnight.
type JulianDate struct {
	Days         int32
	Milliseconds int32
}
