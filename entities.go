// Copyright 2024 The dwg authors. All rights reserved.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package dwg

// Entity is any graphical object: it carries the common entity header
// (§4.5) plus type-specific fields.
type Entity interface {
	Object
	EntityCommon() *commonEntity
}

// Line is a LINE entity (§4.5 representative schema).
type Line struct {
	commonEntity
	Start, End Vector3
	Thickness  float64
	Extrusion  Vector3
}

func (l *Line) ObjectType() TypeCode      { return TypeLine }
func (l *Line) EntityCommon() *commonEntity { return &l.commonEntity }

// Circle is a CIRCLE entity.
type Circle struct {
	commonEntity
	Center    Vector3
	Radius    float64
	Thickness float64
	Extrusion Vector3
}

func (c *Circle) ObjectType() TypeCode      { return TypeCircle }
func (c *Circle) EntityCommon() *commonEntity { return &c.commonEntity }

// Arc is an ARC entity: a Circle plus start/end angles.
type Arc struct {
	commonEntity
	Center             Vector3
	Radius             float64
	Thickness          float64
	Extrusion          Vector3
	StartAngle, EndAngle float64
}

func (a *Arc) ObjectType() TypeCode      { return TypeArc }
func (a *Arc) EntityCommon() *commonEntity { return &a.commonEntity }

// LWPolylineVertex is one vertex of an LWPOLYLINE: a 2D point with an
// optional bulge and a per-vertex width override.
type LWPolylineVertex struct {
	Point             Vector3
	Bulge             float64
	StartW, EndW      float64
}

// LWPolyline is an LWPOLYLINE entity.
type LWPolyline struct {
	commonEntity
	Closed        bool
	ConstantWidth float64
	Elevation     float64
	Thickness     float64
	Extrusion     Vector3
	Vertices      []LWPolylineVertex
}

func (p *LWPolyline) ObjectType() TypeCode      { return TypeLWPolyline }
func (p *LWPolyline) EntityCommon() *commonEntity { return &p.commonEntity }

// Text is a TEXT entity.
type Text struct {
	commonEntity
	Elevation    float64
	Insertion    Vector3
	Alignment    Vector3
	Extrusion    Vector3
	Thickness    float64
	Oblique      float64
	Rotation     float64
	Height       float64
	WidthFactor  float64
	Value        string
	Generation   int16
	HAlign       int16
	VAlign       int16
	StyleHandle  Handle
}

func (t *Text) ObjectType() TypeCode      { return TypeText }
func (t *Text) EntityCommon() *commonEntity { return &t.commonEntity }

// Insert is an INSERT entity (a block reference).
type Insert struct {
	commonEntity
	Insertion    Vector3
	Scale        Vector3
	Rotation     float64
	Extrusion    Vector3
	HasAttribs   bool
	BlockHeader  Handle
	FirstAttrib  Handle
	LastAttrib   Handle
	Seqend       Handle
	OwnedAttribs []Handle // R2004+: explicit owned-handle list
}

func (i *Insert) ObjectType() TypeCode      { return TypeInsert }
func (i *Insert) EntityCommon() *commonEntity { return &i.commonEntity }

// PolylineVertex is one VERTEX entity owned by a 2D/3D polyline.
type PolylineVertex struct {
	commonEntity
	Point Vector3
	Bulge float64
	StartWidth, EndWidth float64
	VertexFlags int16
}

func (v *PolylineVertex) ObjectType() TypeCode { return TypeVertex2D }
func (v *PolylineVertex) EntityCommon() *commonEntity { return &v.commonEntity }

// Seqend terminates a vertex/attribute chain (polylines, inserts with
// attributes).
type Seqend struct {
	commonEntity
}

func (s *Seqend) ObjectType() TypeCode      { return TypeSeqend }
func (s *Seqend) EntityCommon() *commonEntity { return &s.commonEntity }

// Polyline is a 2D or 3D POLYLINE entity. R2004+ embeds the child vertex
// handles directly (hard ownership); pre-R2004 embeds only first/last
// and relies on the linked SEQEND (§4.5).
type Polyline struct {
	commonEntity
	Is3D       bool
	Flags      int16
	StartWidth float64
	EndWidth   float64
	Thickness  float64
	Elevation  float64
	Extrusion  Vector3
	Vertices   []Handle // owned vertex handles, document order
	First, Last Handle
	Seqend     Handle
}

func (p *Polyline) ObjectType() TypeCode {
	if p.Is3D {
		return TypePolyline3D
	}
	return TypePolyline2D
}
func (p *Polyline) EntityCommon() *commonEntity { return &p.commonEntity }

// SplineScenario discriminates a SPLINE's payload shape.
type SplineScenario int8

const (
	SplineControlPoints SplineScenario = 1
	SplineFitPoints     SplineScenario = 2
)

// Spline is a SPLINE entity.
type Spline struct {
	commonEntity
	Scenario   SplineScenario
	Closed     bool
	Periodic   bool
	Rational   bool
	Planar     bool
	Linear     bool
	Degree     int32
	Knots      []float64
	Control    []Vector3
	Weights    []float64 // parallel to Control, only when Rational
	Fit        []Vector3
	StartTangent, EndTangent Vector3
}

func (s *Spline) ObjectType() TypeCode      { return TypeSpline }
func (s *Spline) EntityCommon() *commonEntity { return &s.commonEntity }

// HatchBoundaryEdge is one edge of a HATCH boundary path (line arc only,
// a representative subset of the five edge kinds DWG supports).
type HatchBoundaryEdge struct {
	Kind  int8 // 1=line,2=circular arc,3=elliptic arc,4=spline
	Start, End Vector3
	Center     Vector3
	Radius     float64
	StartAngle, EndAngle float64
	CCW        bool
}

// HatchBoundaryPath is one closed loop of a HATCH boundary.
type HatchBoundaryPath struct {
	Flags int32
	Edges []HatchBoundaryEdge
}

// HatchLine is one line definition of a non-solid-fill pattern.
type HatchLine struct {
	Angle, Origin0, Origin1, Offset0, Offset1 float64
	DashLengths []float64
}

// Hatch is a HATCH entity (§4.5: "extremely version-sensitive").
type Hatch struct {
	commonEntity
	Elevation      float64
	Extrusion      Vector3
	Name           string
	Solid          bool
	Associative    bool
	Paths          []HatchBoundaryPath
	HatchStyle     int16
	PatternType    int16
	Angle          float64
	Scale          float64
	DoubleHatch    bool
	PatternLines   []HatchLine
	HasGradient    bool
	GradientColor1 Color
	GradientColor2 Color
	GradientAngle  float64
	GradientShift  float64
	SeedPoints     []Vector3
}

func (h *Hatch) ObjectType() TypeCode      { return TypeHatch }
func (h *Hatch) EntityCommon() *commonEntity { return &h.commonEntity }
