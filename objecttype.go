// Copyright 2024 The dwg authors. All rights reserved.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package dwg

// TypeCode is the 16-bit object type code read by ReadOT/written by
// WriteOT (§3 "Object type code"): the fixed built-in enumeration below
// for codes 0x00-0x52 and the two proxy codes, or >= 500 resolved
// against the file's class table.
type TypeCode int16

// Built-in object type codes, §3 and §4.5.
const (
	TypeUnused TypeCode = iota
	TypeText
	TypeAttrib
	TypeAttdef
	TypeBlock
	TypeEndblk
	TypeSeqend
	TypeInsert
	TypeMinsert
	_reserved9
	TypeVertex2D
	TypeVertex3D
	TypeVertexMesh
	TypeVertexPFace
	TypeVertexPFaceFace
	TypePolyline2D
	TypePolyline3D
	TypeArc
	TypeCircle
	TypeLine
	TypeDimOrdinate
	TypeDimLinear
	TypeDimAligned
	TypeDimAng3Pt
	TypeDimAng2Ln
	TypeDimRadius
	TypeDimDiameter
	TypePoint
	TypeFace3D
	TypePolylinePFace
	TypePolylineMesh
	TypeSolid
	TypeTrace
	TypeShape
	TypeViewport
	TypeEllipse
	TypeSpline
	TypeRegion
	TypeSolid3D
	TypeBody
	TypeRay
	TypeXline
	TypeDictionary
	TypeOLEFrame
	TypeMText
	TypeLeader
	TypeTolerance
	TypeMLine
	TypeBlockControlObj
	TypeBlockHeader
	TypeLayerControlObj
	TypeLayer
	TypeStyleControlObj
	TypeStyle
	_reserved53
	_reserved54
	TypeLTypeControlObj
	TypeLType
	_reserved57
	_reserved58
	TypeViewControlObj
	TypeView
	TypeUCSControlObj
	TypeUCS
	TypeVPortControlObj
	TypeVPort
	TypeAppIDControlObj
	TypeAppID
	TypeDimStyleControlObj
	TypeDimStyle
	TypeViewportEntityControlObj
	TypeViewportEntityHeader
	TypeGroup
	TypeMLineStyle
	TypeOLE2Frame
	TypeDummy
	TypeLongTransaction
	TypeLWPolyline
	TypeHatch
	TypeXRecord
	TypeACDbPlaceHolder
	TypeVBAProject
	TypeLayout
)

const (
	// TypeProxyEntity and TypeProxyObject are the two fixed codes for
	// proxy graphics/non-graphics objects, independent of the class
	// table (§3).
	TypeProxyEntity TypeCode = 0x1F2
	TypeProxyObject TypeCode = 0x1F3

	// classBase is the first type code resolved through the per-file
	// class table rather than the built-in enumeration (§3 "Object
	// type code").
	classBase TypeCode = 500

	// TypeUnknown marks an UnknownObject placeholder: a type code with
	// neither a built-in handler nor a class-table match.
	TypeUnknown TypeCode = -1
)

// IsClassBased reports whether code must be resolved through the class
// table rather than the built-in switch.
func (c TypeCode) IsClassBased() bool { return c >= classBase }
