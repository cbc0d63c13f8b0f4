// Copyright 2024 The dwg authors. All rights reserved.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package dwg

// readObject decodes one object from its own private bitstream (the
// object map gives each object its own byte offset; callers slice the
// section buffer before constructing r). It reads the common OT+handle
// prefix, dispatches to the matching common header plus type-specific
// tail. It returns an UnknownObject for every class-based type code (no
// custom class has a handler) and for every built-in code without one,
// table control objects included (§7 "Unknown type").
func readObject(r *BitReader, f verFlags, classes *ClassTable) (Object, error) {
	rawType, err := r.ReadOT(f.r2010Plus)
	if err != nil {
		return nil, err
	}
	typ := TypeCode(rawType)

	handleRef, err := r.ReadH()
	if err != nil {
		return nil, err
	}
	handle := handleRef.Handle

	if typ.IsClassBased() {
		return readClassBasedObject(r, f, classes, typ, handle)
	}

	if isEntityType(typ) {
		eh, err := readCommonEntityHeader(r, f, handle)
		if err != nil {
			return nil, &ParseError{Handle: handle, Context: "common entity header", Err: err}
		}
		return readBuiltinEntity(r, f, typ, eh)
	}

	nh, err := readCommonNonEntityHeader(r, f, handle)
	if err != nil {
		return nil, &ParseError{Handle: handle, Context: "common non-entity header", Err: err}
	}
	return readBuiltinNonEntity(r, f, typ, nh)
}

// isEntityType reports whether typ uses the common entity header
// rather than the common non-entity header; the built-in graphical
// types are a contiguous run plus a handful named individually (§3
// "Object type code").
func isEntityType(typ TypeCode) bool {
	switch typ {
	case TypeText, TypeAttrib, TypeAttdef, TypeBlock, TypeEndblk, TypeSeqend,
		TypeInsert, TypeMinsert, TypeVertex2D, TypeVertex3D, TypeVertexMesh,
		TypeVertexPFace, TypeVertexPFaceFace, TypePolyline2D, TypePolyline3D,
		TypeArc, TypeCircle, TypeLine, TypeDimOrdinate, TypeDimLinear,
		TypeDimAligned, TypeDimAng3Pt, TypeDimAng2Ln, TypeDimRadius,
		TypeDimDiameter, TypePoint, TypeFace3D, TypePolylinePFace,
		TypePolylineMesh, TypeSolid, TypeTrace, TypeShape, TypeViewport,
		TypeEllipse, TypeSpline, TypeRegion, TypeSolid3D, TypeBody, TypeRay,
		TypeXline, TypeOLEFrame, TypeMText, TypeLeader, TypeTolerance,
		TypeMLine, TypeOLE2Frame, TypeLWPolyline, TypeHatch:
		return true
	default:
		return false
	}
}

func readBuiltinEntity(r *BitReader, f verFlags, typ TypeCode, eh *entityHeader) (Object, error) {
	switch typ {
	case TypeLine:
		return readLine(r, f, eh)
	case TypeCircle:
		return readCircle(r, f, eh)
	case TypeArc:
		return readArc(r, f, eh)
	case TypeText:
		return readText(r, f, eh)
	case TypeLWPolyline:
		return readLWPolyline(r, f, eh)
	case TypeInsert, TypeMinsert:
		return readInsert(r, f, eh)
	case TypeSeqend:
		return readSeqend(eh), nil
	case TypeSpline:
		return readSpline(r, eh)
	case TypePolyline2D:
		p, err := readPolyline(r, f, eh, false)
		return p, err
	case TypePolyline3D:
		p, err := readPolyline(r, f, eh, true)
		return p, err
	case TypeVertex2D, TypeVertex3D:
		return readPolylineVertex(r, eh)
	case TypeHatch:
		return readHatch(r, eh)
	default:
		return &UnknownObject{Handle: eh.common.Handle, IsEntity: true}, nil
	}
}

func readBuiltinNonEntity(r *BitReader, f verFlags, typ TypeCode, nh *nonEntityHeader) (Object, error) {
	switch typ {
	case TypeLayer:
		return readLayer(r, f, nh)
	case TypeLType:
		return readLinetype(r, nh)
	case TypeStyle:
		return readTextStyle(r, f, nh)
	case TypeDimStyle:
		return readDimStyle(r, nh)
	case TypeAppID:
		return readAppID(r, nh)
	case TypeVPort:
		return readViewport(r, nh)
	case TypeUCS:
		return readUCS(r, nh)
	case TypeView:
		return readView(r, nh)
	case TypeBlockHeader:
		return readBlockRecord(r, f, nh)
	case TypeDictionary:
		return readDictionary(r, f, nh)
	case TypeXRecord:
		return readXRecord(r, nh)
	case TypeBlockControlObj, TypeLayerControlObj, TypeStyleControlObj,
		TypeLTypeControlObj, TypeViewControlObj, TypeUCSControlObj,
		TypeVPortControlObj, TypeAppIDControlObj, TypeDimStyleControlObj,
		TypeViewportEntityControlObj:
		// Control objects enumerate their table's entries but carry no
		// state this document model doesn't already derive from Table's
		// own Order slice; the handle list is consumed and discarded.
		count, err := r.ReadBL()
		if err != nil {
			return nil, err
		}
		for i := int32(0); i < count; i++ {
			if _, err := r.ReadH(); err != nil {
				return nil, err
			}
		}
		return &UnknownObject{Handle: nh.common.Handle, ClassName: "CONTROL_OBJ"}, nil
	default:
		return &UnknownObject{Handle: nh.common.Handle}, nil
	}
}

// readClassBasedObject handles a type code >= classBase: look it up in
// the per-file class table and, lacking a handler for every custom
// class (this module implements none), preserve it as an
// UnknownObject carrying the raw remaining bytes (§7 "Unknown type").
func readClassBasedObject(r *BitReader, f verFlags, classes *ClassTable, typ TypeCode, handle Handle) (Object, error) {
	class, _ := classes.ByNumber(int16(typ))
	u := &UnknownObject{Handle: handle}
	if class != nil {
		u.ClassNumber = class.ClassNumber
		u.ClassName = class.DXFName
		u.IsEntity = class.IsEntity
	}
	remaining := r.Remaining()
	body, err := r.ReadBytes(remaining / 8)
	if err != nil {
		return nil, err
	}
	u.Body = body
	return u, nil
}

// writeObject encodes o onto w, mirroring readObject's dispatch.
func writeObject(w *BitWriter, f verFlags, o Object) error {
	code := int16(o.ObjectType())
	if u, ok := o.(*UnknownObject); ok && u.ClassNumber != 0 {
		code = u.ClassNumber
	}
	w.WriteOT(code, f.r2010Plus)
	w.WriteH(HandleRef{Handle: o.ObjectHandle()}) // field 1: absolute handle, code 0x0

	switch v := o.(type) {
	case *Line:
		writeCommonEntityHeaderFor(w, f, &v.commonEntity, v.Handle)
		writeLine(w, f, v)
	case *Circle:
		writeCommonEntityHeaderFor(w, f, &v.commonEntity, v.Handle)
		writeCircle(w, f, v)
	case *Arc:
		writeCommonEntityHeaderFor(w, f, &v.commonEntity, v.Handle)
		writeArc(w, f, v)
	case *Text:
		writeCommonEntityHeaderFor(w, f, &v.commonEntity, v.Handle)
		writeText(w, f, v)
	case *LWPolyline:
		writeCommonEntityHeaderFor(w, f, &v.commonEntity, v.Handle)
		writeLWPolyline(w, v)
	case *Insert:
		writeCommonEntityHeaderFor(w, f, &v.commonEntity, v.Handle)
		writeInsert(w, f, v)
	case *Seqend:
		writeCommonEntityHeaderFor(w, f, &v.commonEntity, v.Handle)
	case *Spline:
		writeCommonEntityHeaderFor(w, f, &v.commonEntity, v.Handle)
		writeSpline(w, v)
	case *Polyline:
		writeCommonEntityHeaderFor(w, f, &v.commonEntity, v.Handle)
		writePolyline(w, f, v)
	case *PolylineVertex:
		writeCommonEntityHeaderFor(w, f, &v.commonEntity, v.Handle)
		writePolylineVertex(w, v)
	case *Hatch:
		writeCommonEntityHeaderFor(w, f, &v.commonEntity, v.Handle)
		writeHatch(w, v)
	case *Layer:
		writeCommonNonEntityHeaderFor(w, f, &v.commonNonEntity, v.Handle)
		writeLayer(w, f, v)
	case *Linetype:
		writeCommonNonEntityHeaderFor(w, f, &v.commonNonEntity, v.Handle)
		writeLinetype(w, v)
	case *TextStyle:
		writeCommonNonEntityHeaderFor(w, f, &v.commonNonEntity, v.Handle)
		writeTextStyle(w, v)
	case *DimStyle:
		writeCommonNonEntityHeaderFor(w, f, &v.commonNonEntity, v.Handle)
		writeDimStyle(w, v)
	case *AppID:
		writeCommonNonEntityHeaderFor(w, f, &v.commonNonEntity, v.Handle)
		writeAppID(w, v)
	case *Viewport:
		writeCommonNonEntityHeaderFor(w, f, &v.commonNonEntity, v.Handle)
		writeViewport(w, v)
	case *UCSTableEntry:
		writeCommonNonEntityHeaderFor(w, f, &v.commonNonEntity, v.Handle)
		writeUCS(w, v)
	case *View:
		writeCommonNonEntityHeaderFor(w, f, &v.commonNonEntity, v.Handle)
		writeView(w, v)
	case *BlockRecord:
		writeCommonNonEntityHeaderFor(w, f, &v.commonNonEntity, v.Handle)
		writeBlockRecord(w, f, v)
	case *Dictionary:
		writeCommonNonEntityHeaderFor(w, f, &v.commonNonEntity, v.Handle)
		writeDictionary(w, f, v)
	case *XRecord:
		writeCommonNonEntityHeaderFor(w, f, &v.commonNonEntity, v.Handle)
		writeXRecord(w, v)
	case *UnknownObject:
		w.WriteBytes(v.Body)
	default:
		return &ParseError{Handle: o.ObjectHandle(), Context: "write", Err: ErrUnresolvedReference}
	}
	return nil
}

// writeCommonEntityHeaderFor rebuilds the entityHeader scaffolding
// around a commonEntity: the owner is written as an explicit
// soft-ownership handle (entity mode 0), and the reactors and
// xdictionary come from c's own handle fields. The layer is written as
// a null hard pointer and the linetype as ByLayer (mode 0); c.Layer and
// c.Linetype are not written.
func writeCommonEntityHeaderFor(w *BitWriter, f verFlags, c *commonEntity, handle Handle) {
	eh := &entityHeader{
		common:        *c,
		entityMode:    0,
		explicitOwner: HandleRef{Code: RefSoftOwnership, Handle: c.Owner},
		layerRef:      HandleRef{Code: RefHardPointer},
		linetypeMode:  0,
		reactorRefs:   refsFromHandles(c.Reactors),
		hasXDict:      c.XDictionary != 0,
		xdictRef:      HandleRef{Code: RefSoftOwnership, Handle: c.XDictionary},
	}
	_ = writeCommonEntityHeader(w, f, eh)
}

func writeCommonNonEntityHeaderFor(w *BitWriter, f verFlags, c *commonNonEntity, handle Handle) {
	nh := &nonEntityHeader{
		common:      *c,
		ownerRef:    HandleRef{Code: RefSoftOwnership, Handle: c.Owner},
		reactorRefs: refsFromHandles(c.Reactors),
		hasXDict:    c.XDictionary != 0,
		xdictRef:    HandleRef{Code: RefSoftOwnership, Handle: c.XDictionary},
	}
	writeCommonNonEntityHeader(w, f, nh)
}

func refsFromHandles(hs []Handle) []HandleRef {
	out := make([]HandleRef, len(hs))
	for i, h := range hs {
		out[i] = HandleRef{Code: RefSoftPointer, Handle: h}
	}
	return out
}
