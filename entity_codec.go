// Copyright 2024 The dwg authors. All rights reserved.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package dwg

// This file implements the common entity/non-entity header codec of
// §4.5: the field order here is load-bearing and must not be
// reordered, grounded on the fixed-layout record parsing style of the
// teacher's resource-directory and section-header readers (each field
// read in file order into a plain struct, errors returned immediately).

// entityHeader is the parsed common entity header (§4.5 "Common entity
// header"), carried alongside a commonEntity while the object codec
// finishes reading the type-specific tail.
type entityHeader struct {
	common        commonEntity
	entityMode    uint8 // 0=explicit owner, 1=paper space, 2=model space
	explicitOwner HandleRef
	layerRef      HandleRef
	linetypeMode  uint8 // 0=bylayer,1=byblock,2=continuous,3=explicit handle
	linetypeRef   HandleRef
	ownerRef      HandleRef
	reactorRefs   []HandleRef
	xdictRef      HandleRef
	hasXDict      bool
	materialMode  uint8
	materialRef   HandleRef
}

// readCommonEntityHeader reads fields 2-11 of §4.5 "Common entity
// header"; field 1 (OT + handle) is read by the caller, which is why
// handle is passed in rather than read here.
func readCommonEntityHeader(r *BitReader, f verFlags, handle Handle) (*entityHeader, error) {
	h := &entityHeader{common: commonEntity{Handle: handle}}

	eedSize, err := r.ReadBS()
	if err != nil {
		return nil, err
	}
	for eedSize != 0 {
		if _, err := r.ReadH(); err != nil { // app handle
			return nil, err
		}
		if _, err := r.ReadBytes(int(eedSize)); err != nil {
			return nil, err
		}
		eedSize, err = r.ReadBS()
		if err != nil {
			return nil, err
		}
	}

	hasGraphics, err := r.ReadBit()
	if err != nil {
		return nil, err
	}
	if hasGraphics {
		if f.r2010Plus {
			if _, err := r.ReadRL(); err != nil {
				return nil, err
			}
		}
		n, err := r.ReadRL()
		if err != nil {
			return nil, err
		}
		if _, err := r.ReadBytes(int(n)); err != nil {
			return nil, err
		}
	}

	if f.r1314Only {
		if _, err := r.ReadRL(); err != nil { // saved size-for-later slot
			return nil, err
		}
	}

	mode, err := r.Read2Bits()
	if err != nil {
		return nil, err
	}
	h.entityMode = mode

	reactorCount, err := r.ReadBL()
	if err != nil {
		return nil, err
	}

	xdictMissing := false
	if f.r2004Plus {
		xdictMissing, err = r.ReadBit()
		if err != nil {
			return nil, err
		}
	}
	if f.r2013Plus {
		if _, err := r.ReadBit(); err != nil { // has DS binary data
			return nil, err
		}
	}

	h.reactorRefs = make([]HandleRef, 0, reactorCount)
	for i := int32(0); i < reactorCount; i++ {
		ref, err := r.ReadH()
		if err != nil {
			return nil, err
		}
		h.reactorRefs = append(h.reactorRefs, ref)
	}
	h.hasXDict = !xdictMissing
	if h.hasXDict {
		h.xdictRef, err = r.ReadH()
		if err != nil {
			return nil, err
		}
	}

	col, transparency, err := r.ReadENC()
	if err != nil {
		return nil, err
	}
	h.common.Color = col
	h.common.Transparency = transparency

	ltScale, err := r.ReadBD()
	if err != nil {
		return nil, err
	}
	h.common.LinetypeScale = ltScale

	if mode == 0 {
		h.explicitOwner, err = r.ReadH()
		if err != nil {
			return nil, err
		}
	}

	if f.r2000Plus {
		h.layerRef, err = r.ReadH()
		if err != nil {
			return nil, err
		}
		ltMode, err := r.Read2Bits()
		if err != nil {
			return nil, err
		}
		h.linetypeMode = ltMode
		if ltMode == 3 {
			h.linetypeRef, err = r.ReadH()
			if err != nil {
				return nil, err
			}
		}
	} else {
		h.layerRef, err = r.ReadH()
		if err != nil {
			return nil, err
		}
		h.linetypeRef, err = r.ReadH()
		if err != nil {
			return nil, err
		}
	}

	if f.r2007Plus {
		matMode, err := r.Read2Bits()
		if err != nil {
			return nil, err
		}
		h.materialMode = matMode
		if matMode == 3 {
			h.materialRef, err = r.ReadH()
			if err != nil {
				return nil, err
			}
		}
		if _, err := r.Read2Bits(); err != nil { // shadow flags
			return nil, err
		}
		plotStyleMode, err := r.Read2Bits()
		if err != nil {
			return nil, err
		}
		_ = plotStyleMode
	}
	if f.r2010Plus {
		for i := 0; i < 3; i++ {
			has, err := r.ReadBit()
			if err != nil {
				return nil, err
			}
			if has {
				if _, err := r.ReadH(); err != nil {
					return nil, err
				}
			}
		}
	}

	invisible, err := r.ReadBS()
	if err != nil {
		return nil, err
	}
	h.common.Invisible = invisible != 0

	if f.r2000Plus {
		lw, err := r.ReadByte()
		if err != nil {
			return nil, err
		}
		h.common.Lineweight = int8(lw)
	}

	return h, nil
}

// writeCommonEntityHeader writes fields 2-11 of §4.5, mirroring
// readCommonEntityHeader field for field. The caller writes field 1
// (OT + handle) before calling this.
func writeCommonEntityHeader(w *BitWriter, f verFlags, h *entityHeader) error {
	w.WriteBS(0) // no EED in generated output

	w.WriteBit(false) // no graphics blob

	if f.r1314Only {
		w.WriteRL(0)
	}

	w.Write2Bits(h.entityMode)
	w.WriteBL(int32(len(h.reactorRefs)))

	if f.r2004Plus {
		w.WriteBit(!h.hasXDict)
	}
	if f.r2013Plus {
		w.WriteBit(false)
	}

	for _, ref := range h.reactorRefs {
		w.WriteH(ref)
	}
	if h.hasXDict || !f.r2004Plus { // pre-R2004 readers always read this handle
		w.WriteH(h.xdictRef)
	}

	if err := w.WriteENC(h.common.Color, h.common.Transparency); err != nil {
		return err
	}
	w.WriteBD(h.common.LinetypeScale)

	if h.entityMode == 0 {
		w.WriteH(h.explicitOwner)
	}

	if f.r2000Plus {
		w.WriteH(h.layerRef)
		w.Write2Bits(h.linetypeMode)
		if h.linetypeMode == 3 {
			w.WriteH(h.linetypeRef)
		}
	} else {
		w.WriteH(h.layerRef)
		w.WriteH(h.linetypeRef)
	}

	if f.r2007Plus {
		w.Write2Bits(h.materialMode)
		if h.materialMode == 3 {
			w.WriteH(h.materialRef)
		}
		w.Write2Bits(0) // shadow flags
		w.Write2Bits(0) // plot style mode: bylayer
	}
	if f.r2010Plus {
		for i := 0; i < 3; i++ {
			w.WriteBit(false)
		}
	}

	if h.common.Invisible {
		w.WriteBS(1)
	} else {
		w.WriteBS(0)
	}

	if f.r2000Plus {
		w.WriteByte(byte(h.common.Lineweight))
	}

	return nil
}

// nonEntityHeader is the parsed common non-entity header (§4.5 "Common
// non-entity header"), used by table entries, dictionaries, and
// xrecords.
type nonEntityHeader struct {
	common      commonNonEntity
	ownerRef    HandleRef
	reactorRefs []HandleRef
	hasXDict    bool
	xdictRef    HandleRef
}

// readCommonNonEntityHeader reads fields 2-7 of §4.5 "Common non-entity
// header"; field 1 (OT + handle) is read by the caller.
func readCommonNonEntityHeader(r *BitReader, f verFlags, handle Handle) (*nonEntityHeader, error) {
	h := &nonEntityHeader{common: commonNonEntity{Handle: handle}}

	eedSize, err := r.ReadBS()
	if err != nil {
		return nil, err
	}
	for eedSize != 0 {
		if _, err := r.ReadH(); err != nil {
			return nil, err
		}
		if _, err := r.ReadBytes(int(eedSize)); err != nil {
			return nil, err
		}
		eedSize, err = r.ReadBS()
		if err != nil {
			return nil, err
		}
	}

	if f.r1314Only {
		if _, err := r.ReadRL(); err != nil {
			return nil, err
		}
	}

	reactorCount, err := r.ReadBL()
	if err != nil {
		return nil, err
	}

	xdictMissing := false
	if f.r2004Plus {
		xdictMissing, err = r.ReadBit()
		if err != nil {
			return nil, err
		}
	}
	if f.r2013Plus {
		if _, err := r.ReadBit(); err != nil {
			return nil, err
		}
	}

	h.ownerRef, err = r.ReadH()
	if err != nil {
		return nil, err
	}

	h.reactorRefs = make([]HandleRef, 0, reactorCount)
	for i := int32(0); i < reactorCount; i++ {
		ref, err := r.ReadH()
		if err != nil {
			return nil, err
		}
		h.reactorRefs = append(h.reactorRefs, ref)
	}

	h.hasXDict = !xdictMissing
	if h.hasXDict {
		h.xdictRef, err = r.ReadH()
		if err != nil {
			return nil, err
		}
	}

	return h, nil
}

// writeCommonNonEntityHeader mirrors readCommonNonEntityHeader.
func writeCommonNonEntityHeader(w *BitWriter, f verFlags, h *nonEntityHeader) {
	w.WriteBS(0)

	if f.r1314Only {
		w.WriteRL(0)
	}

	w.WriteBL(int32(len(h.reactorRefs)))

	if f.r2004Plus {
		w.WriteBit(!h.hasXDict)
	}
	if f.r2013Plus {
		w.WriteBit(false)
	}

	w.WriteH(h.ownerRef)

	for _, ref := range h.reactorRefs {
		w.WriteH(ref)
	}
	if h.hasXDict || !f.r2004Plus { // pre-R2004 readers always read this handle
		w.WriteH(h.xdictRef)
	}
}
