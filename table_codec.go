// Copyright 2024 The dwg authors. All rights reserved.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package dwg

// Per-type table-entry and object readers/writers built on top of
// readCommonNonEntityHeader/writeCommonNonEntityHeader (§4.5 "Common
// non-entity header").

func readLayer(r *BitReader, f verFlags, nh *nonEntityHeader) (*Layer, error) {
	l := &Layer{commonNonEntity: nh.common}
	var err error
	l.Name, err = r.ReadT()
	if err != nil {
		return nil, err
	}
	if _, err := r.ReadBit(); err != nil { // "64 flag"
		return nil, err
	}
	xrefIdx, err := r.ReadBS()
	if err != nil {
		return nil, err
	}
	xdep, err := r.ReadBit()
	if err != nil {
		return nil, err
	}
	l.Flags = int16(xrefIdx)
	if xdep {
		l.Flags |= 0x10
	}
	frozen, err := r.ReadBit()
	if err != nil {
		return nil, err
	}
	if frozen {
		l.Flags |= 0x1
	}
	if _, err := r.ReadBit(); err != nil { // on/off, stored inverted in color sign elsewhere
		return nil, err
	}
	frzDefault, err := r.ReadBit()
	if err != nil {
		return nil, err
	}
	if frzDefault {
		l.Flags |= 0x2
	}
	locked, err := r.ReadBit()
	if err != nil {
		return nil, err
	}
	if locked {
		l.Flags |= 0x4
	}
	if f.r2000Plus {
		valFlags, err := r.ReadRS()
		if err != nil {
			return nil, err
		}
		_ = valFlags
	}
	col, _, err := r.ReadENC()
	if err != nil {
		return nil, err
	}
	l.Color = col
	l.Linetype, err = readDirectHandle(r)
	if err != nil {
		return nil, err
	}
	if f.r2000Plus {
		plotted, err := r.ReadBit()
		if err != nil {
			return nil, err
		}
		l.PlotFlag = plotted
		lw, err := r.ReadRS()
		if err != nil {
			return nil, err
		}
		l.LineWeight = int16(lw)
		l.PlotStyle, err = readDirectHandle(r)
		if err != nil {
			return nil, err
		}
	}
	if f.r2007Plus {
		l.Material, err = readDirectHandle(r)
		if err != nil {
			return nil, err
		}
	}
	return l, nil
}

func writeLayer(w *BitWriter, f verFlags, l *Layer) {
	_ = w.WriteT(l.Name)
	w.WriteBit(false)
	w.WriteBS(0)
	w.WriteBit(l.Flags&0x10 != 0)
	w.WriteBit(l.Flags&0x1 != 0)
	w.WriteBit(true)
	w.WriteBit(l.Flags&0x2 != 0)
	w.WriteBit(l.Flags&0x4 != 0)
	if f.r2000Plus {
		w.WriteRS(0)
	}
	_ = w.WriteENC(l.Color, 0)
	w.WriteH(HandleRef{Code: RefHardPointer, Handle: l.Linetype})
	if f.r2000Plus {
		w.WriteBit(l.PlotFlag)
		w.WriteRS(uint16(l.LineWeight))
		w.WriteH(HandleRef{Code: RefHardPointer, Handle: l.PlotStyle})
	}
	if f.r2007Plus {
		w.WriteH(HandleRef{Code: RefHardPointer, Handle: l.Material})
	}
}

func readLinetype(r *BitReader, nh *nonEntityHeader) (*Linetype, error) {
	l := &Linetype{commonNonEntity: nh.common}
	var err error
	l.Name, err = r.ReadT()
	if err != nil {
		return nil, err
	}
	if _, err := r.ReadBit(); err != nil {
		return nil, err
	}
	if _, err := r.ReadBS(); err != nil { // xref index
		return nil, err
	}
	if _, err := r.ReadBit(); err != nil { // xdep
		return nil, err
	}
	l.Description, err = r.ReadT()
	if err != nil {
		return nil, err
	}
	patternLen, err := r.ReadBD()
	if err != nil {
		return nil, err
	}
	_ = patternLen
	align, err := r.ReadRC()
	if err != nil {
		return nil, err
	}
	l.AlignCode = byte(align)
	count, err := r.ReadRC()
	if err != nil {
		return nil, err
	}
	l.Segments = make([]LinetypeSegment, count)
	for i := range l.Segments {
		seg := &l.Segments[i]
		seg.Length, err = r.ReadBD()
		if err != nil {
			return nil, err
		}
		shape, err := r.ReadBS()
		if err != nil {
			return nil, err
		}
		seg.Shape = int16(shape)
		seg.Text, err = r.ReadT()
		if err != nil {
			return nil, err
		}
		if _, err := r.ReadBytes(8); err != nil { // scale/rotation/offset of embedded shape, not modeled
			return nil, err
		}
	}
	for i := range l.Segments {
		l.Segments[i].StyleRef, err = readDirectHandle(r)
		if err != nil {
			return nil, err
		}
	}
	return l, nil
}

func writeLinetype(w *BitWriter, l *Linetype) {
	_ = w.WriteT(l.Name)
	w.WriteBit(false)
	w.WriteBS(0)
	w.WriteBit(false)
	_ = w.WriteT(l.Description)
	w.WriteBD(0)
	w.WriteRC(int8(l.AlignCode))
	w.WriteRC(int8(len(l.Segments)))
	for _, seg := range l.Segments {
		w.WriteBD(seg.Length)
		w.WriteBS(int32(seg.Shape))
		_ = w.WriteT(seg.Text)
		w.WriteBytes(make([]byte, 8))
	}
	for _, seg := range l.Segments {
		w.WriteH(HandleRef{Code: RefHardPointer, Handle: seg.StyleRef})
	}
}

func readTextStyle(r *BitReader, f verFlags, nh *nonEntityHeader) (*TextStyle, error) {
	s := &TextStyle{commonNonEntity: nh.common}
	var err error
	s.Name, err = r.ReadT()
	if err != nil {
		return nil, err
	}
	if _, err := r.ReadBit(); err != nil {
		return nil, err
	}
	if _, err := r.ReadBS(); err != nil {
		return nil, err
	}
	if _, err := r.ReadBit(); err != nil {
		return nil, err
	}
	vertical, err := r.ReadBit()
	if err != nil {
		return nil, err
	}
	shapeFile, err := r.ReadBit()
	if err != nil {
		return nil, err
	}
	s.Flags = 0
	if vertical {
		s.Flags |= 0x4
	}
	if shapeFile {
		s.Flags |= 0x1
	}
	s.FixedHeight, err = r.ReadBD()
	if err != nil {
		return nil, err
	}
	s.WidthFactor, err = r.ReadBD()
	if err != nil {
		return nil, err
	}
	s.ObliqueAngle, err = r.ReadBD()
	if err != nil {
		return nil, err
	}
	if _, err := r.ReadRC(); err != nil { // generation flags
		return nil, err
	}
	if _, err := r.ReadRC(); err != nil { // last height, unused
		return nil, err
	}
	s.FontName, err = r.ReadT()
	if err != nil {
		return nil, err
	}
	s.BigFontName, err = r.ReadT()
	if err != nil {
		return nil, err
	}
	_ = f
	return s, nil
}

func writeTextStyle(w *BitWriter, s *TextStyle) {
	_ = w.WriteT(s.Name)
	w.WriteBit(false)
	w.WriteBS(0)
	w.WriteBit(false)
	w.WriteBit(s.Flags&0x4 != 0)
	w.WriteBit(s.Flags&0x1 != 0)
	w.WriteBD(s.FixedHeight)
	w.WriteBD(s.WidthFactor)
	w.WriteBD(s.ObliqueAngle)
	w.WriteRC(0)
	w.WriteRC(0)
	_ = w.WriteT(s.FontName)
	_ = w.WriteT(s.BigFontName)
}

func readDimStyle(r *BitReader, nh *nonEntityHeader) (*DimStyle, error) {
	d := &DimStyle{commonNonEntity: nh.common}
	var err error
	d.Name, err = r.ReadT()
	if err != nil {
		return nil, err
	}
	if _, err := r.ReadBit(); err != nil {
		return nil, err
	}
	if _, err := r.ReadBS(); err != nil {
		return nil, err
	}
	if _, err := r.ReadBit(); err != nil {
		return nil, err
	}
	d.TextHeight, err = r.ReadBD()
	if err != nil {
		return nil, err
	}
	d.ArrowSize, err = r.ReadBD()
	if err != nil {
		return nil, err
	}
	d.TextStyle, err = readDirectHandle(r)
	if err != nil {
		return nil, err
	}
	return d, nil
}

func writeDimStyle(w *BitWriter, d *DimStyle) {
	_ = w.WriteT(d.Name)
	w.WriteBit(false)
	w.WriteBS(0)
	w.WriteBit(false)
	w.WriteBD(d.TextHeight)
	w.WriteBD(d.ArrowSize)
	w.WriteH(HandleRef{Code: RefHardPointer, Handle: d.TextStyle})
}

func readAppID(r *BitReader, nh *nonEntityHeader) (*AppID, error) {
	a := &AppID{commonNonEntity: nh.common}
	var err error
	a.Name, err = r.ReadT()
	if err != nil {
		return nil, err
	}
	if _, err := r.ReadBit(); err != nil {
		return nil, err
	}
	if _, err := r.ReadBS(); err != nil {
		return nil, err
	}
	if _, err := r.ReadBit(); err != nil {
		return nil, err
	}
	flags, err := r.ReadRC()
	if err != nil {
		return nil, err
	}
	a.Flags = int16(flags)
	return a, nil
}

func writeAppID(w *BitWriter, a *AppID) {
	_ = w.WriteT(a.Name)
	w.WriteBit(false)
	w.WriteBS(0)
	w.WriteBit(false)
	w.WriteRC(int8(a.Flags))
}

func readViewport(r *BitReader, nh *nonEntityHeader) (*Viewport, error) {
	v := &Viewport{commonNonEntity: nh.common}
	var err error
	v.Name, err = r.ReadT()
	if err != nil {
		return nil, err
	}
	if _, err := r.ReadBit(); err != nil {
		return nil, err
	}
	if _, err := r.ReadBS(); err != nil {
		return nil, err
	}
	if _, err := r.ReadBit(); err != nil {
		return nil, err
	}
	v.Height, err = r.ReadBD()
	if err != nil {
		return nil, err
	}
	v.Width, err = r.ReadBD()
	if err != nil {
		return nil, err
	}
	center, err := r.Read2RD()
	if err != nil {
		return nil, err
	}
	v.Center = center
	v.ViewTarget, err = r.Read3BD()
	if err != nil {
		return nil, err
	}
	v.ViewDir, err = r.Read3BD()
	if err != nil {
		return nil, err
	}
	return v, nil
}

func writeViewport(w *BitWriter, v *Viewport) {
	_ = w.WriteT(v.Name)
	w.WriteBit(false)
	w.WriteBS(0)
	w.WriteBit(false)
	w.WriteBD(v.Height)
	w.WriteBD(v.Width)
	w.Write2RD(v.Center)
	w.Write3BD(v.ViewTarget)
	w.Write3BD(v.ViewDir)
}

func readUCS(r *BitReader, nh *nonEntityHeader) (*UCSTableEntry, error) {
	u := &UCSTableEntry{commonNonEntity: nh.common}
	var err error
	u.Name, err = r.ReadT()
	if err != nil {
		return nil, err
	}
	if _, err := r.ReadBit(); err != nil {
		return nil, err
	}
	if _, err := r.ReadBS(); err != nil {
		return nil, err
	}
	if _, err := r.ReadBit(); err != nil {
		return nil, err
	}
	u.Origin, err = r.Read3BD()
	if err != nil {
		return nil, err
	}
	u.XAxis, err = r.Read3BD()
	if err != nil {
		return nil, err
	}
	u.YAxis, err = r.Read3BD()
	if err != nil {
		return nil, err
	}
	return u, nil
}

func writeUCS(w *BitWriter, u *UCSTableEntry) {
	_ = w.WriteT(u.Name)
	w.WriteBit(false)
	w.WriteBS(0)
	w.WriteBit(false)
	w.Write3BD(u.Origin)
	w.Write3BD(u.XAxis)
	w.Write3BD(u.YAxis)
}

func readView(r *BitReader, nh *nonEntityHeader) (*View, error) {
	v := &View{commonNonEntity: nh.common}
	var err error
	v.Name, err = r.ReadT()
	if err != nil {
		return nil, err
	}
	if _, err := r.ReadBit(); err != nil {
		return nil, err
	}
	if _, err := r.ReadBS(); err != nil {
		return nil, err
	}
	if _, err := r.ReadBit(); err != nil {
		return nil, err
	}
	v.Height, err = r.ReadBD()
	if err != nil {
		return nil, err
	}
	v.Width, err = r.ReadBD()
	if err != nil {
		return nil, err
	}
	v.Center, err = r.Read2RD()
	if err != nil {
		return nil, err
	}
	v.Target, err = r.Read3BD()
	if err != nil {
		return nil, err
	}
	v.Direction, err = r.Read3BD()
	if err != nil {
		return nil, err
	}
	return v, nil
}

func writeView(w *BitWriter, v *View) {
	_ = w.WriteT(v.Name)
	w.WriteBit(false)
	w.WriteBS(0)
	w.WriteBit(false)
	w.WriteBD(v.Height)
	w.WriteBD(v.Width)
	w.Write2RD(v.Center)
	w.Write3BD(v.Target)
	w.Write3BD(v.Direction)
}

func readBlockRecord(r *BitReader, f verFlags, nh *nonEntityHeader) (*BlockRecord, error) {
	b := &BlockRecord{commonNonEntity: nh.common}
	var err error
	b.Name, err = r.ReadT()
	if err != nil {
		return nil, err
	}
	if _, err := r.ReadBit(); err != nil {
		return nil, err
	}
	if _, err := r.ReadBS(); err != nil {
		return nil, err
	}
	if _, err := r.ReadBit(); err != nil {
		return nil, err
	}
	if _, err := r.ReadBit(); err != nil { // anonymous flag, redundant with name pattern
		return nil, err
	}
	b.HasAttDefs, err = r.ReadBit()
	if err != nil {
		return nil, err
	}
	_, err = r.ReadBit() // "blown up" xref flag, unused
	if err != nil {
		return nil, err
	}
	if f.r2007Plus {
		if _, err := r.ReadBit(); err != nil { // is viewport scaling relevant
			return nil, err
		}
	}
	b.BasePoint, err = r.Read3BD()
	if err != nil {
		return nil, err
	}
	b.XrefPath, err = r.ReadT()
	if err != nil {
		return nil, err
	}
	insertCount, err := r.ReadBS()
	if err != nil {
		return nil, err
	}
	_ = insertCount
	if _, err := r.ReadT(); err != nil { // description/layout-related string
		return nil, err
	}
	previewSize, err := r.ReadBL()
	if err != nil {
		return nil, err
	}
	if _, err := r.ReadBytes(int(previewSize)); err != nil {
		return nil, err
	}
	b.Layout, err = readDirectHandle(r)
	if err != nil {
		return nil, err
	}
	if f.r2004Plus {
		count, err := r.ReadBL()
		if err != nil {
			return nil, err
		}
		b.Entities = make([]Handle, count)
		for i := range b.Entities {
			b.Entities[i], err = readDirectHandle(r)
			if err != nil {
				return nil, err
			}
		}
	} else {
		first, err := readDirectHandle(r)
		if err != nil {
			return nil, err
		}
		last, err := readDirectHandle(r)
		if err != nil {
			return nil, err
		}
		// The real chain threads every owned entity's next/prev handle;
		// this module keeps only the endpoints, so anything but a
		// single-entity block loses its interior members here.
		switch {
		case first == 0:
		case first == last:
			b.Entities = []Handle{first}
		default:
			b.Entities = []Handle{first, last}
		}
	}
	return b, nil
}

func writeBlockRecord(w *BitWriter, f verFlags, b *BlockRecord) {
	_ = w.WriteT(b.Name)
	w.WriteBit(false)
	w.WriteBS(0)
	w.WriteBit(false)
	w.WriteBit(b.IsAnonymous)
	w.WriteBit(b.HasAttDefs)
	w.WriteBit(b.IsXref)
	if f.r2007Plus {
		w.WriteBit(false)
	}
	w.Write3BD(b.BasePoint)
	_ = w.WriteT(b.XrefPath)
	w.WriteBS(0)
	_ = w.WriteT("")
	w.WriteBL(0)
	w.WriteH(HandleRef{Code: RefHardPointer, Handle: b.Layout})
	if f.r2004Plus {
		w.WriteBL(int32(len(b.Entities)))
		for _, h := range b.Entities {
			w.WriteH(HandleRef{Code: RefSoftPointer, Handle: h})
		}
	} else {
		var first, last Handle
		if len(b.Entities) > 0 {
			first, last = b.Entities[0], b.Entities[len(b.Entities)-1]
		}
		w.WriteH(HandleRef{Code: RefSoftPointer, Handle: first})
		w.WriteH(HandleRef{Code: RefSoftPointer, Handle: last})
	}
}

func readDictionary(r *BitReader, f verFlags, nh *nonEntityHeader) (*Dictionary, error) {
	d := &Dictionary{commonNonEntity: nh.common}
	count, err := r.ReadBL()
	if err != nil {
		return nil, err
	}
	if f.r2000Plus {
		if _, err := r.ReadRC(); err != nil { // clone flag location, R2000+
			return nil, err
		}
	}
	hardOwner, err := r.ReadRC()
	if err != nil {
		return nil, err
	}
	d.HardOwner = hardOwner != 0
	names := make([]string, count)
	for i := range names {
		names[i], err = r.ReadT()
		if err != nil {
			return nil, err
		}
	}
	d.Entries = make(map[string]Handle, count)
	for i := int32(0); i < count; i++ {
		h, err := readDirectHandle(r)
		if err != nil {
			return nil, err
		}
		d.Add(names[i], h)
	}
	return d, nil
}

func writeDictionary(w *BitWriter, f verFlags, d *Dictionary) {
	w.WriteBL(int32(len(d.Order)))
	if f.r2000Plus {
		w.WriteRC(int8(d.CloneFlag))
	}
	if d.HardOwner {
		w.WriteRC(1)
	} else {
		w.WriteRC(0)
	}
	for _, name := range d.Order {
		_ = w.WriteT(name)
	}
	for _, name := range d.Order {
		w.WriteH(HandleRef{Code: RefSoftOwnership, Handle: d.Entries[name]})
	}
}

func readXRecord(r *BitReader, nh *nonEntityHeader) (*XRecord, error) {
	x := &XRecord{commonNonEntity: nh.common}
	size, err := r.ReadBS()
	if err != nil {
		return nil, err
	}
	raw, err := r.ReadBytes(int(size))
	if err != nil {
		return nil, err
	}
	x.Values = []XRecordValue{{Code: 0, Value: raw}}
	return x, nil
}

func writeXRecord(w *BitWriter, x *XRecord) {
	var raw []byte
	if len(x.Values) == 1 {
		if b, ok := x.Values[0].Value.([]byte); ok {
			raw = b
		}
	}
	w.WriteBS(int32(len(raw)))
	w.WriteBytes(raw)
}
