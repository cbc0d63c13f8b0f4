// Copyright 2024 The dwg authors. All rights reserved.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package dwg

// Per-type entity readers/writers, §4.5's representative schemas. Each
// function assumes the common entity header has already been read (by
// readCommonEntityHeader) and decodes only the type-specific tail.

func readLine(r *BitReader, f verFlags, eh *entityHeader) (*Line, error) {
	l := &Line{commonEntity: eh.common}
	var err error
	if f.r2000Plus {
		zIsZero, err := r.ReadBit()
		if err != nil {
			return nil, err
		}
		x1, err := r.ReadRD()
		if err != nil {
			return nil, err
		}
		y1, err := r.ReadDD(x1)
		if err != nil {
			return nil, err
		}
		var z1 float64
		if !zIsZero {
			z1, err = r.ReadDD(0)
			if err != nil {
				return nil, err
			}
		}
		x2, err := r.ReadDD(x1)
		if err != nil {
			return nil, err
		}
		y2, err := r.ReadDD(y1)
		if err != nil {
			return nil, err
		}
		var z2 float64
		if !zIsZero {
			z2, err = r.ReadDD(z1)
			if err != nil {
				return nil, err
			}
		}
		l.Start = Vector3{X: x1, Y: y1, Z: z1}
		l.End = Vector3{X: x2, Y: y2, Z: z2}
	} else {
		l.Start, err = r.Read3BD()
		if err != nil {
			return nil, err
		}
		l.End, err = r.Read3BD()
		if err != nil {
			return nil, err
		}
	}
	l.Thickness, err = r.ReadBT(f.r2000Plus)
	if err != nil {
		return nil, err
	}
	l.Extrusion, err = r.ReadBE(f.r2000Plus)
	if err != nil {
		return nil, err
	}
	return l, nil
}

func writeLine(w *BitWriter, f verFlags, l *Line) {
	if f.r2000Plus {
		zIsZero := l.Start.Z == 0 && l.End.Z == 0
		w.WriteBit(zIsZero)
		w.WriteRD(l.Start.X)
		w.WriteDD(l.Start.X, l.Start.Y)
		if !zIsZero {
			w.WriteDD(0, l.Start.Z)
		}
		w.WriteDD(l.Start.X, l.End.X)
		w.WriteDD(l.Start.Y, l.End.Y)
		if !zIsZero {
			w.WriteDD(l.Start.Z, l.End.Z)
		}
	} else {
		w.Write3BD(l.Start)
		w.Write3BD(l.End)
	}
	w.WriteBT(l.Thickness, f.r2000Plus)
	w.WriteBE(l.Extrusion, f.r2000Plus)
}

func readCircle(r *BitReader, f verFlags, eh *entityHeader) (*Circle, error) {
	c := &Circle{commonEntity: eh.common}
	var err error
	c.Center, err = r.Read3BD()
	if err != nil {
		return nil, err
	}
	c.Radius, err = r.ReadBD()
	if err != nil {
		return nil, err
	}
	c.Thickness, err = r.ReadBT(f.r2000Plus)
	if err != nil {
		return nil, err
	}
	c.Extrusion, err = r.ReadBE(f.r2000Plus)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func writeCircle(w *BitWriter, f verFlags, c *Circle) {
	w.Write3BD(c.Center)
	w.WriteBD(c.Radius)
	w.WriteBT(c.Thickness, f.r2000Plus)
	w.WriteBE(c.Extrusion, f.r2000Plus)
}

func readArc(r *BitReader, f verFlags, eh *entityHeader) (*Arc, error) {
	a := &Arc{commonEntity: eh.common}
	var err error
	a.Center, err = r.Read3BD()
	if err != nil {
		return nil, err
	}
	a.Radius, err = r.ReadBD()
	if err != nil {
		return nil, err
	}
	a.Thickness, err = r.ReadBT(f.r2000Plus)
	if err != nil {
		return nil, err
	}
	a.Extrusion, err = r.ReadBE(f.r2000Plus)
	if err != nil {
		return nil, err
	}
	a.StartAngle, err = r.ReadBD()
	if err != nil {
		return nil, err
	}
	a.EndAngle, err = r.ReadBD()
	if err != nil {
		return nil, err
	}
	return a, nil
}

func writeArc(w *BitWriter, f verFlags, a *Arc) {
	w.Write3BD(a.Center)
	w.WriteBD(a.Radius)
	w.WriteBT(a.Thickness, f.r2000Plus)
	w.WriteBE(a.Extrusion, f.r2000Plus)
	w.WriteBD(a.StartAngle)
	w.WriteBD(a.EndAngle)
}

func readText(r *BitReader, f verFlags, eh *entityHeader) (*Text, error) {
	t := &Text{commonEntity: eh.common}
	var err error
	if f.r1315Only {
		t.Elevation, err = r.ReadBD()
		if err != nil {
			return nil, err
		}
	}
	t.Insertion, err = r.Read2RD()
	if err != nil {
		return nil, err
	}
	if !f.r1315Only {
		t.Elevation, err = r.ReadBD()
		if err != nil {
			return nil, err
		}
	}
	t.Alignment, err = r.Read2DD(t.Insertion)
	if err != nil {
		return nil, err
	}
	t.Extrusion, err = r.ReadBE(f.r2000Plus)
	if err != nil {
		return nil, err
	}
	t.Thickness, err = r.ReadBT(f.r2000Plus)
	if err != nil {
		return nil, err
	}
	t.Oblique, err = r.ReadBD()
	if err != nil {
		return nil, err
	}
	t.Rotation, err = r.ReadBD()
	if err != nil {
		return nil, err
	}
	t.Height, err = r.ReadBD()
	if err != nil {
		return nil, err
	}
	t.WidthFactor, err = r.ReadBD()
	if err != nil {
		return nil, err
	}
	t.Value, err = r.ReadT()
	if err != nil {
		return nil, err
	}
	gen, err := r.ReadBS()
	if err != nil {
		return nil, err
	}
	t.Generation = int16(gen)
	hAlign, err := r.ReadBS()
	if err != nil {
		return nil, err
	}
	t.HAlign = int16(hAlign)
	vAlign, err := r.ReadBS()
	if err != nil {
		return nil, err
	}
	t.VAlign = int16(vAlign)
	return t, nil
}

func writeText(w *BitWriter, f verFlags, t *Text) {
	if f.r1315Only {
		w.WriteBD(t.Elevation)
	}
	w.Write2RD(t.Insertion)
	if !f.r1315Only {
		w.WriteBD(t.Elevation)
	}
	w.Write2DD(t.Alignment, t.Insertion)
	w.WriteBE(t.Extrusion, f.r2000Plus)
	w.WriteBT(t.Thickness, f.r2000Plus)
	w.WriteBD(t.Oblique)
	w.WriteBD(t.Rotation)
	w.WriteBD(t.Height)
	w.WriteBD(t.WidthFactor)
	_ = w.WriteT(t.Value)
	w.WriteBS(int32(t.Generation))
	w.WriteBS(int32(t.HAlign))
	w.WriteBS(int32(t.VAlign))
}

func readLWPolyline(r *BitReader, f verFlags, eh *entityHeader) (*LWPolyline, error) {
	p := &LWPolyline{commonEntity: eh.common}

	flags, err := r.ReadBS()
	if err != nil {
		return nil, err
	}
	p.Closed = flags&0x200 != 0
	hasWidths := flags&0x4 != 0
	hasBulges := flags&0x10 != 0
	hasConstWidth := flags&0x8 != 0
	hasElevation := flags&0x2 != 0
	hasThickness := flags&0x1 != 0

	if hasConstWidth {
		p.ConstantWidth, err = r.ReadBD()
		if err != nil {
			return nil, err
		}
	}
	if hasElevation {
		p.Elevation, err = r.ReadBD()
		if err != nil {
			return nil, err
		}
	}
	if hasThickness {
		p.Thickness, err = r.ReadBD()
		if err != nil {
			return nil, err
		}
	}
	p.Extrusion, err = r.ReadBE(true)
	if err != nil {
		return nil, err
	}

	count, err := r.ReadBL()
	if err != nil {
		return nil, err
	}
	bulgeCount := int32(0)
	if hasBulges {
		bulgeCount, err = r.ReadBL()
		if err != nil {
			return nil, err
		}
	}
	widthCount := int32(0)
	if hasWidths {
		widthCount, err = r.ReadBL()
		if err != nil {
			return nil, err
		}
	}

	p.Vertices = make([]LWPolylineVertex, count)
	var prev Vector3
	for i := int32(0); i < count; i++ {
		pt, err := r.Read2DD(prev)
		if err != nil {
			return nil, err
		}
		p.Vertices[i].Point = pt
		prev = pt
	}
	for i := int32(0); i < bulgeCount && i < count; i++ {
		b, err := r.ReadBD()
		if err != nil {
			return nil, err
		}
		p.Vertices[i].Bulge = b
	}
	for i := int32(0); i < widthCount && i < count; i++ {
		sw, err := r.ReadBD()
		if err != nil {
			return nil, err
		}
		ew, err := r.ReadBD()
		if err != nil {
			return nil, err
		}
		p.Vertices[i].StartW = sw
		p.Vertices[i].EndW = ew
	}
	return p, nil
}

func writeLWPolyline(w *BitWriter, p *LWPolyline) {
	hasWidths, hasBulges, hasConstWidth := false, false, p.ConstantWidth != 0
	for _, v := range p.Vertices {
		if v.Bulge != 0 {
			hasBulges = true
		}
		if v.StartW != 0 || v.EndW != 0 {
			hasWidths = true
		}
	}
	var flags int32
	if p.Closed {
		flags |= 0x200
	}
	if hasWidths {
		flags |= 0x4
	}
	if hasBulges {
		flags |= 0x10
	}
	if hasConstWidth {
		flags |= 0x8
	}
	if p.Elevation != 0 {
		flags |= 0x2
	}
	if p.Thickness != 0 {
		flags |= 0x1
	}
	w.WriteBS(flags)
	if hasConstWidth {
		w.WriteBD(p.ConstantWidth)
	}
	if p.Elevation != 0 {
		w.WriteBD(p.Elevation)
	}
	if p.Thickness != 0 {
		w.WriteBD(p.Thickness)
	}
	w.WriteBE(p.Extrusion, true)
	w.WriteBL(int32(len(p.Vertices)))
	if hasBulges {
		w.WriteBL(int32(len(p.Vertices)))
	}
	if hasWidths {
		w.WriteBL(int32(len(p.Vertices)))
	}
	var prev Vector3
	for _, v := range p.Vertices {
		w.Write2DD(v.Point, prev)
		prev = v.Point
	}
	if hasBulges {
		for _, v := range p.Vertices {
			w.WriteBD(v.Bulge)
		}
	}
	if hasWidths {
		for _, v := range p.Vertices {
			w.WriteBD(v.StartW)
			w.WriteBD(v.EndW)
		}
	}
}

func readInsert(r *BitReader, f verFlags, eh *entityHeader) (*Insert, error) {
	i := &Insert{commonEntity: eh.common}
	var err error
	i.Insertion, err = r.Read3BD()
	if err != nil {
		return nil, err
	}
	if f.r2000Plus {
		flag, err := r.ReadBit()
		if err != nil {
			return nil, err
		}
		if flag {
			i.Scale = Vector3{X: 1, Y: 1, Z: 1}
		} else {
			i.Scale.X, err = r.ReadBD()
			if err != nil {
				return nil, err
			}
			i.Scale.Y, err = r.ReadDD(i.Scale.X)
			if err != nil {
				return nil, err
			}
			i.Scale.Z, err = r.ReadDD(i.Scale.X)
			if err != nil {
				return nil, err
			}
		}
	} else {
		i.Scale, err = r.Read3BD()
		if err != nil {
			return nil, err
		}
	}
	i.Rotation, err = r.ReadBD()
	if err != nil {
		return nil, err
	}
	i.Extrusion, err = r.ReadBE(f.r2000Plus)
	if err != nil {
		return nil, err
	}
	i.HasAttribs, err = r.ReadBit()
	if err != nil {
		return nil, err
	}
	if f.r2004Plus && i.HasAttribs {
		count, err := r.ReadBL()
		if err != nil {
			return nil, err
		}
		i.OwnedAttribs = make([]Handle, count)
	}
	i.BlockHeader, err = readDirectHandle(r)
	if err != nil {
		return nil, err
	}
	if i.HasAttribs {
		if !f.r2004Plus {
			first, err := readDirectHandle(r)
			if err != nil {
				return nil, err
			}
			last, err := readDirectHandle(r)
			if err != nil {
				return nil, err
			}
			i.FirstAttrib, i.LastAttrib = first, last
		} else {
			for n := range i.OwnedAttribs {
				h, err := readDirectHandle(r)
				if err != nil {
					return nil, err
				}
				i.OwnedAttribs[n] = h
			}
		}
		i.Seqend, err = readDirectHandle(r)
		if err != nil {
			return nil, err
		}
	}
	return i, nil
}

// readDirectHandle reads a handle reference and returns its raw handle
// value; owned-entity lists in INSERT/POLYLINE/BLOCK_HEADER are always
// absolute soft pointers, never anchor-relative (§3).
func readDirectHandle(r *BitReader) (Handle, error) {
	ref, err := r.ReadH()
	if err != nil {
		return 0, err
	}
	return ref.Handle, nil
}

func writeInsert(w *BitWriter, f verFlags, i *Insert) {
	w.Write3BD(i.Insertion)
	if f.r2000Plus {
		uniform := i.Scale == Vector3{X: 1, Y: 1, Z: 1}
		w.WriteBit(uniform)
		if !uniform {
			w.WriteBD(i.Scale.X)
			w.WriteDD(i.Scale.X, i.Scale.Y)
			w.WriteDD(i.Scale.X, i.Scale.Z)
		}
	} else {
		w.Write3BD(i.Scale)
	}
	w.WriteBD(i.Rotation)
	w.WriteBE(i.Extrusion, f.r2000Plus)
	w.WriteBit(i.HasAttribs)
	if f.r2004Plus && i.HasAttribs {
		w.WriteBL(int32(len(i.OwnedAttribs)))
	}
	w.WriteH(HandleRef{Code: RefSoftPointer, Handle: i.BlockHeader})
	if i.HasAttribs {
		if !f.r2004Plus {
			w.WriteH(HandleRef{Code: RefSoftPointer, Handle: i.FirstAttrib})
			w.WriteH(HandleRef{Code: RefSoftPointer, Handle: i.LastAttrib})
		} else {
			for _, h := range i.OwnedAttribs {
				w.WriteH(HandleRef{Code: RefSoftPointer, Handle: h})
			}
		}
		w.WriteH(HandleRef{Code: RefSoftPointer, Handle: i.Seqend})
	}
}

func readSeqend(eh *entityHeader) *Seqend {
	return &Seqend{commonEntity: eh.common}
}

func readSpline(r *BitReader, eh *entityHeader) (*Spline, error) {
	s := &Spline{commonEntity: eh.common}
	scenario, err := r.ReadBS()
	if err != nil {
		return nil, err
	}
	s.Scenario = SplineScenario(scenario)
	degree, err := r.ReadBS()
	if err != nil {
		return nil, err
	}
	s.Degree = int32(degree)
	if s.Scenario == SplineControlPoints {
		s.Rational, err = r.ReadBit()
		if err != nil {
			return nil, err
		}
	}
	s.Closed, err = r.ReadBit()
	if err != nil {
		return nil, err
	}
	s.Periodic, err = r.ReadBit()
	if err != nil {
		return nil, err
	}
	if _, err := r.ReadBD(); err != nil { // knot tolerance
		return nil, err
	}
	if _, err := r.ReadBD(); err != nil { // control-point tolerance
		return nil, err
	}

	knotCount, err := r.ReadBL()
	if err != nil {
		return nil, err
	}
	ctrlCount, err := r.ReadBL()
	if err != nil {
		return nil, err
	}
	var fitCount int32
	if s.Scenario == SplineFitPoints {
		fitCount, err = r.ReadBL()
		if err != nil {
			return nil, err
		}
		s.StartTangent, err = r.Read3BD()
		if err != nil {
			return nil, err
		}
		s.EndTangent, err = r.Read3BD()
		if err != nil {
			return nil, err
		}
	}

	s.Knots = make([]float64, knotCount)
	for i := range s.Knots {
		s.Knots[i], err = r.ReadBD()
		if err != nil {
			return nil, err
		}
	}
	s.Control = make([]Vector3, ctrlCount)
	if s.Rational {
		s.Weights = make([]float64, ctrlCount)
	}
	for i := range s.Control {
		s.Control[i], err = r.Read3BD()
		if err != nil {
			return nil, err
		}
		if s.Rational {
			s.Weights[i], err = r.ReadBD()
			if err != nil {
				return nil, err
			}
		}
	}
	s.Fit = make([]Vector3, fitCount)
	for i := range s.Fit {
		s.Fit[i], err = r.Read3BD()
		if err != nil {
			return nil, err
		}
	}
	return s, nil
}

func writeSpline(w *BitWriter, s *Spline) {
	w.WriteBS(int32(s.Scenario))
	w.WriteBS(int32(s.Degree))
	if s.Scenario == SplineControlPoints {
		w.WriteBit(s.Rational)
	}
	w.WriteBit(s.Closed)
	w.WriteBit(s.Periodic)
	w.WriteBD(0) // knot tolerance
	w.WriteBD(0) // control-point tolerance
	w.WriteBL(int32(len(s.Knots)))
	w.WriteBL(int32(len(s.Control)))
	if s.Scenario == SplineFitPoints {
		w.WriteBL(int32(len(s.Fit)))
		w.Write3BD(s.StartTangent)
		w.Write3BD(s.EndTangent)
	}
	for _, k := range s.Knots {
		w.WriteBD(k)
	}
	for i, c := range s.Control {
		w.Write3BD(c)
		if s.Rational {
			w.WriteBD(s.Weights[i])
		}
	}
	for _, p := range s.Fit {
		w.Write3BD(p)
	}
}
