// Copyright 2024 The dwg authors. All rights reserved.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package dwg

// Remaining representative-schema entity codecs (§4.5): 2D/3D POLYLINE
// and its owned VERTEX chain, and HATCH ("extremely version
// sensitive" per the spec, modeled here as a representative line/arc
// boundary subset rather than the full five-edge-kind grammar).

func readPolyline(r *BitReader, f verFlags, eh *entityHeader, is3D bool) (*Polyline, error) {
	p := &Polyline{commonEntity: eh.common, Is3D: is3D}
	var err error
	flags, err := r.ReadBS()
	if err != nil {
		return nil, err
	}
	p.Flags = int16(flags)
	curveType, err := r.ReadBS()
	if err != nil {
		return nil, err
	}
	_ = curveType
	p.StartWidth, err = r.ReadBD()
	if err != nil {
		return nil, err
	}
	p.EndWidth, err = r.ReadBD()
	if err != nil {
		return nil, err
	}
	p.Thickness, err = r.ReadBT(f.r2000Plus)
	if err != nil {
		return nil, err
	}
	p.Elevation, err = r.ReadBD()
	if err != nil {
		return nil, err
	}
	p.Extrusion, err = r.ReadBE(f.r2000Plus)
	if err != nil {
		return nil, err
	}
	if f.r2004Plus {
		count, err := r.ReadBL()
		if err != nil {
			return nil, err
		}
		p.Vertices = make([]Handle, count)
		for i := range p.Vertices {
			p.Vertices[i], err = readDirectHandle(r)
			if err != nil {
				return nil, err
			}
		}
	} else {
		p.First, err = readDirectHandle(r)
		if err != nil {
			return nil, err
		}
		p.Last, err = readDirectHandle(r)
		if err != nil {
			return nil, err
		}
	}
	p.Seqend, err = readDirectHandle(r)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func writePolyline(w *BitWriter, f verFlags, p *Polyline) {
	w.WriteBS(int32(p.Flags))
	w.WriteBS(0) // curve/smooth surface type
	w.WriteBD(p.StartWidth)
	w.WriteBD(p.EndWidth)
	w.WriteBT(p.Thickness, f.r2000Plus)
	w.WriteBD(p.Elevation)
	w.WriteBE(p.Extrusion, f.r2000Plus)
	if f.r2004Plus {
		w.WriteBL(int32(len(p.Vertices)))
		for _, h := range p.Vertices {
			w.WriteH(HandleRef{Code: RefSoftPointer, Handle: h})
		}
	} else {
		w.WriteH(HandleRef{Code: RefSoftPointer, Handle: p.First})
		w.WriteH(HandleRef{Code: RefSoftPointer, Handle: p.Last})
	}
	w.WriteH(HandleRef{Code: RefSoftPointer, Handle: p.Seqend})
}

func readPolylineVertex(r *BitReader, eh *entityHeader) (*PolylineVertex, error) {
	v := &PolylineVertex{commonEntity: eh.common}
	var err error
	flags, err := r.ReadRC()
	if err != nil {
		return nil, err
	}
	v.VertexFlags = int16(flags)
	v.Point, err = r.Read3BD()
	if err != nil {
		return nil, err
	}
	v.StartWidth, err = r.ReadBD()
	if err != nil {
		return nil, err
	}
	v.EndWidth = v.StartWidth
	v.Bulge, err = r.ReadBD()
	if err != nil {
		return nil, err
	}
	return v, nil
}

func writePolylineVertex(w *BitWriter, v *PolylineVertex) {
	w.WriteRC(int8(v.VertexFlags))
	w.Write3BD(v.Point)
	w.WriteBD(v.StartWidth)
	w.WriteBD(v.Bulge)
}

func readHatch(r *BitReader, eh *entityHeader) (*Hatch, error) {
	h := &Hatch{commonEntity: eh.common}
	var err error
	h.Elevation, err = r.ReadBD() // z-coordinate of the hatch plane, §4.5
	if err != nil {
		return nil, err
	}
	h.Extrusion, err = r.Read3BD()
	if err != nil {
		return nil, err
	}
	h.Name, err = r.ReadT()
	if err != nil {
		return nil, err
	}
	h.Solid, err = r.ReadBit()
	if err != nil {
		return nil, err
	}
	h.Associative, err = r.ReadBit()
	if err != nil {
		return nil, err
	}

	pathCount, err := r.ReadBL()
	if err != nil {
		return nil, err
	}
	h.Paths = make([]HatchBoundaryPath, pathCount)
	for i := range h.Paths {
		path := &h.Paths[i]
		flags, err := r.ReadBL()
		if err != nil {
			return nil, err
		}
		path.Flags = flags
		edgeCount, err := r.ReadBL()
		if err != nil {
			return nil, err
		}
		path.Edges = make([]HatchBoundaryEdge, edgeCount)
		for j := range path.Edges {
			e := &path.Edges[j]
			kind, err := r.ReadRC()
			if err != nil {
				return nil, err
			}
			e.Kind = kind
			switch kind {
			case 1:
				e.Start, err = r.Read2RD()
				if err != nil {
					return nil, err
				}
				e.End, err = r.Read2RD()
				if err != nil {
					return nil, err
				}
			case 2:
				e.Center, err = r.Read2RD()
				if err != nil {
					return nil, err
				}
				e.Radius, err = r.ReadBD()
				if err != nil {
					return nil, err
				}
				e.StartAngle, err = r.ReadBD()
				if err != nil {
					return nil, err
				}
				e.EndAngle, err = r.ReadBD()
				if err != nil {
					return nil, err
				}
				e.CCW, err = r.ReadBit()
				if err != nil {
					return nil, err
				}
			default:
				return nil, &ParseError{Handle: h.Handle, Context: "hatch boundary edge", Err: ErrBadOpcode}
			}
		}
		assocCount, err := r.ReadBL()
		if err != nil {
			return nil, err
		}
		for k := int32(0); k < assocCount; k++ {
			if _, err := r.ReadH(); err != nil {
				return nil, err
			}
		}
	}

	hatchStyle, err := r.ReadBS()
	if err != nil {
		return nil, err
	}
	h.HatchStyle = int16(hatchStyle)
	patternType, err := r.ReadBS()
	if err != nil {
		return nil, err
	}
	h.PatternType = int16(patternType)

	if !h.Solid {
		h.Angle, err = r.ReadBD()
		if err != nil {
			return nil, err
		}
		h.Scale, err = r.ReadBD()
		if err != nil {
			return nil, err
		}
		h.DoubleHatch, err = r.ReadBit()
		if err != nil {
			return nil, err
		}
		lineCount, err := r.ReadBS()
		if err != nil {
			return nil, err
		}
		h.PatternLines = make([]HatchLine, lineCount)
		for i := range h.PatternLines {
			pl := &h.PatternLines[i]
			pl.Angle, err = r.ReadBD()
			if err != nil {
				return nil, err
			}
			pl.Origin0, err = r.ReadBD()
			if err != nil {
				return nil, err
			}
			pl.Origin1, err = r.ReadBD()
			if err != nil {
				return nil, err
			}
			pl.Offset0, err = r.ReadBD()
			if err != nil {
				return nil, err
			}
			pl.Offset1, err = r.ReadBD()
			if err != nil {
				return nil, err
			}
			dashCount, err := r.ReadBS()
			if err != nil {
				return nil, err
			}
			pl.DashLengths = make([]float64, dashCount)
			for j := range pl.DashLengths {
				pl.DashLengths[j], err = r.ReadBD()
				if err != nil {
					return nil, err
				}
			}
		}
	}

	h.HasGradient, err = r.ReadBit()
	if err != nil {
		return nil, err
	}
	if h.HasGradient {
		h.GradientColor1, _, err = r.ReadENC()
		if err != nil {
			return nil, err
		}
		h.GradientColor2, _, err = r.ReadENC()
		if err != nil {
			return nil, err
		}
		h.GradientAngle, err = r.ReadBD()
		if err != nil {
			return nil, err
		}
		h.GradientShift, err = r.ReadBD()
		if err != nil {
			return nil, err
		}
	}

	seedCount, err := r.ReadBL()
	if err != nil {
		return nil, err
	}
	h.SeedPoints = make([]Vector3, seedCount)
	for i := range h.SeedPoints {
		h.SeedPoints[i], err = r.Read3BD()
		if err != nil {
			return nil, err
		}
	}

	return h, nil
}

func writeHatch(w *BitWriter, h *Hatch) {
	w.WriteBD(h.Elevation)
	w.Write3BD(h.Extrusion)
	_ = w.WriteT(h.Name)
	w.WriteBit(h.Solid)
	w.WriteBit(h.Associative)

	w.WriteBL(int32(len(h.Paths)))
	for _, path := range h.Paths {
		w.WriteBL(path.Flags)
		w.WriteBL(int32(len(path.Edges)))
		for _, e := range path.Edges {
			w.WriteRC(e.Kind)
			switch e.Kind {
			case 1:
				w.Write2RD(e.Start)
				w.Write2RD(e.End)
			case 2:
				w.Write2RD(e.Center)
				w.WriteBD(e.Radius)
				w.WriteBD(e.StartAngle)
				w.WriteBD(e.EndAngle)
				w.WriteBit(e.CCW)
			}
		}
		w.WriteBL(0) // associated-entity handle count
	}

	w.WriteBS(int32(h.HatchStyle))
	w.WriteBS(int32(h.PatternType))

	if !h.Solid {
		w.WriteBD(h.Angle)
		w.WriteBD(h.Scale)
		w.WriteBit(h.DoubleHatch)
		w.WriteBS(int32(len(h.PatternLines)))
		for _, pl := range h.PatternLines {
			w.WriteBD(pl.Angle)
			w.WriteBD(pl.Origin0)
			w.WriteBD(pl.Origin1)
			w.WriteBD(pl.Offset0)
			w.WriteBD(pl.Offset1)
			w.WriteBS(int32(len(pl.DashLengths)))
			for _, d := range pl.DashLengths {
				w.WriteBD(d)
			}
		}
	}

	w.WriteBit(h.HasGradient)
	if h.HasGradient {
		_ = w.WriteENC(h.GradientColor1, 0)
		_ = w.WriteENC(h.GradientColor2, 0)
		w.WriteBD(h.GradientAngle)
		w.WriteBD(h.GradientShift)
	}

	w.WriteBL(int32(len(h.SeedPoints)))
	for _, p := range h.SeedPoints {
		w.Write3BD(p)
	}
}
