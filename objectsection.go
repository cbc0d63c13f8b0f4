// Copyright 2024 The dwg authors. All rights reserved.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package dwg

// This file drives the object codec (object_codec.go) over a decoded
// AcDb:AcDbObjects section plaintext, given the (handle, offset) pairs
// recovered from the Handles (object map) section (§4.4, §4.5).
//
// The spec's traversal algorithm is FIFO-driven, scheduling only the
// handles reachable from the header's seed set and newly discovered
// references. This module instead decodes every (handle, offset) pair
// the object map names directly: the object map already enumerates
// every object in the file, so eager decoding produces the same
// populated arena the FIFO walk would converge to, without needing
// each per-type reader to additionally report a discovered-handles
// list back to a scheduler. See DESIGN.md for the tradeoff.

// objectMapEntry is one (handle, byte offset) pair recovered from the
// Handles section.
type objectMapEntry struct {
	Handle Handle
	Offset int
}

// decodeObjectsSection parses every entry of entries out of section
// (the decompressed AcDb:AcDbObjects plaintext) and returns the
// resulting object arena. In failsafe mode a per-object error is
// downgraded to a warning and the object is skipped; otherwise the
// first error aborts the whole section.
func decodeObjectsSection(section []byte, entries []objectMapEntry, f verFlags, classes *ClassTable, failsafe bool) (map[Handle]Object, []Warning, error) {
	objects := make(map[Handle]Object, len(entries))
	var warnings []Warning

	for _, e := range entries {
		if e.Offset < 0 || e.Offset >= len(section) {
			w := Warning{Handle: e.Handle, Kind: "bad-object-offset", Message: "object map offset outside section bounds"}
			if !failsafe {
				return nil, nil, &ParseError{Handle: e.Handle, Context: "object offset", Err: ErrOutsideBoundary}
			}
			warnings = append(warnings, w)
			continue
		}

		obj, warning, err := decodeOneObject(section[e.Offset:], f, classes, failsafe)
		if err != nil {
			if !failsafe {
				return nil, nil, err
			}
			warnings = append(warnings, Warning{Handle: e.Handle, Kind: "object-decode-error", Message: err.Error()})
			continue
		}
		if warning != nil {
			warning.Handle = e.Handle
			warnings = append(warnings, *warning)
		}
		objects[e.Handle] = obj
	}

	return objects, warnings, nil
}

// decodeOneObject reads the MS size prefix (and, R2010+, the MC
// handle-stream-size) framing a single object body, then hands the
// body's own bit reader to readObject. The trailing CRC-8 (§4.2, §4.5)
// is checked against the body bytes; a mismatch aborts the object
// unless failsafe is set, in which case it is reported as a warning
// and the object is still decoded.
func decodeOneObject(buf []byte, f verFlags, classes *ClassTable, failsafe bool) (Object, *Warning, error) {
	prefixReader := NewBitReader(buf)
	size, err := prefixReader.ReadMS()
	if err != nil {
		return nil, nil, &ParseError{Context: "object MS size prefix", Err: err}
	}

	bodyStart := prefixReader.PositionInBits() / 8
	bodyEnd := bodyStart + int(size)
	if bodyEnd > len(buf) {
		return nil, nil, &ParseError{Context: "object body", Err: ErrOutsideBoundary}
	}
	body := buf[bodyStart:bodyEnd]

	var warning *Warning
	if bodyEnd+2 <= len(buf) {
		stored := uint16(buf[bodyEnd]) | uint16(buf[bodyEnd+1])<<8
		computed := CRC8(crc8Seed, body)
		if stored != computed {
			if !failsafe {
				return nil, nil, &CrcMismatchError{Section: "object", Expected: uint32(stored), Actual: uint32(computed)}
			}
			warning = &Warning{Kind: "object-crc-mismatch", Message: "object body failed its CRC-8 check"}
		}
	}

	r := NewBitReader(body)
	if f.r2010Plus {
		if _, err := r.ReadMC(); err != nil { // handle-substream bit offset, unused by this flattened decoder
			return nil, nil, &ParseError{Context: "handle substream size", Err: err}
		}
	}

	obj, err := readObject(r, f, classes)
	if err != nil {
		return nil, nil, err
	}
	return obj, warning, nil
}

// encodeObjectsSection is the write-direction counterpart: it encodes
// every object in document order, producing both the section plaintext
// and the object-map entries that describe it, consumed by the Handles
// section writer.
func encodeObjectsSection(objs []Object, f verFlags) ([]byte, []objectMapEntry, error) {
	var out []byte
	entries := make([]objectMapEntry, 0, len(objs))

	for _, o := range objs {
		body := NewBitWriter()
		if f.r2010Plus {
			body.WriteMC(0)
		}
		if err := writeObject(body, f, o); err != nil {
			return nil, nil, err
		}
		bodyBytes := body.Bytes()

		frame := NewBitWriter()
		frame.WriteMS(uint32(len(bodyBytes)))
		frame.WriteBytes(bodyBytes)
		frame.WriteRS(CRC8(crc8Seed, bodyBytes))

		entries = append(entries, objectMapEntry{Handle: o.ObjectHandle(), Offset: len(out)})
		out = append(out, frame.Bytes()...)
	}

	return out, entries, nil
}
