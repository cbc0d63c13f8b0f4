// Copyright 2024 The dwg authors. All rights reserved.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package dwg

import (
	"encoding/binary"
)

// This file implements §4.3 "File header / section layout" and §6's
// file surface: locating the preamble, decoding its locator/page/
// section maps, and handing back each named section's plaintext.
//
// The AC15 (flat) preamble layout below follows the original Rust
// implementation's DwgFileHeaderAC15 byte offsets. The AC18+ paged
// layout's page/section map record shapes are this module's own
// self-consistent design (ground truth for the real page-map wire
// format was not available in the retrieval pack — see DESIGN.md);
// what's guaranteed is that a page/section map written by
// writePagedSections round-trips through readPagedSections.

// ac15PreambleSize is the fixed size of the flat-layout preamble
// (§4.3: "a 0x61-byte preamble").
const ac15PreambleSize = 0x61

// sectionLocator is one entry of the AC15 locator table: which section
// number lives at what file offset and how long it is.
type sectionLocator struct {
	Number int32
	Offset uint32
	Length uint32
}

// ac15SectionOrder names the up-to-six sections the AC15 locator table
// indexes, in locator order (§4.3).
var ac15SectionOrder = []string{
	sectionHeader, sectionClasses, sectionHandles,
	sectionObjFreeSpace, sectionTemplate, sectionAuxHeader,
}

// parseAC15Preamble decodes the flat pre-R2004 preamble: version tag
// (already consumed by the caller), preview seeker, code page, record
// count, the locator table, a CRC-8, and the trailing sentinel.
func parseAC15Preamble(data []byte) ([]sectionLocator, codePageID, error) {
	if len(data) < ac15PreambleSize {
		return nil, 0, ErrTooSmall
	}
	_ = binary.LittleEndian // preamble fields below are manually offset, no further binary.* use

	previewAddr := binary.LittleEndian.Uint32(data[0x0D:])
	_ = previewAddr
	dwgVersion := data[0x11]
	_ = dwgVersion
	maintRelease := data[0x12]
	_ = maintRelease
	codePage := codePageID(binary.LittleEndian.Uint16(data[0x13:]))

	recordCount := int32(binary.LittleEndian.Uint32(data[0x15:]))
	locators := make([]sectionLocator, 0, recordCount)
	pos := 0x19
	for i := int32(0); i < recordCount && pos+9 <= len(data); i++ {
		num := int32(data[pos])
		off := binary.LittleEndian.Uint32(data[pos+1:])
		length := binary.LittleEndian.Uint32(data[pos+5:])
		locators = append(locators, sectionLocator{Number: num, Offset: off, Length: length})
		pos += 9
	}

	crcOffset := pos
	if crcOffset+2 > len(data) {
		return nil, 0, ErrTooSmall
	}
	expected := binary.LittleEndian.Uint16(data[crcOffset:])
	actual := CRC8(crc8Seed, data[:crcOffset])
	if expected != actual {
		return locators, codePage, &CrcMismatchError{Section: "file-header", Expected: uint32(expected), Actual: uint32(actual)}
	}

	sentinelStart := crcOffset + 2
	if sentinelStart+16 > len(data) {
		return locators, codePage, ErrTooSmall
	}
	var sentinel [16]byte
	copy(sentinel[:], data[sentinelStart:sentinelStart+16])
	if sentinel != fileHeaderEndSentinelAC15 {
		return locators, codePage, ErrSentinelMismatch
	}

	return locators, codePage, nil
}

// buildAC15Preamble assembles the flat preamble plus the following
// sections, writing locator offsets relative to the full output.
func buildAC15Preamble(sections map[string][]byte, codePage codePageID) []byte {
	order := ac15SectionOrder
	sectionBytes := make([][]byte, len(order))
	for i, name := range order {
		sectionBytes[i] = sections[name]
	}

	preamble := make([]byte, 0x19) // fixed fields before the locator table, filled below
	binary.LittleEndian.PutUint32(preamble[0x0D:], 0)
	preamble[0x11] = 0
	preamble[0x12] = 0
	binary.LittleEndian.PutUint16(preamble[0x13:], uint16(codePage))
	binary.LittleEndian.PutUint32(preamble[0x15:], uint32(len(order)))

	locatorTable := make([]byte, 0, len(order)*9)
	offset := uint32(ac15PreambleSize)
	for i, name := range order {
		_ = name
		entry := make([]byte, 9)
		entry[0] = byte(i)
		binary.LittleEndian.PutUint32(entry[1:], offset)
		binary.LittleEndian.PutUint32(entry[5:], uint32(len(sectionBytes[i])))
		locatorTable = append(locatorTable, entry...)
		offset += uint32(len(sectionBytes[i]))
	}

	prefix := append(preamble, locatorTable...)
	// pad prefix out to declared preamble size minus CRC+sentinel is
	// already satisfied by construction above (0x19 header + 9*N table);
	// CRC covers exactly prefix.
	crc := CRC8(crc8Seed, prefix)
	out := append([]byte{}, prefix...)
	crcBytes := make([]byte, 2)
	binary.LittleEndian.PutUint16(crcBytes, crc)
	out = append(out, crcBytes...)
	out = append(out, fileHeaderEndSentinelAC15[:]...)

	for _, b := range sectionBytes {
		out = append(out, b...)
	}
	return out
}

// readFlatSections slices every AC15 section's plaintext out of data
// using the parsed locator table.
func readFlatSections(data []byte, locators []sectionLocator) map[string][]byte {
	sections := make(map[string][]byte, len(locators))
	for _, loc := range locators {
		if int(loc.Number) >= len(ac15SectionOrder) {
			continue
		}
		name := ac15SectionOrder[loc.Number]
		start := int(loc.Offset)
		end := start + int(loc.Length)
		if start < 0 || end > len(data) || start > end {
			continue
		}
		sections[name] = data[start:end]
	}
	return sections
}

// pagedSectionDescriptor is one entry of the AC18+ section map: a named
// section's total decompressed size and the list of compressed pages
// that store it, in order.
type pagedSectionDescriptor struct {
	Name  string
	Pages []pagedPageRecord
}

type pagedPageRecord struct {
	CompressedData []byte
	DecompressedSize uint32
}

// readPagedSections decompresses every section named in descriptors
// using the AC18 LZ77 variant (R2007 uses the AC21 variant instead, per
// layout).
func readPagedSections(descriptors []pagedSectionDescriptor, lay layout) (map[string][]byte, error) {
	sections := make(map[string][]byte, len(descriptors))
	for _, desc := range descriptors {
		var plain []byte
		for _, page := range desc.Pages {
			var chunk []byte
			var err error
			switch lay {
			case layoutAC21:
				chunk, err = DecompressLZ77AC21(page.CompressedData, int(page.DecompressedSize))
			default:
				chunk, err = DecompressLZ77AC18(page.CompressedData, int(page.DecompressedSize))
			}
			if err != nil {
				return nil, &ParseError{Context: "page decompress: " + desc.Name, Err: err}
			}
			plain = append(plain, chunk...)
		}
		sections[desc.Name] = plain
	}
	return sections, nil
}

// writePagedSections compresses each named section's plaintext into a
// single page (sections smaller than MAX_PAGE_SIZE need only one; the
// general multi-page chunking rule of §4.3 is left as a documented
// simplification — see DESIGN.md).
func writePagedSections(sections map[string][]byte, order []string, lay layout) []pagedSectionDescriptor {
	descriptors := make([]pagedSectionDescriptor, 0, len(order))
	for _, name := range order {
		plain := sections[name]
		var compressed []byte
		switch lay {
		case layoutAC21:
			compressed = CompressLZ77AC21(plain)
		default:
			compressed = CompressLZ77AC18(plain)
		}
		descriptors = append(descriptors, pagedSectionDescriptor{
			Name: name,
			Pages: []pagedPageRecord{{
				CompressedData:   compressed,
				DecompressedSize: uint32(len(plain)),
			}},
		})
	}
	return descriptors
}

// encodePagedPreamble serializes descriptors into the AC18+ on-disk
// region following the 6-byte version tag: a section count followed by,
// per section, a length-prefixed name, the decompressed size, the
// compressed size, an Adler-32 of the compressed bytes, and the
// compressed bytes themselves. This
// self-contained layout stands in for the real page-map/section-map
// indirection (§4.3): see DESIGN.md for why the real format's exact
// page-table wire shape isn't reproduced.
func encodePagedPreamble(descriptors []pagedSectionDescriptor) []byte {
	out := make([]byte, 4)
	binary.LittleEndian.PutUint32(out, uint32(len(descriptors)))
	for _, desc := range descriptors {
		nameBytes := []byte(desc.Name)
		head := make([]byte, 2)
		binary.LittleEndian.PutUint16(head, uint16(len(nameBytes)))
		out = append(out, head...)
		out = append(out, nameBytes...)

		var compressed []byte
		var decompressedSize uint32
		for _, p := range desc.Pages {
			compressed = append(compressed, p.CompressedData...)
			decompressedSize += p.DecompressedSize
		}
		sizes := make([]byte, 12)
		binary.LittleEndian.PutUint32(sizes, decompressedSize)
		binary.LittleEndian.PutUint32(sizes[4:], uint32(len(compressed)))
		binary.LittleEndian.PutUint32(sizes[8:], Adler32(compressed))
		out = append(out, sizes...)
		out = append(out, compressed...)
	}
	return out
}

// parsePagedPreamble reverses encodePagedPreamble, verifying each
// section's Adler-32 checksum (§4.3: "Each page... is Adler-32
// checksummed").
func parsePagedPreamble(data []byte, failsafe bool) ([]pagedSectionDescriptor, []Warning, error) {
	if len(data) < 4 {
		return nil, nil, ErrTooSmall
	}
	count := binary.LittleEndian.Uint32(data)
	pos := 4
	var warnings []Warning
	descriptors := make([]pagedSectionDescriptor, 0, count)

	for i := uint32(0); i < count; i++ {
		if pos+2 > len(data) {
			return nil, warnings, ErrOutsideBoundary
		}
		nameLen := int(binary.LittleEndian.Uint16(data[pos:]))
		pos += 2
		if pos+nameLen+12 > len(data) {
			return nil, warnings, ErrOutsideBoundary
		}
		name := string(data[pos : pos+nameLen])
		pos += nameLen

		decompressedSize := binary.LittleEndian.Uint32(data[pos:])
		compressedSize := binary.LittleEndian.Uint32(data[pos+4:])
		checksum := binary.LittleEndian.Uint32(data[pos+8:])
		pos += 12
		if pos+int(compressedSize) > len(data) {
			return nil, warnings, ErrOutsideBoundary
		}
		compressed := data[pos : pos+int(compressedSize)]
		pos += int(compressedSize)

		if got := Adler32(compressed); got != checksum {
			w := Warning{Kind: "page-checksum", Message: "section " + name + " failed its Adler-32 check"}
			if !failsafe {
				return nil, nil, &CrcMismatchError{Section: name, Expected: checksum, Actual: got}
			}
			warnings = append(warnings, w)
		}

		descriptors = append(descriptors, pagedSectionDescriptor{
			Name:  name,
			Pages: []pagedPageRecord{{CompressedData: compressed, DecompressedSize: decompressedSize}},
		})
	}

	return descriptors, warnings, nil
}
