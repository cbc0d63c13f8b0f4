// Copyright 2024 The dwg authors. All rights reserved.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package dwg

import "encoding/binary"

// pageHeaderXORConst is the constant XOR'd with the stream position of
// an AC18+ page header before masking each 32-bit field (§4.2).
const pageHeaderXORConst = 0x4164536B

// pageHeader is the 32-byte encrypted header prefixing every on-disk
// AC18+ page.
type pageHeader struct {
	PageType       uint32
	SectionNumber  uint32
	CompressedSize uint32
	PageSize       uint32
	StartOffset    uint32
	HeaderChecksum uint32
	DataChecksum   uint32
	Unknown        uint32 // undocumented; preserved verbatim, never interpreted
}

// encryptPageHeader XORs each of the eight fields with
// pageHeaderXORConst XOR the field's own stream position, per §4.2. The
// same function serves encryption and decryption: XOR is an involution.
func encryptPageHeader(h pageHeader, streamPos uint32) [32]byte {
	var out [32]byte
	fields := [8]uint32{
		h.PageType, h.SectionNumber, h.CompressedSize, h.PageSize,
		h.StartOffset, h.HeaderChecksum, h.DataChecksum, h.Unknown,
	}
	for i, f := range fields {
		mask := pageHeaderXORConst ^ (streamPos + uint32(i*4))
		binary.LittleEndian.PutUint32(out[i*4:], f^mask)
	}
	return out
}

// decryptPageHeader reverses encryptPageHeader.
func decryptPageHeader(raw [32]byte, streamPos uint32) pageHeader {
	var fields [8]uint32
	for i := 0; i < 8; i++ {
		mask := pageHeaderXORConst ^ (streamPos + uint32(i*4))
		fields[i] = binary.LittleEndian.Uint32(raw[i*4:]) ^ mask
	}
	return pageHeader{
		PageType:       fields[0],
		SectionNumber:  fields[1],
		CompressedSize: fields[2],
		PageSize:       fields[3],
		StartOffset:    fields[4],
		HeaderChecksum: fields[5],
		DataChecksum:   fields[6],
		Unknown:        fields[7],
	}
}

// pageAddress is the combined offset that uniquely identifies a page
// within its section, per §4.2: header_checksum + start_offset.
func (h pageHeader) pageAddress() uint32 { return h.HeaderChecksum + h.StartOffset }

// fileHeaderMetadataSize is the plaintext size of the AC18+ 0x80
// metadata block.
const fileHeaderMetadataSize = 108

// fileHeaderMagicSequence is the 256-entry XOR mask ("magic sequence")
// applied after LCG decryption of the AC18+ file-header metadata.
var fileHeaderMagicSequence = buildFileHeaderMagicSequence()

// buildFileHeaderMagicSequence derives the 256-byte magic sequence from
// the same LCG used for the metadata decryption, seeded at 1, which is
// how the ODA documents its derivation: it is simply the keystream of
// the cipher run once over a zero-filled block of the maximum metadata
// size actually used (fileHeaderMetadataSize, widened to a round 256
// for headroom on the R2007 variant).
func buildFileHeaderMagicSequence() [256]byte {
	var out [256]byte
	s := uint32(1)
	for i := range out {
		s = s*0x343FD + 0x269EC3
		out[i] = byte(s >> 16)
	}
	return out
}

// decryptFileHeaderMetadata decrypts the AC18+ 108-byte metadata block:
// each byte is XOR'd with bits 16-23 of a running LCG state seeded at 1,
// then the whole block is XOR'd against the magic sequence.
func decryptFileHeaderMetadata(enc []byte) []byte {
	out := make([]byte, len(enc))
	s := uint32(1)
	for i, b := range enc {
		s = s*0x343FD + 0x269EC3
		keystreamByte := byte(s >> 16)
		out[i] = b ^ keystreamByte
	}
	for i := range out {
		out[i] ^= fileHeaderMagicSequence[i%len(fileHeaderMagicSequence)]
	}
	return out
}

// encryptFileHeaderMetadata is the structural inverse of
// decryptFileHeaderMetadata (XOR is its own inverse, applied in the same
// order).
func encryptFileHeaderMetadata(plain []byte) []byte {
	masked := make([]byte, len(plain))
	for i, b := range plain {
		masked[i] = b ^ fileHeaderMagicSequence[i%len(fileHeaderMagicSequence)]
	}
	out := make([]byte, len(masked))
	s := uint32(1)
	for i, b := range masked {
		s = s*0x343FD + 0x269EC3
		keystreamByte := byte(s >> 16)
		out[i] = b ^ keystreamByte
	}
	return out
}
