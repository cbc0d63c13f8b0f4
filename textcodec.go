// Copyright 2024 The dwg authors. All rights reserved.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package dwg

import "github.com/dwgkit/dwg/internal/textcodec"

// codePageID aliases the internal textcodec identifier so BitReader/
// BitWriter don't need to import the subpackage directly in their
// public signatures.
type codePageID = textcodec.ID

const (
	codePageANSI1252 = textcodec.ANSI1252
	codePageANSI936  = textcodec.ANSI936
	codePageANSI950  = textcodec.ANSI950
	codePageANSI1251 = textcodec.ANSI1251
)

func decodeCodePage(b []byte, cp codePageID) (string, error) {
	return textcodec.Decode(b, cp)
}

func encodeCodePage(s string, cp codePageID) ([]byte, error) {
	return textcodec.Encode(s, cp)
}

func decodeUTF16LE(b []byte) (string, error) {
	return textcodec.DecodeUTF16LE(b)
}

func encodeUTF16LE(s string) ([]byte, error) {
	return textcodec.EncodeUTF16LE(s)
}
