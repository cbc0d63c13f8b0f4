// Copyright 2024 The dwg authors. All rights reserved.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package dwg

import "fmt"

// Reed-Solomon "interleaving" (R2007 only) is, despite the name, not an
// error-correcting code here: it de-interleaves input bytes across
// factor parallel tracks of block bytes each (§4.2).
//
// Encoding writes position n*factor+track of the encoded buffer from
// position track*block+n of the decoded buffer; decoding is the exact
// inverse read.

// ReedSolomonDecode de-interleaves encoded into a decoded buffer of
// factor*block bytes: decoded[track*block+n] = encoded[n*factor+track].
func ReedSolomonDecode(encoded []byte, factor, block int) ([]byte, error) {
	if factor <= 0 || block <= 0 {
		return nil, fmt.Errorf("dwg: invalid reed-solomon parameters factor=%d block=%d", factor, block)
	}
	need := factor * block
	if len(encoded) < need {
		return nil, fmt.Errorf("dwg: reed-solomon input too short: have %d need %d", len(encoded), need)
	}
	decoded := make([]byte, need)
	for track := 0; track < factor; track++ {
		for n := 0; n < block; n++ {
			decoded[track*block+n] = encoded[n*factor+track]
		}
	}
	return decoded, nil
}

// ReedSolomonEncode interleaves decoded (factor*block bytes, padded with
// zeros if short) into the on-disk track order:
// encoded[n*factor+track] = decoded[track*block+n].
func ReedSolomonEncode(decoded []byte, factor, block int) ([]byte, error) {
	if factor <= 0 || block <= 0 {
		return nil, fmt.Errorf("dwg: invalid reed-solomon parameters factor=%d block=%d", factor, block)
	}
	need := factor * block
	padded := decoded
	if len(padded) < need {
		padded = make([]byte, need)
		copy(padded, decoded)
	}
	encoded := make([]byte, need)
	for track := 0; track < factor; track++ {
		for n := 0; n < block; n++ {
			encoded[n*factor+track] = padded[track*block+n]
		}
	}
	return encoded, nil
}

// rsFileHeaderFactor/rsFileHeaderBlock are the fixed parameters used for
// the R2007 file-header metadata block (1024 on-disk bytes).
const (
	rsFileHeaderFactor = 3
	rsFileHeaderBlock  = 239
)

// rsDataPageBlock is the fixed per-track block size for R2007 data
// pages; the factor varies per page (§4.2: "data pages use factor =
// ceil((compressed_size*correction)/block_size)").
const rsDataPageBlock = 251

// rsDataPageFactor computes the interleaving factor for a data page of
// the given compressed size, per the formula in §4.2.
func rsDataPageFactor(compressedSize int, correction float64) int {
	factor := int((float64(compressedSize)*correction + float64(rsDataPageBlock) - 1) / float64(rsDataPageBlock))
	if factor < 1 {
		factor = 1
	}
	return factor
}
