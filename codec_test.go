// Copyright 2024 The dwg authors. All rights reserved.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package dwg

import (
	"bytes"
	"testing"
)

func TestCRC8Deterministic(t *testing.T) {
	data := []byte("the quick brown fox jumps over the lazy dog")
	a := CRC8(crc8Seed, data)
	b := CRC8(crc8Seed, data)
	if a != b {
		t.Fatalf("CRC8 not deterministic: %x vs %x", a, b)
	}
	if CRC8(crc8Seed, nil) != crc8Seed {
		t.Fatalf("CRC8 of empty input should return the seed unchanged")
	}
}

func TestLZ77AC18RoundTrip(t *testing.T) {
	cases := [][]byte{
		nil,
		[]byte("a"),
		[]byte("aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"),
		bytes.Repeat([]byte("AcDb:Handles"), 50),
		[]byte("abcdefghijklmnopqrstuvwxyzabcdefghijklmnopqrstuvwxyz0123456789"),
	}
	for _, in := range cases {
		compressed := CompressLZ77AC18(in)
		out, err := DecompressLZ77AC18(compressed, len(in))
		if err != nil {
			t.Fatalf("DecompressLZ77AC18(%q): %v", in, err)
		}
		if !bytes.Equal(out, in) {
			t.Fatalf("LZ77AC18 round trip mismatch: got %q want %q", out, in)
		}
	}
}

func TestLZ77AC21RoundTrip(t *testing.T) {
	in := bytes.Repeat([]byte("the lazy dog jumps"), 40)
	compressed := CompressLZ77AC21(in)
	out, err := DecompressLZ77AC21(compressed, len(in))
	if err != nil {
		t.Fatalf("DecompressLZ77AC21: %v", err)
	}
	if !bytes.Equal(out, in) {
		t.Fatalf("LZ77AC21 round trip mismatch: got %d bytes want %d", len(out), len(in))
	}
}

// buildMinimalLineDocument assembles the smallest document this codec can
// round trip: one model-space block record owning one LINE entity.
func buildMinimalLineDocument(v Version) *Document {
	doc := NewDocument(v)

	const (
		modelSpaceHandle Handle = 0x10
		lineHandle       Handle = 0x20
	)

	block := &BlockRecord{
		commonNonEntity: commonNonEntity{Handle: modelSpaceHandle},
		Name:            "*MODEL_SPACE",
		Entities:        []Handle{lineHandle},
	}
	doc.Objects[modelSpaceHandle] = block
	doc.BlockRecords.Add(block.Name, block)
	doc.Header.ModelSpaceBlock = modelSpaceHandle

	line := &Line{
		commonEntity: commonEntity{
			Handle:        lineHandle,
			Owner:         modelSpaceHandle,
			Color:         Color{Kind: ColorIndex, Index: 7},
			LinetypeScale: 1.0,
		},
		Start: Vector3{X: 1, Y: 2, Z: 0},
		End:   Vector3{X: 10, Y: 20, Z: 30},
	}
	doc.Objects[lineHandle] = line
	doc.Entities[modelSpaceHandle] = []Entity{line}

	return doc
}

// TestDocumentLineRoundTrip writes a minimal LINE-only document and reads
// it back at every supported release, covering both the flat AC15 layout
// and the paged AC18+ layouts.
func TestDocumentLineRoundTrip(t *testing.T) {
	versions := []Version{R13, R14, R2000, R2004, R2007, R2010, R2013, R2018}
	for _, v := range versions {
		t.Run(string(v), func(t *testing.T) {
			doc := buildMinimalLineDocument(v)

			data, err := WriteBytes(doc)
			if err != nil {
				t.Fatalf("WriteBytes: %v", err)
			}

			got, err := OpenBytes(data, Config{})
			if err != nil {
				t.Fatalf("OpenBytes: %v", err)
			}

			block, ok := got.BlockRecords.Get("*MODEL_SPACE")
			if !ok {
				t.Fatalf("model space block record missing after round trip")
			}

			entities := got.Entities[block.Handle]
			if len(entities) != 1 {
				t.Fatalf("got %d model-space entities, want 1 (warnings: %v)", len(entities), got.Warnings)
			}

			line, ok := entities[0].(*Line)
			if !ok {
				t.Fatalf("entity is %T, want *Line", entities[0])
			}
			if line.Start != (Vector3{X: 1, Y: 2, Z: 0}) || line.End != (Vector3{X: 10, Y: 20, Z: 30}) {
				t.Fatalf("geometry mismatch: got %+v/%+v", line.Start, line.End)
			}
		})
	}
}

func TestReedSolomonRoundTrip(t *testing.T) {
	factor, block := 4, 8
	decoded := make([]byte, factor*block)
	for i := range decoded {
		decoded[i] = byte(i)
	}
	encoded, err := ReedSolomonEncode(decoded, factor, block)
	if err != nil {
		t.Fatalf("ReedSolomonEncode: %v", err)
	}
	back, err := ReedSolomonDecode(encoded, factor, block)
	if err != nil {
		t.Fatalf("ReedSolomonDecode: %v", err)
	}
	if !bytes.Equal(back, decoded) {
		t.Fatalf("Reed-Solomon interleave round trip mismatch")
	}
}
