// Copyright 2024 The dwg authors. All rights reserved.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package dwg

import "testing"

func TestWriteReadObjectLineRoundTrip(t *testing.T) {
	f := newVerFlags(R2000)

	line := &Line{
		commonEntity: commonEntity{
			Handle:        0x42,
			Color:         Color{Kind: ColorIndex, Index: 7},
			LinetypeScale: 1.0,
		},
		Start: Vector3{X: 1, Y: 2, Z: 0},
		End:   Vector3{X: 10, Y: 20, Z: 0},
	}

	w := NewBitWriter()
	if err := writeObject(w, f, line); err != nil {
		t.Fatalf("writeObject: %v", err)
	}

	r := NewBitReader(w.Bytes())
	obj, err := readObject(r, f, newClassTable())
	if err != nil {
		t.Fatalf("readObject: %v", err)
	}

	got, ok := obj.(*Line)
	if !ok {
		t.Fatalf("readObject returned %T, want *Line", obj)
	}
	if got.Handle != line.Handle {
		t.Fatalf("handle mismatch: got %v want %v", got.Handle, line.Handle)
	}
	if got.Start != line.Start || got.End != line.End {
		t.Fatalf("geometry mismatch: got %+v/%+v want %+v/%+v", got.Start, got.End, line.Start, line.End)
	}
}

func TestWriteReadObjectLayerRoundTrip(t *testing.T) {
	f := newVerFlags(R2000)

	layer := &Layer{
		commonNonEntity: commonNonEntity{Handle: 0x10},
		Name:            "WALLS",
		Color:           Color{Kind: ColorIndex, Index: 3},
	}

	w := NewBitWriter()
	if err := writeObject(w, f, layer); err != nil {
		t.Fatalf("writeObject: %v", err)
	}

	r := NewBitReader(w.Bytes())
	obj, err := readObject(r, f, newClassTable())
	if err != nil {
		t.Fatalf("readObject: %v", err)
	}

	got, ok := obj.(*Layer)
	if !ok {
		t.Fatalf("readObject returned %T, want *Layer", obj)
	}
	if got.Handle != layer.Handle || got.Name != layer.Name {
		t.Fatalf("layer mismatch: got %+v want %+v", got, layer)
	}
}
