// Copyright 2024 The dwg authors. All rights reserved.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package dwg

import "testing"

func TestBitReaderWriterScalarRoundTrip(t *testing.T) {
	w := NewBitWriter()
	w.WriteBit(true)
	w.Write2Bits(2)
	w.WriteBS(12345)
	w.WriteBL(-987654)
	w.WriteBLL(0xDEADBEEFCAFE)
	w.WriteBD(3.25)
	w.WriteDD(1.0, 1.0) // default-equal shortcut
	w.WriteDD(1.0, 2.5)
	w.WriteMC(300)
	w.WriteMCSigned(-300)
	w.WriteRC(-5)
	w.WriteRS(40000)
	w.WriteRL(0xFFEECCAA)
	w.WriteRD(-12.5)

	r := NewBitReader(w.Bytes())

	if b, err := r.ReadBit(); err != nil || !b {
		t.Fatalf("ReadBit: %v %v", b, err)
	}
	if v, err := r.Read2Bits(); err != nil || v != 2 {
		t.Fatalf("Read2Bits: %v %v", v, err)
	}
	if v, err := r.ReadBS(); err != nil || v != 12345 {
		t.Fatalf("ReadBS: %v %v", v, err)
	}
	if v, err := r.ReadBL(); err != nil || v != -987654 {
		t.Fatalf("ReadBL: %v %v", v, err)
	}
	if v, err := r.ReadBLL(); err != nil || v != 0xDEADBEEFCAFE {
		t.Fatalf("ReadBLL: %v %v", v, err)
	}
	if v, err := r.ReadBD(); err != nil || v != 3.25 {
		t.Fatalf("ReadBD: %v %v", v, err)
	}
	if v, err := r.ReadDD(1.0); err != nil || v != 1.0 {
		t.Fatalf("ReadDD (default): %v %v", v, err)
	}
	if v, err := r.ReadDD(1.0); err != nil || v != 2.5 {
		t.Fatalf("ReadDD (explicit): %v %v", v, err)
	}
	if v, err := r.ReadMC(); err != nil || v != 300 {
		t.Fatalf("ReadMC: %v %v", v, err)
	}
	if v, err := r.ReadMCSigned(); err != nil || v != -300 {
		t.Fatalf("ReadMCSigned: %v %v", v, err)
	}
	if v, err := r.ReadRC(); err != nil || v != -5 {
		t.Fatalf("ReadRC: %v %v", v, err)
	}
	if v, err := r.ReadRS(); err != nil || v != 40000 {
		t.Fatalf("ReadRS: %v %v", v, err)
	}
	if v, err := r.ReadRL(); err != nil || v != 0xFFEECCAA {
		t.Fatalf("ReadRL: %v %v", v, err)
	}
	if v, err := r.ReadRD(); err != nil || v != -12.5 {
		t.Fatalf("ReadRD: %v %v", v, err)
	}
}

func TestBitReaderWriterTextRoundTrip(t *testing.T) {
	w := NewBitWriter()
	if err := w.WriteT("LAYER_0"); err != nil {
		t.Fatalf("WriteT: %v", err)
	}
	if err := w.WriteT(""); err != nil {
		t.Fatalf("WriteT empty: %v", err)
	}

	r := NewBitReader(w.Bytes())
	got, err := r.ReadT()
	if err != nil || got != "LAYER_0" {
		t.Fatalf("ReadT: %q %v", got, err)
	}
	got, err = r.ReadT()
	if err != nil || got != "" {
		t.Fatalf("ReadT empty: %q %v", got, err)
	}
}

func TestBitReaderSentinelMismatch(t *testing.T) {
	w := NewBitWriter()
	w.WriteBytes(headerStartSentinel[:])
	r := NewBitReader(w.Bytes())
	if err := r.ExpectSentinel(headerEndSentinel); err != ErrSentinelMismatch {
		t.Fatalf("expected ErrSentinelMismatch, got %v", err)
	}
}

func TestBitReaderOutOfBounds(t *testing.T) {
	r := NewBitReader([]byte{0x01})
	if _, err := r.ReadRL(); err != ErrOutsideBoundary {
		t.Fatalf("expected ErrOutsideBoundary, got %v", err)
	}
}

func TestMSRoundTrip(t *testing.T) {
	w := NewBitWriter()
	w.WriteMS(100)
	w.WriteMS(0) // smallest
	w.WriteMS(0x12345) // spans two 15-bit words, exercises the continuation bit

	got := w.Bytes()
	want := []byte{0x64, 0x00} // WriteMS(100): low word 100, little-endian, no continuation
	if len(got) < 2 || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("WriteMS(100) wire bytes = % x, want % x...", got[:2], want)
	}

	r := NewBitReader(got)
	if v, err := r.ReadMS(); err != nil || v != 100 {
		t.Fatalf("ReadMS: %v %v, want 100", v, err)
	}
	if v, err := r.ReadMS(); err != nil || v != 0 {
		t.Fatalf("ReadMS: %v %v, want 0", v, err)
	}
	if v, err := r.ReadMS(); err != nil || v != 0x12345 {
		t.Fatalf("ReadMS: %v %v, want %#x", v, err, 0x12345)
	}
}

func TestHandleRefRoundTrip(t *testing.T) {
	w := NewBitWriter()
	ref := HandleRef{Code: RefSoftPointer, Handle: 0x4F2}
	w.WriteH(ref)

	r := NewBitReader(w.Bytes())
	got, err := r.ReadH()
	if err != nil {
		t.Fatalf("ReadH: %v", err)
	}
	if got.Code != ref.Code || got.Handle != ref.Handle {
		t.Fatalf("ReadH roundtrip mismatch: got %+v want %+v", got, ref)
	}
}
