// Copyright 2021 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.
package bitio

import (
	"bytes"
	"testing"
)

func TestWriterPacksLSBFirst(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	// 1,0,1,1,0,0,0,0 LSB-first -> 0b00001101 == 0x0d
	w.PutOne()
	w.PutZero()
	w.PutOne()
	w.PutOne()
	w.PutZero()
	w.PutZero()
	w.PutZero()
	w.PutZero()
	if err := w.Flush(); err != nil {
		t.Fatal(err)
	}
	if got, want := buf.Bytes(), []byte{0x0d}; !bytes.Equal(got, want) {
		t.Errorf("got %08b, want %08b", got, want)
	}
}

func TestWriterPutByteRequiresBoundary(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	w.PutOne()
	if err := w.PutByte(0x41); err == nil {
		t.Fatal("expected error writing a byte off a bit boundary")
	}
	w.Advance()
	if err := w.PutByte(0x41); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := w.Flush(); err != nil {
		t.Fatal(err)
	}
	if got, want := buf.Bytes(), []byte{0x01, 0x41}; !bytes.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestWriterAdvanceNoOpOnBoundary(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	for i := 0; i < 8; i++ {
		w.PutOne()
	}
	w.Advance() // already aligned, must not emit an extra byte.
	if err := w.Flush(); err != nil {
		t.Fatal(err)
	}
	if got, want := buf.Bytes(), []byte{0xff}; !bytes.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestBytesOutCountsUnflushedPartial(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	w.PutOne()
	w.PutZero()
	w.PutOne()
	w.Advance()
	if got, want := w.BytesOut(), int64(1); got != want {
		t.Errorf("BytesOut before flush = %d, want %d", got, want)
	}
}

func TestRoundTripBitsAndBytes(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	bits := []bool{true, false, false, true, true, true, false, false, true, false}
	for _, b := range bits {
		w.PutBit(b)
	}
	w.Advance()
	if err := w.PutByte(0xAB); err != nil {
		t.Fatal(err)
	}
	if err := w.PutByte(0xCD); err != nil {
		t.Fatal(err)
	}
	if err := w.Flush(); err != nil {
		t.Fatal(err)
	}

	r := NewReader(&buf)
	for i, want := range bits {
		got, err := r.ReadBit()
		if err != nil {
			t.Fatalf("bit %d: %v", i, err)
		}
		if got != want {
			t.Errorf("bit %d: got %v, want %v", i, got, want)
		}
	}
	r.Advance()
	for _, want := range []byte{0xAB, 0xCD} {
		got, err := r.ReadByte()
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Errorf("got %#x, want %#x", got, want)
		}
	}
}

func TestReaderByteOffBoundaryErrors(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	w.PutOne()
	w.Advance()
	if err := w.PutByte(0x01); err != nil {
		t.Fatal(err)
	}
	if err := w.Flush(); err != nil {
		t.Fatal(err)
	}

	r := NewReader(&buf)
	if _, err := r.ReadBit(); err != nil {
		t.Fatal(err)
	}
	if _, err := r.ReadByte(); err == nil {
		t.Fatal("expected error reading a byte off a bit boundary")
	}
}

func TestReaderTruncation(t *testing.T) {
	r := NewReader(bytes.NewReader(nil))
	if _, err := r.ReadBit(); err != ErrTruncated {
		t.Fatalf("got %v, want ErrTruncated", err)
	}
}

func TestBytesReadCounter(t *testing.T) {
	r := NewReader(bytes.NewReader([]byte{0xff, 0x01}))
	for i := 0; i < 8; i++ {
		if _, err := r.ReadBit(); err != nil {
			t.Fatal(err)
		}
	}
	if got, want := r.BytesRead(), int64(1); got != want {
		t.Errorf("BytesRead = %d, want %d", got, want)
	}
	if _, err := r.ReadByte(); err != nil {
		t.Fatal(err)
	}
	if got, want := r.BytesRead(), int64(2); got != want {
		t.Errorf("BytesRead = %d, want %d", got, want)
	}
}
