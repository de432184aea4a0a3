// Copyright 2021 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.
package lzppp

import (
	"bytes"
	"testing"
)

func TestStampRoundTrip(t *testing.T) {
	want := stamp{Alg: algTag, NBlocks: 7, LastBlockSize: 123, WBits: 21}
	var buf bytes.Buffer
	if err := writeStamp(&buf, want); err != nil {
		t.Fatal(err)
	}
	if got := buf.Len(); got != stampSize {
		t.Fatalf("wrote %d bytes, want %d", got, stampSize)
	}
	got, err := readStamp(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestStampLayoutOffsets(t *testing.T) {
	s := stamp{Alg: [8]byte{'A', 'B'}, NBlocks: 1, LastBlockSize: 2, WBits: 20}
	var buf bytes.Buffer
	if err := writeStamp(&buf, s); err != nil {
		t.Fatal(err)
	}
	raw := buf.Bytes()
	if raw[0] != 'A' || raw[1] != 'B' {
		t.Errorf("alg tag not at offset 0: %v", raw[:8])
	}
	// ppp_nblocks at offset 8, little-endian.
	if raw[8] != 1 {
		t.Errorf("nblocks low byte at offset 8 = %d, want 1", raw[8])
	}
	// ppp_lastblocksize at offset 16.
	if raw[16] != 2 {
		t.Errorf("lastblocksize low byte at offset 16 = %d, want 2", raw[16])
	}
	// ppp_WBITS at offset 20.
	if raw[20] != 20 {
		t.Errorf("WBits low byte at offset 20 = %d, want 20", raw[20])
	}
}

func TestStampTagNotValidatedOnRead(t *testing.T) {
	s := stamp{Alg: [8]byte{'X', 'Y', 'Z'}, NBlocks: 0, LastBlockSize: 0, WBits: 15}
	var buf bytes.Buffer
	if err := writeStamp(&buf, s); err != nil {
		t.Fatal(err)
	}
	got, err := readStamp(&buf)
	if err != nil {
		t.Fatalf("unexpected error for unrecognized tag: %v", err)
	}
	if got.Alg != s.Alg {
		t.Errorf("Alg = %v, want %v", got.Alg, s.Alg)
	}
}

func TestStampRejectsOutOfRangeFields(t *testing.T) {
	for _, tc := range []struct {
		name string
		s    stamp
	}{
		{"negative blocks", stamp{Alg: algTag, NBlocks: -1, WBits: 20}},
		{"lastblocksize too large", stamp{Alg: algTag, LastBlockSize: BlockSize, WBits: 20}},
		{"wbits too small", stamp{Alg: algTag, WBits: 1}},
		{"wbits too large", stamp{Alg: algTag, WBits: 31}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := writeStamp(&buf, tc.s); err != nil {
				t.Fatal(err)
			}
			if _, err := readStamp(&buf); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}

func TestReadStampTruncated(t *testing.T) {
	if _, err := readStamp(bytes.NewReader([]byte{1, 2, 3})); err == nil {
		t.Fatal("expected a truncation error")
	}
}
