// Copyright 2021 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package lzppp

import "github.com/lzppp/lzppp/internal/bitio"

// BlockBits fixes B = 2^BlockBits, the number of input bytes coded per
// block, at build time (spec §3: "fixed per build (15 or 20)"). 20 is the
// value used by the configurable-table variants of the original source
// (lzpgt6.c, lzpgt7.c), the richer of the four, which this package
// generalizes.
const BlockBits = 20

// BlockSize is B, the number of bytes in a full block.
const BlockSize = 1 << BlockBits

// encodeBlock runs the predictor over data, writing one hit/miss bit per
// byte to bw followed by the literal (mismatched) bytes. h is the running
// context hash, threaded through and updated in place. full indicates
// whether this is a full B-byte block (no boundary alignment needed,
// since B is a multiple of 8) or the final short block (Advance forces
// the trailing partial byte before the literals).
func encodeBlock(bw *bitio.Writer, t *Table, h *uint32, data []byte, full bool) error {
	lits := make([]byte, 0, len(data)/8)
	hh := *h
	for _, c := range data {
		if t.Predict(hh) == c {
			bw.PutOne()
		} else {
			bw.PutZero()
			t.Update(hh, c)
			lits = append(lits, c)
		}
		hh = t.Mix(hh, c)
	}
	*h = hh
	if !full {
		bw.Advance()
	}
	for _, c := range lits {
		if err := bw.PutByte(c); err != nil {
			return err
		}
	}
	return nil
}

// decodeBlock reconstructs n bytes of output into out, reading n
// hit/miss bits from br followed by a literal byte for each miss. h is
// threaded through exactly as in encodeBlock so encoder and decoder stay
// synchronized (spec §8, "Predictor synchrony").
func decodeBlock(br *bitio.Reader, t *Table, h *uint32, n int, out []byte, full bool) error {
	bits := make([]bool, n)
	for i := 0; i < n; i++ {
		b, err := br.ReadBit()
		if err != nil {
			return err
		}
		bits[i] = b
	}
	if !full {
		br.Advance()
	}
	hh := *h
	for i := 0; i < n; i++ {
		var c byte
		if bits[i] {
			c = t.Predict(hh)
		} else {
			var err error
			c, err = br.ReadByte()
			if err != nil {
				return err
			}
			t.Update(hh, c)
		}
		out[i] = c
		hh = t.Mix(hh, c)
	}
	*h = hh
	return nil
}
