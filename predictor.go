// Copyright 2021 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package lzppp

import "fmt"

const (
	// MinTableBits and MaxTableBits bound the width, in bits, of the
	// predictor table's context index.
	MinTableBits = 15
	MaxTableBits = 30
)

// Table is the PPP/LZP predictor: a mapping from a context hash to the
// byte most recently observed in that context. Every entry starts at
// zero; ZeroValue documents that initial prediction explicitly since both
// encoder and decoder depend on it.
type Table struct {
	data []byte
	mask uint32
}

// ZeroValue is the byte value every Table entry holds before it is ever
// updated.
const ZeroValue byte = 0

// NewTable allocates a predictor table with 2^bits entries, all zeroed.
func NewTable(bits uint) (*Table, error) {
	if bits < MinTableBits || bits > MaxTableBits {
		return nil, fmt.Errorf("lzppp: table width %d bits out of range [%d,%d]", bits, MinTableBits, MaxTableBits)
	}
	size := uint32(1) << bits
	return &Table{data: make([]byte, size), mask: size - 1}, nil
}

// Predict returns the byte currently recorded for context h.
func (t *Table) Predict(h uint32) byte { return t.data[h&t.mask] }

// Update records c as the observed byte for context h.
func (t *Table) Update(h uint32, c byte) { t.data[h&t.mask] = c }

// Mix folds byte c into context h, producing the context for the next
// byte. The transition is ((h<<5)+c) & mask: fixed by the wire format,
// never to be "improved" — any change desynchronizes encoder and decoder.
func (t *Table) Mix(h uint32, c byte) uint32 {
	return ((h << 5) + uint32(c)) & t.mask
}

// Mask returns the context mask, 2^bits - 1.
func (t *Table) Mask() uint32 { return t.mask }
