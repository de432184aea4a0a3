// Copyright 2021 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package lzppp

import (
	"errors"

	"github.com/lzppp/lzppp/internal/bitio"
)

// FormatError is returned when the file stamp is truncated or holds an
// out-of-range field, mirroring bzip2's StructuralError in spirit:
// a typed string describing exactly what was wrong.
type FormatError string

func (e FormatError) Error() string {
	return "lzppp: invalid format: " + string(e)
}

// ErrTruncated is returned when the source ends before a full block's
// bits and literals could be read. It is the same value as the bitio
// sentinel, so errors.Is matches against either.
var ErrTruncated = bitio.ErrTruncated

// IsTruncated reports whether err indicates the input ended mid-stream.
func IsTruncated(err error) bool {
	return errors.Is(err, ErrTruncated)
}
