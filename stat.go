// Copyright 2021 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package lzppp

import "io"

// StampInfo is the decoded file stamp of an lzppp stream, exposed so a
// tool can inspect a compressed file's structure without decoding its
// payload, in the spirit of the teacher package's own bz2-stats/inspect
// commands.
type StampInfo struct {
	TableBits     uint
	Blocks        int64
	LastBlockSize int32
	DecodedSize   int64
}

// Stat reads and validates the file stamp at the start of r, without
// reading any block payload.
func Stat(r io.Reader) (StampInfo, error) {
	s, err := readStamp(r)
	if err != nil {
		return StampInfo{}, err
	}
	return StampInfo{
		TableBits:     uint(s.WBits),
		Blocks:        s.NBlocks,
		LastBlockSize: s.LastBlockSize,
		DecodedSize:   s.NBlocks*BlockSize + int64(s.LastBlockSize),
	}, nil
}
