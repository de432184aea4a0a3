// Copyright 2021 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package lzppp

import (
	"encoding/binary"
	"io"
)

// algTag is the on-disk alg[8] field. It is written but never validated
// on decode (SPEC_FULL.md §13): any 8 bytes are accepted, matching the
// original C sources, none of which check fstamp.alg back.
var algTag = [8]byte{'L', 'Z', 'P', 'P', 'P'}

// stampSize is the fixed, packed, little-endian size in bytes of the
// on-disk file stamp: alg[8] + ppp_nblocks(8) + ppp_lastblocksize(4) +
// ppp_WBITS(4).
const stampSize = 8 + 8 + 4 + 4

// stamp is the file header record (Framer, spec §4.6). It is written
// twice on compress: once as a placeholder before encoding, once
// rewritten in place once the final counts are known.
type stamp struct {
	Alg           [8]byte
	NBlocks       int64
	LastBlockSize int32
	WBits         int32
}

func writeStamp(w io.Writer, s stamp) error {
	var buf [stampSize]byte
	copy(buf[0:8], s.Alg[:])
	binary.LittleEndian.PutUint64(buf[8:16], uint64(s.NBlocks))
	binary.LittleEndian.PutUint32(buf[16:20], uint32(s.LastBlockSize))
	binary.LittleEndian.PutUint32(buf[20:24], uint32(s.WBits))
	_, err := w.Write(buf[:])
	return err
}

func readStamp(r io.Reader) (stamp, error) {
	var buf [stampSize]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		if err == io.ErrUnexpectedEOF || err == io.EOF {
			return stamp{}, FormatError("truncated file stamp")
		}
		return stamp{}, err
	}
	var s stamp
	copy(s.Alg[:], buf[0:8])
	s.NBlocks = int64(binary.LittleEndian.Uint64(buf[8:16]))
	s.LastBlockSize = int32(binary.LittleEndian.Uint32(buf[16:20]))
	s.WBits = int32(binary.LittleEndian.Uint32(buf[20:24]))
	if s.NBlocks < 0 {
		return stamp{}, FormatError("negative block count in file stamp")
	}
	if s.LastBlockSize < 0 || s.LastBlockSize >= BlockSize {
		return stamp{}, FormatError("last block size out of range in file stamp")
	}
	if s.WBits < MinTableBits || s.WBits > MaxTableBits {
		return stamp{}, FormatError("table width out of range in file stamp")
	}
	return s, nil
}
