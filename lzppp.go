// Copyright 2021 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package lzppp implements the LZP/PPP family of byte-predictor codecs:
// a single-context, order-k hashed predictor that emits one hit/miss bit
// per input byte plus the literal bytes for misses, laid out as a
// sequence of fixed-size blocks behind a small file stamp.
//
// Encoding and decoding are single-threaded and strictly sequential
// (there is no cancellation or suspension point inside Compress or
// Decompress); the package never logs and never calls os.Exit.
package lzppp

import (
	"io"

	"github.com/lzppp/lzppp/internal/bitio"
)

// DefaultTableBits is used by Compress when no WithTableBits option is
// given, matching the original source's default of a 1MiB (2^20 entry)
// prediction table.
const DefaultTableBits = 20

// Progress reports the completion of one full block, for callers driving
// a progress bar or trace log. It mirrors the shape of the teacher
// package's own per-block Progress type.
type Progress struct {
	Block   int64 // 1-based index of the block just completed
	Written int64 // total output bytes so far: the compressed stream for Compress, the decoded bytes for Decompress
	Read    int64 // total input bytes consumed so far
}

type compressOpts struct {
	tableBits  uint
	progressCh chan<- Progress
}

// CompressOption configures a Compress call.
type CompressOption func(*compressOpts)

// WithTableBits sets the predictor table width, clamped to
// [MinTableBits, MaxTableBits].
func WithTableBits(bits uint) CompressOption {
	return func(o *compressOpts) {
		if bits < MinTableBits {
			bits = MinTableBits
		} else if bits > MaxTableBits {
			bits = MaxTableBits
		}
		o.tableBits = bits
	}
}

// WithProgress requests a Progress value be sent after every full block.
// Sends are blocking; callers must drain the channel or the encoder
// stalls.
func WithProgress(ch chan<- Progress) CompressOption {
	return func(o *compressOpts) {
		o.progressCh = ch
	}
}

// Compress reads all of r and writes the lzppp stream to w, which must
// support Seek so the placeholder file stamp can be rewritten once the
// final block count is known (spec §5: "If rewind is unavailable, the
// encoder cannot function"). It returns the number of bytes read from r
// and written to w.
func Compress(w io.WriteSeeker, r io.Reader, opts ...CompressOption) (nRead, nWritten int64, err error) {
	o := compressOpts{tableBits: DefaultTableBits}
	for _, fn := range opts {
		fn(&o)
	}

	if err = writeStamp(w, stamp{Alg: algTag, WBits: int32(o.tableBits)}); err != nil {
		return 0, 0, err
	}

	t, err := NewTable(o.tableBits)
	if err != nil {
		return 0, 0, err
	}

	bw := bitio.NewWriter(w)
	var h uint32
	buf := make([]byte, BlockSize)

	var nblocks int64
	var lastSize int32

	for {
		n, rerr := io.ReadFull(r, buf)
		if n > 0 {
			full := n == BlockSize
			if eerr := encodeBlock(bw, t, &h, buf[:n], full); eerr != nil {
				return nRead, nWritten, eerr
			}
			nRead += int64(n)
			if full {
				nblocks++
				// B is a multiple of 8, so the bit accumulator is back on
				// a byte boundary here; flush now so memory use stays
				// bounded by one block rather than the whole stream.
				if ferr := bw.Flush(); ferr != nil {
					return nRead, nWritten, ferr
				}
				if o.progressCh != nil {
					o.progressCh <- Progress{Block: nblocks, Written: stampSize + bw.BytesOut(), Read: nRead}
				}
			} else {
				lastSize = int32(n)
			}
		}
		if rerr == io.EOF {
			break
		}
		if rerr == io.ErrUnexpectedEOF {
			break
		}
		if rerr != nil {
			return nRead, nWritten, rerr
		}
	}

	if err = bw.Flush(); err != nil {
		return nRead, nWritten, err
	}

	if _, err = w.Seek(0, io.SeekStart); err != nil {
		return nRead, nWritten, err
	}
	if err = writeStamp(w, stamp{Alg: algTag, NBlocks: nblocks, LastBlockSize: lastSize, WBits: int32(o.tableBits)}); err != nil {
		return nRead, nWritten, err
	}

	nWritten = stampSize + bw.BytesOut()
	return nRead, nWritten, nil
}

type decompressOpts struct {
	progressCh chan<- Progress
}

// DecompressOption configures a Decompress call.
type DecompressOption func(*decompressOpts)

// WithDecompressProgress requests a Progress value after every full block
// decoded.
func WithDecompressProgress(ch chan<- Progress) DecompressOption {
	return func(o *decompressOpts) {
		o.progressCh = ch
	}
}

// Decompress reads an lzppp stream from r and writes the original bytes
// to w. The predictor table width comes from the stream's file stamp,
// not from the caller.
func Decompress(w io.Writer, r io.Reader, opts ...DecompressOption) (nWritten int64, err error) {
	o := decompressOpts{}
	for _, fn := range opts {
		fn(&o)
	}

	s, err := readStamp(r)
	if err != nil {
		return 0, err
	}

	t, err := NewTable(uint(s.WBits))
	if err != nil {
		return 0, err
	}

	br := bitio.NewReader(r)
	var h uint32
	buf := make([]byte, BlockSize)

	for i := int64(0); i < s.NBlocks; i++ {
		if derr := decodeBlock(br, t, &h, BlockSize, buf, true); derr != nil {
			return nWritten, derr
		}
		n, werr := w.Write(buf)
		nWritten += int64(n)
		if werr != nil {
			return nWritten, werr
		}
		if o.progressCh != nil {
			o.progressCh <- Progress{Block: i + 1, Written: nWritten, Read: stampSize + br.BytesRead()}
		}
	}

	if s.LastBlockSize > 0 {
		last := buf[:s.LastBlockSize]
		if derr := decodeBlock(br, t, &h, int(s.LastBlockSize), last, false); derr != nil {
			return nWritten, derr
		}
		n, werr := w.Write(last)
		nWritten += int64(n)
		if werr != nil {
			return nWritten, werr
		}
	}

	return nWritten, nil
}
