// Copyright 2021 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Command lzppp compresses and decompresses single files using the
// LZP/PPP predictive codec implemented by the lzppp package. Command-line
// parsing, file-open wrappers, and wall-clock reporting are all, per the
// codec's own specification, external collaborators rather than part of
// the codec proper.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"time"

	"cloudeng.io/cmdutil"
	"cloudeng.io/cmdutil/subcmd"
	"cloudeng.io/errors"
	"github.com/grailbio/base/file"
	"github.com/lzppp/lzppp"
	"github.com/schollz/progressbar/v2"
	"golang.org/x/crypto/ssh/terminal"
)

// CommonFlags mirrors the teacher's CommonFlags/unzipFlags shape: the
// same progress/verbosity knobs apply to both compress and decompress.
type CommonFlags struct {
	Progress bool `subcmd:"progress,true,'display a progress bar'"`
	Verbose  bool `subcmd:"verbose,false,'log a trace line for every completed block'"`
}

type compressFlags struct {
	CommonFlags
	Bits int `subcmd:"bits,20,'predictor table width (15..30); an explicit -bits takes precedence over N embedded directly after c, e.g. c24'"`
}

type decompressFlags struct {
	CommonFlags
}

type noFlags struct{}

var cmdSet *subcmd.CommandSet

func init() {
	log.SetFlags(0)

	compressCmd := subcmd.NewCommand("c",
		subcmd.MustRegisterFlagStruct(&compressFlags{}, nil, nil),
		runCompressCmd, subcmd.ExactlyNumArguments(2))
	compressCmd.Document(`compress a file; table width is N in c[N] (e.g. c24) or -bits, clamped to [15,30], default 20.`)

	decompressCmd := subcmd.NewCommand("d",
		subcmd.MustRegisterFlagStruct(&decompressFlags{}, nil, nil),
		runDecompressCmd, subcmd.ExactlyNumArguments(2))
	decompressCmd.Document(`decompress a file; the predictor table width comes from the file's stamp.`)

	statCmd := subcmd.NewCommand("stat",
		subcmd.MustRegisterFlagStruct(&noFlags{}, nil, nil),
		statFile, subcmd.ExactlyNumArguments(1))
	statCmd.Document(`print a compressed file's stamp (table width, block counts, decoded size) without decoding its payload.`)

	cmdSet = subcmd.NewCommandSet(compressCmd, decompressCmd, statCmd)
	cmdSet.Document(`lzppp: an LZP/PPP single-context predictive byte compressor.`)
}

func usage() {
	fmt.Fprint(os.Stderr, "\nUsage:\n"+
		"  lzppp c[N] [-bits=N] [-progress] [-verbose] <in> <out>   compress; N is the predictor table width (15..30), default 20\n"+
		"  lzppp d [-progress] [-verbose] <in> <out>                decompress\n"+
		"  lzppp stat <in>                                          inspect a compressed file's header\n\n")
	os.Exit(2)
}

func main() {
	if len(os.Args) < 2 {
		usage()
	}
	if err := normalizeCompressVerb(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		usage()
	}
	cmdSet.MustDispatch(context.Background())
}

// normalizeCompressVerb rewrites the original lzpgt7.c argument-walking
// idiom, a table width embedded directly in the verb (e.g. "c24"), into
// the command set's registered "c" command plus an explicit -bits flag,
// so the legacy verb shape and subcmd's flag parsing coexist: "c24 in out"
// becomes "c -bits=24 in out". "d" and "stat" are left untouched.
func normalizeCompressVerb() error {
	arg := os.Args[1]
	if arg == "d" || arg == "stat" || len(arg) == 0 || arg[0] != 'c' {
		return nil
	}
	bits, err := parseTableBits(arg)
	if err != nil {
		return err
	}
	rewritten := make([]string, 0, len(os.Args)+1)
	rewritten = append(rewritten, os.Args[0], "c", fmt.Sprintf("-bits=%d", bits))
	rewritten = append(rewritten, os.Args[2:]...)
	os.Args = rewritten
	return nil
}

// parseTableBits mirrors the argument-walking loop of the original
// lzpgt7.c main(): a bare "c" selects the default width, a leading "0"
// is rejected, and anything else is parsed and clamped to [15,30].
func parseTableBits(arg string) (uint, error) {
	suffix := arg[1:]
	if suffix == "" {
		return lzppp.DefaultTableBits, nil
	}
	if suffix[0] == '0' {
		return 0, fmt.Errorf("lzppp: a leading 0 is not a valid table width (%q)", arg)
	}
	n, err := strconv.Atoi(suffix)
	if err != nil || n == 0 {
		return 0, fmt.Errorf("lzppp: invalid table width %q", suffix)
	}
	bits := uint(n)
	if bits < lzppp.MinTableBits {
		bits = lzppp.MinTableBits
	} else if bits > lzppp.MaxTableBits {
		bits = lzppp.MaxTableBits
	}
	return bits, nil
}

// openRead mirrors cmd/pbzip2's openFileOrURL: a file-backed io.Reader,
// its size, and a context-aware cleanup function.
func openRead(ctx context.Context, name string) (io.Reader, int64, func(context.Context) error, error) {
	info, err := file.Stat(ctx, name)
	if err != nil {
		return nil, 0, nil, fmt.Errorf("stat %s: %w", name, err)
	}
	f, err := file.Open(ctx, name)
	if err != nil {
		return nil, 0, nil, fmt.Errorf("open %s: %w", name, err)
	}
	return f.Reader(ctx), info.Size(), f.Close, nil
}

// createOutput is deliberately plain *os.File rather than going through
// grailbio/base/file: lzppp.Compress requires an io.Seeker sink to
// back-patch the file stamp once the final block count is known, and the
// grailbio file abstraction's writer does not expose Seek.
func createOutput(name string) (*os.File, error) {
	f, err := os.Create(name)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", name, err)
	}
	return f, nil
}

// trace logs a block-by-block diagnostic when verbose is set, mirroring
// the teacher's Decompressor.trace: a no-op unless explicitly enabled.
func trace(verbose bool, format string, args ...interface{}) {
	if verbose {
		log.Printf(format, args...)
	}
}

// newProgress wires a per-block lzppp.Progress channel to whichever of
// the CommonFlags the caller asked for: a schollz/progressbar/v2 bar
// when -progress is set and stderr is a TTY (matching the teacher's
// isTTY gate in unzip), and a log.Printf trace line when -verbose is
// set, independent of the bar. metric picks the cumulative-bytes field
// the bar advances by: compress advances on bytes read from the input,
// decompress on bytes written to the output, since those are what size
// measures in each case. It returns nil if neither flag is requested,
// so callers can skip WithProgress/WithDecompressProgress entirely.
func newProgress(ctx context.Context, size int64, cf CommonFlags, metric func(lzppp.Progress) int64) (chan lzppp.Progress, func()) {
	isTTY := terminal.IsTerminal(int(os.Stderr.Fd()))
	showBar := cf.Progress && isTTY && size > 0
	if !showBar && !cf.Verbose {
		return nil, func() {}
	}

	var bar *progressbar.ProgressBar
	if showBar {
		bar = progressbar.NewOptions64(size,
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetBytes64(size),
			progressbar.OptionSetPredictTime(true))
		bar.RenderBlank()
	}

	ch := make(chan lzppp.Progress, 4)
	done := make(chan struct{})
	go func() {
		defer close(done)
		var last int64
		for {
			select {
			case p, ok := <-ch:
				if !ok {
					return
				}
				if bar != nil {
					cur := metric(p)
					bar.Add(int(cur - last))
					last = cur
				}
				trace(cf.Verbose, "block %d: written=%d read=%d", p.Block, p.Written, p.Read)
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch, func() {
		close(ch)
		<-done
		if bar != nil {
			fmt.Fprintln(os.Stderr)
		}
	}
}

func runCompressCmd(ctx context.Context, values interface{}, args []string) error {
	cf := values.(*compressFlags)
	return runCompress(uint(cf.Bits), args[0], args[1], cf.CommonFlags)
}

func runCompress(bits uint, inPath, outPath string, common CommonFlags) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	cmdutil.HandleSignals(cancel, os.Interrupt)

	in, size, readCleanup, err := openRead(ctx, inPath)
	if err != nil {
		return err
	}
	defer readCleanup(ctx)

	out, err := createOutput(outPath)
	if err != nil {
		return err
	}

	progressCh, stopProgress := newProgress(ctx, size, common, func(p lzppp.Progress) int64 { return p.Read })

	start := time.Now()
	var copts []lzppp.CompressOption
	copts = append(copts, lzppp.WithTableBits(bits))
	if progressCh != nil {
		copts = append(copts, lzppp.WithProgress(progressCh))
	}
	nread, nwritten, cerr := lzppp.Compress(out, in, copts...)
	stopProgress()

	errs := &errors.M{}
	errs.Append(cerr)
	errs.Append(out.Close())
	if ctxErr := ctx.Err(); ctxErr != nil {
		errs.Append(ctxErr)
	}
	if err := errs.Err(); err != nil {
		return err
	}

	ratio := 0.0
	if nread > 0 {
		ratio = (float64(nread) - float64(nwritten)) / float64(nread) * 100
	}
	fmt.Fprintf(os.Stderr, "%s (%d) -> %s (%d), ratio %.2f%%, in %s\n",
		inPath, nread, outPath, nwritten, ratio, time.Since(start).Round(time.Millisecond))
	return nil
}

func runDecompressCmd(ctx context.Context, values interface{}, args []string) error {
	cf := values.(*decompressFlags)
	return runDecompress(args[0], args[1], cf.CommonFlags)
}

func runDecompress(inPath, outPath string, common CommonFlags) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	cmdutil.HandleSignals(cancel, os.Interrupt)

	// The bar tracks bytes written, not bytes read, so its target is the
	// decoded size from the stamp, not the compressed file's size on
	// disk; peek at it through a throwaway handle before the real one
	// consumes the stream.
	var decodedSize int64
	if common.Progress || common.Verbose {
		probe, _, probeCleanup, perr := openRead(ctx, inPath)
		if perr == nil {
			if info, serr := lzppp.Stat(probe); serr == nil {
				decodedSize = info.DecodedSize
			}
			probeCleanup(ctx)
		}
	}

	in, _, readCleanup, err := openRead(ctx, inPath)
	if err != nil {
		return err
	}
	defer readCleanup(ctx)

	out, err := createOutput(outPath)
	if err != nil {
		return err
	}

	progressCh, stopProgress := newProgress(ctx, decodedSize, common, func(p lzppp.Progress) int64 { return p.Written })

	start := time.Now()
	var dopts []lzppp.DecompressOption
	if progressCh != nil {
		dopts = append(dopts, lzppp.WithDecompressProgress(progressCh))
	}
	nwritten, derr := lzppp.Decompress(out, in, dopts...)
	stopProgress()

	errs := &errors.M{}
	errs.Append(derr)
	errs.Append(out.Close())
	if ctxErr := ctx.Err(); ctxErr != nil {
		errs.Append(ctxErr)
	}
	if err := errs.Err(); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "%s -> %s (%d) in %s\n", inPath, outPath, nwritten, time.Since(start).Round(time.Millisecond))
	return nil
}

func statFile(ctx context.Context, values interface{}, args []string) error {
	name := args[0]
	rd, compressedSize, cleanup, err := openRead(ctx, name)
	if err != nil {
		return err
	}
	defer cleanup(ctx)

	info, err := lzppp.Stat(rd)
	if err != nil {
		return err
	}
	fmt.Printf("%s: table=2^%d blocks=%d lastBlockSize=%d decodedSize=%d compressedSize=%d\n",
		name, info.TableBits, info.Blocks, info.LastBlockSize, info.DecodedSize, compressedSize)
	return nil
}
