// Package stream implements the read-stream driver (SPEC_FULL.md C6):
// it pulls batches of reads from a ReadSource, runs each through the
// k-mer engine and reference-set resolver, and writes the per-window
// output the way SPEC_FULL.md §6.4 describes.
//
// Batching mirrors the bounded-loop shape of
// kshedden-muscato/utils/fastq.go's ReadInSeq.Next: pull up to BatchSize
// reads, process them, repeat until the source is exhausted.
package stream

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/bebop/kmatch/internal/fmindex"
	"github.com/bebop/kmatch/internal/klcp"
	"github.com/bebop/kmatch/internal/kmatcherr"
	"github.com/bebop/kmatch/internal/kmer"
	"github.com/bebop/kmatch/internal/seqcode"
)

// Read is a single decoded record pulled from a ReadSource: base codes
// ready for the search engine, plus the identifier the output is keyed
// under.
type Read struct {
	ID    string
	Codes []byte
}

// ReadSource supplies one decoded Read at a time. Next returns false,nil
// once the underlying stream is exhausted. An error wrapping
// kmatcherr.ErrMalformedRead is counted and the record skipped; any other
// non-nil error (io.EOF included) is fatal and stops the driver.
type ReadSource interface {
	Next() (Read, bool, error)
}

// Options configures a Driver. Zero value is not usable; use NewDriver's
// defaulting for BatchSize.
type Options struct {
	BatchSize     int  // reads pulled per batch; default 1<<18
	EmitRefSets   bool // -v: print resolved reference ids per window
	SkipAfterFail bool
	KLen          int
	UseKLCP       bool
	CancelCheck   func() bool // polled between batches; nil disables cancellation
}

const defaultBatchSize = 1 << 18

// Stats summarizes one Run call.
type Stats struct {
	ReadsProcessed   int
	WindowsEmitted   int
	MalformedSkipped int
	Elapsed          time.Duration
}

// Driver owns the shared, read-only search state (engine, resolver) and
// the output writer for a single `kmatch match` invocation.
type Driver struct {
	eng    *kmer.Engine
	res    *kmer.Resolver
	w      *bufio.Writer
	opts   Options
	logger *log.Logger
}

// NewDriver builds a Driver. kl may be nil; when opts.UseKLCP is true and
// kl is nil, NewDriver panics, since that combination can only arise from
// a programming error in the CLI layer (commands.go is responsible for
// loading the kLCP file before constructing the driver).
func NewDriver(ix *fmindex.Index, kl *klcp.KLCP, out io.Writer, opts Options, logger *log.Logger) *Driver {
	if opts.BatchSize <= 0 {
		opts.BatchSize = defaultBatchSize
	}
	if opts.UseKLCP && kl == nil {
		panic("stream: UseKLCP set but kl is nil")
	}
	var engKL *klcp.KLCP
	if opts.UseKLCP {
		engKL = kl
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Driver{
		eng:    kmer.NewEngine(ix, engKL, opts.KLen, opts.SkipAfterFail),
		res:    kmer.NewResolver(ix),
		w:      bufio.NewWriter(out),
		opts:   opts,
		logger: logger,
	}
}

// Run drains src, processing reads in batches of opts.BatchSize and
// writing one output block per read per SPEC_FULL.md §6.4. Each batch is
// tagged with a correlation id in the driver's log lines, grounded on
// kshedden-muscato/cmd/muscato's per-run uuid.NewUUID() identifiers.
func (d *Driver) Run(src ReadSource) (Stats, error) {
	start := time.Now()
	var stats Stats

	batchID := 0
	for {
		if d.opts.CancelCheck != nil && d.opts.CancelCheck() {
			break
		}
		xuid, err := uuid.NewUUID()
		if err != nil {
			return stats, fmt.Errorf("stream: generating batch id: %w", err)
		}
		n, done, err := d.runBatch(src, &stats)
		if err != nil {
			return stats, err
		}
		if n > 0 {
			d.logger.Printf("batch %d (%s): processed %d reads", batchID, xuid.String(), n)
		}
		batchID++
		if done {
			break
		}
	}

	if err := d.w.Flush(); err != nil {
		return stats, err
	}
	stats.Elapsed = time.Since(start)
	return stats, nil
}

// runBatch pulls up to opts.BatchSize reads and processes them,
// returning the count processed and whether the source is exhausted.
func (d *Driver) runBatch(src ReadSource, stats *Stats) (int, bool, error) {
	n := 0
	for n < d.opts.BatchSize {
		read, ok, err := src.Next()
		if err != nil {
			if isMalformed(err) {
				stats.MalformedSkipped++
				d.logger.Printf("skipping malformed read: %v", err)
				continue
			}
			return n, true, err
		}
		if !ok {
			return n, true, nil
		}
		if err := d.processRead(read, stats); err != nil {
			return n, true, err
		}
		n++
		stats.ReadsProcessed++
	}
	return n, false, nil
}

func isMalformed(err error) bool {
	return err != nil && errors.Is(err, kmatcherr.ErrMalformedRead)
}

// processRead writes the header line (the decoded ACGTN bases of the
// read, per SPEC_FULL.md §6.4) and then one line per window. The header
// line is written for every read; there is no option to suppress it.
func (d *Driver) processRead(read Read, stats *Stats) error {
	if _, err := fmt.Fprintf(d.w, "#%s\n", seqcode.DecodeAll(read.Codes)); err != nil {
		return err
	}
	d.eng.Scan(read.Codes, func(startPos int, iv kmer.Interval) {
		stats.WindowsEmitted++
		if !d.opts.EmitRefSets {
			return
		}
		if iv.IsEmpty() {
			fmt.Fprintln(d.w, 0)
			return
		}
		rids := d.res.Resolve(iv, d.eng.KLen())
		fmt.Fprint(d.w, len(rids))
		for _, rid := range rids {
			fmt.Fprintf(d.w, " %d", rid)
		}
		fmt.Fprintln(d.w)
	})
	return nil
}
