// Package klcp implements the kLCP structure (SPEC_FULL.md C3): a
// bitvector over suffix-array positions that lets the rolling k-mer
// engine slide its search window in O(1) amortised time instead of
// re-running a cold backward search for every position of a read.
package klcp

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/golang/snappy"
	"github.com/natefinch/atomic"

	"github.com/bebop/kmatch/internal/bitvector"
	"github.com/bebop/kmatch/internal/kmatcherr"
)

var magic = [4]byte{'K', 'L', 'C', 'P'}

const formatVersion = uint16(1)

// KLCP wraps a loaded kLCP bitvector with the two navigators the search
// engine needs. Bit i is 1 iff the suffixes ranked i and i+1 share a
// prefix of length at least K(); the last bit is zero by convention.
type KLCP struct {
	rv *bitvector.RankVector
	k  int
}

// NewForTest wraps an already-built bitvector as a KLCP without going
// through the file format, for use by this package's own tests and by
// internal/kmer's engine tests, which need a KLCP paired with a
// klcp.Build result but have no reason to round-trip it through disk.
func NewForTest(bv *bitvector.BitVector, k int) *KLCP {
	return &KLCP{rv: bitvector.NewRankVector(bv), k: k}
}

// K returns the k-mer length this kLCP bitvector was built for.
func (l *KLCP) K() int { return l.k }

// Len returns L_total, the number of suffix-array positions covered.
func (l *KLCP) Len() int { return l.rv.BitVector().Len() }

// DecreaseK returns the largest j <= i such that B[j-1] = 0 or j = 0:
// the left end of the k-run containing i.
func (l *KLCP) DecreaseK(i int) int {
	if i <= 0 {
		return 0
	}
	j := l.rv.PrevZero(i - 1)
	if j < 0 {
		return 0
	}
	return j + 1
}

// IncreaseL returns the smallest j >= i such that B[j] = 0: the right
// end of the k-run containing i.
func (l *KLCP) IncreaseL(i int) int {
	return l.rv.NextZero(i)
}

// Load reads a "<prefix>.<k>.bit.klcp" file (SPEC_FULL.md §6.2) and
// checks its header against the k and L_total the runtime expects,
// returning kmatcherr.ErrKLCPMismatch on disagreement.
func Load(path string, wantK, wantTotal int) (*KLCP, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", kmatcherr.ErrIndexLoad, path, err)
	}
	defer f.Close()
	r := bufio.NewReader(f)

	var got [4]byte
	if _, err := io.ReadFull(r, got[:]); err != nil {
		return nil, err
	}
	if got != magic {
		return nil, fmt.Errorf("klcp: bad magic in %s, not a KLCP file", path)
	}
	var version uint16
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return nil, err
	}
	if version != formatVersion {
		return nil, fmt.Errorf("klcp: unsupported format version %d", version)
	}
	var k uint32
	if err := binary.Read(r, binary.LittleEndian, &k); err != nil {
		return nil, err
	}
	var total uint64
	if err := binary.Read(r, binary.LittleEndian, &total); err != nil {
		return nil, err
	}
	if int(k) != wantK || int(total) != wantTotal {
		return nil, fmt.Errorf("%w: file has k=%d total=%d, runtime expects k=%d total=%d",
			kmatcherr.ErrKLCPMismatch, k, total, wantK, wantTotal)
	}

	nWords := (int(total) + 63) / 64
	var compressedLen uint64
	if err := binary.Read(r, binary.LittleEndian, &compressedLen); err != nil {
		return nil, err
	}
	compressed := make([]byte, compressedLen)
	if _, err := io.ReadFull(r, compressed); err != nil {
		return nil, err
	}
	buf, err := snappy.Decode(nil, compressed)
	if err != nil {
		return nil, fmt.Errorf("klcp: %s: corrupt snappy block: %w", path, err)
	}
	if len(buf) != 8*nWords {
		return nil, fmt.Errorf("klcp: %s: decompressed size %d, want %d", path, len(buf), 8*nWords)
	}
	words := make([]uint64, nWords)
	for i := range words {
		words[i] = binary.LittleEndian.Uint64(buf[i*8:])
	}
	bv := bitvector.FromWords(words, int(total))
	return &KLCP{rv: bitvector.NewRankVector(bv), k: int(wantK)}, nil
}

// WriteFile writes bv as a "<prefix>.<k>.bit.klcp" artifact. The packed
// bitvector is snappy-compressed, matching the teacher pack's treatment
// of other large intermediate match artifacts (muscato_screen's
// bmatch*.txt.sz files), then the whole file is renamed into place
// atomically so a crash or concurrent `kmatch index` run never leaves a
// truncated kLCP file at path.
func WriteFile(path string, bv *bitvector.BitVector, k, total int) error {
	var buf bytes.Buffer
	w := bufio.NewWriter(&buf)

	if _, err := w.Write(magic[:]); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, formatVersion); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(k)); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint64(total)); err != nil {
		return err
	}
	words := bv.Words()
	raw := make([]byte, 8*len(words))
	for i, word := range words {
		binary.LittleEndian.PutUint64(raw[i*8:], word)
	}
	compressed := snappy.Encode(nil, raw)
	if err := binary.Write(w, binary.LittleEndian, uint64(len(compressed))); err != nil {
		return err
	}
	if _, err := w.Write(compressed); err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return atomic.WriteFile(path, &buf)
}
