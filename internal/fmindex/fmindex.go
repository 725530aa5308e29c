// Package fmindex is the FM-index adaptor (SPEC_FULL.md C2). It hides the
// on-disk layout of a pre-built reference index behind four operations —
// RankC, RangeRank, SAToPos, and PosToRef — so the search engine in
// internal/kmer never touches index-format details directly.
//
// Building the BWT of a reference collection is explicitly out of scope
// for this package (SPEC_FULL.md Non-goals): Load only ever reads a
// previously-built index. A naive from-scratch constructor,
// BuildForTest in testfixture.go, exists to manufacture fixtures for the
// round-trip tests in SPEC_FULL.md §8 — it is exported for other
// packages' tests, and cmd/kmatch never calls it.
//
// The rank/occurrence support is four parallel bitvector.RankVectors, one
// per base, rather than the wavelet tree the teacher's search/bwt package
// uses for its run-length-compressed BWT: this domain's alphabet is
// always exactly {A,C,G,T} plus one separator symbol, so a wavelet tree's
// generality (built for arbitrary run-length-compressed alphabets) buys
// nothing here.
package fmindex

import (
	"errors"
	"fmt"
	"sort"

	"github.com/bebop/kmatch/internal/bitvector"
	"github.com/bebop/kmatch/internal/kmatcherr"
	"github.com/bebop/kmatch/internal/seqcode"
)

// Strand distinguishes which orientation of the reference a suffix-array
// sample falls in. This implementation only ever builds a single-strand
// index (SPEC_FULL.md §4.4's Open Question resolution): Strand always
// reports Forward, but the type is kept in SAToPos's signature so a
// future dual-strand index can be introduced without changing callers.
type Strand int

const (
	Forward Strand = iota
	Reverse
)

const numBases = 4 // A,C,G,T coded 0..3; seqcode.Separator (4) marks reference boundaries

// Index is the immutable, read-only handle to a loaded FM-index: BWT rank
// support per base, the C[] array, a suffix array, and a reference-name
// table. It carries owned buffers; callers receive pointers into the
// same handle; there is no mutation after Load returns.
type Index struct {
	total int // L_total

	rank [numBases]*bitvector.RankVector
	c    [numBases]int

	sa []int32 // SA[t] = text position of the suffix ranked t

	refStarts []int // ascending start offsets of each reference
	refEnds   []int // exclusive end offsets
	refNames  []string

	bwtChecksum [32]byte
}

// Len returns L_total, the length of the concatenated reference text
// (including separators).
func (ix *Index) Len() int { return ix.total }

// NumRefs returns n_refs, the number of named references in the
// collection.
func (ix *Index) NumRefs() int { return len(ix.refNames) }

// RefName returns the name of reference rid.
func (ix *Index) RefName(rid int) string { return ix.refNames[rid] }

// Checksum returns the blake3-256 checksum of the loaded BWT, the value
// stored in (and verified against) the index file's trailer.
func (ix *Index) Checksum() [32]byte { return ix.bwtChecksum }

// RankC returns occ(i, c): the number of occurrences of base c in
// bwt[0, i), exclusive of i. i ranges over [0, total]; RankC(0, c) = 0 and
// RankC(total, c) is the total occurrence count of c.
func (ix *Index) RankC(i int, c byte) int {
	if c >= numBases {
		panic(fmt.Sprintf("fmindex: RankC called with non-base symbol %d", c))
	}
	if i <= 0 {
		return 0
	}
	if i > ix.total {
		i = ix.total
	}
	return ix.rank[c].Rank1(i - 1)
}

// RangeRank returns the paired rank (occ(k-1, c), occ(l, c)) used by a
// single backward-search step, per SPEC_FULL.md §4.4.
func (ix *Index) RangeRank(k, l int, c byte) (ok, ol int) {
	return ix.RankC(k-1, c), ix.RankC(l, c)
}

// C returns C[c], the number of symbols lexicographically smaller than c
// in the whole text (separators count as smaller than every base).
func (ix *Index) C(c byte) int {
	if c >= numBases {
		panic(fmt.Sprintf("fmindex: C called with non-base symbol %d", c))
	}
	return ix.c[c]
}

// SAToPos maps suffix-array rank t to a text position. matchLen is
// accepted for interface fidelity with a future sampled suffix array
// (where resolving a position requires walking matchLen or fewer LF steps
// to the nearest sample); this implementation stores a fully-materialized
// suffix array, so matchLen is unused.
func (ix *Index) SAToPos(t int, matchLen int) (pos int, strand Strand, ok bool) {
	_ = matchLen
	if t < 0 || t >= ix.total {
		return 0, Forward, false
	}
	return int(ix.sa[t]), Forward, true
}

// PosToRef maps a text position to the reference id owning it. It
// reports ok=false for positions that fall on a separator (between
// references).
func (ix *Index) PosToRef(pos int) (rid int, ok bool) {
	if pos < 0 || pos >= ix.total {
		return 0, false
	}
	// refStarts is sorted ascending; find the last start <= pos.
	i := sort.Search(len(ix.refStarts), func(i int) bool { return ix.refStarts[i] > pos }) - 1
	if i < 0 {
		return 0, false
	}
	if pos >= ix.refEnds[i] {
		return 0, false
	}
	return i, true
}

// BWTAt reconstructs bwt[i], the coded symbol at BWT position i (0..3
// for a base, seqcode.Separator for a reference boundary). It is derived
// on demand from the per-symbol rank bitvectors rather than stored as a
// plain byte array: production search never needs the raw BWT byte at
// an arbitrary position, only the offline kLCP builder does, and it is
// cold-path enough that an O(numBases) lookup per call is no loss.
func (ix *Index) BWTAt(i int) byte {
	for c := byte(0); c < numBases; c++ {
		if ix.rank[c].BitVector().IsSet(i) {
			return c
		}
	}
	return seqcode.Separator
}

// Load reads the FM-index artifacts at the given prefix (the file
// "<prefix>.fmi", per SPEC_FULL.md §6.2).
func Load(prefix string) (*Index, error) {
	ix, err := readIndexFile(prefix + ".fmi")
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", kmatcherr.ErrIndexLoad, prefix, err)
	}
	return ix, nil
}

func newIndexFromBWT(bwt []byte, sa []int32, refStarts, refEnds []int, refNames []string, checksum [32]byte) (*Index, error) {
	total := len(bwt)
	if len(sa) != total {
		return nil, errors.New("fmindex: suffix array length does not match bwt length")
	}
	ix := &Index{
		total:       total,
		sa:          sa,
		refStarts:   refStarts,
		refEnds:     refEnds,
		refNames:    refNames,
		bwtChecksum: checksum,
	}

	var bvs [numBases]*bitvector.BitVector
	for c := 0; c < numBases; c++ {
		bvs[c] = bitvector.New(total)
	}
	counts := [numBases]int{}
	numSep := 0
	for i, sym := range bwt {
		if sym >= numBases {
			numSep++
			continue
		}
		bvs[sym].Set(i)
		counts[sym]++
	}
	for c := 0; c < numBases; c++ {
		ix.rank[c] = bitvector.NewRankVector(bvs[c])
	}
	ix.c[0] = numSep
	for c := 1; c < numBases; c++ {
		ix.c[c] = ix.c[c-1] + counts[c-1]
	}
	return ix, nil
}
