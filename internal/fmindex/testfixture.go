package fmindex

import (
	"golang.org/x/exp/slices"
	"lukechampine.com/blake3"

	"github.com/bebop/kmatch/internal/seqcode"
)

// BuildForTest performs a naive suffix-array construction over a small
// set of named reference sequences. SPEC_FULL.md's Non-goals explicitly
// exclude BWT construction from production scope — cmd/kmatch never
// calls this — but internal/klcp and internal/kmer need real, small
// FM-index fixtures to exercise their round-trip and equivalence tests
// against, so this lives as an exported (not _test.go) helper rather
// than being duplicated in every package's test files.
//
// It is adapted from the teacher's search/bwt.New, which builds a BWT by
// sorting the rotations of a single string; this version sorts true
// suffixes of several concatenated, separator-delimited references, and
// treats the separator symbol as lexicographically smaller than every
// base regardless of its numeric code — seqcode.Separator is numerically
// the largest code (4), so a plain byte comparison would sort it the
// wrong way.
func BuildForTest(refs map[string]string) (*Index, error) {
	ix, _, err := buildForTest(refs)
	return ix, err
}

func buildForTest(refs map[string]string) (*Index, []byte, error) {
	names := make([]string, 0, len(refs))
	for name := range refs {
		names = append(names, name)
	}
	slices.Sort(names) // deterministic fixture ordering, independent of map iteration

	var text []byte
	refStarts := make([]int, len(names))
	refEnds := make([]int, len(names))
	for i, name := range names {
		refStarts[i] = len(text)
		text = append(text, seqcode.EncodeAll([]byte(refs[name]))...)
		refEnds[i] = len(text)
		text = append(text, seqcode.Separator)
	}

	n := len(text)
	sa := make([]int32, n)
	for i := range sa {
		sa[i] = int32(i)
	}
	slices.SortFunc(sa, func(a, b int32) int {
		return compareSuffixes(text, int(a), int(b))
	})

	bwt := make([]byte, n)
	for t, suffixStart32 := range sa {
		suffixStart := int(suffixStart32)
		if suffixStart == 0 {
			bwt[t] = text[n-1]
		} else {
			bwt[t] = text[suffixStart-1]
		}
	}

	checksum := blake3.Sum256(bwt)
	ix, err := newIndexFromBWT(bwt, sa, refStarts, refEnds, names, checksum)
	return ix, bwt, err
}

// compareSuffixes lexicographically compares text[a:] and text[b:], with
// seqcode.Separator sorting before every base code and a shorter suffix
// sorting before one that extends it.
func compareSuffixes(text []byte, a, b int) int {
	n := len(text)
	for a < n && b < n {
		ca, cb := suffixRank(text[a]), suffixRank(text[b])
		if ca != cb {
			return ca - cb
		}
		a++
		b++
	}
	switch {
	case a < n:
		return 1
	case b < n:
		return -1
	default:
		return 0
	}
}

func suffixRank(c byte) int {
	if c == seqcode.Separator {
		return -1
	}
	return int(c)
}
