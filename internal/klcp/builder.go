package klcp

import (
	"fmt"

	"github.com/bebop/kmatch/internal/bitvector"
	"github.com/bebop/kmatch/internal/fmindex"
	"github.com/bebop/kmatch/internal/seqcode"
)

// Build computes the kLCP bitvector for k against an already-loaded
// FM-index (SPEC_FULL.md C7, offline). It takes option (a) from the
// design: a direct LCP scan bounded at k, comparing characters that are
// recovered on demand from the index's BWT and suffix array rather than
// ever materializing the decoded reference text.
func Build(ix *fmindex.Index, k int) (*bitvector.BitVector, error) {
	total := ix.Len()
	bv := bitvector.New(total)
	if total == 0 {
		return bv, nil
	}

	// isa[p] is the suffix-array rank of the suffix starting at text
	// position p; inverting the suffix array once costs O(total) and lets
	// charAt below recover any text character in O(1).
	isa := make([]int, total)
	for t := 0; t < total; t++ {
		pos, _, ok := ix.SAToPos(t, 0)
		if !ok {
			return nil, fmt.Errorf("klcp: SAToPos(%d) failed during build", t)
		}
		isa[pos] = t
	}
	charAt := func(pos int) byte {
		return ix.BWTAt(isa[(pos+1)%total])
	}

	for i := 0; i < total-1; i++ {
		posA, _, _ := ix.SAToPos(i, 0)
		posB, _, _ := ix.SAToPos(i+1, 0)
		lcp := 0
		for lcp < k && posA+lcp < total && posB+lcp < total {
			ca := charAt(posA + lcp)
			cb := charAt(posB + lcp)
			if ca != cb || ca == seqcode.Ambiguous {
				break // a reference boundary never extends a shared prefix
			}
			lcp++
		}
		if lcp >= k {
			bv.Set(i)
		}
	}
	// Bit total-1 stays zero: the loop above never assigns to it, matching
	// the "last bit is zero by convention" invariant.
	return bv, nil
}
