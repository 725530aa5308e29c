package kmer

import "github.com/bebop/kmatch/internal/fmindex"

// Resolver turns a suffix-array interval into the ordered, deduplicated
// list of reference ids it intersects (SPEC_FULL.md C5). It owns a
// scratch seen []bool array sized to the reference count, replacing a
// hash-set on the hot path, and a reusable output buffer: the slice
// Resolve returns aliases Resolver-owned storage and is only valid until
// the next call.
type Resolver struct {
	ix   *fmindex.Index
	seen []bool
	out  []int
}

// NewResolver builds a Resolver against ix. Create one per worker in a
// parallel driver; never share a Resolver across concurrent goroutines.
func NewResolver(ix *fmindex.Index) *Resolver {
	return &Resolver{ix: ix, seen: make([]bool, ix.NumRefs())}
}

// Resolve returns the reference ids intersecting iv, in order of first
// appearance in the suffix-array scan. An empty iv yields an empty
// slice. seen is guaranteed zero on entry and restored to zero before
// returning, per the caller contract in SPEC_FULL.md §4.5.
func (r *Resolver) Resolve(iv Interval, matchLen int) []int {
	r.out = r.out[:0]
	if iv.IsEmpty() {
		return r.out
	}
	for t := iv.K; t <= iv.L; t++ {
		pos, _, ok := r.ix.SAToPos(t, matchLen)
		if !ok {
			continue
		}
		rid, ok := r.ix.PosToRef(pos)
		if !ok || r.seen[rid] {
			continue
		}
		r.out = append(r.out, rid)
		r.seen[rid] = true
	}
	for _, rid := range r.out {
		r.seen[rid] = false
	}
	return r.out
}
