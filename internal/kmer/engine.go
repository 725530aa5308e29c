// Package kmer implements the streaming k-mer search engine (SPEC_FULL.md
// C4) and its reference-set resolver (C5): cold-start FM-index backward
// search, kLCP-accelerated rolling extension between adjacent windows of
// a read, and the per-read driver that decides which of the two to use
// at each step.
package kmer

import (
	"github.com/bebop/kmatch/internal/fmindex"
	"github.com/bebop/kmatch/internal/klcp"
	"github.com/bebop/kmatch/internal/seqcode"
)

// Interval is an inclusive suffix-array range [K, L] of suffixes sharing
// a common prefix. It is Empty when K > L.
type Interval struct {
	K, L int
}

// Empty is the distinguished empty-interval marker.
var Empty = Interval{K: 1, L: 0}

// IsEmpty reports whether iv represents no match.
func (iv Interval) IsEmpty() bool { return iv.K > iv.L }

// Engine runs the cold-start and rolling-extension searches over an
// immutable, shared FM-index and (optionally) a kLCP structure. A single
// Engine is safe to share across reads processed sequentially; a future
// parallel driver would give each worker its own Engine wrapping the
// same Index and KLCP (both read-only) plus a private Resolver.
type Engine struct {
	ix            *fmindex.Index
	kl            *klcp.KLCP
	kLen          int
	skipAfterFail bool
}

// NewEngine builds an Engine for fixed-length windows of kLen bases. kl
// may be nil, which disables rolling extension: every window is then a
// fresh cold_search.
func NewEngine(ix *fmindex.Index, kl *klcp.KLCP, kLen int, skipAfterFail bool) *Engine {
	return &Engine{ix: ix, kl: kl, kLen: kLen, skipAfterFail: skipAfterFail}
}

// KLen returns the configured k-mer window length.
func (e *Engine) KLen() int { return e.kLen }

// ColdSearch runs a classic FM-index backward search over window
// (len(window) is normally e.kLen). It returns the resulting interval
// and how many leading symbols were consumed before either an ambiguous
// base or an empty interval cut the search short; matched == len(window)
// iff the whole window matched.
func (e *Engine) ColdSearch(window []byte) (Interval, int) {
	k, l := 0, e.ix.Len()
	for i, c := range window {
		if c >= seqcode.Ambiguous {
			return Empty, i
		}
		ok, ol := e.ix.RangeRank(k, l, c)
		k = e.ix.C(c) + ok + 1
		l = e.ix.C(c) + ol
		if k > l {
			return Empty, i + 1
		}
	}
	return Interval{K: k, L: l}, len(window)
}

// RollingExtend advances a non-empty previous-window interval by one
// position: drop the leftmost symbol (via the kLCP run bounds) and
// backward-search newChar. Callers must not call this with an empty
// prev; the per-read driver in Scan falls back to ColdSearch whenever
// prev is empty, which is also what naturally happens once an ambiguous
// base enters the window (ColdSearch returns Empty the instant it sees
// one, so prev stays Empty for as long as that base remains in the
// window, and rolling never resumes until a fresh ColdSearch succeeds).
func (e *Engine) RollingExtend(prev Interval, newChar byte) Interval {
	if prev.IsEmpty() {
		return Empty
	}
	if newChar >= seqcode.Ambiguous {
		return Empty
	}
	kp := e.kl.DecreaseK(prev.K)
	lp := e.kl.IncreaseL(prev.L)
	ok, ol := e.ix.RangeRank(kp, lp, newChar)
	k := e.ix.C(newChar) + ok + 1
	l := e.ix.C(newChar) + ol
	if k > l {
		return Empty
	}
	return Interval{K: k, L: l}
}

// Scan drives the per-read search described in SPEC_FULL.md §4.4: a cold
// start for the first window, then for every subsequent start position
// either a rolling extension (previous interval non-empty and kLCP
// loaded) or a fresh cold search, with the optional skip-after-fail
// heuristic collapsing long unproductive stretches. emit is called
// exactly once per start position in increasing order, preserving the
// "one line per window" output invariant regardless of skipping.
func (e *Engine) Scan(read []byte, emit func(startPos int, iv Interval)) {
	numWindows := len(read) - e.kLen + 1
	if numWindows <= 0 {
		return
	}

	iv, _ := e.ColdSearch(read[0:e.kLen])
	emit(0, iv)
	hadHit := !iv.IsEmpty()
	prev := iv
	prevWasEmpty := iv.IsEmpty()

	start := 1
	for start < numWindows {
		var cur Interval
		if e.kl != nil && !prev.IsEmpty() {
			newChar := read[start+e.kLen-1]
			cur = e.RollingExtend(prev, newChar)
		} else {
			cur, _ = e.ColdSearch(read[start : start+e.kLen])
		}

		if !cur.IsEmpty() {
			emit(start, cur)
			hadHit = true
			prevWasEmpty = false
			prev = cur
			start++
			continue
		}

		freshZeroRun := !prevWasEmpty
		emit(start, cur)
		prevWasEmpty = true
		prev = cur

		if e.skipAfterFail && hadHit && freshZeroRun {
			skip := e.kLen - 2
			for s := 0; s < skip && start+1 < numWindows; s++ {
				start++
				emit(start, Empty)
			}
		}
		start++
	}
}
