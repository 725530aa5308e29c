package bitvector

import "testing"

func fromString(s string) *BitVector {
	bv := New(len(s))
	for i, c := range s {
		if c == '1' {
			bv.Set(i)
		}
	}
	return bv
}

func TestIsSet(t *testing.T) {
	bv := fromString("001000100001")
	for i, want := range []bool{false, false, true, false, false, false, true, false, false, false, false, true} {
		if got := bv.IsSet(i); got != want {
			t.Errorf("IsSet(%d) = %v, want %v", i, got, want)
		}
	}
}

func TestRank1(t *testing.T) {
	bv := fromString("001000100001")
	rv := NewRankVector(bv)
	cases := []struct {
		i    int
		want int
	}{
		{0, 0},
		{1, 0},
		{2, 1},
		{3, 1},
		{7, 2},
		{8, 2},
		{11, 3},
	}
	for _, c := range cases {
		if got := rv.Rank1(c.i); got != c.want {
			t.Errorf("Rank1(%d) = %d, want %d", c.i, got, c.want)
		}
	}
}

func TestRank1AcrossBlocks(t *testing.T) {
	// 1200 bits, every 7th bit set, exercises multiple 512-bit blocks.
	n := 1200
	bv := New(n)
	var want []int
	cum := 0
	for i := 0; i < n; i++ {
		if i%7 == 0 {
			bv.Set(i)
			cum++
		}
		want = append(want, cum)
	}
	rv := NewRankVector(bv)
	for i := 0; i < n; i++ {
		if got := rv.Rank1(i); got != want[i] {
			t.Fatalf("Rank1(%d) = %d, want %d", i, got, want[i])
		}
	}
}

func TestNextZeroPrevZero(t *testing.T) {
	bv := fromString("001000100001")
	rv := NewRankVector(bv)

	nextCases := []struct{ i, want int }{
		{0, 0}, {1, 1}, {2, 3}, {3, 3}, {6, 7}, {11, 12},
	}
	for _, c := range nextCases {
		if got := rv.NextZero(c.i); got != c.want {
			t.Errorf("NextZero(%d) = %d, want %d", c.i, got, c.want)
		}
	}

	prevCases := []struct{ i, want int }{
		{0, 0}, {1, 1}, {2, 1}, {3, 3}, {6, 5}, {11, 10},
	}
	for _, c := range prevCases {
		if got := rv.PrevZero(c.i); got != c.want {
			t.Errorf("PrevZero(%d) = %d, want %d", c.i, got, c.want)
		}
	}
}

func TestPrevZeroOnlyZeroAtOrigin(t *testing.T) {
	bv := New(5)
	for i := 1; i < 5; i++ {
		bv.Set(i)
	}
	// bit 0 is the only zero.
	rv := NewRankVector(bv)
	if got := rv.PrevZero(0); got != 0 {
		t.Fatalf("PrevZero(0) = %d, want 0", got)
	}
}

func TestSetClearRoundTrip(t *testing.T) {
	bv := New(130)
	bv.Set(0)
	bv.Set(64)
	bv.Set(129)
	if !bv.IsSet(0) || !bv.IsSet(64) || !bv.IsSet(129) {
		t.Fatal("expected set bits to read back as set")
	}
	bv.Clear(64)
	if bv.IsSet(64) {
		t.Fatal("expected cleared bit to read back as unset")
	}
}

func TestFromWordsRoundTrip(t *testing.T) {
	bv := fromString("1011001000000001")
	words := bv.Words()
	bv2 := FromWords(words, bv.Len())
	for i := 0; i < bv.Len(); i++ {
		if bv.IsSet(i) != bv2.IsSet(i) {
			t.Fatalf("bit %d mismatch after FromWords round-trip", i)
		}
	}
}
