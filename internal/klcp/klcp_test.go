package klcp

import (
	"path/filepath"
	"testing"

	"github.com/bebop/kmatch/internal/bitvector"
)

func fromString(s string) *bitvector.BitVector {
	bv := bitvector.New(len(s))
	for i, c := range s {
		if c == '1' {
			bv.Set(i)
		}
	}
	return bv
}

func TestDecreaseKIncreaseL(t *testing.T) {
	// bits: 1 1 1 0 1 1 1 1 0  (indices 0..8)
	// zeros at 3 and 8 close the k-runs [0,3] and [4,8].
	l := NewForTest(fromString("111011110"), 3)

	cases := []struct {
		i, wantDecrease, wantIncrease int
	}{
		{0, 0, 3},
		{1, 0, 3},
		{2, 0, 3},
		{3, 0, 3},
		{4, 4, 8},
		{5, 4, 8},
		{6, 4, 8},
		{7, 4, 8},
		{8, 4, 8},
	}
	for _, c := range cases {
		if got := l.DecreaseK(c.i); got != c.wantDecrease {
			t.Errorf("DecreaseK(%d) = %d, want %d", c.i, got, c.wantDecrease)
		}
		if got := l.IncreaseL(c.i); got != c.wantIncrease {
			t.Errorf("IncreaseL(%d) = %d, want %d", c.i, got, c.wantIncrease)
		}
	}
}

func TestDecreaseKIncreaseLAgreeAcrossRun(t *testing.T) {
	l := NewForTest(fromString("0011111000111100"), 4)
	// Every position within the run [2,6] must report the same k-run
	// bounds (the correctness contract from SPEC_FULL.md §4.3).
	run := []int{2, 3, 4, 5, 6}
	wantDec, wantInc := l.DecreaseK(run[0]), l.IncreaseL(run[0])
	for _, i := range run {
		if got := l.DecreaseK(i); got != wantDec {
			t.Errorf("DecreaseK(%d) = %d, want %d (run disagreement)", i, got, wantDec)
		}
		if got := l.IncreaseL(i); got != wantInc {
			t.Errorf("IncreaseL(%d) = %d, want %d (run disagreement)", i, got, wantInc)
		}
	}
}

func TestWriteLoadRoundTrip(t *testing.T) {
	bv := fromString("10110100111000101101001")
	dir := t.TempDir()
	path := filepath.Join(dir, "ref.4.bit.klcp")

	if err := WriteFile(path, bv, 4, bv.Len()); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	loaded, err := Load(path, 4, bv.Len())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.K() != 4 {
		t.Errorf("K() = %d, want 4", loaded.K())
	}
	if loaded.Len() != bv.Len() {
		t.Fatalf("Len() = %d, want %d", loaded.Len(), bv.Len())
	}
	for i := 0; i < bv.Len(); i++ {
		if loaded.DecreaseK(i) != NewForTest(bv, 4).DecreaseK(i) {
			t.Errorf("DecreaseK(%d) mismatch after round-trip", i)
		}
	}
}

func TestLoadRejectsMismatchedHeader(t *testing.T) {
	bv := fromString("1010101010")
	dir := t.TempDir()
	path := filepath.Join(dir, "ref.5.bit.klcp")
	if err := WriteFile(path, bv, 5, bv.Len()); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := Load(path, 6, bv.Len()); err == nil {
		t.Fatal("Load with wrong k should fail")
	}
	if _, err := Load(path, 5, bv.Len()+1); err == nil {
		t.Fatal("Load with wrong total should fail")
	}
}
