package seqcode

import "testing"

func TestEncodeDecodeRoundTrip(t *testing.T) {
	seq := []byte("ACGTacgtN")
	codes := EncodeAll(seq)
	want := []byte{0, 1, 2, 3, 0, 1, 2, 3, Ambiguous}
	for i := range want {
		if codes[i] != want[i] {
			t.Fatalf("EncodeAll[%d] = %d, want %d", i, codes[i], want[i])
		}
	}
	decoded := DecodeAll(codes)
	if string(decoded) != "ACGTACGTN" {
		t.Fatalf("DecodeAll = %q, want %q", decoded, "ACGTACGTN")
	}
}

func TestReverseComplement(t *testing.T) {
	codes := EncodeAll([]byte("ACGTACGT"))
	rc := ReverseComplement(codes)
	got := string(DecodeAll(rc))
	want := "ACGTACGT" // ACGTACGT reverse-complemented is itself
	if got != want {
		t.Fatalf("ReverseComplement(%q) = %q, want %q", "ACGTACGT", got, want)
	}

	codes2 := EncodeAll([]byte("AACCGGTT"))
	got2 := string(DecodeAll(ReverseComplement(codes2)))
	want2 := "AACCGGTT"
	if got2 != want2 {
		t.Fatalf("ReverseComplement(%q) = %q, want %q", "AACCGGTT", got2, want2)
	}

	codes3 := EncodeAll([]byte("ACGTN"))
	got3 := string(DecodeAll(ReverseComplement(codes3)))
	if got3 != "NACGT" {
		t.Fatalf("ReverseComplement(%q) = %q, want %q", "ACGTN", got3, "NACGT")
	}
}
