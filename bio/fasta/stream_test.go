package fasta

import (
	"strings"
	"testing"
)

func TestSourceDrainsParser(t *testing.T) {
	file := strings.NewReader(">r1\nACGT\n>r2\nGGGGN\n")
	parser := NewParser(file, 256)
	src := NewSource(parser)

	var got []string
	for {
		r, ok, err := src.Next()
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if !ok {
			break
		}
		got = append(got, r.ID)
		if len(r.Codes) == 0 {
			t.Fatalf("empty Codes for %q", r.ID)
		}
	}
	if len(got) != 2 || got[0] != "r1" || got[1] != "r2" {
		t.Fatalf("got %v, want [r1 r2]", got)
	}
}

func TestSourceReportsMalformedRead(t *testing.T) {
	// A fasta stream that never sees a leading '>' before sequence data:
	// Next should fail with a non-EOF error, which Source wraps as
	// malformed rather than returning ok=false.
	file := strings.NewReader("ACGT\n")
	parser := NewParser(file, 256)
	src := NewSource(parser)

	_, _, err := src.Next()
	if err == nil {
		t.Fatal("Next should report an error for a fasta stream missing its identifier")
	}
}
