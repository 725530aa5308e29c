package fastq

import (
	"errors"
	"io"
	"strings"
	"testing"
)

func TestParseNext(t *testing.T) {
	const content = `@e3cc70d5-90ef-49b6-bbe1-cfef99537d73 runid=99790f25859e24307203c25273f3a8be8283e7eb ch=53
GATTACANACGT
+
IIIIIII#IIII
`
	const maxLineSize = 2 * 32 * 1024
	parser := NewParser(strings.NewReader(content), maxLineSize)

	record, _, err := parser.ParseNext()
	if err != nil {
		t.Fatalf("ParseNext: %v", err)
	}
	if record.Identifier != "e3cc70d5-90ef-49b6-bbe1-cfef99537d73" {
		t.Errorf("Identifier = %q", record.Identifier)
	}
	if record.Optionals["ch"] != "53" {
		t.Errorf("Optionals[ch] = %q, want 53", record.Optionals["ch"])
	}
	if record.Sequence != "GATTACANACGT" {
		t.Errorf("Sequence = %q", record.Sequence)
	}
	want := []byte{2, 0, 3, 3, 0, 1, 0, 4, 0, 1, 2, 3}
	if len(record.Codes) != len(want) {
		t.Fatalf("Codes length = %d, want %d", len(record.Codes), len(want))
	}
	for i := range want {
		if record.Codes[i] != want[i] {
			t.Errorf("Codes[%d] = %d, want %d", i, record.Codes[i], want[i])
		}
	}

	if _, _, err := parser.ParseNext(); !errors.Is(err, io.EOF) {
		t.Errorf("second ParseNext: got %v, want io.EOF", err)
	}
}

func TestParseNextMissingQuality(t *testing.T) {
	const content = "@r1\nACGT\n+\n"
	parser := NewParser(strings.NewReader(content), 256)
	if _, _, err := parser.ParseNext(); err == nil {
		t.Fatal("expected an error for a record truncated before its quality line")
	}
}

func TestParseNextEmptySequence(t *testing.T) {
	const content = "@r1\n\n+\nIIII\n"
	parser := NewParser(strings.NewReader(content), 256)
	if _, _, err := parser.ParseNext(); err == nil {
		t.Fatal("expected an error for an empty sequence line")
	}
}

func TestParseNextMissingIdentifier(t *testing.T) {
	const content = "r1\nACGT\n+\nIIII\n"
	parser := NewParser(strings.NewReader(content), 256)
	if _, _, err := parser.ParseNext(); err == nil {
		t.Fatal("expected an error when the identifier line is missing '@'")
	}
}

func TestParseNextBufferTooSmall(t *testing.T) {
	const content = "@r1\nACGTACGTACGTACGTACGTACGT\n+\nIIIIIIIIIIIIIIIIIIIIIIII\n"
	parser := NewParser(strings.NewReader(content), 8)
	if _, _, err := parser.ParseNext(); err == nil {
		t.Fatal("expected an error with too small a buffer")
	}
}

func TestReset(t *testing.T) {
	parser := NewParser(strings.NewReader("@r1\nACGT\n+\nIIII\n"), 256)
	if _, _, err := parser.ParseNext(); err != nil {
		t.Fatalf("ParseNext: %v", err)
	}
	parser.Reset(strings.NewReader("@r2\nGGGG\n+\nIIII\n"))
	record, _, err := parser.ParseNext()
	if err != nil {
		t.Fatalf("ParseNext after Reset: %v", err)
	}
	if record.Identifier != "r2" {
		t.Errorf("Identifier after Reset = %q, want r2", record.Identifier)
	}
}
