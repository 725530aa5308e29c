package stream

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/bebop/kmatch/internal/kmatcherr"
	"github.com/bebop/kmatch/internal/seqcode"
)

// Mate identifies which half of a paired-end layout a binary record
// belongs to, per SPEC_FULL.md §6.3's mate-filter flag.
type Mate uint8

const (
	MateSingle Mate = iota
	MateFirst
	MateSecond
)

// ParseMate maps the -end flag's string value to a Mate, or an error
// wrapping kmatcherr.ErrInvalidArgs.
func ParseMate(s string) (Mate, error) {
	switch s {
	case "single":
		return MateSingle, nil
	case "first":
		return MateFirst, nil
	case "second":
		return MateSecond, nil
	default:
		return 0, fmt.Errorf("%w: unknown -end value %q", kmatcherr.ErrInvalidArgs, s)
	}
}

// Binary record layout, little-endian, one record after another until
// EOF:
//
//	mate     uint8
//	idLen    uint16
//	id       [idLen]byte
//	seqLen   uint32
//	seq      [seqLen]byte  ASCII bases, ambiguity codes allowed
//
// This is a minimal packed container for pre-decoded read sets (e.g. an
// upstream demultiplexing or adapter-trimming step writing directly to
// kmatch rather than round-tripping through FASTQ text); it carries no
// quality scores, which SPEC_FULL.md's Non-goals explicitly exclude from
// this system's concerns beyond upstream trimming.
type BinarySource struct {
	r      *bufio.Reader
	filter Mate
}

// NewBinarySource wraps r as a ReadSource, keeping only records whose
// mate tag matches want (MateSingle accepts every record, since an
// unpaired input has nothing to filter).
func NewBinarySource(r io.Reader, want Mate) *BinarySource {
	return &BinarySource{r: bufio.NewReader(r), filter: want}
}

// LineSource treats its input as one sequence per line, no identifier;
// each read's ID is its 1-based line number, and blank lines are skipped
// but still counted. This covers
// SPEC_FULL.md §6.3's plain-text input mode, for callers with no FASTQ
// headers or quality lines to carry.
type LineSource struct {
	scanner *bufio.Scanner
	lineNum int
}

// NewLineSource wraps r as a one-sequence-per-line ReadSource.
func NewLineSource(r io.Reader) *LineSource {
	return &LineSource{scanner: bufio.NewScanner(r)}
}

func (s *LineSource) Next() (Read, bool, error) {
	for s.scanner.Scan() {
		s.lineNum++
		line := s.scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		return Read{ID: fmt.Sprintf("%d", s.lineNum), Codes: seqcode.EncodeAll(line)}, true, nil
	}
	if err := s.scanner.Err(); err != nil {
		return Read{}, false, err
	}
	return Read{}, false, nil
}

func (s *BinarySource) Next() (Read, bool, error) {
	for {
		var mateByte uint8
		if err := binary.Read(s.r, binary.LittleEndian, &mateByte); err != nil {
			if err == io.EOF {
				return Read{}, false, nil
			}
			return Read{}, false, err
		}

		var idLen uint16
		if err := binary.Read(s.r, binary.LittleEndian, &idLen); err != nil {
			return Read{}, false, fmt.Errorf("%w: reading id length: %v", kmatcherr.ErrMalformedRead, err)
		}
		idBuf := make([]byte, idLen)
		if _, err := io.ReadFull(s.r, idBuf); err != nil {
			return Read{}, false, fmt.Errorf("%w: reading id: %v", kmatcherr.ErrMalformedRead, err)
		}

		var seqLen uint32
		if err := binary.Read(s.r, binary.LittleEndian, &seqLen); err != nil {
			return Read{}, false, fmt.Errorf("%w: reading sequence length: %v", kmatcherr.ErrMalformedRead, err)
		}
		seqBuf := make([]byte, seqLen)
		if _, err := io.ReadFull(s.r, seqBuf); err != nil {
			return Read{}, false, fmt.Errorf("%w: reading sequence: %v", kmatcherr.ErrMalformedRead, err)
		}

		mate := Mate(mateByte)
		if s.filter != MateSingle && mate != s.filter {
			continue
		}
		return Read{ID: string(idBuf), Codes: seqcode.EncodeAll(seqBuf)}, true, nil
	}
}
