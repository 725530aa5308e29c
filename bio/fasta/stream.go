package fasta

import (
	"errors"
	"fmt"
	"io"

	"github.com/bebop/kmatch/internal/kmatcherr"
	"github.com/bebop/kmatch/internal/stream"
)

// Source adapts a Parser to internal/stream.ReadSource, pulling one
// record at a time via Next; internal/stream.Driver owns the batching.
// A malformed record (a Next error other than EOF) is reported wrapped
// in kmatcherr.ErrMalformedRead so the driver can skip it instead of
// aborting the whole stream.
type Source struct {
	parser *Parser
}

// NewSource wraps parser for streaming consumption.
func NewSource(parser *Parser) *Source {
	return &Source{parser: parser}
}

func (s *Source) Next() (stream.Read, bool, error) {
	record, err := s.parser.Next()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return stream.Read{}, false, nil
		}
		return stream.Read{}, false, fmt.Errorf("%w: %v", kmatcherr.ErrMalformedRead, err)
	}
	return stream.Read{ID: record.Identifier, Codes: record.Codes}, true, nil
}
