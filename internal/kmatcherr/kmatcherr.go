// Package kmatcherr defines the fatal error kinds from SPEC_FULL.md §7.
// It stays with the stdlib errors package and fmt.Errorf("...: %w", err)
// wrapping, matching how the teacher's bio/fasta and bio/fastq packages
// report errors; grailbio-bio reaches for github.com/pkg/errors but the
// teacher never does, and nothing here needs stack traces beyond what
// %w wrapping already gives a caller via errors.Is/errors.As.
package kmatcherr

import "errors"

// Sentinel error kinds. Wrap with fmt.Errorf("...: %w", ErrX) to attach
// context while staying errors.Is-comparable.
var (
	// ErrIndexLoad is returned when the FM-index artifacts at a given
	// prefix are missing or malformed.
	ErrIndexLoad = errors.New("index load failure")

	// ErrKLCPMismatch is returned when a loaded kLCP file's header k or
	// L_total disagrees with the runtime configuration or index.
	ErrKLCPMismatch = errors.New("klcp mismatch")

	// ErrMalformedRead is returned by a ReadSource when a record cannot
	// be decoded; the driver logs and skips it, it is never fatal.
	ErrMalformedRead = errors.New("malformed read")

	// ErrInvalidArgs is returned for malformed CLI arguments.
	ErrInvalidArgs = errors.New("invalid arguments")
)
