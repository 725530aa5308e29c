// Package seqcode encodes DNA bases into the small fixed alphabet the
// search engine operates over: 0..3 for A,C,G,T and 4 as the ambiguity
// sentinel for anything else (N, IUPAC codes, separators). It is a
// narrowed, byte-indexed version of the teacher's generic
// alphabet.Alphabet (map-of-interface{} keyed, arbitrary symbol lists);
// this domain only ever needs one fixed four-letter alphabet, so the
// generic abstraction is replaced with a direct lookup table on the hot
// path.
package seqcode

// Ambiguous is the sentinel code for any base outside {A,C,G,T}.
const Ambiguous byte = 4

// Separator is the code used between concatenated reference sequences in
// the FM-index text; it always sorts before every base.
const Separator byte = 4

var encodeTable = buildEncodeTable()

func buildEncodeTable() [256]byte {
	var t [256]byte
	for i := range t {
		t[i] = Ambiguous
	}
	t['A'] = 0
	t['a'] = 0
	t['C'] = 1
	t['c'] = 1
	t['G'] = 2
	t['g'] = 2
	t['T'] = 3
	t['t'] = 3
	return t
}

var decodeTable = [5]byte{'A', 'C', 'G', 'T', 'N'}

var complementTable = [5]byte{3, 2, 1, 0, 4} // A<->T, C<->G, N stays ambiguous

// Encode maps a single ASCII base to its code, 0..3 or Ambiguous.
func Encode(base byte) byte {
	return encodeTable[base]
}

// EncodeAll maps an ASCII sequence to its code slice.
func EncodeAll(seq []byte) []byte {
	codes := make([]byte, len(seq))
	for i, b := range seq {
		codes[i] = encodeTable[b]
	}
	return codes
}

// Decode maps a code back to its ASCII base ('N' for Ambiguous).
func Decode(code byte) byte {
	if code > Ambiguous {
		return 'N'
	}
	return decodeTable[code]
}

// DecodeAll maps a code slice back to an ASCII byte slice.
func DecodeAll(codes []byte) []byte {
	out := make([]byte, len(codes))
	for i, c := range codes {
		out[i] = Decode(c)
	}
	return out
}

// Complement returns the base-paired code (A<->T, C<->G); Ambiguous maps
// to itself.
func Complement(code byte) byte {
	if code > Ambiguous {
		return Ambiguous
	}
	return complementTable[code]
}

// ReverseComplement returns the reverse complement of a coded sequence.
// Searching a read's reverse complement against the index is how the
// caller recovers matches on the opposite strand; the engine itself never
// reverse-complements implicitly (see SPEC_FULL.md §4.4).
func ReverseComplement(codes []byte) []byte {
	out := make([]byte, len(codes))
	n := len(codes)
	for i, c := range codes {
		out[n-1-i] = Complement(c)
	}
	return out
}
