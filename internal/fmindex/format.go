package fmindex

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/natefinch/atomic"
	"lukechampine.com/blake3"
)

// On-disk layout of "<prefix>.fmi" (SPEC_FULL.md §6.2), all integers
// little-endian:
//
//	magic      [4]byte  "FMIX"
//	version    uint16
//	total      uint64   L_total
//	nRefs      uint32
//	bwt        [total]byte   coded symbols, 0..3 bases or 4 for separator
//	sa         [total]int32  SA[t] = text position
//	refStarts  [nRefs]uint64
//	refEnds    [nRefs]uint64
//	refNames   nRefs * (uint16 length-prefixed UTF-8 string)
//	checksum   [32]byte      blake3-256 of the bwt bytes above
var magic = [4]byte{'F', 'M', 'I', 'X'}

const formatVersion = uint16(1)

// writeIndexFile renders a complete "<prefix>.fmi" image in memory, then
// renames it into place atomically (github.com/natefinch/atomic) so a
// reader never observes a partially written index file.
func writeIndexFile(path string, bwt []byte, sa []int32, refStarts, refEnds []int, refNames []string) error {
	var buf bytes.Buffer
	w := bufio.NewWriter(&buf)

	if _, err := w.Write(magic[:]); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, formatVersion); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint64(len(bwt))); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(len(refNames))); err != nil {
		return err
	}
	if _, err := w.Write(bwt); err != nil {
		return err
	}
	saBytes := make([]byte, 4*len(sa))
	for i, v := range sa {
		binary.LittleEndian.PutUint32(saBytes[i*4:], uint32(v))
	}
	if _, err := w.Write(saBytes); err != nil {
		return err
	}
	for _, s := range refStarts {
		if err := binary.Write(w, binary.LittleEndian, uint64(s)); err != nil {
			return err
		}
	}
	for _, e := range refEnds {
		if err := binary.Write(w, binary.LittleEndian, uint64(e)); err != nil {
			return err
		}
	}
	for _, name := range refNames {
		if len(name) > 0xFFFF {
			return fmt.Errorf("fmindex: reference name %q exceeds 65535 bytes", name)
		}
		if err := binary.Write(w, binary.LittleEndian, uint16(len(name))); err != nil {
			return err
		}
		if _, err := w.WriteString(name); err != nil {
			return err
		}
	}

	sum := blake3.Sum256(bwt)
	if _, err := w.Write(sum[:]); err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return atomic.WriteFile(path, &buf)
}

func readIndexFile(path string) (*Index, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	r := bufio.NewReader(f)

	var got [4]byte
	if _, err := io.ReadFull(r, got[:]); err != nil {
		return nil, err
	}
	if got != magic {
		return nil, errors.New("fmindex: bad magic, not an FMIX file")
	}
	var version uint16
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return nil, err
	}
	if version != formatVersion {
		return nil, fmt.Errorf("fmindex: unsupported format version %d", version)
	}
	var total uint64
	if err := binary.Read(r, binary.LittleEndian, &total); err != nil {
		return nil, err
	}
	var nRefs uint32
	if err := binary.Read(r, binary.LittleEndian, &nRefs); err != nil {
		return nil, err
	}

	bwt := make([]byte, total)
	if _, err := io.ReadFull(r, bwt); err != nil {
		return nil, err
	}
	saBytes := make([]byte, 4*total)
	if _, err := io.ReadFull(r, saBytes); err != nil {
		return nil, err
	}
	sa := make([]int32, total)
	for i := range sa {
		sa[i] = int32(binary.LittleEndian.Uint32(saBytes[i*4:]))
	}

	refStarts := make([]int, nRefs)
	for i := range refStarts {
		var v uint64
		if err := binary.Read(r, binary.LittleEndian, &v); err != nil {
			return nil, err
		}
		refStarts[i] = int(v)
	}
	refEnds := make([]int, nRefs)
	for i := range refEnds {
		var v uint64
		if err := binary.Read(r, binary.LittleEndian, &v); err != nil {
			return nil, err
		}
		refEnds[i] = int(v)
	}
	refNames := make([]string, nRefs)
	for i := range refNames {
		var l uint16
		if err := binary.Read(r, binary.LittleEndian, &l); err != nil {
			return nil, err
		}
		buf := make([]byte, l)
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, err
		}
		refNames[i] = string(buf)
	}

	var wantSum [32]byte
	if _, err := io.ReadFull(r, wantSum[:]); err != nil {
		return nil, err
	}
	gotSum := blake3.Sum256(bwt)
	if gotSum != wantSum {
		return nil, errors.New("fmindex: bwt checksum mismatch, file may be truncated or corrupt")
	}

	return newIndexFromBWT(bwt, sa, refStarts, refEnds, refNames, gotSum)
}
