// Package search scans attached-process memory for byte patterns, the usual
// way a splitter finds a signature when a game's pointers move between
// patches.
package search

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/P1n3appl3/livesplit-wrapper/process"
)

// Pattern is a byte pattern with a wildcard mask: a mask byte of 0xFF
// requires an exact match, 0x00 matches anything.
type Pattern struct {
	Bytes []byte
	Mask  []byte
}

// Parse builds a Pattern from an IDA-style signature like "48 8B ?? 05".
// Tokens are two hex digits or "??" for a wildcard.
func Parse(s string) (Pattern, error) {
	var p Pattern
	for _, tok := range strings.Fields(s) {
		if tok == "??" || tok == "?" {
			p.Bytes = append(p.Bytes, 0)
			p.Mask = append(p.Mask, 0)
			continue
		}
		b, err := strconv.ParseUint(tok, 16, 8)
		if err != nil {
			return Pattern{}, fmt.Errorf("bad pattern token %q", tok)
		}
		p.Bytes = append(p.Bytes, byte(b))
		p.Mask = append(p.Mask, 0xFF)
	}
	if len(p.Bytes) == 0 {
		return Pattern{}, errors.New("empty pattern")
	}
	return p, nil
}

// Exact builds a Pattern matching data byte for byte.
func Exact(data []byte) Pattern {
	mask := make([]byte, len(data))
	for i := range mask {
		mask[i] = 0xFF
	}
	b := make([]byte, len(data))
	copy(b, data)
	return Pattern{Bytes: b, Mask: mask}
}

func (p Pattern) valid() bool {
	return len(p.Bytes) > 0 && len(p.Bytes) == len(p.Mask)
}

func (p Pattern) matchAt(data []byte, i int) bool {
	for j := range p.Bytes {
		if p.Mask[j] != 0 && data[i+j] != p.Bytes[j] {
			return false
		}
	}
	return true
}

// chunkSize is how much memory one boundary read requests while scanning.
const chunkSize = 64 * 1024

// Scan searches [start, start+length) of the attached process for pat and
// returns every match address in ascending order.
//
// The range is read in chunks with a pattern-length overlap, so matches
// straddling a chunk boundary are still found exactly once. Chunks the
// runtime cannot read, unmapped pages for example, are skipped rather than
// failing the scan; a closed process aborts it.
func Scan(p *process.Process, start process.Address, length uint64, pat Pattern) ([]process.Address, error) {
	return scan(p, start, length, pat, false)
}

// ScanFirst is Scan stopping at the first match. The second result reports
// whether a match was found.
func ScanFirst(p *process.Process, start process.Address, length uint64, pat Pattern) (process.Address, bool, error) {
	matches, err := scan(p, start, length, pat, true)
	if len(matches) > 0 {
		return matches[0], true, err
	}
	return 0, false, err
}

func scan(p *process.Process, start process.Address, length uint64, pat Pattern, first bool) ([]process.Address, error) {
	if !pat.valid() {
		return nil, errors.New("invalid pattern")
	}
	plen := len(pat.Bytes)
	if plen > chunkSize {
		return nil, errors.New("pattern longer than scan chunk")
	}

	var matches []process.Address
	buf := make([]byte, chunkSize)
	step := uint64(chunkSize - plen + 1)
	for off := uint64(0); off < length; off += step {
		want := uint64(chunkSize)
		if rem := length - off; rem < want {
			want = rem
		}
		if want < uint64(plen) {
			break
		}
		chunk := buf[:want]
		if err := p.ReadInto(start+process.Address(off), chunk); err != nil {
			if errors.Is(err, process.ErrReadFailed) {
				continue
			}
			return matches, err
		}
		for i := 0; i+plen <= len(chunk); i++ {
			if pat.matchAt(chunk, i) {
				matches = append(matches, start+process.Address(off)+process.Address(i))
				if first {
					return matches, nil
				}
			}
		}
	}
	return matches, nil
}
