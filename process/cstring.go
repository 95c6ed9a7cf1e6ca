package process

import (
	"bytes"
	"strings"
	"unicode/utf8"
)

// maxCString bounds the payload of a C string read. The backing buffer has
// one extra slot so a terminator can always be represented even for a
// maximal string.
const maxCString = 255

// ReadCString decodes a NUL-terminated string starting at addr.
//
// Up to 255 bytes are requested in a single boundary read, so the cost is
// bounded no matter what lives at addr. A failed read is reported as
// ErrReadFailed. If none of the 255 bytes is a terminator the address does
// not hold a supported string and ErrStringTooLong is returned. Bytes that
// are not valid UTF-8 are decoded lossily, each invalid run becoming one
// U+FFFD replacement character.
func (p *Process) ReadCString(addr Address) (string, error) {
	var buf [maxCString + 1]byte
	if err := p.ReadInto(addr, buf[:maxCString]); err != nil {
		return "", err
	}
	n := bytes.IndexByte(buf[:maxCString], 0)
	if n < 0 {
		return "", ErrStringTooLong
	}
	s := buf[:n]
	if !utf8.Valid(s) {
		return strings.ToValidUTF8(string(s), string(utf8.RuneError)), nil
	}
	return string(s), nil
}
