// Package hexdump formats byte buffers for diagnostic output, typically a
// region of game memory a splitter wants to inspect through its log.
package hexdump

import (
	"fmt"
	"strings"
)

// Options customizes the dump layout. The zero value is usable; unset
// fields fall back to the defaults Dump uses.
type Options struct {
	// BytesPerLine is the number of bytes shown per line. Default 16.
	BytesPerLine int

	// BaseAddress offsets the address column, so the dump lines up with
	// the remote addresses the bytes came from.
	BaseAddress uint64

	// HideASCII drops the trailing ASCII column.
	HideASCII bool

	// HideOffset drops the leading address column.
	HideOffset bool
}

// Dump renders data with 16 bytes per line, an address column and an ASCII
// column.
func Dump(data []byte) string {
	return DumpWith(data, Options{})
}

// DumpWith renders data according to o.
func DumpWith(data []byte, o Options) string {
	width := o.BytesPerLine
	if width <= 0 {
		width = 16
	}

	var sb strings.Builder
	for base := 0; base < len(data); base += width {
		end := base + width
		if end > len(data) {
			end = len(data)
		}

		if !o.HideOffset {
			fmt.Fprintf(&sb, "%08X  ", o.BaseAddress+uint64(base))
		}
		for i := base; i < base+width; i++ {
			if i < end {
				fmt.Fprintf(&sb, "%02X ", data[i])
			} else {
				sb.WriteString("   ")
			}
		}
		if !o.HideASCII {
			sb.WriteByte(' ')
			for i := base; i < end; i++ {
				c := data[i]
				if c < 0x20 || c > 0x7E {
					c = '.'
				}
				sb.WriteByte(c)
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
