package ansimd

import (
	"errors"
	"strings"
	"unicode/utf8"
)

var (
	// ErrInvalidUTF8 reports input whose encoding is too corrupt to recover.
	ErrInvalidUTF8 = errors.New("invalid utf-8 input")
	// ErrBinaryInput reports input that appears to be binary.
	ErrBinaryInput = errors.New("binary input detected")
)

const (
	minBinarySample = 64
	maxControlPct   = 2
)

// sanitizeSource decodes src into clean text for the scanner. Isolated
// invalid byte sequences are replaced with U+FFFD; control runes other than
// newline, carriage return and tab are dropped. A NUL byte, or a control or
// invalid-byte density above the binary threshold, is fatal: decoding stops
// there and the text accumulated so far is returned together with the fault
// offset, so the caller can still render everything consumed before the
// fault.
func sanitizeSource(src []byte) (text string, consumed int, err error) {
	var b strings.Builder
	b.Grow(len(src))
	var total, control, invalid int
	i := 0
	for i < len(src) {
		r, size := utf8.DecodeRune(src[i:])
		if r == utf8.RuneError && size == 1 {
			total++
			invalid++
			if total >= minBinarySample && invalid*100 >= total*maxControlPct {
				return b.String(), i, ErrInvalidUTF8
			}
			b.WriteRune(utf8.RuneError)
			i++
			continue
		}
		if r == 0 {
			return b.String(), i, ErrBinaryInput
		}
		total += size
		if isControlRune(r) {
			control++
			if total >= minBinarySample && control*100 >= total*maxControlPct {
				return b.String(), i, ErrBinaryInput
			}
			i += size
			continue
		}
		b.WriteRune(r)
		i += size
	}
	return b.String(), len(src), nil
}

func isControlRune(r rune) bool {
	if r == '\n' || r == '\r' || r == '\t' {
		return false
	}
	return r < 0x20 || r == 0x7F
}
