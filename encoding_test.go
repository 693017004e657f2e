package ansimd

import (
	"errors"
	"strings"
	"testing"
)

func TestSanitizeCleanInput(t *testing.T) {
	src := []byte("plain text\nwith lines\tand tabs\r\n")
	text, consumed, err := sanitizeSource(src)
	if err != nil {
		t.Fatalf("sanitize: %v", err)
	}
	if consumed != len(src) {
		t.Fatalf("consumed %d, want %d", consumed, len(src))
	}
	if text != string(src) {
		t.Fatalf("clean input altered: %q", text)
	}
}

func TestSanitizeInvalidBytesReplaced(t *testing.T) {
	text, _, err := sanitizeSource([]byte("a\xff\xfeb"))
	if err != nil {
		t.Fatalf("isolated invalid bytes should not be fatal: %v", err)
	}
	if text != "a��b" {
		t.Fatalf("replacement mismatch: %q", text)
	}
}

func TestSanitizeControlRunesDropped(t *testing.T) {
	text, _, err := sanitizeSource([]byte("a\x07b\x1bc"))
	if err != nil {
		t.Fatalf("sparse control runes should not be fatal: %v", err)
	}
	if text != "abc" {
		t.Fatalf("control runes not dropped: %q", text)
	}
}

func TestSanitizeNULIsFatal(t *testing.T) {
	text, consumed, err := sanitizeSource([]byte("keep\x00drop"))
	if !errors.Is(err, ErrBinaryInput) {
		t.Fatalf("got %v, want ErrBinaryInput", err)
	}
	if consumed != 4 {
		t.Fatalf("fault offset mismatch: %d", consumed)
	}
	if text != "keep" {
		t.Fatalf("text before fault mismatch: %q", text)
	}
}

func TestSanitizeControlDensityFatal(t *testing.T) {
	src := []byte(strings.Repeat("a", 62) + "\x01\x01")
	_, consumed, err := sanitizeSource(src)
	if !errors.Is(err, ErrBinaryInput) {
		t.Fatalf("got %v, want ErrBinaryInput", err)
	}
	if consumed != 63 {
		t.Fatalf("fault offset mismatch: %d", consumed)
	}
	// The same density in a short input is tolerated.
	text, _, err := sanitizeSource([]byte("ab\x01cd"))
	if err != nil {
		t.Fatalf("short input should not trip the density check: %v", err)
	}
	if text != "abcd" {
		t.Fatalf("short input mismatch: %q", text)
	}
}

func TestSanitizeInvalidDensityFatal(t *testing.T) {
	src := []byte(strings.Repeat("a", 62) + "\xff\xff")
	_, consumed, err := sanitizeSource(src)
	if !errors.Is(err, ErrInvalidUTF8) {
		t.Fatalf("got %v, want ErrInvalidUTF8", err)
	}
	if consumed != 63 {
		t.Fatalf("fault offset mismatch: %d", consumed)
	}
}

func TestSanitizeKeepsMultibyteRunes(t *testing.T) {
	src := []byte("héllo wörld • 日本語")
	text, _, err := sanitizeSource(src)
	if err != nil {
		t.Fatalf("sanitize: %v", err)
	}
	if text != string(src) {
		t.Fatalf("multibyte content altered: %q", text)
	}
}
