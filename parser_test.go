package ansimd

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestParserLifecycle(t *testing.T) {
	p := New()
	if _, err := p.Render([]byte("hello")); err != nil {
		t.Fatalf("render: %v", err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, err := p.Render([]byte("hello")); !errors.Is(err, ErrClosed) {
		t.Fatalf("render after close: got %v, want ErrClosed", err)
	}
	if err := p.Close(); !errors.Is(err, ErrClosed) {
		t.Fatalf("second close: got %v, want ErrClosed", err)
	}
}

func TestClosedParserOperationsReport(t *testing.T) {
	p := New()
	if err := p.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	setters := map[string]func(){
		"SetGFMEnabled":           func() { p.SetGFMEnabled(false) },
		"SetTableEnabled":         func() { p.SetTableEnabled(false) },
		"SetStrikethroughEnabled": func() { p.SetStrikethroughEnabled(false) },
		"SetTasklistEnabled":      func() { p.SetTasklistEnabled(false) },
		"SetHeadingColor":         func() { p.SetHeadingColor("31") },
		"SetCodeColor":            func() { p.SetCodeColor("31") },
		"SetLinkColor":            func() { p.SetLinkColor("31") },
		"SetTextColor":            func() { p.SetTextColor("31") },
	}
	for name, call := range setters {
		p.lastErr = ""
		call()
		if !p.HasError() {
			t.Fatalf("%s on closed parser reported no error", name)
		}
		if !strings.Contains(p.LastError(), "closed") {
			t.Fatalf("%s on closed parser: LastError = %q", name, p.LastError())
		}
	}

	p.lastErr = ""
	if _, err := p.Render([]byte("x")); !errors.Is(err, ErrClosed) {
		t.Fatalf("render after close: got %v, want ErrClosed", err)
	}
	if !p.HasError() || !strings.Contains(p.LastError(), "closed") {
		t.Fatalf("render after close not recorded: %q", p.LastError())
	}

	p.lastErr = ""
	if err := p.Close(); !errors.Is(err, ErrClosed) {
		t.Fatalf("second close: got %v, want ErrClosed", err)
	}
	if !p.HasError() || !strings.Contains(p.LastError(), "closed") {
		t.Fatalf("second close not recorded: %q", p.LastError())
	}
}

func TestClosedParserConfigUntouched(t *testing.T) {
	p := New(WithHeadingColor("35"))
	if err := p.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	p.SetHeadingColor("31")
	if p.cfg.HeadingColor != "35" {
		t.Fatalf("setter mutated a closed parser: %q", p.cfg.HeadingColor)
	}
}

func TestParsersAreIndependent(t *testing.T) {
	a := New(WithTextColor("31"))
	b := New()
	outA, err := a.Render([]byte("x"))
	if err != nil {
		t.Fatalf("render a: %v", err)
	}
	outB, err := b.Render([]byte("x"))
	if err != nil {
		t.Fatalf("render b: %v", err)
	}
	if !strings.Contains(outA, "\x1b[31m") {
		t.Fatalf("parser a lost its text color: %q", outA)
	}
	if strings.Contains(outB, "\x1b[31m") {
		t.Fatalf("parser b picked up parser a's color: %q", outB)
	}
}

func TestHasErrorAndLastError(t *testing.T) {
	p := New()
	if _, err := p.Render([]byte("fine")); err != nil {
		t.Fatalf("render: %v", err)
	}
	if p.HasError() || p.LastError() != "" {
		t.Fatalf("clean render left error state: %q", p.LastError())
	}
	if _, err := p.Render([]byte("bad\x00input")); err == nil {
		t.Fatal("expected error for NUL input")
	}
	if !p.HasError() {
		t.Fatal("HasError false after fatal fault")
	}
	if !strings.Contains(p.LastError(), "binary") {
		t.Fatalf("LastError missing fault cause: %q", p.LastError())
	}
	// A subsequent clean render clears the recorded fault.
	if _, err := p.Render([]byte("fine again")); err != nil {
		t.Fatalf("render: %v", err)
	}
	if p.HasError() || p.LastError() != "" {
		t.Fatalf("error state not cleared: %q", p.LastError())
	}
}

func TestFatalFaultBestEffortOutput(t *testing.T) {
	p := New()
	out, err := p.Render([]byte("# ok\n\npartial\n\x00rest"))
	if !errors.Is(err, ErrBinaryInput) {
		t.Fatalf("got %v, want ErrBinaryInput", err)
	}
	if !strings.Contains(err.Error(), "offset 14") {
		t.Fatalf("error missing fault offset: %v", err)
	}
	plain := stripANSI(out)
	if plain != "ok\n\npartial\n" {
		t.Fatalf("best-effort output mismatch: %q", plain)
	}
	assertSGRClean(t, out)
}

func TestControlDensityFault(t *testing.T) {
	src := []byte(strings.Repeat("a", 62) + "\x01\x01")
	p := New()
	out, err := p.Render(src)
	if !errors.Is(err, ErrBinaryInput) {
		t.Fatalf("got %v, want ErrBinaryInput", err)
	}
	if !strings.HasPrefix(stripANSI(out), strings.Repeat("a", 62)) {
		t.Fatalf("text before the fault was dropped: %q", out)
	}
}

func TestInvalidUTF8Replacement(t *testing.T) {
	p := New()
	out, err := p.Render([]byte("caf\xe9 latte"))
	if err != nil {
		t.Fatalf("isolated invalid byte should not be fatal: %v", err)
	}
	if stripANSI(out) != "caf� latte\n" {
		t.Fatalf("replacement mismatch: %q", out)
	}
}

func TestBOMSkipped(t *testing.T) {
	p := New()
	out, err := p.Render([]byte("\uFEFF# Title"))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if stripANSI(out) != "Title\n" {
		t.Fatalf("BOM not skipped: %q", out)
	}
}

func TestSettersAffectNextRender(t *testing.T) {
	p := New()
	table := []byte("a | b\n--- | ---\n1 | 2")

	out, err := p.Render(table)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(stripANSI(out), "| a   | b   |") {
		t.Fatalf("table not rendered by default: %q", out)
	}

	p.SetTableEnabled(false)
	out, err = p.Render(table)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(stripANSI(out), "| a   ") {
		t.Fatalf("table rendered despite SetTableEnabled(false): %q", out)
	}

	p.SetTableEnabled(true)
	p.SetGFMEnabled(false)
	out, err = p.Render(table)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(stripANSI(out), "| a   ") {
		t.Fatalf("GFM off should gate tables: %q", out)
	}

	p.SetGFMEnabled(true)
	p.SetHeadingColor("31")
	out, err = p.Render([]byte("## Red"))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(out, "\x1b[31mRed") {
		t.Fatalf("SetHeadingColor ignored: %q", out)
	}

	p.SetCodeColor("32")
	out, err = p.Render([]byte("`x`"))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(out, "\x1b[32mx") {
		t.Fatalf("SetCodeColor ignored: %q", out)
	}

	p.SetLinkColor("33")
	out, err = p.Render([]byte("[a](b)"))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(out, "\x1b[33ma") {
		t.Fatalf("SetLinkColor ignored: %q", out)
	}

	p.SetTextColor("34")
	out, err = p.Render([]byte("text"))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.HasPrefix(out, "\x1b[34m") {
		t.Fatalf("SetTextColor ignored: %q", out)
	}
}

func TestRenderRequestNilArguments(t *testing.T) {
	var out bytes.Buffer
	if err := Render(RenderRequest{Writer: &out}); err == nil {
		t.Fatal("expected error for nil reader")
	}
	if err := Render(RenderRequest{Reader: strings.NewReader("x")}); err == nil {
		t.Fatal("expected error for nil writer")
	}
}

func TestRenderRequestRoundtrip(t *testing.T) {
	var out bytes.Buffer
	err := Render(RenderRequest{
		Reader:  strings.NewReader("# Hi\n\nbody"),
		Writer:  &out,
		Options: []Option{WithHeadingColor("35")},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(out.String(), "\x1b[35mHi") {
		t.Fatalf("option not applied: %q", out.String())
	}
	if !strings.Contains(stripANSI(out.String()), "body\n") {
		t.Fatalf("body missing: %q", out.String())
	}
}

func TestRenderRequestWidth(t *testing.T) {
	src := "these are quite a few words that should wrap at the requested column count without fail"
	var out bytes.Buffer
	err := Render(RenderRequest{
		Reader: strings.NewReader(src),
		Writer: &out,
		Width:  24,
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, ln := range strings.Split(strings.TrimRight(stripANSI(out.String()), "\n"), "\n") {
		if len(ln) > 24 {
			t.Fatalf("line exceeds width 24: %q", ln)
		}
	}
}

func TestRenderRequestBestEffortWrite(t *testing.T) {
	var out bytes.Buffer
	err := Render(RenderRequest{
		Reader: bytes.NewReader([]byte("before fault\n\x00after")),
		Writer: &out,
	})
	if !errors.Is(err, ErrBinaryInput) {
		t.Fatalf("got %v, want ErrBinaryInput", err)
	}
	if !strings.Contains(stripANSI(out.String()), "before fault") {
		t.Fatalf("partial output not written: %q", out.String())
	}
}
