package ansimd

import (
	"fmt"
	"io"

	"github.com/muesli/reflow/wordwrap"
)

// RenderRequest configures the stream-style Render entry point.
type RenderRequest struct {
	Reader io.Reader
	Writer io.Writer
	// Width wraps output lines to the given column count when positive.
	// Wrapping is ANSI-aware and never splits an escape sequence.
	Width   int
	Options []Option
}

// Render reads Markdown from req.Reader, renders it, and writes ANSI output
// to req.Writer. On a fatal input fault the best-effort output is still
// written before the error is returned.
func Render(req RenderRequest) error {
	if req.Reader == nil {
		return fmt.Errorf("render: reader is nil")
	}
	if req.Writer == nil {
		return fmt.Errorf("render: writer is nil")
	}
	src, err := io.ReadAll(req.Reader)
	if err != nil {
		return fmt.Errorf("render: read: %w", err)
	}
	cfg := DefaultConfig()
	for _, opt := range req.Options {
		if opt != nil {
			opt(&cfg)
		}
	}
	out, renderErr := render(cfg, src)
	if req.Width > 0 {
		out = wordwrap.String(out, req.Width)
	}
	if _, err := io.WriteString(req.Writer, out); err != nil {
		return fmt.Errorf("render: write: %w", err)
	}
	return renderErr
}
