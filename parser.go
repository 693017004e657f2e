package ansimd

import (
	"errors"
	"fmt"
	"strings"
)

// ErrClosed reports use of a Parser after Close.
var ErrClosed = errors.New("parser is closed")

// Parser renders Markdown to ANSI text. A Parser is not safe for concurrent
// use: configuration and last-error state are call-scoped and mutated at the
// start of each Render. Distinct Parsers are fully independent.
type Parser struct {
	cfg     Config
	lastErr string
	closed  bool
}

// New returns a Parser with the default configuration, adjusted by opts.
func New(opts ...Option) *Parser {
	cfg := DefaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return &Parser{cfg: cfg}
}

// Render parses src and returns the ANSI-escaped rendering. The returned
// string is always usable and never ends inside an escape scope: on a fatal
// encoding fault it holds the best-effort rendering of the input consumed
// before the fault, alongside a non-nil error. Render clears the parser's
// last-error state on entry and records the fault, if any, for HasError and
// LastError.
func (p *Parser) Render(src []byte) (string, error) {
	if p.closed {
		p.lastErr = ErrClosed.Error()
		return "", ErrClosed
	}
	p.lastErr = ""
	out, err := render(p.cfg, src)
	if err != nil {
		p.lastErr = err.Error()
	}
	return out, err
}

// render runs the pipeline with an immutable configuration snapshot.
func render(cfg Config, src []byte) (string, error) {
	text, consumed, fatal := sanitizeSource(src)
	var err error
	if fatal != nil {
		err = fmt.Errorf("render: offset %d: %w", consumed, fatal)
	}
	text = strings.TrimPrefix(text, "\uFEFF")
	lines := skipFrontMatter(newScanner(text).all())
	doc := parseDocument(cfg, lines)
	return renderDocument(cfg, doc), err
}

// HasError reports whether the most recent operation recorded a fault,
// including use of the parser after Close. It is a legacy-style adapter
// over the error Render already returns and stays usable on a closed
// parser.
func (p *Parser) HasError() bool {
	return p.lastErr != ""
}

// LastError returns the message of the most recent recorded fault, or the
// empty string if the last operation succeeded. Usable on a closed parser.
func (p *Parser) LastError() string {
	return p.lastErr
}

// Close releases the parser. Any operation after Close, including a second
// Close, returns or records ErrClosed instead of misbehaving silently;
// HasError and LastError stay usable as the reporting channel for that
// state.
func (p *Parser) Close() error {
	if p.closed {
		p.lastErr = ErrClosed.Error()
		return ErrClosed
	}
	p.closed = true
	p.lastErr = ""
	return nil
}

// set applies a configuration change, recording ErrClosed instead of
// mutating a closed parser.
func (p *Parser) set(apply func(*Config)) {
	if p.closed {
		p.lastErr = ErrClosed.Error()
		return
	}
	apply(&p.cfg)
}

// SetGFMEnabled toggles all GFM extension grammar for subsequent Render
// calls.
func (p *Parser) SetGFMEnabled(enabled bool) {
	p.set(func(c *Config) { c.GFM = enabled })
}

// SetTableEnabled toggles GFM tables for subsequent Render calls.
func (p *Parser) SetTableEnabled(enabled bool) {
	p.set(func(c *Config) { c.Tables = enabled })
}

// SetStrikethroughEnabled toggles GFM strikethrough for subsequent Render
// calls.
func (p *Parser) SetStrikethroughEnabled(enabled bool) {
	p.set(func(c *Config) { c.Strikethrough = enabled })
}

// SetTasklistEnabled toggles GFM task list items for subsequent Render
// calls.
func (p *Parser) SetTasklistEnabled(enabled bool) {
	p.set(func(c *Config) { c.Tasklists = enabled })
}

// SetHeadingColor sets the heading SGR parameters for subsequent Render
// calls.
func (p *Parser) SetHeadingColor(params string) {
	p.set(func(c *Config) { c.HeadingColor = params })
}

// SetCodeColor sets the code SGR parameters for subsequent Render calls.
func (p *Parser) SetCodeColor(params string) {
	p.set(func(c *Config) { c.CodeColor = params })
}

// SetLinkColor sets the link SGR parameters for subsequent Render calls.
func (p *Parser) SetLinkColor(params string) {
	p.set(func(c *Config) { c.LinkColor = params })
}

// SetTextColor sets the base text SGR parameters for subsequent Render
// calls.
func (p *Parser) SetTextColor(params string) {
	p.set(func(c *Config) { c.TextColor = params })
}
