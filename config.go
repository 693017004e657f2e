package ansimd

import "pkt.systems/ansimd/internal/palette"

// Config holds the feature toggles and colors consumed by a render call.
// Colors are opaque SGR parameter strings placed verbatim inside CSI...m;
// an empty string means terminal default and emits no escape.
//
// Each GFM extension is gated behind its own flag AND the GFM flag.
type Config struct {
	GFM           bool
	Tables        bool
	Strikethrough bool
	Tasklists     bool

	HeadingColor string
	CodeColor    string
	LinkColor    string
	TextColor    string

	// OSC8 emits OSC 8 hyperlinks for links instead of the
	// "label (destination)" fallback.
	OSC8 bool
}

// DefaultConfig matches the defaults of the legacy library: all GFM
// extensions on, cyan bold headings, light gray code, blue underlined links,
// terminal-default text.
func DefaultConfig() Config {
	return Config{
		GFM:           true,
		Tables:        true,
		Strikethrough: true,
		Tasklists:     true,
		HeadingColor:  palette.Join(palette.Bold, palette.Foreground256("86")),
		CodeColor:     palette.Foreground256("252"),
		LinkColor:     palette.Join(palette.Underline, palette.Foreground256("39")),
		TextColor:     "",
	}
}

func (c Config) tablesEnabled() bool        { return c.GFM && c.Tables }
func (c Config) strikethroughEnabled() bool { return c.GFM && c.Strikethrough }
func (c Config) tasklistsEnabled() bool     { return c.GFM && c.Tasklists }

// Option configures a Parser at construction time.
type Option func(*Config)

// WithGFM enables or disables all GFM extension grammar.
func WithGFM(enabled bool) Option {
	return func(c *Config) { c.GFM = enabled }
}

// WithTables enables or disables GFM tables.
func WithTables(enabled bool) Option {
	return func(c *Config) { c.Tables = enabled }
}

// WithStrikethrough enables or disables GFM strikethrough.
func WithStrikethrough(enabled bool) Option {
	return func(c *Config) { c.Strikethrough = enabled }
}

// WithTasklists enables or disables GFM task list items.
func WithTasklists(enabled bool) Option {
	return func(c *Config) { c.Tasklists = enabled }
}

// WithHeadingColor sets the heading SGR parameters.
func WithHeadingColor(params string) Option {
	return func(c *Config) { c.HeadingColor = params }
}

// WithCodeColor sets the code SGR parameters (spans and block lines).
func WithCodeColor(params string) Option {
	return func(c *Config) { c.CodeColor = params }
}

// WithLinkColor sets the link label SGR parameters.
func WithLinkColor(params string) Option {
	return func(c *Config) { c.LinkColor = params }
}

// WithTextColor sets the base text SGR parameters wrapping the whole
// document.
func WithTextColor(params string) Option {
	return func(c *Config) { c.TextColor = params }
}

// WithOSC8 enables or disables OSC 8 hyperlinks.
func WithOSC8(enabled bool) Option {
	return func(c *Config) { c.OSC8 = enabled }
}
