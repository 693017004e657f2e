package ansimd

// Document is the root of a parsed Markdown tree. It is ephemeral: built per
// render call, walked once by the renderer, then discarded.
type Document struct {
	Blocks []Block
}

// Block is a block-level node. Exactly one concrete type applies per value.
type Block interface {
	block()
}

// Heading is an ATX heading, level 1 through 6.
type Heading struct {
	Level   int
	Content []Inline
}

// Paragraph is a run of inline content.
type Paragraph struct {
	Content []Inline
}

// List holds a sequence of items, each a block sequence of its own.
type List struct {
	Ordered bool
	Start   int
	Items   [][]Block
}

// CodeBlock holds literal lines. Content is never inline-parsed.
type CodeBlock struct {
	Info  string
	Lines []string
}

// BlockQuote nests a block sequence.
type BlockQuote struct {
	Blocks []Block
}

// Table is a GFM table. Alignments has one entry per header cell.
type Table struct {
	Header []TableCell
	Align  []Alignment
	Rows   [][]TableCell
}

// TableCell is one cell's inline content.
type TableCell struct {
	Content []Inline
}

// Alignment is a table column alignment derived from separator colons.
type Alignment uint8

const (
	AlignNone Alignment = iota
	AlignLeft
	AlignCenter
	AlignRight
)

// ThematicBreak is a horizontal rule.
type ThematicBreak struct{}

func (*Heading) block()       {}
func (*Paragraph) block()     {}
func (*List) block()          {}
func (*CodeBlock) block()     {}
func (*BlockQuote) block()    {}
func (*Table) block()         {}
func (*ThematicBreak) block() {}

// Inline is an inline-level node. The block and inline parsers guarantee no
// unmatched delimiter ever reaches the tree; anything unresolvable is a Text.
type Inline interface {
	inline()
}

// Text is literal text, escapes and entities already resolved.
type Text struct {
	Text string
}

// Emphasis wraps nested inline content (single-delimiter run).
type Emphasis struct {
	Content []Inline
}

// Strong wraps nested inline content (double-delimiter run).
type Strong struct {
	Content []Inline
}

// Strikethrough wraps nested inline content; only produced when the
// strikethrough extension is enabled.
type Strikethrough struct {
	Content []Inline
}

// CodeSpan is literal inline code.
type CodeSpan struct {
	Text string
}

// Link pairs an inline-parsed label with a destination.
type Link struct {
	Label       []Inline
	Destination string
}

// HardBreak forces a line break within a paragraph.
type HardBreak struct{}

// TaskMarker is a GFM task list checkbox, consumed from the front of a list
// item; only produced when the tasklist extension is enabled.
type TaskMarker struct {
	Checked bool
}

func (*Text) inline()          {}
func (*Emphasis) inline()      {}
func (*Strong) inline()        {}
func (*Strikethrough) inline() {}
func (*CodeSpan) inline()      {}
func (*Link) inline()          {}
func (*HardBreak) inline()     {}
func (*TaskMarker) inline()    {}

func plainText(content []Inline) string {
	out := ""
	for _, in := range content {
		switch n := in.(type) {
		case *Text:
			out += n.Text
		case *CodeSpan:
			out += n.Text
		case *Emphasis:
			out += plainText(n.Content)
		case *Strong:
			out += plainText(n.Content)
		case *Strikethrough:
			out += plainText(n.Content)
		case *Link:
			out += plainText(n.Label)
		case *HardBreak:
			out += " "
		case *TaskMarker:
			if n.Checked {
				out += "[x]"
			} else {
				out += "[ ]"
			}
		}
	}
	return out
}
