package ansimd

import (
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/ansi"

	"pkt.systems/ansimd/internal/palette"
)

const thematicBreakRule = "────────────────────"

// renderer walks a finished document and emits ANSI-escaped text. It keeps a
// stack of active SGR parameter scopes; closing a scope resets and reapplies
// every scope still open, so nested styles restore their parent instead of
// the terminal default.
type renderer struct {
	cfg    Config
	b      strings.Builder
	styles []string
}

func renderDocument(cfg Config, doc *Document) string {
	if len(doc.Blocks) == 0 {
		return ""
	}
	r := &renderer{cfg: cfg}
	end := r.pushStyle(cfg.TextColor)
	r.renderBlocks(doc.Blocks, false)
	end()
	r.closeAll()
	return r.b.String()
}

// pushStyle opens a style scope and returns the guard closing it. An empty
// parameter string opens a tracking-only scope and emits nothing: absence of
// a configured color falls back to the terminal default, never to an empty
// escape sequence.
func (r *renderer) pushStyle(params string) func() {
	r.styles = append(r.styles, params)
	r.b.WriteString(palette.Escape(params))
	return func() {
		last := r.styles[len(r.styles)-1]
		r.styles = r.styles[:len(r.styles)-1]
		if last == "" {
			return
		}
		r.b.WriteString(palette.Reset)
		for _, p := range r.styles {
			r.b.WriteString(palette.Escape(p))
		}
	}
}

// closeAll closes any scope still open at end of document. Under normal
// operation every scope guard has already run; this is the final barrier of
// the no-dangling-escape invariant.
func (r *renderer) closeAll() {
	for len(r.styles) > 0 {
		last := r.styles[len(r.styles)-1]
		r.styles = r.styles[:len(r.styles)-1]
		if last != "" {
			r.b.WriteString(palette.Reset)
		}
	}
}

// sub returns a renderer sharing the active scope stack, for content that is
// rendered to a string before placement (quoted blocks, table cells, list
// continuations). Scopes the sub-renderer opens are closed inside it, so the
// parent's stack is untouched.
func (r *renderer) sub() *renderer {
	return &renderer{cfg: r.cfg, styles: append([]string(nil), r.styles...)}
}

// renderBlocks emits a block sequence. Siblings are separated by a blank
// line, or a single newline in tight (list item) context. Every block ends
// with exactly one trailing newline.
func (r *renderer) renderBlocks(blocks []Block, tight bool) {
	for i, b := range blocks {
		if i > 0 && !tight {
			r.b.WriteByte('\n')
		}
		r.renderBlock(b)
	}
}

func (r *renderer) renderBlock(b Block) {
	switch n := b.(type) {
	case *Heading:
		params := r.cfg.HeadingColor
		if n.Level == 1 {
			params = palette.Join(params, palette.Underline)
		}
		end := r.pushStyle(params)
		r.renderInlines(n.Content)
		end()
		r.b.WriteByte('\n')
	case *Paragraph:
		r.renderInlines(n.Content)
		r.b.WriteByte('\n')
	case *List:
		r.renderList(n, 0)
	case *CodeBlock:
		r.renderCodeBlock(n)
	case *BlockQuote:
		r.renderBlockQuote(n)
	case *Table:
		r.renderTable(n)
	case *ThematicBreak:
		r.b.WriteString(thematicBreakRule)
		r.b.WriteByte('\n')
	}
}

func (r *renderer) renderCodeBlock(cb *CodeBlock) {
	for _, ln := range cb.Lines {
		if ln == "" {
			r.b.WriteByte('\n')
			continue
		}
		end := r.pushStyle(r.cfg.CodeColor)
		r.b.WriteString(ln)
		end()
		r.b.WriteByte('\n')
	}
	if len(cb.Lines) == 0 {
		r.b.WriteByte('\n')
	}
}

func (r *renderer) renderBlockQuote(q *BlockQuote) {
	sub := r.sub()
	sub.renderBlocks(q.Blocks, false)
	body := strings.TrimRight(sub.b.String(), "\n")
	if body == "" {
		r.b.WriteString(">\n")
		return
	}
	for _, ln := range strings.Split(body, "\n") {
		if ln == "" {
			r.b.WriteString(">")
		} else {
			r.b.WriteString("> ")
			r.b.WriteString(ln)
		}
		r.b.WriteByte('\n')
	}
}

func (r *renderer) renderList(l *List, depth int) {
	indent := strings.Repeat("  ", depth)
	num := l.Start
	for _, item := range l.Items {
		marker := "• "
		if l.Ordered {
			marker = strconv.Itoa(num) + ". "
			num++
		}
		r.renderListItem(item, indent, marker, depth)
	}
}

func (r *renderer) renderListItem(item []Block, indent, marker string, depth int) {
	pad := indent + strings.Repeat(" ", runewidth.StringWidth(marker))
	first := true
	for _, b := range item {
		if nested, ok := b.(*List); ok {
			if first {
				// An item holding only a nested list still shows its marker.
				r.b.WriteString(indent)
				r.b.WriteString(strings.TrimRight(marker, " "))
				r.b.WriteByte('\n')
				first = false
			}
			r.renderList(nested, depth+1)
			continue
		}
		if first {
			r.b.WriteString(indent)
			r.b.WriteString(marker)
			if p, ok := b.(*Paragraph); ok {
				sub := r.sub()
				sub.renderInlines(p.Content)
				// Hard breaks inside the lead paragraph keep the item column.
				for i, ln := range strings.Split(sub.b.String(), "\n") {
					if i > 0 {
						r.b.WriteString(pad)
					}
					r.b.WriteString(ln)
					r.b.WriteByte('\n')
				}
				first = false
				continue
			}
		}
		sub := r.sub()
		sub.renderBlock(b)
		body := strings.TrimRight(sub.b.String(), "\n")
		for i, ln := range strings.Split(body, "\n") {
			if i > 0 || !first {
				r.b.WriteString(pad)
			}
			r.b.WriteString(ln)
			r.b.WriteByte('\n')
		}
		first = false
	}
	if first {
		// Item with no content at all still shows its marker.
		r.b.WriteString(indent)
		r.b.WriteString(marker)
		r.b.WriteByte('\n')
	}
}

func (r *renderer) renderTable(t *Table) {
	cols := len(t.Align)
	widths := make([]int, cols)
	header := make([]string, cols)
	for i, c := range t.Header {
		header[i] = r.renderCell(c)
		if w := ansi.PrintableRuneWidth(header[i]); w > widths[i] {
			widths[i] = w
		}
	}
	rows := make([][]string, len(t.Rows))
	for ri, row := range t.Rows {
		rows[ri] = make([]string, cols)
		for ci := 0; ci < cols && ci < len(row); ci++ {
			rows[ri][ci] = r.renderCell(row[ci])
			if w := ansi.PrintableRuneWidth(rows[ri][ci]); w > widths[ci] {
				widths[ci] = w
			}
		}
	}
	for i := range widths {
		if widths[i] < 3 {
			widths[i] = 3
		}
	}
	r.writeTableRow(header, widths, t.Align)
	r.b.WriteByte('|')
	for _, w := range widths {
		r.b.WriteString(strings.Repeat("-", w+2))
		r.b.WriteByte('|')
	}
	r.b.WriteByte('\n')
	for _, row := range rows {
		r.writeTableRow(row, widths, t.Align)
	}
}

func (r *renderer) writeTableRow(cells []string, widths []int, align []Alignment) {
	r.b.WriteByte('|')
	for i, cell := range cells {
		r.b.WriteByte(' ')
		r.b.WriteString(padCell(cell, widths[i], align[i]))
		r.b.WriteString(" |")
	}
	r.b.WriteByte('\n')
}

// padCell pads styled cell text to the column width. Columns without an
// explicit alignment are left-aligned.
func padCell(cell string, width int, align Alignment) string {
	gap := width - ansi.PrintableRuneWidth(cell)
	if gap <= 0 {
		return cell
	}
	switch align {
	case AlignRight:
		return strings.Repeat(" ", gap) + cell
	case AlignCenter:
		left := gap / 2
		return strings.Repeat(" ", left) + cell + strings.Repeat(" ", gap-left)
	default:
		return cell + strings.Repeat(" ", gap)
	}
}

func (r *renderer) renderCell(c TableCell) string {
	sub := r.sub()
	sub.renderInlines(c.Content)
	return sub.b.String()
}

func (r *renderer) renderInlines(content []Inline) {
	for _, in := range content {
		r.renderInline(in)
	}
}

func (r *renderer) renderInline(in Inline) {
	switch n := in.(type) {
	case *Text:
		r.b.WriteString(n.Text)
	case *Emphasis:
		end := r.pushStyle(palette.Italic)
		r.renderInlines(n.Content)
		end()
	case *Strong:
		end := r.pushStyle(palette.Bold)
		r.renderInlines(n.Content)
		end()
	case *Strikethrough:
		end := r.pushStyle(palette.Strikethrough)
		r.renderInlines(n.Content)
		end()
	case *CodeSpan:
		end := r.pushStyle(r.cfg.CodeColor)
		r.b.WriteString(n.Text)
		end()
	case *Link:
		r.renderLink(n)
	case *HardBreak:
		r.b.WriteByte('\n')
	case *TaskMarker:
		if n.Checked {
			r.b.WriteString("[✓] ")
		} else {
			r.b.WriteString("[ ] ")
		}
	}
}

func (r *renderer) renderLink(l *Link) {
	if r.cfg.OSC8 {
		r.b.WriteString(osc8Start)
		r.b.WriteString(l.Destination)
		r.b.WriteString(osc8Terminator)
		end := r.pushStyle(r.cfg.LinkColor)
		r.renderInlines(l.Label)
		end()
		r.b.WriteString(osc8End)
		return
	}
	end := r.pushStyle(r.cfg.LinkColor)
	r.renderInlines(l.Label)
	end()
	// Autolink-style labels already show the URL.
	if l.Destination != "" && l.Destination != plainText(l.Label) {
		r.b.WriteString(" (")
		r.b.WriteString(l.Destination)
		r.b.WriteByte(')')
	}
}
