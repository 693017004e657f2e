package ansimd

import "strings"

// blockParser builds the document tree from classified lines. Each nesting
// level strips its container prefix and recurses, so continuation rules
// (blockquote markers, list content columns, fence closure) are decided
// against the innermost open container.
type blockParser struct {
	cfg Config
}

func parseDocument(cfg Config, lines []line) *Document {
	bp := &blockParser{cfg: cfg}
	return &Document{Blocks: bp.parseBlocks(lines)}
}

func (bp *blockParser) parseBlocks(lines []line) []Block {
	var blocks []Block
	i := 0
	for i < len(lines) {
		l := lines[i]
		if l.isBlank() {
			i++
			continue
		}
		t := l.trimmed()

		if l.indent >= tabStop {
			var cb Block
			cb, i = bp.parseIndentedCode(lines, i)
			blocks = append(blocks, cb)
			continue
		}
		if isThematicBreak(t) {
			blocks = append(blocks, &ThematicBreak{})
			i++
			continue
		}
		if level, content, ok := parseHeading(t); ok {
			blocks = append(blocks, &Heading{Level: level, Content: bp.parseInlineLines([]string{content})})
			i++
			continue
		}
		if fence, ok := parseFence(t); ok {
			var cb Block
			cb, i = bp.parseFencedCode(lines, i, fence)
			blocks = append(blocks, cb)
			continue
		}
		if _, _, ok := parseQuotePrefix(l.text); ok {
			var q Block
			q, i = bp.parseBlockQuote(lines, i)
			blocks = append(blocks, q)
			continue
		}
		if m, ok := parseListMarker(t); ok && listMarkerStartsList(m, lines, i) {
			var list Block
			list, i = bp.parseList(lines, i, m)
			blocks = append(blocks, list)
			continue
		}
		var para []Block
		para, i = bp.parseParagraph(lines, i)
		blocks = append(blocks, para...)
	}
	return blocks
}

// listMarkerStartsList rejects markers with no content on their line and no
// indented follow-up, which read as literal text.
func listMarkerStartsList(m listMarker, lines []line, i int) bool {
	if strings.TrimSpace(m.content) != "" {
		return true
	}
	if i+1 >= len(lines) {
		return false
	}
	next := lines[i+1]
	return !next.isBlank() && next.indent > lines[i].indent
}

// startsNewBlock reports whether trimmed text would interrupt an open
// paragraph or a lazy continuation.
func startsNewBlock(t string) bool {
	if isThematicBreak(t) {
		return true
	}
	if _, _, ok := parseHeading(t); ok {
		return true
	}
	if _, ok := parseFence(t); ok {
		return true
	}
	if _, _, ok := parseQuotePrefix(t); ok {
		return true
	}
	if m, ok := parseListMarker(t); ok && strings.TrimSpace(m.content) != "" {
		return true
	}
	return false
}

func (bp *blockParser) parseIndentedCode(lines []line, i int) (Block, int) {
	cb := &CodeBlock{}
	blankRun := 0
	for i < len(lines) {
		l := lines[i]
		if l.isBlank() {
			blankRun++
			i++
			continue
		}
		if l.indent < tabStop {
			break
		}
		// Interior blank lines belong to the block; trailing ones do not.
		for ; blankRun > 0; blankRun-- {
			cb.Lines = append(cb.Lines, "")
		}
		cb.Lines = append(cb.Lines, trimIndent(l.text, tabStop))
		i++
	}
	return cb, i
}

func (bp *blockParser) parseFencedCode(lines []line, i int, fence fenceInfo) (Block, int) {
	cb := &CodeBlock{Info: fence.info}
	openIndent := lines[i].indent
	i++
	for i < len(lines) {
		l := lines[i]
		if l.indent < tabStop && closesFence(l.trimmed(), fence) {
			i++
			return cb, i
		}
		// Up to the opening fence's indentation is stripped from content.
		cb.Lines = append(cb.Lines, trimIndent(l.text, openIndent))
		i++
	}
	// Unclosed fence runs to end of input.
	return cb, i
}

func (bp *blockParser) parseBlockQuote(lines []line, i int) (Block, int) {
	var inner []line
	lastExplicitText := ""
	for i < len(lines) {
		l := lines[i]
		if rest, ok := stripQuoteLevel(l.text); ok {
			indent, _ := leadingIndentCount(rest)
			inner = append(inner, line{text: rest, offset: l.offset, indent: indent})
			lastExplicitText = rest
			i++
			continue
		}
		if l.isBlank() {
			break
		}
		// Lazy continuation: only while the innermost content still reads
		// as paragraph text.
		if startsNewBlock(l.trimmed()) || strings.TrimSpace(lastExplicitText) == "" {
			break
		}
		inner = append(inner, line{text: l.text, offset: l.offset, indent: l.indent})
		i++
	}
	return &BlockQuote{Blocks: bp.parseBlocks(inner)}, i
}

// stripQuoteLevel removes one level of blockquote marker.
func stripQuoteLevel(text string) (string, bool) {
	i := 0
	indent := 0
	for i < len(text) && isSpaceByte(text[i]) {
		indent++
		if indent >= tabStop {
			return text, false
		}
		i++
	}
	if i >= len(text) || text[i] != '>' {
		return text, false
	}
	i++
	if i < len(text) && isSpaceByte(text[i]) {
		i++
	}
	return text[i:], true
}

func (bp *blockParser) parseList(lines []line, i int, first listMarker) (Block, int) {
	list := &List{Ordered: first.ordered, Start: 1}
	if first.ordered {
		list.Start = first.start
	}
	listIndent := lines[i].indent
	for i < len(lines) {
		l := lines[i]
		if l.isBlank() {
			// Blanks followed by indented continuation were consumed by the
			// item collector; only a further item of the same kind keeps the
			// list open here.
			j := i
			for j < len(lines) && lines[j].isBlank() {
				j++
			}
			if j >= len(lines) {
				break
			}
			next := lines[j]
			m, ok := parseListMarker(next.trimmed())
			if !ok || next.indent < listIndent || next.indent >= listIndent+tabStop || !sameListKind(first, m) {
				break
			}
			i = j
			continue
		}
		m, ok := parseListMarker(l.trimmed())
		if !ok || l.indent < listIndent || !sameListKind(first, m) {
			break
		}
		var item []Block
		item, i = bp.parseListItem(lines, i, m)
		list.Items = append(list.Items, item)
	}
	return list, i
}

func sameListKind(a, b listMarker) bool {
	if a.ordered != b.ordered {
		return false
	}
	if a.ordered {
		return a.delim == b.delim
	}
	return a.bullet == b.bullet
}

func (bp *blockParser) parseListItem(lines []line, i int, m listMarker) ([]Block, int) {
	l := lines[i]
	padding := m.padding
	if padding > tabStop || strings.TrimSpace(m.content) == "" {
		padding = 1
	}
	contentCol := l.indent + m.width + padding

	content := m.content
	checked, isTask := bp.taskMarker(&content)

	var inner []line
	if strings.TrimSpace(content) != "" {
		indent, _ := leadingIndentCount(content)
		inner = append(inner, line{text: content, offset: l.offset, indent: indent})
	}
	i++
	lastBlank := false
	for i < len(lines) {
		cur := lines[i]
		if cur.isBlank() {
			inner = append(inner, line{})
			lastBlank = true
			i++
			continue
		}
		if cur.indent >= contentCol {
			rest := trimIndent(cur.text, contentCol)
			indent, _ := leadingIndentCount(rest)
			inner = append(inner, line{text: rest, offset: cur.offset, indent: indent})
			lastBlank = false
			i++
			continue
		}
		if lastBlank {
			break
		}
		// Lazy continuation of the item's trailing paragraph.
		t := cur.trimmed()
		if startsNewBlock(t) {
			break
		}
		inner = append(inner, line{text: t, offset: cur.offset})
		lastBlank = false
		i++
	}
	for len(inner) > 0 && inner[len(inner)-1].isBlank() {
		inner = inner[:len(inner)-1]
	}
	blocks := bp.parseBlocks(inner)
	if isTask {
		blocks = prependTaskMarker(blocks, checked)
	}
	return blocks, i
}

// taskMarker consumes a [ ] / [x] / [X] checkbox from the front of item
// content when the tasklist extension is enabled.
func (bp *blockParser) taskMarker(content *string) (checked, ok bool) {
	if !bp.cfg.tasklistsEnabled() {
		return false, false
	}
	c := *content
	if len(c) < 4 || c[0] != '[' || c[2] != ']' || !isSpaceByte(c[3]) {
		return false, false
	}
	switch c[1] {
	case 'x', 'X':
		checked = true
	case ' ':
	default:
		return false, false
	}
	*content = strings.TrimLeft(c[3:], " \t")
	return checked, true
}

func prependTaskMarker(blocks []Block, checked bool) []Block {
	marker := &TaskMarker{Checked: checked}
	if len(blocks) > 0 {
		if p, ok := blocks[0].(*Paragraph); ok {
			p.Content = append([]Inline{marker}, p.Content...)
			return blocks
		}
	}
	return append([]Block{&Paragraph{Content: []Inline{marker}}}, blocks...)
}

// parseParagraph collects paragraph lines, attempting table recognition
// when the extension is enabled. It may return several blocks when a table
// follows paragraph text or when the table attempt degrades.
func (bp *blockParser) parseParagraph(lines []line, i int) ([]Block, int) {
	var raw []string
	start := i
	for i < len(lines) {
		l := lines[i]
		if l.isBlank() {
			break
		}
		t := l.trimmed()
		if i > start && startsNewBlock(t) {
			break
		}
		if bp.cfg.tablesEnabled() && i > start && isSeparatorRowLike(t) {
			// A failed table separator starts its own paragraph instead of
			// joining the would-be header line.
			break
		}
		if bp.cfg.tablesEnabled() && i+1 < len(lines) {
			if table, next, ok := bp.tryTable(lines, i); ok {
				if len(raw) > 0 {
					return []Block{&Paragraph{Content: bp.parseInlineLines(raw)}, table}, next
				}
				return []Block{table}, next
			}
		}
		raw = append(raw, t)
		i++
	}
	return []Block{&Paragraph{Content: bp.parseInlineLines(raw)}}, i
}

// parseInlineLines hands a completed block's text lines to the inline
// parser. Interior line boundaries become soft breaks; hard break markers
// are normalized to a trailing backslash so the inline grammar sees them.
func (bp *blockParser) parseInlineLines(raw []string) []Inline {
	var b strings.Builder
	for idx, ln := range raw {
		if idx < len(raw)-1 {
			if hasHardLineBreak(ln) {
				ln = strings.TrimRight(ln, " ")
				ln = strings.TrimSuffix(ln, "\\")
				ln = strings.TrimRight(ln, " ") + "\\"
			} else {
				ln = strings.TrimRight(ln, " \t")
			}
			b.WriteString(ln)
			b.WriteByte('\n')
			continue
		}
		b.WriteString(strings.TrimRight(ln, " \t"))
	}
	return parseInlines(bp.cfg, b.String())
}
