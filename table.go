package ansimd

import "strings"

// tryTable recognizes a GFM table at lines[i]: a header row followed by a
// valid separator row with a matching cell count. Any failure leaves the
// lines to ordinary paragraph handling (degradation, never an error).
func (bp *blockParser) tryTable(lines []line, i int) (Block, int, bool) {
	header := lines[i].trimmed()
	if !containsUnescapedPipe(header) {
		return nil, 0, false
	}
	sep := lines[i+1].trimmed()
	align, ok := parseTableSeparator(sep)
	if !ok {
		return nil, 0, false
	}
	cells := splitTableRow(header)
	if len(cells) != len(align) {
		return nil, 0, false
	}

	t := &Table{Align: align}
	for _, c := range cells {
		t.Header = append(t.Header, TableCell{Content: bp.parseInlineLines([]string{c})})
	}
	i += 2
	for i < len(lines) {
		l := lines[i]
		if l.isBlank() {
			break
		}
		text := l.trimmed()
		if !containsUnescapedPipe(text) || startsNewBlock(text) {
			break
		}
		row := make([]TableCell, 0, len(align))
		for _, c := range splitTableRow(text) {
			if len(row) == len(align) {
				break
			}
			row = append(row, TableCell{Content: bp.parseInlineLines([]string{c})})
		}
		for len(row) < len(align) {
			row = append(row, TableCell{})
		}
		t.Rows = append(t.Rows, row)
		i++
	}
	return t, i, true
}

// parseTableSeparator validates a separator row: pipe-delimited cells each
// matching :?-+:? and at least one pipe on the line. Column alignment is
// derived from colon placement.
func parseTableSeparator(text string) ([]Alignment, bool) {
	if !strings.Contains(text, "|") {
		return nil, false
	}
	cells := splitTableRow(text)
	if len(cells) == 0 {
		return nil, false
	}
	align := make([]Alignment, 0, len(cells))
	for _, c := range cells {
		c = strings.TrimSpace(c)
		if c == "" {
			return nil, false
		}
		left := strings.HasPrefix(c, ":")
		right := strings.HasSuffix(c, ":")
		body := strings.TrimSuffix(strings.TrimPrefix(c, ":"), ":")
		if body == "" || strings.Count(body, "-") != len(body) {
			return nil, false
		}
		switch {
		case left && right:
			align = append(align, AlignCenter)
		case right:
			align = append(align, AlignRight)
		case left:
			align = append(align, AlignLeft)
		default:
			align = append(align, AlignNone)
		}
	}
	return align, true
}

// splitTableRow splits a row on unescaped pipes, dropping the outer empty
// segments produced by leading/trailing pipes. \| becomes a literal pipe
// inside cell content; other escapes are left for the inline parser.
func splitTableRow(text string) []string {
	t := strings.TrimSpace(text)
	t = strings.TrimPrefix(t, "|")
	var cells []string
	var cur strings.Builder
	esc := false
	trailingPipe := false
	for i := 0; i < len(t); i++ {
		b := t[i]
		if esc {
			if b != '|' {
				cur.WriteByte('\\')
			}
			cur.WriteByte(b)
			esc = false
			trailingPipe = false
			continue
		}
		switch b {
		case '\\':
			esc = true
		case '|':
			cells = append(cells, strings.TrimSpace(cur.String()))
			cur.Reset()
			trailingPipe = true
		default:
			cur.WriteByte(b)
			trailingPipe = false
		}
	}
	if esc {
		cur.WriteByte('\\')
	}
	last := strings.TrimSpace(cur.String())
	if last != "" || !trailingPipe {
		cells = append(cells, last)
	}
	return cells
}

// isSeparatorRowLike matches lines made only of pipes, dashes, colons and
// spaces. Inside a paragraph such a line is a table separator that failed
// validation; it becomes its own paragraph instead of joining the would-be
// header text.
func isSeparatorRowLike(text string) bool {
	if !strings.Contains(text, "|") {
		return false
	}
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '|', '-', ':', ' ', '\t':
		default:
			return false
		}
	}
	return true
}

func containsUnescapedPipe(text string) bool {
	esc := false
	for i := 0; i < len(text); i++ {
		switch {
		case esc:
			esc = false
		case text[i] == '\\':
			esc = true
		case text[i] == '|':
			return true
		}
	}
	return false
}
