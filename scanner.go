package ansimd

import "strings"

// tabStop is the fixed tab stop width used for block indentation.
const tabStop = 4

// line is one physical source line with its classification facts. The block
// parser owns all context-dependent decisions; the scanner only reports what
// the line looks like on its own.
type line struct {
	text   string // line content, trailing \r\n stripped
	offset int    // byte offset of the line start in the sanitized source
	indent int    // leading indentation in columns, tabs expanded to tabStop
}

func (l line) isBlank() bool {
	return strings.TrimSpace(l.text) == ""
}

func (l line) trimmed() string {
	return strings.TrimLeft(l.text, " \t")
}

// scanner produces the lazy line sequence for one parse call.
type scanner struct {
	src string
	off int
}

func newScanner(src string) *scanner {
	return &scanner{src: src}
}

func (s *scanner) next() (line, bool) {
	if s.off >= len(s.src) {
		return line{}, false
	}
	start := s.off
	end := strings.IndexByte(s.src[start:], '\n')
	var text string
	if end < 0 {
		text = s.src[start:]
		s.off = len(s.src)
	} else {
		text = s.src[start : start+end]
		s.off = start + end + 1
	}
	text = strings.TrimSuffix(text, "\r")
	indent, _ := leadingIndentCount(text)
	return line{text: text, offset: start, indent: indent}, true
}

func (s *scanner) all() []line {
	lines := make([]line, 0, 64)
	for {
		l, ok := s.next()
		if !ok {
			return lines
		}
		lines = append(lines, l)
	}
}

// leadingIndentCount returns the indentation of s in columns and the number
// of bytes it spans.
func leadingIndentCount(s string) (int, int) {
	count := 0
	i := 0
	for i < len(s) {
		switch s[i] {
		case ' ':
			count++
		case '\t':
			count += tabStop - count%tabStop
		default:
			return count, i
		}
		i++
	}
	return count, i
}

// trimIndent removes up to count columns of leading indentation.
func trimIndent(s string, count int) string {
	i := 0
	for i < len(s) && count > 0 {
		switch s[i] {
		case ' ':
			count--
		case '\t':
			count -= tabStop
		default:
			return s[i:]
		}
		i++
	}
	return s[i:]
}

// parseHeading recognizes an ATX heading in text already stripped of
// indentation. Hashes without a following space are not a heading.
func parseHeading(text string) (level int, content string, ok bool) {
	for level < len(text) && text[level] == '#' {
		level++
	}
	if level == 0 || level > 6 {
		return 0, "", false
	}
	if level == len(text) {
		return level, "", true
	}
	if text[level] != ' ' && text[level] != '\t' {
		return 0, "", false
	}
	content = strings.TrimSpace(text[level:])
	// Trailing closing hashes are decorative.
	trimmed := strings.TrimRight(content, "#")
	if trimmed != content && (trimmed == "" || strings.HasSuffix(trimmed, " ")) {
		content = strings.TrimRight(trimmed, " ")
	}
	return level, content, true
}

// listMarker describes a recognized list item marker.
type listMarker struct {
	ordered bool
	bullet  byte // '-', '+' or '*' for unordered
	delim   byte // '.' or ')' for ordered
	start   int  // first ordered number
	width   int  // marker width in columns, without padding
	padding int  // spaces between marker and content
	content string
}

// parseListMarker recognizes a list item marker at the start of text (text
// already stripped of indentation). A marker with no content on the line is
// still a marker; content is then empty.
func parseListMarker(text string) (listMarker, bool) {
	if text == "" {
		return listMarker{}, false
	}
	switch text[0] {
	case '-', '+', '*':
		if len(text) == 1 {
			return listMarker{bullet: text[0], width: 1, padding: 1}, true
		}
		if !isSpaceByte(text[1]) {
			return listMarker{}, false
		}
		pad, idx := countSpaces(text[1:])
		return listMarker{bullet: text[0], width: 1, padding: pad, content: text[1+idx:]}, true
	}
	i := 0
	for i < len(text) && text[i] >= '0' && text[i] <= '9' {
		i++
	}
	if i == 0 || i > 9 || i >= len(text) {
		return listMarker{}, false
	}
	if text[i] != '.' && text[i] != ')' {
		return listMarker{}, false
	}
	if i+1 < len(text) && !isSpaceByte(text[i+1]) {
		return listMarker{}, false
	}
	start := 0
	for j := 0; j < i; j++ {
		start = start*10 + int(text[j]-'0')
	}
	pad, idx := 1, 0
	if i+1 < len(text) {
		pad, idx = countSpaces(text[i+1:])
	}
	return listMarker{
		ordered: true,
		delim:   text[i],
		start:   start,
		width:   i + 1,
		padding: pad,
		content: text[i+1+idx:],
	}, true
}

// parseQuotePrefix strips leading blockquote markers, returning the depth,
// the remaining text, and whether any marker was present.
func parseQuotePrefix(text string) (depth int, rest string, ok bool) {
	i := 0
	indent := 0
	for i < len(text) && isSpaceByte(text[i]) {
		indent++
		i++
	}
	if indent >= tabStop {
		return 0, text, false
	}
	for i < len(text) && text[i] == '>' {
		depth++
		i++
		if i < len(text) && isSpaceByte(text[i]) {
			i++
		}
	}
	if depth == 0 {
		return 0, text, false
	}
	return depth, text[i:], true
}

// fenceInfo describes an opening code fence.
type fenceInfo struct {
	char   byte // '`' or '~'
	length int
	info   string // language tag, may be empty
}

// parseFence recognizes an opening code fence in text already stripped of
// indentation. Backtick fences may not carry backticks in the info string.
func parseFence(text string) (fenceInfo, bool) {
	if text == "" {
		return fenceInfo{}, false
	}
	ch := text[0]
	if ch != '`' && ch != '~' {
		return fenceInfo{}, false
	}
	n := 0
	for n < len(text) && text[n] == ch {
		n++
	}
	if n < 3 {
		return fenceInfo{}, false
	}
	info := strings.TrimSpace(text[n:])
	if ch == '`' && strings.ContainsRune(info, '`') {
		return fenceInfo{}, false
	}
	if i := strings.IndexAny(info, " \t"); i >= 0 {
		info = info[:i]
	}
	return fenceInfo{char: ch, length: n, info: info}, true
}

// closesFence reports whether text (indentation stripped) closes the given
// fence: same character, equal or greater length, nothing else on the line.
func closesFence(text string, open fenceInfo) bool {
	n := 0
	for n < len(text) && text[n] == open.char {
		n++
	}
	if n < open.length {
		return false
	}
	return strings.TrimSpace(text[n:]) == ""
}

// isThematicBreak recognizes a rule of three or more -, * or _ characters,
// optionally space-separated.
func isThematicBreak(text string) bool {
	trim := strings.TrimSpace(text)
	if trim == "" {
		return false
	}
	ch := trim[0]
	if ch != '-' && ch != '*' && ch != '_' {
		return false
	}
	count := 0
	for i := 0; i < len(trim); i++ {
		switch trim[i] {
		case ch:
			count++
		case ' ', '\t':
		default:
			return false
		}
	}
	return count >= 3
}

// hasHardLineBreak reports whether a line ends with a hard break marker
// (two or more trailing spaces, or a trailing backslash).
func hasHardLineBreak(text string) bool {
	if strings.HasSuffix(text, "  ") {
		return true
	}
	n := len(text)
	return n > 0 && text[n-1] == '\\' && (n < 2 || text[n-2] != '\\')
}

func countSpaces(s string) (int, int) {
	count := 0
	i := 0
	for i < len(s) && isSpaceByte(s[i]) {
		count++
		i++
	}
	return count, i
}

func isSpaceByte(b byte) bool {
	return b == ' ' || b == '\t'
}
