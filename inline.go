package ansimd

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// inlineNode is either a resolved Inline or a pending delimiter run. The
// inline parser guarantees every pending run is resolved or downgraded to
// literal text before the node list leaves this file.
type inlineNode struct {
	inl      Inline
	delim    byte // '*', '_', '~' or '[' for a link opener
	count    int
	canOpen  bool
	canClose bool
}

func delimText(n inlineNode) string {
	return strings.Repeat(string(n.delim), n.count)
}

// parseInlines turns a raw text run into fully resolved inline nodes.
// Interior newlines are soft breaks; a backslash before a newline is a hard
// break (the block parser normalizes trailing double spaces to that form).
func parseInlines(cfg Config, src string) []Inline {
	nodes := scanInlines(cfg, src)
	nodes = processEmphasis(nodes)
	return finishInlines(nodes)
}

func scanInlines(cfg Config, src string) []inlineNode {
	var nodes []inlineNode
	var text strings.Builder

	flushText := func() {
		if text.Len() > 0 {
			nodes = append(nodes, inlineNode{inl: &Text{Text: text.String()}})
			text.Reset()
		}
	}

	i := 0
	for i < len(src) {
		b := src[i]
		switch b {
		case '\\':
			if i+1 < len(src) && src[i+1] == '\n' {
				flushText()
				nodes = append(nodes, inlineNode{inl: &HardBreak{}})
				i += 2
				continue
			}
			if i+1 < len(src) && isASCIIPunct(src[i+1]) {
				text.WriteByte(src[i+1])
				i += 2
				continue
			}
			text.WriteByte('\\')
			i++
		case '\n':
			text.WriteByte(' ')
			i++
		case '`':
			n := runLength(src, i, '`')
			if span, next, ok := matchCodeSpan(src, i, n); ok {
				flushText()
				nodes = append(nodes, inlineNode{inl: &CodeSpan{Text: span}})
				i = next
				continue
			}
			text.WriteString(src[i : i+n])
			i += n
		case '*', '_':
			n := runLength(src, i, b)
			canOpen, canClose := flanking(src, i, i+n, b)
			flushText()
			nodes = append(nodes, inlineNode{delim: b, count: n, canOpen: canOpen, canClose: canClose})
			i += n
		case '~':
			n := runLength(src, i, b)
			if cfg.strikethroughEnabled() && n == 2 {
				canOpen, canClose := flanking(src, i, i+n, b)
				flushText()
				nodes = append(nodes, inlineNode{delim: b, count: n, canOpen: canOpen, canClose: canClose})
			} else {
				text.WriteString(src[i : i+n])
			}
			i += n
		case '[':
			flushText()
			nodes = append(nodes, inlineNode{delim: '[', count: 1})
			i++
		case ']':
			flushText()
			opener := lastLinkOpener(nodes)
			if opener < 0 {
				text.WriteByte(']')
				i++
				continue
			}
			dest, next, ok := parseLinkDestination(src, i+1)
			label := nodes[opener+1:]
			if !ok || len(label) == 0 {
				text.WriteByte(']')
				i++
				continue
			}
			content := finishInlines(processEmphasis(label))
			if len(content) == 0 {
				text.WriteByte(']')
				i++
				continue
			}
			nodes = append(nodes[:opener], inlineNode{inl: &Link{Label: content, Destination: dest}})
			i = next
		default:
			j := i
			for j < len(src) && !isInlineSpecial(src[j]) {
				j++
			}
			text.WriteString(src[i:j])
			i = j
		}
	}
	flushText()
	return nodes
}

func isInlineSpecial(b byte) bool {
	switch b {
	case '\\', '\n', '`', '*', '_', '~', '[', ']':
		return true
	}
	return false
}

func isASCIIPunct(b byte) bool {
	return strings.IndexByte("!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~", b) >= 0
}

func runLength(src string, i int, ch byte) int {
	n := 0
	for i+n < len(src) && src[i+n] == ch {
		n++
	}
	return n
}

// matchCodeSpan finds a closing backtick run of exactly n for the run
// opening at i. Content keeps everything literal; a single leading and
// trailing space is stripped when both are present and the content is not
// all spaces.
func matchCodeSpan(src string, i, n int) (string, int, bool) {
	j := i + n
	for j < len(src) {
		if src[j] != '`' {
			j++
			continue
		}
		m := runLength(src, j, '`')
		if m == n {
			content := strings.ReplaceAll(src[i+n:j], "\n", " ")
			if len(content) >= 2 && content[0] == ' ' && content[len(content)-1] == ' ' &&
				strings.TrimSpace(content) != "" {
				content = content[1 : len(content)-1]
			}
			return content, j + m, true
		}
		j += m
	}
	return "", 0, false
}

func lastLinkOpener(nodes []inlineNode) int {
	for j := len(nodes) - 1; j >= 0; j-- {
		if nodes[j].inl == nil && nodes[j].delim == '[' {
			return j
		}
	}
	return -1
}

// parseLinkDestination parses "(destination)" at src[i]. The destination may
// contain ')' only when balanced by '(' or escaped; newlines are not
// allowed. Returns the destination with escapes resolved and the index just
// past the closing paren.
func parseLinkDestination(src string, i int) (string, int, bool) {
	if i >= len(src) || src[i] != '(' {
		return "", 0, false
	}
	var dest strings.Builder
	depth := 0
	j := i + 1
	for j < len(src) {
		b := src[j]
		switch b {
		case '\\':
			if j+1 < len(src) && isASCIIPunct(src[j+1]) {
				dest.WriteByte(src[j+1])
				j += 2
				continue
			}
			dest.WriteByte('\\')
			j++
		case '(':
			depth++
			dest.WriteByte(b)
			j++
		case ')':
			if depth == 0 {
				return strings.TrimSpace(dest.String()), j + 1, true
			}
			depth--
			dest.WriteByte(b)
			j++
		case '\n':
			return "", 0, false
		default:
			dest.WriteByte(b)
			j++
		}
	}
	return "", 0, false
}

// flanking computes CommonMark left/right flanking for the delimiter run
// src[i:j], with the underscore punctuation tie-breaks. Start and end of
// the run's text count as whitespace.
func flanking(src string, i, j int, ch byte) (canOpen, canClose bool) {
	before := ' '
	if i > 0 {
		before, _ = utf8.DecodeLastRuneInString(src[:i])
	}
	after := ' '
	if j < len(src) {
		after, _ = utf8.DecodeRuneInString(src[j:])
	}
	leftFlank := !isUniSpace(after) && (!isUniPunct(after) || isUniSpace(before) || isUniPunct(before))
	rightFlank := !isUniSpace(before) && (!isUniPunct(before) || isUniSpace(after) || isUniPunct(after))
	if ch == '_' {
		canOpen = leftFlank && (!rightFlank || isUniPunct(before))
		canClose = rightFlank && (!leftFlank || isUniPunct(after))
		return canOpen, canClose
	}
	return leftFlank, rightFlank
}

func isUniSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || unicode.IsSpace(r)
}

func isUniPunct(r rune) bool {
	return unicode.IsPunct(r) || unicode.IsSymbol(r)
}

// processEmphasis resolves delimiter runs into Emphasis, Strong and
// Strikethrough nodes. Runs of length two or more bind as Strong before
// single-length Emphasis when both could close at the same position.
func processEmphasis(nodes []inlineNode) []inlineNode {
	pos := 0
	for pos < len(nodes) {
		n := nodes[pos]
		if n.inl != nil || n.delim == '[' || !n.canClose || n.count == 0 {
			pos++
			continue
		}
		opener := -1
		for j := pos - 1; j >= 0; j-- {
			o := nodes[j]
			if o.inl == nil && o.delim == n.delim && o.delim != '[' && o.canOpen && o.count > 0 {
				opener = j
				break
			}
		}
		if opener < 0 {
			pos++
			continue
		}
		use := 1
		if n.delim == '~' || (nodes[opener].count >= 2 && nodes[pos].count >= 2) {
			use = 2
		}
		content := finishInlines(nodes[opener+1 : pos])
		var wrapped Inline
		switch {
		case n.delim == '~':
			wrapped = &Strikethrough{Content: content}
		case use == 2:
			wrapped = &Strong{Content: content}
		default:
			wrapped = &Emphasis{Content: content}
		}
		openerNode := nodes[opener]
		closerNode := nodes[pos]
		openerNode.count -= use
		closerNode.count -= use

		out := make([]inlineNode, 0, len(nodes))
		out = append(out, nodes[:opener]...)
		if openerNode.count > 0 {
			out = append(out, openerNode)
		}
		out = append(out, inlineNode{inl: wrapped})
		next := len(out)
		if closerNode.count > 0 {
			out = append(out, closerNode)
			next = len(out) - 1
		}
		out = append(out, nodes[pos+1:]...)
		nodes = out
		pos = next
	}
	return nodes
}

// finishInlines downgrades every unresolved delimiter to literal text and
// merges adjacent text nodes, so the finished tree never carries an
// unmatched delimiter.
func finishInlines(nodes []inlineNode) []Inline {
	out := make([]Inline, 0, len(nodes))
	for _, n := range nodes {
		var inl Inline
		if n.inl != nil {
			inl = n.inl
		} else {
			inl = &Text{Text: delimText(n)}
		}
		if t, ok := inl.(*Text); ok {
			if len(out) > 0 {
				if prev, ok := out[len(out)-1].(*Text); ok {
					prev.Text += t.Text
					continue
				}
			}
			if t.Text == "" {
				continue
			}
		}
		out = append(out, inl)
	}
	return out
}
