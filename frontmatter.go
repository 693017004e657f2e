package ansimd

import "strings"

// skipFrontMatter drops a YAML/TOML/JSON front matter header from the start
// of the line sequence. The opening delimiter must be the very first line,
// the line after it must look like metadata, and a matching closing
// delimiter must exist; otherwise the input is left untouched and renders
// as ordinary Markdown.
func skipFrontMatter(lines []line) []line {
	if len(lines) < 3 {
		return lines
	}
	delim := strings.TrimSpace(lines[0].text)
	switch delim {
	case "---", "+++", ";;;":
	default:
		return lines
	}
	if !frontMatterMetadataLikely(lines[1].text) {
		return lines
	}
	for i := 2; i < len(lines); i++ {
		if strings.TrimSpace(lines[i].text) == delim {
			return lines[i+1:]
		}
	}
	return lines
}

func frontMatterMetadataLikely(text string) bool {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return false
	}
	if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
		return true
	}
	return strings.ContainsAny(trimmed, ":=")
}
