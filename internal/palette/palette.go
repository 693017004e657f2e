// Package palette holds the SGR attribute constants and escape builders
// shared by the renderer and configuration defaults.
package palette

// SGR parameter strings for text attributes.
const (
	Bold          = "1"
	Italic        = "3"
	Underline     = "4"
	Strikethrough = "9"
)

// Reset is the full SGR reset sequence.
const Reset = "\x1b[0m"

// Escape wraps an SGR parameter list in CSI ... m. Empty parameters produce
// no escape at all, never an empty sequence.
func Escape(params string) string {
	if params == "" {
		return ""
	}
	return "\x1b[" + params + "m"
}

// Foreground256 returns the SGR parameters selecting a 256-color foreground.
func Foreground256(index string) string {
	if index == "" {
		return ""
	}
	return "38;5;" + index
}

// Join combines SGR parameter lists, skipping empty ones.
func Join(params ...string) string {
	out := ""
	for _, p := range params {
		if p == "" {
			continue
		}
		if out != "" {
			out += ";"
		}
		out += p
	}
	return out
}
