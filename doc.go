// Package ansimd renders Markdown to ANSI-escaped text for terminal display.
//
// The pipeline is tree-based: a scanner classifies source lines, a block
// parser builds a document tree (driving the inline parser per text run), and
// a renderer walks the finished tree emitting SGR escape sequences from a
// style stack. Every opened style scope is closed before the renderer
// returns, so output never ends inside an escape scope, even on a fatal
// input fault.
//
// Malformed syntax degrades to literal text; only encoding corruption with
// no recoverable token boundary is fatal, and even then a best-effort
// rendering of the input consumed before the fault is returned.
//
// Example:
//
//	p := ansimd.New()
//	out, err := p.Render([]byte("# Hello\n\nMarkdown in, **ANSI** out.\n"))
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Print(out)
//
// GFM tables, strikethrough and task lists are enabled by default and can be
// toggled per feature. Colors are opaque SGR parameter strings; an empty
// value falls back to the terminal default and emits no escape at all.
package ansimd
