package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"golang.org/x/term"
	"pkt.systems/ansimd"
	"pkt.systems/version"
)

const defaultWidth = 80

func init() {
	version.SetDefaultModule("pkt.systems/ansimd")
}

func main() {
	var (
		widthFlag       int
		osc8Flag        string
		outPath         string
		boring          bool
		noGFM           bool
		noTables        bool
		noStrikethrough bool
		noTasklists     bool
		headingColor    string
		codeColor       string
		linkColor       string
		textColor       string
	)

	defaults := ansimd.DefaultConfig()
	flags := pflag.NewFlagSet("ansimd", pflag.ExitOnError)
	flags.IntVarP(&widthFlag, "width", "w", 0, "Output width override (0 uses terminal width if available)")
	flags.StringVarP(&osc8Flag, "osc8", "8", "auto", "OSC8 hyperlinks: auto|on|off")
	flags.StringVarP(&outPath, "output", "o", "", "Output file instead of stdout")
	flags.BoolVarP(&boring, "boring", "b", false, "Disable all colors")
	flags.BoolVar(&noGFM, "no-gfm", false, "Disable all GFM extensions")
	flags.BoolVar(&noTables, "no-tables", false, "Disable GFM tables")
	flags.BoolVar(&noStrikethrough, "no-strikethrough", false, "Disable GFM strikethrough")
	flags.BoolVar(&noTasklists, "no-tasklists", false, "Disable GFM task lists")
	flags.StringVar(&headingColor, "heading-color", defaults.HeadingColor, "Heading SGR parameters")
	flags.StringVar(&codeColor, "code-color", defaults.CodeColor, "Code SGR parameters")
	flags.StringVar(&linkColor, "link-color", defaults.LinkColor, "Link SGR parameters")
	flags.StringVar(&textColor, "text-color", defaults.TextColor, "Base text SGR parameters")

	flags.SetInterspersed(true)
	flags.Usage = func() {
		fmt.Fprintln(os.Stderr, version.Module(), version.Current())
		fmt.Fprintf(os.Stderr, "Usage: ansimd [flags] [inputs...]\n")
		fmt.Fprintln(os.Stderr, "\nIf no input is provided, Markdown is read from stdin.")
		fmt.Fprintln(os.Stderr, "\nFlags:")
		flags.PrintDefaults()
	}

	if err := flags.Parse(os.Args[1:]); err != nil {
		os.Exit(2)
	}

	reader, closer, err := openInputs(flags.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "open input: %v\n", err)
		os.Exit(1)
	}
	if closer != nil {
		defer func() { _ = closer.Close() }()
	}

	writer, closeOut, err := resolveOutput(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open output: %v\n", err)
		os.Exit(1)
	}
	if closeOut != nil {
		defer func() { _ = closeOut.Close() }()
	}

	osc8, err := resolveOSC8(osc8Flag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid --osc8 %q: %v\n", osc8Flag, err)
		os.Exit(2)
	}

	opts := []ansimd.Option{
		ansimd.WithGFM(!noGFM),
		ansimd.WithTables(!noTables),
		ansimd.WithStrikethrough(!noStrikethrough),
		ansimd.WithTasklists(!noTasklists),
		ansimd.WithHeadingColor(headingColor),
		ansimd.WithCodeColor(codeColor),
		ansimd.WithLinkColor(linkColor),
		ansimd.WithTextColor(textColor),
		ansimd.WithOSC8(osc8),
	}
	if boring {
		opts = append(opts,
			ansimd.WithHeadingColor(""),
			ansimd.WithCodeColor(""),
			ansimd.WithLinkColor(""),
			ansimd.WithTextColor(""),
		)
	}

	if err := ansimd.Render(ansimd.RenderRequest{
		Reader:  reader,
		Writer:  writer,
		Width:   resolveWidth(widthFlag),
		Options: opts,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "render: %v\n", err)
		os.Exit(1)
	}
}

func resolveWidth(width int) int {
	if width > 0 {
		return width
	}
	fd := int(os.Stdout.Fd())
	if term.IsTerminal(fd) {
		if w, _, err := term.GetSize(fd); err == nil && w > 0 {
			return w
		}
	}
	return defaultWidth
}

func resolveOSC8(mode string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", "auto":
		return ansimd.DetectOSC8Support(), nil
	case "on", "true", "1", "yes":
		return true, nil
	case "off", "false", "0", "no":
		return false, nil
	default:
		return false, fmt.Errorf("expected auto|on|off")
	}
}

type multiReader struct {
	paths []string
	cur   *os.File
}

func (m *multiReader) Read(p []byte) (int, error) {
	for {
		if m.cur == nil {
			if len(m.paths) == 0 {
				return 0, io.EOF
			}
			f, err := os.Open(m.paths[0])
			if err != nil {
				return 0, err
			}
			m.cur = f
			m.paths = m.paths[1:]
		}
		n, err := m.cur.Read(p)
		if n > 0 {
			return n, nil
		}
		if err == io.EOF {
			_ = m.cur.Close()
			m.cur = nil
			continue
		}
		if err != nil {
			return 0, err
		}
	}
}

func (m *multiReader) Close() error {
	if m.cur != nil {
		return m.cur.Close()
	}
	return nil
}

func openInputs(args []string) (io.Reader, io.Closer, error) {
	if len(args) == 0 {
		return os.Stdin, nil, nil
	}
	paths := make([]string, 0, len(args))
	for _, raw := range args {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			return nil, nil, fmt.Errorf("empty input argument")
		}
		paths = append(paths, normalizePath(raw))
	}
	m := &multiReader{paths: paths}
	return m, m, nil
}

func resolveOutput(path string) (io.Writer, io.Closer, error) {
	if strings.TrimSpace(path) == "" {
		return os.Stdout, nil, nil
	}
	clean := normalizePath(path)
	dir := filepath.Dir(clean)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, err
		}
	}
	f, err := os.Create(clean)
	if err != nil {
		return nil, nil, err
	}
	return f, f, nil
}

func normalizePath(path string) string {
	if strings.HasPrefix(path, "~/") || path == "~" {
		home, err := os.UserHomeDir()
		if err == nil {
			if path == "~" {
				path = home
			} else {
				path = filepath.Join(home, path[2:])
			}
		}
	}
	abs, err := filepath.Abs(path)
	if err == nil {
		return abs
	}
	return path
}
