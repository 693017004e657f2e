package ansimd

import (
	"testing"
)

func TestParseTableSeparator(t *testing.T) {
	cases := []struct {
		src   string
		want  []Alignment
		valid bool
	}{
		{"| --- | --- |", []Alignment{AlignNone, AlignNone}, true},
		{"--- | ---", []Alignment{AlignNone, AlignNone}, true},
		{"| :--- | :---: | ---: |", []Alignment{AlignLeft, AlignCenter, AlignRight}, true},
		{"| - |", []Alignment{AlignNone}, true},
		{"no pipes here", nil, false},
		{"| -- broken -- |", nil, false},
		{"| : |", nil, false},
		{"| --x-- |", nil, false},
		{"|  |", nil, false},
	}
	for _, tc := range cases {
		got, ok := parseTableSeparator(tc.src)
		if ok != tc.valid {
			t.Fatalf("%q: valid=%v, want %v", tc.src, ok, tc.valid)
		}
		if !ok {
			continue
		}
		if len(got) != len(tc.want) {
			t.Fatalf("%q: got %d columns, want %d", tc.src, len(got), len(tc.want))
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Fatalf("%q column %d: got %v, want %v", tc.src, i, got[i], tc.want[i])
			}
		}
	}
}

func TestSplitTableRow(t *testing.T) {
	cases := []struct {
		src  string
		want []string
	}{
		{"| a | b |", []string{"a", "b"}},
		{"a | b", []string{"a", "b"}},
		{"| a |", []string{"a"}},
		{`| a \| b | c |`, []string{"a | b", "c"}},
		{"|  | b |", []string{"", "b"}},
	}
	for _, tc := range cases {
		got := splitTableRow(tc.src)
		if len(got) != len(tc.want) {
			t.Fatalf("%q: got %#v, want %#v", tc.src, got, tc.want)
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Fatalf("%q cell %d: got %q, want %q", tc.src, i, got[i], tc.want[i])
			}
		}
	}
}

func TestIsSeparatorRowLike(t *testing.T) {
	yes := []string{"|---|---|", "| :-: |", "- | -", "| |"}
	no := []string{"---", "a | b", "| a |", ""}
	for _, s := range yes {
		if !isSeparatorRowLike(s) {
			t.Fatalf("%q should be separator-like", s)
		}
	}
	for _, s := range no {
		if isSeparatorRowLike(s) {
			t.Fatalf("%q should not be separator-like", s)
		}
	}
}

func TestTableRowNormalization(t *testing.T) {
	doc := parseDoc(t, "| a | b |\n| --- | --- |\n| 1 | 2 | 3 |\n| only |")
	tbl, ok := doc.Blocks[0].(*Table)
	if !ok {
		t.Fatalf("want *Table, got %T", doc.Blocks[0])
	}
	if len(tbl.Rows) != 2 {
		t.Fatalf("want 2 rows, got %d", len(tbl.Rows))
	}
	for i, row := range tbl.Rows {
		if len(row) != 2 {
			t.Fatalf("row %d: want 2 cells, got %d", i, len(row))
		}
	}
	// Truncated extras are dropped, short rows padded with empty cells.
	if plainText(tbl.Rows[1][1].Content) != "" {
		t.Fatalf("padded cell not empty: %#v", tbl.Rows[1][1])
	}
}

func TestTableColumnCountMismatchDegrades(t *testing.T) {
	doc := parseDoc(t, "| a | b |\n| --- | --- | --- |")
	for _, b := range doc.Blocks {
		if _, ok := b.(*Table); ok {
			t.Fatalf("column count mismatch must not produce a table: %#v", doc.Blocks)
		}
	}
}

func TestTableEndsAtBlankOrNewBlock(t *testing.T) {
	doc := parseDoc(t, "| a |\n| --- |\n| 1 |\n\nafter\n")
	tbl := doc.Blocks[0].(*Table)
	if len(tbl.Rows) != 1 {
		t.Fatalf("want 1 row, got %d", len(tbl.Rows))
	}
	if _, ok := doc.Blocks[1].(*Paragraph); !ok {
		t.Fatalf("paragraph after table missing: %#v", doc.Blocks)
	}

	doc = parseDoc(t, "| a |\n| --- |\n| 1 |\n# head")
	tbl = doc.Blocks[0].(*Table)
	if len(tbl.Rows) != 1 {
		t.Fatalf("heading should end the row run, got %d rows", len(tbl.Rows))
	}
}

func TestTableCellInlineContent(t *testing.T) {
	doc := parseDoc(t, "| **bold** | `code` |\n| --- | --- |")
	tbl := doc.Blocks[0].(*Table)
	if _, ok := tbl.Header[0].Content[0].(*Strong); !ok {
		t.Fatalf("header cell not inline-parsed: %#v", tbl.Header[0].Content)
	}
	if _, ok := tbl.Header[1].Content[0].(*CodeSpan); !ok {
		t.Fatalf("header cell code span missing: %#v", tbl.Header[1].Content)
	}
}

func TestEscapedPipeInCell(t *testing.T) {
	doc := parseDoc(t, `| a \| b |`+"\n| --- |\n")
	tbl, ok := doc.Blocks[0].(*Table)
	if !ok {
		t.Fatalf("want *Table, got %T", doc.Blocks[0])
	}
	if got := plainText(tbl.Header[0].Content); got != "a | b" {
		t.Fatalf("escaped pipe mismatch: %q", got)
	}
}
