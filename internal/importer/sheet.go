package importer

import (
	"fmt"
	"strings"
)

// Sheet is a parsed table: a header row and data rows. Rows are padded or
// truncated to the header width.
type Sheet struct {
	Title   string
	Headers []string
	Rows    [][]string
}

// Column returns the index of the header matching name case-insensitively,
// or -1.
func (s *Sheet) Column(name string) int {
	for i, h := range s.Headers {
		if strings.EqualFold(strings.TrimSpace(h), name) {
			return i
		}
	}
	return -1
}

// Values returns every row's cell in column col.
func (s *Sheet) Values(col int) []string {
	out := make([]string, 0, len(s.Rows))
	for _, row := range s.Rows {
		out = append(out, cell(row, col))
	}
	return out
}

// Record maps header names to the cells of row i.
func (s *Sheet) Record(i int) map[string]string {
	rec := make(map[string]string, len(s.Headers))
	for j, h := range s.Headers {
		rec[h] = cell(s.Rows[i], j)
	}
	return rec
}

func cell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return row[col]
}

// normalizeHeaders fills blank header names and makes duplicates unique.
func normalizeHeaders(headers []string) []string {
	out := make([]string, len(headers))
	seen := make(map[string]int)
	for i, h := range headers {
		h = strings.TrimSpace(h)
		if h == "" {
			h = fmt.Sprintf("column %d", i+1)
		}
		key := strings.ToLower(h)
		if n := seen[key]; n > 0 {
			h = fmt.Sprintf("%s (%d)", h, n+1)
		}
		seen[key]++
		out[i] = h
	}
	return out
}

func fitRow(row []string, width int) []string {
	if len(row) == width {
		return row
	}
	out := make([]string, width)
	copy(out, row)
	return out
}

// documentBuilder collects question text from prose documents. It joins
// fragments while a list environment is still open, so a question whose
// list spans blank lines stays whole.
type documentBuilder struct {
	sheet    *Sheet
	sections []heading
	pending  []string
	section  string
}

type heading struct {
	title string
	level int
}

func newDocumentBuilder(title string) *documentBuilder {
	return &documentBuilder{
		sheet: &Sheet{Title: title, Headers: []string{ColumnQuestion, ColumnSection}},
	}
}

// heading records a section heading. Headings at the same or deeper level
// than the new one are closed.
func (b *documentBuilder) heading(title string, level int) {
	b.flush()
	for len(b.sections) > 0 && b.sections[len(b.sections)-1].level >= level {
		b.sections = b.sections[:len(b.sections)-1]
	}
	b.sections = append(b.sections, heading{title: strings.TrimSpace(title), level: level})
}

func (b *documentBuilder) breadcrumb() string {
	parts := make([]string, 0, len(b.sections))
	for _, h := range b.sections {
		if h.title != "" {
			parts = append(parts, h.title)
		}
	}
	return strings.Join(parts, " > ")
}

// text adds a block of question text.
func (b *documentBuilder) text(t string) {
	t = strings.TrimSpace(t)
	if t == "" {
		return
	}
	if len(b.pending) == 0 {
		b.section = b.breadcrumb()
	}
	b.pending = append(b.pending, t)
	if openEnvironments(strings.Join(b.pending, "\n")) <= 0 {
		b.flush()
	}
}

func (b *documentBuilder) flush() {
	if len(b.pending) == 0 {
		return
	}
	b.sheet.Rows = append(b.sheet.Rows, []string{strings.Join(b.pending, "\n\n"), b.section})
	b.pending = nil
}

func (b *documentBuilder) finish() *Sheet {
	b.flush()
	return b.sheet
}

// openEnvironments counts list environments begun but not yet ended.
func openEnvironments(s string) int {
	open := 0
	for _, env := range []string{"itemize", "enumerate"} {
		open += strings.Count(s, `\begin{`+env+`}`) - strings.Count(s, `\end{`+env+`}`)
	}
	return open
}
