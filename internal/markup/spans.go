package markup

import (
	"sort"
	"strings"
)

// MathMode distinguishes display math from math in the flow of text.
type MathMode int

const (
	Inline MathMode = iota
	Block
)

func (m MathMode) String() string {
	if m == Block {
		return "block"
	}
	return "inline"
}

// Span is a located math expression within one body. Start and End are
// byte offsets into the body's literal text and include the delimiters.
type Span struct {
	Mode   MathMode
	Start  int
	End    int
	Open   string
	Close  string
	Expr   string // trimmed expression between the delimiters
	Source string // delimited source with sentinels restored
}

// mark is a sentinel pinned between two bytes of the literal text: it sits
// immediately before text[pos].
type mark struct {
	pos int
	tok Token
}

// flat is a body split into its literal text and its sentinels.
type flat struct {
	text  string
	marks []mark
}

func flatten(b Stream) flat {
	var sb strings.Builder
	var marks []mark
	for _, t := range b {
		if t.Kind == KindText {
			sb.WriteString(t.Text)
			continue
		}
		marks = append(marks, mark{pos: sb.Len(), tok: t})
	}
	return flat{text: sb.String(), marks: marks}
}

// FindSpans locates the math spans of a body: block math first, then
// inline math in the gaps between block spans. The result is sorted by
// Start and never overlaps.
func FindSpans(b Stream) []Span {
	f := flatten(b)
	return f.spans()
}

func (f flat) spans() []Span {
	blocks := f.blockSpans()

	var spans []Span
	lo := 0
	for _, bs := range blocks {
		spans = append(spans, f.inlineSpans(lo, bs.Start)...)
		spans = append(spans, bs)
		lo = bs.End
	}
	spans = append(spans, f.inlineSpans(lo, len(f.text))...)
	return spans
}

var blockDelims = [][2]string{{"$$", "$$"}, {`\[`, `\]`}}

func (f flat) blockSpans() []Span {
	var spans []Span
	i := 0
	for i < len(f.text) {
		open, d := -1, 0
		for n, delim := range blockDelims {
			if k := f.find(delim[0], i, len(f.text)); k >= 0 && (open < 0 || k < open) {
				open, d = k, n
			}
		}
		if open < 0 {
			break
		}
		opener, closer := blockDelims[d][0], blockDelims[d][1]
		c := f.find(closer, open+len(opener), len(f.text))
		if c < 0 {
			i = open + len(opener)
			continue
		}
		spans = append(spans, f.span(Block, open, c+len(closer), opener, closer))
		i = c + len(closer)
	}
	return spans
}

// inlineSpans scans [lo, hi) for single-dollar and \( \) math.
func (f flat) inlineSpans(lo, hi int) []Span {
	var spans []Span
	i := lo
	for i < hi {
		k := strings.IndexAny(f.text[i:hi], `$\`)
		if k < 0 {
			break
		}
		k += i

		if f.text[k] == '\\' {
			if strings.HasPrefix(f.text[k:hi], `\(`) && f.contiguous(k, k+2) {
				if c := f.find(`\)`, k+2, hi); c >= 0 {
					spans = append(spans, f.span(Inline, k, c+2, `\(`, `\)`))
					i = c + 2
					continue
				}
			}
			i = k + 1
			continue
		}

		if !f.dollarOpener(k, lo, hi) {
			i = k + 1
			continue
		}
		c := f.find("$", k+1, hi)
		if c < 0 || f.dollarAt(c+1, hi) && f.contiguous(c, c+2) || f.hasNewline(k, c+1) {
			i = k + 1
			continue
		}
		spans = append(spans, f.span(Inline, k, c+1, "$", "$"))
		i = c + 1
	}
	return spans
}

// dollarOpener reports whether the '$' at k can open inline math: it is
// not escaped and not part of a "$$" pair within [lo, hi).
func (f flat) dollarOpener(k, lo, hi int) bool {
	if f.escaped(k) {
		return false
	}
	if f.dollarAt(k+1, hi) && f.contiguous(k, k+2) {
		return false
	}
	if k > lo && f.text[k-1] == '$' && f.contiguous(k-1, k+1) {
		return false
	}
	return true
}

func (f flat) dollarAt(k, hi int) bool {
	return k < hi && f.text[k] == '$'
}

// find returns the first position in [from, hi) where delim occurs
// contiguously and unescaped, or -1.
func (f flat) find(delim string, from, hi int) int {
	for from < hi {
		k := strings.Index(f.text[from:hi], delim)
		if k < 0 {
			return -1
		}
		k += from
		if f.contiguous(k, k+len(delim)) && !(delim[0] == '$' && f.escaped(k)) {
			return k
		}
		from = k + 1
	}
	return -1
}

// escaped reports whether the byte at k is preceded by a backslash.
func (f flat) escaped(k int) bool {
	return k > 0 && f.text[k-1] == '\\' && f.contiguous(k-1, k+1)
}

// contiguous reports whether no sentinel sits strictly inside [start, end).
func (f flat) contiguous(start, end int) bool {
	i := sort.Search(len(f.marks), func(i int) bool { return f.marks[i].pos > start })
	return i == len(f.marks) || f.marks[i].pos >= end
}

// hasNewline reports whether [start, end) contains a line break, literal
// or sentinel.
func (f flat) hasNewline(start, end int) bool {
	if strings.ContainsRune(f.text[start:end], '\n') {
		return true
	}
	for _, m := range f.marks {
		if m.pos > start && m.pos < end && m.tok.Kind == KindNewline {
			return true
		}
	}
	return false
}

func (f flat) span(mode MathMode, start, end int, open, close string) Span {
	inner := f.source(start+len(open), end-len(close))
	return Span{
		Mode:   mode,
		Start:  start,
		End:    end,
		Open:   open,
		Close:  close,
		Expr:   strings.TrimSpace(inner),
		Source: open + inner + close,
	}
}

// source rebuilds text[start:end] with the raw source of every sentinel
// pinned inside it, including ones at either edge.
func (f flat) source(start, end int) string {
	var sb strings.Builder
	cur := start
	for _, m := range f.marks {
		if m.pos < start || m.pos > end {
			continue
		}
		sb.WriteString(f.text[cur:m.pos])
		sb.WriteString(m.tok.Source)
		cur = m.pos
	}
	sb.WriteString(f.text[cur:end])
	return sb.String()
}
