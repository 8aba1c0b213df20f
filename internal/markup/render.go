package markup

import (
	"fmt"
	"strings"
)

// Typesetter turns a math expression into visual output. It may fail on
// malformed input; the renderer contains that failure to the one span.
type Typesetter interface {
	Typeset(expr string, display bool) (string, error)
}

// NodeKind identifies a renderable node.
type NodeKind string

const (
	NodeText      NodeKind = "text"
	NodeMath      NodeKind = "math"
	NodeLineBreak NodeKind = "line_break"
	NodeList      NodeKind = "list"
	NodeLabel     NodeKind = "label"
)

// HintError marks a text node that stands in for math the typesetter
// rejected.
const HintError = "error"

// Style holds independent formatting flags.
type Style struct {
	Bold      bool `json:"bold,omitempty"`
	Italic    bool `json:"italic,omitempty"`
	Underline bool `json:"underline,omitempty"`
}

// Node is the output unit consumed by the presentation layer.
type Node struct {
	Kind    NodeKind   `json:"kind"`
	Text    string     `json:"text,omitempty"`
	Style   Style      `json:"style,omitzero"`
	Expr    string     `json:"expr,omitempty"`
	Display bool       `json:"display,omitempty"`
	Output  string     `json:"output,omitempty"`
	Source  string     `json:"source,omitempty"`
	Hint    string     `json:"hint,omitempty"`
	Error   string     `json:"error,omitempty"`
	Items   []ListItem `json:"items,omitempty"`
}

// ListItem is a rendered list entry. Nodes starts with the label node.
type ListItem struct {
	Label    string `json:"label"`
	Explicit bool   `json:"explicit,omitempty"`
	Nodes    []Node `json:"nodes"`
}

// Renderer runs the normalize, split and inline stages. It holds no
// per-render state and is safe for concurrent use.
type Renderer struct {
	ts Typesetter

	// Bullet overrides DefaultBullet for items without an explicit label.
	Bullet string
}

// NewRenderer creates a renderer. A nil typesetter leaves math nodes
// without Output, for presentation layers that typeset on their own.
func NewRenderer(ts Typesetter) *Renderer {
	return &Renderer{ts: ts}
}

// Render runs the full pipeline over a document. An empty document yields
// no nodes.
func (r *Renderer) Render(raw string) []Node {
	var out []Node
	for _, seg := range Split(Normalize(raw)) {
		switch seg.Kind {
		case SegmentPlain:
			out = append(out, r.RenderInline(seg.Body)...)
		case SegmentList:
			if list, ok := r.renderList(seg.Items); ok {
				out = append(out, list)
			}
		}
	}
	return out
}

func (r *Renderer) renderList(items []Item) (Node, bool) {
	if len(items) == 0 {
		return Node{}, false
	}
	list := Node{Kind: NodeList, Items: make([]ListItem, 0, len(items))}
	for _, it := range items {
		label := it.Label
		if !it.Explicit && r.Bullet != "" {
			label = r.Bullet
		}
		nodes := []Node{{Kind: NodeLabel, Text: label}}
		nodes = append(nodes, r.RenderInline(it.Body)...)
		list.Items = append(list.Items, ListItem{Label: label, Explicit: it.Explicit, Nodes: nodes})
	}
	return list, true
}

// RenderInline renders one plain body or item body: math spans are
// typeset and the text between them is split into styled runs and line
// breaks, all in document order.
func (r *Renderer) RenderInline(b Stream) []Node {
	f := flatten(b)
	w := inlineWriter{f: f}
	pos := 0
	for _, sp := range f.spans() {
		w.region(pos, sp.Start)
		w.out = append(w.out, r.typeset(sp, w.style))
		w.skipMarks(sp.End)
		pos = sp.End
	}
	w.region(pos, len(f.text))
	return w.out
}

// typeset converts one span, falling back to its literal source if the
// typesetter errors or panics.
func (r *Renderer) typeset(sp Span, style Style) (n Node) {
	n = Node{Kind: NodeMath, Expr: sp.Expr, Display: sp.Mode == Block, Source: sp.Source}
	if r.ts == nil {
		return n
	}
	defer func() {
		if p := recover(); p != nil {
			n = fallback(sp, style, fmt.Errorf("typesetter panic: %v", p))
		}
	}()
	out, err := r.ts.Typeset(sp.Expr, sp.Mode == Block)
	if err != nil {
		return fallback(sp, style, err)
	}
	n.Output = out
	return n
}

func fallback(sp Span, style Style, err error) Node {
	return Node{
		Kind:    NodeText,
		Text:    sp.Source,
		Style:   style,
		Source:  sp.Source,
		Display: sp.Mode == Block,
		Hint:    HintError,
		Error:   err.Error(),
	}
}

// inlineWriter accumulates the nodes of one body. Its style is local to
// the body: a flag left set at the end is closed implicitly.
type inlineWriter struct {
	f     flat
	mi    int
	style Style
	out   []Node
}

// region emits text[a:b] and applies every sentinel pinned in [a, b].
func (w *inlineWriter) region(a, b int) {
	cur := a
	for w.mi < len(w.f.marks) && w.f.marks[w.mi].pos <= b {
		m := w.f.marks[w.mi]
		w.text(w.f.text[cur:m.pos])
		cur = m.pos
		w.apply(m.tok)
		w.mi++
	}
	w.text(w.f.text[cur:b])
}

// skipMarks consumes the sentinels inside a math span ending at end. Their
// source already went to the typesetter, but formatting toggles still
// take effect so a region closed inside the span stays closed after it.
func (w *inlineWriter) skipMarks(end int) {
	for w.mi < len(w.f.marks) && w.f.marks[w.mi].pos < end {
		if t := w.f.marks[w.mi].tok; t.Kind != KindNewline {
			w.apply(t)
		}
		w.mi++
	}
}

func (w *inlineWriter) apply(t Token) {
	switch t.Kind {
	case KindNewline:
		w.out = append(w.out, Node{Kind: NodeLineBreak})
	case KindBoldStart:
		w.style.Bold = true
	case KindBoldEnd:
		w.style.Bold = false
	case KindItalicStart:
		w.style.Italic = true
	case KindItalicEnd:
		w.style.Italic = false
	case KindUnderlineStart:
		w.style.Underline = true
	case KindUnderlineEnd:
		w.style.Underline = false
	}
}

func (w *inlineWriter) text(s string) {
	if s == "" {
		return
	}
	if n := len(w.out); n > 0 {
		last := &w.out[n-1]
		if last.Kind == NodeText && last.Hint == "" && last.Style == w.style {
			last.Text += s
			return
		}
	}
	w.out = append(w.out, Node{Kind: NodeText, Text: s, Style: w.style})
}

// Literal concatenates the literal text of nodes in order, using each math
// node's delimited source. Labels and line breaks contribute nothing.
func Literal(nodes []Node) string {
	var sb strings.Builder
	writeLiteral(&sb, nodes)
	return sb.String()
}

func writeLiteral(sb *strings.Builder, nodes []Node) {
	for _, n := range nodes {
		switch n.Kind {
		case NodeText:
			sb.WriteString(n.Text)
		case NodeMath:
			sb.WriteString(n.Source)
		case NodeList:
			for _, it := range n.Items {
				writeLiteral(sb, it.Nodes)
			}
		}
	}
}

// RenderStats counts what a render produced.
type RenderStats struct {
	Nodes      int `json:"nodes"`
	Text       int `json:"text"`
	Inline     int `json:"inline_math"`
	Display    int `json:"display_math"`
	Fallbacks  int `json:"fallbacks"`
	LineBreaks int `json:"line_breaks"`
	Lists      int `json:"lists"`
	Items      int `json:"items"`
}

// Stats walks nodes, including list items, and counts them by kind.
func Stats(nodes []Node) RenderStats {
	var s RenderStats
	s.add(nodes)
	return s
}

func (s *RenderStats) add(nodes []Node) {
	for _, n := range nodes {
		s.Nodes++
		switch n.Kind {
		case NodeText:
			if n.Hint == HintError {
				s.Fallbacks++
			} else {
				s.Text++
			}
		case NodeMath:
			if n.Display {
				s.Display++
			} else {
				s.Inline++
			}
		case NodeLineBreak:
			s.LineBreaks++
		case NodeList:
			s.Lists++
			s.Items += len(n.Items)
			for _, it := range n.Items {
				s.add(it.Nodes)
			}
		}
	}
}
