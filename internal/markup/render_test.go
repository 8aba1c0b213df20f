package markup

import (
	"errors"
	"strings"
	"testing"
)

// fakeTypesetter wraps expressions in a tag, rejects "bad" and panics on
// "boom".
type fakeTypesetter struct{}

func (fakeTypesetter) Typeset(expr string, display bool) (string, error) {
	switch expr {
	case "bad":
		return "", errors.New("unknown command")
	case "boom":
		panic("typesetter exploded")
	}
	if display {
		return "<block>" + expr + "</block>", nil
	}
	return "<inline>" + expr + "</inline>", nil
}

func render(input string) []Node {
	return NewRenderer(fakeTypesetter{}).Render(input)
}

func TestRender_PlainIdentity(t *testing.T) {
	input := "What is the capital of France?"
	nodes := render(input)
	if len(nodes) != 1 {
		t.Fatalf("expected 1 node, got %d", len(nodes))
	}
	n := nodes[0]
	if n.Kind != NodeText || n.Text != input || n.Style != (Style{}) {
		t.Errorf("expected unstyled text %q, got %+v", input, n)
	}
}

func TestRender_EmptyInput(t *testing.T) {
	if nodes := render(""); len(nodes) != 0 {
		t.Errorf("expected no nodes, got %+v", nodes)
	}
}

func TestRender_InlineMath(t *testing.T) {
	nodes := render("Find $x$ now")
	if len(nodes) != 3 {
		t.Fatalf("expected 3 nodes, got %d: %+v", len(nodes), nodes)
	}
	if nodes[0].Text != "Find " || nodes[2].Text != " now" {
		t.Errorf("expected surrounding text, got %q and %q", nodes[0].Text, nodes[2].Text)
	}
	m := nodes[1]
	if m.Kind != NodeMath || m.Display || m.Expr != "x" {
		t.Errorf("expected inline math x, got %+v", m)
	}
	if m.Output != "<inline>x</inline>" {
		t.Errorf("expected typeset output, got %q", m.Output)
	}
}

func TestRender_BlockMath(t *testing.T) {
	nodes := render("$$\\int_0^1 f$$")
	if len(nodes) != 1 {
		t.Fatalf("expected 1 node, got %d", len(nodes))
	}
	if nodes[0].Kind != NodeMath || !nodes[0].Display || nodes[0].Expr != `\int_0^1 f` {
		t.Errorf("expected block math, got %+v", nodes[0])
	}
}

func TestRender_FallbackOnError(t *testing.T) {
	nodes := render("a $bad$ b")
	if len(nodes) != 3 {
		t.Fatalf("expected 3 nodes, got %d: %+v", len(nodes), nodes)
	}
	fb := nodes[1]
	if fb.Kind != NodeText || fb.Text != "$bad$" || fb.Hint != HintError {
		t.Errorf("expected error fallback with source text, got %+v", fb)
	}
	if fb.Error != "unknown command" {
		t.Errorf("expected typesetter error message, got %q", fb.Error)
	}
	if nodes[2].Text != " b" {
		t.Errorf("expected following text not merged into fallback, got %q", nodes[2].Text)
	}
}

func TestRender_FallbackKeepsDelimitedSource(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		source  string
		display bool
	}{
		{"dollar", "$bad$", "$bad$", false},
		{"paren", `\(bad\)`, `\(bad\)`, false},
		{"double dollar", "$$bad$$", "$$bad$$", true},
		{"bracket", `\[bad\]`, `\[bad\]`, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			nodes := render("see " + tc.input + " end")
			if len(nodes) != 3 {
				t.Fatalf("expected 3 nodes, got %d: %+v", len(nodes), nodes)
			}
			fb := nodes[1]
			if fb.Kind != NodeText || fb.Hint != HintError {
				t.Fatalf("expected error fallback, got %+v", fb)
			}
			if fb.Text != tc.source || fb.Source != tc.source {
				t.Errorf("expected delimited source %q, got text %q source %q", tc.source, fb.Text, fb.Source)
			}
			if fb.Display != tc.display {
				t.Errorf("expected display %v, got %v", tc.display, fb.Display)
			}
		})
	}
}

func TestRender_PanicIsContained(t *testing.T) {
	nodes := render("$boom$ and $y$")
	if len(nodes) != 3 {
		t.Fatalf("expected 3 nodes, got %d: %+v", len(nodes), nodes)
	}
	if nodes[0].Hint != HintError || nodes[0].Text != "$boom$" {
		t.Errorf("expected fallback for panicking span, got %+v", nodes[0])
	}
	if !strings.Contains(nodes[0].Error, "typesetter exploded") {
		t.Errorf("expected panic value in error, got %q", nodes[0].Error)
	}
	if nodes[2].Kind != NodeMath || nodes[2].Output != "<inline>y</inline>" {
		t.Errorf("expected later span still typeset, got %+v", nodes[2])
	}
}

func TestRender_NilTypesetterLeavesOutputEmpty(t *testing.T) {
	nodes := NewRenderer(nil).Render("$x$")
	if len(nodes) != 1 || nodes[0].Kind != NodeMath || nodes[0].Output != "" {
		t.Errorf("expected untypeset math node, got %+v", nodes)
	}
}

func TestRender_Scenario(t *testing.T) {
	nodes := render(`Solve: $x^2+1=0$. Roots:\\$$x=\pm i$$`)
	want := []NodeKind{NodeText, NodeMath, NodeText, NodeLineBreak, NodeMath}
	if len(nodes) != len(want) {
		t.Fatalf("expected %d nodes, got %d: %+v", len(want), len(nodes), nodes)
	}
	for i, k := range want {
		if nodes[i].Kind != k {
			t.Errorf("node %d: expected %s, got %s", i, k, nodes[i].Kind)
		}
	}
	if nodes[1].Display || nodes[1].Expr != "x^2+1=0" {
		t.Errorf("expected inline x^2+1=0, got %+v", nodes[1])
	}
	if nodes[2].Text != ". Roots:" {
		t.Errorf("expected %q, got %q", ". Roots:", nodes[2].Text)
	}
	if !nodes[4].Display || nodes[4].Expr != `x=\pm i` {
		t.Errorf("expected block x=\\pm i, got %+v", nodes[4])
	}
}

func TestRender_AdjacentDelimiters(t *testing.T) {
	nodes := render("$$a$$$b$")
	if len(nodes) != 2 {
		t.Fatalf("expected 2 nodes, got %d", len(nodes))
	}
	if !nodes[0].Display || nodes[0].Expr != "a" || nodes[1].Display || nodes[1].Expr != "b" {
		t.Errorf("expected block a then inline b, got %+v", nodes)
	}
}

func TestRender_FormattingNesting(t *testing.T) {
	nodes := render(`\textbf{A \textit{B} C}`)
	want := []struct {
		text  string
		style Style
	}{
		{"A ", Style{Bold: true}},
		{"B", Style{Bold: true, Italic: true}},
		{" C", Style{Bold: true}},
	}
	if len(nodes) != len(want) {
		t.Fatalf("expected %d nodes, got %d: %+v", len(want), len(nodes), nodes)
	}
	for i, w := range want {
		if nodes[i].Text != w.text || nodes[i].Style != w.style {
			t.Errorf("node %d: expected %q %+v, got %q %+v", i, w.text, w.style, nodes[i].Text, nodes[i].Style)
		}
	}
}

func TestRender_StyleContinuesAroundMath(t *testing.T) {
	nodes := render(`\underline{a $x$ b} c`)
	if len(nodes) != 4 {
		t.Fatalf("expected 4 nodes, got %d: %+v", len(nodes), nodes)
	}
	if !nodes[0].Style.Underline || !nodes[2].Style.Underline {
		t.Errorf("expected underline on both sides of math, got %+v", nodes)
	}
	if nodes[3].Style.Underline || nodes[3].Text != " c" {
		t.Errorf("expected plain trailing text, got %+v", nodes[3])
	}
}

func TestRender_FormattingInsideMathIsSource(t *testing.T) {
	nodes := render(`$\textbf{v}$ after`)
	if len(nodes) != 2 {
		t.Fatalf("expected 2 nodes, got %d: %+v", len(nodes), nodes)
	}
	if nodes[0].Expr != `\textbf{v}` {
		t.Errorf("expected restored command in expr, got %q", nodes[0].Expr)
	}
	if nodes[1].Style != (Style{}) {
		t.Errorf("expected math-internal formatting not to leak, got %+v", nodes[1].Style)
	}
}

func TestRender_StyleClosedInsideMath(t *testing.T) {
	nodes := render(`\textbf{a $x} b$ c`)
	if len(nodes) != 3 {
		t.Fatalf("expected 3 nodes, got %d: %+v", len(nodes), nodes)
	}
	if nodes[0].Text != "a " || !nodes[0].Style.Bold {
		t.Errorf("expected bold text before math, got %+v", nodes[0])
	}
	if nodes[1].Kind != NodeMath || nodes[1].Expr != `x} b` {
		t.Errorf("expected math with restored brace, got %+v", nodes[1])
	}
	if nodes[2].Text != " c" || nodes[2].Style.Bold {
		t.Errorf("expected plain text after the closed region, got %+v", nodes[2])
	}
}

func TestRender_StyleOpenedInsideMath(t *testing.T) {
	nodes := render(`$\textit{v$ w}`)
	last := nodes[len(nodes)-1]
	if last.Text != " w" || !last.Style.Italic {
		t.Errorf("expected italic run after math until the close, got %+v", last)
	}
}

func TestRender_UnclosedStyleEndsWithBody(t *testing.T) {
	r := NewRenderer(fakeTypesetter{})
	nodes := r.Render(`\begin{itemize}\item \textbf{bold\item plain\end{itemize}`)
	if len(nodes) != 1 || nodes[0].Kind != NodeList {
		t.Fatalf("expected a list, got %+v", nodes)
	}
	second := nodes[0].Items[1].Nodes
	if len(second) != 2 || second[1].Style.Bold {
		t.Errorf("expected second item unstyled, got %+v", second)
	}
}

func TestRender_ListOrdering(t *testing.T) {
	nodes := render(`\begin{itemize}\item[(a)] Foo\item Bar\end{itemize}`)
	if len(nodes) != 1 || nodes[0].Kind != NodeList {
		t.Fatalf("expected one list node, got %+v", nodes)
	}
	items := nodes[0].Items
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}

	tests := []struct {
		label string
		body  string
	}{
		{"(a)", "Foo"},
		{DefaultBullet, "Bar"},
	}
	for i, tc := range tests {
		it := items[i]
		if it.Label != tc.label {
			t.Errorf("item %d: expected label %q, got %q", i, tc.label, it.Label)
		}
		if len(it.Nodes) != 2 || it.Nodes[0].Kind != NodeLabel || it.Nodes[0].Text != tc.label {
			t.Fatalf("item %d: expected label node first, got %+v", i, it.Nodes)
		}
		if it.Nodes[1].Text != tc.body {
			t.Errorf("item %d: expected body %q, got %q", i, tc.body, it.Nodes[1].Text)
		}
	}
}

func TestRender_CustomBullet(t *testing.T) {
	r := NewRenderer(fakeTypesetter{})
	r.Bullet = "-"
	nodes := r.Render(`\begin{itemize}\item[1.] a\item b\end{itemize}`)
	items := nodes[0].Items
	if items[0].Label != "1." || items[1].Label != "-" {
		t.Errorf("expected explicit label kept and bullet replaced, got %q %q", items[0].Label, items[1].Label)
	}
}

func TestRender_MathInsideItems(t *testing.T) {
	nodes := render(`Pick: \begin{enumerate}\item[A.] $x=1$\item[B.] $bad$\end{enumerate}`)
	if len(nodes) != 2 {
		t.Fatalf("expected text then list, got %+v", nodes)
	}
	items := nodes[1].Items
	if items[0].Nodes[1].Kind != NodeMath {
		t.Errorf("expected math in first item, got %+v", items[0].Nodes)
	}
	if items[1].Nodes[1].Hint != HintError {
		t.Errorf("expected fallback contained to second item, got %+v", items[1].Nodes)
	}
}

func TestRender_EmptyListOmitted(t *testing.T) {
	nodes := render(`a\begin{itemize}\end{itemize}b`)
	if len(nodes) != 2 || nodes[0].Text != "a" || nodes[1].Text != "b" {
		t.Errorf("expected only surrounding text, got %+v", nodes)
	}
}

func TestLiteral_RoundTrip(t *testing.T) {
	inputs := []string{
		"plain text",
		"mixed $a+b$ and $$c$$ with \\(d\\) and \\[e\\]",
		"styled \\textbf{bold} and \\emph{it} and $bad$",
		"costs $5 and $$ unclosed",
		"line\\\\break",
	}
	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			want := Normalize(input).Text()
			if got := Literal(render(input)); got != want {
				t.Errorf("expected %q, got %q", want, got)
			}
		})
	}
}

func TestStats(t *testing.T) {
	nodes := render(`$a$ \\ $$b$$ $bad$ \begin{itemize}\item x\item $y$\end{itemize}`)
	s := Stats(nodes)
	if s.Inline != 2 || s.Display != 1 || s.Fallbacks != 1 {
		t.Errorf("expected 2 inline, 1 display, 1 fallback, got %+v", s)
	}
	if s.LineBreaks != 1 || s.Lists != 1 || s.Items != 2 {
		t.Errorf("expected 1 break, 1 list, 2 items, got %+v", s)
	}
}

func TestRenderer_ConcurrentUse(t *testing.T) {
	r := NewRenderer(fakeTypesetter{})
	done := make(chan []Node, 8)
	for i := 0; i < 8; i++ {
		go func() { done <- r.Render("$x$ and \\textbf{y}") }()
	}
	for i := 0; i < 8; i++ {
		if nodes := <-done; len(nodes) != 3 {
			t.Errorf("expected 3 nodes, got %d", len(nodes))
		}
	}
}
