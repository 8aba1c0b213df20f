package preview

import (
	"errors"
	"strings"
	"testing"

	"github.com/dgallion1/examtex/internal/markup"
)

type tagTypesetter struct{}

func (tagTypesetter) Typeset(expr string, display bool) (string, error) {
	if expr == "bad" {
		return "", errors.New("unknown command")
	}
	return "<math><mi>" + expr + "</mi></math>", nil
}

func nodes(input string) []markup.Node {
	return markup.NewRenderer(tagTypesetter{}).Render(input)
}

func TestHTML_PlainText(t *testing.T) {
	got, err := HTML(nodes("a < b"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `<div class="question">a &lt; b</div>`
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestHTML_Elements(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"nested styles", `\textbf{\textit{x}}`, "<strong><em>x</em></strong>"},
		{"underline", `\underline{u}`, "<u>u</u>"},
		{"inline math", "$x$", `<span class="math-inline" data-expr="x"><math><mi>x</mi></math></span>`},
		{"block math", "$$y$$", `<div class="math-block" data-expr="y"><math><mi>y</mi></math></div>`},
		{"line break", `a\\b`, "a<br/>b"},
		{"fallback", "$bad$", `<span class="math-error" title="unknown command">$bad$</span>`},
		{"list", `\begin{itemize}\item[(a)] Foo\end{itemize}`, `<ul class="question-list"><li><span class="item-label">(a)</span>Foo</li></ul>`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := HTML(nodes(tc.input))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !strings.Contains(got, tc.want) {
				t.Errorf("expected %q in %q", tc.want, got)
			}
		})
	}
}

func TestHTML_UntypesetMathKeepsSource(t *testing.T) {
	got, err := HTML(markup.NewRenderer(nil).Render(`$\alpha$`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(got, `>$\alpha$</span>`) {
		t.Errorf("expected delimited source for client typesetting, got %q", got)
	}
}

func TestTerminal_ContainsContent(t *testing.T) {
	out := Terminal(nodes(`Solve $x$:\begin{enumerate}\item[(a)] one\item[(b)] $bad$\end{enumerate}`))
	for _, want := range []string{"Solve", "$x$", "(a)", "one", "(b)", "$bad$"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output %q", want, out)
		}
	}
	if strings.Count(out, "\n") < 2 {
		t.Errorf("expected list items on separate lines, got %q", out)
	}
}

func TestTerminal_Empty(t *testing.T) {
	if out := Terminal(nil); out != "" {
		t.Errorf("expected empty output, got %q", out)
	}
}
