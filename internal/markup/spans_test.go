package markup

import (
	"testing"
)

func TestFindSpans_Delimiters(t *testing.T) {
	tests := []struct {
		name  string
		input string
		mode  MathMode
		expr  string
		src   string
	}{
		{"dollar", `a $x+1$ b`, Inline, "x+1", "$x+1$"},
		{"paren", `a \(x\) b`, Inline, "x", `\(x\)`},
		{"double dollar", `a $$ y $$ b`, Block, "y", "$$ y $$"},
		{"bracket", `a \[y\] b`, Block, "y", `\[y\]`},
		{"command inside", `$\frac{1}{2}$`, Inline, `\frac{1}{2}`, `$\frac{1}{2}$`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			spans := FindSpans(Normalize(tc.input))
			if len(spans) != 1 {
				t.Fatalf("expected 1 span, got %d", len(spans))
			}
			sp := spans[0]
			if sp.Mode != tc.mode {
				t.Errorf("expected mode %v, got %v", tc.mode, sp.Mode)
			}
			if sp.Expr != tc.expr {
				t.Errorf("expected expr %q, got %q", tc.expr, sp.Expr)
			}
			if sp.Source != tc.src {
				t.Errorf("expected source %q, got %q", tc.src, sp.Source)
			}
		})
	}
}

func TestFindSpans_AdjacentBlockThenInline(t *testing.T) {
	spans := FindSpans(Normalize("$$a$$$b$"))
	if len(spans) != 2 {
		t.Fatalf("expected 2 spans, got %d", len(spans))
	}
	if spans[0].Mode != Block || spans[0].Expr != "a" {
		t.Errorf("expected block a, got %v %q", spans[0].Mode, spans[0].Expr)
	}
	if spans[1].Mode != Inline || spans[1].Expr != "b" {
		t.Errorf("expected inline b, got %v %q", spans[1].Mode, spans[1].Expr)
	}
}

func TestFindSpans_SortedAndDisjoint(t *testing.T) {
	spans := FindSpans(Normalize(`$a$ then \[b\] and \(c\) and $$d$$ end $e$`))
	if len(spans) != 5 {
		t.Fatalf("expected 5 spans, got %d", len(spans))
	}
	for i := 1; i < len(spans); i++ {
		if spans[i].Start < spans[i-1].End {
			t.Errorf("span %d starts at %d before previous end %d", i, spans[i].Start, spans[i-1].End)
		}
	}
	want := []string{"a", "b", "c", "d", "e"}
	for i, w := range want {
		if spans[i].Expr != w {
			t.Errorf("span %d: expected %q, got %q", i, w, spans[i].Expr)
		}
	}
}

func TestFindSpans_NotMath(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"single dollar", "costs $5"},
		{"escaped dollars", `costs \$5 and \$6`},
		{"dollar across newline", "$a\nb$"},
		{"dollar across line break", `$a\\b$`},
		{"unterminated double", "$$x"},
		{"unterminated bracket", `\[x`},
		{"unterminated paren", `\(x`},
		{"empty", ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if spans := FindSpans(Normalize(tc.input)); len(spans) != 0 {
				t.Errorf("expected no spans, got %+v", spans)
			}
		})
	}
}

func TestFindSpans_LineBreakInExplicitDelimiters(t *testing.T) {
	tests := []struct {
		name  string
		input string
		expr  string
	}{
		{"paren", `\(a \\ b\)`, `a \\ b`},
		{"bracket", `\[a \\ b\]`, `a \\ b`},
		{"double dollar", "$$a\nb$$", "a\nb"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			spans := FindSpans(Normalize(tc.input))
			if len(spans) != 1 {
				t.Fatalf("expected 1 span, got %+v", spans)
			}
			if spans[0].Expr != tc.expr {
				t.Errorf("expected expr %q, got %q", tc.expr, spans[0].Expr)
			}
		})
	}
}

func TestFindSpans_RestoresStructuralSource(t *testing.T) {
	spans := FindSpans(Normalize(`$\textbf{x} + \emph{y}$`))
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if spans[0].Expr != `\textbf{x} + \emph{y}` {
		t.Errorf("expected original commands in expr, got %q", spans[0].Expr)
	}
}

func TestFindSpans_BlockAcrossNewlines(t *testing.T) {
	spans := FindSpans(Normalize("$$\na\n+b\n$$"))
	if len(spans) != 1 || spans[0].Mode != Block {
		t.Fatalf("expected one block span, got %+v", spans)
	}
	if spans[0].Expr != "a\n+b" {
		t.Errorf("expected trimmed expr, got %q", spans[0].Expr)
	}
}

func TestFindSpans_SplitDelimiterIsNotMath(t *testing.T) {
	// A structural token between the two dollars breaks the delimiter.
	spans := FindSpans(Normalize(`$\textbf{$x$$}`))
	for _, sp := range spans {
		if sp.Mode == Block {
			t.Errorf("expected no block span, got %+v", sp)
		}
	}
}
