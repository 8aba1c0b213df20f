package typeset

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/go-latex/latex/ast"
	"golang.org/x/net/html"
)

const mathMLNamespace = "http://www.w3.org/1998/Math/MathML"

// MathML typesets expressions into presentation MathML. Expressions are
// parsed with go-latex, so the accepted command set is the one that parser
// knows.
type MathML struct{}

// NewMathML returns a MathML typesetter.
func NewMathML() *MathML {
	return &MathML{}
}

// Typeset renders expr as a <math> element, in display mode when display
// is set.
func (*MathML) Typeset(expr string, display bool) (string, error) {
	list, err := parse(expr)
	if err != nil {
		return "", fmt.Errorf("mathml: %w", err)
	}
	mode := "inline"
	if display {
		mode = "block"
	}
	math := element("math", "xmlns", mathMLNamespace, "display", mode)
	if err := add(math, list); err != nil {
		return "", fmt.Errorf("mathml: %w", err)
	}

	var buf bytes.Buffer
	if err := html.Render(&buf, math); err != nil {
		return "", fmt.Errorf("mathml: %w", err)
	}
	return buf.String(), nil
}

// add appends the MathML for n to parent. Scripts attach to the element
// parent already ends with.
func add(parent *html.Node, n ast.Node) error {
	switch n := n.(type) {
	case nil:
		return nil
	case ast.List:
		for i := 0; i < len(n); i++ {
			// The scanner folds '_' into words, so "x_" followed by a
			// group is a subscript on that group.
			if w, ok := n[i].(*ast.Word); ok && strings.HasSuffix(w.Text, "_") && i+1 < len(n) {
				if err := add(parent, &ast.Word{WordPos: w.WordPos, Text: strings.TrimSuffix(w.Text, "_")}); err != nil {
					return err
				}
				if err := script(parent, n[i+1], true); err != nil {
					return err
				}
				i++
				continue
			}
			if err := add(parent, n[i]); err != nil {
				return err
			}
		}
	case *ast.Arg:
		return add(parent, n.List)
	case *ast.OptArg:
		return add(parent, n.List)
	case *ast.MathExpr:
		return add(parent, n.List)
	case *ast.Word:
		runes := []rune(n.Text)
		for i := 0; i < len(runes); i++ {
			if runes[i] == '_' {
				if i+1 == len(runes) {
					return errors.New("missing subscript")
				}
				if err := script(parent, &ast.Word{Text: string(runes[i+1])}, true); err != nil {
					return err
				}
				i++
				continue
			}
			parent.AppendChild(character(runes[i]))
		}
	case *ast.Literal:
		parent.AppendChild(leaf("mn", n.Text))
	case *ast.Symbol:
		if strings.TrimSpace(n.Text) == "" {
			return nil
		}
		text := n.Text
		if op, ok := symbolOperators[text]; ok {
			text = op
		}
		parent.AppendChild(leaf("mo", text))
	case *ast.Sup:
		return script(parent, n.Node, false)
	case *ast.Sub:
		return script(parent, n.Node, true)
	case *ast.Macro:
		return macro(parent, n)
	default:
		return fmt.Errorf("unsupported node %T", n)
	}
	return nil
}

// group converts n into a single element, wrapping several in <mrow>.
func group(n ast.Node) (*html.Node, error) {
	row := element("mrow")
	if err := add(row, n); err != nil {
		return nil, err
	}
	if c := row.FirstChild; c != nil && c == row.LastChild {
		row.RemoveChild(c)
		return c, nil
	}
	return row, nil
}

func script(parent *html.Node, n ast.Node, sub bool) error {
	if n == nil {
		return errors.New("missing script argument")
	}
	arg, err := group(n)
	if err != nil {
		return err
	}

	base := parent.LastChild
	if base != nil {
		parent.RemoveChild(base)
	} else {
		base = element("mrow")
	}

	// x_a^b and x^b_a both become <msubsup>.
	switch {
	case base.Data == "msub" && !sub:
		b, s := detach(base)
		parent.AppendChild(wrap("msubsup", b, s, arg))
	case base.Data == "msup" && sub:
		b, s := detach(base)
		parent.AppendChild(wrap("msubsup", b, arg, s))
	case sub:
		parent.AppendChild(wrap("msub", base, arg))
	default:
		parent.AppendChild(wrap("msup", base, arg))
	}
	return nil
}

// detach removes and returns the two children of a script element.
func detach(n *html.Node) (*html.Node, *html.Node) {
	first, second := n.FirstChild, n.LastChild
	n.RemoveChild(first)
	n.RemoveChild(second)
	return first, second
}

func macro(parent *html.Node, m *ast.Macro) error {
	name := m.Name.Name
	if s, ok := identifiers[name]; ok {
		parent.AppendChild(leaf("mi", s))
		return nil
	}
	if functions[name] {
		parent.AppendChild(leaf("mi", strings.TrimPrefix(name, `\`)))
		for _, a := range m.Args {
			if err := add(parent, a); err != nil {
				return err
			}
		}
		return nil
	}
	if s, ok := operators[name]; ok {
		parent.AppendChild(leaf("mo", s))
		return nil
	}
	if w, ok := spaces[name]; ok {
		parent.AppendChild(element("mspace", "width", w))
		return nil
	}
	if v, ok := variants[name]; ok {
		body, err := arg(m, 0)
		if err != nil {
			return err
		}
		st := element("mstyle", "mathvariant", v)
		st.AppendChild(body)
		parent.AppendChild(st)
		return nil
	}

	switch name {
	case `\frac`, `\dfrac`, `\tfrac`:
		num, den, err := twoArgs(m)
		if err != nil {
			return err
		}
		parent.AppendChild(wrap("mfrac", num, den))
	case `\binom`:
		top, bottom, err := twoArgs(m)
		if err != nil {
			return err
		}
		frac := wrap("mfrac", top, bottom)
		frac.Attr = append(frac.Attr, html.Attribute{Key: "linethickness", Val: "0"})
		parent.AppendChild(wrap("mrow", leaf("mo", "("), frac, leaf("mo", ")")))
	case `\stackrel`:
		over, base, err := twoArgs(m)
		if err != nil {
			return err
		}
		parent.AppendChild(wrap("mover", base, over))
	case `\sqrt`:
		if len(m.Args) == 2 {
			index, radicand, err := twoArgs(m)
			if err != nil {
				return err
			}
			parent.AppendChild(wrap("mroot", radicand, index))
			return nil
		}
		body, err := arg(m, 0)
		if err != nil {
			return err
		}
		parent.AppendChild(wrap("msqrt", body))
	case `\overline`:
		body, err := arg(m, 0)
		if err != nil {
			return err
		}
		over := wrap("mover", body, leaf("mo", "¯"))
		over.Attr = append(over.Attr, html.Attribute{Key: "accent", Val: "true"})
		parent.AppendChild(over)
	case `\operatorname`:
		if len(m.Args) == 0 {
			return errors.New(`\operatorname needs an argument`)
		}
		parent.AppendChild(leaf("mi", literalText(m.Args[0])))
	case `\hspace`:
		if len(m.Args) == 0 {
			return errors.New(`\hspace needs an argument`)
		}
		parent.AppendChild(element("mspace", "width", literalText(m.Args[0])))
	case `\rm`, `\cal`, `\it`, `\tt`, `\sf`, `\bf`, `\default`, `\bb`, `\frak`, `\scr`, `\regular`:
		// Font switches have no scope here; they are ignored.
	default:
		return fmt.Errorf("unsupported command %s", name)
	}
	return nil
}

func arg(m *ast.Macro, i int) (*html.Node, error) {
	if i >= len(m.Args) {
		return nil, fmt.Errorf("%s: missing argument %d", m.Name.Name, i+1)
	}
	return group(m.Args[i])
}

func twoArgs(m *ast.Macro) (*html.Node, *html.Node, error) {
	a, err := arg(m, 0)
	if err != nil {
		return nil, nil, err
	}
	b, err := arg(m, 1)
	if err != nil {
		return nil, nil, err
	}
	return a, b, nil
}

// literalText concatenates the source text of words, numbers and symbols.
func literalText(n ast.Node) string {
	var sb strings.Builder
	var walk func(ast.Node)
	walk = func(n ast.Node) {
		switch n := n.(type) {
		case ast.List:
			for _, c := range n {
				walk(c)
			}
		case *ast.Arg:
			walk(n.List)
		case *ast.Word:
			sb.WriteString(n.Text)
		case *ast.Literal:
			sb.WriteString(n.Text)
		case *ast.Symbol:
			sb.WriteString(n.Text)
		}
	}
	walk(n)
	return sb.String()
}

func character(r rune) *html.Node {
	if unicode.IsDigit(r) {
		return leaf("mn", string(r))
	}
	return leaf("mi", string(r))
}

func element(tag string, attrs ...string) *html.Node {
	n := &html.Node{Type: html.ElementNode, Data: tag}
	for i := 0; i+1 < len(attrs); i += 2 {
		n.Attr = append(n.Attr, html.Attribute{Key: attrs[i], Val: attrs[i+1]})
	}
	return n
}

func leaf(tag, text string) *html.Node {
	n := element(tag)
	n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	return n
}

func wrap(tag string, children ...*html.Node) *html.Node {
	n := element(tag)
	for _, c := range children {
		n.AppendChild(c)
	}
	return n
}
