// Package preview turns rendered nodes into something a person can look at.
package preview

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/dgallion1/examtex/internal/markup"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// HTML renders nodes as an HTML fragment wrapped in <div class="question">.
// Typeset math is embedded as parsed markup; math without output keeps its
// delimited source for client-side typesetting.
func HTML(nodes []markup.Node) (string, error) {
	root := element(atom.Div, "question")
	if err := appendNodes(root, nodes); err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := html.Render(&buf, root); err != nil {
		return "", fmt.Errorf("render html: %w", err)
	}
	return buf.String(), nil
}

func appendNodes(parent *html.Node, nodes []markup.Node) error {
	for _, n := range nodes {
		switch n.Kind {
		case markup.NodeText:
			if n.Hint == markup.HintError {
				span := element(atom.Span, "math-error")
				span.Attr = append(span.Attr, html.Attribute{Key: "title", Val: n.Error})
				span.AppendChild(textNode(n.Text))
				parent.AppendChild(styled(span, n.Style))
				continue
			}
			parent.AppendChild(styled(textNode(n.Text), n.Style))

		case markup.NodeMath:
			el, err := mathElement(n)
			if err != nil {
				return err
			}
			parent.AppendChild(el)

		case markup.NodeLineBreak:
			parent.AppendChild(&html.Node{Type: html.ElementNode, Data: "br", DataAtom: atom.Br})

		case markup.NodeLabel:
			span := element(atom.Span, "item-label")
			span.AppendChild(textNode(n.Text))
			parent.AppendChild(span)

		case markup.NodeList:
			ul := element(atom.Ul, "question-list")
			for _, it := range n.Items {
				li := element(atom.Li, "")
				if err := appendNodes(li, it.Nodes); err != nil {
					return err
				}
				ul.AppendChild(li)
			}
			parent.AppendChild(ul)
		}
	}
	return nil
}

var fragmentContext = &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}

func mathElement(n markup.Node) (*html.Node, error) {
	el := element(atom.Span, "math-inline")
	if n.Display {
		el = element(atom.Div, "math-block")
	}
	el.Attr = append(el.Attr, html.Attribute{Key: "data-expr", Val: n.Expr})

	if n.Output == "" {
		el.AppendChild(textNode(n.Source))
		return el, nil
	}
	children, err := html.ParseFragment(strings.NewReader(n.Output), fragmentContext)
	if err != nil {
		return nil, fmt.Errorf("parse math output: %w", err)
	}
	for _, c := range children {
		el.AppendChild(c)
	}
	return el, nil
}

// styled wraps n in <u>, <em> and <strong> for each flag that is set.
func styled(n *html.Node, s markup.Style) *html.Node {
	wrap := func(a atom.Atom, inner *html.Node) *html.Node {
		el := &html.Node{Type: html.ElementNode, Data: a.String(), DataAtom: a}
		el.AppendChild(inner)
		return el
	}
	if s.Underline {
		n = wrap(atom.U, n)
	}
	if s.Italic {
		n = wrap(atom.Em, n)
	}
	if s.Bold {
		n = wrap(atom.Strong, n)
	}
	return n
}

func element(a atom.Atom, class string) *html.Node {
	el := &html.Node{Type: html.ElementNode, Data: a.String(), DataAtom: a}
	if class != "" {
		el.Attr = []html.Attribute{{Key: "class", Val: class}}
	}
	return el
}

func textNode(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}
