package importer

import (
	"bytes"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownParser handles Markdown files using goldmark. Paragraphs and
// list items become questions; headings become the section column. Text
// is taken from the raw source so math and commands survive untouched.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(r io.Reader, filename string) (*Sheet, error) {
	src, err := io.ReadAll(decode(r))
	if err != nil {
		return nil, err
	}

	doc := goldmark.New().Parser().Parse(text.NewReader(src))
	b := newDocumentBuilder(titleFromFilename(filename))

	var walk func(n ast.Node)
	walk = func(n ast.Node) {
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			switch node := c.(type) {
			case *ast.Heading:
				b.heading(rawLines(node, src), node.Level)
			case *ast.Paragraph, *ast.TextBlock:
				b.text(rawLines(node, src))
			case *ast.List:
				for item := node.FirstChild(); item != nil; item = item.NextSibling() {
					b.text(blockText(item, src))
				}
			case *ast.Blockquote:
				walk(node)
			}
			// Code blocks, HTML blocks and thematic breaks are not questions.
		}
	}
	walk(doc)

	return b.finish(), nil
}

// rawLines joins the source lines of a block node.
func rawLines(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		buf.Write(line.Value(src))
	}
	return strings.TrimSpace(buf.String())
}

// blockText joins the raw text of a container's child blocks.
func blockText(n ast.Node, src []byte) string {
	var parts []string
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		var t string
		if c.Type() == ast.TypeBlock && c.Lines().Len() > 0 {
			t = rawLines(c, src)
		} else {
			t = blockText(c, src)
		}
		if t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, "\n")
}
