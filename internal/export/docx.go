package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/examtex/internal/markup"
	"github.com/dgallion1/examtex/internal/question"
	"github.com/fumiama/go-docx"
)

// WriteDOCX writes a printable document: a heading per question, the
// question body with its formatting, then options and the answer. Math
// stays as its delimited source so the file imports back unchanged.
func WriteDOCX(w io.Writer, questions []*question.Question, title string, r *markup.Renderer) error {
	doc := docx.New().WithDefaultTheme()
	if title != "" {
		doc.AddParagraph().Style("Heading1").AddText(title)
	}

	for i, q := range questions {
		heading := fmt.Sprintf("Question %d", i+1)
		if q.Marks > 0 {
			heading += fmt.Sprintf(" (%d marks)", q.Marks)
		}
		doc.AddParagraph().Style("Heading2").AddText(heading)

		writeNodes(doc, doc.AddParagraph(), r.Render(q.Text))

		for j, opt := range q.Options {
			p := doc.AddParagraph()
			p.AddText(optionLabel(j) + " ")
			writeNodes(doc, p, r.Render(opt))
		}
		if q.Answer != "" {
			p := doc.AddParagraph()
			p.AddText("Answer:").Bold()
			p.AddText(" ")
			writeNodes(doc, p, r.Render(q.Answer))
		}
	}

	if _, err := doc.WriteTo(w); err != nil {
		return fmt.Errorf("write docx: %w", err)
	}
	return nil
}

// writeNodes appends nodes to p. Each list item starts a new paragraph
// and text after a list continues in another one.
func writeNodes(doc *docx.Docx, p *docx.Paragraph, nodes []markup.Node) {
	for _, n := range nodes {
		switch n.Kind {
		case markup.NodeText:
			styledRun(p, n.Text, n.Style)
		case markup.NodeMath:
			styledRun(p, n.Source, markup.Style{})
		case markup.NodeLineBreak:
			p.AddText("\n")
		case markup.NodeList:
			for _, it := range n.Items {
				ip := doc.AddParagraph()
				writeNodes(doc, ip, it.Nodes)
			}
			p = doc.AddParagraph()
		case markup.NodeLabel:
			p.AddText(n.Text + " ")
		}
	}
}

// styledRun adds text as one run. Source newlines are plain whitespace to
// the renderer, so they must not become Word line breaks.
func styledRun(p *docx.Paragraph, text string, s markup.Style) {
	text = strings.ReplaceAll(text, "\n", " ")
	if text == "" {
		return
	}
	run := p.AddText(text)
	if s.Bold {
		run.Bold()
	}
	if s.Italic {
		run.Italic()
	}
	if s.Underline {
		run.Underline("single")
	}
}

func optionLabel(i int) string {
	if i < 26 {
		return string(rune('A'+i)) + "."
	}
	return fmt.Sprintf("%d.", i+1)
}
