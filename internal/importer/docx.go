package importer

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/fumiama/go-docx"
)

// DOCXParser handles .docx files. Bold, italic and underlined runs are
// carried over as \textbf, \textit and \underline so the renderer shows
// the same emphasis.
type DOCXParser struct{}

func (p *DOCXParser) Parse(r io.Reader, filename string) (*Sheet, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read docx: %w", err)
	}
	doc, err := docx.Parse(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("parse docx: %w", err)
	}

	b := newDocumentBuilder(titleFromFilename(filename))
	for _, item := range doc.Document.Body.Items {
		para, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}
		text := docxParagraphText(para)
		if level := docxHeadingLevel(para); level > 0 && text != "" {
			b.heading(text, level)
			continue
		}
		b.text(text)
	}
	return b.finish(), nil
}

func docxHeadingLevel(para *docx.Paragraph) int {
	if para.Properties == nil || para.Properties.Style == nil {
		return 0
	}
	style := strings.ToLower(strings.ReplaceAll(para.Properties.Style.Val, " ", ""))
	if rest, ok := strings.CutPrefix(style, "heading"); ok && len(rest) == 1 && rest[0] >= '1' && rest[0] <= '6' {
		return int(rest[0] - '0')
	}
	if style == "title" {
		return 1
	}
	return 0
}

func docxParagraphText(para *docx.Paragraph) string {
	var buf strings.Builder
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		var text strings.Builder
		for _, rc := range run.Children {
			switch c := rc.(type) {
			case *docx.Text:
				text.WriteString(c.Text)
			case *docx.Tab:
				text.WriteString(" ")
			case *docx.BarterRabbet:
				// Page and column breaks are layout, not content.
				if c.Type == "" || c.Type == "textWrapping" {
					text.WriteString(`\\`)
				}
			}
		}
		buf.WriteString(styleRun(text.String(), run.RunProperties))
	}
	return strings.TrimSpace(buf.String())
}

// styleRun wraps s in the formatting commands matching props. Whitespace
// stays outside the commands.
func styleRun(s string, props *docx.RunProperties) string {
	if props == nil || strings.TrimSpace(s) == "" {
		return s
	}
	core := strings.TrimSpace(s)
	lead := s[:strings.Index(s, core)]
	trail := s[len(lead)+len(core):]

	if props.Underline != nil && props.Underline.Val != "none" {
		core = `\underline{` + core + `}`
	}
	if props.Italic != nil {
		core = `\textit{` + core + `}`
	}
	if props.Bold != nil {
		core = `\textbf{` + core + `}`
	}
	return lead + core + trail
}
