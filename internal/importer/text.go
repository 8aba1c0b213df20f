package importer

import (
	"bufio"
	"io"
	"strings"
)

// TextParser handles plain text files. Each blank-line separated paragraph
// is one question.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) (*Sheet, error) {
	scanner := bufio.NewScanner(decode(r))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	b := newDocumentBuilder(titleFromFilename(filename))
	var current strings.Builder

	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			if current.Len() > 0 {
				b.text(current.String())
				current.Reset()
			}
			continue
		}
		if current.Len() > 0 {
			current.WriteString("\n")
		}
		current.WriteString(line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if current.Len() > 0 {
		b.text(current.String())
	}
	return b.finish(), nil
}
