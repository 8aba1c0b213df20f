// Package export writes question banks as CSV, JSON, YAML or DOCX.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/examtex/internal/markup"
	"github.com/dgallion1/examtex/internal/question"
	"github.com/gosimple/slug"
)

// Format is an export file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatDOCX Format = "docx"
)

// Formats lists the supported formats.
var Formats = []Format{FormatCSV, FormatJSON, FormatYAML, FormatDOCX}

// ParseFormat accepts a format name or file extension, case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), ".") {
	case "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "docx":
		return FormatDOCX, nil
	}
	return "", fmt.Errorf("unsupported export format: %q", s)
}

// ContentType returns the MIME type for f.
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatJSON:
		return "application/json"
	case FormatYAML:
		return "application/yaml"
	case FormatDOCX:
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	}
	return "application/octet-stream"
}

// Filename builds a download name from a bank title.
func Filename(title string, f Format) string {
	name := slug.Make(title)
	if name == "" {
		name = "questions"
	}
	return name + "." + string(f)
}

// Options tune an export.
type Options struct {
	// Title heads DOCX exports.
	Title string
	// Renderer is used by DOCX export. Nil means a renderer without a
	// typesetter, since DOCX keeps math as source.
	Renderer *markup.Renderer
}

// Write encodes questions to w in format f.
func Write(w io.Writer, f Format, questions []*question.Question, opts Options) error {
	switch f {
	case FormatCSV:
		return WriteCSV(w, questions)
	case FormatJSON:
		return WriteJSON(w, questions)
	case FormatYAML:
		return WriteYAML(w, questions)
	case FormatDOCX:
		r := opts.Renderer
		if r == nil {
			r = markup.NewRenderer(nil)
		}
		return WriteDOCX(w, questions, opts.Title, r)
	}
	return fmt.Errorf("unsupported export format: %q", f)
}
