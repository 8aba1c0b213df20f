// Package importer reads question banks from spreadsheets and documents
// into a uniform table.
package importer

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// Column names produced by the document parsers.
const (
	ColumnQuestion = "question"
	ColumnSection  = "section"
)

// Parser converts raw file bytes into a Sheet.
type Parser interface {
	Parse(r io.Reader, filename string) (*Sheet, error)
}

// SupportedExtensions lists file extensions this service can import.
var SupportedExtensions = map[string]bool{
	".csv":      true,
	".tsv":      true,
	".txt":      true,
	".md":       true,
	".markdown": true,
	".html":     true,
	".htm":      true,
	".pdf":      true,
	".docx":     true,
}

// Options tune parser behavior.
type Options struct {
	// FallbackPdftotext shells out to pdftotext when the PDF library fails.
	FallbackPdftotext bool
}

// ForFile returns the parser for a filename.
func ForFile(filename string, opts Options) (Parser, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".csv":
		return &CSVParser{}, nil
	case ".tsv":
		return &CSVParser{Comma: '\t'}, nil
	case ".txt":
		return &TextParser{}, nil
	case ".md", ".markdown":
		return &MarkdownParser{}, nil
	case ".html", ".htm":
		return &HTMLParser{}, nil
	case ".pdf":
		return &PDFParser{FallbackPdftotext: opts.FallbackPdftotext}, nil
	case ".docx":
		return &DOCXParser{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	return SupportedExtensions[strings.ToLower(filepath.Ext(filename))]
}

// Parse picks the parser for filename and runs it.
func Parse(r io.Reader, filename string, opts Options) (*Sheet, error) {
	p, err := ForFile(filename, opts)
	if err != nil {
		return nil, err
	}
	return p.Parse(r, filename)
}

func titleFromFilename(filename string) string {
	base := filepath.Base(filename)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
