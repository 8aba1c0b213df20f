package importer

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/fumiama/go-docx"
)

func TestForFile(t *testing.T) {
	tests := []struct {
		filename string
		want     string
		wantErr  bool
	}{
		{"bank.csv", "*importer.CSVParser", false},
		{"bank.TSV", "*importer.CSVParser", false},
		{"notes.txt", "*importer.TextParser", false},
		{"notes.md", "*importer.MarkdownParser", false},
		{"page.htm", "*importer.HTMLParser", false},
		{"paper.pdf", "*importer.PDFParser", false},
		{"paper.docx", "*importer.DOCXParser", false},
		{"sheet.xlsx", "", true},
	}
	for _, tc := range tests {
		t.Run(tc.filename, func(t *testing.T) {
			p, err := ForFile(tc.filename, Options{})
			if (err != nil) != tc.wantErr {
				t.Fatalf("expected err=%v, got %v", tc.wantErr, err)
			}
			if err == nil && typeName(p) != tc.want {
				t.Errorf("expected %s, got %s", tc.want, typeName(p))
			}
			if IsSupportedExtension(tc.filename) == tc.wantErr {
				t.Errorf("IsSupportedExtension(%q) disagrees with ForFile", tc.filename)
			}
		})
	}
}

func typeName(p Parser) string {
	switch p.(type) {
	case *CSVParser:
		return "*importer.CSVParser"
	case *TextParser:
		return "*importer.TextParser"
	case *MarkdownParser:
		return "*importer.MarkdownParser"
	case *HTMLParser:
		return "*importer.HTMLParser"
	case *PDFParser:
		return "*importer.PDFParser"
	case *DOCXParser:
		return "*importer.DOCXParser"
	}
	return ""
}

func TestCSVParser_HeadersAndRows(t *testing.T) {
	input := "Question,Answer,,Marks\n\"What is $\\frac{1}{2}$, as a decimal?\",0.5,,2\n\n\"short\",x\n"
	sheet, err := (&CSVParser{}).Parse(strings.NewReader(input), "bank.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantHeaders := []string{"Question", "Answer", "column 3", "Marks"}
	if strings.Join(sheet.Headers, "|") != strings.Join(wantHeaders, "|") {
		t.Errorf("expected headers %v, got %v", wantHeaders, sheet.Headers)
	}
	if len(sheet.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(sheet.Rows))
	}
	if sheet.Rows[0][0] != `What is $\frac{1}{2}$, as a decimal?` {
		t.Errorf("expected quoted cell kept whole, got %q", sheet.Rows[0][0])
	}
	if len(sheet.Rows[1]) != 4 || sheet.Rows[1][3] != "" {
		t.Errorf("expected short row padded to header width, got %q", sheet.Rows[1])
	}
	if rec := sheet.Record(0); rec["Marks"] != "2" {
		t.Errorf("expected record lookup by header, got %v", rec)
	}
}

func TestCSVParser_TSVAndDuplicateHeaders(t *testing.T) {
	input := "text\ttext\n$a$\t$b$\n"
	sheet, err := (&CSVParser{Comma: '\t'}).Parse(strings.NewReader(input), "bank.tsv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sheet.Headers[1] != "text (2)" {
		t.Errorf("expected deduplicated header, got %q", sheet.Headers[1])
	}
	if sheet.Rows[0][1] != "$b$" {
		t.Errorf("expected tab-separated cell, got %q", sheet.Rows[0][1])
	}
}

func TestHTMLParser_SectionsAndItems(t *testing.T) {
	input := `<html><head><title>Quiz</title><style>p{}</style></head><body>
<h1>Part A</h1>
<p>What is $1+1$?</p>
<ul><li>Name a prime.</li><li>Line one<br>line two</li></ul>
<h2>Hard</h2>
<p>Prove it.</p>
<script>var x = "not a question";</script>
</body></html>`
	sheet, err := (&HTMLParser{}).Parse(strings.NewReader(input), "quiz.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sheet.Title != "Quiz" {
		t.Errorf("expected title from <title>, got %q", sheet.Title)
	}
	want := [][2]string{
		{"What is $1+1$?", "Part A"},
		{"Name a prime.", "Part A"},
		{"Line one\nline two", "Part A"},
		{"Prove it.", "Part A > Hard"},
	}
	if len(sheet.Rows) != len(want) {
		t.Fatalf("expected %d rows, got %d: %v", len(want), len(sheet.Rows), sheet.Rows)
	}
	for i, w := range want {
		if sheet.Rows[i][0] != w[0] || sheet.Rows[i][1] != w[1] {
			t.Errorf("row[%d]: expected %q in %q, got %q", i, w[0], w[1], sheet.Rows[i])
		}
	}
}

func TestDOCXParser_HeadingsAndRunStyles(t *testing.T) {
	doc := docx.New().WithDefaultTheme()
	doc.AddParagraph().Style("Heading1").AddText("Calculus")
	p := doc.AddParagraph()
	p.AddText("Differentiate ")
	p.AddText("carefully").Bold()
	p.AddText(": $x^2$")
	doc.AddParagraph().AddText("Integrate $x$.").Italic()

	var buf bytes.Buffer
	if _, err := doc.WriteTo(&buf); err != nil {
		t.Fatalf("write docx: %v", err)
	}

	sheet, err := (&DOCXParser{}).Parse(&buf, "calc.docx")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sheet.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d: %v", len(sheet.Rows), sheet.Rows)
	}
	if got := sheet.Rows[0][0]; !strings.HasPrefix(got, "Differentiate") || !strings.Contains(got, `\textbf{carefully}`) {
		t.Errorf("expected bold run as command, got %q", got)
	}
	if got := sheet.Rows[1][0]; got != `\textit{Integrate $x$.}` {
		t.Errorf("expected italic run as command, got %q", got)
	}
	if sheet.Rows[0][1] != "Calculus" {
		t.Errorf("expected section from heading, got %q", sheet.Rows[0][1])
	}
}

func TestDOCXParser_InvalidData(t *testing.T) {
	if _, err := (&DOCXParser{}).Parse(strings.NewReader("not a zip"), "bad.docx"); err == nil {
		t.Error("expected error for invalid docx")
	}
}

func TestPDFParser_InvalidData(t *testing.T) {
	if _, err := (&PDFParser{}).Parse(strings.NewReader("not a pdf"), "bad.pdf"); err == nil {
		t.Error("expected error for invalid pdf")
	}
}

func TestSplitParagraphs(t *testing.T) {
	got := splitParagraphs("one\r\nline\r\n\r\ntwo\n\n\n  \nthree")
	if len(got) != 3 || got[0] != "one\nline" || got[2] != "three" {
		t.Errorf("expected 3 paragraphs, got %q", got)
	}
}

func TestDetectQuestionColumn(t *testing.T) {
	tests := []struct {
		name    string
		sheet   Sheet
		want    int
		wantErr bool
	}{
		{
			name:  "keyword exact",
			sheet: Sheet{Headers: []string{"ID", "Prompt", "Answer"}},
			want:  1,
		},
		{
			name:  "keyword priority",
			sheet: Sheet{Headers: []string{"Text", "Question"}},
			want:  1,
		},
		{
			name:  "keyword substring",
			sheet: Sheet{Headers: []string{"ID", "Question Text (LaTeX)"}},
			want:  1,
		},
		{
			name: "math weighted",
			sheet: Sheet{
				Headers: []string{"A", "B"},
				Rows: [][]string{
					{"short words", "$x^2$ + $y^2$"},
					{"more words", "$\\frac{1}{2}$ now"},
				},
			},
			want: 1,
		},
		{
			name: "numeric never chosen",
			sheet: Sheet{
				Headers: []string{"Score", "Notes"},
				Rows:    [][]string{{"1234567890123", "ok"}, {"42.5", ""}},
			},
			want: 1,
		},
		{
			name:    "all numeric",
			sheet:   Sheet{Headers: []string{"N"}, Rows: [][]string{{"1"}, {"2"}}},
			wantErr: true,
		},
		{
			name:    "no headers",
			sheet:   Sheet{},
			wantErr: true,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := DetectQuestionColumn(&tc.sheet)
			if tc.wantErr {
				if !errors.Is(err, ErrNoQuestionColumn) {
					t.Errorf("expected ErrNoQuestionColumn, got %d, %v", got, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("expected column %d, got %d", tc.want, got)
			}
		})
	}
}
