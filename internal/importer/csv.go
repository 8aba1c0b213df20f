package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// CSVParser handles comma- and tab-separated files. The first row is the
// header row.
type CSVParser struct {
	Comma rune
}

func (p *CSVParser) Parse(r io.Reader, filename string) (*Sheet, error) {
	reader := csv.NewReader(decode(r))
	if p.Comma != 0 {
		reader.Comma = p.Comma
	}
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	sheet := &Sheet{Title: titleFromFilename(filename)}
	if len(records) == 0 {
		return sheet, nil
	}

	sheet.Headers = normalizeHeaders(records[0])
	for _, row := range records[1:] {
		if isBlankRow(row) {
			continue
		}
		sheet.Rows = append(sheet.Rows, fitRow(row, len(sheet.Headers)))
	}
	return sheet, nil
}

func isBlankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
