package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/dgallion1/examtex/internal/question"
)

// CSVHeader is the column order of CSV exports. The question column name
// matches what import detection looks for first.
var CSVHeader = []string{"id", "question", "answer", "options", "topic", "difficulty", "marks", "tags", "source", "created_at"}

func WriteCSV(w io.Writer, questions []*question.Question) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, q := range questions {
		marks := ""
		if q.Marks > 0 {
			marks = strconv.Itoa(q.Marks)
		}
		row := []string{
			q.ID,
			q.Text,
			q.Answer,
			strings.Join(q.Options, question.OptionSeparator),
			q.Topic,
			q.Difficulty,
			marks,
			strings.Join(q.Tags, ","),
			q.Source,
			q.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row %s: %w", q.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
