package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/dgallion1/examtex/internal/question"
	"gopkg.in/yaml.v3"
)

// Bank is the document written by JSON and YAML exports.
type Bank struct {
	Count     int                  `json:"count" yaml:"count"`
	Questions []*question.Question `json:"questions" yaml:"questions"`
}

func newBank(questions []*question.Question) Bank {
	if questions == nil {
		questions = []*question.Question{}
	}
	return Bank{Count: len(questions), Questions: questions}
}

func WriteJSON(w io.Writer, questions []*question.Question) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	// Math source is full of < and &; keep it readable.
	enc.SetEscapeHTML(false)
	if err := enc.Encode(newBank(questions)); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

func WriteYAML(w io.Writer, questions []*question.Question) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(newBank(questions)); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}
