package assist

import (
	"errors"
	"regexp"
	"strings"
)

const (
	// MaxTextBytes bounds question text sent to and accepted from the model.
	MaxTextBytes = 64 << 10
	// MaxCreateCount bounds how many questions one Create call asks for.
	MaxCreateCount = 20

	maxTags  = 5
	maxMarks = 100
)

var validDifficulties = map[string]bool{
	"easy":   true,
	"medium": true,
	"hard":   true,
}

var injectionPattern = regexp.MustCompile(
	`(?i)(ignore\s+(previous|all|above)|system\s*prompt|you\s+are\s+now|` +
		`forget\s+(everything|all)|new\s+instructions)`,
)

var (
	errEmptyModification = errors.New("modification returned empty text")
	errUnchanged         = errors.New("modification left the text unchanged")
	errTooLong           = errors.New("modified text is too long")
	errInjection         = errors.New("modified text contains instructions to the model")
)

// ValidateModified checks text returned by Modify against the original.
// Injection phrases are rejected only when the original did not already
// contain them.
func ValidateModified(original, modified string) error {
	if strings.TrimSpace(modified) == "" {
		return errEmptyModification
	}
	if len(modified) > MaxTextBytes {
		return errTooLong
	}
	if collapse(original) == collapse(modified) {
		return errUnchanged
	}
	if injectionPattern.MatchString(modified) && !injectionPattern.MatchString(original) {
		return errInjection
	}
	return nil
}

// ValidateGenerated checks one generated question, normalizing fields it
// can repair. Returns true if valid.
func ValidateGenerated(q *GeneratedQuestion) bool {
	if q == nil {
		return false
	}
	q.Text = strings.TrimSpace(q.Text)
	if len(q.Text) < 3 || len(q.Text) > MaxTextBytes {
		return false
	}
	if injectionPattern.MatchString(q.Text) || injectionPattern.MatchString(q.Answer) {
		return false
	}
	q.Difficulty = strings.ToLower(strings.TrimSpace(q.Difficulty))
	if !validDifficulties[q.Difficulty] {
		q.Difficulty = ""
	}
	if q.Marks < 0 || q.Marks > maxMarks {
		q.Marks = 0
	}
	if len(q.Tags) > maxTags {
		q.Tags = q.Tags[:maxTags]
	}
	if q.Options == nil {
		q.Options = []string{}
	}
	return true
}

var codeBlockRe = regexp.MustCompile("(?s)^```(?:json|latex|tex|text)?\\s*(.*?)\\s*```$")

func stripCodeBlock(s string) string {
	s = strings.TrimSpace(s)
	if m := codeBlockRe.FindStringSubmatch(s); len(m) > 1 {
		return m[1]
	}
	return s
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
