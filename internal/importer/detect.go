package importer

import (
	"errors"
	"strconv"
	"strings"
)

// ErrNoQuestionColumn is returned when a sheet has no usable text column.
var ErrNoQuestionColumn = errors.New("no question column found")

// questionKeywords are header names that mark the question column, in
// priority order.
var questionKeywords = []string{"question", "prompt", "stem", "problem", "text", "content"}

// mathMarkers hint that a cell holds mixed markup.
var mathMarkers = []string{"$", `\(`, `\[`, `\frac`, `\sqrt`, `\begin{`, "^", "_{"}

// DetectQuestionColumn picks the column holding question text. A header
// matching a keyword wins, exact matches before substring matches.
// Otherwise the column with the longest average cell wins, with columns
// containing math markers weighted double. Columns whose non-empty cells
// are all numeric are never chosen.
func DetectQuestionColumn(s *Sheet) (int, error) {
	if len(s.Headers) == 0 {
		return -1, ErrNoQuestionColumn
	}

	for _, kw := range questionKeywords {
		if i := s.Column(kw); i >= 0 {
			return i, nil
		}
	}
	for _, kw := range questionKeywords {
		for i, h := range s.Headers {
			if strings.Contains(strings.ToLower(h), kw) {
				return i, nil
			}
		}
	}

	best, bestScore := -1, 0.0
	for i := range s.Headers {
		score, ok := columnScore(s.Values(i))
		if ok && score > bestScore {
			best, bestScore = i, score
		}
	}
	if best < 0 {
		return -1, ErrNoQuestionColumn
	}
	return best, nil
}

// columnScore returns the average cell length, doubled when any cell
// contains a math marker. ok is false for empty or all-numeric columns.
func columnScore(values []string) (float64, bool) {
	var total, count int
	numeric, math := true, false
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		count++
		total += len(v)
		if _, err := strconv.ParseFloat(v, 64); err != nil {
			numeric = false
		}
		if !math && hasMathMarker(v) {
			math = true
		}
	}
	if count == 0 || numeric {
		return 0, false
	}
	score := float64(total) / float64(count)
	if math {
		score *= 2
	}
	return score, true
}

func hasMathMarker(s string) bool {
	for _, m := range mathMarkers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}
