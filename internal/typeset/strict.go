package typeset

import (
	"fmt"
	"strings"

	"github.com/go-latex/latex/ast"
)

// Strict accepts only expressions the go-latex parser understands. Its
// output is the parser's tree dump, which makes it useful for checking
// question banks rather than for display.
type Strict struct{}

// Typeset parses expr as math and returns the printed syntax tree.
func (Strict) Typeset(expr string, display bool) (string, error) {
	list, err := parse(expr)
	if err != nil {
		return "", fmt.Errorf("strict: %w", err)
	}
	var sb strings.Builder
	ast.Print(&sb, list)
	return sb.String(), nil
}

// Check reports the problem with expr, or nil when the strict parser
// accepts it.
func Check(expr string) error {
	_, err := Strict{}.Typeset(expr, false)
	return err
}
