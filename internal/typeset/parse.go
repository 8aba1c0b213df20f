package typeset

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-latex/latex"
	"github.com/go-latex/latex/ast"
)

// controlWordJoin matches a control word directly followed by a script or
// digit, which the go-latex scanner would read as part of the name.
var controlWordJoin = regexp.MustCompile(`(\\[a-zA-Z]+)([_0-9])`)

// parse parses a bare math expression into its node list. The go-latex
// parser panics on input it does not understand; that is reported as an
// error.
func parse(expr string) (list ast.List, err error) {
	if strings.TrimSpace(expr) == "" {
		return nil, errors.New("empty expression")
	}
	defer func() {
		if p := recover(); p != nil {
			list, err = nil, fmt.Errorf("%v", p)
		}
	}()

	expr = controlWordJoin.ReplaceAllString(expr, "$1 $2")
	node, err := latex.ParseExpr("$" + expr + "$")
	if err != nil {
		return nil, err
	}
	top, _ := node.(ast.List)
	for _, n := range top {
		if m, ok := n.(*ast.MathExpr); ok {
			list = append(list, m.List...)
			continue
		}
		list = append(list, n)
	}
	return list, nil
}
