// Package typeset provides the math backends used by the renderer.
package typeset

import (
	"fmt"
	"strings"

	"github.com/dgallion1/examtex/internal/markup"
)

// Names accepted by ForName.
const (
	NameMathML = "mathml"
	NameStrict = "strict"
	NameNone   = "none"
)

// ForName returns the typesetter configured under name. "none" returns a
// nil typesetter: the renderer then leaves math for the client to typeset.
func ForName(name string) (markup.Typesetter, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case NameMathML, "":
		return NewMathML(), nil
	case NameStrict:
		return Strict{}, nil
	case NameNone:
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown typesetter %q", name)
	}
}
