package importer

import (
	"io"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// decode wraps r so text arrives as NFC-normalized UTF-8. A UTF-8 or UTF-16
// byte order mark selects the encoding and is stripped; without one the
// input is read as UTF-8 with invalid bytes replaced.
func decode(r io.Reader) io.Reader {
	return transform.NewReader(r, transform.Chain(
		unicode.BOMOverride(unicode.UTF8.NewDecoder()),
		norm.NFC,
	))
}
