package markup

import "strings"

// Kind identifies a token in the normalized stream.
type Kind int

const (
	KindText Kind = iota
	KindListStart
	KindListEnd
	KindItem
	KindNewline
	KindBoldStart
	KindBoldEnd
	KindItalicStart
	KindItalicEnd
	KindUnderlineStart
	KindUnderlineEnd
)

var kindNames = [...]string{
	KindText:           "text",
	KindListStart:      "list_start",
	KindListEnd:        "list_end",
	KindItem:           "item",
	KindNewline:        "newline",
	KindBoldStart:      "bold_start",
	KindBoldEnd:        "bold_end",
	KindItalicStart:    "italic_start",
	KindItalicEnd:      "italic_end",
	KindUnderlineStart: "underline_start",
	KindUnderlineEnd:   "underline_end",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Token is one element of the normalized stream. Text tokens carry literal
// content; every other kind is a sentinel. Source holds the raw markup the
// token was produced from, so a sentinel that ends up inside a math span
// can be restored to its LaTeX spelling.
type Token struct {
	Kind     Kind
	Text     string // literal content, KindText only
	Label    string // item label without brackets, KindItem only
	HasLabel bool
	Source   string
}

// Stream is the output of the normalizer.
type Stream []Token

// Text concatenates the literal content of the stream, dropping sentinels.
func (s Stream) Text() string {
	var sb strings.Builder
	for _, t := range s {
		if t.Kind == KindText {
			sb.WriteString(t.Text)
		}
	}
	return sb.String()
}

// Source reassembles the raw markup the stream was built from, with
// replacement commands (\text, spacing) shown as their replacement.
func (s Stream) Source() string {
	var sb strings.Builder
	for _, t := range s {
		if t.Kind == KindText {
			sb.WriteString(t.Text)
		} else {
			sb.WriteString(t.Source)
		}
	}
	return sb.String()
}

// literal turns a sentinel back into a text token holding its source.
func literal(t Token) Token {
	if t.Kind == KindText {
		return t
	}
	return Token{Kind: KindText, Text: t.Source, Source: t.Source}
}

// appendText adds text to the stream, merging with a trailing text token.
func appendText(s Stream, text string) Stream {
	if text == "" {
		return s
	}
	if n := len(s); n > 0 && s[n-1].Kind == KindText {
		s[n-1].Text += text
		s[n-1].Source += text
		return s
	}
	return append(s, Token{Kind: KindText, Text: text, Source: text})
}

// appendToken adds t to the stream, routing text through appendText.
func appendToken(s Stream, t Token) Stream {
	if t.Kind == KindText {
		return appendText(s, t.Text)
	}
	return append(s, t)
}
