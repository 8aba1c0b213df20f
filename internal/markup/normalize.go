package markup

import "strings"

// Normalize rewrites the recognized structural commands of raw into
// sentinel tokens. Unrecognized commands pass through as literal text and
// nothing in the input can make Normalize fail.
func Normalize(raw string) Stream {
	return tokenize(raw)
}

// listEnvironments are collapsed to a single list kind.
var listEnvironments = []string{"itemize", "enumerate"}

type formatCommand struct {
	start, end Kind
}

var formatCommands = map[string]formatCommand{
	"textbf":    {KindBoldStart, KindBoldEnd},
	"textit":    {KindItalicStart, KindItalicEnd},
	"emph":      {KindItalicStart, KindItalicEnd},
	"underline": {KindUnderlineStart, KindUnderlineEnd},
}

var spacingWords = map[string]string{
	"quad":  "  ",
	"qquad": "    ",
}

func tokenize(src string) Stream {
	var out Stream
	lit := 0
	i := 0
	for i < len(src) {
		if src[i] != '\\' {
			i++
			continue
		}
		toks, next, ok := command(src, i)
		if !ok {
			// Skip the whole unrecognized command so an escaped
			// backslash or brace is never read as a new command.
			i = next
			continue
		}
		out = appendText(out, src[lit:i])
		for _, t := range toks {
			out = appendToken(out, t)
		}
		i = next
		lit = next
	}
	return appendText(out, src[lit:])
}

// command reads the command starting at the backslash at i. It returns the
// tokens it produced and the position after it; ok is false when the
// command is not recognized, in which case next skips over it.
func command(src string, i int) (toks []Token, next int, ok bool) {
	j := i + 1
	for j < len(src) && isLetter(src[j]) {
		j++
	}
	name := src[i+1 : j]

	if name == "" {
		if j >= len(src) {
			return nil, j, false
		}
		switch c := src[j]; c {
		case '\\':
			return []Token{{Kind: KindNewline, Source: `\\`}}, j + 1, true
		case ',', ';', ':', ' ':
			return []Token{{Kind: KindText, Text: " ", Source: " "}}, j + 1, true
		default:
			return nil, j + 1, false
		}
	}

	switch name {
	case "begin", "end":
		env, end := environment(src, j)
		if end < 0 {
			return nil, j, false
		}
		if name == "end" {
			return []Token{{Kind: KindListEnd, Source: src[i:end]}}, end, true
		}
		if env == "enumerate" {
			end = skipOptionalArg(src, end)
		}
		return []Token{{Kind: KindListStart, Source: src[i:end]}}, end, true

	case "item":
		tok := Token{Kind: KindItem}
		end := j
		k := skipBlanks(src, j)
		if k < len(src) && src[k] == '[' {
			if closeAt := strings.IndexAny(src[k+1:], "]\n"); closeAt >= 0 && src[k+1+closeAt] == ']' {
				tok.Label = src[k+1 : k+1+closeAt]
				tok.HasLabel = true
				end = k + 1 + closeAt + 1
			}
		}
		tok.Source = src[i:end]
		return []Token{tok}, end, true

	case "newline":
		return []Token{{Kind: KindNewline, Source: src[i:j]}}, j, true

	case "text":
		open := skipBlanks(src, j)
		if open >= len(src) || src[open] != '{' {
			return nil, j, false
		}
		body, end, _ := braceArg(src, open)
		return []Token{{Kind: KindText, Text: body, Source: body}}, end, true
	}

	if sp, found := spacingWords[name]; found {
		return []Token{{Kind: KindText, Text: sp, Source: sp}}, j, true
	}

	if fc, found := formatCommands[name]; found {
		open := skipBlanks(src, j)
		if open >= len(src) || src[open] != '{' {
			return nil, j, false
		}
		body, end, closed := braceArg(src, open)
		toks = append(toks, Token{Kind: fc.start, Source: src[i : open+1]})
		toks = append(toks, tokenize(body)...)
		if closed {
			toks = append(toks, Token{Kind: fc.end, Source: "}"})
		}
		return toks, end, true
	}

	return nil, j, false
}

// environment reads "{name}" at j for a list environment and returns the
// name and the position after the closing brace, or -1.
func environment(src string, j int) (string, int) {
	for _, env := range listEnvironments {
		arg := "{" + env + "}"
		if strings.HasPrefix(src[j:], arg) {
			return env, j + len(arg)
		}
	}
	return "", -1
}

// skipOptionalArg consumes a "[...]" directly at j on the same line.
func skipOptionalArg(src string, j int) int {
	if j >= len(src) || src[j] != '[' {
		return j
	}
	closeAt := strings.IndexAny(src[j+1:], "]\n")
	if closeAt < 0 || src[j+1+closeAt] != ']' {
		return j
	}
	return j + 1 + closeAt + 1
}

// braceArg returns the content of the brace group opening at open and the
// position after its closing brace. An unterminated group runs to the end
// of src and reports closed == false.
func braceArg(src string, open int) (body string, end int, closed bool) {
	closeAt := matchBrace(src, open)
	if closeAt < 0 {
		return src[open+1:], len(src), false
	}
	return src[open+1 : closeAt], closeAt + 1, true
}

// matchBrace finds the brace closing the one at open, honoring nesting and
// backslash escapes. It returns -1 when there is none.
func matchBrace(src string, open int) int {
	depth := 0
	for k := open; k < len(src); k++ {
		switch src[k] {
		case '\\':
			k++
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return k
			}
		}
	}
	return -1
}

func skipBlanks(src string, j int) int {
	for j < len(src) && (src[j] == ' ' || src[j] == '\t') {
		j++
	}
	return j
}

func isLetter(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}
