package args

import (
	"strings"
	"unicode"
)

// Token is a single parsed word with its rune span in the source line.
// Start is inclusive and End is exclusive. Quotes are stripped from Text
// but included in the span.
type Token struct {
	Text  string
	Start int
	End   int
}

// Tokenize splits line into arguments. See Scan for the quoting rules.
func Tokenize(line string) Arguments {
	tokens := Scan(line)
	if len(tokens) == 0 {
		return Arguments{}
	}
	texts := make([]string, len(tokens))
	for i, tok := range tokens {
		texts[i] = tok.Text
	}
	return Arguments{tokens: texts}
}

// Scan splits line into tokens separated by unquoted whitespace.
//
// A single or double quote opens quoting only as the first rune of a token;
// elsewhere it is literal, so "don't" stays one word. Quoted text may hold
// whitespace and runs to the matching quote, and the quotes are removed.
// Inside quotes a backslash escapes ", ' and \. An unterminated quote runs to
// the end of the line. A quoted empty string ("") yields no token.
func Scan(line string) []Token {
	var (
		tokens        []Token
		current       strings.Builder
		inSingleQuote bool
		inDoubleQuote bool
		start         = -1
	)
	runes := []rune(line)

	flush := func(end int) {
		if current.Len() > 0 {
			tokens = append(tokens, Token{Text: current.String(), Start: start, End: end})
		}
		current.Reset()
		start = -1
	}

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		quoted := inSingleQuote || inDoubleQuote

		if unicode.IsSpace(r) && !quoted {
			flush(i)
			continue
		}
		if start < 0 {
			start = i
		}

		switch {
		case r == '\'' && inSingleQuote, r == '"' && inDoubleQuote:
			inSingleQuote, inDoubleQuote = false, false
		case r == '\'' && !quoted && i == start:
			inSingleQuote = true
		case r == '"' && !quoted && i == start:
			inDoubleQuote = true
		case r == '\\' && quoted && i+1 < len(runes) && isEscapable(runes[i+1]):
			current.WriteRune(runes[i+1])
			i++
		default:
			current.WriteRune(r)
		}
	}
	flush(len(runes))

	return tokens
}

// EndsInSpace reports whether the line ends with unquoted whitespace, which
// means the user has finished the last token and is starting a new one.
func EndsInSpace(line string) bool {
	if line == "" {
		return false
	}
	runes := []rune(line)
	if !unicode.IsSpace(runes[len(runes)-1]) {
		return false
	}
	tokens := Scan(line)
	if len(tokens) == 0 {
		return true
	}
	return tokens[len(tokens)-1].End < len(runes)
}

func isEscapable(r rune) bool {
	return r == '"' || r == '\'' || r == '\\'
}

// Quote returns s as a single token for Scan. Text holding whitespace or a
// quote is wrapped in double quotes with " and \ escaped; anything else is
// returned unchanged.
func Quote(s string) string {
	if s == "" || !strings.ContainsFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || r == '"' || r == '\''
	}) {
		return s
	}
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		if r == '"' || r == '\\' {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	b.WriteByte('"')
	return b.String()
}
