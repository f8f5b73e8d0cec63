package syntax

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// TokenKind classifies a lexed token.
type TokenKind int

const (
	TokEOF TokenKind = iota
	TokIdent
	TokInt
	TokFloat
	TokPunct
)

// Token is one lexeme of a spec with the byte offset it starts at.
type Token struct {
	Kind   TokenKind
	Text   string
	Offset int
}

func (t Token) String() string {
	if t.Kind == TokEOF {
		return "end of input"
	}
	return fmt.Sprintf("%q", t.Text)
}

// punctuation, longest first so that `<=` wins over `<`.
var puncts = []string{"==", "!=", "<=", ">=", "=", "<", ">", "!", "+", "-", "*", ",", "|", "(", ")", "[", "]"}

func lex(spec string) ([]Token, error) {
	var toks []Token
	i := 0
	for i < len(spec) {
		r, size := utf8.DecodeRuneInString(spec[i:])
		switch {
		case unicode.IsSpace(r):
			i += size
		case r == '_' || unicode.IsLetter(r):
			start := i
			for i < len(spec) {
				r, size := utf8.DecodeRuneInString(spec[i:])
				if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
					break
				}
				i += size
			}
			toks = append(toks, Token{Kind: TokIdent, Text: spec[start:i], Offset: start})
		case isDigit(r):
			tok := lexNumber(spec, i)
			toks = append(toks, tok)
			i += len(tok.Text)
		default:
			p := matchPunct(spec[i:])
			if p == "" {
				return nil, &ParseError{Where: at(spec, i), Msg: fmt.Sprintf("unexpected character %q", r)}
			}
			toks = append(toks, Token{Kind: TokPunct, Text: p, Offset: i})
			i += len(p)
		}
	}
	return append(toks, Token{Kind: TokEOF, Offset: len(spec)}), nil
}

func matchPunct(s string) string {
	for _, p := range puncts {
		if strings.HasPrefix(s, p) {
			return p
		}
	}
	return ""
}

func isDigit(r rune) bool { return '0' <= r && r <= '9' }

// lexNumber reads digits with an optional fraction and exponent. A fraction
// needs a digit after the dot.
func lexNumber(spec string, start int) Token {
	i := start
	digits := func() {
		for i < len(spec) && isDigit(rune(spec[i])) {
			i++
		}
	}
	digits()
	kind := TokInt
	if i+1 < len(spec) && spec[i] == '.' && isDigit(rune(spec[i+1])) {
		i++
		digits()
		kind = TokFloat
	}
	if i < len(spec) && (spec[i] == 'e' || spec[i] == 'E') {
		j := i + 1
		if j < len(spec) && (spec[j] == '+' || spec[j] == '-') {
			j++
		}
		if j < len(spec) && isDigit(rune(spec[j])) {
			i = j
			digits()
			kind = TokFloat
		}
	}
	return Token{Kind: kind, Text: spec[start:i], Offset: start}
}
