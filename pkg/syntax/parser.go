// Package syntax turns spec strings such as `list[N](int,>0)` into contract
// trees. The grammar is extensible: keywords dispatch to productions held in
// a process-wide registry (see Register).
package syntax

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/TRT-MichaelO/contracts/pkg/contract"
	"github.com/rs/zerolog/log"
)

type options struct {
	scope contract.Context
}

type Option func(*options)

// WithScope makes the names of scope available as `!name` references. They
// are resolved once, while parsing.
func WithScope(scope map[string]any) Option {
	return func(o *options) {
		o.scope = contract.Context(scope).Copy()
	}
}

// Parse builds the contract described by spec.
func Parse(spec string, opts ...Option) (contract.Contract, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	toks, err := lex(spec)
	if err != nil {
		return nil, err
	}
	p := &Parser{spec: spec, toks: toks, scope: o.scope}
	if p.Peek().Kind == TokEOF {
		return nil, p.Errorf(p.Peek(), "empty contract")
	}
	c, err := p.ParseContract()
	if err != nil {
		return nil, err
	}
	if tok := p.Peek(); tok.Kind != TokEOF {
		return nil, p.Errorf(tok, "unexpected %s after contract %s", tok, c)
	}
	log.Debug().Str("spec", spec).Stringer("contract", c).Msg("parsed contract")
	return c, nil
}

// MustParse is Parse for specs known to be valid; it panics on error.
func MustParse(spec string, opts ...Option) contract.Contract {
	c, err := Parse(spec, opts...)
	if err != nil {
		panic(err)
	}
	return c
}

// Parser is the recursive descent state handed to keyword productions.
type Parser struct {
	spec  string
	toks  []Token
	pos   int
	scope contract.Context
}

// Peek returns the next token without consuming it.
func (p *Parser) Peek() Token { return p.toks[p.pos] }

// Next consumes and returns the next token. At the end it keeps returning
// the EOF token.
func (p *Parser) Next() Token {
	tok := p.toks[p.pos]
	if tok.Kind != TokEOF {
		p.pos++
	}
	return tok
}

// Accept consumes the next token if it is the punctuation or identifier text.
func (p *Parser) Accept(text string) bool {
	tok := p.Peek()
	if tok.Kind == TokEOF || tok.Text != text {
		return false
	}
	p.pos++
	return true
}

// Expect is Accept that fails when the text is not next.
func (p *Parser) Expect(text string) error {
	if !p.Accept(text) {
		tok := p.Peek()
		return p.Errorf(tok, "expected %q, found %s", text, tok)
	}
	return nil
}

// Where is the location of tok in the spec being parsed.
func (p *Parser) Where(tok Token) contract.Where {
	return at(p.spec, tok.Offset)
}

// Errorf builds a *ParseError located at tok.
func (p *Parser) Errorf(tok Token, format string, args ...any) *ParseError {
	return &ParseError{Where: p.Where(tok), Msg: fmt.Sprintf(format, args...)}
}

// ParseContract parses a full contract expression: alternatives of
// conjunctions of atoms.
func (p *Parser) ParseContract() (contract.Contract, error) {
	start := p.Peek()
	first, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	clauses := []contract.Contract{first}
	for p.Accept("|") {
		c, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		clauses = append(clauses, c)
	}
	if len(clauses) == 1 {
		return first, nil
	}
	return contract.NewOr(p.Where(start), clauses...), nil
}

func (p *Parser) parseAnd() (contract.Contract, error) {
	start := p.Peek()
	first, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	clauses := []contract.Contract{first}
	for p.Accept(",") {
		c, err := p.parseAtom()
		if err != nil {
			return nil, err
		}
		clauses = append(clauses, c)
	}
	if len(clauses) == 1 {
		return first, nil
	}
	return contract.NewAnd(p.Where(start), clauses...), nil
}

var compareOps = map[string]contract.Op{
	"=":  contract.OpEq,
	"==": contract.OpEq,
	"!=": contract.OpNe,
	"<":  contract.OpLt,
	"<=": contract.OpLe,
	">":  contract.OpGt,
	">=": contract.OpGe,
}

func (p *Parser) parseAtom() (contract.Contract, error) {
	tok := p.Peek()
	switch tok.Kind {
	case TokEOF:
		return nil, p.Errorf(tok, "expected a contract, found end of input")
	case TokInt, TokFloat:
		return p.parseExactly()
	case TokIdent:
		p.Next()
		return p.parseIdent(tok)
	}
	switch tok.Text {
	case "(":
		p.Next()
		c, err := p.ParseContract()
		if err != nil {
			return nil, err
		}
		if err := p.Expect(")"); err != nil {
			return nil, err
		}
		return c, nil
	case "*":
		p.Next()
		return contract.NewAnything(p.Where(tok)), nil
	case "!", "-":
		return p.parseExactly()
	}
	if op, ok := compareOps[tok.Text]; ok {
		p.Next()
		right, err := p.ParseRValue()
		if err != nil {
			return nil, err
		}
		return contract.NewCompare(p.Where(tok), op, right), nil
	}
	return nil, p.Errorf(tok, "expected a contract, found %s", tok)
}

// parseExactly handles a bare value in contract position, as in `list[3]`.
func (p *Parser) parseExactly() (contract.Contract, error) {
	tok := p.Peek()
	right, err := p.ParseRValue()
	if err != nil {
		return nil, err
	}
	return contract.NewExactly(p.Where(tok), right), nil
}

func (p *Parser) parseIdent(tok Token) (contract.Contract, error) {
	if utf8.RuneCountInString(tok.Text) == 1 {
		r, _ := utf8.DecodeRuneInString(tok.Text)
		allowed := contract.AllKinds
		if unicode.IsUpper(r) {
			allowed = contract.NewKindSet(contract.KindInt)
		}
		b, err := contract.NewBindVariable(p.Where(tok), tok.Text, allowed)
		if err != nil {
			return nil, p.Errorf(tok, "%v", err)
		}
		return b, nil
	}
	prod, ok := lookup(tok.Text)
	if !ok {
		return nil, p.Errorf(tok, "unknown keyword %q", tok.Text)
	}
	return prod(p, tok)
}

// ParseRValue parses an arithmetic expression over numbers, variables and
// scoped references.
func (p *Parser) ParseRValue() (contract.RValue, error) {
	left, err := p.parseProduct()
	if err != nil {
		return nil, err
	}
	for {
		tok := p.Peek()
		if tok.Kind != TokPunct || (tok.Text != "+" && tok.Text != "-") {
			return left, nil
		}
		p.Next()
		right, err := p.parseProduct()
		if err != nil {
			return nil, err
		}
		left = contract.NewArith(p.Where(tok), tok.Text[0], left, right)
	}
}

func (p *Parser) parseProduct() (contract.RValue, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		tok := p.Peek()
		if tok.Kind != TokPunct || tok.Text != "*" {
			return left, nil
		}
		p.Next()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = contract.NewArith(p.Where(tok), '*', left, right)
	}
}

func (p *Parser) parseUnary() (contract.RValue, error) {
	tok := p.Peek()
	if tok.Kind == TokPunct && tok.Text == "-" {
		p.Next()
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return contract.NewNegate(p.Where(tok), x), nil
	}
	return p.parsePrimary()
}

func (p *Parser) parsePrimary() (contract.RValue, error) {
	tok := p.Next()
	switch tok.Kind {
	case TokInt:
		n, err := strconv.ParseInt(tok.Text, 10, 64)
		if err != nil {
			return nil, p.Errorf(tok, "integer %s out of range", tok.Text)
		}
		return contract.NewLiteral(p.Where(tok), n), nil
	case TokFloat:
		f, err := strconv.ParseFloat(tok.Text, 64)
		if err != nil {
			return nil, p.Errorf(tok, "invalid number %s", tok.Text)
		}
		return contract.NewLiteral(p.Where(tok), f), nil
	case TokIdent:
		if utf8.RuneCountInString(tok.Text) != 1 {
			return nil, p.Errorf(tok, "expected a value, found %s; variables are single letters", tok)
		}
		return contract.NewVariableRef(p.Where(tok), tok.Text), nil
	case TokPunct:
		switch tok.Text {
		case "!":
			return p.parseScoped(tok)
		case "(":
			x, err := p.ParseRValue()
			if err != nil {
				return nil, err
			}
			if err := p.Expect(")"); err != nil {
				return nil, err
			}
			return x, nil
		}
	}
	return nil, p.Errorf(tok, "expected a value, found %s", tok)
}

func (p *Parser) parseScoped(bang Token) (contract.RValue, error) {
	name := p.Next()
	if name.Kind != TokIdent || name.Offset != bang.Offset+1 {
		return nil, p.Errorf(name, "expected a name right after %q", "!")
	}
	v, ok := p.scope.Lookup(name.Text)
	if !ok {
		known := strings.Join(p.scope.Symbols(), ", ")
		return nil, p.Errorf(name, "name %q is not in scope (known: %s)", name.Text, known)
	}
	if contract.KindOf(v) == contract.KindInvalid {
		return nil, p.Errorf(name, "scoped name %q holds an unsupported %T", name.Text, v)
	}
	return contract.NewScopedRef(p.Where(bang), name.Text, v), nil
}

// ParseInt parses an integer literal, for productions that take counts.
func (p *Parser) ParseInt() (int64, error) {
	tok := p.Next()
	if tok.Kind != TokInt {
		return 0, p.Errorf(tok, "expected an integer, found %s", tok)
	}
	n, err := strconv.ParseInt(tok.Text, 10, 64)
	if err != nil {
		return 0, p.Errorf(tok, "integer %s out of range", tok.Text)
	}
	return n, nil
}
