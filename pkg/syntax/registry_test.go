package syntax

import (
	"errors"
	"slices"
	"testing"

	"github.com/TRT-MichaelO/contracts/internal/testutil/testlog"
	"github.com/TRT-MichaelO/contracts/pkg/contract"
)

// minlen(N) is shorthand for list[>=N].
func parseMinLen(p *Parser, kw Token) (contract.Contract, error) {
	if err := p.Expect("("); err != nil {
		return nil, err
	}
	lenTok := p.Peek()
	n, err := p.ParseInt()
	if err != nil {
		return nil, err
	}
	if err := p.Expect(")"); err != nil {
		return nil, err
	}
	atLeast := contract.NewCompare(p.Where(lenTok), contract.OpGe, contract.NewLiteral(p.Where(lenTok), n))
	return contract.NewList(p.Where(kw), atLeast, nil), nil
}

func TestRegisterKeyword(t *testing.T) {
	testlog.Start(t)
	if err := Register("minlen", parseMinLen); err != nil && !errors.Is(err, ErrKeywordExists) {
		t.Fatalf("Register: %v", err)
	}
	if !slices.Contains(Keywords(), "minlen") {
		t.Fatalf("minlen missing from %v", Keywords())
	}

	c := MustParse("minlen(2),list(int)")
	if c.String() != "list[>=2],list(int)" {
		t.Fatalf("String: got %q", c.String())
	}
	if err := contract.Check(c, []any{1}); !errors.Is(err, contract.ErrLengthMismatch) {
		t.Fatalf("expected length mismatch, got %v", err)
	}
	if err := contract.Check(c, []any{1, 2}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := Parse("minlen(x)")
	var pe *ParseError
	if !errors.As(err, &pe) || pe.Msg != `expected an integer, found "x"` {
		t.Fatalf("got %v", err)
	}
}

func TestRegisterRejects(t *testing.T) {
	testlog.Start(t)
	cases := []struct {
		keyword string
		prod    Production
		want    error
	}{
		{"list", parseList, ErrKeywordExists},
		{"int", typeProduction(contract.NewKindSet(contract.KindInt)), ErrKeywordExists},
		{"x", parseList, ErrInvalidKeyword},
		{"two words", parseList, ErrInvalidKeyword},
		{"9lives", parseList, ErrInvalidKeyword},
		{"", parseList, ErrInvalidKeyword},
		{"nothing", nil, ErrInvalidKeyword},
	}
	for _, tc := range cases {
		if err := Register(tc.keyword, tc.prod); !errors.Is(err, tc.want) {
			t.Errorf("Register(%q): expected %v, got %v", tc.keyword, tc.want, err)
		}
	}
}

func TestBuiltinKeywords(t *testing.T) {
	testlog.Start(t)
	kws := Keywords()
	for _, kw := range []string{"list", "int", "float", "number", "str", "string", "bool", "None", "null", "map", "dict"} {
		if !slices.Contains(kws, kw) {
			t.Errorf("builtin %q not registered", kw)
		}
	}
	if !slices.IsSorted(kws) {
		t.Errorf("keywords not sorted: %v", kws)
	}

	cases := []struct {
		spec  string
		value any
		ok    bool
	}{
		{"number", 1, true},
		{"number", 1.5, true},
		{"number", true, false},
		{"int", true, false},
		{"bool", false, true},
		{"None", nil, true},
		{"null", 0, false},
		{"dict", map[string]any{"a": 1}, true},
		{"map", map[int]any{1: 1}, false},
		{"string", "s", true},
		{"*", struct{}{}, true},
	}
	for _, tc := range cases {
		err := contract.Check(MustParse(tc.spec), tc.value)
		if tc.ok && err != nil {
			t.Errorf("%s on %v: unexpected error: %v", tc.spec, tc.value, err)
		}
		if !tc.ok && !errors.Is(err, contract.ErrTypeMismatch) {
			t.Errorf("%s on %v: expected type mismatch, got %v", tc.spec, tc.value, err)
		}
	}
}

func TestLex(t *testing.T) {
	testlog.Start(t)
	toks, err := lex("list[>=1](x_1, 2.5e-1)")
	if err != nil {
		t.Fatalf("lex: %v", err)
	}
	var got []string
	for _, tok := range toks {
		got = append(got, tok.String())
	}
	want := []string{`"list"`, `"["`, `">="`, `"1"`, `"]"`, `"("`, `"x_1"`, `","`, `"2.5e-1"`, `")"`, "end of input"}
	if !slices.Equal(got, want) {
		t.Fatalf("tokens: got %v want %v", got, want)
	}
	if toks[8].Kind != TokFloat || toks[8].Offset != 15 {
		t.Fatalf("float token: %+v", toks[8])
	}
}
