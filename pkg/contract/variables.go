package contract

import (
	"fmt"
	"unicode/utf8"
)

// BindVariable binds Symbol to the first value it checks, provided the value's
// kind is in Allowed. Once bound, later values must be equal to the bound one.
type BindVariable struct {
	where   Where
	Symbol  string
	Allowed KindSet
}

// NewBindVariable fails with ErrConstruction unless symbol is exactly one
// character and allowed is non-empty.
func NewBindVariable(where Where, symbol string, allowed KindSet) (*BindVariable, error) {
	if utf8.RuneCountInString(symbol) != 1 {
		return nil, fmt.Errorf("%w: variable name must be a single character, got %q", ErrConstruction, symbol)
	}
	if allowed.Empty() {
		return nil, fmt.Errorf("%w: variable %q must allow at least one kind", ErrConstruction, symbol)
	}
	return &BindVariable{where: where, Symbol: symbol, Allowed: allowed}, nil
}

func (b *BindVariable) Where() Where   { return b.where }
func (b *BindVariable) String() string { return b.Symbol }

func (b *BindVariable) Check(ctx Context, value any) error {
	if bound, ok := ctx[b.Symbol]; ok {
		if !Equal(bound, value) {
			return violation(b, ErrBindingConflict, ctx, value,
				"expected value for %q was %s, instead received %s",
				b.Symbol, Describe(bound), Describe(value))
		}
		return nil
	}
	if !b.Allowed.Has(KindOf(value)) {
		return violation(b, ErrTypeMismatch, ctx, value,
			"variable %q can only bind to %s, not %s", b.Symbol, b.Allowed, typeName(value))
	}
	ctx[b.Symbol] = value
	return nil
}

// VariableRef reads a variable bound earlier in the same check.
type VariableRef struct {
	where  Where
	Symbol string
}

func NewVariableRef(where Where, symbol string) *VariableRef {
	return &VariableRef{where: where, Symbol: symbol}
}

func (r *VariableRef) Where() Where   { return r.where }
func (r *VariableRef) String() string { return r.Symbol }

func (r *VariableRef) Eval(ctx Context) (any, error) {
	v, ok := ctx[r.Symbol]
	if !ok {
		return nil, violation(r, ErrUnknownVariable, ctx, nil, "unknown variable %q", r.Symbol)
	}
	return v, nil
}

// ScopedRef is a value taken from a caller-supplied scope when the contract
// was built. It renders as `!Name`.
type ScopedRef struct {
	where Where
	Name  string
	Value any
}

func NewScopedRef(where Where, name string, value any) *ScopedRef {
	return &ScopedRef{where: where, Name: name, Value: value}
}

func (s *ScopedRef) Where() Where              { return s.where }
func (s *ScopedRef) String() string            { return "!" + s.Name }
func (s *ScopedRef) Eval(Context) (any, error) { return s.Value, nil }
