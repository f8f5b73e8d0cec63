package contract

import "strings"

// And requires every clause, checked in order against the same context, so
// a variable bound by one clause constrains the following ones. It is
// written `a,b`.
type And struct {
	where   Where
	Clauses []Contract
}

func NewAnd(where Where, clauses ...Contract) *And {
	return &And{where: where, Clauses: clauses}
}

func (a *And) Where() Where         { return a.where }
func (a *And) Children() []Contract { return a.Clauses }

func (a *And) Check(ctx Context, value any) error {
	for _, c := range a.Clauses {
		if err := c.Check(ctx, value); err != nil {
			return err
		}
	}
	return nil
}

func (a *And) String() string {
	parts := make([]string, len(a.Clauses))
	for i, c := range a.Clauses {
		s := c.String()
		if _, isOr := c.(*Or); isOr {
			s = "(" + s + ")"
		}
		parts[i] = s
	}
	return strings.Join(parts, ",")
}

// Or accepts the first alternative that matches. Each alternative is tried
// on its own copy of the context; only the matching one's bindings are kept.
// It is written `a|b`.
type Or struct {
	where   Where
	Clauses []Contract
}

func NewOr(where Where, clauses ...Contract) *Or {
	return &Or{where: where, Clauses: clauses}
}

func (o *Or) Where() Where         { return o.where }
func (o *Or) Children() []Contract { return o.Clauses }

func (o *Or) Check(ctx Context, value any) error {
	var last error
	for _, c := range o.Clauses {
		snap := ctx.Copy()
		err := c.Check(snap, value)
		if err == nil {
			for k, v := range snap {
				ctx[k] = v
			}
			return nil
		}
		last = err
	}
	ve := violation(o, ErrNoAlternative, ctx, value,
		"none of the %d alternatives matched %s", len(o.Clauses), Repr(value))
	ve.cause = last
	return ve
}

func (o *Or) String() string {
	parts := make([]string, len(o.Clauses))
	for i, c := range o.Clauses {
		parts[i] = c.String()
	}
	return strings.Join(parts, "|")
}
