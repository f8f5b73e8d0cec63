package contract

// List checks that a value is a sequence, optionally constraining its length
// with Length and each element with Elements. Either may be nil.
//
// Every element is checked against its own snapshot of the context, so
// variables bound inside one element are invisible to its siblings and to
// the caller. The length check runs on the live context and its bindings
// persist.
type List struct {
	where    Where
	Length   Contract
	Elements Contract
}

func NewList(where Where, length, elements Contract) *List {
	return &List{where: where, Length: length, Elements: elements}
}

func (l *List) Where() Where { return l.where }

func (l *List) Children() []Contract {
	var out []Contract
	if l.Length != nil {
		out = append(out, l.Length)
	}
	if l.Elements != nil {
		out = append(out, l.Elements)
	}
	return out
}

func (l *List) Check(ctx Context, value any) error {
	elems, ok := Elements(value)
	if !ok {
		return violation(l, ErrTypeMismatch, ctx, value, "expected a list, got %s", typeName(value))
	}
	if l.Length != nil {
		if err := l.Length.Check(ctx, len(elems)); err != nil {
			return reclassify(err, ErrLengthMismatch)
		}
	}
	if l.Elements == nil {
		return nil
	}
	for i, elem := range elems {
		if err := l.Elements.Check(ctx.Copy(), elem); err != nil {
			return atIndex(err, i)
		}
	}
	return nil
}

func (l *List) String() string {
	s := "list"
	if l.Length != nil {
		s += "[" + l.Length.String() + "]"
	}
	if l.Elements != nil {
		s += "(" + l.Elements.String() + ")"
	}
	return s
}
