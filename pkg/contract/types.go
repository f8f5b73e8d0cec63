package contract

// Anything accepts every value. It is written `*`.
type Anything struct {
	where Where
}

func NewAnything(where Where) *Anything { return &Anything{where: where} }

func (a *Anything) Where() Where             { return a.where }
func (a *Anything) String() string           { return "*" }
func (a *Anything) Check(Context, any) error { return nil }

// TypeContract accepts values whose kind is in Kinds. Name is the keyword it
// was written as, e.g. `number` for {int, float}.
type TypeContract struct {
	where Where
	Name  string
	Kinds KindSet
}

func NewTypeContract(where Where, name string, kinds KindSet) *TypeContract {
	return &TypeContract{where: where, Name: name, Kinds: kinds}
}

func (t *TypeContract) Where() Where   { return t.where }
func (t *TypeContract) String() string { return t.Name }

func (t *TypeContract) Check(ctx Context, value any) error {
	if !t.Kinds.Has(KindOf(value)) {
		return violation(t, ErrTypeMismatch, ctx, value, "expected %s, got %s", t.Kinds, typeName(value))
	}
	return nil
}
