package contract

import "math"

// Op is a comparison operator.
type Op int

const (
	OpEq Op = iota
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
)

var opText = [...]string{OpEq: "=", OpNe: "!=", OpLt: "<", OpLe: "<=", OpGt: ">", OpGe: ">="}

func (o Op) String() string { return opText[o] }

// holds reports whether cmp (the sign of left minus right) satisfies o.
func (o Op) holds(cmp int) bool {
	switch o {
	case OpEq:
		return cmp == 0
	case OpNe:
		return cmp != 0
	case OpLt:
		return cmp < 0
	case OpLe:
		return cmp <= 0
	case OpGt:
		return cmp > 0
	case OpGe:
		return cmp >= 0
	}
	return false
}

// Compare checks value Op Right. = and != use Equal and accept any kinds; the
// ordering operators need numbers on both sides.
type Compare struct {
	where Where
	Op    Op
	Right RValue

	// bare marks the `list[3]` length shortcut, rendered without the `=`.
	bare bool
}

func NewCompare(where Where, op Op, right RValue) *Compare {
	return &Compare{where: where, Op: op, Right: right}
}

// NewExactly is `= right` rendered as just `right`.
func NewExactly(where Where, right RValue) *Compare {
	return &Compare{where: where, Op: OpEq, Right: right, bare: true}
}

func (c *Compare) Where() Where { return c.where }

func (c *Compare) String() string {
	if c.bare {
		return c.Right.String()
	}
	return c.Op.String() + c.Right.String()
}

func (c *Compare) Check(ctx Context, value any) error {
	right, err := c.Right.Eval(ctx)
	if err != nil {
		return err
	}
	var ok bool
	switch c.Op {
	case OpEq:
		ok = Equal(value, right)
	case OpNe:
		ok = !Equal(value, right)
	default:
		l, lok := toNumber(value)
		r, rok := toNumber(right)
		if !lok || !rok {
			return violation(c, ErrTypeMismatch, ctx, value,
				"cannot order %s against %s", typeName(value), typeName(right))
		}
		sign, ordered := cmpNumbers(l, r)
		ok = ordered && c.Op.holds(sign)
	}
	if !ok {
		return violation(c, ErrValueMismatch, ctx, value,
			"condition %s %s %s not respected", Repr(value), c.Op, Repr(right))
	}
	return nil
}

// Literal is a constant number.
type Literal struct {
	where Where
	Value any
}

func NewLiteral(where Where, value any) *Literal {
	return &Literal{where: where, Value: value}
}

func (l *Literal) Where() Where              { return l.where }
func (l *Literal) Eval(Context) (any, error) { return l.Value, nil }

func (l *Literal) String() string {
	if n, ok := toNumber(l.Value); ok {
		return formatNumber(n)
	}
	return Repr(l.Value)
}

// Arith is a binary arithmetic expression over numbers: + - *.
type Arith struct {
	where       Where
	Op          byte
	Left, Right RValue
}

func NewArith(where Where, op byte, left, right RValue) *Arith {
	return &Arith{where: where, Op: op, Left: left, Right: right}
}

func (a *Arith) Where() Where { return a.where }

func (a *Arith) Eval(ctx Context) (any, error) {
	lv, err := a.Left.Eval(ctx)
	if err != nil {
		return nil, err
	}
	rv, err := a.Right.Eval(ctx)
	if err != nil {
		return nil, err
	}
	l, ok := toNumber(lv)
	if !ok {
		return nil, violation(a, ErrTypeMismatch, ctx, lv, "arithmetic needs numbers, got %s", typeName(lv))
	}
	r, ok := toNumber(rv)
	if !ok {
		return nil, violation(a, ErrTypeMismatch, ctx, rv, "arithmetic needs numbers, got %s", typeName(rv))
	}
	if l.isInt && r.isInt {
		v, ok := intArith(a.Op, l.i, r.i)
		if !ok {
			return nil, violation(a, ErrValueMismatch, ctx, lv,
				"%d%c%d overflows a 64-bit integer", l.i, a.Op, r.i)
		}
		return v, nil
	}
	switch a.Op {
	case '+':
		return l.float() + r.float(), nil
	case '-':
		return l.float() - r.float(), nil
	default:
		return l.float() * r.float(), nil
	}
}

// intArith applies op to x and y. ok is false when the result does not fit
// in an int64.
func intArith(op byte, x, y int64) (v int64, ok bool) {
	switch op {
	case '+':
		v = x + y
		return v, (x^v)&(y^v) >= 0
	case '-':
		v = x - y
		return v, (x^y)&(x^v) >= 0
	}
	if x == 0 || y == 0 {
		return 0, true
	}
	if (x == -1 && y == math.MinInt64) || (y == -1 && x == math.MinInt64) {
		return 0, false
	}
	v = x * y
	return v, v/y == x
}

func precedence(r RValue) int {
	switch x := r.(type) {
	case *Arith:
		if x.Op == '*' {
			return 2
		}
		return 1
	case *Negate:
		return 3
	}
	return 4
}

func (a *Arith) String() string {
	p := precedence(a)
	left := a.Left.String()
	if precedence(a.Left) < p {
		left = "(" + left + ")"
	}
	right := a.Right.String()
	// left associative: a-(b-c) keeps its parentheses
	if precedence(a.Right) <= p {
		right = "(" + right + ")"
	}
	return left + string(a.Op) + right
}

// Negate is unary minus.
type Negate struct {
	where Where
	X     RValue
}

func NewNegate(where Where, x RValue) *Negate {
	return &Negate{where: where, X: x}
}

func (n *Negate) Where() Where { return n.where }

func (n *Negate) String() string {
	if precedence(n.X) < precedence(n) {
		return "-(" + n.X.String() + ")"
	}
	return "-" + n.X.String()
}

func (n *Negate) Eval(ctx Context) (any, error) {
	v, err := n.X.Eval(ctx)
	if err != nil {
		return nil, err
	}
	x, ok := toNumber(v)
	if !ok {
		return nil, violation(n, ErrTypeMismatch, ctx, v, "cannot negate %s", typeName(v))
	}
	switch {
	case x.isInt && x.i == math.MinInt64:
		return nil, violation(n, ErrValueMismatch, ctx, v, "-(%d) overflows a 64-bit integer", x.i)
	case x.isInt:
		return -x.i, nil
	}
	return -x.float(), nil
}
