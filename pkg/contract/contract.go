// Package contract is the evaluation engine of the contracts DSL.
//
// A contract tree is built once (usually by package syntax) and is immutable
// afterwards. Checking walks the tree against a value, threading a Context
// of variable bindings through the walk: the first occurrence of a variable
// binds it, later occurrences must be equal. A tree may be checked from many
// goroutines at once as long as each check has its own Context.
package contract

import (
	"github.com/rs/zerolog/log"
)

// Node is anything that appears in a contract tree and can be blamed in a
// ValidationError.
type Node interface {
	Where() Where
	// String renders the node back into spec syntax.
	String() string
}

// Contract validates a value. Check returns nil on success, possibly after
// binding variables in ctx, or a *ValidationError. ctx must not be nil.
type Contract interface {
	Node
	Check(ctx Context, value any) error
}

// RValue is a value-level expression, such as the right-hand side of a
// comparison. Eval never mutates ctx.
type RValue interface {
	Node
	Eval(ctx Context) (any, error)
}

// Composite is implemented by contracts that hold sub-contracts.
type Composite interface {
	Contract
	Children() []Contract
}

// Check validates value against c with a fresh, empty context.
func Check(c Contract, value any) error {
	_, err := CheckContext(c, value, nil)
	return err
}

// CheckContext validates value against c in a new context seeded with a copy
// of scope, and returns the final bindings. scope is never modified.
func CheckContext(c Contract, value any, scope Context) (Context, error) {
	ctx := scope.Copy()
	if err := c.Check(ctx, value); err != nil {
		log.Debug().Stringer("contract", c).Err(err).Msg("contract check failed")
		return nil, err
	}
	log.Debug().Stringer("contract", c).Int("bindings", len(ctx)).Msg("contract check ok")
	return ctx, nil
}

// Walk visits c and its descendants depth first. depth is 0 for c.
func Walk(c Contract, fn func(c Contract, depth int)) {
	walk(c, 0, fn)
}

func walk(c Contract, depth int, fn func(Contract, int)) {
	if c == nil {
		return
	}
	fn(c, depth)
	if comp, ok := c.(Composite); ok {
		for _, child := range comp.Children() {
			walk(child, depth+1, fn)
		}
	}
}
