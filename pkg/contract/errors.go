package contract

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrTypeMismatch    = errors.New("type mismatch")
	ErrLengthMismatch  = errors.New("length mismatch")
	ErrBindingConflict = errors.New("binding conflict")
	ErrUnknownVariable = errors.New("unknown variable")
	ErrValueMismatch   = errors.New("value mismatch")
	ErrNoAlternative   = errors.New("no alternative matched")

	// ErrConstruction marks a malformed contract definition. It is only ever
	// returned while a contract tree is being built, never by Check.
	ErrConstruction = errors.New("malformed contract")
)

// ValidationError is the failure of a value against a contract.
//
// Kind is one of the check-time sentinels above; errors.Is matches it as
// well as any underlying cause. Context is a snapshot of the bindings at the
// moment of failure and Path holds the list indices leading to the failing
// element, outermost first.
type ValidationError struct {
	Node    Node
	Kind    error
	Message string
	Value   any
	Context Context
	Path    []int

	cause error
}

func violation(n Node, kind error, ctx Context, value any, format string, args ...any) *ValidationError {
	return &ValidationError{
		Node:    n,
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Value:   value,
		Context: ctx.Copy(),
	}
}

// reclassify returns a copy of err classified as kind, keeping err as the
// cause. Errors that are not validation errors are wrapped.
func reclassify(err error, kind error) error {
	var ve *ValidationError
	if !errors.As(err, &ve) {
		return fmt.Errorf("%w: %w", kind, err)
	}
	out := *ve
	out.Kind = kind
	out.cause = ve
	return &out
}

// atIndex prefixes the failing element index to the error path.
func atIndex(err error, i int) error {
	var ve *ValidationError
	if errors.As(err, &ve) {
		ve.Path = append([]int{i}, ve.Path...)
	}
	return err
}

func (e *ValidationError) Unwrap() []error {
	out := []error{e.Kind}
	if e.cause != nil {
		out = append(out, e.cause)
	}
	return out
}

// PathString renders Path as `[2][0]`; empty when the failure is at the top.
func (e *ValidationError) PathString() string {
	var b strings.Builder
	for _, i := range e.Path {
		fmt.Fprintf(&b, "[%d]", i)
	}
	return b.String()
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	if e.Node != nil {
		fmt.Fprintf(&b, "contract=%s where=%s ", e.Node, e.Node.Where())
	}
	if p := e.PathString(); p != "" {
		fmt.Fprintf(&b, "path=%s ", p)
	}
	fmt.Fprintf(&b, "%v: %s", e.Kind, e.Message)
	return b.String()
}

// Detail is a multi-line report: message, offending value, bindings and a
// caret snippet of the spec text when it is known.
func (e *ValidationError) Detail() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%v: %s\n", e.Kind, e.Message)
	if e.Node != nil {
		fmt.Fprintf(&b, "  checking: %s\n", e.Node)
	}
	fmt.Fprintf(&b, "  value:    %s\n", Describe(e.Value))
	if p := e.PathString(); p != "" {
		fmt.Fprintf(&b, "  at:       %s\n", p)
	}
	if len(e.Context) > 0 {
		fmt.Fprintf(&b, "  bindings: %s\n", e.Context)
	}
	if e.Node != nil {
		if s := e.Node.Where().Snippet(); s != "" {
			b.WriteString(s)
			b.WriteByte('\n')
		}
	}
	return b.String()
}
