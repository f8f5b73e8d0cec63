package contract

import (
	"maps"
	"sort"
	"strings"
)

// Context maps variable symbols to the values they were bound to during one
// top-level check. It is not safe for concurrent use; every check gets its
// own.
type Context map[string]any

// NewContext returns an empty context.
func NewContext() Context {
	return make(Context)
}

// Copy returns a shallow snapshot of c. Bindings made in the copy are not
// visible in c. Copying a nil context yields an empty one.
func (c Context) Copy() Context {
	if c == nil {
		return make(Context)
	}
	return maps.Clone(c)
}

// Lookup returns the value bound to symbol.
func (c Context) Lookup(symbol string) (any, bool) {
	v, ok := c[symbol]
	return v, ok
}

// Symbols returns the bound symbols in sorted order.
func (c Context) Symbols() []string {
	out := make([]string, 0, len(c))
	for k := range c {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func (c Context) String() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, k := range c.Symbols() {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(k)
		b.WriteString(": ")
		b.WriteString(Repr(c[k]))
	}
	b.WriteByte('}')
	return b.String()
}
