package contract

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Where records the spec text a node was parsed from and the byte offset of
// the node inside it. Nodes built by hand may carry the zero Where.
type Where struct {
	Spec   string
	Offset int
}

// At returns the location of offset within spec.
func At(spec string, offset int) Where {
	return Where{Spec: spec, Offset: offset}
}

func (w Where) clamped() int {
	switch {
	case w.Offset < 0:
		return 0
	case w.Offset > len(w.Spec):
		return len(w.Spec)
	}
	return w.Offset
}

// Line is the 1-based line of the offset.
func (w Where) Line() int {
	return strings.Count(w.Spec[:w.clamped()], "\n") + 1
}

// Col is the 1-based column of the offset, counted in runes.
func (w Where) Col() int {
	off := w.clamped()
	lineStart := strings.LastIndexByte(w.Spec[:off], '\n') + 1
	return utf8.RuneCountInString(w.Spec[lineStart:off]) + 1
}

func (w Where) IsZero() bool { return w.Spec == "" && w.Offset == 0 }

func (w Where) String() string {
	if w.IsZero() {
		return "<unknown>"
	}
	return fmt.Sprintf("%d:%d", w.Line(), w.Col())
}

// Snippet renders the line holding the offset with a caret under it.
//
//	1 | list[N](list[M](int))
//	  |         ^
func (w Where) Snippet() string {
	if w.IsZero() {
		return ""
	}
	lines := strings.Split(w.Spec, "\n")
	line := w.Line()
	gutter := len(fmt.Sprint(line))
	var b strings.Builder
	fmt.Fprintf(&b, "%*d | %s\n", gutter, line, lines[line-1])
	fmt.Fprintf(&b, "%*s | %s^", gutter, "", strings.Repeat(" ", w.Col()-1))
	return b.String()
}
