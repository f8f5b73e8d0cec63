package syntax

import (
	"errors"
	"fmt"

	"github.com/TRT-MichaelO/contracts/pkg/contract"
)

var (
	ErrKeywordExists  = errors.New("keyword already registered")
	ErrInvalidKeyword = errors.New("invalid keyword")
)

// ParseError is a malformed spec. It matches contract.ErrConstruction.
type ParseError struct {
	Where contract.Where
	Msg   string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at line %d col %d: %s", e.Where.Line(), e.Where.Col(), e.Msg)
}

func (e *ParseError) Unwrap() error { return contract.ErrConstruction }

// Detail adds a caret snippet of the spec under the message.
func (e *ParseError) Detail() string {
	s := e.Error()
	if snip := e.Where.Snippet(); snip != "" {
		s += "\n" + snip
	}
	return s
}

func at(spec string, offset int) contract.Where {
	return contract.At(spec, offset)
}
