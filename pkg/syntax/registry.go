package syntax

import (
	"fmt"
	"sort"
	"sync"
	"unicode/utf8"

	"github.com/TRT-MichaelO/contracts/pkg/contract"
)

// Production parses the rest of a keyword's syntax. It is called with the
// keyword token already consumed and must return the contract it produces or
// a *ParseError, typically built with p.Errorf.
type Production func(p *Parser, keyword Token) (contract.Contract, error)

// registry is process wide and append only. It is read by every Parse and
// written only by Register, normally from init functions.
var registry = struct {
	sync.RWMutex
	prods map[string]Production
}{prods: make(map[string]Production)}

// Register adds a keyword production. Keywords are identifiers of at least
// two characters; single letters are reserved for variables.
// Returns ErrKeywordExists if the keyword is already registered.
func Register(keyword string, prod Production) error {
	if prod == nil {
		return fmt.Errorf("%w: keyword %q has no production", ErrInvalidKeyword, keyword)
	}
	if !validKeyword(keyword) {
		return fmt.Errorf("%w: %q", ErrInvalidKeyword, keyword)
	}
	registry.Lock()
	defer registry.Unlock()
	if _, exists := registry.prods[keyword]; exists {
		return fmt.Errorf("%w: %q", ErrKeywordExists, keyword)
	}
	registry.prods[keyword] = prod
	return nil
}

// MustRegister is Register for init functions; it panics on error.
func MustRegister(keyword string, prod Production) {
	if err := Register(keyword, prod); err != nil {
		panic(err)
	}
}

// Keywords returns the registered keywords in sorted order.
func Keywords() []string {
	registry.RLock()
	defer registry.RUnlock()
	out := make([]string, 0, len(registry.prods))
	for k := range registry.prods {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func lookup(keyword string) (Production, bool) {
	registry.RLock()
	defer registry.RUnlock()
	prod, ok := registry.prods[keyword]
	return prod, ok
}

func validKeyword(keyword string) bool {
	if utf8.RuneCountInString(keyword) < 2 {
		return false
	}
	toks, err := lex(keyword)
	return err == nil && len(toks) == 2 && toks[0].Kind == TokIdent
}
