package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/TRT-MichaelO/contracts/pkg/contract"
	"github.com/TRT-MichaelO/contracts/pkg/valueyaml"
	flag "github.com/spf13/pflag"
)

// scopeFlag collects repeatable `--scope name=value` flags. Values are YAML,
// so `-s N=3` binds an int and `-s tag=v1` a string.
type scopeFlag struct {
	values map[string]any
}

var _ flag.Value = (*scopeFlag)(nil)

func (s *scopeFlag) Set(raw string) error {
	name, text, ok := strings.Cut(raw, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return fmt.Errorf("expected name=value, got %q", raw)
	}
	v, err := valueyaml.Decode([]byte(text))
	if err != nil {
		// an empty right-hand side is an empty string, not a decode error
		if strings.TrimSpace(text) != "" {
			return fmt.Errorf("scope %s: %w", name, err)
		}
		v = ""
	}
	if s.values == nil {
		s.values = make(map[string]any)
	}
	s.values[name] = v
	return nil
}

func (s *scopeFlag) String() string {
	names := make([]string, 0, len(s.values))
	for name := range s.values {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = name + "=" + contract.Repr(s.values[name])
	}
	return strings.Join(parts, ",")
}

func (s *scopeFlag) Type() string { return "name=value" }

// mergeScope layers the flag values over the config file's [scope] table.
func mergeScope(base map[string]any, flags *scopeFlag) contract.Context {
	out := contract.Context(base).Copy()
	for k, v := range flags.values {
		out[k] = v
	}
	return out
}
