// Package library loads named contract specs from YAML files so that they
// can be referred to by name from the command line.
//
// A library file looks like:
//
//	specs:
//	  matrix:
//	    spec: list[N](list[M](number))
//	    doc: a rectangular matrix
//	  ints: list(int)
package library

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/TRT-MichaelO/contracts/pkg/contract"
	"github.com/TRT-MichaelO/contracts/pkg/syntax"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

var (
	ErrDuplicateSpec = errors.New("spec already defined")
	ErrUnknownSpec   = errors.New("unknown spec")
)

// Entry is one named, parsed spec.
type Entry struct {
	Name     string
	Spec     string
	Doc      string
	Source   string
	Contract contract.Contract
}

// Library is an immutable-after-load set of named specs.
type Library struct {
	entries map[string]Entry
}

func New() *Library {
	return &Library{entries: make(map[string]Entry)}
}

type libraryFile struct {
	Specs map[string]fileEntry `yaml:"specs"`
}

type fileEntry struct {
	Spec string `yaml:"spec"`
	Doc  string `yaml:"doc,omitempty"`
}

// UnmarshalYAML accepts either a bare spec string or a {spec, doc} mapping.
func (e *fileEntry) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind == yaml.ScalarNode {
		e.Spec = n.Value
		return nil
	}
	type plain fileEntry
	return n.Decode((*plain)(e))
}

// Load reads every *.yml and *.yaml file of dirs, in order, parsing each spec
// with opts. Directories that do not exist are skipped.
func Load(fsys afero.Fs, dirs []string, opts ...syntax.Option) (*Library, error) {
	lib := New()
	for _, dir := range dirs {
		exists, err := afero.DirExists(fsys, dir)
		if err != nil {
			return nil, fmt.Errorf("dir=%s: %w", dir, err)
		}
		if !exists {
			log.Debug().Str("dir", dir).Msg("library dir missing, skipped")
			continue
		}
		infos, err := afero.ReadDir(fsys, dir)
		if err != nil {
			return nil, fmt.Errorf("dir=%s: %w", dir, err)
		}
		for _, info := range infos {
			if info.IsDir() || !isYAML(info.Name()) {
				continue
			}
			if err := lib.LoadFile(fsys, filepath.Join(dir, info.Name()), opts...); err != nil {
				return nil, err
			}
		}
	}
	return lib, nil
}

// LoadFile adds the specs of one library file.
func (l *Library) LoadFile(fsys afero.Fs, path string, opts ...syntax.Option) error {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return fmt.Errorf("file=%s: %w", path, err)
	}
	var f libraryFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("file=%s: %w", path, err)
	}
	names := make([]string, 0, len(f.Specs))
	for name := range f.Specs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		e := f.Specs[name]
		if err := l.Add(name, e.Spec, e.Doc, path, opts...); err != nil {
			return fmt.Errorf("file=%s: %w", path, err)
		}
	}
	log.Debug().Str("file", path).Int("specs", len(names)).Msg("loaded library file")
	return nil
}

// Add parses spec and stores it under name.
func (l *Library) Add(name, spec, doc, source string, opts ...syntax.Option) error {
	if prev, exists := l.entries[name]; exists {
		return fmt.Errorf("spec=%s: %w (first in %s)", name, ErrDuplicateSpec, prev.Source)
	}
	if strings.TrimSpace(spec) == "" {
		return fmt.Errorf("spec=%s: %w: empty spec", name, contract.ErrConstruction)
	}
	c, err := syntax.Parse(spec, opts...)
	if err != nil {
		return fmt.Errorf("spec=%s: %w", name, err)
	}
	l.entries[name] = Entry{Name: name, Spec: spec, Doc: doc, Source: source, Contract: c}
	return nil
}

func (l *Library) Get(name string) (Entry, bool) {
	e, ok := l.entries[name]
	return e, ok
}

// Lookup is Get returning ErrUnknownSpec for a missing name.
func (l *Library) Lookup(name string) (Entry, error) {
	e, ok := l.entries[name]
	if !ok {
		return Entry{}, fmt.Errorf("spec=%s: %w", name, ErrUnknownSpec)
	}
	return e, nil
}

// Names returns the spec names in sorted order.
func (l *Library) Names() []string {
	out := make([]string, 0, len(l.entries))
	for name := range l.entries {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func (l *Library) Len() int { return len(l.entries) }

func isYAML(name string) bool {
	ext := filepath.Ext(name)
	return ext == ".yml" || ext == ".yaml"
}
