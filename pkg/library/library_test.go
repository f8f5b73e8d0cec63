package library

import (
	"errors"
	"strings"
	"testing"

	"github.com/TRT-MichaelO/contracts/internal/testutil/testlog"
	"github.com/TRT-MichaelO/contracts/pkg/contract"
	"github.com/TRT-MichaelO/contracts/pkg/syntax"
	"github.com/kylelemons/godebug/pretty"
	"github.com/spf13/afero"
)

func writeFile(t *testing.T, fsys afero.Fs, path, content string) {
	t.Helper()
	if err := afero.WriteFile(fsys, path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestLoad(t *testing.T) {
	testlog.Start(t)
	fsys := afero.NewMemMapFs()
	writeFile(t, fsys, "/lib/a.yml", `
specs:
  matrix:
    spec: list[N](list[M](number))
    doc: a rectangular matrix
  ints: list(int)
`)
	writeFile(t, fsys, "/lib/notes.txt", "not a library")
	writeFile(t, fsys, "/more/b.yaml", "specs:\n  pair: list[2]\n")

	lib, err := Load(fsys, []string{"/lib", "/missing", "/more"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := pretty.Compare(lib.Names(), []string{"ints", "matrix", "pair"}); diff != "" {
		t.Fatalf("names (-got +want):\n%s", diff)
	}

	m, ok := lib.Get("matrix")
	if !ok {
		t.Fatalf("matrix missing")
	}
	if m.Doc != "a rectangular matrix" || m.Source != "/lib/a.yml" {
		t.Fatalf("entry: %+v", m)
	}
	if err := contract.Check(m.Contract, []any{[]any{1, 2}, []any{3, 4}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := contract.Check(m.Contract, []any{[]any{1, 2}, []any{3}}); !errors.Is(err, contract.ErrLengthMismatch) {
		t.Fatalf("expected length mismatch, got %v", err)
	}

	ints, _ := lib.Get("ints")
	if ints.Spec != "list(int)" || ints.Doc != "" {
		t.Fatalf("shorthand entry: %+v", ints)
	}
	if _, err := lib.Lookup("nope"); !errors.Is(err, ErrUnknownSpec) {
		t.Fatalf("expected ErrUnknownSpec, got %v", err)
	}
}

func TestLoadDuplicate(t *testing.T) {
	testlog.Start(t)
	fsys := afero.NewMemMapFs()
	writeFile(t, fsys, "/a/x.yml", "specs:\n  s: int\n")
	writeFile(t, fsys, "/b/y.yml", "specs:\n  s: str\n")

	_, err := Load(fsys, []string{"/a", "/b"})
	if !errors.Is(err, ErrDuplicateSpec) {
		t.Fatalf("expected ErrDuplicateSpec, got %v", err)
	}
	for _, want := range []string{"file=/b/y.yml", "spec=s", "first in /a/x.yml"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %q", err, want)
		}
	}
}

func TestLoadMalformedSpec(t *testing.T) {
	testlog.Start(t)
	fsys := afero.NewMemMapFs()
	writeFile(t, fsys, "/lib/bad.yml", "specs:\n  broken: list[\n")

	_, err := Load(fsys, []string{"/lib"})
	var pe *syntax.ParseError
	if !errors.As(err, &pe) || !errors.Is(err, contract.ErrConstruction) {
		t.Fatalf("expected a parse error, got %v", err)
	}
	if !strings.Contains(err.Error(), "file=/lib/bad.yml: spec=broken:") {
		t.Fatalf("error lacks location: %v", err)
	}

	writeFile(t, fsys, "/empty/e.yml", "specs:\n  blank: ''\n")
	if _, err := Load(fsys, []string{"/empty"}); !errors.Is(err, contract.ErrConstruction) {
		t.Fatalf("expected construction error for an empty spec, got %v", err)
	}
}

func TestLoadWithScope(t *testing.T) {
	testlog.Start(t)
	fsys := afero.NewMemMapFs()
	writeFile(t, fsys, "/lib/s.yml", "specs:\n  sized: list[!size]\n")

	if _, err := Load(fsys, []string{"/lib"}); !errors.Is(err, contract.ErrConstruction) {
		t.Fatalf("expected construction error without scope, got %v", err)
	}
	lib, err := Load(fsys, []string{"/lib"}, syntax.WithScope(map[string]any{"size": 1}))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	e, _ := lib.Get("sized")
	if err := contract.Check(e.Contract, []any{"x"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
