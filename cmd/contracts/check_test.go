package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/TRT-MichaelO/contracts/internal/testutil/testlog"
	"github.com/TRT-MichaelO/contracts/pkg/contract"
	"github.com/TRT-MichaelO/contracts/pkg/lib"
	"github.com/TRT-MichaelO/contracts/pkg/library"
	"github.com/TRT-MichaelO/contracts/pkg/syntax"
)

func mustContain(t *testing.T, got string, subs ...string) {
	t.Helper()
	for _, sub := range subs {
		if !strings.Contains(got, sub) {
			t.Fatalf("expected %q to contain %q", got, sub)
		}
	}
}

func TestReadSources(t *testing.T) {
	testlog.Start(t)
	fsys := useMemFs(t)
	writeFile(t, fsys, "/data/m.yml", "[[1, 2], [3, 4]]\n---\n[[1]]\n")

	srcs, err := readSources(fsys, strings.NewReader("[5]"), []string{"/data/m.yml", "-"}, []string{"[1, 2]"})
	if err != nil {
		t.Fatalf("readSources: %v", err)
	}
	var names []string
	for _, s := range srcs {
		names = append(names, s.name)
	}
	if strings.Join(names, ",") != "value#1,/data/m.yml,<stdin>" {
		t.Fatalf("sources: %v", names)
	}
	if len(srcs[1].docs) != 2 {
		t.Fatalf("expected two documents, got %d", len(srcs[1].docs))
	}

	srcs, err = readSources(fsys, strings.NewReader("a: 1"), nil, nil)
	if err != nil || len(srcs) != 1 || srcs[0].name != "<stdin>" {
		t.Fatalf("stdin is the default input: %v %v", srcs, err)
	}

	if _, err := readSources(fsys, nil, []string{"/data/missing.yml"}, nil); err == nil {
		t.Fatalf("expected an error for a missing file")
	}
	if _, err := readSources(fsys, nil, nil, []string{"[1,"}); err == nil || !strings.Contains(err.Error(), "--value #1") {
		t.Fatalf("expected a --value error, got %v", err)
	}
}

func TestCheckerRun(t *testing.T) {
	testlog.Start(t)
	c := syntax.MustParse("list[N](list[N](number))")
	srcs := []source{
		{name: "good.yml", docs: []any{[]any{[]any{1, 2}, []any{3, 4}}}},
		{name: "multi.yml", docs: []any{[]any{[]any{1}}, []any{[]any{1, 2}, []any{3}}}},
		{name: "value#1", docs: []any{"nope"}},
	}
	var out bytes.Buffer
	err := checker{contract: c, out: &out, bindings: true}.run(srcs)

	mustContain(t, out.String(),
		"ok   good.yml\n     N = int 2\n",
		"ok   multi.yml#1\n     N = int 1\n",
		"FAIL multi.yml#2\n",
		"FAIL value#1\n",
		"2 of 4 documents failed list[N](list[N](number))\n",
	)
	if !errors.Is(err, contract.ErrLengthMismatch) || !errors.Is(err, contract.ErrTypeMismatch) {
		t.Fatalf("both failures must be reachable: %v", err)
	}

	var report bytes.Buffer
	lib.Report(&report, err)
	mustContain(t, report.String(),
		"Error: multi.yml#2: contract=N where=1:14 path=[1] length mismatch:",
		"Error: value#1: contract=list[N](list[N](number)) where=1:1 type mismatch: expected a list, got str",
	)

	out.Reset()
	if err := (checker{contract: c, out: &out}).run(srcs[:1]); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.String() != "ok   good.yml\n" {
		t.Fatalf("got %q", out.String())
	}
}

func TestCheckerHidesScopeBindings(t *testing.T) {
	testlog.Start(t)
	scope := contract.Context{"w": int64(2)}
	c := syntax.MustParse("list[!w](x)", syntax.WithScope(scope))
	var out bytes.Buffer
	err := checker{contract: c, scope: scope, out: &out, bindings: true}.run([]source{{name: "a", docs: []any{[]any{1, 2}}}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.String() != "ok   a\n" {
		t.Fatalf("scope values and element bindings must not be printed, got %q", out.String())
	}
}

func TestResolveCheckContract(t *testing.T) {
	testlog.Start(t)
	fsys := useMemFs(t)
	useConfigDir(t, "/cfg")
	writeFile(t, fsys, "/cfg/library/specs.yml", "specs:\n  pair: list[2]\n")
	a, err := loadApp()
	if err != nil {
		t.Fatalf("loadApp: %v", err)
	}

	c, files, err := resolveCheckContract(a, []string{"list(int)", "a.yml", "b.yml"})
	if err != nil || c.String() != "list(int)" || strings.Join(files, ",") != "a.yml,b.yml" {
		t.Fatalf("spec argument: %v %v %v", c, files, err)
	}

	flagCheckName = "pair"
	c, files, err = resolveCheckContract(a, []string{"a.yml"})
	if err != nil || c.String() != "list[2]" || len(files) != 1 {
		t.Fatalf("--name: %v %v %v", c, files, err)
	}

	flagCheckName = "missing"
	if _, _, err := resolveCheckContract(a, nil); !errors.Is(err, library.ErrUnknownSpec) {
		t.Fatalf("expected ErrUnknownSpec, got %v", err)
	}

	flagCheckName = ""
	if _, _, err := resolveCheckContract(a, nil); err == nil {
		t.Fatalf("expected an error without a spec")
	}
	if _, _, err := resolveCheckContract(a, []string{"list["}); !errors.Is(err, contract.ErrConstruction) {
		t.Fatalf("expected a construction error, got %v", err)
	}
}

func TestPrintLibraryAndTree(t *testing.T) {
	testlog.Start(t)
	l := library.New()
	if err := l.Add("ints", "list(int)", "", "a.yml"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := l.Add("matrix", "list[N](list[M](number))", "a matrix", "a.yml"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	var out bytes.Buffer
	printLibrary(&out, l)
	want := "ints    list(int)\n" +
		"matrix  list[N](list[M](number))  # a matrix\n"
	if out.String() != want {
		t.Fatalf("got:\n%s\nwant:\n%s", out.String(), want)
	}

	out.Reset()
	printLibrary(&out, library.New())
	if out.String() != "no named specs found\n" {
		t.Fatalf("got %q", out.String())
	}

	out.Reset()
	printTree(&out, syntax.MustParse("list[3](int|str)"))
	want = "List       list[3](int|str) @ 1:1\n" +
		"  Compare    3 @ 1:6\n" +
		"  Or         int|str @ 1:9\n" +
		"    TypeContract int @ 1:9\n" +
		"    TypeContract str @ 1:13\n"
	if out.String() != want {
		t.Fatalf("got:\n%s\nwant:\n%s", out.String(), want)
	}
}
