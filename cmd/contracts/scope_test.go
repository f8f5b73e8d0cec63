package main

import (
	"testing"

	"github.com/TRT-MichaelO/contracts/internal/testutil/testlog"
	"github.com/TRT-MichaelO/contracts/pkg/contract"
	"github.com/kylelemons/godebug/pretty"
)

func TestScopeFlag(t *testing.T) {
	testlog.Start(t)
	var s scopeFlag
	for _, arg := range []string{"N=3", "ratio=0.5", "tag=v1", "xs=[1, 2]", "empty=", " sp = true"} {
		if err := s.Set(arg); err != nil {
			t.Fatalf("Set(%q): %v", arg, err)
		}
	}
	want := map[string]any{
		"N":     int64(3),
		"ratio": 0.5,
		"tag":   "v1",
		"xs":    []any{int64(1), int64(2)},
		"empty": "",
		"sp":    true,
	}
	if diff := pretty.Compare(s.values, want); diff != "" {
		t.Fatalf("values (-got +want):\n%s", diff)
	}
	if got := s.String(); got != `N=3,empty="",ratio=0.5,sp=true,tag="v1",xs=[1, 2]` {
		t.Fatalf("String: got %s", got)
	}

	for _, bad := range []string{"novalue", "=3", "x=[1,"} {
		if err := s.Set(bad); err == nil {
			t.Errorf("Set(%q): expected an error", bad)
		}
	}
}

func TestMergeScope(t *testing.T) {
	testlog.Start(t)
	base := map[string]any{"a": 1, "b": 2}
	var s scopeFlag
	_ = s.Set("b=3")
	got := mergeScope(base, &s)
	if diff := pretty.Compare(got, contract.Context{"a": 1, "b": int64(3)}); diff != "" {
		t.Fatalf("scope (-got +want):\n%s", diff)
	}
	if base["b"] != 2 {
		t.Fatalf("base scope must not be modified")
	}
	if got := mergeScope(nil, &scopeFlag{}); len(got) != 0 {
		t.Fatalf("empty scope: got %v", got)
	}
}
