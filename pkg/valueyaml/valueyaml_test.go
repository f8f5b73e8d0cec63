package valueyaml

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/TRT-MichaelO/contracts/internal/testutil/testlog"
	"github.com/kylelemons/godebug/pretty"
)

func TestDecode(t *testing.T) {
	testlog.Start(t)
	cases := []struct {
		name string
		in   string
		want any
	}{
		{"flow sequence", "[1, 2.5, a, null, true]", []any{int64(1), 2.5, "a", nil, true}},
		{"json object", `{"n": 3, "xs": [1, 2]}`, map[string]any{"n": int64(3), "xs": []any{int64(1), int64(2)}}},
		{"quoted number stays a string", `'1'`, "1"},
		{"tilde", "~", nil},
		{"nested block", "matrix:\n  - [1, 2]\n  - [3, 4]\n", map[string]any{
			"matrix": []any{[]any{int64(1), int64(2)}, []any{int64(3), int64(4)}},
		}},
		{"anchors and merge", "base: &b {x: 1, y: 2}\nderived:\n  <<: *b\n  y: 3\n", map[string]any{
			"base":    map[string]any{"x": int64(1), "y": int64(2)},
			"derived": map[string]any{"x": int64(1), "y": int64(3)},
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Decode([]byte(tc.in))
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if diff := pretty.Compare(got, tc.want); diff != "" {
				t.Fatalf("value (-got +want):\n%s", diff)
			}
		})
	}
}

// nestedAliases returns levels of anchors, each a list of nine aliases to
// the previous one: small to write, 9^levels values once expanded.
func nestedAliases(levels int) string {
	var b strings.Builder
	b.WriteString("l0: &l0 [x, x, x, x, x, x, x, x, x]\n")
	for i := 1; i < levels; i++ {
		refs := strings.TrimSuffix(strings.Repeat(fmt.Sprintf("*l%d, ", i-1), 9), ", ")
		fmt.Fprintf(&b, "l%d: &l%d [%s]\n", i, i, refs)
	}
	return b.String()
}

func TestDecodeErrors(t *testing.T) {
	testlog.Start(t)
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"non string key", "a: 1\n2: b\n", "line=2: mapping key \"2\" is not a string"},
		{"beyond int64", "18446744073709551615", "does not fit in 64 bits"},
		{"syntax", "[1, 2", "phase=decode"},
		{"alias inside its anchor", "a: &a [1, *a]\n", "line=1: alias *a refers to a value that contains it"},
		{"merge of the enclosing mapping", "a: &a\n  b: 1\n  <<: *a\n", "line=3: alias *a refers to a value that contains it"},
		{"alias expansion", nestedAliases(9), "aliases expand to more than 100000 values"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode([]byte(tc.in))
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}

	if _, err := DecodeAll([]byte("ok: 1\n---\na: &a {b: *a}\n")); err == nil || !strings.Contains(err.Error(), "document=2 phase=decode") {
		t.Fatalf("expected the cycle in the second document to be reported, got %v", err)
	}
	// the same anchor may be used many times as long as it does not contain itself
	if _, err := Decode([]byte("x: &x [1, 2]\nys: [*x, *x, *x]\n")); err != nil {
		t.Fatalf("repeated alias: %v", err)
	}

	if _, err := Decode(nil); !errors.Is(err, ErrEmptyDocument) {
		t.Fatalf("expected ErrEmptyDocument, got %v", err)
	}
}

func TestDecodeAll(t *testing.T) {
	testlog.Start(t)
	got, err := DecodeAll([]byte("1\n---\n[a]\n---\nk: v\n"))
	if err != nil {
		t.Fatalf("DecodeAll: %v", err)
	}
	want := []any{int64(1), []any{"a"}, map[string]any{"k": "v"}}
	if diff := pretty.Compare(got, want); diff != "" {
		t.Fatalf("documents (-got +want):\n%s", diff)
	}

	if _, err := DecodeAll([]byte("")); !errors.Is(err, ErrEmptyDocument) {
		t.Fatalf("expected ErrEmptyDocument, got %v", err)
	}
	_, err = DecodeAll([]byte("1\n---\n{1: 2}\n"))
	if err == nil || !strings.Contains(err.Error(), "document=2") {
		t.Fatalf("expected the failing document number, got %v", err)
	}
}

func TestEncode(t *testing.T) {
	testlog.Start(t)
	out, err := Encode(map[string]any{"N": int64(3)})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if string(out) != "N: 3\n" {
		t.Fatalf("got %q", out)
	}
}
