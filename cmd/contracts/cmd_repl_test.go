package main

import (
	"bytes"
	"testing"

	"github.com/TRT-MichaelO/contracts/internal/testutil/testlog"
	"github.com/TRT-MichaelO/contracts/pkg/contract"
)

func TestReplSession(t *testing.T) {
	testlog.Start(t)
	var out bytes.Buffer
	s := &replSession{app: &app{scope: contract.Context{"w": int64(2)}}, out: &out}

	steps := []struct {
		line string
		want string
		quit bool
	}{
		{"[1, 2]", "no spec yet, set one with :spec <text>\n", false},
		{":spec list[!w](N)", "spec list[!w](N)\n", false},
		{":vars", "no bindings\n", false},
		{"[3, 4]", "ok\n", false},
		{":vars", "w = int 2\n", false},
		{"[1]", "Error: contract=!w where=1:6 length mismatch: condition 1 = 2 not respected\n", false},
		{"[1,", "Error: phase=decode: yaml:", false},
		{":spec list[", "Error: parse error at line 1 col 6: expected a contract, found end of input\n", false},
		{":what", "unknown command :what, try :help\n", false},
		{"   ", "", false},
		{":quit", "", true},
	}
	for _, st := range steps {
		out.Reset()
		quit := s.handle(st.line)
		if quit != st.quit {
			t.Fatalf("%q: quit=%v", st.line, quit)
		}
		if st.want != "" {
			mustContain(t, out.String(), st.want)
		} else if out.Len() != 0 {
			t.Fatalf("%q: unexpected output %q", st.line, out.String())
		}
	}
}
