package main

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/TRT-MichaelO/contracts/pkg/contract"
	"github.com/TRT-MichaelO/contracts/pkg/lib"
	"github.com/TRT-MichaelO/contracts/pkg/valueyaml"
	"github.com/chzyer/readline"
	"github.com/spf13/cobra"
)

const replHelp = "  :spec <text>   set the spec\n" +
	"  :vars          show the bindings of the last successful check\n" +
	"  :help          show this help\n" +
	"  :quit          leave"

var replCmd = &cobra.Command{
	Use:   "repl [SPEC]",
	Short: "Check values line by line against a spec",
	Long:  "Read YAML values line by line and check each against the current spec.\n\n" + replHelp,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}
		rl, err := readline.NewEx(&readline.Config{
			Prompt:          appName + "> ",
			HistoryFile:     filepath.Join(a.configDir, historyFile),
			AutoComplete:    readline.NewPrefixCompleter(readline.PcItem(":spec"), readline.PcItem(":vars"), readline.PcItem(":help"), readline.PcItem(":quit")),
			InterruptPrompt: "^C",
			EOFPrompt:       ":quit",
		})
		if err != nil {
			return err
		}
		defer rl.Close()

		s := &replSession{app: a, out: rl.Stdout()}
		if len(args) == 1 {
			s.handle(":spec " + args[0])
		}
		for {
			line, err := rl.Readline()
			if errors.Is(err, readline.ErrInterrupt) {
				if line == "" {
					return nil
				}
				continue
			}
			if errors.Is(err, io.EOF) {
				return nil
			}
			if err != nil {
				return err
			}
			if s.handle(line) {
				return nil
			}
		}
	},
}

// replSession holds the REPL state between lines.
type replSession struct {
	app      *app
	out      io.Writer
	contract contract.Contract
	vars     contract.Context
}

// handle runs one input line and reports whether the session should end.
func (s *replSession) handle(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}
	cmd, rest, _ := strings.Cut(line, " ")
	switch cmd {
	case ":quit", ":q", ":exit":
		return true
	case ":help":
		fmt.Fprintln(s.out, replHelp)
		return false
	case ":spec":
		c, err := s.app.parse(strings.TrimSpace(rest))
		if err != nil {
			lib.Report(s.out, err)
			return false
		}
		s.contract, s.vars = c, nil
		fmt.Fprintf(s.out, "spec %s\n", c)
		return false
	case ":vars":
		if len(s.vars) == 0 {
			fmt.Fprintln(s.out, "no bindings")
			return false
		}
		for _, sym := range s.vars.Symbols() {
			fmt.Fprintf(s.out, "%s = %s\n", sym, contract.Describe(s.vars[sym]))
		}
		return false
	}
	if strings.HasPrefix(cmd, ":") {
		fmt.Fprintf(s.out, "unknown command %s, try :help\n", cmd)
		return false
	}
	if s.contract == nil {
		fmt.Fprintln(s.out, "no spec yet, set one with :spec <text>")
		return false
	}
	v, err := valueyaml.Decode([]byte(line))
	if err != nil {
		lib.Report(s.out, err)
		return false
	}
	ctx, err := contract.CheckContext(s.contract, v, s.app.scope)
	if err != nil {
		lib.Report(s.out, err)
		return false
	}
	s.vars = ctx
	fmt.Fprintln(s.out, "ok")
	return false
}
