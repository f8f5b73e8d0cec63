package main

import (
	"fmt"
	"io"

	"github.com/TRT-MichaelO/contracts/pkg/library"
	"github.com/TRT-MichaelO/contracts/pkg/syntax"
	"github.com/spf13/cobra"
)

var keywordsCmd = &cobra.Command{
	Use:   "keywords",
	Short: "List the keywords specs may use",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		for _, kw := range syntax.Keywords() {
			fmt.Fprintln(cmd.OutOrStdout(), kw)
		}
	},
}

var libraryCmd = &cobra.Command{
	Use:   "library",
	Short: "List the named specs of the library",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}
		l, err := a.library()
		if err != nil {
			return err
		}
		printLibrary(cmd.OutOrStdout(), l)
		return nil
	},
}

// printLibrary prints all entries aligned: name, spec and doc.
func printLibrary(w io.Writer, l *library.Library) {
	names := l.Names()
	if len(names) == 0 {
		fmt.Fprintln(w, "no named specs found")
		return
	}

	nameLen, specLen := 0, 0
	for _, name := range names {
		e, _ := l.Get(name)
		nameLen = max(nameLen, len(e.Name))
		specLen = max(specLen, len(e.Spec))
	}

	for _, name := range names {
		e, _ := l.Get(name)
		if e.Doc == "" {
			fmt.Fprintf(w, "%-*s  %s\n", nameLen, e.Name, e.Spec)
			continue
		}
		fmt.Fprintf(w, "%-*s  %-*s  # %s\n", nameLen, e.Name, specLen, e.Spec, e.Doc)
	}
}
