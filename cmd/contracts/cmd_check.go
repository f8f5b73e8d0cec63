package main

import (
	"fmt"
	"io"

	"github.com/TRT-MichaelO/contracts/pkg/contract"
	"github.com/TRT-MichaelO/contracts/pkg/valueyaml"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var (
	flagCheckName     string
	flagCheckPick     bool
	flagCheckValues   []string
	flagCheckBindings bool
)

var checkCmd = &cobra.Command{
	Use:   "check [SPEC] [FILE...]",
	Short: "Check YAML or JSON documents against a spec",
	Long: "Check every document of every FILE against SPEC. A FILE of - reads stdin;\n" +
		"with no FILE and no --value, stdin is read. Multi-document streams (---) are\n" +
		"checked document by document, each with its own fresh bindings.\n\n" +
		"With --name or --pick the spec comes from the library and every argument is a FILE.\n" +
		"The exit status is 1 if any document failed.",
	Example: "  " + appName + " check 'list[N](list[N](number))' matrix.yml\n" +
		"  " + appName + " check --value '[1, 2, 3]' 'list(int,>0)'\n" +
		"  " + appName + " check -s size=3 'list[!size]' data.yml\n" +
		"  " + appName + " check --name matrix data.yml",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}
		c, files, err := resolveCheckContract(a, args)
		if err != nil {
			return err
		}
		sources, err := readSources(appFs, cmd.InOrStdin(), files, flagCheckValues)
		if err != nil {
			return err
		}
		ck := checker{
			contract: c,
			scope:    a.scope,
			out:      cmd.OutOrStdout(),
			bindings: flagCheckBindings || a.settings.Check.ShowBindings,
		}
		return ck.run(sources)
	},
}

func init() {
	checkCmd.Flags().StringVarP(&flagCheckName, "name", "n", "", "use the named spec from the library")
	checkCmd.Flags().BoolVar(&flagCheckPick, "pick", false, "choose a library spec interactively")
	checkCmd.Flags().StringArrayVar(&flagCheckValues, "value", nil, "inline YAML value to check (repeatable)")
	checkCmd.Flags().BoolVar(&flagCheckBindings, "bindings", false, "print the variable bindings of documents that pass")
	checkCmd.MarkFlagsMutuallyExclusive("name", "pick")
	_ = checkCmd.RegisterFlagCompletionFunc("name", completeSpecNames)
}

// resolveCheckContract picks the contract from --name, --pick or the first
// argument, and returns the remaining arguments as files.
func resolveCheckContract(a *app, args []string) (contract.Contract, []string, error) {
	if flagCheckName != "" || flagCheckPick {
		l, err := a.library()
		if err != nil {
			return nil, nil, err
		}
		name := flagCheckName
		if flagCheckPick {
			if name, err = pickSpec(l); err != nil {
				return nil, nil, err
			}
		}
		e, err := l.Lookup(name)
		if err != nil {
			return nil, nil, err
		}
		return e.Contract, args, nil
	}
	if len(args) == 0 {
		return nil, nil, fmt.Errorf("missing SPEC (or use --name / --pick)")
	}
	c, err := a.parse(args[0])
	if err != nil {
		return nil, nil, err
	}
	return c, args[1:], nil
}

// source is one input with its decoded documents.
type source struct {
	name string
	docs []any
}

func readSources(fsys afero.Fs, stdin io.Reader, files, values []string) ([]source, error) {
	var out []source
	for i, v := range values {
		doc, err := valueyaml.Decode([]byte(v))
		if err != nil {
			return nil, fmt.Errorf("--value #%d: %w", i+1, err)
		}
		out = append(out, source{name: fmt.Sprintf("value#%d", i+1), docs: []any{doc}})
	}
	if len(files) == 0 && len(values) == 0 {
		files = []string{"-"}
	}
	for _, f := range files {
		var data []byte
		var err error
		if f == "-" {
			data, err = io.ReadAll(stdin)
		} else {
			data, err = afero.ReadFile(fsys, f)
		}
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", f, err)
		}
		docs, err := valueyaml.DecodeAll(data)
		if err != nil {
			return nil, fmt.Errorf("file=%s %w", displayName(f), err)
		}
		out = append(out, source{name: displayName(f), docs: docs})
	}
	return out, nil
}

func displayName(f string) string {
	if f == "-" {
		return "<stdin>"
	}
	return f
}

// checker checks every document of every source and reports one line each.
type checker struct {
	contract contract.Contract
	scope    contract.Context
	out      io.Writer
	bindings bool
}

// run returns the aggregated failures, or nil when every document passed.
func (ck checker) run(sources []source) error {
	var failures *multierror.Error
	total, failed := 0, 0
	for _, src := range sources {
		for i, doc := range src.docs {
			total++
			label := src.name
			if len(src.docs) > 1 {
				label = fmt.Sprintf("%s#%d", src.name, i+1)
			}
			ctx, err := contract.CheckContext(ck.contract, doc, ck.scope)
			if err != nil {
				failed++
				fmt.Fprintf(ck.out, "FAIL %s\n", label)
				failures = multierror.Append(failures, errors.Wrapf(err, "%s", label))
				continue
			}
			fmt.Fprintf(ck.out, "ok   %s\n", label)
			if ck.bindings {
				ck.printBindings(ctx)
			}
		}
	}
	log.Debug().Stringer("contract", ck.contract).Int("documents", total).Int("failed", failed).Msg("check done")
	if failed > 0 {
		fmt.Fprintf(ck.out, "%d of %d documents failed %s\n", failed, total, ck.contract)
	}
	return failures.ErrorOrNil()
}

func (ck checker) printBindings(ctx contract.Context) {
	for _, sym := range ctx.Symbols() {
		if _, scoped := ck.scope[sym]; scoped {
			continue
		}
		fmt.Fprintf(ck.out, "     %s = %s\n", sym, contract.Describe(ctx[sym]))
	}
}
