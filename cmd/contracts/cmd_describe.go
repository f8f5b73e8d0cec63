package main

import (
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/TRT-MichaelO/contracts/pkg/contract"
	"github.com/spf13/cobra"
)

var flagDescribeTree bool

var describeCmd = &cobra.Command{
	Use:   "describe SPEC",
	Short: "Print the canonical form of a spec",
	Long: "Parse SPEC and print it back in canonical form. With --tree, print every\n" +
		"node with the line:col it was parsed from.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}
		c, err := a.parse(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), c)
		if flagDescribeTree {
			printTree(cmd.OutOrStdout(), c)
		}
		return nil
	},
}

func init() {
	describeCmd.Flags().BoolVar(&flagDescribeTree, "tree", false, "print the node tree with provenance")
}

// printTree writes one line per node, indented by depth.
func printTree(w io.Writer, c contract.Contract) {
	contract.Walk(c, func(n contract.Contract, depth int) {
		fmt.Fprintf(w, "%s%-*s %s @ %s\n",
			strings.Repeat("  ", depth), 10, nodeType(n), n, n.Where())
	})
}

func nodeType(n contract.Node) string {
	t := reflect.TypeOf(n)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Name()
}
