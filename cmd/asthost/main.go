// Command asthost is a demo/host harness around the interpreter pipeline:
// it decodes CompactAST bytes (or a JSON mirror of the same tree, for
// inspection) into an in-memory AST and drives the interpreter over it,
// streaming the resulting Command Protocol events to stdout. It stands in
// for the teacher's own cmd/compiler demo entry point, which drove
// lex→parse→analyze→optimize over source text — this repository's core
// never parses source text (spec §1), so the new pipeline starts one step
// later, from an already-parsed tree.
//
// It is explicitly outside the specified CORE (spec §1 places CLIs outside
// the core boundary): nothing under internal/ imports this package.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "asthost",
		Short: "Host harness for the Arduino AST interpreter",
		Long: "asthost decodes CompactAST programs and runs them through the\n" +
			"interpreter, or converts between the binary wire format and its\n" +
			"JSON mirror for inspection.",
		SilenceUsage: true,
	}
	root.AddCommand(newRunCmd())
	root.AddCommand(newEncodeCmd())
	root.AddCommand(newDecodeCmd())
	return root
}
