package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hassan/astinterp/internal/ast"
	"github.com/hassan/astinterp/internal/command"
	"github.com/hassan/astinterp/internal/compactast"
	"github.com/hassan/astinterp/internal/interp"
)

// newRunCmd decodes a program (CompactAST bytes, or its JSON mirror with
// --json) and runs it to completion, printing one JSON line per emitted
// Command to stdout (spec §4.3, §4.4). External-data requests
// (digitalRead/analogRead/millis/micros/library methods) are answered
// synchronously with a fixed canned value, since a CLI demo has no live
// hardware or host application behind it — see --answer.
func newRunCmd() *cobra.Command {
	var (
		useJSON      bool
		maxLoop      int
		innerLoopCap int
		verbose      bool
		answer       int64
	)
	cmd := &cobra.Command{
		Use:   "run [program]",
		Short: "Run a CompactAST program through the interpreter",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(args)
			if err != nil {
				return err
			}

			root, err := decodeProgram(data, useJSON)
			if err != nil {
				return err
			}
			program, ok := root.(*ast.ProgramNode)
			if !ok {
				return fmt.Errorf("asthost: decoded root is a %s, not a Program", root.Type())
			}

			enc := json.NewEncoder(os.Stdout)
			listener := command.ListenerFunc(func(c command.Command) {
				_ = enc.Encode(c)
			})

			it := interp.New(program, listener, interp.Options{
				MaxLoopIterations: maxLoop,
				InnerLoopCap:      innerLoopCap,
				Verbose:           verbose,
				Synchronous:       true,
				ResponseHandler: func(operation string, payload interface{}) interp.Value {
					return interp.Int64Value(answer)
				},
			})
			it.Start()
			it.Wait()

			if it.GetState() == interp.StateError {
				return fmt.Errorf("asthost: program ended in an error state")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&useJSON, "json", false, "input is the JSON GenericNode mirror, not CompactAST bytes")
	cmd.Flags().IntVar(&maxLoop, "max-loop-iterations", 3, "loop() iteration cap")
	cmd.Flags().IntVar(&innerLoopCap, "inner-loop-cap", 0, "inner-loop safety cap (default: matches max-loop-iterations)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable structured debug logging")
	cmd.Flags().Int64Var(&answer, "answer", 0, "canned value returned for every external-data request")
	return cmd
}

func decodeProgram(data []byte, useJSON bool) (ast.Node, error) {
	if !useJSON {
		return compactast.NewDecoder().Decode(data)
	}
	var nodes []compactast.GenericNode
	if err := json.Unmarshal(data, &nodes); err != nil {
		return nil, fmt.Errorf("asthost: parsing input JSON: %w", err)
	}
	return compactast.Link(nodes)
}
