package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hassan/astinterp/internal/compactast"
)

// newEncodeCmd turns a JSON-encoded GenericNode array (see
// compactast.GenericNode) into CompactAST bytes (spec §4.2.1, §6.1).
func newEncodeCmd() *cobra.Command {
	var outPath string
	cmd := &cobra.Command{
		Use:   "encode [input.json]",
		Short: "Encode a JSON AST tree into CompactAST binary bytes",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(args)
			if err != nil {
				return err
			}

			var nodes []compactast.GenericNode
			if err := json.Unmarshal(data, &nodes); err != nil {
				return fmt.Errorf("asthost: parsing input JSON: %w", err)
			}

			root, err := compactast.Link(nodes)
			if err != nil {
				return fmt.Errorf("asthost: linking JSON tree: %w", err)
			}

			out, err := compactast.NewEncoder().Encode(root)
			if err != nil {
				return fmt.Errorf("asthost: encoding: %w", err)
			}

			return writeOutput(outPath, out)
		},
	}
	cmd.Flags().StringVarP(&outPath, "output", "o", "", "output file (default stdout)")
	return cmd
}

func readInput(args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		return readAll(os.Stdin)
	}
	return os.ReadFile(args[0])
}

func writeOutput(path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
