package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/hassan/astinterp/internal/compactast"
)

// newDecodeCmd turns CompactAST binary bytes back into their JSON mirror
// (compactast.GenericNode array), for inspection or round-tripping through
// `encode` (spec §4.2.2, §6.1).
func newDecodeCmd() *cobra.Command {
	var outPath string
	cmd := &cobra.Command{
		Use:   "decode [input.ast]",
		Short: "Decode CompactAST binary bytes into a JSON AST tree",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(args)
			if err != nil {
				return err
			}

			root, err := compactast.NewDecoder().Decode(data)
			if err != nil {
				return fmt.Errorf("asthost: decoding: %w", err)
			}

			out, err := json.MarshalIndent(compactast.Flatten(root), "", "  ")
			if err != nil {
				return fmt.Errorf("asthost: marshaling JSON: %w", err)
			}
			out = append(out, '\n')

			return writeOutput(outPath, out)
		},
	}
	cmd.Flags().StringVarP(&outPath, "output", "o", "", "output file (default stdout)")
	return cmd
}

func readAll(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("asthost: reading input: %w", err)
	}
	return data, nil
}
