package main

import (
	"encoding/json"
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/esgscope/esgscope/pkg/esg"
)

func newNormalizeCmd() *cobra.Command {
	var (
		outputPath string
		sheet      string
		issues     bool
	)

	cmd := &cobra.Command{
		Use:   "normalize <file>",
		Short: "Map a disclosure onto the canonical schema",
		Long: `Reads a .json, .yaml/.yml or .xlsx disclosure and writes the canonical
document as JSON. Already-canonical input is passed through unchanged.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := readDocument(args[0], sheet)
			if err != nil {
				return err
			}

			if issues {
				for _, is := range doc.Issues() {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", is.Path, is.Problem)
				}
			}

			if outputPath != "" {
				if err := esg.SaveDocument(outputPath, doc); err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", outputPath)
				return nil
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(doc); err != nil {
				return eris.Wrap(err, "encoding document")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write the document to this file instead of stdout")
	cmd.Flags().StringVar(&sheet, "sheet", "", "Worksheet name for .xlsx input (default: first sheet)")
	cmd.Flags().BoolVar(&issues, "issues", false, "Print structural issues to stderr")

	return cmd
}
