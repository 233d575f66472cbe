package main

import (
	"encoding/json"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/esgscope/esgscope/pkg/surface"
)

func newScoreCmd(configPath *string) *cobra.Command {
	var (
		outputFmt string
		annotate  bool
		sheet     string
	)

	cmd := &cobra.Command{
		Use:   "score <file>",
		Short: "Score a disclosure",
		Long: `Normalizes a disclosure, scores every pillar, and renders the report.
With --annotate the canonical document is printed with its scores block instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := loadEngine(*configPath)
			if err != nil {
				return err
			}
			doc, err := readDocument(args[0], sheet)
			if err != nil {
				return err
			}

			res := engine.Score(doc)
			logDegraded(args[0], res)

			if annotate {
				scores := res.Scores()
				doc.Scores = &scores
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return eris.Wrap(enc.Encode(doc), "encoding document")
			}

			renderer, ok := surface.ForFormat(outputFmt)
			if !ok {
				return eris.Errorf("unknown output format %q (want text or json)", outputFmt)
			}
			return renderer.Render(cmd.OutOrStdout(), surface.NewReport(args[0], doc, res))
		},
	}

	cmd.Flags().StringVar(&outputFmt, "output", "text", "Output format: text or json")
	cmd.Flags().BoolVar(&annotate, "annotate", false, "Print the canonical document with its scores block")
	cmd.Flags().StringVar(&sheet, "sheet", "", "Worksheet name for .xlsx input (default: first sheet)")

	return cmd
}
