package main

import (
	"encoding/json"
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/esgscope/esgscope/pkg/esg"
	"github.com/esgscope/esgscope/pkg/surface"
)

func newDiffCmd(configPath *string) *cobra.Command {
	var (
		outputFmt string
		unified   bool
		baseLabel string
		headLabel string
	)

	cmd := &cobra.Command{
		Use:   "diff <base> <head>",
		Short: "Compare two disclosures",
		Long: `Scores both disclosures and reports the score change and every series
whose latest value moved, followed by a unified diff of the canonical documents.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := loadEngine(*configPath)
			if err != nil {
				return err
			}

			base, err := readDocument(args[0], "")
			if err != nil {
				return err
			}
			head, err := readDocument(args[1], "")
			if err != nil {
				return err
			}
			base = engine.Annotate(base)
			head = engine.Annotate(head)

			delta := esg.ComputeDelta(base, head)
			out := cmd.OutOrStdout()

			switch outputFmt {
			case "json":
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return eris.Wrap(enc.Encode(delta), "encoding delta")
			case "text":
			default:
				return eris.Errorf("unknown output format %q (want text or json)", outputFmt)
			}

			if err := surface.RenderDelta(out, delta); err != nil {
				return err
			}
			if !unified {
				return nil
			}

			text, err := surface.UnifiedDiff(base, head,
				firstNonEmpty(baseLabel, args[0]), firstNonEmpty(headLabel, args[1]))
			if err != nil {
				return err
			}
			if text != "" {
				fmt.Fprintln(out)
				fmt.Fprint(out, text)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&outputFmt, "output", "text", "Output format: text or json")
	cmd.Flags().BoolVar(&unified, "unified", true, "Append a unified diff of the canonical documents")
	cmd.Flags().StringVar(&baseLabel, "base-label", "", "Label for the base document in the unified diff")
	cmd.Flags().StringVar(&headLabel, "head-label", "", "Label for the head document in the unified diff")

	return cmd
}
