package main

import (
	"encoding/json"
	"fmt"
	"runtime"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/esgscope/esgscope/internal/ledger"
	"github.com/esgscope/esgscope/pkg/esg"
	"github.com/esgscope/esgscope/pkg/scoring"
)

func newRankCmd(configPath *string) *cobra.Command {
	var (
		pillar    string
		outputFmt string
		limit     int
		workers   int
	)

	cmd := &cobra.Command{
		Use:   "rank <file>...",
		Short: "Rank disclosures against each other",
		Long: `Scores every file concurrently and prints a peer ranking. Each file stands
for one organization, named after the file.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch pillar {
			case "total", esg.PillarEnvironmental, esg.PillarSocial, esg.PillarGovernance:
			default:
				return eris.Errorf("unknown pillar %q", pillar)
			}

			engine, err := loadEngine(*configPath)
			if err != nil {
				return err
			}

			entries, err := scoreFiles(cmd, engine, args, workers)
			if err != nil {
				return err
			}
			ranked := ledger.Rank(entries, ledger.RankingQuery{Pillar: pillar, Limit: limit})

			if outputFmt == "json" {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return eris.Wrap(enc.Encode(ranked), "encoding ranking")
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "RANK\tSCORE\tGRADE\tORGANIZATION\tSOURCE")
			for _, r := range ranked {
				ps := r.Entry.Scores.ByPillar(pillar)
				fmt.Fprintf(tw, "%d\t%d\t%s\t%s\t%s\n", r.Rank, r.Score, ps.Grade, r.Entry.Organization, r.Entry.Source)
			}
			return eris.Wrap(tw.Flush(), "writing ranking")
		},
	}

	cmd.Flags().StringVar(&pillar, "pillar", "total", "Rank by: total, environmental, social or governance")
	cmd.Flags().StringVar(&outputFmt, "output", "text", "Output format: text or json")
	cmd.Flags().IntVar(&limit, "limit", 0, "Show only the top N (0 for all)")
	cmd.Flags().IntVar(&workers, "workers", runtime.NumCPU(), "Files scored in parallel")

	return cmd
}

// scoreFiles scores every path concurrently. Results keep argument order.
func scoreFiles(cmd *cobra.Command, engine *scoring.Engine, paths []string, workers int) ([]ledger.Entry, error) {
	entries := make([]ledger.Entry, len(paths))

	g, ctx := errgroup.WithContext(cmd.Context())
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			doc, err := readDocument(path, "")
			if err != nil {
				return err
			}
			res := engine.Score(doc)
			logDegraded(path, res)
			entries[i] = ledger.Entry{
				Organization: displayName(path),
				Source:       path,
				Scores:       res.Scores(),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	seen := make(map[string]string, len(entries))
	for _, e := range entries {
		if prev, ok := seen[e.Organization]; ok {
			return nil, eris.Errorf("%s and %s both rank as %q; rename one", prev, e.Source, e.Organization)
		}
		seen[e.Organization] = e.Source
	}
	return entries, nil
}
