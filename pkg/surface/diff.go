package surface

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/rotisserie/eris"

	"github.com/esgscope/esgscope/pkg/esg"
)

// UnifiedDiff renders the canonical JSON of two documents as a unified diff.
// Map keys are encoded in sorted order, so equal documents produce "".
func UnifiedDiff(base, head *esg.Document, fromName, toName string) (string, error) {
	a, err := json.MarshalIndent(base, "", "  ")
	if err != nil {
		return "", eris.Wrap(err, "marshal base document")
	}
	b, err := json.MarshalIndent(head, "", "  ")
	if err != nil {
		return "", eris.Wrap(err, "marshal head document")
	}

	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(a) + "\n"),
		B:        difflib.SplitLines(string(b) + "\n"),
		FromFile: fromName,
		ToFile:   toName,
		Context:  3,
	}
	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return "", eris.Wrap(err, "unified diff")
	}
	return text, nil
}

// RenderDelta writes a plain-text summary of a leaf-level delta.
func RenderDelta(w io.Writer, d *esg.Delta) error {
	if d.Scores != nil {
		fmt.Fprintln(w, "Score change:")
		fmt.Fprintf(w, "  environmental %+d\n", d.Scores.Environmental)
		fmt.Fprintf(w, "  social        %+d\n", d.Scores.Social)
		fmt.Fprintf(w, "  governance    %+d\n", d.Scores.Governance)
		fmt.Fprintf(w, "  total         %+d\n", d.Scores.Total)
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Series: %d added / %d removed / %d changed\n",
		d.Stats.AddedCount, d.Stats.RemovedCount, d.Stats.ChangedCount)
	for _, c := range d.Added {
		fmt.Fprintf(w, "  + %s = %g%s (%d)\n", c.Path, c.Head, unitSuffix(c.Unit), c.HeadYear)
	}
	for _, c := range d.Removed {
		fmt.Fprintf(w, "  - %s (was %g%s)\n", c.Path, c.Base, unitSuffix(c.Unit))
	}
	for _, c := range d.Changed {
		fmt.Fprintf(w, "  ~ %s %g -> %g%s (%d -> %d)\n", c.Path, c.Base, c.Head, unitSuffix(c.Unit), c.BaseYear, c.HeadYear)
	}
	return nil
}

func unitSuffix(unit string) string {
	if unit == "" {
		return ""
	}
	return " " + unit
}
