package surface

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/esgscope/esgscope/pkg/esg"
)

// TerminalRenderer renders a Report as colored terminal output.
type TerminalRenderer struct{}

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBold   = "\033[1m"
	colorDim    = "\033[2m"
)

func levelColor(level esg.Level) string {
	if noColor() {
		return ""
	}
	switch level {
	case esg.LevelHigh:
		return colorGreen
	case esg.LevelMedium:
		return colorYellow
	case esg.LevelLow:
		return colorRed
	default:
		return ""
	}
}

func noColor() bool {
	_, ok := os.LookupEnv("NO_COLOR")
	return ok
}

func bold(s string) string {
	if noColor() {
		return s
	}
	return colorBold + s + colorReset
}

func dim(s string) string {
	if noColor() {
		return s
	}
	return colorDim + s + colorReset
}

func colored(s, color string) string {
	if noColor() || color == "" {
		return s
	}
	return color + s + colorReset
}

var pillarTitles = map[string]string{
	esg.PillarEnvironmental: "Environmental",
	esg.PillarSocial:        "Social",
	esg.PillarGovernance:    "Governance",
}

func pillarTitle(name string) string {
	if t, ok := pillarTitles[name]; ok {
		return t
	}
	return name
}

func (r *TerminalRenderer) Render(w io.Writer, report *Report) error {
	res := report.Result
	if res == nil {
		return eris.New("surface: report has no result")
	}

	// Header
	title := "esgscope"
	if report.Source != "" {
		title += ": " + report.Source
	}
	fmt.Fprintf(w, "%s\n", bold(title))
	fmt.Fprintf(w, "Total: Grade %s, Score %d\n\n",
		colored(fmt.Sprintf("%s (%s)", res.Total.Grade, res.Total.Level), levelColor(res.Total.Level)),
		res.Total.Score)

	// Pillars
	fmt.Fprintln(w, "Pillars:")
	for _, p := range res.Pillars {
		badge := fmt.Sprintf("%-3s (%s)", p.Score.Grade, p.Score.Level)
		fmt.Fprintf(w, "  %-14s %4d / %-4.0f %s\n",
			pillarTitle(p.Pillar), p.Score.Score, p.Cap, colored(badge, levelColor(p.Score.Level)))
		if p.Error != "" {
			fmt.Fprintf(w, "    %s\n", dim("not scored: "+p.Error))
		}
	}
	fmt.Fprintln(w)

	// Findings: every component short of its cap
	hasFindings := false
	for _, p := range res.Pillars {
		for _, mr := range p.Breakdown {
			if mr.Contribution >= mr.Cap {
				continue
			}
			if !hasFindings {
				fmt.Fprintln(w, "Findings:")
				hasFindings = true
			}

			fmt.Fprintf(w, "  (%.1f/%.0f) %s", mr.Contribution, mr.Cap, bold(mr.Name))
			if len(mr.Evidence) > 0 {
				fmt.Fprintf(w, ": %s", mr.Evidence[0].Summary)
			}
			fmt.Fprintln(w)

			// Show additional evidence (up to 5 total)
			maxEvidence := 5
			if len(mr.Evidence) < maxEvidence {
				maxEvidence = len(mr.Evidence)
			}
			for i := 1; i < maxEvidence; i++ {
				fmt.Fprintf(w, "      %s\n", dim(mr.Evidence[i].Summary))
			}
			if len(mr.Evidence) > 5 {
				fmt.Fprintf(w, "      %s\n", dim(fmt.Sprintf("... and %d more", len(mr.Evidence)-5)))
			}
		}
	}

	if hasFindings {
		fmt.Fprintln(w)
	} else {
		fmt.Fprintln(w, "Every component is at its cap.")
		fmt.Fprintln(w)
	}

	// Hotspots
	if len(res.Hotspots) > 0 {
		fmt.Fprintln(w, "Hotspots:")
		for _, hs := range res.Hotspots {
			fmt.Fprintf(w, "  %s %s: %s\n",
				colored("●", colorRed), bold(hs.Path), hs.Reason)
		}
		fmt.Fprintln(w)
	}

	// Suggestions
	if len(res.SuggestedActions) > 0 {
		fmt.Fprintln(w, "Suggested actions:")
		for _, sa := range res.SuggestedActions {
			fmt.Fprintf(w, "  • %s\n", sa.Title)
			if sa.Description != "" {
				for _, line := range wrapText(sa.Description, 70) {
					fmt.Fprintf(w, "    %s\n", dim(line))
				}
			}
		}
		fmt.Fprintln(w)
	}

	// Structural issues carried through normalization
	if len(report.Issues) > 0 {
		fmt.Fprintln(w, "Data issues:")
		for _, is := range report.Issues {
			fmt.Fprintf(w, "  %s: %s\n", is.Path, is.Problem)
		}
		fmt.Fprintln(w)
	}

	return nil
}

// wrapText wraps a string at the given width, returning lines.
func wrapText(s string, width int) []string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return nil
	}

	var lines []string
	current := words[0]

	for _, word := range words[1:] {
		if len(current)+1+len(word) > width {
			lines = append(lines, current)
			current = word
		} else {
			current += " " + word
		}
	}
	lines = append(lines, current)
	return lines
}
