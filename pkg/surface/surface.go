// Package surface defines output rendering interfaces for esgscope results.
// Implementations handle different output targets: terminal and JSON.
package surface

import (
	"io"

	"github.com/esgscope/esgscope/pkg/esg"
	"github.com/esgscope/esgscope/pkg/scoring"
)

// Renderer produces formatted output from a Report.
type Renderer interface {
	// Render writes the formatted report to the writer.
	Render(w io.Writer, report *Report) error
}

// Report is one scored document as shown to a user.
type Report struct {
	Source string          `json:"source,omitempty"`
	Scores esg.Scores      `json:"scores"`
	Result *scoring.Result `json:"result"`
	Issues []esg.Issue     `json:"issues,omitempty"`
}

// NewReport bundles a scoring result with the document's structural issues.
func NewReport(source string, doc *esg.Document, result *scoring.Result) *Report {
	return &Report{
		Source: source,
		Scores: result.Scores(),
		Result: result,
		Issues: doc.Issues(),
	}
}

// ForFormat returns the renderer for "text" or "json".
func ForFormat(format string) (Renderer, bool) {
	switch format {
	case "text", "":
		return &TerminalRenderer{}, true
	case "json":
		return &JSONRenderer{}, true
	default:
		return nil, false
	}
}
