package esg

import (
	"encoding/json"
	"fmt"

	"github.com/rotisserie/eris"
)

// Document is a canonical disclosure tree, optionally annotated with scores.
// Documents are plain values: callers own them and nothing in this module
// keeps a reference after returning one.
type Document struct {
	Root   *Group
	Scores *Scores
}

// NewDocument returns a document holding an empty canonical template.
func NewDocument() *Document {
	return &Document{Root: Template()}
}

// Pillar returns the sub-tree for a pillar, or an empty group when the pillar
// is missing or is not a group.
func (d *Document) Pillar(name string) *Group {
	if d == nil {
		return NewGroup()
	}
	return d.Root.Group(name)
}

// Lookup returns the node at path, or nil.
func (d *Document) Lookup(path ...string) Node {
	if d == nil {
		return nil
	}
	return d.Root.Lookup(path...)
}

// Series returns the series at path, or an empty series.
func (d *Document) Series(path ...string) MetricSeries {
	if d == nil {
		return EmptySeries()
	}
	return d.Root.Series(path...)
}

// Clone returns a deep copy.
func (d *Document) Clone() *Document {
	out := &Document{Root: NewGroup()}
	if d.Root != nil {
		out.Root = d.Root.clone().(*Group)
	}
	if d.Scores != nil {
		s := *d.Scores
		out.Scores = &s
	}
	return out
}

// Map returns the document as plain maps and slices, ready for re-encoding
// or for feeding back into Normalize.
func (d *Document) Map() map[string]any {
	m := map[string]any{}
	if d.Root != nil {
		m = d.Root.raw().(map[string]any)
	}
	if d.Scores != nil {
		m[scoresKey] = d.Scores.raw()
	}
	return m
}

func (s Scores) raw() map[string]any {
	return map[string]any{
		"environmental":     s.Environmental.Score,
		"social":            s.Social.Score,
		"governance":        s.Governance.Score,
		"total":             s.Total.Score,
		"environment_score": s.Environmental.Score,
		"environment_grade": string(s.Environmental.Grade),
		"environment_level": string(s.Environmental.Level),
		"social_score":      s.Social.Score,
		"social_grade":      string(s.Social.Grade),
		"social_level":      string(s.Social.Level),
		"governance_score":  s.Governance.Score,
		"governance_grade":  string(s.Governance.Grade),
		"governance_level":  string(s.Governance.Level),
		"total_score":       s.Total.Score,
		"total_grade":       string(s.Total.Grade),
		"total_level":       string(s.Total.Level),
	}
}

// MarshalJSON encodes the document tree with its scores block, if any.
func (d *Document) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Map())
}

// UnmarshalJSON normalizes the decoded tree and restores a stored scores block.
func (d *Document) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	doc := Normalize(raw)
	if s, ok := raw[scoresKey]; ok && s != nil {
		b, err := json.Marshal(s)
		if err != nil {
			return err
		}
		var scores Scores
		if err := json.Unmarshal(b, &scores); err != nil {
			return eris.Wrap(err, "decoding scores")
		}
		doc.Scores = &scores
	}
	*d = *doc
	return nil
}

// Issue describes one structural inconsistency in a document.
type Issue struct {
	Path    string `json:"path"`
	Problem string `json:"problem"`
}

// Issues lists the structural inconsistencies the normalizer carried through
// without repair: pillars that are not groups, leaves whose years and values
// do not line up, years that do not ascend, and non-numeric values.
func (d *Document) Issues() []Issue {
	var issues []Issue
	for _, p := range Pillars {
		n := d.Lookup(p)
		if n == nil || n.Kind() != KindGroup {
			issues = append(issues, Issue{Path: p, Problem: "pillar is not a group"})
		}
	}
	if d == nil || d.Root == nil {
		return issues
	}
	d.Root.Walk(func(path string, s MetricSeries) {
		if len(s.Years) != len(s.Values) {
			issues = append(issues, Issue{
				Path:    path,
				Problem: fmt.Sprintf("%d years but %d values", len(s.Years), len(s.Values)),
			})
		} else if !s.Consistent() {
			issues = append(issues, Issue{Path: path, Problem: "years are not strictly ascending"})
		}
		if !s.Finite() {
			issues = append(issues, Issue{Path: path, Problem: "non-numeric values"})
		}
	})
	return issues
}
