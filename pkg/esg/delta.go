package esg

import (
	"math"
	"sort"

	"github.com/google/uuid"
)

// Delta is the leaf-level difference between two documents.
type Delta struct {
	ID      string       `json:"id"`
	Added   []LeafChange `json:"added,omitempty"`
	Removed []LeafChange `json:"removed,omitempty"`
	Changed []LeafChange `json:"changed,omitempty"`
	Scores  *ScoreDelta  `json:"scores,omitempty"`
	Stats   DeltaStats   `json:"stats"`
}

// LeafChange compares the most recent value of one leaf. A side without data
// has Has* set to false.
type LeafChange struct {
	Path     string  `json:"path"`
	Unit     string  `json:"unit,omitempty"`
	Base     float64 `json:"base"`
	Head     float64 `json:"head"`
	BaseYear int     `json:"base_year,omitempty"`
	HeadYear int     `json:"head_year,omitempty"`
	HasBase  bool    `json:"has_base"`
	HasHead  bool    `json:"has_head"`
}

// ScoreDelta is head minus base for each score.
type ScoreDelta struct {
	Environmental int `json:"environmental"`
	Social        int `json:"social"`
	Governance    int `json:"governance"`
	Total         int `json:"total"`
}

// DeltaStats summarizes a Delta.
type DeltaStats struct {
	AddedCount   int `json:"added_count"`
	RemovedCount int `json:"removed_count"`
	ChangedCount int `json:"changed_count"`
}

// ComputeDelta compares the last values of every leaf present in either
// document. A leaf that gains its first data point is added, one that loses
// all of them is removed, and one whose last value or year moved is changed.
// Score deltas are filled in only when both documents carry scores.
func ComputeDelta(base, head *Document) *Delta {
	delta := &Delta{ID: uuid.New().String()}

	baseLeaves := lastValues(base)
	headLeaves := lastValues(head)

	for _, path := range unionKeys(baseLeaves, headLeaves) {
		b, inBase := baseLeaves[path]
		h, inHead := headLeaves[path]
		c := LeafChange{Path: path, Unit: h.unit}
		if c.Unit == "" {
			c.Unit = b.unit
		}
		if inBase && b.ok {
			c.Base, c.BaseYear, c.HasBase = b.value, b.year, true
		}
		if inHead && h.ok {
			c.Head, c.HeadYear, c.HasHead = h.value, h.year, true
		}

		switch {
		case !c.HasBase && c.HasHead:
			delta.Added = append(delta.Added, c)
		case c.HasBase && !c.HasHead:
			delta.Removed = append(delta.Removed, c)
		case c.HasBase && c.HasHead && (!sameValue(c.Base, c.Head) || c.BaseYear != c.HeadYear):
			delta.Changed = append(delta.Changed, c)
		}
	}

	if base != nil && head != nil && base.Scores != nil && head.Scores != nil {
		delta.Scores = &ScoreDelta{
			Environmental: head.Scores.Environmental.Score - base.Scores.Environmental.Score,
			Social:        head.Scores.Social.Score - base.Scores.Social.Score,
			Governance:    head.Scores.Governance.Score - base.Scores.Governance.Score,
			Total:         head.Scores.Total.Score - base.Scores.Total.Score,
		}
	}

	delta.Stats = DeltaStats{
		AddedCount:   len(delta.Added),
		RemovedCount: len(delta.Removed),
		ChangedCount: len(delta.Changed),
	}

	return delta
}

type lastPoint struct {
	value float64
	year  int
	unit  string
	ok    bool
}

func lastValues(d *Document) map[string]lastPoint {
	out := make(map[string]lastPoint)
	if d == nil || d.Root == nil {
		return out
	}
	d.Root.Walk(func(path string, s MetricSeries) {
		v, ok := s.Last()
		out[path] = lastPoint{value: v, year: s.LastYear(), unit: s.Unit, ok: ok}
	})
	return out
}

func unionKeys(a, b map[string]lastPoint) []string {
	keys := make([]string, 0, len(a)+len(b))
	for k := range a {
		keys = append(keys, k)
	}
	for k := range b {
		if _, ok := a[k]; !ok {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

// sameValue treats two NaNs as equal so a carried-through defect is not
// reported as a change.
func sameValue(a, b float64) bool {
	if math.IsNaN(a) && math.IsNaN(b) {
		return true
	}
	return a == b
}
