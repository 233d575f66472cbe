package scoring

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/rotisserie/eris"

	"github.com/esgscope/esgscope/pkg/esg"
)

// Metric is the interface that all scoring components implement.
type Metric interface {
	// Key returns the machine-readable component identifier.
	Key() string
	// Name returns the human-readable component name.
	Name() string
	// Cap returns the most the component can contribute.
	Cap() float64
	// Evaluate computes the component's contribution from one pillar. An
	// error matching ErrNonFinite zeroes the component; any other error
	// fails the whole pillar.
	Evaluate(in Input) (MetricResult, error)
}

// Input is what a component sees: the sub-tree of a single pillar.
type Input struct {
	Pillar string
	Data   *esg.Group
}

// Path returns the document-level dotted path of a pillar-relative path.
func (in Input) Path(path []string) string {
	return in.Pillar + "." + pathString(path)
}

// Read returns the series at a pillar-relative path. A series holding
// non-finite values is an *InvalidSeriesError.
func (in Input) Read(path []string) (esg.MetricSeries, error) {
	s := in.Data.Series(path...)
	return s, checkFinite(in.Path(path), s)
}

// Pillar groups the components that score one top-level section.
type Pillar struct {
	Name    string
	Metrics []Metric
}

// Cap returns the sum of the component caps.
func (p Pillar) Cap() float64 {
	var sum float64
	for _, m := range p.Metrics {
		sum += m.Cap()
	}
	return sum
}

// Engine runs every configured pillar against a document and produces a Result.
type Engine struct {
	pillars []Pillar
}

// NewEngine creates a scoring engine with the given pillars.
func NewEngine(pillars ...Pillar) *Engine {
	return &Engine{pillars: pillars}
}

// Score evaluates all pillars. It never fails: a pillar whose computation
// breaks is reported as {0, N/A, N/A} and the others are unaffected. The
// total is the sum of the rounded pillar scores that were actually returned.
func (e *Engine) Score(doc *esg.Document) *Result {
	result := &Result{}

	var total int
	for _, p := range e.pillars {
		pr := scorePillar(p, doc)
		result.Pillars = append(result.Pillars, pr)
		total += pr.Score.Score
	}

	result.Total = graded(total)
	result.Hotspots = computeHotspots(result.Pillars)
	result.SuggestedActions = generateSuggestions(result.Pillars)

	return result
}

// Annotate returns a copy of doc carrying a freshly computed scores block.
func (e *Engine) Annotate(doc *esg.Document) *esg.Document {
	out := esg.NewDocument()
	if doc != nil {
		out = doc.Clone()
	}
	scores := e.Score(out).Scores()
	out.Scores = &scores
	return out
}

// scorePillar is the failure boundary for one pillar.
func scorePillar(p Pillar, doc *esg.Document) (pr PillarResult) {
	pr = PillarResult{Pillar: p.Name, Cap: p.Cap()}

	defer func() {
		if r := recover(); r != nil {
			pr = failedPillar(p, eris.Errorf("panic: %v", r))
		}
	}()

	// A pillar that is not a group has nothing to read and scores as empty.
	data := esg.NewGroup()
	if g, ok := doc.Lookup(p.Name).(*esg.Group); ok {
		data = g
	}
	in := Input{Pillar: p.Name, Data: data}

	var raw float64
	for _, m := range p.Metrics {
		mr, err := m.Evaluate(in)
		if err != nil {
			if !errors.Is(err, ErrNonFinite) {
				return failedPillar(p, eris.Wrapf(err, "%s", m.Key()))
			}
			mr = invalidResult(m, err)
		}
		pr.Breakdown = append(pr.Breakdown, mr)
		raw += mr.Contribution
	}

	if math.IsNaN(raw) || math.IsInf(raw, 0) {
		return failedPillar(p, ErrNonFinite)
	}

	pr.Raw = raw
	pr.Score = graded(int(math.Round(raw)))
	return pr
}

// invalidResult zeroes a component that read or produced a non-finite value.
func invalidResult(m Metric, err error) MetricResult {
	ev := EvidenceItem{Type: EvidenceInvalid, Summary: "non-finite intermediate"}
	var inv *InvalidSeriesError
	if errors.As(err, &inv) {
		ev.Path = inv.Path
		ev.Summary = inv.Path + " holds non-numeric values"
	}
	return MetricResult{
		Key:      m.Key(),
		Name:     m.Name(),
		Cap:      m.Cap(),
		Severity: SeverityHigh,
		Evidence: []EvidenceItem{ev},
	}
}

func failedPillar(p Pillar, err error) PillarResult {
	return PillarResult{
		Pillar: p.Name,
		Cap:    p.Cap(),
		Score:  degraded(),
		Error:  err.Error(),
	}
}

// computeHotspots finds series whose absence is reported by two or more
// components.
func computeHotspots(pillars []PillarResult) []Hotspot {
	type pathInfo struct {
		totalCap   float64
		metricKeys []string
	}
	paths := make(map[string]*pathInfo)

	for _, pr := range pillars {
		for _, mr := range pr.Breakdown {
			seen := make(map[string]bool)
			for _, ev := range mr.Evidence {
				if ev.Type != EvidenceMissing || ev.Path == "" || seen[ev.Path] {
					continue
				}
				seen[ev.Path] = true
				if _, ok := paths[ev.Path]; !ok {
					paths[ev.Path] = &pathInfo{}
				}
				paths[ev.Path].totalCap += mr.Cap
				paths[ev.Path].metricKeys = append(paths[ev.Path].metricKeys, mr.Key)
			}
		}
	}

	var hotspots []Hotspot
	for path, info := range paths {
		if len(info.metricKeys) < 2 {
			continue
		}
		hotspots = append(hotspots, Hotspot{
			Path:              path,
			Reason:            fmt.Sprintf("Missing for %d components: %v", len(info.metricKeys), info.metricKeys),
			ScoreContribution: info.totalCap,
			MetricKeys:        info.metricKeys,
		})
	}

	sort.Slice(hotspots, func(i, j int) bool {
		if hotspots[i].ScoreContribution != hotspots[j].ScoreContribution {
			return hotspots[i].ScoreContribution > hotspots[j].ScoreContribution
		}
		return hotspots[i].Path < hotspots[j].Path
	})

	if len(hotspots) > 10 {
		hotspots = hotspots[:10]
	}

	return hotspots
}

// generateSuggestions recommends fixing degraded pillars first, then
// repairing or disclosing the series behind components that earned nothing.
func generateSuggestions(pillars []PillarResult) []SuggestedAction {
	var actions []SuggestedAction

	for _, pr := range pillars {
		if pr.Score.Degraded() {
			actions = append(actions, SuggestedAction{
				Title:       fmt.Sprintf("Repair %s data", pr.Pillar),
				Description: fmt.Sprintf("The %s pillar could not be scored: %s.", pr.Pillar, pr.Error),
				Targets:     []string{pr.Pillar},
				Confidence:  0.9,
			})
		}
	}

	for _, pr := range pillars {
		for _, mr := range pr.Breakdown {
			if mr.Contribution > 0 {
				continue
			}
			var targets, invalid []string
			for _, ev := range mr.Evidence {
				switch {
				case ev.Type == EvidenceMissing:
					targets = append(targets, ev.Path)
				case ev.Type == EvidenceInvalid && ev.Path != "":
					invalid = append(invalid, ev.Path)
				}
			}
			if len(invalid) > 0 {
				actions = append(actions, SuggestedAction{
					Title:       fmt.Sprintf("Repair %s data", mr.Name),
					Description: fmt.Sprintf("%s earned 0 of %.0f points because an input series holds non-numeric values.", mr.Name, mr.Cap),
					Targets:     invalid,
					Confidence:  0.8,
					Addresses:   []string{mr.Key},
				})
				continue
			}
			if len(targets) == 0 {
				continue
			}
			actions = append(actions, SuggestedAction{
				Title:       fmt.Sprintf("Disclose %s data", mr.Name),
				Description: fmt.Sprintf("%s earned 0 of %.0f points because input series are empty.", mr.Name, mr.Cap),
				Targets:     targets,
				Confidence:  0.6,
				Addresses:   []string{mr.Key},
			})
		}
	}

	if len(actions) > 5 {
		actions = actions[:5]
	}

	return actions
}

var defaultEngine = NewEngine(DefaultPillars(Defaults())...)

// Score computes the scores block of doc with the default components.
func Score(doc *esg.Document) esg.Scores {
	return defaultEngine.Score(doc).Scores()
}

// Annotate returns a copy of doc carrying scores from the default components.
func Annotate(doc *esg.Document) *esg.Document {
	return defaultEngine.Annotate(doc)
}

// Default returns the engine behind Score and Annotate.
func Default() *Engine {
	return defaultEngine
}
