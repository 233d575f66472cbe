package ingestion

import (
	"bytes"
	"context"
	"encoding/json"
	"regexp"
	"strconv"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/esgscope/esgscope/internal/ledger"
	"github.com/esgscope/esgscope/pkg/esg"
	"github.com/esgscope/esgscope/pkg/scoring"
)

// ErrInvalidInput marks failures caused by the request rather than the service.
var ErrInvalidInput = eris.New("invalid input")

var orgPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]{0,127}$`)

// Request describes one uploaded disclosure.
type Request struct {
	Organization string
	Period       string // defaults to the latest year reported in the document
	Source       string // original file name, informational
	Format       esg.Format
	Body         []byte
}

// Result is what an ingestion produced.
type Result struct {
	Entry    *ledger.Entry
	Document *esg.Document // normalized and annotated with scores
	Score    *scoring.Result
	Issues   []esg.Issue
}

// Scorer abstracts the scoring engine so the ingestion package does not
// depend on a concrete configuration.
type Scorer interface {
	Score(doc *esg.Document) *scoring.Result
}

// Service orchestrates the ingestion pipeline.
type Service struct {
	storage StorageClient
	ledger  ledger.Ledger
	scorer  Scorer
	log     *zap.Logger
}

// NewService creates a new ingestion Service. A nil logger uses zap.L().
func NewService(storage StorageClient, l ledger.Ledger, scorer Scorer, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.L()
	}
	return &Service{
		storage: storage,
		ledger:  l,
		scorer:  scorer,
		log:     logger,
	}
}

// ValidateOrganization checks that org is usable as a storage path segment.
func ValidateOrganization(org string) error {
	if !orgPattern.MatchString(org) {
		return eris.Wrapf(ErrInvalidInput, "organization %q must match %s", org, orgPattern)
	}
	return nil
}

// Evaluate normalizes raw and scores it. The returned document carries the
// scores block.
func Evaluate(raw map[string]any, scorer Scorer) (*esg.Document, *scoring.Result) {
	doc := esg.Normalize(raw)
	res := scorer.Score(doc)
	scores := res.Scores()
	doc.Scores = &scores
	return doc, res
}

// Ingest runs the full pipeline for one upload.
func (s *Service) Ingest(ctx context.Context, req Request) (*Result, error) {
	if err := ValidateOrganization(req.Organization); err != nil {
		return nil, err
	}

	raw, err := esg.Decode(bytes.NewReader(req.Body), req.Format)
	if err != nil {
		return nil, eris.Wrapf(ErrInvalidInput, "decode %s body: %v", req.Format, err)
	}

	doc, res := Evaluate(raw, s.scorer)

	id := uuid.New().String()
	log := s.log.With(
		zap.String("report_id", id),
		zap.String("organization", req.Organization),
	)

	for _, p := range res.Pillars {
		if p.Error != "" {
			log.Warn("pillar degraded", zap.String("pillar", p.Pillar), zap.String("error", p.Error))
		}
	}
	for _, mr := range res.InvalidComponents() {
		log.Warn("component skipped non-numeric input", zap.String("component", mr.Key), zap.String("detail", mr.Evidence[0].Summary))
	}

	if err := s.storage.Put(ctx, req.Organization, KindRaw, id+"."+string(req.Format), req.Body); err != nil {
		return nil, eris.Wrap(err, "store raw upload")
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, eris.Wrap(err, "marshal document")
	}
	docName := id + ".json"
	if err := s.storage.Put(ctx, req.Organization, KindDocuments, docName, data); err != nil {
		return nil, eris.Wrap(err, "store document")
	}

	period := req.Period
	if period == "" {
		if y := latestYear(doc); y > 0 {
			period = strconv.Itoa(y)
		}
	}

	entry := &ledger.Entry{
		ID:           id,
		Organization: req.Organization,
		Period:       period,
		Source:       req.Source,
		StorageRef:   ObjectRef{Organization: req.Organization, Kind: KindDocuments, Name: docName}.Key(""),
		Scores:       *doc.Scores,
	}
	if err := s.ledger.Record(ctx, entry); err != nil {
		return nil, eris.Wrap(err, "record ledger entry")
	}

	log.Info("report ingested",
		zap.String("period", period),
		zap.Int("total_score", entry.Scores.Total.Score),
		zap.String("total_grade", string(entry.Scores.Total.Grade)),
	)

	return &Result{
		Entry:    entry,
		Document: doc,
		Score:    res,
		Issues:   doc.Issues(),
	}, nil
}

// Document loads a recorded report and its stored document.
func (s *Service) Document(ctx context.Context, id string) (*ledger.Entry, *esg.Document, error) {
	entry, err := s.ledger.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	data, err := s.storage.Get(ctx, entry.Organization, KindDocuments, entry.ID+".json")
	if err != nil {
		return nil, nil, eris.Wrapf(err, "load document %s", id)
	}

	var doc esg.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, nil, eris.Wrapf(err, "decode document %s", id)
	}
	return entry, &doc, nil
}

// Ledger exposes the service's ledger for read-only queries.
func (s *Service) Ledger() ledger.Ledger {
	return s.ledger
}

func latestYear(doc *esg.Document) int {
	latest := 0
	if doc == nil || doc.Root == nil {
		return latest
	}
	doc.Root.Walk(func(_ string, s esg.MetricSeries) {
		if y := s.LastYear(); y > latest {
			latest = y
		}
	})
	return latest
}
