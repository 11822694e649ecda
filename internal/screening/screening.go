// Package screening turns a batch of resume documents into a ranked candidate list.
package screening

import (
	"context"
	"fmt"
	"slices"

	"github.com/spigell/cv-ranker/internal/candidate"
	"github.com/spigell/cv-ranker/internal/document"
	"github.com/spigell/cv-ranker/internal/extraction"
	"github.com/spigell/cv-ranker/internal/filtering"
	"github.com/spigell/cv-ranker/internal/logger"
	"github.com/spigell/cv-ranker/internal/scoring"
	"github.com/spigell/cv-ranker/internal/source"
	"github.com/spigell/cv-ranker/internal/utils"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultWorkers bounds how many documents are processed at once.
const DefaultWorkers = 4

// DocumentLoader fetches a document by reference.
type DocumentLoader interface {
	Load(ctx context.Context, ref string) (*source.Document, error)
}

// Options tunes a Screener.
type Options struct {
	Workers int
	Limit   int
	// Filters configures the PreRank steps.
	Filters *filtering.Config
}

// Deps aggregates the Screener collaborators.
type Deps struct {
	Loader    DocumentLoader
	Converter document.Converter
	Extractor *extraction.Extractor
	// PreRank steps narrow the full candidate pool before the top K is cut,
	// e.g. dropping candidates already reviewed in an earlier run.
	PreRank []filtering.Filter
	Logger  *zap.Logger
}

// Report is the result of a screening run.
type Report struct {
	// All holds every processed candidate in input order.
	All []*candidate.Profile
	// Ranked holds the top candidates, best first.
	Ranked             *candidate.Candidates
	Total              int
	ConversionFailures int
	// Excluded counts candidates removed by the PreRank steps.
	Excluded int
}

type Screener struct {
	loader    DocumentLoader
	converter document.Converter
	extractor *extraction.Extractor
	preRank   []filtering.Filter
	filters   *filtering.Config
	workers   int
	limit     int
	logger    *zap.Logger
}

func New(opts Options, deps Deps) *Screener {
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers
	}
	if opts.Limit <= 0 {
		opts.Limit = scoring.DefaultLimit
	}
	if deps.Converter == nil {
		deps.Converter = document.NewTextConverter()
	}
	if deps.Extractor == nil {
		deps.Extractor = extraction.New(nil, extraction.Deps{Logger: deps.Logger})
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	return &Screener{
		loader:    deps.Loader,
		converter: deps.Converter,
		extractor: deps.Extractor,
		preRank:   deps.PreRank,
		filters:   opts.Filters,
		workers:   opts.Workers,
		limit:     opts.Limit,
		logger:    deps.Logger,
	}
}

// Screen loads every reference and ranks the resulting candidates. A document
// that cannot be fetched or converted still yields a (mostly empty) candidate;
// only context cancellation and an invalid job abort the run.
func (s *Screener) Screen(ctx context.Context, refs []string, job *candidate.JobRequirement, vocabulary []string) (*Report, error) {
	if s.loader == nil {
		return nil, fmt.Errorf("screening %d references: no document loader configured", len(refs))
	}

	load := func(ctx context.Context, i int) (*source.Document, error) {
		return s.loader.Load(ctx, refs[i])
	}

	return s.run(ctx, refs, load, job, vocabulary)
}

// ScreenDocuments ranks documents that are already in memory.
func (s *Screener) ScreenDocuments(ctx context.Context, docs []*source.Document, job *candidate.JobRequirement, vocabulary []string) (*Report, error) {
	names := make([]string, len(docs))
	for i, doc := range docs {
		names[i] = doc.Name
	}

	load := func(_ context.Context, i int) (*source.Document, error) {
		return docs[i], nil
	}

	return s.run(ctx, names, load, job, vocabulary)
}

func (s *Screener) run(
	ctx context.Context,
	names []string,
	load func(context.Context, int) (*source.Document, error),
	job *candidate.JobRequirement,
	vocabulary []string,
) (*Report, error) {
	if job == nil {
		return nil, fmt.Errorf("job requirement is not set")
	}
	if err := job.Validate(); err != nil {
		return nil, fmt.Errorf("invalid job requirement: %w", err)
	}

	profiles := make([]*candidate.Profile, len(names))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for i := range names {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}

			doc, err := load(gCtx, i)
			if err != nil {
				if ctxErr := gCtx.Err(); ctxErr != nil {
					return ctxErr
				}
				s.logger.Warn("loading document failed",
					zap.String(logger.FieldSource, names[i]),
					zap.Error(err),
				)
				doc = &source.Document{Name: names[i]}
				profiles[i] = s.process(gCtx, doc, document.Outcome{Format: document.FormatUnknown, Err: err}, job, vocabulary)
				return nil
			}

			outcome := s.converter.Convert(gCtx, doc.Name, doc.Data)
			profiles[i] = s.process(gCtx, doc, outcome, job, vocabulary)
			return gCtx.Err()
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("screening interrupted: %w", err)
	}

	pool, err := filtering.Run(ctx, s.filters, filtering.Deps{Logger: s.logger}, s.preRank,
		&candidate.Candidates{Items: slices.Clone(profiles)})
	if err != nil {
		return nil, fmt.Errorf("filtering candidates before ranking: %w", err)
	}

	report := &Report{
		All:      profiles,
		Ranked:   &candidate.Candidates{Items: scoring.Rank(pool.Items, s.limit)},
		Total:    len(profiles),
		Excluded: len(profiles) - pool.Len(),
	}
	for _, p := range profiles {
		if p.ConversionError != "" {
			report.ConversionFailures++
		}
	}

	s.logger.Info("screening finished",
		zap.Int("documents", report.Total),
		zap.Int("conversion_failures", report.ConversionFailures),
		zap.Int("excluded", report.Excluded),
		zap.Int("ranked", report.Ranked.Len()),
	)

	return report, nil
}

// process extracts and scores a single candidate.
func (s *Screener) process(ctx context.Context, doc *source.Document, outcome document.Outcome, job *candidate.JobRequirement, vocabulary []string) *candidate.Profile {
	text := outcome.Text
	if !outcome.OK() {
		s.logger.Warn("document conversion failed, continuing with empty text",
			zap.String(logger.FieldSource, doc.Name),
			zap.String("format", string(outcome.Format)),
			zap.Error(outcome.Err),
		)
		text = ""
	}

	profile := s.extractor.Extract(ctx, text, vocabulary)
	profile.ID = candidateID(doc)
	profile.Source = doc.Name
	if !outcome.OK() {
		profile.ConversionError = outcome.Err.Error()
	}
	profile.MatchScore = scoring.Score(profile, job)

	logger.WithFields(s.logger, logger.CandidateFields(profile.ID, profile.Source)...).Debug("candidate scored",
		zap.String("name", profile.DisplayName()),
		zap.Strings("skills", profile.Skills),
		zap.Float64("experience_years", profile.ExperienceYears),
		zap.Float64("score", profile.MatchScore),
		zap.String("preview", utils.TruncateForLog(utils.OneLine(text), 120)),
	)

	return profile
}

// candidateID keys on content so a resume keeps its ID across renames.
// Documents without content fall back to their reference.
func candidateID(doc *source.Document) string {
	if len(doc.Data) == 0 {
		return candidate.NewID([]byte(doc.Name))
	}
	return candidate.NewID(doc.Data)
}
