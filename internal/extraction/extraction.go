// Package extraction pulls candidate attributes out of raw resume text.
//
// Every extractor is best-effort: missing data yields a missing field, an empty
// skill list or zero years, never an error.
package extraction

import (
	"context"
	"time"

	"github.com/spigell/cv-ranker/internal/candidate"
	"github.com/spigell/cv-ranker/internal/tagger"
	"go.uber.org/zap"
)

// Config tunes the extractors.
type Config struct {
	FuzzyThreshold float64
	NameBlocklist  []string
}

// Deps aggregates collaborators shared by the extractors.
type Deps struct {
	Tagger tagger.Tagger
	Logger *zap.Logger
	Now    func() time.Time
}

// Extractor runs all extractors over the same text.
type Extractor struct {
	names      *NameExtractor
	skills     *SkillExtractor
	experience *ExperienceEstimator
}

func New(cfg *Config, deps Deps) *Extractor {
	if cfg == nil {
		cfg = &Config{}
	}

	return &Extractor{
		names:      NewNameExtractor(deps.Tagger, cfg.NameBlocklist, deps.Logger),
		skills:     NewSkillExtractor(cfg.FuzzyThreshold),
		experience: NewExperienceEstimator(deps.Now),
	}
}

// Extract builds an unscored profile from text.
func (x *Extractor) Extract(ctx context.Context, text string, vocabulary []string) *candidate.Profile {
	return &candidate.Profile{
		Name:            x.names.Extract(ctx, text),
		Contact:         ExtractContact(text),
		ExperienceYears: x.experience.Estimate(text),
		Skills:          x.skills.Extract(text, vocabulary),
	}
}
