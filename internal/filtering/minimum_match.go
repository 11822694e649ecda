package filtering

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spigell/cv-ranker/internal/candidate"
)

type minimumMatchFilter struct {
	disabled bool
	reason   string
	percent  float64
}

// NewMinimumMatch creates a filter that drops candidates whose match score,
// as a percentage, is below the configured minimum.
func NewMinimumMatch() Filter {
	return &minimumMatchFilter{}
}

func (f *minimumMatchFilter) Name() string { return "minimum_match" }

func (f *minimumMatchFilter) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *minimumMatchFilter) IsEnabled() bool { return !f.disabled }

func (f *minimumMatchFilter) Validate(cfg *Config) error {
	f.percent = 0
	if cfg != nil {
		f.percent = cfg.MinimumMatch
	}
	if f.percent < 0 || f.percent > 100 {
		return fmt.Errorf("minimum match must be within [0, 100], got %.2f", f.percent)
	}
	return nil
}

func (f *minimumMatchFilter) Apply(_ context.Context, deps Deps, c *candidate.Candidates) (*candidate.Candidates, Step, error) {
	initial := c.Len()
	if f.percent == 0 {
		return c, Step{Initial: initial, Dropped: 0, Left: c.Len()}, nil
	}

	threshold := f.percent / 100
	removed := c.Retain(func(p *candidate.Profile) bool {
		return p.MatchScore >= threshold
	})
	if deps.Logger != nil && len(removed) > 0 {
		deps.Logger.Info("excluding candidates below minimum match",
			zap.Float64("minimum_match", f.percent),
			zap.Strings("excluded_candidates", removed),
			zap.Int("candidates_left", c.Len()),
		)
	}

	return c, Step{Initial: initial, Dropped: len(removed), Left: c.Len()}, nil
}

func (f *minimumMatchFilter) Status() Status {
	return Status{
		Name:    f.Name(),
		Enabled: f.IsEnabled(),
		Reason:  f.reason,
		Details: map[string]string{"minimum_match": fmt.Sprintf("%.0f%%", f.percent)},
	}
}
