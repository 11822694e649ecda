package scoring

import (
	"slices"

	"github.com/spigell/cv-ranker/internal/candidate"
)

// DefaultLimit is how many candidates a ranking keeps.
const DefaultLimit = 5

// Rank orders profiles by MatchScore, highest first, and keeps at most limit of
// them. Equal scores keep their input order. The input slice is not modified.
// A non-positive limit means DefaultLimit.
func Rank(profiles []*candidate.Profile, limit int) []*candidate.Profile {
	if limit <= 0 {
		limit = DefaultLimit
	}

	ranked := slices.Clone(profiles)
	slices.SortStableFunc(ranked, func(a, b *candidate.Profile) int {
		switch {
		case a.MatchScore > b.MatchScore:
			return -1
		case a.MatchScore < b.MatchScore:
			return 1
		default:
			return 0
		}
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	return ranked
}
