// Package scoring computes candidate match scores and ranks candidates.
package scoring

import (
	"github.com/spigell/cv-ranker/internal/candidate"
)

// Skill fit dominates; meeting the experience minimum is a flat bonus.
const (
	skillWeight      = 0.7
	experienceWeight = 0.3
)

// SkillMatch is the share of required skills the candidate has.
// An empty requirement scores 0.
func SkillMatch(skills, required []string) float64 {
	if len(required) == 0 {
		return 0
	}

	have := make(map[string]struct{}, len(skills))
	for _, s := range skills {
		have[s] = struct{}{}
	}

	want := make(map[string]struct{}, len(required))
	matched := 0
	for _, r := range required {
		if _, dup := want[r]; dup {
			continue
		}
		want[r] = struct{}{}
		if _, ok := have[r]; ok {
			matched++
		}
	}

	return float64(matched) / float64(len(want))
}

// ExperienceMatch is 1 when the minimum is met and 0 otherwise.
func ExperienceMatch(years, minimum float64) float64 {
	if years >= minimum {
		return 1
	}
	return 0
}

// Score combines skill and experience fit into a value in [0,1].
func Score(p *candidate.Profile, job *candidate.JobRequirement) float64 {
	if p == nil || job == nil {
		return 0
	}

	score := skillWeight*SkillMatch(p.Skills, job.RequiredSkills) +
		experienceWeight*ExperienceMatch(p.ExperienceYears, job.MinExperienceYears)

	if score > 1 {
		score = 1
	}
	if score < 0 {
		score = 0
	}

	return score
}
