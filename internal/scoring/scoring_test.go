package scoring

import (
	"testing"

	"github.com/spigell/cv-ranker/internal/candidate"
	"github.com/stretchr/testify/assert"
)

func TestScore(t *testing.T) {
	t.Parallel()

	job := &candidate.JobRequirement{
		RequiredSkills:     []string{"Python", "SQL", "NLP", "Machine Learning"},
		MinExperienceYears: 2,
	}

	tests := []struct {
		name    string
		profile *candidate.Profile
		want    float64
	}{
		{
			name:    "all skills and enough experience",
			profile: &candidate.Profile{Skills: []string{"Python", "SQL", "NLP", "Machine Learning"}, ExperienceYears: 5},
			want:    1,
		},
		{
			name:    "half skills without experience",
			profile: &candidate.Profile{Skills: []string{"Python", "SQL", "Data Science"}, ExperienceYears: 1.9},
			want:    0.35,
		},
		{
			name:    "experience exactly at minimum",
			profile: &candidate.Profile{ExperienceYears: 2},
			want:    0.3,
		},
		{
			name:    "nothing",
			profile: &candidate.Profile{},
			want:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.InDelta(t, tt.want, Score(tt.profile, job), 1e-9)
		})
	}
}

func TestScoreEmptyRequirementScoresZeroOnSkills(t *testing.T) {
	job := &candidate.JobRequirement{}
	p := &candidate.Profile{Skills: []string{"Python"}, ExperienceYears: 0}

	assert.InDelta(t, 0.3, Score(p, job), 1e-9)
	assert.Zero(t, SkillMatch(p.Skills, nil))
}

func TestSkillMatchIsCaseSensitive(t *testing.T) {
	assert.Zero(t, SkillMatch([]string{"python"}, []string{"Python"}))
}

func TestSkillMatchIgnoresDuplicateRequirements(t *testing.T) {
	assert.InDelta(t, 0.5, SkillMatch([]string{"Go"}, []string{"Go", "Go", "Rust"}), 1e-9)
}

func TestScoreMonotonicInSkillOverlap(t *testing.T) {
	required := []string{"A", "B", "C", "D", "E"}
	job := &candidate.JobRequirement{RequiredSkills: required, MinExperienceYears: 3}

	prev := -1.0
	for n := 0; n <= len(required); n++ {
		p := &candidate.Profile{Skills: required[:n], ExperienceYears: 1}
		got := Score(p, job)
		assert.GreaterOrEqual(t, got, prev)
		assert.GreaterOrEqual(t, got, 0.0)
		assert.LessOrEqual(t, got, 1.0)
		prev = got
	}
}

func TestScoreNilInputs(t *testing.T) {
	assert.Zero(t, Score(nil, &candidate.JobRequirement{}))
	assert.Zero(t, Score(&candidate.Profile{}, nil))
}
