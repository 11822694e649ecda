package extraction

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSkillExtractorSubstringAndFuzzy(t *testing.T) {
	e := NewSkillExtractor(0)

	got := e.Extract("Expert in Python and SQl", []string{"Python", "SQL"})

	assert.ElementsMatch(t, []string{"Python", "SQL"}, got)
}

func TestSkillExtractor(t *testing.T) {
	t.Parallel()

	vocabulary := []string{"Python", "Machine Learning", "SQL", "Data Science", "NLP", "Data Analysis"}

	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "case insensitive containment",
			text: "Built MACHINE LEARNING pipelines and nlp models",
			want: []string{"Machine Learning", "NLP"},
		},
		{
			name: "ocr noise and punctuation inside tokens",
			text: "Pyth0n developer, data-analysis reports",
			want: []string{"Python", "Data Analysis"},
		},
		{
			name: "no match",
			text: "Accountant with Excel background",
			want: []string{},
		},
		{
			name: "empty text",
			text: "",
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			e := NewSkillExtractor(DefaultFuzzyThreshold)
			assert.Equal(t, tt.want, e.Extract(tt.text, vocabulary))
		})
	}
}

func TestSkillExtractorDeduplicatesVocabulary(t *testing.T) {
	e := NewSkillExtractor(DefaultFuzzyThreshold)

	got := e.Extract("Go and Go again", []string{"Go", "Go", ""})

	assert.Equal(t, []string{"Go"}, got)
}

func TestSkillExtractorThresholdIsConfigurable(t *testing.T) {
	text := "Pythn scripting"

	assert.Empty(t, NewSkillExtractor(90).Extract(text, []string{"Python"}))
	assert.Equal(t, []string{"Python"}, NewSkillExtractor(80).Extract(text, []string{"Python"}))
}

func TestSimilarity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		a, b string
		want float64
	}{
		{"SQL", "SQl", 100},
		{"Python", "python,", 100},
		{"Python", "Pythn", 83},
		{"Python", "Pyth0n", 83},
		{"NLP", "help", 50},
		{"", "anything", 0},
		{"Go", "...", 0},
	}

	for _, tt := range tests {
		t.Run(tt.a+"/"+tt.b, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Similarity(tt.a, tt.b))
		})
	}
}
