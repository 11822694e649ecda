package extraction

import (
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// DefaultFuzzyThreshold is the minimum similarity (0-100) for a fuzzy skill hit.
const DefaultFuzzyThreshold = 80

// SkillExtractor matches document text against a skill vocabulary.
type SkillExtractor struct {
	threshold float64
}

// NewSkillExtractor returns an extractor with the given fuzzy threshold.
// Non-positive values fall back to DefaultFuzzyThreshold.
func NewSkillExtractor(threshold float64) *SkillExtractor {
	if threshold <= 0 {
		threshold = DefaultFuzzyThreshold
	}
	return &SkillExtractor{threshold: threshold}
}

// Extract returns the vocabulary entries mentioned in text, in vocabulary order
// and without duplicates.
func (e *SkillExtractor) Extract(text string, vocabulary []string) []string {
	lowered := strings.ToLower(text)
	tokens := strings.Fields(text)

	found := make([]string, 0)
	seen := make(map[string]struct{}, len(vocabulary))
	for _, skill := range vocabulary {
		if _, ok := seen[skill]; ok || strings.TrimSpace(skill) == "" {
			continue
		}

		if strings.Contains(lowered, strings.ToLower(skill)) || e.fuzzyHit(skill, tokens) {
			seen[skill] = struct{}{}
			found = append(found, skill)
		}
	}

	return found
}

func (e *SkillExtractor) fuzzyHit(skill string, tokens []string) bool {
	query := normalize(skill)
	if query == "" {
		return false
	}
	for _, token := range tokens {
		if Similarity(query, token) >= e.threshold {
			return true
		}
	}
	return false
}

// Similarity scores two strings on a 0-100 scale where 100 means equal after
// case folding and punctuation stripping.
func Similarity(a, b string) float64 {
	a, b = normalize(a), normalize(b)
	if a == "" || b == "" {
		return 0
	}

	longest := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	dist := levenshtein.ComputeDistance(a, b)

	return math.Round(100 * (1 - float64(dist)/float64(longest)))
}

func normalize(s string) string {
	mapped := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		return ' '
	}, s)
	return strings.Join(strings.Fields(mapped), " ")
}
