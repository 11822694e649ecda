package extraction

import (
	"regexp"

	"github.com/spigell/cv-ranker/internal/candidate"
)

var (
	emailPattern = regexp.MustCompile(`[a-zA-Z0-9+_.-]+@[a-zA-Z0-9-]+(?:\.[a-zA-Z0-9-]+)+`)
	// At least ten characters: a digit, eight digits/spaces/hyphens, a digit.
	phonePattern = regexp.MustCompile(`\+?\d[\d \-]{8,}\d`)
)

// ExtractContact returns the first email and phone found in document order.
func ExtractContact(text string) candidate.ContactInfo {
	return candidate.ContactInfo{
		Email: firstMatch(emailPattern, text),
		Phone: firstMatch(phonePattern, text),
	}
}

func firstMatch(re *regexp.Regexp, text string) candidate.Field {
	if m := re.FindString(text); m != "" {
		return candidate.Found(m)
	}
	return candidate.Missing()
}
