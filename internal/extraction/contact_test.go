package extraction

import (
	"testing"

	"github.com/spigell/cv-ranker/internal/candidate"
	"github.com/stretchr/testify/assert"
)

func TestExtractContact(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		text  string
		email candidate.Field
		phone candidate.Field
	}{
		{
			name:  "email and phone",
			text:  "Reach me at jane.doe+cv@mail.example.com or +1 555-123-4567",
			email: candidate.Found("jane.doe+cv@mail.example.com"),
			phone: candidate.Found("+1 555-123-4567"),
		},
		{
			name:  "first match wins",
			text:  "a@one.org\nb@two.org\n0201234567 and 0309876543",
			email: candidate.Found("a@one.org"),
			phone: candidate.Found("0201234567"),
		},
		{
			name:  "domain without dot is not an email",
			text:  "ping me at john@localhost",
			email: candidate.Missing(),
			phone: candidate.Missing(),
		},
		{
			name:  "short numbers are not phones",
			text:  "Room 12-34, ext 5678",
			email: candidate.Missing(),
			phone: candidate.Missing(),
		},
		{
			name:  "empty",
			text:  "",
			email: candidate.Missing(),
			phone: candidate.Missing(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := ExtractContact(tt.text)
			assert.Equal(t, tt.email, got.Email)
			assert.Equal(t, tt.phone, got.Phone)
		})
	}
}
