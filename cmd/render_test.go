package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spigell/cv-ranker/internal/candidate"
)

func TestOrdinal(t *testing.T) {
	t.Parallel()

	tests := map[int]string{
		1:   "1st",
		2:   "2nd",
		3:   "3rd",
		4:   "4th",
		11:  "11th",
		12:  "12th",
		13:  "13th",
		21:  "21st",
		22:  "22nd",
		23:  "23rd",
		101: "101st",
		111: "111th",
		112: "112th",
	}

	for n, want := range tests {
		if got := ordinal(n); got != want {
			t.Fatalf("ordinal(%d) = %q, want %q", n, got, want)
		}
	}
}

func TestRenderTable(t *testing.T) {
	t.Parallel()

	c := &candidate.Candidates{Items: []*candidate.Profile{
		{
			ID:              "a",
			Name:            candidate.Found("Ama Owusu"),
			Contact:         candidate.ContactInfo{Email: candidate.Found("ama@example.com")},
			ExperienceYears: 4,
			Skills:          []string{"Python", "SQL"},
			MatchScore:      1,
		},
		{
			ID:         "b",
			MatchScore: 0.3,
		},
	}}

	var buf bytes.Buffer
	if err := renderTable(&buf, c); err != nil {
		t.Fatalf("render: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header and 2 rows, got %d:\n%s", len(lines), buf.String())
	}

	if !strings.HasPrefix(lines[0], "RANK") {
		t.Fatalf("unexpected header: %q", lines[0])
	}

	first := strings.Fields(lines[1])
	if first[0] != "1st" || first[1] != "Ama" || first[3] != "100%" || first[4] != "ama@example.com" {
		t.Fatalf("unexpected first row: %q", lines[1])
	}
	if !strings.Contains(lines[1], "Not found") || !strings.Contains(lines[1], "4.0 yrs") || !strings.Contains(lines[1], "Python, SQL") {
		t.Fatalf("unexpected first row: %q", lines[1])
	}

	second := lines[2]
	for _, want := range []string{"2nd", candidate.UnknownName, "30%", "0.0 yrs"} {
		if !strings.Contains(second, want) {
			t.Fatalf("expected %q in %q", want, second)
		}
	}
	if strings.Count(second, candidate.NotFound) != 2 {
		t.Fatalf("expected both contact sentinels in %q", second)
	}
}

func TestRenderDetails(t *testing.T) {
	t.Parallel()

	p := &candidate.Profile{
		ID:              "abc",
		Source:          "cv.pdf",
		ConversionError: "document contains no extractable text",
	}

	var buf bytes.Buffer
	if err := renderDetails(&buf, p); err != nil {
		t.Fatalf("render: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"abc", "cv.pdf", candidate.UnknownName, "0%", "Conversion error:", "no extractable text"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in:\n%s", want, out)
		}
	}
}

func TestCandidateLabel(t *testing.T) {
	t.Parallel()

	p := &candidate.Profile{ID: "id-1", Name: candidate.Found("Kofi Mensah"), MatchScore: 0.65}
	label := candidateLabel(3, p)

	if strings.Split(label, " ")[0] != "id-1" {
		t.Fatalf("label must start with the id: %q", label)
	}
	if !strings.Contains(label, "3rd") || !strings.Contains(label, "65%") {
		t.Fatalf("unexpected label: %q", label)
	}
}
