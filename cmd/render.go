package cmd

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spigell/cv-ranker/internal/candidate"
)

// ordinal renders 1 as "1st", 12 as "12th", 22 as "22nd".
func ordinal(n int) string {
	suffix := "th"
	switch n % 100 {
	case 11, 12, 13:
	default:
		switch n % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return fmt.Sprintf("%d%s", n, suffix)
}

func formatScore(score float64) string {
	return fmt.Sprintf("%.0f%%", score*100)
}

func formatExperience(years float64) string {
	return fmt.Sprintf("%.1f yrs", years)
}

// renderTable prints the leaderboard, best candidate first.
func renderTable(w io.Writer, c *candidate.Candidates) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, "RANK\tNAME\tMATCH\tEMAIL\tPHONE\tEXPERIENCE\tSKILLS")
	for i, p := range c.Items {
		skills := p.SkillList()
		if skills == "" {
			skills = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			ordinal(i+1),
			p.DisplayName(),
			formatScore(p.MatchScore),
			p.Email(),
			p.Phone(),
			formatExperience(p.ExperienceYears),
			skills,
		)
	}

	return tw.Flush()
}

func renderDetails(w io.Writer, p *candidate.Profile) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	rows := [][2]string{
		{"ID", p.ID},
		{"Source", p.Source},
		{"Name", p.DisplayName()},
		{"Email", p.Email()},
		{"Phone", p.Phone()},
		{"Experience", formatExperience(p.ExperienceYears)},
		{"Skills", strings.Join(p.Skills, ", ")},
		{"Match", formatScore(p.MatchScore)},
	}
	if p.ConversionError != "" {
		rows = append(rows, [2]string{"Conversion error", p.ConversionError})
	}

	for _, row := range rows {
		fmt.Fprintf(tw, "%s:\t%s\n", row[0], row[1])
	}

	return tw.Flush()
}

// candidateLabel is the promptui item for a candidate. It starts with the ID
// so the selection can be mapped back.
func candidateLabel(rank int, p *candidate.Profile) string {
	return fmt.Sprintf("%s %s / %s / %s", p.ID, ordinal(rank), p.DisplayName(), formatScore(p.MatchScore))
}
