package extraction

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const daysPerYear = 365.25

var (
	// Month and year stay on one line so a trailing "Present" never pairs with a
	// year that starts the next line.
	monthYear        = `\b(?i:jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|june?|july?|aug(?:ust)?|sep(?:t(?:ember)?)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?)[ \t]+\d{4}\b`
	dateRangePattern = regexp.MustCompile(`(` + monthYear + `)\s*[-–]\s*(` + monthYear + `|\b(?i:present|ongoing)\b)`)
	yearPattern      = regexp.MustCompile(`\b(?:19|20)\d{2}\b`)
)

var months = map[string]time.Month{
	"jan": time.January, "january": time.January,
	"feb": time.February, "february": time.February,
	"mar": time.March, "march": time.March,
	"apr": time.April, "april": time.April,
	"may": time.May,
	"jun": time.June, "june": time.June,
	"jul": time.July, "july": time.July,
	"aug": time.August, "august": time.August,
	"sep": time.September, "sept": time.September, "september": time.September,
	"oct": time.October, "october": time.October,
	"nov": time.November, "november": time.November,
	"dec": time.December, "december": time.December,
}

// ExperienceEstimator derives total years of experience from employment date ranges.
type ExperienceEstimator struct {
	now func() time.Time
}

// NewExperienceEstimator returns an estimator that resolves "Present" with now.
// A nil now means time.Now.
func NewExperienceEstimator(now func() time.Time) *ExperienceEstimator {
	if now == nil {
		now = time.Now
	}
	return &ExperienceEstimator{now: now}
}

// Estimate returns years of experience rounded to one decimal, never negative.
func (e *ExperienceEstimator) Estimate(text string) float64 {
	total := 0.0
	for _, m := range dateRangePattern.FindAllStringSubmatch(text, -1) {
		start, ok := parseMonthYear(m[1])
		if !ok {
			continue
		}

		var end time.Time
		switch strings.ToLower(m[2]) {
		case "present", "ongoing":
			end = e.now()
		default:
			if end, ok = parseMonthYear(m[2]); !ok {
				continue
			}
		}

		total += end.Sub(start).Hours() / 24 / daysPerYear
	}

	if total == 0 {
		total = yearSpan(text)
	}

	if total < 0 {
		total = 0
	}

	return math.Round(total*10) / 10
}

// yearSpan is the distance between the first and last standalone year in text.
func yearSpan(text string) float64 {
	years := yearPattern.FindAllString(text, -1)
	if len(years) < 2 {
		return 0
	}

	first, err := strconv.Atoi(years[0])
	if err != nil {
		return 0
	}
	last, err := strconv.Atoi(years[len(years)-1])
	if err != nil {
		return 0
	}

	return float64(last - first)
}

func parseMonthYear(s string) (time.Time, bool) {
	fields := strings.Fields(s)
	if len(fields) != 2 {
		return time.Time{}, false
	}

	month, ok := months[strings.ToLower(fields[0])]
	if !ok {
		return time.Time{}, false
	}

	year, err := strconv.Atoi(fields[1])
	if err != nil {
		return time.Time{}, false
	}

	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC), true
}
