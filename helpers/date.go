package helpers

import (
	"regexp"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

var (
	yearRegex = regexp.MustCompile(`(?:^|\D)(1[5-9]\d{2}|20\d{2})(?:\D|$)`)

	// Month names as catalogs print them: "Aug", "Aug.", "August", "Sept."
	monthNameRegex = regexp.MustCompile(`(?i)\b(jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|june?|july?|aug(?:ust)?|sep(?:t(?:ember)?)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?)\b`)

	months = []string{"", "jan", "feb", "mar", "apr", "may", "jun", "jul", "aug", "sep", "oct", "nov", "dec"}
)

// ParseDate parses the date formats catalogs emit ("2016-08-02",
// "2014-12-31T20:00:01Z", "02 Aug 2016").
func ParseDate(s string) (time.Time, error) {
	return dateparse.ParseAny(strings.TrimSpace(s))
}

// Year extracts a four digit year. Full dates are parsed; anything else
// ("c2016", "2016-2017", "Aug. 2016") falls back to the first plausible
// year in the string.
func Year(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if t, err := ParseDate(s); err == nil && t.Year() > 0 {
		if y := t.Format("2006"); findYear(y) == y {
			return y
		}
	}
	return findYear(s)
}

func findYear(s string) string {
	if m := yearRegex.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	return ""
}

// Month returns the BibTeX month abbreviation ("jan".."dec") of a full
// date, or "" when the string carries no month.
func Month(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || findYear(s) == s {
		return ""
	}
	if t, err := ParseDate(s); err == nil {
		return MonthToString(int(t.Month()))
	}
	if m := monthNameRegex.FindStringSubmatch(s); m != nil {
		return strings.ToLower(m[1][:3])
	}
	return ""
}

// MonthToString converts month number to BibTeX month abbreviation.
func MonthToString(month int) string {
	if month >= 1 && month <= 12 {
		return months[month]
	}
	return ""
}
