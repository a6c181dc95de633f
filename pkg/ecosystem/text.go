package ecosystem

import (
	"regexp"
	"strings"
	"time"
)

var textPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)v?(\d+\.\d+\.\d+(?:\.\d+)?(?:-[\w.-]+)?)`),
	regexp.MustCompile(`(?i)(\d+\.\d+(?:\.\d+)?(?:-[\w.-]+)?)`),
	regexp.MustCompile(`(?i)version[:\s]+(\d+\.\d+\.\d+)`),
}

// VersionFromText returns the first version-looking token in text, trying
// full semantic versions before major.minor forms.
func VersionFromText(text string) (string, bool) {
	for _, re := range textPatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			return m[1], true
		}
	}
	return "", false
}

var pageVersionPattern = regexp.MustCompile(`\b(\d+\.\d+(?:\.\d+)?)\b`)

// VersionsInText returns every distinct major.minor[.patch] token in text in
// order of first appearance.
func VersionsInText(text string) []string {
	matches := pageVersionPattern.FindAllStringSubmatch(text, -1)
	seen := make(map[string]bool, len(matches))
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		if !seen[m[1]] {
			seen[m[1]] = true
			out = append(out, m[1])
		}
	}
	return out
}

type datePattern struct {
	re     *regexp.Regexp
	layout string
}

var datePatterns = []datePattern{
	{regexp.MustCompile(`(\d{4}-\d{2}-\d{2})`), "2006-01-02"},
	{regexp.MustCompile(`(\d{1,2}/\d{1,2}/\d{4})`), "1/2/2006"},
	{regexp.MustCompile(`(?i)(\d{1,2}\s+(?:January|February|March|April|May|June|July|August|September|October|November|December)\s+\d{4})`), "2 January 2006"},
}

// ParseDate reads a release date from a timestamp or free text. RFC 3339
// timestamps are tried first, then YYYY-MM-DD, MM/DD/YYYY and "D Month YYYY"
// anywhere in the text. The result is truncated to the day in UTC.
func ParseDate(text string) *time.Time {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if t, err := time.Parse(time.RFC3339Nano, text); err == nil {
		return day(t)
	}
	for _, p := range datePatterns {
		m := p.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		s := strings.Join(strings.Fields(m[1]), " ")
		if p.layout == "2 January 2006" {
			s = titleMonth(s)
		}
		if t, err := time.Parse(p.layout, s); err == nil {
			return day(t)
		}
	}
	return nil
}

// FormatDate renders a release date as YYYY-MM-DD, or "" for nil.
func FormatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}

func day(t time.Time) *time.Time {
	u := t.UTC()
	d := time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
	return &d
}

// titleMonth normalizes the month word so time.Parse accepts any case.
func titleMonth(s string) string {
	parts := strings.Fields(s)
	if len(parts) == 3 {
		m := strings.ToLower(parts[1])
		parts[1] = strings.ToUpper(m[:1]) + m[1:]
	}
	return strings.Join(parts, " ")
}

// Clean collapses runs of whitespace and trims text.
func Clean(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
