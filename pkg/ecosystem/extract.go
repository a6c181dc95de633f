package ecosystem

import (
	"regexp"
	"strings"
)

var (
	rollingPatterns = []*regexp.Regexp{
		regexp.MustCompile(`^(\d+\.\d+(?:\.\d+)?)$`),
		regexp.MustCompile(`(?i)alpine[:\s-]*(\d+\.\d+(?:\.\d+)?)`),
		regexp.MustCompile(`(\d+\.\d+\.\d+)`),
		regexp.MustCompile(`(\d+\.\d+)`),
	}
	numberedPatterns = []*regexp.Regexp{
		regexp.MustCompile(`^(\d{2,3})$`),
		regexp.MustCompile(`(?i)fedora[:\s-]*(\d{2,3})`),
		regexp.MustCompile(`(?i)^f(\d{2,3})$`),
		regexp.MustCompile(`(\d{2,3})`),
	}
	yymmPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(\d{2}\.\d{2})`),
		regexp.MustCompile(`(?i)ubuntu[:\s-]*(\d{2}\.\d{2})`),
	}
	codenamePatterns = []*regexp.Regexp{
		regexp.MustCompile(`^(\d{1,2}(?:\.\d{1,2})?)$`),
		regexp.MustCompile(`(?i)^debian[:\s-]*(\d{1,2}(?:\.\d{1,2})?)$`),
	}
	suffixedPatterns = []*regexp.Regexp{
		regexp.MustCompile(`^(\d+\.\d+\.\d+)$`),
		regexp.MustCompile(`(?i)^(\d+\.\d+\.\d+)-(?:otp|erlang)`),
		regexp.MustCompile(`(?i)elixir[:\s-]*(\d+\.\d+\.\d+)`),
		regexp.MustCompile(`^(\d+\.\d+)$`),
	}
	loosePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(\d+\.\d+(?:\.\d+)?)`),
	}
	strictPattern = regexp.MustCompile(`(\d+\.\d+\.\d+(?:\.\d+)?)`)
	cleanVersion  = regexp.MustCompile(`^\d+\.\d+(?:\.\d+)?$`)
)

func extractFromText(_ *Policy, text string) (string, bool) {
	return VersionFromText(text)
}

// extractRolling takes the first match whose major and minor fall in range.
func extractRolling(p *Policy, text string) (string, bool) {
	for _, re := range rollingPatterns {
		if m := re.FindStringSubmatch(text); m != nil && p.Range.Contains(m[1]) {
			return m[1], true
		}
	}
	return "", false
}

func extractNumbered(p *Policy, text string) (string, bool) {
	lower := strings.ToLower(text)
	if p.HasDevMarker(lower) || strings.Contains(lower, "test") {
		return "", false
	}
	for _, re := range numberedPatterns {
		if m := re.FindStringSubmatch(text); m != nil && p.Range.Contains(m[1]) {
			return m[1], true
		}
	}
	return "", false
}

func extractYYMM(p *Policy, text string) (string, bool) {
	for _, re := range yymmPatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			return m[1], true
		}
	}
	lower := strings.ToLower(text)
	for _, word := range strings.FieldsFunc(lower, notLetter) {
		if v, ok := p.Codenames[word]; ok {
			return v, true
		}
	}
	return "", false
}

// extractCodename only accepts exact matches: a bare version, a
// "debian <version>" label or a codename on its own.
func extractCodename(p *Policy, text string) (string, bool) {
	for _, re := range codenamePatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			return m[1], true
		}
	}
	if v, ok := p.Codenames[strings.ToLower(text)]; ok {
		return v, true
	}
	return "", false
}

// extractSuffixed strips a trailing toolchain suffix ("-otp-27") and only
// returns the remainder when it is a clean major.minor[.patch].
func extractSuffixed(_ *Policy, text string) (string, bool) {
	for _, re := range suffixedPatterns {
		if m := re.FindStringSubmatch(text); m != nil && cleanVersion.MatchString(m[1]) {
			return m[1], true
		}
	}
	return "", false
}

func extractLoose(_ *Policy, text string) (string, bool) {
	for _, re := range loosePatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			return m[1], true
		}
	}
	return "", false
}

func extractStrict(_ *Policy, text string) (string, bool) {
	if m := strictPattern.FindStringSubmatch(text); m != nil {
		return m[1], true
	}
	return "", false
}

func notLetter(r rune) bool { return r < 'a' || r > 'z' }
