package ecosystem

import (
	"regexp"
	"strings"

	"github.com/matzehuels/tagscout/pkg/version"
)

// RawCandidate is a tag or text fragment that may encode a version, as
// produced by a single fetch. It never outlives one resolution attempt.
type RawCandidate struct {
	Text      string // tag name or element text
	Timestamp string // release timestamp text, if the source exposes one
	Origin    string // strategy or URL the candidate came from
	Locator   string // reference to the release (URL, pull command), if known
}

// Extractor normalizes raw candidates into versions. A raw candidate that
// does not yield a version is dropped, not reported as an error.
type Extractor interface {
	Extract(raw RawCandidate) (version.Candidate, bool)
}

// PolicyExtractor applies the built-in rule of a scheme.
type PolicyExtractor struct {
	Policy *Policy
}

// Extract rejects text with exclusion keywords, then applies the policy's
// extraction rule.
func (e PolicyExtractor) Extract(raw RawCandidate) (version.Candidate, bool) {
	text := Clean(raw.Text)
	if text == "" || e.Policy.Excluded(text) {
		return version.Candidate{}, false
	}
	v, ok := e.Policy.Extract(text)
	if !ok {
		return version.Candidate{}, false
	}
	return candidate(v, raw), true
}

// FuncExtractor applies a caller-supplied pure function from cleaned text to
// a version string. Base exclusion keywords are rejected before the function
// runs, as for built-in rules.
type FuncExtractor func(text string) (string, bool)

// Extract implements [Extractor].
func (f FuncExtractor) Extract(raw RawCandidate) (version.Candidate, bool) {
	text := Clean(raw.Text)
	if text == "" || containsAny(strings.ToLower(text), BaseExclusions) {
		return version.Candidate{}, false
	}
	v, ok := f(text)
	if !ok || v == "" {
		return version.Candidate{}, false
	}
	return candidate(strings.TrimSpace(v), raw), true
}

// PatternExtractor builds a FuncExtractor from a regular expression. The
// first capture group is the version; without groups the whole match is.
func PatternExtractor(re *regexp.Regexp) FuncExtractor {
	return func(text string) (string, bool) {
		m := re.FindStringSubmatch(text)
		switch {
		case m == nil:
			return "", false
		case len(m) > 1:
			return m[1], m[1] != ""
		default:
			return m[0], true
		}
	}
}

// ExtractorFor returns the extractor of a descriptor: a pattern extractor
// when the descriptor carries a pattern hint, otherwise the built-in rule of
// its scheme.
func ExtractorFor(d Descriptor) (Extractor, error) {
	if d.Hints.Pattern != "" {
		re, err := regexp.Compile(d.Hints.Pattern)
		if err != nil {
			return nil, err
		}
		return PatternExtractor(re), nil
	}
	return PolicyExtractor{Policy: PolicyFor(d)}, nil
}

// ExtractAll runs ex over every raw candidate and keeps those that yield a
// version, preserving order.
func ExtractAll(ex Extractor, raws []RawCandidate) []version.Candidate {
	out := make([]version.Candidate, 0, len(raws))
	for _, raw := range raws {
		if c, ok := ex.Extract(raw); ok {
			out = append(out, c)
		}
	}
	return out
}

func candidate(v string, raw RawCandidate) version.Candidate {
	c := version.NewCandidate(v, raw.Text)
	c.ReleaseDate = ParseDate(raw.Timestamp)
	c.Locator = raw.Locator
	return c
}
