package version

import (
	"strings"
	"time"
)

// unstableMarkers flag a version as a prerelease.
var unstableMarkers = []string{"beta", "alpha", "rc", "dev", "test", "snapshot", "nightly", "pre"}

// Candidate is a version extracted and normalized from a raw tag or text
// fragment. Candidates are values; copying them is cheap.
type Candidate struct {
	Version     string     `json:"version"`
	ReleaseDate *time.Time `json:"release_date,omitempty"`
	Stable      bool       `json:"stable"`
	Specificity int        `json:"specificity"`
	Raw         string     `json:"raw,omitempty"`     // Text the version was extracted from
	Locator     string     `json:"locator,omitempty"` // Where the release can be found, if known
}

// NewCandidate builds a candidate for version v extracted from raw,
// deriving stability and specificity from v.
func NewCandidate(v, raw string) Candidate {
	return Candidate{
		Version:     v,
		Stable:      IsStable(v),
		Specificity: Specificity(v),
		Raw:         raw,
	}
}

// IsStable reports whether v carries none of the prerelease markers
// (beta, alpha, rc, dev, test, snapshot, nightly, pre).
func IsStable(v string) bool {
	lower := strings.ToLower(v)
	for _, m := range unstableMarkers {
		if strings.Contains(lower, m) {
			return false
		}
	}
	return true
}

// Select returns the latest candidate. Stable candidates win over unstable
// ones whatever their numeric value; within a stability class the maximum
// under [Compare] wins, and the first of several equal candidates is kept.
// It returns false when cands is empty.
func Select(cands []Candidate) (Candidate, bool) {
	if len(cands) == 0 {
		return Candidate{}, false
	}

	pool := make([]Candidate, 0, len(cands))
	for _, c := range cands {
		if c.Stable {
			pool = append(pool, c)
		}
	}
	if len(pool) == 0 {
		pool = cands
	}

	best := pool[0]
	for _, c := range pool[1:] {
		if Compare(c.Version, best.Version) > 0 {
			best = c
		}
	}
	return best, true
}

// Latest is a convenience wrapper around [Select] for plain version strings.
func Latest(versions ...string) (string, bool) {
	cands := make([]Candidate, len(versions))
	for i, v := range versions {
		cands[i] = NewCandidate(v, v)
	}
	c, ok := Select(cands)
	return c.Version, ok
}
