package ecosystem

import (
	"regexp"
	"strconv"
	"strings"
)

// BaseExclusions are placeholder and prerelease keywords rejected by every
// extractor before any pattern is tried.
var BaseExclusions = []string{"latest", "edge", "nightly", "beta", "alpha", "rc", "snapshot", "master", "main"}

var (
	imageExclusions = []string{"devel", "rawhide", "branched"}
	buildVariants   = []string{"alpine", "slim", "otp", "erlang", "windowsservercore", "nanoserver"}
)

// RangeRule bounds one numeric component of a version. A zero RangeRule
// accepts everything.
type RangeRule struct {
	Index int // component checked, 0 for major
	Min   int
	Max   int
	Major int // required major version, 0 when any major is allowed
}

func (r RangeRule) isZero() bool { return r == RangeRule{} }

// Contains reports whether v satisfies the rule.
func (r RangeRule) Contains(v string) bool {
	if r.isZero() {
		return true
	}
	parts := strings.Split(v, ".")
	if r.Major != 0 {
		if n, err := strconv.Atoi(parts[0]); err != nil || n != r.Major {
			return false
		}
	}
	if r.Index >= len(parts) {
		return false
	}
	n, err := strconv.Atoi(parts[r.Index])
	if err != nil {
		return false
	}
	return n >= r.Min && n <= r.Max
}

// Policy is the extraction and validation rule set of one version scheme.
// Policies are read-only configuration shared by all resolutions.
type Policy struct {
	Scheme     Scheme
	Validity   *regexp.Regexp    // full-match pattern an extracted version must satisfy
	Range      RangeRule         // plausible numeric range
	Codenames  map[string]string // lowercase codename to version
	Exclusions []string          // keywords rejected in addition to BaseExclusions
	Variants   []string          // build-variant markers rejected during validation
	DevMarkers []string          // raw-tag markers of a development channel

	// ExcludeIsolatedMax enables the contextual exclusion of an isolated
	// maximum when DevMarkers appear among the raw tags.
	ExcludeIsolatedMax bool

	extract func(p *Policy, text string) (string, bool)
}

// Excluded reports whether text contains a base or policy exclusion keyword.
func (p *Policy) Excluded(text string) bool {
	lower := strings.ToLower(text)
	return containsAny(lower, BaseExclusions) || containsAny(lower, p.Exclusions)
}

// HasVariant reports whether text carries one of the policy's build-variant
// markers.
func (p *Policy) HasVariant(text string) bool {
	return containsAny(strings.ToLower(text), p.Variants)
}

// HasDevMarker reports whether text names a development channel.
func (p *Policy) HasDevMarker(text string) bool {
	return containsAny(strings.ToLower(text), p.DevMarkers)
}

// Valid reports whether an extracted version satisfies the validity pattern
// and the numeric range of the policy.
func (p *Policy) Valid(v string) bool {
	return p.Validity.MatchString(v) && p.Range.Contains(v)
}

// Extract applies the scheme's extraction rule to already cleaned text.
// It does not check exclusions; see [PolicyExtractor] for the full contract.
func (p *Policy) Extract(text string) (string, bool) {
	return p.extract(p, text)
}

var policies = map[Scheme]*Policy{
	SchemeGeneric: {
		Scheme:   SchemeGeneric,
		Validity: regexp.MustCompile(`^\d+(?:\.\d+)+(?:-[\w.-]+)?$`),
		extract:  extractFromText,
	},
	SchemeImage: {
		Scheme:     SchemeImage,
		Validity:   regexp.MustCompile(`^\d+(?:\.\d+)*$`),
		Exclusions: imageExclusions,
		extract:    extractFromText,
	},
	SchemeRuntimeImage: {
		Scheme:     SchemeRuntimeImage,
		Validity:   regexp.MustCompile(`^\d+(?:\.\d+)*$`),
		Exclusions: imageExclusions,
		Variants:   buildVariants,
		extract:    extractFromText,
	},
	SchemeRolling: {
		Scheme:     SchemeRolling,
		Validity:   regexp.MustCompile(`^3\.\d+(?:\.\d+)?$`),
		Range:      RangeRule{Index: 1, Min: 0, Max: 50, Major: 3},
		Exclusions: imageExclusions,
		extract:    extractRolling,
	},
	SchemeNumbered: {
		Scheme:             SchemeNumbered,
		Validity:           regexp.MustCompile(`^\d{2}$`),
		Range:              RangeRule{Index: 0, Min: 30, Max: 50},
		Exclusions:         imageExclusions,
		DevMarkers:         []string{"rawhide", "branched", "devel"},
		ExcludeIsolatedMax: true,
		extract:            extractNumbered,
	},
	SchemeYYMM: {
		Scheme:     SchemeYYMM,
		Validity:   regexp.MustCompile(`^\d{2}\.\d{2}$`),
		Exclusions: imageExclusions,
		Codenames: map[string]string{
			"oracular": "24.10",
			"noble":    "24.04",
			"mantic":   "23.10",
			"lunar":    "23.04",
			"jammy":    "22.04",
			"focal":    "20.04",
			"bionic":   "18.04",
			"xenial":   "16.04",
			"trusty":   "14.04",
		},
		extract: extractYYMM,
	},
	SchemeCodename: {
		Scheme:     SchemeCodename,
		Validity:   regexp.MustCompile(`^\d{1,2}(?:\.\d{1,2})?$`),
		Range:      RangeRule{Index: 0, Min: 1, Max: 50},
		Exclusions: imageExclusions,
		Codenames: map[string]string{
			"trixie":   "13",
			"bookworm": "12",
			"bullseye": "11",
			"buster":   "10",
			"stretch":  "9",
			"jessie":   "8",
		},
		extract: extractCodename,
	},
	SchemeSuffixed: {
		Scheme:     SchemeSuffixed,
		Validity:   regexp.MustCompile(`^\d+\.\d+(?:\.\d+)?$`),
		Exclusions: imageExclusions,
		Variants:   []string{"alpine", "slim", "windowsservercore", "nanoserver"},
		extract:    extractSuffixed,
	},
	SchemeLoose: {
		Scheme:     SchemeLoose,
		Validity:   regexp.MustCompile(`^\d+\.\d+(?:\.\d+)?$`),
		Exclusions: imageExclusions,
		extract:    extractLoose,
	},
	SchemeStrict: {
		Scheme:   SchemeStrict,
		Validity: regexp.MustCompile(`^\d+\.\d+\.\d+(?:\.\d+)?$`),
		Variants: []string{"+ent", "+fips", "hsm"},
		extract:  extractStrict,
	},
}

// Lookup returns the policy of scheme s, falling back to the generic policy
// for unknown schemes.
func Lookup(s Scheme) *Policy {
	if p, ok := policies[s]; ok {
		return p
	}
	return policies[SchemeGeneric]
}

// PolicyFor returns the policy of the descriptor's scheme.
func PolicyFor(d Descriptor) *Policy {
	return Lookup(d.Scheme)
}
