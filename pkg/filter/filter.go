// Package filter drops candidates that cannot be trusted as releases before
// they reach selection.
//
// Three filters compose in [Apply]:
//
//   - [Valid] enforces the scheme's strict validity pattern, numeric range
//     and build-variant rules.
//   - [ExcludeIsolatedMax] removes a presumed development release that hides
//     behind a bare release number. It is a heuristic on numeric gaps and only
//     runs when the source shows explicit development markers.
//   - [Recent] narrows very large candidate sets to recent releases, unless
//     that would leave too few to choose from.
//
// Rejected candidates are dropped silently; an empty result simply means the
// source yielded nothing usable.
package filter

import (
	"strconv"
	"time"

	"github.com/matzehuels/tagscout/pkg/ecosystem"
	"github.com/matzehuels/tagscout/pkg/version"
)

// Valid keeps candidates whose version satisfies the policy and whose raw
// text carries no build-variant marker.
func Valid(p *ecosystem.Policy, cands []version.Candidate) []version.Candidate {
	out := make([]version.Candidate, 0, len(cands))
	for _, c := range cands {
		if p.HasVariant(c.Raw) || !p.Valid(c.Version) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// ExcludeIsolatedMax drops every candidate equal to the numeric maximum when
// the policy enables the heuristic, at least one raw tag carries a
// development marker, and the maximum is isolated (max > min+1). Without
// markers the candidates are returned unchanged so that a genuinely new
// release is never discarded.
func ExcludeIsolatedMax(p *ecosystem.Policy, rawTags []string, cands []version.Candidate) []version.Candidate {
	if !p.ExcludeIsolatedMax || len(cands) == 0 || !hasDevMarker(p, rawTags) {
		return cands
	}

	nums := make([]int, len(cands))
	lo, hi := 0, 0
	first := true
	for i, c := range cands {
		n, err := strconv.Atoi(c.Version)
		if err != nil {
			nums[i] = -1
			continue
		}
		nums[i] = n
		if first {
			lo, hi, first = n, n, false
			continue
		}
		lo, hi = min(lo, n), max(hi, n)
	}
	if first || hi <= lo+1 {
		return cands
	}

	out := make([]version.Candidate, 0, len(cands))
	for i, c := range cands {
		if nums[i] != hi {
			out = append(out, c)
		}
	}
	return out
}

func hasDevMarker(p *ecosystem.Policy, rawTags []string) bool {
	for _, t := range rawTags {
		if p.HasDevMarker(t) {
			return true
		}
	}
	return false
}

// RecencyOptions configures [Recent].
type RecencyOptions struct {
	Threshold int           // minimum set size before the filter applies
	Window    time.Duration // trailing window counted back from now
	Min       int           // minimum survivors, otherwise the full set is kept
}

// DefaultRecency is the recency filter used by high-volume sources.
var DefaultRecency = RecencyOptions{
	Threshold: 20,
	Window:    90 * 24 * time.Hour,
	Min:       5,
}

// Recent keeps candidates released within the window before now when the
// set has at least Threshold members. Candidates without a release date are
// kept. If fewer than Min candidates survive, the full set is returned.
func Recent(cands []version.Candidate, now time.Time, opts RecencyOptions) []version.Candidate {
	if len(cands) < opts.Threshold {
		return cands
	}
	cutoff := now.Add(-opts.Window)
	out := make([]version.Candidate, 0, len(cands))
	for _, c := range cands {
		if c.ReleaseDate == nil || !c.ReleaseDate.Before(cutoff) {
			out = append(out, c)
		}
	}
	if len(out) < opts.Min {
		return cands
	}
	return out
}

// Options selects the optional filters of [Apply].
type Options struct {
	Recency *RecencyOptions // nil disables the recency filter
	Now     time.Time       // reference time for recency, zero means time.Now
}

// Apply runs validity, contextual exclusion and, when enabled, recency over
// extracted candidates. rawTags are the unfiltered raw texts the candidates
// came from.
func Apply(p *ecosystem.Policy, rawTags []string, cands []version.Candidate, opts Options) []version.Candidate {
	out := Valid(p, cands)
	out = ExcludeIsolatedMax(p, rawTags, out)
	if opts.Recency != nil {
		now := opts.Now
		if now.IsZero() {
			now = time.Now()
		}
		out = Recent(out, now, *opts.Recency)
	}
	return out
}

// Resolve extracts, filters and selects in one step. It is the common path
// of every acquisition strategy.
func Resolve(ex ecosystem.Extractor, p *ecosystem.Policy, raws []ecosystem.RawCandidate, opts Options) (version.Candidate, bool) {
	rawTags := make([]string, len(raws))
	for i, r := range raws {
		rawTags[i] = r.Text
	}
	cands := Apply(p, rawTags, ecosystem.ExtractAll(ex, raws), opts)
	return version.Select(cands)
}
