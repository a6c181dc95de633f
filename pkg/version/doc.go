// Package version compares version strings and selects the latest release
// from a set of normalized candidates.
//
// The comparison is deliberately forgiving: it works on anything with
// dot-separated digit runs ("3.22.0", "v1.18", "24.04") and ignores the
// non-digit noise inside components. It is not a total order, see [Compare].
//
// Selection applies two rules on top of the comparison: stable candidates
// always beat unstable ones regardless of their numeric value, and among
// candidates that compare equal the first one seen wins.
//
//	c, ok := version.Select([]version.Candidate{
//	    version.NewCandidate("3.22", "3.22"),
//	    version.NewCandidate("3.22.0", "3.22.0"),
//	})
//	// c.Version == "3.22.0"
package version
