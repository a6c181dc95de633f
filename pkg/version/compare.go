package version

import "strings"

// Compare orders two version strings and returns -1, 0 or 1.
//
// Both strings are split on "." and every component is reduced to its digits
// (a component without digits counts as 0). Components are compared
// numerically from left to right, missing trailing components count as 0.
//
// When all numeric components are equal and the first two components agree,
// the longer literal string is greater, so "3.22.0" outranks "3.22". When the
// leading components differ in form ("3" against "3.0") the strings compare
// equal. Compare is therefore not a total order.
func Compare(a, b string) int {
	pa, pb := components(a), components(b)

	n := max(len(pa), len(pb))
	for i := range n {
		if c := compareDigits(at(pa, i), at(pb, i)); c != 0 {
			return c
		}
	}

	if leading(pa) == leading(pb) {
		switch {
		case len(a) > len(b):
			return 1
		case len(a) < len(b):
			return -1
		}
	}
	return 0
}

// Specificity is the precision of a version string, used to order
// otherwise equal versions.
func Specificity(v string) int { return len(v) }

// components splits v on "." and keeps only the digits of every part,
// with leading zeros removed. An empty result stands for 0.
func components(v string) []string {
	parts := strings.Split(v, ".")
	out := make([]string, len(parts))
	for i, p := range parts {
		var b strings.Builder
		for _, r := range p {
			if r >= '0' && r <= '9' {
				b.WriteRune(r)
			}
		}
		out[i] = strings.TrimLeft(b.String(), "0")
	}
	return out
}

func at(parts []string, i int) string {
	if i < len(parts) {
		return parts[i]
	}
	return ""
}

// leading joins the numeric form of the first two components.
func leading(parts []string) string {
	n := min(len(parts), 2)
	norm := make([]string, n)
	for i := range n {
		norm[i] = parts[i]
		if norm[i] == "" {
			norm[i] = "0"
		}
	}
	return strings.Join(norm, ".")
}

// compareDigits compares two digit strings without leading zeros as
// arbitrarily large numbers.
func compareDigits(a, b string) int {
	switch {
	case len(a) != len(b):
		if len(a) > len(b) {
			return 1
		}
		return -1
	case a > b:
		return 1
	case a < b:
		return -1
	}
	return 0
}
