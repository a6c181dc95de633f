package report

import "github.com/matzehuels/tagscout/pkg/session"

// Change is a package whose resolved version differs from the previous run.
type Change struct {
	Package string `json:"package"`
	From    string `json:"from"` // empty for a newly resolved package
	To      string `json:"to"`
}

// Diff lists resolved packages of cur whose version differs from prev, in
// the order of cur. Failed packages never count as changed. A nil prev
// yields no changes.
func Diff(prev, cur *session.Run) []Change {
	if prev == nil || cur == nil {
		return nil
	}
	before := prev.Versions()
	var changes []Change
	for _, o := range cur.Outcomes {
		if !o.OK() {
			continue
		}
		if old := before[o.Package]; old != o.Version() {
			changes = append(changes, Change{Package: o.Package, From: old, To: o.Version()})
		}
	}
	return changes
}

func changeIndex(changes []Change) map[string]Change {
	m := make(map[string]Change, len(changes))
	for _, c := range changes {
		m[c.Package] = c
	}
	return m
}
