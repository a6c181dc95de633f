package report

import (
	"bufio"
	"fmt"
	"io"

	"github.com/matzehuels/tagscout/pkg/ecosystem"
	"github.com/matzehuels/tagscout/pkg/session"
)

// WriteText writes a plain-text summary of run to w. prev may be nil.
func WriteText(w io.Writer, run, prev *session.Run) error {
	bw := bufio.NewWriter(w)
	total, ok, failed := run.Counts()
	changed := changeIndex(Diff(prev, run))

	fmt.Fprintf(bw, "\n=== Crawl Report ===\n")
	fmt.Fprintf(bw, "Total packages: %d\n", total)
	fmt.Fprintf(bw, "Successful: %d\n", ok)
	fmt.Fprintf(bw, "Failed: %d\n", failed)
	if prev != nil {
		fmt.Fprintf(bw, "Changed: %d\n", len(changed))
	}
	fmt.Fprintln(bw)

	if ok > 0 {
		fmt.Fprintf(bw, "=== Successful Results ===\n")
		for _, o := range run.Outcomes {
			if !o.OK() {
				continue
			}
			fmt.Fprintf(bw, "%s: %s", o.Package, o.Version())
			if d := o.Resolved.ReleaseDate; d != nil {
				fmt.Fprintf(bw, " (%s)", ecosystem.FormatDate(d))
			}
			if c, hit := changed[o.Package]; hit {
				if c.From == "" {
					fmt.Fprintf(bw, " [new]")
				} else {
					fmt.Fprintf(bw, " [was %s]", c.From)
				}
			}
			fmt.Fprintln(bw)
		}
		fmt.Fprintln(bw)
	}

	if failed > 0 {
		fmt.Fprintf(bw, "=== Failed Results ===\n")
		for _, o := range run.Outcomes {
			if !o.OK() {
				fmt.Fprintf(bw, "%s: %s\n", o.Package, o.FailureReason)
			}
		}
	}
	return bw.Flush()
}
