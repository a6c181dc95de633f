package report

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/gowebpki/jcs"

	"github.com/matzehuels/tagscout/pkg/ecosystem"
	"github.com/matzehuels/tagscout/pkg/session"
)

// Export is the JSON document written by [WriteJSON].
type Export struct {
	Metadata Metadata          `json:"metadata"`
	Results  []session.Outcome `json:"results"`
	Changes  []Change          `json:"changes,omitempty"`
}

// Metadata summarizes a run.
type Metadata struct {
	RunID         string    `json:"runId"`
	CrawledAt     time.Time `json:"crawledAt"`
	TotalPackages int       `json:"totalPackages"`
	Successful    int       `json:"successful"`
	Failed        int       `json:"failed"`
	Fingerprint   string    `json:"fingerprint"`
}

// NewExport builds the export document for run. prev may be nil.
func NewExport(run, prev *session.Run) (*Export, error) {
	fp, err := Fingerprint(run.Outcomes)
	if err != nil {
		return nil, err
	}
	total, ok, failed := run.Counts()
	results := run.Outcomes
	if results == nil {
		results = []session.Outcome{}
	}
	return &Export{
		Metadata: Metadata{
			RunID:         run.ID,
			CrawledAt:     run.StartedAt.UTC(),
			TotalPackages: total,
			Successful:    ok,
			Failed:        failed,
			Fingerprint:   fp,
		},
		Results: results,
		Changes: Diff(prev, run),
	}, nil
}

// WriteJSON writes the export of run to w.
func WriteJSON(w io.Writer, run, prev *session.Run) error {
	doc, err := NewExport(run, prev)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportFile writes a report to path, choosing JSON or text from format.
// Parent directories are created as needed.
func ExportFile(path, format string, run, prev *session.Run) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if format == "json" {
		return WriteJSON(f, run, prev)
	}
	return WriteText(f, run, prev)
}

type fingerprintRow struct {
	Package string         `json:"package"`
	Kind    ecosystem.Kind `json:"kind"`
	Version string         `json:"version,omitempty"`
	Failure string         `json:"failure,omitempty"`
}

// Fingerprint returns a content hash of the resolved versions in outcomes.
// Timing fields and attempt counts do not contribute.
func Fingerprint(outcomes []session.Outcome) (string, error) {
	rows := make([]fingerprintRow, len(outcomes))
	for i, o := range outcomes {
		rows[i] = fingerprintRow{Package: o.Package, Kind: o.Kind, Version: o.Version(), Failure: o.FailureReason}
	}
	raw, err := json.Marshal(rows)
	if err != nil {
		return "", fmt.Errorf("marshal fingerprint: %w", err)
	}
	canonical, err := jcs.Transform(raw)
	if err != nil {
		return "", fmt.Errorf("canonicalize: %w", err)
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}
