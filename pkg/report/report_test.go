package report

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/tagscout/pkg/ecosystem"
	"github.com/matzehuels/tagscout/pkg/session"
)

var crawled = time.Date(2025, 7, 10, 12, 0, 0, 0, time.UTC)

func ok(pkg, v string, date *time.Time) session.Outcome {
	return session.Outcome{
		Package:    pkg,
		Kind:       ecosystem.KindDockerHub,
		Resolved:   &session.ResolvedVersion{Version: v, ReleaseDate: date, Strategy: "docker-api"},
		ResolvedAt: crawled,
		Attempts:   1,
	}
}

func bad(pkg, reason string) session.Outcome {
	return session.Outcome{Package: pkg, Kind: ecosystem.KindGeneric, FailureReason: reason, ResolvedAt: crawled, Attempts: 1}
}

func run(outcomes ...session.Outcome) *session.Run {
	return session.NewRun(crawled, crawled.Add(time.Minute), outcomes)
}

func TestWriteText(t *testing.T) {
	released := time.Date(2025, 7, 5, 0, 0, 0, 0, time.UTC)
	r := run(ok("alpine", "3.23.0", &released), bad("broken", "NoVersionFound"), ok("debian", "12.12", nil))

	var buf bytes.Buffer
	if err := WriteText(&buf, r, nil); err != nil {
		t.Fatalf("WriteText() error: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"Total packages: 3",
		"Successful: 2",
		"Failed: 1",
		"alpine: 3.23.0 (2025-07-05)\n",
		"debian: 12.12\n",
		"=== Failed Results ===\nbroken: NoVersionFound\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Changed:") {
		t.Error("report without a previous run should not count changes")
	}
}

func TestWriteTextMarksChanges(t *testing.T) {
	prev := run(ok("alpine", "3.22.0", nil), ok("debian", "12.12", nil))
	cur := run(ok("alpine", "3.23.0", nil), ok("debian", "12.12", nil), ok("ubuntu", "25.10", nil))

	var buf bytes.Buffer
	if err := WriteText(&buf, cur, prev); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"Changed: 2", "alpine: 3.23.0 [was 3.22.0]", "ubuntu: 25.10 [new]", "debian: 12.12\n"} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
}

func TestDiff(t *testing.T) {
	prev := run(ok("a", "1.0", nil), ok("b", "2.0", nil), ok("c", "3.0", nil))
	cur := run(ok("a", "1.0", nil), ok("b", "2.1", nil), bad("c", "timeout"), ok("d", "0.1", nil))

	got := Diff(prev, cur)
	want := []Change{{Package: "b", From: "2.0", To: "2.1"}, {Package: "d", To: "0.1"}}
	if len(got) != len(want) {
		t.Fatalf("Diff() = %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("change[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}

	if Diff(nil, cur) != nil {
		t.Error("Diff(nil, cur) should be empty")
	}
}

func TestWriteJSON(t *testing.T) {
	r := run(ok("alpine", "3.23.0", nil), bad("broken", "NoVersionFound"))

	var buf bytes.Buffer
	if err := WriteJSON(&buf, r, nil); err != nil {
		t.Fatalf("WriteJSON() error: %v", err)
	}

	var doc struct {
		Metadata map[string]any   `json:"metadata"`
		Results  []map[string]any `json:"results"`
	}
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	md := doc.Metadata
	if md["runId"] != r.ID || md["totalPackages"] != 2.0 || md["successful"] != 1.0 || md["failed"] != 1.0 {
		t.Errorf("metadata = %v", md)
	}
	if md["crawledAt"] != "2025-07-10T12:00:00Z" {
		t.Errorf("crawledAt = %v", md["crawledAt"])
	}
	if fp, _ := md["fingerprint"].(string); len(fp) != 64 {
		t.Errorf("fingerprint = %v, want sha256 hex", md["fingerprint"])
	}
	if len(doc.Results) != 2 || doc.Results[1]["failure_reason"] != "NoVersionFound" {
		t.Errorf("results = %v", doc.Results)
	}
}

func TestFingerprint(t *testing.T) {
	a := []session.Outcome{ok("alpine", "3.23.0", nil), bad("x", "NoVersionFound")}

	later := ok("alpine", "3.23.0", nil)
	later.ResolvedAt = crawled.Add(time.Hour)
	later.Attempts = 3
	b := []session.Outcome{later, bad("x", "NoVersionFound")}

	fa, err := Fingerprint(a)
	if err != nil {
		t.Fatal(err)
	}
	fb, _ := Fingerprint(b)
	if fa != fb {
		t.Error("fingerprint should ignore timing and attempts")
	}

	fc, _ := Fingerprint([]session.Outcome{ok("alpine", "3.23.1", nil), bad("x", "NoVersionFound")})
	if fa == fc {
		t.Error("fingerprint should change with versions")
	}
}

func TestExportFile(t *testing.T) {
	dir := t.TempDir()
	r := run(ok("alpine", "3.23.0", nil))

	jsonPath := filepath.Join(dir, "out", "report.json")
	if err := ExportFile(jsonPath, "json", r, nil); err != nil {
		t.Fatalf("ExportFile(json) error: %v", err)
	}
	data, err := os.ReadFile(jsonPath)
	if err != nil || !json.Valid(data) {
		t.Errorf("json export unreadable: %v", err)
	}

	textPath := filepath.Join(dir, "report.txt")
	if err := ExportFile(textPath, "text", r, nil); err != nil {
		t.Fatalf("ExportFile(text) error: %v", err)
	}
	data, _ = os.ReadFile(textPath)
	if !strings.Contains(string(data), "alpine: 3.23.0") {
		t.Errorf("text export = %q", data)
	}
}
