package ecosystem

import (
	"regexp"
	"testing"
)

func TestPolicyExtractor(t *testing.T) {
	tests := []struct {
		scheme Scheme
		text   string
		want   string
		ok     bool
	}{
		// rolling
		{SchemeRolling, "3.22.0", "3.22.0", true},
		{SchemeRolling, "3.22", "3.22", true},
		{SchemeRolling, "alpine 3.21", "3.21", true},
		{SchemeRolling, "2.7.1", "", false},
		{SchemeRolling, "3.99", "", false},
		{SchemeRolling, "edge", "", false},
		{SchemeRolling, "latest", "", false},

		// numbered
		{SchemeNumbered, "42", "42", true},
		{SchemeNumbered, "fedora-41", "41", true},
		{SchemeNumbered, "f40", "40", true},
		{SchemeNumbered, "rawhide", "", false},
		{SchemeNumbered, "41-branched", "", false},
		{SchemeNumbered, "42-test", "", false},
		{SchemeNumbered, "29", "", false},
		{SchemeNumbered, "20250705", "", false},

		// yymm
		{SchemeYYMM, "24.04", "24.04", true},
		{SchemeYYMM, "ubuntu 25.10", "25.10", true},
		{SchemeYYMM, "noble", "24.04", true},
		{SchemeYYMM, "Jammy-20240808", "22.04", true},
		{SchemeYYMM, "rolling", "", false},

		// codename
		{SchemeCodename, "12", "12", true},
		{SchemeCodename, "12.11", "12.11", true},
		{SchemeCodename, "debian 11.9", "11.9", true},
		{SchemeCodename, "Bookworm", "12", true},
		{SchemeCodename, "bookworm-slim", "", false},
		{SchemeCodename, "20250705", "", false},
		{SchemeCodename, "2025-07-05", "", false},
		{SchemeCodename, "2025w27", "", false},

		// suffixed
		{SchemeSuffixed, "1.18.4", "1.18.4", true},
		{SchemeSuffixed, "1.18.4-otp-27", "1.18.4", true},
		{SchemeSuffixed, "1.18.4-erlang-27.1", "1.18.4", true},
		{SchemeSuffixed, "1.18", "1.18", true},
		{SchemeSuffixed, "1.18.4-slim", "", false},

		// loose
		{SchemeLoose, "6.1.2-noble", "6.1.2", true},
		{SchemeLoose, "swift 6.1", "6.1", true},

		// strict
		{SchemeStrict, "terraform_1.9.3", "1.9.3", true},
		{SchemeStrict, "1.9.0-beta1", "", false},

		// generic
		{SchemeGeneric, "v1.2.3", "1.2.3", true},
		{SchemeGeneric, "Release 2.4", "2.4", true},
		{SchemeGeneric, "1.0.0-rc.1", "", false},
		{SchemeGeneric, "main", "", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.scheme)+"/"+tt.text, func(t *testing.T) {
			ex := PolicyExtractor{Policy: Lookup(tt.scheme)}
			c, ok := ex.Extract(RawCandidate{Text: tt.text})
			if ok != tt.ok {
				t.Fatalf("Extract(%q) ok = %v, want %v (got %q)", tt.text, ok, tt.ok, c.Version)
			}
			if ok && c.Version != tt.want {
				t.Errorf("Extract(%q) = %q, want %q", tt.text, c.Version, tt.want)
			}
		})
	}
}

func TestPolicyValid(t *testing.T) {
	tests := []struct {
		scheme Scheme
		v      string
		want   bool
	}{
		{SchemeNumbered, "42", true},
		{SchemeNumbered, "42.1", false},
		{SchemeNumbered, "420", false},
		{SchemeCodename, "12.11", true},
		{SchemeCodename, "2025", false},
		{SchemeYYMM, "24.04", true},
		{SchemeYYMM, "24.4", false},
		{SchemeRolling, "3.22.0", true},
		{SchemeRolling, "4.0", false},
		{SchemeImage, "1.27.3", true},
		{SchemeImage, "1.27.3-alpine", false},
		{SchemeGeneric, "1.2.3-beta.1", true},
		{SchemeGeneric, "7", false},
	}
	for _, tt := range tests {
		if got := Lookup(tt.scheme).Valid(tt.v); got != tt.want {
			t.Errorf("%s.Valid(%q) = %v, want %v", tt.scheme, tt.v, got, tt.want)
		}
	}
}

func TestFuncExtractor(t *testing.T) {
	ex := PatternExtractor(regexp.MustCompile(`release-(\d+\.\d+)`))

	c, ok := ex.Extract(RawCandidate{Text: "  release-4.2  ", Timestamp: "2025-07-05", Locator: "https://example.com/4.2"})
	if !ok {
		t.Fatal("expected a candidate")
	}
	if c.Version != "4.2" || c.Locator != "https://example.com/4.2" {
		t.Errorf("got %+v", c)
	}
	if FormatDate(c.ReleaseDate) != "2025-07-05" {
		t.Errorf("ReleaseDate = %v, want 2025-07-05", c.ReleaseDate)
	}

	if _, ok := ex.Extract(RawCandidate{Text: "release-4.3 nightly"}); ok {
		t.Error("base exclusion keywords must be rejected before the function runs")
	}
}

func TestExtractorFor(t *testing.T) {
	d := NewDescriptor("widget", "https://example.com/", KindGeneric)
	ex, err := ExtractorFor(d)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := ex.(PolicyExtractor); !ok {
		t.Errorf("ExtractorFor() = %T, want PolicyExtractor", ex)
	}

	d = d.WithHints(Hints{Pattern: `v(\d+)`})
	ex, err = ExtractorFor(d)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := ex.(FuncExtractor); !ok {
		t.Errorf("ExtractorFor() = %T, want FuncExtractor", ex)
	}

	if _, err := ExtractorFor(d.WithHints(Hints{Pattern: "("})); err == nil {
		t.Error("expected error for invalid pattern")
	}
}

func TestExtractAllKeepsOrder(t *testing.T) {
	raws := []RawCandidate{{Text: "44"}, {Text: "rawhide"}, {Text: "42"}, {Text: "43"}}
	got := ExtractAll(PolicyExtractor{Policy: Lookup(SchemeNumbered)}, raws)
	want := []string{"44", "42", "43"}
	if len(got) != len(want) {
		t.Fatalf("ExtractAll() returned %d candidates, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].Version != want[i] {
			t.Errorf("ExtractAll()[%d] = %q, want %q", i, got[i].Version, want[i])
		}
	}
}
