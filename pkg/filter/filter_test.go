package filter

import (
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/tagscout/pkg/ecosystem"
	"github.com/matzehuels/tagscout/pkg/version"
)

func raws(texts ...string) []ecosystem.RawCandidate {
	out := make([]ecosystem.RawCandidate, len(texts))
	for i, t := range texts {
		out[i] = ecosystem.RawCandidate{Text: t}
	}
	return out
}

func resolve(t *testing.T, scheme ecosystem.Scheme, texts ...string) (string, bool) {
	t.Helper()
	p := ecosystem.Lookup(scheme)
	c, ok := Resolve(ecosystem.PolicyExtractor{Policy: p}, p, raws(texts...), Options{})
	return c.Version, ok
}

func TestResolveProperties(t *testing.T) {
	tests := []struct {
		name   string
		scheme ecosystem.Scheme
		tags   []string
		want   string
	}{
		{
			name:   "stability precedence",
			scheme: ecosystem.SchemeGeneric,
			tags:   []string{"1.19.0-beta.1", "1.19.0-rc.1", "1.18.4", "1.19.0-alpha.3"},
			want:   "1.18.4",
		},
		{
			name:   "specificity tie-break",
			scheme: ecosystem.SchemeRolling,
			tags:   []string{"3.22", "3.22.0", "3.21.5"},
			want:   "3.22.0",
		},
		{
			name:   "numeric ordering",
			scheme: ecosystem.SchemeImage,
			tags:   []string{"10.0.0", "9.9.9", "2.0.0", "1.99.99"},
			want:   "10.0.0",
		},
		{
			name:   "suffix stripping",
			scheme: ecosystem.SchemeSuffixed,
			tags:   []string{"1.18.4", "1.18.4-otp-27", "1.18.4-otp-27-alpine", "1.18.5"},
			want:   "1.18.5",
		},
		{
			name:   "noise rejection",
			scheme: ecosystem.SchemeCodename,
			tags:   []string{"20250705", "2025-07-05", "12.11", "2025w27"},
			want:   "12.11",
		},
		{
			name:   "contextual exclusion with markers",
			scheme: ecosystem.SchemeNumbered,
			tags:   []string{"41", "42", "43", "rawhide", "branched"},
			want:   "42",
		},
		{
			name:   "no exclusion without markers",
			scheme: ecosystem.SchemeNumbered,
			tags:   []string{"41", "42", "43"},
			want:   "43",
		},
		{
			name:   "new stable fedora release",
			scheme: ecosystem.SchemeNumbered,
			tags:   []string{"42", "44", "42"},
			want:   "44",
		},
		{
			name:   "ubuntu yy.mm",
			scheme: ecosystem.SchemeYYMM,
			tags:   []string{"24.04", "25.10", "24.10", "noble", "latest"},
			want:   "25.10",
		},
		{
			name:   "debian point release",
			scheme: ecosystem.SchemeCodename,
			tags:   []string{"12.11", "12.12", "12", "bookworm"},
			want:   "12.12",
		},
		{
			name:   "runtime variants dropped",
			scheme: ecosystem.SchemeRuntimeImage,
			tags:   []string{"22.4.1", "22.5.0-alpine", "22.5.0-slim", "22.4"},
			want:   "22.4.1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := resolve(t, tt.scheme, tt.tags...)
			if !ok {
				t.Fatal("no version resolved")
			}
			if got != tt.want {
				t.Errorf("resolved %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResolveSuffixStrippingLeavesNoSuffix(t *testing.T) {
	p := ecosystem.Lookup(ecosystem.SchemeSuffixed)
	cands := Apply(p, nil, ecosystem.ExtractAll(ecosystem.PolicyExtractor{Policy: p},
		raws("1.18.4", "1.18.4-otp-27", "1.18.4-otp-27-alpine", "1.18.5")), Options{})
	for _, c := range cands {
		for _, bad := range []string{"otp", "alpine"} {
			if strings.Contains(c.Version, bad) {
				t.Errorf("candidate %q still carries %q", c.Version, bad)
			}
		}
	}
}

func TestResolveDeterministic(t *testing.T) {
	schemes := []ecosystem.Scheme{
		ecosystem.SchemeGeneric, ecosystem.SchemeImage, ecosystem.SchemeRuntimeImage,
		ecosystem.SchemeRolling, ecosystem.SchemeNumbered, ecosystem.SchemeYYMM,
		ecosystem.SchemeCodename, ecosystem.SchemeSuffixed, ecosystem.SchemeLoose,
		ecosystem.SchemeStrict,
	}
	tags := []string{"3.22", "3.22.0", "42", "43", "rawhide", "24.04", "12.11", "1.18.4-otp-27", "1.9.3", "bookworm"}
	for _, s := range schemes {
		first, ok1 := resolve(t, s, tags...)
		second, ok2 := resolve(t, s, tags...)
		if first != second || ok1 != ok2 {
			t.Errorf("%s: resolution not deterministic: %q/%v vs %q/%v", s, first, ok1, second, ok2)
		}
	}
}

func TestResolveEmpty(t *testing.T) {
	if v, ok := resolve(t, ecosystem.SchemeNumbered, "rawhide", "latest", "branched"); ok {
		t.Errorf("expected no version, got %q", v)
	}
}

func TestExcludeIsolatedMax(t *testing.T) {
	p := ecosystem.Lookup(ecosystem.SchemeNumbered)
	cands := []version.Candidate{
		version.NewCandidate("42", "42"),
		version.NewCandidate("43", "43"),
	}
	// max is not isolated (43 == 42+1)
	got := ExcludeIsolatedMax(p, []string{"42", "43", "rawhide"}, cands)
	if len(got) != 2 {
		t.Errorf("adjacent maximum should be kept, got %d candidates", len(got))
	}

	// policy without the heuristic
	generic := ecosystem.Lookup(ecosystem.SchemeGeneric)
	cands = append(cands, version.NewCandidate("45", "45"))
	if got := ExcludeIsolatedMax(generic, []string{"rawhide"}, cands); len(got) != 3 {
		t.Errorf("generic policy must not exclude, got %d candidates", len(got))
	}
}

func TestExcludeIsolatedMaxMeasuresFromMinimum(t *testing.T) {
	p := ecosystem.Lookup(ecosystem.SchemeNumbered)
	tests := []struct {
		name string
		nums []string
		raw  []string
		want []string
	}{
		{"consecutive releases with rawhide", []string{"41", "42", "43"}, []string{"41", "42", "43", "rawhide", "branched"}, []string{"41", "42"}},
		{"gap below the runner-up", []string{"38", "42", "43"}, []string{"38", "42", "43", "rawhide"}, []string{"38", "42"}},
		{"no development markers", []string{"41", "42", "43"}, []string{"41", "42", "43"}, []string{"41", "42", "43"}},
		{"single candidate", []string{"43"}, []string{"43", "rawhide"}, []string{"43"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cands []version.Candidate
			for _, n := range tt.nums {
				cands = append(cands, version.NewCandidate(n, n))
			}
			got := ExcludeIsolatedMax(p, tt.raw, cands)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d candidates, want %v", len(got), tt.want)
			}
			for i, c := range got {
				if c.Version != tt.want[i] {
					t.Errorf("candidate %d = %s, want %s", i, c.Version, tt.want[i])
				}
			}
		})
	}
}

func TestRecent(t *testing.T) {
	now := time.Date(2025, 7, 5, 0, 0, 0, 0, time.UTC)
	dated := func(v string, daysAgo int) version.Candidate {
		c := version.NewCandidate(v, v)
		d := now.AddDate(0, 0, -daysAgo)
		c.ReleaseDate = &d
		return c
	}

	t.Run("below threshold unchanged", func(t *testing.T) {
		cands := []version.Candidate{dated("1.0.0", 400), dated("1.1.0", 1)}
		if got := Recent(cands, now, DefaultRecency); len(got) != 2 {
			t.Errorf("got %d candidates, want 2", len(got))
		}
	})

	t.Run("narrows large sets", func(t *testing.T) {
		var cands []version.Candidate
		for i := range 20 {
			cands = append(cands, dated("1.0."+strconv.Itoa(i), 400+i))
		}
		for i := range 5 {
			cands = append(cands, dated("2.0."+strconv.Itoa(i), i*10))
		}
		undated := version.NewCandidate("0.9.0", "0.9.0")
		cands = append(cands, undated)

		got := Recent(cands, now, DefaultRecency)
		if len(got) != 6 {
			t.Fatalf("got %d candidates, want 6", len(got))
		}
	})

	t.Run("falls back when too few survive", func(t *testing.T) {
		var cands []version.Candidate
		for i := range 22 {
			cands = append(cands, dated("1.0."+strconv.Itoa(i), 200+i))
		}
		cands = append(cands, dated("9.9.9", 1))
		if got := Recent(cands, now, DefaultRecency); len(got) != len(cands) {
			t.Errorf("got %d candidates, want full set of %d", len(got), len(cands))
		}
	})
}
