package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/tagscout/pkg/ecosystem"
	"github.com/matzehuels/tagscout/pkg/errors"
)

func TestFormatFor(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"packages.toml", FormatTOML},
		{"packages.YAML", FormatYAML},
		{"dir/packages.yml", FormatYAML},
		{"config.txt", FormatLegacy},
		{"config", FormatLegacy},
	}
	for _, tt := range tests {
		if got := FormatFor(tt.path); got != tt.want {
			t.Errorf("FormatFor(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestParseLegacy(t *testing.T) {
	input := `# Package Configuration File
opkg = https://downloads.yoctoproject.org/releases/opkg/
alpine=https://hub.docker.com/_/alpine

   node   =   https://github.com/nodejs/node/releases
this line is broken
terraform = https://releases.hashicorp.com/terraform/
`
	f, err := Parse(strings.NewReader(input), FormatLegacy)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if len(f.Packages) != 4 {
		t.Fatalf("got %d packages, want 4: %+v", len(f.Packages), f.Packages)
	}
	if len(f.Warnings) != 1 || !strings.Contains(f.Warnings[0], "line 6") {
		t.Errorf("warnings = %v", f.Warnings)
	}

	ds, err := f.Descriptors()
	if err != nil {
		t.Fatalf("Descriptors() error: %v", err)
	}
	want := []struct {
		name string
		kind ecosystem.Kind
	}{
		{"opkg", ecosystem.KindOpkg},
		{"alpine", ecosystem.KindDockerHub},
		{"node", ecosystem.KindGitHubReleases},
		{"terraform", ecosystem.KindHashiCorp},
	}
	for i, w := range want {
		if ds[i].Name != w.name || ds[i].Kind != w.kind {
			t.Errorf("descriptor[%d] = %s/%s, want %s/%s", i, ds[i].Name, ds[i].Kind, w.name, w.kind)
		}
	}
}

func TestKindDetection(t *testing.T) {
	tests := []struct {
		name, url string
		want      ecosystem.Kind
	}{
		{"anything", "https://hub.docker.com/_/redis", ecosystem.KindDockerHub},
		{"tool", "https://github.com/org/tool/releases", ecosystem.KindGitHubReleases},
		{"tool", "https://github.com/org/tool", ecosystem.KindGeneric},
		{"django", "https://pypi.org/project/Django/", ecosystem.KindPyPI},
		{"react", "https://www.npmjs.com/package/react", ecosystem.KindNPM},
		{"vault", "https://example.com/vault/", ecosystem.KindHashiCorp},
		{"postgres", "https://example.com/", ecosystem.KindDockerHub},
		{"curl", "https://curl.se/download.html", ecosystem.KindGeneric},
	}
	for _, tt := range tests {
		t.Run(tt.name+" "+tt.url, func(t *testing.T) {
			d, err := Package{Name: tt.name, URL: tt.url}.Descriptor()
			if err != nil {
				t.Fatalf("Descriptor() error: %v", err)
			}
			if d.Kind != tt.want {
				t.Errorf("kind = %s, want %s", d.Kind, tt.want)
			}
		})
	}
}

func TestParseTOML(t *testing.T) {
	input := `
[settings]
timeout = "5s"
retry_budget = 5
delay = "250ms"
window = 2
cache = "redis://localhost:6379/0"

[[package]]
name = "alpine"
url = "https://hub.docker.com/_/alpine"

[[package]]
name = "curl"
url = "https://curl.se/download.html"
kind = "generic"
scheme = "strict"
[package.hints]
version_selector = "table.download td a"
date_selector = "table.download td.date"
`
	f, err := Parse(strings.NewReader(input), FormatTOML)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	s := f.Settings
	if s.Timeout != 5*time.Second || s.RetryBudget != 5 || s.Delay != 250*time.Millisecond || s.Window != 2 {
		t.Errorf("settings = %+v", s)
	}
	if s.Cache != "redis://localhost:6379/0" {
		t.Errorf("cache = %q", s.Cache)
	}

	ds, err := f.Descriptors()
	if err != nil {
		t.Fatalf("Descriptors() error: %v", err)
	}
	curl := ds[1]
	if curl.Kind != ecosystem.KindGeneric || curl.Scheme != ecosystem.SchemeStrict {
		t.Errorf("curl = %s/%s", curl.Kind, curl.Scheme)
	}
	if curl.Hints.VersionSelector != "table.download td a" || curl.Hints.DateSelector == "" {
		t.Errorf("hints = %+v", curl.Hints)
	}
}

func TestParseYAML(t *testing.T) {
	input := `
settings:
  delay: 2s
  retry_budget: 4
packages:
  - name: debian
    url: https://hub.docker.com/_/debian
  - name: requests
    url: https://pypi.org/project/requests/
    kind: pypi
`
	f, err := Parse(strings.NewReader(input), FormatYAML)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if f.Settings.Delay != 2*time.Second || f.Settings.RetryBudget != 4 {
		t.Errorf("settings = %+v", f.Settings)
	}
	ds, err := f.Descriptors()
	if err != nil {
		t.Fatalf("Descriptors() error: %v", err)
	}
	if len(ds) != 2 || ds[0].Scheme != ecosystem.SchemeCodename || ds[1].Kind != ecosystem.KindPyPI {
		t.Errorf("descriptors = %+v", ds)
	}
}

func TestDescriptorsInvalid(t *testing.T) {
	tests := []struct {
		name string
		pkgs []Package
		code errors.Code
	}{
		{"bad url", []Package{{Name: "x", URL: "ftp://example.com"}}, errors.ErrCodeInvalidURL},
		{"no name", []Package{{URL: "https://example.com"}}, errors.ErrCodeInvalidPackage},
		{"bad kind", []Package{{Name: "x", URL: "https://example.com", Kind: "cvs"}}, errors.ErrCodeInvalidConfig},
		{"bad scheme", []Package{{Name: "x", URL: "https://example.com", Scheme: "roman"}}, errors.ErrCodeInvalidConfig},
		{"duplicate", []Package{
			{Name: "x", URL: "https://example.com/a"},
			{Name: "x", URL: "https://example.com/b"},
		}, errors.ErrCodeInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := (&File{Packages: tt.pkgs}).Descriptors()
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("error %v is not INVALID_CONFIG", err)
			}
			if tt.code != errors.ErrCodeInvalidConfig && !strings.Contains(err.Error(), string(tt.code)) {
				t.Errorf("error %v does not mention %s", err, tt.code)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "packages.yml")
	if err := os.WriteFile(path, []byte("packages:\n  - name: alpine\n    url: https://hub.docker.com/_/alpine\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	f, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(f.Packages) != 1 {
		t.Errorf("packages = %+v", f.Packages)
	}

	_, err = Load(filepath.Join(dir, "missing.txt"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Load(missing) = %v, want FILE_NOT_FOUND", err)
	}
}

func TestSampleRoundTrip(t *testing.T) {
	for _, format := range []Format{FormatLegacy, FormatTOML, FormatYAML} {
		t.Run(string(format), func(t *testing.T) {
			text, err := Sample(format)
			if err != nil {
				t.Fatalf("Sample() error: %v", err)
			}
			f, err := Parse(strings.NewReader(text), format)
			if err != nil {
				t.Fatalf("Parse(sample) error: %v", err)
			}
			ds, err := f.Descriptors()
			if err != nil {
				t.Fatalf("Descriptors() error: %v", err)
			}
			if len(ds) < len(samplePackages) {
				t.Errorf("sample has %d packages, want at least %d", len(ds), len(samplePackages))
			}
			if len(f.Warnings) != 0 {
				t.Errorf("sample produced warnings: %v", f.Warnings)
			}
		})
	}

	if _, err := Sample("ini"); err == nil {
		t.Error("Sample(ini) should fail")
	}
}
