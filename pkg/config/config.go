// Package config loads package lists and engine settings.
//
// Three formats are accepted, chosen by file extension:
//
//   - .toml: [settings] and [[package]] tables
//   - .yaml, .yml: settings and packages keys
//   - anything else: the legacy line format
//
// The legacy format is one "name = url" pair per line. Blank lines and lines
// starting with '#' are ignored; other malformed lines are skipped and
// reported in [File.Warnings].
//
//	# Package Configuration File
//	alpine = https://hub.docker.com/_/alpine
//	node = https://github.com/nodejs/node/releases
//
// Structured formats can also set the kind, version scheme and scraping
// hints of each package:
//
//	[settings]
//	window = 3
//	delay = "1s"
//
//	[[package]]
//	name = "curl"
//	url = "https://curl.se/download.html"
//	kind = "generic"
//	[package.hints]
//	version_selector = "table.download td a"
package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/tagscout/pkg/ecosystem"
	"github.com/matzehuels/tagscout/pkg/errors"
)

// Format names a configuration syntax.
type Format string

const (
	FormatLegacy Format = "legacy"
	FormatTOML   Format = "toml"
	FormatYAML   Format = "yaml"
)

// FormatFor returns the format implied by a file name.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatLegacy
}

// Settings are engine options set from a file. Zero values leave the
// built-in defaults in place.
type Settings struct {
	Timeout     time.Duration `toml:"timeout" yaml:"timeout"`
	RetryBudget int           `toml:"retry_budget" yaml:"retry_budget"`
	Delay       time.Duration `toml:"delay" yaml:"delay"`
	BackoffBase time.Duration `toml:"backoff_base" yaml:"backoff_base"`
	Window      int           `toml:"window" yaml:"window"`
	Cache       string        `toml:"cache" yaml:"cache"` // directory, redis:// URL or "none"
	CacheTTL    time.Duration `toml:"cache_ttl" yaml:"cache_ttl"`
	Store       string        `toml:"store" yaml:"store"` // run directory or mongodb:// URL
}

// Package is one configured package.
type Package struct {
	Name   string          `json:"name" toml:"name" yaml:"name"`
	URL    string          `json:"url" toml:"url" yaml:"url"`
	Kind   string          `json:"kind,omitempty" toml:"kind" yaml:"kind"`
	Scheme string          `json:"scheme,omitempty" toml:"scheme" yaml:"scheme"`
	Hints  ecosystem.Hints `json:"hints,omitzero" toml:"hints" yaml:"hints"`
}

// File is a parsed configuration file.
type File struct {
	Settings Settings  `toml:"settings" yaml:"settings"`
	Packages []Package `toml:"package" yaml:"packages"`

	// Warnings lists skipped legacy lines.
	Warnings []string `toml:"-" yaml:"-"`
}

// Load reads and parses the file at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "configuration file not found: %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", path)
	}
	return Parse(bytes.NewReader(data), FormatFor(path))
}

// Parse reads a configuration in the given format.
func Parse(r io.Reader, format Format) (*File, error) {
	switch format {
	case FormatTOML:
		var f File
		if _, err := toml.NewDecoder(r).Decode(&f); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse toml")
		}
		return &f, nil
	case FormatYAML:
		var f File
		if err := yaml.NewDecoder(r).Decode(&f); err != nil && err != io.EOF {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse yaml")
		}
		return &f, nil
	case FormatLegacy, "":
		return parseLegacy(r)
	}
	return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown config format %q", format)
}

// Descriptors validates every package and builds its descriptor. Kinds are
// detected when not set, and package names must be unique.
func (f *File) Descriptors() ([]ecosystem.Descriptor, error) {
	seen := make(map[string]bool, len(f.Packages))
	out := make([]ecosystem.Descriptor, 0, len(f.Packages))
	for i, p := range f.Packages {
		d, err := p.Descriptor()
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "package %d", i+1)
		}
		if seen[d.Name] {
			return nil, errors.New(errors.ErrCodeInvalidConfig, "duplicate package %q", d.Name)
		}
		seen[d.Name] = true
		out = append(out, d)
	}
	return out, nil
}

// Descriptor validates p and builds its descriptor.
func (p Package) Descriptor() (ecosystem.Descriptor, error) {
	name, rawURL := strings.TrimSpace(p.Name), strings.TrimSpace(p.URL)
	if err := errors.ValidatePackageName(name); err != nil {
		return ecosystem.Descriptor{}, err
	}
	if err := errors.ValidateURL(rawURL); err != nil {
		return ecosystem.Descriptor{}, fmt.Errorf("%s: %w", name, err)
	}

	var kind ecosystem.Kind
	if p.Kind != "" {
		k, err := ecosystem.ParseKind(p.Kind)
		if err != nil {
			return ecosystem.Descriptor{}, errors.Wrap(errors.ErrCodeInvalidKind, err, "%s", name)
		}
		kind = k
	}

	d := ecosystem.NewDescriptor(name, rawURL, kind)
	if p.Scheme != "" {
		s, err := ecosystem.ParseScheme(p.Scheme)
		if err != nil {
			return ecosystem.Descriptor{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s", name)
		}
		d = d.WithScheme(s)
	}
	if !p.Hints.IsZero() {
		d = d.WithHints(p.Hints)
	}
	return d, nil
}
