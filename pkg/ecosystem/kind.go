package ecosystem

import (
	"fmt"
	"net/url"
	"strings"
)

// Kind is the family of source a package publishes versions through.
type Kind string

const (
	KindDockerHub      Kind = "docker-hub"
	KindGitHubReleases Kind = "github-releases"
	KindPyPI           Kind = "pypi"
	KindNPM            Kind = "npm"
	KindHashiCorp      Kind = "hashicorp"
	KindOpkg           Kind = "opkg"
	KindCrates         Kind = "crates"
	KindRubyGems       Kind = "rubygems"
	KindGoProxy        Kind = "goproxy"
	KindMaven          Kind = "maven"
	KindPackagist      Kind = "packagist"
	KindGeneric        Kind = "generic"
)

// Kinds lists every supported kind in a stable order.
var Kinds = []Kind{
	KindDockerHub,
	KindGitHubReleases,
	KindPyPI,
	KindNPM,
	KindHashiCorp,
	KindOpkg,
	KindCrates,
	KindRubyGems,
	KindGoProxy,
	KindMaven,
	KindPackagist,
	KindGeneric,
}

// kindAliases maps alternative spellings accepted in configuration files.
var kindAliases = map[string]Kind{
	"alpine":    KindDockerHub,
	"docker":    KindDockerHub,
	"dockerhub": KindDockerHub,
	"github":    KindGitHubReleases,
	"hashi":     KindHashiCorp,
	"listing":   KindOpkg,
	"cargo":     KindCrates,
	"gem":       KindRubyGems,
	"go":        KindGoProxy,
	"composer":  KindPackagist,
}

// ParseKind converts a configuration string into a Kind.
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	if k, ok := kindAliases[s]; ok {
		return k, nil
	}
	return "", fmt.Errorf("unknown package kind %q", s)
}

var hashicorpProducts = []string{"vagrant", "terraform", "consul", "vault", "nomad", "packer", "boundary", "waypoint"}

var dockerImages = []string{"alpine", "ubuntu", "fedora", "centos", "debian", "nginx", "node", "python", "redis", "mysql", "postgres", "elixir", "swift"}

// DetectKind infers the kind of a package from its URL, then from its name.
// URL hosts are the most reliable signal; names are matched by substring
// against well-known products and official images.
func DetectKind(name, rawURL string) Kind {
	u := strings.ToLower(rawURL)
	n := strings.ToLower(name)

	switch {
	case strings.Contains(u, "hub.docker.com"):
		return KindDockerHub
	case strings.Contains(u, "github.com") && strings.Contains(u, "/releases"):
		return KindGitHubReleases
	case strings.Contains(u, "releases.hashicorp.com"):
		return KindHashiCorp
	case strings.Contains(u, "pypi.org") || strings.Contains(u, "pypi.python.org"):
		return KindPyPI
	case strings.Contains(u, "npmjs.com") || strings.Contains(u, "npm.org"):
		return KindNPM
	case strings.Contains(u, "crates.io"):
		return KindCrates
	case strings.Contains(u, "rubygems.org"):
		return KindRubyGems
	case strings.Contains(u, "proxy.golang.org") || strings.Contains(u, "pkg.go.dev"):
		return KindGoProxy
	case strings.Contains(u, "repo1.maven.org") || strings.Contains(u, "search.maven.org") || strings.Contains(u, "central.sonatype.com"):
		return KindMaven
	case strings.Contains(u, "packagist.org"):
		return KindPackagist
	case strings.Contains(n, "opkg") || strings.Contains(u, "opkg"):
		return KindOpkg
	}
	if containsAny(n, hashicorpProducts) {
		return KindHashiCorp
	}
	if containsAny(n, dockerImages) {
		return KindDockerHub
	}
	return KindGeneric
}

// Hints carries optional per-package scraping configuration for generic
// sources. Empty fields fall back to built-in behavior.
type Hints struct {
	VersionSelector string `json:"version_selector,omitempty" toml:"version_selector" yaml:"version_selector"`
	DateSelector    string `json:"date_selector,omitempty" toml:"date_selector" yaml:"date_selector"`
	LinkSelector    string `json:"link_selector,omitempty" toml:"link_selector" yaml:"link_selector"`
	Pattern         string `json:"pattern,omitempty" toml:"pattern" yaml:"pattern"`
}

// IsZero reports whether no hint is set.
func (h Hints) IsZero() bool { return h == Hints{} }

// Descriptor identifies one package to resolve. It is created once from
// configuration and never mutated.
type Descriptor struct {
	Name   string `json:"name"`
	URL    string `json:"url"`
	Kind   Kind   `json:"kind"`
	Scheme Scheme `json:"scheme"`
	Hints  Hints  `json:"hints,omitzero"`
}

// NewDescriptor builds a descriptor, detecting the kind when kind is empty
// and deriving the version scheme.
func NewDescriptor(name, rawURL string, kind Kind) Descriptor {
	name = strings.TrimSpace(name)
	rawURL = strings.TrimSpace(rawURL)
	if kind == "" {
		kind = DetectKind(name, rawURL)
	}
	d := Descriptor{Name: name, URL: rawURL, Kind: kind}
	d.Scheme = SchemeFor(d)
	return d
}

// WithScheme returns a copy of d using scheme s.
func (d Descriptor) WithScheme(s Scheme) Descriptor {
	d.Scheme = s
	return d
}

// WithHints returns a copy of d carrying h.
func (d Descriptor) WithHints(h Hints) Descriptor {
	d.Hints = h
	return d
}

// Validate checks that the descriptor names a package and an absolute URL.
func (d Descriptor) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("package name is empty")
	}
	u, err := url.Parse(d.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("package %s: invalid url %q", d.Name, d.URL)
	}
	return nil
}

// Image returns the Docker Hub repository name for the package: the path
// segment after "/_/" or "/r/library/" when the URL has one, otherwise the
// lowercased package name.
func (d Descriptor) Image() string {
	if u, err := url.Parse(d.URL); err == nil {
		segs := strings.Split(strings.Trim(u.Path, "/"), "/")
		for i := 0; i+1 < len(segs); i++ {
			if segs[i] == "_" || (segs[i] == "library" && i > 0 && segs[i-1] == "r") {
				return strings.ToLower(segs[i+1])
			}
		}
	}
	return strings.ToLower(d.Name)
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
