package acquire

import (
	"context"
	"net/url"
	"regexp"
	"strings"

	"github.com/matzehuels/tagscout/pkg/ecosystem"
	"github.com/matzehuels/tagscout/pkg/filter"
	"github.com/matzehuels/tagscout/pkg/integrations"
)

// lister is the shape shared by the registry clients.
type lister func(ctx context.Context, name string) ([]integrations.Release, error)

// registryAPI resolves from a registry's release list.
type registryAPI struct {
	name string
	list lister
	pkg  func(d ecosystem.Descriptor) string
}

func (s registryAPI) Name() string { return s.name }

func (s registryAPI) Resolve(ctx context.Context, d ecosystem.Descriptor) (*Result, error) {
	ex, err := extractorOr(d, exactVersion)
	if err != nil {
		return nil, err
	}
	rels, err := s.list(ctx, s.pkg(d))
	if err != nil {
		return nil, err
	}
	return pick(ex, d, releaseRaws(rels, s.name), filter.Options{}), nil
}

// releaseRaws converts registry releases into candidates. Yanked releases
// are dropped, and so are releases flagged as prereleases when at least one
// regular release exists.
func releaseRaws(rels []integrations.Release, origin string) []ecosystem.RawCandidate {
	hasFinal := false
	for _, r := range rels {
		if !r.Prerelease && !r.Yanked {
			hasFinal = true
			break
		}
	}
	raws := make([]ecosystem.RawCandidate, 0, len(rels))
	for _, r := range rels {
		if r.Yanked || (hasFinal && r.Prerelease) {
			continue
		}
		raws = append(raws, ecosystem.RawCandidate{
			Text:      r.Version,
			Timestamp: r.Published,
			Origin:    origin,
			Locator:   r.URL,
		})
	}
	return raws
}

// pathName returns the package name following marker in the URL path, such
// as "requests" in https://pypi.org/project/requests/. parts is the number
// of segments the name spans. It falls back to the descriptor name.
func pathName(marker string, parts int) func(d ecosystem.Descriptor) string {
	return func(d ecosystem.Descriptor) string {
		if name, ok := afterSegment(d.URL, marker, parts); ok {
			return name
		}
		return d.Name
	}
}

func afterSegment(rawURL, marker string, parts int) (string, bool) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", false
	}
	segs := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i, s := range segs {
		if s != marker {
			continue
		}
		rest, n := segs[i+1:], parts
		if len(rest) > 0 && strings.HasPrefix(rest[0], "@") {
			n++ // npm scope
		}
		if len(rest) < n || rest[0] == "" {
			return "", false
		}
		return strings.Join(rest[:n], "/"), true
	}
	return "", false
}

// goModulePath reads the module path from a pkg.go.dev or module proxy URL.
func goModulePath(d ecosystem.Descriptor) string {
	u, err := url.Parse(d.URL)
	if err != nil || u.Host == "" {
		return d.Name
	}
	p := strings.Trim(u.Path, "/")
	if i := strings.Index(p, "/@v/"); i >= 0 {
		p = p[:i]
	}
	if p == "" {
		return d.Name
	}
	return p
}

// mavenCoordinate reads group:artifact from a Maven Central URL. Repository
// paths (/maven2/org/slf4j/slf4j-api/) and Sonatype artifact pages
// (/artifact/org.slf4j/slf4j-api) are understood.
func mavenCoordinate(d ecosystem.Descriptor) string {
	u, err := url.Parse(d.URL)
	if err != nil {
		return d.Name
	}
	segs := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i, s := range segs {
		switch {
		case s == "artifact" && i+2 < len(segs):
			return segs[i+1] + ":" + segs[i+2]
		case s == "maven2":
			rest := segs[i+1:]
			if n := len(rest); n > 0 && strings.HasSuffix(rest[n-1], ".xml") {
				rest = rest[:n-1]
			}
			if n := len(rest); n >= 2 {
				return strings.Join(rest[:n-1], ".") + ":" + rest[n-1]
			}
		}
	}
	return d.Name
}

func pypiChain(e *Env) []Strategy {
	return []Strategy{
		registryAPI{name: "pypi-api", list: e.PyPI.ListReleases, pkg: pathName("project", 1)},
		pageExtract{env: e, name: "pypi-header", extract: pypiHeader},
		textScan{env: e},
	}
}

func npmChain(e *Env) []Strategy {
	return []Strategy{
		registryAPI{name: "npm-api", list: e.NPM.ListReleases, pkg: pathName("package", 1)},
		pageExtract{env: e, name: "npm-embedded", extract: npmEmbedded},
		textScan{env: e},
	}
}

func cratesChain(e *Env) []Strategy {
	return []Strategy{
		registryAPI{name: "crates-api", list: e.Crates.ListReleases, pkg: pathName("crates", 1)},
		textScan{env: e},
	}
}

func rubygemsChain(e *Env) []Strategy {
	return []Strategy{
		registryAPI{name: "rubygems-api", list: e.RubyGems.ListReleases, pkg: pathName("gems", 1)},
		textScan{env: e},
	}
}

func goproxyChain(e *Env) []Strategy {
	return []Strategy{
		registryAPI{name: "goproxy-list", list: e.GoProxy.ListReleases, pkg: goModulePath},
		textScan{env: e},
	}
}

func mavenChain(e *Env) []Strategy {
	return []Strategy{
		registryAPI{name: "maven-metadata", list: e.Maven.ListReleases, pkg: mavenCoordinate},
		textScan{env: e},
	}
}

func packagistChain(e *Env) []Strategy {
	return []Strategy{
		registryAPI{name: "packagist-api", list: e.Packagist.ListReleases, pkg: pathName("packages", 2)},
		textScan{env: e},
	}
}

// pageExtract runs a custom extraction function over the raw page source.
// A pattern hint on the descriptor replaces the function.
type pageExtract struct {
	env     *Env
	name    string
	extract func(html string) []ecosystem.RawCandidate
}

func (s pageExtract) Name() string { return s.name }

func (s pageExtract) Resolve(ctx context.Context, d ecosystem.Descriptor) (*Result, error) {
	html, err := s.env.HTTP.GetText(ctx, d.URL, map[string]string{"Accept": "text/html"})
	if err != nil {
		return nil, err
	}
	ex, err := extractorOr(d, ecosystem.PatternExtractor(leadingVersion))
	if err != nil {
		return nil, err
	}
	raws := s.extract(html)
	for i := range raws {
		raws[i].Origin = s.name
	}
	return pick(ex, d, raws, filter.Options{}), nil
}

var (
	// exactVersion accepts release names that are a version as a whole.
	// "3.0.0b1" is a different release than the "3.0.0" it starts with.
	exactVersion = ecosystem.PatternExtractor(regexp.MustCompile(`^v?(\d+(?:\.\d+)+(?:-[\w.-]+)?)$`))

	leadingVersion    = regexp.MustCompile(`^v?(\d+(?:\.\d+)+(?:-[\w.-]+)?)`)
	pypiHeaderPattern = regexp.MustCompile(`class="package-header__name">([^<]+)</span>\s*([^<]+)`)
	npmVersionPattern = regexp.MustCompile(`"version"\s*:\s*"([^"]+)"`)
)

// pypiHeader reads the version printed next to the project name in the
// project page header, e.g. `<span class="package-header__name">requests</span> 2.32.3`.
func pypiHeader(html string) []ecosystem.RawCandidate {
	if m := pypiHeaderPattern.FindStringSubmatch(html); m != nil {
		if v := strings.TrimSpace(m[2]); v != "" {
			return []ecosystem.RawCandidate{{Text: v}}
		}
	}
	return nil
}

// npmEmbedded collects the "version" fields of JSON embedded in the page.
func npmEmbedded(html string) []ecosystem.RawCandidate {
	var raws []ecosystem.RawCandidate
	for _, m := range npmVersionPattern.FindAllStringSubmatch(html, -1) {
		raws = append(raws, ecosystem.RawCandidate{Text: m[1]})
	}
	return raws
}
