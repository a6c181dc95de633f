package acquire

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/tagscout/pkg/dom"
	"github.com/matzehuels/tagscout/pkg/ecosystem"
	"github.com/matzehuels/tagscout/pkg/integrations"
	"github.com/matzehuels/tagscout/pkg/integrations/crates"
	"github.com/matzehuels/tagscout/pkg/integrations/dockerhub"
	"github.com/matzehuels/tagscout/pkg/integrations/github"
	"github.com/matzehuels/tagscout/pkg/integrations/goproxy"
	"github.com/matzehuels/tagscout/pkg/integrations/hashicorp"
	"github.com/matzehuels/tagscout/pkg/integrations/maven"
	"github.com/matzehuels/tagscout/pkg/integrations/npm"
	"github.com/matzehuels/tagscout/pkg/integrations/packagist"
	"github.com/matzehuels/tagscout/pkg/integrations/pypi"
	"github.com/matzehuels/tagscout/pkg/integrations/rubygems"
)

// ReleasePage is an upstream release page used to cross-check an official
// image when Docker Hub yields nothing.
type ReleasePage struct {
	Name string
	URL  string
}

// DefaultReleasePages maps official images to their upstream release pages.
var DefaultReleasePages = map[string]ReleasePage{
	"alpine": {Name: "Alpine Linux", URL: "https://alpinelinux.org/releases/"},
	"debian": {Name: "Debian Releases", URL: "https://www.debian.org/releases/"},
	"ubuntu": {Name: "Ubuntu Releases", URL: "https://releases.ubuntu.com/"},
	"fedora": {Name: "Fedora Releases", URL: "https://fedoraproject.org/wiki/Releases"},
}

// EnvOptions configures [NewEnv]. The zero value talks to the public
// services with the default release pages.
type EnvOptions struct {
	GitHubToken string

	// BaseURLs overrides the API origin of a kind, e.g. to point Docker Hub
	// at a mirror. Missing kinds use the client defaults.
	BaseURLs map[ecosystem.Kind]string

	// ReleasePages overrides DefaultReleasePages when non-nil.
	ReleasePages map[string]ReleasePage

	Now    func() time.Time // reference time of recency filters, nil uses time.Now
	Logger *log.Logger      // nil uses log.Default()
}

// Env holds the fetch collaborators every strategy draws from. One Env is
// shared by all packages of a run; it is safe for concurrent use.
type Env struct {
	HTTP      *integrations.Client
	DockerHub *dockerhub.Client
	GitHub    *github.Client
	PyPI      *pypi.Client
	NPM       *npm.Client
	HashiCorp *hashicorp.Client
	Crates    *crates.Client
	RubyGems  *rubygems.Client
	GoProxy   *goproxy.Client
	Maven     *maven.Client
	Packagist *packagist.Client

	ReleasePages map[string]ReleasePage
	Now          func() time.Time
	Logger       *log.Logger
}

// NewEnv builds the registry clients on top of base.
func NewEnv(base *integrations.Client, opts EnvOptions) *Env {
	url := func(k ecosystem.Kind) string { return opts.BaseURLs[k] }

	e := &Env{
		HTTP:         base.WithNamespace("page"),
		DockerHub:    dockerhub.NewClient(base, url(ecosystem.KindDockerHub)),
		GitHub:       github.NewClient(base, url(ecosystem.KindGitHubReleases), opts.GitHubToken),
		PyPI:         pypi.NewClient(base, url(ecosystem.KindPyPI)),
		NPM:          npm.NewClient(base, url(ecosystem.KindNPM)),
		HashiCorp:    hashicorp.NewClient(base, url(ecosystem.KindHashiCorp)),
		Crates:       crates.NewClient(base, url(ecosystem.KindCrates)),
		RubyGems:     rubygems.NewClient(base, url(ecosystem.KindRubyGems)),
		GoProxy:      goproxy.NewClient(base, url(ecosystem.KindGoProxy)),
		Maven:        maven.NewClient(base, url(ecosystem.KindMaven)),
		Packagist:    packagist.NewClient(base, url(ecosystem.KindPackagist)),
		ReleasePages: opts.ReleasePages,
		Now:          opts.Now,
		Logger:       opts.Logger,
	}
	if e.ReleasePages == nil {
		e.ReleasePages = DefaultReleasePages
	}
	return e
}

// Resolve runs the chain of d's kind.
func (e *Env) Resolve(ctx context.Context, d ecosystem.Descriptor) (*Result, error) {
	return e.ChainFor(d.Kind).Resolve(ctx, d)
}

func (e *Env) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

func (e *Env) logger() *log.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return log.Default()
}

// page fetches and parses an HTML page.
func (e *Env) page(ctx context.Context, pageURL string) (*dom.Document, error) {
	text, err := e.HTTP.GetText(ctx, pageURL, map[string]string{"Accept": "text/html,application/xhtml+xml"})
	if err != nil {
		return nil, err
	}
	return dom.ParseWithBase(text, pageURL)
}
