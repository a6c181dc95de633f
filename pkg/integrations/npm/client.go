package npm

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/matzehuels/tagscout/pkg/integrations"
)

// DefaultBaseURL is the npm registry origin.
const DefaultBaseURL = "https://registry.npmjs.org"

type Package struct {
	Name     string
	Latest   string // dist-tags.latest
	Releases []integrations.Release // Published comes from the registry "time" map
}

type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates an npm registry client on top of base. An empty baseURL
// uses [DefaultBaseURL].
func NewClient(base *integrations.Client, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		Client:  base.WithNamespace("npm"),
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

// PackageURL returns the registry document URL of pkg. Scoped names keep
// their "@" and have the slash escaped.
func (c *Client) PackageURL(pkg string) string {
	pkg = strings.ToLower(strings.TrimSpace(pkg))
	if strings.HasPrefix(pkg, "@") {
		return c.baseURL + "/@" + integrations.PathEscape(pkg[1:])
	}
	return c.baseURL + "/" + integrations.PathEscape(pkg)
}

func (c *Client) FetchPackage(ctx context.Context, pkg string) (*Package, error) {
	var data registryResponse
	if err := c.GetJSON(ctx, c.PackageURL(pkg), nil, &data); err != nil {
		if errors.Is(err, integrations.ErrNotFound) {
			return nil, fmt.Errorf("%w: npm package %s", err, pkg)
		}
		return nil, err
	}

	p := &Package{Name: data.Name, Latest: data.DistTags.Latest}
	for v := range data.Versions {
		p.Releases = append(p.Releases, integrations.Release{Version: v, Published: data.Time[v]})
	}
	sort.Slice(p.Releases, func(i, j int) bool { return p.Releases[i].Version < p.Releases[j].Version })
	return p, nil
}

// ListReleases returns every published version of pkg.
func (c *Client) ListReleases(ctx context.Context, pkg string) ([]integrations.Release, error) {
	p, err := c.FetchPackage(ctx, pkg)
	if err != nil {
		return nil, err
	}
	return p.Releases, nil
}

type registryResponse struct {
	Name     string              `json:"name"`
	DistTags distTags            `json:"dist-tags"`
	Versions map[string]struct{} `json:"versions"`
	Time     map[string]string   `json:"time"`
}

type distTags struct {
	Latest string `json:"latest"`
}
