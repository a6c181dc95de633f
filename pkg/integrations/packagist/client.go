package packagist

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/matzehuels/tagscout/pkg/integrations"
)

// DefaultBaseURL is the Packagist metadata repository.
const DefaultBaseURL = "https://repo.packagist.org"

// Client reads Composer v2 metadata from Packagist.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates a Packagist client on top of base. An empty baseURL
// uses [DefaultBaseURL].
func NewClient(base *integrations.Client, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		Client:  base.WithNamespace("packagist"),
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

// ListReleases returns the tagged releases of pkg ("vendor/name"). Branch
// aliases such as "dev-main" are skipped.
func (c *Client) ListReleases(ctx context.Context, pkg string) ([]integrations.Release, error) {
	pkg = strings.ToLower(strings.TrimSpace(pkg))
	if !strings.Contains(pkg, "/") {
		return nil, fmt.Errorf("packagist package %q: want vendor/name", pkg)
	}

	var data p2Response
	if err := c.GetJSON(ctx, fmt.Sprintf("%s/p2/%s.json", c.baseURL, pkg), nil, &data); err != nil {
		if errors.Is(err, integrations.ErrNotFound) {
			return nil, fmt.Errorf("%w: packagist package %s", err, pkg)
		}
		return nil, err
	}

	var out []integrations.Release
	for _, v := range data.Packages[pkg] {
		if strings.HasPrefix(v.Version, "dev-") || strings.HasSuffix(v.Version, "-dev") {
			continue
		}
		out = append(out, integrations.Release{
			Version:   strings.TrimPrefix(v.Version, "v"),
			Published: v.Time,
			URL:       fmt.Sprintf("https://packagist.org/packages/%s#%s", pkg, v.Version),
		})
	}
	return out, nil
}

type p2Response struct {
	Packages map[string][]p2Version `json:"packages"`
}

type p2Version struct {
	Version string `json:"version"`
	Time    string `json:"time"`
}
