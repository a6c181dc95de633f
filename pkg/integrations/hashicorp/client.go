// Package hashicorp reads product releases from the HashiCorp releases API
// (https://api.releases.hashicorp.com).
package hashicorp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/matzehuels/tagscout/pkg/integrations"
)

// DefaultBaseURL is the releases API origin.
const DefaultBaseURL = "https://api.releases.hashicorp.com"

// Release is one product release.
type Release struct {
	Version      string `json:"version"`
	Created      string `json:"timestamp_created"`
	IsPrerelease bool   `json:"is_prerelease"`
	URLChangelog string `json:"url_changelog"`
}

type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates a releases API client on top of base. An empty baseURL
// uses [DefaultBaseURL].
func NewClient(base *integrations.Client, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		Client:  base.WithNamespace("hashicorp"),
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

// ReleasesURL returns the API URL listing the latest releases of product.
func (c *Client) ReleasesURL(product string) string {
	return fmt.Sprintf("%s/v1/releases/%s?limit=20", c.baseURL, strings.ToLower(product))
}

// FetchReleases lists the most recent releases of product, newest first.
func (c *Client) FetchReleases(ctx context.Context, product string) ([]Release, error) {
	var data []Release
	if err := c.GetJSON(ctx, c.ReleasesURL(product), nil, &data); err != nil {
		if errors.Is(err, integrations.ErrNotFound) {
			return nil, fmt.Errorf("%w: hashicorp product %s", err, product)
		}
		return nil, err
	}
	return data, nil
}

// ListReleases returns the recent releases of product.
func (c *Client) ListReleases(ctx context.Context, product string) ([]integrations.Release, error) {
	data, err := c.FetchReleases(ctx, product)
	if err != nil {
		return nil, err
	}
	out := make([]integrations.Release, len(data))
	for i, r := range data {
		out[i] = integrations.Release{
			Version:    r.Version,
			Published:  r.Created,
			Prerelease: r.IsPrerelease,
			URL:        fmt.Sprintf("https://releases.hashicorp.com/%s/%s/", strings.ToLower(product), r.Version),
		}
	}
	return out, nil
}

// ProductFromURL returns the product segment of a release tree URL such as
// https://releases.hashicorp.com/terraform/.
func ProductFromURL(rawURL string) string {
	rest := rawURL
	if i := strings.Index(rest, "://"); i >= 0 {
		rest = rest[i+3:]
	}
	segs := strings.Split(strings.Trim(rest, "/"), "/")
	if len(segs) < 2 {
		return ""
	}
	return strings.ToLower(segs[1])
}
