package crates

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/matzehuels/tagscout/pkg/integrations"
)

// DefaultBaseURL is the crates.io API root.
const DefaultBaseURL = "https://crates.io/api/v1"

// Client provides access to the crates.io registry API.
//
// crates.io rejects requests without a descriptive User-Agent; the client
// sets one when the base client does not.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates a crates.io client on top of base. An empty baseURL
// uses [DefaultBaseURL].
func NewClient(base *integrations.Client, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		Client:  base.WithNamespace("crates"),
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

// ListReleases returns every published version of crate, newest first as
// ordered by the registry. The crate name is case-sensitive.
func (c *Client) ListReleases(ctx context.Context, crate string) ([]integrations.Release, error) {
	var data crateResponse
	url := fmt.Sprintf("%s/crates/%s", c.baseURL, crate)
	headers := map[string]string{"User-Agent": "tagscout (https://github.com/matzehuels/tagscout)"}
	if err := c.GetJSON(ctx, url, headers, &data); err != nil {
		if errors.Is(err, integrations.ErrNotFound) {
			return nil, fmt.Errorf("%w: crate %s", err, crate)
		}
		return nil, err
	}

	out := make([]integrations.Release, 0, len(data.Versions))
	for _, v := range data.Versions {
		out = append(out, integrations.Release{
			Version:   v.Num,
			Published: v.CreatedAt,
			Yanked:    v.Yanked,
			URL:       fmt.Sprintf("https://crates.io/crates/%s/%s", crate, v.Num),
		})
	}
	return out, nil
}

type crateResponse struct {
	Crate struct {
		Name             string `json:"name"`
		MaxStableVersion string `json:"max_stable_version"`
	} `json:"crate"`
	Versions []struct {
		Num       string `json:"num"`
		CreatedAt string `json:"created_at"`
		Yanked    bool   `json:"yanked"`
	} `json:"versions"`
}
