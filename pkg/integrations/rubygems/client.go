package rubygems

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/matzehuels/tagscout/pkg/integrations"
)

// DefaultBaseURL is the RubyGems API root.
const DefaultBaseURL = "https://rubygems.org/api/v1"

// Client provides access to the RubyGems registry API.
// All methods are safe for concurrent use by multiple goroutines.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates a RubyGems client on top of base. An empty baseURL uses
// [DefaultBaseURL].
func NewClient(base *integrations.Client, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		Client:  base.WithNamespace("rubygems"),
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

// ListReleases returns every published version of gem. The name is
// normalized to lowercase.
func (c *Client) ListReleases(ctx context.Context, gem string) ([]integrations.Release, error) {
	gem = strings.ToLower(strings.TrimSpace(gem))

	var data []versionResponse
	if err := c.GetJSON(ctx, fmt.Sprintf("%s/versions/%s.json", c.baseURL, gem), nil, &data); err != nil {
		if errors.Is(err, integrations.ErrNotFound) {
			return nil, fmt.Errorf("%w: gem %s", err, gem)
		}
		return nil, err
	}

	out := make([]integrations.Release, 0, len(data))
	for _, v := range data {
		if v.Platform != "" && v.Platform != "ruby" {
			continue // platform builds repeat the same version
		}
		out = append(out, integrations.Release{
			Version:    v.Number,
			Published:  v.CreatedAt,
			Prerelease: v.Prerelease,
			URL:        fmt.Sprintf("https://rubygems.org/gems/%s/versions/%s", gem, v.Number),
		})
	}
	return out, nil
}

type versionResponse struct {
	Number     string `json:"number"`
	CreatedAt  string `json:"created_at"`
	Prerelease bool   `json:"prerelease"`
	Platform   string `json:"platform"`
}
