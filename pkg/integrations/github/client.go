package github

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/matzehuels/tagscout/pkg/integrations"
)

// DefaultBaseURL is the GitHub REST API origin.
const DefaultBaseURL = "https://api.github.com"

var repoURLPattern = regexp.MustCompile(`https?://github\.com/([^/]+)/([^/]+?)(?:\.git)?(?:[/?#]|$)`)

// Client reads releases from the GitHub REST API, optionally authenticated.
type Client struct {
	*integrations.Client
	baseURL string
	headers map[string]string
}

// NewClient creates a GitHub client on top of base. Pass an empty token for
// unauthenticated requests (60 requests per hour). An empty baseURL uses
// [DefaultBaseURL].
func NewClient(base *integrations.Client, baseURL, token string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	headers := map[string]string{"Accept": "application/vnd.github+json"}
	if token != "" {
		headers["Authorization"] = "Bearer " + token
	}
	return &Client{
		Client:  base.WithNamespace("github"),
		baseURL: strings.TrimSuffix(baseURL, "/"),
		headers: headers,
	}
}

// ParseRepoURL extracts owner and repository from a github.com URL such as
// https://github.com/hashicorp/terraform/releases.
func ParseRepoURL(rawURL string) (owner, repo string, ok bool) {
	m := repoURLPattern.FindStringSubmatch(rawURL)
	if len(m) < 3 {
		return "", "", false
	}
	return m[1], strings.TrimSuffix(m[2], ".git"), true
}

// ReleasesURL returns the API URL listing the releases of owner/repo.
func (c *Client) ReleasesURL(owner, repo string) string {
	return fmt.Sprintf("%s/repos/%s/%s/releases?per_page=100", c.baseURL, owner, repo)
}

// FetchReleases lists the most recent releases of owner/repo, drafts excluded.
func (c *Client) FetchReleases(ctx context.Context, owner, repo string) ([]Release, error) {
	var data []Release
	if err := c.GetJSON(ctx, c.ReleasesURL(owner, repo), c.headers, &data); err != nil {
		if errors.Is(err, integrations.ErrNotFound) {
			return nil, fmt.Errorf("%w: github repo %s/%s", err, owner, repo)
		}
		return nil, err
	}

	out := data[:0]
	for _, r := range data {
		if !r.Draft {
			out = append(out, r)
		}
	}
	return out, nil
}

// ListReleases returns the releases of repo given as "owner/name", titled by
// release name so that tags like "release-1.2" still expose a version.
func (c *Client) ListReleases(ctx context.Context, repo string) ([]integrations.Release, error) {
	owner, name, ok := strings.Cut(repo, "/")
	if !ok {
		return nil, fmt.Errorf("github repository %q: want owner/name", repo)
	}
	data, err := c.FetchReleases(ctx, owner, name)
	if err != nil {
		return nil, err
	}
	out := make([]integrations.Release, len(data))
	for i, r := range data {
		out[i] = integrations.Release{
			Version:    r.Title(),
			Published:  r.PublishedAt,
			Prerelease: r.Prerelease,
			URL:        r.HTMLURL,
		}
	}
	return out, nil
}
