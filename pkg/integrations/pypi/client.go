package pypi

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/matzehuels/tagscout/pkg/integrations"
)

// DefaultBaseURL is the PyPI origin.
const DefaultBaseURL = "https://pypi.org"

// Project holds the release history of a PyPI project.
type Project struct {
	Name     string                 // Display name as published
	Latest   string                 // Version PyPI reports as current (info.version)
	Releases []integrations.Release // Sorted by version string for a stable order
}

// Client provides access to the PyPI JSON API.
// All methods are safe for concurrent use by multiple goroutines.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates a PyPI client on top of base. An empty baseURL uses
// [DefaultBaseURL].
func NewClient(base *integrations.Client, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		Client:  base.WithNamespace("pypi"),
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

// ProjectURL returns the JSON API URL of project pkg.
func (c *Client) ProjectURL(pkg string) string {
	return fmt.Sprintf("%s/pypi/%s/json", c.baseURL, integrations.NormalizePkgName(pkg))
}

// FetchProject retrieves the release history of pkg. The name is normalized
// following PEP 503.
//
// Returns [integrations.ErrNotFound] if the project does not exist and
// [integrations.ErrDecode] for malformed responses.
func (c *Client) FetchProject(ctx context.Context, pkg string) (*Project, error) {
	var data apiResponse
	if err := c.GetJSON(ctx, c.ProjectURL(pkg), nil, &data); err != nil {
		if errors.Is(err, integrations.ErrNotFound) {
			return nil, fmt.Errorf("%w: pypi project %s", err, pkg)
		}
		return nil, err
	}

	p := &Project{Name: data.Info.Name, Latest: data.Info.Version}
	for v, files := range data.Releases {
		p.Releases = append(p.Releases, newRelease(v, files))
	}
	sort.Slice(p.Releases, func(i, j int) bool { return p.Releases[i].Version < p.Releases[j].Version })
	return p, nil
}

// ListReleases returns every release of pkg.
func (c *Client) ListReleases(ctx context.Context, pkg string) ([]integrations.Release, error) {
	p, err := c.FetchProject(ctx, pkg)
	if err != nil {
		return nil, err
	}
	return p.Releases, nil
}

// newRelease builds a release from its files. Published is the earliest
// upload of any file, Yanked is set when every file was yanked.
func newRelease(v string, files []apiFile) integrations.Release {
	r := integrations.Release{Version: v, Yanked: len(files) > 0}
	for _, f := range files {
		ts := f.UploadTimeISO
		if ts == "" {
			ts = f.UploadTime
		}
		if ts != "" && (r.Published == "" || ts < r.Published) {
			r.Published = ts
		}
		if !f.Yanked {
			r.Yanked = false
		}
	}
	return r
}

type apiResponse struct {
	Info     apiInfo              `json:"info"`
	Releases map[string][]apiFile `json:"releases"`
}

type apiInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

type apiFile struct {
	UploadTime    string `json:"upload_time"`
	UploadTimeISO string `json:"upload_time_iso_8601"`
	Yanked        bool   `json:"yanked"`
}
