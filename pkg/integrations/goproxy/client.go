package goproxy

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/matzehuels/tagscout/pkg/integrations"
)

// DefaultBaseURL is the public Go module proxy.
const DefaultBaseURL = "https://proxy.golang.org"

// Client lists module versions through the GOPROXY protocol.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates a module proxy client on top of base. An empty baseURL
// uses [DefaultBaseURL].
func NewClient(base *integrations.Client, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		Client:  base.WithNamespace("goproxy"),
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

// ListReleases returns the tagged versions of module mod from the
// "@v/list" endpoint. The proxy reports no publish times. Versions keep
// their "v" prefix.
func (c *Client) ListReleases(ctx context.Context, mod string) ([]integrations.Release, error) {
	mod = strings.TrimSpace(mod)
	url := fmt.Sprintf("%s/%s/@v/list", c.baseURL, escapePath(mod))

	body, err := c.GetText(ctx, url, nil)
	if err != nil {
		if errors.Is(err, integrations.ErrNotFound) {
			return nil, fmt.Errorf("%w: module %s", err, mod)
		}
		return nil, err
	}

	var out []integrations.Release
	sc := bufio.NewScanner(strings.NewReader(body))
	for sc.Scan() {
		v := strings.TrimSpace(sc.Text())
		if v == "" {
			continue
		}
		out = append(out, integrations.Release{
			Version:    v,
			Prerelease: strings.Contains(v, "-"),
			URL:        fmt.Sprintf("https://pkg.go.dev/%s@%s", mod, v),
		})
	}
	return out, sc.Err()
}

// escapePath applies the module proxy case encoding: every uppercase letter
// becomes "!" followed by its lowercase form.
func escapePath(path string) string {
	var b strings.Builder
	for _, r := range path {
		if r >= 'A' && r <= 'Z' {
			b.WriteByte('!')
			b.WriteRune(r + ('a' - 'A'))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
