package maven

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"strings"

	"github.com/matzehuels/tagscout/pkg/integrations"
)

// DefaultBaseURL is the Maven Central repository root.
const DefaultBaseURL = "https://repo1.maven.org/maven2"

// Coordinate identifies an artifact as "groupId:artifactId".
type Coordinate struct {
	GroupID    string
	ArtifactID string
}

// ParseCoordinate parses "groupId:artifactId".
func ParseCoordinate(s string) (Coordinate, error) {
	group, artifact, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok || group == "" || artifact == "" {
		return Coordinate{}, fmt.Errorf("maven coordinate %q: want groupId:artifactId", s)
	}
	return Coordinate{GroupID: group, ArtifactID: artifact}, nil
}

func (c Coordinate) String() string { return c.GroupID + ":" + c.ArtifactID }

func (c Coordinate) path() string {
	return strings.ReplaceAll(c.GroupID, ".", "/") + "/" + c.ArtifactID
}

// Client reads maven-metadata.xml files from a Maven repository.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates a Maven repository client on top of base. An empty
// baseURL uses [DefaultBaseURL].
func NewClient(base *integrations.Client, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		Client:  base.WithNamespace("maven"),
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

// MetadataURL returns the location of the artifact's maven-metadata.xml.
func (c *Client) MetadataURL(coord Coordinate) string {
	return fmt.Sprintf("%s/%s/maven-metadata.xml", c.baseURL, coord.path())
}

// ListReleases returns the versions listed in the artifact metadata of
// coordinate ("groupId:artifactId"). Maven metadata carries no per-version
// timestamps.
func (c *Client) ListReleases(ctx context.Context, coordinate string) ([]integrations.Release, error) {
	coord, err := ParseCoordinate(coordinate)
	if err != nil {
		return nil, err
	}

	url := c.MetadataURL(coord)
	body, err := c.GetBytes(ctx, url, map[string]string{"Accept": "application/xml"})
	if err != nil {
		if errors.Is(err, integrations.ErrNotFound) {
			return nil, fmt.Errorf("%w: maven artifact %s", err, coord)
		}
		return nil, err
	}

	var meta metadata
	if err := xml.Unmarshal(body, &meta); err != nil {
		_ = c.Invalidate(ctx, url)
		return nil, fmt.Errorf("%w: %s: %v", integrations.ErrDecode, url, err)
	}

	out := make([]integrations.Release, 0, len(meta.Versioning.Versions))
	for _, v := range meta.Versioning.Versions {
		out = append(out, integrations.Release{
			Version:    v,
			Prerelease: strings.HasSuffix(v, "-SNAPSHOT"),
			URL:        fmt.Sprintf("%s/%s/%s/", c.baseURL, coord.path(), v),
		})
	}
	return out, nil
}

type metadata struct {
	XMLName    xml.Name `xml:"metadata"`
	Versioning struct {
		Latest      string   `xml:"latest"`
		Release     string   `xml:"release"`
		Versions    []string `xml:"versions>version"`
		LastUpdated string   `xml:"lastUpdated"`
	} `xml:"versioning"`
}
