package dockerhub

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kaptinlin/jsonschema"

	"github.com/matzehuels/tagscout/pkg/integrations"
)

// DefaultBaseURL is the Docker Hub origin.
const DefaultBaseURL = "https://hub.docker.com"

// queries are the tag listing sub-queries in priority order.
var queries = []string{
	"page_size=1000",
	"page_size=500&ordering=-last_updated",
	"page_size=500&ordering=-name",
}

// Queries returns the tag listing sub-queries in the order they are tried.
func Queries() []string { return append([]string(nil), queries...) }

// Tag is one entry of a tag listing.
type Tag struct {
	Name        string `json:"name"`
	LastUpdated string `json:"last_updated"`
}

// TagList is a page of the tag listing API.
type TagList struct {
	Count   int    `json:"count"`
	Next    string `json:"next"`
	Results []Tag  `json:"results"`
}

const tagListSchemaJSON = `{
  "type": "object",
  "required": ["results"],
  "properties": {
    "count": {"type": "integer"},
    "next": {"type": ["string", "null"]},
    "results": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["name"],
        "properties": {
          "name": {"type": "string"},
          "last_updated": {"type": ["string", "null"]}
        }
      }
    }
  }
}`

var tagListSchema = mustCompile(tagListSchemaJSON)

func mustCompile(schema string) *jsonschema.Schema {
	s, err := jsonschema.NewCompiler().Compile([]byte(schema))
	if err != nil {
		panic(fmt.Sprintf("dockerhub: compile tag list schema: %v", err))
	}
	return s
}

// Client reads Docker Hub tag listings.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates a Docker Hub client on top of base. An empty baseURL
// uses [DefaultBaseURL].
func NewClient(base *integrations.Client, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		Client:  base.WithNamespace("dockerhub"),
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

// TagsURL returns the API URL listing the tags of an official image with
// the given query string.
func (c *Client) TagsURL(image, query string) string {
	return fmt.Sprintf("%s/v2/repositories/library/%s/tags/?%s", c.baseURL, strings.ToLower(image), query)
}

// FetchTags requests one tag listing. A response that is not JSON or does
// not match the listing schema yields an error wrapping
// [integrations.ErrDecode].
func (c *Client) FetchTags(ctx context.Context, image, query string) (*TagList, error) {
	url := c.TagsURL(image, query)
	body, err := c.GetBytes(ctx, url, map[string]string{"Accept": "application/json"})
	if err != nil {
		return nil, err
	}

	if err := validate(body); err != nil {
		_ = c.Invalidate(ctx, url)
		return nil, fmt.Errorf("%w: %s: %v", integrations.ErrDecode, url, err)
	}

	var list TagList
	if err := json.Unmarshal(body, &list); err != nil {
		_ = c.Invalidate(ctx, url)
		return nil, fmt.Errorf("%w: %s: %v", integrations.ErrDecode, url, err)
	}
	return &list, nil
}

func validate(body []byte) error {
	if !json.Valid(body) {
		return fmt.Errorf("malformed json")
	}
	result := tagListSchema.ValidateJSON(body)
	if !result.IsValid() {
		return fmt.Errorf("schema validation failed: %v", result.Errors)
	}
	return nil
}

// TagsPageURL returns the human-facing tags page of an image.
func TagsPageURL(pageURL string) string {
	if strings.Contains(pageURL, "/tags") {
		return pageURL
	}
	return strings.TrimSuffix(pageURL, "/") + "/tags"
}

// MainPageURL strips the tags suffix from a Docker Hub page URL.
func MainPageURL(pageURL string) string {
	return strings.TrimSuffix(strings.Replace(pageURL, "/tags", "", 1), "/")
}

// PullCommand returns the command that fetches image at tag.
func PullCommand(image, tag string) string {
	return "docker pull " + image + ":" + tag
}
