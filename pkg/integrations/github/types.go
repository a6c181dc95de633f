package github

// Release is a published GitHub release.
type Release struct {
	TagName     string `json:"tag_name"`
	Name        string `json:"name"`
	PublishedAt string `json:"published_at"` // RFC 3339, empty for drafts
	Prerelease  bool   `json:"prerelease"`
	Draft       bool   `json:"draft"`
	HTMLURL     string `json:"html_url"`
}

// Title returns the release name, or the tag when the release is unnamed.
func (r Release) Title() string {
	if r.Name != "" {
		return r.Name
	}
	return r.TagName
}
