package acquire

import (
	"context"
	"strings"

	"github.com/matzehuels/tagscout/pkg/ecosystem"
	"github.com/matzehuels/tagscout/pkg/filter"
	"github.com/matzehuels/tagscout/pkg/integrations/dockerhub"
)

// tagRowSelectors locate tag rows on a Docker Hub tags page, most specific
// first. The page layout changes often, so the table fallbacks matter.
var tagRowSelectors = []string{
	`[data-testid*="tag"]`,
	`[class*="tag"]`,
	`tr[data-testid]`,
	`.MuiTableRow-root`,
	`.tag-list-item`,
	`.tag-item`,
	`tbody tr`,
	`table tr`,
}

const tagDateSelector = `[class*="date"], [class*="time"], time`

func dockerChain(e *Env) []Strategy {
	return []Strategy{
		dockerAPI{env: e},
		dockerTagsPage{env: e},
		textScan{
			env:     e,
			name:    "docker-main-page",
			pageURL: func(d ecosystem.Descriptor) string { return dockerhub.MainPageURL(d.URL) },
			locate:  pullCommand,
		},
		releasePage{env: e},
	}
}

func pullCommand(d ecosystem.Descriptor, v string) string {
	return dockerhub.PullCommand(d.Image(), v)
}

// dockerAPI reads the tag listing API. Sub-queries run in order until one
// yields a version; a sub-query fault only fails the strategy when no
// sub-query answered.
type dockerAPI struct{ env *Env }

func (dockerAPI) Name() string { return "docker-api" }

func (s dockerAPI) Resolve(ctx context.Context, d ecosystem.Descriptor) (*Result, error) {
	ex, err := ecosystem.ExtractorFor(d)
	if err != nil {
		return nil, err
	}
	image := d.Image()

	var outcome missOrErr
	for _, q := range dockerhub.Queries() {
		list, err := s.env.DockerHub.FetchTags(ctx, image, q)
		outcome.record(err)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			s.env.logger().Debug("tag query failed", "image", image, "query", q, "err", err)
			continue
		}

		raws := make([]ecosystem.RawCandidate, len(list.Results))
		for i, t := range list.Results {
			raws[i] = ecosystem.RawCandidate{
				Text:      t.Name,
				Timestamp: t.LastUpdated,
				Origin:    s.Name(),
				Locator:   dockerhub.PullCommand(image, t.Name),
			}
		}
		if res := pick(ex, d, raws, filter.Options{}); res != nil {
			return res, nil
		}
	}
	return nil, outcome.result()
}

// dockerTagsPage scrapes the rows of the human-facing tags page and falls
// back to a text scan of the same page.
type dockerTagsPage struct{ env *Env }

func (dockerTagsPage) Name() string { return "docker-tags-page" }

func (s dockerTagsPage) Resolve(ctx context.Context, d ecosystem.Descriptor) (*Result, error) {
	doc, err := s.env.page(ctx, dockerhub.TagsPageURL(d.URL))
	if err != nil {
		return nil, err
	}
	ex, err := ecosystem.ExtractorFor(d)
	if err != nil {
		return nil, err
	}

	rows := doc.FirstMatch(tagRowSelectors...)
	res := pick(ex, d, elementRaws(rows, tagDateSelector, s.Name()), filter.Options{})
	if res == nil {
		res = pick(ex, d, textRaws(doc, s.Name()), filter.Options{})
	}
	if res != nil {
		res.Locator = pullCommand(d, res.Version)
	}
	return res, nil
}

// releasePage reads the upstream release page of an official image.
// Images without a known page miss cleanly.
type releasePage struct{ env *Env }

func (releasePage) Name() string { return "release-page" }

func (s releasePage) Resolve(ctx context.Context, d ecosystem.Descriptor) (*Result, error) {
	image := d.Image()
	rp, ok := s.env.ReleasePages[image]
	if !ok {
		return nil, nil
	}
	doc, err := s.env.page(ctx, rp.URL)
	if err != nil {
		return nil, err
	}
	ex, err := ecosystem.ExtractorFor(d)
	if err != nil {
		return nil, err
	}

	var raws []ecosystem.RawCandidate
	for _, line := range strings.Split(doc.Text(), "\n") {
		if line = ecosystem.Clean(line); line != "" {
			raws = append(raws, ecosystem.RawCandidate{Text: line, Timestamp: line, Origin: rp.URL})
		}
	}
	res := pick(ex, d, raws, filter.Options{})
	if res == nil {
		return nil, nil
	}
	res.Locator = pullCommand(d, res.Version)
	res.Note = "Cross-validated from " + rp.Name
	return res, nil
}
