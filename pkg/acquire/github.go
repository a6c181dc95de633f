package acquire

import (
	"context"
	"fmt"

	"github.com/matzehuels/tagscout/pkg/dom"
	"github.com/matzehuels/tagscout/pkg/ecosystem"
	"github.com/matzehuels/tagscout/pkg/filter"
	"github.com/matzehuels/tagscout/pkg/integrations/github"
)

var releaseCardSelectors = []string{
	`article[data-test-selector="release-card"]`,
	`.release`,
	`[class*="release"]`,
	`section`,
}

const (
	releaseTitleSelector = `h1, h2, h3, .title, [class*="title"]`
	releaseDateSelector  = `time, relative-time, .date, [datetime], [class*="date"]`
	releaseLinkSelector  = `a[href*="tag/"]`
)

func githubChain(e *Env) []Strategy {
	return []Strategy{
		githubAPI{env: e},
		githubCards{env: e},
		textScan{env: e},
	}
}

// recency returns the filter options of high-volume release feeds.
func (e *Env) recency() filter.Options {
	r := filter.DefaultRecency
	return filter.Options{Recency: &r, Now: e.now()}
}

// githubAPI reads the releases API of the repository the URL names.
type githubAPI struct{ env *Env }

func (githubAPI) Name() string { return "github-api" }

func (s githubAPI) Resolve(ctx context.Context, d ecosystem.Descriptor) (*Result, error) {
	owner, repo, ok := github.ParseRepoURL(d.URL)
	if !ok {
		return nil, fmt.Errorf("not a github repository url: %s", d.URL)
	}
	ex, err := ecosystem.ExtractorFor(d)
	if err != nil {
		return nil, err
	}
	rels, err := s.env.GitHub.ListReleases(ctx, owner+"/"+repo)
	if err != nil {
		return nil, err
	}
	return pick(ex, d, releaseRaws(rels, s.Name()), s.env.recency()), nil
}

// githubCards scrapes release cards from the releases page.
type githubCards struct{ env *Env }

func (githubCards) Name() string { return "github-cards" }

func (s githubCards) Resolve(ctx context.Context, d ecosystem.Descriptor) (*Result, error) {
	doc, err := s.env.page(ctx, d.URL)
	if err != nil {
		return nil, err
	}
	ex, err := ecosystem.ExtractorFor(d)
	if err != nil {
		return nil, err
	}

	var raws []ecosystem.RawCandidate
	doc.FirstMatch(releaseCardSelectors...).Each(func(_ int, card dom.Selection) {
		title := card.Find(releaseTitleSelector).First()
		if title.Len() == 0 {
			return
		}
		raw := ecosystem.RawCandidate{Text: title.Text(), Origin: s.Name()}
		if date := card.Find(releaseDateSelector).First(); date.Len() > 0 {
			raw.Timestamp = dateText(date)
		}
		if link := card.Find(releaseLinkSelector).First(); link.Len() > 0 {
			raw.Locator = link.Link()
		}
		raws = append(raws, raw)
	})
	return pick(ex, d, raws, s.env.recency()), nil
}
